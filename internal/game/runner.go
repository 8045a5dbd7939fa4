package game

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// fighterNeedingResupply finds at most one conscious fighter past its
// resupply cooldown. Fighters out of both ammo and grenades come first;
// after that any fighter with one resource gone or ammo running low.
func (sq *SquadState) fighterNeedingResupply(tick int, r Rules) (*Unit, bool) {
	for _, f := range sq.Fighters {
		if f.InPlay() && f.Ammo == 0 && f.Grenades == 0 && f.ResupplyReady(tick, r.ResupplyCooldown) {
			return f, true
		}
	}
	for _, f := range sq.Fighters {
		if !f.InPlay() || !f.ResupplyReady(tick, r.ResupplyCooldown) {
			continue
		}
		if f.Ammo == 0 || f.Grenades == 0 || f.Ammo < r.LowAmmo {
			return f, true
		}
	}
	return nil, false
}

// dispatchRunner moves the runner one step or hands over supplies. Supplies
// are thrown: the runner only needs to be near its depot and within throwing
// reach of the fighter.
func (sq *SquadState) dispatchRunner(ctx *squadContext) {
	target, ok := sq.fighterNeedingResupply(ctx.tick, ctx.rules)
	if !ok {
		return
	}
	rn := sq.Runner
	if !rn.InPlay() {
		return
	}
	r := ctx.rules
	depot := ctx.grid.Depots().Ammo(sq.Team)
	nearDepot := rn.Pos.Manhattan(depot) <= r.RunnerDepotReach

	if nearDepot && rn.Pos.Manhattan(target.Pos) <= r.RunnerThrowReach {
		ammo, gren := target.Ammo, target.Grenades
		target.Resupply(ctx.tick)
		ctx.events.unitEvent(ctx.tick, target, CatSupply, "resupply",
			fmt.Sprintf("ammo %d -> %d, grenades %d -> %d by %s", ammo, target.Ammo, gren, target.Grenades, rn.Label),
			float64(target.Resupplies))
		ctx.log.WithFields(logrus.Fields{"team": sq.Team.String(), "unit": target.Label}).Debug("Fighter resupplied.")
		return
	}

	goal := depot
	if nearDepot {
		goal = target.Pos
	}
	rn.stepTo(FindPath(ctx.grid, rn.Pos, goal, ctx.risk, r.SupportRiskWeight))
}
