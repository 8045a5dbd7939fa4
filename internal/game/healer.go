package game

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// selectPatient picks the fighter the healer should treat. Any incapacitated
// fighter comes first, nearest to from. Otherwise a conscious fighter below
// the heal threshold is chosen: the lowest on hit points when lowestHP is
// set, else the nearest.
func (sq *SquadState) selectPatient(from Cell, threshold int, lowestHP bool) (*Unit, bool) {
	var down *Unit
	for _, f := range sq.Fighters {
		if f.Alive && f.Incapacitated {
			if down == nil || from.Manhattan(f.Pos) < from.Manhattan(down.Pos) {
				down = f
			}
		}
	}
	if down != nil {
		return down, true
	}

	var hurt *Unit
	for _, f := range sq.Fighters {
		if !f.InPlay() || f.HP >= threshold {
			continue
		}
		switch {
		case hurt == nil:
			hurt = f
		case lowestHP && f.HP < hurt.HP:
			hurt = f
		case !lowestHP && from.Manhattan(f.Pos) < from.Manhattan(hurt.Pos):
			hurt = f
		}
	}
	return hurt, hurt != nil
}

func (sq *SquadState) setHealerState(ctx *squadContext, next HealerState) {
	h := sq.Healer
	if h.HealerState == next {
		return
	}
	ctx.events.AddVerbose(ctx.tick, h.Label, h.Team.String(), CatState, "healer_state",
		fmt.Sprintf("%s -> %s", h.HealerState, next), 0)
	h.HealerState = next
}

// dispatchHealer advances the healer state machine by one tick:
// idle -> going_to_depot -> going_to_patient -> healing -> idle.
func (sq *SquadState) dispatchHealer(ctx *squadContext) {
	h := sq.Healer
	if !h.InPlay() {
		return
	}
	r := ctx.rules

	switch h.HealerState {
	case HealerIdle:
		if p, ok := sq.selectPatient(h.Pos, r.HealThreshold, true); ok {
			h.Patient = p.Pos
			sq.setHealerState(ctx, HealerGoingToDepot)
		}

	case HealerGoingToDepot:
		depot := ctx.grid.Depots().Medical(sq.Team)
		if h.Pos != depot && !h.stepTo(FindPath(ctx.grid, h.Pos, depot, ctx.risk, r.SupportRiskWeight)) {
			sq.setHealerState(ctx, HealerIdle)
			return
		}
		if h.Pos == depot {
			sq.setHealerState(ctx, HealerGoingToPatient)
		}

	case HealerGoingToPatient:
		p, ok := sq.selectPatient(h.Pos, r.HealThreshold, false)
		if !ok {
			sq.setHealerState(ctx, HealerIdle)
			return
		}
		h.Patient = p.Pos
		if h.Pos.Manhattan(p.Pos) <= 1 {
			sq.setHealerState(ctx, HealerHealing)
			sq.treat(ctx, p)
			return
		}
		if !h.stepTo(FindPath(ctx.grid, h.Pos, p.Pos, ctx.risk, r.SupportRiskWeight)) {
			sq.setHealerState(ctx, HealerIdle)
		}

	case HealerHealing:
		sq.setHealerState(ctx, HealerIdle)
	}
}

// treat applies the healer's effect: a revive for a downed fighter, a full
// heal otherwise.
func (sq *SquadState) treat(ctx *squadContext, p *Unit) {
	fields := logrus.Fields{"team": sq.Team.String(), "unit": p.Label}
	if p.Incapacitated {
		if p.Revive(ctx.rules.MaxRevives) {
			ctx.events.unitEvent(ctx.tick, p, CatMedical, "revive", fmt.Sprintf("by %s (%d/%d)", sq.Healer.Label, p.Revives, ctx.rules.MaxRevives), float64(p.HP))
			ctx.log.WithFields(fields).Debug("Fighter revived.")
			return
		}
		ctx.events.unitEvent(ctx.tick, p, CatCombat, "death", "revive limit reached", 0)
		ctx.log.WithFields(fields).Info("Fighter lost, revive limit reached.")
		return
	}
	before := p.HP
	p.Heal()
	ctx.events.unitEvent(ctx.tick, p, CatMedical, "heal", fmt.Sprintf("%d -> %d by %s", before, p.HP, sq.Healer.Label), float64(p.HP-before))
	ctx.log.WithFields(fields).Debug("Fighter healed.")
}
