package game

import (
	"github.com/sirupsen/logrus"
)

// SquadState is one side of a match: a commander, an ordered fighter roster,
// a healer and a runner. Roster order is fixed at construction.
type SquadState struct {
	Team      Team
	Commander *Unit
	Fighters  []*Unit
	Healer    *Unit
	Runner    *Unit

	sidearmIssued bool
}

// SquadSetup places a squad and sets its fighter kit.
type SquadSetup struct {
	Commander Cell
	Fighters  []Cell
	Healer    Cell
	Runner    Cell
	Loadout   Loadout
}

// DefaultSquadSetup returns the standard starting layout for a team on a
// grid of the given size. Blue mirrors red from the far corner.
func DefaultSquadSetup(team Team, cols, rows int) SquadSetup {
	if team == TeamRed {
		return SquadSetup{
			Commander: Cell{2, 2},
			Fighters:  []Cell{{3, 3}, {3, 5}},
			Healer:    Cell{2, 4},
			Runner:    Cell{2, 6},
			Loadout:   DefaultLoadout(),
		}
	}
	return SquadSetup{
		Commander: Cell{cols - 3, rows - 3},
		Fighters:  []Cell{{cols - 4, rows - 4}, {cols - 4, rows - 6}},
		Healer:    Cell{cols - 3, rows - 4},
		Runner:    Cell{cols - 3, rows - 6},
		Loadout:   DefaultLoadout(),
	}
}

// NewSquad creates a squad on g. Positions off passable ground are nudged to
// the nearest passable cell. Only fighters carry the loadout; the commander
// starts unarmed and support units carry nothing.
func NewSquad(g *Grid, team Team, setup SquadSetup, rules Rules) *SquadState {
	cd := rules.ResupplyCooldown
	sq := &SquadState{
		Team:      team,
		Commander: newUnit(unitLabel(team, RoleCommander, 0), team, RoleCommander, g.nearestPassableOrSelf(setup.Commander), rules.MaxHP, 0, 0, cd),
		Healer:    newUnit(unitLabel(team, RoleHealer, 0), team, RoleHealer, g.nearestPassableOrSelf(setup.Healer), rules.MaxHP, 0, 0, cd),
		Runner:    newUnit(unitLabel(team, RoleRunner, 0), team, RoleRunner, g.nearestPassableOrSelf(setup.Runner), rules.MaxHP, 0, 0, cd),
	}
	lo := setup.Loadout
	for i, c := range setup.Fighters {
		f := newUnit(unitLabel(team, RoleFighter, i), team, RoleFighter, g.nearestPassableOrSelf(c), lo.HP, lo.Ammo, lo.Grenades, cd)
		sq.Fighters = append(sq.Fighters, f)
	}
	return sq
}

// Units returns every unit in lookup order: commander, healer, runner, fighters.
func (sq *SquadState) Units() []*Unit {
	out := make([]*Unit, 0, 3+len(sq.Fighters))
	out = append(out, sq.Commander, sq.Healer, sq.Runner)
	return append(out, sq.Fighters...)
}

// UnitAt returns the first in-play unit standing on c.
func (sq *SquadState) UnitAt(c Cell) (*Unit, bool) {
	for _, u := range sq.Units() {
		if u.InPlay() && u.Pos == c {
			return u, true
		}
	}
	return nil, false
}

// InPlayPositions lists the cells of all in-play units in lookup order.
func (sq *SquadState) InPlayPositions() []Cell {
	var out []Cell
	for _, u := range sq.Units() {
		if u.InPlay() {
			out = append(out, u.Pos)
		}
	}
	return out
}

// FightersAlive counts fighters whose alive flag is set, incapacitated included.
func (sq *SquadState) FightersAlive() int {
	n := 0
	for _, f := range sq.Fighters {
		if f.Alive {
			n++
		}
	}
	return n
}

// FightersInPlay counts conscious fighters.
func (sq *SquadState) FightersInPlay() int {
	n := 0
	for _, f := range sq.Fighters {
		if f.InPlay() {
			n++
		}
	}
	return n
}

// TotalHP sums hit points over the whole squad.
func (sq *SquadState) TotalHP() int {
	total := 0
	for _, u := range sq.Units() {
		total += u.HP
	}
	return total
}

// squadContext is what one squad's decision cycle reads. The risk field is
// built for this squad alone from its own enemy snapshot.
type squadContext struct {
	grid    *Grid
	rules   Rules
	tick    int
	enemies []Cell
	risk    *RiskField
	events  *SimLog
	log     logrus.FieldLogger
}

// SquadThink runs one decision cycle: healer dispatch, runner dispatch,
// fighter movement, commander self-preservation, visibility aggregation.
func (sq *SquadState) SquadThink(ctx *squadContext) {
	sq.dispatchHealer(ctx)
	sq.dispatchRunner(ctx)
	for _, f := range sq.Fighters {
		sq.moveFighter(ctx, f)
	}
	sq.commanderThink(ctx)
	sq.refreshVisibility()
}

func (sq *SquadState) moveFighter(ctx *squadContext, f *Unit) {
	if !f.InPlay() {
		f.Path, f.PathIndex = nil, 0
		return
	}
	r := ctx.rules

	if f.HP <= r.CriticalHP {
		safe, ok := FindNearestSafeCell(ctx.grid, f.Pos, ctx.risk, r.MaxSafeRisk, r.SafeSearchRadius)
		if !ok || safe == f.Pos {
			f.Path, f.PathIndex = nil, 0
			return
		}
		from := f.Pos
		if f.stepTo(FindPath(ctx.grid, f.Pos, safe, ctx.risk, r.RetreatRiskWeight)) {
			ctx.events.AddVerbose(ctx.tick, f.Label, f.Team.String(), CatState, "retreat", from.String()+" -> "+f.Pos.String(), float64(f.HP))
		}
		return
	}

	if f.Ammo > 0 && inCombatRange(ctx, f.Pos) {
		f.Path, f.PathIndex = nil, 0
		return
	}
	if f.Ammo == 0 && f.Grenades == 0 {
		f.Path, f.PathIndex = nil, 0
		return
	}

	target, ok := nearestCell(f.Pos, ctx.enemies)
	if !ok {
		f.Path, f.PathIndex = nil, 0
		return
	}
	from := f.Pos
	if f.stepTo(FindPath(ctx.grid, f.Pos, target, ctx.risk, r.AdvanceRiskWeight)) {
		ctx.events.AddVerbose(ctx.tick, f.Label, f.Team.String(), CatState, "advance", from.String()+" -> "+f.Pos.String(), 0)
	}
}

func (sq *SquadState) commanderThink(ctx *squadContext) {
	c := sq.Commander
	if !c.InPlay() {
		return
	}
	r := ctx.rules

	if !sq.sidearmIssued && sq.FightersAlive() == 0 {
		sq.sidearmIssued = true
		c.Ammo = r.CommanderSidearmRounds
		c.StartAmmo = r.CommanderSidearmRounds
		ctx.events.unitEvent(ctx.tick, c, CatState, "last_stand", "fighter roster dead", float64(c.Ammo))
		ctx.log.WithFields(logrus.Fields{"team": sq.Team.String(), "unit": c.Label}).Info("Commander draws sidearm.")
	}

	if ctx.risk.At(c.Pos) <= r.CommanderRiskThreshold {
		return
	}
	safe, ok := FindNearestSafeCell(ctx.grid, c.Pos, ctx.risk, r.MaxSafeRisk, r.SafeSearchRadius)
	if !ok || safe == c.Pos {
		return
	}
	from := c.Pos
	if c.stepTo(FindPath(ctx.grid, c.Pos, safe, ctx.risk, r.CommanderRiskWeight)) {
		ctx.events.AddVerbose(ctx.tick, c.Label, c.Team.String(), CatState, "evade", from.String()+" -> "+c.Pos.String(), ctx.risk.At(from))
	}
}

// refreshVisibility rebuilds the commander's list of conscious squadmates.
// The previous tick's slice is left untouched.
func (sq *SquadState) refreshVisibility() {
	c := sq.Commander
	c.Visible = make([]Cell, 0, len(sq.Fighters)+2)
	for _, f := range sq.Fighters {
		if f.InPlay() {
			c.Visible = append(c.Visible, f.Pos)
		}
	}
	if sq.Healer.InPlay() {
		c.Visible = append(c.Visible, sq.Healer.Pos)
	}
	if sq.Runner.InPlay() {
		c.Visible = append(c.Visible, sq.Runner.Pos)
	}
}
