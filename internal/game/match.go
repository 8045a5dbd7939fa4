package game

import (
	"fmt"
	"io"
	"slices"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Match ties one grid and two squads together and advances them tick by
// tick. It is owned by a single driver; readers may query it between ticks.
type Match struct {
	ID     string
	SimLog *SimLog

	grid   *Grid
	rules  Rules
	red    *SquadState
	blue   *SquadState
	combat *CombatManager

	running   bool
	tick      int
	outcome   BattleOutcomeReason
	stalemate stalemateTracker

	diagEvery int
	baseLog   logrus.FieldLogger
	log       logrus.FieldLogger

	redSetup     SquadSetup
	blueSetup    SquadSetup
	customRoster map[Team]bool
}

// NewMatch builds a match on g. Options apply in two passes: infrastructure
// (rules, logger, identity) first, then loadouts and placement.
func NewMatch(g *Grid, opts ...MatchOption) (*Match, error) {
	if g == nil || g.Cols <= 0 || g.Rows <= 0 {
		return nil, ErrEmptyGrid
	}
	m := &Match{
		grid:         g,
		rules:        DefaultRules(),
		SimLog:       NewSimLog(false),
		redSetup:     DefaultSquadSetup(TeamRed, g.Cols, g.Rows),
		blueSetup:    DefaultSquadSetup(TeamBlue, g.Cols, g.Rows),
		customRoster: map[Team]bool{},
	}
	for _, o := range opts {
		if o.kind == matchOptInfra {
			o.fn(m)
		}
	}
	for _, o := range opts {
		if o.kind == matchOptSquad {
			o.fn(m)
		}
	}
	if m.rules.MaxTicks <= 0 || m.rules.StalemateTicks <= 0 {
		return nil, fmt.Errorf("match rules: max ticks %d and stalemate ticks %d must be positive", m.rules.MaxTicks, m.rules.StalemateTicks)
	}

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.baseLog == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		m.baseLog = discard
	}
	m.log = m.baseLog.WithField("match_id", m.ID)

	m.red = NewSquad(g, TeamRed, m.redSetup, m.rules)
	m.blue = NewSquad(g, TeamBlue, m.blueSetup, m.rules)
	m.combat = NewCombatManager(m.rules)
	m.stalemate = newStalemateTracker(m.red, m.blue)
	m.running = true
	m.red.refreshVisibility()
	m.blue.refreshVisibility()

	m.log.WithFields(logrus.Fields{
		"cols":          g.Cols,
		"rows":          g.Rows,
		"red_fighters":  len(m.red.Fighters),
		"blue_fighters": len(m.blue.Fighters),
	}).Debug("Match created.")
	return m, nil
}

func (m *Match) setup(team Team) *SquadSetup {
	if team == TeamRed {
		return &m.redSetup
	}
	return &m.blueSetup
}

// --- read-only queries ---

// Grid returns the static map.
func (m *Match) Grid() *Grid { return m.grid }

// Rules returns the rule set in force.
func (m *Match) Rules() Rules { return m.rules }

// Squad returns the squad of one team.
func (m *Match) Squad(team Team) *SquadState {
	if team == TeamRed {
		return m.red
	}
	return m.blue
}

// Tracers returns the live bullet tracers.
func (m *Match) Tracers() []*Tracer { return m.combat.Tracers() }

// Grenades returns the grenades in flight.
func (m *Match) Grenades() []*Grenade { return m.combat.Grenades() }

// Running reports whether further ticks will be processed.
func (m *Match) Running() bool { return m.running }

// Tick returns the number of ticks processed so far.
func (m *Match) Tick() int { return m.tick }

// Outcome returns the result. It is inconclusive while the match runs.
func (m *Match) Outcome() BattleOutcomeReason { return m.outcome }

// StalemateTicks returns how many consecutive ticks passed without a change
// in either squad's fighters-alive count or total hit points.
func (m *Match) StalemateTicks() int { return m.stalemate.ticks }

// VisibleEnemies lists the positions of the opposing team's in-play units.
func (m *Match) VisibleEnemies(team Team) []Cell {
	return m.Squad(team.Opponent()).InPlayPositions()
}

// UnitAt returns the first in-play unit of team standing on c.
func (m *Match) UnitAt(team Team, c Cell) (*Unit, bool) {
	return m.Squad(team).UnitAt(c)
}

// --- tick driver ---

// AdvanceOneTick runs one full tick: projectiles, red then blue decisions,
// red then blue combat, termination. It does nothing once the match is over.
func (m *Match) AdvanceOneTick() {
	if !m.running {
		return
	}
	tick := m.tick

	m.combat.Update(m.context(TeamRed, nil), m.red, m.blue)

	// Both squads decide against positions taken before either moves.
	redSeen := m.VisibleEnemies(TeamRed)
	blueSeen := m.VisibleEnemies(TeamBlue)
	m.red.SquadThink(m.context(TeamRed, redSeen))
	m.blue.SquadThink(m.context(TeamBlue, blueSeen))

	m.combat.ResolveCombat(m.context(TeamRed, nil), m.red, m.blue)
	m.combat.ResolveCombat(m.context(TeamBlue, nil), m.blue, m.red)

	m.tick++
	m.evaluate()

	if m.diagEvery > 0 && tick%m.diagEvery == 0 {
		m.log.WithFields(logrus.Fields{
			"tick":            tick,
			"red_fighters":    m.red.FightersInPlay(),
			"blue_fighters":   m.blue.FightersInPlay(),
			"red_hp":          m.red.TotalHP(),
			"blue_hp":         m.blue.TotalHP(),
			"stalemate_ticks": m.stalemate.ticks,
			"grenades_in_air": len(m.combat.grenades),
		}).Debug("Squad status.")
	}
}

// context builds the decision context for one squad. With a nil enemy list
// no risk field is built.
func (m *Match) context(team Team, enemies []Cell) *squadContext {
	ctx := &squadContext{
		grid:    m.grid,
		rules:   m.rules,
		tick:    m.tick,
		enemies: enemies,
		events:  m.SimLog,
		log:     m.log.WithField("tick", m.tick),
	}
	if enemies != nil {
		ctx.risk = BuildRiskField(m.grid, enemies, m.rules.RiskParams())
	}
	return ctx
}

func (m *Match) evaluate() {
	if outcome, done := commanderOutcome(m.red, m.blue); done {
		m.finish(outcome, EndCommanderKilled)
		return
	}
	if m.stalemate.observe(m.red, m.blue) >= m.rules.StalemateTicks {
		m.finish(pointsOutcome(m.red, m.blue), EndStalemate)
		return
	}
	if m.tick >= m.rules.MaxTicks {
		m.finish(pointsOutcome(m.red, m.blue), EndTimeout)
	}
}

func (m *Match) finish(outcome BattleOutcome, reason EndReason) {
	m.running = false
	m.outcome = newOutcomeReason(outcome, reason, m.tick, m.red, m.blue)
	m.SimLog.Add(m.tick, "--", "--", CatMatch, "end", m.outcome.Description, float64(m.tick))
	m.log.WithFields(logrus.Fields{
		"tick":    m.tick,
		"outcome": outcome.String(),
		"reason":  reason.String(),
	}).Info("Match over.")
}

// RunTicks advances up to n ticks, stopping early if the match ends.
func (m *Match) RunTicks(n int) {
	for i := 0; i < n && m.running; i++ {
		m.AdvanceOneTick()
	}
}

// RunUntil advances the match up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (m *Match) RunUntil(predicate func(*Match) bool, maxTicks int) int {
	for i := 0; i < maxTicks && m.running; i++ {
		m.AdvanceOneTick()
		if predicate(m) {
			return m.tick
		}
	}
	return -1
}

// RunToEnd plays until a termination rule fires and returns the result.
func (m *Match) RunToEnd() BattleOutcomeReason {
	for m.running {
		m.AdvanceOneTick()
	}
	return m.outcome
}

// --- snapshots ---

// MatchSnapshot is a value copy of the match state at one tick.
type MatchSnapshot struct {
	Tick     int
	Running  bool
	Units    []UnitSnapshot
	Tracers  []Tracer
	Grenades []Grenade
}

// UnitSnapshot is a lightweight copy of one unit.
type UnitSnapshot struct {
	Label         string
	Team          Team
	Role          Role
	Pos           Cell
	HP            int
	Ammo          int
	Grenades      int
	Alive         bool
	Incapacitated bool
	HealerState   HealerState
	Visible       []Cell
}

// Snapshot returns the current state of every unit and projectile.
func (m *Match) Snapshot() MatchSnapshot {
	snap := MatchSnapshot{Tick: m.tick, Running: m.running}
	for _, sq := range []*SquadState{m.red, m.blue} {
		for _, u := range sq.Units() {
			snap.Units = append(snap.Units, UnitSnapshot{
				Label:         u.Label,
				Team:          u.Team,
				Role:          u.Role,
				Pos:           u.Pos,
				HP:            u.HP,
				Ammo:          u.Ammo,
				Grenades:      u.Grenades,
				Alive:         u.Alive,
				Incapacitated: u.Incapacitated,
				HealerState:   u.HealerState,
				Visible:       slices.Clone(u.Visible),
			})
		}
	}
	for _, t := range m.combat.tracers {
		snap.Tracers = append(snap.Tracers, *t)
	}
	for _, gr := range m.combat.grenades {
		snap.Grenades = append(snap.Grenades, *gr)
	}
	return snap
}
