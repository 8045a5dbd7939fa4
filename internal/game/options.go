package game

import "github.com/sirupsen/logrus"

// matchOptionKind controls the pass in which an option is applied.
type matchOptionKind int

const (
	matchOptInfra matchOptionKind = iota // rules, logging, identity; applied first
	matchOptSquad                        // loadouts and unit placement
)

// MatchOption is a builder function applied to a Match during construction.
type MatchOption struct {
	kind matchOptionKind
	fn   func(*Match)
}

// WithRules replaces the default rule set.
func WithRules(r Rules) MatchOption {
	return MatchOption{matchOptInfra, func(m *Match) {
		m.rules = r
	}}
}

// WithMatchID sets the match identifier instead of a generated one.
func WithMatchID(id string) MatchOption {
	return MatchOption{matchOptInfra, func(m *Match) {
		m.ID = id
	}}
}

// WithLogger routes match diagnostics to l.
func WithLogger(l logrus.FieldLogger) MatchOption {
	return MatchOption{matchOptInfra, func(m *Match) {
		m.baseLog = l
	}}
}

// WithDiagnosticCadence logs a squad status line every n ticks. Zero disables it.
func WithDiagnosticCadence(n int) MatchOption {
	return MatchOption{matchOptInfra, func(m *Match) {
		m.diagEvery = n
	}}
}

// WithVerbose records movement and state-change entries in the SimLog.
func WithVerbose(v bool) MatchOption {
	return MatchOption{matchOptInfra, func(m *Match) {
		m.SimLog = NewSimLog(v)
	}}
}

// WithLoadout sets the fighter kit for one team.
func WithLoadout(team Team, lo Loadout) MatchOption {
	return MatchOption{matchOptSquad, func(m *Match) {
		m.setup(team).Loadout = lo
	}}
}

// WithRedCommander places the red commander.
func WithRedCommander(c Cell) MatchOption { return withCommander(TeamRed, c) }

// WithBlueCommander places the blue commander.
func WithBlueCommander(c Cell) MatchOption { return withCommander(TeamBlue, c) }

// WithRedFighter adds a red fighter at c. The first fighter option for a
// team replaces the default roster.
func WithRedFighter(c Cell) MatchOption { return withFighter(TeamRed, c) }

// WithBlueFighter adds a blue fighter at c.
func WithBlueFighter(c Cell) MatchOption { return withFighter(TeamBlue, c) }

// WithRedHealer places the red healer.
func WithRedHealer(c Cell) MatchOption { return withHealer(TeamRed, c) }

// WithBlueHealer places the blue healer.
func WithBlueHealer(c Cell) MatchOption { return withHealer(TeamBlue, c) }

// WithRedRunner places the red runner.
func WithRedRunner(c Cell) MatchOption { return withRunner(TeamRed, c) }

// WithBlueRunner places the blue runner.
func WithBlueRunner(c Cell) MatchOption { return withRunner(TeamBlue, c) }

func withCommander(team Team, c Cell) MatchOption {
	return MatchOption{matchOptSquad, func(m *Match) {
		m.setup(team).Commander = c
	}}
}

func withHealer(team Team, c Cell) MatchOption {
	return MatchOption{matchOptSquad, func(m *Match) {
		m.setup(team).Healer = c
	}}
}

func withRunner(team Team, c Cell) MatchOption {
	return MatchOption{matchOptSquad, func(m *Match) {
		m.setup(team).Runner = c
	}}
}

func withFighter(team Team, c Cell) MatchOption {
	return MatchOption{matchOptSquad, func(m *Match) {
		s := m.setup(team)
		if !m.customRoster[team] {
			m.customRoster[team] = true
			s.Fighters = nil
		}
		s.Fighters = append(s.Fighters, c)
	}}
}
