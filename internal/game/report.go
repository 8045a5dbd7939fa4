package game

import (
	"fmt"
	"strings"
)

// SquadReport tallies one squad's state and activity over a match.
type SquadReport struct {
	Team           Team
	FightersAlive  int
	FightersInPlay int
	CommanderAlive bool
	TotalHP        int
	Shots          int
	Grenades       int
	Heals          int
	Revives        int
	Resupplies     int
	Incapacitated  int
	Deaths         int
}

// MatchSummary is the end-of-match (or current) report of a match.
type MatchSummary struct {
	MatchID        string
	Ticks          int
	Running        bool
	Outcome        BattleOutcomeReason
	FirstFireTick  int
	FirstDeathTick int
	Red            SquadReport
	Blue           SquadReport
}

// Summary builds a report from the squads and the SimLog.
func (m *Match) Summary() MatchSummary {
	return MatchSummary{
		MatchID:        m.ID,
		Ticks:          m.tick,
		Running:        m.running,
		Outcome:        m.outcome,
		FirstFireTick:  firstTick(m.SimLog, CatCombat, "fire"),
		FirstDeathTick: firstTick(m.SimLog, CatCombat, "death"),
		Red:            m.squadReport(m.red),
		Blue:           m.squadReport(m.blue),
	}
}

func (m *Match) squadReport(sq *SquadState) SquadReport {
	t := sq.Team
	return SquadReport{
		Team:           t,
		FightersAlive:  sq.FightersAlive(),
		FightersInPlay: sq.FightersInPlay(),
		CommanderAlive: sq.Commander.Alive,
		TotalHP:        sq.TotalHP(),
		Shots:          m.SimLog.CountTeam(t, CatCombat, "fire"),
		Grenades:       m.SimLog.CountTeam(t, CatCombat, "grenade"),
		Heals:          m.SimLog.CountTeam(t, CatMedical, "heal"),
		Revives:        m.SimLog.CountTeam(t, CatMedical, "revive"),
		Resupplies:     m.SimLog.CountTeam(t, CatSupply, "resupply"),
		Incapacitated:  m.SimLog.CountTeam(t, CatCombat, "incapacitated"),
		Deaths:         m.SimLog.CountTeam(t, CatCombat, "death"),
	}
}

// firstTick returns the tick of the first matching entry, or -1.
func firstTick(sl *SimLog, category, key string) int {
	for _, e := range sl.Entries() {
		if e.Category == category && e.Key == key {
			return e.Tick
		}
	}
	return -1
}

// FormatReport renders a summary as a block of key=value lines.
func FormatReport(s MatchSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "match=%s ticks=%d outcome=%s reason=%s\n",
		s.MatchID, s.Ticks, s.Outcome.Outcome, s.Outcome.Reason)
	fmt.Fprintf(&b, "phase_markers: first_fire=%d first_death=%d\n", s.FirstFireTick, s.FirstDeathTick)
	for _, sq := range []SquadReport{s.Red, s.Blue} {
		fmt.Fprintf(&b, "%-4s commander=%s fighters_alive=%d in_play=%d total_hp=%d\n",
			sq.Team, aliveWord(sq.CommanderAlive), sq.FightersAlive, sq.FightersInPlay, sq.TotalHP)
		fmt.Fprintf(&b, "     shots=%d grenades=%d heals=%d revives=%d resupplies=%d incapacitated=%d deaths=%d\n",
			sq.Shots, sq.Grenades, sq.Heals, sq.Revives, sq.Resupplies, sq.Incapacitated, sq.Deaths)
	}
	return b.String()
}

func aliveWord(alive bool) string {
	if alive {
		return "alive"
	}
	return "dead"
}
