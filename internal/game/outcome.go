package game

import "fmt"

type BattleOutcome int

const (
	OutcomeInconclusive BattleOutcome = iota
	OutcomeRedVictory
	OutcomeBlueVictory
	OutcomeDraw
)

func (o BattleOutcome) String() string {
	switch o {
	case OutcomeRedVictory:
		return "red_victory"
	case OutcomeBlueVictory:
		return "blue_victory"
	case OutcomeDraw:
		return "draw"
	case OutcomeInconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

// EndReason says which termination rule ended a match.
type EndReason int

const (
	EndNone EndReason = iota
	EndCommanderKilled
	EndStalemate
	EndTimeout
)

func (r EndReason) String() string {
	switch r {
	case EndNone:
		return "none"
	case EndCommanderKilled:
		return "commander_killed"
	case EndStalemate:
		return "stalemate"
	case EndTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

type BattleOutcomeReason struct {
	Outcome           BattleOutcome
	Reason            EndReason
	Tick              int
	RedFightersAlive  int
	BlueFightersAlive int
	RedTotalHP        int
	BlueTotalHP       int
	Description       string
}

func newOutcomeReason(outcome BattleOutcome, reason EndReason, tick int, red, blue *SquadState) BattleOutcomeReason {
	return BattleOutcomeReason{
		Outcome:           outcome,
		Reason:            reason,
		Tick:              tick,
		RedFightersAlive:  red.FightersAlive(),
		BlueFightersAlive: blue.FightersAlive(),
		RedTotalHP:        red.TotalHP(),
		BlueTotalHP:       blue.TotalHP(),
		Description:       fmt.Sprintf("%s_%s", outcome, reason),
	}
}

// commanderOutcome ends the match as soon as a commander is dead.
func commanderOutcome(red, blue *SquadState) (BattleOutcome, bool) {
	redDead, blueDead := !red.Commander.Alive, !blue.Commander.Alive
	switch {
	case redDead && blueDead:
		return OutcomeDraw, true
	case redDead:
		return OutcomeBlueVictory, true
	case blueDead:
		return OutcomeRedVictory, true
	}
	return OutcomeInconclusive, false
}

// pointsOutcome settles a stalemate or timeout: more fighters alive wins,
// then more total hit points, else a draw.
func pointsOutcome(red, blue *SquadState) BattleOutcome {
	rf, bf := red.FightersAlive(), blue.FightersAlive()
	switch {
	case rf > bf:
		return OutcomeRedVictory
	case bf > rf:
		return OutcomeBlueVictory
	}
	rh, bh := red.TotalHP(), blue.TotalHP()
	switch {
	case rh > bh:
		return OutcomeRedVictory
	case bh > rh:
		return OutcomeBlueVictory
	}
	return OutcomeDraw
}

// squadSignature is the per-squad state watched for stalemate.
type squadSignature struct {
	fightersAlive int
	totalHP       int
}

func signatureOf(sq *SquadState) squadSignature {
	return squadSignature{fightersAlive: sq.FightersAlive(), totalHP: sq.TotalHP()}
}

// stalemateTracker counts consecutive ticks in which neither squad's
// signature changed.
type stalemateTracker struct {
	red, blue squadSignature
	ticks     int
}

func newStalemateTracker(red, blue *SquadState) stalemateTracker {
	return stalemateTracker{red: signatureOf(red), blue: signatureOf(blue)}
}

// observe records this tick's state and returns the unchanged-tick count.
func (st *stalemateTracker) observe(red, blue *SquadState) int {
	rs, bs := signatureOf(red), signatureOf(blue)
	if rs != st.red || bs != st.blue {
		st.red, st.blue = rs, bs
		st.ticks = 0
		return 0
	}
	st.ticks++
	return st.ticks
}
