package game

import "testing"

// dumpLog prints the full SimLog to t.Log so it appears in `go test -v` output.
func dumpLog(t *testing.T, m *Match) {
	t.Helper()
	if len(m.SimLog.Entries()) == 0 {
		t.Log("(no log entries)")
		return
	}
	t.Log("\n" + m.SimLog.Format())
}

// dumpSummary prints the match report block.
func dumpSummary(t *testing.T, m *Match) {
	t.Helper()
	t.Log("\n" + FormatReport(m.Summary()))
}

// --- Scenario: Corridor Engagement ---

// Two fighters close on each other down a one-cell corridor. They lob
// grenades while in the grenade band and open fire once within gun range.
// Runners stand three cells from their depots and throw fresh kit forward.
func TestScenario_CorridorEngagement(t *testing.T) {
	g := mustGrid(t, ""+
		"##############################\n"+
		"AM..........................ma\n"+
		"##############################\n")
	m, err := NewMatch(g,
		WithVerbose(true),
		WithRedCommander(C(2, 1)), WithRedHealer(C(3, 1)), WithRedRunner(C(4, 1)), WithRedFighter(C(6, 1)),
		WithBlueCommander(C(27, 1)), WithBlueHealer(C(26, 1)), WithBlueRunner(C(25, 1)), WithBlueFighter(C(23, 1)),
	)
	if err != nil {
		t.Fatal(err)
	}
	m.RunTicks(8)

	grenadeTick := firstTick(m.SimLog, CatCombat, "grenade")
	fireTick := firstTick(m.SimLog, CatCombat, "fire")
	if grenadeTick != 3 || fireTick != 5 {
		dumpLog(t, m)
		t.Fatalf("expected first grenade at T=3 and first shot at T=5, got %d and %d", grenadeTick, fireTick)
	}

	rf, bf := m.Squad(TeamRed).Fighters[0], m.Squad(TeamBlue).Fighters[0]
	if rf.Pos != C(12, 1) || bf.Pos != C(17, 1) {
		dumpLog(t, m)
		t.Fatalf("fighters should hold once in gun range: red %s blue %s", rf.Pos, bf.Pos)
	}
	if got := len(m.Grenades()); got != 4 {
		t.Fatalf("expected four grenades still in flight, got %d", got)
	}
	// Both runners restock their fighter once it has thrown its last grenade.
	for _, team := range []Team{TeamRed, TeamBlue} {
		if n := m.SimLog.CountTeam(team, CatSupply, "resupply"); n != 1 {
			dumpLog(t, m)
			t.Fatalf("%s: expected one resupply, got %d", team, n)
		}
	}
	if rf.Grenades != 2 || bf.Grenades != 2 {
		t.Fatalf("resupply should restore grenades: red %d blue %d", rf.Grenades, bf.Grenades)
	}
}

// --- Scenario: Medic Revive ---

func TestScenario_MedicRevivesDownedFighter(t *testing.T) {
	m, err := NewMatch(openGrid(t, 60, 60), WithRules(quietRules(5000, 500)))
	if err != nil {
		t.Fatal(err)
	}
	f := m.Squad(TeamRed).Fighters[0]
	f.ApplyDamage(1000, m.Rules().MaxRevives)

	got := m.RunUntil(func(m *Match) bool { return m.SimLog.HasEntry(CatMedical, "revive", "") }, 60)
	if got < 0 {
		dumpLog(t, m)
		t.Fatal("healer never revived the downed fighter")
	}
	if f.Incapacitated || f.HP != f.MaxHP || f.Revives != 1 {
		t.Fatalf("unexpected fighter state after revive: %+v", f)
	}
	// Idle -> depot -> patient -> healing -> idle on the next tick.
	m.AdvanceOneTick()
	if h := m.Squad(TeamRed).Healer; h.HealerState != HealerIdle {
		t.Fatalf("healer should be idle after healing, got %s", h.HealerState)
	}
}

// --- Scenario: Runner Resupply ---

func TestScenario_RunnerResuppliesDryFighter(t *testing.T) {
	m, err := NewMatch(openGrid(t, 60, 60), WithRules(quietRules(5000, 500)))
	if err != nil {
		t.Fatal(err)
	}
	f := m.Squad(TeamRed).Fighters[1]
	f.Ammo, f.Grenades = 0, 0

	got := m.RunUntil(func(m *Match) bool { return m.SimLog.HasEntry(CatSupply, "resupply", "") }, 60)
	if got < 0 {
		dumpLog(t, m)
		t.Fatal("runner never resupplied the fighter")
	}
	if f.Ammo != 20 || f.Grenades != 2 || f.Resupplies != 1 {
		t.Fatalf("fighter should be back to its starting kit: %+v", f)
	}
	if d := m.Squad(TeamRed).Runner.Pos.Manhattan(m.Grid().Depots().Ammo(TeamRed)); d > m.Rules().RunnerDepotReach {
		t.Fatalf("runner resupplied from %d cells away from its depot", d)
	}
}

// --- Scenario: Commander Last Stand ---

func TestScenario_CommanderLastStand(t *testing.T) {
	m, err := NewMatch(openGrid(t, 60, 60), WithRules(quietRules(5000, 500)))
	if err != nil {
		t.Fatal(err)
	}
	red := m.Squad(TeamRed)
	for _, f := range red.Fighters {
		f.Revives = m.Rules().MaxRevives
		f.ApplyDamage(1000, m.Rules().MaxRevives)
	}
	if red.Commander.Ammo != 0 {
		t.Fatal("commander should start unarmed")
	}

	m.AdvanceOneTick()
	if red.Commander.Ammo != m.Rules().CommanderSidearmRounds {
		dumpSummary(t, m)
		t.Fatalf("commander should draw a sidearm, ammo=%d", red.Commander.Ammo)
	}
	if !m.SimLog.HasEntry(CatState, "last_stand", "") {
		t.Fatal("last stand should be recorded")
	}

	// The sidearm is issued once.
	red.Commander.Ammo = 3
	m.AdvanceOneTick()
	if red.Commander.Ammo != 3 {
		t.Fatalf("sidearm should not be reissued, ammo=%d", red.Commander.Ammo)
	}
}

// --- Scenario: Full Match On Crossroads ---

func TestScenario_CrossroadsPlaysOut(t *testing.T) {
	g, err := BuiltinGrid("crossroads")
	if err != nil {
		t.Fatal(err)
	}
	m, err := NewMatch(g)
	if err != nil {
		t.Fatal(err)
	}
	out := m.RunToEnd()
	if out.Reason == EndNone || out.Outcome == OutcomeInconclusive {
		dumpSummary(t, m)
		t.Fatalf("match should end with a verdict: %+v", out)
	}
	if n := len(m.SimLog.Filter(CatMatch, "end")); n != 1 {
		t.Fatalf("exactly one end entry expected, got %d", n)
	}
}
