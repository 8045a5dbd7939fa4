package game

import "testing"

func TestFindPath_OpenGridIsManhattan(t *testing.T) {
	g := openGrid(t, 12, 9)
	start, goal := C(1, 1), C(9, 6)
	path := FindPath(g, start, goal, nil, 0)
	if len(path) != 1+start.Manhattan(goal) {
		t.Fatalf("expected %d cells, got %d: %v", 1+start.Manhattan(goal), len(path), path)
	}
	if path[0] != start || path[len(path)-1] != goal {
		t.Fatalf("path should run from %s to %s, got %v", start, goal, path)
	}
	for i := 1; i < len(path); i++ {
		if path[i].Manhattan(path[i-1]) != 1 {
			t.Fatalf("non-adjacent step %s -> %s", path[i-1], path[i])
		}
	}
}

func TestFindPath_ZeroRiskFieldMatchesNil(t *testing.T) {
	g := openGrid(t, 10, 10)
	rf := BuildRiskField(g, nil, RiskParams{Baseline: 0, Falloff: 10, CoverDamping: 0.7})
	path := FindPath(g, C(0, 0), C(7, 3), rf, 5)
	if len(path) != 11 {
		t.Fatalf("zero risk should not lengthen the path, got %d cells", len(path))
	}
}

func TestFindPath_UnreachableReturnsStart(t *testing.T) {
	g := mustGrid(t, ""+
		".......\n"+
		"..###..\n"+
		"..#.#..\n"+
		"..###..\n"+
		".......\n")
	start := C(0, 0)
	path := FindPath(g, start, C(3, 2), nil, 1)
	if len(path) != 1 || path[0] != start {
		t.Fatalf("expected [start], got %v", path)
	}
}

func TestFindPath_GoalOnRockReturnsStart(t *testing.T) {
	g := mustGrid(t, "....\n.#..\n....\n")
	path := FindPath(g, C(0, 0), C(1, 1), nil, 0)
	if len(path) != 1 {
		t.Fatalf("expected [start] for blocked goal, got %v", path)
	}
}

func TestFindPath_StartEqualsGoal(t *testing.T) {
	g := openGrid(t, 5, 5)
	path := FindPath(g, C(2, 2), C(2, 2), nil, 0)
	if len(path) != 1 || path[0] != C(2, 2) {
		t.Fatalf("expected single-cell path, got %v", path)
	}
}

func TestFindPath_RoutesAroundWall(t *testing.T) {
	g := mustGrid(t, ""+
		".....\n"+
		".###.\n"+
		".....\n")
	path := FindPath(g, C(2, 0), C(2, 2), nil, 0)
	if len(path) != 7 {
		t.Fatalf("expected detour of 7 cells, got %d: %v", len(path), path)
	}
	for _, c := range path {
		if !g.Passable(c) {
			t.Fatalf("path crosses blocked cell %s", c)
		}
	}
}

func TestFindPath_RiskWeightAvoidsThreat(t *testing.T) {
	g := openGrid(t, 21, 11)
	threat := C(10, 5)
	rf := BuildRiskField(g, []Cell{threat}, DefaultRules().RiskParams())

	direct := FindPath(g, C(0, 5), C(20, 5), rf, 0)
	cautious := FindPath(g, C(0, 5), C(20, 5), rf, 10)

	closest := func(p []Cell) int {
		best := 1 << 30
		for _, c := range p {
			best = min(best, c.Manhattan(threat))
		}
		return best
	}
	if closest(direct) != 0 {
		t.Fatalf("risk-blind path should walk through the threat, closest=%d", closest(direct))
	}
	if closest(cautious) <= closest(direct) {
		t.Fatalf("risk-weighted path should keep away: cautious=%d direct=%d", closest(cautious), closest(direct))
	}
}

func TestFindNearestSafeCell_StartAlreadySafe(t *testing.T) {
	g := openGrid(t, 10, 10)
	rf := BuildRiskField(g, nil, DefaultRules().RiskParams())
	c, ok := FindNearestSafeCell(g, C(4, 4), rf, 0.25, 8)
	if !ok || c != C(4, 4) {
		t.Fatalf("expected start cell, got %s ok=%v", c, ok)
	}
}

func TestFindNearestSafeCell_FindsCellBelowThreshold(t *testing.T) {
	g := openGrid(t, 30, 30)
	p := DefaultRules().RiskParams()
	enemy := C(12, 10)
	rf := BuildRiskField(g, []Cell{enemy}, p)
	start := C(10, 10)
	c, ok := FindNearestSafeCell(g, start, rf, 0.25, 8)
	if !ok {
		t.Fatal("expected a safe cell within radius")
	}
	if rf.At(c) > 0.25 {
		t.Fatalf("returned cell %s has risk %.3f", c, rf.At(c))
	}
	if c.Manhattan(start) > 8 {
		t.Fatalf("returned cell %s beyond radius", c)
	}
}

func TestFindNearestSafeCell_RadiusLimitsSearch(t *testing.T) {
	g := openGrid(t, 30, 30)
	rf := BuildRiskField(g, []Cell{C(15, 15)}, DefaultRules().RiskParams())
	if c, ok := FindNearestSafeCell(g, C(15, 15), rf, 0.25, 2); ok {
		t.Fatalf("no safe cell exists within 2 hops, got %s", c)
	}
}

func TestFindNearestSafeCell_TestsOneHopPastRadius(t *testing.T) {
	g := openGrid(t, 10, 1)
	rf := &RiskField{cols: 10, rows: 1, cells: make([]float64, 10)}
	for i := range rf.cells {
		rf.cells[i] = 1
	}
	rf.cells[3] = 0
	c, ok := FindNearestSafeCell(g, C(0, 0), rf, 0.25, 2)
	if !ok || c != C(3, 0) {
		t.Fatalf("cell at radius+1 should be found, got %s ok=%v", c, ok)
	}
	rf.cells[3], rf.cells[4] = 1, 0
	if c, ok := FindNearestSafeCell(g, C(0, 0), rf, 0.25, 2); ok {
		t.Fatalf("cell at radius+2 is out of reach, got %s", c)
	}
}

func TestFindNearestSafeCell_BlockedInNone(t *testing.T) {
	g := mustGrid(t, ""+
		"#####\n"+
		"#...#\n"+
		"#####\n")
	rf := BuildRiskField(g, []Cell{C(2, 1)}, DefaultRules().RiskParams())
	if _, ok := FindNearestSafeCell(g, C(2, 1), rf, 0.25, 8); ok {
		t.Fatal("enclosed hot pocket should have no safe cell")
	}
}
