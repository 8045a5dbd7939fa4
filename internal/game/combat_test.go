package game

import (
	"math"
	"testing"
)

// duelSquads puts one fighter per side on an open grid with support units
// parked in the far corners.
func duelSquads(t *testing.T, cols, rows int, red, blue Cell) (*Grid, *SquadState, *SquadState) {
	t.Helper()
	g := openGrid(t, cols, rows)
	rs := NewSquad(g, TeamRed, SquadSetup{
		Commander: C(0, 0), Fighters: []Cell{red}, Healer: C(1, 0), Runner: C(0, 1), Loadout: DefaultLoadout(),
	}, DefaultRules())
	bs := NewSquad(g, TeamBlue, SquadSetup{
		Commander: C(cols-1, rows-1), Fighters: []Cell{blue}, Healer: C(cols-2, rows-1), Runner: C(cols-1, rows-2), Loadout: DefaultLoadout(),
	}, DefaultRules())
	return g, rs, bs
}

func TestPerceive_ClosestVisibleEnemy(t *testing.T) {
	g := mustGrid(t, ""+
		"..........\n"+
		"..........\n"+
		"...#......\n"+
		"..........\n")
	enemies := NewSquad(g, TeamBlue, SquadSetup{
		Commander: C(9, 3),
		Fighters:  []Cell{C(4, 2), C(7, 0)},
		Healer:    C(9, 0),
		Runner:    C(9, 1),
		Loadout:   DefaultLoadout(),
	}, DefaultRules())

	u, ok := perceive(g, C(1, 2), enemies)
	if !ok {
		t.Fatal("expected a perceived enemy")
	}
	if u == enemies.Fighters[0] {
		t.Fatal("enemy behind the rock should not be perceived")
	}
	if u != enemies.Fighters[1] {
		t.Fatalf("expected the nearest visible enemy, got %s", u.Label)
	}
}

func TestPerceive_IgnoresOutOfPlay(t *testing.T) {
	g, _, bs := duelSquads(t, 12, 12, C(2, 5), C(4, 5))
	bs.Fighters[0].ApplyDamage(1000, 2)
	u, ok := perceive(g, C(2, 5), bs)
	if ok && u == bs.Fighters[0] {
		t.Fatal("incapacitated fighter should not be targeted")
	}
}

func TestResolveCombat_GunShot(t *testing.T) {
	g, rs, bs := duelSquads(t, 12, 12, C(2, 5), C(6, 5))
	cm := NewCombatManager(DefaultRules())
	ctx := testContext(g, 0, nil)

	cm.ResolveCombat(ctx, rs, bs)
	if rs.Fighters[0].Ammo != 19 {
		t.Fatalf("shot should consume one round, ammo=%d", rs.Fighters[0].Ammo)
	}
	if bs.Fighters[0].HP != 80 {
		t.Fatalf("target should take bullet damage, hp=%d", bs.Fighters[0].HP)
	}
	if len(cm.Tracers()) != 1 || !cm.Tracers()[0].Hit {
		t.Fatalf("expected one hit tracer, got %+v", cm.Tracers())
	}
	if rs.Fighters[0].Grenades != 2 {
		t.Fatal("one action per tick: no grenade alongside the shot")
	}
}

func TestResolveCombat_GrenadeBand(t *testing.T) {
	g, rs, bs := duelSquads(t, 20, 20, C(2, 5), C(10, 5))
	cm := NewCombatManager(DefaultRules())
	ctx := testContext(g, 0, nil)

	cm.ResolveCombat(ctx, rs, bs)
	if rs.Fighters[0].Grenades != 1 || rs.Fighters[0].Ammo != 20 {
		t.Fatalf("expected a grenade throw only: %+v", rs.Fighters[0])
	}
	if len(cm.Grenades()) != 1 {
		t.Fatalf("expected one grenade in flight, got %d", len(cm.Grenades()))
	}
	if bs.Fighters[0].HP != 100 {
		t.Fatal("grenade damage must wait for detonation")
	}

	flight := DefaultRules().GrenadeFlightTicks
	for i := 0; i < flight-1; i++ {
		cm.Update(ctx, rs, bs)
	}
	if bs.Fighters[0].HP != 100 || len(cm.Grenades()) != 1 {
		t.Fatal("grenade detonated early")
	}
	cm.Update(ctx, rs, bs)
	if len(cm.Grenades()) != 0 {
		t.Fatal("detonated grenade should be removed")
	}
	if bs.Fighters[0].HP != 60 {
		t.Fatalf("expected splash damage to 60hp, got %d", bs.Fighters[0].HP)
	}
	if rs.Fighters[0].HP != 100 {
		t.Fatal("thrower outside the radius should be unharmed")
	}
}

func TestResolveCombat_OutOfRangeDoesNothing(t *testing.T) {
	g, rs, bs := duelSquads(t, 30, 30, C(2, 5), C(20, 5))
	cm := NewCombatManager(DefaultRules())
	cm.ResolveCombat(testContext(g, 0, nil), rs, bs)
	if rs.Fighters[0].Ammo != 20 || rs.Fighters[0].Grenades != 2 {
		t.Fatal("no action expected beyond grenade range")
	}
}

func TestResolveCombat_NoAmmoInGunRangeHolds(t *testing.T) {
	g, rs, bs := duelSquads(t, 12, 12, C(2, 5), C(5, 5))
	rs.Fighters[0].Ammo = 0
	cm := NewCombatManager(DefaultRules())
	cm.ResolveCombat(testContext(g, 0, nil), rs, bs)
	if rs.Fighters[0].Grenades != 2 || len(cm.Grenades()) != 0 {
		t.Fatal("grenades are only thrown beyond gun range")
	}
}

func TestGrenade_SplashHitsBothSidesButSkipsDowned(t *testing.T) {
	g, rs, bs := duelSquads(t, 20, 20, C(8, 8), C(10, 8))
	bs.Fighters[0].HP = 30
	rs.Fighters[0].ApplyDamage(1000, 2)
	cm := NewCombatManager(DefaultRules())
	cm.grenades = append(cm.grenades, &Grenade{From: C(0, 0), To: C(9, 8), Team: TeamRed, Thrower: "R-F1", Flight: 1})

	cm.Update(testContext(g, 0, nil), rs, bs)
	if !bs.Fighters[0].Incapacitated {
		t.Fatal("blue fighter in the blast should be knocked down")
	}
	if rs.Fighters[0].HP != 0 || rs.Fighters[0].Revives != 0 || !rs.Fighters[0].Alive {
		t.Fatalf("downed red fighter should be untouched: %+v", rs.Fighters[0])
	}
}

func TestGrenade_RadiusIsEuclidean(t *testing.T) {
	g, rs, bs := duelSquads(t, 20, 20, C(2, 2), C(12, 12))
	// From (10,10): (13,10) is exactly 3, (12,12) is 2.83, (10,14) is 4.
	bs.Fighters[0].Pos = C(13, 10)
	bs.Healer.Pos = C(12, 12)
	bs.Runner.Pos = C(10, 14)
	cm := NewCombatManager(DefaultRules())
	cm.grenades = append(cm.grenades, &Grenade{To: C(10, 10), Team: TeamRed, Thrower: "R-F1", Flight: 1})
	cm.Update(testContext(g, 0, nil), rs, bs)

	if bs.Fighters[0].HP != 60 || bs.Healer.HP != 60 {
		t.Fatalf("units within 3 cells should be hit: fighter=%d healer=%d", bs.Fighters[0].HP, bs.Healer.HP)
	}
	if bs.Runner.HP != 100 {
		t.Fatal("unit 4 cells away should be spared")
	}
}

func TestGrenade_PositionInterpolates(t *testing.T) {
	gr := &Grenade{From: C(0, 0), To: C(10, 4), Flight: 10, Elapsed: 5}
	x, y := gr.Position()
	if math.Abs(x-5) > 1e-9 || math.Abs(y-2) > 1e-9 {
		t.Fatalf("expected midpoint (5,2), got (%.2f,%.2f)", x, y)
	}
	gr.Elapsed = 20
	if gr.Progress() != 1 {
		t.Fatal("progress should clamp at 1")
	}
}

func TestTracers_ExpireAfterLifetime(t *testing.T) {
	g, rs, bs := duelSquads(t, 12, 12, C(2, 5), C(6, 5))
	cm := NewCombatManager(DefaultRules())
	ctx := testContext(g, 0, nil)
	cm.ResolveCombat(ctx, rs, bs)
	for i := 0; i < DefaultRules().TracerLifetime-1; i++ {
		cm.Update(ctx, rs, bs)
	}
	if len(cm.Tracers()) != 1 {
		t.Fatal("tracer expired early")
	}
	cm.Update(ctx, rs, bs)
	if len(cm.Tracers()) != 0 {
		t.Fatal("tracer should expire after its lifetime")
	}
}

func TestCommander_NeverThrows(t *testing.T) {
	g, rs, bs := duelSquads(t, 20, 20, C(2, 5), C(10, 5))
	rs.Fighters[0].Revives = 2
	rs.Fighters[0].ApplyDamage(1000, 2)
	rs.Commander.Pos = C(2, 5)
	rs.Commander.Ammo = 5
	rs.Commander.Grenades = 3
	cm := NewCombatManager(DefaultRules())
	cm.ResolveCombat(testContext(g, 0, nil), rs, bs)
	if len(cm.Grenades()) != 0 || rs.Commander.Grenades != 3 {
		t.Fatal("commander must not throw grenades")
	}
}

func TestCommander_HoldsFireWhileFightersCanBeRevived(t *testing.T) {
	g, rs, bs := duelSquads(t, 20, 20, C(2, 8), C(6, 5))
	f := rs.Fighters[0]
	f.ApplyDamage(1000, 2)
	rs.Commander.Pos = C(2, 5)
	rs.Commander.Ammo = 5
	cm := NewCombatManager(DefaultRules())
	ctx := testContext(g, 0, nil)

	cm.ResolveCombat(ctx, rs, bs)
	if rs.Commander.Ammo != 5 || len(cm.Tracers()) != 0 {
		t.Fatalf("commander fired with an incapacitated fighter: ammo=%d", rs.Commander.Ammo)
	}

	f.kill()
	cm.ResolveCombat(ctx, rs, bs)
	if rs.Commander.Ammo != 4 || len(cm.Tracers()) != 1 {
		t.Fatalf("commander should fire once the roster is dead: ammo=%d", rs.Commander.Ammo)
	}
}
