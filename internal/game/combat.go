package game

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// --- Tracer ---

// Tracer is a short-lived record of one bullet's flight.
type Tracer struct {
	From, To Cell
	Team     Team
	Hit      bool
	Age      int // ticks since spawn
}

// --- Grenade ---

// Grenade is a thrown explosive in flight. Damage is applied only when it
// detonates.
type Grenade struct {
	From, To Cell
	Team     Team
	Thrower  string
	Elapsed  int
	Flight   int // ticks from throw to detonation
}

// Progress returns the flight fraction in [0,1].
func (gr *Grenade) Progress() float64 {
	if gr.Flight <= 0 {
		return 1
	}
	return math.Min(1, float64(gr.Elapsed)/float64(gr.Flight))
}

// Position returns the interpolated position along the throw.
func (gr *Grenade) Position() (float64, float64) {
	t := gr.Progress()
	x := float64(gr.From.X) + (float64(gr.To.X)-float64(gr.From.X))*t
	y := float64(gr.From.Y) + (float64(gr.To.Y)-float64(gr.From.Y))*t
	return x, y
}

// --- Combat Manager ---

// CombatManager owns everything in flight and resolves fire.
type CombatManager struct {
	rules    Rules
	tracers  []*Tracer
	grenades []*Grenade
}

// NewCombatManager creates an empty combat manager.
func NewCombatManager(rules Rules) *CombatManager {
	return &CombatManager{rules: rules}
}

// Tracers returns the live tracers.
func (cm *CombatManager) Tracers() []*Tracer { return cm.tracers }

// Grenades returns the grenades in flight.
func (cm *CombatManager) Grenades() []*Grenade { return cm.grenades }

// shooters returns the squad's units allowed to fire this tick: conscious
// fighters, or the commander once every fighter is dead. Incapacitated
// fighters can still be revived and keep the commander holding fire.
func shooters(sq *SquadState) []*Unit {
	var out []*Unit
	for _, f := range sq.Fighters {
		if f.InPlay() {
			out = append(out, f)
		}
	}
	if sq.FightersAlive() == 0 && sq.Commander.InPlay() && sq.Commander.Ammo > 0 {
		out = append(out, sq.Commander)
	}
	return out
}

// ResolveCombat lets every shooter of sq take at most one action against
// enemies: a shot within gun range, else a grenade throw within grenade
// range. Commanders never throw.
func (cm *CombatManager) ResolveCombat(ctx *squadContext, sq, enemies *SquadState) {
	r := cm.rules
	for _, s := range shooters(sq) {
		target, ok := perceive(ctx.grid, s.Pos, enemies)
		if !ok {
			continue
		}
		d := s.Pos.Manhattan(target.Pos)
		switch {
		case d <= r.GunRange && s.Ammo > 0:
			cm.fire(ctx, s, target.Pos, enemies)
		case d > r.GunRange && d <= r.GrenadeRange && s.Grenades > 0 && s.Role == RoleFighter:
			cm.throw(ctx, s, target.Pos)
		}
	}
}

func (cm *CombatManager) fire(ctx *squadContext, s *Unit, at Cell, enemies *SquadState) {
	s.Ammo--
	victim, hit := enemies.UnitAt(at)
	cm.tracers = append(cm.tracers, &Tracer{From: s.Pos, To: at, Team: s.Team, Hit: hit})

	detail := at.String() + " miss"
	if hit {
		detail = at.String() + " hit " + victim.Label
	}
	ctx.events.unitEvent(ctx.tick, s, CatCombat, "fire", detail, float64(s.Ammo))
	if hit {
		applyHit(ctx, victim, cm.rules.BulletDamage, s.Label)
	}
}

func (cm *CombatManager) throw(ctx *squadContext, s *Unit, at Cell) {
	s.Grenades--
	cm.grenades = append(cm.grenades, &Grenade{
		From:    s.Pos,
		To:      at,
		Team:    s.Team,
		Thrower: s.Label,
		Flight:  cm.rules.GrenadeFlightTicks,
	})
	ctx.events.unitEvent(ctx.tick, s, CatCombat, "grenade", s.Pos.String()+" -> "+at.String(), float64(s.Grenades))
}

// applyHit deals damage and records what it did.
func applyHit(ctx *squadContext, u *Unit, dmg int, source string) {
	res := u.ApplyDamage(dmg, ctx.rules.MaxRevives)
	fields := logrus.Fields{"team": u.Team.String(), "unit": u.Label, "role": u.Role.String(), "source": source}
	switch res {
	case DamageIncapacitated:
		ctx.events.unitEvent(ctx.tick, u, CatCombat, "incapacitated", "by "+source, 0)
		ctx.log.WithFields(fields).Debug("Fighter incapacitated.")
	case DamageKilled:
		ctx.events.unitEvent(ctx.tick, u, CatCombat, "death", "by "+source, 0)
		ctx.log.WithFields(fields).Info("Unit killed.")
	case DamageWounded:
		ctx.events.AddVerbose(ctx.tick, u.Label, u.Team.String(), CatCombat, "wounded", fmt.Sprintf("-%d by %s", dmg, source), float64(u.HP))
	}
}

// Update ages tracers and advances grenades, detonating those whose flight
// is over. Splash hits every unit of either squad within the blast radius
// that still has hit points.
func (cm *CombatManager) Update(ctx *squadContext, squads ...*SquadState) {
	keptT := cm.tracers[:0]
	for _, t := range cm.tracers {
		t.Age++
		if t.Age < cm.rules.TracerLifetime {
			keptT = append(keptT, t)
		}
	}
	cm.tracers = keptT

	keptG := cm.grenades[:0]
	for _, gr := range cm.grenades {
		gr.Elapsed++
		if gr.Elapsed < gr.Flight {
			keptG = append(keptG, gr)
			continue
		}
		cm.detonate(ctx, gr, squads)
	}
	cm.grenades = keptG
}

func (cm *CombatManager) detonate(ctx *squadContext, gr *Grenade, squads []*SquadState) {
	hits := 0
	for _, sq := range squads {
		for _, u := range sq.Units() {
			if u.HP <= 0 {
				continue
			}
			dx := float64(u.Pos.X - gr.To.X)
			dy := float64(u.Pos.Y - gr.To.Y)
			if math.Hypot(dx, dy) > cm.rules.GrenadeRadius {
				continue
			}
			hits++
			applyHit(ctx, u, cm.rules.GrenadeDamage, gr.Thrower)
		}
	}
	ctx.events.Add(ctx.tick, gr.Thrower, gr.Team.String(), CatCombat, "detonation", fmt.Sprintf("%s hits=%d", gr.To, hits), float64(hits))
}
