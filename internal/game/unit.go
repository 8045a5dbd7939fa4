package game

import "fmt"

// Team distinguishes the two squads.
type Team int

const (
	TeamRed  Team = iota // squad A
	TeamBlue             // squad B
)

func (t Team) String() string {
	switch t {
	case TeamRed:
		return "red"
	case TeamBlue:
		return "blue"
	default:
		return "unknown"
	}
}

// Opponent returns the other team.
func (t Team) Opponent() Team {
	if t == TeamRed {
		return TeamBlue
	}
	return TeamRed
}

// Role is the tag that selects a unit's role-specific behaviour.
type Role int

const (
	RoleCommander Role = iota
	RoleFighter
	RoleHealer
	RoleRunner
)

func (r Role) String() string {
	switch r {
	case RoleCommander:
		return "commander"
	case RoleFighter:
		return "fighter"
	case RoleHealer:
		return "healer"
	case RoleRunner:
		return "runner"
	default:
		return "unknown"
	}
}

// HealerState is the healer dispatch state.
type HealerState int

const (
	HealerIdle           HealerState = iota // waiting for a patient
	HealerGoingToDepot                      // collecting supplies
	HealerGoingToPatient                    // walking to the patient
	HealerHealing                           // treatment applied this tick
)

func (hs HealerState) String() string {
	switch hs {
	case HealerIdle:
		return "idle"
	case HealerGoingToDepot:
		return "going_to_depot"
	case HealerGoingToPatient:
		return "going_to_patient"
	case HealerHealing:
		return "healing"
	default:
		return "unknown"
	}
}

// DamageResult says what a hit did to a unit.
type DamageResult int

const (
	DamageIgnored       DamageResult = iota // unit was already out of play
	DamageWounded                           // hit points remain
	DamageIncapacitated                     // fighter knocked out, revivable
	DamageKilled                            // permanently out
)

func (d DamageResult) String() string {
	switch d {
	case DamageIgnored:
		return "ignored"
	case DamageWounded:
		return "wounded"
	case DamageIncapacitated:
		return "incapacitated"
	case DamageKilled:
		return "killed"
	default:
		return "unknown"
	}
}

// Unit is one member of a squad. Units are never removed from their squad;
// death is the Alive flag going false.
type Unit struct {
	Label string // e.g. "R-F1", "B-CMD"
	Team  Team
	Role  Role
	Pos   Cell

	HP    int
	MaxHP int

	Ammo          int
	Grenades      int
	StartAmmo     int // refill level used by the runner
	StartGrenades int

	Alive         bool
	Incapacitated bool // fighters only

	LastResupplyTick int

	// Fighter. Path and PathIndex are per-tick planning scratch: rebuilt
	// every decision cycle and never meaningful across ticks.
	Path       []Cell
	PathIndex  int
	Revives    int
	Resupplies int

	// Healer.
	HealerState HealerState
	Patient     Cell // last known patient position

	// Commander. Positions of conscious squadmates, rebuilt every tick.
	Visible []Cell
}

func newUnit(label string, team Team, role Role, pos Cell, hp, ammo, grenades, cooldown int) *Unit {
	return &Unit{
		Label:            label,
		Team:             team,
		Role:             role,
		Pos:              pos,
		HP:               hp,
		MaxHP:            hp,
		Ammo:             ammo,
		Grenades:         grenades,
		StartAmmo:        ammo,
		StartGrenades:    grenades,
		Alive:            true,
		LastResupplyTick: -cooldown,
	}
}

// InPlay reports whether the unit can act and be targeted.
func (u *Unit) InPlay() bool {
	return u.Alive && !u.Incapacitated
}

// ApplyDamage subtracts amount from the unit's hit points, clamped at zero.
// At zero a fighter with revives left is incapacitated; a fighter without
// revives left and every other role is killed. Units already out of play
// are not affected.
func (u *Unit) ApplyDamage(amount, maxRevives int) DamageResult {
	if !u.InPlay() || amount <= 0 {
		return DamageIgnored
	}
	u.HP = max(0, u.HP-amount)
	if u.HP > 0 {
		return DamageWounded
	}
	switch u.Role {
	case RoleFighter:
		if u.Revives < maxRevives {
			u.Incapacitated = true
			return DamageIncapacitated
		}
		u.kill()
		return DamageKilled
	default:
		u.kill()
		return DamageKilled
	}
}

// Revive brings an incapacitated fighter back to full hit points. Once the
// revive cap is used up the fighter dies instead and Revive reports false.
func (u *Unit) Revive(maxRevives int) bool {
	if u.Role != RoleFighter || !u.Alive || !u.Incapacitated {
		return false
	}
	if u.Revives >= maxRevives {
		u.kill()
		return false
	}
	u.Revives++
	u.Incapacitated = false
	u.HP = u.MaxHP
	return true
}

// Heal restores a conscious unit to full hit points.
func (u *Unit) Heal() {
	if u.InPlay() {
		u.HP = u.MaxHP
	}
}

// Resupply refills ammunition and grenades to the starting loadout.
func (u *Unit) Resupply(tick int) {
	u.Ammo = u.StartAmmo
	u.Grenades = u.StartGrenades
	u.LastResupplyTick = tick
	u.Resupplies++
}

// ResupplyReady reports whether the cooldown since the last resupply has passed.
func (u *Unit) ResupplyReady(tick, cooldown int) bool {
	return tick-u.LastResupplyTick >= cooldown
}

func (u *Unit) kill() {
	u.HP = 0
	u.Alive = false
	u.Incapacitated = false
	u.Path = nil
	u.PathIndex = 0
}

// stepTo moves the unit one cell and records the planned route as scratch.
func (u *Unit) stepTo(path []Cell) bool {
	u.Path = path
	u.PathIndex = 0
	if len(path) < 2 {
		return false
	}
	u.PathIndex = 1
	u.Pos = path[1]
	return true
}

func (u *Unit) String() string {
	status := "ok"
	switch {
	case !u.Alive:
		status = "dead"
	case u.Incapacitated:
		status = "down"
	}
	return fmt.Sprintf("%s %s hp=%d/%d ammo=%d gren=%d %s", u.Label, u.Pos, u.HP, u.MaxHP, u.Ammo, u.Grenades, status)
}

// unitLabel builds the display label for a unit, e.g. "R-F2".
func unitLabel(team Team, role Role, idx int) string {
	prefix := "R"
	if team == TeamBlue {
		prefix = "B"
	}
	switch role {
	case RoleCommander:
		return prefix + "-CMD"
	case RoleHealer:
		return prefix + "-MED"
	case RoleRunner:
		return prefix + "-RUN"
	default:
		return fmt.Sprintf("%s-F%d", prefix, idx+1)
	}
}
