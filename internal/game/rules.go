package game

// Rules holds every tunable constant of a match. A match copies its Rules at
// construction; changing the value afterwards has no effect on it.
type Rules struct {
	// Combat. Distances are Manhattan cells except GrenadeRadius (Euclidean).
	GunRange           int
	GrenadeRange       int
	BulletDamage       int
	GrenadeDamage      int
	GrenadeRadius      float64
	GrenadeFlightTicks int
	TracerLifetime     int

	// Unit health and logistics.
	MaxHP            int
	CriticalHP       int // fighters at or below this retreat
	HealThreshold    int // conscious fighters below this are patients
	LowAmmo          int
	MaxRevives       int
	ResupplyCooldown int
	RunnerDepotReach int
	RunnerThrowReach int

	// Risk field.
	RiskBaseline float64
	RiskFalloff  float64 // distance at which a source stops contributing
	CoverDamping float64

	// Movement.
	MaxSafeRisk            float64
	SafeSearchRadius       int
	CommanderRiskThreshold float64
	SupportRiskWeight      float64 // healer and runner
	AdvanceRiskWeight      float64
	RetreatRiskWeight      float64
	CommanderRiskWeight    float64

	CommanderSidearmRounds int

	// Termination.
	StalemateTicks int
	MaxTicks       int
}

// DefaultRules returns the standard rule set.
func DefaultRules() Rules {
	return Rules{
		GunRange:           6,
		GrenadeRange:       10,
		BulletDamage:       20,
		GrenadeDamage:      40,
		GrenadeRadius:      3,
		GrenadeFlightTicks: 10,
		TracerLifetime:     10,

		MaxHP:            100,
		CriticalHP:       25,
		HealThreshold:    60,
		LowAmmo:          5,
		MaxRevives:       2,
		ResupplyCooldown: 50,
		RunnerDepotReach: 3,
		RunnerThrowReach: 25,

		RiskBaseline: 0.1,
		RiskFalloff:  10,
		CoverDamping: 0.7,

		MaxSafeRisk:            0.25,
		SafeSearchRadius:       8,
		CommanderRiskThreshold: 0.5,
		SupportRiskWeight:      0.3,
		AdvanceRiskWeight:      0.3,
		RetreatRiskWeight:      2.0,
		CommanderRiskWeight:    2.0,

		CommanderSidearmRounds: 10,

		StalemateTicks: 500,
		MaxTicks:       5000,
	}
}

// Loadout is the starting kit of a squad's fighters. Bonus values from
// presets are already folded in.
type Loadout struct {
	HP       int
	Ammo     int
	Grenades int
}

// DefaultLoadout is the base fighter kit before any preset bonus.
func DefaultLoadout() Loadout {
	return Loadout{HP: 100, Ammo: 20, Grenades: 2}
}

// WithBonus returns l with the given extras added.
func (l Loadout) WithBonus(hp, ammo, grenades int) Loadout {
	return Loadout{HP: l.HP + hp, Ammo: l.Ammo + ammo, Grenades: l.Grenades + grenades}
}
