package game

// Perception in this model is global: every in-play enemy is a known
// position. Line of sight only gates who can be engaged.

// perceive returns the closest in-play enemy in line of sight of from.
// Ties go to the earlier unit in lookup order.
func perceive(g *Grid, from Cell, enemies *SquadState) (*Unit, bool) {
	var best *Unit
	bestD := 0
	for _, e := range enemies.Units() {
		if !e.InPlay() {
			continue
		}
		d := from.Manhattan(e.Pos)
		if best != nil && d >= bestD {
			continue
		}
		if !HasLineOfSight(g, from, e.Pos) {
			continue
		}
		best, bestD = e, d
	}
	return best, best != nil
}

// inCombatRange reports whether any enemy is within gun range and in sight.
func inCombatRange(ctx *squadContext, from Cell) bool {
	for _, e := range ctx.enemies {
		if from.Manhattan(e) <= ctx.rules.GunRange && HasLineOfSight(ctx.grid, from, e) {
			return true
		}
	}
	return false
}

// nearestCell returns the enemy cell closest to from by Manhattan distance.
// Ties go to the earlier entry.
func nearestCell(from Cell, cells []Cell) (Cell, bool) {
	best, bestD := Cell{}, -1
	for _, c := range cells {
		if d := from.Manhattan(c); bestD < 0 || d < bestD {
			best, bestD = c, d
		}
	}
	return best, bestD >= 0
}
