package game

// HasLineOfSight walks a Bresenham line from a to b. It fails if the line
// leaves the grid or crosses a sight-blocking tile; the two endpoints
// themselves never block.
func HasLineOfSight(g *Grid, a, b Cell) bool {
	if !g.InBounds(a) || !g.InBounds(b) {
		return false
	}
	line := lineCells(a, b)
	if len(line) <= 2 {
		return true
	}
	for _, c := range line[1 : len(line)-1] {
		if g.BlocksLOS(c) {
			return false
		}
	}
	return true
}

// lineCells returns the Bresenham cells from a to b inclusive.
func lineCells(a, b Cell) []Cell {
	x, y := a.X, a.Y
	dx := absInt(b.X - a.X)
	dy := -absInt(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	errTerm := dx + dy
	cells := make([]Cell, 0, dx-dy+1)
	for {
		cells = append(cells, Cell{x, y})
		if x == b.X && y == b.Y {
			return cells
		}
		e2 := 2 * errTerm
		if e2 >= dy {
			errTerm += dy
			x += sx
		}
		if e2 <= dx {
			errTerm += dx
			y += sy
		}
	}
}
