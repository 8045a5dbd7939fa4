package game

import "fmt"

// Cell is an integer grid coordinate. It is the key into every grid-sized array.
type Cell struct {
	X, Y int
}

// C is shorthand for Cell{X: x, Y: y}.
func C(x, y int) Cell { return Cell{X: x, Y: y} }

// Add returns c+o.
func (c Cell) Add(o Cell) Cell { return Cell{c.X + o.X, c.Y + o.Y} }

// Manhattan returns the 4-connected distance between two cells.
func (c Cell) Manhattan(o Cell) int {
	return absInt(c.X-o.X) + absInt(c.Y-o.Y)
}

// Less orders cells row-major: by Y, then by X.
func (c Cell) Less(o Cell) bool {
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.X < o.X
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// neighbours4 lists the 4-connected step offsets in the order searches expand them.
var neighbours4 = [4]Cell{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
