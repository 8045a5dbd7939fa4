package game

import (
	"errors"
	"fmt"
)

// Tile identifies the terrain kind of one grid cell.
type Tile uint8

const (
	TileOpen         Tile = iota // Default open ground
	TileRock                     // Blocks movement and sight, gives cover
	TileTree                     // Blocks sight, gives cover, walkable
	TileWater                    // Blocks movement only
	TileAmmoDepot                // Walkable resupply point
	TileMedicalDepot             // Walkable medical point
)

func (t Tile) String() string {
	switch t {
	case TileOpen:
		return "open"
	case TileRock:
		return "rock"
	case TileTree:
		return "tree"
	case TileWater:
		return "water"
	case TileAmmoDepot:
		return "ammo_depot"
	case TileMedicalDepot:
		return "medical_depot"
	default:
		return "unknown"
	}
}

// tileBlocksMovement returns true if units cannot enter the tile.
func tileBlocksMovement(t Tile) bool {
	return t == TileRock || t == TileWater
}

// tileBlocksLOS returns true if the tile fully blocks line of sight.
func tileBlocksLOS(t Tile) bool {
	return t == TileRock || t == TileTree
}

// tileIsCover returns true if the tile damps the threat computed for it.
func tileIsCover(t Tile) bool {
	return t == TileRock || t == TileTree
}

var (
	// ErrEmptyGrid is returned when a grid would have zero width or height.
	ErrEmptyGrid = errors.New("grid has zero width or height")
	// ErrRaggedGrid is returned when map rows differ in width.
	ErrRaggedGrid = errors.New("grid rows have unequal width")
	// ErrNoPassableCell is returned when a depot cannot be placed on walkable ground.
	ErrNoPassableCell = errors.New("grid has no passable cell")
)

// Depots holds the resupply points of both squads.
type Depots struct {
	RedAmmo, RedMedical   Cell
	BlueAmmo, BlueMedical Cell
}

// Ammo returns the ammo depot of the given team.
func (d Depots) Ammo(t Team) Cell {
	if t == TeamRed {
		return d.RedAmmo
	}
	return d.BlueAmmo
}

// Medical returns the medical depot of the given team.
func (d Depots) Medical(t Team) Cell {
	if t == TeamRed {
		return d.RedMedical
	}
	return d.BlueMedical
}

// Grid is the static tile map. It is never mutated once construction returns.
type Grid struct {
	Cols   int
	Rows   int
	tiles  []Tile
	depots Depots
}

// NewGrid builds a grid from a row-major tile slice and depot placement.
// Depots that are out of bounds or impassable are moved to the nearest
// passable cell, which then takes the matching depot tile.
func NewGrid(cols, rows int, tiles []Tile, depots Depots) (*Grid, error) {
	if cols <= 0 || rows <= 0 {
		return nil, ErrEmptyGrid
	}
	if len(tiles) != cols*rows {
		return nil, fmt.Errorf("tile count %d does not match %dx%d: %w", len(tiles), cols, rows, ErrRaggedGrid)
	}
	g := &Grid{Cols: cols, Rows: rows, tiles: make([]Tile, len(tiles))}
	copy(g.tiles, tiles)

	var ok bool
	if depots.RedAmmo, ok = g.settleDepot(depots.RedAmmo, TileAmmoDepot); !ok {
		return nil, fmt.Errorf("no passable cell for red ammo depot: %w", ErrNoPassableCell)
	}
	if depots.RedMedical, ok = g.settleDepot(depots.RedMedical, TileMedicalDepot); !ok {
		return nil, fmt.Errorf("no passable cell for red medical depot: %w", ErrNoPassableCell)
	}
	if depots.BlueAmmo, ok = g.settleDepot(depots.BlueAmmo, TileAmmoDepot); !ok {
		return nil, fmt.Errorf("no passable cell for blue ammo depot: %w", ErrNoPassableCell)
	}
	if depots.BlueMedical, ok = g.settleDepot(depots.BlueMedical, TileMedicalDepot); !ok {
		return nil, fmt.Errorf("no passable cell for blue medical depot: %w", ErrNoPassableCell)
	}
	g.depots = depots
	return g, nil
}

// NewOpenGrid returns an all-open grid with default depot placement.
func NewOpenGrid(cols, rows int) (*Grid, error) {
	if cols <= 0 || rows <= 0 {
		return nil, ErrEmptyGrid
	}
	return NewGrid(cols, rows, make([]Tile, cols*rows), DefaultDepots(cols, rows))
}

// DefaultDepots returns the fallback depot placement for a grid of the given size.
func DefaultDepots(cols, rows int) Depots {
	return Depots{
		RedAmmo:     Cell{1, 1},
		RedMedical:  Cell{1, 2},
		BlueAmmo:    Cell{cols - 2, rows - 2},
		BlueMedical: Cell{cols - 2, rows - 3},
	}
}

// settleDepot moves a depot onto a passable in-bounds cell and stamps its tile.
func (g *Grid) settleDepot(c Cell, kind Tile) (Cell, bool) {
	c = g.clamp(c)
	if !g.Passable(c) {
		var ok bool
		if c, ok = g.nearestPassable(c); !ok {
			return c, false
		}
	}
	g.tiles[g.Index(c)] = kind
	return c, true
}

func (g *Grid) clamp(c Cell) Cell {
	c.X = min(max(c.X, 0), g.Cols-1)
	c.Y = min(max(c.Y, 0), g.Rows-1)
	return c
}

// nearestPassable does a BFS over all in-bounds cells from c.
func (g *Grid) nearestPassable(c Cell) (Cell, bool) {
	seen := make([]bool, len(g.tiles))
	queue := []Cell{c}
	seen[g.Index(c)] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if g.Passable(cur) {
			return cur, true
		}
		for _, d := range neighbours4 {
			n := cur.Add(d)
			if !g.InBounds(n) || seen[g.Index(n)] {
				continue
			}
			seen[g.Index(n)] = true
			queue = append(queue, n)
		}
	}
	return c, false
}

// Index returns the flat index of c (y*cols+x). c must be in bounds.
func (g *Grid) Index(c Cell) int {
	return c.Y*g.Cols + c.X
}

// CellAt returns the cell for a flat index.
func (g *Grid) CellAt(idx int) Cell {
	return Cell{idx % g.Cols, idx / g.Cols}
}

// Size returns the number of cells.
func (g *Grid) Size() int { return len(g.tiles) }

// InBounds reports whether c lies on the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.Cols && c.Y < g.Rows
}

// TileAt returns the tile at c. Out-of-bounds cells read as rock.
func (g *Grid) TileAt(c Cell) Tile {
	if !g.InBounds(c) {
		return TileRock
	}
	return g.tiles[g.Index(c)]
}

// Passable reports whether units can stand on c.
func (g *Grid) Passable(c Cell) bool {
	return g.InBounds(c) && !tileBlocksMovement(g.tiles[g.Index(c)])
}

// BlocksLOS reports whether c occludes sight. Out-of-bounds cells block.
func (g *Grid) BlocksLOS(c Cell) bool {
	return !g.InBounds(c) || tileBlocksLOS(g.tiles[g.Index(c)])
}

// IsCover reports whether c is a cover tile.
func (g *Grid) IsCover(c Cell) bool {
	return g.InBounds(c) && tileIsCover(g.tiles[g.Index(c)])
}

// Depots returns the depot placement of both squads.
func (g *Grid) Depots() Depots { return g.depots }

// nearestPassableOrSelf nudges a starting position onto walkable ground.
func (g *Grid) nearestPassableOrSelf(c Cell) Cell {
	c = g.clamp(c)
	if g.Passable(c) {
		return c
	}
	if n, ok := g.nearestPassable(c); ok {
		return n
	}
	return c
}
