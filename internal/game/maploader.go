package game

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

//go:embed maps/*.txt
var builtinMaps embed.FS

// DefaultMapName is the built-in map used when no usable map is supplied.
const DefaultMapName = "default"

// Map text format, one character per cell:
//
//	.  open        #  rock       T  tree      ~  water
//	A  red ammo    M  red med    a  blue ammo m  blue med
//
// Any other character reads as open ground. Blank lines are skipped.
func tileForRune(r rune) Tile {
	switch r {
	case '#':
		return TileRock
	case 'T':
		return TileTree
	case '~':
		return TileWater
	case 'A', 'a':
		return TileAmmoDepot
	case 'M', 'm':
		return TileMedicalDepot
	default:
		return TileOpen
	}
}

// ParseGrid reads a text map. Rows must all have the same width.
func ParseGrid(r io.Reader) (*Grid, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read map: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyGrid
	}

	cols := len([]rune(lines[0]))
	rows := len(lines)
	tiles := make([]Tile, 0, cols*rows)

	var red, blue struct {
		ammo, med       Cell
		hasAmmo, hasMed bool
	}
	for y, line := range lines {
		runes := []rune(line)
		if len(runes) != cols {
			return nil, fmt.Errorf("row %d has width %d, want %d: %w", y, len(runes), cols, ErrRaggedGrid)
		}
		for x, ch := range runes {
			switch ch {
			case 'A':
				red.ammo, red.hasAmmo = Cell{x, y}, true
			case 'M':
				red.med, red.hasMed = Cell{x, y}, true
			case 'a':
				blue.ammo, blue.hasAmmo = Cell{x, y}, true
			case 'm':
				blue.med, blue.hasMed = Cell{x, y}, true
			}
			tiles = append(tiles, tileForRune(ch))
		}
	}

	depots := DefaultDepots(cols, rows)
	if red.hasAmmo {
		depots.RedAmmo = red.ammo
	}
	if red.hasMed {
		depots.RedMedical = red.med
	}
	if blue.hasAmmo {
		depots.BlueAmmo = blue.ammo
	}
	if blue.hasMed {
		depots.BlueMedical = blue.med
	}
	return NewGrid(cols, rows, tiles, depots)
}

// ParseGridString is ParseGrid over a string.
func ParseGridString(s string) (*Grid, error) {
	return ParseGrid(strings.NewReader(s))
}

// LoadGridFile parses the map file at p.
func LoadGridFile(p string) (*Grid, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open map %s: %w", p, err)
	}
	defer f.Close()

	g, err := ParseGrid(f)
	if err != nil {
		return nil, fmt.Errorf("parse map %s: %w", p, err)
	}
	return g, nil
}

// BuiltinGrid returns one of the maps compiled into the binary.
func BuiltinGrid(name string) (*Grid, error) {
	f, err := builtinMaps.Open(path.Join("maps", name+".txt"))
	if err != nil {
		return nil, fmt.Errorf("builtin map %q: %w", name, err)
	}
	defer f.Close()
	return ParseGrid(f)
}

// BuiltinGridNames lists the compiled-in maps in sorted order.
func BuiltinGridNames() []string {
	entries, err := builtinMaps.ReadDir("maps")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".txt"))
	}
	sort.Strings(names)
	return names
}

// DefaultGrid returns the built-in default map. It panics only if the binary
// was built without it.
func DefaultGrid() *Grid {
	g, err := BuiltinGrid(DefaultMapName)
	if err != nil {
		panic(err)
	}
	return g
}

// ResolveGrid loads a map by built-in name or file path. Missing or malformed
// input falls back to the default map with a warning.
func ResolveGrid(ref string, log logrus.FieldLogger) *Grid {
	if ref == "" {
		return DefaultGrid()
	}
	if g, err := BuiltinGrid(ref); err == nil {
		return g
	}
	g, err := LoadGridFile(ref)
	if err != nil {
		if log != nil {
			log.WithError(err).WithField("map", ref).Warn("Map unusable, falling back to default.")
		}
		return DefaultGrid()
	}
	return g
}
