package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Garsondee/Squad-Command/internal/game"
)

//go:embed presets.yaml
var defaultPresets []byte

// ErrUnknownPreset is returned by Lookup for a name not in the catalogue.
var ErrUnknownPreset = errors.New("unknown preset")

// SquadBonus is the extra kit given to every fighter of one side.
type SquadBonus struct {
	HP       int `yaml:"bonus_hp"`
	Ammo     int `yaml:"bonus_ammo"`
	Grenades int `yaml:"bonus_grenades"`
}

// Preset is a named pairing of squad loadouts.
type Preset struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Red         SquadBonus `yaml:"red"`
	Blue        SquadBonus `yaml:"blue"`
}

// Loadout returns the fighter kit for team under this preset.
func (p Preset) Loadout(team game.Team) game.Loadout {
	b := p.Red
	if team == game.TeamBlue {
		b = p.Blue
	}
	return game.DefaultLoadout().WithBonus(b.HP, b.Ammo, b.Grenades)
}

// MatchOptions returns the loadout options for both squads.
func (p Preset) MatchOptions() []game.MatchOption {
	return []game.MatchOption{
		game.WithLoadout(game.TeamRed, p.Loadout(game.TeamRed)),
		game.WithLoadout(game.TeamBlue, p.Loadout(game.TeamBlue)),
	}
}

// Presets is a catalogue of presets keyed by name.
type Presets struct {
	byName map[string]Preset
}

type presetsFile struct {
	Presets []Preset `yaml:"presets"`
}

// DefaultPresets returns the built-in catalogue.
func DefaultPresets() *Presets {
	p, err := parsePresets(defaultPresets)
	if err != nil {
		panic(fmt.Sprintf("built-in presets: %v", err))
	}
	return p
}

// LoadPresets reads a catalogue from path. An empty path yields the
// built-in catalogue.
func LoadPresets(path string) (*Presets, error) {
	if path == "" {
		return DefaultPresets(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets %s: %w", path, err)
	}
	p, err := parsePresets(b)
	if err != nil {
		return nil, fmt.Errorf("parse presets %s: %w", path, err)
	}
	return p, nil
}

func parsePresets(b []byte) (*Presets, error) {
	var f presetsFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	if len(f.Presets) == 0 {
		return nil, errors.New("no presets defined")
	}
	out := &Presets{byName: make(map[string]Preset, len(f.Presets))}
	for _, p := range f.Presets {
		if p.Name == "" {
			return nil, errors.New("preset without a name")
		}
		if _, dup := out.byName[p.Name]; dup {
			return nil, fmt.Errorf("duplicate preset %q", p.Name)
		}
		out.byName[p.Name] = p
	}
	return out, nil
}

// Lookup returns the preset called name.
func (ps *Presets) Lookup(name string) (Preset, error) {
	p, ok := ps.byName[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w %q", ErrUnknownPreset, name)
	}
	return p, nil
}

// Names lists the catalogue in sorted order.
func (ps *Presets) Names() []string {
	names := make([]string, 0, len(ps.byName))
	for n := range ps.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
