package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Garsondee/Squad-Command/internal/game"
)

// Settings controls one batch of headless matches.
type Settings struct {
	Presets        []string `mapstructure:"presets"`
	Maps           []string `mapstructure:"maps"`
	MaxTicks       int      `mapstructure:"max_ticks"`
	StalemateTicks int      `mapstructure:"stalemate_ticks"`
	DiagEvery      int      `mapstructure:"diag_every"`
	Workers        int      `mapstructure:"workers"`
	LogLevel       string   `mapstructure:"log_level"`
	LogFormat      string   `mapstructure:"log_format"`
	Copy           bool     `mapstructure:"copy"`
	PresetsFile    string   `mapstructure:"presets_file"`
}

func setDefaults(v *viper.Viper) {
	r := game.DefaultRules()
	v.SetDefault("presets", []string{"balanced"})
	v.SetDefault("maps", []string{game.DefaultMapName})
	v.SetDefault("max_ticks", r.MaxTicks)
	v.SetDefault("stalemate_ticks", r.StalemateTicks)
	v.SetDefault("diag_every", 0)
	v.SetDefault("workers", 4)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("copy", false)
	v.SetDefault("presets_file", "")
}

// RegisterFlags declares the command-line flags LoadSettings understands.
func RegisterFlags(fs *pflag.FlagSet) {
	r := game.DefaultRules()
	fs.String("config", "", "optional settings file (yaml, json or toml)")
	fs.StringSlice("presets", []string{"balanced"}, "squad presets to play")
	fs.StringSlice("maps", []string{game.DefaultMapName}, "built-in map names or map files")
	fs.Int("max-ticks", r.MaxTicks, "hard tick limit per match")
	fs.Int("stalemate-ticks", r.StalemateTicks, "ticks without change before a stalemate is called")
	fs.Int("diag-every", 0, "log a squad status line every n ticks (0 disables)")
	fs.Int("workers", 4, "matches played concurrently")
	fs.String("log-level", "info", "log level")
	fs.String("log-format", "text", "log format: text or json")
	fs.Bool("copy", false, "copy the report to the clipboard")
	fs.String("presets-file", "", "preset catalogue overriding the built-in one")
}

// LoadSettings resolves settings from defaults, an optional file, SQUAD_*
// environment variables and fs, in increasing priority. fs may be nil.
func LoadSettings(file string, fs *pflag.FlagSet) (Settings, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("SQUAD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read settings %s: %w", file, err)
		}
	}
	if fs != nil {
		var bindErr error
		fs.VisitAll(func(f *pflag.Flag) {
			if f.Name == "config" || bindErr != nil {
				return
			}
			bindErr = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
		})
		if bindErr != nil {
			return Settings{}, fmt.Errorf("bind flags: %w", bindErr)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	// Env values for list keys arrive as one comma-separated string.
	s.Presets = splitList(s.Presets)
	s.Maps = splitList(s.Maps)
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate checks the settings for values no match could run with.
func (s Settings) Validate() error {
	switch {
	case s.MaxTicks <= 0:
		return fmt.Errorf("max_ticks must be > 0, got %d", s.MaxTicks)
	case s.StalemateTicks <= 0:
		return fmt.Errorf("stalemate_ticks must be > 0, got %d", s.StalemateTicks)
	case s.Workers <= 0:
		return fmt.Errorf("workers must be > 0, got %d", s.Workers)
	case s.DiagEvery < 0:
		return fmt.Errorf("diag_every must be >= 0, got %d", s.DiagEvery)
	case len(s.Presets) == 0:
		return fmt.Errorf("at least one preset is required")
	case len(s.Maps) == 0:
		return fmt.Errorf("at least one map is required")
	}
	return nil
}

// Rules returns the default rule set with the settings' limits applied.
func (s Settings) Rules() game.Rules {
	r := game.DefaultRules()
	r.MaxTicks = s.MaxTicks
	r.StalemateTicks = s.StalemateTicks
	return r
}
