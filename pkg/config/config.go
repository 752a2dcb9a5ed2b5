// Package config handles loading and saving mecamatic configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/mecamatic/config.yaml
//   - Data:    ~/.local/share/mecamatic/ (lessons, profiles)
//   - State:   ~/.local/state/mecamatic/ (menu expand state)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Lucasmercado101/mecamatic/pkg/lesson"
)

const appName = "mecamatic"

// Environment variables that override the config file.
const (
	EnvLessonsDir  = "MECAMATIC_LESSONS_DIR"
	EnvProfilesDir = "MECAMATIC_PROFILES_DIR"
	EnvForcePoll   = "MECAMATIC_FORCE_POLL"
)

// Lesson source kinds.
const (
	SourceAuto   = "auto"
	SourceDir    = "dir"
	SourceSQLite = "sqlite"
)

// LessonsConfig says where the lesson set lives.
type LessonsConfig struct {
	Dir    string        `yaml:"dir,omitempty"`
	Source string        `yaml:"source,omitempty"` // auto, dir, sqlite
	Bounds lesson.Bounds `yaml:"bounds,omitempty"` // Used when the store cannot enumerate itself
}

// ProfilesConfig says where user profiles are kept.
type ProfilesConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	Language       string  `yaml:"language,omitempty"`
	DefaultProfile string  `yaml:"default_profile,omitempty"` // Preselected in the profile picker
	SplitRatio     float64 `yaml:"split_ratio,omitempty"`     // Menu pane width ratio (0.2-0.8)
}

// WatchConfig controls live reload of the lesson tree.
type WatchConfig struct {
	Enabled    *bool `yaml:"enabled,omitempty"`
	DebounceMS int   `yaml:"debounce_ms,omitempty"`
	ForcePoll  bool  `yaml:"force_poll,omitempty"`
}

// Config is the top-level configuration for mecamatic.
type Config struct {
	Lessons  LessonsConfig  `yaml:"lessons,omitempty"`
	Profiles ProfilesConfig `yaml:"profiles,omitempty"`
	UI       UIConfig       `yaml:"ui,omitempty"`
	Watch    WatchConfig    `yaml:"watch,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	cfg := Config{
		Lessons: LessonsConfig{
			Source: SourceAuto,
			Bounds: lesson.DefaultBounds,
		},
		UI: UIConfig{
			Language:   "es",
			SplitRatio: 0.35,
		},
		Watch: WatchConfig{
			DebounceMS: 200,
		},
	}
	if dir := DataDir(); dir != "" {
		cfg.Lessons.Dir = filepath.Join(dir, "lessons")
		cfg.Profiles.Dir = filepath.Join(dir, "profiles")
	}
	return cfg
}

// ConfigDir returns the XDG config directory for mecamatic.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// DataDir returns the XDG data directory for mecamatic.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", appName)
}

// StateDir returns the XDG state directory for mecamatic.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", appName)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	switch cfg.Lessons.Source {
	case SourceAuto, SourceDir, SourceSQLite:
	case "":
		cfg.Lessons.Source = SourceAuto
	default:
		return cfg, fmt.Errorf("parsing config: unknown lessons.source %q", cfg.Lessons.Source)
	}
	if cfg.Lessons.Bounds.Empty() {
		cfg.Lessons.Bounds = lesson.DefaultBounds
	}

	cfg.Lessons.Dir = expandHome(cfg.Lessons.Dir)
	cfg.Profiles.Dir = expandHome(cfg.Profiles.Dir)

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ApplyEnv overlays the MECAMATIC_* environment variables. getenv is
// usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvLessonsDir); v != "" {
		c.Lessons.Dir = expandHome(v)
	}
	if v := getenv(EnvProfilesDir); v != "" {
		c.Profiles.Dir = expandHome(v)
	}
	if v := getenv(EnvForcePoll); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Watch.ForcePoll = b
		}
	}
}

// WatchEnabled reports whether lesson live reload is on (default true).
func (c Config) WatchEnabled() bool {
	return c.Watch.Enabled == nil || *c.Watch.Enabled
}

// Debounce returns the watcher debounce interval.
func (c Config) Debounce() time.Duration {
	if c.Watch.DebounceMS <= 0 {
		return 200 * time.Millisecond
	}
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}

// ClampedSplitRatio returns the menu pane ratio limited to 0.2-0.8.
func (c Config) ClampedSplitRatio() float64 {
	r := c.UI.SplitRatio
	switch {
	case r == 0:
		return 0.35
	case r < 0.2:
		return 0.2
	case r > 0.8:
		return 0.8
	}
	return r
}

// ResolvePath expands ~ in a user-supplied path.
func ResolvePath(path string) string {
	return expandHome(path)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
