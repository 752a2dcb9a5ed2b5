// Package profile stores user profiles, one folder per user holding a
// settings.json document.
package profile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/Lucasmercado101/mecamatic/pkg/debug"
)

// SettingsFileName is the per-profile settings document.
const SettingsFileName = "settings.json"

var (
	// ErrNoProfileSelected is returned when an operation needs a profile
	// name and got none.
	ErrNoProfileSelected = errors.New("no profile selected")

	// ErrInvalidName is returned for names that cannot be a folder name.
	ErrInvalidName = errors.New("invalid profile name")
)

// Store manages the profiles folder.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. Nothing is created until needed.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the profiles folder.
func (s *Store) Dir() string {
	return s.dir
}

// ValidateName checks that name can be used as a profile folder.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNoProfileSelected
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func (s *Store) profileDir(name string) string {
	return filepath.Join(s.dir, name)
}

// SettingsPath returns where name's settings live.
func (s *Store) SettingsPath(name string) string {
	return filepath.Join(s.profileDir(name), SettingsFileName)
}

// ListNames returns the profile names, sorted. The profiles folder is
// created when missing.
func (s *Store) ListNames(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading profiles: %w", err)
		}
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating profiles folder: %w", err)
		}
		debug.Log("created profiles folder %s", s.dir)
		return []string{}, nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Exists reports whether a profile folder exists.
func (s *Store) Exists(name string) bool {
	if ValidateName(name) != nil {
		return false
	}
	info, err := os.Stat(s.profileDir(name))
	return err == nil && info.IsDir()
}

// LoadSettings returns name's settings. A missing profile folder or
// settings file is created holding DefaultSettings.
func (s *Store) LoadSettings(ctx context.Context, name string) (Settings, error) {
	if err := ValidateName(name); err != nil {
		return Settings{}, err
	}
	if err := ctx.Err(); err != nil {
		return Settings{}, err
	}
	if err := os.MkdirAll(s.profileDir(name), 0o755); err != nil {
		return Settings{}, fmt.Errorf("creating profile folder: %w", err)
	}

	path := s.SettingsPath(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return Settings{}, fmt.Errorf("reading settings: %w", err)
		}
		def := DefaultSettings()
		if err := writeSettings(path, def); err != nil {
			return Settings{}, err
		}
		debug.Log("created default settings for %q", name)
		return def, nil
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("parsing settings for %q: %w", name, err)
	}
	return settings, nil
}

// SaveSettings replaces name's settings.
func (s *Store) SaveSettings(ctx context.Context, name string, settings Settings) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.profileDir(name), 0o755); err != nil {
		return fmt.Errorf("creating profile folder: %w", err)
	}
	return writeSettings(s.SettingsPath(name), settings)
}

// Create makes a new profile with default settings. Creating an existing
// profile returns its current settings.
func (s *Store) Create(ctx context.Context, name string) (Settings, error) {
	return s.LoadSettings(ctx, strings.TrimSpace(name))
}

// Delete removes the profile folder and everything in it.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.RemoveAll(s.profileDir(name)); err != nil {
		return fmt.Errorf("deleting profile %q: %w", name, err)
	}
	debug.Log("deleted profile %q", name)
	return nil
}

func writeSettings(path string, settings Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}
