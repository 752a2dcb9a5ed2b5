// Package shell ties the lesson store, the navigator, the user profiles and
// the notifier together. Both the terminal UI and the stdio bridge drive the
// application through a Shell.
package shell

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Lucasmercado101/mecamatic/internal/datasource"
	"github.com/Lucasmercado101/mecamatic/pkg/config"
	"github.com/Lucasmercado101/mecamatic/pkg/debug"
	"github.com/Lucasmercado101/mecamatic/pkg/lesson"
	"github.com/Lucasmercado101/mecamatic/pkg/menu"
	"github.com/Lucasmercado101/mecamatic/pkg/metrics"
	"github.com/Lucasmercado101/mecamatic/pkg/notify"
	"github.com/Lucasmercado101/mecamatic/pkg/profile"
	"github.com/Lucasmercado101/mecamatic/pkg/watcher"
)

// Texts of the delete-profile dialogs.
const (
	DeleteTitle      = "Eliminar usuario"
	DeleteMessage    = "¿Desea continuar?"
	deleteDetailFmt  = "Esta acción es irreversible y eliminará los datos, la configuracion y los ejercicios que haya creado el usuario: %s"
	ErrorTitle       = "Error"
	NoProfileMessage = "No hay ningún usuario seleccionado"
)

// ErrClosed is returned by lookups after Close.
var ErrClosed = errors.New("shell closed")

// DeleteDetail is the warning shown before removing name.
func DeleteDetail(name string) string {
	return fmt.Sprintf(deleteDetailFmt, name)
}

// Options configures Open.
type Options struct {
	Config   config.Config
	Notifier notify.Notifier
	// StateDir holds the menu expand state. Empty disables persistence.
	StateDir string
}

// Shell is safe for concurrent use. Reload swaps the store and navigator
// atomically; callers holding an Exercise keep a valid value.
type Shell struct {
	cfg      config.Config
	profiles *profile.Store
	notifier notify.Notifier
	stateDir string

	mu     sync.RWMutex
	store  datasource.Store
	source datasource.DataSource
	nav    *lesson.Navigator
}

// Open resolves the lesson source named by the config and prepares the
// navigator over it.
func Open(ctx context.Context, opts Options) (*Shell, error) {
	if opts.Notifier == nil {
		opts.Notifier = notify.Log{}
	}
	s := &Shell{
		cfg:      opts.Config,
		profiles: profile.NewStore(opts.Config.Profiles.Dir),
		notifier: opts.Notifier,
		stateDir: opts.StateDir,
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload reopens the lesson source and rebuilds the navigator bounds from
// its catalog. On failure the previous store stays in use.
func (s *Shell) Reload(ctx context.Context) error {
	defer debug.LogEnterExit("shell.Reload")()
	defer metrics.Timer(metrics.SourceReload)()

	st, src, err := datasource.Open(ctx, s.cfg.Lessons.Dir, s.cfg.Lessons.Source)
	if err != nil {
		return fmt.Errorf("opening lessons: %w", err)
	}
	stopCatalog := metrics.Timer(metrics.CatalogRead)
	catalog, err := st.Catalog(ctx)
	stopCatalog()
	if err != nil {
		st.Close()
		return fmt.Errorf("reading lesson catalog: %w", err)
	}
	seq := lesson.SequenceFromCatalog(catalog)
	if catalog.Count() == 0 {
		seq = lesson.UniformSequence(s.cfg.Lessons.Bounds)
	}

	// Lookups hold the read lock for their whole duration, so once Lock
	// returns no request is still reading from old.
	s.mu.Lock()
	old := s.store
	s.store, s.source, s.nav = st, src, lesson.NewNavigator(seq, currentStore{s})
	s.mu.Unlock()

	if old != nil {
		old.Close()
	}
	debug.Log("lessons from %s (%d exercises)", src, catalog.Count())
	return nil
}

// Close releases the lesson store.
func (s *Shell) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return nil
	}
	err := s.store.Close()
	s.store = nil
	return err
}

// Config returns the configuration the shell was opened with.
func (s *Shell) Config() config.Config { return s.cfg }

// Profiles returns the profile store.
func (s *Shell) Profiles() *profile.Store { return s.profiles }

// Notifier returns the notifier used for dialogs.
func (s *Shell) Notifier() notify.Notifier { return s.notifier }

// Source describes where the lessons were loaded from.
func (s *Shell) Source() datasource.DataSource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// Navigator returns the current navigator.
func (s *Shell) Navigator() *lesson.Navigator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nav
}

// Store returns a store that always reads from the lessons currently
// loaded. It stays usable across reloads.
func (s *Shell) Store() lesson.ContentStore {
	return currentStore{s}
}

// currentStore forwards to the shell's store of the moment. Navigators
// handed out before a reload keep working against the new store instead of
// the closed one.
type currentStore struct{ s *Shell }

func (c currentStore) Lookup(ctx context.Context, pos lesson.Position) (lesson.ExerciseContent, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	if c.s.store == nil {
		return lesson.ExerciseContent{}, ErrClosed
	}
	return c.s.store.Lookup(ctx, pos)
}

func (c currentStore) Catalog(ctx context.Context) (lesson.Catalog, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	if c.s.store == nil {
		return nil, ErrClosed
	}
	return c.s.store.Catalog(ctx)
}

// Menu builds the lesson menu from the current store. Expand state is
// restored from the state directory.
func (s *Shell) Menu(ctx context.Context) (*menu.Tree, error) {
	defer metrics.Timer(metrics.MenuBuild)()
	tree, err := menu.Build(ctx, s.Store())
	if err != nil {
		return nil, err
	}
	if s.stateDir != "" {
		tree.SetStateDir(s.stateDir)
	}
	return tree, nil
}

// Open resolves a picked exercise.
func (s *Shell) Open(ctx context.Context, pos lesson.Position) (lesson.Exercise, error) {
	defer metrics.Timer(metrics.ExerciseLookup)()
	return countOutcome(s.Navigator().Open(ctx, pos))
}

// Next resolves the exercise after pos.
func (s *Shell) Next(ctx context.Context, pos lesson.Position) (lesson.Exercise, error) {
	defer metrics.Timer(metrics.ExerciseLookup)()
	return countOutcome(s.Navigator().Next(ctx, pos))
}

// Previous resolves the exercise before pos.
func (s *Shell) Previous(ctx context.Context, pos lesson.Position) (lesson.Exercise, error) {
	defer metrics.Timer(metrics.ExerciseLookup)()
	return countOutcome(s.Navigator().Previous(ctx, pos))
}

func countOutcome(ex lesson.Exercise, err error) (lesson.Exercise, error) {
	switch {
	case err == nil:
	case errors.Is(err, lesson.ErrEndOfSequence):
		metrics.EndOfSequence.Inc()
	case errors.Is(err, lesson.ErrStartOfSequence):
		metrics.StartOfSequence.Inc()
	case errors.Is(err, lesson.ErrContentNotFound):
		metrics.ContentNotFound.Inc()
	}
	return ex, err
}

// ProfileNames lists the profiles.
func (s *Shell) ProfileNames(ctx context.Context) ([]string, error) {
	return s.profiles.ListNames(ctx)
}

// LoadSettings loads a profile's settings, creating them on first access.
func (s *Shell) LoadSettings(ctx context.Context, name string) (profile.Settings, error) {
	defer metrics.Timer(metrics.SettingsIO)()
	return s.profiles.LoadSettings(ctx, name)
}

// SaveSettings replaces a profile's settings.
func (s *Shell) SaveSettings(ctx context.Context, name string, settings profile.Settings) error {
	defer metrics.Timer(metrics.SettingsIO)()
	return s.profiles.SaveSettings(ctx, name, settings)
}

// CreateProfile creates a profile with default settings.
func (s *Shell) CreateProfile(ctx context.Context, name string) (profile.Settings, error) {
	return s.profiles.Create(ctx, name)
}

// DeleteProfile asks for confirmation and removes the profile. It reports
// whether the profile was deleted. An empty name shows the no-selection
// error and returns profile.ErrNoProfileSelected.
func (s *Shell) DeleteProfile(ctx context.Context, name string) (bool, error) {
	if err := profile.ValidateName(name); err != nil {
		if errors.Is(err, profile.ErrNoProfileSelected) {
			s.notifier.Error(ErrorTitle, NoProfileMessage)
		}
		return false, err
	}
	ok, err := s.notifier.Confirm(ctx, DeleteTitle, DeleteMessage, DeleteDetail(name))
	if err != nil {
		return false, fmt.Errorf("confirming deletion of %q: %w", name, err)
	}
	if !ok {
		debug.Log("deletion of %q declined", name)
		return false, nil
	}
	if err := s.profiles.Delete(ctx, name); err != nil {
		return false, err
	}
	return true, nil
}

// Watch starts a watcher over the lessons directory that reloads the shell
// and then calls onChange. The caller stops the returned watcher.
func (s *Shell) Watch(ctx context.Context, onChange func()) (*watcher.Watcher, error) {
	w, err := watcher.NewWatcher(s.cfg.Lessons.Dir,
		watcher.WithDebounceDuration(s.cfg.Debounce()),
		watcher.WithForcePoll(s.cfg.Watch.ForcePoll),
		watcher.WithOnChange(func() {
			if err := s.Reload(ctx); err != nil {
				debug.Log("reload after change: %v", err)
				return
			}
			if onChange != nil {
				onChange()
			}
		}),
		watcher.WithOnError(func(err error) {
			debug.Log("lesson watcher: %v", err)
		}),
	)
	if err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		return nil, err
	}
	return w, nil
}
