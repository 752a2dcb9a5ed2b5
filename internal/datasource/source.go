// Package datasource detects and selects where the lesson set is read from.
// It discovers, validates, and selects the freshest valid source among a
// lesson directory tree and a packed SQLite bundle (lessons.db).
package datasource

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Lucasmercado101/mecamatic/pkg/lesson"
	"github.com/Lucasmercado101/mecamatic/pkg/lesson/store"
)

// SourceType identifies the type of lesson source
type SourceType string

const (
	// SourceTypeSQLite is a packed SQLite bundle (lessons.db)
	SourceTypeSQLite SourceType = "sqlite"
	// SourceTypeDir is a directory tree of exercise JSON files
	SourceTypeDir SourceType = "dir"
)

// BundleFileName is the SQLite bundle looked for inside the lessons folder.
const BundleFileName = "lessons.db"

// Priority values for source types (higher = more authoritative)
const (
	PrioritySQLite = 100
	PriorityDir    = 80
)

// DataSource represents a potential source of lesson content
type DataSource struct {
	// Type identifies the source type
	Type SourceType `json:"type"`
	// Path is the bundle file or the lessons folder
	Path string `json:"path"`
	// Priority determines preference when timestamps are equal (higher = preferred)
	Priority int `json:"priority"`
	// ModTime is the newest modification time found in the source
	ModTime time.Time `json:"mod_time"`
	// Valid indicates whether the source passed validation
	Valid bool `json:"valid"`
	// ValidationError describes why validation failed (if Valid is false)
	ValidationError string `json:"validation_error,omitempty"`
	// ExerciseCount is the number of exercises in the source (set during validation)
	ExerciseCount int `json:"exercise_count"`
	// Size is the bundle size or the summed size of exercise files
	Size int64 `json:"size"`
}

// String returns a human-readable description of the source
func (s DataSource) String() string {
	status := "valid"
	if !s.Valid {
		status = fmt.Sprintf("invalid: %s", s.ValidationError)
	}
	return fmt.Sprintf("%s (%s, priority=%d, mod=%s, exercises=%d, %s)",
		s.Path, s.Type, s.Priority, s.ModTime.Format(time.RFC3339), s.ExerciseCount, status)
}

// DiscoveryOptions configures source discovery behavior
type DiscoveryOptions struct {
	// LessonsDir is the lessons folder
	LessonsDir string
	// ValidateAfterDiscovery runs validation on each discovered source
	ValidateAfterDiscovery bool
	// IncludeInvalid includes sources that failed validation in results
	IncludeInvalid bool
	// Verbose enables detailed logging during discovery
	Verbose bool
	// Logger receives log messages when Verbose is true
	Logger func(msg string)
}

// DiscoverSources finds all potential lesson sources in the lessons folder,
// freshest first.
func DiscoverSources(ctx context.Context, opts DiscoveryOptions) ([]DataSource, error) {
	if opts.Logger == nil {
		opts.Logger = func(string) {}
	}
	if opts.LessonsDir == "" {
		return nil, fmt.Errorf("no lessons directory configured")
	}

	if opts.Verbose {
		opts.Logger(fmt.Sprintf("Discovering sources in: %s", opts.LessonsDir))
	}

	var sources []DataSource

	if src, ok := discoverSQLiteSource(opts.LessonsDir, opts); ok {
		sources = append(sources, src)
	}

	dirSource, err := discoverDirSource(ctx, opts.LessonsDir, opts)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		if opts.Verbose {
			opts.Logger(fmt.Sprintf("Directory discovery warning: %v", err))
		}
	} else if dirSource != nil {
		sources = append(sources, *dirSource)
	}

	if opts.ValidateAfterDiscovery {
		for i := range sources {
			if err := ValidateSource(ctx, &sources[i]); err != nil && opts.Verbose {
				opts.Logger(fmt.Sprintf("Validation failed for %s: %v", sources[i].Path, err))
			}
		}
	}

	if opts.ValidateAfterDiscovery && !opts.IncludeInvalid {
		var validSources []DataSource
		for _, s := range sources {
			if s.Valid {
				validSources = append(validSources, s)
			}
		}
		sources = validSources
	}

	sortSources(sources)

	if opts.Verbose {
		opts.Logger(fmt.Sprintf("Discovered %d sources", len(sources)))
	}

	return sources, nil
}

// sortSources orders by mod time, newest first, then by priority.
func sortSources(sources []DataSource) {
	sort.SliceStable(sources, func(i, j int) bool {
		if sources[i].ModTime.Equal(sources[j].ModTime) {
			return sources[i].Priority > sources[j].Priority
		}
		return sources[i].ModTime.After(sources[j].ModTime)
	})
}

func discoverSQLiteSource(lessonsDir string, opts DiscoveryOptions) (DataSource, bool) {
	dbPath := filepath.Join(lessonsDir, BundleFileName)
	info, err := os.Stat(dbPath)
	if err != nil || info.IsDir() {
		return DataSource{}, false
	}
	if opts.Verbose {
		opts.Logger(fmt.Sprintf("Found SQLite: %s (mod=%s)", dbPath, info.ModTime().Format(time.RFC3339)))
	}
	return DataSource{
		Type:     SourceTypeSQLite,
		Path:     dbPath,
		Priority: PrioritySQLite,
		ModTime:  info.ModTime(),
		Size:     info.Size(),
	}, true
}

// discoverDirSource scans the category folders in parallel and reports the
// newest exercise file. It returns nil when no category folder exists.
func discoverDirSource(ctx context.Context, lessonsDir string, opts DiscoveryOptions) (*DataSource, error) {
	var (
		mu      sync.Mutex
		newest  time.Time
		size    int64
		folders int
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, cat := range lesson.Categories {
		catDir := filepath.Join(lessonsDir, cat.Folder())
		info, err := os.Stat(catDir)
		if err != nil || !info.IsDir() {
			continue
		}
		folders++
		g.Go(func() error {
			return filepath.WalkDir(catDir, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if err := gctx.Err(); err != nil {
					return err
				}
				if d.IsDir() {
					return nil
				}
				if _, ok := store.ParseExerciseFileName(d.Name()); !ok {
					return nil
				}
				fi, err := d.Info()
				if err != nil {
					return nil
				}
				mu.Lock()
				if fi.ModTime().After(newest) {
					newest = fi.ModTime()
				}
				size += fi.Size()
				mu.Unlock()
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scanning lesson folders: %w", err)
	}
	if folders == 0 {
		return nil, nil
	}

	if opts.Verbose {
		opts.Logger(fmt.Sprintf("Found lesson tree: %s (mod=%s)", lessonsDir, newest.Format(time.RFC3339)))
	}
	return &DataSource{
		Type:     SourceTypeDir,
		Path:     lessonsDir,
		Priority: PriorityDir,
		ModTime:  newest,
		Size:     size,
	}, nil
}
