package datasource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Lucasmercado101/mecamatic/pkg/debug"
	"github.com/Lucasmercado101/mecamatic/pkg/lesson"
	"github.com/Lucasmercado101/mecamatic/pkg/lesson/store"
)

// Store is an opened lesson source.
type Store interface {
	lesson.ContentStore
	Close() error
}

type dirStore struct {
	*store.DirStore
}

func (dirStore) Close() error { return nil }

// Open resolves the configured lesson source. kind is "auto", "dir" or
// "sqlite"; a path ending in .db is always opened as a bundle. With "auto"
// the sources under path are discovered, validated and the best one is
// opened. When nothing valid is found the directory store is returned so
// the caller still gets meaningful not-found errors.
func Open(ctx context.Context, path, kind string) (Store, DataSource, error) {
	if strings.HasSuffix(path, ".db") {
		kind = string(SourceTypeSQLite)
	}
	switch kind {
	case string(SourceTypeDir):
		src := DataSource{Type: SourceTypeDir, Path: path, Priority: PriorityDir}
		s, err := OpenSource(src)
		return s, src, err

	case string(SourceTypeSQLite):
		dbPath := path
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			dbPath = filepath.Join(path, BundleFileName)
		}
		src := DataSource{Type: SourceTypeSQLite, Path: dbPath, Priority: PrioritySQLite}
		s, err := OpenSource(src)
		return s, src, err

	case "", "auto":
		return openSmart(ctx, path)

	default:
		return nil, DataSource{}, fmt.Errorf("unknown lesson source %q", kind)
	}
}

// openSmart discovers sources, validates, selects the best, and opens it.
func openSmart(ctx context.Context, lessonsDir string) (Store, DataSource, error) {
	sources, err := DiscoverSources(ctx, DiscoveryOptions{
		LessonsDir:             lessonsDir,
		ValidateAfterDiscovery: true,
		Verbose:                debug.Enabled(),
		Logger:                 func(msg string) { debug.Log("%s", msg) },
	})
	if err != nil {
		return nil, DataSource{}, err
	}

	best, err := SelectBestSource(sources)
	if err != nil {
		debug.Log("falling back to lesson tree at %s: %v", lessonsDir, err)
		best = DataSource{Type: SourceTypeDir, Path: lessonsDir, Priority: PriorityDir}
	}
	s, err := OpenSource(best)
	return s, best, err
}

// OpenSource opens a specific DataSource, dispatching to the appropriate
// store based on source type.
func OpenSource(source DataSource) (Store, error) {
	switch source.Type {
	case SourceTypeSQLite:
		if _, err := os.Stat(source.Path); err != nil {
			return nil, fmt.Errorf("lesson bundle: %w", err)
		}
		s, err := NewSQLiteStore(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite source %s: %w", source.Path, err)
		}
		return s, nil

	case SourceTypeDir:
		return dirStore{store.NewDirStore(source.Path)}, nil

	default:
		return nil, fmt.Errorf("unknown source type: %s", source.Type)
	}
}
