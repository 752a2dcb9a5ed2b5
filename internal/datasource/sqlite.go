package datasource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/Lucasmercado101/mecamatic/pkg/debug"
	"github.com/Lucasmercado101/mecamatic/pkg/lesson"
)

// SQLiteStore reads exercises from a lesson bundle. It implements
// lesson.ContentStore.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens a bundle for reading
func NewSQLiteStore(source DataSource) (*SQLiteStore, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}
	return OpenSQLite(source.Path)
}

// OpenSQLite opens the bundle at path read-only.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", sqliteDSN(path, "mode=ro&_pragma=busy_timeout(5000)"))
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	// Set pragmas for read performance
	pragmas := []string{
		"PRAGMA cache_size = -8000", // 8MB cache
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			debug.Log("sqlite %s: %v", pragma, err)
		}
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// sqliteDSN builds a file: URI for path. The path is escaped so that '?' or
// '#' in a directory name stay part of the file name.
func sqliteDSN(path, query string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p // C:/... on windows
	}
	u := url.URL{Scheme: "file", Path: p, RawQuery: query}
	return u.String()
}

// Path returns the bundle file.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Lookup implements lesson.ContentStore.
func (s *SQLiteStore) Lookup(ctx context.Context, pos lesson.Position) (lesson.ExerciseContent, error) {
	if !pos.Category.Valid() {
		return lesson.ExerciseContent{}, fmt.Errorf("%w: %s", lesson.ErrInvalidPosition, pos)
	}
	var c lesson.ExerciseContent
	err := s.db.QueryRowContext(ctx,
		`SELECT text, tutor, keyboard, min_wpm FROM exercises WHERE category = ? AND lesson = ? AND exercise = ?`,
		pos.Category.Folder(), pos.Lesson, pos.Exercise,
	).Scan(&c.Text, &c.TutorEnabled, &c.KeyboardVisible, &c.MinimumWordsPerMinute)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return lesson.ExerciseContent{}, lesson.NotFound(pos)
		}
		return lesson.ExerciseContent{}, fmt.Errorf("query failed: %w", err)
	}
	return c, nil
}

// Catalog implements lesson.ContentStore. Rows with an unknown category
// are skipped.
func (s *SQLiteStore) Catalog(ctx context.Context) (lesson.Catalog, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT category, lesson, exercise FROM exercises`)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	c := make(lesson.Catalog)
	for rows.Next() {
		var folder string
		var l, e int
		if err := rows.Scan(&folder, &l, &e); err != nil {
			continue
		}
		cat, err := lesson.ParseCategory(folder)
		if err != nil || l < 1 || e < 1 {
			continue
		}
		c.Add(lesson.At(cat, l, e))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exercises: %w", err)
	}
	return c, nil
}

// CountExercises returns the number of rows in the bundle.
func (s *SQLiteStore) CountExercises(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM exercises").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
