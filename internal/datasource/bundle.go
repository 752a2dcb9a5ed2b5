package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Lucasmercado101/mecamatic/pkg/debug"
	"github.com/Lucasmercado101/mecamatic/pkg/lesson"
)

const bundleSchema = `
CREATE TABLE exercises (
	category TEXT    NOT NULL,
	lesson   INTEGER NOT NULL,
	exercise INTEGER NOT NULL,
	text     TEXT    NOT NULL,
	tutor    BOOLEAN NOT NULL DEFAULT 0,
	keyboard BOOLEAN NOT NULL DEFAULT 0,
	min_wpm  REAL    NOT NULL DEFAULT 0,
	PRIMARY KEY (category, lesson, exercise)
)`

// WriteBundle copies every exercise of src into a new SQLite bundle at
// path, replacing any existing file. It returns the number of exercises
// written.
func WriteBundle(ctx context.Context, src lesson.ContentStore, path string) (int, error) {
	defer debug.LogEnterExit("WriteBundle")()

	catalog, err := src.Catalog(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading lesson catalog: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("creating bundle directory: %w", err)
	}
	tmp := path + ".tmp"
	_ = os.Remove(tmp)

	n, err := writeBundleFile(ctx, src, catalog, tmp)
	if err != nil {
		os.Remove(tmp)
		return 0, err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("replacing bundle: %w", err)
	}
	return n, nil
}

func writeBundleFile(ctx context.Context, src lesson.ContentStore, catalog lesson.Catalog, path string) (int, error) {
	db, err := sql.Open("sqlite", sqliteDSN(path, "mode=rwc"))
	if err != nil {
		return 0, fmt.Errorf("cannot open database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, bundleSchema); err != nil {
		return 0, fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO exercises (category, lesson, exercise, text, tutor, keyboard, min_wpm) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	n := 0
	for _, cat := range lesson.Categories {
		for _, l := range catalog[cat] {
			for _, e := range l.Exercises {
				pos := lesson.At(cat, l.Number, e)
				c, err := src.Lookup(ctx, pos)
				if err != nil {
					return 0, fmt.Errorf("reading %s: %w", pos, err)
				}
				if _, err := stmt.ExecContext(ctx, cat.Folder(), l.Number, e,
					c.Text, c.TutorEnabled, c.KeyboardVisible, c.MinimumWordsPerMinute); err != nil {
					return 0, fmt.Errorf("inserting %s: %w", pos, err)
				}
				n++
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}
