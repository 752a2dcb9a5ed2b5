// Package store holds lesson.ContentStore implementations backed by a
// directory tree and by memory.
//
// Directory layout:
//
//	<root>/
//	  learning/
//	    lesson 1/
//	      1.json
//	      2.json
//	  practice/
//	  perfecting/
//
// Each exercise file holds
//
//	{"text": "...", "isTutorActive": true, "isKeyboardVisible": true, "WPMNeededToPass": 10}
package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/Lucasmercado101/mecamatic/pkg/debug"
	"github.com/Lucasmercado101/mecamatic/pkg/lesson"
)

const (
	lessonDirPrefix = "lesson"
	exerciseExt     = ".json"
)

// DirStore reads exercises from a lesson directory tree.
type DirStore struct {
	root string
}

// NewDirStore returns a store rooted at dir. The directory is not read until
// the first Lookup or Catalog call.
func NewDirStore(dir string) *DirStore {
	return &DirStore{root: dir}
}

// Root returns the lesson directory.
func (s *DirStore) Root() string {
	return s.root
}

// LessonDirName is the folder name of lesson n ("lesson 3").
func LessonDirName(n int) string {
	return fmt.Sprintf("%s %d", lessonDirPrefix, n)
}

// ExerciseFileName is the file name of exercise n ("7.json").
func ExerciseFileName(n int) string {
	return strconv.Itoa(n) + exerciseExt
}

// ExercisePath returns where pos lives under root.
func ExercisePath(root string, pos lesson.Position) string {
	return filepath.Join(root, pos.Category.Folder(), LessonDirName(pos.Lesson), ExerciseFileName(pos.Exercise))
}

// ParseLessonDirName extracts n from "lesson n" (also "lesson_n", "lessonn").
func ParseLessonDirName(name string) (int, bool) {
	if !strings.HasPrefix(strings.ToLower(name), lessonDirPrefix) {
		return 0, false
	}
	rest := strings.TrimLeft(name[len(lessonDirPrefix):], " _-")
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// ParseExerciseFileName extracts n from "n.json".
func ParseExerciseFileName(name string) (int, bool) {
	if !strings.HasSuffix(name, exerciseExt) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSuffix(name, exerciseExt))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Lookup implements lesson.ContentStore.
func (s *DirStore) Lookup(ctx context.Context, pos lesson.Position) (lesson.ExerciseContent, error) {
	if err := ctx.Err(); err != nil {
		return lesson.ExerciseContent{}, err
	}
	if !pos.Category.Valid() {
		return lesson.ExerciseContent{}, fmt.Errorf("%w: %s", lesson.ErrInvalidPosition, pos)
	}
	path := ExercisePath(s.root, pos)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return lesson.ExerciseContent{}, &lesson.ContentNotFoundError{Position: pos, Err: err}
		}
		return lesson.ExerciseContent{}, fmt.Errorf("reading exercise: %w", err)
	}
	return DecodeExercise(data)
}

// DecodeExercise parses one exercise file.
func DecodeExercise(data []byte) (lesson.ExerciseContent, error) {
	var content lesson.ExerciseContent
	if err := json.Unmarshal(data, &content); err != nil {
		return lesson.ExerciseContent{}, fmt.Errorf("parsing exercise: %w", err)
	}
	return content, nil
}

// EncodeExercise renders one exercise file.
func EncodeExercise(content lesson.ExerciseContent) ([]byte, error) {
	return json.MarshalIndent(content, "", "  ")
}

// Catalog implements lesson.ContentStore. Folders and files that do not
// follow the naming scheme are skipped; a missing category folder yields an
// empty category.
func (s *DirStore) Catalog(ctx context.Context) (lesson.Catalog, error) {
	defer debug.LogEnterExit("DirStore.Catalog")()
	if _, err := os.Stat(s.root); err != nil {
		return nil, fmt.Errorf("lesson directory: %w", err)
	}

	c := make(lesson.Catalog)
	for _, cat := range lesson.Categories {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		catDir := filepath.Join(s.root, cat.Folder())
		lessonDirs, err := os.ReadDir(catDir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				debug.Log("no %s folder under %s", cat.Folder(), s.root)
				continue
			}
			return nil, fmt.Errorf("reading %s lessons: %w", cat, err)
		}
		for _, ld := range lessonDirs {
			if !ld.IsDir() {
				continue
			}
			lessonNum, ok := ParseLessonDirName(ld.Name())
			if !ok {
				continue
			}
			files, err := os.ReadDir(filepath.Join(catDir, ld.Name()))
			if err != nil {
				return nil, fmt.Errorf("reading %s %s: %w", cat, ld.Name(), err)
			}
			for _, f := range files {
				if f.IsDir() {
					continue
				}
				exNum, ok := ParseExerciseFileName(f.Name())
				if !ok {
					continue
				}
				c.Add(lesson.At(cat, lessonNum, exNum))
			}
		}
	}
	return c, nil
}

// WriteExercise stores content at pos under root, creating folders as needed.
func WriteExercise(root string, pos lesson.Position, content lesson.ExerciseContent) error {
	path := ExercisePath(root, pos)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating lesson folder: %w", err)
	}
	data, err := EncodeExercise(content)
	if err != nil {
		return fmt.Errorf("encoding exercise: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing exercise: %w", err)
	}
	return nil
}
