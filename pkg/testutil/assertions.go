package testutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Lucasmercado101/mecamatic/pkg/lesson"
)

// AssertPosition verifies a navigator result.
func AssertPosition(t *testing.T, got, want lesson.Position) {
	t.Helper()
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

// AssertErrorIs verifies err matches target via errors.Is.
func AssertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Errorf("expected error %v, got %v", target, err)
	}
}

// AssertFileExists verifies that a file exists.
func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("expected file to exist: %s", path)
	}
}

// AssertNoFile verifies that nothing exists at path.
func AssertNoFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected %s to be absent", path)
	}
}

// TempLessonTree writes a generated lesson tree to a temp dir and returns it.
func TempLessonTree(t *testing.T, cfg GeneratorConfig) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "lessons")
	if _, err := New(cfg).WriteTree(root); err != nil {
		t.Fatalf("writing lesson tree: %v", err)
	}
	return root
}
