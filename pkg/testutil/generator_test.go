package testutil

import (
	"context"
	"testing"

	"github.com/Lucasmercado101/mecamatic/pkg/lesson"
	"github.com/Lucasmercado101/mecamatic/pkg/lesson/store"
)

func TestGenerator_Deterministic(t *testing.T) {
	a := New(DefaultConfig())
	b := New(DefaultConfig())
	pos := lesson.At(lesson.Practice, 4, 2)
	if a.Content(pos) != b.Content(pos) {
		t.Error("same seed should produce same content")
	}
	other := New(GeneratorConfig{Seed: 7})
	if a.Content(pos).Text == other.Content(pos).Text {
		t.Error("different seeds should usually produce different text")
	}
}

func TestGenerator_DefaultsFilled(t *testing.T) {
	g := New(GeneratorConfig{})
	if g.Sequence().Bounds(lesson.Learning) != lesson.DefaultBounds {
		t.Errorf("expected default bounds, got %+v", g.Sequence().Bounds(lesson.Learning))
	}
	c := g.Content(lesson.At(lesson.Learning, 1, 1))
	if c.Text == "" || !c.TutorEnabled || !c.KeyboardVisible {
		t.Errorf("unexpected learning content: %+v", c)
	}
	if p := g.Content(lesson.At(lesson.Perfecting, 1, 1)); p.TutorEnabled || p.KeyboardVisible {
		t.Errorf("perfecting exercises should hide tutor and keyboard: %+v", p)
	}
}

func TestGenerator_WriteTreeMatchesDirStore(t *testing.T) {
	cfg := GeneratorConfig{Bounds: lesson.Bounds{MaxLesson: 2, MaxExercise: 3}}
	root := TempLessonTree(t, cfg)

	s := store.NewDirStore(root)
	cat, err := s.Catalog(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if cat.Count() != 3*2*3 {
		t.Errorf("expected 18 exercises, got %d", cat.Count())
	}

	g := New(cfg)
	pos := lesson.At(lesson.Perfecting, 2, 3)
	got, err := s.Lookup(context.Background(), pos)
	if err != nil {
		t.Fatal(err)
	}
	if got != g.Content(pos) {
		t.Errorf("round trip mismatch: %+v vs %+v", got, g.Content(pos))
	}
}
