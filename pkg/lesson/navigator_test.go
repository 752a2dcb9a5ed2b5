package lesson_test

import (
	"context"
	"errors"
	"testing"

	"pgregory.net/rapid"

	"github.com/Lucasmercado101/mecamatic/pkg/lesson"
	"github.com/Lucasmercado101/mecamatic/pkg/lesson/store"
	"github.com/Lucasmercado101/mecamatic/pkg/testutil"
)

func TestAdvance_Boundaries(t *testing.T) {
	seq := lesson.DefaultSequence()
	tests := []struct {
		name string
		from lesson.Position
		want lesson.Position
	}{
		{"next exercise", lesson.At(lesson.Learning, 3, 7), lesson.At(lesson.Learning, 3, 8)},
		{"next lesson", lesson.At(lesson.Learning, 3, 10), lesson.At(lesson.Learning, 4, 1)},
		{"learning into practice", lesson.At(lesson.Learning, 10, 10), lesson.At(lesson.Practice, 1, 1)},
		{"practice into perfecting", lesson.At(lesson.Practice, 10, 10), lesson.At(lesson.Perfecting, 1, 1)},
		{"within perfecting", lesson.At(lesson.Perfecting, 9, 10), lesson.At(lesson.Perfecting, 10, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := seq.Advance(tt.from)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertPosition(t, got, tt.want)
		})
	}
}

func TestAdvance_EndOfSequence(t *testing.T) {
	_, err := lesson.DefaultSequence().Advance(lesson.At(lesson.Perfecting, 10, 10))
	testutil.AssertErrorIs(t, err, lesson.ErrEndOfSequence)
	if errors.Is(err, lesson.ErrStartOfSequence) || errors.Is(err, lesson.ErrContentNotFound) {
		t.Errorf("end of sequence must not match other kinds: %v", err)
	}
}

func TestRetreat_Boundaries(t *testing.T) {
	seq := lesson.DefaultSequence()
	tests := []struct {
		name string
		from lesson.Position
		want lesson.Position
	}{
		{"previous exercise", lesson.At(lesson.Practice, 5, 5), lesson.At(lesson.Practice, 5, 4)},
		{"previous lesson", lesson.At(lesson.Practice, 5, 1), lesson.At(lesson.Practice, 4, 10)},
		{"practice back into learning", lesson.At(lesson.Practice, 1, 1), lesson.At(lesson.Learning, 10, 10)},
		{"perfecting back into practice", lesson.At(lesson.Perfecting, 1, 1), lesson.At(lesson.Practice, 10, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := seq.Retreat(tt.from)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertPosition(t, got, tt.want)
		})
	}
}

func TestRetreat_StartOfSequence(t *testing.T) {
	_, err := lesson.DefaultSequence().Retreat(lesson.At(lesson.Learning, 1, 1))
	testutil.AssertErrorIs(t, err, lesson.ErrStartOfSequence)
	if !lesson.IsSequenceBoundary(err) {
		t.Error("start of sequence should count as a boundary")
	}
}

func TestSequence_RejectsOutOfBounds(t *testing.T) {
	seq := lesson.DefaultSequence()
	bad := []lesson.Position{
		lesson.At(lesson.Learning, 0, 0),
		lesson.At(lesson.Learning, 1, 11),
		lesson.At(lesson.Practice, 11, 1),
		lesson.At(lesson.Category(0), 1, 1),
		lesson.At(lesson.Category(9), 1, 1),
	}
	for _, pos := range bad {
		if _, err := seq.Advance(pos); !errors.Is(err, lesson.ErrInvalidPosition) {
			t.Errorf("Advance(%s): expected ErrInvalidPosition, got %v", pos, err)
		}
		if _, err := seq.Retreat(pos); !errors.Is(err, lesson.ErrInvalidPosition) {
			t.Errorf("Retreat(%s): expected ErrInvalidPosition, got %v", pos, err)
		}
	}
}

func TestSequence_SkipsEmptyCategory(t *testing.T) {
	seq := lesson.NewSequence(map[lesson.Category]lesson.Bounds{
		lesson.Learning:   {MaxLesson: 2, MaxExercise: 3},
		lesson.Perfecting: {MaxLesson: 1, MaxExercise: 4},
	})

	got, err := seq.Advance(lesson.At(lesson.Learning, 2, 3))
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertPosition(t, got, lesson.At(lesson.Perfecting, 1, 1))

	back, err := seq.Retreat(got)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertPosition(t, back, lesson.At(lesson.Learning, 2, 3))

	first, ok := seq.First()
	if !ok || first != lesson.At(lesson.Learning, 1, 1) {
		t.Errorf("unexpected first %v %v", first, ok)
	}
	last, ok := seq.Last()
	if !ok || last != lesson.At(lesson.Perfecting, 1, 4) {
		t.Errorf("unexpected last %v %v", last, ok)
	}
}

func TestSequence_ZeroValueHasNoExercises(t *testing.T) {
	var seq lesson.Sequence
	if _, ok := seq.First(); ok {
		t.Error("zero sequence should have no first position")
	}
	if seq.Valid(lesson.At(lesson.Learning, 1, 1)) {
		t.Error("zero sequence should reject every position")
	}
}

func drawPosition(t *rapid.T, seq lesson.Sequence) lesson.Position {
	c := rapid.SampledFrom(lesson.Categories).Draw(t, "category")
	b := seq.Bounds(c)
	l := rapid.IntRange(1, b.MaxLesson).Draw(t, "lesson")
	e := rapid.IntRange(1, b.MaxExercise).Draw(t, "exercise")
	return lesson.At(c, l, e)
}

func TestProperty_RetreatUndoesAdvance(t *testing.T) {
	seq := lesson.DefaultSequence()
	last, _ := seq.Last()
	rapid.Check(t, func(t *rapid.T) {
		p := drawPosition(t, seq)
		if p == last {
			t.Skip("no successor")
		}
		next, err := seq.Advance(p)
		if err != nil {
			t.Fatalf("advance %s: %v", p, err)
		}
		back, err := seq.Retreat(next)
		if err != nil {
			t.Fatalf("retreat %s: %v", next, err)
		}
		if back != p {
			t.Fatalf("retreat(advance(%s)) = %s", p, back)
		}
	})
}

func TestProperty_AdvanceUndoesRetreat(t *testing.T) {
	seq := lesson.DefaultSequence()
	first, _ := seq.First()
	rapid.Check(t, func(t *rapid.T) {
		p := drawPosition(t, seq)
		if p == first {
			t.Skip("no predecessor")
		}
		prev, err := seq.Retreat(p)
		if err != nil {
			t.Fatalf("retreat %s: %v", p, err)
		}
		fwd, err := seq.Advance(prev)
		if err != nil {
			t.Fatalf("advance %s: %v", prev, err)
		}
		if fwd != p {
			t.Fatalf("advance(retreat(%s)) = %s", p, fwd)
		}
	})
}

func TestProperty_NeverLeavesBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		bounds := make(map[lesson.Category]lesson.Bounds)
		for _, c := range lesson.Categories {
			bounds[c] = lesson.Bounds{
				MaxLesson:   rapid.IntRange(1, 12).Draw(t, c.Folder()+"-lessons"),
				MaxExercise: rapid.IntRange(1, 12).Draw(t, c.Folder()+"-exercises"),
			}
		}
		seq := lesson.NewSequence(bounds)
		p := drawPosition(t, seq)
		if next, err := seq.Advance(p); err == nil && !seq.Valid(next) {
			t.Fatalf("advance(%s) left bounds: %s", p, next)
		}
		if prev, err := seq.Retreat(p); err == nil && !seq.Valid(prev) {
			t.Fatalf("retreat(%s) left bounds: %s", p, prev)
		}
	})
}

func TestProperty_WalkVisitsEveryExerciseOnce(t *testing.T) {
	seq := lesson.DefaultSequence()
	pos, _ := seq.First()
	seen := map[lesson.Position]bool{pos: true}
	for {
		next, err := seq.Advance(pos)
		if errors.Is(err, lesson.ErrEndOfSequence) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		if seen[next] {
			t.Fatalf("visited %s twice", next)
		}
		seen[next] = true
		pos = next
	}
	if len(seen) != 300 {
		t.Errorf("expected 300 exercises, visited %d", len(seen))
	}
}

func TestNavigator_NextResolvesContent(t *testing.T) {
	gen := testutil.New(testutil.DefaultConfig())
	nav := lesson.NewNavigator(lesson.DefaultSequence(), gen.MemoryStore())

	ex, err := nav.Next(context.Background(), lesson.At(lesson.Learning, 10, 10))
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertPosition(t, ex.Position, lesson.At(lesson.Practice, 1, 1))
	if ex.Content != gen.Content(ex.Position) {
		t.Errorf("unexpected content %+v", ex.Content)
	}

	prev, err := nav.Previous(context.Background(), ex.Position)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertPosition(t, prev.Position, lesson.At(lesson.Learning, 10, 10))
}

func TestNavigator_ContentNotFoundIsDistinct(t *testing.T) {
	s := testutil.New(testutil.DefaultConfig()).MemoryStore()
	missing := lesson.At(lesson.Learning, 3, 8)
	s.Delete(missing)
	nav := lesson.NewNavigator(lesson.DefaultSequence(), s)

	_, err := nav.Next(context.Background(), lesson.At(lesson.Learning, 3, 7))
	testutil.AssertErrorIs(t, err, lesson.ErrContentNotFound)
	if lesson.IsSequenceBoundary(err) {
		t.Error("missing content must not look like a sequence boundary")
	}
	var nf *lesson.ContentNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *ContentNotFoundError, got %T", err)
	}
	testutil.AssertPosition(t, nf.Position, missing)
}

func TestNavigator_BoundaryErrorsSkipStore(t *testing.T) {
	nav := lesson.NewNavigator(lesson.DefaultSequence(), store.NewMemoryStore())

	_, err := nav.Next(context.Background(), lesson.At(lesson.Perfecting, 10, 10))
	testutil.AssertErrorIs(t, err, lesson.ErrEndOfSequence)

	_, err = nav.Previous(context.Background(), lesson.At(lesson.Learning, 1, 1))
	testutil.AssertErrorIs(t, err, lesson.ErrStartOfSequence)
}

func TestNavigator_Open(t *testing.T) {
	gen := testutil.New(testutil.DefaultConfig())
	nav := lesson.NewNavigator(lesson.DefaultSequence(), gen.MemoryStore())

	ex, err := nav.Open(context.Background(), lesson.At(lesson.Practice, 2, 2))
	if err != nil {
		t.Fatal(err)
	}
	if ex.Content.Text == "" {
		t.Error("expected exercise text")
	}

	_, err = nav.Open(context.Background(), lesson.At(lesson.Practice, 0, 2))
	testutil.AssertErrorIs(t, err, lesson.ErrInvalidPosition)
}

func TestNavigatorFromStore_DerivesBounds(t *testing.T) {
	gen := testutil.New(testutil.GeneratorConfig{Bounds: lesson.Bounds{MaxLesson: 3, MaxExercise: 4}})
	nav, err := lesson.NewNavigatorFromStore(context.Background(), gen.MemoryStore())
	if err != nil {
		t.Fatal(err)
	}
	got, err := nav.Next(context.Background(), lesson.At(lesson.Learning, 3, 4))
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertPosition(t, got.Position, lesson.At(lesson.Practice, 1, 1))
}

func TestNavigator_CancelledContext(t *testing.T) {
	nav := lesson.NewNavigator(lesson.DefaultSequence(), testutil.New(testutil.DefaultConfig()).MemoryStore())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := nav.Next(ctx, lesson.At(lesson.Learning, 1, 1))
	testutil.AssertErrorIs(t, err, context.Canceled)
	if errors.Is(err, lesson.ErrContentNotFound) {
		t.Error("cancellation should not be reported as missing content")
	}
}
