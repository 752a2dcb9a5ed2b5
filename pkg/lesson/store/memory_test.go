package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/Lucasmercado101/mecamatic/pkg/lesson"
	"github.com/Lucasmercado101/mecamatic/pkg/lesson/store"
	"github.com/Lucasmercado101/mecamatic/pkg/testutil"
)

func TestMemoryStore_PutLookupDelete(t *testing.T) {
	s := store.NewMemoryStore()
	pos := lesson.At(lesson.Practice, 1, 1)
	s.Put(pos, lesson.ExerciseContent{Text: "hola"})

	got, err := s.Lookup(context.Background(), pos)
	if err != nil || got.Text != "hola" {
		t.Fatalf("unexpected %+v %v", got, err)
	}

	s.Delete(pos)
	_, err = s.Lookup(context.Background(), pos)
	testutil.AssertErrorIs(t, err, lesson.ErrContentNotFound)
}

func TestMemoryStore_FillAndCatalog(t *testing.T) {
	s := store.NewMemoryStore()
	seq := lesson.NewSequence(map[lesson.Category]lesson.Bounds{
		lesson.Learning: {MaxLesson: 2, MaxExercise: 2},
		lesson.Practice: {MaxLesson: 1, MaxExercise: 3},
	})
	store.Fill(s, seq, func(p lesson.Position) lesson.ExerciseContent {
		return lesson.ExerciseContent{Text: p.String()}
	})

	cat, err := s.Catalog(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if cat.Count() != 7 {
		t.Errorf("expected 7 exercises, got %d", cat.Count())
	}
	if b := cat.Bounds(lesson.Practice); b != (lesson.Bounds{MaxLesson: 1, MaxExercise: 3}) {
		t.Errorf("unexpected practice bounds %+v", b)
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	s := testutil.New(testutil.DefaultConfig()).MemoryStore()
	var wg sync.WaitGroup
	for i := 1; i <= 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			s.Put(lesson.At(lesson.Learning, n, 1), lesson.ExerciseContent{Text: "x"})
		}(i)
		go func(n int) {
			defer wg.Done()
			_, _ = s.Lookup(context.Background(), lesson.At(lesson.Practice, n, 1))
		}(i)
	}
	wg.Wait()
}
