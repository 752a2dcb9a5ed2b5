package store

import (
	"context"
	"sync"

	"github.com/Lucasmercado101/mecamatic/pkg/lesson"
)

// MemoryStore keeps exercises in a map. Used in tests and when a lesson set
// is generated on the fly.
type MemoryStore struct {
	mu        sync.RWMutex
	exercises map[lesson.Position]lesson.ExerciseContent
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{exercises: make(map[lesson.Position]lesson.ExerciseContent)}
}

// Put adds or replaces one exercise.
func (s *MemoryStore) Put(pos lesson.Position, content lesson.ExerciseContent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exercises[pos] = content
}

// Delete removes one exercise.
func (s *MemoryStore) Delete(pos lesson.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.exercises, pos)
}

// Lookup implements lesson.ContentStore.
func (s *MemoryStore) Lookup(ctx context.Context, pos lesson.Position) (lesson.ExerciseContent, error) {
	if err := ctx.Err(); err != nil {
		return lesson.ExerciseContent{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.exercises[pos]
	if !ok {
		return lesson.ExerciseContent{}, lesson.NotFound(pos)
	}
	return content, nil
}

// Catalog implements lesson.ContentStore.
func (s *MemoryStore) Catalog(ctx context.Context) (lesson.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := make(lesson.Catalog)
	for pos := range s.exercises {
		c.Add(pos)
	}
	return c, nil
}

// Fill populates every position of seq using gen for the content.
func Fill(s *MemoryStore, seq lesson.Sequence, gen func(lesson.Position) lesson.ExerciseContent) {
	for _, c := range lesson.Categories {
		b := seq.Bounds(c)
		for l := 1; l <= b.MaxLesson; l++ {
			for e := 1; e <= b.MaxExercise; e++ {
				pos := lesson.At(c, l, e)
				s.Put(pos, gen(pos))
			}
		}
	}
}
