package lesson

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lucasmercado101/mecamatic/pkg/debug"
)

// Sequence holds the per-category bounds and computes neighbouring
// positions. It is a value type; the zero value has no exercises.
type Sequence struct {
	bounds map[Category]Bounds
}

// NewSequence builds a sequence from explicit per-category bounds.
// Categories missing from the map hold no exercises.
func NewSequence(bounds map[Category]Bounds) Sequence {
	b := make(map[Category]Bounds, len(bounds))
	for c, v := range bounds {
		if c.Valid() {
			b[c] = v
		}
	}
	return Sequence{bounds: b}
}

// UniformSequence gives every category the same bounds.
func UniformSequence(b Bounds) Sequence {
	m := make(map[Category]Bounds, len(Categories))
	for _, c := range Categories {
		m[c] = b
	}
	return Sequence{bounds: m}
}

// DefaultSequence is the shipped 3 x 10 x 10 lesson set.
func DefaultSequence() Sequence {
	return UniformSequence(DefaultBounds)
}

// SequenceFromCatalog derives bounds from what a store actually holds.
func SequenceFromCatalog(c Catalog) Sequence {
	m := make(map[Category]Bounds, len(Categories))
	for _, cat := range Categories {
		m[cat] = c.Bounds(cat)
	}
	return Sequence{bounds: m}
}

// Bounds returns the bounds configured for c.
func (s Sequence) Bounds(c Category) Bounds {
	return s.bounds[c]
}

// Valid reports whether pos lies within its category's bounds.
func (s Sequence) Valid(pos Position) bool {
	return pos.Category.Valid() && s.bounds[pos.Category].Contains(pos.Lesson, pos.Exercise)
}

// First returns the first position of the whole sequence.
func (s Sequence) First() (Position, bool) {
	for _, c := range Categories {
		if !s.bounds[c].Empty() {
			return At(c, 1, 1), true
		}
	}
	return Position{}, false
}

// Last returns the last position of the whole sequence.
func (s Sequence) Last() (Position, bool) {
	for i := len(Categories) - 1; i >= 0; i-- {
		c := Categories[i]
		if b := s.bounds[c]; !b.Empty() {
			return At(c, b.MaxLesson, b.MaxExercise), true
		}
	}
	return Position{}, false
}

// Advance returns the position after pos. Categories without exercises are
// skipped. After the last exercise of the last category it returns
// ErrEndOfSequence.
func (s Sequence) Advance(pos Position) (Position, error) {
	if !s.Valid(pos) {
		return Position{}, fmt.Errorf("%w: %s", ErrInvalidPosition, pos)
	}
	b := s.bounds[pos.Category]
	switch {
	case pos.Exercise < b.MaxExercise:
		return At(pos.Category, pos.Lesson, pos.Exercise+1), nil
	case pos.Lesson < b.MaxLesson:
		return At(pos.Category, pos.Lesson+1, 1), nil
	}
	for c, ok := pos.Category.Next(); ok; c, ok = c.Next() {
		if !s.bounds[c].Empty() {
			return At(c, 1, 1), nil
		}
	}
	return Position{}, ErrEndOfSequence
}

// Retreat is the inverse of Advance. Before the first exercise of the first
// category it returns ErrStartOfSequence.
func (s Sequence) Retreat(pos Position) (Position, error) {
	if !s.Valid(pos) {
		return Position{}, fmt.Errorf("%w: %s", ErrInvalidPosition, pos)
	}
	b := s.bounds[pos.Category]
	switch {
	case pos.Exercise > 1:
		return At(pos.Category, pos.Lesson, pos.Exercise-1), nil
	case pos.Lesson > 1:
		return At(pos.Category, pos.Lesson-1, b.MaxExercise), nil
	}
	for c, ok := pos.Category.Prev(); ok; c, ok = c.Prev() {
		if pb := s.bounds[c]; !pb.Empty() {
			return At(c, pb.MaxLesson, pb.MaxExercise), nil
		}
	}
	return Position{}, ErrStartOfSequence
}

// Navigator resolves next and previous exercises against a content store.
// It holds no per-session state and is safe for concurrent use.
type Navigator struct {
	seq   Sequence
	store ContentStore
}

// NewNavigator pairs a sequence with the store that holds its content.
func NewNavigator(seq Sequence, store ContentStore) *Navigator {
	return &Navigator{seq: seq, store: store}
}

// NewNavigatorFromStore derives the sequence bounds from the store's catalog.
func NewNavigatorFromStore(ctx context.Context, store ContentStore) (*Navigator, error) {
	catalog, err := store.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading lesson catalog: %w", err)
	}
	return NewNavigator(SequenceFromCatalog(catalog), store), nil
}

// Sequence returns the bounds the navigator walks.
func (n *Navigator) Sequence() Sequence {
	return n.seq
}

// Next resolves the exercise after pos.
func (n *Navigator) Next(ctx context.Context, pos Position) (Exercise, error) {
	target, err := n.seq.Advance(pos)
	if err != nil {
		debug.Log("next from %s: %v", pos, err)
		return Exercise{}, err
	}
	return n.resolve(ctx, target)
}

// Previous resolves the exercise before pos.
func (n *Navigator) Previous(ctx context.Context, pos Position) (Exercise, error) {
	target, err := n.seq.Retreat(pos)
	if err != nil {
		debug.Log("previous from %s: %v", pos, err)
		return Exercise{}, err
	}
	return n.resolve(ctx, target)
}

// Open resolves pos itself, as when an exercise is picked from the menu.
func (n *Navigator) Open(ctx context.Context, pos Position) (Exercise, error) {
	if !n.seq.Valid(pos) {
		return Exercise{}, fmt.Errorf("%w: %s", ErrInvalidPosition, pos)
	}
	return n.resolve(ctx, pos)
}

func (n *Navigator) resolve(ctx context.Context, pos Position) (Exercise, error) {
	if n.store == nil {
		return Exercise{}, &ContentNotFoundError{Position: pos, Err: errors.New("no lesson store configured")}
	}
	content, err := n.store.Lookup(ctx, pos)
	if err != nil {
		var nf *ContentNotFoundError
		if errors.As(err, &nf) {
			return Exercise{}, nf
		}
		if errors.Is(err, ErrContentNotFound) {
			return Exercise{}, &ContentNotFoundError{Position: pos, Err: err}
		}
		return Exercise{}, fmt.Errorf("looking up %s: %w", pos, err)
	}
	debug.Log("resolved %s", pos)
	return Exercise{Position: pos, Content: content}, nil
}
