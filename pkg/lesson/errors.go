package lesson

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the navigator.
var (
	// ErrEndOfSequence means there is no exercise after the given position.
	ErrEndOfSequence = errors.New("no next exercise: end of sequence")

	// ErrStartOfSequence means there is no exercise before the given position.
	ErrStartOfSequence = errors.New("no previous exercise: start of sequence")

	// ErrContentNotFound means a reachable position has no content in the
	// store. This is a lesson-data defect, not a sequencing one.
	ErrContentNotFound = errors.New("exercise content not found")

	// ErrInvalidPosition means the caller passed a position outside the
	// configured bounds.
	ErrInvalidPosition = errors.New("invalid exercise position")
)

// ContentNotFoundError carries the position whose content is missing.
type ContentNotFoundError struct {
	Position Position
	Err      error // underlying store error, may be nil
}

func (e *ContentNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v for %s: %v", ErrContentNotFound, e.Position, e.Err)
	}
	return fmt.Sprintf("%v for %s", ErrContentNotFound, e.Position)
}

// Is makes errors.Is(err, ErrContentNotFound) hold.
func (e *ContentNotFoundError) Is(target error) bool {
	return target == ErrContentNotFound
}

func (e *ContentNotFoundError) Unwrap() error {
	return e.Err
}

// NotFound builds the error stores return for a missing exercise.
func NotFound(pos Position) error {
	return &ContentNotFoundError{Position: pos}
}

// IsSequenceBoundary reports whether err means the traversal ran out at
// either end.
func IsSequenceBoundary(err error) bool {
	return errors.Is(err, ErrEndOfSequence) || errors.Is(err, ErrStartOfSequence)
}
