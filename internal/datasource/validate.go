package datasource

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoValidSource is returned when discovery found nothing usable.
var ErrNoValidSource = errors.New("no valid lesson source")

// ValidateSource opens the source and counts its exercises. A source with no
// exercises is invalid.
func ValidateSource(ctx context.Context, source *DataSource) error {
	source.Valid = false
	source.ValidationError = ""

	s, err := OpenSource(*source)
	if err != nil {
		source.ValidationError = err.Error()
		return err
	}
	defer s.Close()

	catalog, err := s.Catalog(ctx)
	if err != nil {
		source.ValidationError = err.Error()
		return err
	}
	source.ExerciseCount = catalog.Count()
	if source.ExerciseCount == 0 {
		source.ValidationError = "no exercises"
		return fmt.Errorf("%s: no exercises", source.Path)
	}
	source.Valid = true
	return nil
}

// SelectBestSource picks the freshest valid source, preferring the higher
// priority on equal freshness.
func SelectBestSource(sources []DataSource) (DataSource, error) {
	candidates := make([]DataSource, 0, len(sources))
	for _, s := range sources {
		if s.Valid {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		return DataSource{}, ErrNoValidSource
	}
	sortSources(candidates)
	return candidates[0], nil
}
