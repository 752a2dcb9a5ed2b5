package datasource

import (
	"context"
	"fmt"
	"strings"

	"github.com/Lucasmercado101/mecamatic/pkg/lesson"
)

// SourceDiff represents differences between two lesson sources
type SourceDiff struct {
	// SourceA is the path of the first source
	SourceA string
	// SourceB is the path of the second source
	SourceB string
	// MissingInA contains positions present in B but not in A
	MissingInA []lesson.Position
	// MissingInB contains positions present in A but not in B
	MissingInB []lesson.Position
	// ContentMismatch contains exercises whose content differs
	ContentMismatch []ContentDifference
	// CountA is the number of exercises in source A
	CountA int
	// CountB is the number of exercises in source B
	CountB int
}

// ContentDifference names the fields that differ for one exercise
type ContentDifference struct {
	Position lesson.Position `json:"position"`
	Fields   []string        `json:"fields"`
}

// HasInconsistencies returns true if there are any differences between sources
func (d SourceDiff) HasInconsistencies() bool {
	return len(d.MissingInA) > 0 || len(d.MissingInB) > 0 || len(d.ContentMismatch) > 0
}

// Summary returns a human-readable summary of the differences
func (d SourceDiff) Summary() string {
	if !d.HasInconsistencies() {
		return fmt.Sprintf("Sources match (%d exercises each)", d.CountA)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Inconsistencies found between %s and %s:\n", d.SourceA, d.SourceB)

	if d.CountA != d.CountB {
		fmt.Fprintf(&sb, "  - Count mismatch: %d vs %d\n", d.CountA, d.CountB)
	}

	writePositions := func(list []lesson.Position, in, notIn string) {
		if len(list) == 0 {
			return
		}
		fmt.Fprintf(&sb, "  - %d exercises in %s but not %s\n", len(list), in, notIn)
		if len(list) <= 5 {
			for _, p := range list {
				fmt.Fprintf(&sb, "    - %s\n", p)
			}
		}
	}
	writePositions(d.MissingInA, d.SourceB, d.SourceA)
	writePositions(d.MissingInB, d.SourceA, d.SourceB)

	if len(d.ContentMismatch) > 0 {
		fmt.Fprintf(&sb, "  - %d exercises with different content\n", len(d.ContentMismatch))
		if len(d.ContentMismatch) <= 5 {
			for _, m := range d.ContentMismatch {
				fmt.Fprintf(&sb, "    - %s: %s\n", m.Position, strings.Join(m.Fields, ", "))
			}
		}
	}

	return sb.String()
}

// DiffOptions configures the diff operation
type DiffOptions struct {
	// CompareContent reads every exercise present in both sources and
	// compares the fields; otherwise only the catalogs are compared
	CompareContent bool
	// MaxDifferences limits the number of differences tracked (0 = unlimited)
	MaxDifferences int
}

// DefaultDiffOptions returns sensible default diff options
func DefaultDiffOptions() DiffOptions {
	return DiffOptions{
		CompareContent: true,
		MaxDifferences: 100,
	}
}

// CompareStores compares two opened lesson stores
func CompareStores(ctx context.Context, a, b lesson.ContentStore, nameA, nameB string, opts DiffOptions) (*SourceDiff, error) {
	catA, err := a.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read source A (%s): %w", nameA, err)
	}
	catB, err := b.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read source B (%s): %w", nameB, err)
	}

	diff := &SourceDiff{
		SourceA: nameA,
		SourceB: nameB,
		CountA:  catA.Count(),
		CountB:  catB.Count(),
	}
	limit := func(n int) bool { return opts.MaxDifferences == 0 || n < opts.MaxDifferences }

	var shared []lesson.Position
	forEach(catA, func(p lesson.Position) {
		if !catB.Has(p) {
			if limit(len(diff.MissingInB)) {
				diff.MissingInB = append(diff.MissingInB, p)
			}
			return
		}
		shared = append(shared, p)
	})
	forEach(catB, func(p lesson.Position) {
		if !catA.Has(p) && limit(len(diff.MissingInA)) {
			diff.MissingInA = append(diff.MissingInA, p)
		}
	})

	if !opts.CompareContent {
		return diff, nil
	}
	for _, p := range shared {
		if !limit(len(diff.ContentMismatch)) {
			break
		}
		ca, err := a.Lookup(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("reading %s from %s: %w", p, nameA, err)
		}
		cb, err := b.Lookup(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("reading %s from %s: %w", p, nameB, err)
		}
		if fields := differingFields(ca, cb); len(fields) > 0 {
			diff.ContentMismatch = append(diff.ContentMismatch, ContentDifference{Position: p, Fields: fields})
		}
	}
	return diff, nil
}

// CompareSources opens and compares two data sources
func CompareSources(ctx context.Context, sourceA, sourceB DataSource, opts DiffOptions) (*SourceDiff, error) {
	a, err := OpenSource(sourceA)
	if err != nil {
		return nil, err
	}
	defer a.Close()
	b, err := OpenSource(sourceB)
	if err != nil {
		return nil, err
	}
	defer b.Close()
	return CompareStores(ctx, a, b, sourceA.Path, sourceB.Path, opts)
}

func forEach(c lesson.Catalog, fn func(lesson.Position)) {
	for _, cat := range lesson.Categories {
		for _, l := range c[cat] {
			for _, e := range l.Exercises {
				fn(lesson.At(cat, l.Number, e))
			}
		}
	}
}

func differingFields(a, b lesson.ExerciseContent) []string {
	var fields []string
	if a.Text != b.Text {
		fields = append(fields, "text")
	}
	if a.TutorEnabled != b.TutorEnabled {
		fields = append(fields, "isTutorActive")
	}
	if a.KeyboardVisible != b.KeyboardVisible {
		fields = append(fields, "isKeyboardVisible")
	}
	if a.MinimumWordsPerMinute != b.MinimumWordsPerMinute {
		fields = append(fields, "WPMNeededToPass")
	}
	return fields
}
