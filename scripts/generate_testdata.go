// +build ignore

// generate_testdata.go creates lesson trees for manual testing and for
// packing into bundles.
// Usage: go run scripts/generate_testdata.go [output dir]
//
// Creates (under tests/testdata/lessons by default):
//   small/  (2 lessons x 3 exercises per category)
//   full/   (10 lessons x 10 exercises per category)
//   ragged/ (full, with a few exercises removed to exercise not-found paths)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Lucasmercado101/mecamatic/pkg/lesson"
	"github.com/Lucasmercado101/mecamatic/pkg/lesson/store"
	"github.com/Lucasmercado101/mecamatic/pkg/testutil"
)

type datasetSpec struct {
	name    string
	bounds  lesson.Bounds
	missing []lesson.Position
	desc    string
}

var datasets = []datasetSpec{
	{"small", lesson.Bounds{MaxLesson: 2, MaxExercise: 3}, nil, "18 exercises"},
	{"full", lesson.DefaultBounds, nil, "300 exercises"},
	{"ragged", lesson.DefaultBounds, []lesson.Position{
		lesson.At(lesson.Learning, 3, 4),
		lesson.At(lesson.Practice, 1, 10),
		lesson.At(lesson.Perfecting, 10, 10),
	}, "297 exercises with gaps"},
}

func main() {
	outputDir := "tests/testdata/lessons"
	if len(os.Args) > 1 {
		outputDir = os.Args[1]
	}

	for _, ds := range datasets {
		root := filepath.Join(outputDir, ds.name)
		fmt.Printf("Generating %s lesson tree (%s)...\n", ds.name, ds.desc)

		if err := os.RemoveAll(root); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to clear %s: %v\n", root, err)
			os.Exit(1)
		}

		gen := testutil.New(testutil.GeneratorConfig{
			Seed:   int64(ds.bounds.MaxLesson*100 + ds.bounds.MaxExercise), // Reproducible per-size
			Bounds: ds.bounds,
		})
		n, err := gen.WriteTree(root)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", ds.name, err)
			os.Exit(1)
		}

		for _, pos := range ds.missing {
			if err := os.Remove(store.ExercisePath(root, pos)); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to remove %s: %v\n", pos, err)
				os.Exit(1)
			}
			n--
		}

		fmt.Printf("  Wrote %d exercises to %s\n", n, root)
	}

	fmt.Println("\nDone! Pack one with: mecamatic --lessons tests/testdata/lessons/full --pack lessons.db")
}
