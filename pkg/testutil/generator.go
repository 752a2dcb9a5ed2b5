// Package testutil provides lesson-set fixture generators and assertions.
// All generators produce deterministic output for reproducible tests.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/Lucasmercado101/mecamatic/pkg/lesson"
	"github.com/Lucasmercado101/mecamatic/pkg/lesson/store"
)

// GeneratorConfig controls exercise generation.
type GeneratorConfig struct {
	Seed       int64           // Random seed for determinism (0 = 42)
	Words      int             // Words per exercise text (default 12)
	Bounds     lesson.Bounds   // Per-category bounds (default 10 x 10)
	WordPool   []string        // Vocabulary (default homeRowWords)
	MinimumWPM float64         // Base pass threshold (default 10)
	TutorUntil lesson.Category // Tutor stays on up to and including this category (default Learning)
}

// homeRowWords keeps early exercises on the keys a beginner learns first.
var homeRowWords = []string{
	"asa", "sala", "falda", "hada", "jaja", "lasa", "dada", "ala",
	"gala", "kala", "fase", "lado", "seda", "ajo", "hola", "casa",
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:       42,
		Words:      12,
		Bounds:     lesson.DefaultBounds,
		WordPool:   homeRowWords,
		MinimumWPM: 10,
		TutorUntil: lesson.Learning,
	}
}

// Generator creates exercise content.
type Generator struct {
	cfg GeneratorConfig
}

// New creates a Generator with the given config, filling defaults.
func New(cfg GeneratorConfig) *Generator {
	def := DefaultConfig()
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}
	if cfg.Words <= 0 {
		cfg.Words = def.Words
	}
	if cfg.Bounds.Empty() {
		cfg.Bounds = def.Bounds
	}
	if len(cfg.WordPool) == 0 {
		cfg.WordPool = def.WordPool
	}
	if cfg.MinimumWPM <= 0 {
		cfg.MinimumWPM = def.MinimumWPM
	}
	if !cfg.TutorUntil.Valid() {
		cfg.TutorUntil = def.TutorUntil
	}
	return &Generator{cfg: cfg}
}

// Sequence returns the sequence the generator fills.
func (g *Generator) Sequence() lesson.Sequence {
	return lesson.UniformSequence(g.cfg.Bounds)
}

// Content returns the exercise for pos. The same position always yields the
// same content for a given seed.
func (g *Generator) Content(pos lesson.Position) lesson.ExerciseContent {
	rng := rand.New(rand.NewSource(g.cfg.Seed + int64(pos.Category)*10000 + int64(pos.Lesson)*100 + int64(pos.Exercise)))
	words := make([]string, g.cfg.Words)
	for i := range words {
		words[i] = g.cfg.WordPool[rng.Intn(len(g.cfg.WordPool))]
	}
	return lesson.ExerciseContent{
		Text:                  strings.Join(words, " "),
		TutorEnabled:          pos.Category <= g.cfg.TutorUntil,
		KeyboardVisible:       pos.Category != lesson.Perfecting,
		MinimumWordsPerMinute: g.cfg.MinimumWPM + float64(int(pos.Category)-1)*5 + float64(pos.Lesson-1),
	}
}

// MemoryStore returns a store holding every generated exercise.
func (g *Generator) MemoryStore() *store.MemoryStore {
	s := store.NewMemoryStore()
	store.Fill(s, g.Sequence(), g.Content)
	return s
}

// WriteTree writes every generated exercise below root in the on-disk layout
// and returns the number of files written.
func (g *Generator) WriteTree(root string) (int, error) {
	n := 0
	seq := g.Sequence()
	for _, c := range lesson.Categories {
		b := seq.Bounds(c)
		for l := 1; l <= b.MaxLesson; l++ {
			for e := 1; e <= b.MaxExercise; e++ {
				pos := lesson.At(c, l, e)
				if err := store.WriteExercise(root, pos, g.Content(pos)); err != nil {
					return n, fmt.Errorf("writing %s: %w", pos, err)
				}
				n++
			}
		}
	}
	return n, nil
}
