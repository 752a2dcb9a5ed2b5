package lesson

import (
	"context"
	"sort"
)

// ExerciseContent is the text and pass criteria of one exercise. The JSON
// tags follow the exercise files shipped with the lesson set.
type ExerciseContent struct {
	Text                  string  `json:"text"`
	TutorEnabled          bool    `json:"isTutorActive"`
	KeyboardVisible       bool    `json:"isKeyboardVisible"`
	MinimumWordsPerMinute float64 `json:"WPMNeededToPass"`
}

// ContentStore owns the lesson content. Lookup returns an error matching
// ErrContentNotFound when the position has no exercise.
type ContentStore interface {
	Lookup(ctx context.Context, pos Position) (ExerciseContent, error)
	Catalog(ctx context.Context) (Catalog, error)
}

// LessonIndex lists the exercise numbers present in one lesson.
type LessonIndex struct {
	Number    int   `json:"number"`
	Exercises []int `json:"exercises"`
}

// Catalog enumerates, per category, every lesson and exercise a store holds.
// Lessons and exercises are kept in ascending order.
type Catalog map[Category][]LessonIndex

// Add records one exercise, keeping the catalog sorted.
func (c Catalog) Add(pos Position) {
	lessons := c[pos.Category]
	i := sort.Search(len(lessons), func(i int) bool { return lessons[i].Number >= pos.Lesson })
	if i == len(lessons) || lessons[i].Number != pos.Lesson {
		lessons = append(lessons, LessonIndex{})
		copy(lessons[i+1:], lessons[i:])
		lessons[i] = LessonIndex{Number: pos.Lesson}
	}
	ex := lessons[i].Exercises
	j := sort.SearchInts(ex, pos.Exercise)
	if j == len(ex) || ex[j] != pos.Exercise {
		ex = append(ex, 0)
		copy(ex[j+1:], ex[j:])
		ex[j] = pos.Exercise
	}
	lessons[i].Exercises = ex
	c[pos.Category] = lessons
}

// Has reports whether the catalog lists pos.
func (c Catalog) Has(pos Position) bool {
	for _, l := range c[pos.Category] {
		if l.Number != pos.Lesson {
			continue
		}
		j := sort.SearchInts(l.Exercises, pos.Exercise)
		return j < len(l.Exercises) && l.Exercises[j] == pos.Exercise
	}
	return false
}

// Count returns the number of exercises in the catalog.
func (c Catalog) Count() int {
	n := 0
	for _, lessons := range c {
		for _, l := range lessons {
			n += len(l.Exercises)
		}
	}
	return n
}

// Bounds derives a category's bounds from the highest lesson number and the
// highest exercise number found in it.
func (c Catalog) Bounds(cat Category) Bounds {
	var b Bounds
	for _, l := range c[cat] {
		if l.Number > b.MaxLesson {
			b.MaxLesson = l.Number
		}
		if n := len(l.Exercises); n > 0 && l.Exercises[n-1] > b.MaxExercise {
			b.MaxExercise = l.Exercises[n-1]
		}
	}
	return b
}

// Exercise is a resolved position with its content.
type Exercise struct {
	Position
	Content ExerciseContent
}

// ExerciseDTO is what the front-end receives for an exercise.
type ExerciseDTO struct {
	Category              Category `json:"exerciseCategory"`
	LessonNumber          int      `json:"lessonNumber"`
	ExerciseNumber        int      `json:"exerciseNumber"`
	Text                  string   `json:"text"`
	TutorEnabled          bool     `json:"isTutorActive"`
	KeyboardVisible       bool     `json:"isKeyboardVisible"`
	MinimumWordsPerMinute float64  `json:"wordsPerMinuteNeededToPass"`
}

// DTO flattens the exercise for the front-end.
func (e Exercise) DTO() ExerciseDTO {
	return ExerciseDTO{
		Category:              e.Category,
		LessonNumber:          e.Lesson,
		ExerciseNumber:        e.Exercise,
		Text:                  e.Content.Text,
		TutorEnabled:          e.Content.TutorEnabled,
		KeyboardVisible:       e.Content.KeyboardVisible,
		MinimumWordsPerMinute: e.Content.MinimumWordsPerMinute,
	}
}
