package lesson

import "fmt"

// Position identifies one exercise. It is a plain value; every navigation
// call receives it explicitly and returns a new one.
type Position struct {
	Category Category `json:"category"`
	Lesson   int      `json:"lesson"`
	Exercise int      `json:"exercise"`
}

// At is shorthand for building a Position.
func At(c Category, lesson, exercise int) Position {
	return Position{Category: c, Lesson: lesson, Exercise: exercise}
}

func (p Position) String() string {
	return fmt.Sprintf("%s lesson %d exercise %d", p.Category, p.Lesson, p.Exercise)
}

// Bounds is the number of lessons in a category and exercises per lesson.
type Bounds struct {
	MaxLesson   int `json:"max_lesson" yaml:"max_lesson"`
	MaxExercise int `json:"max_exercise" yaml:"max_exercise"`
}

// DefaultBounds matches the shipped lesson set: ten lessons of ten exercises.
var DefaultBounds = Bounds{MaxLesson: 10, MaxExercise: 10}

// Empty reports whether the bounds admit no exercise at all.
func (b Bounds) Empty() bool {
	return b.MaxLesson < 1 || b.MaxExercise < 1
}

// Contains reports whether lesson and exercise fall within b.
func (b Bounds) Contains(lesson, exercise int) bool {
	return lesson >= 1 && lesson <= b.MaxLesson && exercise >= 1 && exercise <= b.MaxExercise
}
