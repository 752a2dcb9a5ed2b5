// Package lesson models the pre-authored lesson set and the exercise
// sequence navigator.
//
// Lessons are grouped in three fixed categories, each holding numbered
// lessons of numbered exercises:
//
//	Learning (Aprendizaje)
//	  lesson 1 .. N
//	    exercise 1 .. M
//	Practice (Practica)
//	Perfecting (Perfeccionamiento)
//
// The Navigator walks that sequence forwards and backwards and resolves the
// target exercise through a ContentStore. It keeps no cursor: callers pass the
// current Position on every request.
package lesson

import (
	"fmt"
	"strings"
)

// Category is one of the three top-level lesson groups. The declaration order
// is the traversal order.
type Category int

const (
	Learning Category = iota + 1
	Practice
	Perfecting
)

// Categories lists every category in traversal order.
var Categories = []Category{Learning, Practice, Perfecting}

var categoryInfo = map[Category]struct {
	name   string
	label  string
	folder string
}{
	Learning:   {"Learning", "Aprendizaje", "learning"},
	Practice:   {"Practice", "Practica", "practice"},
	Perfecting: {"Perfecting", "Perfeccionamiento", "perfecting"},
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categoryInfo[c]
	return ok
}

func (c Category) String() string {
	if info, ok := categoryInfo[c]; ok {
		return info.name
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Label is the user-facing name, also used on the wire to the front-end.
func (c Category) Label() string {
	return categoryInfo[c].label
}

// Folder is the directory name holding the category's lessons on disk.
func (c Category) Folder() string {
	return categoryInfo[c].folder
}

// Next returns the category after c in traversal order.
func (c Category) Next() (Category, bool) {
	for i, cat := range Categories {
		if cat == c && i+1 < len(Categories) {
			return Categories[i+1], true
		}
	}
	return 0, false
}

// Prev returns the category before c in traversal order.
func (c Category) Prev() (Category, bool) {
	for i, cat := range Categories {
		if cat == c && i > 0 {
			return Categories[i-1], true
		}
	}
	return 0, false
}

// ParseCategory accepts the English name, the label or the folder name,
// case-insensitively.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		info := categoryInfo[c]
		if strings.EqualFold(s, info.name) || strings.EqualFold(s, info.label) || strings.EqualFold(s, info.folder) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown lesson category %q", s)
}

// MarshalText encodes the category as its label.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid lesson category %d", int(c))
	}
	return []byte(c.Label()), nil
}

// UnmarshalText accepts anything ParseCategory does.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
