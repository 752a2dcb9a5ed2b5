// Package menu builds the lesson menu: categories holding "LECCION n"
// entries holding "EJERCICIO m" entries, plus the per-view menus of the
// shell.
package menu

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Lucasmercado101/mecamatic/pkg/lesson"
)

// Kind tells what a menu node stands for.
type Kind int

const (
	KindCategory Kind = iota
	KindLesson
	KindExercise
)

// Node is one entry of the lesson menu.
type Node struct {
	ID       string // Stable key, used for persisted expand state
	Label    string // Display text
	Kind     Kind
	Position lesson.Position // Lesson nodes have Exercise 0, categories also Lesson 0
	Children []*Node
	Parent   *Node // nil for categories
	Depth    int   // 0 for categories
	Expanded bool
}

// LessonLabel is the menu text for lesson n.
func LessonLabel(n int) string { return "LECCION " + strconv.Itoa(n) }

// ExerciseLabel is the menu text for exercise n.
func ExerciseLabel(n int) string { return "EJERCICIO " + strconv.Itoa(n) }

// NodeID returns the key of the node at pos. Lesson 0 names the category,
// exercise 0 names the lesson.
func NodeID(pos lesson.Position) string {
	id := pos.Category.Folder()
	if pos.Lesson > 0 {
		id += "/" + strconv.Itoa(pos.Lesson)
		if pos.Exercise > 0 {
			id += "/" + strconv.Itoa(pos.Exercise)
		}
	}
	return id
}

// ParseNodeID is the inverse of NodeID.
func ParseNodeID(id string) (lesson.Position, error) {
	parts := strings.Split(id, "/")
	if len(parts) > 3 {
		return lesson.Position{}, fmt.Errorf("invalid menu id %q", id)
	}
	cat, err := lesson.ParseCategory(parts[0])
	if err != nil {
		return lesson.Position{}, err
	}
	pos := lesson.Position{Category: cat}
	nums := []*int{&pos.Lesson, &pos.Exercise}
	for i, p := range parts[1:] {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return lesson.Position{}, fmt.Errorf("invalid menu id %q", id)
		}
		*nums[i] = n
	}
	return pos, nil
}

// Build reads the store's catalog and returns the lesson tree. Every
// category appears, even without lessons.
func Build(ctx context.Context, store lesson.ContentStore) (*Tree, error) {
	catalog, err := store.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("building lesson menu: %w", err)
	}
	return FromCatalog(catalog), nil
}

// FromCatalog builds the tree from an already read catalog.
func FromCatalog(catalog lesson.Catalog) *Tree {
	t := &Tree{byID: make(map[string]*Node)}
	for _, cat := range lesson.Categories {
		root := &Node{
			ID:       NodeID(lesson.Position{Category: cat}),
			Label:    cat.Label(),
			Kind:     KindCategory,
			Position: lesson.Position{Category: cat},
			Expanded: true,
		}
		t.byID[root.ID] = root
		for _, l := range catalog[cat] {
			lpos := lesson.At(cat, l.Number, 0)
			ln := &Node{
				ID:       NodeID(lpos),
				Label:    LessonLabel(l.Number),
				Kind:     KindLesson,
				Position: lpos,
				Parent:   root,
				Depth:    1,
			}
			t.byID[ln.ID] = ln
			for _, e := range l.Exercises {
				epos := lesson.At(cat, l.Number, e)
				en := &Node{
					ID:       NodeID(epos),
					Label:    ExerciseLabel(e),
					Kind:     KindExercise,
					Position: epos,
					Parent:   ln,
					Depth:    2,
				}
				t.byID[en.ID] = en
				ln.Children = append(ln.Children, en)
			}
			root.Children = append(root.Children, ln)
		}
		t.roots = append(t.roots, root)
	}
	t.rebuildFlatList()
	return t
}

// Item is a menu template entry as sent to the front-end.
type Item struct {
	Label    string           `json:"label"`
	Action   string           `json:"action,omitempty"`
	Position *lesson.Position `json:"position,omitempty"`
	Submenu  []Item           `json:"submenu,omitempty"`
}

// Actions of the view menus.
const (
	ActionDeleteProfile = "delete-profile"
	ActionPickExercise  = "exercise-picked"
)

// WelcomeMenu is shown while choosing a profile.
func WelcomeMenu() []Item {
	return []Item{{Label: "Eliminar Usuario", Action: ActionDeleteProfile}}
}

// Items renders the whole tree as the main-view menu template, regardless
// of expand state.
func (t *Tree) Items() []Item {
	items := make([]Item, 0, len(t.roots))
	for _, root := range t.roots {
		items = append(items, nodeItem(root))
	}
	return items
}

func nodeItem(n *Node) Item {
	item := Item{Label: n.Label}
	if n.Kind == KindExercise {
		pos := n.Position
		item.Action = ActionPickExercise
		item.Position = &pos
		return item
	}
	item.Submenu = make([]Item, 0, len(n.Children))
	for _, c := range n.Children {
		item.Submenu = append(item.Submenu, nodeItem(c))
	}
	return item
}
