package menu

import (
	"github.com/Lucasmercado101/mecamatic/pkg/lesson"
)

// Tree is the lesson menu with its expand state and a cursor over the
// visible nodes.
type Tree struct {
	roots    []*Node
	flatList []*Node
	cursor   int
	byID     map[string]*Node

	stateDir string // Empty disables persistence
}

// Roots returns the category nodes.
func (t *Tree) Roots() []*Node { return t.roots }

// Visible returns the nodes currently shown, in display order.
func (t *Tree) Visible() []*Node { return t.flatList }

// Cursor returns the index of the selected node in Visible.
func (t *Tree) Cursor() int { return t.cursor }

// Node returns the node with the given ID.
func (t *Tree) Node(id string) (*Node, bool) {
	n, ok := t.byID[id]
	return n, ok
}

// ExerciseCount returns the number of exercise nodes.
func (t *Tree) ExerciseCount() int {
	n := 0
	for _, node := range t.byID {
		if node.Kind == KindExercise {
			n++
		}
	}
	return n
}

// Selected returns the node under the cursor, or nil if the tree is empty.
func (t *Tree) Selected() *Node {
	if t.cursor >= 0 && t.cursor < len(t.flatList) {
		return t.flatList[t.cursor]
	}
	return nil
}

// MoveDown moves the cursor down.
func (t *Tree) MoveDown() {
	if t.cursor < len(t.flatList)-1 {
		t.cursor++
	}
}

// MoveUp moves the cursor up.
func (t *Tree) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
	}
}

// JumpToTop moves the cursor to the first node.
func (t *Tree) JumpToTop() { t.cursor = 0 }

// JumpToBottom moves the cursor to the last visible node.
func (t *Tree) JumpToBottom() {
	if len(t.flatList) > 0 {
		t.cursor = len(t.flatList) - 1
	}
}

// ToggleExpand expands or collapses the selected node.
func (t *Tree) ToggleExpand() {
	node := t.Selected()
	if node != nil && len(node.Children) > 0 {
		node.Expanded = !node.Expanded
		t.rebuildFlatList()
		t.saveState()
	}
}

// CollapseOrJumpToParent collapses an expanded node, otherwise moves to
// its parent.
func (t *Tree) CollapseOrJumpToParent() {
	node := t.Selected()
	if node == nil {
		return
	}
	if node.Expanded && len(node.Children) > 0 {
		t.ToggleExpand()
		return
	}
	if node.Parent != nil {
		t.selectNode(node.Parent)
	}
}

// ExpandOrMoveToChild expands a collapsed node, otherwise moves to its
// first child.
func (t *Tree) ExpandOrMoveToChild() {
	node := t.Selected()
	if node == nil || len(node.Children) == 0 {
		return
	}
	if !node.Expanded {
		t.ToggleExpand()
		return
	}
	t.MoveDown()
}

// ExpandAll expands every node.
func (t *Tree) ExpandAll() {
	t.setAll(true)
}

// CollapseAll collapses every node.
func (t *Tree) CollapseAll() {
	t.setAll(false)
}

func (t *Tree) setAll(expanded bool) {
	selected := t.Selected()
	for _, root := range t.roots {
		setExpandedRecursive(root, expanded)
	}
	t.rebuildFlatList()
	for selected != nil && !t.selectNode(selected) {
		selected = selected.Parent
	}
	t.saveState()
}

// Reveal expands the ancestors of pos and moves the cursor to it. It
// reports whether pos is in the menu.
func (t *Tree) Reveal(pos lesson.Position) bool {
	node, ok := t.byID[NodeID(pos)]
	if !ok {
		return false
	}
	changed := false
	for p := node.Parent; p != nil; p = p.Parent {
		if !p.Expanded {
			p.Expanded = true
			changed = true
		}
	}
	if changed {
		t.rebuildFlatList()
		t.saveState()
	}
	return t.selectNode(node)
}

// SelectByID moves the cursor to a visible node. Used to keep the
// selection across rebuilds.
func (t *Tree) SelectByID(id string) bool {
	node, ok := t.byID[id]
	return ok && t.selectNode(node)
}

func (t *Tree) selectNode(node *Node) bool {
	for i, n := range t.flatList {
		if n == node {
			t.cursor = i
			return true
		}
	}
	return false
}

func setExpandedRecursive(node *Node, expanded bool) {
	if node.Kind == KindExercise {
		return
	}
	node.Expanded = expanded
	for _, child := range node.Children {
		setExpandedRecursive(child, expanded)
	}
}

func (t *Tree) rebuildFlatList() {
	t.flatList = t.flatList[:0]
	for _, root := range t.roots {
		t.appendVisible(root)
	}
	if t.cursor >= len(t.flatList) {
		t.cursor = len(t.flatList) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

func (t *Tree) appendVisible(node *Node) {
	t.flatList = append(t.flatList, node)
	if node.Expanded {
		for _, child := range node.Children {
			t.appendVisible(child)
		}
	}
}
