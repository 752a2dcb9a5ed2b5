package menu

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Lucasmercado101/mecamatic/pkg/lesson"
	"github.com/Lucasmercado101/mecamatic/pkg/testutil"
)

func smallTree(t *testing.T) *Tree {
	t.Helper()
	s := testutil.New(testutil.GeneratorConfig{Bounds: lesson.Bounds{MaxLesson: 2, MaxExercise: 3}}).MemoryStore()
	tree, err := Build(context.Background(), s)
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

func labels(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Label
	}
	return out
}

func TestBuild_Structure(t *testing.T) {
	tree := smallTree(t)

	roots := tree.Roots()
	if len(roots) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(roots))
	}
	want := []string{"Aprendizaje", "Practica", "Perfeccionamiento"}
	for i, r := range roots {
		if r.Label != want[i] || r.Kind != KindCategory || !r.Expanded {
			t.Errorf("root %d: unexpected %+v", i, r)
		}
		if len(r.Children) != 2 || r.Children[1].Label != "LECCION 2" {
			t.Errorf("root %d: unexpected lessons %v", i, labels(r.Children))
		}
	}
	ex := roots[1].Children[0].Children[2]
	if ex.Label != "EJERCICIO 3" || ex.Position != lesson.At(lesson.Practice, 1, 3) || ex.Depth != 2 {
		t.Errorf("unexpected exercise node %+v", ex)
	}
	if ex.Parent.Parent != roots[1] {
		t.Error("parent links broken")
	}
	if tree.ExerciseCount() != 18 {
		t.Errorf("expected 18 exercises, got %d", tree.ExerciseCount())
	}

	// Categories expanded, lessons collapsed.
	if got := len(tree.Visible()); got != 9 {
		t.Errorf("expected 9 visible nodes, got %d: %v", got, labels(tree.Visible()))
	}
}

func TestBuild_EmptyCategoryStillListed(t *testing.T) {
	catalog := make(lesson.Catalog)
	catalog.Add(lesson.At(lesson.Learning, 1, 1))
	tree := FromCatalog(catalog)
	if len(tree.Roots()) != 3 || len(tree.Roots()[2].Children) != 0 {
		t.Errorf("unexpected roots %v", labels(tree.Roots()))
	}
}

func TestNodeID_RoundTrip(t *testing.T) {
	for _, pos := range []lesson.Position{
		{Category: lesson.Practice},
		lesson.At(lesson.Learning, 4, 0),
		lesson.At(lesson.Perfecting, 10, 7),
	} {
		id := NodeID(pos)
		got, err := ParseNodeID(id)
		if err != nil {
			t.Fatalf("ParseNodeID(%q): %v", id, err)
		}
		if got != pos {
			t.Errorf("ParseNodeID(%q) = %v, want %v", id, got, pos)
		}
	}
	if NodeID(lesson.At(lesson.Learning, 3, 7)) != "learning/3/7" {
		t.Errorf("unexpected id %q", NodeID(lesson.At(lesson.Learning, 3, 7)))
	}
	for _, bad := range []string{"nope/1", "learning/x", "learning/0", "learning/1/2/3"} {
		if _, err := ParseNodeID(bad); err == nil {
			t.Errorf("ParseNodeID(%q) should fail", bad)
		}
	}
}

func TestTree_NavigationAndToggle(t *testing.T) {
	tree := smallTree(t)

	tree.MoveDown() // LECCION 1 of Aprendizaje
	if sel := tree.Selected(); sel.Label != "LECCION 1" {
		t.Fatalf("expected LECCION 1, got %s", sel.Label)
	}
	tree.ToggleExpand()
	if got := len(tree.Visible()); got != 12 {
		t.Errorf("expected 12 visible after expanding, got %d", got)
	}
	tree.ExpandOrMoveToChild()
	if sel := tree.Selected(); sel.Label != "EJERCICIO 1" {
		t.Errorf("expected move to first child, got %s", sel.Label)
	}
	tree.CollapseOrJumpToParent()
	if sel := tree.Selected(); sel.Label != "LECCION 1" {
		t.Errorf("expected jump to parent, got %s", sel.Label)
	}
	tree.CollapseOrJumpToParent()
	if got := len(tree.Visible()); got != 9 {
		t.Errorf("expected collapse, got %d visible", got)
	}

	tree.JumpToBottom()
	if sel := tree.Selected(); sel.Label != "LECCION 2" || sel.Position.Category != lesson.Perfecting {
		t.Errorf("unexpected bottom %+v", sel)
	}
	tree.MoveDown()
	if tree.Cursor() != len(tree.Visible())-1 {
		t.Error("cursor moved past the end")
	}
	tree.JumpToTop()
	tree.MoveUp()
	if tree.Cursor() != 0 {
		t.Error("cursor moved before the start")
	}
}

func TestTree_ExpandCollapseAllKeepsSelection(t *testing.T) {
	tree := smallTree(t)
	tree.ExpandAll()
	if got := len(tree.Visible()); got != 27 {
		t.Fatalf("expected 27 visible, got %d", got)
	}
	if !tree.Reveal(lesson.At(lesson.Practice, 2, 2)) {
		t.Fatal("reveal failed")
	}
	tree.CollapseAll()
	if got := len(tree.Visible()); got != 3 {
		t.Errorf("expected only categories, got %d", got)
	}
	if sel := tree.Selected(); sel.Label != "Practica" {
		t.Errorf("selection should fall back to the visible ancestor, got %s", sel.Label)
	}
}

func TestTree_Reveal(t *testing.T) {
	tree := smallTree(t)
	tree.CollapseAll()
	if !tree.Reveal(lesson.At(lesson.Perfecting, 1, 3)) {
		t.Fatal("reveal failed")
	}
	sel := tree.Selected()
	if sel.Position != lesson.At(lesson.Perfecting, 1, 3) {
		t.Errorf("unexpected selection %+v", sel)
	}
	if tree.Reveal(lesson.At(lesson.Perfecting, 9, 9)) {
		t.Error("reveal of a missing exercise should fail")
	}
}

func TestState_PersistsAcrossBuilds(t *testing.T) {
	dir := t.TempDir()
	tree := smallTree(t)
	tree.SetStateDir(dir)
	tree.Reveal(lesson.At(lesson.Practice, 2, 1))
	tree.JumpToTop()
	tree.ToggleExpand() // collapse Aprendizaje

	testutil.AssertFileExists(t, StatePath(dir))

	again := smallTree(t)
	again.SetStateDir(dir)
	learning, _ := again.Node("learning")
	practice2, _ := again.Node("practice/2")
	if learning.Expanded {
		t.Error("Aprendizaje should stay collapsed")
	}
	if !practice2.Expanded {
		t.Error("LECCION 2 of Practica should stay expanded")
	}

	data, err := os.ReadFile(StatePath(dir))
	if err != nil {
		t.Fatal(err)
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		t.Fatal(err)
	}
	if state.Version != StateVersion || len(state.Expanded) != 2 {
		t.Errorf("unexpected state %+v", state)
	}
}

func TestState_CorruptFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "menu-state.json"), []byte("{oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	tree := smallTree(t)
	tree.SetStateDir(dir)
	if got := len(tree.Visible()); got != 9 {
		t.Errorf("expected default expand state, got %d visible", got)
	}
}

func TestState_NoDirNoFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	tree := smallTree(t)
	tree.ExpandAll()
	testutil.AssertNoFile(t, filepath.Join(dir, "menu-state.json"))
}

func TestItems_Template(t *testing.T) {
	tree := smallTree(t)
	items := tree.Items()
	if len(items) != 3 || items[0].Label != "Aprendizaje" {
		t.Fatalf("unexpected items %+v", items)
	}
	ex := items[2].Submenu[1].Submenu[0]
	if ex.Label != "EJERCICIO 1" || ex.Action != ActionPickExercise || ex.Position == nil || *ex.Position != lesson.At(lesson.Perfecting, 2, 1) {
		t.Errorf("unexpected exercise item %+v", ex)
	}

	welcome := WelcomeMenu()
	if len(welcome) != 1 || welcome[0].Label != "Eliminar Usuario" || welcome[0].Action != ActionDeleteProfile {
		t.Errorf("unexpected welcome menu %+v", welcome)
	}
}
