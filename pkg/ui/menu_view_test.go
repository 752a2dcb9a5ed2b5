package ui

import (
	"context"
	"strings"
	"testing"

	"github.com/Lucasmercado101/mecamatic/pkg/lesson"
	"github.com/Lucasmercado101/mecamatic/pkg/menu"
	"github.com/Lucasmercado101/mecamatic/pkg/testutil"
)

func newTestMenu(t *testing.T) MenuViewModel {
	t.Helper()
	gen := testutil.New(testutil.GeneratorConfig{Bounds: lesson.Bounds{MaxLesson: 2, MaxExercise: 3}})
	tree, err := menu.Build(context.Background(), gen.MemoryStore())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	v := NewMenuView(tree, TestTheme())
	v.SetSize(40, 30)
	return v
}

func TestMenuView_OpenExercise(t *testing.T) {
	v := newTestMenu(t)

	v, _ = v.Update(key("j")) // LECCION 1
	v, _ = v.Update(key("l")) // expand
	v, _ = v.Update(key("l")) // EJERCICIO 1
	v, _ = v.Update(key("j")) // EJERCICIO 2
	_, cmd := v.Update(key("enter"))

	msg, ok := msgOf(cmd).(OpenExerciseMsg)
	if !ok {
		t.Fatalf("expected OpenExerciseMsg, got %#v", msgOf(cmd))
	}
	testutil.AssertPosition(t, msg.Position, lesson.At(lesson.Learning, 1, 2))
}

func TestMenuView_EnterTogglesBranches(t *testing.T) {
	v := newTestMenu(t)
	before := len(v.Tree().Visible())

	v, cmd := v.Update(key("enter"))
	if cmd != nil {
		t.Error("enter on a category must not open anything")
	}
	if len(v.Tree().Visible()) >= before {
		t.Error("enter should collapse the category")
	}
	v, _ = v.Update(key(" "))
	if len(v.Tree().Visible()) != before {
		t.Error("space should expand it again")
	}
}

func TestMenuView_ExpandCollapseAll(t *testing.T) {
	v := newTestMenu(t)

	v, _ = v.Update(key("E"))
	if got := len(v.Tree().Visible()); got != 3+6+18 {
		t.Errorf("expanded rows = %d", got)
	}
	v, _ = v.Update(key("C"))
	if got := len(v.Tree().Visible()); got != 3 {
		t.Errorf("collapsed rows = %d", got)
	}
}

func TestMenuView_Reveal(t *testing.T) {
	v := newTestMenu(t)
	v.Reveal(lesson.At(lesson.Perfecting, 2, 3))

	sel := v.Tree().Selected()
	if sel == nil || sel.Kind != menu.KindExercise {
		t.Fatalf("unexpected selection %#v", sel)
	}
	testutil.AssertPosition(t, sel.Position, lesson.At(lesson.Perfecting, 2, 3))
}

func TestMenuView_ScrollKeepsCursorVisible(t *testing.T) {
	v := newTestMenu(t)
	v.SetSize(40, 5)
	v, _ = v.Update(key("E"))
	v, _ = v.Update(key("G"))

	view := v.View()
	if !strings.Contains(view, "EJERCICIO 3") {
		t.Errorf("last exercise should be on screen:\n%s", view)
	}
	if strings.Contains(view, "Aprendizaje") {
		t.Error("top of the tree should have scrolled away")
	}
	if lines := strings.Count(view, "\n") + 1; lines > 5 {
		t.Errorf("view has %d lines, want at most 5", lines)
	}
}

func TestMenuView_SetTreeKeepsSelection(t *testing.T) {
	v := newTestMenu(t)
	v.Reveal(lesson.At(lesson.Practice, 2, 1))

	gen := testutil.New(testutil.GeneratorConfig{Bounds: lesson.Bounds{MaxLesson: 3, MaxExercise: 3}})
	tree, err := menu.Build(context.Background(), gen.MemoryStore())
	if err != nil {
		t.Fatal(err)
	}
	tree.Reveal(lesson.At(lesson.Practice, 2, 1))
	tree.JumpToTop()
	v.SetTree(tree)

	testutil.AssertPosition(t, v.Tree().Selected().Position, lesson.At(lesson.Practice, 2, 1))
}

func TestMenuView_View(t *testing.T) {
	v := newTestMenu(t)
	view := v.View()
	for _, want := range []string{"LECCIONES", "18 ejercicios", "Aprendizaje", "Practica", "Perfeccionamiento", "LECCION 1"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	empty := NewMenuView(nil, TestTheme())
	if !strings.Contains(empty.View(), "No se encontraron ejercicios") {
		t.Error("expected empty state")
	}
}
