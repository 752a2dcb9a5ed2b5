package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Lucasmercado101/mecamatic/pkg/lesson"
	"github.com/Lucasmercado101/mecamatic/pkg/menu"
)

// OpenExerciseMsg is sent when an exercise leaf is activated.
type OpenExerciseMsg struct {
	Position lesson.Position
}

// MenuViewModel renders the lesson menu tree with windowed scrolling.
type MenuViewModel struct {
	tree           *menu.Tree
	theme          Theme
	width          int
	height         int
	viewportOffset int
}

// NewMenuView wraps tree for display.
func NewMenuView(tree *menu.Tree, theme Theme) MenuViewModel {
	return MenuViewModel{tree: tree, theme: theme}
}

// Tree returns the underlying menu.
func (v *MenuViewModel) Tree() *menu.Tree { return v.tree }

// SetTree swaps the menu, keeping the selection on the same node ID when it
// survives.
func (v *MenuViewModel) SetTree(tree *menu.Tree) {
	var selectedID string
	if v.tree != nil {
		if sel := v.tree.Selected(); sel != nil {
			selectedID = sel.ID
		}
	}
	v.tree = tree
	if tree != nil && selectedID != "" {
		tree.SelectByID(selectedID)
	}
	v.ensureCursorVisible()
}

// SetSize updates the view dimensions.
func (v *MenuViewModel) SetSize(w, h int) {
	v.width = w
	v.height = h
	v.ensureCursorVisible()
}

// Reveal expands the path to pos and selects it.
func (v *MenuViewModel) Reveal(pos lesson.Position) {
	if v.tree != nil && v.tree.Reveal(pos) {
		v.ensureCursorVisible()
	}
}

// Update handles navigation keys.
func (v MenuViewModel) Update(msg tea.Msg) (MenuViewModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || v.tree == nil {
		return v, nil
	}
	switch key.String() {
	case "j", "down":
		v.tree.MoveDown()
	case "k", "up":
		v.tree.MoveUp()
	case "h", "left":
		v.tree.CollapseOrJumpToParent()
	case "l", "right":
		v.tree.ExpandOrMoveToChild()
	case "g", "home":
		v.tree.JumpToTop()
	case "G", "end":
		v.tree.JumpToBottom()
	case "E":
		v.tree.ExpandAll()
	case "C":
		v.tree.CollapseAll()
	case " ":
		v.tree.ToggleExpand()
	case "enter":
		sel := v.tree.Selected()
		if sel == nil {
			break
		}
		if sel.Kind == menu.KindExercise {
			pos := sel.Position
			return v, func() tea.Msg { return OpenExerciseMsg{Position: pos} }
		}
		v.tree.ToggleExpand()
	}
	v.ensureCursorVisible()
	return v, nil
}

func (v *MenuViewModel) rows() int {
	if v.height <= 1 {
		return 1
	}
	return v.height - 1 // header row
}

func (v *MenuViewModel) ensureCursorVisible() {
	if v.tree == nil {
		return
	}
	rows := v.rows()
	cursor := v.tree.Cursor()
	if cursor < v.viewportOffset {
		v.viewportOffset = cursor
	}
	if cursor >= v.viewportOffset+rows {
		v.viewportOffset = cursor - rows + 1
	}
	if last := len(v.tree.Visible()) - rows; v.viewportOffset > last {
		v.viewportOffset = last
	}
	if v.viewportOffset < 0 {
		v.viewportOffset = 0
	}
}

// View renders the visible part of the tree.
func (v *MenuViewModel) View() string {
	if v.tree == nil || len(v.tree.Visible()) == 0 {
		return v.renderEmptyState()
	}
	width := v.width
	if width <= 0 {
		width = 40
	}

	var sb strings.Builder
	sb.WriteString(v.renderHeader(width))

	visible := v.tree.Visible()
	end := v.viewportOffset + v.rows()
	if end > len(visible) {
		end = len(visible)
	}
	for i := v.viewportOffset; i < end; i++ {
		sb.WriteString("\n")
		line := v.renderNode(visible[i], width-2)
		if i == v.tree.Cursor() {
			line = v.theme.Selected.Render(line)
		}
		sb.WriteString(line)
	}
	return sb.String()
}

func (v *MenuViewModel) renderHeader(width int) string {
	style := v.theme.Renderer.NewStyle().
		Background(v.theme.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Width(width)
	return style.Render(fmt.Sprintf(" LECCIONES  %d ejercicios", v.tree.ExerciseCount()))
}

func (v *MenuViewModel) renderNode(n *menu.Node, width int) string {
	r := v.theme.Renderer
	indent := strings.Repeat("  ", n.Depth)

	indicator := " "
	if len(n.Children) > 0 {
		indicator = "▸"
		if n.Expanded {
			indicator = "▾"
		}
	}
	indicator = r.NewStyle().Foreground(v.theme.Secondary).Render(indicator)

	label := truncate(n.Label, width-lipgloss.Width(indent)-2)
	switch n.Kind {
	case menu.KindCategory:
		label = r.NewStyle().Foreground(v.theme.CategoryColor(n.Position.Category)).Bold(true).Render(label)
	case menu.KindLesson:
		label = v.theme.Base.Render(label)
	default:
		label = v.theme.SecondaryText.Render(label)
	}
	return indent + indicator + " " + label
}

func (v *MenuViewModel) renderEmptyState() string {
	r := v.theme.Renderer
	titleStyle := r.NewStyle().Foreground(v.theme.Primary).Bold(true)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Lecciones"))
	sb.WriteString("\n\n")
	sb.WriteString(v.theme.MutedText.Render("No se encontraron ejercicios."))
	sb.WriteString("\n")
	sb.WriteString(v.theme.MutedText.Render("Revise la carpeta de lecciones en la configuración."))
	return sb.String()
}
