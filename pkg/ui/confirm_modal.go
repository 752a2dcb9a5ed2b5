package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmModal asks a yes/no question. Si is the affirmative answer, as in
// the delete-profile dialog.
type ConfirmModal struct {
	title   string
	message string
	detail  string
	yes     bool // highlighted button
	theme   Theme
	width   int
	height  int

	answered bool
	accepted bool
}

// NewConfirmModal creates a modal with No highlighted.
func NewConfirmModal(title, message, detail string, theme Theme) ConfirmModal {
	return ConfirmModal{title: title, message: message, detail: detail, theme: theme}
}

// SetSize sets the area the modal is centered in.
func (m *ConfirmModal) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles input for the modal.
func (m ConfirmModal) Update(msg tea.Msg) (ConfirmModal, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "left", "right", "h", "l", "tab":
		m.yes = !m.yes
	case "s", "S", "y", "Y":
		m.answered, m.accepted = true, true
	case "n", "N", "esc":
		m.answered, m.accepted = true, false
	case "enter":
		m.answered, m.accepted = true, m.yes
	}
	return m, nil
}

// Answered reports whether the user chose.
func (m ConfirmModal) Answered() bool { return m.answered }

// Accepted reports whether the answer was Si.
func (m ConfirmModal) Accepted() bool { return m.accepted }

// View renders the modal.
func (m ConfirmModal) View() string {
	t := m.theme

	boxWidth := min(60, max(30, m.width-10))
	boxStyle := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Danger).
		Padding(1, 3).
		Width(boxWidth).
		Align(lipgloss.Center)

	titleStyle := t.Renderer.NewStyle().Foreground(t.Danger).Bold(true)
	textStyle := t.Renderer.NewStyle().Foreground(t.Base.GetForeground())
	detailStyle := t.Renderer.NewStyle().Foreground(t.Subtext)

	button := func(label string, active bool) string {
		s := t.Renderer.NewStyle().Padding(0, 2)
		if active {
			s = s.Background(t.Primary).Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).Bold(true)
		} else {
			s = s.Foreground(t.Secondary)
		}
		return s.Render(label)
	}

	content := titleStyle.Render(m.title) + "\n\n" +
		textStyle.Render(m.message) + "\n\n" +
		detailStyle.Render(m.detail) + "\n\n" +
		button("Si", m.yes) + "  " + button("No", !m.yes)

	box := boxStyle.Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
