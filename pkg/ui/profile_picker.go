package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SelectProfileMsg is sent when the user picks a profile.
type SelectProfileMsg struct {
	Name string
}

// CreateProfileMsg is sent when the user names a new profile.
type CreateProfileMsg struct {
	Name string
}

// DeleteProfileMsg asks for the highlighted profile to be deleted. Name is
// empty when nothing is highlighted.
type DeleteProfileMsg struct {
	Name string
}

type pickerMode int

const (
	pickerBrowse pickerMode = iota
	pickerFilter
	pickerCreate
)

// ProfilePickerModel is the welcome view: a filterable list of profiles.
type ProfilePickerModel struct {
	names    []string
	filtered []int // indices into names
	cursor   int
	width    int
	height   int
	input    textinput.Model
	mode     pickerMode
	theme    Theme
}

// NewProfilePicker creates a picker over names.
func NewProfilePicker(names []string, theme Theme) ProfilePickerModel {
	ti := textinput.New()
	ti.CharLimit = 50
	ti.Width = 30

	m := ProfilePickerModel{
		names: append([]string(nil), names...),
		input: ti,
		theme: theme,
	}
	m.applyFilter()
	return m
}

// SetNames replaces the profiles, keeping the highlighted name when it
// still exists.
func (m *ProfilePickerModel) SetNames(names []string) {
	current := m.Selected()
	m.names = append([]string(nil), names...)
	m.applyFilter()
	m.Select(current)
}

// Select highlights name when visible.
func (m *ProfilePickerModel) Select(name string) bool {
	for i, idx := range m.filtered {
		if m.names[idx] == name {
			m.cursor = i
			return true
		}
	}
	return false
}

// SetSize updates the picker dimensions.
func (m *ProfilePickerModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Update handles keyboard input for the picker.
func (m ProfilePickerModel) Update(msg tea.Msg) (ProfilePickerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case pickerFilter:
			return m.updateFiltering(msg)
		case pickerCreate:
			return m.updateCreating(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m ProfilePickerModel) updateBrowse(msg tea.KeyMsg) (ProfilePickerModel, tea.Cmd) {
	switch msg.String() {
	case "/":
		m.mode = pickerFilter
		m.cursor = 0
		m.input.Placeholder = "filtrar..."
		m.input.SetValue("")
		m.input.Focus()
	case "n":
		m.mode = pickerCreate
		m.input.Placeholder = "nombre del usuario"
		m.input.SetValue("")
		m.input.Focus()
	case "d", "delete":
		name := m.Selected()
		return m, func() tea.Msg { return DeleteProfileMsg{Name: name} }
	case "enter":
		if name := m.Selected(); name != "" {
			return m, func() tea.Msg { return SelectProfileMsg{Name: name} }
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = max(0, len(m.filtered)-1)
	}
	return m, nil
}

// updateFiltering handles keys when in filter mode.
func (m ProfilePickerModel) updateFiltering(msg tea.KeyMsg) (ProfilePickerModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = pickerBrowse
		m.input.SetValue("")
		m.input.Blur()
		m.applyFilter()
		return m, nil
	case "enter":
		name := m.Selected()
		m.mode = pickerBrowse
		m.input.SetValue("")
		m.input.Blur()
		m.applyFilter()
		m.Select(name)
		if name != "" {
			return m, func() tea.Msg { return SelectProfileMsg{Name: name} }
		}
		return m, nil
	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down":
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.applyFilter()
		return m, cmd
	}
}

func (m ProfilePickerModel) updateCreating(msg tea.KeyMsg) (ProfilePickerModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = pickerBrowse
		m.input.SetValue("")
		m.input.Blur()
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.input.Value())
		m.mode = pickerBrowse
		m.input.SetValue("")
		m.input.Blur()
		if name == "" {
			return m, nil
		}
		return m, func() tea.Msg { return CreateProfileMsg{Name: name} }
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

// applyFilter updates the filtered indices from the filter input. Outside
// filter mode every profile is listed.
func (m *ProfilePickerModel) applyFilter() {
	query := ""
	if m.mode == pickerFilter {
		query = strings.ToLower(strings.TrimSpace(m.input.Value()))
	}
	if query == "" {
		m.filtered = make([]int, len(m.names))
		for i := range m.names {
			m.filtered[i] = i
		}
		if m.cursor >= len(m.filtered) {
			m.cursor = max(0, len(m.filtered)-1)
		}
		return
	}

	type scored struct {
		index int
		score int
	}
	var matches []scored
	for i, name := range m.names {
		if s := fuzzyScore(name, query); s > 0 {
			matches = append(matches, scored{i, s})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	m.filtered = make([]int, len(matches))
	for i, match := range matches {
		m.filtered[i] = match.index
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
}

// fuzzyScore returns a score for how well query matches label (0 = no match)
// Uses fzf-style scoring: consecutive matches, word boundary bonuses
func fuzzyScore(label, query string) int {
	label = strings.ToLower(label)
	query = strings.ToLower(query)

	if label == query {
		return 1000
	}
	if strings.HasPrefix(label, query) {
		return 500 + len(query)
	}
	if strings.Contains(label, query) {
		return 200 + len(query)
	}

	// Fuzzy subsequence match
	li, qi := 0, 0
	score := 0
	consecutive := 0
	lastMatchIdx := -1

	for li < len(label) && qi < len(query) {
		if label[li] == query[qi] {
			qi++
			matchScore := 10

			if lastMatchIdx == li-1 {
				consecutive++
				matchScore += consecutive * 5
			} else {
				consecutive = 0
			}

			// Bonus for word boundary
			if li == 0 || label[li-1] == ' ' || label[li-1] == '-' || label[li-1] == '_' {
				matchScore += 15
			}

			score += matchScore
			lastMatchIdx = li
		}
		li++
	}

	if qi < len(query) {
		return 0
	}
	return score
}

// View renders the picker.
func (m *ProfilePickerModel) View() string {
	t := m.theme
	w := m.width
	if w <= 0 {
		w = 80
	}

	titleStyle := t.Renderer.NewStyle().Foreground(t.Primary).Bold(true)
	normalStyle := t.Renderer.NewStyle().Foreground(t.Base.GetForeground())
	dimStyle := t.Renderer.NewStyle().Foreground(t.Secondary).Italic(true)

	var lines []string
	lines = append(lines, titleStyle.Render("MecaMatic"), "")

	switch m.mode {
	case pickerFilter:
		lines = append(lines, t.SecondaryText.Render(" > ")+t.Renderer.NewStyle().Foreground(t.Primary).Render(m.input.View()))
	case pickerCreate:
		lines = append(lines, t.SecondaryText.Render(" Nuevo usuario: ")+m.input.View())
	default:
		lines = append(lines, t.SecondaryText.Render(" Seleccione un usuario"))
	}
	lines = append(lines, "")

	if len(m.filtered) == 0 {
		if len(m.names) == 0 {
			lines = append(lines, dimStyle.Render(" No hay usuarios. Presione n para crear uno."))
		} else {
			lines = append(lines, dimStyle.Render(" Ningún usuario coincide"))
		}
	}

	start, end := m.visibleRange()
	for i := start; i < end; i++ {
		name := truncate(m.names[m.filtered[i]], w-6)
		if i == m.cursor {
			lines = append(lines, t.Selected.Render(name))
		} else {
			lines = append(lines, normalStyle.Render("  "+name))
		}
	}
	if end < len(m.filtered) {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("  ... +%d más", len(m.filtered)-end)))
	}

	lines = append(lines, "", m.renderTitleBar(w))
	return strings.Join(lines, "\n")
}

// visibleRange keeps the cursor on screen when the list is taller than the
// view.
func (m *ProfilePickerModel) visibleRange() (int, int) {
	rows := m.height - 7
	if rows < 1 || rows >= len(m.filtered) {
		return 0, len(m.filtered)
	}
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	return start, start + rows
}

// renderTitleBar renders the k9s-style title bar with the profile count.
func (m *ProfilePickerModel) renderTitleBar(w int) string {
	t := m.theme
	titleText := t.Renderer.NewStyle().Foreground(t.Primary).Bold(true)
	countText := t.Renderer.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"})

	label := "usuarios"
	if m.mode == pickerFilter && m.input.Value() != "" {
		label = fmt.Sprintf("usuarios(%s)", m.input.Value())
	}
	count := fmt.Sprintf("[%d]", len(m.filtered))
	title := titleText.Render(label) + countText.Render(count)

	sepStyle := t.Renderer.NewStyle().Foreground(t.Border)
	titleLen := lipgloss.Width(label) + len(count)
	leftPad := (w - titleLen - 4) / 2
	rightPad := w - titleLen - 4 - leftPad
	if leftPad < 1 {
		leftPad = 1
	}
	if rightPad < 1 {
		rightPad = 1
	}
	return sepStyle.Render(strings.Repeat("─", leftPad)) + " " + title + " " + sepStyle.Render(strings.Repeat("─", rightPad))
}

// Filtering reports whether the filter input is open.
func (m *ProfilePickerModel) Filtering() bool { return m.mode == pickerFilter }

// Creating reports whether the new-profile input is open.
func (m *ProfilePickerModel) Creating() bool { return m.mode == pickerCreate }

// Cursor returns the current cursor position.
func (m *ProfilePickerModel) Cursor() int { return m.cursor }

// FilteredCount returns the number of profiles matching the current filter.
func (m *ProfilePickerModel) FilteredCount() int { return len(m.filtered) }

// Selected returns the highlighted profile name, or "" when none.
func (m *ProfilePickerModel) Selected() string {
	if len(m.filtered) == 0 || m.cursor >= len(m.filtered) {
		return ""
	}
	return m.names[m.filtered[m.cursor]]
}
