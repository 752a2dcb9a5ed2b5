package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Lucasmercado101/mecamatic/pkg/profile"
)

// SettingsFieldType defines the type of settings field
type SettingsFieldType int

const (
	SettingsFieldText SettingsFieldType = iota
	SettingsFieldSelect
)

// SettingsField is a single editable setting.
type SettingsField struct {
	Label    string
	Key      string
	Type     SettingsFieldType
	Input    textinput.Model // for text fields
	Options  []string        // for select fields
	Selected int             // current selection index for select fields
}

// Keys of the settings fields, matching settings.json.
const (
	settingTimeLimit = "timeLimitInSeconds"
	settingErrors    = "errorsCoefficient"
	settingWPM       = "minimumWPM"
	settingTutor     = "isTutorGloballyActive"
	settingKeyboard  = "isKeyboardGloballyVisible"
)

// triStateOptions are the choices of the boolean overrides. The first keeps
// each lesson's own value.
var triStateOptions = []string{"según lección", "si", "no"}

// SettingsModal edits a profile's global settings.
type SettingsModal struct {
	fields       []SettingsField
	focusedField int
	width        int
	height       int
	theme        Theme
	profileName  string
	base         profile.Settings
	err          string

	saveRequested   bool
	cancelRequested bool
}

// NewSettingsModal creates a modal pre-populated from settings.
func NewSettingsModal(name string, settings profile.Settings, theme Theme) SettingsModal {
	fields := []SettingsField{
		makeSettingsText("Tiempo límite (s)", settingTimeLimit, strconv.Itoa(int(settings.TimeLimit().Seconds()))),
		makeSettingsText("PPM mínimas", settingWPM, formatOptionalFloat(settings.MinimumWPM)),
		makeSettingsText("Coef. de errores", settingErrors, formatOptionalFloat(settings.ErrorsCoefficient)),
		makeSettingsSelect("Tutor", settingTutor, settings.TutorGloballyActive),
		makeSettingsSelect("Teclado", settingKeyboard, settings.KeyboardGloballyVisible),
	}
	fields[0].Input.Focus()

	return SettingsModal{
		fields:      fields,
		theme:       theme,
		profileName: name,
		base:        settings,
	}
}

func makeSettingsText(label, key, value string) SettingsField {
	ti := textinput.New()
	ti.SetValue(value)
	ti.CharLimit = 12
	ti.Width = 14
	ti.Placeholder = "-"
	return SettingsField{Label: label, Key: key, Type: SettingsFieldText, Input: ti}
}

func makeSettingsSelect(label, key string, value *bool) SettingsField {
	selected := 0
	if value != nil {
		selected = 2
		if *value {
			selected = 1
		}
	}
	return SettingsField{Label: label, Key: key, Type: SettingsFieldSelect, Options: triStateOptions, Selected: selected}
}

func formatOptionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Update handles input for the settings modal
func (m SettingsModal) Update(msg tea.Msg) (SettingsModal, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+s", "enter":
		if _, err := m.Settings(); err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.saveRequested = true
		return m, nil

	case "esc":
		m.cancelRequested = true
		return m, nil

	case "tab", "down":
		m.focus((m.focusedField + 1) % len(m.fields))
		return m, nil

	case "shift+tab", "up":
		m.focus((m.focusedField - 1 + len(m.fields)) % len(m.fields))
		return m, nil

	case "left":
		if field := &m.fields[m.focusedField]; field.Type == SettingsFieldSelect {
			field.Selected = (field.Selected - 1 + len(field.Options)) % len(field.Options)
			return m, nil
		}

	case "right":
		if field := &m.fields[m.focusedField]; field.Type == SettingsFieldSelect {
			field.Selected = (field.Selected + 1) % len(field.Options)
			return m, nil
		}
	}

	var cmd tea.Cmd
	if field := &m.fields[m.focusedField]; field.Type == SettingsFieldText {
		field.Input, cmd = field.Input.Update(msg)
		m.err = ""
	}
	return m, cmd
}

func (m *SettingsModal) focus(i int) {
	if f := &m.fields[m.focusedField]; f.Type == SettingsFieldText {
		f.Input.Blur()
	}
	m.focusedField = i
	if f := &m.fields[m.focusedField]; f.Type == SettingsFieldText {
		f.Input.Focus()
	}
}

// Settings builds the edited settings. Empty optional fields clear the
// override.
func (m SettingsModal) Settings() (profile.Settings, error) {
	s := m.base
	for _, f := range m.fields {
		switch f.Key {
		case settingTimeLimit:
			secs, err := strconv.Atoi(strings.TrimSpace(f.Input.Value()))
			if err != nil || secs <= 0 {
				return profile.Settings{}, fmt.Errorf("%s: ingrese un número de segundos positivo", f.Label)
			}
			s.TimeLimitInSeconds = secs
		case settingWPM:
			v, err := parseOptionalFloat(f.Input.Value())
			if err != nil {
				return profile.Settings{}, fmt.Errorf("%s: %w", f.Label, err)
			}
			s.MinimumWPM = v
		case settingErrors:
			v, err := parseOptionalFloat(f.Input.Value())
			if err != nil {
				return profile.Settings{}, fmt.Errorf("%s: %w", f.Label, err)
			}
			s.ErrorsCoefficient = v
		case settingTutor:
			s.TutorGloballyActive = triState(f.Selected)
		case settingKeyboard:
			s.KeyboardGloballyVisible = triState(f.Selected)
		}
	}
	return s, nil
}

func parseOptionalFloat(text string) (*float64, error) {
	text = strings.TrimSpace(strings.ReplaceAll(text, ",", "."))
	if text == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || v < 0 {
		return nil, fmt.Errorf("valor inválido %q", text)
	}
	return &v, nil
}

func triState(selected int) *bool {
	switch selected {
	case 1:
		v := true
		return &v
	case 2:
		v := false
		return &v
	default:
		return nil
	}
}

// View renders the settings modal
func (m SettingsModal) View() string {
	r := m.theme.Renderer

	boxWidth := m.width - 10
	if boxWidth < 50 {
		boxWidth = 50
	}
	if boxWidth > 70 {
		boxWidth = 70
	}

	headerStyle := r.NewStyle().Bold(true).Foreground(m.theme.Primary)

	var content strings.Builder
	content.WriteString(headerStyle.Render("Configuración de " + m.profileName))
	content.WriteString("\n\n")

	labelStyle := r.NewStyle().
		Foreground(m.theme.Secondary).
		Width(18).
		Align(lipgloss.Right)
	focusedLabelStyle := r.NewStyle().
		Foreground(m.theme.Primary).
		Bold(true).
		Width(18).
		Align(lipgloss.Right)
	selectStyle := r.NewStyle().Foreground(m.theme.Primary)

	for i, field := range m.fields {
		isFocused := i == m.focusedField
		if isFocused {
			content.WriteString(focusedLabelStyle.Render(field.Label + ":"))
		} else {
			content.WriteString(labelStyle.Render(field.Label + ":"))
		}
		content.WriteString(" ")

		switch field.Type {
		case SettingsFieldText:
			content.WriteString(field.Input.View())
		case SettingsFieldSelect:
			val := field.Options[field.Selected]
			if isFocused {
				content.WriteString(selectStyle.Render(fmt.Sprintf("< %s >", val)))
			} else {
				content.WriteString(val)
			}
		}
		content.WriteString("\n")
	}

	if m.err != "" {
		content.WriteString("\n")
		content.WriteString(r.NewStyle().Foreground(m.theme.Danger).Render(m.err))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	subtextStyle := r.NewStyle().Foreground(m.theme.Subtext).Italic(true)
	instructions := "[Tab] Siguiente   [Enter] Guardar   [Esc] Cancelar"
	if m.fields[m.focusedField].Type == SettingsFieldSelect {
		instructions = "[←/→] Cambiar   " + instructions
	}
	content.WriteString(subtextStyle.Render(instructions))

	boxStyle := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Primary).
		Padding(1, 2).
		Width(boxWidth)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, boxStyle.Render(content.String()))
}

// SetSize sets the modal dimensions
func (m *SettingsModal) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// IsSaveRequested reports whether valid settings were submitted.
func (m SettingsModal) IsSaveRequested() bool {
	return m.saveRequested
}

// IsCancelRequested returns true if esc was pressed
func (m SettingsModal) IsCancelRequested() bool {
	return m.cancelRequested
}
