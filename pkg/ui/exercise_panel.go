package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Lucasmercado101/mecamatic/pkg/lesson"
	"github.com/Lucasmercado101/mecamatic/pkg/profile"
)

// ExercisePanel shows the open exercise: its text and the criteria to pass
// it once the profile's overrides are applied.
type ExercisePanel struct {
	viewport viewport.Model
	theme    Theme
	exercise *lesson.Exercise
	settings profile.Settings
	seq      lesson.Sequence
	width    int
	height   int
}

// NewExercisePanel creates an empty panel.
func NewExercisePanel(theme Theme) ExercisePanel {
	return ExercisePanel{viewport: viewport.New(40, 10), theme: theme}
}

// SetSize updates the panel dimensions.
func (p *ExercisePanel) SetSize(w, h int) {
	p.width, p.height = w, h
	p.viewport.Width = max(1, w)
	p.viewport.Height = max(1, h)
	p.refresh()
}

// SetExercise shows ex with the given settings. seq positions the exercise
// within the whole course for the progress bar.
func (p *ExercisePanel) SetExercise(ex lesson.Exercise, settings profile.Settings, seq lesson.Sequence) {
	p.exercise = &ex
	p.settings = settings
	p.seq = seq
	p.refresh()
	p.viewport.GotoTop()
}

// SetSettings re-renders with new profile settings.
func (p *ExercisePanel) SetSettings(settings profile.Settings) {
	p.settings = settings
	p.refresh()
}

// Clear removes the exercise.
func (p *ExercisePanel) Clear() {
	p.exercise = nil
	p.refresh()
}

// Exercise returns the exercise on display, or nil.
func (p *ExercisePanel) Exercise() *lesson.Exercise { return p.exercise }

// Update scrolls the text.
func (p ExercisePanel) Update(msg tea.Msg) (ExercisePanel, tea.Cmd) {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

// View renders the panel.
func (p *ExercisePanel) View() string {
	return p.viewport.View()
}

func (p *ExercisePanel) refresh() {
	p.viewport.SetContent(p.render())
}

func (p *ExercisePanel) render() string {
	t := p.theme
	if p.exercise == nil {
		return t.MutedText.Render("Seleccione un ejercicio del menú y presione enter.")
	}
	ex := p.exercise
	width := p.viewport.Width
	if width < 10 {
		width = 10
	}

	var sb strings.Builder
	sb.WriteString(RenderCategoryBadge(ex.Category, t))
	sb.WriteString("  ")
	sb.WriteString(t.PrimaryBold.Render(fmt.Sprintf("Lección %d · Ejercicio %d", ex.Lesson, ex.Exercise)))
	sb.WriteString("\n")

	if done, total := p.progress(); total > 0 {
		barWidth := min(30, width-12)
		sb.WriteString(RenderMiniBar(float64(done)/float64(total), barWidth, t))
		sb.WriteString(t.MutedText.Render(fmt.Sprintf(" %d/%d", done, total)))
		sb.WriteString("\n")
	}
	sb.WriteString(RenderDivider(width))
	sb.WriteString("\n\n")

	for _, line := range wrapText(ex.Content.Text, width) {
		sb.WriteString(t.Base.Render(line))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(RenderDivider(width))
	sb.WriteString("\n")

	s := p.settings
	c := ex.Content
	label := t.SecondaryText.Width(22)
	fmt.Fprintf(&sb, "%s%s\n", label.Render("Velocidad mínima"),
		t.Base.Render(formatWPM(s.EffectiveMinimumWPM(c)))+overrideMark(s.MinimumWPM != nil, t))
	fmt.Fprintf(&sb, "%s%s\n", label.Render("Tutor"),
		RenderFlagBadge(s.EffectiveTutor(c), s.TutorGloballyActive != nil))
	fmt.Fprintf(&sb, "%s%s\n", label.Render("Teclado visible"),
		RenderFlagBadge(s.EffectiveKeyboard(c), s.KeyboardGloballyVisible != nil))
	fmt.Fprintf(&sb, "%s%s\n", label.Render("Tiempo límite"),
		t.Base.Render(formatTimeLimit(s.TimeLimit())))
	if s.ErrorsCoefficient != nil {
		fmt.Fprintf(&sb, "%s%s\n", label.Render("Coeficiente de errores"),
			t.Base.Render(fmt.Sprintf("%g", *s.ErrorsCoefficient)))
	}
	if s.HasOverrides() {
		sb.WriteString("\n")
		sb.WriteString(t.MutedText.Render("* configuración global del usuario"))
	}
	return sb.String()
}

// progress returns the 1-based index of the exercise in the sequence and
// the sequence length.
func (p *ExercisePanel) progress() (done, total int) {
	if p.exercise == nil {
		return 0, 0
	}
	for _, c := range lesson.Categories {
		b := p.seq.Bounds(c)
		if b.Empty() {
			continue
		}
		n := b.MaxLesson * b.MaxExercise
		switch {
		case c < p.exercise.Category:
			done += n
		case c == p.exercise.Category:
			done += (p.exercise.Lesson-1)*b.MaxExercise + p.exercise.Exercise
		}
		total += n
	}
	return done, total
}

func overrideMark(overridden bool, t Theme) string {
	if !overridden {
		return ""
	}
	return t.MutedText.Render("*")
}
