package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Lucasmercado101/mecamatic/pkg/debug"
	"github.com/Lucasmercado101/mecamatic/pkg/lesson"
	"github.com/Lucasmercado101/mecamatic/pkg/menu"
	"github.com/Lucasmercado101/mecamatic/pkg/metrics"
	"github.com/Lucasmercado101/mecamatic/pkg/profile"
	"github.com/Lucasmercado101/mecamatic/pkg/shell"
)

// View width below which the exercise panel replaces the menu instead of
// sitting beside it.
const SplitViewThreshold = 70

// screen is the top-level view, mirroring the welcome and main views of
// the front-end.
type screen int

const (
	screenWelcome screen = iota
	screenMain
)

// focus represents which UI element has keyboard focus
type focus int

const (
	focusMenu focus = iota
	focusExercise
)

// Model is the terminal shell.
type Model struct {
	ctx   context.Context
	shell *shell.Shell
	theme Theme

	screen  screen
	focused focus

	picker ProfilePickerModel
	menu   MenuViewModel
	panel  ExercisePanel
	help   *helpOverlay

	pendingSelect string

	showHelp      bool
	showConfirm   bool
	confirm       ConfirmModal
	pendingDelete string
	showSettings  bool
	settingsModal SettingsModal

	profileName string
	settings    profile.Settings

	statusMsg     string
	statusIsError bool

	width      int
	height     int
	splitRatio float64

	initialProfile string
	lessonChanges  <-chan struct{}
	writeClipboard func(string) error
}

// Option configures a Model.
type Option func(*Model)

// WithContext sets the context passed to the shell.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// WithProfile selects a profile at startup.
func WithProfile(name string) Option {
	return func(m *Model) { m.initialProfile = name }
}

// WithLessonChanges makes the menu reload whenever changes fires.
func WithLessonChanges(changes <-chan struct{}) Option {
	return func(m *Model) { m.lessonChanges = changes }
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) { m.writeClipboard = write }
}

// WithSplitRatio sets the share of the width given to the menu.
func WithSplitRatio(r float64) Option {
	return func(m *Model) {
		if r > 0 && r < 1 {
			m.splitRatio = r
		}
	}
}

// NewModel creates the shell UI. It starts on the welcome view with
// default dimensions so the first frame renders before a WindowSizeMsg.
func NewModel(sh *shell.Shell, opts ...Option) Model {
	theme := DefaultTheme(lipgloss.DefaultRenderer())
	m := Model{
		ctx:            context.Background(),
		shell:          sh,
		theme:          theme,
		picker:         NewProfilePicker(nil, theme),
		menu:           NewMenuView(nil, theme),
		panel:          NewExercisePanel(theme),
		help:           newHelpOverlay(60),
		width:          100,
		height:         30,
		splitRatio:     0.35,
		writeClipboard: clipboard.WriteAll,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.resize()
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{loadProfilesCmd(m.ctx, m.shell)}
	if m.initialProfile != "" {
		cmds = append(cmds, loadSettingsCmd(m.ctx, m.shell, m.initialProfile))
	}
	if m.lessonChanges != nil {
		cmds = append(cmds, WaitForLessonChangesCmd(m.lessonChanges))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ProfilesLoadedMsg:
		if msg.Err != nil {
			m.setError(fmt.Sprintf("No se pudieron leer los usuarios: %v", msg.Err))
			return m, nil
		}
		m.picker.SetNames(msg.Names)
		if m.pendingSelect != "" {
			m.picker.Select(m.pendingSelect)
			m.pendingSelect = ""
		}
		return m, nil

	case SelectProfileMsg:
		return m, loadSettingsCmd(m.ctx, m.shell, msg.Name)

	case SettingsLoadedMsg:
		if msg.Err != nil {
			m.setError(fmt.Sprintf("No se pudo cargar %q: %v", msg.Name, msg.Err))
			return m, nil
		}
		m.profileName = msg.Name
		m.settings = msg.Settings
		m.panel.SetSettings(msg.Settings)
		m.screen = screenMain
		m.focused = focusMenu
		m.setStatus("Usuario: " + msg.Name)
		return m, loadMenuCmd(m.ctx, m.shell)

	case CreateProfileMsg:
		return m, createProfileCmd(m.ctx, m.shell, msg.Name)

	case ProfileCreatedMsg:
		if msg.Err != nil {
			m.setError(fmt.Sprintf("No se pudo crear el usuario: %v", msg.Err))
			return m, nil
		}
		m.setStatus("Usuario creado: " + msg.Name)
		m.pendingSelect = msg.Name
		return m, loadProfilesCmd(m.ctx, m.shell)

	case DeleteProfileMsg:
		if msg.Name == "" {
			m.setError(shell.NoProfileMessage)
			return m, nil
		}
		m.pendingDelete = msg.Name
		m.confirm = NewConfirmModal(shell.DeleteTitle, shell.DeleteMessage, shell.DeleteDetail(msg.Name), m.theme)
		m.confirm.SetSize(m.width, m.height-1)
		m.showConfirm = true
		return m, nil

	case ProfileDeletedMsg:
		if msg.Err != nil {
			m.setError(fmt.Sprintf("No se pudo eliminar el usuario: %v", msg.Err))
			return m, nil
		}
		m.setStatus("Usuario eliminado: " + msg.Name)
		return m, loadProfilesCmd(m.ctx, m.shell)

	case SettingsSavedMsg:
		if msg.Err != nil {
			m.setError(fmt.Sprintf("No se pudo guardar la configuración: %v", msg.Err))
			return m, nil
		}
		m.settings = msg.Settings
		m.panel.SetSettings(msg.Settings)
		m.setStatus("Configuración guardada")
		return m, nil

	case MenuLoadedMsg:
		if msg.Err != nil {
			m.setError(fmt.Sprintf("No se pudo leer las lecciones: %v", msg.Err))
			return m, nil
		}
		m.menu.SetTree(msg.Tree)
		if ex := m.panel.Exercise(); ex != nil {
			m.menu.Reveal(ex.Position)
		}
		return m, nil

	case OpenExerciseMsg:
		return m, exerciseCmd(m.ctx, m.shell, msg.Position, DirOpen)

	case ExerciseLoadedMsg:
		if msg.Err != nil {
			debug.Log("ui: %v", msg.Err)
			m.setError(navigationStatus(msg.Err))
			return m, nil
		}
		m.panel.SetExercise(msg.Exercise, m.settings, m.shell.Navigator().Sequence())
		m.menu.Reveal(msg.Exercise.Position)
		m.clearStatus()
		return m, nil

	case LessonsChangedMsg:
		m.setStatus("Lecciones actualizadas")
		cmds := []tea.Cmd{WaitForLessonChangesCmd(m.lessonChanges)}
		if m.screen == screenMain {
			cmds = append(cmds, loadMenuCmd(m.ctx, m.shell))
		}
		return m, tea.Batch(cmds...)

	case ClipboardMsg:
		if msg.Err != nil {
			m.setError(fmt.Sprintf("No se pudo copiar: %v", msg.Err))
		} else {
			m.setStatus("Texto copiado al portapapeles")
		}
		return m, nil
	}

	if m.screen == screenMain && m.focused == focusExercise {
		m.panel, cmd = m.panel.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch {
	case m.showConfirm:
		m.confirm, _ = m.confirm.Update(msg)
		if !m.confirm.Answered() {
			return m, nil
		}
		m.showConfirm = false
		name := m.pendingDelete
		m.pendingDelete = ""
		if m.confirm.Accepted() {
			return m, deleteProfileCmd(m.ctx, m.shell, name)
		}
		return m, nil

	case m.showSettings:
		var cmd tea.Cmd
		m.settingsModal, cmd = m.settingsModal.Update(msg)
		if m.settingsModal.IsCancelRequested() {
			m.showSettings = false
			return m, nil
		}
		if m.settingsModal.IsSaveRequested() {
			m.showSettings = false
			settings, err := m.settingsModal.Settings()
			if err != nil {
				m.setError(err.Error())
				return m, nil
			}
			return m, saveSettingsCmd(m.ctx, m.shell, m.profileName, settings)
		}
		return m, cmd

	case m.showHelp:
		m.handleHelpKeys(msg)
		return m, nil
	}

	if m.screen == screenWelcome {
		return m.handleWelcomeKeys(msg)
	}
	return m.handleMainKeys(msg)
}

// handleHelpKeys handles keyboard input when the help overlay is open
func (m *Model) handleHelpKeys(msg tea.KeyMsg) {
	switch msg.String() {
	case "j", "down":
		m.help.scroll++
	case "k", "up":
		if m.help.scroll > 0 {
			m.help.scroll--
		}
	case "home", "g":
		m.help.scroll = 0
	case "G", "end":
		// Clamped in render
		m.help.scroll = 999
	default:
		m.showHelp = false
		m.help.scroll = 0
	}
}

func (m Model) handleWelcomeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.picker.Filtering() && !m.picker.Creating() {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "?":
			m.showHelp = true
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m Model) handleMainKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		m.showHelp = true
		return m, nil
	case "esc":
		m.screen = screenWelcome
		m.panel.Clear()
		m.clearStatus()
		return m, loadProfilesCmd(m.ctx, m.shell)
	case "tab":
		if m.focused == focusMenu {
			m.focused = focusExercise
		} else {
			m.focused = focusMenu
		}
		return m, nil
	case "n":
		return m.navigate(DirNext)
	case "p":
		return m.navigate(DirPrevious)
	case "y":
		ex := m.panel.Exercise()
		if ex == nil {
			m.setError("No hay ningún ejercicio abierto")
			return m, nil
		}
		return m, copyCmd(m.writeClipboard, ex.Content.Text)
	case "s":
		m.settingsModal = NewSettingsModal(m.profileName, m.settings, m.theme)
		m.settingsModal.SetSize(m.width, m.height-1)
		m.showSettings = true
		return m, nil
	}

	var cmd tea.Cmd
	if m.focused == focusMenu {
		m.menu, cmd = m.menu.Update(msg)
	} else {
		m.panel, cmd = m.panel.Update(msg)
	}
	return m, cmd
}

// navigate moves from the open exercise, or from the exercise highlighted
// in the menu when none is open.
func (m Model) navigate(dir Direction) (tea.Model, tea.Cmd) {
	var from lesson.Position
	switch {
	case m.panel.Exercise() != nil:
		from = m.panel.Exercise().Position
	case m.menu.Tree() != nil && m.menu.Tree().Selected() != nil && m.menu.Tree().Selected().Kind == menu.KindExercise:
		from = m.menu.Tree().Selected().Position
	default:
		m.setError("Seleccione un ejercicio primero")
		return m, nil
	}
	return m, exerciseCmd(m.ctx, m.shell, from, dir)
}

func (m *Model) setStatus(s string) {
	m.statusMsg, m.statusIsError = s, false
}

func (m *Model) setError(s string) {
	m.statusMsg, m.statusIsError = s, true
}

func (m *Model) clearStatus() {
	m.statusMsg, m.statusIsError = "", false
}

// bodyHeight is the height left for content after header and footer.
func (m Model) bodyHeight() int {
	return max(1, m.height-2)
}

func (m Model) isSplitView() bool {
	return m.width >= SplitViewThreshold
}

func (m *Model) menuWidth() int {
	if !m.isSplitView() {
		return m.width
	}
	return max(20, int(float64(m.width)*m.splitRatio))
}

func (m *Model) resize() {
	body := m.bodyHeight()
	m.picker.SetSize(m.width, body)
	if m.isSplitView() {
		mw := m.menuWidth()
		m.menu.SetSize(mw-2, body-2)
		m.panel.SetSize(m.width-mw-4, body-2)
	} else {
		m.menu.SetSize(m.width, body)
		m.panel.SetSize(m.width, body)
	}
	m.confirm.SetSize(m.width, m.height-1)
	m.settingsModal.SetSize(m.width, m.height-1)
}

func (m Model) View() string {
	defer metrics.Timer(metrics.UIRender)()

	var body string
	isOverlay := false

	switch {
	case m.showConfirm:
		body = m.confirm.View()
		isOverlay = true
	case m.showSettings:
		body = m.settingsModal.View()
		isOverlay = true
	case m.showHelp:
		body = m.renderHelpOverlay()
		isOverlay = true
	case m.screen == screenWelcome:
		body = m.picker.View()
	case m.isSplitView():
		body = m.renderSplitView()
	case m.focused == focusExercise:
		body = m.panel.View()
	default:
		body = m.menu.View()
	}

	footer := m.renderFooter()

	finalStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		MaxHeight(m.height)

	if isOverlay || m.screen == screenWelcome {
		return finalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, body, footer))
	}
	return finalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, footer))
}

func (m Model) renderHeader() string {
	t := m.theme
	left := t.Header.Render("MecaMatic")
	user := t.PrimaryBold.Render(" " + m.profileName)
	src := t.MutedText.Render(" " + m.shell.Source().String())
	return lipgloss.NewStyle().MaxWidth(m.width).Render(left + user + src)
}

func (m Model) renderSplitView() string {
	mw := m.menuWidth()
	menuStyle, panelStyle := FocusedPanelStyle, PanelStyle
	if m.focused == focusExercise {
		menuStyle, panelStyle = PanelStyle, FocusedPanelStyle
	}
	body := m.bodyHeight() - 2
	left := menuStyle.Width(mw - 2).Height(body).Render(m.menu.View())
	right := panelStyle.Width(m.width - mw - 2).Height(body).Render(m.panel.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) renderFooter() string {
	if m.statusMsg != "" {
		var msgStyle lipgloss.Style
		prefix := "✓ "
		if m.statusIsError {
			msgStyle = lipgloss.NewStyle().Background(ColorDangerBg).Foreground(ColorDanger).Bold(true).Padding(0, 2)
			prefix = "✗ "
		} else {
			msgStyle = lipgloss.NewStyle().Background(ColorSuccessBg).Foreground(ColorSuccess).Bold(true).Padding(0, 2)
		}
		return msgStyle.Render(prefix + truncate(m.statusMsg, max(1, m.width-6)))
	}

	type hint struct {
		key   string
		label string
	}
	var hints []hint
	if m.screen == screenWelcome {
		hints = []hint{{"enter", "entrar"}, {"/", "filtrar"}, {"n", "nuevo"}, {"d", "eliminar"}, {"?", "ayuda"}, {"q", "salir"}}
	} else {
		hints = []hint{{"enter", "abrir"}, {"n/p", "sig/ant"}, {"tab", "panel"}, {"y", "copiar"}, {"s", "config"}, {"esc", "usuarios"}, {"?", "ayuda"}}
	}
	labelStyle := lipgloss.NewStyle().Foreground(ColorText)
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, m.theme.KeyHint.Render(h.key)+" "+labelStyle.Render(h.label))
	}
	return strings.Join(parts, "  ")
}

// Screen names the active view: "welcome" or "main".
func (m Model) Screen() string {
	if m.screen == screenMain {
		return "main"
	}
	return "welcome"
}

// ProfileName returns the selected profile.
func (m Model) ProfileName() string { return m.profileName }

// Settings returns the selected profile's settings.
func (m Model) Settings() profile.Settings { return m.settings }

// CurrentExercise returns the open exercise, or nil.
func (m Model) CurrentExercise() *lesson.Exercise { return m.panel.Exercise() }

// Status returns the status bar message and whether it is an error.
func (m Model) Status() (string, bool) { return m.statusMsg, m.statusIsError }

// Picker exposes the profile picker.
func (m Model) Picker() *ProfilePickerModel { return &m.picker }

// MenuTree returns the lesson menu, or nil before a profile is selected.
func (m Model) MenuTree() *menu.Tree { return m.menu.Tree() }

// ConfirmVisible reports whether the delete confirmation is open.
func (m Model) ConfirmVisible() bool { return m.showConfirm }

// SettingsVisible reports whether the settings editor is open.
func (m Model) SettingsVisible() bool { return m.showSettings }

// HelpVisible reports whether the help overlay is open.
func (m Model) HelpVisible() bool { return m.showHelp }
