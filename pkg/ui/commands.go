package ui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Lucasmercado101/mecamatic/pkg/lesson"
	"github.com/Lucasmercado101/mecamatic/pkg/menu"
	"github.com/Lucasmercado101/mecamatic/pkg/profile"
	"github.com/Lucasmercado101/mecamatic/pkg/shell"
)

// ProfilesLoadedMsg carries the profile names.
type ProfilesLoadedMsg struct {
	Names []string
	Err   error
}

// SettingsLoadedMsg carries a profile's settings after selecting it.
type SettingsLoadedMsg struct {
	Name     string
	Settings profile.Settings
	Err      error
}

// ProfileCreatedMsg reports a new profile.
type ProfileCreatedMsg struct {
	Name string
	Err  error
}

// ProfileDeletedMsg reports a deletion.
type ProfileDeletedMsg struct {
	Name string
	Err  error
}

// SettingsSavedMsg reports saved settings.
type SettingsSavedMsg struct {
	Settings profile.Settings
	Err      error
}

// MenuLoadedMsg carries a rebuilt lesson menu.
type MenuLoadedMsg struct {
	Tree *menu.Tree
	Err  error
}

// Direction of a navigation request.
type Direction int

const (
	DirOpen Direction = iota
	DirNext
	DirPrevious
)

// ExerciseLoadedMsg carries the outcome of opening or navigating.
type ExerciseLoadedMsg struct {
	From      lesson.Position
	Direction Direction
	Exercise  lesson.Exercise
	Err       error
}

// LessonsChangedMsg is sent when the lesson tree changed on disk and the
// shell already reloaded it.
type LessonsChangedMsg struct{}

// ClipboardMsg reports a copy to the clipboard.
type ClipboardMsg struct {
	Err error
}

func loadProfilesCmd(ctx context.Context, sh *shell.Shell) tea.Cmd {
	return func() tea.Msg {
		names, err := sh.ProfileNames(ctx)
		return ProfilesLoadedMsg{Names: names, Err: err}
	}
}

func loadSettingsCmd(ctx context.Context, sh *shell.Shell, name string) tea.Cmd {
	return func() tea.Msg {
		settings, err := sh.LoadSettings(ctx, name)
		return SettingsLoadedMsg{Name: name, Settings: settings, Err: err}
	}
}

func createProfileCmd(ctx context.Context, sh *shell.Shell, name string) tea.Cmd {
	return func() tea.Msg {
		_, err := sh.CreateProfile(ctx, name)
		return ProfileCreatedMsg{Name: name, Err: err}
	}
}

// deleteProfileCmd removes a profile the user already confirmed in the
// modal.
func deleteProfileCmd(ctx context.Context, sh *shell.Shell, name string) tea.Cmd {
	return func() tea.Msg {
		return ProfileDeletedMsg{Name: name, Err: sh.Profiles().Delete(ctx, name)}
	}
}

func saveSettingsCmd(ctx context.Context, sh *shell.Shell, name string, settings profile.Settings) tea.Cmd {
	return func() tea.Msg {
		return SettingsSavedMsg{Settings: settings, Err: sh.SaveSettings(ctx, name, settings)}
	}
}

func loadMenuCmd(ctx context.Context, sh *shell.Shell) tea.Cmd {
	return func() tea.Msg {
		tree, err := sh.Menu(ctx)
		return MenuLoadedMsg{Tree: tree, Err: err}
	}
}

func exerciseCmd(ctx context.Context, sh *shell.Shell, from lesson.Position, dir Direction) tea.Cmd {
	return func() tea.Msg {
		var (
			ex  lesson.Exercise
			err error
		)
		switch dir {
		case DirNext:
			ex, err = sh.Next(ctx, from)
		case DirPrevious:
			ex, err = sh.Previous(ctx, from)
		default:
			ex, err = sh.Open(ctx, from)
		}
		return ExerciseLoadedMsg{From: from, Direction: dir, Exercise: ex, Err: err}
	}
}

// WaitForLessonChangesCmd waits for the next lesson reload.
func WaitForLessonChangesCmd(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return LessonsChangedMsg{}
	}
}

func copyCmd(write func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		return ClipboardMsg{Err: write(text)}
	}
}

// navigationStatus turns a navigator error into the status bar text.
func navigationStatus(err error) string {
	var nf *lesson.ContentNotFoundError
	switch {
	case errors.Is(err, lesson.ErrEndOfSequence):
		return "No hay más ejercicios: llegó al final del curso"
	case errors.Is(err, lesson.ErrStartOfSequence):
		return "Este es el primer ejercicio del curso"
	case errors.As(err, &nf):
		return fmt.Sprintf("No se encontró el ejercicio %d de la lección %d (%s)",
			nf.Position.Exercise, nf.Position.Lesson, nf.Position.Category.Label())
	case errors.Is(err, lesson.ErrInvalidPosition):
		return "Posición de ejercicio inválida"
	default:
		return err.Error()
	}
}
