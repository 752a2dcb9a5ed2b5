// Package notify reports errors to the user and asks for confirmation.
// The bridge and the terminal shell receive a Notifier; lesson navigation
// never calls one.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ErrNoTerminal means a confirmation was needed but no one can answer it.
var ErrNoTerminal = errors.New("no terminal available for confirmation")

// Notifier surfaces failures and yes/no questions to the user.
type Notifier interface {
	Error(title, message string)
	Confirm(ctx context.Context, title, message, detail string) (bool, error)
}

// Log writes errors to a logger and refuses every confirmation. Used when
// the process runs headless.
type Log struct {
	Logger *log.Logger // nil uses the standard logger
}

func (l Log) logf(format string, args ...any) {
	if l.Logger != nil {
		l.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// Error logs the message.
func (l Log) Error(title, message string) {
	l.logf("error: %s: %s", title, message)
}

// Confirm logs the question and answers no.
func (l Log) Confirm(_ context.Context, title, message, _ string) (bool, error) {
	l.logf("warning: %s: %s (declined, no terminal)", title, message)
	return false, ErrNoTerminal
}

// Dialog shows huh forms on a terminal.
type Dialog struct {
	In  io.Reader
	Out io.Writer

	// Accessible renders plain prompts instead of the full form, as needed
	// when In is not a TTY.
	Accessible bool

	mu sync.Mutex
}

// NewDialog prompts on the controlling terminal. It returns nil when there
// is none.
func NewDialog() *Dialog {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return nil
	}
	return &Dialog{In: tty, Out: tty, Accessible: !term.IsTerminal(int(tty.Fd()))}
}

func (d *Dialog) newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula()).WithShowHelp(false)
	if d.In != nil {
		form = form.WithInput(d.In)
	}
	if d.Out != nil {
		form = form.WithOutput(d.Out)
	}
	if d.Accessible {
		form = form.WithAccessible(true)
	}
	return form
}

// Error shows message until dismissed.
func (d *Dialog) Error(title, message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	form := d.newForm(huh.NewGroup(
		huh.NewNote().Title(title).Description(message).Next(true).NextLabel("Aceptar"),
	))
	if err := form.Run(); err != nil {
		log.Printf("error: %s: %s", title, message)
	}
}

// Confirm asks a yes/no question. Aborting the form counts as no.
func (d *Dialog) Confirm(ctx context.Context, title, message, detail string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	answer := false
	form := d.newForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("%s: %s", title, message)).
			Description(detail).
			Affirmative("Si").
			Negative("No").
			Value(&answer),
	))
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return answer, nil
}

// Recorder keeps every notification and answers confirmations from a
// script. Useful in tests.
type Recorder struct {
	mu         sync.Mutex
	Errors     []string
	Prompts    []string
	Answers    []bool // consumed in order; missing answers mean no
	ConfirmErr error
}

// Error records "title: message".
func (r *Recorder) Error(title, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, title+": "+message)
}

// Confirm records the prompt and returns the next scripted answer.
func (r *Recorder) Confirm(_ context.Context, title, message, _ string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Prompts = append(r.Prompts, title+": "+message)
	if r.ConfirmErr != nil {
		return false, r.ConfirmErr
	}
	if len(r.Answers) == 0 {
		return false, nil
	}
	answer := r.Answers[0]
	r.Answers = r.Answers[1:]
	return answer, nil
}

// Snapshot returns copies of the recorded errors and prompts.
func (r *Recorder) Snapshot() (errs, prompts []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.Errors...), append([]string(nil), r.Prompts...)
}
