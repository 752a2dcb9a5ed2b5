package notify

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
)

var (
	_ Notifier = Log{}
	_ Notifier = (*Dialog)(nil)
	_ Notifier = (*Recorder)(nil)
)

func TestLog_ErrorAndConfirm(t *testing.T) {
	var buf bytes.Buffer
	l := Log{Logger: log.New(&buf, "", 0)}

	l.Error("Error", "disk full")
	ok, err := l.Confirm(context.Background(), "Eliminar", "¿Eliminar a ana?", "")
	if ok {
		t.Error("headless confirm must answer no")
	}
	if !errors.Is(err, ErrNoTerminal) {
		t.Errorf("expected ErrNoTerminal, got %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "error: Error: disk full") {
		t.Errorf("missing error line: %q", out)
	}
	if !strings.Contains(out, "declined") {
		t.Errorf("missing declined confirmation: %q", out)
	}
}

func TestRecorder_ScriptedAnswers(t *testing.T) {
	r := &Recorder{Answers: []bool{true}}

	first, err := r.Confirm(context.Background(), "t", "one", "")
	if err != nil || !first {
		t.Errorf("expected scripted yes, got %v %v", first, err)
	}
	second, err := r.Confirm(context.Background(), "t", "two", "")
	if err != nil || second {
		t.Errorf("expected default no, got %v %v", second, err)
	}
	r.Error("Error", "boom")

	errs, prompts := r.Snapshot()
	if len(errs) != 1 || errs[0] != "Error: boom" {
		t.Errorf("unexpected errors %v", errs)
	}
	if len(prompts) != 2 || prompts[1] != "t: two" {
		t.Errorf("unexpected prompts %v", prompts)
	}
}

func TestRecorder_ConfirmError(t *testing.T) {
	boom := errors.New("boom")
	r := &Recorder{Answers: []bool{true}, ConfirmErr: boom}
	ok, err := r.Confirm(context.Background(), "t", "m", "")
	if ok || !errors.Is(err, boom) {
		t.Errorf("expected error, got %v %v", ok, err)
	}
}
