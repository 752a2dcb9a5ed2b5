package debug

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestLog_DisabledWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetEnabled(false)
	defer SetEnabled(false)

	Log("hidden %d", 1)
	LogTiming("hidden", time.Second)
	Section("hidden")
	LogEnterExit("hidden")()

	if buf.Len() != 0 {
		t.Errorf("expected no output when disabled, got %q", buf.String())
	}
}

func TestLog_EnabledWritesPrefixedLines(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetEnabled(true)
	defer SetEnabled(false)

	Log("advancing from %s", "Learning 3/7")
	Section("navigator")
	LogIf(false, "skipped")
	Dump("bounds", 10)

	out := buf.String()
	for _, want := range []string{"[MECAMATIC]", "advancing from Learning 3/7", "=== navigator ===", "bounds: int = 10"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got %q", want, out)
		}
	}
	if strings.Contains(out, "skipped") {
		t.Errorf("LogIf(false) should not write, got %q", out)
	}
}

func TestLogEnterExit_RecordsBothEnds(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetEnabled(true)
	defer SetEnabled(false)

	LogEnterExit("lookup")()

	out := buf.String()
	if !strings.Contains(out, "-> lookup") || !strings.Contains(out, "<- lookup") {
		t.Errorf("expected enter and exit lines, got %q", out)
	}
}
