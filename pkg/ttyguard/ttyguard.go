// Package ttyguard keeps terminal capability probes off stdout when stdout
// is not a screen. Import it for side effects before any package that loads
// lipgloss.
package ttyguard

import (
	"os"
	"strings"
)

// init runs before Bubble Tea acquires the terminal (and before any TUI starts).
//
// Lipgloss/Termenv background detection can emit OSC/DSR control sequences
// to stdout. In --serve mode stdout carries the bridge frames, and those
// sequences would corrupt the first line the front-end reads.
//
// We treat non-interactive invocations as CI=1 early. Termenv uses CI to
// disable TTY probing, preventing those sequences from being written.
func init() {
	if os.Getenv("CI") != "" {
		return
	}

	if !shouldSuppressTTYQueries(os.Args, os.Getenv("MECAMATIC_SERVE") == "1", os.Getenv("MECAMATIC_TEST_MODE") != "") {
		return
	}

	_ = os.Setenv("CI", "1")
}

func shouldSuppressTTYQueries(args []string, envServe, envTest bool) bool {
	if envServe || envTest {
		return true
	}

	for _, arg := range args {
		name, _, _ := strings.Cut(arg, "=")
		switch name {
		case "--serve", "-serve", "--pack", "-pack", "--version", "-version", "--help", "-help":
			return true
		}
	}

	return false
}
