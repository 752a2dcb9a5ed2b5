package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
)

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  []string
	}{
		{"fits", "asa sala", 20, []string{"asa sala"}},
		{"breaks on spaces", "asa sala falda hada", 9, []string{"asa sala", "falda", "hada"}},
		{"keeps paragraphs", "uno\ndos", 10, []string{"uno", "dos"}},
		{"blank paragraph", "uno\n\ndos", 10, []string{"uno", "", "dos"}},
		{"cuts long words", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"collapses spaces", "a   b", 10, []string{"a b"}},
		{"zero width", "asa", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapText(tt.in, tt.width)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
				t.Errorf("wrapText(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

func TestWrapText_NeverExceedsWidth(t *testing.T) {
	text := "ñandú cañón acción añoranza pingüino ángulo lección ejercicio perfeccionamiento"
	for width := 1; width <= 20; width++ {
		for _, line := range wrapText(text, width) {
			if w := runewidth.StringWidth(line); w > width {
				t.Fatalf("width %d: line %q is %d cells", width, line, w)
			}
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("EJERCICIO 10", 20); got != "EJERCICIO 10" {
		t.Errorf("short string changed: %q", got)
	}
	if got := truncate("EJERCICIO 10", 6); got != "EJERC…" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abc", 0); got != "" {
		t.Errorf("zero width = %q", got)
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ñu", 4); got != "ñu  " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("lección", 3); got != "lección" {
		t.Errorf("padRight should not cut, got %q", got)
	}
}

func TestFormatWPM(t *testing.T) {
	if got := formatWPM(25); got != "25 ppm" {
		t.Errorf("formatWPM(25) = %q", got)
	}
	if got := formatWPM(12.5); got != "12.5 ppm" {
		t.Errorf("formatWPM(12.5) = %q", got)
	}
}

func TestFormatTimeLimit(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{10 * time.Minute, "10:00"},
		{90 * time.Second, "1:30"},
		{5 * time.Second, "0:05"},
		{59*time.Second + 600*time.Millisecond, "1:00"},
	}
	for _, tt := range tests {
		if got := formatTimeLimit(tt.d); got != tt.want {
			t.Errorf("formatTimeLimit(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFuzzyScore(t *testing.T) {
	if fuzzyScore("lucas", "lucas") <= fuzzyScore("lucas", "luc") {
		t.Error("exact match should beat prefix")
	}
	if fuzzyScore("lucas", "luc") <= fuzzyScore("maluca", "luc") {
		t.Error("prefix should beat substring")
	}
	if fuzzyScore("lucas mercado", "lm") == 0 {
		t.Error("expected subsequence match")
	}
	if fuzzyScore("ana", "zz") != 0 {
		t.Error("expected no match")
	}
}
