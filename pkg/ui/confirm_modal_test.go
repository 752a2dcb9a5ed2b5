package ui

import (
	"strings"
	"testing"
)

func TestConfirmModal_Answers(t *testing.T) {
	tests := []struct {
		name     string
		keys     []string
		accepted bool
	}{
		{"enter defaults to no", []string{"enter"}, false},
		{"move to si then enter", []string{"left", "enter"}, true},
		{"toggle twice", []string{"tab", "tab", "enter"}, false},
		{"s accepts", []string{"s"}, true},
		{"y accepts", []string{"y"}, true},
		{"n declines", []string{"left", "n"}, false},
		{"esc declines", []string{"left", "esc"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewConfirmModal("Eliminar usuario", "¿Desea continuar?", "detalle", TestTheme())
			for _, k := range tt.keys {
				m, _ = m.Update(key(k))
			}
			if !m.Answered() {
				t.Fatal("expected an answer")
			}
			if m.Accepted() != tt.accepted {
				t.Errorf("Accepted() = %v, want %v", m.Accepted(), tt.accepted)
			}
		})
	}
}

func TestConfirmModal_Unanswered(t *testing.T) {
	m := NewConfirmModal("t", "m", "d", TestTheme())
	m, _ = m.Update(key("right"))
	m, _ = m.Update(key("x"))
	if m.Answered() {
		t.Error("navigation keys must not answer")
	}
}

func TestConfirmModal_View(t *testing.T) {
	m := NewConfirmModal("Eliminar usuario", "¿Desea continuar?", "Se borrarán sus datos", TestTheme())
	m.SetSize(100, 30)
	view := m.View()
	for _, want := range []string{"Eliminar usuario", "¿Desea continuar?", "Si", "No"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
