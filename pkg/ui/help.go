package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const helpMarkdown = `# Atajos de teclado

## Usuarios

| Tecla | Acción |
|-------|--------|
| ↑/↓ j/k | Mover |
| enter | Entrar con el usuario |
| / | Filtrar |
| n | Nuevo usuario |
| d | Eliminar usuario |

## Lecciones

| Tecla | Acción |
|-------|--------|
| ↑/↓ j/k | Mover |
| ←/→ h/l | Plegar / desplegar |
| enter | Abrir ejercicio |
| E / C | Desplegar / plegar todo |
| n / p | Ejercicio siguiente / anterior |
| tab | Cambiar de panel |
| y | Copiar el texto del ejercicio |
| s | Configuración del usuario |
| esc | Volver a usuarios |

## General

| Tecla | Acción |
|-------|--------|
| ? | Esta ayuda |
| q, ctrl+c | Salir |
`

// helpOverlay renders the keyboard help with glamour, falling back to the
// raw markdown when no renderer is available.
type helpOverlay struct {
	renderer *glamour.TermRenderer
	width    int
	cache    string
	scroll   int
}

func newHelpOverlay(width int) *helpOverlay {
	h := &helpOverlay{}
	h.setWidth(width)
	return h
}

func (h *helpOverlay) setWidth(width int) {
	if width <= 0 {
		width = 60
	}
	if width == h.width && h.cache != "" {
		return
	}
	h.width = width
	h.renderer, _ = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	h.cache = ""
}

func (h *helpOverlay) content() string {
	if h.cache != "" {
		return h.cache
	}
	out := helpMarkdown
	if h.renderer != nil {
		if rendered, err := h.renderer.Render(helpMarkdown); err == nil {
			out = strings.TrimRight(rendered, " \n\r\t")
		}
	}
	h.cache = out
	return out
}

// view returns the help clipped to height lines starting at the scroll
// offset.
func (h *helpOverlay) view(height int) string {
	lines := strings.Split(h.content(), "\n")
	if height <= 0 || len(lines) <= height {
		h.scroll = 0
		return strings.Join(lines, "\n")
	}
	if last := len(lines) - height; h.scroll > last {
		h.scroll = last
	}
	if h.scroll < 0 {
		h.scroll = 0
	}
	return strings.Join(lines[h.scroll:h.scroll+height], "\n")
}

func (m Model) renderHelpOverlay() string {
	h := m.help
	h.setWidth(min(80, m.width-4))
	body := h.view(m.height - 3)
	return lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Top, body)
}
