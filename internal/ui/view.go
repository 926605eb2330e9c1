package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	helpHeight      = 1
	waitingStatus   = "Waiting for a review in Anki…"
	reviewingStatus = "Reviewing card %d"
)

// View renders the model
func (m *Model) View() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.width == 0 || m.height == 0 {
		return ""
	}

	window := m.geometry().Window
	rows := make([]string, window.Height)

	// In a small window the card content moves below the panel.
	contentTop := 0
	if m.visible && m.placement.Small {
		contentTop = m.placement.ContentMarginTop
	}
	m.setRow(rows, contentTop, m.status)
	if m.err != nil {
		errorStyle := m.renderer.NewStyle().Foreground(lipgloss.Color("#cc3333"))
		m.setRow(rows, contentTop+1, errorStyle.Render(m.err.Error()))
	}

	if m.visible {
		indent := strings.Repeat(" ", max(m.placement.X, 0))
		for i, line := range strings.Split(m.panel, "\n") {
			m.setRow(rows, m.placement.Y+i, indent+line)
		}
	}

	return strings.Join(rows, "\n") + "\n" + m.help.View(m.keys)
}

func (m *Model) setRow(rows []string, i int, s string) {
	if i < 0 || i >= len(rows) {
		return
	}
	rows[i] = s
}
