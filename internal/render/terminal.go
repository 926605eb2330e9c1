package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/at-ishikawa/killfeed/internal/layout"
)

// Panel renders content as a bordered terminal panel.
func Panel(renderer *lipgloss.Renderer, content Content) string {
	rows := make([]string, 0, len(content.Lines))
	for _, line := range content.Lines {
		segments := Segments(line)
		parts := make([]string, 0, len(segments))
		for _, segment := range segments {
			style := renderer.NewStyle().
				Foreground(lipgloss.Color(content.Palette.Color(segment.Class)))
			parts = append(parts, style.Render(segment.Text))
		}
		rows = append(rows, strings.Join(parts, " "))
	}

	return renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(content.Palette.Date)).
		Padding(0, 1).
		Render(strings.Join(rows, "\n"))
}

// Terminal draws the panel into a terminal stream, offset by the placement in cells.
type Terminal struct {
	writer   io.Writer
	renderer *lipgloss.Renderer
	visible  bool
}

func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{
		writer:   w,
		renderer: lipgloss.NewRenderer(w),
	}
}

func (t *Terminal) Measure(content Content) layout.Size {
	panel := Panel(t.renderer, content)
	return layout.Size{
		Width:  lipgloss.Width(panel),
		Height: lipgloss.Height(panel),
	}
}

func (t *Terminal) Show(content Content, placement layout.Placement) error {
	panel := t.renderer.NewStyle().
		MarginLeft(max(placement.X, 0)).
		MarginTop(max(placement.Y, 0)).
		Render(Panel(t.renderer, content))
	if _, err := fmt.Fprintln(t.writer, panel); err != nil {
		return fmt.Errorf("fmt.Fprintln() > %w", err)
	}
	t.visible = true
	return nil
}

// Hide forgets the panel. Lines already written to the stream stay.
func (t *Terminal) Hide() error {
	t.visible = false
	return nil
}

func (t *Terminal) Close() error {
	t.visible = false
	return nil
}

// Visible reports whether the panel was shown and not hidden since.
func (t *Terminal) Visible() bool {
	return t.visible
}
