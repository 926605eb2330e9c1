// Package ui is the terminal view that follows a review running in Anki.
package ui

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/at-ishikawa/killfeed/internal/ankiconnect"
	"github.com/at-ishikawa/killfeed/internal/hooks"
	"github.com/at-ishikawa/killfeed/internal/layout"
	"github.com/at-ishikawa/killfeed/internal/render"
)

// Poller reports the host events since the last poll.
type Poller interface {
	Poll(ctx context.Context) ([]ankiconnect.Event, error)
	Current() *hooks.Card
}

// Answerer asks the host to reveal the answer of the current card.
type Answerer interface {
	GUIShowAnswer(ctx context.Context) (bool, error)
}

type Options struct {
	Poller   Poller
	Answerer Answerer
	Registry *hooks.Registry
	Interval time.Duration
	// ScreenColumns is the width of the whole screen in cells.
	// Zero means the terminal is the whole screen.
	ScreenColumns int
}

// Model is the watch view. It is also the surface of the history panel and
// the geometry provider of the overlay: the window is the terminal minus
// the help line. The overlay calls it from the commands that run the hooks.
type Model struct {
	ctx      context.Context
	options  Options
	keys     KeyMap
	help     help.Model
	renderer *lipgloss.Renderer

	// mu guards the window size and the panel.
	mu     sync.Mutex
	width  int
	height int

	panel     string
	placement layout.Placement
	visible   bool

	status string
	err    error
}

func New(ctx context.Context, renderer *lipgloss.Renderer, options Options) *Model {
	return &Model{
		ctx:      ctx,
		options:  options,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		renderer: renderer,
		status:   waitingStatus,
	}
}

// Geometry implements layout.GeometryProvider.
func (m *Model) Geometry() layout.Geometry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.geometry()
}

func (m *Model) geometry() layout.Geometry {
	window := layout.Rect{Width: m.width, Height: max(m.height-helpHeight, 0)}
	screen := layout.Size{Width: m.width, Height: m.height}
	if m.options.ScreenColumns > 0 {
		screen.Width = m.options.ScreenColumns
	}
	return layout.Geometry{Window: window, Screen: screen}
}

func (m *Model) Measure(content render.Content) layout.Size {
	panel := render.Panel(m.renderer, content)
	return layout.Size{
		Width:  lipgloss.Width(panel),
		Height: lipgloss.Height(panel),
	}
}

func (m *Model) Show(content render.Content, placement layout.Placement) error {
	panel := render.Panel(m.renderer, content)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.panel = panel
	m.placement = placement
	m.visible = true
	return nil
}

func (m *Model) Hide() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visible = false
	return nil
}

func (m *Model) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visible = false
	m.panel = ""
	m.placement = layout.Placement{}
	return nil
}
