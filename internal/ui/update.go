package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/at-ishikawa/killfeed/internal/ankiconnect"
	"github.com/at-ishikawa/killfeed/internal/hooks"
)

// tickMsg schedules the next poll
type tickMsg time.Time

// pollMsg carries the result of a poll
type pollMsg struct {
	events []ankiconnect.Event
	err    error
}

// answerMsg carries the result of a show answer request
type answerMsg struct {
	shown bool
	err   error
}

// hooksMsg reports that the handlers of a batch of events returned.
// poll is set when the batch came from a poll.
type hooksMsg struct {
	err  error
	poll bool
}

func (m *Model) Init() tea.Cmd {
	return m.pollCmd()
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.mu.Lock()
		m.width = msg.Width
		m.height = msg.Height
		m.mu.Unlock()
		m.help.Width = msg.Width
		// The placement depends on the window.
		if card := m.options.Poller.Current(); card != nil {
			return m, m.fireCmd(false, ankiconnect.Event{Kind: hooks.QuestionShown, Card: card})
		}
		return m, nil

	case tickMsg:
		return m, m.pollCmd()

	case pollMsg:
		if msg.err != nil {
			slog.Debug("poll failed", "error", msg.err)
			m.err = msg.err
			return m, m.tickCmd()
		}
		if len(msg.events) == 0 {
			m.err = nil
			return m, m.tickCmd()
		}
		// The next poll waits for the handlers so that events keep their order.
		return m, m.fireCmd(true, msg.events...)

	case hooksMsg:
		m.err = msg.err
		if msg.poll {
			return m, m.tickCmd()
		}
		return m, nil

	case answerMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if msg.shown {
			return m, m.fireCmd(false, ankiconnect.Event{Kind: hooks.AnswerShown, Card: m.options.Poller.Current()})
		}
		return m, nil
	}

	return m, nil
}

// handleKeyPress processes keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		closeCmd := m.fireCmd(false, ankiconnect.Event{Kind: hooks.ProfileWillClose})
		return m, func() tea.Msg {
			closeCmd()
			return tea.Quit()
		}

	case key.Matches(msg, m.keys.ShowAnswer):
		if m.options.Poller.Current() == nil {
			return m, nil
		}
		return m, m.answerCmd()

	case key.Matches(msg, m.keys.Refresh):
		if card := m.options.Poller.Current(); card != nil {
			return m, m.fireCmd(false, ankiconnect.Event{Kind: hooks.QuestionShown, Card: card})
		}
		return m, nil
	}
	return m, nil
}

// fireCmd updates the status line and runs the handlers of events, in order,
// outside of the update loop.
func (m *Model) fireCmd(poll bool, events ...ankiconnect.Event) tea.Cmd {
	for _, event := range events {
		switch {
		case event.Kind == hooks.ReviewerWillEnd:
			m.status = waitingStatus
		case event.Card != nil:
			m.status = fmt.Sprintf(reviewingStatus, event.Card.ID)
		}
	}

	ctx := m.ctx
	registry := m.options.Registry
	return func() tea.Msg {
		var errs []error
		for _, event := range events {
			if err := registry.Fire(ctx, event.Kind, event.Card); err != nil {
				slog.Error("hook failed", "kind", event.Kind, "error", err)
				errs = append(errs, err)
			}
		}
		return hooksMsg{err: errors.Join(errs...), poll: poll}
	}
}

func (m *Model) pollCmd() tea.Cmd {
	ctx := m.ctx
	poller := m.options.Poller
	return func() tea.Msg {
		events, err := poller.Poll(ctx)
		return pollMsg{events: events, err: err}
	}
}

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(m.options.Interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) answerCmd() tea.Cmd {
	ctx := m.ctx
	answerer := m.options.Answerer
	return func() tea.Msg {
		shown, err := answerer.GUIShowAnswer(ctx)
		return answerMsg{shown: shown, err: err}
	}
}
