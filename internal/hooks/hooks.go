// Package hooks dispatches the lifecycle events of the host review screen.
package hooks

import (
	"context"
	"fmt"
	"sync"
)

// Kind is a host lifecycle event.
type Kind string

const (
	// QuestionShown fires when a card's question side is displayed.
	QuestionShown Kind = "question_shown"

	// AnswerShown fires when the answer side of the same card is displayed.
	AnswerShown Kind = "answer_shown"

	// ReviewerWillEnd fires when the review session is left.
	ReviewerWillEnd Kind = "reviewer_will_end"

	// ProfileWillClose fires once before the host profile closes.
	ProfileWillClose Kind = "profile_will_close"
)

// Kinds lists every event kind.
func Kinds() []Kind {
	return []Kind{QuestionShown, AnswerShown, ReviewerWillEnd, ProfileWillClose}
}

// Card identifies the card an event is about.
type Card struct {
	ID int64 `json:"id"`
}

// Handler handles one event. card is nil for events without a card.
type Handler func(ctx context.Context, card *Card) error

// Registry holds the handlers subscribed to each event kind.
type Registry struct {
	mu       sync.RWMutex
	handlers map[Kind][]Handler
}

func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[Kind][]Handler),
	}
}

// Append subscribes a handler after the existing ones.
func (r *Registry) Append(kind Kind, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[kind] = append(r.handlers[kind], handler)
}

// Len returns how many handlers are subscribed to kind.
func (r *Registry) Len(kind Kind) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers[kind])
}

// Fire runs the handlers of kind in registration order and stops at the first error.
func (r *Registry) Fire(ctx context.Context, kind Kind, card *Card) error {
	r.mu.RLock()
	handlers := r.handlers[kind]
	r.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, card); err != nil {
			return fmt.Errorf("hook %s failed: %w", kind, err)
		}
	}
	return nil
}
