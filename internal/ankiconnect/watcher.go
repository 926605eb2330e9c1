package ankiconnect

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/at-ishikawa/killfeed/internal/hooks"
)

// CardSource reports the card of the running review.
type CardSource interface {
	GUICurrentCard(ctx context.Context) (*CurrentCard, error)
}

// Event is a host event derived from polling.
type Event struct {
	Kind hooks.Kind
	Card *hooks.Card
}

// Watcher turns polls of the current card into lifecycle events.
type Watcher struct {
	source CardSource

	mu     sync.Mutex
	active bool
	cardID int64
}

func NewWatcher(source CardSource) *Watcher {
	return &Watcher{source: source}
}

// Poll asks the host for the current card. A card different from the previous
// poll yields question_shown; a review that stopped yields reviewer_will_end once.
// The state is kept when the host cannot be reached.
func (w *Watcher) Poll(ctx context.Context) ([]Event, error) {
	card, err := w.source.GUICurrentCard(ctx)
	if err != nil {
		return nil, fmt.Errorf("guiCurrentCard() > %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if card == nil {
		if !w.active {
			return nil, nil
		}
		slog.DebugContext(ctx, "review ended", "card_id", w.cardID)
		w.active = false
		w.cardID = 0
		return []Event{{Kind: hooks.ReviewerWillEnd}}, nil
	}

	if w.active && w.cardID == card.CardID {
		return nil, nil
	}
	slog.DebugContext(ctx, "new card", "card_id", card.CardID, "deck", card.DeckName)
	w.active = true
	w.cardID = card.CardID
	return []Event{{Kind: hooks.QuestionShown, Card: &hooks.Card{ID: card.CardID}}}, nil
}

// Current returns the card of the last poll, or nil outside a review.
func (w *Watcher) Current() *hooks.Card {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.active {
		return nil
	}
	return &hooks.Card{ID: w.cardID}
}
