package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Fire(t *testing.T) {
	t.Run("no handlers is not an error", func(t *testing.T) {
		assert.NoError(t, NewRegistry().Fire(context.Background(), QuestionShown, &Card{ID: 1}))
	})

	t.Run("handlers run in registration order with the card", func(t *testing.T) {
		registry := NewRegistry()
		var calls []string
		var cards []*Card
		registry.Append(QuestionShown, func(ctx context.Context, card *Card) error {
			calls = append(calls, "first")
			cards = append(cards, card)
			return nil
		})
		registry.Append(QuestionShown, func(ctx context.Context, card *Card) error {
			calls = append(calls, "second")
			cards = append(cards, card)
			return nil
		})
		registry.Append(AnswerShown, func(ctx context.Context, card *Card) error {
			calls = append(calls, "answer")
			return nil
		})

		card := &Card{ID: 42}
		require.NoError(t, registry.Fire(context.Background(), QuestionShown, card))
		assert.Equal(t, []string{"first", "second"}, calls)
		assert.Equal(t, []*Card{card, card}, cards)
		assert.Equal(t, 2, registry.Len(QuestionShown))
		assert.Equal(t, 1, registry.Len(AnswerShown))
		assert.Equal(t, 0, registry.Len(ProfileWillClose))
	})

	t.Run("first error stops the chain", func(t *testing.T) {
		registry := NewRegistry()
		want := errors.New("surface gone")
		secondCalled := false
		registry.Append(ReviewerWillEnd, func(ctx context.Context, card *Card) error {
			return want
		})
		registry.Append(ReviewerWillEnd, func(ctx context.Context, card *Card) error {
			secondCalled = true
			return nil
		})

		err := registry.Fire(context.Background(), ReviewerWillEnd, nil)
		assert.ErrorIs(t, err, want)
		assert.EqualError(t, err, "hook reviewer_will_end failed: surface gone")
		assert.False(t, secondCalled)
	})
}

func TestKinds(t *testing.T) {
	assert.Equal(t, []Kind{"question_shown", "answer_shown", "reviewer_will_end", "profile_will_close"}, Kinds())
}
