package ankiconnect

import (
	"context"
	"fmt"

	"github.com/at-ishikawa/killfeed/internal/revlog"
)

// ReviewSource reads reviews from the running host.
type ReviewSource interface {
	GetReviewsOfCards(ctx context.Context, cardIDs []int64) (map[int64][]Review, error)
}

// Repository implements revlog.Repository on the running host.
type Repository struct {
	source ReviewSource
}

func NewRepository(source ReviewSource) *Repository {
	return &Repository{source: source}
}

func (r *Repository) reviews(ctx context.Context, cardID int64) ([]revlog.Entry, error) {
	reviews, err := r.source.GetReviewsOfCards(ctx, []int64{cardID})
	if err != nil {
		return nil, fmt.Errorf("getReviewsOfCards(%d) > %w", cardID, err)
	}
	entries := make([]revlog.Entry, 0, len(reviews[cardID]))
	for _, review := range reviews[cardID] {
		entries = append(entries, review.Entry())
	}
	return entries, nil
}

// FindLatestByCard returns the newest reviews of a card. AnkiConnect returns
// every review in log order, so they are sorted and truncated here.
func (r *Repository) FindLatestByCard(ctx context.Context, cardID int64, limit int) ([]revlog.Entry, error) {
	entries, err := r.reviews(ctx, cardID)
	if err != nil {
		return nil, err
	}
	return revlog.Latest(entries, limit), nil
}

func (r *Repository) CountByCard(ctx context.Context, cardID int64) (int, error) {
	entries, err := r.reviews(ctx, cardID)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Entry converts the review to a log entry.
func (review Review) Entry() revlog.Entry {
	return revlog.Entry{
		ID:       review.ID,
		Ease:     review.Ease,
		Interval: review.Interval,
		Type:     revlog.ReviewType(review.Type),
	}
}
