package revlog

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

//go:generate mockgen -source=repository.go -destination=../mocks/revlog/mock_repository.go -package=mock_revlog Repository

// Repository reads the review log of a card.
type Repository interface {
	// FindLatestByCard returns at most limit entries of the card, newest first.
	// A card without reviews yields no entries and no error.
	FindLatestByCard(ctx context.Context, cardID int64, limit int) ([]Entry, error)
}

// Counter is implemented by repositories that can count every review of a card.
type Counter interface {
	CountByCard(ctx context.Context, cardID int64) (int, error)
}

// DBRepository implements Repository on the revlog table of an Anki collection
// or of a MySQL mirror of it.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// FindLatestByCard returns the newest log entries of a card.
func (r *DBRepository) FindLatestByCard(ctx context.Context, cardID int64, limit int) ([]Entry, error) {
	if limit < 1 {
		limit = 1
	}
	var entries []Entry
	if err := r.db.SelectContext(ctx, &entries,
		"SELECT id, ease, ivl, type FROM revlog WHERE cid = ? ORDER BY id DESC LIMIT ?",
		cardID, limit); err != nil {
		return nil, fmt.Errorf("db.SelectContext(revlog by card) > %w", err)
	}
	return entries, nil
}

// CountByCard returns the number of reviews of a card.
func (r *DBRepository) CountByCard(ctx context.Context, cardID int64) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM revlog WHERE cid = ?", cardID); err != nil {
		return 0, fmt.Errorf("db.GetContext(revlog count) > %w", err)
	}
	return count, nil
}
