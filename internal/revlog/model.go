// Package revlog provides the review log model of the host application and its stores.
package revlog

import (
	"slices"
	"strconv"
	"time"
)

// ReviewType is the kind of review that produced a log entry.
type ReviewType int

const (
	ReviewTypeLearn   ReviewType = 0
	ReviewTypeReview  ReviewType = 1
	ReviewTypeRelearn ReviewType = 2
	ReviewTypeCram    ReviewType = 3
)

// String returns the label of known review types and the decimal code otherwise.
func (t ReviewType) String() string {
	switch t {
	case ReviewTypeLearn:
		return "Learn"
	case ReviewTypeReview:
		return "Review"
	case ReviewTypeRelearn:
		return "Relearn"
	case ReviewTypeCram:
		return "Cram"
	}
	return strconv.Itoa(int(t))
}

// Entry is one grading event of a card. Entries are never modified by this program.
type Entry struct {
	// ID is the epoch-millisecond timestamp of the review.
	ID int64 `db:"id" yaml:"id" json:"id"`
	// Ease is the rating the user answered with, 1 to 4.
	Ease int `db:"ease" yaml:"ease" json:"ease"`
	// Interval is negative seconds for learning steps, otherwise days.
	Interval int        `db:"ivl" yaml:"ivl" json:"ivl"`
	Type     ReviewType `db:"type" yaml:"type" json:"type"`
}

// ReviewedAt returns the time the review happened.
func (e Entry) ReviewedAt() time.Time {
	return time.UnixMilli(e.ID)
}

// Latest returns at most limit entries ordered newest first.
// The given slice is left untouched.
func Latest(entries []Entry, limit int) []Entry {
	if limit < 1 {
		limit = 1
	}
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
