package statistics

import (
	"fmt"
	"sort"
	"time"

	"github.com/at-ishikawa/killfeed/internal/revlog"
)

// ReviewStatistics holds the review counts of one card for a time period
type ReviewStatistics struct {
	Period   string `json:"period"` // "2025-01"
	Total    int    `json:"total"`
	Learns   int    `json:"learns"`
	Reviews  int    `json:"reviews"`
	Relearns int    `json:"relearns"`
	Crams    int    `json:"crams"`
	Again    int    `json:"again"` // answers rated 1
}

// AggregateStatistics holds totals across all periods
type AggregateStatistics struct {
	Total    int `json:"total"`
	Learns   int `json:"learns"`
	Reviews  int `json:"reviews"`
	Relearns int `json:"relearns"`
	Crams    int `json:"crams"`
	Again    int `json:"again"`
	// Retention is the share of reviews of a mature card not rated 1, 0 without reviews.
	Retention float64 `json:"retention"`
}

// StatisticsResult holds both per-period and aggregate statistics
type StatisticsResult struct {
	Periods   []ReviewStatistics  `json:"periods"`
	Aggregate AggregateStatistics `json:"aggregate"`
}

// CalculateStatistics groups the entries of a card by month in location.
// It accepts optional year and month filters (0 means no filter).
// Entries of an unknown review type only count towards the totals.
func CalculateStatistics(entries []revlog.Entry, location *time.Location, year, month int) StatisticsResult {
	if location == nil {
		location = time.Local
	}

	stats := make(map[string]*ReviewStatistics)
	var retained int
	for _, entry := range entries {
		reviewedAt := entry.ReviewedAt().In(location)
		if !matchesFilter(reviewedAt.Year(), int(reviewedAt.Month()), year, month) {
			continue
		}

		period := fmt.Sprintf("%d-%02d", reviewedAt.Year(), int(reviewedAt.Month()))
		if stats[period] == nil {
			stats[period] = &ReviewStatistics{Period: period}
		}
		data := stats[period]
		data.Total++
		switch entry.Type {
		case revlog.ReviewTypeLearn:
			data.Learns++
		case revlog.ReviewTypeReview:
			data.Reviews++
			if entry.Ease > 1 {
				retained++
			}
		case revlog.ReviewTypeRelearn:
			data.Relearns++
		case revlog.ReviewTypeCram:
			data.Crams++
		}
		if entry.Ease == 1 {
			data.Again++
		}
	}

	return buildResult(stats, retained)
}

func matchesFilter(logYear, logMonth, filterYear, filterMonth int) bool {
	if filterYear == 0 {
		return true
	}
	if logYear != filterYear {
		return false
	}
	if filterMonth == 0 {
		return true
	}
	return logMonth == filterMonth
}

func buildResult(stats map[string]*ReviewStatistics, retained int) StatisticsResult {
	periods := make([]ReviewStatistics, 0, len(stats))

	var aggregate AggregateStatistics
	for _, data := range stats {
		periods = append(periods, *data)
		aggregate.Total += data.Total
		aggregate.Learns += data.Learns
		aggregate.Reviews += data.Reviews
		aggregate.Relearns += data.Relearns
		aggregate.Crams += data.Crams
		aggregate.Again += data.Again
	}
	if aggregate.Reviews > 0 {
		aggregate.Retention = float64(retained) / float64(aggregate.Reviews)
	}

	// Sort by period descending (newest first)
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Period > periods[j].Period
	})

	return StatisticsResult{
		Periods:   periods,
		Aggregate: aggregate,
	}
}
