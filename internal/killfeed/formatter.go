// Package killfeed turns the review log of a card into the lines of the history panel.
package killfeed

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/at-ishikawa/killfeed/internal/revlog"
)

// NoHistoryText is shown when a card has never been reviewed.
const NoHistoryText = "No review history"

const dateLayout = "2006-01-02 @ 15:04"

// ColorClass is the semantic color of a piece of a line.
// Surfaces resolve it to a concrete color of the current theme.
type ColorClass string

const (
	ColorDate    ColorClass = "date"
	ColorText    ColorClass = "text"
	ColorAlert   ColorClass = "alert"
	ColorLearn   ColorClass = "learn"
	ColorReview  ColorClass = "review"
	ColorRelearn ColorClass = "relearn"
)

// Line is one row of the panel.
type Line struct {
	// NoHistory marks the placeholder line of a card without reviews.
	// Only Message and MessageClass are set on it.
	NoHistory    bool       `json:"no_history,omitempty"`
	Message      string     `json:"message,omitempty"`
	MessageClass ColorClass `json:"message_class,omitempty"`

	Date          string     `json:"date,omitempty"`
	DateClass     ColorClass `json:"date_class,omitempty"`
	TypeLabel     string     `json:"type,omitempty"`
	TypeClass     ColorClass `json:"type_class,omitempty"`
	Rating        string     `json:"rating,omitempty"`
	RatingClass   ColorClass `json:"rating_class,omitempty"`
	Interval      string     `json:"interval,omitempty"`
	IntervalClass ColorClass `json:"interval_class,omitempty"`
}

// NoHistoryLine returns the placeholder line.
func NoHistoryLine() Line {
	return Line{
		NoHistory:    true,
		Message:      NoHistoryText,
		MessageClass: ColorText,
	}
}

// PaddedType is the type label left aligned in 7 columns.
func (l Line) PaddedType() string {
	return fmt.Sprintf("%-7s", l.TypeLabel)
}

// PaddedRating is the rating left aligned in 1 column.
func (l Line) PaddedRating() string {
	return fmt.Sprintf("%-1s", l.Rating)
}

// PaddedInterval is the interval right aligned in 10 columns.
func (l Line) PaddedInterval() string {
	return fmt.Sprintf("%10s", l.Interval)
}

// PlainText renders the line without colors.
func (l Line) PlainText() string {
	if l.NoHistory {
		return l.Message
	}
	return strings.Join([]string{l.Date, l.PaddedType(), l.PaddedRating(), l.PaddedInterval()}, " ")
}

// Formatter formats review log entries. The zero value formats dates in local time.
type Formatter struct {
	Location *time.Location
}

// NewFormatter returns a Formatter that formats dates in the given location.
func NewFormatter(location *time.Location) Formatter {
	return Formatter{Location: location}
}

// Format turns entries, ordered newest first, into at most maxLines lines.
// Values of maxLines below 1 are treated as 1. With newestAtBottom the lines
// are returned oldest first. A card without entries yields the single
// NoHistoryLine. Format never fails: unknown codes are rendered literally.
func (f Formatter) Format(entries []revlog.Entry, maxLines int, newestAtBottom bool) []Line {
	if len(entries) == 0 {
		return []Line{NoHistoryLine()}
	}
	if maxLines < 1 {
		maxLines = 1
	}
	if len(entries) > maxLines {
		entries = entries[:maxLines]
	}

	lines := make([]Line, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, f.line(entry))
	}
	if newestAtBottom {
		slices.Reverse(lines)
	}
	return lines
}

func (f Formatter) line(entry revlog.Entry) Line {
	location := f.Location
	if location == nil {
		location = time.Local
	}
	return Line{
		Date:          entry.ReviewedAt().In(location).Format(dateLayout),
		DateClass:     ColorDate,
		TypeLabel:     entry.Type.String(),
		TypeClass:     TypeClass(entry.Type),
		Rating:        strconv.Itoa(entry.Ease),
		RatingClass:   RatingClass(entry.Ease),
		Interval:      FormatInterval(entry.Interval),
		IntervalClass: ColorText,
	}
}

// TypeClass returns the color of a review type. Learn, cram and unknown
// types share the learn color.
func TypeClass(reviewType revlog.ReviewType) ColorClass {
	switch reviewType {
	case revlog.ReviewTypeRelearn:
		return ColorRelearn
	case revlog.ReviewTypeReview:
		return ColorReview
	}
	return ColorLearn
}

// RatingClass returns the alert color for a failed answer.
func RatingClass(ease int) ColorClass {
	if ease == 1 {
		return ColorAlert
	}
	return ColorText
}

// FormatInterval renders an interval: negative values are seconds, shown in
// minutes from one minute on; positive values are days, shown in years from
// 365 days on.
func FormatInterval(interval int) string {
	switch {
	case interval < 0:
		seconds := -interval
		if seconds >= 60 {
			return fmt.Sprintf("%dm", seconds/60)
		}
		return fmt.Sprintf("%ds", seconds)
	case interval == 0:
		return "0d"
	case interval < 365:
		return fmt.Sprintf("%dd", interval)
	}
	return fmt.Sprintf("%dy", interval/365)
}
