// Package render draws the history panel on the available surfaces.
package render

import (
	"github.com/at-ishikawa/killfeed/internal/killfeed"
	"github.com/at-ishikawa/killfeed/internal/theme"
)

// Content is what a surface draws.
type Content struct {
	Lines    []killfeed.Line
	Palette  theme.Palette
	FontSize int
}

// Segment is a colored piece of a line.
type Segment struct {
	Text  string
	Class killfeed.ColorClass
}

// Segments splits a line into its colored pieces, padded to the panel columns.
// Surfaces join them with a single space.
func Segments(line killfeed.Line) []Segment {
	if line.NoHistory {
		return []Segment{{Text: line.Message, Class: line.MessageClass}}
	}
	return []Segment{
		{Text: line.Date, Class: line.DateClass},
		{Text: line.PaddedType(), Class: line.TypeClass},
		{Text: line.PaddedRating(), Class: line.RatingClass},
		{Text: line.PaddedInterval(), Class: line.IntervalClass},
	}
}

// maxWidth is the widest line in runes.
func maxWidth(lines []killfeed.Line) int {
	width := 0
	for _, line := range lines {
		width = max(width, len([]rune(line.PlainText())))
	}
	return width
}
