package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/killfeed/internal/killfeed"
	"github.com/at-ishikawa/killfeed/internal/layout"
	"github.com/at-ishikawa/killfeed/internal/theme"
)

var (
	reviewLine = killfeed.Line{
		Date:          "2022-05-28 @ 21:21",
		DateClass:     killfeed.ColorDate,
		TypeLabel:     "Review",
		TypeClass:     killfeed.ColorReview,
		Rating:        "3",
		RatingClass:   killfeed.ColorText,
		Interval:      "4d",
		IntervalClass: killfeed.ColorText,
	}
	relearnLine = killfeed.Line{
		Date:          "2022-05-27 @ 21:21",
		DateClass:     killfeed.ColorDate,
		TypeLabel:     "Relearn",
		TypeClass:     killfeed.ColorRelearn,
		Rating:        "1",
		RatingClass:   killfeed.ColorAlert,
		Interval:      "10m",
		IntervalClass: killfeed.ColorText,
	}
)

func TestSegments(t *testing.T) {
	assert.Equal(t, []Segment{
		{Text: "2022-05-28 @ 21:21", Class: killfeed.ColorDate},
		{Text: "Review ", Class: killfeed.ColorReview},
		{Text: "3", Class: killfeed.ColorText},
		{Text: "        4d", Class: killfeed.ColorText},
	}, Segments(reviewLine))

	assert.Equal(t, []Segment{
		{Text: killfeed.NoHistoryText, Class: killfeed.ColorText},
	}, Segments(killfeed.NoHistoryLine()))
}

func TestTerminal(t *testing.T) {
	var buf bytes.Buffer
	terminal := NewTerminal(&buf)
	content := Content{Lines: []killfeed.Line{killfeed.NoHistoryLine()}, Palette: theme.Light(), FontSize: 12}

	assert.Equal(t, layout.Size{Width: 21, Height: 3}, terminal.Measure(content))
	assert.False(t, terminal.Visible())

	require.NoError(t, terminal.Show(content, layout.Placement{Point: layout.Point{X: 2, Y: 1}}))
	assert.True(t, terminal.Visible())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "", strings.TrimSpace(lines[0]))
	assert.Equal(t, "  ╭───────────────────╮", lines[1])
	assert.Equal(t, "  │ No review history │", lines[2])
	assert.Equal(t, "  ╰───────────────────╯", lines[3])

	require.NoError(t, terminal.Hide())
	assert.False(t, terminal.Visible())
	require.NoError(t, terminal.Close())
}

func TestTerminal_NegativePlacementIsClamped(t *testing.T) {
	var buf bytes.Buffer
	terminal := NewTerminal(&buf)
	content := Content{Lines: []killfeed.Line{reviewLine, relearnLine}, Palette: theme.Dark()}

	require.NoError(t, terminal.Show(content, layout.Placement{Point: layout.Point{X: -5, Y: -1}}))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "│ 2022-05-28 @ 21:21 Review  3         4d │", lines[1])
	assert.Equal(t, "│ 2022-05-27 @ 21:21 Relearn 1        10m │", lines[2])
}

func TestHTML_Show(t *testing.T) {
	t.Run("corner placement", func(t *testing.T) {
		var buf bytes.Buffer
		content := Content{Lines: []killfeed.Line{reviewLine, relearnLine}, Palette: theme.Light(), FontSize: 12}
		require.NoError(t, NewHTML(&buf).Show(content, layout.Placement{Point: layout.Point{X: 990, Y: 70}}))

		got := buf.String()
		assert.Contains(t, got, `left: 990px; top: 70px;`)
		assert.Contains(t, got, `background-color: rgba(255, 255, 255, 0.85); color: #000000; border: 1px solid rgba(221, 221, 221, 0.8); border-radius: 8px; padding: 8px 12px; font-family: monospace; font-size: 12px;`)
		assert.Contains(t, got,
			`<span><span style="color: #555555">2022-05-28 @ 21:21</span> <span style="color: #00aa00">Review </span> <span style="color: #000000">3</span> <span style="color: #000000">        4d</span></span><br><span><span style="color: #555555">2022-05-27 @ 21:21</span> <span style="color: #cc3333">Relearn</span> <span style="color: #cc3333">1</span>`)
		assert.True(t, strings.HasSuffix(got, "</span></div>\n<style id=\"killfeed-margin\"></style>\n"), got)
		assert.NotContains(t, got, "margin-top")
	})

	t.Run("small window pushes the card down", func(t *testing.T) {
		var buf bytes.Buffer
		content := Content{Lines: []killfeed.Line{killfeed.NoHistoryLine()}, Palette: theme.Dark(), FontSize: 14}
		placement := layout.Placement{Point: layout.Point{X: 300, Y: 70}, Small: true, ContentMarginTop: 58}
		require.NoError(t, NewHTML(&buf).Show(content, placement))

		got := buf.String()
		assert.Contains(t, got, `<span><span style="color: #ffffff">No review history</span></span></div>`)
		assert.Contains(t, got, `<style id="killfeed-margin">#qa { margin-top: 58px !important; }</style>`)
		assert.Contains(t, got, `font-size: 14px;`)
	})

	t.Run("text is escaped", func(t *testing.T) {
		var buf bytes.Buffer
		line := killfeed.NoHistoryLine()
		line.Message = "<b>x</b>"
		require.NoError(t, NewHTML(&buf).Show(Content{Lines: []killfeed.Line{line}, Palette: theme.Light(), FontSize: 12}, layout.Placement{}))
		assert.Contains(t, buf.String(), "&lt;b&gt;x&lt;/b&gt;")
	})
}

func TestHTML_Measure(t *testing.T) {
	html := NewHTML(&bytes.Buffer{})
	// 39 glyphs of 7.2px and two lines of 15px, plus padding and border.
	got := html.Measure(Content{Lines: []killfeed.Line{reviewLine, relearnLine}, FontSize: 12})
	assert.Equal(t, layout.Size{Width: 281 + 26, Height: 30 + 18}, got)
}

func TestHTML_Hide(t *testing.T) {
	var buf bytes.Buffer
	html := NewHTML(&buf)
	require.NoError(t, html.Hide())
	assert.Equal(t, "<div id=\"killfeed\" style=\"display: none;\"></div>\n<style id=\"killfeed-margin\"></style>\n", buf.String())
	assert.NoError(t, html.Close())
}
