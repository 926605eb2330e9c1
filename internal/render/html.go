package render

import (
	"fmt"
	"html/template"
	"io"

	"github.com/at-ishikawa/killfeed/internal/layout"
)

// Panel box model in pixels.
const (
	htmlPaddingX = 12
	htmlPaddingY = 8
	htmlBorder   = 1
)

var htmlTemplate = template.Must(template.New("killfeed").Parse(
	`<div id="killfeed" style="position: fixed; left: {{.X}}px; top: {{.Y}}px; z-index: 1000; background-color: {{.Background}}; color: {{.Text}}; border: 1px solid {{.Border}}; border-radius: 8px; padding: 8px 12px; font-family: monospace; font-size: {{.FontSize}}px; white-space: pre;">
{{- range $i, $line := .Lines -}}
{{if $i}}<br>{{end -}}
<span>
{{- range $j, $segment := $line}}{{if $j}} {{end}}<span style="color: {{$segment.Color}}">{{$segment.Text}}</span>{{end -}}
</span>
{{- end -}}
</div>
{{if .Small}}<style id="killfeed-margin">#qa { margin-top: {{.ContentMarginTop}}px !important; }</style>
{{else}}`+clearMarginStyle+`
{{end}}`))

// clearMarginStyle replaces the small window margin with an empty rule set.
const clearMarginStyle = `<style id="killfeed-margin"></style>`

type htmlSegment struct {
	Text  string
	Color template.CSS
}

type htmlView struct {
	layout.Placement
	Background template.CSS
	Text       template.CSS
	Border     template.CSS
	FontSize   int
	Lines      [][]htmlSegment
}

// HTML writes the panel as an HTML fragment for the host's web view.
// In a small window it also writes the style that pushes the card down,
// otherwise it writes that style empty.
type HTML struct {
	writer io.Writer
}

func NewHTML(w io.Writer) *HTML {
	return &HTML{writer: w}
}

// Measure estimates the panel size from monospace font metrics:
// a glyph is 0.6em wide and a line 1.2em high.
func (h *HTML) Measure(content Content) layout.Size {
	fontSize := max(content.FontSize, 1)
	lineHeight := (fontSize*12 + 9) / 10
	return layout.Size{
		Width:  (maxWidth(content.Lines)*fontSize*6+9)/10 + 2*(htmlPaddingX+htmlBorder),
		Height: len(content.Lines)*lineHeight + 2*(htmlPaddingY+htmlBorder),
	}
}

func (h *HTML) Show(content Content, placement layout.Placement) error {
	view := htmlView{
		Placement:  placement,
		Background: template.CSS(content.Palette.Background),
		Text:       template.CSS(content.Palette.Text),
		Border:     template.CSS(content.Palette.Border),
		FontSize:   content.FontSize,
		Lines:      make([][]htmlSegment, 0, len(content.Lines)),
	}
	for _, line := range content.Lines {
		var segments []htmlSegment
		for _, segment := range Segments(line) {
			segments = append(segments, htmlSegment{
				Text:  segment.Text,
				Color: template.CSS(content.Palette.Color(segment.Class)),
			})
		}
		view.Lines = append(view.Lines, segments)
	}

	if err := htmlTemplate.Execute(h.writer, view); err != nil {
		return fmt.Errorf("htmlTemplate.Execute() > %w", err)
	}
	return nil
}

func (h *HTML) Hide() error {
	if _, err := io.WriteString(h.writer, `<div id="killfeed" style="display: none;"></div>`+"\n"+clearMarginStyle+"\n"); err != nil {
		return fmt.Errorf("io.WriteString() > %w", err)
	}
	return nil
}

func (h *HTML) Close() error {
	return nil
}
