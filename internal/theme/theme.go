// Package theme holds the colors and font scaling of the history panel.
package theme

import "github.com/at-ishikawa/killfeed/internal/killfeed"

// Palette is the set of colors of one host theme, as CSS color values.
type Palette struct {
	Background string
	Text       string
	Border     string
	Relearn    string
	Review     string
	Learn      string
	Date       string
}

// Light is the palette of the host's light theme.
func Light() Palette {
	return Palette{
		Background: "rgba(255, 255, 255, 0.85)",
		Text:       "#000000",
		Border:     "rgba(221, 221, 221, 0.8)",
		Relearn:    "#cc3333",
		Review:     "#00aa00",
		Learn:      "#0000aa",
		Date:       "#555555",
	}
}

// Dark is the palette of the host's night mode.
func Dark() Palette {
	return Palette{
		Background: "rgba(39, 40, 40, 0.85)",
		Text:       "#ffffff",
		Border:     "rgba(58, 58, 58, 0.8)",
		Relearn:    "#ff8589",
		Review:     "#7cb342",
		Learn:      "#2196f3",
		Date:       "#bbbbbb",
	}
}

// For returns the palette of the current theme.
func For(nightMode bool) Palette {
	if nightMode {
		return Dark()
	}
	return Light()
}

// Color resolves a semantic color. A failed rating shares the relearn red.
func (p Palette) Color(class killfeed.ColorClass) string {
	switch class {
	case killfeed.ColorRelearn, killfeed.ColorAlert:
		return p.Relearn
	case killfeed.ColorReview:
		return p.Review
	case killfeed.ColorLearn:
		return p.Learn
	case killfeed.ColorDate:
		return p.Date
	}
	return p.Text
}

// FontScale derives the panel font size from the host zoom factor.
// Only Damping of the zoom change is applied, so the panel grows slower than the card.
type FontScale struct {
	Base    int
	Damping float64
}

// DefaultFontScale is 12px with 40% of the zoom applied.
func DefaultFontScale() FontScale {
	return FontScale{Base: 12, Damping: 0.4}
}

// Size returns the font size in pixels for a zoom factor.
func (s FontScale) Size(zoom float64) int {
	if zoom <= 0 {
		zoom = 1
	}
	return int(float64(s.Base) * (1 + (zoom-1)*s.Damping))
}

// Provider reports the current host theme. It is asked again on every card.
type Provider interface {
	NightMode() bool
	Zoom() float64
}

// Static is a Provider with fixed values.
type Static struct {
	Night      bool
	ZoomFactor float64
}

func (s Static) NightMode() bool {
	return s.Night
}

func (s Static) Zoom() float64 {
	if s.ZoomFactor <= 0 {
		return 1
	}
	return s.ZoomFactor
}
