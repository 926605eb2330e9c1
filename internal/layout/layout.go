// Package layout computes where the history panel goes inside the host window.
// Units are whatever the surface uses: pixels for HTML, cells for terminals.
package layout

// Point is a position.
type Point struct {
	X int
	Y int
}

// Size is a width and a height.
type Size struct {
	Width  int
	Height int
}

// Rect is a positioned size.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Geometry is the host window and the screen it is shown on.
type Geometry struct {
	Window Rect
	Screen Size
}

// GeometryProvider reports the current geometry. It is asked again on every card.
type GeometryProvider interface {
	Geometry() Geometry
}

// StaticGeometry is a GeometryProvider with a fixed geometry.
type StaticGeometry Geometry

func (g StaticGeometry) Geometry() Geometry {
	return Geometry(g)
}

// Corner is the anchor of the panel when the window is large enough.
type Corner string

const (
	CornerTopLeft     Corner = "top-left"
	CornerTopRight    Corner = "top-right"
	CornerBottomLeft  Corner = "bottom-left"
	CornerBottomRight Corner = "bottom-right"
)

// Corners lists the corners in the order the configuration form offers them.
func Corners() []Corner {
	return []Corner{CornerTopLeft, CornerTopRight, CornerBottomLeft, CornerBottomRight}
}

// ParseCorner returns the corner named s, or false when s names none.
func ParseCorner(s string) (Corner, bool) {
	for _, corner := range Corners() {
		if string(corner) == s {
			return corner, true
		}
	}
	return "", false
}

// Margins are the distances kept from the window edges.
type Margins struct {
	// Side is kept from the left or right edge.
	Side int
	// Top is kept from the top edge, below the host toolbar.
	Top int
	// Bottom is kept from the bottom edge, above the host answer buttons.
	Bottom int
	// ContentGap separates the panel from the card pushed below it in small mode.
	ContentGap int
	// SmallWindowRatio is the share of the screen width at or below which
	// the window counts as small.
	SmallWindowRatio float64
}

// DefaultMargins are the pixel margins of the host review screen.
func DefaultMargins() Margins {
	return Margins{
		Side:             10,
		Top:              70,
		Bottom:           50,
		ContentGap:       10,
		SmallWindowRatio: 0.5,
	}
}

// IsSmall reports whether the window takes ratio or less of the screen width.
// A screen without width never makes a window small.
func IsSmall(window Rect, screen Size, ratio float64) bool {
	if screen.Width <= 0 {
		return false
	}
	return float64(window.Width) <= float64(screen.Width)*ratio
}

// Placement is the computed position of the panel.
type Placement struct {
	Point
	// Small is set when the window is small and the panel is centered.
	Small bool
	// ContentMarginTop is how far the card content must move down so the
	// centered panel does not cover it. It is zero unless Small.
	ContentMarginTop int
}

// Place positions a panel of the given size. In a small window it is centered
// horizontally below the toolbar; otherwise it sits in the corner.
func Place(geometry Geometry, panel Size, corner Corner, margins Margins) Placement {
	window := geometry.Window
	if IsSmall(window, geometry.Screen, margins.SmallWindowRatio) {
		return Placement{
			Point: Point{
				X: window.X + floorDiv(window.Width-panel.Width, 2),
				Y: window.Y + margins.Top,
			},
			Small:            true,
			ContentMarginTop: panel.Height + margins.ContentGap,
		}
	}

	left := window.X + margins.Side
	right := window.X + window.Width - panel.Width - margins.Side
	top := window.Y + margins.Top
	bottom := window.Y + window.Height - panel.Height - margins.Bottom

	switch corner {
	case CornerTopLeft:
		return Placement{Point: Point{X: left, Y: top}}
	case CornerTopRight:
		return Placement{Point: Point{X: right, Y: top}}
	case CornerBottomLeft:
		return Placement{Point: Point{X: left, Y: bottom}}
	}
	return Placement{Point: Point{X: right, Y: bottom}}
}

// floorDiv rounds toward negative infinity, so a panel wider than the window
// is shifted consistently to the left.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
