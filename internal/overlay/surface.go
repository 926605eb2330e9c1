package overlay

import (
	"github.com/at-ishikawa/killfeed/internal/layout"
	"github.com/at-ishikawa/killfeed/internal/render"
)

//go:generate mockgen -source=surface.go -destination=../mocks/overlay/mock_surface.go -package=mock_overlay Surface

// Surface is where the panel is drawn.
type Surface interface {
	// Measure returns the size the content takes once drawn.
	Measure(content render.Content) layout.Size
	// Show draws the content at the placement, replacing what was shown before.
	Show(content render.Content, placement layout.Placement) error
	Hide() error
	Close() error
}

// SurfaceFactory creates the surface on the first card.
type SurfaceFactory func() (Surface, error)
