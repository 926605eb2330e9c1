// Package overlay shows the history panel of the card under review and follows
// the lifecycle events of the host.
package overlay

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/at-ishikawa/killfeed/internal/hooks"
	"github.com/at-ishikawa/killfeed/internal/killfeed"
	"github.com/at-ishikawa/killfeed/internal/layout"
	"github.com/at-ishikawa/killfeed/internal/preferences"
	"github.com/at-ishikawa/killfeed/internal/render"
	"github.com/at-ishikawa/killfeed/internal/revlog"
	"github.com/at-ishikawa/killfeed/internal/theme"
)

type Options struct {
	AddonID     string
	Repository  revlog.Repository
	Preferences preferences.Store
	Formatter   killfeed.Formatter
	Theme       theme.Provider
	FontScale   theme.FontScale
	Geometry    layout.GeometryProvider
	Margins     layout.Margins
	NewSurface  SurfaceFactory
}

// Overlay owns the one surface of the panel. The surface is created on the
// first card, reused for every later card and dropped when the profile closes.
type Overlay struct {
	options Options

	mu      sync.Mutex
	surface Surface
}

func New(options Options) *Overlay {
	return &Overlay{options: options}
}

// Register subscribes the overlay to the host events.
func (o *Overlay) Register(registry *hooks.Registry) {
	registry.Append(hooks.QuestionShown, o.ShowCard)
	registry.Append(hooks.AnswerShown, o.ShowCard)
	registry.Append(hooks.ReviewerWillEnd, func(ctx context.Context, _ *hooks.Card) error {
		return o.Hide(ctx)
	})
	registry.Append(hooks.ProfileWillClose, func(ctx context.Context, _ *hooks.Card) error {
		return o.Close(ctx)
	})
}

// ShowCard draws the history of card. A nil card hides the panel.
func (o *Overlay) ShowCard(ctx context.Context, card *hooks.Card) error {
	if card == nil {
		return o.Hide(ctx)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	surface, err := o.ensureSurface()
	if err != nil {
		return err
	}

	prefs, err := preferences.Load(o.options.Preferences, o.options.AddonID)
	if err != nil {
		slog.WarnContext(ctx, "using default preferences", "addon_id", o.options.AddonID, "error", err)
	}

	geometry := o.options.Geometry.Geometry()
	small := layout.IsSmall(geometry.Window, geometry.Screen, o.options.Margins.SmallWindowRatio)
	maxLines := prefs.MaxLines
	if small {
		maxLines = 1
	}

	entries, err := o.options.Repository.FindLatestByCard(ctx, card.ID, maxLines)
	if err != nil {
		return fmt.Errorf("repository.FindLatestByCard(%d) > %w", card.ID, err)
	}
	lines := o.options.Formatter.Format(entries, maxLines, prefs.NewestAtBottom)

	content := render.Content{
		Lines:    lines,
		Palette:  theme.For(o.options.Theme.NightMode()),
		FontSize: o.options.FontScale.Size(o.options.Theme.Zoom()),
	}
	placement := layout.Place(geometry, surface.Measure(content), prefs.Corner, o.options.Margins)
	slog.DebugContext(ctx, "showing card history",
		"card_id", card.ID,
		"lines", len(lines),
		"small", placement.Small,
		"x", placement.X,
		"y", placement.Y,
	)

	if err := surface.Show(content, placement); err != nil {
		return fmt.Errorf("surface.Show() > %w", err)
	}
	return nil
}

// Hide hides the panel when the review ends. The surface is kept.
func (o *Overlay) Hide(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.surface == nil {
		return nil
	}
	slog.DebugContext(ctx, "hiding card history")
	if err := o.surface.Hide(); err != nil {
		return fmt.Errorf("surface.Hide() > %w", err)
	}
	return nil
}

// Close tears the surface down. The next card creates a new one.
func (o *Overlay) Close(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.surface == nil {
		return nil
	}
	surface := o.surface
	o.surface = nil
	slog.DebugContext(ctx, "closing card history surface")
	if err := surface.Close(); err != nil {
		return fmt.Errorf("surface.Close() > %w", err)
	}
	return nil
}

func (o *Overlay) ensureSurface() (Surface, error) {
	if o.surface != nil {
		return o.surface, nil
	}
	surface, err := o.options.NewSurface()
	if err != nil {
		return nil, fmt.Errorf("newSurface() > %w", err)
	}
	o.surface = surface
	return surface, nil
}
