package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/at-ishikawa/killfeed/internal/config"
	"github.com/at-ishikawa/killfeed/internal/hooks"
	"github.com/at-ishikawa/killfeed/internal/killfeed"
	"github.com/at-ishikawa/killfeed/internal/layout"
	"github.com/at-ishikawa/killfeed/internal/overlay"
	"github.com/at-ishikawa/killfeed/internal/preferences"
	"github.com/at-ishikawa/killfeed/internal/render"
)

const (
	defaultColumns = 80
	defaultRows    = 24
)

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <card-id>",
		Short: "Show the history panel of a card in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cardID, err := parseCardID(args[0])
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, closeStore, err := openHistoryStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = closeStore()
			}()

			width, height := terminalSize(os.Stdout)
			geometry := layout.StaticGeometry(layout.Geometry{
				Window: layout.Rect{Width: width, Height: height},
				Screen: layout.Size{Width: screenWidth(cfg.Display, width), Height: height},
			})
			out := cmd.OutOrStdout()
			killfeedOverlay := newOverlay(cfg, store, geometry, margins(cfg.Display.CellMargins),
				func() (overlay.Surface, error) {
					return render.NewTerminal(out), nil
				},
			)

			registry := hooks.NewRegistry()
			killfeedOverlay.Register(registry)
			if err := registry.Fire(ctx, hooks.QuestionShown, &hooks.Card{ID: cardID}); err != nil {
				return fmt.Errorf("registry.Fire() > %w", err)
			}
			return registry.Fire(ctx, hooks.ProfileWillClose, nil)
		},
	}
}

// newOverlay wires an overlay to the configured preferences and theme.
func newOverlay(
	cfg *config.Config,
	store historyStore,
	geometry layout.GeometryProvider,
	margins layout.Margins,
	newSurface overlay.SurfaceFactory,
) *overlay.Overlay {
	return overlay.New(overlay.Options{
		AddonID:     cfg.Preferences.AddonID,
		Repository:  store,
		Preferences: preferences.NewFileStore(cfg.Preferences.Directory),
		Formatter:   killfeed.NewFormatter(time.Local),
		Theme:       themeProvider(cfg.Display),
		FontScale:   fontScale(cfg.Display),
		Geometry:    geometry,
		Margins:     margins,
		NewSurface:  newSurface,
	})
}

// terminalSize returns the size of w when it is a terminal.
func terminalSize(w io.Writer) (int, int) {
	file, ok := w.(*os.File)
	if !ok {
		return defaultColumns, defaultRows
	}
	width, height, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 || height <= 0 {
		return defaultColumns, defaultRows
	}
	return width, height
}
