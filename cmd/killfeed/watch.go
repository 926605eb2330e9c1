package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/killfeed/internal/ankiconnect"
	"github.com/at-ishikawa/killfeed/internal/bootstrap"
	"github.com/at-ishikawa/killfeed/internal/hooks"
	"github.com/at-ishikawa/killfeed/internal/overlay"
	"github.com/at-ishikawa/killfeed/internal/ui"
)

func newWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow the review running in Anki through AnkiConnect",
		Long: `Follow the review running in Anki through AnkiConnect.

History is read from the configured store. When the sqlite or yaml driver has
no store.path, history is read through AnkiConnect instead.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			app := bootstrap.New()
			return app.Run(cmd.Context(), func(ctx context.Context) error {
				client := newAnkiConnectClient(cfg.AnkiConnect)
				app.AddShutdownHook("ankiconnect", func(ctx context.Context) error {
					return client.Close()
				})
				version, err := client.Version(ctx)
				if err != nil {
					return fmt.Errorf("client.Version() > %w", err)
				}
				slog.DebugContext(ctx, "connected to AnkiConnect", "url", cfg.AnkiConnect.URL, "version", version)

				store, closeStore, err := openWatchStore(ctx, cfg, client)
				if err != nil {
					return err
				}
				app.AddShutdownHook("store", func(ctx context.Context) error {
					return closeStore()
				})

				registry := hooks.NewRegistry()
				model := ui.New(ctx, lipgloss.NewRenderer(os.Stdout), ui.Options{
					Poller:        ankiconnect.NewWatcher(client),
					Answerer:      client,
					Registry:      registry,
					Interval:      cfg.AnkiConnect.PollInterval,
					ScreenColumns: cfg.Display.ScreenColumns,
				})
				killfeedOverlay := newOverlay(cfg, store, model, margins(cfg.Display.CellMargins),
					func() (overlay.Surface, error) {
						return model, nil
					},
				)
				killfeedOverlay.Register(registry)
				app.AddShutdownHook("overlay", killfeedOverlay.Close)

				program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
				if _, err := program.Run(); err != nil {
					if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
						return nil
					}
					return fmt.Errorf("program.Run() > %w", err)
				}
				return nil
			})
		},
	}
}
