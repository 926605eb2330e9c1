package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/at-ishikawa/killfeed/internal/ankiconnect"
	"github.com/at-ishikawa/killfeed/internal/config"
	"github.com/at-ishikawa/killfeed/internal/database"
	"github.com/at-ishikawa/killfeed/internal/layout"
	"github.com/at-ishikawa/killfeed/internal/revlog"
	"github.com/at-ishikawa/killfeed/internal/theme"
)

// historyStore is a review log the commands read the history from.
type historyStore interface {
	revlog.Repository
	revlog.Counter
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if addonID != "" {
		cfg.Preferences.AddonID = addonID
	}
	return cfg, nil
}

// openHistoryStore opens the review log of the configured store driver.
// The returned function releases the store.
func openHistoryStore(ctx context.Context, cfg *config.Config) (historyStore, func() error, error) {
	switch cfg.Store.Driver {
	case config.DriverSQLite, config.DriverMySQL:
		db, err := database.Open(cfg.Store, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("database.Open() > %w", err)
		}
		if err := database.Ping(ctx, db, cfg.Database.PingAttempts); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("database.Ping() > %w", err)
		}
		return revlog.NewDBRepository(db), db.Close, nil

	case config.DriverYAML:
		if cfg.Store.Path == "" {
			return nil, nil, fmt.Errorf("store.path is required for the yaml driver")
		}
		return revlog.NewYAMLRepository(cfg.Store.Path), func() error { return nil }, nil

	case config.DriverAnkiConnect:
		client := newAnkiConnectClient(cfg.AnkiConnect)
		return ankiconnect.NewRepository(client), client.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// openWatchStore reads history through the watch client when no store file is
// configured for a file-based driver.
func openWatchStore(ctx context.Context, cfg *config.Config, client *ankiconnect.Client) (historyStore, func() error, error) {
	switch cfg.Store.Driver {
	case config.DriverSQLite, config.DriverYAML:
		if cfg.Store.Path == "" {
			slog.InfoContext(ctx, "no store.path configured, reading history from AnkiConnect", "driver", cfg.Store.Driver)
			return ankiconnect.NewRepository(client), func() error { return nil }, nil
		}
	case config.DriverAnkiConnect:
		return ankiconnect.NewRepository(client), func() error { return nil }, nil
	}
	return openHistoryStore(ctx, cfg)
}

func newAnkiConnectClient(cfg config.AnkiConnectConfig) *ankiconnect.Client {
	return ankiconnect.NewClient(cfg.URL, cfg.Key, cfg.RetryAttempts)
}

// themeProvider resolves the configured theme once. auto follows the
// background of the terminal.
func themeProvider(cfg config.DisplayConfig) theme.Static {
	night := false
	switch cfg.Theme {
	case "dark":
		night = true
	case "auto":
		night = lipgloss.HasDarkBackground()
	}
	slog.Debug("resolved theme", "theme", cfg.Theme, "night", night, "zoom", cfg.Zoom)
	return theme.Static{Night: night, ZoomFactor: cfg.Zoom}
}

func fontScale(cfg config.DisplayConfig) theme.FontScale {
	return theme.FontScale{Base: cfg.BaseFontSize, Damping: cfg.ZoomDamping}
}

func margins(cfg config.MarginsConfig) layout.Margins {
	return layout.Margins{
		Side:             cfg.Side,
		Top:              cfg.Top,
		Bottom:           cfg.Bottom,
		ContentGap:       cfg.ContentGap,
		SmallWindowRatio: cfg.SmallWindowRatio,
	}
}

// screenWidth is the configured screen width, or the window width when unset.
func screenWidth(cfg config.DisplayConfig, windowWidth int) int {
	if cfg.ScreenColumns > 0 {
		return cfg.ScreenColumns
	}
	return windowWidth
}

func parseCardID(arg string) (int64, error) {
	cardID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || cardID <= 0 {
		return 0, fmt.Errorf("invalid card id %q: must be a positive integer", arg)
	}
	return cardID, nil
}
