package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/killfeed/internal/assets"
	"github.com/at-ishikawa/killfeed/internal/hooks"
	"github.com/at-ishikawa/killfeed/internal/killfeed"
	"github.com/at-ishikawa/killfeed/internal/layout"
	"github.com/at-ishikawa/killfeed/internal/overlay"
	"github.com/at-ishikawa/killfeed/internal/pdf"
	"github.com/at-ishikawa/killfeed/internal/preferences"
	"github.com/at-ishikawa/killfeed/internal/render"
	"github.com/at-ishikawa/killfeed/internal/statistics"
)

// Export formats.
const (
	formatTable    = "table"
	formatJSON     = "json"
	formatHTML     = "html"
	formatMarkdown = "markdown"
	formatPDF      = "pdf"
)

var exportFormats = []string{formatTable, formatJSON, formatHTML, formatMarkdown, formatPDF}

type exportOptions struct {
	format       string
	output       string
	template     string
	limit        int
	year         int
	month        int
	windowX      int
	windowY      int
	windowWidth  int
	windowHeight int
	screenWidth  int
	screenHeight int
}

func newExportCommand() *cobra.Command {
	var options exportOptions
	command := &cobra.Command{
		Use:   "export <card-id>",
		Short: "Export the history of a card",
		Long: "Export the history of a card as a table, JSON, Markdown, a PDF or the HTML panel of the review screen.\n" +
			"The html format places the panel in a window of the given geometry in pixels.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cardID, err := parseCardID(args[0])
			if err != nil {
				return err
			}
			if !isExportFormat(options.format) {
				return fmt.Errorf("invalid format %q: must be one of %v", options.format, exportFormats)
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

			if options.format == formatHTML {
				return withOutput(cmd.OutOrStdout(), options.output, func(w io.Writer) error {
					geometry := layout.StaticGeometry(layout.Geometry{
						Window: layout.Rect{
							X:      options.windowX,
							Y:      options.windowY,
							Width:  options.windowWidth,
							Height: options.windowHeight,
						},
						Screen: layout.Size{Width: options.screenWidth, Height: options.screenHeight},
					})
					htmlOverlay := newOverlay(cfg, store, geometry, margins(cfg.Display.PixelMargins),
						func() (overlay.Surface, error) {
							return render.NewHTML(w), nil
						},
					)
					return htmlOverlay.ShowCard(ctx, &hooks.Card{ID: cardID})
				})
			}

			prefs, err := preferences.Load(preferences.NewFileStore(cfg.Preferences.Directory), cfg.Preferences.AddonID)
			if err != nil {
				slog.WarnContext(ctx, "using default preferences", "addon_id", cfg.Preferences.AddonID, "error", err)
			}
			limit := options.limit
			if limit <= 0 {
				limit = prefs.MaxLines
			}
			entries, err := store.FindLatestByCard(ctx, cardID, limit)
			if err != nil {
				return fmt.Errorf("store.FindLatestByCard(%d) > %w", cardID, err)
			}
			total, err := store.CountByCard(ctx, cardID)
			if err != nil {
				return fmt.Errorf("store.CountByCard(%d) > %w", cardID, err)
			}
			export := render.Export{
				CardID: cardID,
				Total:  total,
				Lines:  killfeed.NewFormatter(time.Local).Format(entries, limit, prefs.NewestAtBottom),
			}
			if total > 0 {
				all, err := store.FindLatestByCard(ctx, cardID, total)
				if err != nil {
					return fmt.Errorf("store.FindLatestByCard(%d) > %w", cardID, err)
				}
				result := statistics.CalculateStatistics(all, time.Local, options.year, options.month)
				export.Statistics = &result
			}

			switch options.format {
			case formatJSON:
				return withOutput(cmd.OutOrStdout(), options.output, func(w io.Writer) error {
					return render.WriteJSON(w, export)
				})
			case formatMarkdown:
				return withOutput(cmd.OutOrStdout(), options.output, func(w io.Writer) error {
					return assets.WriteHistory(w, options.template, export)
				})
			case formatPDF:
				output := options.output
				if output == "" {
					output = fmt.Sprintf("card-%d.pdf", cardID)
				}
				var markdown bytes.Buffer
				if err := assets.WriteHistory(&markdown, options.template, export); err != nil {
					return fmt.Errorf("assets.WriteHistory() > %w", err)
				}
				path, err := pdf.WriteMarkdown(markdown.Bytes(), output)
				if err != nil {
					return fmt.Errorf("pdf.WriteMarkdown() > %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "PDF written to %s\n", path)
				return nil
			default:
				return withOutput(cmd.OutOrStdout(), options.output, func(w io.Writer) error {
					return render.WriteTable(w, export)
				})
			}
		},
	}

	flags := command.Flags()
	flags.StringVar(&options.format, "format", formatTable, fmt.Sprintf("output format. Possible values are %v", exportFormats))
	flags.StringVarP(&options.output, "output", "o", "", "output file path. stdout when empty")
	flags.StringVar(&options.template, "template", "", "Markdown template for the markdown and pdf formats. The embedded one when empty")
	flags.IntVar(&options.limit, "limit", 0, "maximum number of reviews. The max_lines preference when 0")
	flags.IntVar(&options.year, "year", 0, "only count reviews of this year in the statistics")
	flags.IntVar(&options.month, "month", 0, "only count reviews of this month in the statistics, with --year")
	flags.IntVar(&options.windowX, "window-x", 0, "window left edge in pixels for the html format")
	flags.IntVar(&options.windowY, "window-y", 0, "window top edge in pixels for the html format")
	flags.IntVar(&options.windowWidth, "window-width", 1200, "window width in pixels for the html format")
	flags.IntVar(&options.windowHeight, "window-height", 800, "window height in pixels for the html format")
	flags.IntVar(&options.screenWidth, "screen-width", 1920, "screen width in pixels for the html format")
	flags.IntVar(&options.screenHeight, "screen-height", 1080, "screen height in pixels for the html format")
	return command
}

func isExportFormat(format string) bool {
	for _, f := range exportFormats {
		if f == format {
			return true
		}
	}
	return false
}

// withOutput calls write with the output file, or with stdout when path is empty.
func withOutput(stdout io.Writer, path string, write func(w io.Writer) error) (err error) {
	if path == "" {
		return write(stdout)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("os.Create(%s) > %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("file.Close() > %w", closeErr)
		}
	}()
	return write(file)
}
