package assets

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"text/template"

	"github.com/at-ishikawa/killfeed/internal/killfeed"
	"github.com/at-ishikawa/killfeed/internal/render"
)

//go:embed templates/history.md.go.tmpl
var fallbackHistoryTemplate string

const fallbackHistoryTemplateName = "history.md.go.tmpl"

// ParseHistoryTemplate parses the Markdown template of a card history.
// The embedded template is used when templatePath is empty or cannot be parsed.
func ParseHistoryTemplate(templatePath string) (*template.Template, error) {
	return parseTemplateWithFallback(templatePath, fallbackHistoryTemplateName, fallbackHistoryTemplate)
}

// WriteHistory renders the history of a card as Markdown.
func WriteHistory(output io.Writer, templatePath string, export render.Export) error {
	tmpl, err := ParseHistoryTemplate(templatePath)
	if err != nil {
		return fmt.Errorf("ParseHistoryTemplate() > %w", err)
	}
	if err := tmpl.Execute(output, export); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}

func parseTemplateWithFallback(templatePath, fallbackName, fallbackTemplate string) (*template.Template, error) {
	funcMap := template.FuncMap{
		"noHistory": func(lines []killfeed.Line) bool {
			return len(lines) == 1 && lines[0].NoHistory
		},
		"percent": func(ratio float64) string {
			return fmt.Sprintf("%.1f%%", ratio*100)
		},
	}

	// First, try to read from the filesystem
	if templatePath != "" {
		if _, err := os.Stat(templatePath); err == nil {
			fileName := filepath.Base(templatePath)
			tmpl, err := template.New(fileName).
				Funcs(funcMap).
				ParseFiles(templatePath)
			if err == nil {
				return tmpl, nil
			}
			slog.Default().Warn("failed to parse a templatePath",
				slog.String("templatePath", templatePath),
				slog.Any("error", err),
			)
		} else {
			slog.Default().Warn("template not found, using the embedded one",
				slog.String("templatePath", templatePath),
			)
		}
	}

	// Fall back to embedded assets
	tmpl, err := template.New(fallbackName).
		Funcs(funcMap).
		Parse(fallbackTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}
	return tmpl, nil
}
