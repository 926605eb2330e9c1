// Package configdialog is the interactive form that edits the panel preferences.
package configdialog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/at-ishikawa/killfeed/internal/layout"
	"github.com/at-ishikawa/killfeed/internal/preferences"
)

const (
	PositionInfo     = "Position applies when window is larger than 50% of screen width"
	MaxLinesInfo     = "When window is 50% or less of screen width, only 1 line is shown"
	SavedMessage     = "Configuration saved! Changes will apply to the next card."
	CancelledMessage = "Configuration discarded."
)

// errCancelled is returned by a prompt when the input ends.
var errCancelled = errors.New("cancelled")

type Dialog struct {
	store   preferences.Store
	addonID string

	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	faint        *color.Color
	red          *color.Color
	green        *color.Color
}

func New(store preferences.Store, addonID string, stdin io.Reader, stdout io.Writer) *Dialog {
	return &Dialog{
		store:        store,
		addonID:      addonID,
		stdinReader:  bufio.NewReader(stdin),
		stdoutWriter: stdout,
		bold:         color.New(color.Bold),
		faint:        color.New(color.Faint),
		red:          color.New(color.FgRed),
		green:        color.New(color.FgGreen),
	}
}

// Run asks for every setting and saves them when the user confirms.
// It reports whether the preferences were saved.
func (d *Dialog) Run(ctx context.Context) (bool, error) {
	current, err := preferences.Load(d.store, d.addonID)
	if err != nil {
		slog.WarnContext(ctx, "editing default preferences", "addon_id", d.addonID, "error", err)
	}

	edited, err := d.edit(current)
	if errors.Is(err, errCancelled) {
		_, _ = fmt.Fprintln(d.stdoutWriter, CancelledMessage)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := preferences.Save(d.store, d.addonID, edited); err != nil {
		return false, fmt.Errorf("preferences.Save() > %w", err)
	}
	_, _ = d.green.Fprintln(d.stdoutWriter, SavedMessage)
	return true, nil
}

func (d *Dialog) edit(prefs preferences.Preferences) (preferences.Preferences, error) {
	_, _ = d.bold.Fprintln(d.stdoutWriter, "Card History Killfeed Configuration")

	corner, err := d.promptCorner(prefs.Corner)
	if err != nil {
		return prefs, err
	}
	prefs.Corner = corner

	maxLines, err := d.promptMaxLines(prefs.MaxLines)
	if err != nil {
		return prefs, err
	}
	prefs.MaxLines = maxLines

	newestAtBottom, err := d.promptNewestAtBottom(prefs.NewestAtBottom)
	if err != nil {
		return prefs, err
	}
	prefs.NewestAtBottom = newestAtBottom

	for {
		answer, err := d.prompt("[s]ave / [c]ancel: ")
		if err != nil {
			return prefs, err
		}
		switch strings.ToLower(answer) {
		case "s", "save":
			return prefs, nil
		case "c", "cancel":
			return prefs, errCancelled
		}
		d.invalid("enter s or c")
	}
}

func (d *Dialog) promptCorner(current layout.Corner) (layout.Corner, error) {
	_, _ = fmt.Fprintln(d.stdoutWriter)
	_, _ = d.bold.Fprintln(d.stdoutWriter, "Position")
	corners := layout.Corners()
	for i, corner := range corners {
		marker := " "
		if corner == current {
			marker = "*"
		}
		_, _ = fmt.Fprintf(d.stdoutWriter, " %s %d) %s\n", marker, i+1, corner)
	}
	_, _ = d.faint.Fprintln(d.stdoutWriter, PositionInfo)

	for {
		answer, err := d.prompt(fmt.Sprintf("Corner [%s]: ", current))
		if err != nil {
			return current, err
		}
		if answer == "" {
			return current, nil
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(corners) {
			return corners[n-1], nil
		}
		if corner, ok := layout.ParseCorner(strings.ToLower(answer)); ok {
			return corner, nil
		}
		d.invalid(fmt.Sprintf("enter a number from 1 to %d or a corner name", len(corners)))
	}
}

func (d *Dialog) promptMaxLines(current int) (int, error) {
	_, _ = fmt.Fprintln(d.stdoutWriter)
	_, _ = d.bold.Fprintln(d.stdoutWriter, "Display")
	_, _ = d.faint.Fprintln(d.stdoutWriter, MaxLinesInfo)

	for {
		answer, err := d.prompt(fmt.Sprintf("Max lines (%d-%d) [%d]: ",
			preferences.MinMaxLines, preferences.MaxMaxLines, current))
		if err != nil {
			return current, err
		}
		if answer == "" {
			return current, nil
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= preferences.MinMaxLines && n <= preferences.MaxMaxLines {
			return n, nil
		}
		d.invalid(fmt.Sprintf("enter a number from %d to %d", preferences.MinMaxLines, preferences.MaxMaxLines))
	}
}

func (d *Dialog) promptNewestAtBottom(current bool) (bool, error) {
	defaultAnswer := "y/N"
	if current {
		defaultAnswer = "Y/n"
	}
	for {
		answer, err := d.prompt(fmt.Sprintf("Newest at bottom [%s]: ", defaultAnswer))
		if err != nil {
			return current, err
		}
		switch strings.ToLower(answer) {
		case "":
			return current, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		d.invalid("enter y or n")
	}
}

// prompt prints the label and reads one trimmed line.
func (d *Dialog) prompt(label string) (string, error) {
	_, _ = d.bold.Fprint(d.stdoutWriter, label)
	line, err := d.stdinReader.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("error reading input: %w", err)
		}
		if line == "" {
			_, _ = fmt.Fprintln(d.stdoutWriter)
			return "", errCancelled
		}
	}
	return strings.TrimSpace(line), nil
}

func (d *Dialog) invalid(message string) {
	_, _ = d.red.Fprintf(d.stdoutWriter, "Invalid input: %s\n", message)
}
