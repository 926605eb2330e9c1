package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/at-ishikawa/killfeed/internal/killfeed"
	"github.com/at-ishikawa/killfeed/internal/statistics"
)

// Export is the history of one card as written by the export command.
type Export struct {
	CardID int64           `json:"card_id"`
	Total  int             `json:"total_reviews"`
	Lines  []killfeed.Line `json:"lines"`
	// Statistics covers every review of the card, not only Lines.
	Statistics *statistics.StatisticsResult `json:"statistics,omitempty"`
}

// WriteTable writes the lines as a table.
func WriteTable(w io.Writer, export Export) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(fmt.Sprintf("Card %d (%d reviews)", export.CardID, export.Total))
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 3, Align: text.AlignCenter, AlignHeader: text.AlignCenter},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignCenter},
	})
	tw.AppendHeader(table.Row{"Date", "Type", "Rating", "Interval"})

	for _, line := range export.Lines {
		if line.NoHistory {
			tw.AppendRow(table.Row{line.Message, "-", "-", "-"})
			continue
		}
		tw.AppendRow(table.Row{line.Date, line.TypeLabel, line.Rating, line.Interval})
	}

	if _, err := io.WriteString(w, tw.Render()+"\n"); err != nil {
		return fmt.Errorf("io.WriteString() > %w", err)
	}
	if export.Statistics != nil {
		if err := writeStatisticsTable(w, *export.Statistics); err != nil {
			return fmt.Errorf("writeStatisticsTable() > %w", err)
		}
	}
	return nil
}

func writeStatisticsTable(w io.Writer, result statistics.StatisticsResult) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Statistics")
	tw.AppendHeader(table.Row{"Period", "Total", "Learn", "Review", "Relearn", "Cram", "Again"})
	for _, period := range result.Periods {
		tw.AppendRow(table.Row{
			period.Period, period.Total, period.Learns, period.Reviews, period.Relearns, period.Crams, period.Again,
		})
	}
	aggregate := result.Aggregate
	tw.AppendFooter(table.Row{
		"Total", aggregate.Total, aggregate.Learns, aggregate.Reviews, aggregate.Relearns, aggregate.Crams, aggregate.Again,
	})
	tw.SetCaption("Retention: %.1f%%", aggregate.Retention*100)
	if _, err := io.WriteString(w, tw.Render()+"\n"); err != nil {
		return fmt.Errorf("io.WriteString() > %w", err)
	}
	return nil
}

// WriteJSON writes the export as indented JSON.
func WriteJSON(w io.Writer, export Export) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(export); err != nil {
		return fmt.Errorf("enc.Encode() > %w", err)
	}
	return nil
}
