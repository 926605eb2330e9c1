package assets

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/killfeed/internal/killfeed"
	"github.com/at-ishikawa/killfeed/internal/render"
	"github.com/at-ishikawa/killfeed/internal/statistics"
)

var (
	reviewLine = killfeed.Line{
		Date:      "2022-05-28 @ 21:21",
		TypeLabel: "Review",
		Rating:    "3",
		Interval:  "4d",
	}
	relearnLine = killfeed.Line{
		Date:      "2022-05-27 @ 21:21",
		TypeLabel: "Relearn",
		Rating:    "1",
		Interval:  "10m",
	}
)

func TestParseHistoryTemplate(t *testing.T) {
	tests := []struct {
		name             string
		templatePath     func(t *testing.T) string
		wantTemplateName string
	}{
		{
			name:             "embedded template without a path",
			templatePath:     func(t *testing.T) string { return "" },
			wantTemplateName: "history.md.go.tmpl",
		},
		{
			name: "uses filesystem template when available",
			templatePath: func(t *testing.T) string {
				templatePath := filepath.Join(t.TempDir(), "custom.md.go.tmpl")
				require.NoError(t, os.WriteFile(templatePath, []byte(`Card {{ .CardID }}`), 0644))
				return templatePath
			},
			wantTemplateName: "custom.md.go.tmpl",
		},
		{
			name:             "uses embedded template when file doesn't exist",
			templatePath:     func(t *testing.T) string { return "/non/existent/invalid.md.go.tmpl" },
			wantTemplateName: "history.md.go.tmpl",
		},
		{
			name: "uses embedded template when filesystem template is invalid",
			templatePath: func(t *testing.T) string {
				templatePath := filepath.Join(t.TempDir(), "invalid.md.go.tmpl")
				require.NoError(t, os.WriteFile(templatePath, []byte(`Bad: {{ .Unclosed`), 0644))
				return templatePath
			},
			wantTemplateName: "history.md.go.tmpl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := ParseHistoryTemplate(tt.templatePath(t))
			require.NoError(t, err)
			assert.Equal(t, tt.wantTemplateName, tmpl.Name())
		})
	}
}

func TestWriteHistory(t *testing.T) {
	tests := []struct {
		name   string
		export render.Export
		want   string
	}{
		{
			name:   "history table",
			export: render.Export{CardID: 42, Total: 5, Lines: []killfeed.Line{reviewLine, relearnLine}},
			want: "# Card 42\n\nTotal reviews: 5\n\n" +
				"| Date | Type | Rating | Interval |\n" +
				"| --- | --- | :---: | ---: |\n" +
				"| 2022-05-28 @ 21:21 | Review | 3 | 4d |\n" +
				"| 2022-05-27 @ 21:21 | Relearn | 1 | 10m |\n",
		},
		{
			name:   "no history",
			export: render.Export{CardID: 7, Lines: []killfeed.Line{killfeed.NoHistoryLine()}},
			want:   "# Card 7\n\nTotal reviews: 0\n\nNo review history\n",
		},
		{
			name: "with statistics",
			export: render.Export{
				CardID: 42,
				Total:  2,
				Lines:  []killfeed.Line{reviewLine},
				Statistics: &statistics.StatisticsResult{
					Periods: []statistics.ReviewStatistics{
						{Period: "2022-05", Total: 2, Reviews: 1, Relearns: 1, Again: 1},
					},
					Aggregate: statistics.AggregateStatistics{Total: 2, Reviews: 1, Relearns: 1, Again: 1, Retention: 1},
				},
			},
			want: "# Card 42\n\nTotal reviews: 2\n\n" +
				"| Date | Type | Rating | Interval |\n" +
				"| --- | --- | :---: | ---: |\n" +
				"| 2022-05-28 @ 21:21 | Review | 3 | 4d |\n" +
				"\n## Statistics\n\n" +
				"| Period | Total | Learn | Review | Relearn | Cram | Again |\n" +
				"| --- | ---: | ---: | ---: | ---: | ---: | ---: |\n" +
				"| 2022-05 | 2 | 0 | 1 | 1 | 0 | 1 |\n" +
				"| Total | 2 | 0 | 1 | 1 | 0 | 1 |\n" +
				"\nRetention: 100.0%\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteHistory(&buf, "", tt.export))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
