package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/killfeed/internal/revlog"
)

func TestSetupTestConfig(t *testing.T) {
	tests := []struct {
		name         string
		opts         []ConfigOption
		wantContains []string
	}{
		{
			name:         "yaml store",
			wantContains: []string{"driver: yaml", "url: http://127.0.0.1:8765"},
		},
		{
			name:         "ankiconnect store",
			opts:         []ConfigOption{WithAnkiConnect("http://127.0.0.1:18765")},
			wantContains: []string{"driver: ankiconnect", "url: http://127.0.0.1:18765"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			got := SetupTestConfig(t, tmpDir, tt.opts...)
			assert.Equal(t, filepath.Join(tmpDir, "config.yml"), got)

			content, err := os.ReadFile(got)
			require.NoError(t, err)
			for _, want := range tt.wantContains {
				assert.Contains(t, string(content), want)
			}

			info, err := os.Stat(filepath.Join(tmpDir, "addons"))
			require.NoError(t, err)
			assert.True(t, info.IsDir())
		})
	}
}

func TestCreateReviewLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "reviews.yml")
	CreateReviewLog(t, path, map[int64][]revlog.Entry{
		FixtureCardID: FixtureReviews(),
		7:             {{ID: 1653686512999, Ease: 4, Interval: 10, Type: revlog.ReviewTypeReview}},
	})

	repository := revlog.NewYAMLRepository(path)
	got, err := repository.FindLatestByCard(context.Background(), FixtureCardID, 10)
	require.NoError(t, err)
	assert.Equal(t, FixtureReviews(), got)

	count, err := repository.CountByCard(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
