// Package testutil provides shared test helpers for creating config files and review log fixtures.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/killfeed/internal/revlog"
)

// FixtureCardID is the card of the review log written by SetupTestConfig.
const FixtureCardID int64 = 100

// FixtureReviews are the reviews of FixtureCardID, newest first.
func FixtureReviews() []revlog.Entry {
	return []revlog.Entry{
		{ID: 1653772912146, Ease: 3, Interval: 4, Type: revlog.ReviewTypeReview},
		{ID: 1653686512146, Ease: 1, Interval: -600, Type: revlog.ReviewTypeRelearn},
		{ID: 1653600112146, Ease: 2, Interval: -600, Type: revlog.ReviewTypeLearn},
	}
}

// ConfigOption configures optional fields when creating a config file.
type ConfigOption func(*testConfig)

type testConfig struct {
	driver         string
	ankiConnectURL string
}

// WithAnkiConnect reads the review log from the AnkiConnect server at url.
func WithAnkiConnect(url string) ConfigOption {
	return func(cfg *testConfig) {
		cfg.driver = "ankiconnect"
		cfg.ankiConnectURL = url
	}
}

// SetupTestConfig creates a config file, the review log of FixtureCardID and
// the preferences directory. The store is the yaml review log by default.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string, opts ...ConfigOption) string {
	t.Helper()

	cfg := testConfig{
		driver:         "yaml",
		ankiConnectURL: "http://127.0.0.1:8765",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	preferencesDir := filepath.Join(tmpDir, "addons")
	require.NoError(t, os.MkdirAll(preferencesDir, 0755))

	reviewsPath := filepath.Join(tmpDir, "reviews.yml")
	CreateReviewLog(t, reviewsPath, map[int64][]revlog.Entry{
		FixtureCardID: FixtureReviews(),
	})

	configContent := fmt.Sprintf(`store:
  driver: %s
  path: %s
ankiconnect:
  url: %s
  retry_attempts: 0
display:
  theme: dark
preferences:
  directory: %s
`,
		cfg.driver,
		reviewsPath,
		cfg.ankiConnectURL,
		preferencesDir,
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// CreateReviewLog writes a review log fixture read by revlog.YAMLRepository.
// Cards are written in ascending id order.
func CreateReviewLog(t *testing.T, path string, reviews map[int64][]revlog.Entry) {
	t.Helper()

	type card struct {
		CardID  int64          `yaml:"card_id"`
		Reviews []revlog.Entry `yaml:"reviews"`
	}
	cards := make([]card, 0, len(reviews))
	for cardID, entries := range reviews {
		cards = append(cards, card{CardID: cardID, Reviews: entries})
	}
	sort.Slice(cards, func(i, j int) bool {
		return cards[i].CardID < cards[j].CardID
	})

	content, err := yaml.Marshal(map[string]any{"cards": cards})
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, content, 0644))
}
