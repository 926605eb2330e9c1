package revlog

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLRepository reads review logs from a fixture file.
//
//	cards:
//	  - card_id: 1498938915662
//	    reviews:
//	      - {id: 1653772912146, ease: 3, ivl: 4, type: 1}
type YAMLRepository struct {
	path string
}

type yamlFile struct {
	Cards []yamlCard `yaml:"cards"`
}

type yamlCard struct {
	CardID  int64   `yaml:"card_id"`
	Reviews []Entry `yaml:"reviews"`
}

// NewYAMLRepository creates a new YAMLRepository.
func NewYAMLRepository(path string) *YAMLRepository {
	return &YAMLRepository{path: path}
}

// FindLatestByCard reads the file and returns the newest entries of the card.
// Entries may appear in any order in the file.
func (r *YAMLRepository) FindLatestByCard(_ context.Context, cardID int64, limit int) ([]Entry, error) {
	cards, err := r.load()
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, card := range cards {
		if card.CardID == cardID {
			entries = append(entries, card.Reviews...)
		}
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return Latest(entries, limit), nil
}

// CountByCard returns the number of reviews of a card in the file.
func (r *YAMLRepository) CountByCard(_ context.Context, cardID int64) (int, error) {
	cards, err := r.load()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, card := range cards {
		if card.CardID == cardID {
			count += len(card.Reviews)
		}
	}
	return count, nil
}

func (r *YAMLRepository) load() ([]yamlCard, error) {
	content, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s) > %w", r.path, err)
	}
	var file yamlFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal(%s) > %w", r.path, err)
	}
	return file.Cards, nil
}
