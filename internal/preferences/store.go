// Package preferences persists the per add-on settings of the history panel.
package preferences

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:generate mockgen -source=store.go -destination=../mocks/preferences/mock_store.go -package=mock_preferences Store

// Store is a key-value settings store keyed by an opaque add-on id.
type Store interface {
	// Get returns the settings of an add-on, or a nil map when it has none.
	Get(addonID string) (map[string]any, error)
	// Set replaces the settings of an add-on.
	Set(addonID string, values map[string]any) error
}

// FileStore keeps one YAML document per add-on in a directory.
type FileStore struct {
	directory string
}

func NewFileStore(directory string) *FileStore {
	return &FileStore{directory: directory}
}

func (s *FileStore) path(addonID string) (string, error) {
	if addonID == "" || strings.ContainsAny(addonID, `/\`) || addonID == "." || addonID == ".." {
		return "", fmt.Errorf("invalid add-on id %q", addonID)
	}
	return filepath.Join(s.directory, addonID+".yml"), nil
}

func (s *FileStore) Get(addonID string) (map[string]any, error) {
	path, err := s.path(addonID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}

	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal(%s) > %w", path, err)
	}
	return values, nil
}

func (s *FileStore) Set(addonID string, values map[string]any) error {
	path, err := s.path(addonID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.directory, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", s.directory, err)
	}

	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("yaml.Marshal() > %w", err)
	}

	tmp, err := os.CreateTemp(s.directory, addonID+".*.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp(%s) > %w", s.directory, err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("tmp.Write() > %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tmp.Close() > %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("os.Rename(%s) > %w", path, err)
	}
	return nil
}
