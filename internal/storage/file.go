package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// fileStore persists all keys as a single JSON object on local disk.
type fileStore struct {
	path   string
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewFileStore creates a store backed by the JSON file at path.
// The file and its directory are created on first write.
func NewFileStore(path string, logger zerolog.Logger) Store {
	return &fileStore{
		path:   path,
		logger: logger.With().Str("component", "file-store").Logger(),
	}
}

func (s *fileStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return "", err
	}

	v, ok := values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *fileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	values[key] = value

	return s.write(values)
}

func (s *fileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)

	return s.write(values)
}

// read loads the whole file. A missing file is an empty store.
func (s *fileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		s.logger.Error().Err(err).Str("file", s.path).Msg("failed to read storage file")
		return nil, fmt.Errorf("failed to read storage file %s: %w", s.path, err)
	}

	values := make(map[string]string)
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		s.logger.Error().Err(err).Str("file", s.path).Msg("storage file is corrupt")
		return nil, fmt.Errorf("failed to decode storage file %s: %w", s.path, err)
	}

	return values, nil
}

// write replaces the file atomically via a temp file in the same directory.
func (s *fileStore) write(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".storefront-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		s.logger.Error().Err(err).Str("file", s.path).Msg("failed to replace storage file")
		return fmt.Errorf("failed to replace storage file %s: %w", s.path, err)
	}

	s.logger.Debug().Str("file", s.path).Int("keys", len(values)).Msg("storage file written")
	return nil
}
