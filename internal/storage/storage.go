package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/model"
)

// Keys under which the storefront persists its state.
// The checkout page reads the same keys.
const (
	CartKey = "cart-state"
	RateKey = "rate-state"
)

// ErrNotFound is returned by backends for a key that has never been written.
var ErrNotFound = errors.New("key not found")

// Store is a durable string key-value store.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// LoadJSON decodes the value stored under key into v.
// It reports false without error when the key is absent.
func LoadJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, &model.StorageError{Op: "get", Key: key, Err: err}
	}

	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, &model.StorageError{Op: "decode", Key: key, Err: err}
	}

	return true, nil
}

// SaveJSON encodes v and stores it under key.
func SaveJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &model.StorageError{Op: "encode", Key: key, Err: err}
	}

	if err := s.Set(ctx, key, string(data)); err != nil {
		return &model.StorageError{Op: "set", Key: key, Err: fmt.Errorf("write %d bytes: %w", len(data), err)}
	}

	return nil
}
