package storage

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/rs/zerolog"
)

// pendingKey holds, in the local store, the keys written locally while the
// primary was unreachable.
const pendingKey = "pending-sync"

// fallbackStore tries a remote primary first and falls back to a local store.
type fallbackStore struct {
	primary   Store
	secondary Store
	logger    zerolog.Logger

	mu      sync.Mutex
	loaded  bool
	pending []string
}

// NewFallbackStore creates a store that uses primary and falls back to
// secondary when primary fails. Writes that succeed on primary are mirrored
// to secondary so the local copy stays a last-known-good value.
// Keys written only locally are replayed to primary on its next successful
// read, and until then reads are served from secondary.
// If primary is nil, only secondary is used.
func NewFallbackStore(primary, secondary Store, logger zerolog.Logger) Store {
	return &fallbackStore{
		primary:   primary,
		secondary: secondary,
		logger:    logger.With().Str("component", "fallback-store").Logger(),
	}
}

func (s *fallbackStore) Get(ctx context.Context, key string) (string, error) {
	if s.isPending(ctx, key) {
		value, err := s.secondary.Get(ctx, key)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return "", err
		}
		s.replay(ctx, key, value, err == nil)
		return value, err
	}

	if s.primary != nil {
		value, err := s.primary.Get(ctx, key)
		if err == nil {
			return value, nil
		}

		// A key missing remotely may still have been written locally while
		// the primary was unreachable.
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn().
				Err(err).
				Str("key", key).
				Msg("failed to read from primary store, falling back to local store")
		}
	}

	return s.secondary.Get(ctx, key)
}

func (s *fallbackStore) Set(ctx context.Context, key, value string) error {
	var primaryErr error
	if s.primary != nil {
		if primaryErr = s.primary.Set(ctx, key, value); primaryErr != nil {
			s.logger.Warn().
				Err(primaryErr).
				Str("key", key).
				Msg("failed to write to primary store, writing to local store only")
		}
	}

	if err := s.secondary.Set(ctx, key, value); err != nil {
		if s.primary != nil && primaryErr == nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("failed to mirror write to local store")
			s.markPending(ctx, key, false)
			return nil
		}
		return err
	}

	s.markPending(ctx, key, s.primary == nil || primaryErr != nil)
	return nil
}

func (s *fallbackStore) Delete(ctx context.Context, key string) error {
	var primaryErr error
	if s.primary != nil {
		if primaryErr = s.primary.Delete(ctx, key); primaryErr != nil {
			s.logger.Warn().
				Err(primaryErr).
				Str("key", key).
				Msg("failed to delete from primary store")
		}
	}

	if err := s.secondary.Delete(ctx, key); err != nil {
		return err
	}

	s.markPending(ctx, key, s.primary == nil || primaryErr != nil)
	return nil
}

// replay pushes the local value of key to primary, or deletes it there when
// the key no longer exists locally.
func (s *fallbackStore) replay(ctx context.Context, key, value string, exists bool) {
	if s.primary == nil {
		return
	}

	var err error
	if exists {
		err = s.primary.Set(ctx, key, value)
	} else {
		err = s.primary.Delete(ctx, key)
	}
	if err != nil {
		s.logger.Debug().Err(err).Str("key", key).Msg("primary store still unavailable, keeping local value")
		return
	}

	s.logger.Info().Str("key", key).Msg("replayed local write to primary store")
	s.markPending(ctx, key, false)
}

func (s *fallbackStore) isPending(ctx context.Context, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadPending(ctx)
	return slices.Contains(s.pending, key)
}

// markPending adds or removes key from the pending set and saves the set
// when it changed.
func (s *fallbackStore) markPending(ctx context.Context, key string, pending bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadPending(ctx)

	i := slices.Index(s.pending, key)
	switch {
	case pending && i < 0:
		s.pending = append(s.pending, key)
	case !pending && i >= 0:
		s.pending = slices.Delete(s.pending, i, i+1)
	default:
		return
	}

	if err := SaveJSON(ctx, s.secondary, pendingKey, s.pending); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to save pending sync keys")
	}
}

// loadPending reads the pending set from secondary once. Callers hold s.mu.
func (s *fallbackStore) loadPending(ctx context.Context) {
	if s.loaded {
		return
	}

	var keys []string
	if _, err := LoadJSON(ctx, s.secondary, pendingKey, &keys); err != nil {
		s.logger.Warn().Err(err).Msg("failed to load pending sync keys")
		return
	}

	s.pending = keys
	s.loaded = true
}
