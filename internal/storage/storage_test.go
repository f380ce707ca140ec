package storage

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// funcStore is a Store whose behaviour is supplied per test.
type funcStore struct {
	getFunc    func(ctx context.Context, key string) (string, error)
	setFunc    func(ctx context.Context, key, value string) error
	deleteFunc func(ctx context.Context, key string) error
}

func (f *funcStore) Get(ctx context.Context, key string) (string, error) {
	if f.getFunc != nil {
		return f.getFunc(ctx, key)
	}
	return "", errors.New("not implemented")
}

func (f *funcStore) Set(ctx context.Context, key, value string) error {
	if f.setFunc != nil {
		return f.setFunc(ctx, key, value)
	}
	return errors.New("not implemented")
}

func (f *funcStore) Delete(ctx context.Context, key string) error {
	if f.deleteFunc != nil {
		return f.deleteFunc(ctx, key)
	}
	return errors.New("not implemented")
}

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestSaveAndLoadJSON(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, SaveJSON(ctx, store, "sample", sample{Name: "a", Count: 2}))

	var got sample
	found, err := LoadJSON(ctx, store, "sample", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, sample{Name: "a", Count: 2}, got)
}

func TestLoadJSON_MissingKey(t *testing.T) {
	var got sample
	found, err := LoadJSON(context.Background(), NewMemoryStore(), "missing", &got)

	require.NoError(t, err)
	assert.False(t, found)
}

func TestLoadJSON_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("backend failure", func(t *testing.T) {
		store := &funcStore{getFunc: func(ctx context.Context, key string) (string, error) {
			return "", errors.New("disk on fire")
		}}

		var got sample
		found, err := LoadJSON(ctx, store, CartKey, &got)

		require.Error(t, err)
		assert.False(t, found)

		var storageErr *model.StorageError
		require.ErrorAs(t, err, &storageErr)
		assert.Equal(t, "get", storageErr.Op)
		assert.Equal(t, CartKey, storageErr.Key)
	})

	t.Run("corrupt value", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Set(ctx, RateKey, "{not json"))

		var got sample
		found, err := LoadJSON(ctx, store, RateKey, &got)

		require.Error(t, err)
		assert.False(t, found)

		var storageErr *model.StorageError
		require.ErrorAs(t, err, &storageErr)
		assert.Equal(t, "decode", storageErr.Op)
	})
}

func TestSaveJSON_WriteFailure(t *testing.T) {
	store := &funcStore{setFunc: func(ctx context.Context, key, value string) error {
		return errors.New("quota exceeded")
	}}

	err := SaveJSON(context.Background(), store, CartKey, sample{Name: "a"})

	var storageErr *model.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "set", storageErr.Op)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, CartKey, "[]"))
	require.NoError(t, store.Delete(ctx, CartKey))
	require.NoError(t, store.Delete(ctx, CartKey))

	_, err := store.Get(ctx, CartKey)
	assert.ErrorIs(t, err, ErrNotFound)
}
