// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikhailRaia/shortify/internal/storage"
)

// Run exercises store against the Store contract. The store must start empty.
func Run(t *testing.T, store storage.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, found, err := store.Get(ctx, "shortifyHistory:missing")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("set then overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "shortifyHistory:one", `[]`))
		require.NoError(t, store.Set(ctx, "shortifyHistory:one", `[{"short_code":"abc123"}]`))

		value, found, err := store.Get(ctx, "shortifyHistory:one")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `[{"short_code":"abc123"}]`, value)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "shortifyHistory:two", `[]`))
		require.NoError(t, store.Delete(ctx, "shortifyHistory:two"))
		require.NoError(t, store.Delete(ctx, "shortifyHistory:two"))

		_, found, err := store.Get(ctx, "shortifyHistory:two")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("empty key", func(t *testing.T) {
		_, _, err := store.Get(ctx, "")
		assert.ErrorIs(t, err, storage.ErrEmptyKey)
		assert.ErrorIs(t, store.Set(ctx, "", "x"), storage.ErrEmptyKey)
		assert.ErrorIs(t, store.Delete(ctx, ""), storage.ErrEmptyKey)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, store.Ping(ctx))
	})
}
