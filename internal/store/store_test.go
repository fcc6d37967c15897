package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dukerupert/chapters/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeBackends(t *testing.T) map[string]Store {
	t.Helper()

	backends := make(map[string]Store)

	fileStore, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	backends["file"] = fileStore

	sqliteStore, err := New(internal.StoreConfig{
		Provider: "sqlite",
		DSN:      filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	backends["sqlite"] = sqliteStore

	for _, st := range backends {
		t.Cleanup(func() { st.Close() })
	}
	return backends
}

func TestStore_RoundTrip(t *testing.T) {
	for name, st := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, st.Set(ctx, "cart", `[{"book_id":1}]`))

			got, err := st.Get(ctx, "cart")
			require.NoError(t, err)
			assert.Equal(t, `[{"book_id":1}]`, got)

			// Overwrite replaces
			require.NoError(t, st.Set(ctx, "cart", "[]"))
			got, err = st.Get(ctx, "cart")
			require.NoError(t, err)
			assert.Equal(t, "[]", got)
		})
	}
}

func TestStore_GetMissingKey(t *testing.T) {
	for name, st := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := st.Get(context.Background(), "never-set")
			assert.True(t, IsNotFound(err))
		})
	}
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	for name, st := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, st.Set(ctx, "access_token", "tok"))
			require.NoError(t, st.Delete(ctx, "access_token"))
			require.NoError(t, st.Delete(ctx, "access_token"), "deleting a missing key is not an error")

			_, err := st.Get(ctx, "access_token")
			assert.True(t, IsNotFound(err))
		})
	}
}

func TestFileStore_KeySanitization(t *testing.T) {
	base := t.TempDir()
	st, err := NewFileStore(base)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, st.Set(ctx, "../escape", "value"))

	got, err := st.Get(ctx, "../escape")
	require.NoError(t, err)
	assert.Equal(t, "value", got)

	// The value must land inside the base directory
	matches, err := filepath.Glob(filepath.Join(base, "*escape*"))
	require.NoError(t, err)
	assert.NotEmpty(t, matches)
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(internal.StoreConfig{Provider: "redis"})
	assert.Error(t, err)
}

func TestNew_DefaultsToFile(t *testing.T) {
	st, err := New(internal.StoreConfig{Path: t.TempDir()})
	require.NoError(t, err)
	defer st.Close()

	_, ok := st.(*FileStore)
	assert.True(t, ok)
}
