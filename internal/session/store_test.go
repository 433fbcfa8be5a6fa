package session

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/admin-console/pkg/security"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, ok, err := store.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, KeyAccessToken, "abc"))
	value, ok, err := store.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", value)

	require.NoError(t, store.Delete(ctx, KeyAccessToken, KeyUser))
	_, ok, _ = store.Get(ctx, KeyAccessToken)
	assert.False(t, ok)
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	store := NewFileStore(path)
	require.NoError(t, store.Set(ctx, KeyAccessToken, "abc"))
	require.NoError(t, store.Set(ctx, KeyRememberMe, "true"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened := NewFileStore(path)
	value, ok, err := reopened.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", value)

	require.NoError(t, reopened.Delete(ctx, KeyAccessToken, KeyRememberMe))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileStoreEncrypted(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	enc, err := security.NewAESEncryptor(bytes.Repeat([]byte{7}, 32))
	require.NoError(t, err)

	store := NewFileStore(path, WithEncryptor(enc))
	require.NoError(t, store.Set(ctx, KeyAccessToken, "secret-token"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-token")

	value, ok, err := store.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "secret-token", value)

	_, _, err = NewFileStore(path).Get(ctx, KeyAccessToken)
	assert.Error(t, err)
}
