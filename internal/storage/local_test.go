package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return store
}

func TestSaveAndRemove(t *testing.T) {
	store := newTestStore(t)

	path, size, err := store.Save(7, "log.txt", strings.NewReader("0123456789"))
	require.NoError(t, err)
	assert.Equal(t, "anexos/chamado_7/log.txt", path)
	assert.Equal(t, int64(10), size)
	assert.True(t, store.Exists(path))

	require.NoError(t, store.Remove(path))
	assert.False(t, store.Exists(path))
}

func TestSaveCollisionGetsPrefixedName(t *testing.T) {
	store := newTestStore(t)

	first, _, err := store.Save(7, "log.txt", strings.NewReader("a"))
	require.NoError(t, err)

	second, _, err := store.Save(7, "log.txt", strings.NewReader("b"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(second, "anexos/chamado_7/"))
	assert.True(t, strings.HasSuffix(second, "_log.txt"))
	assert.True(t, store.Exists(first))
	assert.True(t, store.Exists(second))
}

func TestSaveSanitizesFilename(t *testing.T) {
	store := newTestStore(t)

	path, _, err := store.Save(1, "../../etc/passwd", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "anexos/chamado_1/passwd", path)

	path, _, err = store.Save(1, "  ", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "anexos/chamado_1/arquivo", path)
}

func TestRemoveMissingFileReturnsError(t *testing.T) {
	store := newTestStore(t)

	err := store.Remove("anexos/chamado_1/nao_existe.txt")
	assert.Error(t, err)
}
