package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveGetDelete(t *testing.T) {
	store, err := NewLocalStorage(Config{BasePath: t.TempDir()})
	require.NoError(t, err)
	ctx := context.Background()

	err = store.Save(ctx, "proofs/user-1/shot.png", strings.NewReader("png-bytes"), "image/png")
	require.NoError(t, err)

	reader, err := store.Get(ctx, "proofs/user-1/shot.png")
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, store.Delete(ctx, "proofs/user-1/shot.png"))
	_, err = store.Get(ctx, "proofs/user-1/shot.png")
	assert.Error(t, err)

	// Удаление несуществующего файла не ошибка
	assert.NoError(t, store.Delete(ctx, "proofs/user-1/missing.png"))
}

func TestLocalStorage_GetURL(t *testing.T) {
	store, err := NewLocalStorage(Config{BasePath: t.TempDir(), BaseURL: "/api/v1/files"})
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/files/proofs/a.png", store.GetURL("proofs/a.png"))

	store, err = NewLocalStorage(Config{BasePath: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "/files/proofs/a.png", store.GetURL("proofs/a.png"))
}
