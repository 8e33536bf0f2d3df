package diskfs_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/skatespots/filestore"
	"github.com/rise-and-shine/skatespots/filestore/diskfs"
)

func newStore(t *testing.T) *diskfs.Store {
	t.Helper()

	store, err := diskfs.New(diskfs.Config{Dir: filepath.Join(t.TempDir(), "uploads")})
	require.NoError(t, err)
	return store
}

func TestUploadAndGet(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()

	info, err := store.Upload(ctx, "1700000000000-rail.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, int64(9), info.Size)
	assert.Equal(t, filestore.ContentTypePNG, info.ContentType)

	exists, err := store.Exists(ctx, "1700000000000-rail.png")
	require.NoError(t, err)
	assert.True(t, exists)

	file, err := store.Get(ctx, "1700000000000-rail.png")
	require.NoError(t, err)
	defer file.Content.Close()

	data, err := io.ReadAll(file.Content)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, int64(9), file.Info.Size)
}

func TestUploadNeverOverwrites(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()

	_, err := store.Upload(ctx, "a.jpg", strings.NewReader("first"))
	require.NoError(t, err)

	_, err = store.Upload(ctx, "a.jpg", strings.NewReader("second"))
	require.Error(t, err)
	assert.True(t, errx.IsCodeIn(err, filestore.CodeFileExists))

	data, err := os.ReadFile(filepath.Join(store.Dir(), "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestInvalidPaths(t *testing.T) {
	store := newStore(t)

	for _, path := range []string{"", ".", "..", "../escape.png", "nested/file.png"} {
		_, err := store.Upload(t.Context(), path, strings.NewReader("x"))
		require.Error(t, err, path)
		assert.True(t, errx.IsCodeIn(err, filestore.CodeInvalidPath), path)
	}
}

func TestMissingFiles(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()

	_, err := store.Get(ctx, "missing.png")
	require.Error(t, err)
	assert.True(t, errx.IsCodeIn(err, filestore.CodeFileNotFound))
	assert.Equal(t, errx.T_NotFound, errx.AsErrorX(err).Type())

	err = store.Delete(ctx, "missing.png")
	assert.True(t, errx.IsCodeIn(err, filestore.CodeFileNotFound))

	exists, err := store.Exists(ctx, "missing.png")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDelete(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()

	_, err := store.Upload(ctx, "gone.webp", strings.NewReader("x"))
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "gone.webp"))

	exists, err := store.Exists(ctx, "gone.webp")
	require.NoError(t, err)
	assert.False(t, exists)
}
