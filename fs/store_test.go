package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/ceibadl"
	"github.com/fwojciec/ceibadl/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_WriteFile(t *testing.T) {
	t.Parallel()

	t.Run("creates parent directories", func(t *testing.T) {
		t.Parallel()

		// Given a store and a nested target directory
		dir := filepath.Join(t.TempDir(), "1051_計算機程式_王小明", "bulletin")
		store := fs.NewStore()

		// When I write a file
		err := store.WriteFile(context.Background(), dir, "bulletin.html", []byte("<p>公告</p>"))

		// Then the file holds exactly the bytes written
		require.NoError(t, err)
		got, err := os.ReadFile(filepath.Join(dir, "bulletin.html"))
		require.NoError(t, err)
		assert.Equal(t, "<p>公告</p>", string(got))
	})

	t.Run("overwrites existing file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		store := fs.NewStore()
		ctx := context.Background()

		require.NoError(t, store.WriteFile(ctx, dir, "button.css", []byte("a{color:red}")))
		require.NoError(t, store.WriteFile(ctx, dir, "button.css", []byte("b{}")))

		got, err := os.ReadFile(filepath.Join(dir, "button.css"))
		require.NoError(t, err)
		assert.Equal(t, "b{}", string(got))
	})

	t.Run("leaves no temporary files behind", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		store := fs.NewStore()

		require.NoError(t, store.WriteFile(context.Background(), dir, "index.html", []byte("x")))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "index.html", entries[0].Name())
	})

	t.Run("rejects names with path separators", func(t *testing.T) {
		t.Parallel()

		err := fs.NewStore().WriteFile(context.Background(), t.TempDir(), "../escape.html", []byte("x"))
		require.Error(t, err)
		assert.Equal(t, ceibadl.EINVALID, ceibadl.ErrorCode(err))
	})

	t.Run("returns context error when cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := fs.NewStore().WriteFile(ctx, t.TempDir(), "index.html", []byte("x"))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestStore_EnsureDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "a", "b")
	store := fs.NewStore()

	require.NoError(t, store.EnsureDir(dir))
	require.NoError(t, store.EnsureDir(dir), "existing directory is not an error")

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
