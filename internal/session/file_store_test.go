package session

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cordash", "session.yaml")

	store, err := NewFileStore(path)
	require.NoError(t, err)

	// Missing file loads as empty.
	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, loaded.Empty())

	want := sampleSession()
	require.NoError(t, store.Save(ctx, want))

	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, loaded)

	// Overwrite replaces the whole record.
	renewed := want.WithAccessToken("renewed")
	require.NoError(t, store.Save(ctx, renewed))

	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, renewed, loaded)
}

func TestFileStorePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.yaml")

	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, sampleSession()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "session file carries credentials")
}

func TestFileStoreClear(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.yaml")

	store, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, sampleSession()))
	require.NoError(t, store.Clear(ctx))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, loaded.Empty())

	// Idempotent.
	require.NoError(t, store.Clear(ctx))
}

func TestNewFileStoreRejectsUnsafePaths(t *testing.T) {
	_, err := NewFileStore("relative/session.yaml")
	assert.Error(t, err, "relative paths rejected")

	_, err = NewFileStore("/home/user/../../etc/session.yaml")
	require.NoError(t, err, "clean() resolves dot segments before the check")

	_, err = NewFileStore(string(filepath.Separator) + filepath.Join("tmp", "..\x00", "session.yaml"))
	assert.Error(t, err)
}
