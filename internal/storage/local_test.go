package storage

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocalStorageClient(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	client, err := NewLocalStorageClient(dir)
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, dir, client.BaseDir())
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = NewLocalStorageClient("")
	assert.Error(t, err)
}

func TestLocalStorageClient_StoreAndGet(t *testing.T) {
	ctx := context.Background()
	client, err := NewLocalStorageClient(t.TempDir())
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
	}{
		{"apf107.dat", []byte("first")},
		{"apf107.dat", []byte("replaced")},
		{"mirror/2024/ig_rz.dat", []byte("nested")},
		{"empty.dat", []byte{}},
	}
	for _, tt := range tests {
		require.NoError(t, client.StoreFile(ctx, tt.name, tt.data), tt.name)
		got, err := client.GetFile(ctx, tt.name)
		require.NoError(t, err)
		assert.Equal(t, tt.data, got)
	}

	entries, err := os.ReadDir(client.BaseDir())
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp", "temp files must not be left behind")
	}
}

func TestLocalStorageClient_InvalidNames(t *testing.T) {
	ctx := context.Background()
	client, err := NewLocalStorageClient(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", ".", "..", "../escape.dat", "/etc/passwd"} {
		assert.Error(t, client.StoreFile(ctx, name, []byte("x")), name)
	}
}

func TestLocalStorageClient_Stat(t *testing.T) {
	ctx := context.Background()
	client, err := NewLocalStorageClient(t.TempDir())
	require.NoError(t, err)

	_, err = client.Stat(ctx, "ig_rz.dat")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	require.NoError(t, client.StoreFile(ctx, "ig_rz.dat", make([]byte, 1500)))
	info, err := client.Stat(ctx, "ig_rz.dat")
	require.NoError(t, err)
	assert.Equal(t, "ig_rz.dat", info.Name)
	assert.Equal(t, int64(1500), info.Size)
	assert.False(t, info.Updated.IsZero())

	require.NoError(t, os.Mkdir(filepath.Join(client.BaseDir(), "sub"), 0755))
	_, err = client.Stat(ctx, "sub")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLocalStorageClient_GetMissing(t *testing.T) {
	client, err := NewLocalStorageClient(t.TempDir())
	require.NoError(t, err)

	_, err = client.GetFile(context.Background(), "missing.dat")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLocalStorageClient_ListFiles(t *testing.T) {
	ctx := context.Background()
	client, err := NewLocalStorageClient(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"ig_rz.dat", "apf107.dat", "archive/apf107.dat"} {
		require.NoError(t, client.StoreFile(ctx, name, []byte(name)))
	}

	all, err := client.ListFiles(ctx, "")
	require.NoError(t, err)
	var names []string
	for _, f := range all {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"apf107.dat", "archive/apf107.dat", "ig_rz.dat"}, names)

	archived, err := client.ListFiles(ctx, "archive/")
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, int64(len("archive/apf107.dat")), archived[0].Size)
}

func TestLocalStorageClient_CancelledStore(t *testing.T) {
	client, err := NewLocalStorageClient(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, client.StoreFile(ctx, "apf107.dat", []byte("x")), context.Canceled)
}
