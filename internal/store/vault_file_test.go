package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/MKhiriev/go-pass-sync/internal/config"
	"github.com/MKhiriev/go-pass-sync/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVaultFile_LoadMissing(t *testing.T) {
	v := NewVaultFile(filepath.Join(t.TempDir(), "vault.db"), logger.Nop())

	_, err := v.Load(testContext())
	assert.ErrorIs(t, err, ErrVaultNotFound)

	_, err = v.ModTime(testContext())
	assert.ErrorIs(t, err, ErrVaultNotFound)
}

func TestVaultFile_ApplyThenLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "vault.db")
	v := NewVaultFile(path, logger.Nop())
	ctx := testContext()

	require.NoError(t, v.Apply(ctx, []byte("first")))
	require.NoError(t, v.Apply(ctx, []byte("second")))

	data, err := v.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
	assert.Equal(t, path, v.Path())

	mod, err := v.ModTime(ctx)
	require.NoError(t, err)
	assert.False(t, mod.IsZero())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestVaultFile_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext())
	cancel()

	v := NewVaultFile(filepath.Join(t.TempDir(), "vault.db"), logger.Nop())
	assert.ErrorIs(t, v.Apply(ctx, []byte("x")), context.Canceled)
	_, err := v.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewClientStorages(t *testing.T) {
	dir := t.TempDir()
	s, err := NewClientStorages(testContext(), config.ClientStorage{
		DB:        config.ClientDB{DSN: filepath.Join(dir, "sync.db")},
		VaultFile: filepath.Join(dir, "vault.db"),
	}, logger.Nop())
	require.NoError(t, err)
	defer s.Close()

	assert.NotNil(t, s.Credentials)
	assert.NotNil(t, s.SyncState)
	assert.Equal(t, filepath.Join(dir, "vault.db"), s.Vault.Path())
}
