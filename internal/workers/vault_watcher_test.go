package workers

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-pass-sync/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, path string) (*atomic.Int32, context.CancelFunc, <-chan error) {
	t.Helper()

	var changes atomic.Int32
	v := newVaultWatcher(path, func(ctx context.Context) {
		changes.Add(1)
	}, logger.Nop())
	v.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- v.Run(ctx) }()

	// даём watcher'у время подписаться на каталог
	time.Sleep(50 * time.Millisecond)
	return &changes, cancel, done
}

func TestVaultWatcher_WriteTriggersChange(t *testing.T) {
	dir := t.TempDir()
	vault := filepath.Join(dir, "vault.kdbx")
	require.NoError(t, os.WriteFile(vault, []byte("v1"), 0o600))

	changes, cancel, done := startWatcher(t, vault)
	defer cancel()

	require.NoError(t, os.WriteFile(vault, []byte("v2"), 0o600))

	require.Eventually(t, func() bool { return changes.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestVaultWatcher_BurstIsDebounced(t *testing.T) {
	dir := t.TempDir()
	vault := filepath.Join(dir, "vault.kdbx")
	require.NoError(t, os.WriteFile(vault, []byte("v1"), 0o600))

	changes, cancel, done := startWatcher(t, vault)
	defer cancel()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(vault, []byte{byte(i)}, 0o600))
	}

	require.Eventually(t, func() bool { return changes.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), changes.Load())

	cancel()
	assert.NoError(t, <-done)
}

func TestVaultWatcher_AtomicReplace(t *testing.T) {
	dir := t.TempDir()
	vault := filepath.Join(dir, "vault.kdbx")
	require.NoError(t, os.WriteFile(vault, []byte("v1"), 0o600))

	changes, cancel, done := startWatcher(t, vault)
	defer cancel()

	tmp := filepath.Join(dir, "vault.kdbx.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("v2"), 0o600))
	require.NoError(t, os.Rename(tmp, vault))

	require.Eventually(t, func() bool { return changes.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestVaultWatcher_OtherFilesIgnored(t *testing.T) {
	dir := t.TempDir()
	vault := filepath.Join(dir, "vault.kdbx")
	require.NoError(t, os.WriteFile(vault, []byte("v1"), 0o600))

	changes, cancel, done := startWatcher(t, vault)
	defer cancel()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	time.Sleep(150 * time.Millisecond)

	assert.Zero(t, changes.Load())

	cancel()
	assert.NoError(t, <-done)
}

func TestVaultWatcher_MissingDirectory(t *testing.T) {
	v := newVaultWatcher(filepath.Join(t.TempDir(), "missing", "vault.kdbx"), func(context.Context) {}, logger.Nop())

	err := v.Run(context.Background())

	assert.Error(t, err)
}
