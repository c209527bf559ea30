package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-pass-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// CredentialStore persists backend descriptors. Secrets are kept in a
// separate table keyed by [models.BackendDescriptor.CredentialsRef]; every
// write touches both tables inside one transaction.
type CredentialStore interface {
	// Get returns the descriptor stored for backend type t, or
	// ErrDescriptorNotFound.
	Get(ctx context.Context, t models.BackendType) (*models.BackendDescriptor, error)
	// Put inserts or replaces the descriptor of desc.BackendType.
	Put(ctx context.Context, desc models.BackendDescriptor) error
	// Clear removes the descriptor and secrets of backend type t. Clearing a
	// type that was never stored is not an error.
	Clear(ctx context.Context, t models.BackendType) error
	// ClearAll removes every descriptor and every secret.
	ClearAll(ctx context.Context) error
}

// SyncStateStore persists the sync engine's bookkeeping between runs: the
// device id, the active backend, timestamps, counters, the key salt and the
// history and error rings.
type SyncStateStore interface {
	// LoadState returns the persisted scalar state. Missing keys load as
	// zero values.
	LoadState(ctx context.Context) (SyncState, error)
	// SaveState writes every scalar field of state in one transaction.
	SaveState(ctx context.Context, state SyncState) error

	// AppendHistory stores entry and drops all but the newest capacity entries.
	AppendHistory(ctx context.Context, entry models.SyncHistoryEntry, capacity int) error
	// History returns up to limit entries, most recent first.
	History(ctx context.Context, limit int) ([]models.SyncHistoryEntry, error)
	// AppendError stores entry and drops all but the newest capacity entries.
	AppendError(ctx context.Context, entry models.SyncErrorLogEntry, capacity int) error
	// Errors returns up to limit error-log entries, most recent first.
	Errors(ctx context.Context, limit int) ([]models.SyncErrorLogEntry, error)

	// Wipe removes the bookkeeping: timestamps, counters, the active backend
	// and both rings. The device id and the key salt survive.
	Wipe(ctx context.Context) error

	GetKeySalt(ctx context.Context) ([]byte, error)
	SetKeySalt(ctx context.Context, salt []byte) error
}

// VaultSource reads and replaces the local plaintext payload that is synced.
type VaultSource interface {
	// Load returns the current payload. A missing file loads as ErrVaultNotFound.
	Load(ctx context.Context) ([]byte, error)
	// Apply atomically replaces the payload.
	Apply(ctx context.Context, payload []byte) error
	// ModTime returns the last modification time of the payload.
	ModTime(ctx context.Context) (time.Time, error)
	// Path returns the location of the payload, for watchers.
	Path() string
}
