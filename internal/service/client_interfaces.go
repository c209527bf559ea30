package service

import (
	"context"

	"github.com/MKhiriev/go-pass-sync/internal/adapter"
	"github.com/MKhiriev/go-pass-sync/models"
)

// ClientSyncService is the sync engine of one unlocked vault session. It owns
// the active backend, the sync status and the bounded history and error
// rings. Mutating operations never return a Go error; they report a
// [SyncResult] instead.
type ClientSyncService interface {
	// Initialize obtains the vault key and loads or creates the device id
	// and the persisted bookkeeping. It is idempotent.
	Initialize(ctx context.Context) error

	// SyncSettings seals payload and uploads it as a new remote record.
	SyncSettings(ctx context.Context, payload []byte) SyncResult

	// DownloadSettings returns the plaintext of the newest remote record, or
	// nil on any failure.
	DownloadSettings(ctx context.Context) []byte

	// PerformFullSync uploads localPayload unless the newest remote record is
	// newer than the last sync, in which case a conflict is reported.
	PerformFullSync(ctx context.Context, localPayload []byte) SyncResult

	// SyncNow loads the local vault and runs a full sync. A missing local
	// vault is restored from the newest remote record.
	SyncNow(ctx context.Context) SyncResult

	// TestConnection reports whether the active backend accepts requests. It
	// does not change the sync status.
	TestConnection(ctx context.Context) bool

	// Reset discards in-flight results, wipes the key, the active backend and
	// the persisted bookkeeping. It is safe to call before Initialize.
	Reset(ctx context.Context) error

	// SetActiveBackend validates and installs desc as the active backend and
	// persists it.
	SetActiveBackend(ctx context.Context, desc models.BackendDescriptor) error

	// ClearActiveBackend removes the active backend and its stored descriptor.
	ClearActiveBackend(ctx context.Context) error

	// Authenticate runs the handshake of the active backend and persists
	// credentials the backend refreshed on the way.
	Authenticate(ctx context.Context, ic adapter.InteractiveContext) (bool, error)

	// Rehydrate restores the persisted active backend without authenticating.
	// On false the active backend stays unset.
	Rehydrate(ctx context.Context) bool

	// ResolveConflict resolves the pending conflict with strategy.
	ResolveConflict(ctx context.Context, strategy models.ConflictStrategy) SyncResult

	// ResolveConflictWith resolves the pending conflict in favour of side.
	ResolveConflictWith(ctx context.Context, side models.ConflictSide) SyncResult

	// PendingConflict returns a copy of the unresolved conflict, or nil.
	PendingConflict() *models.ConflictCase

	// MarkPending records a local change that is not synced yet.
	MarkPending(ctx context.Context)

	// Cleanup deletes all but the newest keep remote records of the synced
	// data type.
	Cleanup(ctx context.Context, keep int) SyncResult

	// Status returns the current sync status.
	Status() models.SyncStatus

	// Metadata returns a snapshot of the bookkeeping, including the remote
	// quota when the backend reports it.
	Metadata(ctx context.Context) models.LocalSyncMetadata
}

// ClientSyncJob triggers [ClientSyncService.SyncNow] in the background and
// retries retryable failures.
type ClientSyncJob interface {
	// Start launches the job. Any previously running job is stopped first.
	Start(ctx context.Context) error

	// Trigger requests a sync as soon as possible. Requests arriving while a
	// sync is running are coalesced.
	Trigger()

	// Stop cancels the job and blocks until it has exited.
	Stop()
}

// AppInfoService exposes build metadata for the control API.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetBuildInfo(ctx context.Context) models.AppBuildInfo
}
