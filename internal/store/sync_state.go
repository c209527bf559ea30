package store

import "github.com/MKhiriev/go-pass-sync/models"

// SyncState is the scalar part of the engine bookkeeping persisted in the
// sync_state key-value table.
type SyncState struct {
	DeviceID                    string
	ActiveBackend               models.BackendType
	LastSyncTimestamp           int64
	LastSuccessfulSyncTimestamp int64
	PendingChanges              int
	ConflictCount               int
}

const (
	keyDeviceID           = "device_id"
	keyActiveBackend      = "active_backend"
	keyLastSync           = "last_sync_timestamp"
	keyLastSuccessfulSync = "last_successful_sync_timestamp"
	keyPendingChanges     = "pending_changes"
	keyConflictCount      = "conflict_count"
	keyKeySalt            = "key_salt"
)

// stateKeys lists the keys written by SaveState, in write order.
var stateKeys = []string{
	keyDeviceID,
	keyActiveBackend,
	keyLastSync,
	keyLastSuccessfulSync,
	keyPendingChanges,
	keyConflictCount,
}

// keysSurvivingWipe are kept by SyncStateStore.Wipe.
var keysSurvivingWipe = []string{keyDeviceID, keyKeySalt}
