// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// SyncAction is the operation recorded by a history entry.
type SyncAction string

const (
	ActionUpload         SyncAction = "UPLOAD"
	ActionDownload       SyncAction = "DOWNLOAD"
	ActionDelete         SyncAction = "DELETE"
	ActionConflict       SyncAction = "CONFLICT"
	ActionCleanup        SyncAction = "CLEANUP"
	ActionTestConnection SyncAction = "TEST_CONNECTION"
)

// HistoryStatus is the outcome of a recorded operation.
type HistoryStatus string

const (
	HistorySuccess  HistoryStatus = "SUCCESS"
	HistoryError    HistoryStatus = "ERROR"
	HistoryConflict HistoryStatus = "CONFLICT"
)

// SyncHistoryEntry is a single line of the per-session operation history.
// Optional fields are nil when they do not apply to the action.
type SyncHistoryEntry struct {
	ID          string        `json:"id"`
	Timestamp   int64         `json:"timestamp"`
	Action      SyncAction    `json:"action"`
	Status      HistoryStatus `json:"status"`
	BackendType BackendType   `json:"backend_type"`
	DataType    SyncDataType  `json:"data_type"`
	DurationMs  *int64        `json:"duration_ms,omitempty"`
	SizeBytes   *int64        `json:"size_bytes,omitempty"`
	Message     *string       `json:"message,omitempty"`
}

// ErrorCategory groups error-log entries by the subsystem that failed.
type ErrorCategory string

const (
	CategoryUpload      ErrorCategory = "UPLOAD"
	CategoryDownload    ErrorCategory = "DOWNLOAD"
	CategoryDelete      ErrorCategory = "DELETE"
	CategoryConnection  ErrorCategory = "CONNECTION"
	CategoryCleanup     ErrorCategory = "CLEANUP"
	CategoryRehydration ErrorCategory = "REHYDRATION"
	CategoryGeneral     ErrorCategory = "GENERAL"
)

// SyncErrorLogEntry is a single line of the error log.
type SyncErrorLogEntry struct {
	Message   string        `json:"message"`
	Category  ErrorCategory `json:"category"`
	Timestamp int64         `json:"timestamp"`
}

// LocalSyncMetadata is the snapshot of bookkeeping returned to callers.
// Status, BackendType, DeviceID and Quota are derived when the snapshot is taken.
type LocalSyncMetadata struct {
	LastSyncTimestamp           int64               `json:"last_sync_timestamp"`
	LastSuccessfulSyncTimestamp int64               `json:"last_successful_sync_timestamp"`
	PendingChanges              int                 `json:"pending_changes"`
	ConflictCount               int                 `json:"conflict_count"`
	SyncErrors                  []SyncErrorLogEntry `json:"sync_errors"`
	History                     []SyncHistoryEntry  `json:"history"`

	Status      SyncStatus    `json:"status"`
	BackendType BackendType   `json:"backend_type"`
	DeviceID    string        `json:"device_id"`
	Quota       *StorageQuota `json:"quota,omitempty"`
}
