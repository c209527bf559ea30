package store

import (
	"errors"
	"fmt"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-pass-sync/internal/logger"
	"github.com/MKhiriev/go-pass-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── sqlmock ─────────────────────────────────────────────────────────────────

func TestSyncStateRepository_LoadState(t *testing.T) {
	sqlDB, mock := newTestDB(t)
	repo := NewSyncStateRepository(newDBFromSQL(sqlDB), logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT key, value FROM sync_state WHERE key IN")).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).
			AddRow("device_id", "dev-1").
			AddRow("active_backend", "WEBDAV").
			AddRow("last_sync_timestamp", "1700").
			AddRow("pending_changes", "3"))

	state, err := repo.LoadState(testContext())
	require.NoError(t, err)
	assert.Equal(t, SyncState{
		DeviceID:          "dev-1",
		ActiveBackend:     models.BackendWebDAV,
		LastSyncTimestamp: 1700,
		PendingChanges:    3,
	}, state)
}

func TestSyncStateRepository_LoadState_Corrupted(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "backend", key: "active_backend", val: "FTP"},
		{name: "timestamp", key: "last_sync_timestamp", val: "yesterday"},
		{name: "counter", key: "conflict_count", val: "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sqlDB, mock := newTestDB(t)
			repo := NewSyncStateRepository(newDBFromSQL(sqlDB), logger.Nop())

			mock.ExpectQuery(regexp.QuoteMeta("FROM sync_state")).
				WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).AddRow(tt.key, tt.val))

			_, err := repo.LoadState(testContext())
			assert.ErrorIs(t, err, ErrCorruptedState)
		})
	}
}

func TestSyncStateRepository_SaveState_OneTransaction(t *testing.T) {
	sqlDB, mock := newTestDB(t)
	repo := NewSyncStateRepository(newDBFromSQL(sqlDB), logger.Nop())

	mock.ExpectBegin()
	for _, key := range stateKeys {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sync_state (key,value) VALUES (?,?)")).
			WithArgs(key, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, repo.SaveState(testContext(), SyncState{DeviceID: "d"}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncStateRepository_AppendHistory_Trims(t *testing.T) {
	sqlDB, mock := newTestDB(t)
	repo := NewSyncStateRepository(newDBFromSQL(sqlDB), logger.Nop())

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sync_history")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sync_history WHERE seq NOT IN")).
		WithArgs(10).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.AppendHistory(testContext(), models.SyncHistoryEntry{
		ID:       "h",
		Action:   models.ActionUpload,
		Status:   models.HistorySuccess,
		DataType: models.Vault,
	}, 10)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncStateRepository_History_QueryError(t *testing.T) {
	sqlDB, mock := newTestDB(t)
	repo := NewSyncStateRepository(newDBFromSQL(sqlDB), logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta("FROM sync_history")).WillReturnError(errors.New("boom"))

	_, err := repo.History(testContext(), 10)
	assert.ErrorIs(t, err, ErrExecutingQuery)
}

// ── sqlite ──────────────────────────────────────────────────────────────────

func TestSyncStateRepository_SQLite_StateRoundTrip(t *testing.T) {
	ctx := testContext()
	repo := NewSyncStateRepository(newSQLiteDB(t), logger.Nop())

	empty, err := repo.LoadState(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncState{}, empty)

	state := SyncState{
		DeviceID:                    "device-1",
		ActiveBackend:               models.BackendLocalFolder,
		LastSyncTimestamp:           1_700_000_000_500,
		LastSuccessfulSyncTimestamp: 1_700_000_000_000,
		PendingChanges:              2,
		ConflictCount:               1,
	}
	require.NoError(t, repo.SaveState(ctx, state))

	got, err := repo.LoadState(ctx)
	require.NoError(t, err)
	assert.Equal(t, state, got)

	state.ActiveBackend = models.BackendNone
	require.NoError(t, repo.SaveState(ctx, state))
	got, err = repo.LoadState(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.BackendNone, got.ActiveBackend)
}

func TestSyncStateRepository_SQLite_RingBound(t *testing.T) {
	ctx := testContext()
	repo := NewSyncStateRepository(newSQLiteDB(t), logger.Nop())

	for i := 1; i <= 15; i++ {
		msg := fmt.Sprintf("op %d", i)
		require.NoError(t, repo.AppendHistory(ctx, models.SyncHistoryEntry{
			ID:          fmt.Sprintf("h%d", i),
			Timestamp:   int64(i),
			Action:      models.ActionUpload,
			Status:      models.HistoryError,
			BackendType: models.BackendWebDAV,
			DataType:    models.Settings,
			Message:     &msg,
		}, 10))
		require.NoError(t, repo.AppendError(ctx, models.SyncErrorLogEntry{
			Message:   msg,
			Category:  models.CategoryUpload,
			Timestamp: int64(i),
		}, 10))
	}

	history, err := repo.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 10)
	// most recent first: 15..6
	for idx, e := range history {
		assert.Equal(t, int64(15-idx), e.Timestamp)
		require.NotNil(t, e.Message)
		assert.Equal(t, fmt.Sprintf("op %d", 15-idx), *e.Message)
		assert.Nil(t, e.DurationMs)
		assert.Equal(t, models.Settings, e.DataType)
	}

	errs, err := repo.Errors(ctx, 100)
	require.NoError(t, err)
	require.Len(t, errs, 10)
	assert.Equal(t, int64(15), errs[0].Timestamp)
	assert.Equal(t, int64(6), errs[9].Timestamp)
}

func TestSyncStateRepository_SQLite_WipeKeepsDeviceAndSalt(t *testing.T) {
	ctx := testContext()
	repo := NewSyncStateRepository(newSQLiteDB(t), logger.Nop())

	require.NoError(t, repo.SaveState(ctx, SyncState{
		DeviceID:          "keep-me",
		ActiveBackend:     models.BackendPostgres,
		LastSyncTimestamp: 99,
		ConflictCount:     4,
	}))
	require.NoError(t, repo.SetKeySalt(ctx, []byte{0xde, 0xad, 0xbe, 0xef}))
	require.NoError(t, repo.AppendHistory(ctx, models.SyncHistoryEntry{
		ID: "h", Action: models.ActionDownload, Status: models.HistorySuccess, DataType: models.Vault,
	}, 10))
	require.NoError(t, repo.AppendError(ctx, models.SyncErrorLogEntry{Message: "x", Category: models.CategoryGeneral}, 10))

	require.NoError(t, repo.Wipe(ctx))

	state, err := repo.LoadState(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncState{DeviceID: "keep-me"}, state)

	salt, err := repo.GetKeySalt(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, salt)

	history, err := repo.History(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, history)
	errs, err := repo.Errors(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestSyncStateRepository_SQLite_NoSalt(t *testing.T) {
	salt, err := NewSyncStateRepository(newSQLiteDB(t), logger.Nop()).GetKeySalt(testContext())
	require.NoError(t, err)
	assert.Nil(t, salt)
}
