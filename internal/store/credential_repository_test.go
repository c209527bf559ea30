// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-pass-sync/internal/logger"
	"github.com/MKhiriev/go-pass-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCredentialRepo(db *DB) *credentialRepository {
	repo := NewCredentialRepository(db, logger.Nop()).(*credentialRepository)
	repo.now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }
	return repo
}

// ── sqlmock ─────────────────────────────────────────────────────────────────

func TestCredentialRepository_Put_Transaction(t *testing.T) {
	sqlDB, mock := newTestDB(t)
	repo := newTestCredentialRepo(newDBFromSQL(sqlDB))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO backend_descriptors")).
		WithArgs("WEBDAV", "backend/WEBDAV", `{"server_url":"https://dav"}`, int64(1_700_000_000_000)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO backend_credentials")).
		WithArgs("backend/WEBDAV", `{"password":"pw"}`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.Put(testContext(), models.BackendDescriptor{
		BackendType:    models.BackendWebDAV,
		CustomSettings: map[string]string{"server_url": "https://dav"},
		Credentials:    map[string]string{"password": "pw"},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepository_Put_RollsBackOnSecondStatement(t *testing.T) {
	sqlDB, mock := newTestDB(t)
	repo := newTestCredentialRepo(newDBFromSQL(sqlDB))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO backend_descriptors")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO backend_credentials")).
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err := repo.Put(testContext(), models.BackendDescriptor{BackendType: models.BackendPostgres})
	assert.ErrorIs(t, err, ErrExecutingStatement)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepository_Put_BeginFails(t *testing.T) {
	sqlDB, mock := newTestDB(t)
	repo := newTestCredentialRepo(newDBFromSQL(sqlDB))

	mock.ExpectBegin().WillReturnError(errors.New("locked"))

	err := repo.Put(testContext(), models.BackendDescriptor{BackendType: models.BackendPostgres})
	assert.ErrorIs(t, err, ErrBeginningTransaction)
}

func TestCredentialRepository_Get_NotFound(t *testing.T) {
	sqlDB, mock := newTestDB(t)
	repo := newTestCredentialRepo(newDBFromSQL(sqlDB))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT d.credentials_ref, d.custom_settings, c.secrets FROM backend_descriptors d")).
		WithArgs("SERVER").
		WillReturnRows(sqlmock.NewRows([]string{"credentials_ref", "custom_settings", "secrets"}))

	desc, err := repo.Get(testContext(), models.BackendServer)
	assert.Nil(t, desc)
	assert.ErrorIs(t, err, ErrDescriptorNotFound)
}

func TestCredentialRepository_Get_MissingSecrets(t *testing.T) {
	sqlDB, mock := newTestDB(t)
	repo := newTestCredentialRepo(newDBFromSQL(sqlDB))

	mock.ExpectQuery(regexp.QuoteMeta("FROM backend_descriptors d")).
		WithArgs("LOCAL_FOLDER").
		WillReturnRows(sqlmock.NewRows([]string{"credentials_ref", "custom_settings", "secrets"}).
			AddRow("backend/LOCAL_FOLDER", `{"path":"/mnt/usb"}`, nil))

	desc, err := repo.Get(testContext(), models.BackendLocalFolder)
	require.NoError(t, err)
	assert.Equal(t, "/mnt/usb", desc.CustomSettings["path"])
	assert.Empty(t, desc.Credentials)
}

func TestCredentialRepository_Get_CorruptedSettings(t *testing.T) {
	sqlDB, mock := newTestDB(t)
	repo := newTestCredentialRepo(newDBFromSQL(sqlDB))

	mock.ExpectQuery(regexp.QuoteMeta("FROM backend_descriptors d")).
		WillReturnRows(sqlmock.NewRows([]string{"credentials_ref", "custom_settings", "secrets"}).
			AddRow("r", `{not json`, nil))

	_, err := repo.Get(testContext(), models.BackendWebDAV)
	assert.ErrorIs(t, err, ErrCorruptedState)
}

func TestCredentialRepository_ClearAll(t *testing.T) {
	sqlDB, mock := newTestDB(t)
	repo := newTestCredentialRepo(newDBFromSQL(sqlDB))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM backend_credentials")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM backend_descriptors")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

	err := repo.ClearAll(testContext())
	assert.ErrorIs(t, err, ErrCommitingTransaction)
	require.NoError(t, mock.ExpectationsWereMet())
}

// ── sqlite ──────────────────────────────────────────────────────────────────

func TestCredentialRepository_SQLite_RoundTrip(t *testing.T) {
	ctx := testContext()
	repo := NewCredentialRepository(newSQLiteDB(t), logger.Nop())

	desc := models.BackendDescriptor{
		BackendType:    models.BackendServer,
		CredentialsRef: "server-main",
		CustomSettings: map[string]string{"server_url": "https://keeper.example", "login": "alice"},
		Credentials:    map[string]string{"password": "pw", "token": "jwt"},
	}
	require.NoError(t, repo.Put(ctx, desc))

	got, err := repo.Get(ctx, models.BackendServer)
	require.NoError(t, err)
	assert.Equal(t, desc, *got)

	// перезапись обновляет и настройки, и секреты
	desc.Credentials = map[string]string{"password": "new"}
	require.NoError(t, repo.Put(ctx, desc))
	got, err = repo.Get(ctx, models.BackendServer)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"password": "new"}, got.Credentials)

	require.NoError(t, repo.Clear(ctx, models.BackendServer))
	_, err = repo.Get(ctx, models.BackendServer)
	assert.ErrorIs(t, err, ErrDescriptorNotFound)

	// clearing twice is fine
	require.NoError(t, repo.Clear(ctx, models.BackendServer))
}

func TestCredentialRepository_SQLite_ClearAll(t *testing.T) {
	ctx := testContext()
	db := newSQLiteDB(t)
	repo := NewCredentialRepository(db, logger.Nop())

	for _, bt := range models.AllBackendTypes() {
		require.NoError(t, repo.Put(ctx, models.BackendDescriptor{
			BackendType: bt,
			Credentials: map[string]string{"k": bt.String()},
		}))
	}
	require.NoError(t, repo.ClearAll(ctx))

	for _, bt := range models.AllBackendTypes() {
		_, err := repo.Get(ctx, bt)
		assert.ErrorIs(t, err, ErrDescriptorNotFound, bt.String())
	}

	var secrets int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM backend_credentials").Scan(&secrets))
	assert.Zero(t, secrets)
}
