package service

import (
	"context"
	"errors"
	"testing"

	"github.com/MKhiriev/go-pass-sync/internal/adapter"
	"github.com/MKhiriev/go-pass-sync/internal/mock"
	"github.com/MKhiriev/go-pass-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var errDiskFull = errors.New("disk full")

// ── Credential store failures reach the error log ────────────────────────────

func TestSetActiveBackend_StoreFailureRecorded(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	d := newDevice(t, newMemBackend())
	require.NoError(t, d.svc.Initialize(ctx))

	creds := mock.NewMockCredentialStore(ctrl)
	creds.EXPECT().Put(gomock.Any(), gomock.Any()).Return(errDiskFull)
	d.svc.credentials = creds

	err := d.svc.SetActiveBackend(ctx, localFolderDesc(d.dir))
	require.ErrorIs(t, err, errDiskFull)

	md := d.svc.Metadata(ctx)
	require.Len(t, md.SyncErrors, 1)
	assert.Equal(t, models.CategoryConnection, md.SyncErrors[0].Category)
	assert.Contains(t, md.SyncErrors[0].Message, "disk full")
	assert.Equal(t, models.BackendNone, md.BackendType)
}

func TestClearActiveBackend_StoreFailureRecorded(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	d := newReadyDevice(t, newMemBackend())

	creds := mock.NewMockCredentialStore(ctrl)
	creds.EXPECT().Clear(gomock.Any(), models.BackendLocalFolder).Return(errDiskFull)
	d.svc.credentials = creds

	err := d.svc.ClearActiveBackend(ctx)
	require.ErrorIs(t, err, errDiskFull)

	md := d.svc.Metadata(ctx)
	require.Len(t, md.SyncErrors, 1)
	assert.Equal(t, models.CategoryConnection, md.SyncErrors[0].Category)
}

func TestAuthenticate_PersistFailureRecorded(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	backend := newMemBackend()
	backend.creds = map[string]string{adapter.FieldToken: "fresh-token"}
	d := newReadyDevice(t, backend)

	creds := mock.NewMockCredentialStore(ctrl)
	creds.EXPECT().Put(gomock.Any(), gomock.Any()).Return(errDiskFull)
	d.svc.credentials = creds

	ok, err := d.svc.Authenticate(ctx, nil)
	assert.True(t, ok)
	require.ErrorIs(t, err, errDiskFull)

	md := d.svc.Metadata(ctx)
	require.Len(t, md.SyncErrors, 1)
	assert.Contains(t, md.SyncErrors[0].Message, "persist credentials")
}

func TestReset_StoreFailureRecorded(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	d := newReadyDevice(t, newMemBackend())

	creds := mock.NewMockCredentialStore(ctrl)
	creds.EXPECT().ClearAll(gomock.Any()).Return(errDiskFull)
	d.svc.credentials = creds

	err := d.svc.Reset(ctx)
	require.ErrorIs(t, err, errDiskFull)

	md := d.svc.Metadata(ctx)
	require.Len(t, md.SyncErrors, 1)
	assert.Equal(t, models.CategoryGeneral, md.SyncErrors[0].Category)
	assert.Contains(t, md.SyncErrors[0].Message, "clear credentials")
}
