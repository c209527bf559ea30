package http

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-pass-sync/internal/adapter"
	"github.com/MKhiriev/go-pass-sync/internal/config"
	"github.com/MKhiriev/go-pass-sync/internal/logger"
	"github.com/MKhiriev/go-pass-sync/internal/service"
	"github.com/MKhiriev/go-pass-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// Stubs
// ─────────────────────────────────────────────

// stubSyncService implements service.ClientSyncService with canned answers
// and records what the handlers passed in.
type stubSyncService struct {
	mu sync.Mutex

	status   models.SyncStatus
	conflict *models.ConflictCase
	metadata models.LocalSyncMetadata
	result   service.SyncResult
	settings []byte
	connOK   bool
	err      error

	// authenticate is called by Authenticate when set.
	authenticate func(ctx context.Context, ic adapter.InteractiveContext) (bool, error)

	gotPayload  []byte
	gotStrategy models.ConflictStrategy
	gotSide     models.ConflictSide
	gotKeep     int
	gotDesc     models.BackendDescriptor
	calls       map[string]int
}

func (s *stubSyncService) called(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = map[string]int{}
	}
	s.calls[name]++
}

func (s *stubSyncService) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *stubSyncService) Initialize(_ context.Context) error {
	s.called("Initialize")
	return s.err
}

func (s *stubSyncService) SyncSettings(_ context.Context, payload []byte) service.SyncResult {
	s.called("SyncSettings")
	s.gotPayload = payload
	return s.result
}

func (s *stubSyncService) DownloadSettings(_ context.Context) []byte {
	s.called("DownloadSettings")
	return s.settings
}

func (s *stubSyncService) PerformFullSync(_ context.Context, payload []byte) service.SyncResult {
	s.called("PerformFullSync")
	s.gotPayload = payload
	return s.result
}

func (s *stubSyncService) SyncNow(_ context.Context) service.SyncResult {
	s.called("SyncNow")
	return s.result
}

func (s *stubSyncService) TestConnection(_ context.Context) bool {
	s.called("TestConnection")
	return s.connOK
}

func (s *stubSyncService) Reset(_ context.Context) error {
	s.called("Reset")
	return s.err
}

func (s *stubSyncService) SetActiveBackend(_ context.Context, desc models.BackendDescriptor) error {
	s.called("SetActiveBackend")
	s.gotDesc = models.BackendDescriptor{
		BackendType:    desc.BackendType,
		CredentialsRef: desc.CredentialsRef,
		Credentials:    copyMap(desc.Credentials),
		CustomSettings: copyMap(desc.CustomSettings),
	}
	return s.err
}

func (s *stubSyncService) ClearActiveBackend(_ context.Context) error {
	s.called("ClearActiveBackend")
	return s.err
}

func (s *stubSyncService) Authenticate(ctx context.Context, ic adapter.InteractiveContext) (bool, error) {
	s.called("Authenticate")
	if s.authenticate != nil {
		return s.authenticate(ctx, ic)
	}
	return s.connOK, s.err
}

func (s *stubSyncService) Rehydrate(_ context.Context) bool {
	s.called("Rehydrate")
	return s.err == nil
}

func (s *stubSyncService) ResolveConflict(_ context.Context, strategy models.ConflictStrategy) service.SyncResult {
	s.called("ResolveConflict")
	s.gotStrategy = strategy
	return s.result
}

func (s *stubSyncService) ResolveConflictWith(_ context.Context, side models.ConflictSide) service.SyncResult {
	s.called("ResolveConflictWith")
	s.gotSide = side
	return s.result
}

func (s *stubSyncService) PendingConflict() *models.ConflictCase {
	return s.conflict
}

func (s *stubSyncService) MarkPending(_ context.Context) {
	s.called("MarkPending")
}

func (s *stubSyncService) Cleanup(_ context.Context, keep int) service.SyncResult {
	s.called("Cleanup")
	s.gotKeep = keep
	return s.result
}

func (s *stubSyncService) Status() models.SyncStatus {
	return s.status
}

func (s *stubSyncService) Metadata(_ context.Context) models.LocalSyncMetadata {
	return s.metadata
}

func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type stubSyncJob struct {
	triggers int
}

func (j *stubSyncJob) Start(_ context.Context) error { return nil }

func (j *stubSyncJob) Trigger() { j.triggers++ }

func (j *stubSyncJob) Stop() {}

// mockAppInfoService implements service.AppInfoService for testing.
type mockAppInfoService struct {
	version string
	build   models.AppBuildInfo
}

func (m *mockAppInfoService) GetAppVersion(_ context.Context) string {
	return m.version
}

func (m *mockAppInfoService) GetBuildInfo(_ context.Context) models.AppBuildInfo {
	return m.build
}

func newStubServices(syncSvc *stubSyncService) *service.ClientServices {
	return &service.ClientServices{
		SyncService: syncSvc,
		SyncJob:     &stubSyncJob{},
		AppInfo:     &mockAppInfoService{version: "test-version"},
	}
}

// ─────────────────────────────────────────────
// NewHandler
// ─────────────────────────────────────────────

func TestNewHandler_StoresDependencies(t *testing.T) {
	svcs := newStubServices(&stubSyncService{})
	log := logger.Nop()

	h := NewHandler(svcs, config.ClientControl{Token: "t", RequestTimeout: time.Second}, log)

	require.NotNil(t, h)
	assert.Equal(t, svcs, h.services)
	assert.Equal(t, log, h.logger)
	assert.Equal(t, "t", h.token)
	assert.Equal(t, time.Second, h.requestTimeout)
	assert.Nil(t, h.consent)
}

func TestNewHandler_IndependentInstances(t *testing.T) {
	svcs := newStubServices(&stubSyncService{})
	h1 := NewHandler(svcs, config.ClientControl{}, logger.Nop())
	h2 := NewHandler(svcs, config.ClientControl{}, logger.Nop())

	assert.NotSame(t, h1, h2)
}
