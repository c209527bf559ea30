package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/MKhiriev/go-pass-sync/internal/adapter"
	"github.com/MKhiriev/go-pass-sync/internal/crypto"
	"github.com/MKhiriev/go-pass-sync/internal/envelope"
	"github.com/MKhiriev/go-pass-sync/internal/logger"
	"github.com/MKhiriev/go-pass-sync/internal/store"
	"github.com/MKhiriev/go-pass-sync/internal/utils"
	"github.com/MKhiriev/go-pass-sync/models"
)

type idGenerator interface {
	Generate() string
}

// clientSyncService is the default [ClientSyncService].
//
// State is guarded by mu. Network and crypto calls run outside mu on a
// session snapshot; their results are committed only if the generation
// taken with the snapshot is still current. opMu serializes the sync
// operations. Backend switches and Reset do not wait for it; they bump the
// generation instead.
type clientSyncService struct {
	credentials store.CredentialStore
	state       store.SyncStateStore
	vault       store.VaultSource
	keys        crypto.KeyProvider
	sealer      *envelope.Sealer
	resolver    ConflictResolver
	rehydrator  *Rehydrator
	dataType    models.SyncDataType
	backendOpts []adapter.Option
	newBackend  func(models.BackendDescriptor, ...adapter.Option) (adapter.Backend, error)
	ids         idGenerator
	now         func() time.Time
	logger      *logger.Logger

	opMu sync.Mutex

	mu             sync.Mutex
	loaded         bool
	key            *crypto.KeyHandle
	deviceID       string
	activeType     models.BackendType
	backend        adapter.Backend
	descriptor     *models.BackendDescriptor
	generation     uint64
	status         models.SyncStatus
	conflict       *models.ConflictCase
	lastSync       int64
	lastSuccess    int64
	pending        int
	conflicts      int
	syncedChecksum string
	history        *ring[models.SyncHistoryEntry]
	errorLog       *ring[models.SyncErrorLogEntry]
}

// NewClientSyncService builds the engine for one vault session. The engine is
// idle until Initialize; backends are installed by Rehydrate or
// SetActiveBackend.
func NewClientSyncService(
	storages *store.ClientStorages,
	keys crypto.KeyProvider,
	engine crypto.Engine,
	dataType models.SyncDataType,
	logger *logger.Logger,
	opts ...adapter.Option,
) ClientSyncService {
	return &clientSyncService{
		credentials: storages.Credentials,
		state:       storages.SyncState,
		vault:       storages.Vault,
		keys:        keys,
		sealer:      envelope.NewSealer(engine),
		resolver:    NewConflictResolver(),
		rehydrator:  NewRehydrator(storages.Credentials, storages.SyncState, opts...),
		dataType:    dataType,
		backendOpts: opts,
		newBackend:  adapter.NewBackend,
		ids:         utils.NewUUIDGenerator(),
		now:         time.Now,
		logger:      logger,
		status:      models.StatusNeverSynced,
		history:     newRing[models.SyncHistoryEntry](historyCapacity),
		errorLog:    newRing[models.SyncErrorLogEntry](historyCapacity),
	}
}

// session is the snapshot an operation works on outside the lock.
type session struct {
	backend     adapter.Backend
	backendType models.BackendType
	key         *crypto.KeyHandle
	deviceID    string
	generation  uint64
	lastSync    int64
	floor       int64
	checksum    string
}

// ── Lifecycle ───────────────────────────────────────────────────────────────

func (s *clientSyncService) Initialize(ctx context.Context) error {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		log.Err(err).Str("func", "clientSyncService.Initialize").Msg("failed to load sync state")
		return fmt.Errorf("%w: %w", ErrNotInitialized, err)
	}
	if s.key.Alive() {
		return nil
	}

	key, err := s.keys.ObtainKey(ctx)
	if err != nil {
		log.Err(err).Str("func", "clientSyncService.Initialize").Msg("failed to obtain vault key")
		s.recordErrorLocked(ctx, models.CategoryGeneral, "obtain vault key: "+err.Error())
		return fmt.Errorf("%w: %w", ErrNotInitialized, err)
	}
	s.key = key

	log.Info().
		Str("func", "clientSyncService.Initialize").
		Str("device_id", s.deviceID).
		Str("status", string(s.status)).
		Msg("sync engine initialized")
	return nil
}

// ensureLoadedLocked reads the persisted bookkeeping once per session and
// generates the device id on first run.
func (s *clientSyncService) ensureLoadedLocked(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	st, err := s.state.LoadState(ctx)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	history, err := s.state.History(ctx, historyCapacity)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	errorLog, err := s.state.Errors(ctx, historyCapacity)
	if err != nil {
		return fmt.Errorf("load error log: %w", err)
	}

	generated := false
	if st.DeviceID == "" {
		st.DeviceID = s.ids.Generate()
		generated = true
	}

	s.deviceID = st.DeviceID
	s.activeType = st.ActiveBackend
	s.lastSync = st.LastSyncTimestamp
	s.lastSuccess = st.LastSuccessfulSyncTimestamp
	s.pending = st.PendingChanges
	s.conflicts = st.ConflictCount
	s.history.load(history)
	s.errorLog.load(errorLog)
	if s.status == models.StatusNeverSynced && st.LastSyncTimestamp > 0 {
		s.status = models.StatusPending
	}
	s.loaded = true

	if generated {
		s.saveStateLocked(ctx)
	}
	return nil
}

func (s *clientSyncService) Reset(ctx context.Context) error {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	s.generation++
	key, backend, desc := s.key, s.backend, s.descriptor
	s.key, s.backend, s.descriptor = nil, nil, nil
	s.loaded = false
	s.activeType = models.BackendNone
	s.conflict = nil
	s.lastSync, s.lastSuccess = 0, 0
	s.pending, s.conflicts = 0, 0
	s.syncedChecksum = ""
	s.history.clear()
	s.errorLog.clear()
	s.status = models.StatusPending

	var errs []error
	if err := s.state.Wipe(ctx); err != nil {
		errs = append(errs, fmt.Errorf("wipe sync state: %w", err))
	}
	if err := s.credentials.ClearAll(ctx); err != nil {
		errs = append(errs, fmt.Errorf("clear credentials: %w", err))
	}
	if len(errs) > 0 {
		s.recordErrorLocked(ctx, models.CategoryGeneral, "reset: "+errors.Join(errs...).Error())
	}
	s.mu.Unlock()

	// blocks until in-flight seal/open calls release the key
	key.Wipe()
	if backend != nil {
		if err := backend.Close(); err != nil {
			log.Warn().Err(err).Str("func", "clientSyncService.Reset").Msg("failed to close backend")
		}
	}
	if desc != nil {
		desc.Wipe()
	}

	log.Info().Str("func", "clientSyncService.Reset").Msg("sync session reset")
	return errors.Join(errs...)
}

// ── Backend management ──────────────────────────────────────────────────────

func (s *clientSyncService) SetActiveBackend(ctx context.Context, desc models.BackendDescriptor) error {
	log := logger.FromContext(ctx)

	desc = cloneDescriptor(desc)
	if err := adapter.Validate(desc); err != nil {
		s.withLock(func() {
			s.recordErrorLocked(ctx, models.CategoryConnection, "configure backend: "+err.Error())
		})
		return err
	}

	backend, err := s.newBackend(desc, s.backendOpts...)
	if err != nil {
		s.withLock(func() {
			s.recordErrorLocked(ctx, models.CategoryConnection, "construct backend: "+err.Error())
		})
		return err
	}
	if err = s.credentials.Put(ctx, desc); err != nil {
		_ = backend.Close()
		err = fmt.Errorf("store backend descriptor: %w", err)
		s.withLock(func() {
			s.recordErrorLocked(ctx, models.CategoryConnection, err.Error())
		})
		return err
	}

	s.mu.Lock()
	if err = s.ensureLoadedLocked(ctx); err != nil {
		log.Err(err).Str("func", "clientSyncService.SetActiveBackend").Msg("failed to load sync state")
	}
	old, oldDesc := s.backend, s.descriptor
	s.backend = backend
	s.descriptor = &desc
	s.activeType = desc.BackendType
	s.generation++
	s.conflict = nil
	s.syncedChecksum = ""
	if s.status != models.StatusNeverSynced {
		s.status = models.StatusPending
	}
	s.saveStateLocked(ctx)
	s.mu.Unlock()

	closeReplaced(ctx, old, oldDesc)

	log.Info().
		Str("func", "clientSyncService.SetActiveBackend").
		Str("backend_type", desc.BackendType.String()).
		Msg("active backend set")
	return nil
}

func (s *clientSyncService) ClearActiveBackend(ctx context.Context) error {
	s.mu.Lock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "clientSyncService.ClearActiveBackend").Msg("failed to load sync state")
	}
	old, oldDesc, activeType := s.backend, s.descriptor, s.activeType
	s.backend, s.descriptor = nil, nil
	s.activeType = models.BackendNone
	s.generation++
	s.conflict = nil
	s.syncedChecksum = ""
	if s.status != models.StatusNeverSynced {
		s.status = models.StatusPending
	}
	s.saveStateLocked(ctx)
	s.mu.Unlock()

	var err error
	if activeType != models.BackendNone {
		if err = s.credentials.Clear(ctx, activeType); err != nil {
			err = fmt.Errorf("clear backend descriptor: %w", err)
			s.withLock(func() {
				s.recordErrorLocked(ctx, models.CategoryConnection, err.Error())
			})
		}
	}
	closeReplaced(ctx, old, oldDesc)
	return err
}

// Rehydrate waits for the running sync operation, if any, before swapping
// the backend in.
func (s *clientSyncService) Rehydrate(ctx context.Context) bool {
	log := logger.FromContext(ctx)

	s.opMu.Lock()
	defer s.opMu.Unlock()

	backend, desc, err := s.rehydrator.Rehydrate(ctx)

	s.mu.Lock()
	if lerr := s.ensureLoadedLocked(ctx); lerr != nil {
		log.Err(lerr).Str("func", "clientSyncService.Rehydrate").Msg("failed to load sync state")
	}
	old, oldDesc := s.backend, s.descriptor
	s.backend, s.descriptor = backend, desc
	s.generation++
	if s.status == models.StatusSyncing {
		s.status = models.StatusPending
	}
	if err != nil {
		s.recordErrorLocked(ctx, models.CategoryRehydration, err.Error())
	}
	s.mu.Unlock()

	closeReplaced(ctx, old, oldDesc)

	if err != nil {
		log.Warn().Err(err).Str("func", "clientSyncService.Rehydrate").Msg("backend rehydration failed")
		return false
	}
	return true
}

func (s *clientSyncService) Authenticate(ctx context.Context, ic adapter.InteractiveContext) (bool, error) {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	backend, gen := s.backend, s.generation
	if backend == nil {
		s.recordErrorLocked(ctx, models.CategoryConnection, ErrNotConfigured.Error())
		s.mu.Unlock()
		return false, ErrNotConfigured
	}
	s.mu.Unlock()

	ok, err := backend.Authenticate(ctx, ic)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return false, ErrSuperseded
	}
	if err != nil {
		s.recordErrorLocked(ctx, models.CategoryConnection, "authenticate: "+err.Error())
		return false, err
	}
	if !ok {
		s.recordErrorLocked(ctx, models.CategoryConnection, "authentication denied")
		return false, nil
	}

	if cp, isProvider := backend.(adapter.CredentialProvider); isProvider && s.descriptor != nil {
		if s.descriptor.Credentials == nil {
			s.descriptor.Credentials = map[string]string{}
		}
		for k, v := range cp.Credentials() {
			s.descriptor.Credentials[k] = v
		}
		if err = s.credentials.Put(ctx, *s.descriptor); err != nil {
			log.Err(err).Str("func", "clientSyncService.Authenticate").Msg("failed to persist refreshed credentials")
			err = fmt.Errorf("persist credentials: %w", err)
			s.recordErrorLocked(ctx, models.CategoryConnection, err.Error())
			return true, err
		}
	}

	log.Info().
		Str("func", "clientSyncService.Authenticate").
		Str("backend_type", backend.Type().String()).
		Msg("backend authenticated")
	return true, nil
}

// ── Sync operations ─────────────────────────────────────────────────────────

func (s *clientSyncService) SyncSettings(ctx context.Context, payload []byte) SyncResult {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	sess, res, ok := s.begin(ctx, true)
	if !ok {
		return res
	}
	return s.upload(ctx, sess, payload, sess.floor)
}

func (s *clientSyncService) PerformFullSync(ctx context.Context, localPayload []byte) SyncResult {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	sess, res, ok := s.begin(ctx, true)
	if !ok {
		return res
	}
	return s.fullSync(ctx, sess, localPayload, s.now().UnixMilli(), false)
}

func (s *clientSyncService) SyncNow(ctx context.Context) SyncResult {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if s.vault == nil {
		return s.sessionFailure(ctx, newSyncError(KindNotConfigured, errors.New("no local vault configured")))
	}

	sess, res, ok := s.begin(ctx, true)
	if !ok {
		return res
	}

	payload, err := s.vault.Load(ctx)
	if errors.Is(err, store.ErrVaultNotFound) {
		return s.restore(ctx, sess)
	}
	if err != nil {
		return s.abort(ctx, sess, models.CategoryGeneral, err)
	}

	localTS := s.now().UnixMilli()
	if mod, err := s.vault.ModTime(ctx); err == nil {
		localTS = mod.UnixMilli()
	}
	return s.fullSync(ctx, sess, payload, localTS, true)
}

// fullSync compares the newest remote record with the last sync and either
// uploads payload or reports a conflict. With skipUnchanged an upload of the
// payload that is already the newest remote record is skipped.
func (s *clientSyncService) fullSync(ctx context.Context, sess session, payload []byte, localTS int64, skipUnchanged bool) SyncResult {
	log := logger.FromContext(ctx)

	remote, err := s.fetchNewest(ctx, sess.backend)
	switch {
	case errors.Is(err, ErrNoRemoteRecord):
		// first write wins
		return s.upload(ctx, sess, payload, sess.floor)
	case err != nil:
		return s.fail(ctx, sess, models.ActionDownload, err, nil)
	}

	if remote.record.LogicalTimestamp <= sess.lastSync {
		if skipUnchanged && remote.record.LogicalTimestamp == sess.lastSync && checksum(payload) == sess.checksum {
			log.Debug().Str("func", "clientSyncService.fullSync").Msg("local payload unchanged, upload skipped")
			return s.markInSync(ctx, sess, remote.name)
		}
		return s.upload(ctx, sess, payload, max(sess.floor, remote.record.LogicalTimestamp))
	}

	localRecord, err := s.seal(sess, payload, localTS)
	if err != nil {
		return s.fail(ctx, sess, models.ActionConflict, err, nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess.generation != s.generation {
		return s.superseded(ctx)
	}

	c := models.ConflictCase{LocalVersion: localRecord, RemoteVersion: remote.record}
	if s.conflict != nil && s.conflict.RemoteVersion.ID == remote.record.ID {
		// same divergence seen again: refresh the local side only
		s.conflict = &c
		s.status = models.StatusConflict
		s.saveStateLocked(ctx)
		log.Debug().Str("func", "clientSyncService.fullSync").Str("remote", remote.name).Msg("conflict still pending")
		return conflictResult(c)
	}
	s.conflict = &c
	s.conflicts++
	s.status = models.StatusConflict

	entry := s.newEntryLocked(models.ActionConflict, models.HistoryConflict, sess.backendType)
	entry.SizeBytes = ptr(int64(remote.size))
	entry.Message = ptr(fmt.Sprintf("remote record %s (%d) is newer than last sync (%d)",
		remote.name, remote.record.LogicalTimestamp, sess.lastSync))
	s.appendHistoryLocked(ctx, entry)
	s.saveStateLocked(ctx)

	log.Info().
		Str("func", "clientSyncService.fullSync").
		Int64("remote_ts", remote.record.LogicalTimestamp).
		Int64("last_sync", sess.lastSync).
		Msg("sync conflict detected")
	return conflictResult(c)
}

// upload seals payload with a logical timestamp above floor and uploads it.
func (s *clientSyncService) upload(ctx context.Context, sess session, payload []byte, floor int64) SyncResult {
	log := logger.FromContext(ctx)

	start := s.now()
	record, err := s.seal(sess, payload, nextTimestamp(start.UnixMilli(), floor))
	if err != nil {
		return s.fail(ctx, sess, models.ActionUpload, err, nil)
	}
	data, err := envelope.Encode(record)
	if err != nil {
		return s.fail(ctx, sess, models.ActionUpload, err, nil)
	}

	name := envelope.RecordFileName(record)
	handle, err := sess.backend.Upload(ctx, name, data)
	if err == nil && handle == "" {
		err = fmt.Errorf("upload %s: %w", name, adapter.ErrEmptyHandle)
	}
	duration := s.now().Sub(start).Milliseconds()
	if err != nil {
		return s.fail(ctx, sess, models.ActionUpload, err, &duration)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess.generation != s.generation {
		return s.superseded(ctx)
	}

	s.status = models.StatusSynced
	s.lastSync = record.LogicalTimestamp
	s.lastSuccess = s.now().UnixMilli()
	s.pending = 0
	s.conflict = nil
	s.conflicts = 0
	s.syncedChecksum = record.PlaintextChecksum

	entry := s.newEntryLocked(models.ActionUpload, models.HistorySuccess, sess.backendType)
	entry.DurationMs = &duration
	entry.SizeBytes = ptr(int64(len(data)))
	s.appendHistoryLocked(ctx, entry)
	s.saveStateLocked(ctx)

	log.Info().
		Str("func", "clientSyncService.upload").
		Str("file", name).
		Str("handle", handle).
		Int("size", len(data)).
		Msg("record uploaded")
	return successResult(name)
}

// restore downloads the newest remote record into the missing local vault.
func (s *clientSyncService) restore(ctx context.Context, sess session) SyncResult {
	start := s.now()
	remote, err := s.fetchNewest(ctx, sess.backend)
	if err != nil {
		return s.fail(ctx, sess, models.ActionDownload, err, nil)
	}
	return s.applyRemote(ctx, sess, remote.record, remote.size, start)
}

// applyRemote opens record, writes it into the local vault and makes it the
// new sync baseline.
func (s *clientSyncService) applyRemote(ctx context.Context, sess session, record models.SyncRecord, size int, start time.Time) SyncResult {
	plain, err := s.open(sess, record)
	if err == nil && s.vault != nil {
		err = s.vault.Apply(ctx, plain)
	}
	duration := s.now().Sub(start).Milliseconds()
	if err != nil {
		return s.fail(ctx, sess, models.ActionDownload, err, &duration)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess.generation != s.generation {
		return s.superseded(ctx)
	}

	s.status = models.StatusSynced
	s.lastSync = record.LogicalTimestamp
	s.lastSuccess = s.now().UnixMilli()
	s.pending = 0
	s.conflict = nil
	s.conflicts = 0
	s.syncedChecksum = record.PlaintextChecksum

	entry := s.newEntryLocked(models.ActionDownload, models.HistorySuccess, sess.backendType)
	entry.DurationMs = &duration
	if size > 0 {
		entry.SizeBytes = ptr(int64(size))
	}
	s.appendHistoryLocked(ctx, entry)
	s.saveStateLocked(ctx)

	res := successResult(envelope.RecordFileName(record))
	res.Side = models.SideRemote
	res.Payload = plain
	return res
}

// markInSync commits a sync that needed no transfer.
func (s *clientSyncService) markInSync(ctx context.Context, sess session, name string) SyncResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess.generation != s.generation {
		return s.superseded(ctx)
	}
	s.status = models.StatusSynced
	s.lastSuccess = s.now().UnixMilli()
	if s.pending != 0 {
		s.pending = 0
		s.saveStateLocked(ctx)
	}
	return successResult(name)
}

func (s *clientSyncService) DownloadSettings(ctx context.Context) []byte {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	sess, serr := s.acquireLocked(ctx, true)
	if serr != nil {
		s.recordErrorLocked(ctx, models.CategoryDownload, serr.Error())
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	start := s.now()
	remote, err := s.fetchNewest(ctx, sess.backend)
	var plain []byte
	if err == nil {
		plain, err = s.open(sess, remote.record)
	}
	duration := s.now().Sub(start).Milliseconds()

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess.generation != s.generation {
		return nil
	}

	if err != nil {
		se := classifyError(err)
		entry := s.newEntryLocked(models.ActionDownload, models.HistoryError, sess.backendType)
		entry.DurationMs = &duration
		entry.Message = ptr(se.Error())
		s.appendHistoryLocked(ctx, entry)
		log.Warn().Err(err).Str("func", "clientSyncService.DownloadSettings").Msg("download failed")
		return nil
	}

	entry := s.newEntryLocked(models.ActionDownload, models.HistorySuccess, sess.backendType)
	entry.DurationMs = &duration
	entry.SizeBytes = ptr(int64(remote.size))
	s.appendHistoryLocked(ctx, entry)
	return plain
}

// ── Conflicts ───────────────────────────────────────────────────────────────

func (s *clientSyncService) ResolveConflict(ctx context.Context, strategy models.ConflictStrategy) SyncResult {
	return s.resolve(ctx, func(c models.ConflictCase) (models.SyncRecord, models.ConflictSide) {
		return s.resolver.Resolve(strategy, c)
	})
}

func (s *clientSyncService) ResolveConflictWith(ctx context.Context, side models.ConflictSide) SyncResult {
	return s.resolve(ctx, func(c models.ConflictCase) (models.SyncRecord, models.ConflictSide) {
		return s.resolver.ResolveWith(c, side), side
	})
}

func (s *clientSyncService) resolve(ctx context.Context, pick func(models.ConflictCase) (models.SyncRecord, models.ConflictSide)) SyncResult {
	log := logger.FromContext(ctx)

	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	if s.conflict == nil {
		se := newSyncError(KindInvalidState, ErrNoPendingConflict)
		s.recordErrorLocked(ctx, models.CategoryGeneral, se.Error())
		s.mu.Unlock()
		return errorResult(se)
	}
	c := *s.conflict
	s.mu.Unlock()

	sess, res, ok := s.begin(ctx, true)
	if !ok {
		return res
	}

	winner, side := pick(c)
	log.Info().
		Str("func", "clientSyncService.resolve").
		Str("side", string(side)).
		Str("record", winner.ID).
		Msg("resolving conflict")

	if side == models.SideRemote {
		return s.applyRemote(ctx, sess, winner, 0, s.now())
	}

	plain, err := s.open(sess, winner)
	if err != nil {
		return s.fail(ctx, sess, models.ActionUpload, err, nil)
	}
	res = s.upload(ctx, sess, plain, max(sess.floor, c.RemoteVersion.LogicalTimestamp))
	res.Side = models.SideLocal
	return res
}

func (s *clientSyncService) PendingConflict() *models.ConflictCase {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conflict == nil {
		return nil
	}
	c := *s.conflict
	return &c
}

// ── Maintenance ─────────────────────────────────────────────────────────────

func (s *clientSyncService) TestConnection(ctx context.Context) bool {
	s.mu.Lock()
	backend, gen := s.backend, s.generation
	if backend == nil {
		entry := s.newEntryLocked(models.ActionTestConnection, models.HistoryError, s.activeType)
		entry.Message = ptr(ErrNotConfigured.Error())
		s.appendHistoryLocked(ctx, entry)
		s.mu.Unlock()
		return false
	}
	backendType := backend.Type()
	s.mu.Unlock()

	start := s.now()
	ok := backend.IsAuthenticated(ctx)
	duration := s.now().Sub(start).Milliseconds()

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return false
	}

	status := models.HistorySuccess
	if !ok {
		status = models.HistoryError
	}
	entry := s.newEntryLocked(models.ActionTestConnection, status, backendType)
	entry.DurationMs = &duration
	if !ok {
		entry.Message = ptr("backend rejected the stored credentials or is unreachable")
	}
	s.appendHistoryLocked(ctx, entry)
	return ok
}

func (s *clientSyncService) Cleanup(ctx context.Context, keep int) SyncResult {
	log := logger.FromContext(ctx)

	s.opMu.Lock()
	defer s.opMu.Unlock()

	if keep < 1 {
		keep = 1
	}

	s.mu.Lock()
	sess, serr := s.acquireLocked(ctx, false)
	if serr != nil {
		s.recordErrorLocked(ctx, models.CategoryCleanup, serr.Error())
		s.mu.Unlock()
		return errorResult(serr)
	}
	s.mu.Unlock()

	start := s.now()
	entries, err := s.listRecords(ctx, sess.backend)
	deleted := 0
	var firstErr error
	if err != nil {
		firstErr = err
	} else if len(entries) > keep {
		for _, e := range entries[keep:] {
			ok, derr := sess.backend.Delete(ctx, e.name)
			if derr != nil {
				log.Warn().Err(derr).Str("func", "clientSyncService.Cleanup").Str("file", e.name).Msg("failed to delete old record")
				if firstErr == nil {
					firstErr = derr
				}
				continue
			}
			if ok {
				deleted++
			}
		}
	}
	duration := s.now().Sub(start).Milliseconds()

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess.generation != s.generation {
		return s.superseded(ctx)
	}

	if firstErr != nil {
		se := classifyError(firstErr)
		entry := s.newEntryLocked(models.ActionCleanup, models.HistoryError, sess.backendType)
		entry.DurationMs = &duration
		entry.Message = ptr(fmt.Sprintf("deleted %d record(s): %s", deleted, se.Error()))
		s.appendHistoryLocked(ctx, entry)
		return errorResult(se)
	}

	entry := s.newEntryLocked(models.ActionCleanup, models.HistorySuccess, sess.backendType)
	entry.DurationMs = &duration
	entry.Message = ptr(fmt.Sprintf("deleted %d record(s), kept %d", deleted, min(keep, len(entries))))
	s.appendHistoryLocked(ctx, entry)
	return successResult("")
}

func (s *clientSyncService) MarkPending(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "clientSyncService.MarkPending").Msg("failed to load sync state")
		return
	}
	s.pending++
	switch s.status {
	case models.StatusConflict, models.StatusSyncing:
	default:
		s.status = models.StatusPending
	}
	s.saveStateLocked(ctx)
}

func (s *clientSyncService) Status() models.SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *clientSyncService) Metadata(ctx context.Context) models.LocalSyncMetadata {
	s.mu.Lock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "clientSyncService.Metadata").Msg("failed to load sync state")
	}
	md := models.LocalSyncMetadata{
		LastSyncTimestamp:           s.lastSync,
		LastSuccessfulSyncTimestamp: s.lastSuccess,
		PendingChanges:              s.pending,
		ConflictCount:               s.conflicts,
		SyncErrors:                  s.errorLog.snapshot(),
		History:                     s.history.snapshot(),
		Status:                      s.status,
		BackendType:                 s.activeType,
		DeviceID:                    s.deviceID,
	}
	backend := s.backend
	if backend == nil {
		md.BackendType = models.BackendNone
	}
	s.mu.Unlock()

	if backend != nil {
		quota, err := backend.GetStorageQuota(ctx)
		if err != nil {
			logger.FromContext(ctx).Debug().Err(err).Str("func", "clientSyncService.Metadata").Msg("quota unavailable")
		} else {
			md.Quota = &quota
		}
	}
	return md
}

// ── Helpers ─────────────────────────────────────────────────────────────────

// begin acquires a session and moves the status to SYNCING. On failure it
// returns the error result to hand back to the caller.
func (s *clientSyncService) begin(ctx context.Context, needKey bool) (session, SyncResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, serr := s.acquireLocked(ctx, needKey)
	if serr != nil {
		s.recordErrorLocked(ctx, models.CategoryGeneral, serr.Error())
		return session{}, errorResult(serr), false
	}
	s.status = models.StatusSyncing
	return sess, SyncResult{}, true
}

func (s *clientSyncService) acquireLocked(ctx context.Context, needKey bool) (session, *SyncError) {
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return session{}, newSyncError(KindNotInitialized, err)
	}
	if needKey && !s.key.Alive() {
		return session{}, newSyncError(KindNotInitialized, ErrNotInitialized)
	}
	if s.backend == nil {
		return session{}, newSyncError(KindNotConfigured, ErrNotConfigured)
	}

	floor := s.lastSync
	if s.conflict != nil {
		floor = max(floor, s.conflict.RemoteVersion.LogicalTimestamp)
	}
	return session{
		backend:     s.backend,
		backendType: s.backend.Type(),
		key:         s.key,
		deviceID:    s.deviceID,
		generation:  s.generation,
		lastSync:    s.lastSync,
		floor:       floor,
		checksum:    s.syncedChecksum,
	}, nil
}

// fail commits a failed operation: ERROR status and one history entry.
func (s *clientSyncService) fail(ctx context.Context, sess session, action models.SyncAction, err error, duration *int64) SyncResult {
	se := classifyError(err)

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess.generation != s.generation {
		return s.superseded(ctx)
	}

	s.status = models.StatusError
	entry := s.newEntryLocked(action, models.HistoryError, sess.backendType)
	entry.DurationMs = duration
	entry.Message = ptr(se.Error())
	s.appendHistoryLocked(ctx, entry)

	logger.FromContext(ctx).Warn().
		Err(err).
		Str("func", "clientSyncService.fail").
		Str("action", string(action)).
		Str("kind", se.Kind.String()).
		Bool("retryable", se.IsRetryable()).
		Msg("sync operation failed")
	return errorResult(se)
}

// abort commits a failure that happened before any backend call.
func (s *clientSyncService) abort(ctx context.Context, sess session, category models.ErrorCategory, err error) SyncResult {
	se := classifyError(err)

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess.generation != s.generation {
		return s.superseded(ctx)
	}
	s.status = models.StatusError
	s.recordErrorLocked(ctx, category, se.Error())
	return errorResult(se)
}

func (s *clientSyncService) sessionFailure(ctx context.Context, se *SyncError) SyncResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordErrorLocked(ctx, models.CategoryGeneral, se.Error())
	return errorResult(se)
}

// superseded reports a result dropped by the staleness check. State is left
// to the session that replaced the snapshot.
func (s *clientSyncService) superseded(ctx context.Context) SyncResult {
	logger.FromContext(ctx).Info().Str("func", "clientSyncService.superseded").Msg("discarding result of replaced backend")
	return errorResult(newSyncError(KindSuperseded, ErrSuperseded))
}

func (s *clientSyncService) seal(sess session, payload []byte, ts int64) (models.SyncRecord, error) {
	var record models.SyncRecord
	err := sess.key.Use(func(key []byte) error {
		var err error
		record, err = s.sealer.Seal(payload, key, envelope.Meta{
			ID:               s.ids.Generate(),
			DeviceID:         sess.deviceID,
			LogicalTimestamp: ts,
			DataType:         s.dataType,
		})
		return err
	})
	return record, err
}

func (s *clientSyncService) open(sess session, record models.SyncRecord) ([]byte, error) {
	var plain []byte
	err := sess.key.Use(func(key []byte) error {
		var err error
		plain, err = s.sealer.Open(record, key)
		return err
	})
	return plain, err
}

type remoteEntry struct {
	name string
	info envelope.FileInfo
}

// listRecords returns the remote records of the synced data type, newest
// first. Names outside the naming scheme are skipped.
func (s *clientSyncService) listRecords(ctx context.Context, backend adapter.Backend) ([]remoteEntry, error) {
	log := logger.FromContext(ctx)

	files, err := backend.List(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]remoteEntry, 0, len(files))
	for _, f := range files {
		info, err := envelope.ParseFileName(f.FileName)
		if err != nil {
			log.Debug().Err(err).Str("func", "clientSyncService.listRecords").Msg("skipping foreign remote file")
			continue
		}
		if info.DataType != s.dataType {
			continue
		}
		entries = append(entries, remoteEntry{name: f.FileName, info: info})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].info.LogicalTimestamp != entries[j].info.LogicalTimestamp {
			return entries[i].info.LogicalTimestamp > entries[j].info.LogicalTimestamp
		}
		return entries[i].name > entries[j].name
	})
	return entries, nil
}

type remoteRecord struct {
	name   string
	size   int
	record models.SyncRecord
}

// fetchNewest downloads and decodes the newest remote record.
func (s *clientSyncService) fetchNewest(ctx context.Context, backend adapter.Backend) (remoteRecord, error) {
	entries, err := s.listRecords(ctx, backend)
	if err != nil {
		return remoteRecord{}, err
	}
	if len(entries) == 0 {
		return remoteRecord{}, ErrNoRemoteRecord
	}

	newest := entries[0]
	data, err := backend.Download(ctx, newest.name)
	if err != nil {
		return remoteRecord{}, err
	}
	if data == nil {
		return remoteRecord{}, fmt.Errorf("%w: %s disappeared", adapter.ErrNotFound, newest.name)
	}

	record, err := envelope.Decode(data)
	if err != nil {
		return remoteRecord{}, fmt.Errorf("decode %s: %w", newest.name, err)
	}
	if record.LogicalTimestamp != newest.info.LogicalTimestamp || record.DataType != newest.info.DataType {
		return remoteRecord{}, fmt.Errorf("%w: header of %s does not match its name", envelope.ErrMalformedRecord, newest.name)
	}

	return remoteRecord{name: newest.name, size: len(data), record: record}, nil
}

func (s *clientSyncService) newEntryLocked(action models.SyncAction, status models.HistoryStatus, backendType models.BackendType) models.SyncHistoryEntry {
	return models.SyncHistoryEntry{
		ID:          s.ids.Generate(),
		Timestamp:   s.now().UnixMilli(),
		Action:      action,
		Status:      status,
		BackendType: backendType,
		DataType:    s.dataType,
	}
}

func (s *clientSyncService) appendHistoryLocked(ctx context.Context, entry models.SyncHistoryEntry) {
	s.history.push(entry)
	if err := s.state.AppendHistory(ctx, entry, historyCapacity); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "clientSyncService.appendHistoryLocked").Msg("failed to persist history entry")
	}
}

func (s *clientSyncService) recordErrorLocked(ctx context.Context, category models.ErrorCategory, message string) {
	entry := models.SyncErrorLogEntry{
		Message:   message,
		Category:  category,
		Timestamp: s.now().UnixMilli(),
	}
	s.errorLog.push(entry)
	if err := s.state.AppendError(ctx, entry, historyCapacity); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "clientSyncService.recordErrorLocked").Msg("failed to persist error log entry")
	}
}

// saveStateLocked persists the scalar bookkeeping. It does nothing before the
// state was loaded, so a fresh engine never overwrites the stored device id.
func (s *clientSyncService) saveStateLocked(ctx context.Context) {
	if !s.loaded {
		return
	}
	err := s.state.SaveState(ctx, store.SyncState{
		DeviceID:                    s.deviceID,
		ActiveBackend:               s.activeType,
		LastSyncTimestamp:           s.lastSync,
		LastSuccessfulSyncTimestamp: s.lastSuccess,
		PendingChanges:              s.pending,
		ConflictCount:               s.conflicts,
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "clientSyncService.saveStateLocked").Msg("failed to persist sync state")
	}
}

func (s *clientSyncService) withLock(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// closeReplaced closes a backend that is no longer active. Operations still
// running on it fail on their own and are dropped by the staleness check.
func closeReplaced(ctx context.Context, backend adapter.Backend, desc *models.BackendDescriptor) {
	if backend != nil {
		if err := backend.Close(); err != nil {
			logger.FromContext(ctx).Warn().Err(err).Str("func", "closeReplaced").Msg("failed to close replaced backend")
		}
	}
	if desc != nil {
		desc.Wipe()
	}
}

func cloneDescriptor(desc models.BackendDescriptor) models.BackendDescriptor {
	out := models.BackendDescriptor{
		BackendType:    desc.BackendType,
		CredentialsRef: desc.CredentialsRef,
		Credentials:    make(map[string]string, len(desc.Credentials)),
		CustomSettings: make(map[string]string, len(desc.CustomSettings)),
	}
	for k, v := range desc.Credentials {
		out.Credentials[k] = v
	}
	for k, v := range desc.CustomSettings {
		out.CustomSettings[k] = v
	}
	return out
}

// nextTimestamp keeps logical timestamps strictly increasing even when the
// wall clock goes backwards.
func nextTimestamp(now, floor int64) int64 {
	if now > floor {
		return now
	}
	return floor + 1
}

func checksum(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func ptr[T any](v T) *T {
	return &v
}
