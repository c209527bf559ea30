package store

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/MKhiriev/go-pass-sync/internal/logger"
	"github.com/MKhiriev/go-pass-sync/models"
)

type syncStateRepository struct {
	*DB
	logger *logger.Logger
}

// NewSyncStateRepository constructs a [SyncStateStore] on top of db.
func NewSyncStateRepository(db *DB, logger *logger.Logger) SyncStateStore {
	return &syncStateRepository{
		DB:     db,
		logger: logger,
	}
}

func (s *syncStateRepository) LoadState(ctx context.Context) (SyncState, error) {
	values, err := s.selectValues(ctx, stateKeys...)
	if err != nil {
		return SyncState{}, err
	}

	var state SyncState
	state.DeviceID = values[keyDeviceID]

	if state.ActiveBackend, err = models.ParseBackendType(values[keyActiveBackend]); err != nil {
		return SyncState{}, fmt.Errorf("%w: %w", ErrCorruptedState, err)
	}
	if state.LastSyncTimestamp, err = parseInt64(values, keyLastSync); err != nil {
		return SyncState{}, err
	}
	if state.LastSuccessfulSyncTimestamp, err = parseInt64(values, keyLastSuccessfulSync); err != nil {
		return SyncState{}, err
	}
	pending, err := parseInt64(values, keyPendingChanges)
	if err != nil {
		return SyncState{}, err
	}
	conflicts, err := parseInt64(values, keyConflictCount)
	if err != nil {
		return SyncState{}, err
	}
	state.PendingChanges = int(pending)
	state.ConflictCount = int(conflicts)

	return state, nil
}

func (s *syncStateRepository) SaveState(ctx context.Context, state SyncState) error {
	values := map[string]string{
		keyDeviceID:           state.DeviceID,
		keyActiveBackend:      state.ActiveBackend.String(),
		keyLastSync:           strconv.FormatInt(state.LastSyncTimestamp, 10),
		keyLastSuccessfulSync: strconv.FormatInt(state.LastSuccessfulSyncTimestamp, 10),
		keyPendingChanges:     strconv.Itoa(state.PendingChanges),
		keyConflictCount:      strconv.Itoa(state.ConflictCount),
	}
	if state.ActiveBackend == models.BackendNone {
		values[keyActiveBackend] = ""
	}

	stmts := make([]statement, 0, len(stateKeys))
	for _, key := range stateKeys {
		query, args, err := buildUpsertStateQuery(key, values[key])
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		stmts = append(stmts, statement{query, args})
	}

	return s.inTx(ctx, "syncStateRepository.SaveState", stmts...)
}

func (s *syncStateRepository) AppendHistory(ctx context.Context, entry models.SyncHistoryEntry, capacity int) error {
	insert, insertArgs, err := buildInsertHistoryQuery(entry)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	trim, trimArgs, err := buildTrimQuery(tableHistory, capacity)
	if err != nil {
		return err
	}

	return s.inTx(ctx, "syncStateRepository.AppendHistory",
		statement{insert, insertArgs},
		statement{trim, trimArgs},
	)
}

func (s *syncStateRepository) History(ctx context.Context, limit int) ([]models.SyncHistoryEntry, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectHistoryQuery(limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "syncStateRepository.History").Msg("failed to query history")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	entries := make([]models.SyncHistoryEntry, 0, limit)
	for rows.Next() {
		var (
			e                     models.SyncHistoryEntry
			action, status        string
			backendType           string
			dataType              string
			durationMs, sizeBytes sql.NullInt64
			message               sql.NullString
		)
		if err = rows.Scan(&e.ID, &e.Timestamp, &action, &status, &backendType, &dataType,
			&durationMs, &sizeBytes, &message); err != nil {
			log.Err(err).Str("func", "syncStateRepository.History").Msg("failed to scan history row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}

		e.Action = models.SyncAction(action)
		e.Status = models.HistoryStatus(status)
		if e.BackendType, err = models.ParseBackendType(backendType); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptedState, err)
		}
		if e.DataType, err = models.ParseSyncDataType(dataType); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptedState, err)
		}
		if durationMs.Valid {
			e.DurationMs = &durationMs.Int64
		}
		if sizeBytes.Valid {
			e.SizeBytes = &sizeBytes.Int64
		}
		if message.Valid {
			e.Message = &message.String
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return entries, nil
}

func (s *syncStateRepository) AppendError(ctx context.Context, entry models.SyncErrorLogEntry, capacity int) error {
	insert, insertArgs, err := buildInsertErrorQuery(entry)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	trim, trimArgs, err := buildTrimQuery(tableErrors, capacity)
	if err != nil {
		return err
	}

	return s.inTx(ctx, "syncStateRepository.AppendError",
		statement{insert, insertArgs},
		statement{trim, trimArgs},
	)
}

func (s *syncStateRepository) Errors(ctx context.Context, limit int) ([]models.SyncErrorLogEntry, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectErrorsQuery(limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "syncStateRepository.Errors").Msg("failed to query error log")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	entries := make([]models.SyncErrorLogEntry, 0, limit)
	for rows.Next() {
		var e models.SyncErrorLogEntry
		var category string
		if err = rows.Scan(&e.Message, &category, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		e.Category = models.ErrorCategory(category)
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return entries, nil
}

func (s *syncStateRepository) Wipe(ctx context.Context) error {
	state, stateArgs, err := buildDeleteStateExceptQuery(keysSurvivingWipe...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	history, historyArgs, err := buildDeleteAllQuery(tableHistory)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	errs, errsArgs, err := buildDeleteAllQuery(tableErrors)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return s.inTx(ctx, "syncStateRepository.Wipe",
		statement{state, stateArgs},
		statement{history, historyArgs},
		statement{errs, errsArgs},
	)
}

// GetKeySalt returns nil when no salt has been stored yet.
func (s *syncStateRepository) GetKeySalt(ctx context.Context) ([]byte, error) {
	values, err := s.selectValues(ctx, keyKeySalt)
	if err != nil {
		return nil, err
	}
	encoded, ok := values[keyKeySalt]
	if !ok || encoded == "" {
		return nil, nil
	}

	salt, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: key salt: %w", ErrCorruptedState, err)
	}
	return salt, nil
}

func (s *syncStateRepository) SetKeySalt(ctx context.Context, salt []byte) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpsertStateQuery(keyKeySalt, hex.EncodeToString(salt))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = s.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "syncStateRepository.SetKeySalt").Msg("failed to store key salt")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (s *syncStateRepository) selectValues(ctx context.Context, keys ...string) (map[string]string, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectStateQuery(keys...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "syncStateRepository.selectValues").Msg("failed to query sync state")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	values := make(map[string]string, len(keys))
	for rows.Next() {
		var key, value string
		if err = rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		values[key] = value
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}
	return values, nil
}

func parseInt64(values map[string]string, key string) (int64, error) {
	raw := values[key]
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrCorruptedState, key, err)
	}
	return v, nil
}
