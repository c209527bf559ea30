package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-pass-sync/internal/config"
	"github.com/MKhiriev/go-pass-sync/internal/logger"
)

// ClientStorages groups the local stores used by the sync engine.
type ClientStorages struct {
	// Credentials holds backend descriptors and their secrets.
	Credentials CredentialStore

	// SyncState holds the engine bookkeeping and the key salt.
	SyncState SyncStateStore

	// Vault is the local payload that is synced.
	Vault VaultSource

	db *DB
}

// NewClientStorages opens the sqlite database at cfg.DB.DSN, applies the
// migrations and wires the repositories.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		Credentials: NewCredentialRepository(db, logger),
		SyncState:   NewSyncStateRepository(db, logger),
		Vault:       NewVaultFile(cfg.VaultFile, logger),
		db:          db,
	}, nil
}

// Close releases the database connection.
func (s *ClientStorages) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
