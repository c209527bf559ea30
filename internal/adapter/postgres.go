// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-pass-sync/internal/logger"
	"github.com/MKhiriev/go-pass-sync/models"
	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const postgresTable = "vault_sync_blobs"

const postgresSchema = `CREATE TABLE IF NOT EXISTS vault_sync_blobs (
	name        TEXT PRIMARY KEY,
	data        BYTEA NOT NULL,
	size_bytes  BIGINT NOT NULL,
	modified_at TIMESTAMPTZ NOT NULL
)`

// postgresBackend stores records as rows of a single table in a self-hosted
// PostgreSQL database. The connection is opened lazily by database/sql.
type postgresBackend struct {
	db *sql.DB
	qb sq.StatementBuilderType

	mu          sync.Mutex
	schemaReady bool

	now    func() time.Time
	logger *logger.Logger
}

func newPostgresBackend(desc models.BackendDescriptor, o options) (Backend, error) {
	// sql.Open validates the driver name only; no connection is made here.
	conn, err := sql.Open("pgx", desc.Setting(FieldDSN))
	if err != nil {
		return nil, fmt.Errorf("open postgres backend: %w", err)
	}
	conn.SetMaxOpenConns(4)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	return newPostgresBackendFromDB(conn, o), nil
}

func newPostgresBackendFromDB(db *sql.DB, o options) *postgresBackend {
	return &postgresBackend{
		db:     db,
		qb:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		now:    o.now,
		logger: o.logger,
	}
}

func (p *postgresBackend) Type() models.BackendType { return models.BackendPostgres }

// Authenticate implements [Backend]. It connects, and creates the blob table
// if needed. Rejected credentials are reported as a denial.
func (p *postgresBackend) Authenticate(ctx context.Context, _ InteractiveContext) (bool, error) {
	if err := p.db.PingContext(ctx); err != nil {
		mapped := mapPostgresError("postgres ping", err)
		if errors.Is(mapped, ErrUnauthorized) {
			p.logger.Warn().Str("func", "postgresBackend.Authenticate").Err(err).Msg("postgres rejected credentials")
			return false, nil
		}
		return false, mapped
	}
	if err := p.ensureSchema(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// IsAuthenticated implements [Backend].
func (p *postgresBackend) IsAuthenticated(ctx context.Context) bool {
	return p.db.PingContext(ctx) == nil
}

func (p *postgresBackend) ensureSchema(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.schemaReady {
		return nil
	}

	if _, err := p.db.ExecContext(ctx, postgresSchema); err != nil {
		return mapPostgresError("postgres create schema", err)
	}
	p.schemaReady = true
	return nil
}

// Upload implements [Backend]. Existing rows with the same name are replaced.
func (p *postgresBackend) Upload(ctx context.Context, id string, record []byte) (string, error) {
	if err := validObjectName(id); err != nil {
		return "", err
	}
	if err := p.ensureSchema(ctx); err != nil {
		return "", err
	}

	query, args, err := p.qb.Insert(postgresTable).
		Columns("name", "data", "size_bytes", "modified_at").
		Values(id, record, int64(len(record)), p.now().UTC()).
		Suffix("ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, size_bytes = EXCLUDED.size_bytes, modified_at = EXCLUDED.modified_at RETURNING name").
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build upload query: %w", err)
	}

	var handle string
	if err = p.db.QueryRowContext(ctx, query, args...).Scan(&handle); err != nil {
		return "", mapPostgresError("postgres upload", err)
	}
	return handle, nil
}

// Download implements [Backend].
func (p *postgresBackend) Download(ctx context.Context, id string) ([]byte, error) {
	if err := p.ensureSchema(ctx); err != nil {
		return nil, err
	}

	query, args, err := p.qb.Select("data").
		From(postgresTable).
		Where(sq.Eq{"name": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build download query: %w", err)
	}

	var data []byte
	err = p.db.QueryRowContext(ctx, query, args...).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapPostgresError("postgres download", err)
	}
	return data, nil
}

// List implements [Backend].
func (p *postgresBackend) List(ctx context.Context) ([]models.RemoteFile, error) {
	if err := p.ensureSchema(ctx); err != nil {
		return nil, err
	}

	query, args, err := p.qb.Select("name", "modified_at", "size_bytes").
		From(postgresTable).
		OrderBy("modified_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapPostgresError("postgres list", err)
	}
	defer rows.Close()

	var files []models.RemoteFile
	for rows.Next() {
		var f models.RemoteFile
		if err = rows.Scan(&f.FileName, &f.ModifiedTime, &f.SizeBytes); err != nil {
			return nil, mapPostgresError("postgres list scan", err)
		}
		files = append(files, f)
	}
	if err = rows.Err(); err != nil {
		return nil, mapPostgresError("postgres list rows", err)
	}
	return files, nil
}

// Delete implements [Backend].
func (p *postgresBackend) Delete(ctx context.Context, id string) (bool, error) {
	if err := p.ensureSchema(ctx); err != nil {
		return false, err
	}

	query, args, err := p.qb.Delete(postgresTable).Where(sq.Eq{"name": id}).ToSql()
	if err != nil {
		return false, fmt.Errorf("build delete query: %w", err)
	}

	res, err := p.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, mapPostgresError("postgres delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, mapPostgresError("postgres delete rows affected", err)
	}
	return n > 0, nil
}

// GetStorageQuota implements [Backend]. Only usage is known; PostgreSQL has
// no per-table limit.
func (p *postgresBackend) GetStorageQuota(ctx context.Context) (models.StorageQuota, error) {
	if err := p.ensureSchema(ctx); err != nil {
		return models.StorageQuota{}, err
	}

	query, args, err := p.qb.Select("COALESCE(SUM(size_bytes), 0)").From(postgresTable).ToSql()
	if err != nil {
		return models.StorageQuota{}, fmt.Errorf("build quota query: %w", err)
	}

	var used int64
	if err = p.db.QueryRowContext(ctx, query, args...).Scan(&used); err != nil {
		return models.StorageQuota{}, mapPostgresError("postgres quota", err)
	}
	return models.StorageQuota{UsedBytes: used}, nil
}

// Close implements [Backend].
func (p *postgresBackend) Close() error {
	return p.db.Close()
}
