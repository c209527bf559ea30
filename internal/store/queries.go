// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-pass-sync/models"
)

const (
	tableState       = "sync_state"
	tableHistory     = "sync_history"
	tableErrors      = "sync_errors"
	tableDescriptors = "backend_descriptors"
	tableCredentials = "backend_credentials"
)

// sqlite uses "?" placeholders
var qb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

var historyColumns = []string{
	"id", "timestamp", "action", "status", "backend_type", "data_type",
	"duration_ms", "size_bytes", "message",
}

func buildUpsertStateQuery(key, value string) (string, []any, error) {
	return qb.Insert(tableState).
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value").
		ToSql()
}

func buildSelectStateQuery(keys ...string) (string, []any, error) {
	q := qb.Select("key", "value").From(tableState)
	if len(keys) > 0 {
		q = q.Where(sq.Eq{"key": keys})
	}
	return q.ToSql()
}

func buildDeleteStateExceptQuery(keep ...string) (string, []any, error) {
	q := qb.Delete(tableState)
	if len(keep) > 0 {
		q = q.Where(sq.NotEq{"key": keep})
	}
	return q.ToSql()
}

func buildInsertHistoryQuery(e models.SyncHistoryEntry) (string, []any, error) {
	return qb.Insert(tableHistory).
		Columns(historyColumns...).
		Values(
			e.ID,
			e.Timestamp,
			string(e.Action),
			string(e.Status),
			e.BackendType.String(),
			e.DataType.String(),
			e.DurationMs,
			e.SizeBytes,
			e.Message,
		).
		ToSql()
}

func buildSelectHistoryQuery(limit int) (string, []any, error) {
	return qb.Select(historyColumns...).
		From(tableHistory).
		OrderBy("seq DESC").
		Limit(uint64(limit)).
		ToSql()
}

func buildInsertErrorQuery(e models.SyncErrorLogEntry) (string, []any, error) {
	return qb.Insert(tableErrors).
		Columns("message", "category", "timestamp").
		Values(e.Message, string(e.Category), e.Timestamp).
		ToSql()
}

func buildSelectErrorsQuery(limit int) (string, []any, error) {
	return qb.Select("message", "category", "timestamp").
		From(tableErrors).
		OrderBy("seq DESC").
		Limit(uint64(limit)).
		ToSql()
}

// buildTrimQuery deletes every row of a ring table except the newest capacity rows.
func buildTrimQuery(table string, capacity int) (string, []any, error) {
	if table != tableHistory && table != tableErrors {
		return "", nil, fmt.Errorf("%w: %s is not a ring table", ErrBuildingSQLQuery, table)
	}
	return qb.Delete(table).
		Where(fmt.Sprintf("seq NOT IN (SELECT seq FROM %s ORDER BY seq DESC LIMIT ?)", table), capacity).
		ToSql()
}

func buildUpsertDescriptorQuery(desc models.BackendDescriptor, settings string, updatedAt int64) (string, []any, error) {
	return qb.Insert(tableDescriptors).
		Columns("backend_type", "credentials_ref", "custom_settings", "updated_at").
		Values(desc.BackendType.String(), desc.CredentialsRef, settings, updatedAt).
		Suffix("ON CONFLICT(backend_type) DO UPDATE SET " +
			"credentials_ref = excluded.credentials_ref, " +
			"custom_settings = excluded.custom_settings, " +
			"updated_at = excluded.updated_at").
		ToSql()
}

func buildUpsertCredentialsQuery(ref, secrets string) (string, []any, error) {
	return qb.Insert(tableCredentials).
		Columns("ref", "secrets").
		Values(ref, secrets).
		Suffix("ON CONFLICT(ref) DO UPDATE SET secrets = excluded.secrets").
		ToSql()
}

func buildSelectDescriptorQuery(t models.BackendType) (string, []any, error) {
	return qb.Select("d.credentials_ref", "d.custom_settings", "c.secrets").
		From(tableDescriptors + " d").
		LeftJoin(tableCredentials + " c ON c.ref = d.credentials_ref").
		Where(sq.Eq{"d.backend_type": t.String()}).
		ToSql()
}

func buildDeleteCredentialsOfTypeQuery(t models.BackendType) (string, []any, error) {
	return qb.Delete(tableCredentials).
		Where("ref IN (SELECT credentials_ref FROM "+tableDescriptors+" WHERE backend_type = ?)", t.String()).
		ToSql()
}

func buildDeleteDescriptorQuery(t models.BackendType) (string, []any, error) {
	return qb.Delete(tableDescriptors).
		Where(sq.Eq{"backend_type": t.String()}).
		ToSql()
}

func buildDeleteAllQuery(table string) (string, []any, error) {
	return qb.Delete(table).ToSql()
}
