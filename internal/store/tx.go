package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-pass-sync/internal/logger"
)

type statement struct {
	query string
	args  []any
}

// inTx executes stmts in order inside one transaction.
func (db *DB) inTx(ctx context.Context, funcName string, stmts ...statement) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	for idx, s := range stmts {
		if _, err = tx.ExecContext(ctx, s.query, s.args...); err != nil {
			log.Err(err).
				Str("func", funcName).
				Int("iteration", idx+1).
				Int("total", len(stmts)).
				Msg("failed to execute statement in transaction")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	return nil
}
