package adapter

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// mapPostgresError translates a driver error into the package sentinels.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html.
//
//   - Class 28 (invalid authorization)        → ErrUnauthorized
//   - 42501 insufficient_privilege            → ErrForbidden
//   - Class 53 (insufficient resources)       → ErrQuotaExceeded
//   - Class 08, 57P03 (connection, startup)   → ErrUnavailable
//   - Class 40 (serialization, deadlock)      → ErrConflict
//   - net.Error, connect failures             → ErrNetwork
//
// Anything else is an ErrProvider.
func mapPostgresError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w: %s (%s)", op, classifyPgCode(pgErr.Code), pgErr.Message, pgErr.Code)
	}

	var connErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connErr) || errors.As(err, &netErr) {
		return fmt.Errorf("%s: %w: %w", op, ErrNetwork, err)
	}

	return fmt.Errorf("%s: %w: %w", op, ErrProvider, err)
}

func classifyPgCode(code string) error {
	switch {
	case pgerrcode.IsInvalidAuthorizationSpecification(code):
		return ErrUnauthorized
	case code == pgerrcode.InsufficientPrivilege:
		return ErrForbidden
	case pgerrcode.IsInsufficientResources(code):
		return ErrQuotaExceeded
	case pgerrcode.IsConnectionException(code), code == pgerrcode.CannotConnectNow:
		return ErrUnavailable
	case pgerrcode.IsTransactionRollback(code):
		return ErrConflict
	default:
		return ErrProvider
	}
}
