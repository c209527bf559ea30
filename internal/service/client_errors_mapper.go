package service

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/MKhiriev/go-pass-sync/internal/adapter"
	"github.com/MKhiriev/go-pass-sync/internal/crypto"
	"github.com/MKhiriev/go-pass-sync/internal/envelope"
	"github.com/MKhiriev/go-pass-sync/internal/store"
)

// classifyError translates a backend, envelope or store error into a
// [SyncError]. A *SyncError passes through unchanged.
func classifyError(err error) *SyncError {
	if err == nil {
		return nil
	}

	var se *SyncError
	if errors.As(err, &se) {
		return se
	}

	var statusErr *adapter.StatusError
	hasStatus := errors.As(err, &statusErr)

	switch {
	case errors.Is(err, context.Canceled),
		errors.Is(err, adapter.ErrClosed),
		errors.Is(err, ErrSuperseded):
		return newSyncError(KindSuperseded, err)

	case errors.Is(err, crypto.ErrKeyWiped),
		errors.Is(err, crypto.ErrKeyUnavailable),
		errors.Is(err, crypto.ErrInvalidKey),
		errors.Is(err, ErrNotInitialized):
		return newSyncError(KindNotInitialized, err)

	case errors.Is(err, adapter.ErrMissingConfiguration),
		errors.Is(err, adapter.ErrUnsupportedBackend),
		errors.Is(err, ErrReconfigurationRequired),
		errors.Is(err, ErrNotConfigured):
		return newSyncError(KindNotConfigured, err)

	case errors.Is(err, envelope.ErrCorruptedRecord),
		errors.Is(err, adapter.ErrIntegrity):
		return newSyncError(KindCorruptedData, err)

	case errors.Is(err, adapter.ErrUnauthorized),
		errors.Is(err, adapter.ErrForbidden),
		errors.Is(err, adapter.ErrAuthDenied),
		errors.Is(err, adapter.ErrInteractionRequired):
		return newSyncError(KindAuthentication, err)

	case errors.Is(err, adapter.ErrRateLimited):
		se = newSyncError(KindRateLimitExceeded, err)
		if hasStatus {
			se.RetryAfter = statusErr.RetryAfter
		}
		return se

	case errors.Is(err, adapter.ErrQuotaExceeded):
		return newSyncError(KindQuotaExceeded, err)

	case errors.Is(err, adapter.ErrConflict):
		return newSyncError(KindConflict, err)

	case errors.Is(err, adapter.ErrNotFound),
		errors.Is(err, store.ErrVaultNotFound),
		errors.Is(err, ErrNoRemoteRecord):
		return newSyncError(KindFileNotFound, err)

	case errors.Is(err, adapter.ErrNetwork),
		errors.Is(err, context.DeadlineExceeded):
		return newSyncError(KindNetwork, err)

	case errors.Is(err, ErrNoPendingConflict):
		return newSyncError(KindInvalidState, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return newSyncError(KindNetwork, err)
	}

	se = newSyncError(KindProvider, err)
	switch {
	case hasStatus:
		se.StatusCode = statusErr.StatusCode
	case errors.Is(err, adapter.ErrUnavailable):
		se.StatusCode = http.StatusServiceUnavailable
	}
	return se
}
