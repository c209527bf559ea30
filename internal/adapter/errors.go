package adapter

import (
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-pass-sync/models"
)

// Transport-agnostic sentinel errors. Every backend wraps one of these so the
// sync engine can classify a fault without knowing the provider.
var (
	ErrUnauthorized  = errors.New("backend unauthorized")
	ErrForbidden     = errors.New("backend forbidden")
	ErrNotFound      = errors.New("remote object not found")
	ErrConflict      = errors.New("remote conflict")
	ErrRateLimited   = errors.New("backend rate limit exceeded")
	ErrQuotaExceeded = errors.New("backend storage quota exceeded")
	ErrUnavailable   = errors.New("backend unavailable")
	ErrNetwork       = errors.New("network error")
	ErrProvider      = errors.New("provider error")

	// ErrEmptyHandle is returned when a provider accepts an upload but
	// returns no handle for the stored object.
	ErrEmptyHandle = errors.New("provider returned empty handle")

	// ErrAuthDenied is returned by [InteractiveContext.Prompt] when the user
	// declines the authorization request.
	ErrAuthDenied = errors.New("authorization denied by user")

	// ErrInteractionRequired is returned by Authenticate when the backend
	// needs user interaction but no [InteractiveContext] was supplied.
	ErrInteractionRequired = errors.New("interactive authentication required")

	// ErrNotAuthenticated is returned by operations invoked before a
	// successful Authenticate on backends that need a session.
	ErrNotAuthenticated = fmt.Errorf("%w: no session", ErrUnauthorized)

	// ErrIntegrity is returned when a downloaded payload does not match the
	// transport hash announced by the provider.
	ErrIntegrity = errors.New("transport integrity check failed")

	// ErrClosed is returned by operations on a closed backend.
	ErrClosed = errors.New("backend closed")
)

// Factory errors.
var (
	ErrUnsupportedBackend   = errors.New("unsupported backend type")
	ErrMissingConfiguration = errors.New("missing backend configuration")
)

// StatusError carries the raw status of a failed provider response. It
// unwraps to the sentinel that matches StatusCode.
type StatusError struct {
	StatusCode int
	// RetryAfter is the server's Retry-After hint, zero when absent.
	RetryAfter time.Duration
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%v: status %d", e.Unwrap(), e.StatusCode)
	}
	return fmt.Sprintf("%v: status %d: %s", e.Unwrap(), e.StatusCode, e.Body)
}

// Unwrap returns the sentinel matching the status code.
func (e *StatusError) Unwrap() error {
	switch {
	case e.StatusCode == 401:
		return ErrUnauthorized
	case e.StatusCode == 403:
		return ErrForbidden
	case e.StatusCode == 404 || e.StatusCode == 410:
		return ErrNotFound
	case e.StatusCode == 409 || e.StatusCode == 412:
		return ErrConflict
	case e.StatusCode == 429:
		return ErrRateLimited
	case e.StatusCode == 413 || e.StatusCode == 507:
		return ErrQuotaExceeded
	case e.StatusCode == 502 || e.StatusCode == 503 || e.StatusCode == 504:
		return ErrUnavailable
	default:
		return ErrProvider
	}
}

// MissingConfigurationError names the descriptor field that prevented a
// backend from being constructed.
type MissingConfigurationError struct {
	BackendType models.BackendType
	Field       string
}

func (e *MissingConfigurationError) Error() string {
	return fmt.Sprintf("%s backend: missing required field %q", e.BackendType, e.Field)
}

func (e *MissingConfigurationError) Unwrap() error {
	return ErrMissingConfiguration
}
