package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-pass-sync/internal/adapter"
	"github.com/MKhiriev/go-pass-sync/internal/crypto"
	"github.com/MKhiriev/go-pass-sync/internal/service"
	"github.com/MKhiriev/go-pass-sync/internal/store"
	"github.com/MKhiriev/go-pass-sync/internal/utils"
	"github.com/MKhiriev/go-pass-sync/models"
)

var errorStatusMap = map[error]int{
	service.ErrNotInitialized:          http.StatusServiceUnavailable,
	service.ErrNotConfigured:           http.StatusConflict,
	service.ErrReconfigurationRequired: http.StatusConflict,
	service.ErrSuperseded:              http.StatusConflict,
	service.ErrNoPendingConflict:       http.StatusNotFound,
	service.ErrNoRemoteRecord:          http.StatusNotFound,

	adapter.ErrUnsupportedBackend:   http.StatusBadRequest,
	adapter.ErrMissingConfiguration: http.StatusBadRequest,
	adapter.ErrInteractionRequired:  http.StatusUnauthorized,
	adapter.ErrUnauthorized:         http.StatusUnauthorized,
	adapter.ErrAuthDenied:           http.StatusForbidden,
	adapter.ErrForbidden:            http.StatusForbidden,
	adapter.ErrRateLimited:          http.StatusTooManyRequests,
	adapter.ErrNetwork:              http.StatusBadGateway,
	adapter.ErrUnavailable:          http.StatusBadGateway,
	adapter.ErrProvider:             http.StatusBadGateway,

	crypto.ErrKeyUnavailable: http.StatusServiceUnavailable,
	crypto.ErrKeyWiped:       http.StatusServiceUnavailable,

	store.ErrDescriptorNotFound: http.StatusNotFound,
	store.ErrCorruptedState:     http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

var syncErrorStatusMap = map[service.ErrorKind]int{
	service.KindNetwork:           http.StatusBadGateway,
	service.KindRateLimitExceeded: http.StatusTooManyRequests,
	service.KindProvider:          http.StatusBadGateway,
	service.KindAuthentication:    http.StatusUnauthorized,
	service.KindQuotaExceeded:     http.StatusInsufficientStorage,
	service.KindConflict:          http.StatusConflict,
	service.KindCorruptedData:     http.StatusUnprocessableEntity,
	service.KindFileNotFound:      http.StatusNotFound,
	service.KindNotInitialized:    http.StatusServiceUnavailable,
	service.KindNotConfigured:     http.StatusConflict,
	service.KindSuperseded:        http.StatusConflict,
	service.KindInvalidState:      http.StatusConflict,
}

func statusFromSyncError(se *service.SyncError) int {
	if se == nil {
		return http.StatusInternalServerError
	}
	if status, ok := syncErrorStatusMap[se.Kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// writeSyncResult renders res. Conflicts are answered with 409 and both
// sides summarised; failures with the status of their kind.
func writeSyncResult(w http.ResponseWriter, res service.SyncResult) {
	body := models.SyncResultResponse{
		Result:   res.Kind.String(),
		FileName: res.FileName,
		Side:     res.Side,
	}

	switch res.Kind {
	case service.ResultSuccess:
		utils.WriteJSON(w, body, http.StatusOK)

	case service.ResultConflict:
		if res.Conflict != nil {
			summary := models.NewConflictSummary(*res.Conflict)
			body.Conflict = &summary
		}
		utils.WriteJSON(w, body, http.StatusConflict)

	default:
		se := res.Err
		status := statusFromSyncError(se)
		if se != nil {
			delay, retryable := se.RetryDelay()
			body.Error = &models.SyncErrorBody{
				Kind:       se.Kind.String(),
				Message:    se.Error(),
				StatusCode: se.StatusCode,
				Retryable:  retryable,
			}
			if se.Kind == service.KindRateLimitExceeded {
				body.Error.RetryAfterSeconds = int64(delay.Seconds())
				w.Header().Set("Retry-After", strconv.FormatInt(body.Error.RetryAfterSeconds, 10))
			}
		}
		utils.WriteJSON(w, body, status)
	}
}
