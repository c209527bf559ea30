package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/MKhiriev/go-pass-sync/internal/logger"
	"github.com/MKhiriev/go-pass-sync/internal/utils"
	"github.com/MKhiriev/go-pass-sync/models"
)

// maxPayloadBytes bounds vault and settings uploads through the control API.
const maxPayloadBytes = 64 << 20

func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	syncService := h.services.SyncService

	utils.WriteJSON(w, models.StatusResponse{
		Status:          syncService.Status(),
		PendingConflict: syncService.PendingConflict() != nil,
	}, http.StatusOK)
}

func (h *Handler) getMetadata(w http.ResponseWriter, r *http.Request) {
	metadata := h.services.SyncService.Metadata(r.Context())

	utils.WriteJSON(w, metadata, http.StatusOK)
}

func (h *Handler) getConflict(w http.ResponseWriter, r *http.Request) {
	conflict := h.services.SyncService.PendingConflict()
	if conflict == nil {
		utils.WriteError(w, "no pending conflict", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, models.NewConflictSummary(*conflict), http.StatusOK)
}

func (h *Handler) syncNow(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	res := h.services.SyncService.SyncNow(r.Context())
	log.Info().Str("func", "*Handler.syncNow").Stringer("result", res.Kind).Msg("sync finished")

	writeSyncResult(w, res)
}

// triggerSync hands the sync to the background job and returns at once.
func (h *Handler) triggerSync(w http.ResponseWriter, r *http.Request) {
	h.services.SyncJob.Trigger()

	w.WriteHeader(http.StatusAccepted)
}

// pushVault runs a full sync of the request body instead of the vault file.
func (h *Handler) pushVault(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	payload, err := readPayload(w, r)
	if err != nil {
		log.Err(err).Str("func", "*Handler.pushVault").Msg("error reading request body")
		utils.WriteError(w, "error reading request body", http.StatusBadRequest)
		return
	}

	writeSyncResult(w, h.services.SyncService.PerformFullSync(r.Context(), payload))
}

func (h *Handler) resolveConflict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.ResolveConflictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.resolveConflict").Msg("Invalid JSON was passed")
		utils.WriteError(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	switch {
	case req.Side != "":
		if req.Side != models.SideLocal && req.Side != models.SideRemote {
			utils.WriteError(w, "unknown conflict side "+string(req.Side), http.StatusBadRequest)
			return
		}
		writeSyncResult(w, h.services.SyncService.ResolveConflictWith(ctx, req.Side))

	case req.Strategy != "":
		strategy, ok := models.ParseConflictStrategy(string(req.Strategy))
		if !ok {
			utils.WriteError(w, "unknown conflict strategy "+string(req.Strategy), http.StatusBadRequest)
			return
		}
		writeSyncResult(w, h.services.SyncService.ResolveConflict(ctx, strategy))

	default:
		utils.WriteError(w, "either strategy or side is required", http.StatusBadRequest)
	}
}

func (h *Handler) cleanup(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.CleanupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.cleanup").Msg("Invalid JSON was passed")
		utils.WriteError(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}
	if req.Keep < 0 {
		utils.WriteError(w, "keep must not be negative", http.StatusBadRequest)
		return
	}

	writeSyncResult(w, h.services.SyncService.Cleanup(r.Context(), req.Keep))
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	if err := h.services.SyncService.Reset(r.Context()); err != nil {
		log.Err(err).Str("func", "*Handler.reset").Msg("reset finished with errors")
		utils.WriteError(w, err.Error(), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) markPending(w http.ResponseWriter, r *http.Request) {
	h.services.SyncService.MarkPending(r.Context())

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) downloadSettings(w http.ResponseWriter, r *http.Request) {
	settings := h.services.SyncService.DownloadSettings(r.Context())
	if settings == nil {
		utils.WriteError(w, "settings are not available", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	w.Write(settings)
}

func (h *Handler) uploadSettings(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	payload, err := readPayload(w, r)
	if err != nil {
		log.Err(err).Str("func", "*Handler.uploadSettings").Msg("error reading request body")
		utils.WriteError(w, "error reading request body", http.StatusBadRequest)
		return
	}

	writeSyncResult(w, h.services.SyncService.SyncSettings(r.Context(), payload))
}

func readPayload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
}
