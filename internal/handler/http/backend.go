package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/MKhiriev/go-pass-sync/internal/adapter"
	"github.com/MKhiriev/go-pass-sync/internal/logger"
	"github.com/MKhiriev/go-pass-sync/internal/utils"
	"github.com/MKhiriev/go-pass-sync/models"
)

// consentTimeout bounds how long an interactive flow waits for its code.
const consentTimeout = 10 * time.Minute

func (h *Handler) setBackend(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.BackendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.setBackend").Msg("Invalid JSON was passed")
		utils.WriteError(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	desc := req.Descriptor()
	defer desc.Wipe()

	if err := h.services.SyncService.SetActiveBackend(r.Context(), desc); err != nil {
		log.Err(err).Str("func", "*Handler.setBackend").Stringer("backend_type", req.BackendType).Msg("error configuring backend")
		utils.WriteError(w, err.Error(), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) clearBackend(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	h.cancelConsent()
	if err := h.services.SyncService.ClearActiveBackend(r.Context()); err != nil {
		log.Err(err).Str("func", "*Handler.clearBackend").Msg("error clearing backend")
		utils.WriteError(w, err.Error(), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) testConnection(w http.ResponseWriter, r *http.Request) {
	ok := h.services.SyncService.TestConnection(r.Context())

	utils.WriteJSON(w, models.ConnectionResponse{OK: ok}, http.StatusOK)
}

// ── Interactive authentication ───────────────────────────────────────────────

type consentReply struct {
	code string
	deny bool
}

type authOutcome struct {
	ok  bool
	err error
}

// consentSession is an Authenticate call parked on the consent prompt. It
// outlives the request that started it.
type consentSession struct {
	codes  chan consentReply
	result chan authOutcome
	cancel context.CancelFunc
}

// consentPrompt publishes the consent URL and waits for the reply posted
// to /api/sync/backend/authenticate/code.
type consentPrompt struct {
	urls  chan<- string
	codes <-chan consentReply
}

func (p *consentPrompt) Prompt(ctx context.Context, authURL string) (string, error) {
	select {
	case p.urls <- authURL:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	select {
	case reply := <-p.codes:
		if reply.deny {
			return "", adapter.ErrAuthDenied
		}
		return reply.code, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// authenticate starts the handshake of the active backend. Backends that
// authenticate without the user answer right away. Backends that need
// consent answer 202 with the URL to open; the flow is then completed by
// submitConsent.
func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), consentTimeout)
	urls := make(chan string, 1)
	sess := &consentSession{
		codes:  make(chan consentReply),
		result: make(chan authOutcome, 1),
		cancel: cancel,
	}

	h.consentMu.Lock()
	previous := h.consent
	h.consent = sess
	h.consentMu.Unlock()
	if previous != nil {
		previous.cancel()
	}

	go func() {
		ok, err := h.services.SyncService.Authenticate(ctx, &consentPrompt{urls: urls, codes: sess.codes})
		sess.result <- authOutcome{ok: ok, err: err}
	}()

	select {
	case authURL := <-urls:
		log.Info().Str("func", "*Handler.authenticate").Msg("waiting for user consent")
		utils.WriteJSON(w, models.AuthenticateResponse{AuthURL: authURL}, http.StatusAccepted)
	case out := <-sess.result:
		h.finishConsent(sess)
		writeAuthOutcome(w, r, out)
	case <-r.Context().Done():
		h.finishConsent(sess)
	}
}

func (h *Handler) submitConsent(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.ConsentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.submitConsent").Msg("Invalid JSON was passed")
		utils.WriteError(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	h.consentMu.Lock()
	sess := h.consent
	h.consentMu.Unlock()
	if sess == nil {
		utils.WriteError(w, "no authentication in progress", http.StatusNotFound)
		return
	}

	select {
	case sess.codes <- consentReply{code: req.Code, deny: req.Deny}:
	case out := <-sess.result:
		// the flow ended before the code arrived
		h.finishConsent(sess)
		writeAuthOutcome(w, r, out)
		return
	case <-r.Context().Done():
		return
	}

	select {
	case out := <-sess.result:
		h.finishConsent(sess)
		writeAuthOutcome(w, r, out)
	case <-r.Context().Done():
	}
}

func (h *Handler) finishConsent(sess *consentSession) {
	h.consentMu.Lock()
	if h.consent == sess {
		h.consent = nil
	}
	h.consentMu.Unlock()
	sess.cancel()
}

func (h *Handler) cancelConsent() {
	h.consentMu.Lock()
	sess := h.consent
	h.consent = nil
	h.consentMu.Unlock()
	if sess != nil {
		sess.cancel()
	}
}

func writeAuthOutcome(w http.ResponseWriter, r *http.Request, out authOutcome) {
	if out.err != nil {
		logger.FromRequest(r).Err(out.err).Str("func", "writeAuthOutcome").Msg("authentication failed")
		utils.WriteError(w, out.err.Error(), statusFromError(out.err))
		return
	}

	utils.WriteJSON(w, models.AuthenticateResponse{Authenticated: out.ok}, http.StatusOK)
}
