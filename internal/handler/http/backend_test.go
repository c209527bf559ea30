// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/MKhiriev/go-pass-sync/internal/adapter"
	"github.com/MKhiriev/go-pass-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── SetActiveBackend ─────────────────────────────────────────────────────────

func TestSetBackend(t *testing.T) {
	syncSvc := &stubSyncService{}
	router := newTestRouter(t, syncSvc, "")

	body := `{
		"backend_type": "WEBDAV",
		"settings": {"server_url": "https://dav.example.com/vault"},
		"credentials": {"username": "alice", "password": "pw"}
	}`
	rec := doRequest(t, router, http.MethodPut, "/api/sync/backend", []byte(body))

	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	assert.Equal(t, models.BackendWebDAV, syncSvc.gotDesc.BackendType)
	assert.Equal(t, "https://dav.example.com/vault", syncSvc.gotDesc.CustomSettings[adapter.FieldServerURL])
	assert.Equal(t, "pw", syncSvc.gotDesc.Credentials[adapter.FieldPassword])
}

func TestSetBackend_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "invalid json", body: `{`, wantStatus: http.StatusBadRequest},
		{name: "unknown backend type", body: `{"backend_type":"FTP"}`, wantStatus: http.StatusBadRequest},
		{
			name:       "missing configuration",
			body:       `{"backend_type":"POSTGRES"}`,
			err:        &adapter.MissingConfigurationError{BackendType: models.BackendPostgres, Field: adapter.FieldDSN},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "store failure",
			body:       `{"backend_type":"LOCAL_FOLDER","settings":{"path":"/tmp/x"}}`,
			err:        fmt.Errorf("store backend descriptor: %w", assert.AnError),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			syncSvc := &stubSyncService{err: tt.err}
			rec := doRequest(t, newTestRouter(t, syncSvc, ""), http.MethodPut, "/api/sync/backend", []byte(tt.body))

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestClearBackend(t *testing.T) {
	syncSvc := &stubSyncService{}
	rec := doRequest(t, newTestRouter(t, syncSvc, ""), http.MethodDelete, "/api/sync/backend", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, syncSvc.count("ClearActiveBackend"))
}

func TestTestConnection(t *testing.T) {
	for _, ok := range []bool{true, false} {
		syncSvc := &stubSyncService{connOK: ok}
		rec := doRequest(t, newTestRouter(t, syncSvc, ""), http.MethodPost, "/api/sync/backend/test", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, fmt.Sprintf(`{"ok":%t}`, ok), rec.Body.String())
	}
}

// ── Authenticate ─────────────────────────────────────────────────────────────

// consentBackend imitates an OAuth backend: it prompts with a fixed URL and
// accepts only the code "good-code".
func consentBackend(ctx context.Context, ic adapter.InteractiveContext) (bool, error) {
	if ic == nil {
		return false, adapter.ErrInteractionRequired
	}
	code, err := ic.Prompt(ctx, "https://accounts.example.com/consent?state=1")
	if err != nil {
		if err == adapter.ErrAuthDenied {
			return false, nil
		}
		return false, err
	}
	return code == "good-code", nil
}

func decodeAuth(t *testing.T, body []byte) models.AuthenticateResponse {
	t.Helper()
	var res models.AuthenticateResponse
	require.NoError(t, json.Unmarshal(body, &res), string(body))
	return res
}

func TestAuthenticate_NonInteractive(t *testing.T) {
	syncSvc := &stubSyncService{connOK: true}
	rec := doRequest(t, newTestRouter(t, syncSvc, ""), http.MethodPost, "/api/sync/backend/authenticate", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.AuthenticateResponse{Authenticated: true}, decodeAuth(t, rec.Body.Bytes()))
}

func TestAuthenticate_Error(t *testing.T) {
	syncSvc := &stubSyncService{err: fmt.Errorf("webdav probe: %w", adapter.ErrUnauthorized)}
	rec := doRequest(t, newTestRouter(t, syncSvc, ""), http.MethodPost, "/api/sync/backend/authenticate", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_ConsentFlow(t *testing.T) {
	tests := []struct {
		name       string
		consent    string
		wantStatus int
		wantAuth   bool
	}{
		{name: "accepted code", consent: `{"code":"good-code"}`, wantStatus: http.StatusOK, wantAuth: true},
		{name: "rejected code", consent: `{"code":"bad-code"}`, wantStatus: http.StatusOK, wantAuth: false},
		{name: "user denies", consent: `{"deny":true}`, wantStatus: http.StatusOK, wantAuth: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			syncSvc := &stubSyncService{authenticate: consentBackend}
			router := newTestRouter(t, syncSvc, "")

			rec := doRequest(t, router, http.MethodPost, "/api/sync/backend/authenticate", nil)
			require.Equal(t, http.StatusAccepted, rec.Code)
			assert.Equal(t, "https://accounts.example.com/consent?state=1", decodeAuth(t, rec.Body.Bytes()).AuthURL)

			rec = doRequest(t, router, http.MethodPost, "/api/sync/backend/authenticate/code", []byte(tt.consent))
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantAuth, decodeAuth(t, rec.Body.Bytes()).Authenticated)

			// поток завершён, повторная отправка кода некуда
			rec = doRequest(t, router, http.MethodPost, "/api/sync/backend/authenticate/code", []byte(tt.consent))
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestSubmitConsent_WithoutFlow(t *testing.T) {
	rec := doRequest(t, newTestRouter(t, &stubSyncService{}, ""), http.MethodPost, "/api/sync/backend/authenticate/code", []byte(`{"code":"x"}`))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitConsent_InvalidJSON(t *testing.T) {
	rec := doRequest(t, newTestRouter(t, &stubSyncService{}, ""), http.MethodPost, "/api/sync/backend/authenticate/code", []byte(`{`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthenticate_RestartCancelsPreviousFlow(t *testing.T) {
	cancelled := make(chan struct{})
	first := true
	syncSvc := &stubSyncService{}
	syncSvc.authenticate = func(ctx context.Context, ic adapter.InteractiveContext) (bool, error) {
		if first {
			first = false
			_, err := ic.Prompt(ctx, "https://first")
			if err != nil {
				close(cancelled)
			}
			return false, err
		}
		return consentBackend(ctx, ic)
	}
	router := newTestRouter(t, syncSvc, "")

	rec := doRequest(t, router, http.MethodPost, "/api/sync/backend/authenticate", nil)
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/sync/backend/authenticate", nil)
	require.Equal(t, http.StatusAccepted, rec.Code)

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("первый поток не был отменён")
	}

	rec = doRequest(t, router, http.MethodPost, "/api/sync/backend/authenticate/code", []byte(`{"code":"good-code"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeAuth(t, rec.Body.Bytes()).Authenticated)
}

func TestClearBackend_CancelsConsentFlow(t *testing.T) {
	syncSvc := &stubSyncService{authenticate: consentBackend}
	router := newTestRouter(t, syncSvc, "")

	rec := doRequest(t, router, http.MethodPost, "/api/sync/backend/authenticate", nil)
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = doRequest(t, router, http.MethodDelete, "/api/sync/backend", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/sync/backend/authenticate/code", []byte(`{"code":"good-code"}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
