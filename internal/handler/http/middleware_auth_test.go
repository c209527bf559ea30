package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-pass-sync/internal/logger"
	"github.com/MKhiriev/go-pass-sync/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testControlToken = "s3cret-control-token"

// injectNopLogger кладёт nop-логгер в контекст запроса.
func injectNopLogger(r *http.Request) *http.Request {
	nop := logger.Nop()
	return r.WithContext(nop.Logger.WithContext(r.Context()))
}

func executeAuth(token, authHeader string) (*httptest.ResponseRecorder, bool) {
	h := &Handler{logger: logger.Nop(), token: token}

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	req := injectNopLogger(httptest.NewRequest(http.MethodPost, "/api/sync", nil))
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rr := httptest.NewRecorder()
	h.auth(next).ServeHTTP(rr, req)
	return rr, called
}

// ---- getTokenFromAuthHeader ----

func TestGetTokenFromAuthHeader_TableTest(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantToken string
		wantErr   error
	}{
		{name: "valid Bearer token", header: "Bearer abc", wantToken: "abc"},
		{name: "other scheme is accepted", header: "Token abc", wantToken: "abc"},
		{name: "no token part", header: "Bearer", wantErr: ErrInvalidAuthorizationHeader},
		{name: "empty token part", header: "Bearer ", wantErr: ErrEmptyToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := getTokenFromAuthHeader(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

// ---- auth middleware ----

func TestAuth_Middleware_TableTest(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		header     string
		wantStatus int
		wantNext   bool
		wantErr    error
	}{
		{name: "no token configured, no header", wantStatus: http.StatusOK, wantNext: true},
		{name: "no token configured, any header", header: "Bearer whatever", wantStatus: http.StatusOK, wantNext: true},
		{name: "matching token", token: testControlToken, header: "Bearer " + testControlToken, wantStatus: http.StatusOK, wantNext: true},
		{name: "missing header", token: testControlToken, wantStatus: http.StatusUnauthorized, wantErr: ErrEmptyAuthorizationHeader},
		{name: "malformed header", token: testControlToken, header: "Bearer", wantStatus: http.StatusUnauthorized, wantErr: ErrInvalidAuthorizationHeader},
		{name: "wrong token", token: testControlToken, header: "Bearer nope", wantStatus: http.StatusUnauthorized, wantErr: ErrWrongToken},
		{name: "token prefix is not enough", token: testControlToken, header: "Bearer s3cret", wantStatus: http.StatusUnauthorized, wantErr: ErrWrongToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, called := executeAuth(tt.token, tt.header)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantNext, called)

			if tt.wantErr != nil {
				var body utils.ErrorBody
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
				assert.Equal(t, tt.wantErr.Error(), body.Error)
			}
		})
	}
}
