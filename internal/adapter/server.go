package adapter

import (
	"context"
	"crypto/hmac"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-pass-sync/internal/logger"
	"github.com/MKhiriev/go-pass-sync/internal/utils"
	"github.com/MKhiriev/go-pass-sync/models"
	"github.com/go-resty/resty/v2"
)

// payloadHashHeader carries the hex HMAC-SHA256 of a blob body when the
// server and client share a hash key.
const payloadHashHeader = "X-Payload-Hash"

// tokenSkew is subtracted from the JWT expiry so that a token about to expire
// is treated as expired.
const tokenSkew = 30 * time.Second

// serverBackend stores records on a self-hosted go-pass-keeper server through
// its blob API. The bearer token obtained on login is kept in memory and
// exposed through [CredentialProvider] so that a restart does not require a
// new login while the token is still valid.
type serverBackend struct {
	client *utils.HTTPClient
	hasher *utils.Hasher

	login    string
	password string

	mu    sync.RWMutex
	token string

	now    func() time.Time
	logger *logger.Logger
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type blobUploadResponse struct {
	ID string `json:"id"`
}

type blobInfo struct {
	Name       string    `json:"name"`
	ModifiedAt time.Time `json:"modified_at"`
	Size       int64     `json:"size"`
}

// newServerBackend normalises and validates the base URL, configures the
// HTTP client with the resolved base URL and request timeout, and prepares
// the HMAC hasher used for transport integrity hashes when a hash key is set.
func newServerBackend(desc models.BackendDescriptor, o options) (Backend, error) {
	baseURL, err := normalizeBaseURL(desc.Setting(FieldServerURL))
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}

	var hasher *utils.Hasher
	if key := desc.Setting(FieldHashKey); key != "" {
		hasher = utils.NewHasher(key)
	}

	return &serverBackend{
		client:   utils.NewBackendHTTPClient(baseURL, o.timeout),
		hasher:   hasher,
		login:    desc.Setting(FieldLogin),
		password: desc.Setting(FieldPassword),
		token:    strings.TrimSpace(desc.Credentials[FieldToken]),
		now:      o.now,
		logger:   o.logger,
	}, nil
}

func (s *serverBackend) Type() models.BackendType { return models.BackendServer }

func (s *serverBackend) setToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = strings.TrimSpace(token)
}

func (s *serverBackend) currentToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Credentials implements [CredentialProvider].
func (s *serverBackend) Credentials() map[string]string {
	return map[string]string{FieldToken: s.currentToken()}
}

// Authenticate implements [Backend]. It POSTs the credentials to
// POST /api/auth/login and stores the bearer token from the Authorization
// response header. 401 and 403 are reported as a denial.
func (s *serverBackend) Authenticate(ctx context.Context, _ InteractiveContext) (bool, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(loginRequest{Login: s.login, Password: s.password}).
		Post("/api/auth/login")
	if err != nil {
		return false, wrapTransportError("server login", err)
	}
	if err = mapHTTPError(resp); err != nil {
		if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden) {
			s.logger.Warn().Str("func", "serverBackend.Authenticate").Err(err).Msg("server rejected credentials")
			return false, nil
		}
		return false, fmt.Errorf("server login: %w", err)
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return false, fmt.Errorf("server login: %w: %v", ErrProvider, err)
	}

	s.setToken(token)
	return true, nil
}

// IsAuthenticated implements [Backend]. An expired token short-circuits to
// false without a round trip.
func (s *serverBackend) IsAuthenticated(ctx context.Context) bool {
	token := s.currentToken()
	if token == "" || !utils.TokenValid(token, s.now(), tokenSkew) {
		return false
	}

	resp, err := s.authedRequest(ctx, token).Get("/api/blobs/quota")
	if err != nil {
		return false
	}
	return mapHTTPError(resp) == nil
}

func (s *serverBackend) authedRequest(ctx context.Context, token string) *resty.Request {
	req := s.client.R().SetContext(ctx)
	if token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func (s *serverBackend) session(ctx context.Context) (*resty.Request, error) {
	token := s.currentToken()
	if token == "" {
		return nil, ErrNotAuthenticated
	}
	return s.authedRequest(ctx, token), nil
}

func blobPath(id string) string {
	return "/api/blobs/" + url.PathEscape(id)
}

// Upload implements [Backend]. It PUTs the raw record to PUT /api/blobs/{id}
// and returns the server-side blob id.
func (s *serverBackend) Upload(ctx context.Context, id string, record []byte) (string, error) {
	if err := validObjectName(id); err != nil {
		return "", err
	}
	req, err := s.session(ctx)
	if err != nil {
		return "", err
	}

	var result blobUploadResponse
	req.SetHeader("Content-Type", "application/octet-stream").
		SetBody(record).
		SetResult(&result)
	if s.hasher != nil {
		req.SetHeader(payloadHashHeader, s.hasher.HexSum(record))
	}

	resp, err := req.Put(blobPath(id))
	if err != nil {
		return "", wrapTransportError("server upload", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", fmt.Errorf("server upload %s: %w", id, err)
	}

	return result.ID, nil
}

// Download implements [Backend]. When the server announces a payload hash
// and a hash key is configured, the body is verified against it.
func (s *serverBackend) Download(ctx context.Context, id string) ([]byte, error) {
	if err := validObjectName(id); err != nil {
		return nil, err
	}
	req, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := req.Get(blobPath(id))
	if err != nil {
		return nil, wrapTransportError("server download", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, fmt.Errorf("server download %s: %w", id, err)
	}

	body := resp.Body()
	if announced := resp.Header().Get(payloadHashHeader); announced != "" && s.hasher != nil {
		if !hmac.Equal([]byte(announced), []byte(s.hasher.HexSum(body))) {
			return nil, fmt.Errorf("server download %s: %w", id, ErrIntegrity)
		}
	}
	return body, nil
}

// List implements [Backend]. It GETs GET /api/blobs.
func (s *serverBackend) List(ctx context.Context) ([]models.RemoteFile, error) {
	req, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := req.Get("/api/blobs")
	if err != nil {
		return nil, wrapTransportError("server list", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, fmt.Errorf("server list: %w", err)
	}

	var blobs []blobInfo
	if err = json.Unmarshal(resp.Body(), &blobs); err != nil {
		return nil, fmt.Errorf("decode server list response: %w: %v", ErrProvider, err)
	}

	files := make([]models.RemoteFile, 0, len(blobs))
	for _, b := range blobs {
		files = append(files, models.RemoteFile{FileName: b.Name, ModifiedTime: b.ModifiedAt, SizeBytes: b.Size})
	}
	return files, nil
}

// Delete implements [Backend].
func (s *serverBackend) Delete(ctx context.Context, id string) (bool, error) {
	if err := validObjectName(id); err != nil {
		return false, err
	}
	req, err := s.session(ctx)
	if err != nil {
		return false, err
	}

	resp, err := req.Delete(blobPath(id))
	if err != nil {
		return false, wrapTransportError("server delete", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return false, nil
	}
	if err = mapHTTPError(resp); err != nil {
		return false, fmt.Errorf("server delete %s: %w", id, err)
	}
	return true, nil
}

// GetStorageQuota implements [Backend].
func (s *serverBackend) GetStorageQuota(ctx context.Context) (models.StorageQuota, error) {
	req, err := s.session(ctx)
	if err != nil {
		return models.StorageQuota{}, err
	}

	var q models.StorageQuota
	resp, err := req.SetResult(&q).Get("/api/blobs/quota")
	if err != nil {
		return models.StorageQuota{}, wrapTransportError("server quota", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.StorageQuota{}, fmt.Errorf("server quota: %w", err)
	}
	return q, nil
}

// Close implements [Backend].
func (s *serverBackend) Close() error {
	s.client.GetClient().CloseIdleConnections()
	return nil
}
