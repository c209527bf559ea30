package adapter

import (
	"net/http"
	"time"

	"github.com/MKhiriev/go-pass-sync/internal/logger"
)

// Descriptor keys understood by the built-in backends. Secrets are read from
// BackendDescriptor.Credentials, everything else from CustomSettings; see
// [models.BackendDescriptor.Setting].
const (
	FieldClientID     = "client_id"
	FieldClientSecret = "client_secret"
	FieldRedirectURL  = "redirect_url"
	FieldServerURL    = "server_url"
	FieldUsername     = "username"
	FieldPassword     = "password"
	FieldLogin        = "login"
	FieldDSN          = "dsn"
	FieldPath         = "path"
	FieldFolder       = "folder"
	FieldHashKey      = "hash_key"
	FieldToken        = "token"
	FieldAuthURL      = "auth_url"
	FieldTokenURL     = "token_url"
)

const (
	defaultTimeout = 30 * time.Second
	defaultFolder  = "go-pass-sync"
)

type options struct {
	logger        *logger.Logger
	timeout       time.Duration
	httpClient    *http.Client
	driveEndpoint string
	now           func() time.Time
}

// Option customises backend construction.
type Option func(*options)

// WithLogger sets the logger used by the backend.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTimeout sets the per-request timeout of network backends.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithHTTPClient overrides the transport used by the Google Drive backend.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithDriveEndpoint points the Google Drive backend at a different API root.
func WithDriveEndpoint(url string) Option {
	return func(o *options) { o.driveEndpoint = url }
}

func buildOptions(opts []Option) options {
	o := options{
		logger:  logger.Nop(),
		timeout: defaultTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
