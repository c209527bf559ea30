package handler

import (
	"github.com/MKhiriev/go-pass-sync/internal/config"
	"github.com/MKhiriev/go-pass-sync/internal/handler/http"
	"github.com/MKhiriev/go-pass-sync/internal/logger"
	"github.com/MKhiriev/go-pass-sync/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

// NewHandlers creates the control API handler. It fails when the control
// API is disabled, so callers check cfg.HTTPAddress first when the API is
// optional.
func NewHandlers(services *service.ClientServices, cfg config.ClientControl, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	return &Handlers{HTTP: http.NewHandler(services, cfg, logger)}, nil
}
