package http

import (
	"sync"
	"time"

	"github.com/MKhiriev/go-pass-sync/internal/config"
	"github.com/MKhiriev/go-pass-sync/internal/logger"
	"github.com/MKhiriev/go-pass-sync/internal/service"
)

// Handler serves the local control API of one sync session.
type Handler struct {
	services *service.ClientServices

	token          string
	requestTimeout time.Duration

	// consent is the interactive authentication flow waiting for a code.
	consentMu sync.Mutex
	consent   *consentSession

	logger *logger.Logger
}

func NewHandler(services *service.ClientServices, cfg config.ClientControl, logger *logger.Logger) *Handler {
	logger.Info().Bool("token_required", cfg.Token != "").Msg("http handler created")
	return &Handler{
		services:       services,
		token:          cfg.Token,
		requestTimeout: cfg.RequestTimeout,
		logger:         logger,
	}
}
