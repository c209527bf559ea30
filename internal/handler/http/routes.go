package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withGZip)
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/api/version", h.getVersion)
		r.Get("/api/version/build", h.getBuildInfo)
	})

	// routes with authorization
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/api/sync/status", h.getStatus)
		r.Get("/api/sync/metadata", h.getMetadata)
		r.Get("/api/sync/conflict", h.getConflict)

		r.Post("/api/sync", h.syncNow)
		r.Post("/api/sync/trigger", h.triggerSync)
		r.Post("/api/sync/push", h.pushVault)
		r.Post("/api/sync/resolve", h.resolveConflict)
		r.Post("/api/sync/cleanup", h.cleanup)
		r.Post("/api/sync/reset", h.reset)
		r.Post("/api/sync/pending", h.markPending)

		r.Get("/api/sync/settings", h.downloadSettings)
		r.Put("/api/sync/settings", h.uploadSettings)

		r.Put("/api/sync/backend", h.setBackend)
		r.Delete("/api/sync/backend", h.clearBackend)
		r.Post("/api/sync/backend/test", h.testConnection)
		r.Post("/api/sync/backend/authenticate", h.authenticate)
		r.Post("/api/sync/backend/authenticate/code", h.submitConsent)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
