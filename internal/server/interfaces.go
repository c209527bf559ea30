package server

import "context"

// Server defines the lifecycle contract of the control API server.
type Server interface {
	// RunServer binds the listener and serves requests until ctx is
	// cancelled, then shuts down gracefully. It returns an error only when
	// the listener cannot be bound or serving fails.
	RunServer(ctx context.Context) error

	// Shutdown stops accepting connections and waits for in-flight requests
	// until ctx expires.
	Shutdown(ctx context.Context) error
}
