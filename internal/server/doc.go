// Package server runs the local control API.
//
// It owns the HTTP listener lifecycle: binding the configured loopback
// address, serving the chi router built by the handler package and shutting
// down gracefully when the run context is cancelled.
package server
