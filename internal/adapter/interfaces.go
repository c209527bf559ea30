// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the remote storage backends used by the sync
// engine.
//
// The primary abstraction is [Backend], which decouples the sync engine from
// the underlying storage protocol. Every backend stores opaque, already
// encrypted records keyed by an object name; none of them ever sees a
// plaintext vault. Concrete backends are constructed exclusively through
// [NewBackend] from a [models.BackendDescriptor].
//
// Error values defined in errors.go are produced by every backend (HTTP status
// codes, Drive API errors, PostgreSQL error codes, bbolt failures) so that the
// sync engine can classify faults with [errors.Is] and [errors.As] without
// knowing which backend produced them.
package adapter

import (
	"context"

	"github.com/MKhiriev/go-pass-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/backend_mock.go -package=mock

// Backend is the capability set every remote storage provider exposes.
// Implementations are responsible for serialisation of transport requests,
// credential handling, and mapping protocol-level errors to the sentinel
// values defined in this package.
type Backend interface {
	// Type returns the tag this backend was constructed for.
	Type() models.BackendType

	// Authenticate performs whatever handshake the backend needs (OAuth code
	// exchange, login, connection check) and prepares remote storage for use.
	// It returns (false, nil) when the user or the remote side denies access;
	// a non-nil error means the attempt itself failed.
	Authenticate(ctx context.Context, ic InteractiveContext) (bool, error)

	// IsAuthenticated probes the backend with the current credentials and
	// reports whether requests would currently be accepted. It never prompts.
	IsAuthenticated(ctx context.Context) bool

	// Upload stores record under id, replacing any previous object with the
	// same id. It returns a backend-specific handle of the stored object.
	// An empty handle with a nil error is a provider fault.
	Upload(ctx context.Context, id string, record []byte) (string, error)

	// Download returns the object stored under id, or (nil, nil) when no such
	// object exists.
	Download(ctx context.Context, id string) ([]byte, error)

	// List returns every object in the backend's sync area.
	List(ctx context.Context) ([]models.RemoteFile, error)

	// Delete removes the object stored under id. It returns false when there
	// was nothing to delete.
	Delete(ctx context.Context, id string) (bool, error)

	// GetStorageQuota reports remote usage. TotalBytes is zero when the
	// provider has no known limit.
	GetStorageQuota(ctx context.Context) (models.StorageQuota, error)

	// Close releases connections and file handles. The backend must not be
	// used afterwards.
	Close() error
}

// InteractiveContext carries user interaction for authentication flows that
// need it (OAuth consent). Backends that authenticate non-interactively
// ignore it, so callers may pass nil for them.
type InteractiveContext interface {
	// Prompt shows authURL to the user and returns the authorization code the
	// user obtained. It returns ErrAuthDenied when the user declines.
	Prompt(ctx context.Context, authURL string) (string, error)
}

// CredentialProvider is implemented by backends whose credentials change
// during authentication (OAuth tokens, bearer tokens). The sync engine
// persists the returned map into the descriptor after a successful
// Authenticate.
type CredentialProvider interface {
	Credentials() map[string]string
}
