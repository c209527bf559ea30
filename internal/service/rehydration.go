// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-pass-sync/internal/adapter"
	"github.com/MKhiriev/go-pass-sync/internal/logger"
	"github.com/MKhiriev/go-pass-sync/internal/store"
	"github.com/MKhiriev/go-pass-sync/models"
)

// Rehydrator rebuilds the previously active backend from persisted
// configuration. It never authenticates and never touches the rings.
type Rehydrator struct {
	credentials store.CredentialStore
	state       store.SyncStateStore
	backendOpts []adapter.Option
	newBackend  func(models.BackendDescriptor, ...adapter.Option) (adapter.Backend, error)
}

// NewRehydrator wires a Rehydrator. opts are passed to [adapter.NewBackend].
func NewRehydrator(credentials store.CredentialStore, state store.SyncStateStore, opts ...adapter.Option) *Rehydrator {
	return &Rehydrator{
		credentials: credentials,
		state:       state,
		backendOpts: opts,
		newBackend:  adapter.NewBackend,
	}
}

// Rehydrate returns the backend of the persisted active type together with
// its descriptor.
//
// A nil backend with a nil error means nothing was persisted. A missing
// descriptor or required field yields [ErrReconfigurationRequired].
func (r *Rehydrator) Rehydrate(ctx context.Context) (adapter.Backend, *models.BackendDescriptor, error) {
	log := logger.FromContext(ctx)

	state, err := r.state.LoadState(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load sync state: %w", err)
	}
	if state.ActiveBackend == models.BackendNone {
		log.Debug().Str("func", "Rehydrator.Rehydrate").Msg("no active backend persisted")
		return nil, nil, nil
	}

	desc, err := r.credentials.Get(ctx, state.ActiveBackend)
	if errors.Is(err, store.ErrDescriptorNotFound) {
		return nil, nil, fmt.Errorf("%w: no stored descriptor for %s", ErrReconfigurationRequired, state.ActiveBackend)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load descriptor of %s: %w", state.ActiveBackend, err)
	}

	if err = adapter.Validate(*desc); err != nil {
		desc.Wipe()
		if errors.Is(err, adapter.ErrMissingConfiguration) {
			return nil, nil, fmt.Errorf("%w: %w", ErrReconfigurationRequired, err)
		}
		return nil, nil, err
	}

	backend, err := r.newBackend(*desc, r.backendOpts...)
	if err != nil {
		desc.Wipe()
		return nil, nil, fmt.Errorf("construct %s backend: %w", state.ActiveBackend, err)
	}

	log.Info().
		Str("func", "Rehydrator.Rehydrate").
		Str("backend_type", state.ActiveBackend.String()).
		Msg("backend rehydrated")
	return backend, desc, nil
}
