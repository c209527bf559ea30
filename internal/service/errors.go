package service

import "errors"

var (
	// ErrNotInitialized is returned while no usable vault key is available.
	ErrNotInitialized = errors.New("sync engine is not initialized")

	// ErrNotConfigured is returned when no backend is active.
	ErrNotConfigured = errors.New("no active sync backend")

	// ErrReconfigurationRequired is returned by rehydration when the persisted
	// descriptor is missing or lacks a required field. The user has to
	// configure the backend again; re-authenticating will not help.
	ErrReconfigurationRequired = errors.New("backend must be reconfigured")

	// ErrSuperseded is returned when the backend was switched or the session
	// reset while the operation was in flight. Its result was discarded.
	ErrSuperseded = errors.New("operation superseded by backend change")

	// ErrNoPendingConflict is returned by conflict resolution when there is
	// nothing to resolve.
	ErrNoPendingConflict = errors.New("no pending conflict")

	// ErrNoRemoteRecord is returned when the backend holds no record of the
	// synced data type.
	ErrNoRemoteRecord = errors.New("no remote record")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)
