// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/go-pass-sync/models"
)

// RequiredFields returns the descriptor keys that must be present and
// non-blank for backend type t. It returns nil for NONE and unknown types.
func RequiredFields(t models.BackendType) []string {
	switch t {
	case models.BackendGoogleDrive:
		return []string{FieldClientID, FieldClientSecret}
	case models.BackendWebDAV:
		return []string{FieldServerURL, FieldUsername, FieldPassword}
	case models.BackendServer:
		return []string{FieldServerURL, FieldLogin, FieldPassword}
	case models.BackendPostgres:
		return []string{FieldDSN}
	case models.BackendLocalFolder:
		return []string{FieldPath}
	default:
		return nil
	}
}

// Validate checks desc without constructing anything. It returns
// ErrUnsupportedBackend or a *MissingConfigurationError.
func Validate(desc models.BackendDescriptor) error {
	if !isSupported(desc.BackendType) {
		return fmt.Errorf("%w: %s", ErrUnsupportedBackend, desc.BackendType)
	}
	for _, field := range RequiredFields(desc.BackendType) {
		if strings.TrimSpace(desc.Setting(field)) == "" {
			return &MissingConfigurationError{BackendType: desc.BackendType, Field: field}
		}
	}
	return nil
}

// NewBackend constructs the backend described by desc. It performs no network
// I/O: connections are established lazily by Authenticate or the first
// operation.
func NewBackend(desc models.BackendDescriptor, opts ...Option) (Backend, error) {
	if err := Validate(desc); err != nil {
		return nil, err
	}
	o := buildOptions(opts)

	switch desc.BackendType {
	case models.BackendGoogleDrive:
		return newDriveBackend(desc, o)
	case models.BackendWebDAV:
		return newWebDAVBackend(desc, o)
	case models.BackendServer:
		return newServerBackend(desc, o)
	case models.BackendPostgres:
		return newPostgresBackend(desc, o)
	case models.BackendLocalFolder:
		return newLocalFolderBackend(desc, o)
	case models.BackendNone:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBackend, desc.BackendType)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedBackend, desc.BackendType)
}

func isSupported(t models.BackendType) bool {
	for _, known := range models.AllBackendTypes() {
		if known == t {
			return true
		}
	}
	return false
}
