// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package envelope

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-pass-sync/internal/crypto"
	"github.com/MKhiriev/go-pass-sync/models"
)

// CurrentFormatVersion is stamped on every sealed record. Records with a
// different version are rejected before any decryption.
const CurrentFormatVersion = 1

// Meta is the cleartext header of a record.
type Meta struct {
	ID               string
	DeviceID         string
	LogicalTimestamp int64
	DataType         models.SyncDataType
}

// Sealer seals and opens [models.SyncRecord] values with a single AEAD engine.
type Sealer struct {
	engine crypto.Engine
}

// NewSealer returns a Sealer backed by engine.
func NewSealer(engine crypto.Engine) *Sealer {
	return &Sealer{engine: engine}
}

// Seal encrypts plaintext under key and returns a record stamped with meta
// and [CurrentFormatVersion].
func (s *Sealer) Seal(plaintext, key []byte, meta Meta) (models.SyncRecord, error) {
	sum := sha256.Sum256(plaintext)

	ciphertext, nonce, err := s.engine.Seal(plaintext, key)
	if err != nil {
		return models.SyncRecord{}, fmt.Errorf("seal record %s: %w", meta.ID, err)
	}

	return models.SyncRecord{
		ID:               meta.ID,
		DeviceID:         meta.DeviceID,
		LogicalTimestamp: meta.LogicalTimestamp,
		FormatVersion:    CurrentFormatVersion,
		DataType:         meta.DataType,
		EncryptedPayload: models.EncryptedPayload{
			Ciphertext: ciphertext,
			Nonce:      nonce,
		},
		PlaintextChecksum: hex.EncodeToString(sum[:]),
	}, nil
}

// Open verifies and decrypts record. Every failure wraps [ErrCorruptedRecord]
// except an invalid key length, which is a caller bug.
func (s *Sealer) Open(record models.SyncRecord, key []byte) ([]byte, error) {
	if record.FormatVersion != CurrentFormatVersion {
		return nil, fmt.Errorf("%w: got %d, want %d",
			ErrUnsupportedFormatVersion, record.FormatVersion, CurrentFormatVersion)
	}

	plaintext, err := s.engine.Open(record.EncryptedPayload.Ciphertext, record.EncryptedPayload.Nonce, key)
	if err != nil {
		if errors.Is(err, crypto.ErrAuthFailure) {
			return nil, fmt.Errorf("open record %s: %w", record.ID, ErrAuthFailure)
		}
		return nil, fmt.Errorf("open record %s: %w", record.ID, err)
	}

	sum := sha256.Sum256(plaintext)
	want, err := hex.DecodeString(record.PlaintextChecksum)
	if err != nil || subtle.ConstantTimeCompare(sum[:], want) != 1 {
		return nil, fmt.Errorf("open record %s: %w", record.ID, ErrChecksumMismatch)
	}

	return plaintext, nil
}
