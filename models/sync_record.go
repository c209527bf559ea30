// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// EncryptedPayload is the AEAD output for a single record.
type EncryptedPayload struct {
	// Ciphertext includes the authentication tag appended by the AEAD.
	Ciphertext []byte `json:"ciphertext"`

	// Nonce is the per-record nonce (IV). It is never reused with the same key.
	Nonce []byte `json:"nonce"`
}

// SyncRecord is the unit of exchange between the device and a remote backend.
//
// PlaintextChecksum is the hex SHA-256 of the plaintext taken before
// encryption. A record whose recovered plaintext does not hash to this value
// is corrupted, even if the AEAD accepted it.
type SyncRecord struct {
	ID                string           `json:"id"`
	DeviceID          string           `json:"device_id"`
	LogicalTimestamp  int64            `json:"logical_timestamp"`
	FormatVersion     int              `json:"format_version"`
	DataType          SyncDataType     `json:"data_type"`
	EncryptedPayload  EncryptedPayload `json:"encrypted_payload"`
	PlaintextChecksum string           `json:"plaintext_checksum"`
}
