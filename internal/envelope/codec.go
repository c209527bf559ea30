package envelope

import (
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-pass-sync/models"
)

// wireRecord is the JSON shape stored on remote backends. Byte slices are
// base64 encoded by encoding/json.
type wireRecord struct {
	ID                string              `json:"id"`
	DeviceID          string              `json:"device_id"`
	LogicalTimestamp  int64               `json:"logical_timestamp"`
	FormatVersion     int                 `json:"format_version"`
	DataType          models.SyncDataType `json:"data_type"`
	Ciphertext        []byte              `json:"ciphertext"`
	Nonce             []byte              `json:"nonce"`
	PlaintextChecksum string              `json:"plaintext_checksum"`
}

// Encode serializes record into its wire form.
func Encode(record models.SyncRecord) ([]byte, error) {
	data, err := json.Marshal(wireRecord{
		ID:                record.ID,
		DeviceID:          record.DeviceID,
		LogicalTimestamp:  record.LogicalTimestamp,
		FormatVersion:     record.FormatVersion,
		DataType:          record.DataType,
		Ciphertext:        record.EncryptedPayload.Ciphertext,
		Nonce:             record.EncryptedPayload.Nonce,
		PlaintextChecksum: record.PlaintextChecksum,
	})
	if err != nil {
		return nil, fmt.Errorf("encode record %s: %w", record.ID, err)
	}
	return data, nil
}

// Decode parses the wire form. Structural problems are reported as
// [ErrMalformedRecord]; the format version is checked later by [Sealer.Open].
func Decode(data []byte) (models.SyncRecord, error) {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return models.SyncRecord{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if w.ID == "" || len(w.Nonce) == 0 || len(w.Ciphertext) == 0 {
		return models.SyncRecord{}, fmt.Errorf("%w: missing id, nonce or ciphertext", ErrMalformedRecord)
	}

	return models.SyncRecord{
		ID:               w.ID,
		DeviceID:         w.DeviceID,
		LogicalTimestamp: w.LogicalTimestamp,
		FormatVersion:    w.FormatVersion,
		DataType:         w.DataType,
		EncryptedPayload: models.EncryptedPayload{
			Ciphertext: w.Ciphertext,
			Nonce:      w.Nonce,
		},
		PlaintextChecksum: w.PlaintextChecksum,
	}, nil
}
