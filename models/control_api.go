package models

// Request and response bodies of the local control API. None of them carries
// ciphertext or key material; records are summarised by id, author and
// checksum.

// SyncResultResponse is the body returned by every mutating sync endpoint.
type SyncResultResponse struct {
	Result   string           `json:"result"`
	FileName string           `json:"file_name,omitempty"`
	Side     ConflictSide     `json:"side,omitempty"`
	Error    *SyncErrorBody   `json:"error,omitempty"`
	Conflict *ConflictSummary `json:"conflict,omitempty"`
}

// SyncErrorBody describes a classified sync failure.
type SyncErrorBody struct {
	Kind              string `json:"kind"`
	Message           string `json:"message"`
	StatusCode        int    `json:"status_code,omitempty"`
	RetryAfterSeconds int64  `json:"retry_after_seconds,omitempty"`
	Retryable         bool   `json:"retryable"`
}

// RecordSummary is the ciphertext-free view of a [SyncRecord].
type RecordSummary struct {
	ID                string       `json:"id"`
	DeviceID          string       `json:"device_id"`
	LogicalTimestamp  int64        `json:"logical_timestamp"`
	FormatVersion     int          `json:"format_version"`
	DataType          SyncDataType `json:"data_type"`
	PlaintextChecksum string       `json:"plaintext_checksum"`
	CiphertextBytes   int          `json:"ciphertext_bytes"`
}

// Summary returns the ciphertext-free view of r.
func (r SyncRecord) Summary() RecordSummary {
	return RecordSummary{
		ID:                r.ID,
		DeviceID:          r.DeviceID,
		LogicalTimestamp:  r.LogicalTimestamp,
		FormatVersion:     r.FormatVersion,
		DataType:          r.DataType,
		PlaintextChecksum: r.PlaintextChecksum,
		CiphertextBytes:   len(r.EncryptedPayload.Ciphertext),
	}
}

// ConflictSummary is the ciphertext-free view of a [ConflictCase].
type ConflictSummary struct {
	Local  RecordSummary `json:"local"`
	Remote RecordSummary `json:"remote"`
}

// NewConflictSummary summarises both sides of c.
func NewConflictSummary(c ConflictCase) ConflictSummary {
	return ConflictSummary{
		Local:  c.LocalVersion.Summary(),
		Remote: c.RemoteVersion.Summary(),
	}
}

// StatusResponse is the body of GET /api/sync/status.
type StatusResponse struct {
	Status          SyncStatus `json:"status"`
	PendingConflict bool       `json:"pending_conflict"`
}

// ResolveConflictRequest selects either a strategy or an explicit side.
// Side takes precedence when both are set.
type ResolveConflictRequest struct {
	Strategy ConflictStrategy `json:"strategy,omitempty"`
	Side     ConflictSide     `json:"side,omitempty"`
}

// CleanupRequest is the body of POST /api/sync/cleanup.
type CleanupRequest struct {
	Keep int `json:"keep"`
}

// BackendRequest configures the active backend. Unlike [BackendDescriptor]
// it carries credentials on the wire.
type BackendRequest struct {
	BackendType    BackendType       `json:"backend_type"`
	CredentialsRef string            `json:"credentials_ref,omitempty"`
	Settings       map[string]string `json:"settings,omitempty"`
	Credentials    map[string]string `json:"credentials,omitempty"`
}

// Descriptor converts the request into a [BackendDescriptor].
func (b BackendRequest) Descriptor() BackendDescriptor {
	return BackendDescriptor{
		BackendType:    b.BackendType,
		CredentialsRef: b.CredentialsRef,
		Credentials:    b.Credentials,
		CustomSettings: b.Settings,
	}
}

// AuthenticateResponse reports the outcome of an authentication step.
// AuthURL is set while a consent flow waits for the authorization code.
type AuthenticateResponse struct {
	Authenticated bool   `json:"authenticated"`
	AuthURL       string `json:"auth_url,omitempty"`
}

// ConsentRequest completes a pending consent flow with a code or a denial.
type ConsentRequest struct {
	Code string `json:"code,omitempty"`
	Deny bool   `json:"deny,omitempty"`
}

// ConnectionResponse is the body of POST /api/sync/test.
type ConnectionResponse struct {
	OK bool `json:"ok"`
}

// BuildInfoResponse is the body of GET /api/version/build.
type BuildInfoResponse struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}
