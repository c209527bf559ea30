package service

import "github.com/MKhiriev/go-pass-sync/models"

// ResultKind discriminates [SyncResult].
type ResultKind int

const (
	ResultSuccess ResultKind = iota
	ResultError
	ResultConflict
)

func (k ResultKind) String() string {
	switch k {
	case ResultSuccess:
		return "SUCCESS"
	case ResultError:
		return "ERROR"
	case ResultConflict:
		return "CONFLICT"
	default:
		return "UNKNOWN"
	}
}

// SyncResult is returned by every mutating engine operation. Exactly one of
// Err and Conflict is set for ResultError and ResultConflict respectively.
type SyncResult struct {
	Kind     ResultKind
	Err      *SyncError
	Conflict *models.ConflictCase

	// FileName is the remote object written or applied, if any.
	FileName string
	// Side is set by conflict resolution.
	Side models.ConflictSide
	// Payload is the plaintext taken from the remote side when it won.
	Payload []byte
}

func successResult(fileName string) SyncResult {
	return SyncResult{Kind: ResultSuccess, FileName: fileName}
}

func errorResult(err *SyncError) SyncResult {
	return SyncResult{Kind: ResultError, Err: err}
}

func conflictResult(c models.ConflictCase) SyncResult {
	return SyncResult{Kind: ResultConflict, Conflict: &c}
}

// IsSuccess reports whether the operation completed.
func (r SyncResult) IsSuccess() bool {
	return r.Kind == ResultSuccess
}
