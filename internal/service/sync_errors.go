// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"fmt"
	"time"
)

// ErrorKind is the closed set of failure classes surfaced by the sync engine.
type ErrorKind int

const (
	KindNetwork ErrorKind = iota + 1
	KindRateLimitExceeded
	KindProvider
	KindAuthentication
	KindQuotaExceeded
	KindConflict
	KindCorruptedData
	KindFileNotFound

	// Session kinds. They never come from a backend.
	KindNotInitialized
	KindNotConfigured
	KindSuperseded
	KindInvalidState
)

var errorKindNames = map[ErrorKind]string{
	KindNetwork:           "NetworkError",
	KindRateLimitExceeded: "RateLimitExceeded",
	KindProvider:          "ProviderError",
	KindAuthentication:    "AuthenticationError",
	KindQuotaExceeded:     "QuotaExceeded",
	KindConflict:          "ConflictError",
	KindCorruptedData:     "CorruptedData",
	KindFileNotFound:      "FileNotFound",
	KindNotInitialized:    "NotInitialized",
	KindNotConfigured:     "NotConfigured",
	KindSuperseded:        "Superseded",
	KindInvalidState:      "InvalidState",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Suggested retry delays.
const (
	networkRetryDelay   = 5 * time.Second
	rateLimitRetryDelay = 60 * time.Second
	providerRetryDelay  = 10 * time.Second
)

// SyncError is a classified failure.
//
// StatusCode is set for ProviderError when the backend reported one.
// RetryAfter is the server hint for RateLimitExceeded, zero when absent.
type SyncError struct {
	Kind       ErrorKind
	StatusCode int
	RetryAfter time.Duration
	Message    string
	Err        error
}

func (e *SyncError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether repeating the failed operation may succeed
// without user action.
func (e *SyncError) IsRetryable() bool {
	switch e.Kind {
	case KindNetwork, KindRateLimitExceeded:
		return true
	case KindProvider:
		return e.StatusCode >= 500 && e.StatusCode <= 599
	default:
		return false
	}
}

// RetryDelay returns the suggested wait before a retry. The boolean is false
// for non-retryable kinds.
func (e *SyncError) RetryDelay() (time.Duration, bool) {
	if !e.IsRetryable() {
		return 0, false
	}
	switch e.Kind {
	case KindNetwork:
		return networkRetryDelay, true
	case KindRateLimitExceeded:
		if e.RetryAfter > 0 {
			return e.RetryAfter, true
		}
		return rateLimitRetryDelay, true
	default:
		return providerRetryDelay, true
	}
}

func newSyncError(kind ErrorKind, err error) *SyncError {
	se := &SyncError{Kind: kind, Err: err}
	if err != nil {
		se.Message = err.Error()
	}
	return se
}
