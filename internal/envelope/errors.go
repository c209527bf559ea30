package envelope

import (
	"errors"
	"fmt"
)

var (
	// ErrCorruptedRecord is the common parent of every failure that means the
	// record cannot be trusted. All errors below wrap it.
	ErrCorruptedRecord = errors.New("corrupted record")

	ErrUnsupportedFormatVersion = fmt.Errorf("%w: unsupported format version", ErrCorruptedRecord)
	ErrAuthFailure              = fmt.Errorf("%w: authentication failed", ErrCorruptedRecord)
	ErrChecksumMismatch         = fmt.Errorf("%w: plaintext checksum mismatch", ErrCorruptedRecord)
	ErrMalformedRecord          = fmt.Errorf("%w: malformed record", ErrCorruptedRecord)

	// ErrInvalidFileName is returned by [ParseFileName] for names outside the naming scheme.
	ErrInvalidFileName = errors.New("invalid sync file name")
)
