package crypto

import "errors"

var (
	// ErrAuthFailure is returned by [Engine.Open] when the ciphertext does not
	// authenticate under the given key and nonce.
	ErrAuthFailure = errors.New("authentication failed")

	// ErrInvalidKey is returned when key material has the wrong length or encoding.
	ErrInvalidKey = errors.New("invalid key")

	// ErrKeyUnavailable is returned by key providers that have nothing to derive a key from.
	ErrKeyUnavailable = errors.New("key unavailable")

	// ErrKeyWiped is returned by [KeyHandle.Use] after the handle has been wiped.
	ErrKeyWiped = errors.New("key wiped")

	// ErrUnknownCipher is returned by [NewEngine] for an unrecognised cipher name.
	ErrUnknownCipher = errors.New("unknown cipher")
)
