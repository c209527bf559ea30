package crypto

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_mock.go -package=mock

// Engine is the authenticated-encryption primitive used by the envelope layer.
// It knows nothing about records, backends or key storage. Its only job is
// to seal and open byte slices with a caller-supplied key.
type Engine interface {
	// Name returns the stable identifier of the cipher (for example "aes-256-gcm").
	Name() string

	// Seal encrypts plaintext with key under a freshly generated random nonce.
	// The returned ciphertext carries the authentication tag. The nonce is
	// never reused for the same key.
	Seal(plaintext, key []byte) (ciphertext, nonce []byte, err error)

	// Open verifies and decrypts ciphertext. Any tag mismatch, wrong key or
	// malformed nonce is reported as ErrAuthFailure without further detail.
	Open(ciphertext, nonce, key []byte) ([]byte, error)
}

// KeyProvider supplies the symmetric key of the unlocked vault.
//
// The key lifecycle (derivation, unlock, lock) belongs to the provider; the
// sync engine only obtains a handle and wipes it on reset.
type KeyProvider interface {
	// ObtainKey returns a live handle to the vault key. Returns
	// ErrKeyUnavailable when no key material is configured and ErrInvalidKey
	// when the material cannot be decoded into a 256-bit key.
	ObtainKey(ctx context.Context) (*KeyHandle, error)
}

// SaltStore persists the Argon2id salt used by [PassphraseKeyProvider].
// The salt is not secret. It only has to be stable across restarts.
type SaltStore interface {
	GetKeySalt(ctx context.Context) ([]byte, error)
	SetKeySalt(ctx context.Context, salt []byte) error
}
