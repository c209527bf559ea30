// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// CipherAESGCM selects AES-256-GCM with a 12-byte random nonce.
	CipherAESGCM = "aes-256-gcm"

	// CipherXChaCha selects XChaCha20-Poly1305 with a 24-byte random nonce.
	CipherXChaCha = "xchacha20-poly1305"

	// KeySize is the key length accepted by every engine (256 bits).
	KeySize = 32
)

// NewEngine returns the [Engine] registered under name. The empty string
// selects AES-256-GCM.
func NewEngine(name string) (Engine, error) {
	switch name {
	case "", CipherAESGCM:
		return aesGCMEngine{}, nil
	case CipherXChaCha:
		return xChaChaEngine{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCipher, name)
	}
}

// aesGCMEngine implements [Engine] with AES-256-GCM.
type aesGCMEngine struct{}

func (aesGCMEngine) Name() string { return CipherAESGCM }

// Seal implements [Engine].
func (aesGCMEngine) Seal(plaintext, key []byte) ([]byte, []byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}
	return seal(gcm, plaintext)
}

// Open implements [Engine].
func (aesGCMEngine) Open(ciphertext, nonce, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	return open(gcm, ciphertext, nonce)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: AES-256 requires %d bytes, got %d", ErrInvalidKey, KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}

// xChaChaEngine implements [Engine] with XChaCha20-Poly1305. The extended
// nonce makes random nonces safe for a practically unbounded number of records.
type xChaChaEngine struct{}

func (xChaChaEngine) Name() string { return CipherXChaCha }

// Seal implements [Engine].
func (xChaChaEngine) Seal(plaintext, key []byte) ([]byte, []byte, error) {
	aead, err := newXChaCha(key)
	if err != nil {
		return nil, nil, err
	}
	return seal(aead, plaintext)
}

// Open implements [Engine].
func (xChaChaEngine) Open(ciphertext, nonce, key []byte) ([]byte, error) {
	aead, err := newXChaCha(key)
	if err != nil {
		return nil, err
	}
	return open(aead, ciphertext, nonce)
}

func newXChaCha(key []byte) (cipher.AEAD, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("%w: XChaCha20-Poly1305 requires %d bytes, got %d",
			ErrInvalidKey, chacha20poly1305.KeySize, len(key))
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create xchacha20-poly1305: %w", err)
	}
	return aead, nil
}

func seal(aead cipher.AEAD, plaintext []byte) ([]byte, []byte, error) {
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, fmt.Errorf("generate nonce: %w", err)
	}
	return aead.Seal(nil, nonce, plaintext, nil), nonce, nil
}

func open(aead cipher.AEAD, ciphertext, nonce []byte) ([]byte, error) {
	if len(nonce) != aead.NonceSize() {
		return nil, ErrAuthFailure
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthFailure
	}
	return plaintext, nil
}
