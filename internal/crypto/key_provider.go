// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/argon2"
)

// saltSize is the length of a freshly generated Argon2id salt (128 bits).
const saltSize = 16

// PassphraseKeyProvider derives the vault key from a master passphrase with
// Argon2id. The salt is generated on first use and persisted via [SaltStore].
type PassphraseKeyProvider struct {
	passphrase string
	salts      SaltStore

	// Argon2id tuning parameters. Stored in the struct so they can be
	// adjusted per deployment target (e.g. mobile vs. desktop).
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
}

// NewPassphraseKeyProvider constructs a provider with the Argon2id
// parameters recommended by OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - key length:  32 bytes (256 bits)
func NewPassphraseKeyProvider(passphrase string, salts SaltStore) *PassphraseKeyProvider {
	return &PassphraseKeyProvider{
		passphrase:   passphrase,
		salts:        salts,
		argonTime:    1,
		argonMemory:  64 * 1024, // 64 MiB
		argonThreads: 4,
	}
}

// ObtainKey implements [KeyProvider].
func (p *PassphraseKeyProvider) ObtainKey(ctx context.Context) (*KeyHandle, error) {
	if p.passphrase == "" {
		return nil, fmt.Errorf("%w: empty passphrase", ErrKeyUnavailable)
	}

	salt, err := p.salts.GetKeySalt(ctx)
	if err != nil {
		return nil, fmt.Errorf("load key salt: %w", err)
	}
	if len(salt) == 0 {
		salt = make([]byte, saltSize)
		if _, err = io.ReadFull(rand.Reader, salt); err != nil {
			return nil, fmt.Errorf("generate key salt: %w", err)
		}
		if err = p.salts.SetKeySalt(ctx, salt); err != nil {
			return nil, fmt.Errorf("persist key salt: %w", err)
		}
	}

	key := argon2.IDKey([]byte(p.passphrase), salt, p.argonTime, p.argonMemory, p.argonThreads, KeySize)
	return NewKeyHandle(key)
}

// EnvKeyProvider reads a hex-encoded 256-bit key from an environment variable.
type EnvKeyProvider struct {
	name   string
	lookup func(string) (string, bool)
}

// NewEnvKeyProvider returns a provider reading the variable name.
func NewEnvKeyProvider(name string) *EnvKeyProvider {
	return &EnvKeyProvider{name: name, lookup: os.LookupEnv}
}

// ObtainKey implements [KeyProvider].
func (p *EnvKeyProvider) ObtainKey(_ context.Context) (*KeyHandle, error) {
	raw, ok := p.lookup(p.name)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: %s is not set", ErrKeyUnavailable, p.name)
	}
	return DecodeHexKey(raw)
}

// StaticKeyProvider returns a handle over a fixed hex key. It backs the
// APP_KEY_HEX configuration option.
type StaticKeyProvider struct {
	hexKey string
}

// NewStaticKeyProvider returns a provider for hexKey.
func NewStaticKeyProvider(hexKey string) *StaticKeyProvider {
	return &StaticKeyProvider{hexKey: hexKey}
}

// ObtainKey implements [KeyProvider].
func (p *StaticKeyProvider) ObtainKey(_ context.Context) (*KeyHandle, error) {
	if strings.TrimSpace(p.hexKey) == "" {
		return nil, fmt.Errorf("%w: empty key", ErrKeyUnavailable)
	}
	return DecodeHexKey(p.hexKey)
}

// DecodeHexKey decodes a 64-character hex string into a [KeyHandle].
func DecodeHexKey(s string) (*KeyHandle, error) {
	key, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return NewKeyHandle(key)
}
