package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(b byte) []byte {
	return bytes.Repeat([]byte{b}, KeySize)
}

func TestNewEngine(t *testing.T) {
	tests := []struct {
		name     string
		cipher   string
		wantName string
		wantErr  error
	}{
		{name: "default", cipher: "", wantName: CipherAESGCM},
		{name: "aes", cipher: CipherAESGCM, wantName: CipherAESGCM},
		{name: "xchacha", cipher: CipherXChaCha, wantName: CipherXChaCha},
		{name: "unknown", cipher: "rot13", wantErr: ErrUnknownCipher},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEngine(tt.cipher)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, e.Name())
		})
	}
}

func TestEngines_RoundTrip(t *testing.T) {
	for _, name := range []string{CipherAESGCM, CipherXChaCha} {
		t.Run(name, func(t *testing.T) {
			e, err := NewEngine(name)
			require.NoError(t, err)

			plaintext := []byte(`{"entries":[{"title":"mail","password":"hunter2"}]}`)
			ct, nonce, err := e.Seal(plaintext, testKey(0x11))
			require.NoError(t, err)
			assert.NotContains(t, string(ct), "hunter2")

			got, err := e.Open(ct, nonce, testKey(0x11))
			require.NoError(t, err)
			assert.Equal(t, plaintext, got)
		})
	}
}

func TestEngines_FreshNoncePerSeal(t *testing.T) {
	e, _ := NewEngine(CipherAESGCM)

	ct1, n1, err := e.Seal([]byte("same"), testKey(1))
	require.NoError(t, err)
	ct2, n2, err := e.Seal([]byte("same"), testKey(1))
	require.NoError(t, err)

	assert.NotEqual(t, n1, n2)
	assert.NotEqual(t, ct1, ct2)
}

func TestEngines_OpenFailures(t *testing.T) {
	for _, name := range []string{CipherAESGCM, CipherXChaCha} {
		e, _ := NewEngine(name)
		ct, nonce, err := e.Seal([]byte("secret"), testKey(7))
		require.NoError(t, err)

		t.Run(name+"/wrong key", func(t *testing.T) {
			_, err := e.Open(ct, nonce, testKey(8))
			assert.ErrorIs(t, err, ErrAuthFailure)
		})

		t.Run(name+"/flipped ciphertext bit", func(t *testing.T) {
			bad := bytes.Clone(ct)
			bad[0] ^= 0x01
			_, err := e.Open(bad, nonce, testKey(7))
			assert.ErrorIs(t, err, ErrAuthFailure)
		})

		t.Run(name+"/flipped nonce bit", func(t *testing.T) {
			bad := bytes.Clone(nonce)
			bad[len(bad)-1] ^= 0x80
			_, err := e.Open(ct, bad, testKey(7))
			assert.ErrorIs(t, err, ErrAuthFailure)
		})

		t.Run(name+"/short nonce", func(t *testing.T) {
			_, err := e.Open(ct, nonce[:4], testKey(7))
			assert.ErrorIs(t, err, ErrAuthFailure)
		})
	}
}

func TestEngines_RejectShortKey(t *testing.T) {
	e, _ := NewEngine(CipherAESGCM)
	_, _, err := e.Seal([]byte("x"), []byte("short"))
	assert.ErrorIs(t, err, ErrInvalidKey)

	x, _ := NewEngine(CipherXChaCha)
	_, err = x.Open([]byte("x"), make([]byte, 24), []byte("short"))
	assert.ErrorIs(t, err, ErrInvalidKey)
}
