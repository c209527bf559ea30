package crypto

import (
	"sync"

	"github.com/awnumar/memguard"
)

// KeyHandle owns the vault key for the lifetime of a sync session.
//
// The key bytes live in a memguard LockedBuffer (mlocked, guarded pages).
// Use holds a read lock for the duration of the callback, so Wipe, which
// takes the write lock, blocks until every in-flight seal or open returns.
type KeyHandle struct {
	mu  sync.RWMutex
	buf *memguard.LockedBuffer
}

// NewKeyHandle moves key into protected memory. The source slice is zeroed.
func NewKeyHandle(key []byte) (*KeyHandle, error) {
	if len(key) != KeySize {
		memguard.WipeBytes(key)
		return nil, ErrInvalidKey
	}
	return &KeyHandle{buf: memguard.NewBufferFromBytes(key)}, nil
}

// Use calls fn with the raw key. fn must not retain the slice.
func (h *KeyHandle) Use(fn func(key []byte) error) error {
	if h == nil {
		return ErrKeyWiped
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.buf == nil || !h.buf.IsAlive() {
		return ErrKeyWiped
	}
	return fn(h.buf.Bytes())
}

// Wipe destroys the key. It is safe to call more than once.
func (h *KeyHandle) Wipe() {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.buf != nil {
		h.buf.Destroy()
		h.buf = nil
	}
}

// Alive reports whether the key is still usable.
func (h *KeyHandle) Alive() bool {
	if h == nil {
		return false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.buf != nil && h.buf.IsAlive()
}
