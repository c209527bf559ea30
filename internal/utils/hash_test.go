// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"testing"
)

func TestHasher_MatchesDirectHMAC(t *testing.T) {
	key := "secret-key"
	h := NewHasher(key)

	data := []byte(`{"id":"a","ciphertext":"AAAA"}`)

	sum1 := h.Sum(data)
	sum2 := h.Sum(data)

	if len(sum1) == 0 {
		t.Fatal("hash result is empty")
	}
	if !bytes.Equal(sum1, sum2) {
		t.Fatal("hash must be deterministic for the same input")
	}

	// verify against direct HMAC computation
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(data)
	expected := mac.Sum(nil)

	if !bytes.Equal(sum1, expected) {
		t.Fatalf("unexpected hash value\nwant: %x\ngot:  %x", expected, sum1)
	}
	if h.HexSum(data) != hex.EncodeToString(expected) {
		t.Fatal("HexSum must be hex of Sum")
	}
}

func TestHasher_DifferentKeysIndependent(t *testing.T) {
	a := NewHasher("key-a")
	b := NewHasher("key-b")
	data := []byte("payload")

	if bytes.Equal(a.Sum(data), b.Sum(data)) {
		t.Fatal("hashers with different keys must produce different digests")
	}
	// a must be unaffected by b being created after it
	if a.HexSum(data) != HashString("payload", "key-a") {
		t.Fatal("hasher a lost its key")
	}
}

func TestHasher_DifferentPayloads(t *testing.T) {
	h := NewHasher("k")
	if bytes.Equal(h.Sum([]byte("one")), h.Sum([]byte("two"))) {
		t.Fatal("different payloads must produce different digests")
	}
}

func TestHasher_ConcurrentUse(t *testing.T) {
	h := NewHasher("k")
	want := h.HexSum([]byte("x"))

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := h.HexSum([]byte("x")); got != want {
				t.Errorf("concurrent hash mismatch: %s != %s", got, want)
			}
		}()
	}
	wg.Wait()
}

func TestHashString(t *testing.T) {
	got := HashString("data", "key")

	mac := hmac.New(sha256.New, []byte("key"))
	mac.Write([]byte("data"))
	if got != hex.EncodeToString(mac.Sum(nil)) {
		t.Fatalf("unexpected HashString result %s", got)
	}
}
