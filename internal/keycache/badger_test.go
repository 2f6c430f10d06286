// A1A T-Pro Authenticate & Authorize Library
// Copyright 2026 Watatek
// SPDX-License-Identifier: Apache-2.0

package keycache

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"
)

func newTestBadger(t *testing.T) *Badger {
	t.Helper()
	store, closeFn, err := OpenBadger(t.TempDir())
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	t.Cleanup(func() {
		if err := closeFn(); err != nil {
			t.Errorf("close badger: %v", err)
		}
	})
	return store
}

func TestBadgerPutGetSymmetric(t *testing.T) {
	store := newTestBadger(t)

	store.Put("signing-key", Key{Algorithm: "HS512", Secret: []byte("secret")}, time.Minute)

	got, ok := store.Get("signing-key")
	if !ok {
		t.Fatal("Get() miss after Put()")
	}
	if got.Algorithm != "HS512" || string(got.Secret) != "secret" {
		t.Errorf("Get() = %+v, want the stored key", got)
	}
}

func TestBadgerPutGetRSA(t *testing.T) {
	store := newTestBadger(t)

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}

	store.Put("signing-key", Key{Algorithm: "RS256", Public: &priv.PublicKey}, time.Minute)

	got, ok := store.Get("signing-key")
	if !ok {
		t.Fatal("Get() miss after Put()")
	}
	if got.Public == nil {
		t.Fatal("Get() returned no public key")
	}
	if got.Public.N.Cmp(priv.PublicKey.N) != 0 || got.Public.E != priv.PublicKey.E {
		t.Error("Get() public key does not round-trip")
	}
}

func TestBadgerMiss(t *testing.T) {
	store := newTestBadger(t)

	if _, ok := store.Get("signing-key"); ok {
		t.Error("Get() hit on empty store")
	}
}

func TestBadgerExpiry(t *testing.T) {
	store := newTestBadger(t)

	store.Put("signing-key", Key{Algorithm: "HS512", Secret: []byte("s")}, time.Second)
	time.Sleep(1500 * time.Millisecond)

	if _, ok := store.Get("signing-key"); ok {
		t.Error("Get() hit after TTL elapsed")
	}
}

func TestBadgerEvictAndClear(t *testing.T) {
	store := newTestBadger(t)

	store.Put("a", Key{Secret: []byte("s")}, time.Minute)
	store.Put("b", Key{Secret: []byte("s")}, time.Minute)

	store.Evict("a")
	if _, ok := store.Get("a"); ok {
		t.Error("Get(a) hit after Evict()")
	}
	if _, ok := store.Get("b"); !ok {
		t.Error("Evict(a) removed an unrelated entry")
	}

	store.Clear()
	if _, ok := store.Get("b"); ok {
		t.Error("Get(b) hit after Clear()")
	}
}
