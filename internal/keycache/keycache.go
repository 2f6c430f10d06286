// A1A T-Pro Authenticate & Authorize Library
// Copyright 2026 Watatek
// SPDX-License-Identifier: Apache-2.0

// Package keycache caches signing-key material under opaque names with a
// time-to-live. Both backends share one miss contract: a Get after the TTL
// has elapsed is indistinguishable from a Get for a name never set, so a
// miss always means "refresh".
package keycache

import (
	"crypto/rsa"
	"time"
)

// Key is opaque signing-key material together with the algorithm it serves.
// Exactly one of Secret or Public is populated depending on the family.
type Key struct {
	// Algorithm is the JWS algorithm name, e.g. "RS256" or "HS512".
	Algorithm string

	// Secret holds symmetric key bytes for the HMAC family.
	Secret []byte

	// Public holds the RSA public key for the RS family.
	Public *rsa.PublicKey
}

// Material returns the verification key in the form signature verifiers
// expect: []byte for HMAC, *rsa.PublicKey for RSA.
func (k Key) Material() any {
	if k.Public != nil {
		return k.Public
	}
	return k.Secret
}

// Store is the key-cache capability interface. Implementations must be safe
// for concurrent use; a Get never observes a partially written entry.
type Store interface {
	// Get returns the cached key for name, or false on a miss. Expired
	// entries are misses.
	Get(name string) (Key, bool)

	// Put stores key under name, overwriting any prior entry. The entry is
	// never returned past ttl.
	Put(name string, key Key, ttl time.Duration)

	// Evict removes the entry for name. No-op if absent.
	Evict(name string)

	// Clear removes all entries.
	Clear()
}
