// A1A T-Pro Authenticate & Authorize Library
// Copyright 2026 Watatek
// SPDX-License-Identifier: Apache-2.0

package keycache

import (
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"math/big"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/logging"
)

// Key prefix for BadgerDB storage, keeping key-cache entries apart from any
// other data the embedding service stores in the same DB.
const badgerKeyPrefix = "signingkey:"

// Badger is a Store backed by BadgerDB. Entry expiry is enforced by
// badger's native TTL support, so a Get past the TTL is a plain
// key-not-found miss. Suitable when key material should survive restarts.
type Badger struct {
	db *badger.DB
}

// NewBadger creates a BadgerDB-backed key cache on an existing database
// handle. The caller owns the handle's lifecycle.
func NewBadger(db *badger.DB) *Badger {
	return &Badger{db: db}
}

// OpenBadger opens a BadgerDB at path and wraps it in a key cache.
func OpenBadger(path string) (*Badger, func() error, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, nil, err
	}
	return NewBadger(db), db.Close, nil
}

// storedKey is the serialized form of a Key. RSA public keys are stored as
// big-endian modulus bytes plus exponent.
type storedKey struct {
	Algorithm string `json:"alg"`
	Secret    []byte `json:"secret,omitempty"`
	Modulus   string `json:"n,omitempty"`
	Exponent  int    `json:"e,omitempty"`
}

func encodeKey(key Key) ([]byte, error) {
	s := storedKey{
		Algorithm: key.Algorithm,
		Secret:    key.Secret,
	}
	if key.Public != nil {
		s.Modulus = base64.RawURLEncoding.EncodeToString(key.Public.N.Bytes())
		s.Exponent = key.Public.E
	}
	return json.Marshal(s)
}

func decodeKey(data []byte) (Key, error) {
	var s storedKey
	if err := json.Unmarshal(data, &s); err != nil {
		return Key{}, err
	}
	key := Key{
		Algorithm: s.Algorithm,
		Secret:    s.Secret,
	}
	if s.Modulus != "" {
		n, err := base64.RawURLEncoding.DecodeString(s.Modulus)
		if err != nil {
			return Key{}, err
		}
		key.Public = &rsa.PublicKey{
			N: new(big.Int).SetBytes(n),
			E: s.Exponent,
		}
	}
	return key, nil
}

// Get returns the cached key for name. Storage errors are logged and
// reported as misses so the caller refreshes.
func (b *Badger) Get(name string) (Key, bool) {
	var key Key

	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerKeyPrefix + name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			key, err = decodeKey(val)
			return err
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return Key{}, false
	}
	if err != nil {
		logging.Err(err).Str("name", name).Msg("key cache read failed")
		return Key{}, false
	}

	return key, true
}

// Put stores key under name with badger-enforced TTL.
func (b *Badger) Put(name string, key Key, ttl time.Duration) {
	data, err := encodeKey(key)
	if err != nil {
		logging.Err(err).Str("name", name).Msg("key cache encode failed")
		return
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(badgerKeyPrefix+name), data).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		logging.Err(err).Str("name", name).Msg("key cache write failed")
	}
}

// Evict removes the entry for name.
func (b *Badger) Evict(name string) {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(badgerKeyPrefix + name))
	})
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		logging.Err(err).Str("name", name).Msg("key cache evict failed")
	}
}

// Clear removes all key-cache entries.
func (b *Badger) Clear() {
	if err := b.db.DropPrefix([]byte(badgerKeyPrefix)); err != nil {
		logging.Err(err).Msg("key cache clear failed")
	}
}
