// A1A T-Pro Authenticate & Authorize Library
// Copyright 2026 Watatek
// SPDX-License-Identifier: Apache-2.0

package keysource

import (
	"context"
	"fmt"

	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/keycache"
)

// Static is a Source with a fixed symmetric secret, for deployments that
// share a secret out of band instead of publishing keys over HTTP, and for
// tests. ForceRefresh is a no-op.
type Static struct {
	key keycache.Key
}

// NewStatic creates a static key source. The secret must not be empty.
func NewStatic(algorithm string, secret []byte) (*Static, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("static key source requires a non-empty secret")
	}
	return &Static{
		key: keycache.Key{
			Algorithm: algorithm,
			Secret:    secret,
		},
	}, nil
}

// CurrentKey returns the fixed key.
func (s *Static) CurrentKey(ctx context.Context) (keycache.Key, error) {
	return s.key, nil
}

// ForceRefresh is a no-op; there is nothing to refresh.
func (s *Static) ForceRefresh(ctx context.Context) error {
	return nil
}
