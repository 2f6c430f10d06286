// A1A T-Pro Authenticate & Authorize Library
// Copyright 2026 Watatek
// SPDX-License-Identifier: Apache-2.0

// Package keysource acquires the current signing key from a key-publishing
// (JWKS) endpoint and serves it through the key cache. It is deliberately
// fail-fast: no retry or backoff, so "no valid key" surfaces immediately as
// an authentication outage instead of being masked.
package keysource

import (
	"context"
	"fmt"

	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/keycache"
)

// CacheName is the key-cache entry name for the current signing key.
const CacheName = "signing-key"

// Reason classifies key-acquisition failures.
type Reason string

const (
	// ReasonNetwork covers transport errors, timeouts, and non-200 responses.
	ReasonNetwork Reason = "network"

	// ReasonMalformedResponse covers undecodable bodies and documents
	// without a usable keys field.
	ReasonMalformedResponse Reason = "malformed-response"

	// ReasonNoMatchingKey means the document held no descriptor for the
	// configured algorithm family.
	ReasonNoMatchingKey Reason = "no-matching-key"

	// ReasonDecodeError means a matching descriptor carried malformed key
	// material.
	ReasonDecodeError Reason = "decode-error"
)

// Error is a key-acquisition failure with a machine-readable reason.
type Error struct {
	Reason Reason
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("key source: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("key source: %s", e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Source is the signing-key capability interface. In-process and networked
// implementations are interchangeable behind it.
type Source interface {
	// CurrentKey returns the current signing key, refreshing lazily on a
	// cache miss. Exactly one refresh attempt is made per call.
	CurrentKey(ctx context.Context) (keycache.Key, error)

	// ForceRefresh fetches the key from the publishing endpoint now,
	// overwriting any cached entry.
	ForceRefresh(ctx context.Context) error
}
