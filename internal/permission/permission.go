// A1A T-Pro Authenticate & Authorize Library
// Copyright 2026 Watatek
// SPDX-License-Identifier: Apache-2.0

// Package permission loads per-user permission sets from the permission
// gateway and exposes them to the policy engines.
package permission

import (
	"context"
	"errors"
	"sort"

	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/identity"
)

// ErrUnauthorized indicates the permission gateway rejected the caller's
// credentials. This error is never degraded to an empty permission set;
// it must propagate so the caller is re-authenticated.
var ErrUnauthorized = errors.New("permission gateway rejected credentials")

// Set is an unordered collection of permission codes.
type Set map[string]struct{}

// NewSet builds a Set from the given codes.
func NewSet(codes ...string) Set {
	s := make(Set, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

// Has reports whether the set contains code.
func (s Set) Has(code string) bool {
	_, ok := s[code]
	return ok
}

// HasAny reports whether the set contains at least one of codes.
func (s Set) HasAny(codes ...string) bool {
	for _, c := range codes {
		if s.Has(c) {
			return true
		}
	}
	return false
}

// HasAll reports whether the set contains every one of codes. False for an
// empty list.
func (s Set) HasAll(codes ...string) bool {
	if len(codes) == 0 {
		return false
	}
	for _, c := range codes {
		if !s.Has(c) {
			return false
		}
	}
	return true
}

// List returns the codes in sorted order, for logging and tests.
func (s Set) List() []string {
	out := make([]string, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Loader resolves the permission set of an authenticated user.
type Loader interface {
	// LoadPermissions returns the user's current permission codes. A failure
	// other than ErrUnauthorized may be degraded by the caller; an
	// ErrUnauthorized must propagate untouched.
	LoadPermissions(ctx context.Context, user *identity.UserContext) (Set, error)

	// Invalidate drops any cached permissions for the user. A no-op for
	// loaders that do not cache.
	Invalidate(userID int64)

	// Refresh drops cached state and loads fresh permissions.
	Refresh(ctx context.Context, user *identity.UserContext) (Set, error)
}
