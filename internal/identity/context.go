// A1A T-Pro Authenticate & Authorize Library
// Copyright 2026 Watatek
// SPDX-License-Identifier: Apache-2.0

package identity

import (
	"context"
	"errors"
)

// ErrNoAuthenticatedUser is returned when an operation requires an
// authenticated user and the context carries none. This is a defined
// precondition failure, not a denial: the surrounding layer should surface
// it as an authentication problem (401), never a 403.
var ErrNoAuthenticatedUser = errors.New("no authenticated user in context")

type contextKey string

// userContextKey is the slot for the current UserContext. Scoped to the
// request context, so it is released on every exit path when the request
// context is discarded; nothing leaks across reused workers.
const userContextKey contextKey = "user"

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext returns the authenticated user, or false when the request is
// unauthenticated.
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

// MustFromContext returns the authenticated user or
// ErrNoAuthenticatedUser. Use it wherever an unauthenticated caller is a
// contract violation rather than an expected state.
func MustFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := FromContext(ctx)
	if !ok {
		return nil, ErrNoAuthenticatedUser
	}
	return user, nil
}
