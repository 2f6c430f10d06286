// A1A T-Pro Authenticate & Authorize Library
// Copyright 2026 Watatek
// SPDX-License-Identifier: Apache-2.0

package permission

import (
	"context"

	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/identity"
)

// StaticLoader serves fixed per-user permission sets. For tests and for
// embedding services that manage permissions out of band.
type StaticLoader struct {
	grants map[int64]Set
}

// NewStaticLoader builds a loader from a map of account ID to permission
// codes. Users absent from the map get an empty set.
func NewStaticLoader(grants map[int64][]string) *StaticLoader {
	l := &StaticLoader{grants: make(map[int64]Set, len(grants))}
	for id, codes := range grants {
		l.grants[id] = NewSet(codes...)
	}
	return l
}

// LoadPermissions returns the user's fixed set.
func (l *StaticLoader) LoadPermissions(ctx context.Context, user *identity.UserContext) (Set, error) {
	if user == nil {
		return nil, identity.ErrNoAuthenticatedUser
	}
	if set, ok := l.grants[user.AccountID]; ok {
		return set, nil
	}
	return Set{}, nil
}

// Invalidate is a no-op for a static loader.
func (l *StaticLoader) Invalidate(userID int64) {}

// Refresh returns the fixed set.
func (l *StaticLoader) Refresh(ctx context.Context, user *identity.UserContext) (Set, error) {
	return l.LoadPermissions(ctx, user)
}
