// A1A T-Pro Authenticate & Authorize Library
// Copyright 2026 Watatek
// SPDX-License-Identifier: Apache-2.0

package permission

import (
	"context"
	"sync"
	"time"

	"github.com/truongvowatatek/A1A-T-Pro-Authenticate-And-Authorize-Library/internal/identity"
)

// CachedLoader decorates a Loader with a per-user TTL cache. Only
// successful loads are cached; failures always fall through to the
// delegate on the next call.
type CachedLoader struct {
	delegate Loader
	ttl      time.Duration

	mu      sync.RWMutex
	entries map[int64]cachedEntry

	now func() time.Time
}

type cachedEntry struct {
	set       Set
	expiresAt time.Time
}

// NewCachedLoader wraps delegate with a TTL cache.
func NewCachedLoader(delegate Loader, ttl time.Duration) *CachedLoader {
	return &CachedLoader{
		delegate: delegate,
		ttl:      ttl,
		entries:  make(map[int64]cachedEntry),
		now:      time.Now,
	}
}

// LoadPermissions returns the cached set when fresh, otherwise loads from
// the delegate and caches the result.
func (c *CachedLoader) LoadPermissions(ctx context.Context, user *identity.UserContext) (Set, error) {
	if user == nil {
		return nil, identity.ErrNoAuthenticatedUser
	}

	c.mu.RLock()
	entry, ok := c.entries[user.AccountID]
	c.mu.RUnlock()
	if ok && c.now().Before(entry.expiresAt) {
		return entry.set, nil
	}

	set, err := c.delegate.LoadPermissions(ctx, user)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[user.AccountID] = cachedEntry{set: set, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()

	return set, nil
}

// Invalidate drops the user's cached entry.
func (c *CachedLoader) Invalidate(userID int64) {
	c.mu.Lock()
	delete(c.entries, userID)
	c.mu.Unlock()
	c.delegate.Invalidate(userID)
}

// Refresh drops the cached entry and loads fresh permissions.
func (c *CachedLoader) Refresh(ctx context.Context, user *identity.UserContext) (Set, error) {
	if user == nil {
		return nil, identity.ErrNoAuthenticatedUser
	}
	c.Invalidate(user.AccountID)
	return c.LoadPermissions(ctx, user)
}
