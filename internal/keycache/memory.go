// A1A T-Pro Authenticate & Authorize Library
// Copyright 2026 Watatek
// SPDX-License-Identifier: Apache-2.0

package keycache

import (
	"sync"
	"time"
)

// Memory is a mutex-guarded in-process Store with lazy expiry: staleness is
// checked at read time, there is no background sweeper.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	key       Key
	expiresAt time.Time
}

// NewMemory creates an empty in-memory key cache.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
	}
}

// Get returns the cached key for name, treating expired entries as misses.
func (m *Memory) Get(name string) (Key, bool) {
	m.mu.RLock()
	entry, ok := m.entries[name]
	m.mu.RUnlock()

	if !ok {
		return Key{}, false
	}

	if time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		// Re-check under the write lock; a concurrent Put may have
		// replaced the entry with a fresh one.
		if cur, ok := m.entries[name]; ok && time.Now().After(cur.expiresAt) {
			delete(m.entries, name)
		}
		m.mu.Unlock()
		return Key{}, false
	}

	return entry.key, true
}

// Put stores key under name with the given TTL, overwriting any prior entry.
func (m *Memory) Put(name string, key Key, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[name] = memoryEntry{
		key:       key,
		expiresAt: time.Now().Add(ttl),
	}
}

// Evict removes the entry for name.
func (m *Memory) Evict(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, name)
}

// Clear removes all entries.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]memoryEntry)
}
