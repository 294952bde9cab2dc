// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// cleanupInterval is how often the background sweep removes expired entries.
// Expired entries are also removed lazily on Get, so the sweep only bounds
// memory held by keys that are never read again.
const cleanupInterval = 5 * time.Minute

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore is a thread-safe in-process TTL cache. It is the default
// backend for single-instance deployments and for tests.
type MemoryStore struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	defaultTTL time.Duration

	statsMu     sync.Mutex
	hits        int64
	misses      int64
	evictions   int64
	lastCleanup time.Time

	stop chan struct{}
}

// NewMemoryStore creates a memory-backed Store with the given default TTL
// and starts the background cleanup goroutine.
func NewMemoryStore(defaultTTL time.Duration) *MemoryStore {
	m := &MemoryStore{
		entries:     make(map[string]memoryEntry),
		defaultTTL:  defaultTTL,
		lastCleanup: time.Now(),
		stop:        make(chan struct{}),
	}
	go m.cleanupLoop()
	return m
}

// Get returns the value for key if present and not expired. Expired entries
// are deleted on access and counted as both a miss and an eviction.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	entry, exists := m.entries[key]
	m.mu.RUnlock()

	if !exists {
		m.recordMiss()
		return nil, false
	}

	if time.Now().After(entry.expiresAt) {
		// Re-check under the write lock: a concurrent Set may have
		// replaced the entry between the two lock acquisitions, and its
		// fresh value must not be purged.
		m.mu.Lock()
		current, ok := m.entries[key]
		if ok && time.Now().Before(current.expiresAt) {
			m.mu.Unlock()
			m.recordHit()
			return current.data, true
		}
		if ok {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		m.recordMiss()
		if ok {
			m.recordEvictions(1)
		}
		return nil, false
	}

	m.recordHit()
	return entry.data, true
}

// Set stores value under key. A non-positive ttl uses the store's default.
func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = m.defaultTTL
	}
	m.mu.Lock()
	m.entries[key] = memoryEntry{
		data:      value,
		expiresAt: time.Now().Add(ttl),
	}
	m.mu.Unlock()
}

// Delete removes a single key.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	_, existed := m.entries[key]
	delete(m.entries, key)
	m.mu.Unlock()

	if existed {
		m.recordEvictions(1)
	}
	return nil
}

// DeleteByPrefix removes every key starting with prefix.
func (m *MemoryStore) DeleteByPrefix(_ context.Context, prefix string) (int, error) {
	m.mu.Lock()
	removed := 0
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
			removed++
		}
	}
	m.mu.Unlock()

	m.recordEvictions(int64(removed))
	return removed, nil
}

// Clear removes all entries by swapping in a fresh map.
func (m *MemoryStore) Clear(_ context.Context) (int, error) {
	m.mu.Lock()
	removed := len(m.entries)
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()

	m.recordEvictions(int64(removed))
	return removed, nil
}

// Stats returns a snapshot of the store's counters.
func (m *MemoryStore) Stats(_ context.Context) Stats {
	m.mu.RLock()
	keys := int64(len(m.entries))
	m.mu.RUnlock()

	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	return Stats{
		Backend:     "memory",
		Hits:        m.hits,
		Misses:      m.misses,
		Evictions:   m.evictions,
		Keys:        keys,
		LastCleanup: m.lastCleanup,
	}
}

// Close stops the background cleanup goroutine.
func (m *MemoryStore) Close() error {
	close(m.stop)
	return nil
}

func (m *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanup()
		case <-m.stop:
			return
		}
	}
}

func (m *MemoryStore) cleanup() {
	now := time.Now()
	m.mu.Lock()
	evicted := int64(0)
	for key, entry := range m.entries {
		if now.After(entry.expiresAt) {
			delete(m.entries, key)
			evicted++
		}
	}
	m.mu.Unlock()

	m.statsMu.Lock()
	m.evictions += evicted
	m.lastCleanup = now
	m.statsMu.Unlock()
}

func (m *MemoryStore) recordHit() {
	m.statsMu.Lock()
	m.hits++
	m.statsMu.Unlock()
}

func (m *MemoryStore) recordMiss() {
	m.statsMu.Lock()
	m.misses++
	m.statsMu.Unlock()
}

func (m *MemoryStore) recordEvictions(n int64) {
	if n == 0 {
		return
	}
	m.statsMu.Lock()
	m.evictions += n
	m.statsMu.Unlock()
}
