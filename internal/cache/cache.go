// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

// Package cache implements the query result cache: a Store abstraction with
// in-memory and Redis backends, a TTL policy table keyed by query name, a
// cached execution wrapper, and the invalidation controller backing the
// admin endpoints.
//
// Failure semantics are degrade-to-miss throughout: a broken backend never
// fails a request, it only makes it slower.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/dialfa/insight/internal/config"
)

// Store is the backend-agnostic cache interface. Values are opaque byte
// slices (JSON-encoded query results).
//
// Get and Set never return errors: backend failures are reported as misses
// and logged by the implementation. Destructive operations return errors so
// the admin endpoints can surface them.
type Store interface {
	// Get returns the value for key, or (nil, false) on miss, expiry, or
	// backend failure.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key with the given TTL. A non-positive ttl
	// stores with the backend's default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)

	// Delete removes a single key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// DeleteByPrefix removes every key starting with prefix and returns the
	// number of keys removed.
	DeleteByPrefix(ctx context.Context, prefix string) (int, error)

	// Clear removes all entries and returns the number removed.
	Clear(ctx context.Context) (int, error)

	// Stats returns a snapshot of backend statistics.
	Stats(ctx context.Context) Stats

	// Close releases backend resources.
	Close() error
}

// Stats is a point-in-time snapshot of cache performance counters.
type Stats struct {
	Backend     string    `json:"backend"`
	Hits        int64     `json:"hits"`
	Misses      int64     `json:"misses"`
	Evictions   int64     `json:"evictions"`
	Keys        int64     `json:"keys"`
	LastCleanup time.Time `json:"last_cleanup,omitempty"`
}

// HitRate returns the hit percentage over all lookups, 0 when no lookups
// have been recorded.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0.0
	}
	return float64(s.Hits) / float64(total) * 100.0
}

// NewStore builds the cache backend selected by cfg. The memory backend
// needs no external services; the redis backend connects to cfg.RedisURL
// and wraps every operation in a circuit breaker.
func NewStore(cfg config.CacheConfig) (Store, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryStore(cfg.DefaultTTL), nil
	case "redis":
		return NewRedisStore(cfg)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
