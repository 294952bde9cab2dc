// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

package cache

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/dialfa/insight/internal/logging"
	"github.com/dialfa/insight/internal/metrics"
)

// FetchFunc produces a query result on cache miss.
type FetchFunc func(ctx context.Context) (interface{}, error)

// Runner wraps query execution with the cache: lookup, fetch on miss,
// store, return. It is the single path through which dashboard queries
// reach the cache, so every query gets the policy TTL and the metrics
// instrumentation for free.
type Runner struct {
	store  Store
	policy *Policy
}

// NewRunner creates a Runner over the given store and policy.
func NewRunner(store Store, policy *Policy) *Runner {
	return &Runner{store: store, policy: policy}
}

// Do returns the cached JSON payload for (module, query, args), executing
// fetch and caching its marshaled result on miss. The boolean reports
// whether the payload came from the cache.
//
// Fetch errors propagate to the caller and nothing is cached, so a failing
// query is retried on the next request rather than pinning an error for a
// full TTL. Concurrent misses on the same key each execute fetch; last
// write wins, which is acceptable because results for the same key are
// equivalent within a TTL window.
func (r *Runner) Do(ctx context.Context, module, query string, args interface{}, fetch FetchFunc) (json.RawMessage, bool, error) {
	key := r.policy.Key(module, query, args)

	if data, ok := r.store.Get(ctx, key); ok {
		metrics.RecordCacheHit(module)
		return json.RawMessage(data), true, nil
	}
	metrics.RecordCacheMiss(module)

	result, err := fetch(ctx)
	if err != nil {
		return nil, false, err
	}

	data, err := json.Marshal(result)
	if err != nil {
		return nil, false, fmt.Errorf("marshaling %s result: %w", query, err)
	}

	ttl := r.policy.TTLFor(query)
	r.store.Set(ctx, key, data, ttl)
	logging.Debug().
		Str("module", module).
		Str("query", query).
		Dur("ttl", ttl).
		Msg("Cached query result")

	return json.RawMessage(data), false, nil
}
