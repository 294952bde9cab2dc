// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

package cache

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// DefaultTTL applies to every query without an explicit entry in the
// policy table.
const DefaultTTL = 5 * time.Minute

// queryTTLs assigns each query a TTL matched to how fast its underlying
// data moves: today's billing changes by the minute, monthly trends only
// when a month closes.
var queryTTLs = map[string]time.Duration{
	"health_check":            30 * time.Second,
	"billing_today":           time.Minute,
	"dashboard_alerts":        2 * time.Minute,
	"credit_risk":             10 * time.Minute,
	"stock_alerts":            10 * time.Minute,
	"top_customers":           10 * time.Minute,
	"inventory_kpis":          10 * time.Minute,
	"reorder_recommendations": 10 * time.Minute,
	"billing_monthly":         10 * time.Minute,
	"collected_monthly":       10 * time.Minute,
	"aging_report":            15 * time.Minute,
	"cash_flow":               15 * time.Minute,
	"customer_segmentation":   15 * time.Minute,
	"category_distribution":   20 * time.Minute,
	"monthly_trends":          30 * time.Minute,
	"abc_analysis":            30 * time.Minute,
	"supplier_performance":    30 * time.Minute,
	"stock_value_evolution":   time.Hour,
}

// Policy resolves TTLs and builds cache keys. The zero value is not usable;
// use NewPolicy.
type Policy struct {
	defaultTTL time.Duration
	ttls       map[string]time.Duration
}

// NewPolicy returns the standard TTL policy. A non-positive defaultTTL
// falls back to DefaultTTL.
func NewPolicy(defaultTTL time.Duration) *Policy {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Policy{
		defaultTTL: defaultTTL,
		ttls:       queryTTLs,
	}
}

// TTLFor returns the TTL for a query name, or the default for unknown
// queries.
func (p *Policy) TTLFor(query string) time.Duration {
	if ttl, ok := p.ttls[query]; ok {
		return ttl
	}
	return p.defaultTTL
}

// Key builds the cache key for a query invocation:
//
//	<module>:<query>:<json-encoded args>
//
// Args are embedded verbatim rather than hashed so that module-level
// invalidation can match on the "<module>:" prefix and distinct argument
// sets can never collide. Args must be a stable struct (not a map) so the
// encoding is deterministic; nil args encode as an empty list.
func (p *Policy) Key(module, query string, args interface{}) string {
	if args == nil {
		return module + ":" + query + ":[]"
	}
	encoded, err := json.Marshal(args)
	if err != nil {
		// Unmarshalable args still need a usable key.
		return fmt.Sprintf("%s:%s:%v", module, query, args)
	}
	return module + ":" + query + ":" + string(encoded)
}
