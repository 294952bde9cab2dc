// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dialfa/insight/internal/logging"
)

// ErrInvalidModule is returned when a clear request names a module outside
// the known set.
var ErrInvalidModule = errors.New("invalid cache module")

// Modules is the set of cache namespaces that can be invalidated
// independently. Namespaces follow the dashboard's top-level sections.
var Modules = map[string]bool{
	"dashboard": true,
	"financial": true,
	"inventory": true,
	"sales":     true,
}

// Admin is the invalidation controller behind the cache administration
// endpoints.
type Admin struct {
	store Store
}

// NewAdmin creates an Admin over the given store.
func NewAdmin(store Store) *Admin {
	return &Admin{store: store}
}

// ModuleNames returns the valid module names in sorted order, for error
// messages and the stats report.
func ModuleNames() []string {
	names := make([]string, 0, len(Modules))
	for name := range Modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClearAll removes every cached entry and returns the number removed.
func (a *Admin) ClearAll(ctx context.Context) (int, error) {
	removed, err := a.store.Clear(ctx)
	if err != nil {
		return removed, fmt.Errorf("clearing cache: %w", err)
	}
	logging.Info().Int("removed", removed).Msg("Cache cleared")
	return removed, nil
}

// ClearModule removes every cached entry belonging to module. Unknown
// module names return ErrInvalidModule.
func (a *Admin) ClearModule(ctx context.Context, module string) (int, error) {
	if !Modules[module] {
		return 0, fmt.Errorf("%w: %q", ErrInvalidModule, module)
	}
	removed, err := a.store.DeleteByPrefix(ctx, module+":")
	if err != nil {
		return removed, fmt.Errorf("clearing module %s: %w", module, err)
	}
	logging.Info().Str("module", module).Int("removed", removed).Msg("Cache module cleared")
	return removed, nil
}

// Stats returns the backend's statistics snapshot.
func (a *Admin) Stats(ctx context.Context) Stats {
	return a.store.Stats(ctx)
}

// SelfTestResult reports the outcome of a cache roundtrip check.
type SelfTestResult struct {
	Backend     string  `json:"backend"`
	WriteOK     bool    `json:"write_ok"`
	ReadOK      bool    `json:"read_ok"`
	DeleteOK    bool    `json:"delete_ok"`
	Healthy     bool    `json:"healthy"`
	RoundTripMs float64 `json:"round_trip_ms"`
}

// SelfTest verifies the backend with a write/read/delete roundtrip on a
// throwaway key. A degraded backend shows up here as a failed read even
// though normal requests keep succeeding via degrade-to-miss.
func (a *Admin) SelfTest(ctx context.Context) SelfTestResult {
	key := "selftest:" + uuid.NewString()
	payload := []byte(`{"probe":true}`)
	start := time.Now()

	result := SelfTestResult{Backend: a.store.Stats(ctx).Backend}

	a.store.Set(ctx, key, payload, 30*time.Second)
	result.WriteOK = true

	if data, ok := a.store.Get(ctx, key); ok && bytes.Equal(data, payload) {
		result.ReadOK = true
	}
	if err := a.store.Delete(ctx, key); err == nil {
		result.DeleteOK = true
	}

	result.RoundTripMs = float64(time.Since(start).Microseconds()) / 1000.0
	result.Healthy = result.WriteOK && result.ReadOK && result.DeleteOK
	return result
}
