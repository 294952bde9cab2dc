// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestRunner(t *testing.T) (*Runner, *MemoryStore) {
	t.Helper()
	store := newTestStore(t, time.Minute)
	return NewRunner(store, NewPolicy(0)), store
}

func TestRunnerDoCachesResult(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRunner(t)

	calls := 0
	fetch := func(context.Context) (interface{}, error) {
		calls++
		return map[string]int{"total": 7}, nil
	}

	data, cached, err := r.Do(ctx, "sales", "billing_today", nil, fetch)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if cached {
		t.Error("First call reported cached = true")
	}
	if string(data) != `{"total":7}` {
		t.Errorf("payload = %s", data)
	}

	data, cached, err = r.Do(ctx, "sales", "billing_today", nil, fetch)
	if err != nil {
		t.Fatalf("Do() second call error = %v", err)
	}
	if !cached {
		t.Error("Second call reported cached = false")
	}
	if string(data) != `{"total":7}` {
		t.Errorf("cached payload = %s", data)
	}
	if calls != 1 {
		t.Errorf("fetch called %d times, want 1", calls)
	}
}

func TestRunnerDoErrorNotCached(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRunner(t)

	boom := errors.New("connection refused")
	calls := 0

	for i := 0; i < 2; i++ {
		_, cached, err := r.Do(ctx, "financial", "cash_flow", nil, func(context.Context) (interface{}, error) {
			calls++
			return nil, boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("Do() error = %v, want %v", err, boom)
		}
		if cached {
			t.Error("Failed fetch reported cached = true")
		}
	}
	if calls != 2 {
		t.Errorf("fetch called %d times, want 2 (errors must not be cached)", calls)
	}
}

func TestRunnerDoDistinctArgs(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRunner(t)

	type args struct {
		Months int `json:"months"`
	}
	fetch := func(n int) FetchFunc {
		return func(context.Context) (interface{}, error) {
			return map[string]int{"months": n}, nil
		}
	}

	a, _, err := r.Do(ctx, "financial", "monthly_trends", args{6}, fetch(6))
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := r.Do(ctx, "financial", "monthly_trends", args{12}, fetch(12))
	if err != nil {
		t.Fatal(err)
	}
	if string(a) == string(b) {
		t.Error("Distinct args returned the same cached payload")
	}
}

func TestRunnerDoAppliesPolicyTTL(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, time.Minute)
	r := NewRunner(store, NewPolicy(0))

	_, _, err := r.Do(ctx, "dashboard", "health_check", nil, func(context.Context) (interface{}, error) {
		return "ok", nil
	})
	if err != nil {
		t.Fatal(err)
	}

	key := NewPolicy(0).Key("dashboard", "health_check", nil)
	store.mu.RLock()
	entry, ok := store.entries[key]
	store.mu.RUnlock()
	if !ok {
		t.Fatalf("key %q not stored", key)
	}

	ttl := time.Until(entry.expiresAt)
	if ttl > 30*time.Second || ttl < 25*time.Second {
		t.Errorf("stored TTL ~%v, want ~30s for health_check", ttl)
	}
}

func TestRunnerEntriesClearedByModule(t *testing.T) {
	ctx := context.Background()
	r, store := newTestRunner(t)

	fetch := func(context.Context) (interface{}, error) { return "v", nil }
	if _, _, err := r.Do(ctx, "inventory", "abc_analysis", nil, fetch); err != nil {
		t.Fatal(err)
	}
	if _, _, err := r.Do(ctx, "sales", "billing_today", nil, fetch); err != nil {
		t.Fatal(err)
	}

	removed, err := NewAdmin(store).ClearModule(ctx, "inventory")
	if err != nil {
		t.Fatalf("ClearModule() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if stats := store.Stats(ctx); stats.Keys != 1 {
		t.Errorf("Keys = %d, want 1 after invalidation", stats.Keys)
	}
}
