// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func newTestStore(t *testing.T, ttl time.Duration) *MemoryStore {
	t.Helper()
	m := NewMemoryStore(ttl)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestMemoryStoreBasicOperations(t *testing.T) {
	ctx := context.Background()
	m := newTestStore(t, time.Minute)

	m.Set(ctx, "financial:aging_report:", []byte(`{"rows":1}`), 0)
	data, ok := m.Get(ctx, "financial:aging_report:")
	if !ok {
		t.Fatal("Expected key to exist")
	}
	if string(data) != `{"rows":1}` {
		t.Errorf("Got %s, want stored payload", data)
	}

	_, ok = m.Get(ctx, "financial:cash_flow:")
	if ok {
		t.Error("Expected absent key to miss")
	}
}

func TestMemoryStoreExpiration(t *testing.T) {
	ctx := context.Background()
	m := newTestStore(t, time.Minute)

	m.Set(ctx, "key1", []byte("v"), 50*time.Millisecond)

	if _, ok := m.Get(ctx, "key1"); !ok {
		t.Error("Expected key1 to exist immediately after set")
	}

	time.Sleep(80 * time.Millisecond)

	if _, ok := m.Get(ctx, "key1"); ok {
		t.Error("Expected key1 to be expired")
	}

	stats := m.Stats(ctx)
	if stats.Evictions != 1 {
		t.Errorf("Evictions = %d, want 1 (lazy expiry)", stats.Evictions)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	m := newTestStore(t, time.Minute)

	m.Set(ctx, "key1", []byte("v"), 0)
	if err := m.Delete(ctx, "key1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := m.Get(ctx, "key1"); ok {
		t.Error("Expected key1 to be deleted")
	}

	// Deleting an absent key is a no-op.
	if err := m.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete(missing) error = %v", err)
	}
}

func TestMemoryStoreDeleteByPrefix(t *testing.T) {
	ctx := context.Background()
	m := newTestStore(t, time.Minute)

	m.Set(ctx, "financial:aging_report:", []byte("a"), 0)
	m.Set(ctx, "financial:cash_flow:", []byte("b"), 0)
	m.Set(ctx, "inventory:abc_analysis:", []byte("c"), 0)

	removed, err := m.DeleteByPrefix(ctx, "financial:")
	if err != nil {
		t.Fatalf("DeleteByPrefix() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	if _, ok := m.Get(ctx, "financial:aging_report:"); ok {
		t.Error("Expected financial keys to be removed")
	}
	if _, ok := m.Get(ctx, "inventory:abc_analysis:"); !ok {
		t.Error("Expected inventory key to survive")
	}
}

func TestMemoryStoreClear(t *testing.T) {
	ctx := context.Background()
	m := newTestStore(t, time.Minute)

	for i := 0; i < 5; i++ {
		m.Set(ctx, fmt.Sprintf("key%d", i), []byte("v"), 0)
	}

	removed, err := m.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if removed != 5 {
		t.Errorf("removed = %d, want 5", removed)
	}
	if stats := m.Stats(ctx); stats.Keys != 0 {
		t.Errorf("Keys = %d, want 0 after clear", stats.Keys)
	}
}

func TestMemoryStoreStats(t *testing.T) {
	ctx := context.Background()
	m := newTestStore(t, time.Minute)

	m.Set(ctx, "key1", []byte("v"), 0)
	m.Get(ctx, "key1") // hit
	m.Get(ctx, "key1") // hit
	m.Get(ctx, "nope") // miss

	stats := m.Stats(ctx)
	if stats.Backend != "memory" {
		t.Errorf("Backend = %q, want memory", stats.Backend)
	}
	if stats.Hits != 2 {
		t.Errorf("Hits = %d, want 2", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Misses)
	}
	if stats.Keys != 1 {
		t.Errorf("Keys = %d, want 1", stats.Keys)
	}

	if got := stats.HitRate(); got < 66.0 || got > 67.0 {
		t.Errorf("HitRate() = %.2f, want ~66.67", got)
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := newTestStore(t, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key%d", j%10)
				m.Set(ctx, key, []byte("v"), 0)
				m.Get(ctx, key)
				if j%25 == 0 {
					_, _ = m.DeleteByPrefix(ctx, "key1")
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestMemoryStoreExpiredReadKeepsConcurrentWrite(t *testing.T) {
	ctx := context.Background()
	m := newTestStore(t, time.Minute)

	// A Get that observes an expired entry races a Set refreshing the same
	// key. The purge must never remove the fresh entry.
	for i := 0; i < 200; i++ {
		m.Set(ctx, "k", []byte("old"), time.Nanosecond)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Get(ctx, "k")
		}()
		m.Set(ctx, "k", []byte("new"), time.Minute)
		wg.Wait()

		data, ok := m.Get(ctx, "k")
		if !ok || string(data) != "new" {
			t.Fatalf("iteration %d: fresh write lost after expired read (ok=%v, data=%q)", i, ok, data)
		}
	}
}

func TestMemoryStoreCleanup(t *testing.T) {
	ctx := context.Background()
	m := newTestStore(t, time.Minute)

	m.Set(ctx, "stale", []byte("v"), 10*time.Millisecond)
	m.Set(ctx, "fresh", []byte("v"), time.Minute)
	time.Sleep(30 * time.Millisecond)

	m.cleanup()

	m.mu.RLock()
	_, staleExists := m.entries["stale"]
	_, freshExists := m.entries["fresh"]
	m.mu.RUnlock()

	if staleExists {
		t.Error("Expected stale entry to be swept")
	}
	if !freshExists {
		t.Error("Expected fresh entry to survive sweep")
	}
}
