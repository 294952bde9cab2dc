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

func seedStore(ctx context.Context, store Store) {
	store.Set(ctx, "financial:aging_report:", []byte("a"), time.Minute)
	store.Set(ctx, "financial:cash_flow:", []byte("b"), time.Minute)
	store.Set(ctx, "inventory:abc_analysis:", []byte("c"), time.Minute)
	store.Set(ctx, "sales:billing_today:", []byte("d"), time.Minute)
}

func TestAdminClearAll(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, time.Minute)
	seedStore(ctx, store)

	admin := NewAdmin(store)
	removed, err := admin.ClearAll(ctx)
	if err != nil {
		t.Fatalf("ClearAll() error = %v", err)
	}
	if removed != 4 {
		t.Errorf("removed = %d, want 4", removed)
	}
	if stats := admin.Stats(ctx); stats.Keys != 0 {
		t.Errorf("Keys = %d, want 0", stats.Keys)
	}
}

func TestAdminClearModule(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, time.Minute)
	seedStore(ctx, store)

	admin := NewAdmin(store)
	removed, err := admin.ClearModule(ctx, "financial")
	if err != nil {
		t.Fatalf("ClearModule() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	// Other modules untouched.
	if _, ok := store.Get(ctx, "inventory:abc_analysis:"); !ok {
		t.Error("inventory entry was removed by financial clear")
	}
}

func TestAdminClearModuleInvalid(t *testing.T) {
	ctx := context.Background()
	admin := NewAdmin(newTestStore(t, time.Minute))

	for _, name := range []string{"", "payroll", "FINANCIAL", "financial:extra"} {
		_, err := admin.ClearModule(ctx, name)
		if !errors.Is(err, ErrInvalidModule) {
			t.Errorf("ClearModule(%q) error = %v, want ErrInvalidModule", name, err)
		}
	}
}

func TestAdminSelfTest(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, time.Minute)
	admin := NewAdmin(store)

	result := admin.SelfTest(ctx)
	if !result.Healthy {
		t.Errorf("SelfTest not healthy: %+v", result)
	}
	if result.Backend != "memory" {
		t.Errorf("Backend = %q, want memory", result.Backend)
	}

	// The probe key must not linger.
	if stats := store.Stats(ctx); stats.Keys != 0 {
		t.Errorf("Keys = %d after self-test, want 0", stats.Keys)
	}
}

func TestModuleNames(t *testing.T) {
	names := ModuleNames()
	want := []string{"dashboard", "financial", "inventory", "sales"}
	if len(names) != len(want) {
		t.Fatalf("ModuleNames() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("ModuleNames()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}
