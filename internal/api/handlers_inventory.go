// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

package api

import (
	"context"
	"net/http"
)

// InventorySummary handles GET /api/inventory/summary.
func (h *Handler) InventorySummary(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, "inventory", "inventory_summary", nil, func(ctx context.Context) (interface{}, error) {
		return h.data.InventorySummary(ctx)
	})
}

// InventoryTopStockValue handles GET /api/inventory/top-stock-value?limit=N.
func (h *Handler) InventoryTopStockValue(w http.ResponseWriter, r *http.Request) {
	a := limitArgs{Limit: getIntParam(r, "limit", 20)}
	if err := h.validate.Struct(a); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be between 1 and 100", nil)
		return
	}

	h.execute(w, r, "inventory", "top_stock_value", a, func(ctx context.Context) (interface{}, error) {
		return h.data.TopStockValue(ctx, a.Limit)
	})
}

// InventorySlowMoving handles GET /api/inventory/slow-moving.
func (h *Handler) InventorySlowMoving(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, "inventory", "slow_moving", nil, func(ctx context.Context) (interface{}, error) {
		return h.data.SlowMoving(ctx)
	})
}

// InventoryCategoryAnalysis handles GET /api/inventory/category-analysis.
func (h *Handler) InventoryCategoryAnalysis(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, "inventory", "category_distribution", nil, func(ctx context.Context) (interface{}, error) {
		return h.data.CategoryAnalysis(ctx)
	})
}

// InventoryABCAnalysis handles GET /api/inventory/abc-analysis.
func (h *Handler) InventoryABCAnalysis(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, "inventory", "abc_analysis", nil, func(ctx context.Context) (interface{}, error) {
		return h.data.ABCAnalysis(ctx)
	})
}

// InventoryStockAlerts handles GET /api/inventory/stock-alerts.
func (h *Handler) InventoryStockAlerts(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, "inventory", "stock_alerts", nil, func(ctx context.Context) (interface{}, error) {
		return h.data.StockAlerts(ctx)
	})
}

// InventoryReorderRecommendations handles GET /api/inventory/reorder-recommendations.
func (h *Handler) InventoryReorderRecommendations(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, "inventory", "reorder_recommendations", nil, func(ctx context.Context) (interface{}, error) {
		return h.data.ReorderRecommendations(ctx)
	})
}

// InventoryStockValueEvolution handles GET /api/inventory/stock-value-evolution?months=N.
func (h *Handler) InventoryStockValueEvolution(w http.ResponseWriter, r *http.Request) {
	type args struct {
		Months int `json:"months" validate:"min=1,max=60"`
	}
	a := args{Months: getIntParam(r, "months", 12)}
	if err := h.validate.Struct(a); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "months must be between 1 and 60", nil)
		return
	}

	h.execute(w, r, "inventory", "stock_value_evolution", a, func(ctx context.Context) (interface{}, error) {
		return h.data.StockValueEvolution(ctx, a.Months)
	})
}

// InventorySupplierPerformance handles GET /api/inventory/supplier-performance.
func (h *Handler) InventorySupplierPerformance(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, "inventory", "supplier_performance", nil, func(ctx context.Context) (interface{}, error) {
		return h.data.SupplierPerformance(ctx)
	})
}

// InventoryKPIs handles GET /api/inventory/kpis.
func (h *Handler) InventoryKPIs(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, "inventory", "inventory_kpis", nil, func(ctx context.Context) (interface{}, error) {
		return h.data.InventoryKPIs(ctx)
	})
}
