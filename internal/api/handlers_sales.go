// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

package api

import (
	"context"
	"net/http"
)

// SalesSummary handles GET /api/sales/summary.
func (h *Handler) SalesSummary(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, "sales", "sales_summary", nil, func(ctx context.Context) (interface{}, error) {
		return h.data.SalesSummary(ctx)
	})
}

// SalesMonthlyTrends handles GET /api/sales/monthly-trends.
func (h *Handler) SalesMonthlyTrends(w http.ResponseWriter, r *http.Request) {
	type args struct {
		Months int `json:"months" validate:"min=1,max=60"`
	}
	a := args{Months: getIntParam(r, "months", 24)}
	if err := h.validate.Struct(a); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "months must be between 1 and 60", nil)
		return
	}

	h.execute(w, r, "sales", "monthly_trends", a, func(ctx context.Context) (interface{}, error) {
		return h.data.MonthlyTrends(ctx, a.Months)
	})
}

// SalesPerformanceByPeriod handles GET /api/sales/performance-by-period?period=month|quarter|year.
func (h *Handler) SalesPerformanceByPeriod(w http.ResponseWriter, r *http.Request) {
	type args struct {
		Period string `json:"period" validate:"oneof=month quarter year"`
	}
	a := args{Period: r.URL.Query().Get("period")}
	if a.Period == "" {
		a.Period = "month"
	}
	if err := h.validate.Struct(a); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "period must be month, quarter, or year", nil)
		return
	}

	h.execute(w, r, "sales", "performance_by_period", a, func(ctx context.Context) (interface{}, error) {
		return h.data.PerformanceByPeriod(ctx, a.Period)
	})
}

// SalesCustomerSegmentation handles GET /api/sales/customer-segmentation.
func (h *Handler) SalesCustomerSegmentation(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, "sales", "customer_segmentation", nil, func(ctx context.Context) (interface{}, error) {
		return h.data.CustomerSegmentation(ctx)
	})
}

// SalesProductPerformance handles GET /api/sales/product-performance?limit=N.
func (h *Handler) SalesProductPerformance(w http.ResponseWriter, r *http.Request) {
	a := limitArgs{Limit: getIntParam(r, "limit", 20)}
	if err := h.validate.Struct(a); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be between 1 and 100", nil)
		return
	}

	h.execute(w, r, "sales", "product_performance", a, func(ctx context.Context) (interface{}, error) {
		return h.data.ProductPerformance(ctx, a.Limit)
	})
}

// SalesTopCustomers handles GET /api/sales/top-customers?limit=N.
func (h *Handler) SalesTopCustomers(w http.ResponseWriter, r *http.Request) {
	a := limitArgs{Limit: getIntParam(r, "limit", 10)}
	if err := h.validate.Struct(a); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be between 1 and 100", nil)
		return
	}

	h.execute(w, r, "sales", "top_customers", a, func(ctx context.Context) (interface{}, error) {
		return h.data.SalesTopCustomers(ctx, a.Limit)
	})
}

// SalesKPIs handles GET /api/sales/kpis.
func (h *Handler) SalesKPIs(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, "sales", "sales_kpis", nil, func(ctx context.Context) (interface{}, error) {
		return h.data.SalesKPIs(ctx)
	})
}

// SalesBillingToday handles GET /api/sales/billing-today. Short TTL: this
// backs the most frequently refreshed dashboard tile.
func (h *Handler) SalesBillingToday(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, "sales", "billing_today", nil, func(ctx context.Context) (interface{}, error) {
		billed, err := h.data.BillingToday(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]float64{"billed_today": billed}, nil
	})
}

// SalesBillingMonthly handles GET /api/sales/billing-monthly.
func (h *Handler) SalesBillingMonthly(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, "sales", "billing_monthly", nil, func(ctx context.Context) (interface{}, error) {
		billed, err := h.data.BillingMonthly(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]float64{"billed_monthly": billed}, nil
	})
}
