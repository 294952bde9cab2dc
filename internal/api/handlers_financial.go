// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

package api

import (
	"context"
	"net/http"
)

// limitArgs carries the limit parameter into cache keys and validation.
type limitArgs struct {
	Limit int `json:"limit" validate:"min=1,max=100"`
}

// FinancialExecutiveSummary handles GET /api/financial/executive-summary.
func (h *Handler) FinancialExecutiveSummary(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, "financial", "executive_summary", nil, func(ctx context.Context) (interface{}, error) {
		return h.data.ExecutiveSummary(ctx)
	})
}

// FinancialCreditRisk handles GET /api/financial/credit-risk.
func (h *Handler) FinancialCreditRisk(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, "financial", "credit_risk", nil, func(ctx context.Context) (interface{}, error) {
		return h.data.CreditRisk(ctx)
	})
}

// FinancialCashFlow handles GET /api/financial/cash-flow.
func (h *Handler) FinancialCashFlow(w http.ResponseWriter, r *http.Request) {
	type args struct {
		Months int `json:"months" validate:"min=1,max=60"`
	}
	a := args{Months: getIntParam(r, "months", 12)}
	if err := h.validate.Struct(a); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "months must be between 1 and 60", nil)
		return
	}

	h.execute(w, r, "financial", "cash_flow", a, func(ctx context.Context) (interface{}, error) {
		return h.data.CashFlowHistory(ctx, a.Months)
	})
}

// FinancialTopCustomers handles GET /api/financial/top-customers?limit=N.
func (h *Handler) FinancialTopCustomers(w http.ResponseWriter, r *http.Request) {
	a := limitArgs{Limit: getIntParam(r, "limit", 10)}
	if err := h.validate.Struct(a); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be between 1 and 100", nil)
		return
	}

	h.execute(w, r, "financial", "top_customers", a, func(ctx context.Context) (interface{}, error) {
		return h.data.TopCustomers(ctx, a.Limit)
	})
}

// FinancialAgingAnalysis handles GET /api/financial/aging-analysis.
func (h *Handler) FinancialAgingAnalysis(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, "financial", "aging_report", nil, func(ctx context.Context) (interface{}, error) {
		return h.data.AgingAnalysis(ctx)
	})
}

// FinancialPaymentTrends handles GET /api/financial/payment-trends.
func (h *Handler) FinancialPaymentTrends(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, "financial", "payment_trends", nil, func(ctx context.Context) (interface{}, error) {
		return h.data.PaymentTrends(ctx)
	})
}

// FinancialCollectedMonthly handles GET /api/financial/collected-monthly.
func (h *Handler) FinancialCollectedMonthly(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, "financial", "collected_monthly", nil, func(ctx context.Context) (interface{}, error) {
		return h.data.CollectedMonthly(ctx)
	})
}

// FinancialKPIs handles GET /api/financial/kpis.
func (h *Handler) FinancialKPIs(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, "financial", "financial_kpis", nil, func(ctx context.Context) (interface{}, error) {
		return h.data.FinancialKPIs(ctx)
	})
}
