// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

package api

import (
	"context"
	"net/http"
)

// DashboardOverview handles GET /api/dashboard/overview.
func (h *Handler) DashboardOverview(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, "dashboard", "dashboard_overview", nil, func(ctx context.Context) (interface{}, error) {
		return h.data.DashboardOverview(ctx)
	})
}

// DashboardKPIs handles GET /api/dashboard/kpis.
func (h *Handler) DashboardKPIs(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, "dashboard", "dashboard_kpis", nil, func(ctx context.Context) (interface{}, error) {
		return h.data.DashboardKPIs(ctx)
	})
}

// DashboardCharts handles GET /api/dashboard/charts.
func (h *Handler) DashboardCharts(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, "dashboard", "dashboard_charts", nil, func(ctx context.Context) (interface{}, error) {
		return h.data.DashboardCharts(ctx)
	})
}

// DashboardAlerts handles GET /api/dashboard/alerts.
func (h *Handler) DashboardAlerts(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, "dashboard", "dashboard_alerts", nil, func(ctx context.Context) (interface{}, error) {
		return h.data.DashboardAlerts(ctx)
	})
}
