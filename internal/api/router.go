// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dialfa/insight/internal/auth"
	"github.com/dialfa/insight/internal/middleware"
)

// NewRouter wires the full HTTP surface. Business and admin routes sit
// behind authentication; health, login and metrics stay public so probes
// and the login page work without a session.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(chimiddleware.Timeout(h.cfg.Server.Timeout))

	authMW := auth.NewMiddleware(h.jwtManager, h.cfg.Security.AuthMode,
		func(w http.ResponseWriter, status int, code, message string) {
			respondError(w, status, code, message, nil)
		})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Use(httprate.LimitByIP(h.cfg.Security.RateLimitReqs, h.cfg.Security.RateLimitWindow))

		r.Get("/health", h.Health)

		r.Route("/auth", func(r chi.Router) {
			// Brute-force protection on the credential endpoint.
			r.With(httprate.LimitByIP(10, time.Minute)).Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.With(authMW.Authenticate).Get("/me", h.Me)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMW.Authenticate)

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/overview", h.DashboardOverview)
				r.Get("/kpis", h.DashboardKPIs)
				r.Get("/charts", h.DashboardCharts)
				r.Get("/alerts", h.DashboardAlerts)
			})

			r.Route("/financial", func(r chi.Router) {
				r.Get("/executive-summary", h.FinancialExecutiveSummary)
				r.Get("/credit-risk", h.FinancialCreditRisk)
				r.Get("/cash-flow", h.FinancialCashFlow)
				r.Get("/top-customers", h.FinancialTopCustomers)
				r.Get("/aging-analysis", h.FinancialAgingAnalysis)
				r.Get("/payment-trends", h.FinancialPaymentTrends)
				r.Get("/collected-monthly", h.FinancialCollectedMonthly)
				r.Get("/kpis", h.FinancialKPIs)
			})

			r.Route("/inventory", func(r chi.Router) {
				r.Get("/summary", h.InventorySummary)
				r.Get("/top-stock-value", h.InventoryTopStockValue)
				r.Get("/slow-moving", h.InventorySlowMoving)
				r.Get("/category-analysis", h.InventoryCategoryAnalysis)
				r.Get("/abc-analysis", h.InventoryABCAnalysis)
				r.Get("/stock-alerts", h.InventoryStockAlerts)
				r.Get("/reorder-recommendations", h.InventoryReorderRecommendations)
				r.Get("/stock-value-evolution", h.InventoryStockValueEvolution)
				r.Get("/supplier-performance", h.InventorySupplierPerformance)
				r.Get("/kpis", h.InventoryKPIs)
			})

			r.Route("/sales", func(r chi.Router) {
				r.Get("/summary", h.SalesSummary)
				r.Get("/monthly-trends", h.SalesMonthlyTrends)
				r.Get("/performance-by-period", h.SalesPerformanceByPeriod)
				r.Get("/customer-segmentation", h.SalesCustomerSegmentation)
				r.Get("/product-performance", h.SalesProductPerformance)
				r.Get("/top-customers", h.SalesTopCustomers)
				r.Get("/kpis", h.SalesKPIs)
				r.Get("/billing-today", h.SalesBillingToday)
				r.Get("/billing-monthly", h.SalesBillingMonthly)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(authMW.RequireRole(auth.RoleAdmin))

				r.Route("/cache", func(r chi.Router) {
					r.Post("/clear", h.CacheClear)
					r.Post("/clear/{module}", h.CacheClearModule)
					r.Get("/stats", h.CacheStats)
					r.Get("/test", h.CacheSelfTest)
				})
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found", nil)
	})

	return r
}
