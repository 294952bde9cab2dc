// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

// Package api implements the HTTP surface: the chi router, the dashboard
// and analytics endpoints, cache administration, and session endpoints.
package api

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dialfa/insight/internal/auth"
	"github.com/dialfa/insight/internal/cache"
	"github.com/dialfa/insight/internal/config"
	"github.com/dialfa/insight/internal/models"
)

// DataSource is the analytics query surface the handlers depend on.
// *database.DB implements it; tests substitute a fake.
type DataSource interface {
	// Financial (operational database)
	ExecutiveSummary(ctx context.Context) (*models.ExecutiveSummary, error)
	CreditRisk(ctx context.Context) ([]models.CreditRiskCustomer, error)
	CashFlowHistory(ctx context.Context, months int) ([]models.CashFlowMonth, error)
	TopCustomers(ctx context.Context, limit int) ([]models.TopCustomer, error)
	AgingAnalysis(ctx context.Context) ([]models.AgingBucket, error)
	PaymentTrends(ctx context.Context) ([]models.PaymentTrendMonth, error)
	FinancialKPIs(ctx context.Context) (*models.FinancialKPIs, error)
	CollectedMonthly(ctx context.Context) (*models.MonthlyCollections, error)

	// Inventory (operational database)
	InventorySummary(ctx context.Context) (*models.InventorySummary, error)
	TopStockValue(ctx context.Context, limit int) ([]models.StockValueProduct, error)
	SlowMoving(ctx context.Context) ([]models.SlowMovingProduct, error)
	CategoryAnalysis(ctx context.Context) ([]models.CategoryShare, error)
	ABCAnalysis(ctx context.Context) ([]models.ABCProduct, error)
	StockAlerts(ctx context.Context) ([]models.StockAlert, error)
	ReorderRecommendations(ctx context.Context) ([]models.ReorderRecommendation, error)
	InventoryKPIs(ctx context.Context) (*models.InventoryKPIs, error)
	StockValueEvolution(ctx context.Context, months int) ([]models.StockValueSnapshot, error)
	SupplierPerformance(ctx context.Context) ([]models.SupplierPerformance, error)

	// Sales (ERP database)
	SalesSummary(ctx context.Context) (*models.SalesSummary, error)
	MonthlyTrends(ctx context.Context, months int) ([]models.MonthlyTrend, error)
	PerformanceByPeriod(ctx context.Context, period string) ([]models.PeriodPerformance, error)
	CustomerSegmentation(ctx context.Context) ([]models.CustomerSegment, error)
	ProductPerformance(ctx context.Context, limit int) ([]models.ProductSales, error)
	SalesTopCustomers(ctx context.Context, limit int) ([]models.TopCustomer, error)
	SalesKPIs(ctx context.Context) (*models.SalesKPIs, error)
	BillingToday(ctx context.Context) (float64, error)
	BillingMonthly(ctx context.Context) (float64, error)

	// Dashboard composition
	DashboardOverview(ctx context.Context) (*models.DashboardOverview, error)
	DashboardKPIs(ctx context.Context) (*models.DashboardKPIs, error)
	DashboardCharts(ctx context.Context) (*models.DashboardCharts, error)
	DashboardAlerts(ctx context.Context) ([]models.Alert, error)

	Health(ctx context.Context) (map[string]string, bool)
}

// Handler holds the dependencies shared by all endpoints.
type Handler struct {
	data       DataSource
	runner     *cache.Runner
	cacheAdmin *cache.Admin
	users      *auth.Users
	jwtManager *auth.JWTManager
	cfg        *config.Config
	validate   *validator.Validate
	startTime  time.Time
	version    string
}

// NewHandler creates the API handler. users and jwtManager may be nil when
// auth mode is "none".
func NewHandler(
	data DataSource,
	runner *cache.Runner,
	cacheAdmin *cache.Admin,
	users *auth.Users,
	jwtManager *auth.JWTManager,
	cfg *config.Config,
	version string,
) *Handler {
	return &Handler{
		data:       data,
		runner:     runner,
		cacheAdmin: cacheAdmin,
		users:      users,
		jwtManager: jwtManager,
		cfg:        cfg,
		validate:   validator.New(),
		startTime:  time.Now(),
		version:    version,
	}
}
