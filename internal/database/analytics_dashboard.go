// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

package database

import (
	"context"
	"fmt"

	"github.com/dialfa/insight/internal/models"
)

// DashboardOverview composes the financial, inventory, and sales summaries
// into the landing page payload. Queries run sequentially; the cache in
// front of this method makes the added latency a once-per-TTL cost.
func (db *DB) DashboardOverview(ctx context.Context) (*models.DashboardOverview, error) {
	financial, err := db.ExecutiveSummary(ctx)
	if err != nil {
		return nil, err
	}
	inventory, err := db.InventorySummary(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := db.SalesSummary(ctx)
	if err != nil {
		return nil, err
	}
	return &models.DashboardOverview{
		Financial: *financial,
		Inventory: *inventory,
		Sales:     *sales,
	}, nil
}

// DashboardKPIs gathers the per-module KPI blocks.
func (db *DB) DashboardKPIs(ctx context.Context) (*models.DashboardKPIs, error) {
	financial, err := db.FinancialKPIs(ctx)
	if err != nil {
		return nil, err
	}
	inventory, err := db.InventoryKPIs(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := db.SalesKPIs(ctx)
	if err != nil {
		return nil, err
	}
	return &models.DashboardKPIs{
		Financial: *financial,
		Inventory: *inventory,
		Sales:     *sales,
	}, nil
}

// DashboardCharts gathers the datasets behind the landing page charts.
func (db *DB) DashboardCharts(ctx context.Context) (*models.DashboardCharts, error) {
	trends, err := db.MonthlyTrends(ctx, 12)
	if err != nil {
		return nil, err
	}
	cashFlow, err := db.CashFlowHistory(ctx, 12)
	if err != nil {
		return nil, err
	}
	categories, err := db.CategoryAnalysis(ctx)
	if err != nil {
		return nil, err
	}
	return &models.DashboardCharts{
		MonthlyTrends: trends,
		CashFlow:      cashFlow,
		Categories:    categories,
	}, nil
}

// DashboardAlerts derives the alert feed: high-risk customers from the
// financial module plus stock alerts from inventory.
func (db *DB) DashboardAlerts(ctx context.Context) ([]models.Alert, error) {
	risk, err := db.CreditRisk(ctx)
	if err != nil {
		return nil, err
	}
	stock, err := db.StockAlerts(ctx)
	if err != nil {
		return nil, err
	}

	alerts := make([]models.Alert, 0)
	highRisk := 0
	for _, c := range risk {
		if c.RiskLevel == "HIGH" {
			highRisk++
		}
	}
	if highRisk > 0 {
		alerts = append(alerts, models.Alert{
			Severity: "critical",
			Source:   "financial",
			Message:  fmt.Sprintf("%d customers at high credit risk", highRisk),
		})
	}

	outOfStock, lowStock := 0, 0
	for _, a := range stock {
		switch a.AlertType {
		case "OUT_OF_STOCK":
			outOfStock++
		case "LOW_STOCK":
			lowStock++
		}
	}
	if outOfStock > 0 {
		alerts = append(alerts, models.Alert{
			Severity: "critical",
			Source:   "inventory",
			Message:  fmt.Sprintf("%d products out of stock", outOfStock),
		})
	}
	if lowStock > 0 {
		alerts = append(alerts, models.Alert{
			Severity: "warning",
			Source:   "inventory",
			Message:  fmt.Sprintf("%d products below reorder threshold", lowStock),
		})
	}
	return alerts, nil
}
