// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

package models

// DashboardOverview composes the three module summaries into the landing
// page payload.
type DashboardOverview struct {
	Financial ExecutiveSummary `json:"financial"`
	Inventory InventorySummary `json:"inventory"`
	Sales     SalesSummary     `json:"sales"`
}

// DashboardKPIs gathers the per-module KPI blocks.
type DashboardKPIs struct {
	Financial FinancialKPIs `json:"financial"`
	Inventory InventoryKPIs `json:"inventory"`
	Sales     SalesKPIs     `json:"sales"`
}

// DashboardCharts carries the datasets behind the landing page charts.
type DashboardCharts struct {
	MonthlyTrends []MonthlyTrend  `json:"monthly_trends"`
	CashFlow      []CashFlowMonth `json:"cash_flow"`
	Categories    []CategoryShare `json:"categories"`
}

// Alert is one entry on the dashboard alert feed.
type Alert struct {
	Severity string `json:"severity"` // warning, critical
	Source   string `json:"source"`   // financial, inventory
	Message  string `json:"message"`
}
