// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

package models

// SalesSummary aggregates invoicing activity over the trailing year.
type SalesSummary struct {
	Transactions    int     `json:"transactions"`
	Revenue         float64 `json:"revenue"`
	UniqueCustomers int     `json:"unique_customers"`
	AvgInvoice      float64 `json:"avg_invoice"`
}

// MonthlyTrend is one month of revenue with month-over-month growth.
type MonthlyTrend struct {
	Month        string  `json:"month"` // YYYY-MM
	Revenue      float64 `json:"revenue"`
	Transactions int     `json:"transactions"`
	GrowthPct    float64 `json:"growth_pct"`
}

// PeriodPerformance groups sales by month, quarter, or year.
type PeriodPerformance struct {
	Period       string  `json:"period"`
	Revenue      float64 `json:"revenue"`
	Transactions int     `json:"transactions"`
	AvgTicket    float64 `json:"avg_ticket"`
}

// CustomerSegment is a revenue-quartile customer band:
// PLATINUM, GOLD, SILVER, BRONZE from highest to lowest quartile.
type CustomerSegment struct {
	Segment       string  `json:"segment"`
	Customers     int     `json:"customers"`
	Revenue       float64 `json:"revenue"`
	RevenueShare  float64 `json:"revenue_share_pct"`
	AvgPerCust    float64 `json:"avg_per_customer"`
}

// ProductSales ranks a product by revenue and quantity sold.
type ProductSales struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Revenue     float64 `json:"revenue"`
	Quantity    float64 `json:"quantity"`
	Orders      int     `json:"orders"`
}

// SalesKPIs summarizes sales performance for the dashboard.
type SalesKPIs struct {
	RevenueCurrentMonth float64 `json:"revenue_current_month"`
	RevenueGrowthPct    float64 `json:"revenue_growth_pct"`
	AvgTicket           float64 `json:"avg_ticket"`
	ActiveCustomers     int     `json:"active_customers"`
}
