// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

package models

// InventorySummary aggregates the current stock position.
type InventorySummary struct {
	ProductCount      int     `json:"product_count"`
	TotalQuantity     float64 `json:"total_quantity"`
	TotalValue        float64 `json:"total_value"`
	InStockCount      int     `json:"in_stock_count"`
	DiscontinuedCount int     `json:"discontinued_count"`
}

// StockValueProduct ranks a product by stock value (quantity x unit cost).
type StockValueProduct struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Category    string  `json:"category"`
	Quantity    float64 `json:"quantity"`
	UnitCost    float64 `json:"unit_cost"`
	StockValue  float64 `json:"stock_value"`
}

// SlowMovingProduct is a product without sales for at least 180 days.
// Dead stock is 365 days or more. MonthlyCarryingCost is 2% of stock value.
type SlowMovingProduct struct {
	ProductID           string  `json:"product_id"`
	ProductName         string  `json:"product_name"`
	DaysSinceLastSale   int     `json:"days_since_last_sale"`
	StockValue          float64 `json:"stock_value"`
	MonthlyCarryingCost float64 `json:"monthly_carrying_cost"`
	DeadStock           bool    `json:"dead_stock"`
}

// CategoryShare is one category's slice of total stock value.
type CategoryShare struct {
	Category     string  `json:"category"`
	ProductCount int     `json:"product_count"`
	StockValue   float64 `json:"stock_value"`
	SharePct     float64 `json:"share_pct"`
}

// ABCProduct classifies a product by cumulative revenue contribution:
// A up to 80%, B up to 95%, C the rest.
type ABCProduct struct {
	ProductID       string  `json:"product_id"`
	ProductName     string  `json:"product_name"`
	Revenue         float64 `json:"revenue"`
	RevenueSharePct float64 `json:"revenue_share_pct"`
	CumulativePct   float64 `json:"cumulative_pct"`
	Class           string  `json:"class"` // A, B, C
}

// StockAlert flags a product that is out of stock or below its reorder
// threshold.
type StockAlert struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
	Threshold   float64 `json:"threshold"`
	AlertType   string  `json:"alert_type"` // OUT_OF_STOCK, LOW_STOCK
}

// ReorderRecommendation suggests an order quantity from recent demand.
//
// Demand is measured over a 90-day window and projected across a 135-day
// replenishment lead time, scaled by an ABC coverage multiplier (A 2.0,
// B 1.5, C 1.2). Priority follows days of remaining coverage: critical
// under 30, urgent under 60, high under 90, medium under 135.
type ReorderRecommendation struct {
	ProductID       string  `json:"product_id"`
	ProductName     string  `json:"product_name"`
	Class           string  `json:"class"`
	Quantity        float64 `json:"quantity"`
	DailyDemand     float64 `json:"daily_demand"`
	DaysOfCoverage  float64 `json:"days_of_coverage"`
	SuggestedOrder  float64 `json:"suggested_order"`
	Priority        string  `json:"priority"` // critical, urgent, high, medium
	EstimatedCost   float64 `json:"estimated_cost"`
}

// InventoryKPIs summarizes inventory health for the dashboard.
type InventoryKPIs struct {
	TurnoverRatio   float64 `json:"turnover_ratio"`
	TotalValue      float64 `json:"total_value"`
	OutOfStockCount int     `json:"out_of_stock_count"`
	SlowMovingCount int     `json:"slow_moving_count"`
}

// StockValueSnapshot is one daily point of the historical stock value
// series.
type StockValueSnapshot struct {
	Date       string  `json:"date"` // YYYY-MM-DD
	StockValue float64 `json:"stock_value"`
}

// SupplierPerformance aggregates a supplier's stock footprint and purchase
// order history. AvgLeadTimeDays is measured from boarding to
// nationalization and is 0 when no completed orders exist.
type SupplierPerformance struct {
	SupplierName       string  `json:"supplier_name"`
	Country            string  `json:"country"`
	TotalOrders        int     `json:"total_orders"`
	ProductCount       int     `json:"product_count"`
	CurrentStockValue  float64 `json:"current_stock_value"`
	AvgLeadTimeDays    float64 `json:"avg_lead_time_days"`
	TotalPurchaseValue float64 `json:"total_purchase_value"`
}
