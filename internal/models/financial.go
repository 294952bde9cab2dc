// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

package models

// ExecutiveSummary aggregates the receivables position across all customers.
type ExecutiveSummary struct {
	UniqueCustomers  int     `json:"unique_customers"`
	TotalOutstanding float64 `json:"total_outstanding"`
	TotalOverdue     float64 `json:"total_overdue"`
	AvgBalance       float64 `json:"avg_balance"`
	OverduePct       float64 `json:"overdue_pct"`
}

// CreditRiskCustomer scores a customer's payment risk. RiskScore blends
// overdue share (70%) with credit utilization (30%); RiskLevel is HIGH
// above 50, MEDIUM above 20, LOW otherwise.
type CreditRiskCustomer struct {
	CustomerID   string  `json:"customer_id"`
	CustomerName string  `json:"customer_name"`
	Balance      float64 `json:"balance"`
	Overdue      float64 `json:"overdue"`
	OverduePct   float64 `json:"overdue_pct"`
	CreditLimit  float64 `json:"credit_limit"`
	Utilization  float64 `json:"utilization_pct"`
	RiskScore    float64 `json:"risk_score"`
	RiskLevel    string  `json:"risk_level"` // HIGH, MEDIUM, LOW
}

// CashFlowMonth is one month of collected payments with moving averages.
type CashFlowMonth struct {
	Month        string  `json:"month"` // YYYY-MM
	Payments     float64 `json:"payments"`
	MovingAvg3M  float64 `json:"moving_avg_3m"`
	MovingAvg6M  float64 `json:"moving_avg_6m"`
	MoMChangePct float64 `json:"mom_change_pct"`
}

// TopCustomer ranks a customer by outstanding balance or revenue.
type TopCustomer struct {
	CustomerID   string  `json:"customer_id"`
	CustomerName string  `json:"customer_name"`
	Amount       float64 `json:"amount"`
	Rank         int     `json:"rank"`
}

// AgingBucket is one band of the receivables aging analysis.
type AgingBucket struct {
	Bucket    string  `json:"bucket"` // current, 1-30, 31-60, 61-90, 90+
	Amount    float64 `json:"amount"`
	Customers int     `json:"customers"`
	SharePct  float64 `json:"share_pct"`
}

// PaymentTrendMonth is one month of payment activity.
type PaymentTrendMonth struct {
	Month     string  `json:"month"`
	Count     int     `json:"count"`
	Total     float64 `json:"total"`
	Average   float64 `json:"average"`
	GrowthPct float64 `json:"growth_pct"`
}

// MonthlyCollections summarizes the current calendar month's payments,
// split between cash and electronic channels.
type MonthlyCollections struct {
	TotalPayments      float64 `json:"total_payments"`
	CashPayments       float64 `json:"cash_payments"`
	ElectronicPayments float64 `json:"electronic_payments"`
	TransactionCount   int     `json:"transaction_count"`
	CashCount          int     `json:"cash_count"`
	ElectronicCount    int     `json:"electronic_count"`
}

// FinancialKPIs compares the current month against the previous one.
type FinancialKPIs struct {
	RevenueCurrentMonth  float64 `json:"revenue_current_month"`
	RevenuePreviousMonth float64 `json:"revenue_previous_month"`
	RevenueGrowthPct     float64 `json:"revenue_growth_pct"`
	PaymentsCurrentMonth float64 `json:"payments_current_month"`
	OutstandingTotal     float64 `json:"outstanding_total"`
	OverduePct           float64 `json:"overdue_pct"`
}
