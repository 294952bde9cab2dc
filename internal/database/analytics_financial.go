// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/dialfa/insight/internal/metrics"
	"github.com/dialfa/insight/internal/models"
)

// ExecutiveSummary aggregates the receivables position from the operational
// database. Balances under 100 are noise (rounding remnants) and excluded.
func (db *DB) ExecutiveSummary(ctx context.Context) (*models.ExecutiveSummary, error) {
	const query = `
		SELECT
			COUNT(DISTINCT customer_id),
			COALESCE(SUM(amount), 0),
			COALESCE(SUM(due), 0),
			COALESCE(AVG(amount), 0)
		FROM balances
		WHERE amount > 100`

	start := time.Now()
	var s models.ExecutiveSummary
	err := db.operational.QueryRowContext(ctx, query).Scan(
		&s.UniqueCustomers, &s.TotalOutstanding, &s.TotalOverdue, &s.AvgBalance)
	metrics.RecordDBQuery(SourceOperational, "executive_summary", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query executive summary: %w", err)
	}

	s.OverduePct = percentage(s.TotalOverdue, s.TotalOutstanding)
	return &s, nil
}

// CreditRisk scores per-customer payment risk, highest risk first. Only
// balances over 1000 matter for risk monitoring.
func (db *DB) CreditRisk(ctx context.Context) ([]models.CreditRiskCustomer, error) {
	const query = `
		SELECT
			c.id,
			c.name,
			b.amount,
			b.due,
			COALESCE(c.credit_limit, 0)
		FROM customers c
		INNER JOIN balances b ON c.id = b.customer_id
		WHERE b.amount > 1000
		ORDER BY b.due / NULLIF(b.amount, 0) DESC NULLS LAST`

	start := time.Now()
	rows, err := db.operational.QueryContext(ctx, query)
	metrics.RecordDBQuery(SourceOperational, "credit_risk", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query credit risk: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var customers []models.CreditRiskCustomer
	for rows.Next() {
		var c models.CreditRiskCustomer
		if err := rows.Scan(&c.CustomerID, &c.CustomerName, &c.Balance, &c.Overdue, &c.CreditLimit); err != nil {
			return nil, fmt.Errorf("failed to scan credit risk row: %w", err)
		}
		c.OverduePct = percentage(c.Overdue, c.Balance)
		if c.CreditLimit > 0 {
			c.Utilization = percentage(c.Balance, c.CreditLimit)
		}
		c.RiskScore = riskScore(c.OverduePct, c.Utilization)
		c.RiskLevel = riskLevel(c.OverduePct)
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating credit risk rows: %w", err)
	}
	return customers, nil
}

// CashFlowHistory returns monthly collected payments over the trailing
// months window with 3- and 6-month moving averages and month-over-month
// change. Zero payment dates and pre-2020 rows are data-entry artifacts
// in the source system and are filtered out.
func (db *DB) CashFlowHistory(ctx context.Context, months int) ([]models.CashFlowMonth, error) {
	const query = `
		SELECT
			to_char(date_trunc('month', payment_date), 'YYYY-MM'),
			COALESCE(SUM(payment_amount), 0)
		FROM transactions
		WHERE payment_date >= date_trunc('month', now()) - make_interval(months => $1)
		  AND payment_date > '2020-01-01'
		  AND payment_amount > 0
		GROUP BY 1
		ORDER BY 1`

	start := time.Now()
	rows, err := db.operational.QueryContext(ctx, query, months)
	metrics.RecordDBQuery(SourceOperational, "cash_flow", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query cash flow: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []models.CashFlowMonth
	var payments []float64
	for rows.Next() {
		var m models.CashFlowMonth
		if err := rows.Scan(&m.Month, &m.Payments); err != nil {
			return nil, fmt.Errorf("failed to scan cash flow row: %w", err)
		}
		payments = append(payments, m.Payments)
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash flow rows: %w", err)
	}

	for i := range result {
		result[i].MovingAvg3M = movingAvg(payments, i, 3)
		result[i].MovingAvg6M = movingAvg(payments, i, 6)
		if i > 0 {
			result[i].MoMChangePct = growthPct(payments[i], payments[i-1])
		}
	}
	return result, nil
}

// TopCustomers ranks customers by outstanding balance.
func (db *DB) TopCustomers(ctx context.Context, limit int) ([]models.TopCustomer, error) {
	const query = `
		SELECT c.id, c.name, b.amount
		FROM customers c
		INNER JOIN balances b ON c.id = b.customer_id
		WHERE b.amount > 100
		ORDER BY b.amount DESC
		LIMIT $1`

	start := time.Now()
	rows, err := db.operational.QueryContext(ctx, query, limit)
	metrics.RecordDBQuery(SourceOperational, "top_customers", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query top customers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var customers []models.TopCustomer
	rank := 0
	for rows.Next() {
		var c models.TopCustomer
		if err := rows.Scan(&c.CustomerID, &c.CustomerName, &c.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan top customer row: %w", err)
		}
		rank++
		c.Rank = rank
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top customer rows: %w", err)
	}
	return customers, nil
}

// AgingAnalysis buckets outstanding receivables by days overdue.
func (db *DB) AgingAnalysis(ctx context.Context) ([]models.AgingBucket, error) {
	const query = `
		SELECT
			CASE
				WHEN due <= 0 THEN 'current'
				WHEN now() - oldest_due_date <= interval '30 days' THEN '1-30'
				WHEN now() - oldest_due_date <= interval '60 days' THEN '31-60'
				WHEN now() - oldest_due_date <= interval '90 days' THEN '61-90'
				ELSE '90+'
			END AS bucket,
			COALESCE(SUM(amount), 0),
			COUNT(DISTINCT customer_id)
		FROM balances
		WHERE amount > 100
		GROUP BY 1`

	start := time.Now()
	rows, err := db.operational.QueryContext(ctx, query)
	metrics.RecordDBQuery(SourceOperational, "aging_report", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query aging analysis: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var buckets []models.AgingBucket
	total := 0.0
	for rows.Next() {
		var b models.AgingBucket
		if err := rows.Scan(&b.Bucket, &b.Amount, &b.Customers); err != nil {
			return nil, fmt.Errorf("failed to scan aging bucket: %w", err)
		}
		total += b.Amount
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating aging buckets: %w", err)
	}

	for i := range buckets {
		buckets[i].SharePct = percentage(buckets[i].Amount, total)
	}
	return buckets, nil
}

// PaymentTrends returns 12 months of payment activity with per-month
// growth.
func (db *DB) PaymentTrends(ctx context.Context) ([]models.PaymentTrendMonth, error) {
	const query = `
		SELECT
			to_char(date_trunc('month', payment_date), 'YYYY-MM'),
			COUNT(*),
			COALESCE(SUM(payment_amount), 0),
			COALESCE(AVG(payment_amount), 0)
		FROM transactions
		WHERE payment_date >= date_trunc('month', now()) - interval '12 months'
		  AND payment_date > '2020-01-01'
		  AND payment_amount > 0
		GROUP BY 1
		ORDER BY 1`

	start := time.Now()
	rows, err := db.operational.QueryContext(ctx, query)
	metrics.RecordDBQuery(SourceOperational, "payment_trends", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment trends: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var trends []models.PaymentTrendMonth
	for rows.Next() {
		var t models.PaymentTrendMonth
		if err := rows.Scan(&t.Month, &t.Count, &t.Total, &t.Average); err != nil {
			return nil, fmt.Errorf("failed to scan payment trend row: %w", err)
		}
		trends = append(trends, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment trend rows: %w", err)
	}

	for i := 1; i < len(trends); i++ {
		trends[i].GrowthPct = growthPct(trends[i].Total, trends[i-1].Total)
	}
	return trends, nil
}

// CollectedMonthly summarizes the current calendar month's collected
// payments, split between cash (type 1) and electronic (type 0) channels.
func (db *DB) CollectedMonthly(ctx context.Context) (*models.MonthlyCollections, error) {
	const query = `
		SELECT
			COALESCE(SUM(payment_amount), 0),
			COALESCE(SUM(payment_amount) FILTER (WHERE type = 1), 0),
			COALESCE(SUM(payment_amount) FILTER (WHERE type = 0), 0),
			COUNT(*),
			COUNT(*) FILTER (WHERE type = 1),
			COUNT(*) FILTER (WHERE type = 0)
		FROM transactions
		WHERE date_trunc('month', payment_date) = date_trunc('month', now())
		  AND payment_date > '2020-01-01'
		  AND payment_amount > 0`

	start := time.Now()
	var c models.MonthlyCollections
	err := db.operational.QueryRowContext(ctx, query).Scan(
		&c.TotalPayments, &c.CashPayments, &c.ElectronicPayments,
		&c.TransactionCount, &c.CashCount, &c.ElectronicCount)
	metrics.RecordDBQuery(SourceOperational, "collected_monthly", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly collections: %w", err)
	}
	return &c, nil
}

// FinancialKPIs compares current and previous month invoicing plus the
// outstanding position.
func (db *DB) FinancialKPIs(ctx context.Context) (*models.FinancialKPIs, error) {
	const revenueQuery = `
		SELECT
			COALESCE(SUM(invoice_amount) FILTER (
				WHERE date_trunc('month', invoice_date) = date_trunc('month', now())), 0),
			COALESCE(SUM(invoice_amount) FILTER (
				WHERE date_trunc('month', invoice_date) = date_trunc('month', now()) - interval '1 month'), 0),
			COALESCE(SUM(payment_amount) FILTER (
				WHERE date_trunc('month', payment_date) = date_trunc('month', now()) AND payment_amount > 0), 0)
		FROM transactions
		WHERE invoice_date > '2020-01-01' OR payment_date > '2020-01-01'`

	start := time.Now()
	var k models.FinancialKPIs
	err := db.operational.QueryRowContext(ctx, revenueQuery).Scan(
		&k.RevenueCurrentMonth, &k.RevenuePreviousMonth, &k.PaymentsCurrentMonth)
	metrics.RecordDBQuery(SourceOperational, "financial_kpis", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query financial KPIs: %w", err)
	}
	k.RevenueGrowthPct = growthPct(k.RevenueCurrentMonth, k.RevenuePreviousMonth)

	summary, err := db.ExecutiveSummary(ctx)
	if err != nil {
		return nil, err
	}
	k.OutstandingTotal = summary.TotalOutstanding
	k.OverduePct = summary.OverduePct
	return &k, nil
}
