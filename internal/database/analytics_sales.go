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

// vatFactor converts ERP net totals to gross amounts. Invoices (type 10)
// add revenue, credit notes (type 11) subtract it.
const vatFactor = 1.21

// SalesSummary aggregates ERP invoicing over the trailing year.
func (db *DB) SalesSummary(ctx context.Context) (*models.SalesSummary, error) {
	const query = `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE
				WHEN dt.type = 10 THEN dt.total * $1
				WHEN dt.type = 11 THEN dt.total * -$1
				ELSE 0
			END), 0),
			COUNT(DISTINCT so.debtor_no),
			COALESCE(AVG(CASE WHEN dt.type = 10 THEN dt.total * $1 END), 0)
		FROM debtor_trans dt
		INNER JOIN sales_orders so ON so.id = dt.order_id
		WHERE dt.type IN (10, 11)
		  AND so.ord_date >= now() - interval '1 year'
		  AND so.ord_date > '2020-01-01'`

	start := time.Now()
	var s models.SalesSummary
	err := db.erp.QueryRowContext(ctx, query, vatFactor).Scan(
		&s.Transactions, &s.Revenue, &s.UniqueCustomers, &s.AvgInvoice)
	metrics.RecordDBQuery(SourceERP, "sales_summary", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales summary: %w", err)
	}
	s.Revenue = roundToDecimals(s.Revenue, 2)
	s.AvgInvoice = roundToDecimals(s.AvgInvoice, 2)
	return &s, nil
}

// MonthlyTrends returns up to months of ERP revenue with month-over-month
// growth, oldest first.
func (db *DB) MonthlyTrends(ctx context.Context, months int) ([]models.MonthlyTrend, error) {
	const query = `
		SELECT
			to_char(date_trunc('month', so.ord_date), 'YYYY-MM'),
			COALESCE(SUM(CASE
				WHEN dt.type = 10 THEN dt.total * $2
				WHEN dt.type = 11 THEN dt.total * -$2
				ELSE 0
			END), 0) AS revenue,
			COUNT(*)
		FROM debtor_trans dt
		INNER JOIN sales_orders so ON so.id = dt.order_id
		WHERE dt.type IN (10, 11)
		  AND so.ord_date >= date_trunc('month', now()) - make_interval(months => $1)
		GROUP BY 1
		ORDER BY 1`

	start := time.Now()
	rows, err := db.erp.QueryContext(ctx, query, months, vatFactor)
	metrics.RecordDBQuery(SourceERP, "monthly_trends", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly trends: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var trends []models.MonthlyTrend
	for rows.Next() {
		var t models.MonthlyTrend
		if err := rows.Scan(&t.Month, &t.Revenue, &t.Transactions); err != nil {
			return nil, fmt.Errorf("failed to scan monthly trend: %w", err)
		}
		t.Revenue = roundToDecimals(t.Revenue, 2)
		trends = append(trends, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly trends: %w", err)
	}

	for i := 1; i < len(trends); i++ {
		trends[i].GrowthPct = growthPct(trends[i].Revenue, trends[i-1].Revenue)
	}
	return trends, nil
}

// PerformanceByPeriod groups ERP sales by month, quarter, or year.
func (db *DB) PerformanceByPeriod(ctx context.Context, period string) ([]models.PeriodPerformance, error) {
	var format string
	switch period {
	case "month":
		format = "YYYY-MM"
	case "quarter":
		format = `YYYY-"Q"Q`
	case "year":
		format = "YYYY"
	default:
		return nil, fmt.Errorf("unsupported period %q", period)
	}

	query := fmt.Sprintf(`
		SELECT
			to_char(so.ord_date, '%s') AS period,
			COALESCE(SUM(CASE
				WHEN dt.type = 10 THEN dt.total * $1
				WHEN dt.type = 11 THEN dt.total * -$1
				ELSE 0
			END), 0) AS revenue,
			COUNT(*)
		FROM debtor_trans dt
		INNER JOIN sales_orders so ON so.id = dt.order_id
		WHERE dt.type IN (10, 11)
		  AND so.ord_date >= now() - interval '3 years'
		GROUP BY 1
		ORDER BY 1`, format)

	start := time.Now()
	rows, err := db.erp.QueryContext(ctx, query, vatFactor)
	metrics.RecordDBQuery(SourceERP, "performance_by_period", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query period performance: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var periods []models.PeriodPerformance
	for rows.Next() {
		var p models.PeriodPerformance
		if err := rows.Scan(&p.Period, &p.Revenue, &p.Transactions); err != nil {
			return nil, fmt.Errorf("failed to scan period performance: %w", err)
		}
		p.Revenue = roundToDecimals(p.Revenue, 2)
		if p.Transactions > 0 {
			p.AvgTicket = roundToDecimals(p.Revenue/float64(p.Transactions), 2)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating period performance: %w", err)
	}
	return periods, nil
}

// CustomerSegmentation bands customers into revenue quartiles over the
// trailing year: PLATINUM, GOLD, SILVER, BRONZE from highest to lowest.
func (db *DB) CustomerSegmentation(ctx context.Context) ([]models.CustomerSegment, error) {
	const query = `
		WITH customer_revenue AS (
			SELECT
				so.debtor_no,
				SUM(CASE
					WHEN dt.type = 10 THEN dt.total * $1
					WHEN dt.type = 11 THEN dt.total * -$1
					ELSE 0
				END) AS revenue
			FROM debtor_trans dt
			INNER JOIN sales_orders so ON so.id = dt.order_id
			WHERE dt.type IN (10, 11)
			  AND so.ord_date >= now() - interval '1 year'
			GROUP BY so.debtor_no
			HAVING SUM(CASE
				WHEN dt.type = 10 THEN dt.total * $1
				WHEN dt.type = 11 THEN dt.total * -$1
				ELSE 0
			END) > 0
		)
		SELECT
			CASE ntile
				WHEN 1 THEN 'PLATINUM'
				WHEN 2 THEN 'GOLD'
				WHEN 3 THEN 'SILVER'
				ELSE 'BRONZE'
			END AS segment,
			COUNT(*),
			COALESCE(SUM(revenue), 0)
		FROM (
			SELECT revenue, NTILE(4) OVER (ORDER BY revenue DESC) AS ntile
			FROM customer_revenue
		) ranked
		GROUP BY ntile
		ORDER BY ntile`

	start := time.Now()
	rows, err := db.erp.QueryContext(ctx, query, vatFactor)
	metrics.RecordDBQuery(SourceERP, "customer_segmentation", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer segmentation: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var segments []models.CustomerSegment
	total := 0.0
	for rows.Next() {
		var s models.CustomerSegment
		if err := rows.Scan(&s.Segment, &s.Customers, &s.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan customer segment: %w", err)
		}
		s.Revenue = roundToDecimals(s.Revenue, 2)
		total += s.Revenue
		segments = append(segments, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customer segments: %w", err)
	}

	for i := range segments {
		segments[i].RevenueShare = percentage(segments[i].Revenue, total)
		if segments[i].Customers > 0 {
			segments[i].AvgPerCust = roundToDecimals(segments[i].Revenue/float64(segments[i].Customers), 2)
		}
	}
	return segments, nil
}

// ProductPerformance ranks ERP products by gross revenue over the trailing
// year.
func (db *DB) ProductPerformance(ctx context.Context, limit int) ([]models.ProductSales, error) {
	const query = `
		SELECT
			sm.stock_id,
			sm.description,
			COALESCE(SUM(sod.quantity * sod.unit_price * $2), 0) AS revenue,
			COALESCE(SUM(sod.quantity), 0),
			COUNT(DISTINCT sod.order_id)
		FROM sales_order_details sod
		INNER JOIN stock_master sm ON sm.stock_id = sod.stock_id
		INNER JOIN sales_orders so ON so.id = sod.order_id
		WHERE so.ord_date >= now() - interval '1 year'
		GROUP BY sm.stock_id, sm.description
		ORDER BY revenue DESC
		LIMIT $1`

	start := time.Now()
	rows, err := db.erp.QueryContext(ctx, query, limit, vatFactor)
	metrics.RecordDBQuery(SourceERP, "product_performance", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query product performance: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var products []models.ProductSales
	for rows.Next() {
		var p models.ProductSales
		if err := rows.Scan(&p.ProductID, &p.ProductName, &p.Revenue, &p.Quantity, &p.Orders); err != nil {
			return nil, fmt.Errorf("failed to scan product performance: %w", err)
		}
		p.Revenue = roundToDecimals(p.Revenue, 2)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product performance: %w", err)
	}
	return products, nil
}

// SalesTopCustomers ranks ERP customers by gross invoice revenue.
func (db *DB) SalesTopCustomers(ctx context.Context, limit int) ([]models.TopCustomer, error) {
	const query = `
		SELECT
			dm.debtor_no::text,
			dm.name,
			COALESCE(SUM(dt.total * $2), 0) AS revenue
		FROM debtors_master dm
		INNER JOIN sales_orders so ON dm.debtor_no = so.debtor_no
		INNER JOIN debtor_trans dt ON so.id = dt.order_id
		WHERE dt.type = 10
		GROUP BY dm.debtor_no, dm.name
		ORDER BY revenue DESC
		LIMIT $1`

	start := time.Now()
	rows, err := db.erp.QueryContext(ctx, query, limit, vatFactor)
	metrics.RecordDBQuery(SourceERP, "sales_top_customers", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales top customers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var customers []models.TopCustomer
	rank := 0
	for rows.Next() {
		var c models.TopCustomer
		if err := rows.Scan(&c.CustomerID, &c.CustomerName, &c.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan sales top customer: %w", err)
		}
		c.Amount = roundToDecimals(c.Amount, 2)
		rank++
		c.Rank = rank
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales top customers: %w", err)
	}
	return customers, nil
}

// SalesKPIs compares the current month's ERP billing against the previous
// month and reports average ticket and active customers.
func (db *DB) SalesKPIs(ctx context.Context) (*models.SalesKPIs, error) {
	const query = `
		SELECT
			COALESCE(SUM(CASE
				WHEN dt.type = 10 THEN dt.total * $1
				WHEN dt.type = 11 THEN dt.total * -$1
			END) FILTER (
				WHERE date_trunc('month', so.ord_date) = date_trunc('month', now())), 0),
			COALESCE(SUM(CASE
				WHEN dt.type = 10 THEN dt.total * $1
				WHEN dt.type = 11 THEN dt.total * -$1
			END) FILTER (
				WHERE date_trunc('month', so.ord_date) = date_trunc('month', now()) - interval '1 month'), 0),
			COALESCE(AVG(dt.total * $1) FILTER (
				WHERE dt.type = 10
				  AND date_trunc('month', so.ord_date) = date_trunc('month', now())), 0),
			COUNT(DISTINCT so.debtor_no) FILTER (
				WHERE date_trunc('month', so.ord_date) = date_trunc('month', now()))
		FROM debtor_trans dt
		INNER JOIN sales_orders so ON so.id = dt.order_id
		WHERE dt.type IN (10, 11)
		  AND so.ord_date >= date_trunc('month', now()) - interval '1 month'`

	start := time.Now()
	var k models.SalesKPIs
	var previous float64
	err := db.erp.QueryRowContext(ctx, query, vatFactor).Scan(
		&k.RevenueCurrentMonth, &previous, &k.AvgTicket, &k.ActiveCustomers)
	metrics.RecordDBQuery(SourceERP, "sales_kpis", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales KPIs: %w", err)
	}

	k.RevenueCurrentMonth = roundToDecimals(k.RevenueCurrentMonth, 2)
	k.AvgTicket = roundToDecimals(k.AvgTicket, 2)
	k.RevenueGrowthPct = growthPct(k.RevenueCurrentMonth, roundToDecimals(previous, 2))
	return &k, nil
}

// BillingToday returns today's gross ERP billing, invoices minus credit
// notes. It backs the most frequently polled dashboard tile.
func (db *DB) BillingToday(ctx context.Context) (float64, error) {
	const query = `
		SELECT COALESCE(SUM(CASE
			WHEN dt.type = 10 THEN dt.total * $1
			WHEN dt.type = 11 THEN dt.total * -$1
			ELSE 0
		END), 0)
		FROM debtor_trans dt
		INNER JOIN sales_orders so ON so.id = dt.order_id
		WHERE dt.type IN (10, 11)
		  AND so.ord_date::date = current_date`

	start := time.Now()
	var billed float64
	err := db.erp.QueryRowContext(ctx, query, vatFactor).Scan(&billed)
	metrics.RecordDBQuery(SourceERP, "billing_today", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to query billing today: %w", err)
	}
	return roundToDecimals(billed, 2), nil
}

// BillingMonthly returns the current calendar month's gross ERP billing,
// invoices minus credit notes.
func (db *DB) BillingMonthly(ctx context.Context) (float64, error) {
	const query = `
		SELECT COALESCE(SUM(CASE
			WHEN dt.type = 10 THEN dt.total * $1
			WHEN dt.type = 11 THEN dt.total * -$1
			ELSE 0
		END), 0)
		FROM debtor_trans dt
		INNER JOIN sales_orders so ON so.id = dt.order_id
		WHERE dt.type IN (10, 11)
		  AND date_trunc('month', so.ord_date) = date_trunc('month', now())`

	start := time.Now()
	var billed float64
	err := db.erp.QueryRowContext(ctx, query, vatFactor).Scan(&billed)
	metrics.RecordDBQuery(SourceERP, "billing_monthly", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to query billing monthly: %w", err)
	}
	return roundToDecimals(billed, 2), nil
}
