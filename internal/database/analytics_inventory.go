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

// Reorder model constants: demand is measured over a 90-day window and
// projected across the 135-day replenishment lead time (overseas supply
// chain).
const (
	demandWindowDays = 90
	reorderLeadDays  = 135
	slowMovingDays   = 180
	deadStockDays    = 365
	carryingCostRate = 0.02
)

// InventorySummary aggregates the current stock position.
func (db *DB) InventorySummary(ctx context.Context) (*models.InventorySummary, error) {
	const query = `
		SELECT
			COUNT(*),
			COALESCE(SUM(quantity), 0),
			COALESCE(SUM(quantity * unit_cost), 0),
			COUNT(*) FILTER (WHERE quantity > 0),
			COUNT(*) FILTER (WHERE discontinued)
		FROM products`

	start := time.Now()
	var s models.InventorySummary
	err := db.operational.QueryRowContext(ctx, query).Scan(
		&s.ProductCount, &s.TotalQuantity, &s.TotalValue, &s.InStockCount, &s.DiscontinuedCount)
	metrics.RecordDBQuery(SourceOperational, "inventory_summary", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory summary: %w", err)
	}
	return &s, nil
}

// TopStockValue ranks in-stock products by stock value.
func (db *DB) TopStockValue(ctx context.Context, limit int) ([]models.StockValueProduct, error) {
	const query = `
		SELECT
			p.id,
			p.name,
			c.name,
			p.quantity,
			p.unit_cost,
			p.quantity * p.unit_cost AS stock_value
		FROM products p
		INNER JOIN categories c ON p.category_id = c.id
		WHERE p.quantity > 0
		ORDER BY stock_value DESC
		LIMIT $1`

	start := time.Now()
	rows, err := db.operational.QueryContext(ctx, query, limit)
	metrics.RecordDBQuery(SourceOperational, "top_stock_value", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query top stock value: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var products []models.StockValueProduct
	for rows.Next() {
		var p models.StockValueProduct
		if err := rows.Scan(&p.ProductID, &p.ProductName, &p.Category, &p.Quantity, &p.UnitCost, &p.StockValue); err != nil {
			return nil, fmt.Errorf("failed to scan stock value row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock value rows: %w", err)
	}
	return products, nil
}

// SlowMoving lists in-stock, non-discontinued products without a sale in
// the last 180 days. Products silent for a year or more are flagged as
// dead stock. Monthly carrying cost is 2% of stock value.
func (db *DB) SlowMoving(ctx context.Context) ([]models.SlowMovingProduct, error) {
	const query = `
		SELECT
			p.id,
			p.name,
			COALESCE(EXTRACT(DAY FROM now() - s.last_sale_date), 99999)::int,
			p.quantity * p.unit_cost AS stock_value
		FROM products p
		LEFT JOIN (
			SELECT oi.product_id, MAX(o.issued_at) AS last_sale_date
			FROM order_items oi
			INNER JOIN orders o ON oi.order_id = o.id
			WHERE o.issued_at >= now() - interval '2 years'
			GROUP BY oi.product_id
		) s ON p.id = s.product_id
		WHERE p.quantity > 0
		  AND NOT p.discontinued
		  AND (s.last_sale_date IS NULL OR s.last_sale_date < now() - make_interval(days => $1))
		ORDER BY stock_value DESC`

	start := time.Now()
	rows, err := db.operational.QueryContext(ctx, query, slowMovingDays)
	metrics.RecordDBQuery(SourceOperational, "slow_moving", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query slow moving stock: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var products []models.SlowMovingProduct
	for rows.Next() {
		var p models.SlowMovingProduct
		if err := rows.Scan(&p.ProductID, &p.ProductName, &p.DaysSinceLastSale, &p.StockValue); err != nil {
			return nil, fmt.Errorf("failed to scan slow moving row: %w", err)
		}
		p.MonthlyCarryingCost = roundToDecimals(p.StockValue*carryingCostRate, 2)
		p.DeadStock = p.DaysSinceLastSale >= deadStockDays
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating slow moving rows: %w", err)
	}
	return products, nil
}

// CategoryAnalysis returns each category's share of total stock value.
func (db *DB) CategoryAnalysis(ctx context.Context) ([]models.CategoryShare, error) {
	const query = `
		SELECT
			c.name,
			COUNT(p.id),
			COALESCE(SUM(p.quantity * p.unit_cost), 0) AS total_value
		FROM categories c
		INNER JOIN products p ON c.id = p.category_id
		WHERE p.quantity > 0 AND NOT p.discontinued
		GROUP BY c.id, c.name
		ORDER BY total_value DESC`

	start := time.Now()
	rows, err := db.operational.QueryContext(ctx, query)
	metrics.RecordDBQuery(SourceOperational, "category_distribution", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query category analysis: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var shares []models.CategoryShare
	total := 0.0
	for rows.Next() {
		var s models.CategoryShare
		if err := rows.Scan(&s.Category, &s.ProductCount, &s.StockValue); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		total += s.StockValue
		shares = append(shares, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}

	for i := range shares {
		shares[i].SharePct = percentage(shares[i].StockValue, total)
	}
	return shares, nil
}

// ABCAnalysis classifies products by cumulative revenue contribution over
// the trailing year: A up to 80%, B up to 95%, C the rest.
func (db *DB) ABCAnalysis(ctx context.Context) ([]models.ABCProduct, error) {
	const query = `
		SELECT
			p.id,
			p.name,
			COALESCE(SUM(oi.quantity * oi.unit_price), 0) AS revenue
		FROM products p
		INNER JOIN order_items oi ON p.id = oi.product_id
		INNER JOIN orders o ON oi.order_id = o.id
		WHERE o.issued_at >= now() - interval '1 year'
		GROUP BY p.id, p.name
		HAVING SUM(oi.quantity * oi.unit_price) > 0
		ORDER BY revenue DESC`

	start := time.Now()
	rows, err := db.operational.QueryContext(ctx, query)
	metrics.RecordDBQuery(SourceOperational, "abc_analysis", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query ABC analysis: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var products []models.ABCProduct
	total := 0.0
	for rows.Next() {
		var p models.ABCProduct
		if err := rows.Scan(&p.ProductID, &p.ProductName, &p.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan ABC row: %w", err)
		}
		total += p.Revenue
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ABC rows: %w", err)
	}

	cumulative := 0.0
	for i := range products {
		products[i].RevenueSharePct = percentage(products[i].Revenue, total)
		cumulative += products[i].RevenueSharePct
		products[i].CumulativePct = roundToDecimals(cumulative, 2)
		products[i].Class = abcClass(products[i].CumulativePct)
	}
	return products, nil
}

// StockAlerts flags products that are out of stock or below their reorder
// threshold.
func (db *DB) StockAlerts(ctx context.Context) ([]models.StockAlert, error) {
	const query = `
		SELECT p.id, p.name, p.quantity, COALESCE(p.reorder_threshold, 0)
		FROM products p
		WHERE NOT p.discontinued
		  AND (p.quantity <= 0 OR p.quantity < COALESCE(p.reorder_threshold, 0))
		ORDER BY p.quantity ASC`

	start := time.Now()
	rows, err := db.operational.QueryContext(ctx, query)
	metrics.RecordDBQuery(SourceOperational, "stock_alerts", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock alerts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var alerts []models.StockAlert
	for rows.Next() {
		var a models.StockAlert
		if err := rows.Scan(&a.ProductID, &a.ProductName, &a.Quantity, &a.Threshold); err != nil {
			return nil, fmt.Errorf("failed to scan stock alert: %w", err)
		}
		if a.Quantity <= 0 {
			a.AlertType = "OUT_OF_STOCK"
		} else {
			a.AlertType = "LOW_STOCK"
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock alerts: %w", err)
	}
	return alerts, nil
}

// ReorderRecommendations projects recent demand across the replenishment
// lead time and suggests order quantities. Coverage targets scale with the
// product's ABC class so high-revenue products carry more buffer.
func (db *DB) ReorderRecommendations(ctx context.Context) ([]models.ReorderRecommendation, error) {
	demand, err := db.reorderDemand(ctx)
	if err != nil {
		return nil, err
	}

	classes, err := db.ABCAnalysis(ctx)
	if err != nil {
		return nil, err
	}
	classByProduct := make(map[string]string, len(classes))
	for _, p := range classes {
		classByProduct[p.ProductID] = p.Class
	}

	var recs []models.ReorderRecommendation
	for _, d := range demand {
		if d.DailyDemand <= 0 {
			continue
		}
		class, ok := classByProduct[d.ProductID]
		if !ok {
			class = "C"
		}

		coverage := d.Quantity / d.DailyDemand
		targetDays := float64(reorderLeadDays) * abcCoverageMultiplier(class)
		suggested := d.DailyDemand*targetDays - d.Quantity
		if suggested <= 0 {
			continue
		}

		recs = append(recs, models.ReorderRecommendation{
			ProductID:      d.ProductID,
			ProductName:    d.ProductName,
			Class:          class,
			Quantity:       d.Quantity,
			DailyDemand:    roundToDecimals(d.DailyDemand, 4),
			DaysOfCoverage: roundToDecimals(coverage, 1),
			SuggestedOrder: roundToDecimals(suggested, 0),
			Priority:       reorderPriority(coverage),
			EstimatedCost:  roundToDecimals(suggested*d.UnitCost, 2),
		})
	}
	return recs, nil
}

type reorderDemandRow struct {
	ProductID   string
	ProductName string
	Quantity    float64
	UnitCost    float64
	DailyDemand float64
}

func (db *DB) reorderDemand(ctx context.Context) ([]reorderDemandRow, error) {
	const query = `
		SELECT
			p.id,
			p.name,
			p.quantity,
			p.unit_cost,
			COALESCE(SUM(oi.quantity) FILTER (
				WHERE o.issued_at >= now() - make_interval(days => $1)), 0) / $1::float AS daily_demand
		FROM products p
		LEFT JOIN order_items oi ON p.id = oi.product_id
		LEFT JOIN orders o ON oi.order_id = o.id
		WHERE NOT p.discontinued
		GROUP BY p.id, p.name, p.quantity, p.unit_cost`

	start := time.Now()
	rows, err := db.operational.QueryContext(ctx, query, demandWindowDays)
	metrics.RecordDBQuery(SourceOperational, "reorder_demand", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query reorder demand: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var demand []reorderDemandRow
	for rows.Next() {
		var d reorderDemandRow
		if err := rows.Scan(&d.ProductID, &d.ProductName, &d.Quantity, &d.UnitCost, &d.DailyDemand); err != nil {
			return nil, fmt.Errorf("failed to scan reorder demand row: %w", err)
		}
		demand = append(demand, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reorder demand rows: %w", err)
	}
	return demand, nil
}

// StockValueEvolution returns the daily stock valuation snapshots taken
// over the last N months, oldest first.
func (db *DB) StockValueEvolution(ctx context.Context, months int) ([]models.StockValueSnapshot, error) {
	const query = `
		SELECT to_char(snapshot_date, 'YYYY-MM-DD'), stock_value
		FROM stock_snapshots
		WHERE snapshot_date >= now() - make_interval(months => $1)
		ORDER BY snapshot_date ASC`

	start := time.Now()
	rows, err := db.operational.QueryContext(ctx, query, months)
	metrics.RecordDBQuery(SourceOperational, "stock_value_evolution", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock value evolution: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snapshots []models.StockValueSnapshot
	for rows.Next() {
		var s models.StockValueSnapshot
		if err := rows.Scan(&s.Date, &s.StockValue); err != nil {
			return nil, fmt.Errorf("failed to scan stock snapshot row: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock snapshot rows: %w", err)
	}
	return snapshots, nil
}

// SupplierPerformance ranks suppliers by the stock value of their active
// catalogue, with purchase-order volume and the average boarding-to-
// nationalization lead time over the trailing two years.
func (db *DB) SupplierPerformance(ctx context.Context) ([]models.SupplierPerformance, error) {
	const query = `
		SELECT
			s.name,
			COALESCE(s.country, ''),
			COALESCE(po.order_count, 0),
			COALESCE(pr.product_count, 0),
			COALESCE(pr.stock_value, 0) AS stock_value,
			COALESCE(po.avg_lead_days, 0),
			COALESCE(po.total_amount, 0)
		FROM suppliers s
		LEFT JOIN (
			SELECT
				supplier_id,
				COUNT(*) AS order_count,
				AVG(EXTRACT(DAY FROM nationalization_date - boarding_date)) AS avg_lead_days,
				SUM(total_amount) AS total_amount
			FROM purchase_orders
			WHERE boarding_date >= now() - interval '2 years'
			GROUP BY supplier_id
		) po ON s.id = po.supplier_id
		LEFT JOIN (
			SELECT
				supplier_id,
				COUNT(*) AS product_count,
				SUM(quantity * unit_cost) AS stock_value
			FROM products
			WHERE NOT discontinued
			GROUP BY supplier_id
		) pr ON s.id = pr.supplier_id
		WHERE COALESCE(po.order_count, 0) > 0 OR COALESCE(pr.product_count, 0) > 0
		ORDER BY stock_value DESC`

	start := time.Now()
	rows, err := db.operational.QueryContext(ctx, query)
	metrics.RecordDBQuery(SourceOperational, "supplier_performance", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query supplier performance: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var suppliers []models.SupplierPerformance
	for rows.Next() {
		var s models.SupplierPerformance
		if err := rows.Scan(&s.SupplierName, &s.Country, &s.TotalOrders, &s.ProductCount,
			&s.CurrentStockValue, &s.AvgLeadTimeDays, &s.TotalPurchaseValue); err != nil {
			return nil, fmt.Errorf("failed to scan supplier row: %w", err)
		}
		s.AvgLeadTimeDays = roundToDecimals(s.AvgLeadTimeDays, 1)
		suppliers = append(suppliers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating supplier rows: %w", err)
	}
	return suppliers, nil
}

// InventoryKPIs summarizes inventory health.
func (db *DB) InventoryKPIs(ctx context.Context) (*models.InventoryKPIs, error) {
	const query = `
		SELECT
			COALESCE(SUM(p.quantity * p.unit_cost), 0),
			COUNT(*) FILTER (WHERE p.quantity <= 0 AND NOT p.discontinued),
			COALESCE((
				SELECT SUM(oi.quantity * oi.unit_price)
				FROM order_items oi
				INNER JOIN orders o ON oi.order_id = o.id
				WHERE o.issued_at >= now() - interval '1 year'
			), 0) AS annual_sales
		FROM products p`

	start := time.Now()
	var k models.InventoryKPIs
	var annualSales float64
	err := db.operational.QueryRowContext(ctx, query).Scan(&k.TotalValue, &k.OutOfStockCount, &annualSales)
	metrics.RecordDBQuery(SourceOperational, "inventory_kpis", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory KPIs: %w", err)
	}

	if k.TotalValue > 0 {
		k.TurnoverRatio = roundToDecimals(annualSales/k.TotalValue, 2)
	}

	slow, err := db.SlowMoving(ctx)
	if err != nil {
		return nil, err
	}
	k.SlowMovingCount = len(slow)
	return &k, nil
}
