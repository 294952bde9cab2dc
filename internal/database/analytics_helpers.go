// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

package database

import (
	"math"
)

// roundToDecimals rounds a float64 to the given number of decimal places.
// Aggregations sum floats in scan order, so results are normalized by
// rounding before they reach clients.
func roundToDecimals(value float64, decimals int) float64 {
	multiplier := math.Pow(10, float64(decimals))
	return math.Round(value*multiplier) / multiplier
}

// percentage computes part/total as a percentage with 2-decimal rounding,
// 0 when total is not positive.
func percentage(part, total float64) float64 {
	if total <= 0 {
		return 0.0
	}
	return roundToDecimals(part/total*100.0, 2)
}

// growthPct computes the relative change from previous to current as a
// percentage, 0 when previous is zero.
func growthPct(current, previous float64) float64 {
	if previous == 0 {
		return 0.0
	}
	return roundToDecimals((current-previous)/previous*100.0, 2)
}

// movingAvg computes the trailing mean over at most window values ending
// at index i (inclusive). With fewer than window values available it
// averages what exists.
func movingAvg(values []float64, i, window int) float64 {
	start := i - window + 1
	if start < 0 {
		start = 0
	}
	sum := 0.0
	for _, v := range values[start : i+1] {
		sum += v
	}
	return roundToDecimals(sum/float64(i-start+1), 2)
}

// riskScore blends overdue share (70%) with credit utilization (30%).
// Both inputs are percentages; the result is clamped to [0, 100].
func riskScore(overduePct, utilizationPct float64) float64 {
	score := overduePct*0.7 + utilizationPct*0.3
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return roundToDecimals(score, 2)
}

// riskLevel bands an overdue percentage: HIGH above 50, MEDIUM above 20,
// LOW otherwise.
func riskLevel(overduePct float64) string {
	switch {
	case overduePct > 50:
		return "HIGH"
	case overduePct > 20:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// abcClass assigns a product class from its cumulative revenue share:
// A up to 80%, B up to 95%, C the rest.
func abcClass(cumulativePct float64) string {
	switch {
	case cumulativePct <= 80:
		return "A"
	case cumulativePct <= 95:
		return "B"
	default:
		return "C"
	}
}

// abcCoverageMultiplier scales reorder coverage per product class.
func abcCoverageMultiplier(class string) float64 {
	switch class {
	case "A":
		return 2.0
	case "B":
		return 1.5
	default:
		return 1.2
	}
}

// reorderPriority bands days of remaining stock coverage against the
// replenishment lead time: critical under 30 days, urgent under 60, high
// under 90, medium under the 135-day lead time.
func reorderPriority(daysOfCoverage float64) string {
	switch {
	case daysOfCoverage < 30:
		return "critical"
	case daysOfCoverage < 60:
		return "urgent"
	case daysOfCoverage < 90:
		return "high"
	default:
		return "medium"
	}
}
