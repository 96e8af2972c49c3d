// Package closing implements the monthly CapEx close calculation engine:
// accruals, working-interest net-down adjustments, future outlook, and
// schedule-based month allocation. Every calculator is a pure function over
// an in-memory well record snapshot.
package closing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FormatDollar renders a money amount in compact report form: $14.3M,
// $127.0K, $500. Negative amounts prefix the minus before the dollar sign;
// zero renders as $0.
func FormatDollar(amount float64) string {
	if amount == 0 {
		return "$0"
	}
	prefix := ""
	if amount < 0 {
		prefix = "-"
		amount = -amount
	}
	switch {
	case amount >= 1_000_000:
		return fmt.Sprintf("%s$%.1fM", prefix, amount/1_000_000)
	case amount >= 1_000:
		return fmt.Sprintf("%s$%.1fK", prefix, amount/1_000)
	default:
		return fmt.Sprintf("%s$%.0f", prefix, amount)
	}
}

// round2 rounds a dollar amount to whole cents. Allocation math divides
// dollars by day counts, so the quotients need decimal rounding rather than
// binary-float truncation.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
