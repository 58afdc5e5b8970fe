// Package finance holds the pure computations behind budgets, savings goals
// and reminders. Every function works on immutable inputs and never touches
// storage, so derived values can be recomputed on each read.
package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// BudgetStatus is the derived, never-persisted view of a budget period.
type BudgetStatus struct {
	SpentAmount     decimal.Decimal `json:"spent_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	PercentageUsed  float64         `json:"percentage_used"`
}

// ComputeBudgetStatus derives spent/remaining/percentage for a ceiling and
// the amount spent against it. Remaining may be negative and the percentage
// is not capped; both signal overspend. A zero ceiling yields 0%.
func ComputeBudgetStatus(amount, spent decimal.Decimal) BudgetStatus {
	return BudgetStatus{
		SpentAmount:     spent,
		RemainingAmount: amount.Sub(spent),
		PercentageUsed:  percentage(spent, amount),
	}
}

// ReachedThresholds returns the thresholds (percentages) that spent has
// reached or exceeded relative to amount, in input order. The comparison is
// exact: spent*100 >= threshold*amount. A zero ceiling reaches nothing.
func ReachedThresholds(amount, spent decimal.Decimal, thresholds []float64) []float64 {
	if !amount.IsPositive() {
		return nil
	}
	scaled := spent.Mul(hundred)
	var reached []float64
	for _, t := range thresholds {
		if scaled.GreaterThanOrEqual(amount.Mul(decimal.NewFromFloat(t))) {
			reached = append(reached, t)
		}
	}
	return reached
}

// MonthRange returns the half-open UTC interval [start, end) covering the
// given calendar month.
func MonthRange(month, year int) (start, end time.Time) {
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// percentage returns part/whole*100 rounded to two places, or 0 when whole
// is zero.
func percentage(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	return part.Div(whole).Mul(hundred).Round(2).InexactFloat64()
}
