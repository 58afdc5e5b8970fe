package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestComputeBudgetStatus(t *testing.T) {
	tests := []struct {
		name          string
		amount, spent string
		wantRemaining string
		wantPct       float64
	}{
		{name: "no_spending", amount: "100", spent: "0", wantRemaining: "100", wantPct: 0},
		{name: "partial", amount: "200", spent: "50", wantRemaining: "150", wantPct: 25},
		{name: "exactly_at_limit", amount: "100", spent: "100", wantRemaining: "0", wantPct: 100},
		{name: "overspent", amount: "100", spent: "150", wantRemaining: "-50", wantPct: 150},
		{name: "zero_ceiling", amount: "0", spent: "75.25", wantRemaining: "-75.25", wantPct: 0},
		{name: "fractional", amount: "300", spent: "100", wantRemaining: "200", wantPct: 33.33},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status := ComputeBudgetStatus(dec(tc.amount), dec(tc.spent))
			assert.True(t, status.SpentAmount.Equal(dec(tc.spent)))
			assert.True(t, status.RemainingAmount.Equal(dec(tc.wantRemaining)),
				"remaining = %s, want %s", status.RemainingAmount, tc.wantRemaining)
			assert.InDelta(t, tc.wantPct, status.PercentageUsed, 0.001)
		})
	}
}

func TestReachedThresholds(t *testing.T) {
	thresholds := []float64{80, 100}

	assert.Empty(t, ReachedThresholds(dec("100"), dec("79.99"), thresholds))
	assert.Equal(t, []float64{80}, ReachedThresholds(dec("100"), dec("80"), thresholds))
	assert.Equal(t, []float64{80, 100}, ReachedThresholds(dec("100"), dec("100"), thresholds))
	assert.Equal(t, []float64{80, 100}, ReachedThresholds(dec("100"), dec("150"), thresholds))
	assert.Empty(t, ReachedThresholds(dec("0"), dec("500"), thresholds), "zero ceiling never crosses")
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(3, 2024)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), end)

	start, end = MonthRange(12, 2024)
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), end)
}
