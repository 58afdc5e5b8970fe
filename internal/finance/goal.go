package finance

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNonPositiveAmount is returned when funds to add are zero or negative.
var ErrNonPositiveAmount = errors.New("amount must be positive")

// ProgressPercentage returns current/target*100, or 0 when target is zero.
func ProgressPercentage(current, target decimal.Decimal) float64 {
	return percentage(current, target)
}

// GoalReached reports whether current has met the target.
func GoalReached(current, target decimal.Decimal) bool {
	return current.GreaterThanOrEqual(target)
}

// ValidateFunds checks an add-funds amount.
func ValidateFunds(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	return ValidateMoney(amount)
}
