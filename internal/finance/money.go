package finance

import (
	"errors"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits stored for every amount.
const MoneyScale = 2

// MaxMoney is the largest amount a NUMERIC(12,2) column holds.
var MaxMoney = decimal.RequireFromString("9999999999.99")

var (
	// ErrMoneyPrecision is returned for amounts with more than two decimal places.
	ErrMoneyPrecision = errors.New("amount must have at most 2 decimal places")
	// ErrMoneyRange is returned for amounts whose magnitude exceeds MaxMoney.
	ErrMoneyRange = errors.New("amount is too large")
)

// ValidateMoney checks that d is storable without rounding. Sign rules are
// left to the caller.
func ValidateMoney(d decimal.Decimal) error {
	if !d.Equal(d.Truncate(MoneyScale)) {
		return ErrMoneyPrecision
	}
	if d.Abs().GreaterThan(MaxMoney) {
		return ErrMoneyRange
	}
	return nil
}
