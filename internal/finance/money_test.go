package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateMoney(t *testing.T) {
	assert.NoError(t, ValidateMoney(dec("0")))
	assert.NoError(t, ValidateMoney(dec("0.01")))
	assert.NoError(t, ValidateMoney(dec("1.10")))
	assert.NoError(t, ValidateMoney(dec("1.100")), "trailing zeros are not extra precision")
	assert.NoError(t, ValidateMoney(dec("-12.5")))
	assert.NoError(t, ValidateMoney(MaxMoney))

	assert.ErrorIs(t, ValidateMoney(dec("0.001")), ErrMoneyPrecision)
	assert.ErrorIs(t, ValidateMoney(dec("0.004")), ErrMoneyPrecision)
	assert.ErrorIs(t, ValidateMoney(dec("10.125")), ErrMoneyPrecision)

	assert.ErrorIs(t, ValidateMoney(dec("10000000000")), ErrMoneyRange)
	assert.ErrorIs(t, ValidateMoney(dec("-10000000000")), ErrMoneyRange)
}

func TestValidateFunds_Precision(t *testing.T) {
	assert.ErrorIs(t, ValidateFunds(dec("0.001")), ErrMoneyPrecision)
	assert.ErrorIs(t, ValidateFunds(dec("10000000000")), ErrMoneyRange)
}
