package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressPercentage(t *testing.T) {
	assert.Equal(t, float64(0), ProgressPercentage(dec("50"), dec("0")), "zero target is 0%")
	assert.Equal(t, float64(0), ProgressPercentage(dec("0"), dec("1000")))
	assert.Equal(t, float64(50), ProgressPercentage(dec("500"), dec("1000")))
	assert.Equal(t, float64(120), ProgressPercentage(dec("1200"), dec("1000")))
}

func TestGoalReached(t *testing.T) {
	assert.False(t, GoalReached(dec("999.99"), dec("1000")))
	assert.True(t, GoalReached(dec("1000"), dec("1000")))
	assert.True(t, GoalReached(dec("1000.01"), dec("1000")))
}

func TestValidateFunds(t *testing.T) {
	assert.NoError(t, ValidateFunds(dec("0.01")))
	assert.ErrorIs(t, ValidateFunds(dec("0")), ErrNonPositiveAmount)
	assert.ErrorIs(t, ValidateFunds(dec("-5")), ErrNonPositiveAmount)
}
