// internal/domain/sale/entity_test.go
package sale

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGrossProfit(t *testing.T) {
	s := Sale{
		TotalPrice: decimal.RequireFromString("150.00"),
		CostTotal:  decimal.RequireFromString("80.00"),
	}
	assert.True(t, s.GrossProfit().Equal(decimal.RequireFromString("70.00")))
}

func TestGrossProfitCanBeNegative(t *testing.T) {
	s := Sale{
		TotalPrice: decimal.RequireFromString("50.00"),
		CostTotal:  decimal.RequireFromString("65.00"),
	}
	assert.True(t, s.GrossProfit().IsNegative())
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, IsValidStatus(StatusProcessing))
	assert.True(t, IsValidStatus(StatusCompleted))
	assert.True(t, IsValidStatus(StatusCancelled))
	assert.True(t, IsValidStatus(StatusRefunded))

	// Pending is only an initial state, never an administrative target
	assert.False(t, IsValidStatus(StatusPending))
	assert.False(t, IsValidStatus(SaleStatus("shipped")))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusProcessing))
	assert.True(t, CanTransition(StatusPending, StatusCompleted))
	assert.True(t, CanTransition(StatusProcessing, StatusRefunded))
	assert.True(t, CanTransition(StatusCompleted, StatusCancelled))
	assert.True(t, CanTransition(StatusCompleted, StatusRefunded))

	// Cancelled and refunded are terminal
	assert.False(t, CanTransition(StatusCancelled, StatusCompleted))
	assert.False(t, CanTransition(StatusCancelled, StatusProcessing))
	assert.False(t, CanTransition(StatusRefunded, StatusCompleted))

	// No state moves back to pending and nothing moves to itself
	assert.False(t, CanTransition(StatusProcessing, StatusPending))
	assert.False(t, CanTransition(StatusCompleted, StatusCompleted))
}
