// internal/domain/inventory/ledger_test.go
package inventory

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/erp-backend/internal/domain/product"
)

func lot(id uint, date time.Time, remaining int, unitCost string) *product.PurchaseLot {
	return &product.PurchaseLot{
		ID:           id,
		PurchaseDate: date,
		Quantity:     remaining,
		UnitCost:     decimal.RequireFromString(unitCost),
		Remaining:    remaining,
	}
}

func TestConsumeSingleLotExactDepletion(t *testing.T) {
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	lots := []*product.PurchaseLot{
		lot(1, date, 10, "5.00"),
	}

	consumption, err := Consume(lots, 10)
	require.NoError(t, err)

	assert.Equal(t, 10, consumption.Quantity)
	assert.True(t, consumption.TotalCost.Equal(decimal.RequireFromString("50.00")),
		"expected 50.00, got %s", consumption.TotalCost)
	assert.Equal(t, 0, lots[0].Remaining)
	require.Len(t, consumption.Draws, 1)
	assert.Equal(t, 10, consumption.Draws[0].Quantity)
}

func TestConsumeSpansLotsOldestFirst(t *testing.T) {
	older := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)

	// Deliberately out of date order in the slice
	lots := []*product.PurchaseLot{
		lot(2, newer, 8, "6.00"),
		lot(1, older, 3, "4.00"),
	}

	consumption, err := Consume(lots, 5)
	require.NoError(t, err)

	// 3 units at 4.00 from the older lot, then 2 at 6.00
	assert.True(t, consumption.TotalCost.Equal(decimal.RequireFromString("24.00")),
		"expected 24.00, got %s", consumption.TotalCost)

	require.Len(t, consumption.Draws, 2)
	assert.Equal(t, uint(1), consumption.Draws[0].Lot.ID)
	assert.Equal(t, 3, consumption.Draws[0].Quantity)
	assert.Equal(t, uint(2), consumption.Draws[1].Lot.ID)
	assert.Equal(t, 2, consumption.Draws[1].Quantity)

	assert.Equal(t, 0, lots[1].Remaining)
	assert.Equal(t, 6, lots[0].Remaining)
}

func TestConsumeEqualDatesKeepInsertionOrder(t *testing.T) {
	date := time.Date(2026, 4, 5, 12, 0, 0, 0, time.UTC)
	first := lot(7, date, 2, "1.00")
	second := lot(8, date, 2, "2.00")

	consumption, err := Consume([]*product.PurchaseLot{first, second}, 3)
	require.NoError(t, err)

	require.Len(t, consumption.Draws, 2)
	assert.Equal(t, uint(7), consumption.Draws[0].Lot.ID)
	assert.Equal(t, 2, consumption.Draws[0].Quantity)
	assert.Equal(t, uint(8), consumption.Draws[1].Lot.ID)
	assert.Equal(t, 1, consumption.Draws[1].Quantity)
}

func TestConsumeInsufficientLeavesLotsUntouched(t *testing.T) {
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	lots := []*product.PurchaseLot{
		lot(1, date, 2, "5.00"),
		lot(2, date.AddDate(0, 0, 1), 2, "5.50"),
	}

	_, err := Consume(lots, 5)
	require.Error(t, err)

	var insufficient *InsufficientInventoryError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 5, insufficient.Requested)
	assert.Equal(t, 4, insufficient.Available)

	assert.Equal(t, 2, lots[0].Remaining)
	assert.Equal(t, 2, lots[1].Remaining)
}

func TestConsumeRejectsNonPositiveQuantity(t *testing.T) {
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	lots := []*product.PurchaseLot{
		lot(1, date, 10, "5.00"),
	}

	_, err := Consume(lots, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = Consume(lots, -3)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	assert.Equal(t, 10, lots[0].Remaining)
}

func TestConsumeSkipsDepletedLots(t *testing.T) {
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	depleted := lot(1, older, 5, "3.00")
	depleted.Remaining = 0
	lots := []*product.PurchaseLot{
		depleted,
		lot(2, newer, 4, "7.00"),
	}

	consumption, err := Consume(lots, 4)
	require.NoError(t, err)

	require.Len(t, consumption.Draws, 1)
	assert.Equal(t, uint(2), consumption.Draws[0].Lot.ID)
	assert.True(t, consumption.TotalCost.Equal(decimal.RequireFromString("28.00")))
}

func TestConsumeZeroCostLots(t *testing.T) {
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	lots := []*product.PurchaseLot{
		lot(1, date, 5, "0"),
	}

	consumption, err := Consume(lots, 5)
	require.NoError(t, err)
	assert.True(t, consumption.TotalCost.IsZero())
	assert.True(t, consumption.UnitCost().IsZero())
}

func TestConsumeConservation(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	lots := []*product.PurchaseLot{
		lot(1, base, 7, "2.25"),
		lot(2, base.AddDate(0, 0, 3), 5, "2.75"),
		lot(3, base.AddDate(0, 0, 9), 11, "3.10"),
	}
	before := TotalRemaining(lots)

	consumption, err := Consume(lots, 13)
	require.NoError(t, err)

	drawn := 0
	for _, draw := range consumption.Draws {
		drawn += draw.Quantity
	}
	assert.Equal(t, 13, drawn)
	assert.Equal(t, before-13, TotalRemaining(lots))
}

func TestConsumeUnitCostIsAverage(t *testing.T) {
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	lots := []*product.PurchaseLot{
		lot(1, base, 2, "3.00"),
		lot(2, base.AddDate(0, 0, 1), 2, "5.00"),
	}

	consumption, err := Consume(lots, 4)
	require.NoError(t, err)

	// (2*3.00 + 2*5.00) / 4 = 4.00
	assert.True(t, consumption.UnitCost().Equal(decimal.RequireFromString("4.00")),
		"expected 4.00, got %s", consumption.UnitCost())
}

func TestTotalRemainingIgnoresNegative(t *testing.T) {
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	bad := lot(1, date, 5, "1.00")
	bad.Remaining = -2

	lots := []*product.PurchaseLot{
		bad,
		lot(2, date, 3, "1.00"),
	}
	assert.Equal(t, 3, TotalRemaining(lots))
}
