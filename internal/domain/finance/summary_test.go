// internal/domain/finance/summary_test.go
package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/erp-backend/internal/domain/expense"
	"github.com/your-org/erp-backend/internal/domain/product"
	"github.com/your-org/erp-backend/internal/domain/sale"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeSummary(t *testing.T) {
	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 30, 23, 59, 59, 0, time.UTC)

	sales := []sale.Sale{
		{Quantity: 10, UnitCost: dec("5.00"), TotalPrice: dec("100.00")},
		{Quantity: 5, UnitCost: dec("6.00"), TotalPrice: dec("50.00")},
	}
	lots := []product.PurchaseLot{
		{Quantity: 20, UnitCost: dec("4.00"), Expenses: dec("7.50")},
	}
	expenses := []expense.Expense{
		{Amount: dec("2.50")},
	}

	summary := computeSummary(from, to, sales, lots, expenses)

	assert.True(t, summary.Revenue.Equal(dec("150.00")), "revenue %s", summary.Revenue)
	assert.True(t, summary.CostOfGoodsSold.Equal(dec("80.00")), "cogs %s", summary.CostOfGoodsSold)
	assert.True(t, summary.GrossProfit.Equal(dec("70.00")), "gross %s", summary.GrossProfit)
	assert.True(t, summary.OperatingExpenses.Equal(dec("10.00")), "opex %s", summary.OperatingExpenses)
	assert.True(t, summary.NetProfit.Equal(dec("60.00")), "net %s", summary.NetProfit)
	assert.Equal(t, 2, summary.SaleCount)

	assert.True(t, summary.ExpenseBreakdown.PurchaseIncidentals.Equal(dec("7.50")))
	assert.True(t, summary.ExpenseBreakdown.StandaloneExpenses.Equal(dec("2.50")))
	assert.True(t, summary.ExpenseBreakdown.PurchaseUnitCostTotal.Equal(dec("80.00")))

	assert.Equal(t, from, summary.From)
	assert.Equal(t, to, summary.To)
}

func TestComputeSummaryIsDeterministic(t *testing.T) {
	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	sales := []sale.Sale{
		{Quantity: 3, UnitCost: dec("2.3333"), TotalPrice: dec("30.00")},
	}

	first := computeSummary(from, to, sales, nil, nil)
	second := computeSummary(from, to, sales, nil, nil)

	assert.True(t, first.Revenue.Equal(second.Revenue))
	assert.True(t, first.NetProfit.Equal(second.NetProfit))
}

func TestComputeSummaryEmptyWindow(t *testing.T) {
	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	summary := computeSummary(from, to, nil, nil, nil)

	assert.True(t, summary.Revenue.IsZero())
	assert.True(t, summary.CostOfGoodsSold.IsZero())
	assert.True(t, summary.GrossProfit.IsZero())
	assert.True(t, summary.OperatingExpenses.IsZero())
	assert.True(t, summary.NetProfit.IsZero())
	assert.Equal(t, 0, summary.SaleCount)
}

func TestComputeSummaryNetCanBeNegative(t *testing.T) {
	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	sales := []sale.Sale{
		{Quantity: 1, UnitCost: dec("8.00"), TotalPrice: dec("10.00")},
	}
	expenses := []expense.Expense{
		{Amount: dec("5.00")},
	}

	summary := computeSummary(from, to, sales, nil, expenses)
	assert.True(t, summary.NetProfit.Equal(dec("-3.00")), "net %s", summary.NetProfit)
}

func TestPeriodWindow(t *testing.T) {
	now := time.Date(2026, 6, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		period string
		from   time.Time
	}{
		{"daily", time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"weekly", now.AddDate(0, 0, -7)},
		{"monthly", now.AddDate(0, -1, 0)},
		{"", now.AddDate(0, -1, 0)},
		{"yearly", now.AddDate(-1, 0, 0)},
	}

	for _, tt := range tests {
		from, to, err := PeriodWindow(tt.period, now)
		require.NoError(t, err, "period %q", tt.period)
		assert.Equal(t, tt.from, from, "period %q", tt.period)
		assert.Equal(t, now, to, "period %q", tt.period)
	}
}

func TestPeriodWindowRejectsUnknown(t *testing.T) {
	_, _, err := PeriodWindow("quarterly", time.Now())
	assert.Error(t, err)
}

func TestMonthWindow(t *testing.T) {
	from, to := MonthWindow(2026, time.February)

	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), from)
	assert.True(t, to.Before(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, to.After(time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC)))
}
