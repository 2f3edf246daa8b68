// internal/domain/finance/summary.go
package finance

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/erp-backend/internal/domain/expense"
	"github.com/your-org/erp-backend/internal/domain/product"
	"github.com/your-org/erp-backend/internal/domain/sale"
)

// computeSummary derives the financial summary from already-loaded records.
// Cost of goods sold comes from the unit costs recorded on the sales at
// settlement time, not from the current state of the lots, so a period's
// numbers stay stable no matter what happens to inventory afterwards.
func computeSummary(from, to time.Time, sales []sale.Sale, lots []product.PurchaseLot, expenses []expense.Expense) FinancialSummary {
	summary := FinancialSummary{
		Revenue:           decimal.Zero,
		CostOfGoodsSold:   decimal.Zero,
		OperatingExpenses: decimal.Zero,
		From:              from,
		To:                to,
		ExpenseBreakdown: ExpenseBreakdown{
			PurchaseIncidentals:   decimal.Zero,
			StandaloneExpenses:    decimal.Zero,
			PurchaseUnitCostTotal: decimal.Zero,
		},
	}

	for _, s := range sales {
		summary.Revenue = summary.Revenue.Add(s.TotalPrice)
		summary.CostOfGoodsSold = summary.CostOfGoodsSold.Add(s.UnitCost.Mul(decimal.NewFromInt(int64(s.Quantity))))
		summary.SaleCount++
	}

	for _, lot := range lots {
		summary.ExpenseBreakdown.PurchaseIncidentals = summary.ExpenseBreakdown.PurchaseIncidentals.Add(lot.Expenses)
		summary.ExpenseBreakdown.PurchaseUnitCostTotal = summary.ExpenseBreakdown.PurchaseUnitCostTotal.Add(
			lot.UnitCost.Mul(decimal.NewFromInt(int64(lot.Quantity))))
	}

	for _, e := range expenses {
		summary.ExpenseBreakdown.StandaloneExpenses = summary.ExpenseBreakdown.StandaloneExpenses.Add(e.Amount)
	}

	summary.GrossProfit = summary.Revenue.Sub(summary.CostOfGoodsSold)
	summary.OperatingExpenses = summary.ExpenseBreakdown.PurchaseIncidentals.Add(summary.ExpenseBreakdown.StandaloneExpenses)
	summary.NetProfit = summary.GrossProfit.Sub(summary.OperatingExpenses)

	return summary
}

// PeriodWindow translates a reporting period keyword into an inclusive
// [from, to] window ending at now
func PeriodWindow(period string, now time.Time) (time.Time, time.Time, error) {
	switch period {
	case "daily":
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return start, now, nil
	case "weekly":
		return now.AddDate(0, 0, -7), now, nil
	case "monthly", "":
		return now.AddDate(0, -1, 0), now, nil
	case "yearly":
		return now.AddDate(-1, 0, 0), now, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown reporting period: %s", period)
	}
}

// MonthWindow returns the inclusive window covering one calendar month
func MonthWindow(year int, month time.Month) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return from, to
}
