// internal/domain/finance/entity.go
package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// IncomeStatement is a month-keyed snapshot of the financial summary.
// It is rebuilt on explicit generation; live summaries never read it.
type IncomeStatement struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	Month             string          `gorm:"not null;size:7;uniqueIndex" json:"month"` // YYYY-MM
	Year              int             `gorm:"not null;index" json:"year"`
	TotalRevenue      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_revenue"`
	CostOfGoodsSold   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"cost_of_goods_sold"`
	GrossProfit       decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"gross_profit"`
	OperatingExpenses decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"operating_expenses"`
	NetProfit         decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"net_profit"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// TableName overrides
func (IncomeStatement) TableName() string { return "income_statements" }

// ExpenseBreakdown itemizes where the operating expenses came from
type ExpenseBreakdown struct {
	PurchaseIncidentals   decimal.Decimal `json:"purchase_incidentals"`
	StandaloneExpenses    decimal.Decimal `json:"standalone_expenses"`
	PurchaseUnitCostTotal decimal.Decimal `json:"purchase_unit_cost_total"`
}

// FinancialSummary is the derived view over a reporting window
type FinancialSummary struct {
	Revenue           decimal.Decimal  `json:"revenue"`
	CostOfGoodsSold   decimal.Decimal  `json:"cost_of_goods_sold"`
	GrossProfit       decimal.Decimal  `json:"gross_profit"`
	OperatingExpenses decimal.Decimal  `json:"operating_expenses"`
	NetProfit         decimal.Decimal  `json:"net_profit"`
	SaleCount         int              `json:"sale_count"`
	ExpenseBreakdown  ExpenseBreakdown `json:"expense_breakdown"`
	From              time.Time        `json:"from"`
	To                time.Time        `json:"to"`
}
