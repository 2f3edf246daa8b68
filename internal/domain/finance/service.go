// internal/domain/finance/service.go
package finance

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/erp-backend/internal/config"
	"github.com/your-org/erp-backend/internal/domain/expense"
	"github.com/your-org/erp-backend/internal/domain/product"
	"github.com/your-org/erp-backend/internal/domain/sale"
	"gorm.io/gorm"
)

// Service handles financial aggregation and reporting
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new finance service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// MonthlyRollup is one month's sales aggregate for dashboard views
type MonthlyRollup struct {
	Month    string          `json:"month"`
	Revenue  decimal.Decimal `json:"revenue"`
	Quantity int64           `json:"quantity"`
	Count    int64           `json:"sale_count"`
}

// Summarize computes the financial summary for an inclusive time window.
// An empty window yields an all-zero summary, not an error.
func (s *Service) Summarize(from, to time.Time) (*FinancialSummary, error) {
	var sales []sale.Sale
	if err := s.db.Where("status = ? AND sale_date BETWEEN ? AND ?", sale.StatusCompleted, from, to).
		Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}

	var lots []product.PurchaseLot
	if err := s.db.Where("purchase_date BETWEEN ? AND ?", from, to).
		Find(&lots).Error; err != nil {
		return nil, fmt.Errorf("failed to load purchase lots: %w", err)
	}

	var expenses []expense.Expense
	if err := s.db.Where("expense_date BETWEEN ? AND ?", from, to).
		Find(&expenses).Error; err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	summary := computeSummary(from, to, sales, lots, expenses)
	return &summary, nil
}

// SummarizePeriod computes the summary for a reporting period keyword
func (s *Service) SummarizePeriod(period string) (*FinancialSummary, error) {
	from, to, err := PeriodWindow(period, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return s.Summarize(from, to)
}

// GenerateIncomeStatement recomputes the snapshot for one calendar month
// and upserts it under its YYYY-MM key
func (s *Service) GenerateIncomeStatement(year int, month time.Month) (*IncomeStatement, error) {
	from, to := MonthWindow(year, month)

	summary, err := s.Summarize(from, to)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%04d-%02d", year, month)

	var statement IncomeStatement
	err = s.db.Where("month = ?", key).First(&statement).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		statement = IncomeStatement{Month: key, Year: year}
	case err != nil:
		return nil, fmt.Errorf("failed to look up income statement: %w", err)
	}

	statement.TotalRevenue = summary.Revenue
	statement.CostOfGoodsSold = summary.CostOfGoodsSold
	statement.GrossProfit = summary.GrossProfit
	statement.OperatingExpenses = summary.OperatingExpenses
	statement.NetProfit = summary.NetProfit

	if err := s.db.Save(&statement).Error; err != nil {
		return nil, fmt.Errorf("failed to save income statement: %w", err)
	}

	return &statement, nil
}

// GetIncomeStatement retrieves a stored snapshot by its YYYY-MM key
func (s *Service) GetIncomeStatement(month string) (*IncomeStatement, error) {
	var statement IncomeStatement
	if err := s.db.Where("month = ?", month).First(&statement).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("no income statement for %s", month)
		}
		return nil, fmt.Errorf("failed to retrieve income statement: %w", err)
	}
	return &statement, nil
}

// ListIncomeStatements returns all stored snapshots, newest month first
func (s *Service) ListIncomeStatements() ([]IncomeStatement, error) {
	var statements []IncomeStatement
	if err := s.db.Order("month DESC").Find(&statements).Error; err != nil {
		return nil, fmt.Errorf("failed to list income statements: %w", err)
	}
	return statements, nil
}

// TotalRevenue sums completed sale totals across all time
func (s *Service) TotalRevenue() (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := s.db.Raw("SELECT COALESCE(SUM(total_price), 0) FROM sales WHERE status = ? AND deleted_at IS NULL", sale.StatusCompleted).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return total.Decimal, nil
}

// TotalExpenses sums standalone expenses and purchase incidentals across
// all time
func (s *Service) TotalExpenses() (decimal.Decimal, error) {
	var standalone decimal.NullDecimal
	if err := s.db.Raw("SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE deleted_at IS NULL").
		Scan(&standalone).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum expenses: %w", err)
	}

	var incidentals decimal.NullDecimal
	if err := s.db.Raw("SELECT COALESCE(SUM(expenses), 0) FROM purchase_lots").
		Scan(&incidentals).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum purchase incidentals: %w", err)
	}

	return standalone.Decimal.Add(incidentals.Decimal), nil
}

// MonthlySales returns per-month sales aggregates across all completed
// sales, oldest month first
func (s *Service) MonthlySales() ([]MonthlyRollup, error) {
	rows, err := s.db.Raw(`
		SELECT
			TO_CHAR(sale_date, 'YYYY-MM') as month,
			COALESCE(SUM(total_price), 0) as revenue,
			COALESCE(SUM(quantity), 0) as quantity,
			COUNT(*) as sale_count
		FROM sales
		WHERE status = ? AND deleted_at IS NULL
		GROUP BY TO_CHAR(sale_date, 'YYYY-MM')
		ORDER BY month
	`, sale.StatusCompleted).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly sales: %w", err)
	}
	defer rows.Close()

	var rollups []MonthlyRollup
	for rows.Next() {
		var r MonthlyRollup
		if err := rows.Scan(&r.Month, &r.Revenue, &r.Quantity, &r.Count); err != nil {
			continue
		}
		rollups = append(rollups, r)
	}

	return rollups, nil
}

// MonthlyTrends returns per-month revenue and cost aggregates for one year
func (s *Service) MonthlyTrends(year int) ([]MonthlyRollup, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	rows, err := s.db.Raw(`
		SELECT
			TO_CHAR(sale_date, 'YYYY-MM') as month,
			COALESCE(SUM(total_price), 0) as revenue,
			COALESCE(SUM(quantity), 0) as quantity,
			COUNT(*) as sale_count
		FROM sales
		WHERE status = ? AND sale_date >= ? AND sale_date < ? AND deleted_at IS NULL
		GROUP BY TO_CHAR(sale_date, 'YYYY-MM')
		ORDER BY month
	`, sale.StatusCompleted, from, to).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly trends: %w", err)
	}
	defer rows.Close()

	var rollups []MonthlyRollup
	for rows.Next() {
		var r MonthlyRollup
		if err := rows.Scan(&r.Month, &r.Revenue, &r.Quantity, &r.Count); err != nil {
			continue
		}
		rollups = append(rollups, r)
	}

	return rollups, nil
}

// PartnerSummary bundles the current month's summary with the year to date
// for the partner dashboard
type PartnerSummary struct {
	CurrentMonth FinancialSummary `json:"current_month"`
	YearToDate   FinancialSummary `json:"year_to_date"`
}

// GetPartnerSummary computes the partner dashboard rollup
func (s *Service) GetPartnerSummary() (*PartnerSummary, error) {
	now := time.Now().UTC()

	monthFrom, monthTo := MonthWindow(now.Year(), now.Month())
	if monthTo.After(now) {
		monthTo = now
	}
	month, err := s.Summarize(monthFrom, monthTo)
	if err != nil {
		return nil, err
	}

	yearFrom := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	year, err := s.Summarize(yearFrom, now)
	if err != nil {
		return nil, err
	}

	return &PartnerSummary{
		CurrentMonth: *month,
		YearToDate:   *year,
	}, nil
}

// InventoryStatus is the partner's stock overview for one product
type InventoryStatus struct {
	ProductID    uint            `json:"product_id"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	StockValue   decimal.Decimal `json:"stock_value"`
}

// GetInventoryStatus values the remaining stock of every product at its
// current sale price
func (s *Service) GetInventoryStatus() ([]InventoryStatus, error) {
	var products []product.Product
	if err := s.db.Order("name ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	statuses := make([]InventoryStatus, 0, len(products))
	for _, p := range products {
		statuses = append(statuses, InventoryStatus{
			ProductID:    p.ID,
			Name:         p.Name,
			Quantity:     p.Quantity,
			CurrentPrice: p.CurrentPrice,
			StockValue:   p.CurrentPrice.Mul(decimal.NewFromInt(int64(p.Quantity))),
		})
	}
	return statuses, nil
}
