// internal/domain/expense/service.go
package expense

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/erp-backend/internal/config"
	"gorm.io/gorm"
)

// Service handles expense business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new expense service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateRequest represents expense creation data
type CreateRequest struct {
	Category    string          `json:"category" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	ExpenseDate *time.Time      `json:"expense_date"`
	Description string          `json:"description"`
}

// ListRequest represents expense list query parameters
type ListRequest struct {
	Page     int    `form:"page,default=1"`
	Limit    int    `form:"limit,default=20"`
	Category string `form:"category"`
}

// Create records a new operating expense
func (s *Service) Create(req *CreateRequest) (*Expense, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("expense amount must be greater than zero")
	}

	expenseDate := time.Now().UTC()
	if req.ExpenseDate != nil {
		expenseDate = *req.ExpenseDate
	}

	expense := Expense{
		Category:    req.Category,
		Amount:      req.Amount,
		ExpenseDate: expenseDate,
		Description: req.Description,
	}

	if err := s.db.Create(&expense).Error; err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	return &expense, nil
}

// List retrieves expenses, newest first
func (s *Service) List(req *ListRequest) ([]Expense, int64, error) {
	var expenses []Expense
	var total int64

	query := s.db.Model(&Expense{})
	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order("expense_date DESC, id DESC").
		Offset(offset).Limit(req.Limit).
		Find(&expenses).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve expenses: %w", err)
	}

	return expenses, total, nil
}

// Delete removes an expense record
func (s *Service) Delete(id uint) error {
	result := s.db.Where("id = ?", id).Delete(&Expense{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete expense: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("expense not found")
	}
	return nil
}
