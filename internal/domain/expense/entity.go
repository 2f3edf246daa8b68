// internal/domain/expense/entity.go
package expense

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense is a standalone operating expense, unrelated to any purchase lot
type Expense struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Category    string          `gorm:"not null;size:100;index" json:"category"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	ExpenseDate time.Time       `gorm:"not null;index" json:"expense_date"`
	Description string          `gorm:"size:500" json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName overrides
func (Expense) TableName() string { return "expenses" }
