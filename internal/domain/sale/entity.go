// internal/domain/sale/entity.go
package sale

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleStatus represents the lifecycle state of a sale
type SaleStatus string

const (
	StatusPending    SaleStatus = "pending"
	StatusProcessing SaleStatus = "processing"
	StatusCompleted  SaleStatus = "completed"
	StatusCancelled  SaleStatus = "cancelled"
	StatusRefunded   SaleStatus = "refunded"
)

// Sale is the permanent record of one settled sale. The financial fields
// are snapshots taken at settlement time and never change afterwards; only
// Status and RejectionReason move on later administrative updates.
type Sale struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	ProductID       uint            `gorm:"not null;index" json:"product_id"`
	ProductName     string          `gorm:"not null;size:255" json:"product_name"`
	UserID          *uint           `gorm:"index" json:"user_id,omitempty"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"unit_price"`
	UnitCost        decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"unit_cost"`
	CostTotal       decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"cost_total"`
	TotalPrice      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_price"`
	CustomerName    string          `gorm:"size:255" json:"customer_name"`
	CustomerEmail   string          `gorm:"size:255;index" json:"customer_email"`
	Status          SaleStatus      `gorm:"not null;default:'completed';index" json:"status"`
	RejectionReason string          `gorm:"size:500" json:"rejection_reason,omitempty"`
	SaleDate        time.Time       `gorm:"not null;index" json:"sale_date"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName overrides
func (Sale) TableName() string { return "sales" }

// GrossProfit returns revenue minus acquisition cost for this sale
func (s *Sale) GrossProfit() decimal.Decimal {
	return s.TotalPrice.Sub(s.CostTotal)
}

// validStatusTransitions lists the administrative states a settled sale may
// move into
var validStatusTransitions = map[SaleStatus]bool{
	StatusProcessing: true,
	StatusCompleted:  true,
	StatusCancelled:  true,
	StatusRefunded:   true,
}

// IsValidStatus reports whether s is an acceptable administrative status
func IsValidStatus(s SaleStatus) bool {
	return validStatusTransitions[s]
}

// statusTransitions maps each state to the states it may move into.
// Cancelled and refunded are terminal.
var statusTransitions = map[SaleStatus][]SaleStatus{
	StatusPending:    {StatusProcessing, StatusCompleted, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusCancelled, StatusRefunded},
	StatusCompleted:  {StatusCancelled, StatusRefunded},
}

// CanTransition reports whether a sale in state from may move to state to
func CanTransition(from, to SaleStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
