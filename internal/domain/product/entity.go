// internal/domain/product/entity.go
package product

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a referenced product does not exist
var ErrNotFound = errors.New("product not found")

// ErrConcurrentModification is returned when the product row was changed by
// a competing stock write between read and update
var ErrConcurrentModification = errors.New("product was modified concurrently")

// Product represents a catalog item. Quantity is a denormalized cache of
// the undepleted purchase lot remainders; the lots are the source of truth.
// Version is the optimistic concurrency token bumped on every stock write.
type Product struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"not null;size:255;index" json:"name"`
	Description  string          `gorm:"type:text" json:"description"`
	CurrentPrice decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"current_price"`
	Quantity     int             `gorm:"not null;default:0" json:"quantity"`
	Version      int             `gorm:"not null;default:0" json:"-"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Lots []PurchaseLot `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"purchase_history,omitempty"`
}

// PurchaseLot is one receipt of stock. Lots are append-only: after creation
// only Remaining changes, and it only ever decreases.
type PurchaseLot struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	ProductID    uint            `gorm:"not null;index" json:"product_id"`
	PurchaseDate time.Time       `gorm:"not null;index" json:"purchase_date"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	UnitCost     decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"unit_cost"`
	Expenses     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"expenses"`
	Supplier     string          `gorm:"size:255" json:"supplier"`
	Remaining    int             `gorm:"not null" json:"remaining_quantity"`
	CreatedAt    time.Time       `json:"created_at"`
}

// TableName overrides
func (Product) TableName() string     { return "products" }
func (PurchaseLot) TableName() string { return "purchase_lots" }

// Business methods for Product
func (p *Product) IsInStock() bool {
	return p.Quantity > 0
}

// TotalLotRemaining sums the loaded lots' remainders
func (p *Product) TotalLotRemaining() int {
	total := 0
	for _, lot := range p.Lots {
		if lot.Remaining > 0 {
			total += lot.Remaining
		}
	}
	return total
}

// IsDepleted reports whether a lot has been fully consumed
func (l *PurchaseLot) IsDepleted() bool {
	return l.Remaining <= 0
}

// TotalCost returns the acquisition cost of the whole lot including
// incidental purchase expenses
func (l *PurchaseLot) TotalCost() decimal.Decimal {
	return l.UnitCost.Mul(decimal.NewFromInt(int64(l.Quantity))).Add(l.Expenses)
}
