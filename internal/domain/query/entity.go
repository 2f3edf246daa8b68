// internal/domain/query/entity.go
package query

import (
	"time"

	"gorm.io/gorm"
)

// QueryStatus represents the lifecycle of a customer query
type QueryStatus string

const (
	StatusPending  QueryStatus = "pending"
	StatusComplete QueryStatus = "complete"
)

// ResponseType records how a reply was produced
type ResponseType string

const (
	ResponseAuto   ResponseType = "auto"
	ResponseManual ResponseType = "manual"
)

// CustomerQuery is a message from a client, optionally answered
// automatically or by staff
type CustomerQuery struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CustomerName  string         `gorm:"not null;size:255" json:"customer_name"`
	CustomerEmail string         `gorm:"not null;size:255;index" json:"customer_email"`
	Message       string         `gorm:"type:text;not null" json:"message"`
	Reply         string         `gorm:"type:text" json:"reply,omitempty"`
	Status        QueryStatus    `gorm:"not null;default:'pending';index" json:"status"`
	ResponseType  ResponseType   `gorm:"size:20" json:"response_type,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides
func (CustomerQuery) TableName() string { return "customer_queries" }
