// internal/domain/sale/service.go
package sale

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/erp-backend/internal/config"
	"github.com/your-org/erp-backend/internal/domain/inventory"
	"github.com/your-org/erp-backend/internal/domain/product"
	"gorm.io/gorm"
)

// Service handles sale settlement and administration
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new sale service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// SettleRequest represents a sale to be settled against inventory
type SettleRequest struct {
	ProductID     uint   `json:"product_id" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	UserID        *uint  `json:"-"`
}

// SaleListRequest represents sale list query parameters
type SaleListRequest struct {
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=20"`
	Status    string `form:"status"`
	ProductID uint   `form:"product_id"`
}

// SaleListResponse represents sales with pagination
type SaleListResponse struct {
	Sales      []Sale             `json:"sales"`
	Pagination product.Pagination `json:"pagination"`
}

// Settle performs the whole sale as one atomic unit: FIFO consumption of
// purchase lots, the sale record with its price and cost snapshots, and the
// product stock update, all inside a single transaction. A concurrent
// modification of the product row aborts the transaction and the unit is
// retried from scratch up to the configured attempt count.
func (s *Service) Settle(req *SettleRequest) (*Sale, error) {
	if req.Quantity <= 0 {
		return nil, inventory.ErrInvalidQuantity
	}

	var lastErr error
	for attempt := 1; attempt <= s.config.Settlement.MaxAttempts; attempt++ {
		sale, err := s.settleOnce(req)
		if err == nil {
			return sale, nil
		}
		if !errors.Is(err, inventory.ErrConcurrentModification) {
			return nil, err
		}

		lastErr = err
		logrus.WithFields(logrus.Fields{
			"product_id": req.ProductID,
			"attempt":    attempt,
		}).Warn("Sale settlement hit concurrent product modification, retrying")
	}

	return nil, lastErr
}

func (s *Service) settleOnce(req *SettleRequest) (*Sale, error) {
	var prod product.Product
	if err := s.db.Where("id = ?", req.ProductID).First(&prod).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	// Fast rejection on the cached counter before opening a transaction
	if prod.Quantity < req.Quantity {
		return nil, &inventory.InsufficientStockError{
			Requested: req.Quantity,
			Available: prod.Quantity,
		}
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var lots []*product.PurchaseLot
	if err := tx.Where("product_id = ? AND remaining > 0", prod.ID).
		Order("purchase_date ASC, id ASC").
		Find(&lots).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to load purchase lots: %w", err)
	}

	consumption, err := inventory.Consume(lots, req.Quantity)
	if err != nil {
		tx.Rollback()
		var insufficient *inventory.InsufficientInventoryError
		if errors.As(err, &insufficient) {
			// The counter said yes but the lots say no. The sale is
			// rejected and the mismatch is worth an operator's attention.
			logrus.WithFields(logrus.Fields{
				"product_id":       prod.ID,
				"counter_quantity": prod.Quantity,
				"lot_quantity":     insufficient.Available,
				"requested":        insufficient.Requested,
			}).Error("Product stock counter disagrees with purchase lots")
		}
		return nil, err
	}

	now := time.Now().UTC()
	newSale := Sale{
		ProductID:     prod.ID,
		ProductName:   prod.Name,
		UserID:        req.UserID,
		Quantity:      req.Quantity,
		UnitPrice:     prod.CurrentPrice,
		UnitCost:      consumption.UnitCost(),
		CostTotal:     consumption.TotalCost,
		TotalPrice:    prod.CurrentPrice.Mul(decimal.NewFromInt(int64(req.Quantity))),
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Status:        StatusCompleted,
		SaleDate:      now,
	}
	if err := tx.Create(&newSale).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create sale record: %w", err)
	}

	for _, draw := range consumption.Draws {
		if err := tx.Model(&product.PurchaseLot{}).
			Where("id = ?", draw.Lot.ID).
			Update("remaining", draw.Lot.Remaining).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to persist lot consumption: %w", err)
		}
	}

	// Compare-and-swap on the version column. Zero rows means another
	// settlement or purchase got there first.
	result := tx.Model(&product.Product{}).
		Where("id = ? AND version = ?", prod.ID, prod.Version).
		Updates(map[string]interface{}{
			"quantity": inventory.TotalRemaining(lots),
			"version":  prod.Version + 1,
		})
	if result.Error != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update product stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, inventory.ErrConcurrentModification
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit settlement: %w", err)
	}

	return &newSale, nil
}

// GetSales retrieves sales with filtering and pagination, newest first
func (s *Service) GetSales(req *SaleListRequest) (*SaleListResponse, error) {
	var sales []Sale
	var total int64

	query := s.db.Model(&Sale{})

	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.ProductID > 0 {
		query = query.Where("product_id = ?", req.ProductID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count sales: %w", err)
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order("sale_date DESC, id DESC").
		Offset(offset).Limit(req.Limit).
		Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve sales: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &SaleListResponse{
		Sales: sales,
		Pagination: product.Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// ListByCustomer retrieves the sales belonging to one customer, newest
// first. Orders placed before the customer registered are matched on the
// email they gave at the time.
func (s *Service) ListByCustomer(userID uint, email string) ([]Sale, error) {
	var sales []Sale
	query := s.db.Model(&Sale{})
	if email != "" {
		query = query.Where("user_id = ? OR customer_email = ?", userID, email)
	} else {
		query = query.Where("user_id = ?", userID)
	}

	if err := query.Order("sale_date DESC, id DESC").Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve customer sales: %w", err)
	}
	return sales, nil
}

// GetSale retrieves a single sale by ID
func (s *Service) GetSale(id uint) (*Sale, error) {
	var sale Sale
	if err := s.db.Where("id = ?", id).First(&sale).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("sale not found")
		}
		return nil, fmt.Errorf("failed to retrieve sale: %w", err)
	}
	return &sale, nil
}

// UpdateStatus performs an administrative status transition. It never
// touches inventory or the sale's financial snapshots. Cancelled and
// refunded are terminal states.
func (s *Service) UpdateStatus(id uint, status SaleStatus, reason string) (*Sale, error) {
	if !IsValidStatus(status) {
		return nil, fmt.Errorf("invalid sale status: %s", status)
	}

	var sale Sale
	if err := s.db.Where("id = ?", id).First(&sale).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("sale not found")
		}
		return nil, fmt.Errorf("failed to find sale: %w", err)
	}

	if !CanTransition(sale.Status, status) {
		return nil, fmt.Errorf("cannot move sale from %s to %s", sale.Status, status)
	}

	updates := map[string]interface{}{
		"status": status,
	}
	if (status == StatusCancelled || status == StatusRefunded) && reason != "" {
		updates["rejection_reason"] = reason
	}

	if err := s.db.Model(&sale).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update sale status: %w", err)
	}

	s.db.First(&sale, sale.ID)
	return &sale, nil
}

// RecentSales returns the latest completed sales for dashboard views
func (s *Service) RecentSales(limit int) ([]Sale, error) {
	if limit <= 0 {
		limit = 10
	}

	var sales []Sale
	if err := s.db.Where("status = ?", StatusCompleted).
		Order("sale_date DESC").
		Limit(limit).
		Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve recent sales: %w", err)
	}
	return sales, nil
}
