// internal/domain/product/service.go
package product

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/erp-backend/internal/config"
	"gorm.io/gorm"
)

// Service handles product business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Page        int    `form:"page,default=1"`
	Limit       int    `form:"limit,default=20"`
	Search      string `form:"search"`
	InStockOnly bool   `form:"in_stock_only"`
	SortBy      string `form:"sort_by,default=created_at"`
	SortOrder   string `form:"sort_order,default=desc"`
}

// PurchaseRequest represents a stock purchase intake. When no product with
// the given name exists one is created; otherwise a lot is appended.
type PurchaseRequest struct {
	Name         string          `json:"name" binding:"required"`
	Description  string          `json:"description"`
	Quantity     int             `json:"quantity" binding:"required"`
	UnitCost     decimal.Decimal `json:"unit_cost" binding:"required"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	Expenses     decimal.Decimal `json:"expenses"`
	Supplier     string          `json:"supplier"`
	PurchaseDate *time.Time      `json:"purchase_date"`
}

// ProductUpdateRequest represents product update data
type ProductUpdateRequest struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	CurrentPrice *decimal.Decimal `json:"current_price"`
}

// ProductResponse represents product response with pagination
type ProductResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// GetProducts retrieves products with filtering and pagination
func (s *Service) GetProducts(req *ProductListRequest) (*ProductResponse, error) {
	var products []Product
	var total int64

	query := s.db.Model(&Product{})

	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", search, search)
	}

	if req.InStockOnly {
		query = query.Where("quantity > 0")
	}

	// Count total records
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	// Apply sorting
	orderClause := s.buildOrderClause(req.SortBy, req.SortOrder)
	query = query.Order(orderClause)

	// Apply pagination
	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	pagination := Pagination{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    req.Page < totalPages,
		HasPrev:    req.Page > 1,
	}

	return &ProductResponse{
		Products:   products,
		Pagination: pagination,
	}, nil
}

// GetProduct retrieves a single product by ID with its purchase lots
func (s *Service) GetProduct(id uint) (*Product, error) {
	var product Product
	result := s.db.
		Preload("Lots", func(db *gorm.DB) *gorm.DB {
			return db.Order("purchase_date ASC, id ASC")
		}).
		Where("id = ?", id).
		First(&product)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}

	return &product, nil
}

// RecordPurchase registers a stock intake. It creates the product when the
// name is new, appends a purchase lot otherwise, and refreshes the cached
// quantity from the lot remainders inside one transaction. The product
// update is guarded by the version column like the settlement path, so a
// purchase landing next to a concurrent settlement retries instead of
// overwriting the counter with a stale lot sum.
func (s *Service) RecordPurchase(req *PurchaseRequest) (*Product, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("purchase quantity must be a positive integer")
	}
	if req.UnitCost.IsNegative() {
		return nil, fmt.Errorf("unit cost cannot be negative")
	}

	purchaseDate := time.Now().UTC()
	if req.PurchaseDate != nil {
		purchaseDate = *req.PurchaseDate
	}

	var lastErr error
	for attempt := 1; attempt <= s.config.Settlement.MaxAttempts; attempt++ {
		product, err := s.recordPurchaseOnce(req, purchaseDate)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, ErrConcurrentModification) {
			return nil, err
		}

		lastErr = err
		logrus.WithFields(logrus.Fields{
			"product": req.Name,
			"attempt": attempt,
		}).Warn("Purchase intake hit concurrent product modification, retrying")
	}

	return nil, lastErr
}

func (s *Service) recordPurchaseOnce(req *PurchaseRequest, purchaseDate time.Time) (*Product, error) {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var product Product
	err := tx.Where("LOWER(name) = ?", strings.ToLower(req.Name)).First(&product).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		salePrice := req.SalePrice
		if salePrice.IsZero() {
			// Default markup until a sale price is set
			salePrice = req.UnitCost.Mul(decimal.NewFromFloat(1.2))
		}
		product = Product{
			Name:         req.Name,
			Description:  req.Description,
			CurrentPrice: salePrice,
		}
		if err := tx.Create(&product).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to create product: %w", err)
		}
	case err != nil:
		tx.Rollback()
		return nil, fmt.Errorf("failed to look up product: %w", err)
	default:
		if !req.SalePrice.IsZero() {
			product.CurrentPrice = req.SalePrice
		}
	}

	lot := PurchaseLot{
		ProductID:    product.ID,
		PurchaseDate: purchaseDate,
		Quantity:     req.Quantity,
		UnitCost:     req.UnitCost,
		Expenses:     req.Expenses,
		Supplier:     req.Supplier,
		Remaining:    req.Quantity,
	}
	if err := tx.Create(&lot).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to record purchase lot: %w", err)
	}

	// Refresh the cached quantity from the lots
	var lots []PurchaseLot
	if err := tx.Where("product_id = ?", product.ID).Find(&lots).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to load purchase lots: %w", err)
	}

	total := 0
	for _, l := range lots {
		if l.Remaining > 0 {
			total += l.Remaining
		}
	}
	product.Quantity = total
	result := tx.Model(&Product{}).Where("id = ? AND version = ?", product.ID, product.Version).Updates(map[string]interface{}{
		"quantity":      product.Quantity,
		"current_price": product.CurrentPrice,
		"version":       product.Version + 1,
	})
	if result.Error != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update product stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// A settlement bumped the version after our read; the lot sum we
		// computed no longer matches the row
		tx.Rollback()
		return nil, ErrConcurrentModification
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit purchase: %w", err)
	}

	s.db.Preload("Lots").First(&product, product.ID)
	return &product, nil
}

// UpdateProduct updates catalog fields; stock fields only move through
// purchases and settlements
func (s *Service) UpdateProduct(id uint, req *ProductUpdateRequest) (*Product, error) {
	var product Product
	result := s.db.Where("id = ?", id).First(&product)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", result.Error)
	}

	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.CurrentPrice != nil {
		if req.CurrentPrice.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("price must be greater than zero")
		}
		updates["current_price"] = *req.CurrentPrice
	}

	if len(updates) > 0 {
		if err := s.db.Model(&product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	s.db.First(&product, product.ID)
	return &product, nil
}

// DeleteProduct soft deletes a product
func (s *Service) DeleteProduct(id uint) error {
	result := s.db.Where("id = ?", id).Delete(&Product{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// buildOrderClause builds ORDER BY clause for sorting
func (s *Service) buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"name":          true,
		"current_price": true,
		"created_at":    true,
		"updated_at":    true,
		"quantity":      true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}
