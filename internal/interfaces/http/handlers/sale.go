// internal/interfaces/http/handlers/sale.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/erp-backend/internal/config"
	"github.com/your-org/erp-backend/internal/domain/inventory"
	"github.com/your-org/erp-backend/internal/domain/product"
	"github.com/your-org/erp-backend/internal/domain/sale"
	"github.com/your-org/erp-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SaleHandler handles sale settlement endpoints
type SaleHandler struct {
	saleService *sale.Service
	config      *config.Config
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(db *gorm.DB, cfg *config.Config) *SaleHandler {
	return &SaleHandler{
		saleService: sale.NewService(db, cfg),
		config:      cfg,
	}
}

// Settle records a staff sale against inventory
func (h *SaleHandler) Settle(c *gin.Context) {
	var req sale.SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if userID, exists := middleware.GetUserIDFromContext(c); exists {
		req.UserID = &userID
	}

	h.settle(c, &req)
}

// PlaceOrder records a client purchase, settled the same way as a staff
// sale
func (h *SaleHandler) PlaceOrder(c *gin.Context) {
	var req sale.SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if userID, exists := middleware.GetUserIDFromContext(c); exists {
		req.UserID = &userID
	}
	if email, exists := middleware.GetUserEmailFromContext(c); exists && req.CustomerEmail == "" {
		req.CustomerEmail = email
	}

	if req.CustomerName == "" || req.CustomerEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Customer name and email are required",
		})
		return
	}

	h.settle(c, &req)
}

// MyOrders lists the authenticated customer's own purchases
func (h *SaleHandler) MyOrders(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}
	email, _ := middleware.GetUserEmailFromContext(c)

	sales, err := h.saleService.ListByCustomer(userID, email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve orders",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    sales,
	})
}

func (h *SaleHandler) settle(c *gin.Context, req *sale.SettleRequest) {
	newSale, err := h.saleService.Settle(req)
	if err != nil {
		var stockErr *inventory.InsufficientStockError
		var inventoryErr *inventory.InsufficientInventoryError

		switch {
		case errors.Is(err, inventory.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Quantity must be a positive integer",
			})
		case errors.Is(err, product.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
		case errors.As(err, &stockErr):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":           "Insufficient stock",
				"requested":       stockErr.Requested,
				"available_stock": stockErr.Available,
			})
		case errors.As(err, &inventoryErr):
			// Ledger details stay in the logs
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Sale could not be settled",
			})
		case errors.Is(err, inventory.ErrConcurrentModification):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Product was modified concurrently, please retry",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to settle sale",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Sale settled successfully",
		"data":    newSale,
	})
}

// GetSales retrieves sales with filtering and pagination
func (h *SaleHandler) GetSales(c *gin.Context) {
	var req sale.SaleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	response, err := h.saleService.GetSales(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve sales",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Sales retrieved successfully",
		"data":    response,
	})
}

// GetSale retrieves a single sale
func (h *SaleHandler) GetSale(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid sale ID",
		})
		return
	}

	s, err := h.saleService.GetSale(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Sale retrieved successfully",
		"data":    s,
	})
}

// UpdateStatus performs an administrative status transition
func (h *SaleHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid sale ID",
		})
		return
	}

	var req struct {
		Status sale.SaleStatus `json:"status" binding:"required"`
		Reason string          `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	s, err := h.saleService.UpdateStatus(uint(id), req.Status, req.Reason)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Sale status updated successfully",
		"data":    s,
	})
}
