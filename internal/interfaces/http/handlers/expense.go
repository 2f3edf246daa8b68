// internal/interfaces/http/handlers/expense.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/erp-backend/internal/config"
	"github.com/your-org/erp-backend/internal/domain/expense"
	"gorm.io/gorm"
)

// ExpenseHandler handles expense endpoints
type ExpenseHandler struct {
	expenseService *expense.Service
	config         *config.Config
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(db *gorm.DB, cfg *config.Config) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expense.NewService(db, cfg),
		config:         cfg,
	}
}

// Create records a new operating expense
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req expense.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	e, err := h.expenseService.Create(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Expense recorded successfully",
		"data":    e,
	})
}

// List retrieves expenses with filtering and pagination
func (h *ExpenseHandler) List(c *gin.Context) {
	var req expense.ListRequest
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

	expenses, total, err := h.expenseService.List(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve expenses",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Expenses retrieved successfully",
		"data": gin.H{
			"expenses": expenses,
			"total":    total,
			"page":     req.Page,
			"limit":    req.Limit,
		},
	})
}

// Delete removes an expense record
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid expense ID",
		})
		return
	}

	if err := h.expenseService.Delete(uint(id)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Expense deleted successfully",
	})
}
