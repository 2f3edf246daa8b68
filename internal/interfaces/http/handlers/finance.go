// internal/interfaces/http/handlers/finance.go
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/erp-backend/internal/config"
	"github.com/your-org/erp-backend/internal/domain/finance"
	"github.com/your-org/erp-backend/internal/domain/sale"
	"gorm.io/gorm"
)

// FinanceHandler handles reporting and dashboard endpoints
type FinanceHandler struct {
	financeService *finance.Service
	saleService    *sale.Service
	config         *config.Config
}

// NewFinanceHandler creates a new finance handler
func NewFinanceHandler(db *gorm.DB, cfg *config.Config) *FinanceHandler {
	return &FinanceHandler{
		financeService: finance.NewService(db, cfg),
		saleService:    sale.NewService(db, cfg),
		config:         cfg,
	}
}

// GetSummary computes the financial summary for a reporting period. The
// period defaults to monthly; an explicit from/to pair overrides it.
func (h *FinanceHandler) GetSummary(c *gin.Context) {
	fromParam := c.Query("from")
	toParam := c.Query("to")

	if fromParam != "" && toParam != "" {
		from, err := time.Parse("2006-01-02", fromParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid from date, expected YYYY-MM-DD",
			})
			return
		}
		to, err := time.Parse("2006-01-02", toParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid to date, expected YYYY-MM-DD",
			})
			return
		}
		// Make the end date inclusive
		to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)

		summary, err := h.financeService.Summarize(from, to)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to compute summary",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Financial summary computed successfully",
			"data":    summary,
		})
		return
	}

	summary, err := h.financeService.SummarizePeriod(c.Query("period"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Financial summary computed successfully",
		"data":    summary,
	})
}

// GetTotalRevenue returns all-time completed sale revenue
func (h *FinanceHandler) GetTotalRevenue(c *gin.Context) {
	total, err := h.financeService.TotalRevenue()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to compute revenue",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Revenue computed successfully",
		"data": gin.H{
			"total_revenue": total,
		},
	})
}

// GetTotalExpenses returns all-time expenses including purchase incidentals
func (h *FinanceHandler) GetTotalExpenses(c *gin.Context) {
	total, err := h.financeService.TotalExpenses()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to compute expenses",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Expenses computed successfully",
		"data": gin.H{
			"total_expenses": total,
		},
	})
}

// GenerateIncomeStatement recomputes and stores one month's snapshot
func (h *FinanceHandler) GenerateIncomeStatement(c *gin.Context) {
	var req struct {
		Year  int `json:"year" binding:"required"`
		Month int `json:"month" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if req.Month < 1 || req.Month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Month must be between 1 and 12",
		})
		return
	}

	statement, err := h.financeService.GenerateIncomeStatement(req.Year, time.Month(req.Month))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate income statement",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Income statement generated successfully",
		"data":    statement,
	})
}

// GetIncomeStatement retrieves a stored snapshot by its YYYY-MM key
func (h *FinanceHandler) GetIncomeStatement(c *gin.Context) {
	month := c.Param("month")

	statement, err := h.financeService.GetIncomeStatement(month)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Income statement retrieved successfully",
		"data":    statement,
	})
}

// ListIncomeStatements returns all stored snapshots, newest first
func (h *FinanceHandler) ListIncomeStatements(c *gin.Context) {
	statements, err := h.financeService.ListIncomeStatements()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list income statements",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Income statements retrieved successfully",
		"data":    statements,
	})
}

// GetMonthlySales returns per-month sales aggregates for the investor
// dashboard
func (h *FinanceHandler) GetMonthlySales(c *gin.Context) {
	rollups, err := h.financeService.MonthlySales()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to aggregate monthly sales",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Monthly sales retrieved successfully",
		"data":    rollups,
	})
}

// GetMonthlyTrends returns one year's per-month aggregates
func (h *FinanceHandler) GetMonthlyTrends(c *gin.Context) {
	year := time.Now().UTC().Year()
	if yearParam := c.Query("year"); yearParam != "" {
		parsed, err := strconv.Atoi(yearParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid year",
			})
			return
		}
		year = parsed
	}

	rollups, err := h.financeService.MonthlyTrends(year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to aggregate monthly trends",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Monthly trends retrieved successfully",
		"data": gin.H{
			"year":   year,
			"months": rollups,
		},
	})
}

// GetPartnerSummary returns the partner dashboard rollup
func (h *FinanceHandler) GetPartnerSummary(c *gin.Context) {
	summary, err := h.financeService.GetPartnerSummary()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to compute partner summary",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Partner summary computed successfully",
		"data":    summary,
	})
}

// GetRecentSales returns the latest completed sales
func (h *FinanceHandler) GetRecentSales(c *gin.Context) {
	limit := 10
	if limitParam := c.Query("limit"); limitParam != "" {
		parsed, err := strconv.Atoi(limitParam)
		if err != nil || parsed < 1 || parsed > 100 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid limit",
			})
			return
		}
		limit = parsed
	}

	sales, err := h.saleService.RecentSales(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve recent sales",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recent sales retrieved successfully",
		"data":    sales,
	})
}

// GetInventoryStatus returns the partner's stock valuation overview
func (h *FinanceHandler) GetInventoryStatus(c *gin.Context) {
	statuses, err := h.financeService.GetInventoryStatus()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve inventory status",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Inventory status retrieved successfully",
		"data":    statuses,
	})
}
