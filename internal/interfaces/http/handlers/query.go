// internal/interfaces/http/handlers/query.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/erp-backend/internal/config"
	"github.com/your-org/erp-backend/internal/domain/query"
	"github.com/your-org/erp-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// QueryHandler handles customer query endpoints
type QueryHandler struct {
	queryService *query.Service
	config       *config.Config
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(db *gorm.DB, cfg *config.Config) *QueryHandler {
	return &QueryHandler{
		queryService: query.NewService(db, cfg),
		config:       cfg,
	}
}

// Submit stores a new customer query and attempts an automatic reply
func (h *QueryHandler) Submit(c *gin.Context) {
	var req query.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	// Authenticated customers always file under their own address
	if email, exists := middleware.GetUserEmailFromContext(c); exists {
		req.CustomerEmail = email
	}

	q, err := h.queryService.Submit(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to submit query",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Query submitted successfully",
		"data":    q,
	})
}

// MyQueries retrieves the authenticated customer's own queries
func (h *QueryHandler) MyQueries(c *gin.Context) {
	email, exists := middleware.GetUserEmailFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	queries, err := h.queryService.ListByEmail(email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve queries",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Queries retrieved successfully",
		"data":    queries,
	})
}

// List retrieves all queries for staff review
func (h *QueryHandler) List(c *gin.Context) {
	queries, err := h.queryService.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve queries",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Queries retrieved successfully",
		"data":    queries,
	})
}

// ListPending retrieves queries still waiting for a staff reply
func (h *QueryHandler) ListPending(c *gin.Context) {
	queries, err := h.queryService.ListPending()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve pending queries",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Pending queries retrieved successfully",
		"data":    queries,
	})
}

// Respond records a staff reply to a query
func (h *QueryHandler) Respond(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query ID",
		})
		return
	}

	var req query.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	q, err := h.queryService.Respond(uint(id), &req)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reply recorded successfully",
		"data":    q,
	})
}

// GetStats summarizes the query workload
func (h *QueryHandler) GetStats(c *gin.Context) {
	stats, err := h.queryService.GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to compute query stats",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Query stats computed successfully",
		"data":    stats,
	})
}
