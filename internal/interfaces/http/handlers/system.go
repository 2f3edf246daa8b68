// internal/interfaces/http/handlers/system.go
package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/erp-backend/internal/config"
	"gorm.io/gorm"
)

// SystemHandler handles the developer's system health endpoint
type SystemHandler struct {
	db          *gorm.DB
	redisClient *redis.Client
	config      *config.Config
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *SystemHandler {
	return &SystemHandler{
		db:          db,
		redisClient: redisClient,
		config:      cfg,
	}
}

// SystemHealth reports component health and runtime stats
func (h *SystemHandler) SystemHealth(c *gin.Context) {
	databaseStatus := "healthy"
	var openConnections int

	sqlDB, err := h.db.DB()
	if err != nil {
		databaseStatus = "unhealthy"
	} else {
		if err := sqlDB.Ping(); err != nil {
			databaseStatus = "unhealthy"
		}
		openConnections = sqlDB.Stats().OpenConnections
	}

	redisStatus := "healthy"
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		redisStatus = "unhealthy"
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	c.JSON(http.StatusOK, gin.H{
		"message": "System health retrieved successfully",
		"data": gin.H{
			"database": gin.H{
				"status":           databaseStatus,
				"open_connections": openConnections,
			},
			"redis": gin.H{
				"status": redisStatus,
			},
			"runtime": gin.H{
				"goroutines":     runtime.NumGoroutine(),
				"alloc_mb":       memStats.Alloc / 1024 / 1024,
				"total_alloc_mb": memStats.TotalAlloc / 1024 / 1024,
				"gc_cycles":      memStats.NumGC,
				"go_version":     runtime.Version(),
			},
			"environment": h.config.App.Environment,
			"version":     h.config.App.Version,
		},
	})
}
