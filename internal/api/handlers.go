package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/akeen90/nutrasafe-beta-sub001/internal/database"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/service"
)

const healthTimeout = 2 * time.Second

// HealthHandler reports whether the API and its backing stores are reachable.
type HealthHandler struct {
	db        *gorm.DB
	redis     redis.Cmdable
	reference service.IReferenceService
}

// NewHealthHandler creates a health handler. db and redisClient may be nil.
func NewHealthHandler(db *gorm.DB, redisClient redis.Cmdable, reference service.IReferenceService) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient, reference: reference}
}

func (h *HealthHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.HealthCheck)
	router.GET("/api/health", h.HealthCheck)
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{}
	if h.db != nil {
		if err := database.HealthCheck(ctx, h.db); err != nil {
			checks["database"] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			checks["database"] = "ok"
		}
	}
	if h.redis != nil {
		// Redis only backs the cache and rate limiter, so an outage degrades but does not fail.
		if err := h.redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = err.Error()
		} else {
			checks["redis"] = "ok"
		}
	}

	body := gin.H{
		"status": "healthy",
		"checks": checks,
	}
	if status != http.StatusOK {
		body["status"] = "unhealthy"
	}
	if h.reference != nil {
		body["reference_version"] = h.reference.Current().Version
	}
	c.JSON(status, body)
}
