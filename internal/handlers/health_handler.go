package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cater-menu-backend/pkg/cache"
)

type HealthHandler struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewHealthHandler(db *gorm.DB, c *cache.Cache) *HealthHandler {
	return &HealthHandler{db: db, cache: c}
}

func (h *HealthHandler) Health(c *gin.Context) {
	status := http.StatusOK
	dbStatus := "ok"
	cacheStatus := "ok"

	if sqlDB, err := h.db.DB(); err != nil {
		dbStatus = "error"
		status = http.StatusServiceUnavailable
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error"
		status = http.StatusServiceUnavailable
	}

	if !h.cache.Enabled() {
		cacheStatus = "disabled"
	} else if err := h.cache.Ping(); err != nil {
		// A cold cache degrades performance, not availability.
		cacheStatus = "error"
	}

	c.JSON(status, gin.H{
		"status":    statusWord(status),
		"database":  dbStatus,
		"cache":     cacheStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func statusWord(status int) string {
	if status == http.StatusOK {
		return "healthy"
	}
	return "unhealthy"
}
