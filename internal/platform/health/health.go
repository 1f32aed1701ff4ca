// Package health exposes liveness and readiness endpoints.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler serves /health and /health/ready.
type Handler struct {
	db      Pinger
	service string
}

// NewHandler builds a Handler probing db.
func NewHandler(db Pinger, service string) *Handler {
	return &Handler{db: db, service: service}
}

// NewGormHandler builds a Handler from a GORM connection.
func NewGormHandler(db *gorm.DB, service string) (*Handler, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return NewHandler(sqlDB, service), nil
}

// RegisterRoutes mounts the endpoints on router.
func (h *Handler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/health", h.Live)
	router.GET("/health/ready", h.Ready)
}

// Live always reports ok while the process serves requests.
func (h *Handler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": h.service})
}

// Ready reports whether the database answers within two seconds.
func (h *Handler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "service": h.service, "database": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "service": h.service, "database": "up"})
}
