package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/plancare/plansale-backend/internal/database"
)

// HealthHandler reports service and database liveness
type HealthHandler struct {
	db     database.DB
	logger *logrus.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db database.DB, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

// Health pings the database
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.WithError(err).Error("Health check: database unreachable")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "unreachable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "ok",
	})
}
