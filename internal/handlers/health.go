// internal/handlers/health.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const healthTimeout = 2 * time.Second

type HealthHandler struct {
	ping    func(ctx context.Context) error
	version string
}

// NewHealthHandler reports the store reachable when ping succeeds. A nil ping
// always reports healthy.
func NewHealthHandler(ping func(ctx context.Context) error, version string) *HealthHandler {
	return &HealthHandler{ping: ping, version: version}
}

// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	status, code, database := "healthy", http.StatusOK, "up"
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			logrus.WithError(err).Warn("Health check: database unreachable")
			status, code, database = "degraded", http.StatusServiceUnavailable, "down"
		}
	}

	c.JSON(code, gin.H{
		"status":   status,
		"version":  h.version,
		"database": database,
	})
}
