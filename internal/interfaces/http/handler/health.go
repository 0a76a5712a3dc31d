package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quotebook/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

// Ping calls f
func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// HealthHandler answers liveness and dependency checks
type HealthHandler struct {
	checks  map[string]Pinger
	timeout time.Duration
	now     func() time.Time
}

// NewHealthHandler creates a handler checking the named dependencies
func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{
		checks:  checks,
		timeout: 2 * time.Second,
		now:     time.Now,
	}
}

// Health reports "healthy" when every dependency answers, 503 otherwise.
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	body := gin.H{
		"status": "healthy",
		"time":   h.now().UTC().Format(time.RFC3339),
	}
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			logger.L(c.Request.Context()).Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			body[name] = "error"
			status = http.StatusServiceUnavailable
			continue
		}
		body[name] = "ok"
	}
	if status != http.StatusOK {
		body["status"] = "unhealthy"
	}

	c.JSON(status, body)
}
