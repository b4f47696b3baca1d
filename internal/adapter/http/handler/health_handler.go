package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthChecker probes one dependency.
type HealthChecker func(ctx context.Context) error

// HealthHandler reports liveness and the health of named dependencies.
type HealthHandler struct {
	checks map[string]HealthChecker
}

func NewHealthHandler(checks map[string]HealthChecker) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) Ready(c *gin.Context) {
	status := http.StatusOK
	deps := make(map[string]string, len(h.checks))

	for name, check := range h.checks {
		if err := check(c.Request.Context()); err != nil {
			deps[name] = "down: " + err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "up"
	}

	c.JSON(status, gin.H{"status": http.StatusText(status), "dependencies": deps})
}
