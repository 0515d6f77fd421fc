package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/evalplatform/evalreport/consts"
	"github.com/evalplatform/evalreport/pkg/logger"
)

// HealthChecker reports whether a dependency is reachable
type HealthChecker func() error

// HealthHandler serves liveness and dependency status
type HealthHandler struct {
	checkDB HealthChecker
}

// NewHealthHandler creates a health handler. A nil checker skips the
// database probe.
func NewHealthHandler(checkDB HealthChecker) *HealthHandler {
	return &HealthHandler{checkDB: checkDB}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	status := http.StatusOK
	dbStatus := "ok"
	if h.checkDB != nil {
		if err := h.checkDB(); err != nil {
			logger.Warn("Database health check failed", zap.Error(err))
			status = http.StatusServiceUnavailable
			dbStatus = "unavailable"
		}
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	c.JSON(status, gin.H{
		"status":   overall,
		"database": dbStatus,
		"version":  consts.Version,
		"uptime":   consts.GetUptime().Round(time.Second).String(),
	})
}
