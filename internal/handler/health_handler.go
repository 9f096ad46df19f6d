// internal/handler/health_handler.go
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"display-service/internal/config"
	"display-service/internal/service"
	"display-service/internal/utils"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	displayService *service.DisplayService
	config         *config.Config
	startTime      time.Time
	logger         *utils.ServiceLogger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(displayService *service.DisplayService, config *config.Config, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		displayService: displayService,
		config:         config,
		startTime:      time.Now(),
		logger:         utils.NewServiceLogger(logger, "health-handler"),
	}
}

// RegisterRoutes registers health check routes
func (h *HealthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", h.HealthCheck)
	router.GET("/ready", h.ReadinessCheck)
	router.GET("/live", h.LivenessCheck)
}

// HealthCheck reports service health and serial bus statistics
// @Summary Health check
// @Description Get overall service health including per-port traffic statistics
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse "Service is healthy"
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	health := &HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Service:   h.config.App.Name,
		Version:   h.config.App.Version,
		Uptime:    time.Since(h.startTime).String(),
		Checks:    make(map[string]CheckResult),
	}

	vendors := h.displayService.Vendors()
	health.Checks["drivers"] = CheckResult{
		Status: "healthy",
		Data:   map[string]interface{}{"registered": len(vendors)},
	}
	if len(vendors) == 0 {
		health.Status = "unhealthy"
		health.Checks["drivers"] = CheckResult{Status: "unhealthy", Message: "no display drivers registered"}
	}

	for _, stats := range h.displayService.BusStats() {
		status := "healthy"
		if stats.ErrorCount > 0 && stats.ErrorCount == stats.ExchangeCount {
			status = "degraded"
		}
		health.Checks["bus:"+stats.Port] = CheckResult{
			Status: status,
			Data: map[string]interface{}{
				"exchanges":       stats.ExchangeCount,
				"errors":          stats.ErrorCount,
				"bytes_written":   stats.BytesWritten,
				"bytes_read":      stats.BytesRead,
				"average_latency": stats.AverageLatency.String(),
				"last_activity":   stats.LastActivity,
			},
		}
	}

	statusCode := http.StatusOK
	if health.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, health)
}

// ReadinessCheck for Kubernetes readiness probe
// @Summary Readiness check
// @Tags Health
// @Produce json
// @Success 200 {object} object{status=string,timestamp=string} "Service is ready"
// @Failure 503 {object} object{status=string,reason=string} "Service is not ready"
// @Router /ready [get]
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	if len(h.displayService.Vendors()) == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "no display drivers registered",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now(),
	})
}

// LivenessCheck for Kubernetes liveness probe
// @Summary Liveness check
// @Tags Health
// @Produce json
// @Success 200 {object} object{status=string,timestamp=string} "Service is alive"
// @Router /live [get]
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now(),
	})
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Service   string                 `json:"service"`
	Version   string                 `json:"version"`
	Uptime    string                 `json:"uptime"`
	Checks    map[string]CheckResult `json:"checks"`
}

// CheckResult represents individual check result
type CheckResult struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}
