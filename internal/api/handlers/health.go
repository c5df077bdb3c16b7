package handlers

import (
	"net/http"
	"time"

	"resumelens/internal/llm"
	"resumelens/internal/logging"
	"resumelens/pkg/models"

	"github.com/labstack/echo/v4"
)

var startTime = time.Now()

// serviceVersion is reported by the health and root endpoints
const serviceVersion = "1.0.0"

// HealthHandler handles health check requests, reporting per-provider
// credential status. A provider without a default credential does not make
// the service unhealthy: callers can still use it with their own key.
func HealthHandler(llmManager *llm.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.GetGlobalLogger()
		logger.Debug("Health check requested", map[string]interface{}{"request_id": getRequestID(c)})

		checks := llmManager.CheckHealth(c.Request().Context())
		checks["api"] = "ok"

		response := models.HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now(),
			Version:   serviceVersion,
			Uptime:    time.Since(startTime),
			Checks:    checks,
		}
		return c.JSON(http.StatusOK, response)
	}
}

// ReadinessHandler handles readiness probe requests. The service is ready
// once the LLM manager has started; credential presence is advisory only.
func ReadinessHandler(llmManager *llm.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.GetGlobalLogger()
		logger.Debug("Readiness check requested", map[string]interface{}{"request_id": getRequestID(c)})

		if !llmManager.IsHealthy() {
			return c.JSON(http.StatusServiceUnavailable, models.HealthResponse{
				Status:    "not_ready",
				Timestamp: time.Now(),
				Version:   serviceVersion,
				Uptime:    time.Since(startTime),
				Checks: map[string]string{
					"llm": "not_started",
				},
			})
		}

		response := models.HealthResponse{
			Status:    "ready",
			Timestamp: time.Now(),
			Version:   serviceVersion,
			Uptime:    time.Since(startTime),
			Checks: map[string]string{
				"api": "ok",
				"llm": "ok",
			},
		}
		return c.JSON(http.StatusOK, response)
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	logger := logging.GetGlobalLogger()
	logger.Debug("Liveness check requested", map[string]interface{}{"request_id": getRequestID(c)})

	response := models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   serviceVersion,
		Uptime:    time.Since(startTime),
	}
	return c.JSON(http.StatusOK, response)
}

// StatusHandler provides detailed service status including outbound
// throttle counters per provider
func StatusHandler(llmManager *llm.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.GetGlobalLogger()
		logger.Debug("Status check requested", map[string]interface{}{"request_id": getRequestID(c)})

		status := map[string]interface{}{
			"status":    "operational",
			"timestamp": time.Now(),
			"version":   serviceVersion,
			"uptime":    time.Since(startTime).String(),
			"providers": llmManager.CheckHealth(c.Request().Context()),
		}
		if stats := llmManager.GetLimiterStats(); stats != nil {
			status["outbound_limits"] = stats
		}
		return c.JSON(http.StatusOK, status)
	}
}
