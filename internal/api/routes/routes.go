package routes

import (
	"time"

	"resumelens/internal/api/handlers"
	"resumelens/internal/api/middleware"
	"resumelens/internal/config"
	"resumelens/internal/llm"
	"resumelens/internal/phases"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, llmManager *llm.Manager, runner *phases.Runner) {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	e.Use(middleware.RequestValidation())
	// Selective timeout: 30s for most endpoints, the configured request
	// timeout plus slack for the model-backed endpoints
	e.Use(middleware.SelectiveTimeoutConfig(30*time.Second, cfg.LLM.RequestTimeout+30*time.Second))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler(llmManager))
		health.GET("/ready", handlers.ReadinessHandler(llmManager))
		health.GET("/live", handlers.LivenessHandler)
	}

	// Status route
	e.GET("/status", handlers.StatusHandler(llmManager))

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		v1.POST("/analyze", handlers.AnalyzeHandler(cfg, runner))
		v1.POST("/rewrite", handlers.RewriteHandler(cfg, runner))
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"service": "ResumeLens Analyzer",
			"version": "1.0.0",
			"status":  "running",
		})
	})
}
