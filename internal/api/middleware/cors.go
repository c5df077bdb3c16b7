package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// CORSConfig returns CORS middleware configuration
func CORSConfig() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"}, // TODO: Configure allowed origins for production
		AllowMethods: []string{echo.GET, echo.POST, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		// Browser clients need these to correlate requests and show which
		// vendor actually served a result
		ExposeHeaders:    []string{"X-Request-ID", "X-Provider-Used"},
		AllowCredentials: false,
		MaxAge:           86400, // 24 hours
	})
}
