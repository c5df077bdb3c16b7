package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// SelectiveTimeoutConfig applies a per-route request deadline: the default
// timeout for ordinary endpoints and a longer one for the model-backed
// endpoints. The deadline is propagated through the request context rather
// than a buffering wrapper so handlers can still flush incrementally;
// streaming requests are exempt entirely because their duration is governed
// by the open model stream.
func SelectiveTimeoutConfig(defaultTimeout, llmTimeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.QueryParam("stream") == "true" {
				return next(c)
			}

			timeout := defaultTimeout
			if isLLMPath(c.Request().URL.Path) {
				timeout = llmTimeout
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			defer cancel()
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// isLLMPath reports whether a request path reaches a model-backed endpoint
func isLLMPath(path string) bool {
	return strings.HasSuffix(path, "/analyze") || strings.HasSuffix(path, "/rewrite")
}
