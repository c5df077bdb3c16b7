package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"resumelens/internal/config"
	"resumelens/internal/logging"
	"resumelens/internal/phases"
	"resumelens/pkg/models"
)

// RewriteHandler handles the POST /api/v1/rewrite endpoint. A rewrite always
// follows a successful analysis: the request must embed the prior analysis
// result, and its recommendations steer the rewrite prompt.
func RewriteHandler(cfg *config.Config, runner *phases.Runner) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := getRequestID(c)
		logger := logging.GetGlobalLogger()

		logger.Info("Processing resume rewrite request", map[string]interface{}{
			"request_id": requestID,
			"endpoint":   "/api/v1/rewrite",
			"method":     "POST",
		})

		// Parse and validate request body
		var req models.RewriteRequest
		if err := c.Bind(&req); err != nil {
			logger.Error("Failed to parse request body", map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			})
			return writeError(c, requestID, http.StatusBadRequest, "invalid_request", "Invalid request body: "+err.Error())
		}

		if err := resumeValidator.Struct(&req); err != nil {
			logger.Error("Request validation failed", map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			})
			return writeError(c, requestID, http.StatusBadRequest, "validation_failed", validationMessage(err))
		}

		provider := runner.ResolveProvider(req.Provider, req.Model)
		c.Response().Header().Set("X-Provider-Used", provider)
		streaming := c.QueryParam("stream") == "true"

		logger.Info("Starting resume rewrite", map[string]interface{}{
			"request_id":   requestID,
			"provider":     provider,
			"model":        req.Model,
			"stream":       streaming,
			"resume_chars": len(req.ResumeText),
		})

		if streaming {
			return streamPhase(c, requestID, phases.PhaseRewrite, func(sink phases.ChunkSink) error {
				_, _, err := runner.RunRewrite(c.Request().Context(), &req, sink)
				return err
			})
		}

		result, provider, err := runner.RunRewrite(c.Request().Context(), &req, nil)
		if err != nil {
			return writePhaseError(c, requestID, phases.PhaseRewrite, err)
		}

		logger.Info("Resume rewrite completed", map[string]interface{}{
			"request_id": requestID,
			"provider":   provider,
			"changes":    len(result.Changes),
		})
		return c.JSON(http.StatusOK, result)
	}
}
