package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"resumelens/internal/api/validation"
	"resumelens/internal/config"
	"resumelens/internal/logging"
	"resumelens/internal/phases"
	"resumelens/pkg/models"
)

var resumeValidator = validator.New()

func init() {
	// Register shared resume validators
	validation.RegisterResumeValidators(resumeValidator)
}

// AnalyzeHandler handles the POST /api/v1/analyze endpoint
func AnalyzeHandler(cfg *config.Config, runner *phases.Runner) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := getRequestID(c)
		logger := logging.GetGlobalLogger()

		logger.Info("Processing resume analysis request", map[string]interface{}{
			"request_id": requestID,
			"endpoint":   "/api/v1/analyze",
			"method":     "POST",
		})

		// Parse and validate request body
		var req models.AnalyzeRequest
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

		// The provider actually used is known before the call from the
		// override policy, so streamed responses can carry it too
		provider := runner.ResolveProvider(req.Provider, req.Model)
		c.Response().Header().Set("X-Provider-Used", provider)
		streaming := c.QueryParam("stream") == "true"

		logger.Info("Starting resume analysis", map[string]interface{}{
			"request_id":          requestID,
			"provider":            provider,
			"model":               req.Model,
			"stream":              streaming,
			"resume_chars":        len(req.ResumeText),
			"has_job_description": req.JobDescription != "",
		})

		if streaming {
			return streamPhase(c, requestID, phases.PhaseAnalysis, func(sink phases.ChunkSink) error {
				_, _, err := runner.RunAnalysis(c.Request().Context(), &req, sink)
				return err
			})
		}

		result, provider, err := runner.RunAnalysis(c.Request().Context(), &req, nil)
		if err != nil {
			return writePhaseError(c, requestID, phases.PhaseAnalysis, err)
		}

		logger.Info("Resume analysis completed", map[string]interface{}{
			"request_id":      requestID,
			"provider":        provider,
			"keyword_helper":  result.KeywordHelper.Enabled,
			"recommendations": len(result.Recommendations.Global),
		})
		return c.JSON(http.StatusOK, result)
	}
}
