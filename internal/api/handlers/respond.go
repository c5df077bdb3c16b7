package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"resumelens/internal/logging"
	"resumelens/internal/phases"
	"resumelens/pkg/models"
	"resumelens/pkg/utils"
)

// getRequestID returns the request ID set by the validation middleware
func getRequestID(c echo.Context) string {
	if id, ok := c.Get("request_id").(string); ok {
		return id
	}
	return utils.GenerateRequestID()
}

// writeError writes a JSON error body with the standard envelope
func writeError(c echo.Context, requestID string, status int, slug, message string) error {
	return c.JSON(status, models.ErrorResponse{
		Error:     slug,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now(),
	})
}

// writePhaseError maps a phase failure to its HTTP response. Parse failures
// get their own 502-class status so callers can tell "the model's response
// was malformed, retry" apart from a server fault; everything else keeps the
// caller-facing message generic while the detail goes to the logs.
func writePhaseError(c echo.Context, requestID, phase string, err error) error {
	logger := logging.GetGlobalLogger()

	var parseErr *phases.ParseError
	if errors.As(err, &parseErr) {
		// Raw and normalized text were already logged by the runner
		return writeError(c, requestID, http.StatusBadGateway, "upstream_parse_error",
			fmt.Sprintf("The %s model response was not valid JSON. Please retry.", phase))
	}

	var customErr *utils.CustomError
	if errors.As(err, &customErr) {
		logger.Error("Phase failed", map[string]interface{}{
			"request_id": requestID,
			"phase":      phase,
			"status":     customErr.Code,
			"error":      customErr.Error(),
		})
		return writeError(c, requestID, customErr.Code, errorSlug(customErr.Code), customErr.Message)
	}

	logger.Error("Phase failed with provider error", map[string]interface{}{
		"request_id": requestID,
		"phase":      phase,
		"error":      err.Error(),
	})
	return writeError(c, requestID, http.StatusInternalServerError, "provider_error",
		fmt.Sprintf("The %s request failed. Please try again.", phase))
}

// errorSlug maps a status code to the machine-readable error tag
func errorSlug(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "validation_failed"
	case http.StatusBadGateway:
		return "upstream_parse_error"
	case http.StatusGatewayTimeout:
		return "upstream_timeout"
	default:
		return "internal_error"
	}
}

// validationMessage turns a validator error into the actionable message the
// caller sees. Length violations get specific wording; enum violations name
// the offending field.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			switch {
			case fe.Field() == "ResumeText" && fe.Tag() == "required":
				return "Resume text is required"
			case fe.Field() == "ResumeText" && fe.Tag() == "min":
				return "Resume text too short: minimum 100 characters"
			case fe.Field() == "ResumeText" && fe.Tag() == "max":
				return "Resume text too long: maximum 15000 characters"
			case fe.Field() == "Analysis" && fe.Tag() == "required":
				return "Rewrite requires the analysis result of a prior analyze call"
			case fe.Tag() == "perspective" || fe.Tag() == "output_language" ||
				fe.Tag() == "region" || fe.Tag() == "tone" || fe.Tag() == "llm_provider":
				return fmt.Sprintf("Invalid value for %s", fe.Field())
			}
		}
	}
	return "Request validation failed: " + err.Error()
}

// streamPhase writes a phase response as an incrementally flushed text
// stream: one JSON value spread across the body, which the client buffers
// and parses once the stream completes. The status line is not committed
// until the first chunk arrives, so failures before any model output still
// produce an ordinary error response.
func streamPhase(c echo.Context, requestID, phase string, run func(sink phases.ChunkSink) error) error {
	wrote := false
	sink := func(text string) error {
		if !wrote {
			c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
			c.Response().WriteHeader(http.StatusOK)
			wrote = true
		}
		if _, err := c.Response().Write([]byte(text)); err != nil {
			return err
		}
		c.Response().Flush()
		return nil
	}

	if err := run(sink); err != nil {
		if !wrote {
			return writePhaseError(c, requestID, phase, err)
		}
		// The status line is already on the wire; log and let the
		// truncated body fail the client's parse.
		logging.GetGlobalLogger().Error("Stream failed after first byte", map[string]interface{}{
			"request_id": requestID,
			"phase":      phase,
			"error":      err.Error(),
		})
	}
	return nil
}
