package utils

import (
	"fmt"
	"net/http"
)

// CustomError represents a custom application error
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (e *CustomError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

// Common error constructors
func NewBadRequestError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

func NewInternalServerError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusInternalServerError,
		Message: message,
	}
}

func NewValidationError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Message: "Validation failed",
		Detail:  detail,
	}
}

// NewConfigurationError returns the error used when no credential can be
// resolved for the selected provider. Detected before any network call.
func NewConfigurationError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusInternalServerError,
		Message: "Provider configuration incomplete",
		Detail:  detail,
	}
}

// NewEmptyResponseError returns the error used when the model call succeeded
// at the transport level but produced no text
func NewEmptyResponseError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusInternalServerError,
		Message: "Model returned an empty response",
		Detail:  detail,
	}
}

// NewUpstreamParseError returns the error used when the model returned text
// that is not valid JSON even after normalization. Mapped to 502 so callers
// can tell "the AI response was malformed, retry" apart from a server fault.
func NewUpstreamParseError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadGateway,
		Message: "Model returned unparseable output",
		Detail:  detail,
	}
}

// NewVendorError wraps a failure reported by the provider SDK or transport
func NewVendorError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusInternalServerError,
		Message: "Provider request failed",
		Detail:  detail,
	}
}

// NewDeadlineError returns the error used when a provider call exceeded the
// configured request deadline
func NewDeadlineError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusGatewayTimeout,
		Message: "Provider request timed out",
		Detail:  detail,
	}
}
