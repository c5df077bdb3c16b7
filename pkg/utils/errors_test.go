package utils

import (
	"net/http"
	"testing"
)

func TestCustomErrorMessage(t *testing.T) {
	err := &CustomError{Code: 500, Message: "Something failed"}
	if err.Error() != "Something failed" {
		t.Errorf("Error() = %q", err.Error())
	}

	err = &CustomError{Code: 500, Message: "Something failed", Detail: "the reason"}
	if err.Error() != "Something failed: the reason" {
		t.Errorf("Error() = %q, want message and detail joined", err.Error())
	}
}

func TestErrorConstructorsMapToStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *CustomError
		code int
	}{
		{"bad request", NewBadRequestError("bad"), http.StatusBadRequest},
		{"internal", NewInternalServerError("broken"), http.StatusInternalServerError},
		{"validation", NewValidationError("too short"), http.StatusBadRequest},
		{"configuration", NewConfigurationError("no key"), http.StatusInternalServerError},
		{"empty response", NewEmptyResponseError("no text"), http.StatusInternalServerError},
		{"upstream parse", NewUpstreamParseError("bad JSON"), http.StatusBadGateway},
		{"vendor", NewVendorError("rate limited upstream"), http.StatusInternalServerError},
		{"deadline", NewDeadlineError("timed out"), http.StatusGatewayTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %d, want %d", tt.err.Code, tt.code)
			}
			if tt.err.Message == "" {
				t.Error("Message must not be empty")
			}
		})
	}
}

func TestDetailStaysOutOfMessage(t *testing.T) {
	// Detail carries operator context; the caller-facing Message must not
	// absorb it.
	err := NewConfigurationError("set OPENAI_API_KEY")
	if err.Message != "Provider configuration incomplete" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Detail != "set OPENAI_API_KEY" {
		t.Errorf("Detail = %q", err.Detail)
	}
}
