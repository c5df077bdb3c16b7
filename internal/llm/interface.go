package llm

import (
	"context"
	"strings"

	"resumelens/pkg/models"
)

// Provider defines the interface for LLM vendors
type Provider interface {
	// Generate issues one model invocation and returns either buffered
	// text or a chunk stream, depending on the request and what the
	// vendor supports
	Generate(ctx context.Context, req models.GenerateRequest) (*models.Generation, error)

	// IsHealthy reports whether the provider is usable with the shared
	// default credential. Callers supplying their own key per request
	// can still use a provider that fails this check.
	IsHealthy(ctx context.Context) error

	// GetProviderName returns the name of the provider
	GetProviderName() string
}

// ResolveProvider applies the model-id override policy: model identifiers in
// the gemini family always route to the Gemini provider no matter which
// provider the caller named. Results and errors are tagged with the value
// returned here, not with the nominal selection.
func ResolveProvider(requested, model string) string {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(model)), "gemini") {
		return models.ProviderGemini
	}
	if requested == "" {
		return models.ProviderOpenAI
	}
	return requested
}
