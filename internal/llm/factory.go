package llm

import (
	"fmt"

	"resumelens/internal/config"
	"resumelens/internal/llm/providers"
	"resumelens/pkg/models"
)

// Factory creates LLM provider instances
type Factory struct {
	config *config.Config
}

// NewFactory creates a new LLM factory instance
func NewFactory(cfg *config.Config) *Factory {
	return &Factory{
		config: cfg,
	}
}

// CreateProvider creates an LLM provider by name
func (f *Factory) CreateProvider(name string) (Provider, error) {
	switch name {
	case models.ProviderOpenAI:
		return providers.NewOpenAIProvider(f.config), nil
	case models.ProviderGemini:
		return providers.NewGeminiProvider(f.config), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", name)
	}
}

// GetSupportedProviders returns a list of supported LLM providers
func (f *Factory) GetSupportedProviders() []string {
	return []string{models.ProviderOpenAI, models.ProviderGemini}
}
