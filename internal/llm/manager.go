package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"resumelens/internal/config"
	"resumelens/internal/logging"
	"resumelens/pkg/models"
	"resumelens/pkg/utils"
)

// Manager owns the provider instances and fronts every outbound model call.
// It resolves which vendor a request actually goes to, which model id and
// credential the call uses, and applies outbound throttling and deadlines
// before delegating to the provider.
type Manager struct {
	config    *config.Config
	factory   *Factory
	providers map[string]Provider
	limiter   *OutboundLimiter
	logger    logging.Logger
	mu        sync.RWMutex
	started   bool
}

// NewManager creates a new LLM manager instance
func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		config:  cfg,
		factory: NewFactory(cfg),
		limiter: NewOutboundLimiter(cfg.LLM.RequestsPerMinute),
		logger:  logging.GetGlobalLogger(),
	}
}

// Start instantiates every supported provider. A provider without a default
// credential still starts: callers supplying their own key per request can
// use it, so missing keys are logged, not fatal.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.providers = make(map[string]Provider)
	for _, name := range m.factory.GetSupportedProviders() {
		provider, err := m.factory.CreateProvider(name)
		if err != nil {
			return fmt.Errorf("failed to create LLM provider %s: %w", name, err)
		}
		m.providers[name] = provider

		if err := provider.IsHealthy(context.Background()); err != nil {
			m.logger.Warn("LLM provider has no default credential - callers must supply their own key", map[string]interface{}{
				"provider": name,
				"error":    err.Error(),
			})
		}
	}

	m.started = true
	m.logger.Info("LLM manager started", map[string]interface{}{
		"providers":        m.factory.GetSupportedProviders(),
		"default_provider": m.config.LLM.Provider,
	})
	return nil
}

// Stop shuts down the LLM manager
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("Stopping LLM manager")
	m.providers = nil
	m.started = false
	return nil
}

// Generate routes one model invocation to the resolved provider. The request's
// nominal provider may be overridden by the model id; the credential is the
// request's own key or the provider's configured default, and the call fails
// before any network activity when neither exists.
func (m *Manager) Generate(ctx context.Context, req models.GenerateRequest) (*models.Generation, error) {
	m.mu.RLock()
	providers := m.providers
	started := m.started
	m.mu.RUnlock()

	if !started || providers == nil {
		return nil, utils.NewInternalServerError("LLM manager not started")
	}

	if req.Model == "" {
		req.Model = m.config.LLM.Model
	}
	name := ResolveProvider(req.Provider, req.Model)
	if name != req.Provider && req.Provider != "" {
		m.logger.Debug("Provider overridden by model id", map[string]interface{}{
			"requested": req.Provider,
			"resolved":  name,
			"model":     req.Model,
		})
	}
	req.Provider = name

	provider, ok := providers[name]
	if !ok {
		return nil, utils.NewBadRequestError(fmt.Sprintf("Unsupported LLM provider: %s", name))
	}

	key, err := m.resolveCredential(name, req.APIKey)
	if err != nil {
		return nil, err
	}
	req.APIKey = key

	if req.Model == "" {
		req.Model = m.defaultModel(name)
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = m.config.LLM.MaxTokens
	}

	if err := m.limiter.Wait(ctx, name); err != nil {
		return nil, fmt.Errorf("outbound rate limit wait aborted: %w", err)
	}

	// Streamed generations outlive this call, so only buffered calls get
	// a deadline here; streams are bounded by the caller's context.
	if !req.Stream && m.config.LLM.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.config.LLM.RequestTimeout)
		defer cancel()
	}

	gen, err := provider.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, utils.NewDeadlineError(fmt.Sprintf("LLM provider %s did not respond within %s", name, m.config.LLM.RequestTimeout))
		}
		return nil, err
	}
	return gen, nil
}

// resolveCredential returns the key for this call: the request's own value
// wins, then the provider's configured default. The request value is used
// for this single call and never touches the stored configuration.
func (m *Manager) resolveCredential(provider, requestKey string) (string, error) {
	if requestKey != "" {
		return requestKey, nil
	}

	var defaultKey, envVar string
	switch provider {
	case models.ProviderOpenAI:
		defaultKey, envVar = m.config.LLM.OpenAI.APIKey, "OPENAI_API_KEY"
	case models.ProviderGemini:
		defaultKey, envVar = m.config.LLM.Gemini.APIKey, "GEMINI_API_KEY"
	}
	if defaultKey == "" {
		return "", utils.NewConfigurationError(fmt.Sprintf("No API key for provider %s: supply provider_api_key or set %s", provider, envVar))
	}
	return defaultKey, nil
}

// defaultModel returns the configured model id for a provider
func (m *Manager) defaultModel(provider string) string {
	switch provider {
	case models.ProviderGemini:
		return m.config.LLM.Gemini.Model
	default:
		return m.config.LLM.OpenAI.Model
	}
}

// IsHealthy reports whether the manager is started
func (m *Manager) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.started
}

// GetSupportedProviders returns the names of all registered providers
func (m *Manager) GetSupportedProviders() []string {
	return m.factory.GetSupportedProviders()
}

// CheckHealth reports per-provider credential status for the health endpoint
func (m *Manager) CheckHealth(ctx context.Context) map[string]string {
	m.mu.RLock()
	providers := m.providers
	m.mu.RUnlock()

	checks := make(map[string]string)
	for name, provider := range providers {
		if err := provider.IsHealthy(ctx); err != nil {
			checks[name] = "no_default_credential"
		} else {
			checks[name] = "configured"
		}
	}
	return checks
}

// GetLimiterStats exposes outbound throttle counters for diagnostics
func (m *Manager) GetLimiterStats() map[string]map[string]interface{} {
	return m.limiter.GetStats()
}
