package providers

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"resumelens/internal/config"
	"resumelens/internal/logging"
	"resumelens/pkg/models"
	"resumelens/pkg/utils"
)

// GeminiProvider implements the provider interface against Google's
// generative API. It is the only provider that supports streamed output.
type GeminiProvider struct {
	config *config.Config
	logger logging.Logger
}

// NewGeminiProvider creates a new Gemini provider instance
func NewGeminiProvider(cfg *config.Config) *GeminiProvider {
	return &GeminiProvider{
		config: cfg,
		logger: logging.GetGlobalLogger(),
	}
}

// Generate issues one model invocation, streamed or buffered. The client is
// built fresh from the request credential and discarded with the call.
func (gp *GeminiProvider) Generate(ctx context.Context, req models.GenerateRequest) (*models.Generation, error) {
	startTime := time.Now()
	model := utils.GetStringOrDefault(req.Model, gp.config.LLM.Gemini.Model)

	gp.logger.Info("Starting Gemini generation", map[string]interface{}{
		"provider":      models.ProviderGemini,
		"model":         model,
		"stream":        req.Stream,
		"prompt_length": len(req.UserMessage),
	})

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  req.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	temperature := req.Temperature
	generateConfig := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemPrompt}},
		},
	}
	if req.MaxTokens > 0 {
		generateConfig.MaxOutputTokens = int32(req.MaxTokens)
	}
	contents := genai.Text(req.UserMessage)

	if req.Stream {
		return gp.generateStream(ctx, client, model, contents, generateConfig), nil
	}

	resp, err := client.Models.GenerateContent(ctx, model, contents, generateConfig)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content failed: %w", err)
	}

	text := resp.Text()
	gp.logger.Info("Gemini generation completed", map[string]interface{}{
		"provider":        models.ProviderGemini,
		"model":           model,
		"response_length": len(text),
		"processing_time": time.Since(startTime),
	})

	return &models.Generation{
		Provider: models.ProviderGemini,
		Model:    model,
		Text:     text,
	}, nil
}

// generateStream fans the vendor's response iterator into a chunk channel.
// The channel closes when the model finishes, the stream fails, or the
// context ends; a failure is delivered as a terminal chunk.
func (gp *GeminiProvider) generateStream(ctx context.Context, client *genai.Client, model string, contents []*genai.Content, generateConfig *genai.GenerateContentConfig) *models.Generation {
	ch := make(chan models.Chunk)

	go func() {
		defer close(ch)
		for resp, err := range client.Models.GenerateContentStream(ctx, model, contents, generateConfig) {
			if err != nil {
				select {
				case ch <- models.Chunk{Err: fmt.Errorf("gemini stream failed: %w", err)}:
				case <-ctx.Done():
				}
				return
			}
			text := resp.Text()
			if text == "" {
				continue
			}
			select {
			case ch <- models.Chunk{Text: text}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return &models.Generation{
		Provider: models.ProviderGemini,
		Model:    model,
		Stream:   ch,
	}
}

// IsHealthy checks whether a default API key is configured
func (gp *GeminiProvider) IsHealthy(ctx context.Context) error {
	if gp.config.LLM.Gemini.APIKey == "" {
		return fmt.Errorf("Gemini API key not configured - set GEMINI_API_KEY environment variable")
	}
	return nil
}

// GetProviderName returns the name of the LLM provider
func (gp *GeminiProvider) GetProviderName() string {
	return models.ProviderGemini
}
