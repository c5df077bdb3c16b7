package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"resumelens/internal/config"
	"resumelens/internal/logging"
	"resumelens/pkg/models"
	"resumelens/pkg/utils"
)

// OpenAIProvider implements the provider interface against OpenAI's API.
// Standard models go through chat completions; next-generation model ids
// use the structured responses endpoint, which returns content blocks
// instead of a flat message.
type OpenAIProvider struct {
	config     *config.Config
	httpClient *http.Client
	logger     logging.Logger
}

// NewOpenAIProvider creates a new OpenAI provider instance
func NewOpenAIProvider(cfg *config.Config) *OpenAIProvider {
	return &OpenAIProvider{
		config:     cfg,
		httpClient: &http.Client{},
		logger:     logging.GetGlobalLogger(),
	}
}

// Generate issues one model invocation. The request credential is used to
// build a throwaway client for this single call and goes out of scope with it.
func (op *OpenAIProvider) Generate(ctx context.Context, req models.GenerateRequest) (*models.Generation, error) {
	startTime := time.Now()
	model := utils.GetStringOrDefault(req.Model, op.config.LLM.OpenAI.Model)

	op.logger.Info("Starting OpenAI generation", map[string]interface{}{
		"provider":      models.ProviderOpenAI,
		"model":         model,
		"responses_api": usesResponsesAPI(model),
		"prompt_length": len(req.UserMessage),
	})

	var (
		text string
		err  error
	)
	if usesResponsesAPI(model) {
		text, err = op.createResponses(ctx, model, req)
	} else {
		text, err = op.createChatCompletion(ctx, model, req)
	}
	if err != nil {
		return nil, err
	}

	op.logger.Info("OpenAI generation completed", map[string]interface{}{
		"provider":        models.ProviderOpenAI,
		"model":           model,
		"response_length": len(text),
		"processing_time": time.Since(startTime),
	})

	return &models.Generation{
		Provider: models.ProviderOpenAI,
		Model:    model,
		Text:     text,
	}, nil
}

// createChatCompletion calls the flat chat completions API
func (op *OpenAIProvider) createChatCompletion(ctx context.Context, model string, req models.GenerateRequest) (string, error) {
	clientConfig := openai.DefaultConfig(req.APIKey)
	if op.config.LLM.OpenAI.BaseURL != "" {
		clientConfig.BaseURL = op.config.LLM.OpenAI.BaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserMessage},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion failed: %w", err)
	}

	// No choices is an empty generation, classified by the caller
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// responsesAPIRequest is the request body for the structured responses endpoint
type responsesAPIRequest struct {
	Model           string `json:"model"`
	Instructions    string `json:"instructions,omitempty"`
	Input           string `json:"input"`
	MaxOutputTokens int    `json:"max_output_tokens,omitempty"`
}

type responsesAPIResponse struct {
	OutputText string                 `json:"output_text"`
	Output     []responsesOutputBlock `json:"output"`
}

type responsesOutputBlock struct {
	Type    string                   `json:"type"`
	Content []responsesOutputContent `json:"content"`
}

type responsesOutputContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type responsesAPIError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// createResponses calls the structured responses endpoint. The flattened
// output_text field is preferred when the server provides it; otherwise the
// content blocks are scanned for the first one exposing text.
func (op *OpenAIProvider) createResponses(ctx context.Context, model string, req models.GenerateRequest) (string, error) {
	body, err := json.Marshal(responsesAPIRequest{
		Model:           model,
		Instructions:    req.SystemPrompt,
		Input:           req.UserMessage,
		MaxOutputTokens: req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode responses request: %w", err)
	}

	baseURL := strings.TrimSuffix(op.config.LLM.OpenAI.BaseURL, "/")
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build responses request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)

	resp, err := op.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("openai responses call failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read responses body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai responses call returned %d: %s", resp.StatusCode, parseResponsesError(respBody))
	}

	var parsed responsesAPIResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode responses body: %w", err)
	}

	if parsed.OutputText != "" {
		return parsed.OutputText, nil
	}
	for _, block := range parsed.Output {
		for _, content := range block.Content {
			if content.Text != "" {
				return content.Text, nil
			}
		}
	}
	return "", nil
}

// parseResponsesError extracts the vendor error message from a failed call
func parseResponsesError(body []byte) string {
	var apiErr responsesAPIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}
	return utils.Truncate(string(body), 200)
}

// usesResponsesAPI reports whether a model id belongs to the next generation
// that only speaks the structured responses endpoint
func usesResponsesAPI(model string) bool {
	m := strings.ToLower(model)
	return strings.HasPrefix(m, "gpt-5") || strings.Contains(m, "codex")
}

// IsHealthy checks whether a default API key is configured
func (op *OpenAIProvider) IsHealthy(ctx context.Context) error {
	if op.config.LLM.OpenAI.APIKey == "" {
		return fmt.Errorf("OpenAI API key not configured - set OPENAI_API_KEY environment variable")
	}
	return nil
}

// GetProviderName returns the name of the LLM provider
func (op *OpenAIProvider) GetProviderName() string {
	return models.ProviderOpenAI
}
