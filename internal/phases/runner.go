package phases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"resumelens/internal/config"
	"resumelens/internal/llm"
	"resumelens/internal/llm/processors"
	"resumelens/internal/llm/prompts"
	"resumelens/internal/logging"
	"resumelens/pkg/models"
	"resumelens/pkg/utils"
)

// Phase names
const (
	PhaseAnalysis = "analysis"
	PhaseRewrite  = "rewrite"
)

// ParseError reports model output that failed JSON parsing after
// normalization. It keeps the raw and normalized text so operators can
// diagnose the failure without re-running the request; callers map it to
// an upstream-error response and must not echo the retained text.
type ParseError struct {
	Phase      string
	Provider   string
	Raw        string
	Normalized string
	Err        error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s phase returned unparseable JSON from provider %s: %v", e.Phase, e.Provider, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Adapter is the slice of the provider layer the runner needs
type Adapter interface {
	Generate(ctx context.Context, req models.GenerateRequest) (*models.Generation, error)
}

// ChunkSink receives response text incrementally: every chunk of a streamed
// generation, or the whole text once for a buffered one. A sink error
// aborts the phase.
type ChunkSink func(text string) error

// Runner orchestrates one phase: build the prompt, invoke the provider,
// normalize the response, parse it into the phase's result shape. One
// invocation makes at most one outbound call; there are no retries and no
// fallback to another provider.
type Runner struct {
	config     *config.Config
	adapter    Adapter
	normalizer *processors.Normalizer
	logger     logging.Logger
}

// NewRunner creates a new phase runner
func NewRunner(cfg *config.Config, adapter Adapter) *Runner {
	return &Runner{
		config:     cfg,
		adapter:    adapter,
		normalizer: processors.NewNormalizer(),
		logger:     logging.GetGlobalLogger(),
	}
}

// ResolveProvider reports which provider a request will actually reach after
// defaults and the model-id override are applied. Handlers use it to tag
// responses before the first streamed byte goes out.
func (r *Runner) ResolveProvider(provider, model string) string {
	provider = utils.GetStringOrDefault(provider, r.config.LLM.Provider)
	model = utils.GetStringOrDefault(model, r.config.LLM.Model)
	return llm.ResolveProvider(provider, model)
}

// RunAnalysis executes the analysis phase and returns the parsed result
// and the provider actually used.
func (r *Runner) RunAnalysis(ctx context.Context, req *models.AnalyzeRequest, sink ChunkSink) (*models.AnalysisResult, string, error) {
	genReq := r.newGenerateRequest(req.Provider, req.Model, req.ProviderAPIKey, req.Constraints, sink != nil)
	genReq.SystemPrompt = prompts.AnalysisSystemPrompt()
	genReq.UserMessage = prompts.BuildAnalysisMessage(req)

	var result models.AnalysisResult
	provider, err := r.run(ctx, PhaseAnalysis, genReq, sink, &result)
	if err != nil {
		return nil, provider, err
	}
	return &result, provider, nil
}

// RunRewrite executes the rewrite phase. A rewrite never runs without the
// parsed result of a prior analysis call.
func (r *Runner) RunRewrite(ctx context.Context, req *models.RewriteRequest, sink ChunkSink) (*models.RewriteResult, string, error) {
	if req.Analysis == nil {
		return nil, "", utils.NewValidationError("Rewrite requires the analysis result of a prior analyze call")
	}

	genReq := r.newGenerateRequest(req.Provider, req.Model, req.ProviderAPIKey, req.Constraints, sink != nil)
	genReq.SystemPrompt = prompts.RewriteSystemPrompt()
	genReq.UserMessage = prompts.BuildRewriteMessage(req)

	var result models.RewriteResult
	provider, err := r.run(ctx, PhaseRewrite, genReq, sink, &result)
	if err != nil {
		return nil, provider, err
	}
	return &result, provider, nil
}

// newGenerateRequest fills provider, model, and generation settings from the
// request with config defaults
func (r *Runner) newGenerateRequest(provider, model, apiKey string, constraints *models.OutputConstraints, stream bool) models.GenerateRequest {
	genReq := models.GenerateRequest{
		Provider:    utils.GetStringOrDefault(provider, r.config.LLM.Provider),
		Model:       utils.GetStringOrDefault(model, r.config.LLM.Model),
		APIKey:      apiKey,
		MaxTokens:   r.config.LLM.MaxTokens,
		Temperature: r.config.LLM.Temperature,
		Stream:      stream,
	}
	if constraints != nil && constraints.MaxOutputTokens > 0 {
		genReq.MaxTokens = constraints.MaxOutputTokens
	}
	return genReq
}

// run drives one phase invocation through its full lifecycle: invoke the
// adapter, collect the text, normalize by the provider actually used, parse
// into out. Returns the actual provider alongside any error so callers can
// tag failures correctly.
func (r *Runner) run(ctx context.Context, phase string, genReq models.GenerateRequest, sink ChunkSink, out interface{}) (string, error) {
	startTime := time.Now()
	provider := llm.ResolveProvider(genReq.Provider, genReq.Model)

	r.logger.Info("Starting phase", map[string]interface{}{
		"phase":    phase,
		"provider": provider,
		"model":    genReq.Model,
		"stream":   genReq.Stream,
	})

	gen, err := r.adapter.Generate(ctx, genReq)
	if err != nil {
		return provider, err
	}
	provider = gen.Provider

	raw := gen.Text
	if gen.Streaming() {
		raw, err = r.drainStream(gen, sink)
		if err != nil {
			return provider, err
		}
	} else if sink != nil && raw != "" {
		if err := sink(raw); err != nil {
			return provider, fmt.Errorf("response sink failed: %w", err)
		}
	}

	if strings.TrimSpace(raw) == "" {
		return provider, utils.NewEmptyResponseError(fmt.Sprintf("Model returned no text for %s phase (provider %s)", phase, provider))
	}

	normalized := r.normalizer.Normalize(provider, raw)

	if err := json.Unmarshal([]byte(normalized), out); err != nil {
		parseErr := &ParseError{
			Phase:      phase,
			Provider:   provider,
			Raw:        raw,
			Normalized: normalized,
			Err:        err,
		}
		r.logParseFailure(parseErr)
		return provider, parseErr
	}

	r.logger.Info("Phase completed", map[string]interface{}{
		"phase":           phase,
		"provider":        provider,
		"response_length": len(raw),
		"processing_time": time.Since(startTime),
	})
	return provider, nil
}

// drainStream concatenates chunks in arrival order, forwarding each to the
// sink as it lands. A chunk error is terminal: partial text is discarded
// rather than parsed as if complete.
func (r *Runner) drainStream(gen *models.Generation, sink ChunkSink) (string, error) {
	var sb strings.Builder
	for chunk := range gen.Stream {
		if chunk.Err != nil {
			return "", chunk.Err
		}
		sb.WriteString(chunk.Text)
		if sink != nil {
			if err := sink(chunk.Text); err != nil {
				return "", fmt.Errorf("response sink failed: %w", err)
			}
		}
	}
	return sb.String(), nil
}

// logParseFailure records the diagnostic detail operators need: previews of
// the raw and normalized text plus the character context around the parse
// error. This detail stays in the logs; the caller-facing error is generic.
func (r *Runner) logParseFailure(pe *ParseError) {
	fields := map[string]interface{}{
		"phase":              pe.Phase,
		"provider":           pe.Provider,
		"raw_length":         len(pe.Raw),
		"truncated":          r.normalizer.IsTruncated(pe.Normalized),
		"raw_preview":        utils.Truncate(pe.Raw, 300),
		"normalized_preview": utils.Truncate(pe.Normalized, 300),
		"error":              pe.Err.Error(),
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	offset := int64(-1)
	if errors.As(pe.Err, &syntaxErr) {
		offset = syntaxErr.Offset
	} else if errors.As(pe.Err, &typeErr) {
		offset = typeErr.Offset
	}
	if offset >= 0 {
		fields["parse_offset"] = offset
		fields["parse_context"] = parseContext(pe.Normalized, offset)
	}

	r.logger.Error("Phase response failed JSON parse", fields)
}

// parseContext returns the text surrounding a parse error offset
func parseContext(text string, offset int64) string {
	const window = 40
	start := offset - window
	if start < 0 {
		start = 0
	}
	end := offset + window
	if end > int64(len(text)) {
		end = int64(len(text))
	}
	return text[start:end]
}
