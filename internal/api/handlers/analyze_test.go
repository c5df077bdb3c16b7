package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"resumelens/internal/api/middleware"
	"resumelens/internal/config"
	"resumelens/internal/llm"
	"resumelens/internal/phases"
	"resumelens/pkg/models"
	"resumelens/pkg/utils"
)

const analysisJSON = `{
	"meta": {"language": "en", "perspective": "recruiter", "region": "global", "schema_version": "1.0"},
	"profile": {
		"headline": "Senior Software Engineer",
		"summary": "Engineer with 8 years of distributed systems experience.",
		"skills": ["Go", "Python"],
		"experience": [{"company": "Acme", "role": "Senior Engineer", "period": "2019-2026", "highlights": ["Led monolith migration"]}],
		"education": [{"institution": "State University", "degree": "BSc Computer Science", "period": "2011-2015"}]
	},
	"diagnostics": {
		"scores": {"clarity": 7.5, "impact": 6.0, "structure": 8.0, "tailoring": 5.5, "completeness": 7.0},
		"score_explanation": "Strong structure, weak tailoring.",
		"strengths": ["Clear progression"],
		"gaps": ["No metrics"],
		"risks": ["Reads generic"]
	},
	"keyword_helper": {"enabled": false, "message": "No job description provided"},
	"recommendations": {
		"global": ["Quantify the migration outcome"],
		"rewrite_criteria": {"tone": "confident", "length": "one page", "style": "metric-led"}
	}
}`

// spyAdapter records generate calls and plays back a canned generation,
// tagging it with the resolved provider the way the manager does.
type spyAdapter struct {
	calls   int
	lastReq models.GenerateRequest
	gen     *models.Generation
	err     error
}

func (a *spyAdapter) Generate(ctx context.Context, req models.GenerateRequest) (*models.Generation, error) {
	a.calls++
	a.lastReq = req
	if a.err != nil {
		return nil, a.err
	}
	gen := a.gen
	if gen == nil {
		gen = &models.Generation{Text: analysisJSON}
	}
	if gen.Provider == "" {
		gen.Provider = llm.ResolveProvider(req.Provider, req.Model)
	}
	return gen, nil
}

func handlerConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LLM.Provider = models.ProviderOpenAI
	cfg.LLM.MaxTokens = 4096
	cfg.LLM.Temperature = 0.1
	return cfg
}

// newTestServer mounts the analyze and rewrite handlers behind the same
// middleware the real router uses.
func newTestServer(adapter phases.Adapter) *echo.Echo {
	cfg := handlerConfig()
	runner := phases.NewRunner(cfg, adapter)

	e := echo.New()
	e.Use(middleware.RequestValidation())
	v1 := e.Group("/api/v1")
	v1.POST("/analyze", AnalyzeHandler(cfg, runner))
	v1.POST("/rewrite", RewriteHandler(cfg, runner))
	return e
}

func postJSON(e *echo.Echo, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func validResume() string {
	return strings.Repeat("Senior engineer shipping Go services. ", 5)
}

func TestAnalyzeRejectsShortResume(t *testing.T) {
	adapter := &spyAdapter{}
	e := newTestServer(adapter)

	rec := postJSON(e, "/api/v1/analyze", models.AnalyzeRequest{ResumeText: strings.Repeat("a", 99)})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Error != "validation_failed" {
		t.Errorf("error = %q, want validation_failed", resp.Error)
	}
	if resp.Message != "Resume text too short: minimum 100 characters" {
		t.Errorf("message = %q, want the actionable length message", resp.Message)
	}
	if resp.RequestID == "" {
		t.Error("error response must carry a request id")
	}

	// Validation must reject before any model call.
	if adapter.calls != 0 {
		t.Errorf("adapter calls = %d, want 0", adapter.calls)
	}
}

func TestAnalyzeRejectsLongResume(t *testing.T) {
	adapter := &spyAdapter{}
	e := newTestServer(adapter)

	rec := postJSON(e, "/api/v1/analyze", models.AnalyzeRequest{ResumeText: strings.Repeat("a", 15001)})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp models.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Message != "Resume text too long: maximum 15000 characters" {
		t.Errorf("message = %q, want the actionable length message", resp.Message)
	}
	if adapter.calls != 0 {
		t.Errorf("adapter calls = %d, want 0", adapter.calls)
	}
}

func TestAnalyzeAcceptsBoundaryLength(t *testing.T) {
	adapter := &spyAdapter{}
	e := newTestServer(adapter)

	// Exactly 100 characters is valid: the bounds are inclusive.
	rec := postJSON(e, "/api/v1/analyze", models.AnalyzeRequest{ResumeText: strings.Repeat("a", 100)})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-Provider-Used"); got != models.ProviderOpenAI {
		t.Errorf("X-Provider-Used = %q, want %q", got, models.ProviderOpenAI)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header must be set")
	}

	// Without a job description the keyword helper is disabled with an
	// explanation, and the keyword fields are absent, not null.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	var helper map[string]json.RawMessage
	if err := json.Unmarshal(raw["keyword_helper"], &helper); err != nil {
		t.Fatalf("Failed to decode keyword_helper: %v", err)
	}
	if string(helper["enabled"]) != "false" {
		t.Errorf("keyword_helper.enabled = %s, want false", helper["enabled"])
	}
	if _, ok := helper["message"]; !ok {
		t.Error("disabled keyword helper must carry a message")
	}
	if _, ok := helper["missing_keywords"]; ok {
		t.Error("disabled keyword helper must omit missing_keywords entirely")
	}
	if adapter.calls != 1 {
		t.Errorf("adapter calls = %d, want 1", adapter.calls)
	}
}

func TestAnalyzeInvalidEnum(t *testing.T) {
	adapter := &spyAdapter{}
	e := newTestServer(adapter)

	rec := postJSON(e, "/api/v1/analyze", models.AnalyzeRequest{
		ResumeText:  validResume(),
		Perspective: "janitor",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp models.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if !strings.Contains(resp.Message, "Perspective") {
		t.Errorf("message = %q, want the offending field named", resp.Message)
	}
	if adapter.calls != 0 {
		t.Errorf("adapter calls = %d, want 0", adapter.calls)
	}
}

func TestAnalyzeMalformedBody(t *testing.T) {
	adapter := &spyAdapter{}
	e := newTestServer(adapter)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(`{not json`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp models.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Error != "invalid_request" {
		t.Errorf("error = %q, want invalid_request", resp.Error)
	}
}

func TestAnalyzeParseFailureReturns502(t *testing.T) {
	rawFragment := `{"meta": {"language": "en", "persp`
	adapter := &spyAdapter{gen: &models.Generation{Text: rawFragment}}
	e := newTestServer(adapter)

	rec := postJSON(e, "/api/v1/analyze", models.AnalyzeRequest{ResumeText: validResume()})

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	var resp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Error != "upstream_parse_error" {
		t.Errorf("error = %q, want upstream_parse_error", resp.Error)
	}
	if !strings.Contains(resp.Message, "was not valid JSON") || !strings.Contains(resp.Message, "retry") {
		t.Errorf("message = %q, want the generic retry message", resp.Message)
	}

	// The model's raw text is diagnostic detail for the logs, never for
	// the caller.
	if strings.Contains(rec.Body.String(), "persp") {
		t.Error("response body must not echo the raw model text")
	}
}

func TestAnalyzeEmptyModelResponse(t *testing.T) {
	adapter := &spyAdapter{gen: &models.Generation{Text: ""}}
	e := newTestServer(adapter)

	rec := postJSON(e, "/api/v1/analyze", models.AnalyzeRequest{ResumeText: validResume()})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var resp models.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Message != "Model returned an empty response" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestAnalyzeConfigurationErrorStaysGeneric(t *testing.T) {
	adapter := &spyAdapter{err: utils.NewConfigurationError("No API key for provider openai: supply provider_api_key or set OPENAI_API_KEY")}
	e := newTestServer(adapter)

	rec := postJSON(e, "/api/v1/analyze", models.AnalyzeRequest{ResumeText: validResume()})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var resp models.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Message != "Provider configuration incomplete" {
		t.Errorf("message = %q, want the generic configuration message", resp.Message)
	}

	// The env var hint is for operators reading logs, not for callers.
	if strings.Contains(rec.Body.String(), "OPENAI_API_KEY") {
		t.Error("response body must not leak configuration detail")
	}
}

func TestAnalyzeVendorErrorStaysGeneric(t *testing.T) {
	adapter := &spyAdapter{err: errors.New("dial tcp 104.18.6.192:443: connection refused")}
	e := newTestServer(adapter)

	rec := postJSON(e, "/api/v1/analyze", models.AnalyzeRequest{ResumeText: validResume()})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var resp models.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Error != "provider_error" {
		t.Errorf("error = %q, want provider_error", resp.Error)
	}
	if strings.Contains(resp.Message, "connection refused") {
		t.Errorf("message = %q, transport detail must stay in the logs", resp.Message)
	}
}

func TestAnalyzeTimeoutReturns504(t *testing.T) {
	adapter := &spyAdapter{err: utils.NewDeadlineError("LLM provider openai did not respond within 2m0s")}
	e := newTestServer(adapter)

	rec := postJSON(e, "/api/v1/analyze", models.AnalyzeRequest{ResumeText: validResume()})

	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want 504", rec.Code)
	}
	var resp models.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Error != "upstream_timeout" {
		t.Errorf("error = %q, want upstream_timeout", resp.Error)
	}
}

func TestAnalyzeProviderOverrideHeader(t *testing.T) {
	adapter := &spyAdapter{}
	e := newTestServer(adapter)

	rec := postJSON(e, "/api/v1/analyze", models.AnalyzeRequest{
		ResumeText: validResume(),
		Provider:   models.ProviderOpenAI,
		Model:      "gemini-2.0-flash",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-Provider-Used"); got != models.ProviderGemini {
		t.Errorf("X-Provider-Used = %q, want %q after model override", got, models.ProviderGemini)
	}
}

func TestAnalyzeStreamed(t *testing.T) {
	adapter := &spyAdapter{}
	e := newTestServer(adapter)

	rec := postJSON(e, "/api/v1/analyze?stream=true", models.AnalyzeRequest{ResumeText: validResume()})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !adapter.lastReq.Stream {
		t.Error("stream mode must be forwarded to the generate request")
	}

	// The body is the model's JSON as raw bytes, parseable once complete.
	if rec.Body.String() != analysisJSON {
		t.Error("streamed body must be the exact response text")
	}
	var result models.AnalysisResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("streamed body must parse as one JSON document: %v", err)
	}
	if result.Profile.Headline != "Senior Software Engineer" {
		t.Errorf("headline = %q", result.Profile.Headline)
	}
}

func TestAnalyzeStreamedValidationStillFails(t *testing.T) {
	adapter := &spyAdapter{}
	e := newTestServer(adapter)

	rec := postJSON(e, "/api/v1/analyze?stream=true", models.AnalyzeRequest{ResumeText: "too short"})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 before any streamed byte", rec.Code)
	}
	if adapter.calls != 0 {
		t.Errorf("adapter calls = %d, want 0", adapter.calls)
	}
}

func TestAnalyzeStreamedParseFailure(t *testing.T) {
	// Empty generation: the failure happens before the first streamed
	// byte, so the caller still gets a proper error status.
	adapter := &spyAdapter{gen: &models.Generation{Text: ""}}
	e := newTestServer(adapter)

	rec := postJSON(e, "/api/v1/analyze?stream=true", models.AnalyzeRequest{ResumeText: validResume()})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var resp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
}
