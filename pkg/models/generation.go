package models

// Supported LLM providers
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// GenerateRequest represents a single model invocation passed to a provider.
// APIKey holds the already-resolved credential for this one call; it is
// never serialized and never stored beyond the request.
type GenerateRequest struct {
	Provider     string  `json:"provider"`
	Model        string  `json:"model"`
	SystemPrompt string  `json:"-"`
	UserMessage  string  `json:"-"`
	APIKey       string  `json:"-"`
	MaxTokens    int     `json:"max_tokens,omitempty"`
	Temperature  float32 `json:"temperature,omitempty"`
	Stream       bool    `json:"stream,omitempty"`
}

// Chunk represents one piece of a streamed generation. A non-nil Err is
// terminal: the stream closes after delivering it.
type Chunk struct {
	Text string
	Err  error
}

// Generation is the outcome of one model invocation: buffered text or a
// stream of chunks, never both. Provider records the vendor actually used,
// which may differ from the one requested.
type Generation struct {
	Provider string
	Model    string
	Text     string
	Stream   <-chan Chunk
}

// Streaming reports whether the generation must be consumed from the chunk stream
func (g *Generation) Streaming() bool {
	return g.Stream != nil
}
