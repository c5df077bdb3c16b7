package processors

import (
	"encoding/json"
	"strings"

	"resumelens/pkg/models"
)

// Normalizer cleans raw model output into text a JSON parser can take.
// Each provider has a characteristic failure mode, so the cleanup path is
// chosen by the caller that knows which provider produced the text. All
// methods are pure string transforms; failure only becomes observable at
// the downstream JSON parse.
type Normalizer struct{}

// NewNormalizer creates a new normalizer instance
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize applies the cleanup path for the provider that produced the
// text: Gemini output tends to arrive wrapped in markdown code fences,
// OpenAI output tends to be bare JSON that is occasionally cut off.
func (n *Normalizer) Normalize(provider, text string) string {
	switch provider {
	case models.ProviderGemini:
		return n.StripCodeFences(text)
	default:
		return n.AttemptRepair(text)
	}
}

// StripCodeFences removes a leading markdown fence (with or without a
// language tag) and a trailing fence, then trims whitespace. Text without
// fences passes through unchanged, so applying it twice is a no-op.
func (n *Normalizer) StripCodeFences(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
	}
	if strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	return strings.TrimSpace(cleaned)
}

// AttemptRepair inspects output that should already be bare JSON. Text that
// parses is returned unchanged. Truncated text is returned unchanged too:
// a cut-off generation is not locally repairable and has to surface as a
// parse failure rather than be silently patched. No structural repair
// beyond these checks is attempted.
func (n *Normalizer) AttemptRepair(text string) string {
	if json.Valid([]byte(text)) {
		return text
	}
	if n.IsTruncated(text) {
		return text
	}
	return text
}

// IsTruncated reports whether model output looks cut off mid-generation:
// invalid JSON whose trimmed form lacks a closing brace or bracket.
func (n *Normalizer) IsTruncated(text string) bool {
	if json.Valid([]byte(text)) {
		return false
	}
	trimmed := strings.TrimSpace(text)
	return !strings.HasSuffix(trimmed, "}") && !strings.HasSuffix(trimmed, "]")
}
