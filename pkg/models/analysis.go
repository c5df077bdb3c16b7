package models

// AnalysisResult represents the structured analysis JSON returned by the model.
// Every field is pass-through: the service parses but never rewrites values,
// including diagnostic scores outside their documented range.
type AnalysisResult struct {
	Meta            AnalysisMeta    `json:"meta"`
	Profile         ResumeProfile   `json:"profile"`
	Diagnostics     Diagnostics     `json:"diagnostics"`
	KeywordHelper   KeywordHelper   `json:"keyword_helper"`
	Recommendations Recommendations `json:"recommendations"`
}

// AnalysisMeta carries generation metadata reported by the model
type AnalysisMeta struct {
	Language      string   `json:"language"`
	Perspective   string   `json:"perspective"`
	Region        string   `json:"region"`
	SchemaVersion string   `json:"schema_version"`
	Warnings      []string `json:"warnings,omitempty"`
	Errors        []string `json:"errors,omitempty"`
}

// ResumeProfile represents the profile the model extracted from the résumé text
type ResumeProfile struct {
	Headline       string            `json:"headline"`
	Summary        string            `json:"summary"`
	Skills         []string          `json:"skills"`
	Experience     []ExperienceEntry `json:"experience"`
	Education      []EducationEntry  `json:"education"`
	Certifications []string          `json:"certifications,omitempty"`
	Achievements   []string          `json:"achievements,omitempty"`
}

// ExperienceEntry represents one position in the extracted work history
type ExperienceEntry struct {
	Company    string   `json:"company"`
	Role       string   `json:"role"`
	Period     string   `json:"period"`
	Highlights []string `json:"highlights"`
}

// EducationEntry represents one entry in the extracted education history
type EducationEntry struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Period      string `json:"period"`
}

// Diagnostics represents the model's quality assessment of the résumé.
// Scores are reported on a 0.0-10.0 scale with one decimal; the service
// does not clamp or validate them.
type Diagnostics struct {
	Scores           DiagnosticScores `json:"scores"`
	ScoreExplanation string           `json:"score_explanation"`
	Strengths        []string         `json:"strengths"`
	Gaps             []string         `json:"gaps"`
	Risks            []string         `json:"risks"`
}

// DiagnosticScores represents the five per-dimension scores
type DiagnosticScores struct {
	Clarity      float64 `json:"clarity"`
	Impact       float64 `json:"impact"`
	Structure    float64 `json:"structure"`
	Tailoring    float64 `json:"tailoring"`
	Completeness float64 `json:"completeness"`
}

// KeywordHelper represents the job-description keyword comparison block.
// When no job description was supplied the block is disabled and only
// Enabled and Message are populated.
type KeywordHelper struct {
	Enabled                bool     `json:"enabled"`
	Message                string   `json:"message,omitempty"`
	JDKeywords             []string `json:"jd_keywords,omitempty"`
	MissingKeywords        []string `json:"missing_keywords,omitempty"`
	IntegrationSuggestions []string `json:"integration_suggestions,omitempty"`
}

// Recommendations represents improvement guidance for the rewrite phase
type Recommendations struct {
	Global          []string            `json:"global"`
	PerSection      map[string][]string `json:"per_section,omitempty"`
	RewriteCriteria RewriteCriteria     `json:"rewrite_criteria"`
}

// RewriteCriteria represents the tone/length/style targets the rewrite phase should honor
type RewriteCriteria struct {
	Tone   string `json:"tone"`
	Length string `json:"length"`
	Style  string `json:"style"`
}
