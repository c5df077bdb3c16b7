package models

// AnalyzeRequest represents the request payload for the analysis phase
type AnalyzeRequest struct {
	ResumeText     string             `json:"resume_text" validate:"required,min=100,max=15000"`
	Perspective    string             `json:"perspective,omitempty" validate:"omitempty,perspective"`
	Language       string             `json:"language,omitempty" validate:"omitempty,output_language"`
	Region         string             `json:"region,omitempty" validate:"omitempty,region"`
	TargetRole     string             `json:"target_role,omitempty"`
	JobDescription string             `json:"job_description,omitempty"`
	Tone           string             `json:"tone,omitempty" validate:"omitempty,tone"`
	Provider       string             `json:"provider,omitempty" validate:"omitempty,llm_provider"`
	Model          string             `json:"model,omitempty"`
	ProviderAPIKey string             `json:"provider_api_key,omitempty"`
	Constraints    *OutputConstraints `json:"constraints,omitempty"`
}

// RewriteRequest represents the request payload for the rewrite phase.
// Analysis carries the full result of a prior analysis call; rewrite
// never runs without it.
type RewriteRequest struct {
	ResumeText     string             `json:"resume_text" validate:"required,min=100,max=15000"`
	Analysis       *AnalysisResult    `json:"analysis" validate:"required"`
	Perspective    string             `json:"perspective,omitempty" validate:"omitempty,perspective"`
	Language       string             `json:"language,omitempty" validate:"omitempty,output_language"`
	Region         string             `json:"region,omitempty" validate:"omitempty,region"`
	TargetRole     string             `json:"target_role,omitempty"`
	Provider       string             `json:"provider,omitempty" validate:"omitempty,llm_provider"`
	Model          string             `json:"model,omitempty"`
	ProviderAPIKey string             `json:"provider_api_key,omitempty"`
	Constraints    *OutputConstraints `json:"constraints,omitempty"`
}

// OutputConstraints provides additional generation settings for a request
type OutputConstraints struct {
	MaxOutputTokens int    `json:"max_output_tokens,omitempty" validate:"omitempty,min=1,max=32768"`
	Format          string `json:"format,omitempty"` // "markdown"
	Tone            string `json:"tone,omitempty" validate:"omitempty,tone"`
}
