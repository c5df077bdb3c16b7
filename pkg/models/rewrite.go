package models

// RewriteResult represents the structured rewrite JSON returned by the model
type RewriteResult struct {
	ImprovedResume string         `json:"improved_resume"`
	Changes        []ResumeChange `json:"changes"`
	NextSteps      []string       `json:"next_steps"`
}

// ResumeChange represents one entry in the rewrite change log
type ResumeChange struct {
	Section     string `json:"section"`
	ChangeType  string `json:"change_type"` // "added", "removed", "modified", "restructured"
	Description string `json:"description"`
	Original    string `json:"original,omitempty"`
	Improved    string `json:"improved,omitempty"`
}
