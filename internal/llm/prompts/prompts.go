package prompts

import (
	"encoding/json"
	"fmt"

	"resumelens/pkg/models"
	"resumelens/pkg/utils"
)

// SchemaVersion is the analysis schema version the model is told to echo
// back in meta.schema_version
const SchemaVersion = "1.0"

// Defaults applied when a request leaves an analysis parameter empty
const (
	DefaultPerspective = "recruiter"
	DefaultLanguage    = "en"
	DefaultRegion      = "global"
	DefaultTone        = "professional"
)

// System prompts are versioned constants. Changing one is a deployment
// decision, never a runtime input.
const analysisSystemPromptV1 = `You are an expert resume analyst. You dissect resumes with the rigor of a seasoned hiring professional and return findings as structured JSON that downstream software parses mechanically.

Core rules you always follow:
- Respond with a single valid JSON object and nothing else: no prose, no markdown, no code fences.
- Ground every statement in the resume text you were given. Never invent employers, dates, titles, metrics, or credentials.
- Where the resume lacks a quantifiable detail worth adding, mark the spot with a bracketed placeholder such as [add metric].
- Be specific and actionable. Generic advice that could apply to any resume is worthless to the caller.`

const rewriteSystemPromptV1 = `You are an expert resume writer. You rewrite resumes to be sharper and better targeted while staying strictly truthful to the source material, and you return your work as structured JSON that downstream software parses mechanically.

Core rules you always follow:
- Respond with a single valid JSON object and nothing else: no prose, no markdown fences around the JSON.
- Never invent employers, dates, titles, metrics, or credentials that are not in the original resume.
- Where a quantifiable detail is missing but would strengthen a bullet, insert a bracketed placeholder such as [add metric] instead of a made-up number.
- Preserve every fact from the original resume unless a change is explicitly recorded in the change log.`

// AnalysisSystemPrompt returns the current analysis-phase system prompt
func AnalysisSystemPrompt() string {
	return analysisSystemPromptV1
}

// RewriteSystemPrompt returns the current rewrite-phase system prompt
func RewriteSystemPrompt() string {
	return rewriteSystemPromptV1
}

// BuildAnalysisMessage builds the analysis-phase user message from a
// validated request. It is a pure function: identical requests always
// produce byte-identical strings.
func BuildAnalysisMessage(req *models.AnalyzeRequest) string {
	perspective := utils.GetStringOrDefault(req.Perspective, DefaultPerspective)
	language := utils.GetStringOrDefault(req.Language, DefaultLanguage)
	region := utils.GetStringOrDefault(req.Region, DefaultRegion)
	tone := utils.GetStringOrDefault(req.Tone, DefaultTone)
	targetRole := utils.GetStringOrDefault(req.TargetRole, "not specified")

	var jdSection, keywordRule string
	if req.JobDescription != "" {
		jdSection = fmt.Sprintf(`JOB DESCRIPTION (for keyword comparison):
%s

`, req.JobDescription)
		keywordRule = `A job description is provided: set keyword_helper.enabled to true and fill jd_keywords, missing_keywords, and integration_suggestions by comparing the resume against it. Preserve the order of importance in missing_keywords.`
	} else {
		keywordRule = `No job description was provided: set keyword_helper.enabled to false, put a short explanation in keyword_helper.message, and omit jd_keywords, missing_keywords, and integration_suggestions entirely.`
	}

	return fmt.Sprintf(`Analyze the resume below and return the analysis as a single JSON object.

ANALYSIS PARAMETERS:
- Perspective: analyze as a %s would
- Output language: %s
- Regional resume conventions: %s
- Target role: %s
- Preferred tone: %s

%sReturn a JSON object with exactly this structure:

{
  "meta": {
    "language": "string - the output language used",
    "perspective": "string - the perspective applied",
    "region": "string - the regional convention applied",
    "schema_version": "%s",
    "warnings": ["array of strings - non-fatal concerns about the input, omit if none"],
    "errors": ["array of strings - problems that degraded the analysis, omit if none"]
  },
  "profile": {
    "headline": "string - one-line professional headline extracted from the resume",
    "summary": "string - 2-3 sentence professional summary",
    "skills": ["array of strings - skills found in the resume"],
    "experience": [{"company": "string", "role": "string", "period": "string", "highlights": ["array of strings"]}],
    "education": [{"institution": "string", "degree": "string", "period": "string"}],
    "certifications": ["array of strings - omit if none found"],
    "achievements": ["array of strings - omit if none found"]
  },
  "diagnostics": {
    "scores": {
      "clarity": number,
      "impact": number,
      "structure": number,
      "tailoring": number,
      "completeness": number
    },
    "score_explanation": "string - short rationale for the scores",
    "strengths": ["array of strings"],
    "gaps": ["array of strings"],
    "risks": ["array of strings - things that could cost an interview"]
  },
  "keyword_helper": {
    "enabled": boolean,
    "message": "string - only when disabled",
    "jd_keywords": ["array of strings - only when enabled"],
    "missing_keywords": ["array of strings - only when enabled"],
    "integration_suggestions": ["array of strings - only when enabled"]
  },
  "recommendations": {
    "global": ["array of strings - resume-wide improvements"],
    "per_section": {"section name": ["array of strings - section-specific improvements"]},
    "rewrite_criteria": {"tone": "string", "length": "string", "style": "string"}
  }
}

IMPORTANT RULES:
1. Return ONLY valid JSON, no additional text, no markdown fences
2. Never fabricate facts: no invented employers, titles, dates, metrics, or credentials. Mark missing quantifiable details with bracketed placeholders such as [add metric]
3. Limit every list to the 5-7 most impactful items
4. Keep each narrative bullet under 24 words
5. Write all output text in "%s" using "%s" resume conventions, judged from the "%s" perspective with a "%s" tone
6. Score each diagnostic dimension on a 0.0-10.0 scale with one decimal place
7. %s
8. Set meta.schema_version to "%s" and echo the applied language, perspective, and region into meta

RESUME TEXT:
%s`, perspective, language, region, targetRole, tone, jdSection, SchemaVersion,
		language, region, perspective, tone, keywordRule, SchemaVersion, req.ResumeText)
}

// BuildRewriteMessage builds the rewrite-phase user message from a validated
// request carrying a prior analysis result. Pure like BuildAnalysisMessage;
// the caller guarantees req.Analysis is non-nil.
func BuildRewriteMessage(req *models.RewriteRequest) string {
	perspective := utils.GetStringOrDefault(req.Perspective, DefaultPerspective)
	language := utils.GetStringOrDefault(req.Language, DefaultLanguage)
	region := utils.GetStringOrDefault(req.Region, DefaultRegion)
	targetRole := utils.GetStringOrDefault(req.TargetRole, "not specified")

	format := "markdown"
	if req.Constraints != nil && req.Constraints.Format != "" {
		format = req.Constraints.Format
	}

	criteriaJSON, _ := json.MarshalIndent(req.Analysis.Recommendations.RewriteCriteria, "", "  ")
	diagnosticsJSON, _ := json.MarshalIndent(req.Analysis.Diagnostics, "", "  ")
	profileJSON, _ := json.MarshalIndent(req.Analysis.Profile, "", "  ")
	recommendationsJSON, _ := json.MarshalIndent(req.Analysis.Recommendations, "", "  ")

	return fmt.Sprintf(`Rewrite the resume below using the prior analysis and return the result as a single JSON object.

REWRITE PARAMETERS:
- Perspective: write for a %s audience
- Output language: %s
- Regional resume conventions: %s
- Target role: %s
- Output format for the improved resume body: %s

REWRITE CRITERIA FROM THE ANALYSIS:
%s

DIAGNOSTICS FROM THE ANALYSIS:
%s

EXTRACTED PROFILE FROM THE ANALYSIS:
%s

RECOMMENDATIONS FROM THE ANALYSIS:
%s

Return a JSON object with exactly this structure:

{
  "improved_resume": "string - the complete rewritten resume in %s format",
  "changes": [
    {
      "section": "string - which resume section changed",
      "change_type": "string - one of: added, removed, modified, restructured",
      "description": "string - what changed and the intent behind it",
      "original": "string - the original snippet, omit for additions",
      "improved": "string - the improved snippet, omit for removals"
    }
  ],
  "next_steps": ["array of strings - follow-up actions for the candidate"]
}

IMPORTANT RULES:
1. Return ONLY valid JSON, no additional text, no markdown fences around the JSON
2. Never fabricate facts: no invented employers, titles, dates, metrics, or credentials. Mark missing quantifiable details with bracketed placeholders such as [add metric]
3. Apply the rewrite criteria and address the gaps and recommendations from the analysis
4. Record every substantive edit in the change log; keep descriptions under 24 words
5. Limit next_steps to the 5-7 most impactful actions
6. Write all output text in "%s" using "%s" resume conventions

ORIGINAL RESUME TEXT:
%s`, perspective, language, region, targetRole, format,
		string(criteriaJSON), string(diagnosticsJSON), string(profileJSON), string(recommendationsJSON),
		format, language, region, req.ResumeText)
}
