package validation

import (
	"github.com/go-playground/validator/v10"
)

// Enumerated values accepted by the analysis parameters. Requests may omit
// any of them (defaults apply), but a present value must be in its set.
var (
	Perspectives = map[string]bool{
		"recruiter":       true,
		"hiring_manager":  true,
		"career_coach":    true,
		"industry_expert": true,
		"ats_scanner":     true,
	}

	OutputLanguages = map[string]bool{
		"en": true,
		"de": true,
		"fr": true,
		"es": true,
		"pt": true,
	}

	Regions = map[string]bool{
		"us":     true,
		"uk":     true,
		"eu":     true,
		"global": true,
	}

	Tones = map[string]bool{
		"professional": true,
		"confident":    true,
		"friendly":     true,
		"formal":       true,
	}

	Providers = map[string]bool{
		"openai": true,
		"gemini": true,
	}
)

// ValidatePerspective checks the analysis perspective against the fixed set
func ValidatePerspective(fl validator.FieldLevel) bool {
	return Perspectives[fl.Field().String()]
}

// ValidateOutputLanguage checks the output language against the supported set
func ValidateOutputLanguage(fl validator.FieldLevel) bool {
	return OutputLanguages[fl.Field().String()]
}

// ValidateRegion checks the regional formatting target against the fixed set
func ValidateRegion(fl validator.FieldLevel) bool {
	return Regions[fl.Field().String()]
}

// ValidateTone checks the tone preference against the fixed set
func ValidateTone(fl validator.FieldLevel) bool {
	return Tones[fl.Field().String()]
}

// ValidateProvider checks the provider selector against the supported vendors
func ValidateProvider(fl validator.FieldLevel) bool {
	return Providers[fl.Field().String()]
}

// RegisterResumeValidators registers all resume-related custom validators
func RegisterResumeValidators(v *validator.Validate) {
	v.RegisterValidation("perspective", ValidatePerspective)
	v.RegisterValidation("output_language", ValidateOutputLanguage)
	v.RegisterValidation("region", ValidateRegion)
	v.RegisterValidation("tone", ValidateTone)
	v.RegisterValidation("llm_provider", ValidateProvider)
}
