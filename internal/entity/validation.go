package entity

// ValidationOutcome is the result of validating a single ticket field.
type ValidationOutcome struct {
	Valid         bool     `json:"valid"`
	Errors        []string `json:"errors,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
	SanitizedText string   `json:"sanitized_text,omitempty"`
}

// ValidOutcome builds an accepting outcome carrying the sanitized text.
func ValidOutcome(sanitized string, warnings ...string) ValidationOutcome {
	return ValidationOutcome{Valid: true, Warnings: warnings, SanitizedText: sanitized}
}

// InvalidOutcome builds a rejecting outcome with the given errors. The
// sanitized text is kept so callers can echo it back in clarification
// prompts.
func InvalidOutcome(errs []string, sanitized string) ValidationOutcome {
	return ValidationOutcome{Valid: false, Errors: errs, SanitizedText: sanitized}
}
