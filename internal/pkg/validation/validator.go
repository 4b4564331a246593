package validation

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/servicedesk-ai/assistant-backend/internal/entity"
)

const (
	MaxSummaryLength     = 255
	MaxDescriptionLength = 32000
)

// Validator checks ticket fields and free text before they reach downstream
// systems. All methods are stateless and safe for concurrent use.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateField runs the checks shared by every ticket field: required,
// length-capped and, when asked, screened for injection markers. fieldName
// labels the produced messages. The outcome carries the sanitized text to
// use downstream.
func (v *Validator) ValidateField(ctx context.Context, text, fieldName string, maxLength int, checkInjection bool) entity.ValidationOutcome {
	sanitized := Sanitize(text)
	var errs, warns []string

	if sanitized == "" {
		return entity.InvalidOutcome([]string{fieldName + " is required"}, sanitized)
	}
	if utf8.RuneCountInString(sanitized) > maxLength {
		errs = append(errs, fmt.Sprintf("%s exceeds %d characters", fieldName, maxLength))
	}
	if checkInjection {
		if reason := matchReject(sanitized); reason != "" {
			errs = append(errs, fieldName+" contains disallowed content")
			ctxzap.Extract(ctx).Warn("injection pattern rejected",
				zap.String("field", fieldName),
				zap.String("pattern", reason))
		}
		if reason := matchWarn(sanitized); reason != "" {
			warns = append(warns, fieldName+" contains suspicious formatting")
			ctxzap.Extract(ctx).Info("suspicious pattern",
				zap.String("field", fieldName),
				zap.String("pattern", reason))
		}
	}

	if len(errs) > 0 {
		return entity.InvalidOutcome(errs, sanitized)
	}
	out := entity.ValidOutcome(sanitized)
	out.Warnings = warns
	return out
}

// ValidateSummary checks a ticket summary: the shared field checks plus the
// specificity gate, so a summary too vague to act on is rejected.
func (v *Validator) ValidateSummary(ctx context.Context, summary string) entity.ValidationOutcome {
	out := v.ValidateField(ctx, summary, "summary", MaxSummaryLength, true)
	if out.SanitizedText != "" && isVagueSummary(out.SanitizedText) {
		out.Valid = false
		out.Errors = append(out.Errors, "summary is too vague, describe the affected system and symptom")
	}
	return out
}

// ValidateDescription checks a ticket description with the shared field
// checks.
func (v *Validator) ValidateDescription(ctx context.Context, description string) entity.ValidationOutcome {
	return v.ValidateField(ctx, description, "description", MaxDescriptionLength, true)
}

// CheckInjection screens arbitrary user text. Rejected text returns
// entity.ErrInjectionDetected; warn-tier matches only log.
func (v *Validator) CheckInjection(ctx context.Context, text string) error {
	if reason := matchReject(text); reason != "" {
		ctxzap.Extract(ctx).Warn("injection pattern rejected in message",
			zap.String("pattern", reason))
		return fmt.Errorf("%w: message contains disallowed content", entity.ErrInjectionDetected)
	}
	if reason := matchWarn(text); reason != "" {
		ctxzap.Extract(ctx).Info("suspicious pattern in message",
			zap.String("pattern", reason))
	}
	return nil
}

// blankRunPattern matches runs of blank lines beyond a single paragraph
// break.
var blankRunPattern = regexp.MustCompile(`\n{3,}`)

// Sanitize strips control characters while keeping line structure: CR and
// CRLF normalize to LF, tabs and unicode space separators become plain
// spaces, horizontal whitespace runs collapse to one space, runs of blank
// lines collapse to a single paragraph break, and the edges are trimmed.
func Sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		case unicode.Is(unicode.Zs, r):
			return ' '
		default:
			return r
		}
	}, s)

	lines := strings.Split(mapped, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	collapsed := blankRunPattern.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(collapsed)
}

func matchReject(text string) string {
	for _, p := range rejectPatterns {
		if p.MatchString(text) {
			return p.String()
		}
	}
	return ""
}

func matchWarn(text string) string {
	for _, p := range warnPatterns {
		if p.MatchString(text) {
			return p.String()
		}
	}
	return ""
}

// minSpecificSummaryLength is the shortest summary accepted without a
// recognized technical keyword.
const minSpecificSummaryLength = 15

// isVagueSummary reports whether the summary is too generic to produce a
// useful ticket. The template and length gates run before the keyword
// rescue: "email issue" names a system but still says nothing actionable.
func isVagueSummary(summary string) bool {
	lowered := strings.ToLower(strings.TrimSpace(summary))
	if vagueSummaries[lowered] {
		return true
	}

	// Template forms like "email issue" or "with printer problem": a bare
	// subject next to a generic complaint word.
	complaint := false
	var content []string
	for _, w := range strings.Fields(lowered) {
		w = strings.Trim(w, ".,!?;:'\"")
		switch {
		case complaintWords[w]:
			complaint = true
		case genericWords[w]:
		case w != "":
			content = append(content, w)
		}
	}
	if complaint && len(content) <= 1 {
		return true
	}

	for _, kw := range technicalKeywords {
		if strings.Contains(lowered, kw) {
			return false
		}
	}
	if utf8.RuneCountInString(lowered) < minSpecificSummaryLength {
		return true
	}
	return len(content) == 0
}
