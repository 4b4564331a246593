package entity

import "errors"

// Domain errors
var (
	// Input errors - surfaced to the caller, never retried
	ErrInvalidInput  = errors.New("invalid input")
	ErrMissingField  = errors.New("required field is missing")
	ErrQueryTooLong  = errors.New("query exceeds maximum length")
	ErrInvalidFormat = errors.New("invalid format")

	// Policy errors - rejected by a security or quality gate, surfaced with
	// remediation text and never silently dropped
	ErrPolicyRejected    = errors.New("request rejected by policy")
	ErrInjectionDetected = errors.New("potentially malicious content detected")
	ErrVagueSummary      = errors.New("summary is too vague")
	ErrRateLimited       = errors.New("action rate limit exceeded")

	// Pending action errors
	ErrActionNotFound = errors.New("action not found")
	ErrActionExpired  = errors.New("action has expired")
	ErrActionTerminal = errors.New("action is no longer pending")
	ErrWrongSession   = errors.New("action does not belong to this session")

	// External service errors - logged in full, surfaced generically
	ErrExternalFailure = errors.New("external service call failed")
	ErrStreamTimeout   = errors.New("completion stream timed out")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
)

// ErrorResponse is the API error payload
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
