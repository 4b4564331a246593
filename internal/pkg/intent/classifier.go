package intent

import (
	"regexp"
	"strings"

	"github.com/servicedesk-ai/assistant-backend/internal/entity"
)

var (
	confirmPattern = regexp.MustCompile(`(?i)^\s*confirm\s+([a-zA-Z0-9]+)\s*$`)
	cancelPattern  = regexp.MustCompile(`(?i)^\s*cancel\s+([a-zA-Z0-9]+)\s*$`)
)

// ParseConfirmCommand recognizes bare "confirm <id>" and "cancel <id>"
// messages. This runs before classification so confirmation replies never get
// misread as new requests.
func ParseConfirmCommand(message string) (entity.ConfirmCommand, bool) {
	if m := confirmPattern.FindStringSubmatch(message); m != nil {
		return entity.ConfirmCommand{ActionID: strings.ToLower(m[1])}, true
	}
	if m := cancelPattern.FindStringSubmatch(message); m != nil {
		return entity.ConfirmCommand{ActionID: strings.ToLower(m[1]), Cancel: true}, true
	}
	return entity.ConfirmCommand{}, false
}

// explicitIncident are direct requests to open an incident.
var explicitIncident = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(create|open|raise|log|file|submit)\s+(an?\s+)?(new\s+)?(incident|ticket)\b`),
	regexp.MustCompile(`(?i)\breport\s+(an?\s+)?(incident|issue|problem|outage)\b`),
	regexp.MustCompile(`(?i)\bincident\s+for\b`),
}

// explicitWorkOrder are direct requests to open a work order.
var explicitWorkOrder = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(create|open|raise|submit)\s+(an?\s+)?(new\s+)?work\s*order\b`),
	regexp.MustCompile(`(?i)\bwork\s*order\s+for\b`),
}

// serviceRequest are requests for provisioning rather than repairs.
var serviceRequest = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(request|need|want|order)\s+(a\s+)?(new\s+)?(laptop|monitor|keyboard|mouse|headset|phone|license|software|access|account)\b`),
	regexp.MustCompile(`(?i)\bprovision\b`),
	regexp.MustCompile(`(?i)\bgrant\s+(me\s+)?access\b`),
	regexp.MustCompile(`(?i)\bonboard(ing)?\b`),
}

// implicitSignals suggest something is broken without naming a ticket.
var implicitSignals = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(not|isn'?t|aren'?t|won'?t|doesn'?t|don'?t|can'?t|cannot)\s+(work|working|connect|connecting|load|loading|open|opening|start|starting|respond|responding|print|printing|sync|syncing)\b`),
	regexp.MustCompile(`(?i)\b(broken|down|crashed|crashing|frozen|freezing|failing|failed|unreachable|unavailable|stuck)\b`),
	regexp.MustCompile(`(?i)\b(error|exception|timeout|outage)\b`),
	regexp.MustCompile(`(?i)\bstopped\s+working\b`),
	regexp.MustCompile(`(?i)\bkeeps?\s+(crashing|freezing|disconnecting|restarting|failing)\b`),
	regexp.MustCompile(`(?i)\bblue\s+screen\b`),
	regexp.MustCompile(`(?i)\bsince\s+(this\s+morning|yesterday|the\s+update|the\s+patch)\b`),
	regexp.MustCompile(`(?i)\burgent(ly)?\b`),
	regexp.MustCompile(`(?i)\bproduction\b`),
	regexp.MustCompile(`(?i)\bwhole\s+(team|office|department)\b`),
}

// problemLanguage marks repair vocabulary that suppresses the service-request
// reading: "my laptop is broken" is an incident, not a hardware order.
var problemLanguage = regexp.MustCompile(`(?i)\b(broken|down|crashed|error|failing|failed|not\s+working|stopped\s+working|repair|fix)\b`)

// questionMarkers mark informational queries.
var questionMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*(how|what|why|when|where|which|who|can|could|should|is|are|does|do)\b`),
	regexp.MustCompile(`\?\s*$`),
	regexp.MustCompile(`(?i)\b(how\s+to|how\s+do\s+i|how\s+can\s+i)\b`),
	regexp.MustCompile(`(?i)\b(explain|tell\s+me\s+about|documentation|guide|steps\s+for)\b`),
}

type Config struct {
	ImplicitSignalMin int
}

// Classifier maps user messages to an intent using layered rules: explicit
// action phrasing first, then service requests, then accumulated implicit
// problem signals, then question markers.
type Classifier struct {
	cfg Config
}

func NewClassifier(cfg Config) *Classifier {
	if cfg.ImplicitSignalMin <= 0 {
		cfg.ImplicitSignalMin = 2
	}
	return &Classifier{cfg: cfg}
}

// Classify returns the detected intent for a message. Empty messages map to
// IntentNone; messages matching both question and problem cues stay
// informational, the caller decides whether to offer ticket creation.
func (c *Classifier) Classify(message string) entity.Intent {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return entity.IntentNone
	}

	if matchAny(explicitWorkOrder, trimmed) {
		return entity.IntentActionWorkOrder
	}
	if matchAny(explicitIncident, trimmed) {
		return entity.IntentActionIncident
	}
	if matchAny(serviceRequest, trimmed) && !problemLanguage.MatchString(trimmed) {
		return entity.IntentServiceRequest
	}

	signals := countMatches(implicitSignals, trimmed)
	question := matchAny(questionMarkers, trimmed)

	if signals >= c.cfg.ImplicitSignalMin {
		if question {
			return entity.IntentAmbiguous
		}
		return entity.IntentActionIncident
	}
	if question {
		return entity.IntentQuestion
	}
	if signals > 0 {
		return entity.IntentAmbiguous
	}
	return entity.IntentQuestion
}

func matchAny(patterns []*regexp.Regexp, s string) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

func countMatches(patterns []*regexp.Regexp, s string) int {
	n := 0
	for _, p := range patterns {
		if p.MatchString(s) {
			n++
		}
	}
	return n
}
