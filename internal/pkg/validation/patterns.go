package validation

import "regexp"

// rejectPatterns are prompt-injection and abuse markers that make the input
// unusable. Any match fails validation outright.
var rejectPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(all\s+)?(previous|prior|above)\s+(instructions?|prompts?|rules?)`),
	regexp.MustCompile(`(?i)disregard\s+(all\s+)?(previous|prior|above|your)\s+(instructions?|prompts?|rules?)`),
	regexp.MustCompile(`(?i)forget\s+(everything|all|your)\s+(instructions?|training|rules?)`),
	regexp.MustCompile(`(?i)you\s+are\s+now\s+(a|an|in)\s+`),
	regexp.MustCompile(`(?i)pretend\s+(to\s+be|you\s+are)\s+`),
	regexp.MustCompile(`(?i)act\s+as\s+(if\s+you\s+(are|were)|a\s+different)`),
	regexp.MustCompile(`(?i)(reveal|show|print|output)\s+(your\s+)?(system\s+)?prompt`),
	regexp.MustCompile(`(?i)jailbreak`),
	regexp.MustCompile(`(?i)developer\s+mode`),
	regexp.MustCompile(`(?i)\bDAN\s+mode\b`),
	regexp.MustCompile(`(?i)<\s*script[\s>]`),
	regexp.MustCompile(`(?i)javascript\s*:`),
	regexp.MustCompile(`(?i)\bon(load|error|click)\s*=`),
	regexp.MustCompile(`(?i)(;|\|\||&&)\s*(rm|del|drop|shutdown|format)\b`),
	regexp.MustCompile(`(?i)\b(union\s+select|drop\s+table|insert\s+into|delete\s+from)\b`),
	regexp.MustCompile(`\{\{.*\}\}`),
	regexp.MustCompile(`\$\{.*\}`),
}

// warnPatterns are suspicious constructions that pass validation but get
// logged and surfaced as warnings.
var warnPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bsystem\s*:`),
	regexp.MustCompile(`(?i)\bassistant\s*:`),
	regexp.MustCompile(`(?i)\[INST\]`),
	regexp.MustCompile(`(?i)<\|.*\|>`),
	regexp.MustCompile(`(?i)\bbase64\b`),
	regexp.MustCompile(`(?i)\beval\s*\(`),
	regexp.MustCompile(`(?i)\bexec\s*\(`),
	regexp.MustCompile("```"),
	regexp.MustCompile(`(?i)\brole\s*play\b`),
	regexp.MustCompile(`(?i)hypothetically\s+(speaking|if\s+you)`),
}

// vagueSummaries are summaries too generic to produce a useful ticket.
// Compared against the lowercased, trimmed summary.
var vagueSummaries = map[string]bool{
	"issue":               true,
	"problem":             true,
	"error":               true,
	"help":                true,
	"broken":              true,
	"not working":         true,
	"doesn't work":        true,
	"does not work":       true,
	"this issue":          true,
	"the issue":           true,
	"an issue":            true,
	"this problem":        true,
	"the problem":         true,
	"a problem":           true,
	"user has issue":      true,
	"user has a problem":  true,
	"something is wrong":  true,
	"something broke":     true,
	"it's broken":         true,
	"need help":           true,
	"please help":         true,
	"urgent":              true,
	"asap":                true,
	"fix this":            true,
	"fix it":              true,
	"computer issue":      true,
	"computer problem":    true,
	"system issue":        true,
	"system error":        true,
	"application issue":   true,
	"application problem": true,
}

// genericWords carry no diagnostic content on their own. A summary built
// entirely from them is too vague to act on.
var genericWords = map[string]bool{
	"a": true, "an": true, "the": true, "this": true, "that": true,
	"my": true, "our": true, "me": true, "i": true, "it": true, "its": true,
	"is": true, "are": true, "was": true, "has": true, "have": true,
	"and": true, "or": true, "with": true, "for": true, "to": true, "of": true,
	"please": true, "help": true, "need": true, "want": true, "can": true,
	"open": true, "create": true, "raise": true, "log": true, "file": true,
	"submit": true, "new": true, "ticket": true, "incident": true,
	"issue": true, "problem": true, "error": true, "broken": true,
	"down": true, "fix": true, "something": true, "stuff": true,
	"work": true, "working": true, "works": true, "not": true, "no": true,
	"doesnt": true, "dont": true, "isnt": true, "cant": true, "wont": true,
	"user": true, "urgent": true, "asap": true, "again": true,
}

// complaintWords are the generic complaint nouns that anchor vague summary
// templates like "<system> issue".
var complaintWords = map[string]bool{
	"issue": true, "issues": true, "problem": true, "problems": true,
	"error": true, "errors": true, "broken": true, "failure": true,
	"trouble": true, "fault": true,
}

// technicalKeywords rescue short summaries from the vague check: a summary
// naming a concrete system or symptom is specific enough even when brief.
var technicalKeywords = []string{
	"vpn", "outlook", "email", "password", "login", "network", "printer",
	"server", "database", "wifi", "laptop", "desktop", "monitor", "keyboard",
	"mouse", "browser", "chrome", "firefox", "edge", "excel", "word", "teams",
	"sharepoint", "onedrive", "sap", "oracle", "windows", "linux", "macos",
	"bluetooth", "camera", "microphone", "headset", "disk", "memory", "cpu",
	"certificate", "license", "active directory", "dns", "dhcp", "firewall",
	"proxy", "antivirus", "backup", "restore", "crash", "blue screen", "freeze",
	"timeout", "404", "500", "503",
}
