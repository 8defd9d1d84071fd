// Package redact scrubs sensitive values from strings before they reach
// logs. Error messages in this service can carry database URLs, provider API
// keys, bearer tokens, and user email addresses; none of those belong in log
// output.
package redact

import "regexp"

// rule pairs a detection pattern with its replacement placeholder.
type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

var rules = []rule{
	// Connection strings with inline credentials, e.g. postgres://user:pw@host.
	{regexp.MustCompile(`(?i)(postgres|postgresql|mysql)://[^@\s]+@`), "[REDACTED_DSN]@"},

	// Bearer and JWT tokens.
	{regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_\-.~+/]+`), "Bearer [REDACTED_TOKEN]"},
	{regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`), "[REDACTED_TOKEN]"},

	// API keys and secrets in key=value or key: value form.
	{regexp.MustCompile(`(?i)(api[_-]?key|secret|token|password)(['"\s:=]+)[^'"&\s]{6,}`), "$1$2[REDACTED]"},

	// Email addresses.
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), "[REDACTED_EMAIL]"},
}

// String redacts sensitive values from the input string.
func String(input string) string {
	if input == "" {
		return input
	}
	for _, r := range rules {
		input = r.pattern.ReplaceAllString(input, r.placeholder)
	}
	return input
}

// Error redacts sensitive values from an error's message. Returns "" for nil.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
