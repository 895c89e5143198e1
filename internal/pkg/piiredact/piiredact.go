package piiredact

import "regexp"

// Redact replaces common PII patterns with fixed placeholder tokens.
// Order matters: SSN and card patterns overlap the phone pattern, so
// the more specific ones run first.
var (
	ssnPattern   = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
	cardPattern  = regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`)
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`(\+?1[-.\s]?)?\(?\b\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`)
)

const (
	EmailToken = "[EMAIL]"
	PhoneToken = "[PHONE]"
	SSNToken   = "[SSN]"
	CardToken  = "[CARD]"
)

func Redact(text string) string {
	if text == "" {
		return text
	}
	text = emailPattern.ReplaceAllString(text, EmailToken)
	text = ssnPattern.ReplaceAllString(text, SSNToken)
	text = cardPattern.ReplaceAllString(text, CardToken)
	text = phonePattern.ReplaceAllString(text, PhoneToken)
	return text
}
