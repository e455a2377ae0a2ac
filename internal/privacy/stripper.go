// Package privacy scrubs user text before capture.
package privacy

import (
	"regexp"
	"strings"
)

var (
	// privateTagRegex matches <private>...</private> spans the user marked
	// as never-store.
	privateTagRegex = regexp.MustCompile(`(?s)<private>.*?</private>`)

	// contextTagRegex matches previously injected <mnemo-context> blocks,
	// so injected memory never re-captures itself.
	contextTagRegex = regexp.MustCompile(`(?s)<mnemo-context>.*?</mnemo-context>`)
)

// Clean strips private spans and injected context blocks, then trims
// whitespace. Run this on any user content before it reaches a capture.
func Clean(text string) string {
	text = privateTagRegex.ReplaceAllString(text, "")
	text = contextTagRegex.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// IsEntirelyPrivate reports whether text has no content left outside
// <private> tags.
func IsEntirelyPrivate(text string) bool {
	return strings.TrimSpace(privateTagRegex.ReplaceAllString(text, "")) == ""
}
