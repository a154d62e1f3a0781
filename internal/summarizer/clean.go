package summarizer

import (
	"regexp"
	"strings"
)

var bulletPrefixRe = regexp.MustCompile(`(?m)^\* `)

// Clean strips markdown emphasis and normalizes "* " bullets to "- ".
func Clean(summary string) string {
	cleaned := strings.ReplaceAll(summary, "**", "")
	cleaned = bulletPrefixRe.ReplaceAllString(cleaned, "- ")

	return strings.TrimSpace(cleaned)
}
