// Package text holds small helpers for scraped text fragments.
package text

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`[\s\p{Z}]+`)

// Clean collapses every run of whitespace to a single space and trims the result
func Clean(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// OrDefault returns the cleaned text, or def when nothing is left after cleaning
func OrDefault(s, def string) string {
	if c := Clean(s); c != "" {
		return c
	}
	return def
}
