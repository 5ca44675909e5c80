// Package dateparse turns free-form event date text into calendar dates.
//
// Listing sites print dates in many shapes ("Sat, 15th Mar 2025", "from
// 2025-03-15", "15/03/2025 onwards"). Parse scans for the first recognizable
// date substring and parses it strictly; anything it cannot read is reported
// as absent rather than as an error.
package dateparse

import (
	"regexp"
	"strings"
	"time"

	"github.com/law-makers/localevents/internal/utils/text"
	"github.com/rs/zerolog/log"
)

// ISOLayout is the canonical layout for resolved dates
const ISOLayout = "2006-01-02"

// DisplayLayout renders dates as "Month DD, YYYY"
const DisplayLayout = "January 02, 2006"

var connectorWords = regexp.MustCompile(`\b(?:from|to|until|starts?|ends?|on)\b`)

var ordinalSuffix = regexp.MustCompile(`(\d)(?:st|nd|rd|th)\b`)

// Patterns in priority order. Every match is tried against all layouts.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{1,2}(?:st|nd|rd|th)?\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*(?:\s+\d{4})?`),
	regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),
	regexp.MustCompile(`\d{2}/\d{2}/\d{4}`),
	regexp.MustCompile(`\d{1,2}\s+(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{4}`),
}

var layouts = []string{
	"2 Jan 2006",
	ISOLayout,
	"02/01/2006",
	"2 January 2006",
}

// Parse extracts a calendar date from free text. The second return value is
// false when no date could be recognized.
func Parse(freeText string) (time.Time, bool) {
	if strings.TrimSpace(freeText) == "" {
		return time.Time{}, false
	}

	s := strings.ToLower(freeText)
	s = connectorWords.ReplaceAllString(s, " ")
	s = text.Clean(s)

	for _, p := range patterns {
		match := p.FindString(s)
		if match == "" {
			continue
		}
		match = text.Clean(ordinalSuffix.ReplaceAllString(match, "$1"))
		for _, layout := range layouts {
			if t, err := time.Parse(layout, match); err == nil {
				return t, true
			}
		}
	}

	log.Debug().Str("text", freeText).Msg("No recognizable date")
	return time.Time{}, false
}

// isoQueryLayout also accepts unpadded month and day, as in 2025-3-1
const isoQueryLayout = "2006-1-2"

// ParseISO parses a year-month-day date. Month and day may omit their
// leading zero but must form a real calendar date.
func ParseISO(s string) (time.Time, error) {
	return time.Parse(isoQueryLayout, s)
}

// FormatISO renders t as YYYY-MM-DD
func FormatISO(t time.Time) string {
	return t.Format(ISOLayout)
}

// FormatDisplay renders t as "Month DD, YYYY"
func FormatDisplay(t time.Time) string {
	return t.Format(DisplayLayout)
}

// SameDay reports whether a and b fall on the same calendar date
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
