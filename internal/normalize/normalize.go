// Package normalize turns raw fragments from every source into the final
// event list: duplicates collapse, dates resolve, and placeholders fill
// anything a source left out.
package normalize

import (
	"strings"
	"time"

	"github.com/law-makers/localevents/internal/dateparse"
	"github.com/law-makers/localevents/pkg/models"
	"github.com/rs/zerolog/log"
)

// dateLayouts are tried before falling back to free-text interpretation
var dateLayouts = []string{
	"2006-1-2",
	"2-1-2006",
	"2/1/2006",
	"January 2, 2006",
	"2 January 2006",
}

// ResolveDate turns a fragment's date text into a calendar date
func ResolveDate(dateText string) (time.Time, bool) {
	s := strings.TrimSpace(dateText)
	if s == "" || s == models.DateNotSpecified {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return dateparse.Parse(s)
}

type dedupKey struct {
	title string
	venue string
}

// Normalize deduplicates frags by title and venue, keeps only events on
// target when it is non-nil, and projects the survivors to events.
// The result is never nil.
func Normalize(frags []models.Fragment, target *time.Time) []models.Event {
	seen := make(map[dedupKey]struct{}, len(frags))
	events := make([]models.Event, 0, len(frags))

	for _, f := range frags {
		key := dedupKey{strings.ToLower(f.Title), strings.ToLower(f.Venue)}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		date, ok := ResolveDate(f.DateText)
		if target != nil && (!ok || !dateparse.SameDay(date, *target)) {
			continue
		}

		ev := project(f, date, ok)
		if ev.Title == "" || strings.EqualFold(ev.Title, "no title") {
			continue
		}
		events = append(events, ev)
	}

	log.Debug().
		Int("fragments", len(frags)).
		Int("events", len(events)).
		Bool("date_filter", target != nil).
		Msg("Normalized events")

	return events
}

func project(f models.Fragment, date time.Time, dated bool) models.Event {
	ev := models.Event{
		Title:       orDefault(f.Title, models.NoTitle),
		Description: orDefault(f.Description, models.NoDescription),
		Venue:       orDefault(f.Venue, models.NoLocation),
		Date:        models.DateNotSpecified,
		URL:         orDefault(f.URL, models.NoURL),
		ImageURL:    strings.TrimSpace(f.ImageURL),
		Source:      f.Source,
	}
	if dated {
		ev.Date = dateparse.FormatDisplay(date)
	}
	return ev
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}
