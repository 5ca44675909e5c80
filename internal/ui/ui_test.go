package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/law-makers/localevents/pkg/models"
)

func TestPaint_Disabled(t *testing.T) {
	defer func(prev bool) { Enabled = prev }(Enabled)

	Enabled = false
	if got := Bold("x"); got != "x" {
		t.Errorf("Bold() with colors off = %q", got)
	}
	Enabled = true
	if got := Error("x"); got != ColorRed+"x"+ColorReset {
		t.Errorf("Error() with colors on = %q", got)
	}
}

func TestPrintEvents(t *testing.T) {
	defer func(prev bool) { Enabled = prev }(Enabled)
	Enabled = false

	events := []models.Event{
		{
			Title:       "Jazz Night",
			Date:        "May 10, 2025",
			Venue:       "Blue Frog",
			Description: "Live\n\nquartet " + strings.Repeat("x", 200),
			URL:         "https://insider.in/jazz",
			Source:      "insider",
		},
		{
			Title:       "Book Swap",
			Date:        models.DateNotSpecified,
			Venue:       models.VenueNotSpecified,
			Description: models.NoDescription,
			URL:         models.NoURL,
		},
	}

	var buf bytes.Buffer
	PrintEvents(&buf, events)
	out := buf.String()

	for _, want := range []string{
		" 1. Jazz Night",
		"May 10, 2025  Blue Frog",
		"Live quartet xxx",
		"https://insider.in/jazz",
		"via insider",
		" 2. Book Swap",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, models.NoDescription) || strings.Contains(out, "    #\n") {
		t.Errorf("placeholders should be hidden:\n%s", out)
	}
	if !strings.Contains(out, "…") {
		t.Error("long description should be truncated")
	}
}
