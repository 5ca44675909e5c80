package ui

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/law-makers/localevents/pkg/models"
)

// descriptionWidth is where event descriptions are cut in the terminal listing
const descriptionWidth = 160

// PrintEvents writes a numbered, human readable listing of events
func PrintEvents(w io.Writer, events []models.Event) {
	for i, ev := range events {
		fmt.Fprintf(w, "%s %s\n", Dim(fmt.Sprintf("%2d.", i+1)), Bold(ev.Title))
		fmt.Fprintf(w, "    %s  %s\n", Success(ev.Date), ev.Venue)
		if ev.Description != "" && ev.Description != models.NoDescription {
			fmt.Fprintf(w, "    %s\n", Dim(truncate(oneLine(ev.Description), descriptionWidth)))
		}
		if ev.URL != "" && ev.URL != models.NoURL {
			fmt.Fprintf(w, "    %s\n", Link(ev.URL))
		}
		if ev.Source != "" {
			fmt.Fprintf(w, "    %s\n", Dim("via "+ev.Source))
		}
		fmt.Fprintln(w)
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n-1])) + "…"
}
