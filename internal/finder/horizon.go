package finder

import (
	"fmt"
	"time"

	"github.com/law-makers/localevents/internal/dateparse"
)

const (
	// MaxDaysAhead is the furthest date worth searching
	MaxDaysAhead = 90
	// FarDaysAhead is where empty results are likely because listings are
	// not published yet
	FarDaysAhead = 30
)

// Suggestions are shown after a no-events message
var Suggestions = []string{
	"Searching for a nearby larger city",
	"Choosing a date closer to today",
	"Searching without a date to see all upcoming events",
}

// HorizonError rejects dates too far in the future
type HorizonError struct {
	Date string
	Days int
}

func (e *HorizonError) Error() string {
	return fmt.Sprintf("The date %s is %d days in the future. Most event listings only show events up to 3 months ahead. Try searching for a closer date.", e.Date, e.Days)
}

// DaysAhead returns the number of calendar days from now's date to date
func DaysAhead(date string, now time.Time) (int, error) {
	t, err := dateparse.ParseISO(date)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(today).Hours() / 24), nil
}

// CheckHorizon returns a *HorizonError when date is more than MaxDaysAhead
// days after now. An empty date is always accepted.
func CheckHorizon(date string, now time.Time) error {
	if date == "" {
		return nil
	}
	days, err := DaysAhead(date, now)
	if err != nil {
		return err
	}
	if days > MaxDaysAhead {
		return &HorizonError{Date: date, Days: days}
	}
	return nil
}

// NoEventsMessage explains an empty result. A date more than FarDaysAhead
// days out gets a hint about listing lead times.
func NoEventsMessage(location, date string, now time.Time) string {
	if date == "" {
		return fmt.Sprintf("No events found in %s. Try:", location)
	}
	if days, err := DaysAhead(date, now); err == nil && days > FarDaysAhead {
		return fmt.Sprintf("No events found in %s for %s. The date might be too far ahead - most venues post events 2-4 weeks in advance. Try:", location, date)
	}
	return fmt.Sprintf("No events found in %s for %s. Try:", location, date)
}
