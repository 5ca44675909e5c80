// Package finder is the entry point of the event search: it resolves a
// location against the sources, normalizes what they return and, when a
// date filter leaves nothing, falls back to the unfiltered list.
package finder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/law-makers/localevents/internal/dateparse"
	"github.com/law-makers/localevents/internal/metrics"
	"github.com/law-makers/localevents/internal/normalize"
	"github.com/law-makers/localevents/internal/reqctx"
	"github.com/law-makers/localevents/pkg/models"
)

// Searcher finds raw fragments for a location
type Searcher interface {
	SearchLocation(ctx context.Context, location string) (city string, frags []models.Fragment)
}

// Query is one search request
type Query struct {
	Location string
	// Date is empty or YYYY-MM-DD
	Date string
}

// Result of a search
type Result struct {
	Location string `json:"location"`
	// City is the spelling the sources answered to
	City string `json:"city"`
	Date string `json:"date,omitempty"`
	// FellBack is set when nothing matched Date and the unfiltered list was returned
	FellBack  bool              `json:"fell_back"`
	Events    []models.Event    `json:"events"`
	Fragments []models.Fragment `json:"-"`
	// Err is set when the search was refused or aborted
	Err error `json:"-"`
}

// ErrInvalidDate is reported for a date that is not YYYY-MM-DD
var ErrInvalidDate = errors.New("date must be in YYYY-MM-DD format")

// Finder runs searches
type Finder struct {
	searcher Searcher
	metrics  *metrics.Metrics
}

// New creates a Finder. m may be nil.
func New(s Searcher, m *metrics.Metrics) *Finder {
	return &Finder{searcher: s, metrics: m}
}

// FetchEvents returns the events at location, on date when date is not
// empty. It never fails; problems are logged and yield fewer events.
func (f *Finder) FetchEvents(ctx context.Context, location, date string) []models.Event {
	return f.Search(ctx, Query{Location: location, Date: date}).Events
}

// Search runs q and reports how the result was obtained. Result.Events is
// never nil.
func (f *Finder) Search(ctx context.Context, q Query) (res *Result) {
	res = &Result{
		Location: q.Location,
		City:     q.Location,
		Date:     q.Date,
		Events:   []models.Event{},
	}

	ctx = reqctx.Ensure(ctx, q.Location)
	logger := reqctx.Logger(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("Search aborted")
			res.Events = []models.Event{}
			res.FellBack = false
			res.Err = reqctx.Wrap(ctx, fmt.Errorf("search aborted: %v", r))
		}
		f.metrics.SearchDone(outcome(res), len(res.Events))
	}()

	var target *time.Time
	if q.Date != "" {
		t, err := dateparse.ParseISO(q.Date)
		if err != nil {
			logger.Warn().Str("date", q.Date).Msg("Invalid date format")
			res.Err = reqctx.Wrap(ctx, fmt.Errorf("%w: %q", ErrInvalidDate, q.Date))
			return res
		}
		target = &t
	}

	if strings.TrimSpace(q.Location) == "" {
		logger.Warn().Msg("Empty location")
		return res
	}

	res.City, res.Fragments = f.searcher.SearchLocation(ctx, q.Location)

	res.Events = normalize.Normalize(res.Fragments, target)
	if len(res.Events) == 0 && target != nil && len(res.Fragments) > 0 {
		logger.Info().
			Str("date", q.Date).
			Int("fragments", len(res.Fragments)).
			Msg("No events on date, returning all upcoming events")
		res.Events = normalize.Normalize(res.Fragments, nil)
		res.FellBack = true
	}

	logger.Info().
		Str("city", res.City).
		Int("events", len(res.Events)).
		Bool("fell_back", res.FellBack).
		Dur("elapsed", time.Since(reqctx.FromContext(ctx).StartTime)).
		Msg("Search finished")

	return res
}

func outcome(res *Result) string {
	switch {
	case errors.Is(res.Err, ErrInvalidDate):
		return "invalid_date"
	case res.FellBack:
		return "fallback"
	case len(res.Events) == 0:
		return "empty"
	default:
		return "matched"
	}
}
