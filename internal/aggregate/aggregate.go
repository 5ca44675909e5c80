// Package aggregate runs a search across all configured sources and, for a
// free-form location, across the city spellings listing sites tend to use.
package aggregate

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/law-makers/localevents/internal/metrics"
	"github.com/law-makers/localevents/internal/reqctx"
	"github.com/law-makers/localevents/internal/sources"
	"github.com/law-makers/localevents/pkg/models"
)

// ProgressFunc is told about every source that finished
type ProgressFunc func(source string, fragments int, err error)

// Options tune an Aggregator
type Options struct {
	// Concurrency above 1 queries that many sources at once
	Concurrency int
	// SourceTimeout bounds one source search; zero leaves it to the fetcher
	SourceTimeout time.Duration
	Metrics       *metrics.Metrics
	Progress      ProgressFunc
}

// Aggregator queries sources in priority order and concatenates results
type Aggregator struct {
	sources []sources.Source
	opts    Options
}

// New creates an Aggregator. The order of srcs is the priority order.
func New(srcs []sources.Source, opts Options) *Aggregator {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Aggregator{sources: srcs, opts: opts}
}

// Sources returns the sources in priority order
func (a *Aggregator) Sources() []sources.Source {
	return a.sources
}

// Search asks every source for city's events. Failing sources are logged
// and contribute nothing; the result keeps source priority order.
func (a *Aggregator) Search(ctx context.Context, city string) []models.Fragment {
	results := make([][]models.Fragment, len(a.sources))

	if a.opts.Concurrency == 1 || len(a.sources) < 2 {
		for i, src := range a.sources {
			if ctx.Err() != nil {
				break
			}
			results[i] = a.searchOne(ctx, src, city)
		}
	} else {
		var wg sync.WaitGroup
		sem := make(chan struct{}, a.opts.Concurrency)
		for i, src := range a.sources {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int, src sources.Source) {
				defer wg.Done()
				defer func() { <-sem }()
				results[i] = a.searchOne(ctx, src, city)
			}(i, src)
		}
		wg.Wait()
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	frags := make([]models.Fragment, 0, total)
	for _, r := range results {
		frags = append(frags, r...)
	}
	return frags
}

func (a *Aggregator) searchOne(ctx context.Context, src sources.Source, city string) (frags []models.Fragment) {
	logger := reqctx.Logger(ctx)
	start := time.Now()

	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			frags = nil
		}
		if err != nil {
			a.opts.Metrics.SourceFailed(src.Name())
			logger.Warn().
				Err(err).
				Str("source", src.Name()).
				Str("city", city).
				Msg("Source returned no events")
		} else {
			a.opts.Metrics.AddFragments(src.Name(), len(frags))
			logger.Info().
				Str("source", src.Name()).
				Str("city", city).
				Int("fragments", len(frags)).
				Dur("elapsed", time.Since(start)).
				Msg("Source searched")
		}
		if a.opts.Progress != nil {
			a.opts.Progress(src.Name(), len(frags), err)
		}
	}()

	if a.opts.SourceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.SourceTimeout)
		defer cancel()
	}

	frags, err = src.Search(ctx, city)
	if err != nil {
		return nil
	}
	return frags
}

// SearchLocation tries each spelling from CityVariants and stops at the first
// one any source has events for. It returns that spelling and its fragments,
// or the last spelling tried and no fragments.
func (a *Aggregator) SearchLocation(ctx context.Context, location string) (string, []models.Fragment) {
	logger := reqctx.Logger(ctx)

	city := location
	for _, variant := range CityVariants(location) {
		if ctx.Err() != nil {
			break
		}
		city = variant
		logger.Debug().Str("city", variant).Msg("Trying city spelling")

		if frags := a.Search(ctx, variant); len(frags) > 0 {
			logger.Info().
				Str("city", variant).
				Int("fragments", len(frags)).
				Msg("Found events for city spelling")
			return variant, frags
		}
	}
	return city, []models.Fragment{}
}

// CityVariants lists the spellings tried for a location: as given,
// lowercased, hyphenated, without spaces, and the part before the first
// comma. Consecutive duplicates are dropped.
func CityVariants(location string) []string {
	lower := strings.ToLower(location)
	candidates := []string{
		location,
		lower,
		strings.ToLower(strings.ReplaceAll(location, " ", "-")),
		strings.ToLower(strings.ReplaceAll(location, " ", "")),
		strings.TrimSpace(strings.SplitN(location, ",", 2)[0]),
	}

	variants := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if len(variants) > 0 && variants[len(variants)-1] == c {
			continue
		}
		variants = append(variants, c)
	}
	return variants
}
