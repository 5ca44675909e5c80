// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"github.com/law-makers/localevents/internal/aggregate"
	"github.com/law-makers/localevents/internal/cache"
	"github.com/law-makers/localevents/internal/config"
	"github.com/law-makers/localevents/internal/engine"
	"github.com/law-makers/localevents/internal/engine/dynamic"
	"github.com/law-makers/localevents/internal/engine/static"
	"github.com/law-makers/localevents/internal/finder"
	"github.com/law-makers/localevents/internal/metrics"
	"github.com/law-makers/localevents/internal/proxy"
	"github.com/law-makers/localevents/internal/ratelimit"
	"github.com/law-makers/localevents/internal/retry"
	"github.com/law-makers/localevents/internal/sources"
	"github.com/law-makers/localevents/pkg/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// geocoderRPS is the request rate the public Nominatim service allows
const geocoderRPS = 1.0

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once per command and shared by the sources it builds.
// Use Close() to flush metrics and release the cache.
type Application struct {
	Config  *config.Config
	Logger  *zerolog.Logger
	Cache   *cache.MemoryCache
	Limiter *ratelimit.HostLimiter
	Proxies *proxy.Pool
	Metrics *metrics.Metrics
	// Static is always available; the geocoder and Meetup use it in every mode
	Static *static.Fetcher
	// Pages is the fetcher used for HTML listing sites
	Pages     engine.Fetcher
	Sources   []sources.Source
	startTime time.Time
}

// New creates and initializes a new Application with all dependencies.
//
// It performs the following initialization steps:
//   - Configures logging based on the provided config
//   - Creates the page cache, per-host rate limiter and proxy pool
//   - Creates the static fetcher and, in spa mode, the headless fetcher
//   - Builds the enabled sources in priority order
//
// If any step fails, an error is returned and no resources are allocated.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := SetupLogging(cfg, os.Stderr)

	proxies, err := proxy.NewPool(cfg.Proxies)
	if err != nil {
		return nil, err
	}

	memCache := cache.NewMemoryCache(cfg.CacheMaxSizeBytes, cfg.CacheTTL)
	logger.Debug().
		Int64("max_size_bytes", cfg.CacheMaxSizeBytes).
		Dur("ttl", cfg.CacheTTL).
		Msg("Memory cache initialized")

	limiter := ratelimit.NewHostLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	if u, err := url.Parse(cfg.Geocoder.URL); err == nil && u.Host != "" {
		limiter.SetLimit(u.Host, geocoderRPS, 1)
	}
	logger.Debug().
		Float64("rps", cfg.RateLimitRPS).
		Int("burst", cfg.RateLimitBurst).
		Msg("Rate limiter initialized")

	m := metrics.New()

	retryCfg := retry.DefaultConfig()
	retryCfg.Retries = cfg.Retries

	staticFetcher := static.New(static.Options{
		Cache:     memCache,
		CacheTTL:  cfg.CacheTTL,
		Limiter:   limiter,
		Proxies:   proxies,
		Retry:     retryCfg,
		Metrics:   m,
		Timeout:   cfg.HTTPTimeout,
		UserAgent: cfg.UserAgent,
		Headers:   cfg.Headers,
	})

	var pages engine.Fetcher = staticFetcher
	if cfg.Mode == models.ModeSPA {
		pages = dynamic.New(dynamic.Options{
			Cache:      memCache,
			CacheTTL:   cfg.CacheTTL,
			Limiter:    limiter,
			Proxies:    proxies,
			Metrics:    m,
			Timeout:    cfg.HTTPTimeout * 2,
			UserAgent:  cfg.UserAgent,
			Headers:    cfg.Headers,
			ChromePath: cfg.ChromePath,
		})
	}
	logger.Debug().
		Str("engine", pages.Name()).
		Int("proxies", proxies.Len()).
		Dur("timeout", cfg.HTTPTimeout).
		Msg("Fetchers initialized")

	app := &Application{
		Config:    cfg,
		Logger:    logger,
		Cache:     memCache,
		Limiter:   limiter,
		Proxies:   proxies,
		Metrics:   m,
		Static:    staticFetcher,
		Pages:     pages,
		startTime: time.Now(),
	}

	app.Sources, err = app.buildSources()
	if err != nil {
		memCache.Close()
		return nil, err
	}

	logger.Debug().Strs("sources", cfg.Sources).Msg("Application initialized")
	return app, nil
}

// SetupLogging configures the global zerolog logger from cfg and returns it.
// Info logs are only shown when the level is debug, matching the quiet
// default of the CLI.
func SetupLogging(cfg *config.Config, w io.Writer) *zerolog.Logger {
	level := zerolog.WarnLevel
	switch cfg.LogLevel {
	case "debug":
		level = zerolog.DebugLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)

	if !cfg.JSONLog {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()

	logger := log.Logger
	logger.Debug().
		Str("level", cfg.LogLevel).
		Bool("json", cfg.JSONLog).
		Msg("Logger initialized")
	return &logger
}

// buildSources creates the enabled sources in configured order
func (a *Application) buildSources() ([]sources.Source, error) {
	sites := make(map[string]sources.Site)
	for _, s := range a.Config.SiteCatalog() {
		sites[s.Name] = s
	}

	out := make([]sources.Source, 0, len(a.Config.Sources))
	for _, name := range a.Config.Sources {
		if name == sources.MeetupName {
			geo := sources.NewNominatim(a.Static)
			geo.URL = a.Config.Geocoder.URL
			geo.UserAgent = a.Config.Geocoder.UserAgent
			geo.Timeout = a.Config.Geocoder.Timeout
			out = append(out, sources.NewMeetupSource(a.Config.Meetup, a.Static, geo))
			continue
		}
		site, ok := sites[name]
		if !ok {
			return nil, fmt.Errorf("unknown source %q", name)
		}
		out = append(out, sources.NewHTMLSource(site, a.Pages))
	}
	return out, nil
}

// NewFinder wires the sources into a Finder. progress may be nil.
func (a *Application) NewFinder(progress aggregate.ProgressFunc) *finder.Finder {
	agg := aggregate.New(a.Sources, aggregate.Options{
		Concurrency: a.Config.Concurrency,
		Metrics:     a.Metrics,
		Progress:    progress,
	})
	return finder.New(agg, a.Metrics)
}

// Close flushes metrics and releases the cache.
// Errors writing the metrics file are returned after cleanup.
func (a *Application) Close(ctx context.Context) error {
	a.Logger.Debug().Msg("Shutting down application")

	var err error
	if path := a.Config.MetricsFile; path != "" {
		if err = a.Metrics.WriteTextfile(path); err != nil {
			a.Logger.Warn().Err(err).Str("path", path).Msg("Failed to write metrics")
		}
	}

	if a.Cache != nil {
		a.Logger.Debug().Interface("cache", a.Cache.Stats()).Msg("Cache statistics")
		a.Cache.Close()
	}

	a.Logger.Debug().Dur("uptime", a.Uptime()).Msg("Application shutdown complete")
	return err
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}
