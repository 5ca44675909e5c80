package config

import (
	"fmt"

	"github.com/law-makers/localevents/internal/sources"
	"github.com/law-makers/localevents/pkg/models"
)

func validate(c *Config) error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	if c.Mode != models.ModeStatic && c.Mode != models.ModeSPA {
		return fmt.Errorf("mode must be %q or %q, got %q", models.ModeStatic, models.ModeSPA, c.Mode)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be > 0")
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must be >= 0")
	}
	if c.Concurrency < 1 || c.Concurrency > DefaultMaxConcurrency {
		return fmt.Errorf("concurrency must be between 1 and %d", DefaultMaxConcurrency)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("rate limit must be >= 0")
	}
	if c.CacheMaxSizeBytes <= 0 {
		return fmt.Errorf("cache max size must be > 0")
	}
	if len(c.Sources) == 0 {
		return fmt.Errorf("at least one source must be enabled")
	}

	known := map[string]sources.Site{}
	for _, s := range c.SiteCatalog() {
		if err := s.Validate(); err != nil {
			return err
		}
		known[s.Name] = s
	}
	seen := map[string]bool{}
	for _, name := range c.Sources {
		if seen[name] {
			return fmt.Errorf("source %q listed twice", name)
		}
		seen[name] = true
		if _, ok := known[name]; !ok && name != sources.MeetupName {
			return fmt.Errorf("unknown source %q", name)
		}
	}

	if c.Meetup.RadiusMiles < 0 || c.Meetup.Limit < 0 || c.Meetup.PerGroup < 0 {
		return fmt.Errorf("meetup settings must not be negative")
	}
	return nil
}
