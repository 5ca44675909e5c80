package config

import (
	"time"

	"github.com/law-makers/localevents/internal/sources"
	"github.com/law-makers/localevents/pkg/models"
)

// Default constants for application configuration
const (
	DefaultLogLevel          = "info"
	DefaultJSONLog           = false
	DefaultMode              = models.ModeStatic
	DefaultUserAgent         = sources.DefaultUserAgent
	DefaultHTTPTimeout       = 15 * time.Second
	DefaultGeocoderTimeout   = sources.DefaultGeocoderTimeout
	DefaultRateLimitRPS      = 2.0
	DefaultRateLimitBurst    = 4
	DefaultRetries           = 0
	DefaultConcurrency       = 1
	DefaultMaxConcurrency    = 8
	DefaultCacheTTL          = 10 * time.Minute
	DefaultCacheMaxSizeBytes = 32 * 1024 * 1024 // 32MB
)

// Environment variables read by Load
const (
	EnvUserAgent  = "LOCALEVENTS_USER_AGENT"
	EnvProxy      = "LOCALEVENTS_PROXY"
	EnvConfig     = "LOCALEVENTS_CONFIG"
	EnvChromePath = "LOCALEVENTS_CHROME_PATH"
)

// Default returns a Config holding only built-in defaults
func Default() *Config {
	return &Config{
		LogLevel:          DefaultLogLevel,
		JSONLog:           DefaultJSONLog,
		Mode:              DefaultMode,
		HTTPTimeout:       DefaultHTTPTimeout,
		UserAgent:         DefaultUserAgent,
		RateLimitRPS:      DefaultRateLimitRPS,
		RateLimitBurst:    DefaultRateLimitBurst,
		Retries:           DefaultRetries,
		Concurrency:       DefaultConcurrency,
		CacheTTL:          DefaultCacheTTL,
		CacheMaxSizeBytes: DefaultCacheMaxSizeBytes,
		Sources:           sources.DefaultOrder(),
		Meetup:            sources.DefaultMeetupConfig(),
		Geocoder: GeocoderConfig{
			URL:       sources.DefaultGeocoderURL,
			UserAgent: sources.DefaultGeocoderUserAgent,
			Timeout:   DefaultGeocoderTimeout,
		},
	}
}
