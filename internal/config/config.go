package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/law-makers/localevents/internal/sources"
	"github.com/law-makers/localevents/pkg/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// GeocoderConfig points the Meetup source at a Nominatim-compatible service
type GeocoderConfig struct {
	URL       string        `yaml:"url"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
}

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string `yaml:"log_level"`
	JSONLog  bool   `yaml:"json_log"`

	// HTTP
	Mode        models.EngineMode `yaml:"mode"`
	HTTPTimeout time.Duration     `yaml:"http_timeout"`
	UserAgent   string            `yaml:"user_agent"`
	Proxies     []string          `yaml:"proxies"`
	Headers     map[string]string `yaml:"headers"`
	ChromePath  string            `yaml:"chrome_path"`

	// Politeness
	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`
	Retries        int     `yaml:"retries"`
	Concurrency    int     `yaml:"concurrency"`

	// Caching
	CacheTTL          time.Duration `yaml:"cache_ttl"`
	CacheMaxSizeBytes int64         `yaml:"cache_max_size_bytes"`

	// Sources lists the enabled sources in priority order
	Sources []string `yaml:"sources"`
	// Sites override built-in listing sites by name or add new ones
	Sites    []sources.Site       `yaml:"sites"`
	Meetup   sources.MeetupConfig `yaml:"meetup"`
	Geocoder GeocoderConfig       `yaml:"geocoder"`

	// MetricsFile receives Prometheus text output after each run
	MetricsFile string `yaml:"metrics_file"`
}

// Load builds a Config by combining defaults, an optional YAML file,
// environment variables, and CLI flags, in that order.
// Caller should pass the command being run so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	cfg := Default()

	path := os.Getenv(EnvConfig)
	if cmd != nil {
		if f := cmd.Flags().Lookup("config"); f != nil && f.Value.String() != "" {
			path = f.Value.String()
		}
	}
	if path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if cmd != nil {
		if err := applyFlags(cmd, cfg); err != nil {
			return nil, err
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadFile merges the YAML file at path into cfg. Keys absent from the file
// keep their current values.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %s not found", path)
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvUserAgent); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv(EnvProxy); v != "" {
		cfg.Proxies = splitList(v)
	}
	if v := os.Getenv(EnvChromePath); v != "" {
		cfg.ChromePath = v
	}
}

// SiteCatalog returns the built-in listing sites with configured overrides
// applied, followed by sites only present in the configuration
func (c *Config) SiteCatalog() []sources.Site {
	catalog := sources.BuiltinSites()
	index := make(map[string]int, len(catalog))
	for i, s := range catalog {
		index[s.Name] = i
	}

	for _, s := range c.Sites {
		if i, ok := index[s.Name]; ok {
			catalog[i] = mergeSite(catalog[i], s)
			continue
		}
		index[s.Name] = len(catalog)
		catalog = append(catalog, s)
	}
	return catalog
}

// mergeSite overlays the non-empty fields of o on base
func mergeSite(base, o sources.Site) sources.Site {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&base.BaseURL, o.BaseURL)
	set(&base.PathTemplate, o.PathTemplate)
	set(&base.DefaultVenue, o.DefaultVenue)
	set(&base.DefaultDescription, o.DefaultDescription)
	set(&base.WaitSelector, o.WaitSelector)
	set(&base.Selectors.Card, o.Selectors.Card)
	set(&base.Selectors.Title, o.Selectors.Title)
	set(&base.Selectors.Date, o.Selectors.Date)
	set(&base.Selectors.Venue, o.Selectors.Venue)
	set(&base.Selectors.Description, o.Selectors.Description)
	return base
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
