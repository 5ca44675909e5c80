package config

import (
	"fmt"

	"github.com/law-makers/localevents/internal/utils/headers"
	"github.com/law-makers/localevents/pkg/models"
	"github.com/spf13/cobra"
)

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	pf := cmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable debug logging")
	pf.BoolP("quiet", "q", false, "Suppress all output except errors")
	pf.Bool("json", false, "Output in JSON format only")
	pf.String("config", "", "Path to a YAML configuration file (env "+EnvConfig+")")
	pf.String("proxy", "", "Comma-separated HTTP proxies to rotate through")
	pf.Duration("timeout", DefaultHTTPTimeout, "Timeout for each request")
	pf.String("user-agent", "", "Custom user agent string")
	pf.StringArrayP("header", "H", nil, "Extra request header (e.g. 'Accept-Language: en-IN'), repeatable")
	pf.String("mode", string(DefaultMode), "Fetch engine: static or spa (headless Chrome)")
	pf.Int("retries", DefaultRetries, "Retries for failed requests (429/5xx/timeouts)")
	pf.Int("concurrency", DefaultConcurrency, "Number of sources queried at once")
	pf.Float64("rate-limit", DefaultRateLimitRPS, "Requests per second per host (0 disables)")
	pf.StringSlice("sources", nil, "Sources to query, in priority order")
	pf.String("metrics-file", "", "Write Prometheus metrics to this file after the run")
}

// applyFlags copies flags the user actually set onto cfg
func applyFlags(cmd *cobra.Command, cfg *Config) error {
	flags := cmd.Flags()
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}

	if changed("verbose") {
		if v, _ := flags.GetBool("verbose"); v {
			cfg.LogLevel = "debug"
		}
	}
	if changed("quiet") {
		if v, _ := flags.GetBool("quiet"); v {
			cfg.LogLevel = "error"
		}
	}
	if changed("json") {
		cfg.JSONLog, _ = flags.GetBool("json")
	}
	if changed("proxy") {
		v, _ := flags.GetString("proxy")
		cfg.Proxies = splitList(v)
	}
	if changed("timeout") {
		d, err := flags.GetDuration("timeout")
		if err != nil {
			return fmt.Errorf("--timeout: %w", err)
		}
		cfg.HTTPTimeout = d
	}
	if changed("user-agent") {
		cfg.UserAgent, _ = flags.GetString("user-agent")
	}
	if changed("header") {
		raw, _ := flags.GetStringArray("header")
		parsed, err := headers.ParseHeaders(raw)
		if err != nil {
			return fmt.Errorf("--header: %w", err)
		}
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string, len(parsed))
		}
		for k, v := range parsed {
			cfg.Headers[k] = v
		}
	}
	if changed("mode") {
		v, _ := flags.GetString("mode")
		cfg.Mode = models.EngineMode(v)
	}
	if changed("retries") {
		cfg.Retries, _ = flags.GetInt("retries")
	}
	if changed("concurrency") {
		cfg.Concurrency, _ = flags.GetInt("concurrency")
	}
	if changed("rate-limit") {
		cfg.RateLimitRPS, _ = flags.GetFloat64("rate-limit")
	}
	if changed("sources") {
		cfg.Sources, _ = flags.GetStringSlice("sources")
	}
	if changed("metrics-file") {
		cfg.MetricsFile, _ = flags.GetString("metrics-file")
	}

	return nil
}
