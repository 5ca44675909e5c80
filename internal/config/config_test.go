package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/law-makers/localevents/pkg/models"
	"github.com/spf13/cobra"
)

func newCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	RegisterFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags(%v) error = %v", args, err)
	}
	return cmd
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "localevents.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvUserAgent, "")
	t.Setenv(EnvProxy, "")

	cfg, err := Load(newCmd(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.HTTPTimeout != 15*time.Second {
		t.Errorf("HTTPTimeout = %v, want 15s", cfg.HTTPTimeout)
	}
	if cfg.Retries != 0 || cfg.Concurrency != 1 {
		t.Errorf("Retries/Concurrency = %d/%d, want 0/1", cfg.Retries, cfg.Concurrency)
	}
	if !reflect.DeepEqual(cfg.Sources, []string{"insider", "bookmyshow", "allevents", "meetup"}) {
		t.Errorf("Sources = %v", cfg.Sources)
	}
	if cfg.Meetup.RadiusMiles != 50 {
		t.Errorf("Meetup.RadiusMiles = %d", cfg.Meetup.RadiusMiles)
	}
}

func TestLoad_Layering(t *testing.T) {
	path := writeFile(t, `
log_level: warn
http_timeout: 20s
user_agent: FromFile/1.0
retries: 2
sources: [allevents, insider]
meetup:
  radius_miles: 25
sites:
  - name: insider
    selectors:
      card: article.event
  - name: townscript
    base_url: https://www.townscript.com
    path: /in/{city}
    selectors:
      card: .card
      title: h2
`)
	t.Setenv(EnvConfig, path)
	t.Setenv(EnvUserAgent, "FromEnv/1.0")
	t.Setenv(EnvProxy, "p1:3128, p2:3128")

	cfg, err := Load(newCmd(t, "--timeout", "5s", "--verbose"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, flag should win", cfg.LogLevel)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("HTTPTimeout = %v, flag should win", cfg.HTTPTimeout)
	}
	if cfg.UserAgent != "FromEnv/1.0" {
		t.Errorf("UserAgent = %q, env should beat file", cfg.UserAgent)
	}
	if !reflect.DeepEqual(cfg.Proxies, []string{"p1:3128", "p2:3128"}) {
		t.Errorf("Proxies = %v", cfg.Proxies)
	}
	if cfg.Retries != 2 {
		t.Errorf("Retries = %d, want 2 from file", cfg.Retries)
	}
	if !reflect.DeepEqual(cfg.Sources, []string{"allevents", "insider"}) {
		t.Errorf("Sources = %v", cfg.Sources)
	}
	if cfg.Meetup.RadiusMiles != 25 || cfg.Meetup.PerGroup != 5 {
		t.Errorf("Meetup = %+v, want radius from file and default per_group", cfg.Meetup)
	}

	catalog := cfg.SiteCatalog()
	if len(catalog) != 4 {
		t.Fatalf("SiteCatalog() has %d sites, want 4", len(catalog))
	}
	if catalog[0].Selectors.Card != "article.event" || catalog[0].Selectors.Title != "h3, h4, .event-title" {
		t.Errorf("insider override not merged: %+v", catalog[0].Selectors)
	}
	if catalog[3].Name != "townscript" {
		t.Errorf("extra site = %q", catalog[3].Name)
	}
}

func TestLoad_FlagBeatsConfigFlagFile(t *testing.T) {
	t.Setenv(EnvConfig, "")
	path := writeFile(t, "mode: spa\nconcurrency: 2\n")

	cfg, err := Load(newCmd(t, "--config", path, "--mode", "static"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Mode != models.ModeStatic || cfg.Concurrency != 2 {
		t.Errorf("Mode/Concurrency = %s/%d", cfg.Mode, cfg.Concurrency)
	}
}

func TestLoad_Headers(t *testing.T) {
	t.Setenv(EnvConfig, "")
	path := writeFile(t, "headers:\n  Referer: https://example.com\n")

	cfg, err := Load(newCmd(t, "--config", path, "-H", "accept-language: en-IN", "-H", "Referer: https://insider.in"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := map[string]string{"Accept-Language": "en-IN", "Referer": "https://insider.in"}
	if !reflect.DeepEqual(cfg.Headers, want) {
		t.Errorf("Headers = %v, want %v", cfg.Headers, want)
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv(EnvConfig, "")

	tests := []struct {
		name string
		args []string
		file string
		want string
	}{
		{"bad mode", []string{"--mode", "turbo"}, "", "mode must be"},
		{"zero timeout", []string{"--timeout", "0s"}, "", "timeout"},
		{"negative retries", []string{"--retries", "-1"}, "", "retries"},
		{"too many workers", []string{"--concurrency", "50"}, "", "concurrency"},
		{"unknown source", []string{"--sources", "insider,eventbrite"}, "", "unknown source"},
		{"duplicate source", []string{"--sources", "insider,insider"}, "", "listed twice"},
		{"broken site", nil, "sites:\n  - name: x\n    base_url: ftp://x\n", "scheme"},
		{"bad yaml", nil, "retries: [\n", "parse config"},
		{"bad header", []string{"-H", "nocolon"}, "", "--header"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := tt.args
			if tt.file != "" {
				args = append(args, "--config", writeFile(t, tt.file))
			}
			_, err := Load(newCmd(t, args...))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"), Default())
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("LoadFile() error = %v", err)
	}
}
