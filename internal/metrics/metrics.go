// Package metrics counts what a search did (fetches per host, fragments per
// source, events returned) and can dump the counters in the Prometheus text
// format for node-exporter's textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is safe to use as a nil pointer; every method becomes a no-op
type Metrics struct {
	Registry *prometheus.Registry

	fetchTotal    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	fragments     *prometheus.CounterVec
	sourceErrors  *prometheus.CounterVec
	events        prometheus.Counter
	searches      *prometheus.CounterVec
	lastSearch    prometheus.Gauge
}

// New creates the collectors on a private registry
func New() *Metrics {
	m := &Metrics{Registry: prometheus.NewRegistry()}

	m.fetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "localevents",
		Name:      "fetch_total",
		Help:      "HTTP fetches by host and outcome",
	}, []string{"host", "outcome"})
	m.fetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "localevents",
		Name:      "fetch_duration_seconds",
		Help:      "Time spent fetching a page",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
	}, []string{"host"})
	m.fragments = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "localevents",
		Name:      "fragments_total",
		Help:      "Raw event fragments extracted per source",
	}, []string{"source"})
	m.sourceErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "localevents",
		Name:      "source_errors_total",
		Help:      "Source searches that failed and contributed nothing",
	}, []string{"source"})
	m.events = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "localevents",
		Name:      "events_total",
		Help:      "Normalized events returned to the caller",
	})
	m.searches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "localevents",
		Name:      "searches_total",
		Help:      "Searches by result: matched, fallback, empty, invalid_date",
	}, []string{"result"})
	m.lastSearch = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "localevents",
		Name:      "last_search_timestamp_seconds",
		Help:      "Unix time the last search finished",
	})

	m.Registry.MustRegister(
		m.fetchTotal, m.fetchDuration, m.fragments, m.sourceErrors,
		m.events, m.searches, m.lastSearch,
	)
	return m
}

// ObserveFetch records one HTTP fetch
func (m *Metrics) ObserveFetch(host, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.fetchTotal.WithLabelValues(host, outcome).Inc()
	m.fetchDuration.WithLabelValues(host).Observe(d.Seconds())
}

// AddFragments records fragments produced by a source
func (m *Metrics) AddFragments(source string, n int) {
	if m == nil {
		return
	}
	m.fragments.WithLabelValues(source).Add(float64(n))
}

// SourceFailed records a source that degraded to zero results
func (m *Metrics) SourceFailed(source string) {
	if m == nil {
		return
	}
	m.sourceErrors.WithLabelValues(source).Inc()
}

// SearchDone records the outcome of one search
func (m *Metrics) SearchDone(result string, events int) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(result).Inc()
	m.events.Add(float64(events))
	m.lastSearch.Set(float64(time.Now().Unix()))
}

// WriteTextfile writes every metric to path atomically
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}
