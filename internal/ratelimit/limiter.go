// internal/ratelimit/limiter.go
package ratelimit

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter paces outgoing requests. The fetchers call Wait before every
// request so that trying several spellings of a city against the same
// listing site stays polite.
type Limiter interface {
	// Wait blocks until a request to urlStr may proceed or ctx is done
	Wait(ctx context.Context, urlStr string) error
}

// HostLimiter keeps one token bucket per host name
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	perHost  rate.Limit
	burst    int
}

// NewHostLimiter creates a limiter allowing requestsPerSecond per host.
// A non-positive rate disables limiting.
func NewHostLimiter(requestsPerSecond float64, burst int) *HostLimiter {
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}

	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		perHost:  limit,
		burst:    burst,
	}
}

// Wait blocks until the host of urlStr has a free token
func (hl *HostLimiter) Wait(ctx context.Context, urlStr string) error {
	host := hostOf(urlStr)
	if host == "" {
		// Unparseable URLs fail later in the fetcher
		return nil
	}
	return hl.limiter(host).Wait(ctx)
}

// Allow reports whether a request to urlStr may proceed without waiting
func (hl *HostLimiter) Allow(urlStr string) bool {
	host := hostOf(urlStr)
	if host == "" {
		return true
	}
	return hl.limiter(host).Allow()
}

// SetLimit overrides the rate for one host, e.g. the geocoder which asks for
// at most one request per second.
func (hl *HostLimiter) SetLimit(host string, requestsPerSecond float64, burst int) {
	l := hl.limiter(strings.ToLower(host))
	l.SetLimit(rate.Limit(requestsPerSecond))
	l.SetBurst(burst)
}

func (hl *HostLimiter) limiter(host string) *rate.Limiter {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	l, ok := hl.limiters[host]
	if !ok {
		l = rate.NewLimiter(hl.perHost, hl.burst)
		hl.limiters[host] = l
	}
	return l
}

// hostOf returns the lowercased host name without port
func hostOf(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
