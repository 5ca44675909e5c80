package proxy

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// DefaultCooldown is how long a failed proxy is skipped
const DefaultCooldown = 5 * time.Minute

// Pool rotates outgoing requests across a set of HTTP proxies and skips
// proxies that recently failed.
type Pool struct {
	mu       sync.Mutex
	proxies  []*url.URL
	index    int
	failed   map[string]time.Time
	cooldown time.Duration
	now      func() time.Time
}

// NewPool parses raw proxy URLs. Entries without a scheme are treated as http.
func NewPool(raw []string) (*Pool, error) {
	p := &Pool{
		failed:   make(map[string]time.Time),
		cooldown: DefaultCooldown,
		now:      time.Now,
	}

	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if !strings.Contains(r, "://") {
			r = "http://" + r
		}
		u, err := url.Parse(r)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("invalid proxy %q", r)
		}
		p.proxies = append(p.proxies, u)
	}

	return p, nil
}

// Len returns the number of configured proxies
func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.proxies)
}

// Next returns the next proxy that is not cooling down. When every proxy has
// failed recently the next one in rotation is returned anyway. Nil means a
// direct connection.
func (p *Pool) Next() *url.URL {
	if p.Len() == 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	for i := 0; i < len(p.proxies); i++ {
		u := p.proxies[p.index]
		p.index = (p.index + 1) % len(p.proxies)

		failedAt, ok := p.failed[u.String()]
		if !ok {
			return u
		}
		if now.Sub(failedAt) >= p.cooldown {
			delete(p.failed, u.String())
			return u
		}
	}

	u := p.proxies[p.index]
	p.index = (p.index + 1) % len(p.proxies)
	return u
}

// MarkFailed puts u on cooldown
func (p *Pool) MarkFailed(u *url.URL) {
	if u == nil || p.Len() == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed[u.String()] = p.now()
}

// MarkHealthy clears a failure for u
func (p *Pool) MarkHealthy(u *url.URL) {
	if u == nil || p.Len() == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.failed, u.String())
}

type ctxKey struct{}

// WithProxy pins the proxy for the requests made with ctx
func WithProxy(ctx context.Context, u *url.URL) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// FromContext returns the proxy pinned by WithProxy, if any
func FromContext(ctx context.Context) *url.URL {
	u, _ := ctx.Value(ctxKey{}).(*url.URL)
	return u
}

// TransportProxy is an http.Transport.Proxy func that honors WithProxy.
// The fetcher picks the proxy up front so it knows which one to mark failed.
func TransportProxy(req *http.Request) (*url.URL, error) {
	return FromContext(req.Context()), nil
}
