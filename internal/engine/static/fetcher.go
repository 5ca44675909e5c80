// internal/engine/static/fetcher.go
package static

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/law-makers/localevents/internal/cache"
	"github.com/law-makers/localevents/internal/engine"
	"github.com/law-makers/localevents/internal/metrics"
	"github.com/law-makers/localevents/internal/proxy"
	"github.com/law-makers/localevents/internal/ratelimit"
	"github.com/law-makers/localevents/internal/retry"
	"github.com/law-makers/localevents/internal/utils/headers"
	urlutil "github.com/law-makers/localevents/internal/utils/url"
	"github.com/law-makers/localevents/pkg/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/publicsuffix"
)

// DefaultAccept is sent when the request does not ask for anything specific
const DefaultAccept = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"

// maxBodyBytes bounds how much of a listing page is read
const maxBodyBytes = 10 << 20

// Options are the collaborators of a Fetcher. Every field is optional.
type Options struct {
	Cache     cache.Cache
	CacheTTL  time.Duration
	Limiter   ratelimit.Limiter
	Proxies   *proxy.Pool
	Retry     retry.Config
	Metrics   *metrics.Metrics
	Timeout   time.Duration
	UserAgent string
	// Headers are added to every request, after the defaults
	Headers map[string]string
	// Client replaces the default client; its transport should use
	// proxy.TransportProxy for proxy rotation to work.
	Client *http.Client
}

// Fetcher performs plain HTTP GETs
type Fetcher struct {
	opts   Options
	client *http.Client
}

// New creates a Fetcher with a cookie jar and a proxy-aware transport
func New(opts Options) *Fetcher {
	client := opts.Client
	if client == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			log.Warn().Err(err).Msg("Cookie jar unavailable")
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.Proxy = proxy.TransportProxy
		client = &http.Client{Jar: jar, Transport: transport}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}

	return &Fetcher{opts: opts, client: client}
}

// Name returns the name of this engine
func (f *Fetcher) Name() string {
	return "static"
}

// Fetch retrieves one page, consulting the cache first
func (f *Fetcher) Fetch(ctx context.Context, ro models.RequestOptions) (*models.Page, error) {
	target, err := urlutil.WithQuery(ro.URL, ro.Query)
	if err != nil {
		return nil, engine.NewEngineError(engine.ErrCodeValidation, ro.URL, "bad URL", engine.ErrInvalidURL)
	}
	if ro.Accept == "" {
		ro.Accept = DefaultAccept
	}

	key := cache.Key(target, ro.Accept)
	if f.opts.Cache != nil && !ro.NoCache {
		if page, ok := f.opts.Cache.Get(key); ok {
			return page, nil
		}
	}

	var page *models.Page
	err = retry.Do(ctx, f.opts.Retry, func(ctx context.Context) error {
		var ferr error
		page, ferr = f.do(ctx, target, ro)
		return ferr
	})
	if err != nil {
		return nil, err
	}

	if f.opts.Cache != nil && !ro.NoCache {
		f.opts.Cache.Set(key, page, f.opts.CacheTTL)
	}
	return page, nil
}

func (f *Fetcher) do(ctx context.Context, target string, ro models.RequestOptions) (page *models.Page, err error) {
	start := time.Now()
	host := hostOf(target)
	defer func() {
		f.opts.Metrics.ObserveFetch(host, engine.Outcome(err), time.Since(start))
	}()

	if f.opts.Limiter != nil {
		if err := f.opts.Limiter.Wait(ctx, target); err != nil {
			return nil, err
		}
	}

	timeout := f.opts.Timeout
	if ro.Timeout > 0 {
		timeout = ro.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	px := f.opts.Proxies.Next()
	if px != nil {
		ctx = proxy.WithProxy(ctx, px)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, engine.NewEngineError(engine.ErrCodeValidation, target, "failed to create request", err)
	}

	if f.opts.UserAgent != "" {
		req.Header.Set("User-Agent", f.opts.UserAgent)
	}
	req.Header.Set("Accept", ro.Accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	headers.Apply(req, f.opts.Headers)
	headers.Apply(req, ro.Headers)

	log.Debug().
		Str("url", target).
		Str("engine", f.Name()).
		Msg("Starting fetch")

	resp, err := f.client.Do(req)
	if err != nil {
		f.opts.Proxies.MarkFailed(px)
		return nil, engine.FromTransport(target, err)
	}
	defer resp.Body.Close()
	f.opts.Proxies.MarkHealthy(px)

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, engine.StatusError(target, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, engine.FromTransport(target, err)
	}
	if len(body) > maxBodyBytes {
		return nil, engine.NewEngineError(engine.ErrCodeParseError, target, fmt.Sprintf("body exceeds %d bytes", maxBodyBytes), engine.ErrBodyTooLarge)
	}

	page = &models.Page{
		URL:          target,
		StatusCode:   resp.StatusCode,
		Body:         body,
		Headers:      make(map[string]string),
		FetchedAt:    time.Now(),
		ResponseTime: time.Since(start).Milliseconds(),
	}
	for key, values := range resp.Header {
		if len(values) > 0 {
			page.Headers[key] = values[0]
		}
	}

	log.Debug().
		Str("url", target).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Int64("response_time_ms", page.ResponseTime).
		Msg("Fetch completed")

	return page, nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
