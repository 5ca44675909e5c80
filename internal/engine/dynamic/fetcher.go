// internal/engine/dynamic/fetcher.go
package dynamic

import (
	"context"
	"errors"
	"os/exec"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/law-makers/localevents/internal/cache"
	"github.com/law-makers/localevents/internal/engine"
	"github.com/law-makers/localevents/internal/metrics"
	"github.com/law-makers/localevents/internal/proxy"
	"github.com/law-makers/localevents/internal/ratelimit"
	urlutil "github.com/law-makers/localevents/internal/utils/url"
	"github.com/law-makers/localevents/pkg/models"
	"github.com/rs/zerolog/log"
)

// settle is how long scripts get to render cards after navigation when no
// wait selector is given
const settle = 500 * time.Millisecond

// Options are the collaborators of a Fetcher. Every field is optional.
type Options struct {
	Cache      cache.Cache
	CacheTTL   time.Duration
	Limiter    ratelimit.Limiter
	Proxies    *proxy.Pool
	Metrics    *metrics.Metrics
	Timeout    time.Duration
	UserAgent  string
	Headers    map[string]string
	ChromePath string
}

// Fetcher renders pages in headless Chrome and returns the resulting DOM
// as the page body. Each fetch starts its own browser.
type Fetcher struct {
	opts Options
}

// New creates a dynamic Fetcher. The browser is located lazily.
func New(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Fetcher{opts: opts}
}

// Name returns the name of this engine
func (f *Fetcher) Name() string {
	return "spa"
}

// Fetch navigates to the page and captures the rendered HTML
func (f *Fetcher) Fetch(ctx context.Context, ro models.RequestOptions) (page *models.Page, err error) {
	target, err := urlutil.WithQuery(ro.URL, ro.Query)
	if err != nil {
		return nil, engine.NewEngineError(engine.ErrCodeValidation, ro.URL, "bad URL", engine.ErrInvalidURL)
	}

	key := cache.Key(target, "text/html")
	if f.opts.Cache != nil && !ro.NoCache {
		if page, ok := f.opts.Cache.Get(key); ok {
			return page, nil
		}
	}

	if f.opts.Limiter != nil {
		if err := f.opts.Limiter.Wait(ctx, target); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	defer func() {
		f.opts.Metrics.ObserveFetch(hostOf(target), engine.Outcome(err), time.Since(start))
	}()

	timeout := f.opts.Timeout
	if ro.Timeout > 0 {
		timeout = ro.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	px := f.opts.Proxies.Next()
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, f.allocatorOptions(px)...)
	defer allocCancel()
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var resp responseCapture
	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		if ev, ok := ev.(*network.EventResponseReceived); ok && ev.Response.URL == target {
			resp.record(ev.Response)
		}
	})

	extra := network.Headers{}
	for k, v := range f.opts.Headers {
		extra[k] = v
	}
	for k, v := range ro.Headers {
		extra[k] = v
	}

	var html string
	tasks := chromedp.Tasks{
		network.Enable(),
		network.SetExtraHTTPHeaders(extra),
		chromedp.Navigate(target),
	}
	if ro.WaitSelector != "" {
		tasks = append(tasks, chromedp.WaitReady(ro.WaitSelector, chromedp.ByQuery))
	} else {
		tasks = append(tasks, chromedp.Sleep(settle))
	}
	tasks = append(tasks, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	log.Debug().
		Str("url", target).
		Str("engine", f.Name()).
		Msg("Starting fetch")

	if err := chromedp.Run(browserCtx, tasks); err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return nil, engine.NewEngineError(engine.ErrCodeBrowser, target, "cannot start browser", engine.ErrBrowserNotFound)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, engine.NewEngineError(engine.ErrCodeTimeout, target, "render timed out", err)
		}
		f.opts.Proxies.MarkFailed(px)
		return nil, engine.NewEngineError(engine.ErrCodeBrowser, target, "render failed", err)
	}
	f.opts.Proxies.MarkHealthy(px)

	status, respHeaders := resp.snapshot()
	if status != 0 && status != 200 {
		return nil, engine.StatusError(target, int(status))
	}

	page = &models.Page{
		URL:          target,
		StatusCode:   200,
		Body:         []byte(html),
		Headers:      respHeaders,
		FetchedAt:    time.Now(),
		ResponseTime: time.Since(start).Milliseconds(),
	}

	log.Debug().
		Str("url", target).
		Int("bytes", len(html)).
		Int64("response_time_ms", page.ResponseTime).
		Msg("Fetch completed")

	if f.opts.Cache != nil && !ro.NoCache {
		f.opts.Cache.Set(key, page, f.opts.CacheTTL)
	}
	return page, nil
}

// responseCapture holds the main document response. chromedp delivers
// events on its own goroutine, so access goes through mu.
type responseCapture struct {
	mu      sync.Mutex
	status  int64
	headers map[string]string
}

func (c *responseCapture) record(r *network.Response) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = r.Status
	c.headers = make(map[string]string, len(r.Headers))
	for k, v := range r.Headers {
		if s, ok := v.(string); ok {
			c.headers[k] = s
		}
	}
}

// snapshot returns the last recorded status and a copy of its headers
func (c *responseCapture) snapshot() (int64, map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	headers := make(map[string]string, len(c.headers))
	for k, v := range c.headers {
		headers[k] = v
	}
	return c.status, headers
}
