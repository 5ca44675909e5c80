// internal/retry/retry.go
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Config controls how failed fetches are repeated. Retries is the number of
// additional attempts after the first one; zero means a single attempt.
type Config struct {
	Retries              int
	InitialBackoff       time.Duration
	MaxBackoff           time.Duration
	Multiplier           float64
	RetryableStatusCodes []int
}

// DefaultConfig performs no retries. Backoff values only matter once
// Retries is raised from the command line or config file.
func DefaultConfig() Config {
	return Config{
		Retries:        0,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
		Multiplier:     2.0,
		RetryableStatusCodes: []int{
			http.StatusTooManyRequests,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout,
		},
	}
}

// Do calls fn until it succeeds, returns a non-retryable error, the retry
// budget is spent or ctx is done.
func Do(ctx context.Context, cfg Config, fn func(ctx context.Context) error) error {
	attempts := cfg.Retries + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			if attempt > 0 {
				log.Debug().Int("attempts", attempt+1).Msg("Retry succeeded")
			}
			return nil
		}
		lastErr = err

		if attempts == 1 {
			return err
		}
		if !retryable(err, cfg) {
			log.Debug().Err(err).Msg("Error is not retryable")
			return err
		}
		if attempt == attempts-1 {
			break
		}

		backoff := Backoff(attempt, cfg)
		log.Debug().
			Int("attempt", attempt+1).
			Int("max_attempts", attempts).
			Dur("backoff", backoff).
			Err(err).
			Msg("Retrying after backoff")

		timer := time.NewTimer(backoff)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}

	return fmt.Errorf("gave up after %d attempts: %w", attempts, lastErr)
}

// Backoff returns InitialBackoff * Multiplier^attempt capped at MaxBackoff
func Backoff(attempt int, cfg Config) time.Duration {
	backoff := float64(cfg.InitialBackoff) * math.Pow(cfg.Multiplier, float64(attempt))
	if cfg.MaxBackoff > 0 && backoff > float64(cfg.MaxBackoff) {
		backoff = float64(cfg.MaxBackoff)
	}
	return time.Duration(backoff)
}

func retryable(err error, cfg Config) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}

	// Transport errors carry status 0 and fall through to the timeout checks
	var sc StatusCoder
	if errors.As(err, &sc) && sc.GetStatusCode() != 0 {
		code := sc.GetStatusCode()
		for _, c := range cfg.RetryableStatusCodes {
			if code == c {
				return true
			}
		}
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var timeout interface{ Timeout() bool }
	if errors.As(err, &timeout) {
		return timeout.Timeout()
	}

	// Connection resets and the like
	return true
}

// StatusCoder is implemented by errors that carry an HTTP status code
type StatusCoder interface {
	GetStatusCode() int
}

// HTTPError is a non-success HTTP response from a listing site or API
type HTTPError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *HTTPError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
}

// GetStatusCode implements StatusCoder
func (e *HTTPError) GetStatusCode() int {
	return e.StatusCode
}

// NewHTTPError creates an HTTPError for resp-like values
func NewHTTPError(statusCode int, status, url string) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Status: status, URL: url}
}

// IsStatus reports whether err carries the given HTTP status code
func IsStatus(err error, code int) bool {
	var sc StatusCoder
	return errors.As(err, &sc) && sc.GetStatusCode() == code
}
