// Package reqctx tags a search with an id and carries a sub-logger that
// includes it, so every line logged by sources for one search can be
// correlated.
package reqctx

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type key int

const searchKey key = 0

// SearchContext identifies one invocation of the pipeline
type SearchContext struct {
	SearchID  string
	StartTime time.Time
	Logger    zerolog.Logger
}

// WithSearch attaches a fresh search id and logger to ctx
func WithSearch(ctx context.Context, location string) context.Context {
	id := generateID()
	return context.WithValue(ctx, searchKey, &SearchContext{
		SearchID:  id,
		StartTime: time.Now(),
		Logger:    log.With().Str("search_id", id).Str("location", location).Logger(),
	})
}

// Ensure returns ctx unchanged when it already carries a search, otherwise
// it starts one
func Ensure(ctx context.Context, location string) context.Context {
	if _, ok := ctx.Value(searchKey).(*SearchContext); ok {
		return ctx
	}
	return WithSearch(ctx, location)
}

// FromContext returns the search context, or a placeholder when none is set
func FromContext(ctx context.Context) *SearchContext {
	if sc, ok := ctx.Value(searchKey).(*SearchContext); ok {
		return sc
	}
	return &SearchContext{
		SearchID:  "unknown",
		StartTime: time.Now(),
		Logger:    log.Logger,
	}
}

// Logger returns the search-scoped logger
func Logger(ctx context.Context) *zerolog.Logger {
	l := FromContext(ctx).Logger
	return &l
}

func generateID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%x", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

// SearchError wraps an error with the search id it occurred in
type SearchError struct {
	SearchID string
	Err      error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("[%s] %v", e.SearchID, e.Err)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

// Wrap tags err with the search id from ctx; nil stays nil
func Wrap(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	return &SearchError{SearchID: FromContext(ctx).SearchID, Err: err}
}
