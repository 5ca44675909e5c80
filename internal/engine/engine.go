// Package engine defines how listing pages are fetched. The static engine
// issues plain HTTP requests; the dynamic engine renders the page in headless
// Chrome for listing sites that build their cards client-side.
package engine

import (
	"context"

	"github.com/law-makers/localevents/pkg/models"
)

// Fetcher is the interface every fetch engine implements
type Fetcher interface {
	// Fetch retrieves one page. A non-200 response is an *EngineError with
	// Code ErrCodeHTTPStatus.
	Fetch(ctx context.Context, opts models.RequestOptions) (*models.Page, error)

	// Name returns the name of the engine
	Name() string
}
