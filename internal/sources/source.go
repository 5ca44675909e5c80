// Package sources turns event listing pages and APIs into raw event
// fragments. Each listing site is described by a Site record and handled by
// the generic HTMLSource; Meetup is queried through its JSON API.
package sources

import (
	"context"

	"github.com/law-makers/localevents/pkg/models"
)

// Source finds raw event fragments for a city
type Source interface {
	// Name identifies the source in logs and output
	Name() string

	// Search returns the fragments the source lists for city. An error means
	// the source contributed nothing; callers treat it as zero results.
	Search(ctx context.Context, city string) ([]models.Fragment, error)
}

// DefaultUserAgent is sent to listing sites and the Meetup API
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

const (
	acceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
	acceptJSON = "application/json"
)
