package models

import "time"

// Placeholder strings shared by sources and the normalizer
const (
	DateNotSpecified  = "Date not specified"
	VenueNotSpecified = "Venue not specified"
	NoTitle           = "No Title"
	NoDescription     = "No description available"
	NoLocation        = "Location not specified"
	NoURL             = "#"
)

// Fragment is one event as extracted by a source, before normalization.
// DateText holds a canonical YYYY-MM-DD date when the source could interpret
// the card's date, the cleaned raw text when it could not, or
// DateNotSpecified when the card had no date at all.
type Fragment struct {
	Title       string `json:"title"`
	DateText    string `json:"date"`
	Venue       string `json:"venue"`
	URL         string `json:"url"`
	ImageURL    string `json:"image_url,omitempty"`
	Description string `json:"description"`
	Source      string `json:"source,omitempty"`
}

// Event is the normalized output record
type Event struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Venue       string `json:"venue"`
	Date        string `json:"date"`
	URL         string `json:"url"`
	ImageURL    string `json:"image_url,omitempty"`
	Source      string `json:"source,omitempty"`
}

// Page is a fetched response body
type Page struct {
	URL          string            `json:"url"`
	StatusCode   int               `json:"status_code"`
	Body         []byte            `json:"-"`
	Headers      map[string]string `json:"headers,omitempty"`
	FetchedAt    time.Time         `json:"fetched_at"`
	ResponseTime int64             `json:"response_time_ms"`
}

// EngineMode defines the fetch engine used for HTML sources
type EngineMode string

const (
	ModeStatic EngineMode = "static"
	ModeSPA    EngineMode = "spa"
)

// RequestOptions contains options for a single fetch
type RequestOptions struct {
	URL     string
	Accept  string
	Headers map[string]string
	Query   map[string]string
	Timeout time.Duration
	// WaitSelector is only honored by the dynamic engine
	WaitSelector string
	NoCache      bool
}
