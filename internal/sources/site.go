package sources

import (
	"fmt"
	"strings"

	urlutil "github.com/law-makers/localevents/internal/utils/url"
)

// Selectors are the CSS selectors used to pull one event out of a listing.
// Comma-separated alternatives are allowed; the first matching node wins.
type Selectors struct {
	Card        string `yaml:"card" json:"card"`
	Title       string `yaml:"title" json:"title"`
	Date        string `yaml:"date" json:"date"`
	Venue       string `yaml:"venue" json:"venue"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Site describes one HTML listing site
type Site struct {
	Name    string `yaml:"name" json:"name"`
	BaseURL string `yaml:"base_url" json:"base_url"`
	// PathTemplate is appended to BaseURL; {city} is replaced by the city slug
	PathTemplate       string    `yaml:"path" json:"path"`
	DefaultVenue       string    `yaml:"default_venue,omitempty" json:"default_venue,omitempty"`
	DefaultDescription string    `yaml:"default_description,omitempty" json:"default_description,omitempty"`
	Selectors          Selectors `yaml:"selectors" json:"selectors"`
	// WaitSelector is waited for when rendering in the browser
	WaitSelector string `yaml:"wait_selector,omitempty" json:"wait_selector,omitempty"`
}

// ListingURL returns the listing page for city
func (s Site) ListingURL(city string) string {
	path := strings.ReplaceAll(s.PathTemplate, "{city}", urlutil.CitySlug(city))
	return strings.TrimRight(s.BaseURL, "/") + path
}

// Validate reports configuration that would make every search fail
func (s Site) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("site without name")
	}
	if err := urlutil.ValidateURL(s.BaseURL); err != nil {
		return fmt.Errorf("site %s: %w", s.Name, err)
	}
	if !strings.Contains(s.PathTemplate, "{city}") {
		return fmt.Errorf("site %s: path %q has no {city} placeholder", s.Name, s.PathTemplate)
	}
	if s.Selectors.Card == "" || s.Selectors.Title == "" {
		return fmt.Errorf("site %s: card and title selectors are required", s.Name)
	}
	return nil
}

// withDefaults fills the placeholder strings every site needs
func (s Site) withDefaults() Site {
	if s.DefaultVenue == "" {
		s.DefaultVenue = "Venue not specified"
	}
	if s.DefaultDescription == "" {
		s.DefaultDescription = "View event details on " + s.Name
	}
	return s
}
