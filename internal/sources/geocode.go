package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/law-makers/localevents/internal/engine"
	"github.com/law-makers/localevents/pkg/models"
)

// Nominatim defaults
const (
	DefaultGeocoderURL       = "https://nominatim.openstreetmap.org/search"
	DefaultGeocoderUserAgent = "LocalEventFinder/1.0"
	DefaultGeocoderTimeout   = 10 * time.Second
)

// ErrPlaceNotFound is returned when the geocoder has no match
var ErrPlaceNotFound = errors.New("place not found")

// Coordinates is a WGS84 position
type Coordinates struct {
	Lat float64
	Lon float64
}

// Geocoder resolves a place name to coordinates
type Geocoder interface {
	Locate(ctx context.Context, place string) (Coordinates, error)
}

// Nominatim queries an OpenStreetMap Nominatim search endpoint
type Nominatim struct {
	URL       string
	UserAgent string
	Timeout   time.Duration
	fetcher   engine.Fetcher
}

// NewNominatim creates a geocoder using the public Nominatim service
func NewNominatim(fetcher engine.Fetcher) *Nominatim {
	return &Nominatim{
		URL:       DefaultGeocoderURL,
		UserAgent: DefaultGeocoderUserAgent,
		Timeout:   DefaultGeocoderTimeout,
		fetcher:   fetcher,
	}
}

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Locate returns the coordinates of the best match for place
func (n *Nominatim) Locate(ctx context.Context, place string) (Coordinates, error) {
	page, err := n.fetcher.Fetch(ctx, models.RequestOptions{
		URL:     n.URL,
		Accept:  acceptJSON,
		Headers: map[string]string{"User-Agent": n.UserAgent},
		Query: map[string]string{
			"q":      place,
			"format": "json",
			"limit":  "1",
		},
		Timeout: n.Timeout,
	})
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocode %q: %w", place, err)
	}

	var places []nominatimPlace
	if err := json.Unmarshal(page.Body, &places); err != nil {
		return Coordinates{}, fmt.Errorf("geocode %q: decode: %w", place, err)
	}
	if len(places) == 0 {
		return Coordinates{}, fmt.Errorf("geocode %q: %w", place, ErrPlaceNotFound)
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocode %q: bad latitude: %w", place, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocode %q: bad longitude: %w", place, err)
	}

	return Coordinates{Lat: lat, Lon: lon}, nil
}
