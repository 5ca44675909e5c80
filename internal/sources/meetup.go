package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/law-makers/localevents/internal/dateparse"
	"github.com/law-makers/localevents/internal/engine"
	"github.com/law-makers/localevents/internal/reqctx"
	"github.com/law-makers/localevents/internal/retry"
	"github.com/law-makers/localevents/internal/utils/text"
	"github.com/law-makers/localevents/pkg/models"
)

// MeetupCategories are the Meetup topic categories searched for groups
var MeetupCategories = []int{
	1, 2, 3, 4, 5, 6, 8, 9, 10, 11, 13, 14, 15, 16, 17, 18,
	20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35,
}

// MeetupConfig holds the tunables of the Meetup search
type MeetupConfig struct {
	BaseURL string `yaml:"base_url"`
	// RadiusMiles around the city center to look for groups
	RadiusMiles int   `yaml:"radius_miles"`
	Categories  []int `yaml:"categories"`
	// Limit caps the number of fragments returned, and the groups requested
	Limit int `yaml:"limit"`
	// PerGroup is the number of upcoming events requested per group
	PerGroup int `yaml:"per_group"`
}

// DefaultMeetupConfig returns the settings used when nothing is configured
func DefaultMeetupConfig() MeetupConfig {
	return MeetupConfig{
		BaseURL:     "https://api.meetup.com",
		RadiusMiles: 50,
		Categories:  append([]int(nil), MeetupCategories...),
		Limit:       50,
		PerGroup:    5,
	}
}

const (
	meetupNoTitle       = "No Title"
	meetupNoDescription = "No Description"
)

// MeetupSource discovers groups near a city and lists their upcoming events
type MeetupSource struct {
	cfg       MeetupConfig
	fetcher   engine.Fetcher
	geocoder  Geocoder
	converter *md.Converter
}

// NewMeetupSource creates the Meetup source
func NewMeetupSource(cfg MeetupConfig, fetcher engine.Fetcher, geocoder Geocoder) *MeetupSource {
	def := DefaultMeetupConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.RadiusMiles <= 0 {
		cfg.RadiusMiles = def.RadiusMiles
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = def.Categories
	}
	if cfg.Limit <= 0 {
		cfg.Limit = def.Limit
	}
	if cfg.PerGroup <= 0 {
		cfg.PerGroup = def.PerGroup
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &MeetupSource{
		cfg:       cfg,
		fetcher:   fetcher,
		geocoder:  geocoder,
		converter: md.NewConverter("", true, nil),
	}
}

// Name returns "meetup"
func (m *MeetupSource) Name() string {
	return MeetupName
}

type meetupGroup struct {
	URLName    string `json:"urlname"`
	Name       string `json:"name"`
	City       string `json:"city"`
	GroupPhoto struct {
		PhotoLink string `json:"photo_link"`
	} `json:"group_photo"`
}

type meetupVenue struct {
	Name     string `json:"name"`
	Address1 string `json:"address_1"`
	City     string `json:"city"`
	State    string `json:"state"`
	Country  string `json:"country"`
}

type meetupEvent struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Time        int64        `json:"time"`
	UTCOffset   int64        `json:"utc_offset"`
	LocalDate   string       `json:"local_date"`
	Venue       *meetupVenue `json:"venue"`
	Link        string       `json:"link"`
}

// Search geocodes city and collects events from nearby groups until the
// configured limit is reached
func (m *MeetupSource) Search(ctx context.Context, city string) ([]models.Fragment, error) {
	logger := reqctx.Logger(ctx)

	coords, err := m.geocoder.Locate(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("meetup: %w", err)
	}

	groups, err := m.groups(ctx, coords)
	if err != nil {
		return nil, fmt.Errorf("meetup: %w", err)
	}
	logger.Debug().Int("groups", len(groups)).Msg("Meetup groups found")

	frags := make([]models.Fragment, 0, m.cfg.Limit)
	for _, g := range groups {
		if g.URLName == "" {
			continue
		}
		if ctx.Err() != nil {
			return frags, nil
		}

		events, err := m.events(ctx, g.URLName)
		if err != nil {
			if retry.IsStatus(err, http.StatusNotFound) {
				continue
			}
			logger.Warn().Err(err).Str("group", g.URLName).Msg("Skipping Meetup group")
			continue
		}

		for _, ev := range events {
			frags = append(frags, m.fragment(g, ev))
			if len(frags) >= m.cfg.Limit {
				return frags, nil
			}
		}
	}

	return frags, nil
}

func (m *MeetupSource) groups(ctx context.Context, c Coordinates) ([]meetupGroup, error) {
	cats := make([]string, len(m.cfg.Categories))
	for i, id := range m.cfg.Categories {
		cats[i] = strconv.Itoa(id)
	}

	page, err := m.fetcher.Fetch(ctx, models.RequestOptions{
		URL:    m.cfg.BaseURL + "/find/groups",
		Accept: acceptJSON,
		Query: map[string]string{
			"lat":             strconv.FormatFloat(c.Lat, 'f', -1, 64),
			"lon":             strconv.FormatFloat(c.Lon, 'f', -1, 64),
			"radius":          strconv.Itoa(m.cfg.RadiusMiles),
			"category_ids":    strings.Join(cats, ","),
			"upcoming_events": "true",
			"page":            strconv.Itoa(m.cfg.Limit),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("find groups: %w", err)
	}

	var groups []meetupGroup
	if err := json.Unmarshal(page.Body, &groups); err != nil {
		return nil, fmt.Errorf("find groups: decode: %w", err)
	}
	return groups, nil
}

func (m *MeetupSource) events(ctx context.Context, urlname string) ([]meetupEvent, error) {
	page, err := m.fetcher.Fetch(ctx, models.RequestOptions{
		URL:    m.cfg.BaseURL + "/" + urlname + "/events",
		Accept: acceptJSON,
		Query:  map[string]string{"page": strconv.Itoa(m.cfg.PerGroup)},
	})
	if err != nil {
		return nil, err
	}

	var events []meetupEvent
	if err := json.Unmarshal(page.Body, &events); err != nil {
		return nil, fmt.Errorf("group %s: decode: %w", urlname, err)
	}
	return events, nil
}

func (m *MeetupSource) fragment(g meetupGroup, ev meetupEvent) models.Fragment {
	f := models.Fragment{
		Title:       text.OrDefault(ev.Name, meetupNoTitle),
		DateText:    meetupDate(ev),
		Venue:       models.VenueNotSpecified,
		URL:         ev.Link,
		ImageURL:    g.GroupPhoto.PhotoLink,
		Description: m.description(ev.Description),
		Source:      MeetupName,
	}
	if f.URL == "" {
		f.URL = models.NoURL
	}
	if ev.Venue != nil {
		f.Venue = text.OrDefault(joinNonEmpty(ev.Venue.Name, ev.Venue.City), models.VenueNotSpecified)
	}
	return f
}

// description converts the HTML event description to plain text
func (m *MeetupSource) description(html string) string {
	if strings.TrimSpace(html) == "" {
		return meetupNoDescription
	}
	plain, err := m.converter.ConvertString(html)
	if err != nil {
		plain = html
	}
	return text.OrDefault(plain, meetupNoDescription)
}

// meetupDate prefers the event's local date and falls back to its start time
func meetupDate(ev meetupEvent) string {
	if ev.LocalDate != "" {
		if t, err := dateparse.ParseISO(ev.LocalDate); err == nil {
			return dateparse.FormatISO(t)
		}
	}
	if ev.Time > 0 {
		t := time.UnixMilli(ev.Time + ev.UTCOffset).UTC()
		return dateparse.FormatISO(t)
	}
	return models.DateNotSpecified
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = text.Clean(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
