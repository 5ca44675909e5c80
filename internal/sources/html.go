package sources

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/localevents/internal/dateparse"
	"github.com/law-makers/localevents/internal/engine"
	"github.com/law-makers/localevents/internal/reqctx"
	"github.com/law-makers/localevents/internal/utils/text"
	urlutil "github.com/law-makers/localevents/internal/utils/url"
	"github.com/law-makers/localevents/pkg/models"
	"github.com/rs/zerolog"
)

// HTMLSource scrapes one listing site described by a Site record
type HTMLSource struct {
	site    Site
	fetcher engine.Fetcher
}

// NewHTMLSource binds a site to the engine used to fetch its pages
func NewHTMLSource(site Site, fetcher engine.Fetcher) *HTMLSource {
	return &HTMLSource{site: site.withDefaults(), fetcher: fetcher}
}

// Name returns the site name
func (h *HTMLSource) Name() string {
	return h.site.Name
}

// Site returns the site configuration in use
func (h *HTMLSource) Site() Site {
	return h.site
}

// Search fetches the city's listing page and extracts its event cards
func (h *HTMLSource) Search(ctx context.Context, city string) ([]models.Fragment, error) {
	listing := h.site.ListingURL(city)
	logger := reqctx.Logger(ctx)

	logger.Debug().
		Str("source", h.site.Name).
		Str("url", listing).
		Msg("Fetching listing")

	page, err := h.fetcher.Fetch(ctx, models.RequestOptions{
		URL:          listing,
		Accept:       acceptHTML,
		WaitSelector: h.site.WaitSelector,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", h.site.Name, err)
	}

	frags, err := h.Extract(ctx, bytes.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", h.site.Name, err)
	}

	logger.Debug().
		Str("source", h.site.Name).
		Int("fragments", len(frags)).
		Msg("Listing parsed")

	return frags, nil
}

// Extract parses a listing page. Cards without a title node are skipped, as
// are cards that fail while being read.
func (h *HTMLSource) Extract(ctx context.Context, r io.Reader) ([]models.Fragment, error) {
	logger := reqctx.Logger(ctx)

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, engine.NewEngineError(engine.ErrCodeParseError, h.site.BaseURL, "failed to parse HTML", err)
	}

	cards := doc.Find(h.site.Selectors.Card)
	logger.Debug().
		Str("source", h.site.Name).
		Int("cards", cards.Length()).
		Msg("Found event cards")

	frags := make([]models.Fragment, 0, cards.Length())
	cards.Each(func(i int, card *goquery.Selection) {
		if f, ok := h.card(logger, i, card); ok {
			frags = append(frags, f)
		}
	})

	return frags, nil
}

func (h *HTMLSource) card(logger *zerolog.Logger, i int, card *goquery.Selection) (f models.Fragment, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn().
				Str("source", h.site.Name).
				Int("card", i).
				Interface("panic", r).
				Msg("Skipping unreadable event card")
			ok = false
		}
	}()

	sel := h.site.Selectors

	title := card.Find(sel.Title).First()
	if title.Length() == 0 {
		return models.Fragment{}, false
	}

	f = models.Fragment{
		Title:       text.Clean(title.Text()),
		DateText:    h.dateText(card),
		Venue:       h.site.DefaultVenue,
		URL:         models.NoURL,
		Description: h.site.DefaultDescription,
		Source:      h.site.Name,
	}

	if sel.Venue != "" {
		f.Venue = text.OrDefault(card.Find(sel.Venue).First().Text(), h.site.DefaultVenue)
	}
	if href, exists := card.Find("a[href]").First().Attr("href"); exists {
		f.URL = urlutil.Absolutize(h.site.BaseURL, href, models.NoURL)
	}
	if src, exists := card.Find("img[src]").First().Attr("src"); exists {
		f.ImageURL = urlutil.Absolutize(h.site.BaseURL, src, "")
	}
	if sel.Description != "" {
		f.Description = text.OrDefault(card.Find(sel.Description).First().Text(), h.site.DefaultDescription)
	}

	return f, true
}

// dateText returns the card date as YYYY-MM-DD when it can be read, the
// cleaned raw text when it cannot, and DateNotSpecified when there is none
func (h *HTMLSource) dateText(card *goquery.Selection) string {
	if h.site.Selectors.Date == "" {
		return models.DateNotSpecified
	}
	node := card.Find(h.site.Selectors.Date).First()
	if node.Length() == 0 {
		return models.DateNotSpecified
	}

	raw := text.Clean(node.Text())
	if raw == "" {
		// <time datetime="..."> with an empty body
		raw = text.Clean(node.AttrOr("datetime", ""))
	}
	if t, ok := dateparse.Parse(raw); ok {
		return dateparse.FormatISO(t)
	}
	return text.OrDefault(raw, models.DateNotSpecified)
}
