package sources

// Built-in listing sites in priority order
var (
	Insider = Site{
		Name:               "insider",
		BaseURL:            "https://insider.in",
		PathTemplate:       "/{city}/all-events",
		DefaultVenue:       "Venue not specified",
		DefaultDescription: "View event details on Insider",
		Selectors: Selectors{
			Card:        "div[data-event-id]",
			Title:       "h3, h4, .event-title",
			Date:        ".date-display, .event-date",
			Venue:       ".venue-display, .event-venue",
			Description: ".event-description, .description",
		},
	}

	BookMyShow = Site{
		Name:               "bookmyshow",
		BaseURL:            "https://in.bookmyshow.com",
		PathTemplate:       "/{city}/events",
		DefaultVenue:       "Venue not specified",
		DefaultDescription: "View event details on BookMyShow",
		Selectors: Selectors{
			Card:  ".event-card, .bwc__sc-1nbn7v6-0",
			Title: "h4, .bwc__sc-1nbn7v6-9",
			Date:  ".date-venue time, .bwc__sc-1nbn7v6-13",
			Venue: ".date-venue address, .bwc__sc-1nbn7v6-14",
		},
	}

	AllEvents = Site{
		Name:               "allevents",
		BaseURL:            "https://allevents.in",
		PathTemplate:       "/{city}/events",
		DefaultVenue:       "Venue not specified",
		DefaultDescription: "View event details on AllEvents",
		Selectors: Selectors{
			Card:        ".event-item, .event-card, .event-list-item",
			Title:       ".title, .event-title",
			Date:        ".date, .event-date",
			Venue:       ".venue, .location",
			Description: ".event-description, .description",
		},
	}
)

// BuiltinSites returns the listing sites searched by default
func BuiltinSites() []Site {
	return []Site{Insider, BookMyShow, AllEvents}
}

// MeetupName is the name of the Meetup API source
const MeetupName = "meetup"

// DefaultOrder is the default source priority
func DefaultOrder() []string {
	return []string{Insider.Name, BookMyShow.Name, AllEvents.Name, MeetupName}
}
