package model

import "github.com/shopspring/decimal"

func init() {
	// Prices and totals are rendered as plain JSON numbers (250, not "250").
	decimal.MarshalJSONWithoutQuotes = true
}

// Event represents a bookable occurrence in the catalog (a movie
// screening, a concert, a match).  Events are loaded once at startup
// and never change while the process runs.
//
// Fields:
//  ID       – catalog-wide unique identifier.
//  Title    – display title.
//  Category – free-form tag such as movies, concerts, events, sports.
//  Image, Rating, Genre, Duration, Language – display only.
//  Price    – price of a single seat; always positive.
//  Venues   – ordered venues where the event takes place.
type Event struct {
	ID       int             `json:"id"`
	Title    string          `json:"title"`
	Category string          `json:"category"`
	Image    string          `json:"image"`
	Rating   float64         `json:"rating"`
	Genre    string          `json:"genre"`
	Duration string          `json:"duration"`
	Language string          `json:"language"`
	Venues   []Venue         `json:"venues"`
	Price    decimal.Decimal `json:"price"`
}

// Venue is a location/showtime grouping owned by exactly one Event.  Venue
// IDs are only unique within their parent event.
type Venue struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Location string   `json:"location"`
	Times    []string `json:"times"`
}

// FindVenue returns the venue with the given id from the event's own venue
// list.  Venues belonging to other events are never considered.
func (e Event) FindVenue(id int) (Venue, bool) {
	for _, v := range e.Venues {
		if v.ID == id {
			return v, true
		}
	}
	return Venue{}, false
}

// HasTime reports whether slot is one of the venue's time slots.  Slots are
// compared as opaque strings.
func (v Venue) HasTime(slot string) bool {
	for _, t := range v.Times {
		if t == slot {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers cannot mutate catalog-owned slices.
func (e Event) Clone() Event {
	out := e
	out.Venues = make([]Venue, len(e.Venues))
	for i, v := range e.Venues {
		v.Times = append([]string(nil), v.Times...)
		out.Venues[i] = v
	}
	return out
}
