package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatusConfirmed is the only status a stored booking can have.
// Cancelled bookings are removed rather than transitioned.
const BookingStatusConfirmed = "confirmed"

// Booking is a confirmed reservation of seats for one event at one venue
// and time slot.  Event and venue display fields are copied at creation so
// the record stays meaningful on its own.  A booking is never modified
// after it is created.
type Booking struct {
	ID        string          `json:"booking_id"`
	EventID   int             `json:"event_id"`
	Event     string          `json:"event"`
	VenueID   int             `json:"venue_id"`
	Venue     string          `json:"venue"`
	Location  string          `json:"location"`
	Time      string          `json:"time"`
	Seats     int             `json:"seats"`
	Price     decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}
