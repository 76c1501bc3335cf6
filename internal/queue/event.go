// Package queue defines the booking lifecycle messages exchanged over the
// message broker and the consumer that records them.
package queue

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/tickethub/internal/model"
)

// Message types, carried in the AMQP Type property and in the body.
const (
	TypeBookingCreated   = "booking.created"
	TypeBookingCancelled = "booking.cancelled"
)

// DefaultQueueName is the durable queue both publisher and consumer declare
// when no other name is configured.
const DefaultQueueName = "booking.events"

// BookingMessage is published whenever a booking is created or cancelled.
// It carries enough of the booking for downstream consumers to log or
// notify without calling back into the API.
type BookingMessage struct {
	Type       string          `json:"type"`
	BookingID  string          `json:"booking_id"`
	EventID    int             `json:"event_id"`
	Event      string          `json:"event"`
	VenueID    int             `json:"venue_id"`
	Venue      string          `json:"venue"`
	Location   string          `json:"location"`
	Time       string          `json:"time"`
	Seats      int             `json:"seats"`
	Total      decimal.Decimal `json:"total"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewBookingMessage builds a message of the given type from b.
func NewBookingMessage(msgType string, b model.Booking, at time.Time) BookingMessage {
	return BookingMessage{
		Type:       msgType,
		BookingID:  b.ID,
		EventID:    b.EventID,
		Event:      b.Event,
		VenueID:    b.VenueID,
		Venue:      b.Venue,
		Location:   b.Location,
		Time:       b.Time,
		Seats:      b.Seats,
		Total:      b.Total,
		OccurredAt: at,
	}
}
