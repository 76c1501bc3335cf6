package service

import (
	"errors"
	"fmt"
)

// ErrValidation is the umbrella for requests that are malformed or
// semantically invalid.  Handlers translate it into an HTTP 400 response.
var ErrValidation = errors.New("validation failed")

var (
	// ErrInvalidBody is returned when the request body is not valid JSON
	// or a field has the wrong type.
	ErrInvalidBody = fmt.Errorf("invalid request body: %w", ErrValidation)
	// ErrMissingFields is returned when event_id, venue_id, time or seats
	// is absent.
	ErrMissingFields = fmt.Errorf("missing required fields: %w", ErrValidation)
	// ErrInvalidTimeSlot is returned when the time is not one of the
	// venue's slots.
	ErrInvalidTimeSlot = fmt.Errorf("invalid time slot: %w", ErrValidation)
)
