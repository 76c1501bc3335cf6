// Package repository defines the in-memory stores behind the API and the
// error values they share.  Handlers and services match these sentinels
// with errors.Is; every specific "not found" error wraps ErrNotFound so a
// caller can also test for the general case.
package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is the umbrella for lookups that matched nothing.  Handlers
// translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

var (
	// ErrEventNotFound is returned when no catalog event has the id.
	ErrEventNotFound = fmt.Errorf("event %w", ErrNotFound)
	// ErrVenueNotFound is returned when the event has no venue with the id.
	ErrVenueNotFound = fmt.Errorf("venue %w", ErrNotFound)
	// ErrBookingNotFound is returned when no stored booking has the id.
	ErrBookingNotFound = fmt.Errorf("booking %w", ErrNotFound)
)

// ErrInvalidCatalog is returned when catalog data breaks an invariant
// (duplicate ids, non-positive price).  It is only produced at startup.
var ErrInvalidCatalog = errors.New("invalid catalog")
