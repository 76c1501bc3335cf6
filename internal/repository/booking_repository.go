package repository

import (
	"context"
	"sync"

	"github.com/iliyamo/tickethub/internal/model"
)

// BookingRepo holds bookings in memory in insertion order.  All access
// goes through a single RWMutex: Create and DeleteByID take the write
// lock so concurrent requests cannot lose updates, readers take the read
// lock and receive copies.  Nothing survives a restart.
type BookingRepo struct {
	mu       sync.RWMutex
	bookings []model.Booking
}

// NewBookingRepo returns an empty store.
func NewBookingRepo() *BookingRepo {
	return &BookingRepo{}
}

// Create appends b to the store.  The id is not checked for uniqueness.
func (r *BookingRepo) Create(ctx context.Context, b model.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings = append(r.bookings, b)
	return nil
}

// List returns every stored booking in insertion order.  The slice is a
// copy and never nil.
func (r *BookingRepo) List(_ context.Context) []model.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Booking, len(r.bookings))
	copy(out, r.bookings)
	return out
}

// GetByID returns the first booking (in insertion order) with the given
// id, or ErrBookingNotFound.
func (r *BookingRepo) GetByID(_ context.Context, id string) (model.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return model.Booking{}, ErrBookingNotFound
}

// DeleteByID removes every booking carrying id.  It returns the first
// removed booking (the one GetByID would have returned) and how many were
// removed.  When none match it returns ErrBookingNotFound and leaves the
// store untouched.
func (r *BookingRepo) DeleteByID(ctx context.Context, id string) (model.Booking, int, error) {
	if err := ctx.Err(); err != nil {
		return model.Booking{}, 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var first model.Booking
	kept := make([]model.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		if b.ID != id {
			kept = append(kept, b)
			continue
		}
		if first.ID == "" {
			first = b
		}
	}
	removed := len(r.bookings) - len(kept)
	if removed == 0 {
		return model.Booking{}, 0, ErrBookingNotFound
	}
	r.bookings = kept
	return first, removed, nil
}

// Count returns the number of stored bookings.
func (r *BookingRepo) Count(_ context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bookings)
}
