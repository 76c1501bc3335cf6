// Package service holds the booking workflow: validating a request against
// the event catalog, pricing it, assigning an identifier and storing it.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/tickethub/internal/clock"
	"github.com/iliyamo/tickethub/internal/metrics"
	"github.com/iliyamo/tickethub/internal/model"
	"github.com/iliyamo/tickethub/internal/queue"
	"github.com/iliyamo/tickethub/internal/repository"
)

// EventFinder resolves catalog events by id.
type EventFinder interface {
	GetByID(ctx context.Context, id int) (model.Event, error)
}

// BookingStore persists bookings.  *repository.BookingRepo implements it.
type BookingStore interface {
	Create(ctx context.Context, b model.Booking) error
	List(ctx context.Context) []model.Booking
	GetByID(ctx context.Context, id string) (model.Booking, error)
	DeleteByID(ctx context.Context, id string) (model.Booking, int, error)
	Count(ctx context.Context) int
}

const (
	outboxSize     = 256
	publishTimeout = 5 * time.Second
)

type BookingService struct {
	events    EventFinder
	store     BookingStore
	clock     clock.Clock
	newID     IDGenerator
	publisher Publisher
	metrics   *metrics.Metrics
	log       logrus.FieldLogger

	// Lifecycle messages are handed to a single worker so requests never
	// wait on the broker and messages keep their order.
	outboxMu  sync.RWMutex
	outbox    chan queue.BookingMessage
	closed    bool
	closeOnce sync.Once
	done      chan struct{}
}

type BookingServiceOption func(*BookingService)

// WithIDGenerator replaces NewBookingID.
func WithIDGenerator(gen IDGenerator) BookingServiceOption {
	return func(s *BookingService) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithPublisher sets where booking lifecycle messages are sent.
func WithPublisher(p Publisher) BookingServiceOption {
	return func(s *BookingService) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithMetrics(m *metrics.Metrics) BookingServiceOption {
	return func(s *BookingService) { s.metrics = m }
}

func WithLogger(l logrus.FieldLogger) BookingServiceOption {
	return func(s *BookingService) {
		if l != nil {
			s.log = l
		}
	}
}

func NewBookingService(events EventFinder, store BookingStore, clk clock.Clock, opts ...BookingServiceOption) *BookingService {
	nullLog := logrus.New()
	nullLog.Out = io.Discard
	svc := &BookingService{
		events:    events,
		store:     store,
		clock:     clk,
		newID:     NewBookingID,
		publisher: NoopPublisher{},
		log:       nullLog,
	}
	for _, opt := range opts {
		opt(svc)
	}

	svc.done = make(chan struct{})
	if _, noop := svc.publisher.(NoopPublisher); noop {
		close(svc.done)
		return svc
	}
	svc.outbox = make(chan queue.BookingMessage, outboxSize)
	go svc.runOutbox()
	return svc
}

// Close stops accepting lifecycle messages and waits until the queued ones
// have been published or have failed.  It is safe to call more than once.
func (s *BookingService) Close() {
	s.closeOnce.Do(func() {
		s.outboxMu.Lock()
		s.closed = true
		if s.outbox != nil {
			close(s.outbox)
		}
		s.outboxMu.Unlock()
	})
	<-s.done
}

func (s *BookingService) runOutbox() {
	defer close(s.done)
	for msg := range s.outbox {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		err := s.publisher.Publish(ctx, msg)
		cancel()
		if err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"booking_id": msg.BookingID,
				"type":       msg.Type,
			}).Warn("failed to publish booking message")
		}
	}
}

// CreateBookingInput is a booking request after JSON decoding.  Nil fields
// were absent from the request.
type CreateBookingInput struct {
	EventID *int
	VenueID *int
	Time    *string
	Seats   *int
}

func (in CreateBookingInput) complete() bool {
	return in.EventID != nil && in.VenueID != nil && in.Time != nil && in.Seats != nil
}

// CreateBooking validates in against the catalog and stores a confirmed
// booking.  Checks run in order: field presence, event, venue within that
// event, time slot.  The seat count is used as given, so zero or negative
// values yield a zero or negative total.
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (model.Booking, error) {
	if !in.complete() {
		s.metrics.BookingFailed("missing_fields")
		return model.Booking{}, ErrMissingFields
	}

	event, err := s.events.GetByID(ctx, *in.EventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			s.metrics.BookingFailed("event_not_found")
		}
		return model.Booking{}, err
	}

	venue, ok := event.FindVenue(*in.VenueID)
	if !ok {
		s.metrics.BookingFailed("venue_not_found")
		return model.Booking{}, repository.ErrVenueNotFound
	}

	if !venue.HasTime(*in.Time) {
		s.metrics.BookingFailed("invalid_time_slot")
		return model.Booking{}, ErrInvalidTimeSlot
	}

	id, err := s.newID()
	if err != nil {
		return model.Booking{}, fmt.Errorf("generate booking id: %w", err)
	}

	seats := *in.Seats
	booking := model.Booking{
		ID:        id,
		EventID:   event.ID,
		Event:     event.Title,
		VenueID:   venue.ID,
		Venue:     venue.Name,
		Location:  venue.Location,
		Time:      *in.Time,
		Seats:     seats,
		Price:     event.Price,
		Total:     event.Price.Mul(decimal.NewFromInt(int64(seats))),
		Status:    model.BookingStatusConfirmed,
		CreatedAt: s.clock.Now(),
	}

	if err := s.store.Create(ctx, booking); err != nil {
		return model.Booking{}, fmt.Errorf("store booking: %w", err)
	}

	s.metrics.BookingCreated()
	s.metrics.SetActiveBookings(s.store.Count(ctx))
	s.log.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"event_id":   booking.EventID,
		"venue_id":   booking.VenueID,
		"seats":      booking.Seats,
		"total":      booking.Total.String(),
	}).Info("booking created")

	s.publish(queue.TypeBookingCreated, booking)
	return booking, nil
}

// ListBookings returns all bookings in creation order.
func (s *BookingService) ListBookings(ctx context.Context) []model.Booking {
	return s.store.List(ctx)
}

// GetBooking returns the booking with the given id or
// repository.ErrBookingNotFound.
func (s *BookingService) GetBooking(ctx context.Context, id string) (model.Booking, error) {
	return s.store.GetByID(ctx, id)
}

// CancelBooking deletes the booking with the given id, and any other
// booking that happens to share it.  Cancelled bookings are gone; there
// is no cancelled status.
func (s *BookingService) CancelBooking(ctx context.Context, id string) error {
	booking, removed, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		return err
	}

	s.metrics.BookingsCancelled(removed)
	s.metrics.SetActiveBookings(s.store.Count(ctx))
	s.log.WithFields(logrus.Fields{
		"booking_id": id,
		"removed":    removed,
	}).Info("booking cancelled")

	s.publish(queue.TypeBookingCancelled, booking)
	return nil
}

// Count returns the number of bookings currently held.
func (s *BookingService) Count(ctx context.Context) int {
	return s.store.Count(ctx)
}

// publish is best effort: the booking change already happened and is
// not rolled back when the broker is unavailable or the outbox is full.
func (s *BookingService) publish(msgType string, b model.Booking) {
	msg := queue.NewBookingMessage(msgType, b, s.clock.Now())

	s.outboxMu.RLock()
	defer s.outboxMu.RUnlock()
	if s.outbox == nil || s.closed {
		return
	}
	select {
	case s.outbox <- msg:
	default:
		s.log.WithFields(logrus.Fields{
			"booking_id": b.ID,
			"type":       msgType,
		}).Warn("booking message outbox full, message dropped")
	}
}
