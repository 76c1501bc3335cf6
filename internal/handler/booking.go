package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tickethub/internal/metrics"
	"github.com/iliyamo/tickethub/internal/service"
)

// BookingHandler exposes the booking service over HTTP.
type BookingHandler struct {
	Bookings *service.BookingService
	Metrics  *metrics.Metrics
}

// createBookingRequest is the POST /api/bookings body.  Pointer fields let
// an absent (or null) field be told apart from a zero value.
type createBookingRequest struct {
	EventID *int    `json:"event_id"`
	VenueID *int    `json:"venue_id"`
	Time    *string `json:"time"`
	Seats   *int    `json:"seats"`
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		h.Metrics.BookingFailed("invalid_body")
		return writeError(c, service.ErrInvalidBody)
	}

	booking, err := h.Bookings.CreateBooking(c.Request().Context(), service.CreateBookingInput{
		EventID: req.EventID,
		VenueID: req.VenueID,
		Time:    req.Time,
		Seats:   req.Seats,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, booking)
}

func (h *BookingHandler) ListBookings(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Bookings.ListBookings(c.Request().Context()))
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	booking, err := h.Bookings.GetBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, booking)
}

// CancelBooking removes the booking.  It is not idempotent: a second
// cancellation of the same id is a 404.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	if err := h.Bookings.CancelBooking(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Booking cancelled successfully"})
}
