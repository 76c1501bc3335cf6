package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tickethub/internal/handler"
)

// RegisterBookings registers the booking endpoints under /api/bookings.
// Only creation is rate limited.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, limit echo.MiddlewareFunc) {
	g := e.Group("/api/bookings")
	g.POST("", h.CreateBooking, limit)
	g.GET("", h.ListBookings)
	g.GET("/:id", h.GetBooking)
	g.DELETE("/:id", h.CancelBooking)
}
