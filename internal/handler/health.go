package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tickethub/internal/clock"
)

// BookingCounter reports how many bookings are held.
type BookingCounter interface {
	Count(ctx context.Context) int
}

// HealthHandler reports liveness together with store sizes.
type HealthHandler struct {
	Events   EventLister
	Bookings BookingCounter
	Clock    clock.Clock
}

type healthResponse struct {
	Status        string `json:"status"`
	Timestamp     string `json:"timestamp"`
	TotalEvents   int    `json:"total_events"`
	TotalBookings int    `json:"total_bookings"`
}

func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:        "healthy",
		Timestamp:     h.Clock.Now().Format(time.RFC3339),
		TotalEvents:   h.Events.Count(),
		TotalBookings: h.Bookings.Count(c.Request().Context()),
	})
}

// Root describes the API and its main endpoints.
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "TicketHub API",
		"version": "1.0.0",
		"endpoints": echo.Map{
			"events":   "/api/events",
			"bookings": "/api/bookings",
			"health":   "/api/health",
		},
	})
}
