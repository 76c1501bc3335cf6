package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/tickethub/internal/repository"
	"github.com/iliyamo/tickethub/internal/service"
)

const (
	msgEventNotFound   = "Event not found"
	msgVenueNotFound   = "Venue not found"
	msgBookingNotFound = "Booking not found"
	msgMissingFields   = "Missing required fields"
	msgInvalidTimeSlot = "Invalid time slot"
	msgInvalidBody     = "Invalid request body"
	msgNotFound        = "Not found"
	msgInternal        = "Internal server error"
)

// errorStatus maps a domain error to the status code and client message.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrEventNotFound):
		return http.StatusNotFound, msgEventNotFound
	case errors.Is(err, repository.ErrVenueNotFound):
		return http.StatusNotFound, msgVenueNotFound
	case errors.Is(err, repository.ErrBookingNotFound):
		return http.StatusNotFound, msgBookingNotFound
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, service.ErrMissingFields):
		return http.StatusBadRequest, msgMissingFields
	case errors.Is(err, service.ErrInvalidTimeSlot):
		return http.StatusBadRequest, msgInvalidTimeSlot
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, msgInvalidBody
	}
	return http.StatusInternalServerError, msgInternal
}

func writeError(c echo.Context, err error) error {
	status, msg := errorStatus(err)
	return c.JSON(status, echo.Map{"error": msg})
}

// HTTPErrorHandler renders every error that reaches echo as {"error": msg}.
// Framework errors keep their status; 5xx never expose internal detail.
func HTTPErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, msg := errorStatus(err)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			switch status {
			case http.StatusNotFound:
				msg = msgNotFound
			case http.StatusInternalServerError:
				msg = msgInternal
			default:
				msg = http.StatusText(status)
				if s, ok := he.Message.(string); ok && status < 500 {
					msg = s
				}
			}
		}
		if status >= http.StatusInternalServerError {
			log.WithError(err).WithField("path", c.Request().URL.Path).Error("unhandled error")
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, echo.Map{"error": msg})
		}
		if werr != nil {
			log.WithError(werr).Warn("write error response")
		}
	}
}
