package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tickethub/internal/model"
	"github.com/iliyamo/tickethub/internal/repository"
)

// EventLister is the read side of the catalog.  *repository.EventRepo
// implements it.
type EventLister interface {
	List(ctx context.Context, category string) []model.Event
	GetByID(ctx context.Context, id int) (model.Event, error)
	Count() int
}

// EventHandler serves the read-only catalog.
type EventHandler struct {
	Events EventLister
}

// ListEvents returns all events, or only those whose category matches the
// "category" query parameter exactly.  "all" and empty mean no filter.
func (h *EventHandler) ListEvents(c echo.Context) error {
	events := h.Events.List(c.Request().Context(), c.QueryParam("category"))
	return c.JSON(http.StatusOK, events)
}

// GetEvent returns one event.  Ids that are not integers are reported as
// unknown events.
func (h *EventHandler) GetEvent(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return writeError(c, repository.ErrEventNotFound)
	}
	event, err := h.Events.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, event)
}
