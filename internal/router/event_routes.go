package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tickethub/internal/handler"
)

// RegisterEvents registers the read-only catalog under /api/events.
// The catalog never changes at runtime, so its responses can be cached.
func RegisterEvents(e *echo.Echo, h *handler.EventHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/api/events", cache)
	g.GET("", h.ListEvents)
	g.GET("/:id", h.GetEvent)
}
