// Package router assembles the echo instance: global middleware, error
// handling and the route table.
package router

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/tickethub/internal/config"
	"github.com/iliyamo/tickethub/internal/handler"
	"github.com/iliyamo/tickethub/internal/metrics"
	"github.com/iliyamo/tickethub/internal/middleware"
)

// Deps is everything the routes need.  Redis and Metrics may be nil.
type Deps struct {
	Config   config.Config
	Log      logrus.FieldLogger
	Redis    *redis.Client
	Metrics  *metrics.Metrics
	Events   *handler.EventHandler
	Bookings *handler.BookingHandler
	Health   *handler.HealthHandler
}

// New returns an echo instance with all routes registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = handler.JSONSerializer{}
	e.HTTPErrorHandler = handler.HTTPErrorHandler(d.Log)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(d.Log, d.Metrics))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: d.Config.CORSOrigins,
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAccept, echo.HeaderOrigin},
	}))

	RegisterRoutes(e, d)
	return e
}

// RegisterRoutes maps the public API, health and metrics endpoints.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/", handler.Root)
	e.GET("/api/health", d.Health.Health)
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	RegisterEvents(e, d.Events, middleware.NewRedisCache(d.Config.Cache, d.Redis))
	RegisterBookings(e, d.Bookings, middleware.NewTokenBucket(d.Config.RateLimit, d.Redis, d.Log))
}
