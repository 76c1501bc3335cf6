package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/tickethub/internal/clock"
	"github.com/iliyamo/tickethub/internal/config"
	"github.com/iliyamo/tickethub/internal/handler"
	"github.com/iliyamo/tickethub/internal/metrics"
	"github.com/iliyamo/tickethub/internal/queue"
	"github.com/iliyamo/tickethub/internal/repository"
	"github.com/iliyamo/tickethub/internal/router"
	"github.com/iliyamo/tickethub/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	log, err := newLogger(cfg, os.Stdout)
	if err != nil {
		logrus.WithError(err).Fatal("invalid logger configuration")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	events, err := repository.LoadEventRepo(cfg.CatalogFile)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	log.WithField("events", events.Count()).Info("catalog loaded")

	// Redis only backs the response cache and the rate limiter, so the
	// service runs without it.
	rdb, err := config.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.WithError(err).Warn("redis unavailable, cache and rate limit disabled")
		rdb = nil
	}
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				log.WithError(err).Error("closing redis client")
			}
		}()
	}

	m := metrics.New()
	opts := []service.BookingServiceOption{
		service.WithMetrics(m),
		service.WithLogger(log.WithField("component", "booking")),
	}
	if cfg.Broker.URL != "" {
		opts = append(opts, service.WithPublisher(service.NewAMQPPublisher(cfg.Broker.URL, cfg.Broker.Queue)))
	}
	bookings := service.NewBookingService(events, repository.NewBookingRepo(), clock.NewSystem(), opts...)

	e := router.New(router.Deps{
		Config:   cfg,
		Log:      log,
		Redis:    rdb,
		Metrics:  m,
		Events:   &handler.EventHandler{Events: events},
		Bookings: &handler.BookingHandler{Bookings: bookings, Metrics: m},
		Health:   &handler.HealthHandler{Events: events, Bookings: bookings, Clock: clock.NewSystem()},
	})

	g, runCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithFields(logrus.Fields{"addr": cfg.Addr(), "env": cfg.Env}).Info("starting http server")
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("starting http server: %w", err)
		}
		return nil
	})

	if cfg.Broker.ConsumerEnabled && cfg.Broker.URL != "" {
		consumer := queue.NewConsumer(cfg.Broker.URL, cfg.Broker.Queue, cfg.Broker.LogPath, log.WithField("component", "consumer"))
		g.Go(func() error {
			return consumer.Run(runCtx)
		})
	}

	g.Go(func() error {
		<-runCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		log.Info("shutting down http server")
		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}
		return nil
	})

	err = g.Wait()
	// Flush booking messages queued before the server stopped.
	bookings.Close()
	if err != nil {
		return err
	}
	log.Info("shutdown complete")
	return nil
}
