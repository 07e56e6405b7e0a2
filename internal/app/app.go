// Package app wires configuration, storage, messaging and HTTP into one
// runnable server.
package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/court-booking/internal/config"
	"github.com/iliyamo/court-booking/internal/database"
	"github.com/iliyamo/court-booking/internal/handler"
	"github.com/iliyamo/court-booking/internal/middleware"
	"github.com/iliyamo/court-booking/internal/queue"
	"github.com/iliyamo/court-booking/internal/repository"
	"github.com/iliyamo/court-booking/internal/router"
	"github.com/iliyamo/court-booking/internal/service"
)

// shutdownTimeout bounds how long in-flight requests may finish after a
// stop signal.
const shutdownTimeout = 10 * time.Second

type eventSink interface {
	service.EventPublisher
	io.Closer
}

type App struct {
	cfg    config.Config
	logger *logrus.Logger
	db     *sqlx.DB
	rdb    *redis.Client
	events eventSink
	echo   *echo.Echo
}

// New opens the database (migrating it when AutoMigrate is set), connects
// the optional Redis and RabbitMQ backends and registers every route.
// Redis and RabbitMQ are optional: without them the rate limiter and the
// response cache pass through and booking events are dropped.
func New(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*App, error) {
	db, err := database.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.WithField("driver", cfg.DBDriver).Info("schema migrated")
	}

	rdb := config.NewRedisClient(cfg.Redis)
	if cfg.Redis.Enabled && rdb == nil {
		logger.WithField("addr", cfg.Redis.Address()).Warn("redis unreachable; rate limiting and caching disabled")
	}

	var events eventSink = queue.Nop{}
	if cfg.RabbitMQURL != "" {
		pub, err := queue.NewPublisher(cfg.RabbitMQURL, cfg.BookingExchange)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; booking events disabled")
		} else {
			events = pub
		}
	}

	a := &App{cfg: cfg, logger: logger, db: db, rdb: rdb, events: events}
	a.echo = a.routes()
	return a, nil
}

func (a *App) routes() *echo.Echo {
	courts := repository.NewCourtRepo(a.db)
	schedules := repository.NewScheduleRepo(a.db)
	bookings := repository.NewBookingRepo(a.db)
	holidays := repository.NewHolidayRepo(a.db)
	profiles := repository.NewProfileRepo(a.db)
	tokens := repository.NewTokenRepo(a.db)

	cache := middleware.NewResponseCache(a.cfg.Cache, a.rdb)
	limiter := middleware.NewTokenBucket(a.cfg.RateLimit, a.rdb)

	bookingSvc := service.NewBookingService(courts, schedules, bookings, holidays, a.events, cache)
	weekSvc := service.NewWeekService(courts, schedules, bookings, holidays)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(a.logger))

	router.RegisterRoutes(e, handler.NewHealthHandler(a.db))
	router.RegisterAuth(e, handler.NewAuthHandler(a.cfg, profiles, tokens), a.cfg.JWTSecret, limiter)
	router.RegisterPublic(e, handler.NewPublicHandler(courts, schedules, holidays, weekSvc, bookingSvc), limiter, cache)
	router.RegisterAdmin(e, handler.NewAdminHandler(courts, schedules, holidays, profiles, bookingSvc), a.cfg.JWTSecret, profiles, cache)
	return e
}

// Handler exposes the HTTP handler, mainly for tests.
func (a *App) Handler() http.Handler { return a.echo }

// Run serves HTTP until ctx is cancelled, then shuts down gracefully and
// releases every backend.
func (a *App) Run(ctx context.Context) error {
	addr := ":" + a.cfg.Port

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.WithFields(logrus.Fields{"addr": addr, "env": a.cfg.Env}).Info("starting server")
		if err := a.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		a.logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.echo.Shutdown(sctx)
	})

	err := g.Wait()
	a.Close()
	return err
}

// Close releases the database, Redis and broker connections.
func (a *App) Close() {
	if err := a.events.Close(); err != nil {
		a.logger.WithError(err).Warn("close event publisher")
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).Warn("close database")
	}
}
