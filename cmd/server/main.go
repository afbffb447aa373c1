package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/tour-booking/internal/config"
	"github.com/iliyamo/tour-booking/internal/database"
	"github.com/iliyamo/tour-booking/internal/handler"
	"github.com/iliyamo/tour-booking/internal/ledger"
	"github.com/iliyamo/tour-booking/internal/logger"
	"github.com/iliyamo/tour-booking/internal/middleware"
	"github.com/iliyamo/tour-booking/internal/queue"
	"github.com/iliyamo/tour-booking/internal/repository"
	"github.com/iliyamo/tour-booking/internal/router"
	"github.com/iliyamo/tour-booking/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional
	cfg := config.Load()

	if err := logger.Init(cfg.IsDev()); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pub handler.EventPublisher = service.NopPublisher{}
	if cfg.AMQPEnabled {
		pub = service.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPQueue, log)
		go runConsumer(ctx, cfg, log)
	}

	rdb := config.NewRedisClient(config.LoadRedisConfig(), log)
	if rdb != nil {
		defer rdb.Close()
	}

	h := handler.NewBookingHandler(ledger.NewSeededLedger(), pub, log)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log)) // outside Recover so panics are logged
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	router.RegisterRoutes(e)
	router.RegisterBooking(e, h,
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb, log),
	)

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

// runConsumer feeds published booking events into the audit log and, when
// enabled, the booking_events table.  It returns when ctx is cancelled.
func runConsumer(ctx context.Context, cfg config.Config, log *zap.Logger) {
	sinks := []queue.Sink{&queue.FileSink{Dir: cfg.BookingLogDir}}

	if cfg.DBEnabled {
		db, err := database.Open(ctx, cfg)
		if err != nil {
			log.Error("audit database unavailable, file log only", zap.Error(err))
		} else {
			defer db.Close()
			repo := repository.NewEventRepo(db)
			if err := repo.EnsureSchema(ctx); err != nil {
				log.Error("booking_events schema", zap.Error(err))
			} else {
				sinks = append(sinks, repo)
			}
		}
	}

	c := &queue.Consumer{URL: cfg.AMQPURL, Queue: cfg.AMQPQueue, Sinks: sinks, Log: log.Named("booking-consumer")}
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("booking consumer stopped", zap.Error(err))
	}
}
