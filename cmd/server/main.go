package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	appservice "github.com/railtix/railtix/internal/application/service"
	"github.com/railtix/railtix/internal/config"
	domainservice "github.com/railtix/railtix/internal/domain/service"
	"github.com/railtix/railtix/internal/infrastructure/audit"
	"github.com/railtix/railtix/internal/infrastructure/fraud"
	"github.com/railtix/railtix/internal/infrastructure/inventory"
	"github.com/railtix/railtix/internal/infrastructure/monitoring"
	"github.com/railtix/railtix/internal/infrastructure/payment"
	"github.com/railtix/railtix/internal/infrastructure/ratelimit"
	apphttp "github.com/railtix/railtix/internal/interfaces/http"
	"github.com/railtix/railtix/internal/interfaces/http/handlers"
	"github.com/railtix/railtix/pkg/logger"
	"github.com/railtix/railtix/pkg/ticketcode"
)

func main() {
	startupLogger, _ := monitoring.NewZapLogger(&config.LogConfig{Level: "info"})

	cfg, err := config.LoadConfig(startupLogger)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := monitoring.NewZapLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	ctx := context.Background()

	tracing, err := monitoring.NewTracingManager(&cfg.Tracing, appLogger)
	if err != nil {
		appLogger.Fatal(ctx, "Failed to initialize tracing", err)
	}

	metrics := monitoring.NewMetrics()

	ledger := inventory.NewLedger(cfg.Booking.TotalTickets).
		WithGauge(metrics.TicketsAvailable)

	limiter, redisClient, err := buildRateLimiter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal(ctx, "Failed to build rate limiter", err)
	}

	tracker := fraud.NewTracker(cfg.Fraud.DeviceIPThreshold, cfg.Fraud.EntryTTL)
	sink, closeSinks := buildSinks(ctx, cfg, appLogger)

	opts := []appservice.Option{
		appservice.WithMetrics(metrics),
		appservice.WithEventSink(sink),
	}
	if cfg.Payment.Enabled {
		opts = append(opts, appservice.WithPaymentAuthority(
			payment.NewStubAuthority(cfg.Payment.Delay, appLogger)))
	}

	bookingSvc := appservice.NewBookingAppService(
		domainservice.AllowAllValidator{},
		tracker,
		limiter,
		ledger,
		ticketcode.NewDedupingGenerator(ticketcode.NewGenerator()),
		appLogger,
		opts...,
	)

	router := apphttp.NewRouter(
		cfg,
		appLogger,
		handlers.NewBookingHandler(bookingSvc, appLogger),
		handlers.NewHealthHandler(bookingSvc),
	)

	config.WatchConfig(appLogger, func(updated *config.Config) {
		appLogger.Info(ctx, "Configuration reloaded; restart to apply structural changes")
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(router.Start)

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-quit:
			appLogger.Info(gctx, "Shutdown signal received", logger.String("signal", sig.String()))
		case <-gctx.Done():
			return gctx.Err()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := router.Stop(shutdownCtx); err != nil {
			appLogger.Error(shutdownCtx, "HTTP shutdown failed", err)
		}
		if err := tracing.Shutdown(shutdownCtx); err != nil {
			appLogger.Error(shutdownCtx, "Tracing shutdown failed", err)
		}
		closeSinks()
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		appLogger.Fatal(ctx, "Server exited with error", err)
	}
}

// buildRateLimiter selects the in-memory or Redis-backed sliding window per
// configuration. The returned client is non-nil only in Redis mode so main
// can close it on shutdown.
func buildRateLimiter(cfg *config.Config, log logger.Logger) (domainservice.RateLimitService, redis.UniversalClient, error) {
	if cfg.RateLimit.Store != "redis" {
		return ratelimit.NewSlidingWindow(cfg.RateLimit.Window, cfg.RateLimit.MaxPerWindow), nil, nil
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:        cfg.Redis.Addresses,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})

	limiter, err := ratelimit.NewRedisSlidingWindow(
		client,
		cfg.RateLimit.Window,
		cfg.RateLimit.MaxPerWindow,
		cfg.RateLimit.RedisKeyspace,
		log,
	)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return limiter, client, nil
}

// buildSinks assembles the configured audit sinks into one fan-out sink.
func buildSinks(ctx context.Context, cfg *config.Config, log logger.Logger) (domainservice.BookingEventSink, func()) {
	var sinks []domainservice.BookingEventSink

	if cfg.Archive.Driver != "" && cfg.Archive.Driver != "none" {
		archive, err := audit.NewGormArchive(&cfg.Archive, log)
		if err != nil {
			log.Fatal(ctx, "Failed to open booking archive", err)
		}
		sinks = append(sinks, archive)
	}

	if cfg.Kafka.Enabled {
		sinks = append(sinks, audit.NewKafkaPublisher(&cfg.Kafka, log))
	}

	if len(sinks) == 0 {
		return audit.NewNoopSink(), func() {}
	}

	multi := audit.NewMultiSink(sinks...)
	return multi, func() {
		if err := multi.Close(); err != nil {
			log.Error(ctx, "Failed to close audit sinks", err)
		}
	}
}
