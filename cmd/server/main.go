package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/finbook/internal/adapter/http"
	"github.com/iho/finbook/internal/adapter/http/handler"
	"github.com/iho/finbook/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/finbook/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/finbook/internal/adapter/repository/redis"
	"github.com/iho/finbook/internal/infrastructure/config"
	"github.com/iho/finbook/internal/infrastructure/eventpublisher"
	"github.com/iho/finbook/internal/infrastructure/logger"
	"github.com/iho/finbook/internal/infrastructure/metrics"
	"github.com/iho/finbook/internal/infrastructure/postgres"
	"github.com/iho/finbook/internal/infrastructure/redis"
	"github.com/iho/finbook/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx := context.Background()

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Metrics
	appMetrics := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	retrier := postgresRepo.NewRetrier()
	eventRepo := postgresRepo.NewEventRepository(pool, retrier)
	catalogRepo := postgresRepo.NewCatalogRepository(pool)
	creditRepo := postgresRepo.NewCreditRepository(pool)
	taxRepo := postgresRepo.NewTaxPaymentRepository(pool)
	var outboxRepo usecase.OutboxRepository = postgresRepo.NewOutboxRepository(pool)
	if !cfg.OutboxEnabled {
		outboxRepo = postgresRepo.NewNullOutboxRepository()
	}
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	// Initialize use cases
	cascade := usecase.NewCascadeEngine(eventRepo, creditRepo, taxRepo, catalogRepo, idGen, appLogger)
	eventUC := usecase.NewEventUseCase(txManager, eventRepo, outboxRepo, cascade, idGen, appMetrics)
	transferUC := usecase.NewTransferUseCase(txManager, eventRepo, outboxRepo, catalogRepo, idGen)
	balanceUC := usecase.NewBalanceUseCase(eventRepo, catalogRepo, cfg.RetailCustomersName, appLogger, appMetrics)
	catalogUC := usecase.NewCatalogUseCase(catalogRepo, idGen, cfg.RetailCustomersName)
	creditUC := usecase.NewCreditUseCase(creditRepo)
	taxUC := usecase.NewTaxPaymentUseCase(taxRepo, eventUC, idGen, appLogger)
	consistencyUC := usecase.NewConsistencyUseCase(eventRepo)

	// Outbox publisher
	publisherCtx, stopPublisher := context.WithCancel(ctx)
	defer stopPublisher()
	if cfg.OutboxEnabled {
		publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: outboxRepo,
			Publisher:  eventpublisher.NewLogPublisher(slog.Default()),
			Metrics:    appMetrics,
		})
		go func() {
			if err := publisher.Start(publisherCtx); err != nil && publisherCtx.Err() == nil {
				log.Error().Err(err).Msg("outbox publisher stopped")
			}
		}()
	}

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		EventHandler:       handler.NewEventHandler(eventUC),
		TransferHandler:    handler.NewTransferHandler(transferUC),
		BalanceHandler:     handler.NewBalanceHandler(balanceUC),
		CatalogHandler:     handler.NewCatalogHandler(catalogUC),
		CreditHandler:      handler.NewCreditHandler(creditUC),
		TaxPaymentHandler:  handler.NewTaxPaymentHandler(taxUC),
		ConsistencyHandler: handler.NewConsistencyHandler(consistencyUC),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:   idempotencyStore,
		RateLimiter:        middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
		Logger:             appLogger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopPublisher()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
