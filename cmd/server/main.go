package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/nkhoury/tillbook/internal/adapter/http"
	"github.com/nkhoury/tillbook/internal/adapter/http/handler"
	postgresRepo "github.com/nkhoury/tillbook/internal/adapter/repository/postgres"
	redisRepo "github.com/nkhoury/tillbook/internal/adapter/repository/redis"
	"github.com/nkhoury/tillbook/internal/infrastructure/config"
	"github.com/nkhoury/tillbook/internal/infrastructure/logger"
	"github.com/nkhoury/tillbook/internal/infrastructure/metrics"
	"github.com/nkhoury/tillbook/internal/infrastructure/postgres"
	"github.com/nkhoury/tillbook/internal/infrastructure/redis"
	"github.com/nkhoury/tillbook/internal/usecase"
)

func main() {
	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	policy, err := cfg.GatePolicy()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid reconciliation settings")
	}

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

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	txRepo := postgresRepo.NewTransactionRepository(pool)
	creditRepo := postgresRepo.NewCreditRepository(pool)
	balanceRepo := postgresRepo.NewDailyBalanceRepository(pool)
	diffRepo := postgresRepo.NewDifferenceRepository(pool)
	sessionStore := redisRepo.NewSessionStore(redisClient, cfg.SessionTTL)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(appLogger)

	// Initialize use cases
	dayUC, err := usecase.NewDayUseCase(
		txManager, sessionStore, txRepo, creditRepo, balanceRepo, diffRepo,
		idGen, retrier, policy,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize day use case")
	}
	creditUC := usecase.NewCreditUseCase(txManager, creditRepo, sessionStore, idGen)
	balanceUC := usecase.NewBalanceUseCase(balanceRepo, txRepo, diffRepo)

	// Initialize handlers
	appMetrics := metrics.New()
	dayHandler := handler.NewDayHandler(dayUC, appMetrics)
	creditHandler := handler.NewCreditHandler(creditUC, appMetrics)
	balanceHandler := handler.NewBalanceHandler(balanceUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		DayHandler:     dayHandler,
		CreditHandler:  creditHandler,
		BalanceHandler: balanceHandler,
		HealthHandler:  healthHandler,
		Logger:         appLogger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
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

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
