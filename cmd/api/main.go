package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yoga-nditya/ALO-MONTIR-API/config"
	"github.com/yoga-nditya/ALO-MONTIR-API/internal/adapter/gateway/midtrans"
	httpHandler "github.com/yoga-nditya/ALO-MONTIR-API/internal/adapter/http/handler"
	pgStorage "github.com/yoga-nditya/ALO-MONTIR-API/internal/adapter/storage/postgres"
	redisStorage "github.com/yoga-nditya/ALO-MONTIR-API/internal/adapter/storage/redis"
	"github.com/yoga-nditya/ALO-MONTIR-API/internal/core/ports"
	"github.com/yoga-nditya/ALO-MONTIR-API/internal/service"
	"github.com/yoga-nditya/ALO-MONTIR-API/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting ALO-MONTIR top-up API")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	topUpRepo := pgStorage.NewTopUpRepo(pool)
	userRepo := pgStorage.NewUserRepo(pool)
	ledgerRepo := pgStorage.NewLedgerRepo(pool)
	auditRepo := pgStorage.NewAuditRepository(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	orderLock := redisStorage.NewOrderLock(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize gateway client and signature verifier
	gatewayClient := midtrans.NewClient(cfg.Midtrans, nil, log)
	verifier := service.NewGatewaySignatureVerifier(cfg.Midtrans.ServerKey)

	// Initialize business services
	auditSvc := service.NewAuditService(auditRepo, log)
	topUpSvc := service.NewTopUpService(
		topUpRepo,
		userRepo,
		ledgerRepo,
		gatewayClient,
		verifier,
		orderLock,
		transactor,
		auditSvc,
		log,
	)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		TopUpSvc:       topUpSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
