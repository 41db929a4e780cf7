package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"casino-round-engine/config"
	httpHandler "casino-round-engine/internal/adapter/http/handler"
	memStorage "casino-round-engine/internal/adapter/storage/memory"
	pgStorage "casino-round-engine/internal/adapter/storage/postgres"
	redisStorage "casino-round-engine/internal/adapter/storage/redis"
	"casino-round-engine/internal/adapter/ws"
	"casino-round-engine/internal/core/ports"
	"casino-round-engine/internal/service"
	"casino-round-engine/pkg/logger"
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
		Msg("Starting Casino Round Engine")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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
	playerRepo := pgStorage.NewPlayerRepo(pool)
	walletRepo := pgStorage.NewWalletRepo(pool)
	txRepo := pgStorage.NewTransactionRepo(pool)
	auditRepo := pgStorage.NewAuditRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Round state lives in process memory; settled results go to Redis.
	roundStore := memStorage.NewRoundStore()
	historyStore := redisStorage.NewHistoryStore(rdb, cfg.Games.History.MaxEntries, cfg.Games.History.TTL)

	// Initialize core services
	encSvc, err := service.NewAESEncryptionService(cfg.AES.Key)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	rng := service.NewCryptoRandomSource()
	clock := service.NewSystemClock()
	scheduler := service.NewTimerScheduler()

	// WebSocket hub pushes round and wallet events to connected players.
	hub := ws.NewHub(log)
	go hub.Run(ctx)

	// The fan-out feeds the hub now and the autoplay service once it
	// exists; autoplay needs the session service first.
	fanout := service.NewNotifierFanout(hub)

	// Initialize business services
	auditSvc := service.NewAuditService(auditRepo, log)
	walletSvc := service.NewWalletService(
		txRepo,
		walletRepo,
		encSvc,
		transactor,
		fanout,
		log,
		cfg.Wallet.Currency,
		cfg.Wallet.MaxDeposit,
	)
	authSvc := service.NewAuthService(
		playerRepo,
		walletRepo,
		walletSvc,
		hashSvc,
		encSvc,
		tokenSvc,
		cfg.Wallet.Currency,
		cfg.Wallet.DemoBalance,
	)
	sessionSvc := service.NewSessionService(
		service.DefaultEngines(cfg.Games, rng, clock),
		roundStore,
		historyStore,
		walletSvc,
		auditSvc,
		fanout,
		scheduler,
		clock,
		log,
		cfg.Games.MinBet,
		cfg.Games.MaxBet,
	)
	autoplaySvc := service.NewAutoplayService(
		sessionSvc,
		auditSvc,
		scheduler,
		clock,
		log,
		cfg.Games.Autoplay.MaxRounds,
		cfg.Games.Autoplay.RoundDelay,
	)
	fanout.Add(autoplaySvc)
	reportingSvc := service.NewReportingService(txRepo, walletRepo, historyStore, encSvc, clock, cfg.Wallet.Currency)

	// Initialize rate limit store
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Load OpenAPI spec for Swagger UI
	if specBytes, err := os.ReadFile("docs/api/openapi.yaml"); err == nil {
		httpHandler.SetSwaggerSpec(specBytes)
		log.Info().Msg("OpenAPI spec loaded for Swagger UI at /swagger")
	} else {
		log.Warn().Err(err).Msg("OpenAPI spec not found, Swagger UI will be unavailable")
	}

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		WalletSvc:      walletSvc,
		SessionSvc:     sessionSvc,
		AutoplaySvc:    autoplaySvc,
		ReportingSvc:   reportingSvc,
		TokenSvc:       tokenSvc,
		Games:          cfg.Games,
		Hub:            hub,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		AuditSvc:       auditSvc,
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

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Stop the hub after in-flight HTTP requests drain; connected
	// clients get a close frame when their send channels close.
	cancel()

	log.Info().Msg("Server exited")
}
