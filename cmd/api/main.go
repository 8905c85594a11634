package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"autocare-x402-gateway/config"
	"autocare-x402-gateway/internal/adapter/facilitator"
	httpHandler "autocare-x402-gateway/internal/adapter/http/handler"
	"autocare-x402-gateway/internal/adapter/http/middleware"
	pgStorage "autocare-x402-gateway/internal/adapter/storage/postgres"
	redisStorage "autocare-x402-gateway/internal/adapter/storage/redis"
	"autocare-x402-gateway/internal/core/domain"
	"autocare-x402-gateway/internal/core/ports"
	"autocare-x402-gateway/internal/service"
	"autocare-x402-gateway/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("ACG_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("facilitator", cfg.X402.FacilitatorMode).
		Str("network", cfg.X402.Network).
		Msg("Starting AutoCare x402 Gateway")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	if cfg.Database.AutoMigrate {
		if err := pgStorage.RunMigrations(pool, log); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
	}

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	paymentRepo := pgStorage.NewPaymentSessionRepo(pool)
	sessionRepo := pgStorage.NewDomainSessionRepo(pool)
	loyaltyRepo := pgStorage.NewLoyaltyRepo(pool)
	rewardRepo := pgStorage.NewRewardRepo(pool)
	proofRepo := pgStorage.NewConsumedProofRepo(pool)
	intentRepo := pgStorage.NewLedgerIntentRepo(pool)
	auditRepo := pgStorage.NewAuditRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	proofGuard := redisStorage.NewProofGuard(rdb)
	receiptCache := redisStorage.NewReceiptCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	healthCheckers := []ports.HealthChecker{
		pgStorage.NewHealthCheck(pool),
		redisStorage.NewHealthCheck(rdb),
	}

	// Facilitator
	var fac ports.Facilitator
	switch cfg.X402.FacilitatorMode {
	case "http":
		httpClient := &http.Client{Timeout: cfg.X402.SettleTimeout + 5*time.Second}
		fac = facilitator.NewHTTPClient(facilitator.Options{
			BaseURL:       cfg.X402.FacilitatorURL,
			Authorization: cfg.X402.FacilitatorAuth,
			VerifyTimeout: cfg.X402.VerifyTimeout,
			SettleTimeout: cfg.X402.SettleTimeout,
			MaxRetries:    cfg.X402.MaxRetries,
			RetryDelay:    cfg.X402.RetryDelay,
			StrictReceipt: cfg.X402.StrictReceipt,
		}, httpClient)
		healthCheckers = append(healthCheckers, facilitator.NewHealthCheck(cfg.X402.FacilitatorURL, httpClient))
	default:
		log.Warn().Msg("Using simulated facilitator: proofs are trusted, nothing settles on-chain")
		fac = facilitator.NewSimulated(log)
	}

	// Initialize services
	auditSvc := service.NewAuditService(auditRepo, log)
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	authSvc := service.NewAuthService(cfg.Admin.BootstrapSecret, tokenSvc)

	ledgerSvc := service.NewLedgerService(service.LedgerRepositories{
		Payments: paymentRepo,
		Sessions: sessionRepo,
		Loyalty:  loyaltyRepo,
		Rewards:  rewardRepo,
		Proofs:   proofRepo,
		Intents:  intentRepo,
	}, transactor, domain.RewardRates{
		PointsPerUnit:        cfg.Rewards.PointsPerUnit,
		ServiceCommissionBps: cfg.Rewards.ServiceCommissionBps,
		WashCommissionBps:    cfg.Rewards.WashCommissionBps,
	}, log)

	gateSvc := service.NewGateService(
		service.NewRequirementsBuilder(cfg.X402),
		service.NewSettler(fac, cfg.X402.SettleTimeout, log),
		ledgerSvc,
		proofGuard,
		receiptCache,
		proofRepo,
		auditSvc,
		service.GateOptions{
			StrictSubtypes: cfg.Catalog.StrictSubtypes,
			ProofTTL:       cfg.X402.ProofTTL,
			ReceiptTTL:     cfg.X402.ReceiptTTL,
			PersistTimeout: cfg.X402.PersistTimeout,
		},
		log,
	)

	reconciler := service.NewReconciler(intentRepo, ledgerSvc, transactor, auditSvc, service.ReconcilerOptions{
		Interval:    cfg.Reconciler.Interval,
		BatchSize:   cfg.Reconciler.BatchSize,
		MaxAttempts: cfg.Reconciler.MaxAttempts,
	}, log)
	if cfg.Reconciler.Enabled {
		go reconciler.Run(ctx)
	}

	sessionSvc := service.NewSessionService(sessionRepo, transactor, auditSvc, log)
	rewardSvc := service.NewRewardService(loyaltyRepo, rewardRepo, auditSvc, log)

	deps := httpHandler.RouterDeps{
		GateSvc:        gateSvc,
		SessionSvc:     sessionSvc,
		RewardSvc:      rewardSvc,
		ReconcilerSvc:  reconciler,
		AuthSvc:        authSvc,
		TokenSvc:       tokenSvc,
		AuditSvc:       auditSvc,
		HealthCheckers: healthCheckers,
		Asset:          cfg.X402.Asset,
		Mode:           cfg.Server.Mode,
		Logger:         log,
	}
	if cfg.RateLimit.Enabled {
		deps.RateLimitStore = rateLimitStore
		deps.GateRateLimit = &middleware.RateLimitRule{
			Limit:  int64(cfg.RateLimit.Limit),
			Window: cfg.RateLimit.Window,
		}
	}

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(deps)

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
