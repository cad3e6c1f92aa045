package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vault-dashboard/config"
	httpHandler "vault-dashboard/internal/adapter/http/handler"
	"vault-dashboard/internal/adapter/http/middleware"
	solanaAdapter "vault-dashboard/internal/adapter/solana"
	pgStorage "vault-dashboard/internal/adapter/storage/postgres"
	redisStorage "vault-dashboard/internal/adapter/storage/redis"
	"vault-dashboard/internal/core/ports"
	"vault-dashboard/internal/service"
	"vault-dashboard/pkg/logger"
	"vault-dashboard/pkg/metrics"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("VDB_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Vault(logger.New(cfg.Log.Level, cfg.Log.Pretty), cfg.Vault.Name, "")

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Vault Dashboard")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	programID, err := solana.PublicKeyFromBase58(cfg.Vault.ProgramID)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid vault program id")
	}
	mint, err := solana.PublicKeyFromBase58(cfg.Vault.TokenMint)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid vault token mint")
	}
	minDeposit, err := decimal.NewFromString(cfg.Vault.MinDeposit)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid vault min deposit")
	}

	// Metrics
	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewRegistry(promReg)

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, logger.Component(log, "postgres"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	if err := pgStorage.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate PostgreSQL schema")
	}
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, logger.Component(log, "redis"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	actionRepo := pgStorage.NewActionRepo(pool)
	historyRepo := pgStorage.NewHistoryRepo(pool)
	auditRepo := pgStorage.NewAuditRepository(pool)
	notificationRepo := pgStorage.NewNotificationRepository(pool)

	// Initialize Redis stores
	idempotencyCache := redisStorage.NewIdempotencyCache(rdb)
	nonceStore := redisStorage.NewNonceStore(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize chain adapters
	chainLog := logger.Component(log, "solana")
	rpcClient := solanaAdapter.NewClient(cfg.Vault, m, chainLog)
	addrs := solanaAdapter.NewAddresses(programID, mint)
	source := solanaAdapter.NewDataSource(rpcClient, addrs, cfg.Vault.MintDecimal)
	builder := solanaAdapter.NewTxBuilder(rpcClient, addrs)
	broadcaster := solanaAdapter.NewBroadcaster(rpcClient)
	wallet := solanaAdapter.NewKeypairWallet(cfg.Wallet.KeypairPath, logger.Component(log, "wallet"))
	var events ports.EventStream
	if cfg.Vault.WSURL != "" {
		events = solanaAdapter.NewEventStream(cfg.Vault.WSURL, programID, rpc.CommitmentType(cfg.Vault.Commitment), cfg.Vault.MintDecimal, chainLog)
	}

	// Initialize services
	params := service.VaultParams{
		Name:           cfg.Vault.Name,
		MintDecimals:   cfg.Vault.MintDecimal,
		MinDeposit:     minDeposit,
		ConfirmTimeout: cfg.Vault.ConfirmTimeout,
	}
	sigSvc := service.NewHMACSignatureService()
	auditSvc := service.NewAuditService(auditRepo, logger.Component(log, "audit"))
	vaultSvc := service.NewVaultService(source, params, logger.Component(log, "vault"))
	historySvc := service.NewHistoryService(historyRepo, cfg.Vault.Name)
	notifier := service.NewNotifier(
		service.NotifierConfig{
			URL:        cfg.Webhook.URL,
			Secret:     cfg.Webhook.Secret,
			Timeout:    cfg.Webhook.Timeout,
			MaxRetries: cfg.Webhook.MaxRetries,
		},
		cfg.Vault.Name,
		notificationRepo,
		sigSvc,
		&http.Client{Timeout: cfg.Webhook.Timeout},
		m,
		logger.Component(log, "notifier"),
	)

	store := service.NewDashboardStore()
	scheduler := service.NewScheduler(
		service.SchedulerConfig{
			VaultInterval: cfg.Refresh.VaultInterval,
			BatchInterval: cfg.Refresh.BatchInterval,
			UserInterval:  cfg.Refresh.UserInterval,
		},
		vaultSvc,
		historySvc,
		wallet,
		events,
		notifier,
		store,
		m,
		logger.Component(log, "scheduler"),
	)

	actionSvc := service.NewActionService(service.ActionServiceDeps{
		Source:      source,
		Wallet:      wallet,
		Builder:     builder,
		Broadcaster: broadcaster,
		Actions:     actionRepo,
		Cache:       idempotencyCache,
		Audit:       auditSvc,
		Refresher:   scheduler,
		Metrics:     m,
	}, params, logger.Component(log, "actions"))

	if err := scheduler.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start refresh scheduler")
	}
	defer scheduler.Stop()

	if cfg.Wallet.AutoConnect {
		if address, err := wallet.Connect(ctx); err != nil {
			log.Warn().Err(err).Msg("Wallet auto-connect failed")
		} else {
			log.Info().Str("wallet", address).Msg("Wallet connected")
		}
	}

	// Load OpenAPI spec for the docs page
	specBytes, err := os.ReadFile("docs/api/openapi.yaml")
	if err != nil {
		log.Warn().Err(err).Msg("OpenAPI spec not found, /docs will be unavailable")
	}

	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		metricsHandler = promhttp.HandlerFor(promReg, promhttp.HandlerOpts{Registry: promReg})
	}

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		VaultSvc:   vaultSvc,
		HistorySvc: historySvc,
		ActionSvc:  actionSvc,
		Dashboard:  scheduler,
		Wallet:     wallet,
		SigSvc:     sigSvc,
		NonceStore: nonceStore,
		Operator: middleware.OperatorCredentials{
			AccessKey:    cfg.Operator.AccessKey,
			SecretKey:    cfg.Operator.SecretKey,
			MaxClockSkew: cfg.Operator.MaxClockSkew,
			NonceTTL:     cfg.Operator.NonceTTL,
		},
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{
			pgStorage.NewHealthCheck(pool),
			redisStorage.NewHealthCheck(rdb),
			solanaAdapter.NewHealthCheck(rpcClient),
		},
		AuditSvc:       auditSvc,
		Metrics:        m,
		MetricsHandler: metricsHandler,
		OpenAPISpec:    specBytes,
		Mode:           cfg.Server.Mode,
		Logger:         logger.Component(log, "http"),
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
