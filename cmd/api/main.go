package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"merchant-webhooks/config"
	httpHandler "merchant-webhooks/internal/adapter/http/handler"
	"merchant-webhooks/internal/adapter/http/middleware"
	"merchant-webhooks/internal/adapter/messaging/rabbitmq"
	memStorage "merchant-webhooks/internal/adapter/storage/memory"
	pgStorage "merchant-webhooks/internal/adapter/storage/postgres"
	redisStorage "merchant-webhooks/internal/adapter/storage/redis"
	"merchant-webhooks/internal/core/ports"
	"merchant-webhooks/internal/service"
	"merchant-webhooks/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("WHK_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	gin.SetMode(cfg.Server.Mode)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Str("storage", cfg.Storage.Driver).
		Int("port", cfg.Server.Port).
		Msg("Starting Merchant Webhooks")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("jwt.secret is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		endpointRepo ports.EndpointRepository
		deliveryRepo ports.DeliveryRepository
		auditRepo    ports.AuditRepository
		checkers     []ports.HealthChecker
	)

	// Initialize storage
	switch cfg.Storage.Driver {
	case "memory":
		endpointRepo = memStorage.NewEndpointRepo()
		deliveryRepo = memStorage.NewDeliveryRepo()
		auditRepo = memStorage.NewAuditRepo()
		checkers = append(checkers, memStorage.HealthChecker{})
		log.Warn().Msg("memory storage: endpoints and deliveries are lost on restart")
	default:
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		log.Info().Msg("PostgreSQL connected")

		if cfg.Database.Migrate {
			if err := pgStorage.Migrate(ctx, pool, log); err != nil {
				log.Fatal().Err(err).Msg("Failed to apply schema")
			}
		}

		endpointRepo = pgStorage.NewEndpointRepo(pool)
		deliveryRepo = pgStorage.NewDeliveryRepo(pool)
		auditRepo = pgStorage.NewAuditRepo(pool)
		checkers = append(checkers, pgStorage.NewHealthCheck(pool))
	}

	var (
		retryQueue     ports.RetryQueue
		statsCache     ports.StatsCache
		rateLimitStore ports.RateLimitStore
	)

	// Initialize Redis stores
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		log.Info().Msg("Redis connected")

		retryQueue = redisStorage.NewRetryQueue(rdb)
		statsCache = redisStorage.NewStatsCache(rdb)
		rateLimitStore = redisStorage.NewRateLimitStore(rdb)
		checkers = append(checkers, redisStorage.NewHealthCheck(rdb))
	} else {
		log.Warn().Msg("Redis disabled: retry queue and rate limits are process-local")
		retryQueue = memStorage.NewRetryQueue()
		rateLimitStore = memStorage.NewRateLimitStore()
	}

	// Initialize core services
	encSvc, err := service.NewAESEncryptionService(cfg.Encryption.Key)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}
	sigSvc := service.NewHMACSignatureService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	outbound := &http.Client{} // per-request timeouts come from the sender's context

	// Initialize business services
	endpointSvc := service.NewEndpointService(endpointRepo, encSvc, log.With().Str("component", "registry").Logger())
	dispatcher := service.NewDispatcherService(endpointRepo, deliveryRepo, retryQueue, log.With().Str("component", "dispatcher").Logger())
	reportingSvc := service.NewReportingService(deliveryRepo, statsCache, cfg.Stats.CacheTTL, log.With().Str("component", "reporting").Logger())
	tester := service.NewReachabilityService(outbound, cfg.Delivery.Timeout, cfg.Delivery.ResponseBodyLimit, log.With().Str("component", "tester").Logger())
	auditSvc := service.NewAuditService(auditRepo, log)

	worker := service.NewDeliveryWorker(service.DeliveryWorkerConfig{
		Workers:       cfg.Delivery.Workers,
		MaxRetries:    cfg.Delivery.MaxRetries,
		Backoff:       service.Backoff{Base: cfg.Delivery.BaseDelay, Max: cfg.Delivery.MaxDelay},
		Timeout:       cfg.Delivery.Timeout,
		PollInterval:  cfg.Delivery.PollInterval,
		BatchSize:     cfg.Delivery.BatchSize,
		BodyLimit:     cfg.Delivery.ResponseBodyLimit,
		UserAgent:     cfg.Delivery.UserAgent,
		MaxPendingAge: cfg.Delivery.MaxPendingAge,
	}, endpointRepo, deliveryRepo, retryQueue, encSvc, sigSvc, outbound, log.With().Str("component", "worker").Logger())

	if _, err := worker.Resume(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to resume pending deliveries")
	}

	var bg sync.WaitGroup
	bg.Add(2)
	go func() {
		defer bg.Done()
		worker.Run(ctx)
	}()
	go func() {
		defer bg.Done()
		worker.RunReaper(ctx, cfg.Delivery.ReaperInterval)
	}()

	// Event intake
	if cfg.RabbitMQ.Enabled {
		consumer := rabbitmq.NewConsumer(cfg.RabbitMQ, dispatcher, log.With().Str("component", "rabbitmq").Logger())
		checkers = append(checkers, consumer)
		bg.Add(1)
		go func() {
			defer bg.Done()
			consumer.Run(ctx)
		}()
	}

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		EndpointSvc:    endpointSvc,
		ReportingSvc:   reportingSvc,
		Tester:         tester,
		TokenSvc:       tokenSvc,
		RateLimitStore: rateLimitStore,
		TestRateLimit:  middleware.RateLimitRule{Limit: cfg.RateLimit.TestLimit, Window: cfg.RateLimit.TestWindow},
		APIRateLimit:   middleware.RateLimitRule{Limit: cfg.RateLimit.APILimit, Window: cfg.RateLimit.APIWindow},
		HealthCheckers: checkers,
		AuditSvc:       auditSvc,
		Logger:         log,
	})

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

	// Workers finish in-flight attempts before returning.
	bg.Wait()
	log.Info().Msg("Server exited")
}
