package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	billingapp "github.com/incorp/backend/internal/application/billing"
	onboardingapp "github.com/incorp/backend/internal/application/onboarding"
	"github.com/incorp/backend/internal/domain/onboarding"
	"github.com/incorp/backend/internal/domain/refdata"
	"github.com/incorp/backend/internal/infrastructure/auth"
	"github.com/incorp/backend/internal/infrastructure/cache"
	"github.com/incorp/backend/internal/infrastructure/config"
	"github.com/incorp/backend/internal/infrastructure/event"
	"github.com/incorp/backend/internal/infrastructure/logger"
	"github.com/incorp/backend/internal/infrastructure/persistence"
	"github.com/incorp/backend/internal/infrastructure/storage"
	"github.com/incorp/backend/internal/infrastructure/telemetry"
	"github.com/incorp/backend/internal/interfaces/http/handler"
	"github.com/incorp/backend/internal/interfaces/http/middleware"
	"github.com/incorp/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting incorporation intake service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	sessionRepo := persistence.NewGormSessionRepository(db.DB)
	draftRepo := persistence.NewGormDraftRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Wire the transactional outbox: domain events raised by aggregates
	// are saved in the same transaction as the aggregate itself
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)
	sessionRepo.SetOutboxEventSaver(outboxPublisher)
	orderRepo.SetOutboxEventSaver(outboxPublisher)

	// Idempotency store guards handler redelivery from the outbox
	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	// Event bus with the billing projection: a submitted application
	// becomes an incorporation order awaiting payment
	eventBus := event.NewInMemoryEventBus(log)
	submittedHandler := billingapp.NewApplicationSubmittedHandler(orderRepo, log)
	eventBus.Subscribe(
		event.NewIdempotentHandler(submittedHandler, idempotencyStore, log),
		onboarding.EventTypeApplicationSubmitted,
	)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := eventBus.Stop(stopCtx); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Outbox processor relays persisted events to the bus
	var outboxProcessor *event.OutboxProcessor
	if cfg.Event.ProcessorEnabled {
		processorCfg := event.DefaultOutboxProcessorConfig()
		if cfg.Event.BatchSize > 0 {
			processorCfg.BatchSize = cfg.Event.BatchSize
		}
		if cfg.Event.PollInterval > 0 {
			processorCfg.PollInterval = cfg.Event.PollInterval
		}
		processorCfg.CleanupEnabled = cfg.Event.CleanupEnabled
		if cfg.Event.CleanupRetention > 0 {
			processorCfg.CleanupRetention = cfg.Event.CleanupRetention
		}

		outboxProcessor = event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, processorCfg, log)
		if err := outboxProcessor.Start(context.Background()); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
	}

	// Write-behind draft persistence: debounced fast path plus an
	// unconditional autosave net
	synchronizer := onboardingapp.NewDraftSynchronizer(draftRepo, log, onboardingapp.SynchronizerConfig{
		Debounce:         cfg.Draft.Debounce,
		AutosaveInterval: cfg.Draft.AutosaveInterval,
		WriteTimeout:     cfg.Draft.WriteTimeout,
	})
	synchronizer.Start()

	// Intake token service and blacklist
	jwtService := auth.NewJWTService(cfg.JWT)
	var tokenBlacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory token blacklist", zap.Error(err))
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		tokenBlacklist = redisBlacklist
	}

	// Object storage for uploaded signature images
	var objectStorage onboardingapp.ObjectStorageService
	if cfg.Storage.Bucket != "" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		objectStorage = s3Storage
		log.Info("Object storage initialized", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		log.Warn("No storage bucket configured, signature uploads use in-memory storage")
		objectStorage = storage.NewStubObjectStorage()
	}

	// Application services
	sessionService := onboardingapp.NewSessionService(sessionRepo, draftRepo, jwtService)
	stepService := onboardingapp.NewStepService(sessionRepo, draftRepo)
	draftService := onboardingapp.NewDraftService(sessionRepo, draftRepo, synchronizer)
	signatureService := onboardingapp.NewSignatureService(sessionRepo, draftRepo, objectStorage, log)
	submissionService := onboardingapp.NewSubmissionService(sessionRepo, draftRepo, synchronizer, idempotencyStore, log)
	orderService := billingapp.NewOrderService(orderRepo)

	// HTTP handlers
	sessionHandler := handler.NewSessionHandler(sessionService)
	stepHandler := handler.NewStepHandler(stepService)
	draftHandler := handler.NewDraftHandler(draftService)
	signatureHandler := handler.NewSignatureHandler(signatureService)
	submissionHandler := handler.NewSubmissionHandler(submissionService)
	orderHandler := handler.NewOrderHandler(orderService)
	refdataHandler := handler.NewRefdataHandler(refdata.NewStaticCountryProvider())
	systemHandler := handler.NewSystemHandler()

	// Telemetry
	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}

	var tracerProvider *telemetry.TracerProvider
	var meterProvider *telemetry.MeterProvider
	var businessMetrics *telemetry.BusinessMetrics
	var profiler *telemetry.Profiler
	if cfg.Telemetry.Enabled {
		telCtx := context.Background()

		tracerProvider, err = telemetry.NewTracerProvider(telCtx, telemetry.Config{
			Enabled:           true,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			SamplingRatio:     cfg.Telemetry.SamplingRatio,
			ServiceName:       serviceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize tracer provider", zap.Error(err))
		}

		meterProvider, err = telemetry.NewMeterProvider(telCtx, telemetry.MetricsConfig{
			Enabled:           true,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			ServiceName:       serviceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize meter provider", zap.Error(err))
		}

		businessMetrics, err = telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:          meterProvider.Meter(serviceName),
			Logger:         log,
			IntakeProvider: telemetry.NewGormIntakeMetricsProvider(db.DB),
		})
		if err != nil {
			log.Fatal("Failed to initialize business metrics", zap.Error(err))
		}
		businessMetrics.StartPeriodicCollection(telCtx, 0)

		synchronizer.SetBusinessMetrics(businessMetrics)
		sessionService.SetBusinessMetrics(businessMetrics)
		stepService.SetBusinessMetrics(businessMetrics)
		signatureService.SetBusinessMetrics(businessMetrics)
		submittedHandler.SetBusinessMetrics(businessMetrics)

		if cfg.Telemetry.DBTraceEnabled {
			dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
				Enabled:         true,
				LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
				SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			}, log)
			if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
				log.Error("Failed to register database tracing", zap.Error(err))
			}
		}

		if cfg.Telemetry.ProfilerEnabled {
			profiler, err = telemetry.NewProfiler(telemetry.ProfilerConfig{
				Enabled:             true,
				ServerAddress:       cfg.Telemetry.ProfilerEndpoint,
				ApplicationName:     serviceName,
				ProfileCPU:          true,
				ProfileAllocObjects: true,
				ProfileAllocSpace:   true,
				ProfileInuseObjects: true,
				ProfileInuseSpace:   true,
				ProfileGoroutines:   true,
			}, log)
			if err != nil {
				log.Fatal("Failed to start profiler", zap.Error(err))
			}
		}
	}

	// Setup Gin
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	// Global middleware
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: serviceName,
			Enabled:     true,
		}))
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			ServiceName:   serviceName,
			Enabled:       true,
		}))
		if cfg.Telemetry.ProfilerEnabled {
			engine.Use(middleware.Profiling())
		}
	}

	// Health check endpoints (before authentication)
	engine.GET("/health", healthHandler(db, log))
	engine.GET("/healthz", healthHandler(db, log))
	engine.GET("/ready", healthHandler(db, log))

	// Intake token authentication: only session creation and resume,
	// reference data, and system endpoints are public
	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = tokenBlacklist
	jwtConfig.Logger = log
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Register domain route groups
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Onboarding domain: the session-scoped wizard. Authenticated routes
	// take the onboarding ID from the intake token, never from the path.
	onboardingRoutes := router.NewDomainGroup("onboarding", "/onboarding")
	onboardingRoutes.POST("/sessions", sessionHandler.Create)
	onboardingRoutes.POST("/sessions/resume", sessionHandler.Resume)
	onboardingRoutes.GET("/session", sessionHandler.Get)
	onboardingRoutes.GET("/steps", stepHandler.Steps)
	onboardingRoutes.POST("/steps/next", stepHandler.Next)
	onboardingRoutes.POST("/steps/prev", stepHandler.Prev)
	onboardingRoutes.POST("/steps/goto", stepHandler.GoTo)
	onboardingRoutes.GET("/draft", draftHandler.Get)
	onboardingRoutes.PUT("/draft", draftHandler.Update)
	onboardingRoutes.POST("/draft/flush", draftHandler.Flush)
	onboardingRoutes.GET("/signature", signatureHandler.Get)
	onboardingRoutes.POST("/signature/draw", signatureHandler.Draw)
	onboardingRoutes.POST("/signature/upload", signatureHandler.Upload)
	onboardingRoutes.DELETE("/signature", signatureHandler.Clear)
	onboardingRoutes.POST("/submit", submissionHandler.Submit)
	onboardingRoutes.GET("/order", orderHandler.Get)

	// Reference data (public)
	refdataRoutes := router.NewDomainGroup("refdata", "/refdata")
	refdataRoutes.GET("/countries", refdataHandler.Countries)
	refdataRoutes.GET("/countries/:code", refdataHandler.Country)
	refdataRoutes.GET("/jurisdictions", refdataHandler.Jurisdictions)

	// System endpoints (public)
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/ip-address", systemHandler.GetIPAddress)

	r.Register(onboardingRoutes).
		Register(refdataRoutes).
		Register(systemRoutes)
	r.Setup()

	// Start HTTP server
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Drain pending draft writes before the process exits
	if err := synchronizer.Stop(ctx); err != nil {
		log.Error("Error stopping draft synchronizer", zap.Error(err))
	}

	if outboxProcessor != nil {
		if err := outboxProcessor.Stop(ctx); err != nil {
			log.Error("Error stopping outbox processor", zap.Error(err))
		}
	}

	if businessMetrics != nil {
		businessMetrics.Stop()
	}
	if profiler != nil {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}
	if meterProvider != nil {
		if err := meterProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}
	if tracerProvider != nil {
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
