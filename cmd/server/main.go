package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coursebridge/backend/internal/application/access"
	"github.com/coursebridge/backend/internal/application/duplication"
	"github.com/coursebridge/backend/internal/application/enrollment"
	identityapp "github.com/coursebridge/backend/internal/application/identity"
	"github.com/coursebridge/backend/internal/application/listing"
	"github.com/coursebridge/backend/internal/infrastructure/auth"
	"github.com/coursebridge/backend/internal/infrastructure/cache"
	"github.com/coursebridge/backend/internal/infrastructure/config"
	"github.com/coursebridge/backend/internal/infrastructure/course"
	"github.com/coursebridge/backend/internal/infrastructure/event"
	"github.com/coursebridge/backend/internal/infrastructure/logger"
	"github.com/coursebridge/backend/internal/infrastructure/persistence"
	"github.com/coursebridge/backend/internal/infrastructure/telemetry"
	"github.com/coursebridge/backend/internal/interfaces/http/handler"
	"github.com/coursebridge/backend/internal/interfaces/http/middleware"
	"github.com/coursebridge/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	_ "github.com/coursebridge/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			CourseBridge Vendor API
//	@version		1.0
//	@description	Vendor dashboard API: list administrator course products and duplicate them into a vendor catalog.

//	@contact.name	API Support
//	@contact.url	https://github.com/coursebridge/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()

	// Bootstrap logger, replaced below once the OTLP log pipeline is known
	logCfg := &logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	// Telemetry: logs, traces, metrics, profiles
	logProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	if logProvider.IsEnabled() {
		otelCore := telemetry.NewZapOTELCore(cfg.Telemetry.ServiceName, logProvider, logger.ParseLevel(cfg.Log.Level))
		log, err = logger.New(logCfg, otelCore)
		if err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting CourseBridge backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(cfg.Profiling, cfg.Telemetry.ServiceName, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
		if err := logProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down log provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if db.Driver() == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}
	dbSystem := "postgresql"
	if db.Driver() == "sqlite" {
		dbSystem = "sqlite"
	}
	if err := telemetry.NewDBTracingPlugin(cfg.Telemetry, dbSystem, log).Register(db.DB); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully", zap.String("driver", db.Driver()))

	// Redis is optional: token blacklist and idempotency fall back to memory
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	var blacklist auth.TokenBlacklist
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis", zap.Error(err))
			}
		}()
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	// Event serializer, outbox and repositories
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	outboxRepo := persistence.NewGormOutboxRepository(db.DB)
	outboxPublisher := event.NewOutboxPublisher(eventSerializer, outboxRepo)
	productRepo := persistence.NewGormProductRepository(db.DB, outboxPublisher, cfg.Catalog.AdminRole)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Event bus: product duplications are linked on the course platform
	eventBus := event.NewInMemoryEventBus(log)

	courseGateway, err := course.NewGateway(cfg.Course, log)
	if err != nil {
		log.Fatal("Failed to initialize course gateway", zap.Error(err))
	}
	idempotencyStore := cache.NewIdempotencyStore(redisClient, log)
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()
	syncHandler := event.NewIdempotentHandler(
		enrollment.NewSyncHandler(courseGateway, log),
		idempotencyStore,
		log,
		event.WithIdempotencyTTL(cfg.Event.IdempotencyTTL),
	)
	eventBus.Subscribe(syncHandler)
	log.Info("Event handlers registered", zap.Strings("enrollment_sync_events", syncHandler.EventTypes()))

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Outbox processor delivers committed events to the bus
	if cfg.Event.ProcessorEnabled {
		processorConfig := event.ProcessorConfigFrom(cfg.Event)
		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, processorConfig, log)
		if err := outboxProcessor.Start(ctx); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", processorConfig.BatchSize),
			zap.Duration("poll_interval", processorConfig.PollInterval),
		)
	}

	// Identity and dashboard services
	jwtService := auth.NewJWTService(cfg.JWT)
	nonceService := auth.NewNonceService(cfg.Nonce)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}
	apiRouter := router.NewRouter(engine, router.WithAPIVersion("v1"))

	ajaxURL := strings.TrimSuffix(cfg.App.BaseURL, "/") + apiRouter.BasePath() + "/ajax"

	guard := access.NewGuard(nonceService, userRepo, log)
	dashboard := access.NewDashboard(nonceService, guard, ajaxURL, log)

	duplicationService := duplication.NewService(
		guard,
		productRepo,
		userRepo,
		duplication.NewExecutor(productRepo),
		cfg.Catalog.AdminRole,
		log,
	)
	meter := meterProvider.Meter("github.com/coursebridge/backend")
	if meterProvider.IsEnabled() {
		duplicationMetrics, err := telemetry.NewDuplicationMetrics(meter)
		if err != nil {
			log.Warn("Failed to create duplication metrics", zap.Error(err))
		} else {
			duplicationService.SetMetrics(duplicationMetrics)
		}
	}

	locale, err := language.Parse(cfg.Catalog.Locale)
	if err != nil {
		log.Warn("Invalid catalog locale, using English", zap.String("locale", cfg.Catalog.Locale), zap.Error(err))
		locale = language.English
	}
	listingService := listing.NewService(guard, productRepo, listing.NewRenderer(locale), log)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService, jwtService)
	dashboardHandler := handler.NewDashboardHandler(dashboard)
	ajaxHandler := handler.NewAjaxHandler(duplicationService, listingService)
	healthHandler := handler.NewHealthHandler(db)

	// Middleware stack, in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Tracing - Server span per request, enriched after the handler ran
	// 3. Recovery - Catch panics
	// 4. Logger - Log requests
	// 5. Metrics, profiling labels
	// 6. Security headers, CORS, body limit
	// 7. RateLimit (if enabled)
	engine.Use(middleware.RequestID())
	if tracerProvider.IsEnabled() {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanEnricher())
	}
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	httpMetrics, err := middleware.HTTPMetrics(meter)
	if err != nil {
		log.Warn("Failed to create HTTP metrics", zap.Error(err))
	} else {
		engine.Use(httpMetrics)
	}
	engine.Use(middleware.Profiling(profiler.IsEnabled()))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer rateLimiter.Stop()
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler.Check)

	// Swagger documentation endpoint
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	// API routes
	jwtConfig := middleware.JWTMiddlewareConfig{
		Validator:      jwtService,
		TokenBlacklist: blacklist,
		Logger:         log,
	}
	apiGroups := router.APIGroups(router.APIHandlers{
		Login:          authHandler.Login,
		Logout:         authHandler.Logout,
		CurrentUser:    authHandler.GetCurrentUser,
		Dashboard:      dashboardHandler.Bootstrap,
		Ajax:           ajaxHandler.Dispatch,
		RequireSession: middleware.RequireJWT(jwtConfig),
		OptionalAuth:   middleware.OptionalJWT(jwtConfig),
	})
	apiRouter.Register(apiGroups...).Setup()
	for _, rr := range apiGroups {
		if dg, ok := rr.(*router.DomainGroup); ok {
			for _, route := range dg.Routes() {
				log.Debug("Route registered",
					zap.String("group", dg.Name()),
					zap.String("method", route.Method),
					zap.String("path", apiRouter.BasePath()+route.Path),
				)
			}
		}
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr), zap.String("ajax_url", ajaxURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
