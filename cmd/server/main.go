package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	authapp "github.com/quotebook/backend/internal/application/auth"
	bookingapp "github.com/quotebook/backend/internal/application/booking"
	configapp "github.com/quotebook/backend/internal/application/configuration"
	customerapp "github.com/quotebook/backend/internal/application/customer"
	documentapp "github.com/quotebook/backend/internal/application/document"
	notificationapp "github.com/quotebook/backend/internal/application/notification"
	pricingapp "github.com/quotebook/backend/internal/application/pricing"
	quoteapp "github.com/quotebook/backend/internal/application/quote"
	"github.com/quotebook/backend/internal/domain/shared"
	"github.com/quotebook/backend/internal/infrastructure/auth"
	"github.com/quotebook/backend/internal/infrastructure/cache"
	"github.com/quotebook/backend/internal/infrastructure/config"
	"github.com/quotebook/backend/internal/infrastructure/event"
	"github.com/quotebook/backend/internal/infrastructure/logger"
	"github.com/quotebook/backend/internal/infrastructure/persistence"
	"github.com/quotebook/backend/internal/infrastructure/scheduler"
	"github.com/quotebook/backend/internal/infrastructure/storage"
	"github.com/quotebook/backend/internal/infrastructure/telemetry"
	"github.com/quotebook/backend/internal/interfaces/http/handler"
	"github.com/quotebook/backend/internal/interfaces/http/middleware"
	"github.com/quotebook/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const (
	shutdownTimeout        = 30 * time.Second
	rateLimitCleanupPeriod = 5 * time.Minute
)

func main() {
	hashPassword := flag.String("hash-password", "", "Print the bcrypt hash of the given admin password and exit")
	flag.Parse()

	if *hashPassword != "" {
		hash, err := auth.HashPassword(*hashPassword)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to hash password:", err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting quotebook backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()
	metrics := telemetry.NewMetrics()

	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected")

	idempotencyStore, err := cache.NewIdempotencyStore(ctx, cfg.Redis, cfg.IsProduction() && cfg.Redis.Enabled, log)
	if err != nil {
		log.Fatal("Failed to initialize idempotency store", zap.Error(err))
	}

	objectStorage, err := newObjectStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// Repositories
	settingRepo := persistence.NewGormSettingRepository(db.DB)
	ruleRepo := persistence.NewGormRuleRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	quoteRepo := persistence.NewGormQuoteRepository(db.DB)
	bookingRepo := persistence.NewGormBookingRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	acceptanceStore := persistence.NewGormQuoteAcceptanceStore(db.DB)

	eventBus := event.NewInMemoryEventBus(log)

	// Application services
	configService := configapp.NewConfigurationService(settingRepo, log)
	ruleService := pricingapp.NewRuleService(ruleRepo, log)
	ruleService.SetEventPublisher(eventBus)
	calculator := pricingapp.NewCalculator(ruleRepo, configService)
	calculator.SetRecorder(metrics)

	customerService := customerapp.NewCustomerService(customerRepo, log)
	customerService.SetEventPublisher(eventBus)

	quoteService := quoteapp.NewQuoteService(quoteRepo, bookingRepo, acceptanceStore, calculator, customerService, configService, log)
	quoteService.SetEventPublisher(eventBus)
	quoteService.SetRecorder(metrics)

	bookingService := bookingapp.NewBookingService(bookingRepo, log)
	bookingService.SetEventPublisher(eventBus)
	bookingService.SetRecorder(metrics)

	notificationService := notificationapp.NewNotificationService(notificationRepo, log)
	documentService := documentapp.NewDocumentService(
		documentRepo,
		objectStorage,
		documentapp.NewRepositoryOwnerChecker(quoteRepo, bookingRepo, customerRepo),
		log,
	)

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := authapp.NewAuthService(
		auth.NewAdminCredentials(cfg.Admin),
		jwtService,
		auth.NewRefreshGuard(idempotencyStore),
		log,
	)

	// Quote and booking events become queued notifications
	renderer, err := notificationapp.NewRenderer()
	if err != nil {
		log.Fatal("Failed to load notification templates", zap.Error(err))
	}
	notificationHandler := notificationapp.NewEventHandler(notificationRepo, customerRepo, renderer, log).WithRecorder(metrics)
	eventBus.Subscribe(event.NewIdempotentHandler(notificationHandler, idempotencyStore, log,
		event.WithKeyPrefix("notification"),
		event.WithIdempotencyConfig(shared.IdempotencyConfig{TTL: cfg.Event.IdempotencyTTL, Enabled: true}),
	))
	log.Info("Event handlers registered", zap.Strings("notification_events", notificationHandler.EventTypes()))

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	var jobs *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		jobs = scheduler.New(scheduler.Config{JobTimeout: cfg.Scheduler.JobTimeout}, log, scheduler.WithObserver(metrics))
		expiry := scheduler.NewQuoteExpiryJob(quoteService, cfg.Scheduler.QuoteExpiryBatch, log)
		if err := jobs.Register(expiry, cfg.Scheduler.QuoteExpirySchedule); err != nil {
			log.Fatal("Failed to register quote expiry job", zap.Error(err))
		}
		jobs.Start(ctx)
	}

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	checks := map[string]handler.Pinger{"database": db}
	if pinger, ok := idempotencyStore.(handler.Pinger); ok {
		checks["redis"] = pinger
	}
	if pinger, ok := objectStorage.(handler.Pinger); ok {
		checks["storage"] = pinger
	}

	opts := router.Options{
		HTTP:     cfg.HTTP,
		Security: middleware.DefaultSecurityConfig(),
		Tracing:  middleware.DefaultTracingConfig(),
		Logger:   log,
		JWT:      jwtService,
		Metrics:  metrics,
	}
	opts.Security.HSTSEnabled = cfg.IsProduction()
	opts.Tracing.Enabled = cfg.Telemetry.Enabled
	if cfg.Telemetry.ServiceName != "" {
		opts.Tracing.ServiceName = cfg.Telemetry.ServiceName
	}
	if cfg.HTTP.RateLimitEnabled {
		opts.PublicLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitPerSecond, cfg.HTTP.RateLimitBurst)
		opts.AuthLimiter = middleware.NewPerMinuteRateLimiter(cfg.HTTP.AuthRateLimitPerMin)
		opts.PublicLimiter.StartCleanup(ctx, rateLimitCleanupPeriod)
		opts.AuthLimiter.StartCleanup(ctx, rateLimitCleanupPeriod)
	}

	engine := router.NewEngine(router.Handlers{
		Quote:         handler.NewQuoteHandler(quoteService),
		Auth:          handler.NewAuthHandler(authService),
		Rule:          handler.NewRuleHandler(ruleService),
		Configuration: handler.NewConfigurationHandler(configService),
		Customer:      handler.NewCustomerHandler(customerService),
		Booking:       handler.NewBookingHandler(bookingService),
		Notification:  handler.NewNotificationHandler(notificationService),
		Document:      handler.NewDocumentHandler(documentService),
		Health:        handler.NewHealthHandler(checks),
	}, opts)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if jobs != nil {
		if err := jobs.Stop(shutdownCtx); err != nil {
			log.Error("Scheduler did not stop cleanly", zap.Error(err))
		}
	}
	stop()

	log.Info("Server exited gracefully")
}

// newObjectStorage returns the S3 store when storage is enabled and an
// in-memory store otherwise
func newObjectStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (documentapp.ObjectStorage, error) {
	if !cfg.Storage.Enabled {
		if cfg.IsProduction() {
			return nil, errors.New("object storage must be enabled in production")
		}
		log.Warn("Object storage disabled, documents are kept in memory")
		return storage.NewMemoryObjectStorage(), nil
	}

	s3, err := storage.NewS3ObjectStorage(&cfg.Storage,
		storage.WithLogger(log),
		storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
	)
	if err != nil {
		return nil, err
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to prepare bucket %s: %w", s3.Bucket(), err)
	}
	log.Info("Using S3 object storage", zap.String("bucket", s3.Bucket()), zap.String("endpoint", cfg.Storage.Endpoint))
	return s3, nil
}
