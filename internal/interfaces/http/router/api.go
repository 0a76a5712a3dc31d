package router

import (
	"github.com/gin-gonic/gin"
	"github.com/quotebook/backend/internal/domain/document"
	"github.com/quotebook/backend/internal/infrastructure/auth"
	"github.com/quotebook/backend/internal/infrastructure/config"
	"github.com/quotebook/backend/internal/infrastructure/logger"
	"github.com/quotebook/backend/internal/infrastructure/telemetry"
	"github.com/quotebook/backend/internal/interfaces/http/handler"
	"github.com/quotebook/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// uploadOverhead leaves room for multipart framing around the largest file
const uploadOverhead = 1 << 20

// Handlers holds every handler the API serves
type Handlers struct {
	Quote         *handler.QuoteHandler
	Auth          *handler.AuthHandler
	Rule          *handler.RuleHandler
	Configuration *handler.ConfigurationHandler
	Customer      *handler.CustomerHandler
	Booking       *handler.BookingHandler
	Notification  *handler.NotificationHandler
	Document      *handler.DocumentHandler
	Health        *handler.HealthHandler
}

// Options configures the engine built by NewEngine
type Options struct {
	HTTP     config.HTTPConfig
	Security middleware.SecurityConfig
	Tracing  middleware.TracingConfig
	Logger   *zap.Logger
	JWT      *auth.JWTService
	// Metrics is optional. Without it no request metrics are recorded and
	// /metrics is not served.
	Metrics *telemetry.Metrics
	// PublicLimiter and AuthLimiter are optional.
	PublicLimiter *middleware.RateLimiter
	AuthLimiter   *middleware.RateLimiter
}

// NewEngine builds the gin engine with the global middleware chain,
// the operational endpoints and the versioned API.
func NewEngine(h Handlers, opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(opts.HTTP.TrustedProxies); err != nil {
		log.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(middleware.RequestID(), logger.Recovery(log), logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(opts.Tracing)...)
	if opts.Metrics != nil {
		engine.Use(middleware.Metrics(opts.Metrics))
	}
	engine.Use(middleware.Secure(opts.Security), middleware.CORSWithConfig(corsConfig(opts.HTTP)))

	engine.GET("/health", h.Health.Health)
	if opts.Metrics != nil && opts.HTTP.MetricsEnabled {
		engine.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	NewRouter(engine).
		Register(quoteRoutes(h, opts)).
		Register(authRoutes(h, opts)).
		Register(adminRoutes(h, opts, log)).
		Setup()

	return engine
}

func corsConfig(cfg config.HTTPConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	if len(cfg.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = cfg.CORSAllowOrigins
	}
	if len(cfg.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.CORSAllowMethods
	}
	if len(cfg.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.CORSAllowHeaders
	}
	return cors
}

func jsonLimit(opts Options) gin.HandlerFunc {
	return middleware.BodyLimit(opts.HTTP.MaxBodySize)
}

func quoteRoutes(h Handlers, opts Options) *DomainGroup {
	g := NewDomainGroup("quotes", "/quotes").Use(jsonLimit(opts))
	if opts.PublicLimiter != nil {
		g.Use(middleware.RateLimit(opts.PublicLimiter))
	}

	g.POST("/estimate", h.Quote.Estimate)
	g.POST("", h.Quote.Submit)
	g.GET("/:id", h.Quote.GetByID)
	g.POST("/:id/accept", h.Quote.Accept)
	g.POST("/:id/reject", h.Quote.Reject)
	return g
}

func authRoutes(h Handlers, opts Options) *DomainGroup {
	g := NewDomainGroup("auth", "/auth").Use(jsonLimit(opts))
	if opts.AuthLimiter != nil {
		g.Use(middleware.RateLimit(opts.AuthLimiter))
	}

	g.POST("/login", h.Auth.Login)
	g.POST("/refresh", h.Auth.Refresh)
	return g
}

func adminRoutes(h Handlers, opts Options, log *zap.Logger) *DomainGroup {
	admin := NewDomainGroup("admin", "/admin").Use(middleware.AdminAuth(opts.JWT, log))

	rules := admin.Group("rules", "/rules").Use(jsonLimit(opts))
	rules.GET("", h.Rule.List)
	rules.POST("", h.Rule.Create)
	rules.GET("/:id", h.Rule.GetByID)
	rules.PUT("/:id", h.Rule.Update)
	rules.DELETE("/:id", h.Rule.Delete)
	rules.POST("/:id/activate", h.Rule.Activate)
	rules.POST("/:id/deactivate", h.Rule.Deactivate)

	configurations := admin.Group("configurations", "/configurations").Use(jsonLimit(opts))
	configurations.GET("", h.Configuration.List)
	configurations.GET("/:key", h.Configuration.Get)
	configurations.PUT("/:key", h.Configuration.Upsert)
	configurations.DELETE("/:key", h.Configuration.Delete)

	quotes := admin.Group("quotes", "/quotes").Use(jsonLimit(opts))
	quotes.GET("", h.Quote.List)
	quotes.GET("/:id", h.Quote.GetByID)
	quotes.POST("/:id/recalculate", h.Quote.Recalculate)

	bookings := admin.Group("bookings", "/bookings").Use(jsonLimit(opts))
	bookings.GET("", h.Booking.List)
	bookings.GET("/:id", h.Booking.GetByID)
	bookings.POST("/:id/confirm", h.Booking.Confirm)
	bookings.POST("/:id/complete", h.Booking.Complete)
	bookings.POST("/:id/cancel", h.Booking.Cancel)
	bookings.POST("/:id/reschedule", h.Booking.Reschedule)
	bookings.POST("/:id/payment", h.Booking.UpdatePayment)

	customers := admin.Group("customers", "/customers").Use(jsonLimit(opts))
	customers.GET("", h.Customer.List)
	customers.POST("", h.Customer.Create)
	customers.GET("/:id", h.Customer.GetByID)
	customers.PUT("/:id", h.Customer.Update)
	customers.DELETE("/:id", h.Customer.Delete)

	notifications := admin.Group("notifications", "/notifications").Use(jsonLimit(opts))
	notifications.GET("", h.Notification.List)
	notifications.GET("/:id", h.Notification.GetByID)
	notifications.POST("/:id/sent", h.Notification.MarkSent)
	notifications.POST("/:id/failed", h.Notification.MarkFailed)
	notifications.POST("/:id/requeue", h.Notification.Requeue)

	documents := admin.Group("documents", "/documents").Use(middleware.BodyLimit(document.MaxFileSize + uploadOverhead))
	documents.POST("", h.Document.Upload)
	documents.GET("", h.Document.List)
	documents.GET("/:id", h.Document.GetByID)
	documents.DELETE("/:id", h.Document.Delete)

	return admin
}
