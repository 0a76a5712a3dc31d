//go:build integration

package integration

import (
	"net/http"
	"net/http/httptest"
	"testing"

	authapp "github.com/quotebook/backend/internal/application/auth"
	bookingapp "github.com/quotebook/backend/internal/application/booking"
	configapp "github.com/quotebook/backend/internal/application/configuration"
	customerapp "github.com/quotebook/backend/internal/application/customer"
	documentapp "github.com/quotebook/backend/internal/application/document"
	notificationapp "github.com/quotebook/backend/internal/application/notification"
	pricingapp "github.com/quotebook/backend/internal/application/pricing"
	quoteapp "github.com/quotebook/backend/internal/application/quote"
	"github.com/quotebook/backend/internal/domain/booking"
	"github.com/quotebook/backend/internal/domain/quote"
	"github.com/quotebook/backend/internal/infrastructure/auth"
	"github.com/quotebook/backend/internal/infrastructure/cache"
	"github.com/quotebook/backend/internal/infrastructure/config"
	"github.com/quotebook/backend/internal/infrastructure/event"
	"github.com/quotebook/backend/internal/infrastructure/persistence"
	"github.com/quotebook/backend/internal/infrastructure/storage"
	"github.com/quotebook/backend/internal/infrastructure/telemetry"
	"github.com/quotebook/backend/internal/interfaces/http/handler"
	"github.com/quotebook/backend/internal/interfaces/http/middleware"
	"github.com/quotebook/backend/internal/interfaces/http/router"
	"github.com/quotebook/backend/tests/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const adminPassword = "integration-secret"

// testApp is the full stack over a container database
type testApp struct {
	db      *TestDB
	engine  http.Handler
	jwt     *auth.JWTService
	quotes  *quoteapp.QuoteService
	events  *testutil.RecordingHandler
	metrics *telemetry.Metrics
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	tdb := NewTestDB(t)
	log := zap.NewNop()
	db := tdb.DB

	settingRepo := persistence.NewGormSettingRepository(db)
	ruleRepo := persistence.NewGormRuleRepository(db)
	customerRepo := persistence.NewGormCustomerRepository(db)
	quoteRepo := persistence.NewGormQuoteRepository(db)
	bookingRepo := persistence.NewGormBookingRepository(db)
	notificationRepo := persistence.NewGormNotificationRepository(db)
	documentRepo := persistence.NewGormDocumentRepository(db)

	metrics := telemetry.NewMetrics()
	bus := event.NewInMemoryEventBus(log)
	idempotency := cache.NewInMemoryIdempotencyStore()

	configService := configapp.NewConfigurationService(settingRepo, log)
	ruleService := pricingapp.NewRuleService(ruleRepo, log)
	calculator := pricingapp.NewCalculator(ruleRepo, configService)
	calculator.SetRecorder(metrics)
	customerService := customerapp.NewCustomerService(customerRepo, log)
	quoteService := quoteapp.NewQuoteService(quoteRepo, bookingRepo, persistence.NewGormQuoteAcceptanceStore(db),
		calculator, customerService, configService, log)
	quoteService.SetEventPublisher(bus)
	quoteService.SetRecorder(metrics)
	bookingService := bookingapp.NewBookingService(bookingRepo, log)
	bookingService.SetEventPublisher(bus)
	notificationService := notificationapp.NewNotificationService(notificationRepo, log)
	documentService := documentapp.NewDocumentService(documentRepo, storage.NewMemoryObjectStorage(),
		documentapp.NewRepositoryOwnerChecker(quoteRepo, bookingRepo, customerRepo), log)

	renderer, err := notificationapp.NewRenderer()
	require.NoError(t, err)
	bus.Subscribe(event.NewIdempotentHandler(
		notificationapp.NewEventHandler(notificationRepo, customerRepo, renderer, log),
		idempotency, log, event.WithKeyPrefix("notification"),
	))
	recorder := testutil.NewRecordingHandler(
		quote.EventTypeQuoteRequested,
		quote.EventTypeQuoteAccepted,
		quote.EventTypeQuoteExpired,
		booking.EventTypeBookingCreated,
		booking.EventTypeBookingConfirmed,
	)
	bus.Subscribe(recorder)
	require.NoError(t, bus.Start(t.Context()))

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	jwtService := auth.NewJWTService(testutil.JWTConfig())
	authService := authapp.NewAuthService(
		auth.NewAdminCredentials(config.AdminConfig{Username: "admin", PasswordHash: string(hash)}),
		jwtService,
		auth.NewRefreshGuard(idempotency),
		log,
	)

	middleware.SetupValidator()
	engine := router.NewEngine(router.Handlers{
		Quote:         handler.NewQuoteHandler(quoteService),
		Auth:          handler.NewAuthHandler(authService),
		Rule:          handler.NewRuleHandler(ruleService),
		Configuration: handler.NewConfigurationHandler(configService),
		Customer:      handler.NewCustomerHandler(customerService),
		Booking:       handler.NewBookingHandler(bookingService),
		Notification:  handler.NewNotificationHandler(notificationService),
		Document:      handler.NewDocumentHandler(documentService),
		Health:        handler.NewHealthHandler(map[string]handler.Pinger{"database": handler.PingFunc(tdb.SqlDB.PingContext)}),
	}, router.Options{
		HTTP:     config.HTTPConfig{MaxBodySize: 1 << 20, MetricsEnabled: true},
		Security: middleware.DefaultSecurityConfig(),
		Tracing:  middleware.TracingConfig{Enabled: false},
		Logger:   log,
		JWT:      jwtService,
		Metrics:  metrics,
	})

	return &testApp{
		db:      tdb,
		engine:  engine,
		jwt:     jwtService,
		quotes:  quoteService,
		events:  recorder,
		metrics: metrics,
	}
}

func (a *testApp) public(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.Do(t, a.engine, testutil.Request{Method: method, Path: path, Body: body})
}

func (a *testApp) admin(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.Do(t, a.engine, testutil.Request{
		Method:        method,
		Path:          path,
		Body:          body,
		Authorization: testutil.AdminBearer(t, a.jwt),
	})
}
