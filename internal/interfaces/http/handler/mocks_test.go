package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/booking"
	"github.com/quotebook/backend/internal/domain/configuration"
	"github.com/quotebook/backend/internal/domain/customer"
	"github.com/quotebook/backend/internal/domain/document"
	"github.com/quotebook/backend/internal/domain/notification"
	"github.com/quotebook/backend/internal/domain/pricing"
	"github.com/quotebook/backend/internal/domain/quote"
	"github.com/quotebook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockQuoteRepository struct {
	mock.Mock
}

func (m *MockQuoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*quote.Quote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Quote), args.Error(1)
}

func (m *MockQuoteRepository) FindByNumber(ctx context.Context, quoteNumber string) (*quote.Quote, error) {
	args := m.Called(ctx, quoteNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Quote), args.Error(1)
}

func (m *MockQuoteRepository) FindAll(ctx context.Context, filter shared.Filter) ([]quote.Quote, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]quote.Quote), args.Error(1)
}

func (m *MockQuoteRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]quote.Quote, error) {
	args := m.Called(ctx, customerID, filter)
	return args.Get(0).([]quote.Quote), args.Error(1)
}

func (m *MockQuoteRepository) FindExpirable(ctx context.Context, now time.Time, limit int) ([]quote.Quote, error) {
	args := m.Called(ctx, now, limit)
	return args.Get(0).([]quote.Quote), args.Error(1)
}

func (m *MockQuoteRepository) Save(ctx context.Context, q *quote.Quote) error {
	return m.Called(ctx, q).Error(0)
}

func (m *MockQuoteRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuoteRepository) CountByStatus(ctx context.Context, status quote.Status) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindByQuoteID(ctx context.Context, quoteID uuid.UUID) (*booking.Booking, error) {
	args := m.Called(ctx, quoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindAll(ctx context.Context, filter shared.Filter) ([]booking.Booking, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]booking.Booking, error) {
	args := m.Called(ctx, customerID, filter)
	return args.Get(0).([]booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) Save(ctx context.Context, b *booking.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBookingRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepository) ExistsByQuoteID(ctx context.Context, quoteID uuid.UUID) (bool, error) {
	args := m.Called(ctx, quoteID)
	return args.Bool(0), args.Error(1)
}

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByOwner(ctx context.Context, ownerType document.OwnerType, ownerID uuid.UUID, filter shared.Filter) ([]document.Document, error) {
	args := m.Called(ctx, ownerType, ownerID, filter)
	return args.Get(0).([]document.Document), args.Error(1)
}

func (m *MockDocumentRepository) CountByOwner(ctx context.Context, ownerType document.OwnerType, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerType, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentRepository) Save(ctx context.Context, doc *document.Document) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockAcceptanceStore struct {
	mock.Mock
}

func (m *MockAcceptanceStore) SaveAcceptance(ctx context.Context, q *quote.Quote, b *booking.Booking) error {
	return m.Called(ctx, q, b).Error(0)
}

type MockCustomerResolver struct {
	mock.Mock
}

func (m *MockCustomerResolver) FindOrCreate(ctx context.Context, name, email, phone string) (*customer.Customer, error) {
	args := m.Called(ctx, name, email, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

type MockSettingRepository struct {
	mock.Mock
}

func (m *MockSettingRepository) FindByKey(ctx context.Context, key string) (*configuration.Setting, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*configuration.Setting), args.Error(1)
}

func (m *MockSettingRepository) FindAll(ctx context.Context, filter shared.Filter) ([]configuration.Setting, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]configuration.Setting), args.Error(1)
}

func (m *MockSettingRepository) FindByPrefix(ctx context.Context, prefix string) ([]configuration.Setting, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).([]configuration.Setting), args.Error(1)
}

func (m *MockSettingRepository) Save(ctx context.Context, setting *configuration.Setting) error {
	return m.Called(ctx, setting).Error(0)
}

func (m *MockSettingRepository) DeleteByKey(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockSettingRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]customer.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]notification.Notification, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]notification.Notification, error) {
	args := m.Called(ctx, customerID, filter)
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNotificationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) ExistsForEvent(ctx context.Context, sourceEventID uuid.UUID, template string) (bool, error) {
	args := m.Called(ctx, sourceEventID, template)
	return args.Bool(0), args.Error(1)
}

func newJSONRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)
	return w
}

// engineCalculator prices with the real engine against a fixed rate card
type engineCalculator struct {
	card  pricing.RateCard
	rules []pricing.Rule
}

func (c engineCalculator) Calculate(_ context.Context, pctx pricing.Context, at time.Time) (pricing.Result, error) {
	return pricing.NewEngine().Evaluate(pctx, c.card, c.rules, at)
}

type fixedPolicy configuration.QuotePolicy

func (p fixedPolicy) QuotePolicy(context.Context) (configuration.QuotePolicy, error) {
	return configuration.QuotePolicy(p), nil
}

type staticOwners bool

func (o staticOwners) OwnerExists(context.Context, document.OwnerType, uuid.UUID) (bool, error) {
	return bool(o), nil
}

func testPolicy() fixedPolicy {
	return fixedPolicy{ValidityDays: 14, DepositPercent: decimal.NewFromInt(20)}
}

func pendingQuote(t *testing.T) *quote.Quote {
	t.Helper()
	request := quote.ServiceRequest{
		Context: pricing.Context{
			ServiceType:  pricing.ServiceTypeCleaning,
			PropertyType: pricing.PropertyTypeApartment,
			Bedrooms:     2,
			Bathrooms:    1,
			ServiceDate:  time.Now().Add(72 * time.Hour),
		},
		Address: "1 Main St",
	}
	result := pricing.Result{
		Currency:   "AUD",
		BasePrice:  decimal.NewFromInt(200),
		FinalPrice: decimal.NewFromInt(200),
	}
	q, err := quote.NewQuote("Q-20260101-ABC123", uuid.New(), quote.Contact{Name: "Ada", Email: "ada@example.com"},
		request, result, time.Now().Add(7*24*time.Hour))
	require.NoError(t, err)
	q.ClearDomainEvents()
	return q
}

func pendingBooking(t *testing.T) *booking.Booking {
	t.Helper()
	q := pendingQuote(t)
	now := time.Now()
	require.NoError(t, q.Accept(now))
	b, err := booking.NewFromQuote(q, q.Request.Context.ServiceDate, decimal.NewFromInt(20), now)
	require.NoError(t, err)
	b.ClearDomainEvents()
	return b
}
