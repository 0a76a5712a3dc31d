package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/booking"
	"github.com/quotebook/backend/internal/domain/pricing"
	"github.com/quotebook/backend/internal/domain/quote"
	"github.com/quotebook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

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

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

type recordedEvents []string

func (r *recordedEvents) BookingEvent(event string) {
	*r = append(*r, event)
}

func newPendingBooking(t *testing.T) *booking.Booking {
	t.Helper()
	now := time.Now()
	q, err := quote.NewQuote("Q-20260101-AAAAAA", uuid.New(),
		quote.Contact{Name: "Jane", Email: "jane@example.com"},
		quote.ServiceRequest{
			Context: pricing.Context{ServiceType: pricing.ServiceTypeCleaning, PropertyType: pricing.PropertyTypeApartment},
			Address: "1 Main St",
		},
		pricing.Result{Currency: "USD", FinalPrice: decimal.NewFromInt(250)},
		now.Add(24*time.Hour),
	)
	require.NoError(t, err)
	require.NoError(t, q.Accept(now))

	b, err := booking.NewFromQuote(q, now.Add(72*time.Hour), decimal.NewFromInt(20), now)
	require.NoError(t, err)
	b.ClearDomainEvents()
	return b
}

func newTestService() (*BookingService, *MockBookingRepository, *MockEventPublisher, *recordedEvents) {
	repo := new(MockBookingRepository)
	pub := new(MockEventPublisher)
	rec := &recordedEvents{}
	svc := NewBookingService(repo, zap.NewNop())
	svc.SetEventPublisher(pub)
	svc.SetRecorder(rec)
	return svc, repo, pub, rec
}

func TestBookingService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	svc, repo, pub, rec := newTestService()
	b := newPendingBooking(t)

	repo.On("FindByID", ctx, b.ID).Return(b, nil)
	repo.On("Save", ctx, b).Return(nil)
	pub.On("Publish", ctx, mock.Anything).Return(nil)

	resp, err := svc.Confirm(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
	assert.NotNil(t, resp.ConfirmedAt)

	resp, err = svc.UpdatePayment(ctx, b.ID, UpdatePaymentRequest{PaymentStatus: "deposit_paid"})
	require.NoError(t, err)
	assert.Equal(t, "deposit_paid", resp.PaymentStatus)
	assert.True(t, resp.BalanceDue.Equal(decimal.NewFromInt(200)), resp.BalanceDue.String())

	resp, err = svc.Complete(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)

	assert.Equal(t, recordedEvents{"confirmed", "payment_deposit_paid", "completed"}, *rec)
	pub.AssertNumberOfCalls(t, "Publish", 3)
	assert.Empty(t, b.GetDomainEvents())
}

func TestBookingService_InvalidTransitionDoesNotSave(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, rec := newTestService()
	b := newPendingBooking(t)
	repo.On("FindByID", ctx, b.ID).Return(b, nil)

	_, err := svc.Complete(ctx, b.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	_, err = svc.UpdatePayment(ctx, b.ID, UpdatePaymentRequest{PaymentStatus: "refunded"})
	require.Error(t, err)

	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	assert.Empty(t, *rec)
}

func TestBookingService_CancelAndReschedule(t *testing.T) {
	ctx := context.Background()
	svc, repo, pub, _ := newTestService()
	b := newPendingBooking(t)
	repo.On("FindByID", ctx, b.ID).Return(b, nil)
	repo.On("Save", ctx, b).Return(nil)
	pub.On("Publish", ctx, mock.Anything).Return(nil)

	next := time.Now().Add(10 * 24 * time.Hour).Truncate(time.Second)
	resp, err := svc.Reschedule(ctx, b.ID, RescheduleBookingRequest{ScheduledAt: next})
	require.NoError(t, err)
	assert.True(t, resp.ScheduledAt.Equal(next))

	_, err = svc.Reschedule(ctx, b.ID, RescheduleBookingRequest{ScheduledAt: time.Now().Add(-time.Hour)})
	require.Error(t, err)

	resp, err = svc.Cancel(ctx, b.ID, CancelBookingRequest{Reason: "Customer moved the date"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	assert.Equal(t, "Customer moved the date", resp.CancellationReason)
}

func TestBookingService_List(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, _ := newTestService()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	repo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["status"] == "confirmed" &&
			f.Filters["scheduled_from"] == "2026-03-01T00:00:00Z" &&
			f.OrderBy == "scheduled_at"
	})).Return([]booking.Booking{*newPendingBooking(t)}, nil)
	repo.On("Count", ctx, mock.Anything).Return(int64(1), nil)

	items, total, err := svc.List(ctx, BookingListFilter{Status: "confirmed", ScheduledFrom: &from})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, items, 1)
}

func TestBookingService_GetNotFound(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, _ := newTestService()
	id := uuid.New()
	repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	_, err := svc.GetByID(ctx, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
