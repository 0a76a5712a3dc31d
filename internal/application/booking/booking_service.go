package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/booking"
	"github.com/quotebook/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// EventRecorder counts booking lifecycle events
type EventRecorder interface {
	BookingEvent(event string)
}

// BookingService handles the booking lifecycle after a quote is accepted
type BookingService struct {
	bookingRepo    booking.BookingRepository
	eventPublisher shared.EventPublisher
	recorder       EventRecorder
	logger         *zap.Logger
	now            func() time.Time
}

// NewBookingService creates a new BookingService
func NewBookingService(bookingRepo booking.BookingRepository, logger *zap.Logger) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *BookingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetRecorder sets the metrics recorder
func (s *BookingService) SetRecorder(recorder EventRecorder) {
	s.recorder = recorder
}

// GetByID retrieves a booking by ID
func (s *BookingService) GetByID(ctx context.Context, id uuid.UUID) (*BookingResponse, error) {
	b, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToBookingResponse(b)
	return &response, nil
}

// List retrieves bookings with filtering and pagination
func (s *BookingService) List(ctx context.Context, filter BookingListFilter) ([]BookingResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "scheduled_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.PaymentStatus != "" {
		domainFilter.Filters["payment_status"] = filter.PaymentStatus
	}
	if filter.ServiceType != "" {
		domainFilter.Filters["service_type"] = filter.ServiceType
	}
	if filter.CustomerID != "" {
		domainFilter.Filters["customer_id"] = filter.CustomerID
	}
	if filter.ScheduledFrom != nil {
		domainFilter.Filters["scheduled_from"] = filter.ScheduledFrom.Format(time.RFC3339)
	}
	if filter.ScheduledTo != nil {
		domainFilter.Filters["scheduled_to"] = filter.ScheduledTo.Format(time.RFC3339)
	}

	bookings, err := s.bookingRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.bookingRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToBookingResponses(bookings), total, nil
}

// Confirm confirms a pending booking
func (s *BookingService) Confirm(ctx context.Context, id uuid.UUID) (*BookingResponse, error) {
	return s.apply(ctx, id, "confirmed", func(b *booking.Booking, now time.Time) error {
		return b.Confirm(now)
	})
}

// Complete marks a confirmed booking as completed
func (s *BookingService) Complete(ctx context.Context, id uuid.UUID) (*BookingResponse, error) {
	return s.apply(ctx, id, "completed", func(b *booking.Booking, now time.Time) error {
		return b.Complete(now)
	})
}

// Cancel cancels a pending or confirmed booking
func (s *BookingService) Cancel(ctx context.Context, id uuid.UUID, req CancelBookingRequest) (*BookingResponse, error) {
	return s.apply(ctx, id, "cancelled", func(b *booking.Booking, now time.Time) error {
		return b.Cancel(req.Reason, now)
	})
}

// Reschedule moves a pending or confirmed booking to a new date
func (s *BookingService) Reschedule(ctx context.Context, id uuid.UUID, req RescheduleBookingRequest) (*BookingResponse, error) {
	return s.apply(ctx, id, "rescheduled", func(b *booking.Booking, now time.Time) error {
		return b.Reschedule(req.ScheduledAt, now)
	})
}

// UpdatePayment records a payment status change made outside the system
func (s *BookingService) UpdatePayment(ctx context.Context, id uuid.UUID, req UpdatePaymentRequest) (*BookingResponse, error) {
	return s.apply(ctx, id, "payment_"+req.PaymentStatus, func(b *booking.Booking, now time.Time) error {
		return b.UpdatePaymentStatus(booking.PaymentStatus(req.PaymentStatus), now)
	})
}

func (s *BookingService) apply(ctx context.Context, id uuid.UUID, event string, change func(*booking.Booking, time.Time) error) (*BookingResponse, error) {
	b, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := change(b, s.now()); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Save(ctx, b); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, b)
	if s.recorder != nil {
		s.recorder.BookingEvent(event)
	}

	s.logger.Info("Booking updated",
		zap.String("booking_id", b.ID.String()),
		zap.String("booking_number", b.BookingNumber),
		zap.String("event", event),
		zap.String("status", string(b.Status)),
		zap.String("payment_status", string(b.PaymentStatus)),
	)

	response := ToBookingResponse(b)
	return &response, nil
}

func (s *BookingService) publishDomainEvents(ctx context.Context, b *booking.Booking) {
	if err := shared.PublishPending(ctx, s.eventPublisher, b); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
}
