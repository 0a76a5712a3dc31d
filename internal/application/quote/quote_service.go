package quote

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	bookingapp "github.com/quotebook/backend/internal/application/booking"
	pricingapp "github.com/quotebook/backend/internal/application/pricing"
	"github.com/quotebook/backend/internal/domain/booking"
	"github.com/quotebook/backend/internal/domain/configuration"
	"github.com/quotebook/backend/internal/domain/customer"
	"github.com/quotebook/backend/internal/domain/pricing"
	"github.com/quotebook/backend/internal/domain/quote"
	"github.com/quotebook/backend/internal/domain/shared"
	"github.com/quotebook/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// PriceCalculator prices a service context
type PriceCalculator interface {
	Calculate(ctx context.Context, pctx pricing.Context, now time.Time) (pricing.Result, error)
}

// CustomerResolver finds or registers the customer behind a quote request
type CustomerResolver interface {
	FindOrCreate(ctx context.Context, name, email, phone string) (*customer.Customer, error)
}

// PolicyProvider supplies quote validity and deposit settings
type PolicyProvider interface {
	QuotePolicy(ctx context.Context) (configuration.QuotePolicy, error)
}

// AcceptanceStore persists an accepted quote together with its booking
type AcceptanceStore interface {
	SaveAcceptance(ctx context.Context, q *quote.Quote, b *booking.Booking) error
}

// Recorder counts quote and booking activity
type Recorder interface {
	QuoteSubmitted(serviceType string)
	QuoteTransitioned(status string)
	BookingEvent(event string)
}

// QuoteService handles quote requests and their lifecycle
type QuoteService struct {
	quoteRepo       quote.QuoteRepository
	bookingRepo     booking.BookingRepository
	acceptanceStore AcceptanceStore
	calculator      PriceCalculator
	customers       CustomerResolver
	policy          PolicyProvider
	eventPublisher  shared.EventPublisher
	recorder        Recorder
	logger          *zap.Logger
	now             func() time.Time
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(
	quoteRepo quote.QuoteRepository,
	bookingRepo booking.BookingRepository,
	acceptanceStore AcceptanceStore,
	calculator PriceCalculator,
	customers CustomerResolver,
	policy PolicyProvider,
	logger *zap.Logger,
) *QuoteService {
	return &QuoteService{
		quoteRepo:       quoteRepo,
		bookingRepo:     bookingRepo,
		acceptanceStore: acceptanceStore,
		calculator:      calculator,
		customers:       customers,
		policy:          policy,
		logger:          logger,
		now:             time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *QuoteService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetRecorder sets the metrics recorder
func (s *QuoteService) SetRecorder(recorder Recorder) {
	s.recorder = recorder
}

// Estimate prices a service without storing a quote
func (s *QuoteService) Estimate(ctx context.Context, req EstimateRequest) (*EstimateResponse, error) {
	pctx := req.Context()
	result, err := s.calculator.Calculate(ctx, pctx, s.now())
	if err != nil {
		return nil, err
	}
	return &EstimateResponse{
		ServiceType: string(pctx.Normalize().ServiceType),
		Pricing:     pricingapp.ToPriceBreakdown(result),
	}, nil
}

// Submit prices a service request and stores it as a pending quote
func (s *QuoteService) Submit(ctx context.Context, req SubmitQuoteRequest) (*QuoteResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "quote", "submit",
		telemetry.AttrServiceType, req.Service.ServiceType,
	)
	defer span.End()

	now := s.now()
	request := quote.ServiceRequest{
		Context:            req.Service.Context(),
		Address:            req.Address,
		DestinationAddress: req.DestinationAddress,
		Notes:              req.Notes,
	}
	if err := request.Validate(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	policy, err := s.policy.QuotePolicy(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	result, err := s.calculator.Calculate(ctx, request.Context, now)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	c, err := s.customers.FindOrCreate(ctx, req.Contact.Name, req.Contact.Email, req.Contact.Phone)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	contact := quote.Contact{
		Name:  req.Contact.Name,
		Email: c.Email,
		Phone: req.Contact.Phone,
	}
	expiresAt := now.AddDate(0, 0, policy.ValidityDays)
	q, err := quote.NewQuote(quote.GenerateQuoteNumber(now), c.ID, contact, request, result, expiresAt)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.quoteRepo.Save(ctx, q); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.publishDomainEvents(ctx, q)
	if s.recorder != nil {
		s.recorder.QuoteSubmitted(string(q.ServiceType()))
	}

	telemetry.SetAttributes(span,
		telemetry.AttrQuoteID, q.ID.String(),
		telemetry.AttrQuoteNumber, q.QuoteNumber,
		telemetry.AttrCustomerID, c.ID.String(),
		telemetry.AttrRulesApplied, len(result.Adjustments),
		telemetry.AttrFinalPrice, result.FinalPrice,
	)
	s.logger.Info("Quote submitted",
		zap.String("quote_id", q.ID.String()),
		zap.String("quote_number", q.QuoteNumber),
		zap.String("customer_id", c.ID.String()),
		zap.String("service_type", string(q.ServiceType())),
		zap.String("final_price", result.FinalPrice.StringFixed(2)),
		zap.Strings("rules_applied", result.AppliedRuleNames()),
	)

	response := ToQuoteResponse(q)
	return &response, nil
}

// GetByID retrieves a quote by ID
func (s *QuoteService) GetByID(ctx context.Context, id uuid.UUID) (*QuoteResponse, error) {
	q, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToQuoteResponse(q)
	return &response, nil
}

// List retrieves quotes with filtering and pagination
func (s *QuoteService) List(ctx context.Context, filter QuoteListFilter) ([]QuoteResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
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
	if filter.ServiceType != "" {
		domainFilter.Filters["service_type"] = filter.ServiceType
	}
	if filter.CustomerID != "" {
		domainFilter.Filters["customer_id"] = filter.CustomerID
	}

	quotes, err := s.quoteRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.quoteRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToQuoteResponses(quotes), total, nil
}

// Accept accepts a pending quote and creates its booking in one transaction
func (s *QuoteService) Accept(ctx context.Context, id uuid.UUID, req AcceptQuoteRequest) (*AcceptQuoteResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "quote", "accept", telemetry.AttrQuoteID, id.String())
	defer span.End()

	q, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	exists, err := s.bookingRepo.ExistsByQuoteID(ctx, q.ID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if exists {
		err := shared.NewDomainError("ALREADY_EXISTS", "A booking already exists for this quote")
		telemetry.RecordError(span, err)
		return nil, err
	}

	scheduledAt := q.Request.Context.ServiceDate
	if req.ScheduledAt != nil {
		scheduledAt = *req.ScheduledAt
	}
	policy, err := s.policy.QuotePolicy(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	now := s.now()
	if err := q.Accept(now); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	b, err := booking.NewFromQuote(q, scheduledAt, policy.DepositPercent, now)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.acceptanceStore.SaveAcceptance(ctx, q, b); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishDomainEvents(ctx, q)
	s.publishDomainEvents(ctx, b)
	if s.recorder != nil {
		s.recorder.QuoteTransitioned(string(quote.StatusAccepted))
		s.recorder.BookingEvent("created")
	}

	telemetry.SetAttributes(span,
		telemetry.AttrBookingID, b.ID.String(),
		telemetry.AttrBookingNumber, b.BookingNumber,
	)
	s.logger.Info("Quote accepted",
		zap.String("quote_id", q.ID.String()),
		zap.String("quote_number", q.QuoteNumber),
		zap.String("booking_id", b.ID.String()),
		zap.String("booking_number", b.BookingNumber),
		zap.Time("scheduled_at", b.ScheduledAt),
	)

	return &AcceptQuoteResponse{
		Quote:   ToQuoteResponse(q),
		Booking: bookingapp.ToBookingResponse(b),
	}, nil
}

// Reject rejects a pending quote
func (s *QuoteService) Reject(ctx context.Context, id uuid.UUID, req RejectQuoteRequest) (*QuoteResponse, error) {
	q, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := q.Reject(req.Reason, s.now()); err != nil {
		return nil, err
	}
	if err := s.quoteRepo.Save(ctx, q); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, q)
	if s.recorder != nil {
		s.recorder.QuoteTransitioned(string(quote.StatusRejected))
	}

	s.logger.Info("Quote rejected",
		zap.String("quote_id", q.ID.String()),
		zap.String("quote_number", q.QuoteNumber),
		zap.String("reason", q.RejectionReason),
	)

	response := ToQuoteResponse(q)
	return &response, nil
}

// Recalculate reprices a pending quote against the current rates and rules
func (s *QuoteService) Recalculate(ctx context.Context, id uuid.UUID) (*QuoteResponse, error) {
	q, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := q.CanTransition(now); err != nil {
		return nil, err
	}

	result, err := s.calculator.Calculate(ctx, q.Request.Context, now)
	if err != nil {
		return nil, err
	}
	previous := q.FinalPrice()
	if err := q.Recalculate(result, now); err != nil {
		return nil, err
	}
	if err := s.quoteRepo.Save(ctx, q); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, q)

	s.logger.Info("Quote recalculated",
		zap.String("quote_id", q.ID.String()),
		zap.String("previous_price", previous.StringFixed(2)),
		zap.String("final_price", result.FinalPrice.StringFixed(2)),
	)

	response := ToQuoteResponse(q)
	return &response, nil
}

// ExpireStale marks up to limit pending quotes whose expiry is at or before
// now as expired. Quotes changed concurrently are skipped.
func (s *QuoteService) ExpireStale(ctx context.Context, now time.Time, limit int) (int, error) {
	quotes, err := s.quoteRepo.FindExpirable(ctx, now, limit)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range quotes {
		q := &quotes[i]
		if err := q.Expire(now); err != nil {
			s.logger.Warn("Skipping quote that cannot expire",
				zap.String("quote_id", q.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if err := s.quoteRepo.Save(ctx, q); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				s.logger.Debug("Quote changed while expiring", zap.String("quote_id", q.ID.String()))
				continue
			}
			return expired, err
		}
		s.publishDomainEvents(ctx, q)
		if s.recorder != nil {
			s.recorder.QuoteTransitioned(string(quote.StatusExpired))
		}
		expired++
	}

	return expired, nil
}

func (s *QuoteService) publishDomainEvents(ctx context.Context, agg shared.AggregateRoot) {
	if err := shared.PublishPending(ctx, s.eventPublisher, agg); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
}
