package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/notification"
	"github.com/quotebook/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// NotificationService lets an external dispatcher drive delivery of queued
// notifications.
type NotificationService struct {
	notificationRepo notification.NotificationRepository
	logger           *zap.Logger
	now              func() time.Time
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo notification.NotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		logger:           logger,
		now:              time.Now,
	}
}

// GetByID retrieves a notification by ID
func (s *NotificationService) GetByID(ctx context.Context, id uuid.UUID) (*NotificationResponse, error) {
	n, err := s.notificationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToNotificationResponse(n)
	return &response, nil
}

// List retrieves notifications with filtering and pagination
func (s *NotificationService) List(ctx context.Context, filter NotificationListFilter) ([]NotificationResponse, int64, error) {
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
		Filters:  make(map[string]any),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Channel != "" {
		domainFilter.Filters["channel"] = filter.Channel
	}
	if filter.Template != "" {
		domainFilter.Filters["template"] = filter.Template
	}
	if filter.CustomerID != "" {
		domainFilter.Filters["customer_id"] = filter.CustomerID
	}

	items, err := s.notificationRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.notificationRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToNotificationResponses(items), total, nil
}

// MarkSent records that a queued notification was delivered
func (s *NotificationService) MarkSent(ctx context.Context, id uuid.UUID) (*NotificationResponse, error) {
	return s.apply(ctx, id, "sent", func(n *notification.Notification, now time.Time) error {
		return n.MarkSent(now)
	})
}

// MarkFailed records a failed delivery attempt
func (s *NotificationService) MarkFailed(ctx context.Context, id uuid.UUID, req MarkFailedRequest) (*NotificationResponse, error) {
	return s.apply(ctx, id, "failed", func(n *notification.Notification, now time.Time) error {
		return n.MarkFailed(req.Reason, now)
	})
}

// Requeue puts a failed notification back in the queue
func (s *NotificationService) Requeue(ctx context.Context, id uuid.UUID) (*NotificationResponse, error) {
	return s.apply(ctx, id, "requeued", func(n *notification.Notification, now time.Time) error {
		return n.Requeue(now)
	})
}

func (s *NotificationService) apply(ctx context.Context, id uuid.UUID, action string, change func(*notification.Notification, time.Time) error) (*NotificationResponse, error) {
	n, err := s.notificationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := change(n, s.now()); err != nil {
		return nil, err
	}
	if err := s.notificationRepo.Save(ctx, n); err != nil {
		return nil, err
	}

	s.logger.Info("Notification updated",
		zap.String("notification_id", n.ID.String()),
		zap.String("action", action),
		zap.Int("attempts", n.Attempts),
	)

	response := ToNotificationResponse(n)
	return &response, nil
}
