package handler

import (
	"github.com/gin-gonic/gin"
	notificationapp "github.com/quotebook/backend/internal/application/notification"
)

// NotificationHandler exposes the notification queue to delivery workers
type NotificationHandler struct {
	BaseHandler
	notificationService *notificationapp.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *notificationapp.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// List returns a page of notifications.
// GET /admin/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	var filter notificationapp.NotificationListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	items, total, err := h.notificationService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// GetByID returns one notification.
// GET /admin/notifications/:id
func (h *NotificationHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	item, err := h.notificationService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// MarkSent records a successful delivery.
// POST /admin/notifications/:id/sent
func (h *NotificationHandler) MarkSent(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	item, err := h.notificationService.MarkSent(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// MarkFailed records a failed delivery attempt.
// POST /admin/notifications/:id/failed
func (h *NotificationHandler) MarkFailed(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req notificationapp.MarkFailedRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.notificationService.MarkFailed(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// Requeue puts a failed notification back in the queue.
// POST /admin/notifications/:id/requeue
func (h *NotificationHandler) Requeue(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	item, err := h.notificationService.Requeue(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}
