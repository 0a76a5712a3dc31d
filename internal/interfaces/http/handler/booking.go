package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	bookingapp "github.com/quotebook/backend/internal/application/booking"
)

// BookingHandler handles booking administration
type BookingHandler struct {
	BaseHandler
	bookingService *bookingapp.BookingService
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookingService *bookingapp.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
	}
}

// List returns a page of bookings.
// GET /admin/bookings
func (h *BookingHandler) List(c *gin.Context) {
	var filter bookingapp.BookingListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	bookings, total, err := h.bookingService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, bookings, total, filter.Page, filter.PageSize)
}

// GetByID returns one booking.
// GET /admin/bookings/:id
func (h *BookingHandler) GetByID(c *gin.Context) {
	h.respond(c, h.bookingService.GetByID)
}

// Confirm confirms a pending booking.
// POST /admin/bookings/:id/confirm
func (h *BookingHandler) Confirm(c *gin.Context) {
	h.respond(c, h.bookingService.Confirm)
}

// Complete marks a confirmed booking as done.
// POST /admin/bookings/:id/complete
func (h *BookingHandler) Complete(c *gin.Context) {
	h.respond(c, h.bookingService.Complete)
}

// Cancel cancels a booking with a reason.
// POST /admin/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	var req bookingapp.CancelBookingRequest
	h.respondWithBody(c, &req, func(ctx context.Context, id uuid.UUID) (*bookingapp.BookingResponse, error) {
		return h.bookingService.Cancel(ctx, id, req)
	})
}

// Reschedule moves a booking to another date.
// POST /admin/bookings/:id/reschedule
func (h *BookingHandler) Reschedule(c *gin.Context) {
	var req bookingapp.RescheduleBookingRequest
	h.respondWithBody(c, &req, func(ctx context.Context, id uuid.UUID) (*bookingapp.BookingResponse, error) {
		return h.bookingService.Reschedule(ctx, id, req)
	})
}

// UpdatePayment records a payment status change.
// POST /admin/bookings/:id/payment
func (h *BookingHandler) UpdatePayment(c *gin.Context) {
	var req bookingapp.UpdatePaymentRequest
	h.respondWithBody(c, &req, func(ctx context.Context, id uuid.UUID) (*bookingapp.BookingResponse, error) {
		return h.bookingService.UpdatePayment(ctx, id, req)
	})
}

func (h *BookingHandler) respond(c *gin.Context, action func(context.Context, uuid.UUID) (*bookingapp.BookingResponse, error)) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	booking, err := action(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, booking)
}

func (h *BookingHandler) respondWithBody(c *gin.Context, req any, action func(context.Context, uuid.UUID) (*bookingapp.BookingResponse, error)) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if !h.bindJSON(c, req) {
		return
	}

	booking, err := action(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, booking)
}
