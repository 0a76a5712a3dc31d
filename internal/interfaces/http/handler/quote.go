package handler

import (
	"github.com/gin-gonic/gin"
	quoteapp "github.com/quotebook/backend/internal/application/quote"
)

// QuoteHandler handles the public quote flow and the admin quote views
type QuoteHandler struct {
	BaseHandler
	quoteService *quoteapp.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService *quoteapp.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
	}
}

// Estimate prices a service without storing anything.
// POST /quotes/estimate
func (h *QuoteHandler) Estimate(c *gin.Context) {
	var req quoteapp.EstimateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	estimate, err := h.quoteService.Estimate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, estimate)
}

// Submit prices and stores a quote for the contact.
// POST /quotes
func (h *QuoteHandler) Submit(c *gin.Context) {
	var req quoteapp.SubmitQuoteRequest
	if !h.bindJSON(c, &req) {
		return
	}

	quote, err := h.quoteService.Submit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, quote)
}

// GetByID returns one quote.
// GET /quotes/:id and GET /admin/quotes/:id
func (h *QuoteHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	quote, err := h.quoteService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quote)
}

// Accept accepts a pending quote and answers with the booking it created.
// POST /quotes/:id/accept
func (h *QuoteHandler) Accept(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req quoteapp.AcceptQuoteRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}

	result, err := h.quoteService.Accept(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Reject rejects a pending quote.
// POST /quotes/:id/reject
func (h *QuoteHandler) Reject(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req quoteapp.RejectQuoteRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}

	quote, err := h.quoteService.Reject(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quote)
}

// List returns a page of quotes.
// GET /admin/quotes
func (h *QuoteHandler) List(c *gin.Context) {
	var filter quoteapp.QuoteListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	quotes, total, err := h.quoteService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, quotes, total, filter.Page, filter.PageSize)
}

// Recalculate re-prices a pending quote against the current rules.
// POST /admin/quotes/:id/recalculate
func (h *QuoteHandler) Recalculate(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	quote, err := h.quoteService.Recalculate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quote)
}
