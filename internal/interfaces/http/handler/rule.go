package handler

import (
	"github.com/gin-gonic/gin"
	pricingapp "github.com/quotebook/backend/internal/application/pricing"
)

// RuleHandler handles pricing rule administration
type RuleHandler struct {
	BaseHandler
	ruleService *pricingapp.RuleService
}

// NewRuleHandler creates a new RuleHandler
func NewRuleHandler(ruleService *pricingapp.RuleService) *RuleHandler {
	return &RuleHandler{
		ruleService: ruleService,
	}
}

// Create creates a pricing rule.
// POST /admin/rules
func (h *RuleHandler) Create(c *gin.Context) {
	var req pricingapp.CreateRuleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	rule, err := h.ruleService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, rule)
}

// List returns a page of rules.
// GET /admin/rules
func (h *RuleHandler) List(c *gin.Context) {
	var filter pricingapp.RuleListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	rules, total, err := h.ruleService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, rules, total, filter.Page, filter.PageSize)
}

// GetByID returns one rule.
// GET /admin/rules/:id
func (h *RuleHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	rule, err := h.ruleService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rule)
}

// Update replaces the editable fields of a rule.
// PUT /admin/rules/:id
func (h *RuleHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req pricingapp.UpdateRuleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	rule, err := h.ruleService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rule)
}

// Delete removes a rule.
// DELETE /admin/rules/:id
func (h *RuleHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.ruleService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Activate enables a rule.
// POST /admin/rules/:id/activate
func (h *RuleHandler) Activate(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	rule, err := h.ruleService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rule)
}

// Deactivate disables a rule.
// POST /admin/rules/:id/deactivate
func (h *RuleHandler) Deactivate(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	rule, err := h.ruleService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rule)
}
