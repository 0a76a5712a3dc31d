package handler

import (
	"github.com/gin-gonic/gin"
	configapp "github.com/quotebook/backend/internal/application/configuration"
)

// ConfigurationHandler handles the key/value settings API
type ConfigurationHandler struct {
	BaseHandler
	configService *configapp.ConfigurationService
}

// NewConfigurationHandler creates a new ConfigurationHandler
func NewConfigurationHandler(configService *configapp.ConfigurationService) *ConfigurationHandler {
	return &ConfigurationHandler{
		configService: configService,
	}
}

// List returns stored settings merged with the built-in defaults.
// GET /admin/configurations
func (h *ConfigurationHandler) List(c *gin.Context) {
	var filter configapp.SettingListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 100
	}

	settings, total, err := h.configService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, settings, total, filter.Page, filter.PageSize)
}

// Get returns one setting by key.
// GET /admin/configurations/:key
func (h *ConfigurationHandler) Get(c *gin.Context) {
	setting, err := h.configService.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, setting)
}

// Upsert creates or replaces a setting.
// PUT /admin/configurations/:key
func (h *ConfigurationHandler) Upsert(c *gin.Context) {
	var req configapp.UpsertSettingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	setting, err := h.configService.Upsert(c.Request.Context(), c.Param("key"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, setting)
}

// Delete removes a stored setting so its default applies again.
// DELETE /admin/configurations/:key
func (h *ConfigurationHandler) Delete(c *gin.Context) {
	if err := h.configService.Delete(c.Request.Context(), c.Param("key")); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
