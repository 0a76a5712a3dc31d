package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	configapp "github.com/quotebook/backend/internal/application/configuration"
	"github.com/quotebook/backend/internal/domain/configuration"
	"github.com/quotebook/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

func newConfigurationRouter() (*gin.Engine, *MockSettingRepository) {
	repo := new(MockSettingRepository)
	h := NewConfigurationHandler(configapp.NewConfigurationService(repo, zap.NewNop()))

	r := gin.New()
	r.GET("/admin/configurations/:key", h.Get)
	r.PUT("/admin/configurations/:key", h.Upsert)
	r.DELETE("/admin/configurations/:key", h.Delete)
	return r, repo
}

func TestConfigurationHandler_Get(t *testing.T) {
	t.Run("falls back to the built-in default", func(t *testing.T) {
		r, repo := newConfigurationRouter()
		repo.On("FindByKey", mock.Anything, configuration.KeyBookingDepositPercent).Return(nil, shared.ErrNotFound)

		w := newJSONRequest(r, http.MethodGet, "/admin/configurations/"+configuration.KeyBookingDepositPercent, "")

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		body := w.Body.String()
		assert.Equal(t, "20", gjson.Get(body, "data.value").String())
		assert.True(t, gjson.Get(body, "data.is_default").Bool())
	})

	t.Run("unknown key", func(t *testing.T) {
		r, repo := newConfigurationRouter()
		repo.On("FindByKey", mock.Anything, "feature.unknown").Return(nil, shared.ErrNotFound)

		w := newJSONRequest(r, http.MethodGet, "/admin/configurations/feature.unknown", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "ERR_NOT_FOUND", gjson.Get(w.Body.String(), "error.code").String())
	})
}

func TestConfigurationHandler_Upsert(t *testing.T) {
	t.Run("stores a new value", func(t *testing.T) {
		r, repo := newConfigurationRouter()
		repo.On("FindByKey", mock.Anything, configuration.KeyQuoteValidityDays).Return(nil, shared.ErrNotFound)
		repo.On("Save", mock.Anything, mock.MatchedBy(func(s *configuration.Setting) bool {
			return s.Key == configuration.KeyQuoteValidityDays && s.Value == "30"
		})).Return(nil)

		w := newJSONRequest(r, http.MethodPut, "/admin/configurations/"+configuration.KeyQuoteValidityDays,
			`{"value":"30"}`)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		body := w.Body.String()
		assert.Equal(t, "number", gjson.Get(body, "data.value_type").String())
		assert.False(t, gjson.Get(body, "data.is_default").Bool())
		repo.AssertExpectations(t)
	})

	t.Run("rejects a non-numeric value for a numeric setting", func(t *testing.T) {
		r, repo := newConfigurationRouter()
		repo.On("FindByKey", mock.Anything, configuration.KeyBookingDepositPercent).Return(nil, shared.ErrNotFound)

		w := newJSONRequest(r, http.MethodPut, "/admin/configurations/"+configuration.KeyBookingDepositPercent,
			`{"value":"twenty"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "ERR_INVALID_SETTING_VALUE", gjson.Get(w.Body.String(), "error.code").String())
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects a type change on a built-in key", func(t *testing.T) {
		r, repo := newConfigurationRouter()

		w := newJSONRequest(r, http.MethodPut, "/admin/configurations/"+configuration.KeyCurrency,
			`{"value":"true","value_type":"bool"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "ERR_INVALID_VALUE_TYPE", gjson.Get(w.Body.String(), "error.code").String())
		repo.AssertNotCalled(t, "FindByKey", mock.Anything, mock.Anything)
	})

	t.Run("rejects an unknown value type", func(t *testing.T) {
		r, _ := newConfigurationRouter()

		w := newJSONRequest(r, http.MethodPut, "/admin/configurations/site.banner",
			`{"value":"x","value_type":"date"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "value_type", gjson.Get(w.Body.String(), "error.details.0.field").String())
	})
}

func TestConfigurationHandler_Delete(t *testing.T) {
	r, repo := newConfigurationRouter()
	repo.On("DeleteByKey", mock.Anything, configuration.KeyCurrency).Return(nil)

	w := newJSONRequest(r, http.MethodDelete, "/admin/configurations/"+configuration.KeyCurrency, "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	repo.AssertExpectations(t)
}
