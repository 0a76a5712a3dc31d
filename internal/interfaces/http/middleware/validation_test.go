package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/quotebook/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type estimateInput struct {
	ServiceType string `json:"service_type" binding:"required,service_type"`
	Email       string `json:"email" binding:"required,email"`
	Bedrooms    int    `json:"bedrooms" binding:"gte=0,lte=20"`
	// DistanceKm checks the registered decimal type func
	DistanceKm decimal.Decimal `json:"distance_km" binding:"gte=0,lte=10000"`
}

func newValidationRouter() *gin.Engine {
	SetupValidator()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req estimateInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse("Request validation failed", "", ValidationDetails(err)))
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func postJSON(router http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestValidationDetails(t *testing.T) {
	router := newValidationRouter()

	t.Run("reports every invalid field by json name", func(t *testing.T) {
		w := postJSON(router, `{"service_type": "gardening", "email": "invalid", "bedrooms": 30, "distance_km": "10000.5"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "Request validation failed", resp.Error.Message)

		fields := map[string]string{}
		for _, d := range resp.Error.Details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, "Must be one of: moving cleaning", fields["service_type"])
		assert.Equal(t, "Invalid email format", fields["email"])
		assert.Equal(t, "Must be less than or equal to 20", fields["bedrooms"])
		assert.Equal(t, "Must be less than or equal to 10000", fields["distance_km"])
	})

	t.Run("decimal bounds", func(t *testing.T) {
		w := postJSON(router, `{"service_type": "moving", "email": "a@example.com", "distance_km": "-1"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = postJSON(router, `{"service_type": "moving", "email": "a@example.com", "distance_km": "9999.99"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("accepts known service types", func(t *testing.T) {
		for _, st := range []string{"moving", "cleaning"} {
			w := postJSON(router, `{"service_type": "`+st+`", "email": "a@example.com"}`)
			assert.Equal(t, http.StatusOK, w.Code, st)
		}
	})
}

func TestValidationDetails_NonValidationError(t *testing.T) {
	assert.Nil(t, ValidationDetails(assert.AnError))
}

func TestGetValidationMessage(t *testing.T) {
	type input struct {
		Required string `validate:"required"`
		Min      string `validate:"min=5"`
		Max      string `validate:"max=3"`
		UUID     string `validate:"uuid"`
		OneOf    string `validate:"oneof=a b"`
		GT       int    `validate:"gt=0"`
	}

	v := validator.New()
	err := v.Struct(input{Min: "ab", Max: "abcd", UUID: "nope", OneOf: "c"})
	require.Error(t, err)

	messages := map[string]string{}
	for _, e := range err.(validator.ValidationErrors) {
		messages[e.Field()] = getValidationMessage(e)
	}

	assert.Equal(t, "This field is required", messages["Required"])
	assert.Equal(t, "Must be at least 5 characters", messages["Min"])
	assert.Equal(t, "Must be at most 3 characters", messages["Max"])
	assert.Equal(t, "Invalid UUID format", messages["UUID"])
	assert.Equal(t, "Must be one of: a b", messages["OneOf"])
	assert.Equal(t, "Must be greater than 0", messages["GT"])
}
