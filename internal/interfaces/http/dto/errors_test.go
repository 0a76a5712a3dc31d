package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{ErrCodeTokenReused, http.StatusUnauthorized},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeQuoteExpired, http.StatusGone},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeUnsupportedMedia, http.StatusUnsupportedMediaType},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"OWNER_NOT_FOUND", ErrCodeNotFound},
		{"INVALID_STATE", ErrCodeInvalidState},
		{"QUOTE_EXPIRED", ErrCodeQuoteExpired},
		{"TOKEN_REUSED", ErrCodeTokenReused},
		{"UNSUPPORTED_CONTENT_TYPE", ErrCodeUnsupportedMedia},
		// API codes pass through unchanged
		{ErrCodeNotFound, ErrCodeNotFound},
		// Unmapped domain codes get the API prefix
		{"DESTINATION_REQUIRED", "ERR_DESTINATION_REQUIRED"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestDomainErrorStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, DomainErrorStatus(NormalizeErrorCode("NOT_FOUND")))
	assert.Equal(t, http.StatusUnprocessableEntity, DomainErrorStatus(NormalizeErrorCode("INVALID_SCHEDULE")))
}

func TestDomainMappingTargetsHaveStatus(t *testing.T) {
	for domainCode, apiCode := range DomainErrorCodeMapping {
		_, ok := ErrorCodeHTTPStatus[apiCode]
		assert.True(t, ok, "%s maps to %s which has no HTTP status", domainCode, apiCode)
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a"}, 41, 2, 20)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 3, resp.Meta.TotalPages)

	empty := NewSuccessResponseWithMeta([]string{}, 0, 1, 0)
	assert.Equal(t, 0, empty.Meta.TotalPages)
}

func TestValidationErrorResponse_JSON(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "email", Message: "Invalid email format"},
	})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": false,
		"error": {
			"code": "ERR_VALIDATION",
			"message": "Request validation failed",
			"request_id": "req-1",
			"details": [{"field": "email", "message": "Invalid email format"}]
		}
	}`, string(raw))
}
