package dto

import (
	"encoding/json"
	"net/http"
	"strings"
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
		{ErrCodeServiceUnavailable, http.StatusServiceUnavailable},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeAccessDenied, http.StatusForbidden},
		{ErrCodeAuthenticationFailed, http.StatusUnauthorized},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeTokenRevoked, http.StatusUnauthorized},
		{ErrCodeTokenMaxRefresh, http.StatusUnauthorized},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeOwnerImmutable, http.StatusUnprocessableEntity},
		{ErrCodeInvalidProduct, http.StatusBadRequest},
		{ErrCodeInvalidStatus, http.StatusBadRequest},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeUploadFailed, http.StatusBadGateway},
		{ErrCodeEmailFailed, http.StatusBadGateway},
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
		{"ACCESS_DENIED", ErrCodeAccessDenied},
		{"TOKEN_MAX_REFRESH", ErrCodeTokenMaxRefresh},
		{"OWNER_IMMUTABLE", ErrCodeOwnerImmutable},
		{"INVALID_PRICE", ErrCodeInvalidProduct},
		{"TOO_MANY_IMAGES", ErrCodeInvalidProduct},
		{"INVALID_PHONE", ErrCodeInvalidProfile},
		{"RESET_LINK_FAILED", ErrCodeEmailFailed},
		{"INVALID_STATUS", ErrCodeInvalidStatus},
		{"FEED_CLOSED", ErrCodeServiceUnavailable},
		{"MAIL_DISABLED", ErrCodeServiceUnavailable},
		// API codes pass through unchanged
		{ErrCodeNotFound, ErrCodeNotFound},
		// Unknown codes pass through unchanged
		{"CUSTOM_ERROR", "CUSTOM_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestDomainErrorCodeMapping_TargetsHaveStatus(t *testing.T) {
	for domainCode, apiCode := range DomainErrorCodeMapping {
		t.Run(domainCode, func(t *testing.T) {
			assert.True(t, strings.HasPrefix(apiCode, "ERR_"))
			_, ok := ErrorCodeHTTPStatus[apiCode]
			assert.True(t, ok, "%s maps to %s which has no HTTP status", domainCode, apiCode)
		})
	}
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse("NOT_FOUND", "Resource not found")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Resource not found", resp.Error.Message)
	assert.Empty(t, resp.Error.RequestID)
	assert.NotZero(t, resp.Error.Timestamp)
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID("ACCESS_DENIED", "not allowed", "req-123")

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeAccessDenied, resp.Error.Code)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "email", Message: "Invalid email format"},
		{Field: "price", Message: "Must be greater than 0"},
	}

	resp := NewValidationErrorResponse("Validation failed", "req-789", details)

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-789", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "email", resp.Error.Details[0].Field)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a"}, 41, 2, 20)

	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(41), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)

	t.Run("zero page size does not divide", func(t *testing.T) {
		resp := NewSuccessResponseWithMeta(nil, 5, 1, 0)
		assert.Zero(t, resp.Meta.TotalPages)
	})
}

func TestResponseJSON(t *testing.T) {
	t.Run("error omits data and meta", func(t *testing.T) {
		data, err := json.Marshal(NewErrorResponseWithRequestID(ErrCodeNotFound, "User not found", "req-1"))
		require.NoError(t, err)

		var raw map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &raw))
		assert.Equal(t, false, raw["success"])
		assert.NotContains(t, raw, "data")
		assert.NotContains(t, raw, "meta")

		errObj := raw["error"].(map[string]interface{})
		assert.Equal(t, ErrCodeNotFound, errObj["code"])
		assert.Equal(t, "req-1", errObj["request_id"])
		assert.NotContains(t, errObj, "details")
	})

	t.Run("unpaginated list meta carries only total", func(t *testing.T) {
		data, err := json.Marshal(NewListResponse([]int{1, 2}, 2))
		require.NoError(t, err)

		var raw map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &raw))
		meta := raw["meta"].(map[string]interface{})
		assert.Equal(t, float64(2), meta["total"])
		assert.NotContains(t, meta, "page")
		assert.NotContains(t, meta, "status_counts")
	})
}
