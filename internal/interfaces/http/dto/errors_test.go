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
		{"SECURITY_ERROR", http.StatusForbidden},
		{"ACCESS_DENIED", http.StatusForbidden},
		{"NOT_FOUND", http.StatusNotFound},
		{"NOT_ADMIN_PRODUCT", http.StatusConflict},
		{"NOT_AVAILABLE", http.StatusConflict},
		{"CREATION_FAILED", http.StatusInternalServerError},
		{"PERSISTENCE_ERROR", http.StatusInternalServerError},
		{"NO_RESULTS", http.StatusNotFound},
		{"VALIDATION_ERROR", http.StatusBadRequest},
		{"INVALID_INPUT", http.StatusBadRequest},
		{"UNAUTHORIZED", http.StatusUnauthorized},
		{"INVALID_CREDENTIALS", http.StatusUnauthorized},
		{"RATE_LIMITED", http.StatusTooManyRequests},
		{"UNKNOWN_ACTION", http.StatusBadRequest},
		// Unknown code should return 500
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestErrorResponseJSON(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotAvailable, "Product is not available", "req-1")

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"success": false,
		"error": {"code": "NOT_AVAILABLE", "message": "Product is not available", "request_id": "req-1"}
	}`, string(raw))
}

func TestSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta(map[string]string{"k": "v"}, 2, 20, 5)

	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 20, resp.Meta.PageSize)
	assert.Equal(t, 5, resp.Meta.TotalPages)
}

func TestValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-2", []ValidationDetail{
		{Field: "username", Message: "This field is required"},
	})

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-2", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 1)
}
