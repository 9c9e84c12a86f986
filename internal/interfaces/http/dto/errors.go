package dto

import (
	"net/http"

	"github.com/coursebridge/backend/internal/domain/shared"
)

// Dashboard action errors. These mirror the domain codes so clients can
// switch on a single set of values.
const (
	ErrCodeSecurity        = shared.CodeSecurityError
	ErrCodeAccessDenied    = shared.CodeAccessDenied
	ErrCodeNotFound        = shared.CodeNotFound
	ErrCodeNotAdminProduct = shared.CodeNotAdminProduct
	ErrCodeNotAvailable    = shared.CodeNotAvailable
	ErrCodeCreationFailed  = shared.CodeCreationFailed
	ErrCodePersistence     = shared.CodePersistenceError
	ErrCodeNoResults       = shared.CodeNoResults
	ErrCodeInvalidState    = shared.CodeInvalidState
)

// Input error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeInvalidInput  = shared.CodeInvalidInput
	ErrCodeUnknownAction = "UNKNOWN_ACTION"
	ErrCodeTooLarge      = "REQUEST_TOO_LARGE"
)

// Authentication error codes
const (
	ErrCodeUnauthorized       = shared.CodeUnauthorized
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeAccountDisabled    = "ACCOUNT_DISABLED"
	ErrCodeTokenExpired       = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "INVALID_TOKEN"
	ErrCodeTokenRevoked       = "TOKEN_REVOKED"
)

// General error codes
const (
	ErrCodeRateLimited = "RATE_LIMITED"
	ErrCodeInternal    = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// Gate failures
	ErrCodeSecurity:        http.StatusForbidden,
	ErrCodeAccessDenied:    http.StatusForbidden,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeNotAdminProduct: http.StatusConflict,
	ErrCodeNotAvailable:    http.StatusConflict,
	ErrCodeNoResults:       http.StatusNotFound,
	ErrCodeInvalidState:    http.StatusConflict,

	// Server side failures
	ErrCodeCreationFailed: http.StatusInternalServerError,
	ErrCodePersistence:    http.StatusInternalServerError,
	ErrCodeInternal:       http.StatusInternalServerError,

	// Input errors -> 400 Bad Request
	ErrCodeValidation:    http.StatusBadRequest,
	ErrCodeInvalidInput:  http.StatusBadRequest,
	ErrCodeUnknownAction: http.StatusBadRequest,
	ErrCodeTooLarge:      http.StatusRequestEntityTooLarge,

	// Auth errors -> 401
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeAccountDisabled:    http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeTokenRevoked:       http.StatusUnauthorized,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
