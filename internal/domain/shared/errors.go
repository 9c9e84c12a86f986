package shared

import "errors"

// Error codes surfaced to callers. Handlers translate these into the
// response envelope, so they are part of the public contract.
const (
	CodeSecurityError    = "SECURITY_ERROR"
	CodeAccessDenied     = "ACCESS_DENIED"
	CodeNotFound         = "NOT_FOUND"
	CodeNotAdminProduct  = "NOT_ADMIN_PRODUCT"
	CodeNotAvailable     = "NOT_AVAILABLE"
	CodeCreationFailed   = "CREATION_FAILED"
	CodePersistenceError = "PERSISTENCE_ERROR"
	CodeNoResults        = "NO_RESULTS"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeInvalidState     = "INVALID_STATE"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapDomainError creates a domain error carrying an underlying cause
func WrapDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors
var (
	ErrSecurity        = NewDomainError(CodeSecurityError, "Security check failed")
	ErrAccessDenied    = NewDomainError(CodeAccessDenied, "You do not have permission to perform this action")
	ErrNotFound        = NewDomainError(CodeNotFound, "Resource not found")
	ErrNotAdminProduct = NewDomainError(CodeNotAdminProduct, "Only administrator products can be duplicated")
	ErrNotAvailable    = NewDomainError(CodeNotAvailable, "This product is not available for duplication")
	ErrCreationFailed  = NewDomainError(CodeCreationFailed, "Failed to create the duplicated product")
	ErrPersistence     = NewDomainError(CodePersistenceError, "Persistence operation failed")
	ErrNoResults       = NewDomainError(CodeNoResults, "No products found")
	ErrInvalidInput    = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrUnauthorized    = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrInvalidState    = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
)

// CodeOf returns the domain error code carried by err, or "" when err is not
// a DomainError.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
