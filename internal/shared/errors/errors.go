package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error types for different domains
type ErrorType string

const (
	ErrorTypeDomain         ErrorType = "DOMAIN_ERROR"
	ErrorTypeInfrastructure ErrorType = "INFRASTRUCTURE_ERROR"
	ErrorTypeInternal       ErrorType = "INTERNAL_ERROR"
)

// Document store errors
var (
	ErrInvalidDocumentID = errors.New("invalid document ID")
	ErrUnknownCollection = errors.New("unknown collection")
	ErrInvalidBody       = errors.New("request body is not a JSON object")
	ErrStoreFailure      = errors.New("document store call failed")
)

// AppError represents a custom application error with context
type AppError struct {
	Type      ErrorType              `json:"type"`
	Message   string                 `json:"message"`
	Code      string                 `json:"code,omitempty"`
	HTTPCode  int                    `json:"-"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Cause     error                  `json:"-"`
	Component string                 `json:"component,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(errorType ErrorType, message string, httpCode int) *AppError {
	return &AppError{
		Type:     errorType,
		Message:  message,
		HTTPCode: httpCode,
		Details:  make(map[string]interface{}),
	}
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithCause adds the underlying cause
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithComponent adds the component name
func (e *AppError) WithComponent(component string) *AppError {
	e.Component = component
	return e
}

// WithDetail adds a detail field
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a domain-specific error
func NewDomainError(message string) *AppError {
	return NewAppError(ErrorTypeDomain, message, http.StatusBadRequest)
}

// NewInfrastructureError creates an infrastructure error
func NewInfrastructureError(message string) *AppError {
	return NewAppError(ErrorTypeInfrastructure, message, http.StatusInternalServerError)
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	return NewAppError(ErrorTypeInternal, message, http.StatusInternalServerError)
}

// NewInvalidIDError reports an identifier that could not be turned into a store key.
// It is an infrastructure error and maps to HTTP 500.
func NewInvalidIDError(id string, cause error) *AppError {
	return NewInfrastructureError("cannot construct document identifier").
		WithCode("INVALID_ID").
		WithDetail("id", id).
		WithCause(fmt.Errorf("%w: %v", ErrInvalidDocumentID, cause))
}

// NewInvalidBodyError reports a request body that could not be decoded. Maps to HTTP 400.
func NewInvalidBodyError(cause error) *AppError {
	return NewDomainError("cannot decode request body").
		WithCode("INVALID_BODY").
		WithCause(fmt.Errorf("%w: %v", ErrInvalidBody, cause))
}

// NewUnknownCollectionError reports a collection name the service does not serve.
func NewUnknownCollectionError(name string) *AppError {
	return NewDomainError(fmt.Sprintf("unknown collection %q", name)).
		WithCode("UNKNOWN_COLLECTION").
		WithDetail("collection", name).
		WithCause(ErrUnknownCollection)
}

// NewStoreError reports a failed document store call. Maps to HTTP 500.
func NewStoreError(operation string, cause error) *AppError {
	return NewInfrastructureError(operation).
		WithCode("STORE_FAILURE").
		WithCause(fmt.Errorf("%w: %w", ErrStoreFailure, cause))
}

// WrapError wraps an error with context
func WrapError(err error, message string) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(message).WithCause(err)
}

// HTTPStatus returns the status code carried by err, or 500.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.HTTPCode != 0 {
		return appErr.HTTPCode
	}
	return http.StatusInternalServerError
}

// IsInvalidID checks if an error came from identifier construction
func IsInvalidID(err error) bool {
	return errors.Is(err, ErrInvalidDocumentID)
}
