package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeValidation      ErrorType = "validation"
	ErrorTypeProviderTimeout ErrorType = "provider_timeout"
	ErrorTypeProviderHTTP    ErrorType = "provider_http"
	ErrorTypeProviderNetwork ErrorType = "provider_network"
	ErrorTypeComposer        ErrorType = "composer"
	ErrorTypeStore           ErrorType = "store"
	ErrorTypeInternal        ErrorType = "internal"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// Domain error variables

var (
	// Validation Errors
	ErrInvalidRequest = NewDomainError(ErrorTypeValidation, "invalid generation request", nil)
	ErrInvalidRating  = NewDomainError(ErrorTypeValidation, "rating must be between 1 and 5", nil)

	// Provider Errors (absorbed by the fallback chain, never returned to callers)
	ErrProviderTimeout = NewDomainError(ErrorTypeProviderTimeout, "provider call exceeded its deadline", nil)
	ErrProviderHTTP    = NewDomainError(ErrorTypeProviderHTTP, "provider returned a non-success status", nil)
	ErrProviderNetwork = NewDomainError(ErrorTypeProviderNetwork, "provider unreachable", nil)

	// Composer Errors (defensive only, the shipped composer cannot fail)
	ErrComposerFailure = NewDomainError(ErrorTypeComposer, "template composer failed", nil)

	// Store Errors (best-effort persistence, never fail the request path)
	ErrStoreUnavailable = NewDomainError(ErrorTypeStore, "metrics store unavailable", nil)
	ErrSnapshotCorrupt  = NewDomainError(ErrorTypeStore, "persisted snapshot could not be decoded", nil)

	// Internal Errors
	ErrInternal = NewDomainError(ErrorTypeInternal, "internal error", nil)
)

// Error type checking helper functions

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeValidation
	}
	return false
}

// IsProviderError checks if an error is any of the provider error types
func IsProviderError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Type {
		case ErrorTypeProviderTimeout, ErrorTypeProviderHTTP, ErrorTypeProviderNetwork:
			return true
		}
	}
	return false
}

// IsComposerError checks if an error is a composer error
func IsComposerError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeComposer
	}
	return false
}

// IsStoreError checks if an error is a store error
func IsStoreError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeStore
	}
	return false
}

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeInternal
	}
	return false
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// WrapError wraps an error with additional context
func WrapError(errType ErrorType, message string, err error) error {
	return NewDomainError(errType, message, err)
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return NewDomainError(ErrorTypeInternal, message, err)
}

// WrapStore wraps an error as a store error
func WrapStore(message string, err error) error {
	return NewDomainError(ErrorTypeStore, message, err)
}
