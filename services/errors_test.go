package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDomainError(t *testing.T) {
	baseErr := errors.New("base error")
	domainErr := NewDomainError(ErrorTypeProviderNetwork, "provider unreachable", baseErr)

	assert.Equal(t, ErrorTypeProviderNetwork, domainErr.Type)
	assert.Equal(t, "provider unreachable", domainErr.Message)
	assert.Equal(t, baseErr, domainErr.Err)
	assert.NotNil(t, domainErr.Details)
}

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *DomainError
		wantMsg string
	}{
		{
			name: "error with wrapped error",
			err: &DomainError{
				Type:    ErrorTypeProviderTimeout,
				Message: "primary timed out",
				Err:     errors.New("context deadline exceeded"),
			},
			wantMsg: "provider_timeout: primary timed out (context deadline exceeded)",
		},
		{
			name: "error without wrapped error",
			err: &DomainError{
				Type:    ErrorTypeValidation,
				Message: "invalid input",
				Err:     nil,
			},
			wantMsg: "validation: invalid input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	baseErr := errors.New("base error")
	domainErr := NewDomainError(ErrorTypeInternal, "internal error", baseErr)

	unwrapped := errors.Unwrap(domainErr)
	assert.Equal(t, baseErr, unwrapped)
}

func TestDomainError_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{
			name:   "same error type",
			err:    NewDomainError(ErrorTypeProviderTimeout, "deadline hit", nil),
			target: ErrProviderTimeout,
			want:   true,
		},
		{
			name:   "different error type",
			err:    NewDomainError(ErrorTypeValidation, "validation", nil),
			target: ErrProviderTimeout,
			want:   false,
		},
		{
			name:   "not a domain error",
			err:    NewDomainError(ErrorTypeProviderTimeout, "deadline hit", nil),
			target: errors.New("regular error"),
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.target))
		})
	}
}

func TestDomainError_WithDetail(t *testing.T) {
	err := NewDomainError(ErrorTypeValidation, "validation error", nil)

	err.WithDetail("field", "rating").WithDetail("value", 7)

	assert.Equal(t, "rating", err.Details["field"])
	assert.Equal(t, 7, err.Details["value"])
}

func TestIsValidationError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"validation error", ErrInvalidRequest, true},
		{"wrapped validation", fmt.Errorf("wrapped: %w", ErrInvalidRating), true},
		{"provider error", ErrProviderTimeout, false},
		{"regular error", errors.New("regular"), false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidationError(tt.err))
		})
	}
}

func TestIsProviderError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"timeout", ErrProviderTimeout, true},
		{"http status", ErrProviderHTTP, true},
		{"network", ErrProviderNetwork, true},
		{"wrapped network", fmt.Errorf("wrapped: %w", ErrProviderNetwork), true},
		{"composer error", ErrComposerFailure, false},
		{"regular error", errors.New("regular"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsProviderError(tt.err))
		})
	}
}

func TestIsComposerError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"composer error", ErrComposerFailure, true},
		{"provider error", ErrProviderHTTP, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsComposerError(tt.err))
		})
	}
}

func TestIsStoreError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"store unavailable", ErrStoreUnavailable, true},
		{"corrupt snapshot", ErrSnapshotCorrupt, true},
		{"internal error", ErrInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStoreError(tt.err))
		})
	}
}

func TestIsInternalError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"internal error", ErrInternal, true},
		{"store error", ErrStoreUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsInternalError(tt.err))
		})
	}
}

func TestGetErrorType(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"validation", ErrInvalidRequest, ErrorTypeValidation},
		{"timeout", ErrProviderTimeout, ErrorTypeProviderTimeout},
		{"http", ErrProviderHTTP, ErrorTypeProviderHTTP},
		{"network", ErrProviderNetwork, ErrorTypeProviderNetwork},
		{"composer", ErrComposerFailure, ErrorTypeComposer},
		{"regular error", errors.New("regular"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetErrorType(tt.err))
		})
	}
}

func TestGetErrorDetails(t *testing.T) {
	err := NewDomainError(ErrorTypeValidation, "validation error", nil)
	err.WithDetail("field", "rating").WithDetail("reason", "out of range")

	details := GetErrorDetails(err)
	require.NotNil(t, details)
	assert.Equal(t, "rating", details["field"])
	assert.Equal(t, "out of range", details["reason"])

	regularErr := errors.New("regular error")
	assert.Nil(t, GetErrorDetails(regularErr))
}

func TestWrapError(t *testing.T) {
	baseErr := errors.New("base error")
	wrapped := WrapError(ErrorTypeInternal, "wrapped message", baseErr)

	var domainErr *DomainError
	require.True(t, errors.As(wrapped, &domainErr))
	assert.Equal(t, ErrorTypeInternal, domainErr.Type)
	assert.Equal(t, "wrapped message", domainErr.Message)
	assert.Equal(t, baseErr, errors.Unwrap(wrapped))
}

func TestWrapInternal(t *testing.T) {
	baseErr := errors.New("checkpoint write failed")
	wrapped := WrapInternal("failed to checkpoint", baseErr)

	assert.True(t, IsInternalError(wrapped))
	assert.Equal(t, baseErr, errors.Unwrap(wrapped))
}

func TestWrapStore(t *testing.T) {
	baseErr := errors.New("connection refused")
	wrapped := WrapStore("snapshot save failed", baseErr)

	assert.True(t, IsStoreError(wrapped))
	assert.Equal(t, baseErr, errors.Unwrap(wrapped))
}

func TestAllErrorVariablesAreDefined(t *testing.T) {
	errorVars := []error{
		ErrInvalidRequest,
		ErrInvalidRating,
		ErrProviderTimeout,
		ErrProviderHTTP,
		ErrProviderNetwork,
		ErrComposerFailure,
		ErrStoreUnavailable,
		ErrSnapshotCorrupt,
		ErrInternal,
	}

	for _, err := range errorVars {
		assert.NotNil(t, err, "error variable should not be nil")
		assert.NotEmpty(t, err.Error(), "error should have a message")
	}
}
