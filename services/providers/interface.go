package providers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chrimar3/MVP-Hotel-sub001/models"
)

// ReviewProvider is a single upstream text-generation backend.
// Implementations hide the vendor wire format; adding a vendor means
// adding an implementation, never branching inside the router.
type ReviewProvider interface {
	// Name returns the configured provider name (e.g., "primary", "secondary")
	Name() string

	// Generate produces review text for a request, or fails with a
	// *ProviderError. Each attempt runs under its own deadline derived
	// from ctx; callers may cancel ctx to abandon retries early.
	Generate(ctx context.Context, req *models.GenerationRequest) (*models.Completion, error)
}

// Config holds the static per-provider settings, read-only at call time
type Config struct {
	// Name tags results, errors, and cost accrual
	Name string

	// Endpoint is the full chat-completions URL
	Endpoint string

	// Model identifier sent upstream
	Model string

	// APIKey for Bearer auth; empty omits the header entirely
	// (an intermediary is expected to handle auth in that case)
	APIKey string

	// Timeout is the hard per-attempt deadline
	Timeout time.Duration

	// MaxRetries after the initial attempt (total attempts = MaxRetries+1)
	MaxRetries int

	// BackoffBase is the delay before the first retry; it doubles
	// for each retry after that
	BackoffBase time.Duration

	// Generation parameters
	Temperature float64
	MaxTokens   int
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() Config {
	return Config{
		Timeout:     10 * time.Second,
		MaxRetries:  3,
		BackoffBase: 1 * time.Second,
		Temperature: 0.8,
		MaxTokens:   220,
	}
}

// ErrorKind classifies a provider failure
type ErrorKind string

const (
	KindTimeout ErrorKind = "timeout"
	KindHTTP    ErrorKind = "http"
	KindNetwork ErrorKind = "network"
)

// ProviderError represents a failed provider call. The fallback chain
// absorbs these; they never reach the engine's callers.
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Status   int // HTTP status, set for KindHTTP
	Err      error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	switch e.Kind {
	case KindHTTP:
		return fmt.Sprintf("%s: upstream returned status %d", e.Provider, e.Status)
	case KindTimeout:
		return fmt.Sprintf("%s: attempt deadline exceeded", e.Provider)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Provider, e.Err)
		}
		return fmt.Sprintf("%s: network error", e.Provider)
	}
}

// Unwrap implements error unwrapping
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewTimeoutError creates a timeout provider error
func NewTimeoutError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: KindTimeout, Err: err}
}

// NewHTTPError creates a provider error carrying the upstream status
func NewHTTPError(provider string, status int, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: KindHTTP, Status: status, Err: err}
}

// NewNetworkError creates a network-level provider error
func NewNetworkError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: KindNetwork, Err: err}
}

// AsProviderError extracts a *ProviderError from an error chain
func AsProviderError(err error) (*ProviderError, bool) {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr, true
	}
	return nil, false
}

// IsTimeout checks whether an error is a provider timeout
func IsTimeout(err error) bool {
	if provErr, ok := AsProviderError(err); ok {
		return provErr.Kind == KindTimeout
	}
	return false
}

// IsNetwork checks whether an error is a provider network failure
func IsNetwork(err error) bool {
	if provErr, ok := AsProviderError(err); ok {
		return provErr.Kind == KindNetwork
	}
	return false
}

// HTTPStatus returns the upstream status carried by an HTTP provider error
func HTTPStatus(err error) (int, bool) {
	if provErr, ok := AsProviderError(err); ok && provErr.Kind == KindHTTP {
		return provErr.Status, true
	}
	return 0, false
}
