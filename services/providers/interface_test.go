package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/chrimar3/MVP-Hotel-sub001/models"
)

// MockProvider is a test implementation of the ReviewProvider interface
type MockProvider struct {
	name          string
	completion    *models.Completion
	err           error
	responseDelay time.Duration
	calls         int
}

func NewMockProvider(name string) *MockProvider {
	return &MockProvider{
		name:       name,
		completion: &models.Completion{Text: "A mock review of the stay.", Units: 30},
	}
}

func (m *MockProvider) SetError(err error) {
	m.err = err
}

func (m *MockProvider) SetResponseDelay(delay time.Duration) {
	m.responseDelay = delay
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Generate(ctx context.Context, req *models.GenerationRequest) (*models.Completion, error) {
	m.calls++

	if m.responseDelay > 0 {
		select {
		case <-time.After(m.responseDelay):
		case <-ctx.Done():
			return nil, NewTimeoutError(m.name, ctx.Err())
		}
	}

	if m.err != nil {
		return nil, m.err
	}
	return m.completion, nil
}

func TestMockProvider(t *testing.T) {
	provider := NewMockProvider("test-provider")

	t.Run("Name", func(t *testing.T) {
		if provider.Name() != "test-provider" {
			t.Errorf("Name() = %s, want test-provider", provider.Name())
		}
	})

	t.Run("Generate", func(t *testing.T) {
		req := &models.GenerationRequest{HotelName: "Hotel", Rating: 4, TripType: "leisure"}

		completion, err := provider.Generate(context.Background(), req)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}

		if completion.Text == "" {
			t.Error("Completion text is empty")
		}

		if completion.Units == 0 {
			t.Error("Completion units not set")
		}
	})

	t.Run("GenerateError", func(t *testing.T) {
		failing := NewMockProvider("failing")
		failing.SetError(NewNetworkError("failing", errors.New("connection refused")))

		_, err := failing.Generate(context.Background(), &models.GenerationRequest{})
		if err == nil {
			t.Fatal("Expected error but got none")
		}
		if !IsNetwork(err) {
			t.Errorf("Expected network kind, got %v", err)
		}
	})
}

func TestContextCancellation(t *testing.T) {
	provider := NewMockProvider("test")
	provider.SetResponseDelay(time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := provider.Generate(ctx, &models.GenerationRequest{HotelName: "Hotel", Rating: 3})
	if err == nil {
		t.Fatal("Expected context cancellation error")
	}

	if !IsTimeout(err) {
		t.Errorf("Expected timeout kind, got %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.Timeout)
	}

	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}

	if cfg.BackoffBase != time.Second {
		t.Errorf("BackoffBase = %v, want 1s", cfg.BackoffBase)
	}

	if cfg.Temperature != 0.8 {
		t.Errorf("Temperature = %f, want 0.8", cfg.Temperature)
	}

	if cfg.MaxTokens != 220 {
		t.Errorf("MaxTokens = %d, want 220", cfg.MaxTokens)
	}
}

func TestProviderError(t *testing.T) {
	t.Run("ErrorMethod", func(t *testing.T) {
		tests := []struct {
			name     string
			err      *ProviderError
			contains string
		}{
			{
				name:     "http error includes status",
				err:      NewHTTPError("primary", 503, errors.New("service unavailable")),
				contains: "status 503",
			},
			{
				name:     "timeout names the deadline",
				err:      NewTimeoutError("primary", errors.New("context deadline exceeded")),
				contains: "deadline exceeded",
			},
			{
				name:     "network error carries the cause",
				err:      NewNetworkError("secondary", errors.New("connection refused")),
				contains: "connection refused",
			},
			{
				name:     "network error without cause",
				err:      &ProviderError{Provider: "secondary", Kind: KindNetwork},
				contains: "network error",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				msg := tt.err.Error()
				if !strings.Contains(msg, tt.contains) {
					t.Errorf("Error() = %q, want substring %q", msg, tt.contains)
				}
				if !strings.Contains(msg, tt.err.Provider) {
					t.Errorf("Error() = %q, should name provider %q", msg, tt.err.Provider)
				}
			})
		}
	})

	t.Run("Unwrap", func(t *testing.T) {
		cause := errors.New("root cause")
		provErr := NewNetworkError("primary", cause)

		if !errors.Is(provErr, cause) {
			t.Error("errors.Is should reach the wrapped cause")
		}

		if provErr.Unwrap() != cause {
			t.Error("Unwrap() did not return the cause")
		}
	})

	t.Run("AsProviderError", func(t *testing.T) {
		provErr := NewHTTPError("primary", 429, nil)

		got, ok := AsProviderError(provErr)
		if !ok || got != provErr {
			t.Error("AsProviderError failed on a direct *ProviderError")
		}

		wrapped := fmt.Errorf("call failed: %w", provErr)
		got, ok = AsProviderError(wrapped)
		if !ok || got != provErr {
			t.Error("AsProviderError failed on a wrapped *ProviderError")
		}

		if _, ok := AsProviderError(errors.New("plain")); ok {
			t.Error("AsProviderError matched a non-provider error")
		}
	})

	t.Run("KindHelpers", func(t *testing.T) {
		timeoutErr := NewTimeoutError("primary", nil)
		httpErr := NewHTTPError("primary", 500, nil)
		netErr := NewNetworkError("primary", nil)

		if !IsTimeout(timeoutErr) {
			t.Error("IsTimeout(timeout) = false")
		}
		if IsTimeout(httpErr) || IsTimeout(netErr) {
			t.Error("IsTimeout matched a non-timeout kind")
		}

		if !IsNetwork(netErr) {
			t.Error("IsNetwork(network) = false")
		}
		if IsNetwork(timeoutErr) {
			t.Error("IsNetwork matched a timeout")
		}

		status, ok := HTTPStatus(httpErr)
		if !ok || status != 500 {
			t.Errorf("HTTPStatus = %d, %v; want 500, true", status, ok)
		}
		if _, ok := HTTPStatus(timeoutErr); ok {
			t.Error("HTTPStatus matched a timeout error")
		}
		if _, ok := HTTPStatus(errors.New("plain")); ok {
			t.Error("HTTPStatus matched a plain error")
		}
	})
}
