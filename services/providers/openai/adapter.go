package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chrimar3/MVP-Hotel-sub001/models"
	"github.com/chrimar3/MVP-Hotel-sub001/services/providers"
)

var errEmptyCompletion = errors.New("response contained no completion text")

// Adapter is a ReviewProvider speaking the OpenAI chat-completions wire
// format. Primary and secondary are two Adapter instances with different
// configs; the engine never branches on the vendor.
type Adapter struct {
	cfg        providers.Config
	httpClient *http.Client
}

// NewAdapter creates an adapter, filling unset config fields with defaults
func NewAdapter(cfg providers.Config) *Adapter {
	defaults := providers.DefaultConfig()
	if cfg.Timeout == 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.BackoffBase == 0 {
		cfg.BackoffBase = defaults.BackoffBase
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaults.Temperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = defaults.MaxTokens
	}

	return &Adapter{
		cfg:        cfg,
		httpClient: &http.Client{},
	}
}

// Name returns the configured provider name
func (a *Adapter) Name() string {
	return a.cfg.Name
}

// Generate calls the upstream backend, retrying any failure (timeout,
// network, or non-success status) up to MaxRetries times with
// exponential backoff, for at most MaxRetries+1 attempts. Each attempt
// runs under its own hard deadline and aborts the in-flight call when
// it expires. Backoff waits are cancellable through ctx.
func (a *Adapter) Generate(ctx context.Context, req *models.GenerationRequest) (*models.Completion, error) {
	payload := a.buildChatRequest(req)
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, providers.NewNetworkError(a.Name(), fmt.Errorf("marshal request: %w", err))
	}

	var lastErr error
	for attempt := 0; attempt <= a.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := a.waitBackoff(ctx, attempt); err != nil {
				break
			}
		}

		completion, err := a.doAttempt(ctx, body)
		if err == nil {
			return completion, nil
		}
		lastErr = err

		// A dead parent context makes further attempts pointless.
		if ctx.Err() != nil {
			break
		}
	}

	return nil, lastErr
}

// waitBackoff blocks for base×2^(attempt-1) before retry number attempt
func (a *Adapter) waitBackoff(ctx context.Context, attempt int) error {
	delay := a.cfg.BackoffBase * time.Duration(1<<(attempt-1))
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// doAttempt issues one upstream call under the per-attempt deadline
func (a *Adapter) doAttempt(ctx context.Context, body []byte) (*models.Completion, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, a.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, providers.NewNetworkError(a.Name(), err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if a.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)
	}

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, providers.NewTimeoutError(a.Name(), err)
		}
		return nil, providers.NewNetworkError(a.Name(), err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, providers.NewTimeoutError(a.Name(), err)
		}
		return nil, providers.NewNetworkError(a.Name(), fmt.Errorf("read response: %w", err))
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, a.errorFromStatus(httpResp.StatusCode, respBody)
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, providers.NewNetworkError(a.Name(), fmt.Errorf("decode response: %w", err))
	}

	if len(chatResp.Choices) == 0 || strings.TrimSpace(chatResp.Choices[0].Message.Content) == "" {
		return nil, providers.NewNetworkError(a.Name(), errEmptyCompletion)
	}

	return &models.Completion{
		Text:  strings.TrimSpace(chatResp.Choices[0].Message.Content),
		Units: chatResp.Usage.TotalTokens,
	}, nil
}

// buildChatRequest converts a generation request to the wire format
func (a *Adapter) buildChatRequest(req *models.GenerationRequest) *ChatRequest {
	messages := providers.BuildMessages(req)

	wire := &ChatRequest{
		Model:    a.cfg.Model,
		Messages: make([]ChatMessage, len(messages)),
	}
	for i, msg := range messages {
		wire.Messages[i] = ChatMessage{Role: msg.Role, Content: msg.Content}
	}

	if a.cfg.Temperature > 0 {
		wire.Temperature = &a.cfg.Temperature
	}
	if a.cfg.MaxTokens > 0 {
		wire.MaxTokens = &a.cfg.MaxTokens
	}

	return wire
}

// errorFromStatus builds the HTTP provider error, preferring the
// structured upstream message when the body parses
func (a *Adapter) errorFromStatus(status int, body []byte) error {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return providers.NewHTTPError(a.Name(), status, errors.New(errResp.Error.Message))
	}
	return providers.NewHTTPError(a.Name(), status, fmt.Errorf("unexpected status %d", status))
}

// Wire request/response types

type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}
