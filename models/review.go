package models

import "time"

// Source identifies which stage of the fallback chain produced a result
type Source string

const (
	SourceCache     Source = "cache"
	SourcePrimary   Source = "primary"
	SourceSecondary Source = "secondary"
	SourceTemplate  Source = "template"
	SourceEmergency Source = "emergency"
)

// ValidSource reports whether s is one of the defined terminal sources
func ValidSource(s Source) bool {
	switch s {
	case SourceCache, SourcePrimary, SourceSecondary, SourceTemplate, SourceEmergency:
		return true
	}
	return false
}

// GenerationRequest describes a single review to generate.
// It is immutable once submitted; validation happens at the API/CLI
// boundary and the engine trusts validated input.
type GenerationRequest struct {
	HotelName  string   `json:"hotel_name" validate:"required,max=200"`
	Rating     int      `json:"rating" validate:"required,min=1,max=5"`
	TripType   string   `json:"trip_type" validate:"required,max=50"`
	Highlights []string `json:"highlights,omitempty" validate:"max=20,dive,max=100"`
	Nights     int      `json:"nights,omitempty" validate:"min=0,max=365"`
	Voice      string   `json:"voice,omitempty" validate:"omitempty,oneof=solo couple family business group"`
	Language   string   `json:"language,omitempty" validate:"omitempty,max=10"`
}

// GenerationResult is the single outcome produced for a request,
// regardless of which stage of the chain resolved it
type GenerationResult struct {
	Text         string  `json:"text"`
	Source       Source  `json:"source"`
	LatencyMs    int64   `json:"latency_ms"`
	RequestID    string  `json:"request_id"`
	Cached       bool    `json:"cached"`
	CostEstimate float64 `json:"cost_estimate"`
}

// Completion is the raw outcome of one upstream provider call
type Completion struct {
	Text  string
	Units int // upstream usage.total_tokens
}

// AlertType classifies a threshold breach
type AlertType string

const (
	AlertTypeErrorRate AlertType = "error_rate"
	AlertTypeLatency   AlertType = "latency"
	AlertTypeDailyCost AlertType = "daily_cost"
)

// AlertEvent is the fire-and-forget payload handed to alert sinks
type AlertEvent struct {
	Type      AlertType        `json:"type"`
	Message   string           `json:"message"`
	Snapshot  *MetricsSnapshot `json:"snapshot"`
	Timestamp time.Time        `json:"timestamp"`
}
