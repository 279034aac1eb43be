package models

import "time"

// LatencyStats holds the running latency aggregate in milliseconds
type LatencyStats struct {
	SumMs   float64 `json:"sum_ms"`
	Count   int64   `json:"count"`
	MinMs   float64 `json:"min_ms"`
	MaxMs   float64 `json:"max_ms"`
	MeanMs  float64 `json:"mean_ms"`
}

// CostLedger holds accrued provider cost keyed by wall-clock period.
// Daily buckets key on "2006-01-02", monthly on "2006-01"; keying by
// current date makes rollover natural with no reset logic.
type CostLedger struct {
	Total   float64            `json:"total"`
	Daily   map[string]float64 `json:"daily"`
	Monthly map[string]float64 `json:"monthly"`
}

// NewCostLedger creates an empty ledger with initialized buckets
func NewCostLedger() CostLedger {
	return CostLedger{
		Daily:   make(map[string]float64),
		Monthly: make(map[string]float64),
	}
}

// MetricsSnapshot is a point-in-time copy of the engine's aggregates.
// It is the unit of alert evaluation and of persistence.
type MetricsSnapshot struct {
	Counters map[string]float64 `json:"counters"`
	Latency  LatencyStats       `json:"latency"`
	Cost     CostLedger         `json:"cost"`
	TakenAt  time.Time          `json:"taken_at"`
}

// NewMetricsSnapshot creates an empty snapshot with initialized maps
func NewMetricsSnapshot() *MetricsSnapshot {
	return &MetricsSnapshot{
		Counters: make(map[string]float64),
		Cost:     NewCostLedger(),
		TakenAt:  time.Now(),
	}
}

// Counter returns the counter at a dotted path, zero when absent
func (s *MetricsSnapshot) Counter(path string) float64 {
	if s == nil || s.Counters == nil {
		return 0
	}
	return s.Counters[path]
}

// ErrorRatePercent computes provider errors as a percentage of total
// requests; zero when no requests have been observed
func (s *MetricsSnapshot) ErrorRatePercent() float64 {
	total := s.Counter("requests.total")
	if total == 0 {
		return 0
	}
	return s.Counter("provider.errors") / total * 100
}

// CostForDay returns the accrued cost for a daily bucket key
func (s *MetricsSnapshot) CostForDay(day string) float64 {
	if s == nil || s.Cost.Daily == nil {
		return 0
	}
	return s.Cost.Daily[day]
}
