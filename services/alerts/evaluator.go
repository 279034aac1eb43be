package alerts

import (
	"fmt"
	"sync"
	"time"

	"github.com/chrimar3/MVP-Hotel-sub001/models"
	"github.com/chrimar3/MVP-Hotel-sub001/services/costs"
)

// Thresholds are the breach limits the evaluator checks every snapshot
// against.
type Thresholds struct {
	// ErrorRatePercent breaches when provider errors exceed this share
	// of total requests
	ErrorRatePercent float64

	// LatencyMS breaches when the mean end-to-end latency exceeds this
	LatencyMS float64

	// DailyCostUSD breaches when today's accrued cost exceeds this
	DailyCostUSD float64
}

// DefaultThresholds returns the shipped breach limits
func DefaultThresholds() Thresholds {
	return Thresholds{
		ErrorRatePercent: 10,
		LatencyMS:        5000,
		DailyCostUSD:     5,
	}
}

// Evaluator checks metric snapshots against thresholds and emits one
// AlertEvent per breached rule. Identical alert types within the
// suppression window are dropped; a zero window disables suppression
// and fires on every breached evaluation.
type Evaluator struct {
	thresholds Thresholds
	window     time.Duration

	mu        sync.Mutex
	lastFired map[models.AlertType]time.Time

	// now is swappable so tests can drive the suppression clock
	now func() time.Time
}

// NewEvaluator creates an Evaluator with the given thresholds and
// suppression window.
func NewEvaluator(thresholds Thresholds, window time.Duration) *Evaluator {
	return &Evaluator{
		thresholds: thresholds,
		window:     window,
		lastFired:  make(map[models.AlertType]time.Time),
		now:        time.Now,
	}
}

// Evaluate checks one snapshot against every rule and returns the
// events that fired. The snapshot is attached to each event so sinks
// can record the state that tripped the rule.
func (e *Evaluator) Evaluate(snap *models.MetricsSnapshot) []models.AlertEvent {
	if snap == nil {
		return nil
	}

	now := e.now()
	var events []models.AlertEvent

	if rate := snap.ErrorRatePercent(); rate > e.thresholds.ErrorRatePercent {
		if e.allow(models.AlertTypeErrorRate, now) {
			events = append(events, models.AlertEvent{
				Type:      models.AlertTypeErrorRate,
				Message:   fmt.Sprintf("provider error rate %.1f%% exceeds %.1f%%", rate, e.thresholds.ErrorRatePercent),
				Snapshot:  snap,
				Timestamp: now,
			})
		}
	}

	if mean := snap.Latency.MeanMs; mean > e.thresholds.LatencyMS {
		if e.allow(models.AlertTypeLatency, now) {
			events = append(events, models.AlertEvent{
				Type:      models.AlertTypeLatency,
				Message:   fmt.Sprintf("mean latency %.0fms exceeds %.0fms", mean, e.thresholds.LatencyMS),
				Snapshot:  snap,
				Timestamp: now,
			})
		}
	}

	today := costs.PeriodKey(now, costs.PeriodDaily)
	if spend := snap.CostForDay(today); spend > e.thresholds.DailyCostUSD {
		if e.allow(models.AlertTypeDailyCost, now) {
			events = append(events, models.AlertEvent{
				Type:      models.AlertTypeDailyCost,
				Message:   fmt.Sprintf("daily cost $%.2f exceeds $%.2f", spend, e.thresholds.DailyCostUSD),
				Snapshot:  snap,
				Timestamp: now,
			})
		}
	}

	return events
}

// allow reports whether an alert type may fire at the given time and
// stamps it as fired when it may
func (e *Evaluator) allow(t models.AlertType, now time.Time) bool {
	if e.window <= 0 {
		return true
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if last, ok := e.lastFired[t]; ok && now.Sub(last) < e.window {
		return false
	}
	e.lastFired[t] = now
	return true
}
