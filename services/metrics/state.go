package metrics

import (
	"sync"
	"time"

	"github.com/chrimar3/MVP-Hotel-sub001/models"
)

// Dotted counter paths recorded by the engine. Handlers and tests use
// these instead of bare strings.
const (
	PathRequestsTotal      = "requests.total"
	PathRequestsCoalesced  = "requests.coalesced"
	PathCacheHits          = "cache.hits"
	PathCacheMisses        = "cache.misses"
	PathProviderSuccess    = "provider.success"
	PathProviderErrors     = "provider.errors"
	PathExperimentProvider = "experiment.provider"
	PathExperimentTemplate = "experiment.template"
)

// PathSource returns the per-terminal-source counter path
func PathSource(source models.Source) string {
	return "source." + string(source)
}

// CostSource exposes the accrued cost ledger for snapshot merging.
// The cost meter satisfies this.
type CostSource interface {
	Ledger() models.CostLedger
}

// State aggregates engine counters and latency under a single mutex.
// Snapshots are deep copies; readers never observe a ledger or counter
// map that later mutates under them.
type State struct {
	mu       sync.Mutex
	counters map[string]float64
	latency  models.LatencyStats
	costs    CostSource
}

// NewState creates an empty metrics state. costs may be nil, in which
// case snapshots carry an empty ledger.
func NewState(costs CostSource) *State {
	return &State{
		counters: make(map[string]float64),
		costs:    costs,
	}
}

// Record adds value to the counter at a dotted path
func (s *State) Record(path string, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[path] += value
}

// Increment adds 1 to the counter at a dotted path
func (s *State) Increment(path string) {
	s.Record(path, 1)
}

// RecordLatency folds one request duration into the running aggregate
func (s *State) RecordLatency(d time.Duration) {
	ms := float64(d.Milliseconds())

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.latency.Count == 0 || ms < s.latency.MinMs {
		s.latency.MinMs = ms
	}
	if ms > s.latency.MaxMs {
		s.latency.MaxMs = ms
	}
	s.latency.SumMs += ms
	s.latency.Count++
}

// Snapshot returns a point-in-time deep copy of all counters and the
// latency aggregate, merged with the current cost ledger
func (s *State) Snapshot() *models.MetricsSnapshot {
	s.mu.Lock()

	snap := models.NewMetricsSnapshot()
	for path, value := range s.counters {
		snap.Counters[path] = value
	}
	snap.Latency = s.latency
	if snap.Latency.Count > 0 {
		snap.Latency.MeanMs = snap.Latency.SumMs / float64(snap.Latency.Count)
	}

	s.mu.Unlock()

	// Ledger() locks the meter; take it outside our own lock
	if s.costs != nil {
		snap.Cost = s.costs.Ledger()
	}
	return snap
}

// Restore rehydrates counters and latency from a persisted snapshot.
// The cost ledger is restored separately into the meter.
func (s *State) Restore(snap *models.MetricsSnapshot) {
	if snap == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters = make(map[string]float64, len(snap.Counters))
	for path, value := range snap.Counters {
		s.counters[path] = value
	}
	s.latency = snap.Latency
}
