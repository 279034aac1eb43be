package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrimar3/MVP-Hotel-sub001/models"
)

type stubCosts struct {
	ledger models.CostLedger
}

func (s *stubCosts) Ledger() models.CostLedger {
	return s.ledger
}

func TestState_RecordAndSnapshot(t *testing.T) {
	state := NewState(nil)

	state.Increment(PathRequestsTotal)
	state.Increment(PathRequestsTotal)
	state.Record(PathProviderErrors, 1)
	state.Increment(PathSource(models.SourcePrimary))

	snap := state.Snapshot()

	assert.Equal(t, float64(2), snap.Counter(PathRequestsTotal))
	assert.Equal(t, float64(1), snap.Counter(PathProviderErrors))
	assert.Equal(t, float64(1), snap.Counter("source.primary"))
	assert.Zero(t, snap.Counter("never.recorded"))
	assert.False(t, snap.TakenAt.IsZero())
}

func TestState_RecordLatency(t *testing.T) {
	state := NewState(nil)

	state.RecordLatency(100 * time.Millisecond)
	state.RecordLatency(300 * time.Millisecond)
	state.RecordLatency(200 * time.Millisecond)

	snap := state.Snapshot()

	assert.Equal(t, int64(3), snap.Latency.Count)
	assert.InDelta(t, 600, snap.Latency.SumMs, 0.001)
	assert.InDelta(t, 100, snap.Latency.MinMs, 0.001)
	assert.InDelta(t, 300, snap.Latency.MaxMs, 0.001)
	assert.InDelta(t, 200, snap.Latency.MeanMs, 0.001)
}

func TestState_LatencyMinTracksFirstSample(t *testing.T) {
	state := NewState(nil)

	state.RecordLatency(500 * time.Millisecond)
	snap := state.Snapshot()
	assert.InDelta(t, 500, snap.Latency.MinMs, 0.001)

	state.RecordLatency(50 * time.Millisecond)
	snap = state.Snapshot()
	assert.InDelta(t, 50, snap.Latency.MinMs, 0.001)
	assert.InDelta(t, 500, snap.Latency.MaxMs, 0.001)
}

func TestState_SnapshotMergesCostLedger(t *testing.T) {
	ledger := models.NewCostLedger()
	ledger.Total = 3.5
	ledger.Daily["2026-03-15"] = 1.25

	state := NewState(&stubCosts{ledger: ledger})
	snap := state.Snapshot()

	assert.InDelta(t, 3.5, snap.Cost.Total, 1e-9)
	assert.InDelta(t, 1.25, snap.CostForDay("2026-03-15"), 1e-9)
}

func TestState_SnapshotIsACopy(t *testing.T) {
	state := NewState(nil)
	state.Increment(PathCacheHits)

	snap := state.Snapshot()
	snap.Counters[PathCacheHits] = 999

	assert.Equal(t, float64(1), state.Snapshot().Counter(PathCacheHits))
}

func TestState_Restore(t *testing.T) {
	persisted := models.NewMetricsSnapshot()
	persisted.Counters[PathRequestsTotal] = 42
	persisted.Latency = models.LatencyStats{SumMs: 4200, Count: 42, MinMs: 10, MaxMs: 500}

	state := NewState(nil)
	state.Restore(persisted)

	snap := state.Snapshot()
	assert.Equal(t, float64(42), snap.Counter(PathRequestsTotal))
	assert.Equal(t, int64(42), snap.Latency.Count)
	assert.InDelta(t, 100, snap.Latency.MeanMs, 0.001)

	// Counting continues from the restored values
	state.Increment(PathRequestsTotal)
	assert.Equal(t, float64(43), state.Snapshot().Counter(PathRequestsTotal))
}

func TestState_RestoreNil(t *testing.T) {
	state := NewState(nil)
	state.Increment(PathRequestsTotal)

	state.Restore(nil)

	assert.Equal(t, float64(1), state.Snapshot().Counter(PathRequestsTotal))
}

func TestState_ConcurrentRecording(t *testing.T) {
	state := NewState(nil)

	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				state.Increment(PathRequestsTotal)
				state.RecordLatency(10 * time.Millisecond)
			}
		}()
	}
	wg.Wait()

	snap := state.Snapshot()
	require.Equal(t, float64(1000), snap.Counter(PathRequestsTotal))
	require.Equal(t, int64(1000), snap.Latency.Count)
}

func TestState_ErrorRateScenario(t *testing.T) {
	state := NewState(nil)

	// 10 requests, 6 provider failures
	for i := 0; i < 10; i++ {
		state.Increment(PathRequestsTotal)
	}
	for i := 0; i < 6; i++ {
		state.Increment(PathProviderErrors)
	}

	assert.InDelta(t, 60.0, state.Snapshot().ErrorRatePercent(), 0.001)
}
