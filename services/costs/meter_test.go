package costs

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrimar3/MVP-Hotel-sub001/models"
)

func fixedTime(day string) func() time.Time {
	ts, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return ts }
}

func TestMeter_TrackPrimary(t *testing.T) {
	meter := NewMeter("primary", 0.002)
	meter.now = fixedTime("2026-03-15")

	cost := meter.Track("primary", 1500)
	assert.InDelta(t, 0.003, cost, 1e-9)

	ledger := meter.Ledger()
	assert.InDelta(t, 0.003, ledger.Total, 1e-9)
	assert.InDelta(t, 0.003, ledger.Daily["2026-03-15"], 1e-9)
	assert.InDelta(t, 0.003, ledger.Monthly["2026-03"], 1e-9)
}

func TestMeter_OnlyPrimaryAccrues(t *testing.T) {
	meter := NewMeter("primary", 0.002)

	assert.Zero(t, meter.Track("secondary", 1500))
	assert.Zero(t, meter.Track("template", 1500))
	assert.Zero(t, meter.Track("", 1500))

	ledger := meter.Ledger()
	assert.Zero(t, ledger.Total)
	assert.Empty(t, ledger.Daily)
}

func TestMeter_ZeroUnits(t *testing.T) {
	meter := NewMeter("primary", 0.002)

	assert.Zero(t, meter.Track("primary", 0))
	assert.Zero(t, meter.Track("primary", -10))
	assert.Zero(t, meter.Ledger().Total)
}

func TestMeter_BucketRollover(t *testing.T) {
	meter := NewMeter("primary", 0.001)

	meter.now = fixedTime("2026-03-31")
	meter.Track("primary", 1000)

	meter.now = fixedTime("2026-04-01")
	meter.Track("primary", 1000)

	ledger := meter.Ledger()
	assert.InDelta(t, 0.001, ledger.Daily["2026-03-31"], 1e-9)
	assert.InDelta(t, 0.001, ledger.Daily["2026-04-01"], 1e-9)
	assert.InDelta(t, 0.001, ledger.Monthly["2026-03"], 1e-9)
	assert.InDelta(t, 0.001, ledger.Monthly["2026-04"], 1e-9)
	assert.InDelta(t, 0.002, ledger.Total, 1e-9)
}

func TestMeter_TodayCost(t *testing.T) {
	meter := NewMeter("primary", 0.01)
	meter.now = fixedTime("2026-03-15")

	assert.Zero(t, meter.TodayCost())

	meter.Track("primary", 2000)
	assert.InDelta(t, 0.02, meter.TodayCost(), 1e-9)
}

func TestMeter_Restore(t *testing.T) {
	meter := NewMeter("primary", 0.002)
	meter.now = fixedTime("2026-03-15")

	restored := models.NewCostLedger()
	restored.Total = 12.5
	restored.Daily["2026-03-15"] = 4.25

	meter.Restore(restored)

	assert.InDelta(t, 4.25, meter.TodayCost(), 1e-9)
	assert.InDelta(t, 12.5, meter.Ledger().Total, 1e-9)

	// Restore copies; mutating the source must not leak into the meter
	restored.Daily["2026-03-15"] = 999
	assert.InDelta(t, 4.25, meter.TodayCost(), 1e-9)
}

func TestMeter_LedgerIsACopy(t *testing.T) {
	meter := NewMeter("primary", 0.002)
	meter.now = fixedTime("2026-03-15")
	meter.Track("primary", 1000)

	ledger := meter.Ledger()
	ledger.Daily["2026-03-15"] = 999

	require.InDelta(t, 0.002, meter.Ledger().Daily["2026-03-15"], 1e-9)
}

func TestMeter_ConcurrentTracking(t *testing.T) {
	meter := NewMeter("primary", 0.001)

	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				meter.Track("primary", 1000)
			}
		}()
	}
	wg.Wait()

	assert.InDelta(t, 1.0, meter.Ledger().Total, 1e-9)
}

func TestPeriodKey(t *testing.T) {
	ts, err := time.Parse(time.RFC3339, "2026-08-25T14:30:00Z")
	require.NoError(t, err)

	assert.Equal(t, "2026-08-25", PeriodKey(ts, PeriodDaily))
	assert.Equal(t, "2026-08", PeriodKey(ts, PeriodMonthly))
	assert.Equal(t, "2026-08-25", PeriodKey(ts, Period("unknown")))
}
