package costs

import (
	"sync"
	"time"

	"github.com/chrimar3/MVP-Hotel-sub001/models"
)

// Period represents the time period for cost bucketing
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodMonthly Period = "monthly"
)

// Meter accrues an estimated spend for metered provider calls. Only
// calls attributed to the primary provider cost anything; the
// secondary and the composer are free by contract.
type Meter struct {
	mu          sync.Mutex
	primaryName string
	costPer1K   float64
	ledger      models.CostLedger

	// now is swappable so tests can pin the bucket date
	now func() time.Time
}

// NewMeter creates a Meter charging costPer1K dollars per 1000 units
// for calls to the named primary provider.
func NewMeter(primaryName string, costPer1K float64) *Meter {
	return &Meter{
		primaryName: primaryName,
		costPer1K:   costPer1K,
		ledger:      models.NewCostLedger(),
		now:         time.Now,
	}
}

// Track accrues the cost of a completed provider call and returns the
// amount charged. Calls from any provider other than the primary
// return 0 and accrue nothing.
func (m *Meter) Track(provider string, units int) float64 {
	if provider != m.primaryName || units <= 0 {
		return 0
	}

	cost := float64(units) / 1000 * m.costPer1K

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.ledger.Total += cost
	m.ledger.Daily[PeriodKey(now, PeriodDaily)] += cost
	m.ledger.Monthly[PeriodKey(now, PeriodMonthly)] += cost

	return cost
}

// TodayCost returns the spend accrued in the current daily bucket
func (m *Meter) TodayCost() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ledger.Daily[PeriodKey(m.now(), PeriodDaily)]
}

// Ledger returns a deep copy of the accrued cost buckets
func (m *Meter) Ledger() models.CostLedger {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyLedger(m.ledger)
}

// Restore replaces the ledger contents, typically after loading a
// persisted snapshot at startup
func (m *Meter) Restore(ledger models.CostLedger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ledger = copyLedger(ledger)
}

// PeriodKey returns the bucket key for a time period
func PeriodKey(now time.Time, period Period) string {
	switch period {
	case PeriodMonthly:
		return now.Format("2006-01")
	default:
		return now.Format("2006-01-02")
	}
}

func copyLedger(src models.CostLedger) models.CostLedger {
	dst := models.CostLedger{
		Total:   src.Total,
		Daily:   make(map[string]float64, len(src.Daily)),
		Monthly: make(map[string]float64, len(src.Monthly)),
	}
	for k, v := range src.Daily {
		dst.Daily[k] = v
	}
	for k, v := range src.Monthly {
		dst.Monthly[k] = v
	}
	return dst
}
