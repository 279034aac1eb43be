package experiment

import (
	"math/rand"
	"sync"
	"time"
)

// Assigner splits traffic between the provider chain and the template
// composer. Assignment is per call, not sticky: the same caller can
// land on different arms across requests.
type Assigner struct {
	mu      sync.Mutex
	rng     *rand.Rand
	enabled bool
	percent int
}

// NewAssigner creates an Assigner sending providerPercent% of gated
// requests to the provider chain. Percentages outside [0,100] are
// clamped.
func NewAssigner(enabled bool, providerPercent int) *Assigner {
	if providerPercent < 0 {
		providerPercent = 0
	}
	if providerPercent > 100 {
		providerPercent = 100
	}

	return &Assigner{
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		enabled: enabled,
		percent: providerPercent,
	}
}

// Enabled reports whether the experiment gate applies at all
func (a *Assigner) Enabled() bool {
	return a.enabled
}

// ProviderPercent returns the configured provider share
func (a *Assigner) ProviderPercent() int {
	return a.percent
}

// ShouldUseProvider draws a fresh uniform assignment. 0 percent is
// always false, 100 always true.
func (a *Assigner) ShouldUseProvider() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rng.Intn(100) < a.percent
}

// Seed reseeds the random source for deterministic tests
func (a *Assigner) Seed(seed int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rng = rand.New(rand.NewSource(seed))
}
