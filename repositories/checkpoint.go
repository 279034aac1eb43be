package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/chrimar3/MVP-Hotel-sub001/models"
	"go.uber.org/zap"
)

// saveTimeout bounds each checkpoint write so a stuck store cannot
// block shutdown.
const saveTimeout = 5 * time.Second

// SnapshotSource yields the current metrics view to persist
type SnapshotSource interface {
	Snapshot() *models.MetricsSnapshot
}

// Checkpointer periodically saves the metrics snapshot to a repository.
// Saves are best-effort: failures are logged and never propagate.
type Checkpointer struct {
	repo     MetricsRepository
	source   SnapshotSource
	interval time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	started bool
	stopped bool
	stopCh  chan struct{}
	done    chan struct{}
}

// NewCheckpointer creates a checkpointer saving source's snapshot to repo
// every interval
func NewCheckpointer(repo MetricsRepository, source SnapshotSource, interval time.Duration, logger *zap.Logger) *Checkpointer {
	return &Checkpointer{
		repo:     repo,
		source:   source,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the checkpoint loop
func (c *Checkpointer) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return
	}
	c.started = true

	c.logger.Info("started metrics checkpointer", zap.Duration("interval", c.interval))
	go c.run()
}

// Stop halts the loop and writes one final checkpoint. Safe to call more
// than once; a Stop without Start is a no-op.
func (c *Checkpointer) Stop() {
	c.mu.Lock()
	if !c.started || c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	close(c.stopCh)
	c.mu.Unlock()

	<-c.done
}

func (c *Checkpointer) run() {
	defer close(c.done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.save()
		case <-c.stopCh:
			// Final checkpoint so a clean shutdown never loses more
			// than in-flight deltas.
			c.save()
			c.logger.Info("stopped metrics checkpointer")
			return
		}
	}
}

func (c *Checkpointer) save() {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := c.repo.Save(ctx, c.source.Snapshot()); err != nil {
		c.logger.Warn("metrics checkpoint failed", zap.Error(err))
		return
	}
	c.logger.Debug("metrics checkpoint saved")
}

// LoadOrDefault restores the persisted snapshot, falling back to a zeroed
// snapshot when nothing was saved or the load fails. Load failures are
// logged, never fatal: the engine starts counting from zero.
func LoadOrDefault(ctx context.Context, repo MetricsRepository, logger *zap.Logger) *models.MetricsSnapshot {
	snapshot, err := repo.Load(ctx)
	if err != nil {
		logger.Warn("failed to load persisted metrics, starting from zero", zap.Error(err))
		return models.NewMetricsSnapshot()
	}
	if snapshot == nil {
		return models.NewMetricsSnapshot()
	}
	return snapshot
}
