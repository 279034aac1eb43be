package repositories

import (
	"context"

	"github.com/chrimar3/MVP-Hotel-sub001/models"
)

// MetricsRepository persists the engine's metrics snapshot. Implementations
// are single-row stores: Save overwrites the previous snapshot, Load returns
// the latest one. Load returns (nil, nil) when nothing has been saved yet.
type MetricsRepository interface {
	// Load retrieves the most recently saved snapshot
	Load(ctx context.Context) (*models.MetricsSnapshot, error)

	// Save overwrites the stored snapshot
	Save(ctx context.Context, snapshot *models.MetricsSnapshot) error

	// Ping verifies the backing store is reachable
	Ping(ctx context.Context) error

	// Close releases the underlying store resources
	Close() error
}
