package repositories

import (
	"context"

	"github.com/chrimar3/MVP-Hotel-sub001/models"
)

// NoopRepository is the "none" backend: metrics live in memory only and
// are lost on restart. All operations succeed without doing anything.
type NoopRepository struct{}

// NewNoopRepository creates a no-op metrics repository
func NewNoopRepository() *NoopRepository {
	return &NoopRepository{}
}

// Load always reports no saved snapshot
func (r *NoopRepository) Load(ctx context.Context) (*models.MetricsSnapshot, error) {
	return nil, nil
}

// Save discards the snapshot
func (r *NoopRepository) Save(ctx context.Context, snapshot *models.MetricsSnapshot) error {
	return nil
}

// Ping always succeeds
func (r *NoopRepository) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op
func (r *NoopRepository) Close() error {
	return nil
}
