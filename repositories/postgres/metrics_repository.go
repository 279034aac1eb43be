package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chrimar3/MVP-Hotel-sub001/models"
	"github.com/chrimar3/MVP-Hotel-sub001/repositories"
	"go.uber.org/zap"
)

// MetricsRepository implements the repositories.MetricsRepository interface
// on PostgreSQL. The snapshot is stored as one JSONB row, overwritten on
// every save.
type MetricsRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewMetricsRepository creates a new postgres metrics repository
func NewMetricsRepository(db *DB, logger *zap.Logger) repositories.MetricsRepository {
	return &MetricsRepository{
		db:     db,
		logger: logger,
	}
}

// Load retrieves the stored snapshot, or (nil, nil) when none was saved yet
func (r *MetricsRepository) Load(ctx context.Context) (*models.MetricsSnapshot, error) {
	query := `
		SELECT snapshot FROM metrics_snapshots WHERE id = 1
	`

	var raw []byte
	err := r.db.QueryRowContext(ctx, query).Scan(&raw)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load metrics snapshot: %w", err)
	}

	snapshot := &models.MetricsSnapshot{}
	if err := json.Unmarshal(raw, snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode metrics snapshot: %w", err)
	}

	r.logger.Debug("metrics snapshot loaded", zap.Int("bytes", len(raw)))
	return snapshot, nil
}

// Save overwrites the stored snapshot
func (r *MetricsRepository) Save(ctx context.Context, snapshot *models.MetricsSnapshot) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode metrics snapshot: %w", err)
	}

	query := `
		INSERT INTO metrics_snapshots (id, snapshot, updated_at)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET snapshot = EXCLUDED.snapshot, updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, raw, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save metrics snapshot: %w", err)
	}

	r.logger.Debug("metrics snapshot saved", zap.Int("bytes", len(raw)))
	return nil
}

// Ping verifies the database is reachable
func (r *MetricsRepository) Ping(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}

// Close closes the underlying connection pool
func (r *MetricsRepository) Close() error {
	return r.db.Close()
}
