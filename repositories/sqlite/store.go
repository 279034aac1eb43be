package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/chrimar3/MVP-Hotel-sub001/models"
	"github.com/chrimar3/MVP-Hotel-sub001/repositories"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// appName names the XDG data subdirectory for the default database path
const appName = "reviewgen"

const createSnapshotTable = `
CREATE TABLE IF NOT EXISTS metrics_snapshots (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	snapshot BLOB NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Store implements repositories.MetricsRepository on SQLite via the pure-Go
// modernc driver. Like the postgres variant it keeps exactly one row.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// DefaultPath returns the XDG data location for the metrics database,
// creating the directory when missing
func DefaultPath() (string, error) {
	dataDir := filepath.Join(xdg.DataHome, appName)
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}
	return filepath.Join(dataDir, "metrics.db"), nil
}

// New opens (or creates) the database at path and initializes the schema.
// An empty path resolves to DefaultPath().
func New(path string, logger *zap.Logger) (repositories.MetricsRepository, error) {
	if path == "" {
		resolved, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = resolved
	}

	dsn := path
	if path != ":memory:" {
		dsn += "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// Single connection: sqlite is single-writer, and pooled connections
	// would each see a distinct :memory: database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createSnapshotTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize sqlite schema: %w", err)
	}

	logger.Info("sqlite metrics store opened", zap.String("path", path))

	return &Store{db: db, logger: logger}, nil
}

// Load retrieves the stored snapshot, or (nil, nil) when none was saved yet
func (s *Store) Load(ctx context.Context) (*models.MetricsSnapshot, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT snapshot FROM metrics_snapshots WHERE id = 1`,
	).Scan(&raw)
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

	return snapshot, nil
}

// Save overwrites the stored snapshot
func (s *Store) Save(ctx context.Context, snapshot *models.MetricsSnapshot) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode metrics snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO metrics_snapshots (id, snapshot, updated_at) VALUES (1, ?, ?)`,
		raw, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save metrics snapshot: %w", err)
	}

	s.logger.Debug("metrics snapshot saved", zap.Int("bytes", len(raw)))
	return nil
}

// Ping verifies the database file is usable
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database handle
func (s *Store) Close() error {
	return s.db.Close()
}
