package alerts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/chrimar3/MVP-Hotel-sub001/models"
)

// LogSink writes alert events to the structured log
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a sink logging at warn level
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Emit implements Sink
func (s *LogSink) Emit(event *models.AlertEvent) error {
	fields := []zap.Field{
		zap.String("type", string(event.Type)),
		zap.Time("timestamp", event.Timestamp),
	}
	if event.Snapshot != nil {
		fields = append(fields,
			zap.Float64("error_rate_percent", event.Snapshot.ErrorRatePercent()),
			zap.Float64("mean_latency_ms", event.Snapshot.Latency.MeanMs),
			zap.Float64("total_cost_usd", event.Snapshot.Cost.Total),
		)
	}
	s.logger.Warn("alert: "+event.Message, fields...)
	return nil
}

// FileSink appends alert events to a JSONL file. Each event is one
// JSON document per line, written through afero so tests run on an
// in-memory filesystem.
type FileSink struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

// NewFileSink creates a sink appending to path, creating parent
// directories as needed
func NewFileSink(fs afero.Fs, path string) (*FileSink, error) {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create alert log dir: %w", err)
	}
	return &FileSink{fs: fs, path: path}, nil
}

// Emit implements Sink
func (s *FileSink) Emit(event *models.AlertEvent) error {
	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode alert event: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.fs.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open alert log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append alert event: %w", err)
	}
	return nil
}

// RingSink keeps the most recent alert events in memory. It backs the
// HTTP alert listing.
type RingSink struct {
	mu       sync.Mutex
	events   []models.AlertEvent
	next     int
	size     int
	capacity int
}

// NewRingSink creates a ring holding up to capacity events
func NewRingSink(capacity int) *RingSink {
	if capacity <= 0 {
		capacity = 100
	}
	return &RingSink{
		events:   make([]models.AlertEvent, capacity),
		capacity: capacity,
	}
}

// Emit implements Sink
func (s *RingSink) Emit(event *models.AlertEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events[s.next] = *event
	s.next = (s.next + 1) % s.capacity
	if s.size < s.capacity {
		s.size++
	}
	return nil
}

// Recent returns up to limit events, newest first. A non-positive
// limit returns everything held.
func (s *RingSink) Recent(limit int) []models.AlertEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > s.size {
		limit = s.size
	}

	out := make([]models.AlertEvent, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (s.next - i + s.capacity) % s.capacity
		out = append(out, s.events[idx])
	}
	return out
}

// Len returns the number of events currently held
func (s *RingSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}
