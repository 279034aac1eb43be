package alerts

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/chrimar3/MVP-Hotel-sub001/models"
)

// Sink receives alert events from the dispatcher worker
type Sink interface {
	Emit(event *models.AlertEvent) error
}

// Config holds configuration for the Dispatcher
type Config struct {
	BufferSize int // Size of the event buffer channel
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BufferSize: 256,
	}
}

// Dispatcher fans alert events out to sinks from a single background
// worker. Enqueueing never blocks the request path: when the buffer is
// full the event is dropped and counted.
type Dispatcher struct {
	sinks      []Sink
	logger     *zap.Logger
	eventChan  chan *models.AlertEvent
	bufferSize int
	wg         sync.WaitGroup

	mu      sync.Mutex
	started bool
	dropped int64
}

// NewDispatcher creates a Dispatcher delivering to the given sinks
func NewDispatcher(logger *zap.Logger, config Config, sinks ...Sink) *Dispatcher {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultConfig().BufferSize
	}

	return &Dispatcher{
		sinks:      sinks,
		logger:     logger,
		eventChan:  make(chan *models.AlertEvent, config.BufferSize),
		bufferSize: config.BufferSize,
	}
}

// Start starts the background worker
func (d *Dispatcher) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started {
		return fmt.Errorf("alert dispatcher already started")
	}

	d.wg.Add(1)
	go d.worker()

	d.started = true
	d.logger.Info("started alert dispatcher",
		zap.Int("buffer_size", d.bufferSize),
		zap.Int("sinks", len(d.sinks)))

	return nil
}

// Stop closes the queue and waits for the worker to drain it, up to
// the given timeout
func (d *Dispatcher) Stop(timeout time.Duration) error {
	d.mu.Lock()
	if !d.started {
		d.mu.Unlock()
		return fmt.Errorf("alert dispatcher not started")
	}
	d.started = false
	close(d.eventChan)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("alert dispatcher stopped")
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("alert dispatcher stop timeout after %v", timeout)
	}
}

// Dispatch enqueues an event without blocking. Events dispatched
// before Start or after Stop, or while the buffer is full, are
// dropped and counted. The send happens under the mutex that orders
// Stop's close, so it can never hit a closed channel.
func (d *Dispatcher) Dispatch(event *models.AlertEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started {
		d.dropped++
		return
	}

	select {
	case d.eventChan <- event:
	default:
		d.dropped++
		d.logger.Warn("alert queue full, dropping event",
			zap.String("type", string(event.Type)))
	}
}

// worker delivers queued events to every sink in order
func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for event := range d.eventChan {
		for _, sink := range d.sinks {
			if err := sink.Emit(event); err != nil {
				d.logger.Error("alert sink failed",
					zap.String("type", string(event.Type)),
					zap.Error(err))
			}
		}
	}
}

// Stats reports the dispatcher queue state
func (d *Dispatcher) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()

	return Stats{
		BufferSize: d.bufferSize,
		Pending:    len(d.eventChan),
		Dropped:    d.dropped,
		Started:    d.started,
	}
}

// Stats represents dispatcher statistics
type Stats struct {
	BufferSize int
	Pending    int
	Dropped    int64
	Started    bool
}
