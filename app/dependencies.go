package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/chrimar3/MVP-Hotel-sub001/config"
	"github.com/chrimar3/MVP-Hotel-sub001/models"
	"github.com/chrimar3/MVP-Hotel-sub001/repositories"
	"github.com/chrimar3/MVP-Hotel-sub001/repositories/postgres"
	"github.com/chrimar3/MVP-Hotel-sub001/repositories/sqlite"
	"github.com/chrimar3/MVP-Hotel-sub001/services/alerts"
	"github.com/chrimar3/MVP-Hotel-sub001/services/cache"
	"github.com/chrimar3/MVP-Hotel-sub001/services/composer"
	"github.com/chrimar3/MVP-Hotel-sub001/services/costs"
	"github.com/chrimar3/MVP-Hotel-sub001/services/experiment"
	"github.com/chrimar3/MVP-Hotel-sub001/services/generation"
	"github.com/chrimar3/MVP-Hotel-sub001/services/metrics"
	"github.com/chrimar3/MVP-Hotel-sub001/services/providers"
	"github.com/chrimar3/MVP-Hotel-sub001/services/providers/openai"
)

// alertDrainTimeout bounds how long shutdown waits for queued alerts
const alertDrainTimeout = 5 * time.Second

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection: the cache and
// metrics state are constructed exactly once here and handed to the engine,
// never reached through globals.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	Logger *zap.Logger

	// Engine and its owned state
	Engine  *generation.GenerationService
	Cache   *cache.RequestCache
	Metrics *metrics.State
	Meter   *costs.Meter

	// Alerting
	Dispatcher *alerts.Dispatcher
	AlertRing  *alerts.RingSink

	// Persistence
	Store repositories.MetricsRepository

	checkpointer *repositories.Checkpointer
	sweepStop    chan struct{}
	sweepDone    sync.WaitGroup
	started      bool
}

// NewDependencies creates and wires up all application dependencies.
// The returned container is fully constructed but idle; call Start to
// launch the background workers.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:    cfg,
		Logger:    logger,
		sweepStop: make(chan struct{}),
	}

	if err := deps.initStore(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics store: %w", err)
	}

	if err := deps.initEngine(ctx, cfg); err != nil {
		_ = deps.Store.Close()
		return nil, fmt.Errorf("failed to initialize engine: %w", err)
	}

	logger.Info("all dependencies initialized",
		zap.String("store_backend", cfg.Store.Backend),
		zap.Bool("secondary_configured", cfg.Secondary.Enabled()),
		zap.Bool("experiment_enabled", cfg.Experiment.Enabled),
		zap.Bool("coalesce", cfg.Coalesce))
	return deps, nil
}

// initStore opens the configured snapshot backend
func (d *Dependencies) initStore(ctx context.Context, cfg *config.Config) error {
	switch cfg.Store.Backend {
	case "postgres":
		db, err := postgres.NewDB(cfg.Store.Postgres, d.Logger)
		if err != nil {
			return err
		}
		if err := db.InitSchema(ctx); err != nil {
			_ = db.Close()
			return err
		}
		d.Store = postgres.NewMetricsRepository(db, d.Logger)

	case "sqlite":
		store, err := sqlite.New(cfg.Store.SQLitePath, d.Logger)
		if err != nil {
			return err
		}
		d.Store = store

	default:
		d.Store = repositories.NewNoopRepository()
	}

	return nil
}

// initEngine builds the fallback chain and its owned state, restoring
// persisted aggregates when the store has any
func (d *Dependencies) initEngine(ctx context.Context, cfg *config.Config) error {
	d.Cache = cache.NewRequestCache(cfg.Cache.Capacity, cfg.Cache.TTL)

	d.Meter = costs.NewMeter(cfg.Primary.Name, cfg.Primary.CostPer1K)
	d.Metrics = metrics.NewState(d.Meter)

	snapshot := repositories.LoadOrDefault(ctx, d.Store, d.Logger)
	d.Metrics.Restore(snapshot)
	d.Meter.Restore(snapshot.Cost)

	pack, err := composer.LoadPack(afero.NewOsFs(), cfg.Composer.PackPath)
	if err != nil {
		return fmt.Errorf("failed to load composer phrase pack: %w", err)
	}

	evaluator := alerts.NewEvaluator(alerts.Thresholds{
		ErrorRatePercent: cfg.Alerts.ErrorRatePercent,
		LatencyMS:        cfg.Alerts.LatencyMS,
		DailyCostUSD:     cfg.Alerts.DailyCostUSD,
	}, cfg.Alerts.SuppressionWindow)

	d.AlertRing = alerts.NewRingSink(cfg.Alerts.RingSize)
	sinks := []alerts.Sink{alerts.NewLogSink(d.Logger), d.AlertRing}
	if cfg.Alerts.File != "" {
		fileSink, err := alerts.NewFileSink(afero.NewOsFs(), cfg.Alerts.File)
		if err != nil {
			return fmt.Errorf("failed to open alert file sink: %w", err)
		}
		sinks = append(sinks, fileSink)
	}
	d.Dispatcher = alerts.NewDispatcher(d.Logger, alerts.Config{BufferSize: cfg.Alerts.QueueSize}, sinks...)

	// The assigner speaks in provider share; config exposes the share
	// routed to the template arm.
	assigner := experiment.NewAssigner(cfg.Experiment.Enabled, 100-cfg.Experiment.TemplatePercent)

	d.checkpointer = repositories.NewCheckpointer(d.Store, d.Metrics, cfg.Store.CheckpointInterval, d.Logger)

	d.Engine = generation.NewGenerationService(
		d.Cache,
		buildProvider(cfg.Primary),
		buildProvider(cfg.Secondary),
		composer.New(pack),
		d.Meter,
		d.Metrics,
		evaluator,
		d.Dispatcher,
		assigner,
		d.Logger,
		generation.Config{Coalesce: cfg.Coalesce},
	)

	return nil
}

// buildProvider constructs one chain stage from provider config. A
// provider with no endpoint stays in the chain as an immediate
// fall-through so the router never branches on configuration.
func buildProvider(cfg config.ProviderConfig) generation.Provider {
	if !cfg.Enabled() {
		return &unconfiguredProvider{name: cfg.Name}
	}
	return openai.NewAdapter(providers.Config{
		Name:        cfg.Name,
		Endpoint:    cfg.Endpoint,
		Model:       cfg.Model,
		APIKey:      cfg.APIKey,
		Timeout:     cfg.Timeout,
		MaxRetries:  cfg.MaxRetries,
		BackoffBase: cfg.BackoffBase,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	})
}

// unconfiguredProvider fails instantly so the chain falls through to the
// next stage without retries or network traffic
type unconfiguredProvider struct {
	name string
}

func (p *unconfiguredProvider) Name() string {
	return p.name
}

func (p *unconfiguredProvider) Generate(ctx context.Context, req *models.GenerationRequest) (*models.Completion, error) {
	return nil, providers.NewNetworkError(p.name, fmt.Errorf("provider %s is not configured", p.name))
}

// Start launches the background workers: the alert dispatcher, the
// metrics checkpointer, and the cache sweeper
func (d *Dependencies) Start() error {
	if d.started {
		return fmt.Errorf("dependencies already started")
	}
	d.started = true

	if err := d.Dispatcher.Start(); err != nil {
		return err
	}
	d.checkpointer.Start()

	d.sweepDone.Add(1)
	go func() {
		defer d.sweepDone.Done()
		d.Cache.StartSweeper(d.Config.Cache.SweepInterval, d.sweepStop)
	}()

	d.Logger.Info("background workers started",
		zap.Duration("sweep_interval", d.Config.Cache.SweepInterval),
		zap.Duration("checkpoint_interval", d.Config.Store.CheckpointInterval))
	return nil
}

// Close gracefully shuts down all dependencies: workers first (the
// checkpointer writes one final snapshot), then the store
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.started {
		close(d.sweepStop)
		d.sweepDone.Wait()

		if err := d.Dispatcher.Stop(alertDrainTimeout); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop alert dispatcher: %w", err))
		}
		d.checkpointer.Stop()
		d.started = false
	}

	if d.Store != nil {
		if err := d.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close metrics store: %w", err))
		}
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}
	return nil
}
