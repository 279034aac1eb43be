package generation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/chrimar3/MVP-Hotel-sub001/models"
	"github.com/chrimar3/MVP-Hotel-sub001/services/alerts"
	"github.com/chrimar3/MVP-Hotel-sub001/services/cache"
	"github.com/chrimar3/MVP-Hotel-sub001/services/composer"
	"github.com/chrimar3/MVP-Hotel-sub001/services/costs"
	"github.com/chrimar3/MVP-Hotel-sub001/services/experiment"
	"github.com/chrimar3/MVP-Hotel-sub001/services/metrics"
)

// Composer is the deterministic text stage of the chain. The shipped
// implementation never fails; the router still guards the call so a
// misbehaving replacement degrades to the emergency sentence instead
// of taking the request down.
type Composer interface {
	Compose(req *models.GenerationRequest) (string, error)
}

// Provider is a single upstream generation backend
type Provider interface {
	Name() string
	Generate(ctx context.Context, req *models.GenerationRequest) (*models.Completion, error)
}

// AlertDispatcher receives the events fired after each request
type AlertDispatcher interface {
	Dispatch(event *models.AlertEvent)
}

// Config holds the router's own toggles
type Config struct {
	// Coalesce collapses concurrent identical misses into one chain
	// execution. Off by default: every request walks its own chain.
	Coalesce bool
}

// GenerationService walks the fallback chain for each request:
// cache, experiment gate, primary provider, secondary provider,
// template composer, emergency sentence. Exactly one stage terminates
// every request; the chain as a whole cannot fail.
type GenerationService struct {
	cache      *cache.RequestCache
	primary    Provider
	secondary  Provider
	composer   Composer
	meter      *costs.Meter
	metrics    *metrics.State
	evaluator  *alerts.Evaluator
	dispatcher AlertDispatcher
	assigner   *experiment.Assigner
	logger     *zap.Logger
	coalesce   bool
	group      singleflight.Group
}

// NewGenerationService creates a generation service with all dependencies
func NewGenerationService(
	requestCache *cache.RequestCache,
	primary Provider,
	secondary Provider,
	reviewComposer Composer,
	meter *costs.Meter,
	state *metrics.State,
	evaluator *alerts.Evaluator,
	dispatcher AlertDispatcher,
	assigner *experiment.Assigner,
	logger *zap.Logger,
	cfg Config,
) *GenerationService {
	return &GenerationService{
		cache:      requestCache,
		primary:    primary,
		secondary:  secondary,
		composer:   reviewComposer,
		meter:      meter,
		metrics:    state,
		evaluator:  evaluator,
		dispatcher: dispatcher,
		assigner:   assigner,
		logger:     logger,
		coalesce:   cfg.Coalesce,
	}
}

// Generate resolves one request through the chain. It never returns an
// error: every failure falls through to a later stage and the last
// stages cannot fail. Metrics, latency, and alert evaluation are
// recorded unconditionally, whichever stage terminated the request.
func (s *GenerationService) Generate(ctx context.Context, req *models.GenerationRequest) *models.GenerationResult {
	start := time.Now()
	requestID := uuid.New().String()
	logger := s.logger.With(zap.String("request_id", requestID))

	logger.Info("handling review request",
		zap.String("hotel", req.HotelName),
		zap.Int("rating", req.Rating))

	result := s.resolve(ctx, req, logger)
	result.RequestID = requestID
	result.LatencyMs = time.Since(start).Milliseconds()

	s.finish(result, start)

	logger.Info("review generated",
		zap.String("source", string(result.Source)),
		zap.Int64("latency_ms", result.LatencyMs),
		zap.Bool("cached", result.Cached),
		zap.Float64("cost", result.CostEstimate))

	return result
}

// resolve picks the chain execution mode. With coalescing enabled,
// concurrent requests sharing a fingerprint ride one leader's chain;
// every caller still gets a private result struct to stamp with its
// own id and latency.
func (s *GenerationService) resolve(ctx context.Context, req *models.GenerationRequest, logger *zap.Logger) *models.GenerationResult {
	fingerprint := cache.Fingerprint(req)

	if !s.coalesce {
		return s.runChain(ctx, req, fingerprint, logger)
	}

	leader := false
	v, _, _ := s.group.Do(fingerprint, func() (interface{}, error) {
		leader = true
		return s.runChain(ctx, req, fingerprint, logger), nil
	})

	shared := v.(*models.GenerationResult)
	out := *shared
	if !leader {
		s.metrics.Increment(metrics.PathRequestsCoalesced)
		logger.Debug("request coalesced onto concurrent identical request")
	}
	return &out
}

// runChain is the fallback state machine
func (s *GenerationService) runChain(ctx context.Context, req *models.GenerationRequest, fingerprint string, logger *zap.Logger) *models.GenerationResult {
	// State 1: cache
	if text, ok := s.cache.Lookup(fingerprint); ok {
		s.metrics.Increment(metrics.PathCacheHits)
		logger.Debug("cache hit", zap.String("fingerprint", fingerprint))
		return &models.GenerationResult{Text: text, Source: models.SourceCache, Cached: true}
	}
	s.metrics.Increment(metrics.PathCacheMisses)

	// State 2: experiment gate
	if s.assigner.Enabled() {
		if !s.assigner.ShouldUseProvider() {
			s.metrics.Increment(metrics.PathExperimentTemplate)
			logger.Debug("experiment gate assigned template arm")
			return s.compose(req, logger)
		}
		s.metrics.Increment(metrics.PathExperimentProvider)
	}

	// State 3: primary provider
	if completion, err := s.primary.Generate(ctx, req); err == nil {
		s.cache.Store(fingerprint, completion.Text)
		cost := s.meter.Track(s.primary.Name(), completion.Units)
		s.metrics.Increment(metrics.PathProviderSuccess)
		return &models.GenerationResult{Text: completion.Text, Source: models.SourcePrimary, CostEstimate: cost}
	} else {
		s.metrics.Increment(metrics.PathProviderErrors)
		logger.Warn("primary provider failed", zap.Error(err))
	}

	// State 4: secondary provider, same contract but never metered
	if completion, err := s.secondary.Generate(ctx, req); err == nil {
		s.cache.Store(fingerprint, completion.Text)
		s.metrics.Increment(metrics.PathProviderSuccess)
		return &models.GenerationResult{Text: completion.Text, Source: models.SourceSecondary}
	} else {
		s.metrics.Increment(metrics.PathProviderErrors)
		logger.Warn("secondary provider failed", zap.Error(err))
	}

	// States 5 and 6: composer, then emergency
	return s.compose(req, logger)
}

// compose runs the template stage with a recover guard. An error or a
// panic degrades to the emergency sentence; nothing propagates.
func (s *GenerationService) compose(req *models.GenerationRequest, logger *zap.Logger) (result *models.GenerationResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("composer panicked", zap.Any("panic", r))
			result = &models.GenerationResult{Text: composer.Emergency(req), Source: models.SourceEmergency}
		}
	}()

	text, err := s.composer.Compose(req)
	if err != nil {
		logger.Error("composer failed", zap.Error(err))
		return &models.GenerationResult{Text: composer.Emergency(req), Source: models.SourceEmergency}
	}
	return &models.GenerationResult{Text: text, Source: models.SourceTemplate}
}

// finish records the per-request aggregates and hands the evaluator a
// fresh snapshot. This runs after every request, whatever the outcome.
func (s *GenerationService) finish(result *models.GenerationResult, start time.Time) {
	s.metrics.Increment(metrics.PathRequestsTotal)
	s.metrics.Increment(metrics.PathSource(result.Source))
	s.metrics.RecordLatency(time.Since(start))

	for _, event := range s.evaluator.Evaluate(s.metrics.Snapshot()) {
		event := event
		s.dispatcher.Dispatch(&event)
	}
}
