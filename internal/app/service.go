// Package service owns the published run: it reloads the data directory,
// runs the pipeline and answers queries against the latest result.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/propcast/internal/adapters/mq/queue"
	"github.com/okian/propcast/internal/adapters/mq/worker"
	"github.com/okian/propcast/internal/adapters/repository"
	"github.com/okian/propcast/internal/domain/dedupe"
	"github.com/okian/propcast/internal/domain/pipeline"
	"github.com/okian/propcast/internal/domain/projection"
	"github.com/okian/propcast/pkg/logger"
	"github.com/okian/propcast/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize       = 16
	defaultDedupeSize      = 64
	workerShutdownTimeout  = 5 * time.Second
	defaultWorkerTimeout   = time.Minute
	defaultHistoryListSize = 20
)

// TableSource loads the input tables of a run.
type TableSource interface {
	Load(ctx context.Context) (pipeline.Tables, error)
	// Fingerprint changes whenever Load would return different tables.
	Fingerprint() (string, error)
}

// Ledger records published runs for later grading.
type Ledger interface {
	Record(ctx context.Context, run repository.Run) error
}

// Service implements the API dependencies for the recommendation system.
type Service struct {
	mu sync.RWMutex

	// Core components
	source  TableSource
	store   repository.Store
	ledger  Ledger
	deduper dedupe.Deduper
	queue   *queue.InMemoryQueue
	worker  *worker.InMemoryWorker

	// Configuration
	options    pipeline.Options
	weights    projection.Weights
	seed       int64
	queueSize  int
	dedupeSize int
	now        func() time.Time
	newID      func() string

	// State
	latest    *repository.Run
	started   bool
	refreshMu sync.Mutex
	cancel    context.CancelFunc

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets where tables are loaded from.
func WithSource(src TableSource) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithStore sets where published runs are kept.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLedger enables the run ledger.
func WithLedger(l Ledger) Option {
	return func(s *Service) {
		if l != nil {
			s.ledger = l
		}
	}
}

// WithPipelineOptions sets the classifier, scorer and selection policies.
func WithPipelineOptions(opt pipeline.Options) Option {
	return func(s *Service) {
		s.options = opt
	}
}

// WithWeights sets the projection blend.
func WithWeights(w projection.Weights) Option {
	return func(s *Service) {
		if w.L10 >= 0 && w.H2H >= 0 && w.L10+w.H2H > 0 {
			s.weights = w
		}
	}
}

// WithSeed pins slip sampling for every run. Zero picks a seed per run.
func WithSeed(seed int64) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// WithQueueSize sets the capacity of the refresh queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many published fingerprints are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		store:      repository.NewMemoryStore(),
		options:    pipeline.DefaultOptions(),
		weights:    projection.DefaultWeights(),
		queueSize:  defaultQueueSize,
		dedupeSize: defaultDedupeSize,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	return s
}

// Start restores the latest stored run and starts the refresh worker.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting propcast service...")

	if run, err := s.store.Latest(ctx); err == nil {
		s.latest = &run
		s.deduper.SeenAndRecord(ctx, dedupe.Key(run.Fingerprint, run.Seed))
		s.deduper.SeenAndRecord(ctx, dedupe.Key(run.Fingerprint, 0))
		s.logger.Info(ctx, "restored latest run", logger.String("run_id", run.ID))
	}

	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.worker = worker.NewInMemoryWorker(s.queue, s,
		worker.WithLogger(s.logger),
		worker.WithRefreshTimeout(defaultWorkerTimeout),
	)
	workerCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	go s.worker.Run(workerCtx)

	s.started = true
	s.logger.Info(ctx, "propcast service started",
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Bool("ledger", s.ledger != nil),
	)
	return nil
}

// Stop drains the refresh worker and shuts the service down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping propcast service...")

	_ = s.queue.Close()
	shutdownCtx, cancel := context.WithTimeout(ctx, workerShutdownTimeout)
	defer cancel()
	if err := s.worker.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn(ctx, "worker shutdown", logger.Error(err))
	}
	s.cancel()

	s.started = false
	s.logger.Info(ctx, "propcast service stopped")
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":    s.started,
		"queueSize":  s.queueSize,
		"dedupeSize": s.dedupeSize,
		"seen":       s.deduper.Size(),
		"ledger":     s.ledger != nil,
	}
	if n, err := s.store.Count(ctx); err == nil {
		stats["storedRuns"] = n
	}
	if s.started {
		queueLen := s.queue.Len()
		stats["queueLength"] = queueLen
		metrics.UpdateQueueSize(queueLen)
	}
	if s.latest != nil {
		stats["latestRun"] = s.latest.Summary()
	}
	return stats
}
