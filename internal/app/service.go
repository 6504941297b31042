// Package service implements the match engine use cases behind the HTTP API:
// match evaluation, profile management, likes and date ideas.
package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/vibecheck/internal/adapters/likes"
	"github.com/okian/vibecheck/internal/adapters/mq/notify"
	eventqueue "github.com/okian/vibecheck/internal/adapters/mq/queue"
	workerpool "github.com/okian/vibecheck/internal/adapters/mq/worker"
	"github.com/okian/vibecheck/internal/adapters/repository"
	"github.com/okian/vibecheck/internal/domain/dateideas"
	"github.com/okian/vibecheck/internal/domain/scoring"
	"github.com/okian/vibecheck/internal/domain/taste"
	"github.com/okian/vibecheck/pkg/logger"
)

const (
	defaultQueueSize  = 1024
	defaultListLimit  = 10
	defaultMaxLimit   = 50
	stopDrainDeadline = 10 * time.Second
)

// Insights recommends date venues for a set of preferences.
type Insights interface {
	Recommend(ctx context.Context, r dateideas.Request) ([]dateideas.Recommendation, error)
}

// Service wires the domain packages to their stores and the event pipeline.
type Service struct {
	mu sync.Mutex

	store    repository.Store
	likes    likes.Store
	policy   likes.MatchPolicy
	analyzer *taste.Analyzer
	clusters *taste.ClusterSet
	scorer   *scoring.Scorer
	insights Insights
	notifier workerpool.Notifier
	rng      taste.Rand

	queue      *eventqueue.InMemoryQueue
	workerPool *workerpool.Pool

	workerCount int
	queueSize   int
	maxLimit    int

	now   func() time.Time
	newID func() string

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the profile store.
func WithStore(s repository.Store) Option {
	return func(svc *Service) {
		if s != nil {
			svc.store = s
		}
	}
}

// WithLikes sets the likes store.
func WithLikes(l likes.Store) Option {
	return func(svc *Service) {
		if l != nil {
			svc.likes = l
		}
	}
}

// WithMatchPolicy sets the isMatch predicate.
func WithMatchPolicy(p likes.MatchPolicy) Option {
	return func(svc *Service) {
		if p != nil {
			svc.policy = p
		}
	}
}

// WithAnalyzer sets the nuance analyzer. It takes precedence over
// WithClusters and WithRand for nuance generation.
func WithAnalyzer(a *taste.Analyzer) Option {
	return func(svc *Service) {
		if a != nil {
			svc.analyzer = a
		}
	}
}

// WithClusters sets the keyword clusters for the default analyzer.
func WithClusters(cs taste.ClusterSet) Option {
	return func(svc *Service) {
		svc.clusters = &cs
	}
}

// WithScorer sets the compatibility scorer.
func WithScorer(s *scoring.Scorer) Option {
	return func(svc *Service) {
		if s != nil {
			svc.scorer = s
		}
	}
}

// WithInsights sets the date idea recommender. Without one, date ideas come
// from the built-in catalogue.
func WithInsights(i Insights) Option {
	return func(svc *Service) {
		svc.insights = i
	}
}

// WithNotifier sets where match events are delivered.
func WithNotifier(n workerpool.Notifier) Option {
	return func(svc *Service) {
		if n != nil {
			svc.notifier = n
		}
	}
}

// WithRand sets the random source for flavour text and vibe percentages.
// It must be safe for concurrent use if the Service serves concurrent calls.
func WithRand(r taste.Rand) Option {
	return func(svc *Service) {
		if r != nil {
			svc.rng = r
		}
	}
}

// WithWorkerCount sets the number of event delivery workers.
func WithWorkerCount(count int) Option {
	return func(svc *Service) {
		if count > 0 {
			svc.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the match event queue.
func WithQueueSize(size int) Option {
	return func(svc *Service) {
		if size > 0 {
			svc.queueSize = size
		}
	}
}

// WithMaxListLimit caps the page size of ListProfiles.
func WithMaxListLimit(n int) Option {
	return func(svc *Service) {
		if n > 0 {
			svc.maxLimit = n
		}
	}
}

// WithClock sets the time source for events and vibe timestamps.
func WithClock(now func() time.Time) Option {
	return func(svc *Service) {
		if now != nil {
			svc.now = now
		}
	}
}

// WithIDGenerator sets how match event ids are made.
func WithIDGenerator(gen func() string) Option {
	return func(svc *Service) {
		if gen != nil {
			svc.newID = gen
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(svc *Service) {
		if l != nil {
			svc.logger = l
		}
	}
}

// New constructs a Service. Unset collaborators default to in-memory stores,
// the always-match policy and a log-only notifier.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   defaultQueueSize,
		maxLimit:    defaultMaxLimit,
		rng:         taste.DefaultRand,
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.likes == nil {
		s.likes = likes.NewMemoryStore()
	}
	if s.policy == nil {
		s.policy = likes.Always
	}
	if s.analyzer == nil {
		aopts := []taste.Option{taste.WithRand(s.rng)}
		if s.clusters != nil {
			aopts = append(aopts, taste.WithClusters(*s.clusters))
		}
		s.analyzer = taste.NewAnalyzer(aopts...)
	}
	if s.scorer == nil {
		s.scorer = scoring.NewScorer()
	}
	if s.notifier == nil {
		s.notifier = notify.NewLogNotifier(s.logger)
	}
	s.queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	return s
}

// Start launches the event delivery workers. Events evaluated before Start
// wait in the queue.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.workerPool = workerpool.NewPool(s.workerCount, s.queue, s.notifier,
		workerpool.WithLogger(s.logger.Named("worker")))
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "match service started",
		logger.Int("workers", s.workerPool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.String("scoreDivisor", string(s.scorer.Policy())),
		logger.Int("clustersVersion", s.analyzer.Clusters().Version),
	)
	return nil
}

// Stop closes the event queue and waits for queued events to be delivered.
// Evaluations after Stop still succeed but their events are dropped. A
// stopped Service cannot be started again.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return s.queue.Close()
	}

	s.logger.Info(ctx, "stopping match service...")
	drainCtx, cancel := context.WithTimeout(ctx, stopDrainDeadline)
	defer cancel()
	err := s.workerPool.Shutdown(drainCtx)

	s.started = false
	s.logger.Info(ctx, "match service stopped", logger.Int("undelivered", s.queue.Len()))
	return err
}

// QueueLen returns the number of undelivered match events.
func (s *Service) QueueLen() int {
	return s.queue.Len()
}

// Stats describes the running service.
type Stats struct {
	Started     bool   `json:"started"`
	Workers     int    `json:"workers"`
	QueueLength int    `json:"queueLength"`
	QueueSize   int    `json:"queueSize"`
	Divisor     string `json:"scoreDivisor"`
	Clusters    int    `json:"clustersVersion"`
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{
		Started:     s.started,
		QueueLength: s.queue.Len(),
		QueueSize:   s.queue.Capacity(),
		Divisor:     string(s.scorer.Policy()),
		Clusters:    s.analyzer.Clusters().Version,
	}
	if s.workerPool != nil && s.started {
		st.Workers = s.workerPool.Size()
	}
	return st
}
