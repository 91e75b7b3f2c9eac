// Package syncer replicates committed snapshots to a secondary store in the
// background. Replication is fire-and-forget: the trade path never waits on
// it, and only the newest snapshot matters (last-write-wins).
package syncer

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/sarraf/treasury/internal/infrastructure/metrics"
	"github.com/sarraf/treasury/internal/usecase"
)

// Syncer debounces snapshot uploads. Rapid commit bursts collapse into one
// upload of the latest state.
type Syncer struct {
	store    usecase.BucketStore
	logger   zerolog.Logger
	metrics  *metrics.Metrics
	debounce time.Duration
	timeout  time.Duration

	mu      sync.Mutex
	pending map[string]json.RawMessage

	kick chan struct{}
}

// Option configures optional syncer collaborators.
type Option func(*Syncer)

// WithMetrics attaches sync metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Syncer) { s.metrics = m }
}

// WithDebounce overrides the upload debounce window.
func WithDebounce(d time.Duration) Option {
	return func(s *Syncer) { s.debounce = d }
}

// WithTimeout overrides the per-upload retry budget.
func WithTimeout(d time.Duration) Option {
	return func(s *Syncer) { s.timeout = d }
}

// New creates a syncer around a bucket store. Run must be started for
// enqueued snapshots to go anywhere.
func New(store usecase.BucketStore, logger zerolog.Logger, opts ...Option) *Syncer {
	s := &Syncer{
		store:    store,
		logger:   logger,
		debounce: 2 * time.Second,
		timeout:  15 * time.Second,
		kick:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enqueue replaces the pending snapshot and wakes the worker. Never blocks.
func (s *Syncer) Enqueue(buckets map[string]json.RawMessage) {
	s.mu.Lock()
	s.pending = buckets
	s.mu.Unlock()

	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Run uploads pending snapshots until the context is cancelled. A final
// flush runs on shutdown so the last committed state is not lost.
func (s *Syncer) Run(ctx context.Context) error {
	s.logger.Info().
		Dur("debounce", s.debounce).
		Msg("snapshot syncer started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("snapshot syncer shutting down")
			s.finalFlush()
			return ctx.Err()

		case <-s.kick:
			timer := time.NewTimer(s.debounce)
			select {
			case <-ctx.Done():
				timer.Stop()
				s.logger.Info().Msg("snapshot syncer shutting down")
				s.finalFlush()
				return ctx.Err()
			case <-timer.C:
			}
			s.flush(ctx)
		}
	}
}

func (s *Syncer) takePending() map[string]json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.pending
	s.pending = nil
	return p
}

// flush uploads the latest pending snapshot with exponential backoff.
func (s *Syncer) flush(ctx context.Context) {
	buckets := s.takePending()
	if buckets == nil {
		return
	}

	if s.metrics != nil {
		s.metrics.SyncAttempts.Inc()
	}
	start := time.Now()

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = s.timeout

	err := backoff.Retry(func() error {
		saveCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		return s.store.Save(saveCtx, buckets)
	}, backoff.WithContext(b, ctx))

	if err != nil {
		if s.metrics != nil {
			s.metrics.SyncFailures.Inc()
		}
		s.logger.Warn().Err(err).Msg("snapshot sync failed")
		return
	}

	if s.metrics != nil {
		s.metrics.SyncDuration.Observe(time.Since(start).Seconds())
	}
	s.logger.Debug().
		Int("buckets", len(buckets)).
		Dur("took", time.Since(start)).
		Msg("snapshot synced")
}

// finalFlush makes one best-effort upload on shutdown, outside the cancelled
// run context.
func (s *Syncer) finalFlush() {
	buckets := s.takePending()
	if buckets == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.store.Save(ctx, buckets); err != nil {
		s.logger.Warn().Err(err).Msg("final snapshot sync failed")
	}
}
