package usecase

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/sarraf/treasury/internal/book"
	"github.com/sarraf/treasury/internal/domain"
	"github.com/sarraf/treasury/internal/infrastructure/metrics"
)

// Service owns the live book and exposes every trade operation. Operations
// mutate a clone of the book and commit it only after the whole operation
// succeeded, so a failing leg can never leave partial state behind.
//
// The mutex makes the single-writer model hold under a concurrent HTTP
// adapter; there is no finer-grained locking because there is no internal
// parallelism to protect.
type Service struct {
	mu   sync.Mutex
	book *book.Book

	idGen    IDGenerator
	groupGen IDGenerator
	clock    Clock
	logger   zerolog.Logger
	metrics  *metrics.Metrics
	syncer   Syncer
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithMetrics attaches operation metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithSyncer attaches a fire-and-forget snapshot syncer.
func WithSyncer(sy Syncer) Option {
	return func(s *Service) { s.syncer = sy }
}

// WithClock overrides the wall clock.
func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// NewService creates a service around an existing book.
func NewService(b *book.Book, idGen, groupGen IDGenerator, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		book:     b,
		idGen:    idGen,
		groupGen: groupGen,
		clock:    systemClock{},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// mutate runs fn against a clone of the book and commits the clone when fn
// succeeds. The committed snapshot is handed to the syncer without blocking.
func (s *Service) mutate(op string, fn func(b *book.Book) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.clock.Now()

	clone, err := s.book.Clone()
	if err != nil {
		s.logger.Error().Err(err).Str("op", op).Msg("failed to clone book")
		return err
	}

	if err := fn(clone); err != nil {
		s.logger.Warn().Err(err).Str("op", op).Msg("operation rejected")
		if s.metrics != nil {
			s.metrics.OperationsTotal.WithLabelValues(op, "error").Inc()
		}
		return err
	}

	s.book = clone

	if s.metrics != nil {
		s.metrics.OperationsTotal.WithLabelValues(op, "ok").Inc()
		s.metrics.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
	s.logger.Info().Str("op", op).Msg("operation committed")

	if s.syncer != nil {
		if buckets, err := clone.ExportBuckets(); err == nil {
			s.syncer.Enqueue(buckets)
		} else {
			s.logger.Error().Err(err).Msg("failed to export snapshot for sync")
		}
	}

	return nil
}

// view runs fn against the live book under the lock. fn must not mutate.
func (s *Service) view(fn func(b *book.Book)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.book)
}

// appendTx stamps and appends a transaction, deriving the audit currency from
// the asset when the caller left it empty.
func (s *Service) appendTx(b *book.Book, tx *domain.Transaction) {
	if tx.ID == "" {
		tx.ID = s.idGen.Generate()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = s.clock.Now()
	}
	if tx.Currency == "" {
		if c := tx.Asset.Currency(); c != "" {
			tx.Currency = c
		} else {
			tx.Currency = domain.CurrencyLYD
		}
	}
	b.Append(tx)
}

// TotalDebts returns the sum of remaining, unarchived debts in a currency.
func (s *Service) TotalDebts(currency string) decimal.Decimal {
	var total decimal.Decimal
	s.view(func(b *book.Book) { total = b.TotalDebts(currency) })
	return total
}

// TotalReceivables returns the sum of remaining, unarchived receivables in a
// currency.
func (s *Service) TotalReceivables(currency string) decimal.Decimal {
	var total decimal.Decimal
	s.view(func(b *book.Book) { total = b.TotalReceivables(currency) })
	return total
}

// Balance returns the current balance of an asset.
func (s *Service) Balance(asset domain.Asset) decimal.Decimal {
	var bal decimal.Decimal
	s.view(func(b *book.Book) { bal = b.Balance(asset) })
	return bal
}

// Snapshot returns a deep copy of the current book for read-only inspection.
func (s *Service) Snapshot() (*book.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.Clone()
}

// Export marshals the current state as one JSON document, one key per bucket.
func (s *Service) Export() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.ExportDocument()
}

// Import replaces the whole state from a full JSON document.
func (s *Service) Import(data []byte) error {
	imported, err := book.ImportDocument(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.book = imported
	s.logger.Info().Msg("state imported")

	if s.syncer != nil {
		if buckets, err := imported.ExportBuckets(); err == nil {
			s.syncer.Enqueue(buckets)
		}
	}
	return nil
}

// ExportBuckets marshals the current state as per-bucket blobs.
func (s *Service) ExportBuckets() (map[string]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.ExportBuckets()
}

// PurgeArchived removes already-archived debt and receivable rows.
func (s *Service) PurgeArchived() (int, error) {
	purged := 0
	err := s.mutate("purge_archived", func(b *book.Book) error {
		purged = b.PurgeArchived()
		return nil
	})
	return purged, err
}
