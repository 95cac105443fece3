// Package billing implements the mutating ledger operations: adding a
// customer, recording a payment, raising the monthly charge and the
// two-phase removal.
//
// Every operation takes the current ledger.Session and returns the next one.
// Validation and state errors return the input session unchanged. A
// persistence error returns the mutated session together with the error:
// memory is not rolled back, and the next successful save brings the backing
// file back in line.
package billing

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/leapledger/internal/ledger"
	"github.com/leapstack-labs/leapledger/internal/notify"
	"github.com/leapstack-labs/leapledger/pkg/core"
)

// Persister writes the full ledger to durable storage.
type Persister interface {
	Save(customers []core.Customer) error
}

// Notifier sends the payment confirmation for a phone number.
type Notifier interface {
	Dispatch(ctx context.Context, phone, message string) (*notify.Dispatch, error)
}

// Service runs billing operations against a Persister.
type Service struct {
	store    Persister
	notifier Notifier
	journal  core.Journal
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier enables payment notifications.
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithJournal records committed operations in j.
func WithJournal(j core.Journal) Option {
	return func(s *Service) {
		s.journal = j
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a billing service persisting through store.
func NewService(store Persister, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// record appends ev to the journal. Journal failures are logged only.
func (s *Service) record(ctx context.Context, kind core.EventKind, c core.Customer, amount float64) {
	if s.journal == nil {
		return
	}
	if _, err := s.journal.Record(ctx, core.NewEvent(kind, c, amount)); err != nil {
		s.logger.Warn("failed to journal event", "kind", kind, "customer", c.Name, "error", err)
	}
}

// persist saves the session's customers.
func (s *Service) persist(sess ledger.Session) error {
	if err := s.store.Save(sess.Customers()); err != nil {
		s.logger.Error("failed to save ledger", "error", err)
		return err
	}
	return nil
}
