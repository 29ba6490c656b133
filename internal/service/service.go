package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
	"github.com/segyhp/vehicle-loan-engine/internal/repository"
	customError "github.com/segyhp/vehicle-loan-engine/pkg/errors"
	"github.com/segyhp/vehicle-loan-engine/pkg/utils"
	"github.com/sirupsen/logrus"
)

// Store is the transactional ledger the services run against.
type Store interface {
	Repositories() *repository.Repositories
	WithTx(ctx context.Context, fn func(r *repository.Repositories) error) error
	WithLoanLock(ctx context.Context, loanID uuid.UUID, fn func(r *repository.Repositories, loan *domain.Loan) error) error
}

// LoanCache keeps rendered loan views. A miss returns (nil, false, nil).
type LoanCache interface {
	GetLoanDetail(ctx context.Context, loanID uuid.UUID) (*domain.LoanDetail, bool, error)
	SetLoanDetail(ctx context.Context, detail *domain.LoanDetail) error
	Invalidate(ctx context.Context, loanID uuid.UUID) error
}

// EventPublisher announces committed lifecycle changes.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, loanID uuid.UUID, payload interface{}) error
}

// Option configures the optional collaborators of a service
type Option func(*base)

func WithCache(c LoanCache) Option {
	return func(b *base) { b.cache = c }
}

func WithEvents(p EventPublisher) Option {
	return func(b *base) { b.events = p }
}

func WithLogger(l *logrus.Logger) Option {
	return func(b *base) { b.log = l }
}

// WithClock overrides the source of "today"
func WithClock(now func() time.Time) Option {
	return func(b *base) { b.now = now }
}

type base struct {
	store  Store
	cache  LoanCache
	events EventPublisher
	log    *logrus.Logger
	now    func() time.Time
}

func newBase(store Store, opts []Option) base {
	b := base{
		store: store,
		log:   logrus.StandardLogger(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *base) today() time.Time {
	return utils.DateOf(b.now())
}

func (b *base) timestamp() time.Time {
	return b.now().UTC()
}

// afterCommit drops the cached view of the loan and publishes the event.
// Both are best effort: the change is already durable.
func (b *base) afterCommit(ctx context.Context, loanID uuid.UUID, eventType string, payload interface{}) {
	if b.cache != nil {
		if err := b.cache.Invalidate(ctx, loanID); err != nil {
			b.log.WithError(customError.WrapCacheError(err)).WithField("loan_id", loanID).Warn("Failed to invalidate loan cache")
		}
	}
	if b.events != nil && eventType != "" {
		if err := b.events.Publish(ctx, eventType, loanID, payload); err != nil {
			b.log.WithError(err).WithFields(logrus.Fields{
				"loan_id": loanID,
				"event":   eventType,
			}).Warn("Failed to publish event")
		}
	}
}

// storeError maps repository failures onto the business error taxonomy.
// Business errors raised inside a transaction pass through unchanged.
func storeError(err error) error {
	if err == nil {
		return nil
	}

	var be *customError.BusinessError
	switch {
	case errors.As(err, &be):
		return err
	case errors.Is(err, repository.ErrConflict):
		return customError.WrapConcurrencyConflict(err)
	default:
		return customError.WrapPersistenceError(err)
	}
}

// lookupError reports a missing entity as NOT_FOUND and anything else as a store failure.
func lookupError(err error, entity string, id uuid.UUID) error {
	var be *customError.BusinessError
	if errors.As(err, &be) {
		return err
	}
	if errors.Is(err, repository.ErrNotFound) {
		return customError.WrapNotFound(entity, id.String())
	}
	return storeError(err)
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, customError.NewValidationError(field + " must be a date in YYYY-MM-DD format")
	}
	return t, nil
}
