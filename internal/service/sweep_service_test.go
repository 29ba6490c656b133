package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
	"github.com/segyhp/vehicle-loan-engine/internal/mocks"
	"github.com/segyhp/vehicle-loan-engine/internal/repository/repotest"
	"github.com/segyhp/vehicle-loan-engine/internal/service"
	"github.com/segyhp/vehicle-loan-engine/pkg/amortization"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// 40 days after the first due date of a loan sanctioned on 2024-01-15
var sweepDay = date(2024, 3, 26)

func TestSweep_MarksOverdueAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := repotest.NewStore(t)
	fx := repotest.Seed(t, store)
	loan, installments := repotest.InsertLoan(t, store, fx, dec("120000"), decimal.Zero, 12, sanction)

	cache := new(mocks.MockLoanCache)
	events := new(mocks.MockEventPublisher)
	cache.On("Invalidate", mock.Anything, loan.ID).Return(nil).Once()
	events.On("Publish", mock.Anything, domain.EventOverdueSwept, uuid.Nil, mock.Anything).Return(nil).Twice()

	svc := service.NewOverdueSweepService(store, amortization.DefaultLateFeePolicy(),
		at(sweepDay, service.WithCache(cache), service.WithEvents(events))...)

	first := svc.Sweep(ctx, sweepDay)
	assert.Equal(t, 2, first.Scanned)
	assert.Equal(t, 2, first.Updated)
	assert.Zero(t, first.Failed)

	got, err := store.Repositories().Installments.GetByID(ctx, installments[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InstallmentStatusOverdue, got.Status)
	assert.True(t, got.LateFee.Equal(dec("200")), "got %s", got.LateFee)

	second := svc.Sweep(ctx, sweepDay)
	assert.Equal(t, 2, second.Scanned)
	assert.Zero(t, second.Updated)
	assert.Equal(t, 2, second.Unchanged)

	assert.True(t, balanceOf(t, store, loan.ID).Equal(dec("120000")), "sweep never touches balances")

	cache.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestSweep_RecomputesFeeAsDaysPass(t *testing.T) {
	ctx := context.Background()
	store := repotest.NewStore(t)
	fx := repotest.Seed(t, store)
	_, installments := repotest.InsertLoan(t, store, fx, dec("120000"), decimal.Zero, 12, sanction)
	svc := service.NewOverdueSweepService(store, amortization.DefaultLateFeePolicy(), at(sweepDay)...)

	svc.Sweep(ctx, sweepDay)
	later := svc.Sweep(ctx, sweepDay.AddDate(0, 0, 10))
	assert.Positive(t, later.Updated)

	got, err := store.Repositories().Installments.GetByID(ctx, installments[0].ID)
	require.NoError(t, err)
	assert.True(t, got.LateFee.Equal(dec("400")), "got %s", got.LateFee)
}

func TestSweep_SkipsPaidAndFutureInstallments(t *testing.T) {
	ctx := context.Background()
	store := repotest.NewStore(t)
	fx := repotest.Seed(t, store)
	_, installments := repotest.InsertLoan(t, store, fx, dec("120000"), decimal.Zero, 12, sanction)
	require.NoError(t, store.Repositories().Installments.MarkPaid(ctx, installments[0].ID, date(2024, 2, 15), domain.PaymentModeCash, decimal.Zero))

	svc := service.NewOverdueSweepService(store, amortization.DefaultLateFeePolicy(), at(sweepDay)...)
	result := svc.Sweep(ctx, sweepDay)

	assert.Equal(t, 1, result.Scanned)
	assert.Equal(t, 1, result.Updated)

	paid, err := store.Repositories().Installments.GetByID(ctx, installments[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InstallmentStatusPaid, paid.Status)
	assert.True(t, paid.LateFee.IsZero())

	future, err := store.Repositories().Installments.GetByID(ctx, installments[5].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InstallmentStatusPending, future.Status)
}

func TestSweep_RowFailuresAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := repotest.NewStore(t)
	fx := repotest.Seed(t, store)
	_, broken := repotest.InsertLoan(t, store, fx, dec("120000"), decimal.Zero, 12, sanction)
	_, healthy := repotest.InsertLoan(t, store, fx, dec("120000"), decimal.Zero, 12, sanction)

	_, err := store.DB().Exec(fmt.Sprintf(`CREATE TRIGGER fail_one BEFORE UPDATE ON installments
		WHEN NEW.id = '%s' BEGIN SELECT RAISE(ABORT, 'row locked'); END;`, broken[0].ID))
	require.NoError(t, err)

	svc := service.NewOverdueSweepService(store, amortization.DefaultLateFeePolicy(), at(sweepDay)...)
	result := svc.Sweep(ctx, sweepDay)

	assert.Equal(t, 4, result.Scanned)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 3, result.Updated)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], broken[0].ID.String())

	got, err := store.Repositories().Installments.GetByID(ctx, healthy[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InstallmentStatusOverdue, got.Status)
}

func TestSweep_StopsOnCancelledContext(t *testing.T) {
	store := repotest.NewStore(t)
	fx := repotest.Seed(t, store)
	repotest.InsertLoan(t, store, fx, dec("120000"), decimal.Zero, 12, sanction)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	svc := service.NewOverdueSweepService(store, amortization.DefaultLateFeePolicy(), at(sweepDay)...)

	cancel()
	result := svc.Sweep(ctx, sweepDay)
	assert.Zero(t, result.Updated)
	assert.NotEmpty(t, result.Errors)
}
