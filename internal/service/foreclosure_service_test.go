package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
	"github.com/segyhp/vehicle-loan-engine/internal/mocks"
	"github.com/segyhp/vehicle-loan-engine/internal/repository/repotest"
	"github.com/segyhp/vehicle-loan-engine/internal/service"
	customError "github.com/segyhp/vehicle-loan-engine/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestForecloseLoan_SettlesEverythingInOneEntry(t *testing.T) {
	ctx := context.Background()
	store := repotest.NewStore(t)
	fx := repotest.Seed(t, store)
	loan, _ := repotest.InsertLoan(t, store, fx, dec("50000"), dec("12"), 3, sanction)

	events := new(mocks.MockEventPublisher)
	events.On("Publish", mock.Anything, domain.EventLoanForeclosed, loan.ID, mock.AnythingOfType("*domain.ForeclosureResult")).Return(nil).Once()

	svc := service.NewForeclosureService(store, at(date(2024, 2, 1), service.WithEvents(events))...)

	result, err := svc.ForecloseLoan(ctx, loan.ID, fx.Agent.ID)
	require.NoError(t, err)
	assert.False(t, result.AlreadyClosed)
	assert.True(t, result.SettledAmount.Equal(dec("50000")), "got %s", result.SettledAmount)
	assert.Equal(t, 3, result.Installments)

	repos := store.Repositories()
	got, err := repos.Loans.GetByID(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusClosed, got.Status)
	assert.True(t, got.BalanceAmount.IsZero())

	installments, err := repos.Installments.ListByLoan(ctx, loan.ID)
	require.NoError(t, err)
	for _, inst := range installments {
		assert.Equal(t, domain.InstallmentStatusPaid, inst.Status)
		require.NotNil(t, inst.PaymentMode)
		assert.Equal(t, domain.PaymentModeForeclosure, *inst.PaymentMode)
	}

	entries, err := repos.Ledger.ListByType(ctx, domain.TransactionTypePrepayment, sanction, date(2025, 1, 1))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].DebitAmount.Equal(dec("50000")))
	assert.True(t, entries[0].BalanceAfter.IsZero())

	events.AssertExpectations(t)
}

func TestForecloseLoan_IncludesUnpaidLateFees(t *testing.T) {
	ctx := context.Background()
	store := repotest.NewStore(t)
	fx := repotest.Seed(t, store)
	loan, installments := repotest.InsertLoan(t, store, fx, dec("120000"), decimal.Zero, 12, sanction)

	repos := store.Repositories()
	_, err := repos.Installments.MarkOverdue(ctx, installments[0].ID, dec("200"))
	require.NoError(t, err)
	_, err = repos.Installments.MarkOverdue(ctx, installments[1].ID, dec("200"))
	require.NoError(t, err)

	svc := service.NewForeclosureService(store, at(sweepDay)...)
	result, err := svc.ForecloseLoan(ctx, loan.ID, uuid.Nil)
	require.NoError(t, err)

	assert.True(t, result.SettledAmount.Equal(dec("120400")), "got %s", result.SettledAmount)
	assert.Equal(t, 12, result.Installments)
}

func TestForecloseLoan_ZeroBalanceIsNoop(t *testing.T) {
	ctx := context.Background()
	store := repotest.NewStore(t)
	fx := repotest.Seed(t, store)
	loan, _ := repotest.InsertLoan(t, store, fx, dec("50000"), dec("12"), 3, sanction)
	require.NoError(t, store.Repositories().Loans.UpdateBalance(ctx, loan.ID, decimal.Zero, domain.LoanStatusClosed, time.Now()))

	events := new(mocks.MockEventPublisher)
	svc := service.NewForeclosureService(store, at(date(2024, 2, 1), service.WithEvents(events))...)

	result, err := svc.ForecloseLoan(ctx, loan.ID, fx.Agent.ID)
	require.NoError(t, err)
	assert.True(t, result.AlreadyClosed)
	assert.True(t, result.SettledAmount.IsZero())
	assert.Zero(t, countRows(t, store, "transaction_log"))

	events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestForecloseLoan_Rejections(t *testing.T) {
	ctx := context.Background()
	store := repotest.NewStore(t)
	fx := repotest.Seed(t, store)
	svc := service.NewForeclosureService(store, at(date(2024, 2, 1))...)

	t.Run("unknown loan", func(t *testing.T) {
		_, err := svc.ForecloseLoan(ctx, uuid.New(), uuid.Nil)
		assert.ErrorIs(t, err, customError.ErrNotFound)
	})

	t.Run("unknown agent", func(t *testing.T) {
		loan, _ := repotest.InsertLoan(t, store, fx, dec("50000"), dec("12"), 3, sanction)
		_, err := svc.ForecloseLoan(ctx, loan.ID, uuid.New())
		assert.ErrorIs(t, err, customError.ErrNotFound)
		assert.True(t, balanceOf(t, store, loan.ID).Equal(dec("50000")))
	})

	t.Run("seized loan", func(t *testing.T) {
		loan, _ := repotest.InsertLoan(t, store, fx, dec("50000"), dec("12"), 3, sanction)
		require.NoError(t, store.Repositories().Loans.UpdateStatus(ctx, loan.ID, domain.LoanStatusSeized, time.Now()))

		_, err := svc.ForecloseLoan(ctx, loan.ID, uuid.Nil)
		assert.ErrorIs(t, err, customError.ErrAlreadyClosed)
	})

	t.Run("ledger failure rolls back", func(t *testing.T) {
		loan, _ := repotest.InsertLoan(t, store, fx, dec("50000"), dec("12"), 3, sanction)
		repotest.FailLedgerWrites(t, store)

		_, err := svc.ForecloseLoan(ctx, loan.ID, uuid.Nil)
		assert.Equal(t, customError.ErrCodePersistence, customError.CodeOf(err))

		unpaid, err := store.Repositories().Installments.ListUnpaidByLoan(ctx, loan.ID)
		require.NoError(t, err)
		assert.Len(t, unpaid, 3)
		assert.True(t, balanceOf(t, store, loan.ID).Equal(dec("50000")))
	})
}
