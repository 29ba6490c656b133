package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
	"github.com/segyhp/vehicle-loan-engine/internal/mocks"
	"github.com/segyhp/vehicle-loan-engine/internal/repository/repotest"
	"github.com/segyhp/vehicle-loan-engine/internal/service"
	customError "github.com/segyhp/vehicle-loan-engine/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// 90 days after seizureDay is 2024-04-01
var seizureDay = date(2024, 6, 30)

func TestInitiateSeizure_DefaultsLoan(t *testing.T) {
	ctx := context.Background()
	store := repotest.NewStore(t)
	fx := repotest.Seed(t, store)
	loan, _ := repotest.InsertLoan(t, store, fx, dec("400000"), dec("12"), 36, sanction)

	events := new(mocks.MockEventPublisher)
	events.On("Publish", mock.Anything, domain.EventSeizureInitiated, loan.ID, mock.Anything).Return(nil).Once()
	events.On("Publish", mock.Anything, domain.EventSeizureCompleted, loan.ID, mock.Anything).Return(nil).Once()

	svc := service.NewSeizureService(store, service.DefaultSeizureThresholdDays, at(seizureDay, service.WithEvents(events))...)

	seizureID, err := svc.InitiateSeizure(ctx, loan.ID, fx.Agent.ID, "EMI default over 90 days", domain.VehicleConditionFair)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, seizureID)

	repos := store.Repositories()
	got, err := repos.Loans.GetByID(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusDefaulted, got.Status)

	seizure, err := repos.Seizures.GetByID(ctx, seizureID)
	require.NoError(t, err)
	assert.Equal(t, domain.SeizureStatusInitiated, seizure.Status)
	assert.True(t, seizure.SeizureDate.Equal(seizureDay))

	vehicle, err := repos.Vehicles.GetByID(ctx, loan.VehicleID)
	require.NoError(t, err)
	assert.Equal(t, domain.VehicleConditionFair, vehicle.Condition)

	require.NoError(t, svc.CompleteSeizure(ctx, seizureID, domain.VehicleConditionPoor))

	got, err = repos.Loans.GetByID(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusSeized, got.Status)

	vehicle, err = repos.Vehicles.GetByID(ctx, loan.VehicleID)
	require.NoError(t, err)
	assert.Equal(t, domain.VehicleConditionPoor, vehicle.Condition)

	err = svc.CompleteSeizure(ctx, seizureID, "")
	assert.ErrorIs(t, err, customError.ErrNotEligible)

	events.AssertExpectations(t)
}

func TestInitiateSeizure_Eligibility(t *testing.T) {
	tests := []struct {
		name     string
		sanction string
		status   string
		eligible bool
	}{
		{"first installment 135 days late", "2024-01-15", domain.LoanStatusActive, true},
		{"exactly 90 days late", "2024-03-01", domain.LoanStatusActive, false},
		{"nothing due yet", "2024-06-15", domain.LoanStatusActive, false},
		{"already defaulted", "2024-01-15", domain.LoanStatusDefaulted, false},
		{"closed", "2024-01-15", domain.LoanStatusClosed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := repotest.NewStore(t)
			fx := repotest.Seed(t, store)

			start, err := parseDay(tt.sanction)
			require.NoError(t, err)
			loan, _ := repotest.InsertLoan(t, store, fx, dec("400000"), dec("12"), 36, start)
			if tt.status != domain.LoanStatusActive {
				require.NoError(t, store.Repositories().Loans.UpdateStatus(ctx, loan.ID, tt.status, start))
			}

			svc := service.NewSeizureService(store, service.DefaultSeizureThresholdDays, at(seizureDay)...)
			_, err = svc.InitiateSeizure(ctx, loan.ID, fx.Agent.ID, "EMI default", domain.VehicleConditionGood)

			if tt.eligible {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, customError.ErrNotEligible)
			assert.Zero(t, countRows(t, store, "seizures"))

			got, err := store.Repositories().Loans.GetByID(ctx, loan.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.status, got.Status)
		})
	}
}

func TestInitiateSeizure_Validation(t *testing.T) {
	store := repotest.NewStore(t)
	svc := service.NewSeizureService(store, service.DefaultSeizureThresholdDays, at(seizureDay)...)

	_, err := svc.InitiateSeizure(context.Background(), uuid.New(), uuid.Nil, " ", "Wrecked")
	require.Error(t, err)

	var be *customError.BusinessError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, customError.ErrCodeValidation, be.Code)
	assert.Len(t, be.Details, 3)

	_, err = svc.InitiateSeizure(context.Background(), uuid.New(), uuid.New(), "default", domain.VehicleConditionGood)
	assert.ErrorIs(t, err, customError.ErrNotFound)

	err = svc.CompleteSeizure(context.Background(), uuid.New(), "")
	assert.ErrorIs(t, err, customError.ErrNotFound)
}

func TestCompleteSeizure_SettledLoanStaysClosed(t *testing.T) {
	ctx := context.Background()
	store := repotest.NewStore(t)
	fx := repotest.Seed(t, store)
	loan, _ := repotest.InsertLoan(t, store, fx, dec("400000"), dec("12"), 36, sanction)

	seizures := service.NewSeizureService(store, service.DefaultSeizureThresholdDays, at(seizureDay)...)
	foreclosures := service.NewForeclosureService(store, at(seizureDay)...)

	seizureID, err := seizures.InitiateSeizure(ctx, loan.ID, fx.Agent.ID, "EMI default over 90 days", domain.VehicleConditionFair)
	require.NoError(t, err)

	result, err := foreclosures.ForecloseLoan(ctx, loan.ID, fx.Agent.ID)
	require.NoError(t, err)
	assert.True(t, result.SettledAmount.IsPositive())

	err = seizures.CompleteSeizure(ctx, seizureID, domain.VehicleConditionPoor)
	assert.ErrorIs(t, err, customError.ErrNotEligible)

	repos := store.Repositories()
	got, err := repos.Loans.GetByID(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusClosed, got.Status)
	assert.True(t, got.BalanceAmount.IsZero())

	seizure, err := repos.Seizures.GetByID(ctx, seizureID)
	require.NoError(t, err)
	assert.Equal(t, domain.SeizureStatusInitiated, seizure.Status)

	vehicle, err := repos.Vehicles.GetByID(ctx, loan.VehicleID)
	require.NoError(t, err)
	assert.Equal(t, domain.VehicleConditionFair, vehicle.Condition)
}
