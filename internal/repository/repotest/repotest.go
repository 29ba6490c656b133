// Package repotest builds throwaway in-memory stores for tests.
package repotest

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
	"github.com/segyhp/vehicle-loan-engine/internal/repository"
	"github.com/segyhp/vehicle-loan-engine/pkg/amortization"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var seq atomic.Int64

// DSN returns a private in-memory sqlite database name.
func DSN() string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on&_txlock=immediate&_busy_timeout=5000", uuid.NewString())
}

// NewStore opens a migrated in-memory store that is closed when the test ends.
func NewStore(t testing.TB) *repository.Store {
	t.Helper()
	ctx := context.Background()

	store, err := repository.Open(ctx, repository.Options{
		Driver:      repository.DriverSQLite,
		DSN:         DSN(),
		LockTimeout: time.Second,
	})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))

	t.Cleanup(func() { _ = store.Close() })
	return store
}

// Fixture is the reference data every loan needs.
type Fixture struct {
	Branch   *domain.Branch
	Agent    *domain.Agent
	Customer *domain.Customer
}

// Seed inserts one branch, one agent and one customer.
func Seed(t testing.TB, store *repository.Store) *Fixture {
	t.Helper()
	ctx := context.Background()
	repos := store.Repositories()
	now := time.Now().UTC()

	branch := &domain.Branch{
		ID:          uuid.New(),
		BranchName:  "Pune Central",
		ManagerName: "R. Kulkarni",
		City:        "Pune",
		Phone:       "02012345678",
		CreatedAt:   now,
	}
	require.NoError(t, repos.Branches.Create(ctx, branch))

	agent := &domain.Agent{
		ID:        uuid.New(),
		BranchID:  branch.ID,
		Name:      "Anita Desai",
		Role:      "Loan Officer",
		Phone:     "9800000001",
		Email:     "anita@example.com",
		HireDate:  time.Date(2020, 4, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt: now,
	}
	require.NoError(t, repos.Agents.Create(ctx, agent))

	return &Fixture{
		Branch:   branch,
		Agent:    agent,
		Customer: SeedCustomer(t, store, "Rahul", "Sharma"),
	}
}

// SeedCustomer inserts a customer with unique KYC numbers.
func SeedCustomer(t testing.TB, store *repository.Store, first, last string) *domain.Customer {
	t.Helper()
	n := seq.Add(1)
	now := time.Now().UTC()

	customer := &domain.Customer{
		ID:           uuid.New(),
		FirstName:    first,
		LastName:     last,
		Phone:        fmt.Sprintf("98%08d", n),
		Email:        fmt.Sprintf("customer%d@example.com", n),
		Address:      "12 MG Road",
		City:         "Pune",
		Pincode:      "411001",
		DateOfBirth:  time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC),
		AadharNumber: fmt.Sprintf("%012d", n),
		PANNumber:    fmt.Sprintf("ABCDE%04dF", n%10000),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, store.Repositories().Customers.Create(context.Background(), customer))
	return customer
}

// InsertLoan writes an Active loan with its vehicle and full schedule, bypassing
// origination rules. Use it to set up states origination would not produce.
func InsertLoan(t testing.TB, store *repository.Store, fx *Fixture, amount decimal.Decimal, ratePercent decimal.Decimal, tenure int, sanction time.Time) (*domain.Loan, []*domain.Installment) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	n := seq.Add(1)

	emi, err := amortization.CalculateEMI(amount, ratePercent, tenure)
	require.NoError(t, err)
	total, err := amortization.CalculateTotalPayable(emi, tenure)
	require.NoError(t, err)
	plans, err := amortization.BuildSchedule(amount, ratePercent, tenure, sanction)
	require.NoError(t, err)

	vehicle := &domain.Vehicle{
		ID:              uuid.New(),
		CustomerID:      fx.Customer.ID,
		VehicleNo:       fmt.Sprintf("MH12AB%04d", n%10000),
		Make:            "Maruti",
		Model:           "Swift",
		Year:            2022,
		MarketValue:     amount.Mul(decimal.NewFromInt(2)),
		InsuranceExpiry: sanction.AddDate(1, 0, 0),
		Condition:       domain.VehicleConditionGood,
		CreatedAt:       now,
	}

	loan := &domain.Loan{
		ID:            uuid.New(),
		CustomerID:    fx.Customer.ID,
		VehicleID:     vehicle.ID,
		AgentID:       fx.Agent.ID,
		BranchID:      fx.Branch.ID,
		LoanAmount:    amount,
		SanctionDate:  sanction,
		TenureMonths:  tenure,
		InterestRate:  ratePercent,
		EMIAmount:     emi,
		TotalPayable:  total,
		BalanceAmount: amount,
		Status:        domain.LoanStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	installments := make([]*domain.Installment, 0, len(plans))
	for _, p := range plans {
		installments = append(installments, &domain.Installment{
			ID:              uuid.New(),
			LoanID:          loan.ID,
			InstallmentNo:   p.Number,
			DueDate:         p.DueDate,
			PrincipalAmount: p.Principal,
			InterestAmount:  p.Interest,
			TotalAmount:     p.Total,
			LateFee:         decimal.Zero,
			Status:          domain.InstallmentStatusPending,
			CreatedAt:       now,
		})
	}

	err = store.WithTx(ctx, func(r *repository.Repositories) error {
		if err := r.Vehicles.Create(ctx, vehicle); err != nil {
			return err
		}
		if err := r.Loans.Create(ctx, loan); err != nil {
			return err
		}
		return r.Installments.CreateBatch(ctx, installments)
	})
	require.NoError(t, err)

	return loan, installments
}

// FailLedgerWrites makes every insert into the transaction log abort, so the
// caller can observe a rollback of everything written before it.
func FailLedgerWrites(t testing.TB, store *repository.Store) {
	t.Helper()
	_, err := store.DB().Exec(`CREATE TRIGGER fail_ledger BEFORE INSERT ON transaction_log
		BEGIN SELECT RAISE(ABORT, 'ledger unavailable'); END;`)
	require.NoError(t, err)
}
