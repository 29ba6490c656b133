package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
	customError "github.com/segyhp/vehicle-loan-engine/pkg/errors"
	"github.com/segyhp/vehicle-loan-engine/pkg/utils"
	"github.com/shopspring/decimal"
)

// LoanQueryService serves the read side. Nothing here writes to the store.
type LoanQueryService struct {
	base
	seizureThresholdDays int
}

func NewLoanQueryService(store Store, seizureThresholdDays int, opts ...Option) *LoanQueryService {
	if seizureThresholdDays <= 0 {
		seizureThresholdDays = DefaultSeizureThresholdDays
	}
	return &LoanQueryService{
		base:                 newBase(store, opts),
		seizureThresholdDays: seizureThresholdDays,
	}
}

// GetLoan returns the loan with its vehicle and installment counters, read
// through the cache when one is configured.
func (s *LoanQueryService) GetLoan(ctx context.Context, id uuid.UUID) (*domain.LoanDetail, error) {
	if s.cache != nil {
		detail, ok, err := s.cache.GetLoanDetail(ctx, id)
		if err != nil {
			s.log.WithError(customError.WrapCacheError(err)).WithField("loan_id", id).Warn("Loan cache read failed")
		} else if ok {
			return detail, nil
		}
	}

	repos := s.store.Repositories()

	loan, err := repos.Loans.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Loan", id)
	}
	vehicle, err := repos.Vehicles.GetByID(ctx, loan.VehicleID)
	if err != nil {
		return nil, lookupError(err, "Vehicle", loan.VehicleID)
	}
	customer, err := repos.Customers.GetByID(ctx, loan.CustomerID)
	if err != nil {
		return nil, lookupError(err, "Customer", loan.CustomerID)
	}
	installments, err := repos.Installments.ListByLoan(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	entries, err := repos.Ledger.ListByLoan(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}

	detail := &domain.LoanDetail{
		Loan:              loan,
		Vehicle:           vehicle,
		CustomerName:      customer.FullName(),
		TotalInstallments: len(installments),
		AmountPaid:        decimal.Zero,
	}

	today := s.today()
	for _, inst := range installments {
		switch {
		case inst.IsPaid():
			detail.PaidInstallments++
		case utils.IsDateOverdue(inst.DueDate, today):
			detail.OverdueCount++
		}
	}
	for _, e := range entries {
		detail.AmountPaid = detail.AmountPaid.Add(e.DebitAmount)
	}

	if s.cache != nil {
		if err := s.cache.SetLoanDetail(ctx, detail); err != nil {
			s.log.WithError(customError.WrapCacheError(err)).WithField("loan_id", id).Warn("Loan cache write failed")
		}
	}

	return detail, nil
}

func (s *LoanQueryService) ListInstallments(ctx context.Context, loanID uuid.UUID) ([]*domain.Installment, error) {
	if err := s.ensureLoan(ctx, loanID); err != nil {
		return nil, err
	}

	installments, err := s.store.Repositories().Installments.ListByLoan(ctx, loanID)
	if err != nil {
		return nil, storeError(err)
	}
	return installments, nil
}

func (s *LoanQueryService) ListTransactions(ctx context.Context, loanID uuid.UUID) ([]*domain.LedgerEntry, error) {
	if err := s.ensureLoan(ctx, loanID); err != nil {
		return nil, err
	}

	entries, err := s.store.Repositories().Ledger.ListByLoan(ctx, loanID)
	if err != nil {
		return nil, storeError(err)
	}
	return entries, nil
}

func (s *LoanQueryService) ListLoansByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.LoanListItem, error) {
	items, err := s.store.Repositories().Loans.ListByCustomer(ctx, customerID)
	return items, storeError(err)
}

func (s *LoanQueryService) ListLoansByAgent(ctx context.Context, agentID uuid.UUID) ([]*domain.LoanListItem, error) {
	items, err := s.store.Repositories().Loans.ListByAgent(ctx, agentID)
	return items, storeError(err)
}

func (s *LoanQueryService) ListLoansByBranch(ctx context.Context, branchID uuid.UUID) ([]*domain.LoanListItem, error) {
	items, err := s.store.Repositories().Loans.ListByBranch(ctx, branchID)
	return items, storeError(err)
}

// SearchLoans matches customer name, vehicle registration or an exact loan ID.
func (s *LoanQueryService) SearchLoans(ctx context.Context, term string) ([]*domain.LoanListItem, error) {
	if strings.TrimSpace(term) == "" {
		return nil, customError.NewValidationError("search term is required")
	}

	items, err := s.store.Repositories().Loans.Search(ctx, term, searchLimit)
	return items, storeError(err)
}

// ListSeizureEligibleLoans lists Active loans an agent may seize today.
// A zero agentID lists them for every agent.
func (s *LoanQueryService) ListSeizureEligibleLoans(ctx context.Context, agentID uuid.UUID) ([]*domain.LoanListItem, error) {
	cutoff := s.today().AddDate(0, 0, -s.seizureThresholdDays)

	items, err := s.store.Repositories().Loans.ListSeizureEligible(ctx, agentID, cutoff)
	return items, storeError(err)
}

func (s *LoanQueryService) ListSeizures(ctx context.Context, agentID uuid.UUID) ([]*domain.SeizureListItem, error) {
	items, err := s.store.Repositories().Seizures.List(ctx, agentID)
	return items, storeError(err)
}

func (s *LoanQueryService) PaymentHistory(ctx context.Context, customerID uuid.UUID) ([]*domain.PaymentHistoryItem, error) {
	items, err := s.store.Repositories().Installments.PaymentHistory(ctx, customerID)
	return items, storeError(err)
}

func (s *LoanQueryService) ensureLoan(ctx context.Context, loanID uuid.UUID) error {
	if _, err := s.store.Repositories().Loans.GetByID(ctx, loanID); err != nil {
		return lookupError(err, "Loan", loanID)
	}
	return nil
}
