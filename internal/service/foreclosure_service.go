package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
	"github.com/segyhp/vehicle-loan-engine/internal/repository"
	customError "github.com/segyhp/vehicle-loan-engine/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type ForeclosureService struct {
	base
}

func NewForeclosureService(store Store, opts ...Option) *ForeclosureService {
	return &ForeclosureService{base: newBase(store, opts)}
}

// ForecloseLoan settles the outstanding balance plus any late fees still
// attached to unpaid installments, in one ledger entry. A loan whose balance
// is already zero is reported as AlreadyClosed without writing anything.
func (s *ForeclosureService) ForecloseLoan(ctx context.Context, loanID, agentID uuid.UUID) (*domain.ForeclosureResult, error) {
	result := &domain.ForeclosureResult{LoanID: loanID}

	err := s.store.WithLoanLock(ctx, loanID, func(r *repository.Repositories, loan *domain.Loan) error {
		if !loan.BalanceAmount.IsPositive() {
			result.AlreadyClosed = true
			return nil
		}
		if loan.Status == domain.LoanStatusSeized {
			return customError.WrapLoanAlreadyClosed(loan.ID.String())
		}

		if agentID != uuid.Nil {
			if _, err := r.Agents.GetByID(ctx, agentID); err != nil {
				return lookupError(err, "Agent", agentID)
			}
		}

		unpaid, err := r.Installments.ListUnpaidByLoan(ctx, loan.ID)
		if err != nil {
			return err
		}
		fees := decimal.Zero
		for _, inst := range unpaid {
			fees = fees.Add(inst.LateFee)
		}
		settled := loan.BalanceAmount.Add(fees)

		closed, err := r.Installments.MarkAllPaid(ctx, loan.ID, s.today(), domain.PaymentModeForeclosure)
		if err != nil {
			return err
		}

		now := s.timestamp()
		if err := r.Loans.UpdateBalance(ctx, loan.ID, decimal.Zero, domain.LoanStatusClosed, now); err != nil {
			return err
		}

		remarks := fmt.Sprintf("Foreclosure settlement, %d installments closed", closed)
		if fees.IsPositive() {
			remarks += fmt.Sprintf(", late fees %s", fees.StringFixed(2))
		}
		if agentID != uuid.Nil {
			remarks += fmt.Sprintf(", agent %s", agentID)
		}

		if err := r.Ledger.Append(ctx, &domain.LedgerEntry{
			ID:              uuid.New(),
			LoanID:          loan.ID,
			TransactionDate: now,
			DebitAmount:     settled,
			CreditAmount:    decimal.Zero,
			BalanceAfter:    decimal.Zero,
			Remarks:         remarks,
			TransactionType: domain.TransactionTypePrepayment,
		}); err != nil {
			return err
		}

		result.SettledAmount = settled
		result.Installments = int(closed)
		return nil
	})
	if err != nil {
		if customError.CodeOf(err) == "" {
			s.log.WithError(err).WithField("loan_id", loanID).Error("Foreclosure failed")
		}
		return nil, lookupError(err, "Loan", loanID)
	}

	if result.AlreadyClosed {
		s.log.WithField("loan_id", loanID).Info("Foreclosure skipped, balance already settled")
		return result, nil
	}

	s.log.WithFields(logrus.Fields{
		"loan_id":  loanID,
		"agent_id": agentID,
		"amount":   result.SettledAmount.String(),
	}).Info("Loan foreclosed")

	s.afterCommit(ctx, loanID, domain.EventLoanForeclosed, result)

	return result, nil
}
