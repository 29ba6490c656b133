package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
	"github.com/segyhp/vehicle-loan-engine/internal/repository"
	"github.com/segyhp/vehicle-loan-engine/pkg/amortization"
	customError "github.com/segyhp/vehicle-loan-engine/pkg/errors"
	"github.com/segyhp/vehicle-loan-engine/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var paymentModes = map[string]bool{
	domain.PaymentModeCash:       true,
	domain.PaymentModeCheque:     true,
	domain.PaymentModeUPI:        true,
	domain.PaymentModeNetBanking: true,
	domain.PaymentModeCard:       true,
}

type PaymentService struct {
	base
	lateFees amortization.LateFeePolicy
}

func NewPaymentService(store Store, lateFees amortization.LateFeePolicy, opts ...Option) *PaymentService {
	return &PaymentService{
		base:     newBase(store, opts),
		lateFees: lateFees,
	}
}

// CollectPayment settles one installment. The customer pays the scheduled
// amount plus the late fee; the loan balance drops by the scheduled principal only.
// A zero paymentDate means today.
func (s *PaymentService) CollectPayment(ctx context.Context, installmentID uuid.UUID, mode string, paymentDate time.Time) (*domain.PaymentReceipt, error) {
	if !paymentModes[mode] {
		return nil, customError.NewValidationError(fmt.Sprintf("Unsupported payment mode %q", mode))
	}
	if paymentDate.IsZero() {
		paymentDate = s.today()
	}
	paymentDate = utils.DateOf(paymentDate)

	installment, err := s.store.Repositories().Installments.GetByID(ctx, installmentID)
	if err != nil {
		return nil, lookupError(err, "Installment", installmentID)
	}
	if installment.IsPaid() {
		return nil, customError.WrapAlreadyPaid(installmentID.String())
	}

	var receipt *domain.PaymentReceipt
	err = s.store.WithLoanLock(ctx, installment.LoanID, func(r *repository.Repositories, loan *domain.Loan) error {
		if loan.IsTerminal() {
			return customError.WrapLoanAlreadyClosed(loan.ID.String())
		}

		// re-read under the loan lock; a concurrent payment may have won
		current, err := r.Installments.GetByID(ctx, installmentID)
		if err != nil {
			return err
		}
		if current.IsPaid() {
			return customError.WrapAlreadyPaid(installmentID.String())
		}

		lateFee := decimal.Max(current.LateFee, s.lateFees.Fee(current.TotalAmount, current.DueDate, paymentDate))
		collected := current.TotalAmount.Add(lateFee)

		balance := loan.BalanceAmount.Sub(current.PrincipalAmount)
		if balance.IsNegative() {
			balance = decimal.Zero
		}

		if err := r.Installments.MarkPaid(ctx, current.ID, paymentDate, mode, lateFee); err != nil {
			return err
		}

		unpaid, err := r.Installments.ListUnpaidByLoan(ctx, loan.ID)
		if err != nil {
			return err
		}
		status := loan.Status
		if len(unpaid) == 0 {
			status = domain.LoanStatusClosed
			balance = decimal.Zero
		}

		now := s.timestamp()
		if err := r.Loans.UpdateBalance(ctx, loan.ID, balance, status, now); err != nil {
			return err
		}

		remarks := fmt.Sprintf("EMI %d of %d", current.InstallmentNo, loan.TenureMonths)
		if lateFee.IsPositive() {
			remarks += fmt.Sprintf(", late fee %s", lateFee.StringFixed(2))
		}

		entry := &domain.LedgerEntry{
			ID:              uuid.New(),
			LoanID:          loan.ID,
			InstallmentID:   uuid.NullUUID{UUID: current.ID, Valid: true},
			TransactionDate: now,
			DebitAmount:     collected,
			CreditAmount:    decimal.Zero,
			BalanceAfter:    balance,
			PaymentMode:     mode,
			Remarks:         remarks,
			TransactionType: domain.TransactionTypeEMIPayment,
		}
		if err := r.Ledger.Append(ctx, entry); err != nil {
			return err
		}

		receipt = &domain.PaymentReceipt{
			TransactionID:    entry.ID,
			InstallmentID:    current.ID,
			LoanID:           loan.ID,
			AmountCollected:  collected,
			LateFee:          lateFee,
			PrincipalApplied: current.PrincipalAmount,
			BalanceAfter:     balance,
			LoanStatus:       status,
			PaidDate:         paymentDate,
		}
		return nil
	})
	if err != nil {
		if customError.CodeOf(err) == "" {
			s.log.WithError(err).WithField("installment_id", installmentID).Error("Payment collection failed")
		}
		return nil, lookupError(err, "Loan", installment.LoanID)
	}

	s.log.WithFields(logrus.Fields{
		"loan_id":        receipt.LoanID,
		"installment_id": receipt.InstallmentID,
		"amount":         receipt.AmountCollected.String(),
		"balance":        receipt.BalanceAfter.String(),
	}).Info("Payment collected")

	s.afterCommit(ctx, receipt.LoanID, domain.EventPaymentCollected, receipt)

	return receipt, nil
}
