package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
	"github.com/segyhp/vehicle-loan-engine/pkg/amortization"
	"github.com/segyhp/vehicle-loan-engine/pkg/utils"
	"github.com/sirupsen/logrus"
)

// OverdueSweepService labels past-due installments Overdue and prices their late fee.
// It never reads or writes loan balances, so it takes no loan lock.
type OverdueSweepService struct {
	base
	lateFees amortization.LateFeePolicy
}

func NewOverdueSweepService(store Store, lateFees amortization.LateFeePolicy, opts ...Option) *OverdueSweepService {
	return &OverdueSweepService{
		base:     newBase(store, opts),
		lateFees: lateFees,
	}
}

// Sweep recomputes the fee of every unpaid installment due before today.
// The fee is a function of today only, so repeating a run for the same day
// changes nothing. Rows fail independently.
func (s *OverdueSweepService) Sweep(ctx context.Context, today time.Time) domain.SweepResult {
	today = utils.DateOf(today)
	result := domain.SweepResult{Today: today}
	installments := s.store.Repositories().Installments

	due, err := installments.ListDueUnpaid(ctx, today)
	if err != nil {
		s.log.WithError(err).Error("Overdue sweep could not list installments")
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	touched := make(map[uuid.UUID]struct{})
	for _, inst := range due {
		if ctx.Err() != nil {
			result.Errors = append(result.Errors, ctx.Err().Error())
			break
		}
		result.Scanned++

		fee := s.lateFees.Fee(inst.TotalAmount, inst.DueDate, today)
		if inst.Status == domain.InstallmentStatusOverdue && inst.LateFee.Equal(fee) {
			result.Unchanged++
			continue
		}

		updated, err := installments.MarkOverdue(ctx, inst.ID, fee)
		switch {
		case err != nil:
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("installment %s: %v", inst.ID, err))
			s.log.WithError(err).WithField("installment_id", inst.ID).Warn("Overdue update failed")
		case !updated:
			// paid since it was listed
			result.Unchanged++
		default:
			result.Updated++
			touched[inst.LoanID] = struct{}{}
		}
	}

	for loanID := range touched {
		s.afterCommit(ctx, loanID, "", nil)
	}
	if s.events != nil {
		if err := s.events.Publish(ctx, domain.EventOverdueSwept, uuid.Nil, result); err != nil {
			s.log.WithError(err).Warn("Failed to publish sweep summary")
		}
	}

	s.log.WithFields(logrus.Fields{
		"today":     today.Format("2006-01-02"),
		"scanned":   result.Scanned,
		"updated":   result.Updated,
		"unchanged": result.Unchanged,
		"failed":    result.Failed,
	}).Info("Overdue sweep finished")

	return result
}
