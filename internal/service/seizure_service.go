package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
	"github.com/segyhp/vehicle-loan-engine/internal/repository"
	customError "github.com/segyhp/vehicle-loan-engine/pkg/errors"
	"github.com/sirupsen/logrus"
)

var vehicleConditions = map[string]bool{
	domain.VehicleConditionExcellent: true,
	domain.VehicleConditionGood:      true,
	domain.VehicleConditionFair:      true,
	domain.VehicleConditionPoor:      true,
	domain.VehicleConditionDamaged:   true,
}

// DefaultSeizureThresholdDays is how long an installment must be past due before seizure.
const DefaultSeizureThresholdDays = 90

type SeizureService struct {
	base
	thresholdDays int
}

func NewSeizureService(store Store, thresholdDays int, opts ...Option) *SeizureService {
	if thresholdDays <= 0 {
		thresholdDays = DefaultSeizureThresholdDays
	}
	return &SeizureService{
		base:          newBase(store, opts),
		thresholdDays: thresholdDays,
	}
}

// InitiateSeizure records repossession of an Active loan's vehicle and marks
// the loan Defaulted. The loan needs an unpaid installment more than
// thresholdDays past due; the Overdue label itself is not required.
func (s *SeizureService) InitiateSeizure(ctx context.Context, loanID, agentID uuid.UUID, reason, vehicleCondition string) (uuid.UUID, error) {
	var violations []string
	if agentID == uuid.Nil {
		violations = append(violations, "agent is required")
	}
	if strings.TrimSpace(reason) == "" {
		violations = append(violations, "seizure reason is required")
	}
	if !vehicleConditions[vehicleCondition] {
		violations = append(violations, fmt.Sprintf("Unknown vehicle condition %q", vehicleCondition))
	}
	if len(violations) > 0 {
		return uuid.Nil, customError.NewValidationError(violations...)
	}

	today := s.today()
	cutoff := today.AddDate(0, 0, -s.thresholdDays)
	seizureID := uuid.New()

	err := s.store.WithLoanLock(ctx, loanID, func(r *repository.Repositories, loan *domain.Loan) error {
		if loan.Status != domain.LoanStatusActive {
			return customError.WrapNotEligible(loan.ID.String(), "loan is "+strings.ToLower(loan.Status))
		}

		overdue, err := r.Installments.CountUnpaidDueBefore(ctx, loan.ID, cutoff)
		if err != nil {
			return err
		}
		if overdue == 0 {
			return customError.WrapNotEligible(loan.ID.String(),
				fmt.Sprintf("no installment overdue more than %d days", s.thresholdDays))
		}

		if _, err := r.Agents.GetByID(ctx, agentID); err != nil {
			return lookupError(err, "Agent", agentID)
		}

		now := s.timestamp()
		if err := r.Seizures.Create(ctx, &domain.Seizure{
			ID:               seizureID,
			LoanID:           loan.ID,
			AgentID:          agentID,
			SeizureDate:      today,
			Reason:           reason,
			VehicleCondition: vehicleCondition,
			Status:           domain.SeizureStatusInitiated,
			CreatedAt:        now,
			UpdatedAt:        now,
		}); err != nil {
			return err
		}

		if err := r.Loans.UpdateStatus(ctx, loan.ID, domain.LoanStatusDefaulted, now); err != nil {
			return err
		}
		return r.Vehicles.UpdateCondition(ctx, loan.VehicleID, vehicleCondition)
	})
	if err != nil {
		if customError.CodeOf(err) == "" {
			s.log.WithError(err).WithField("loan_id", loanID).Error("Seizure initiation failed")
		}
		return uuid.Nil, lookupError(err, "Loan", loanID)
	}

	s.log.WithFields(logrus.Fields{
		"loan_id":    loanID,
		"agent_id":   agentID,
		"seizure_id": seizureID,
	}).Info("Seizure initiated")

	s.afterCommit(ctx, loanID, domain.EventSeizureInitiated, map[string]interface{}{
		"seizure_id": seizureID,
		"agent_id":   agentID,
		"reason":     reason,
	})

	return seizureID, nil
}

// CompleteSeizure closes an Initiated seizure and marks the loan Seized.
// An empty condition keeps the one recorded at initiation.
func (s *SeizureService) CompleteSeizure(ctx context.Context, seizureID uuid.UUID, condition string) error {
	if condition != "" && !vehicleConditions[condition] {
		return customError.NewValidationError(fmt.Sprintf("Unknown vehicle condition %q", condition))
	}

	seizure, err := s.store.Repositories().Seizures.GetByID(ctx, seizureID)
	if err != nil {
		return lookupError(err, "Seizure", seizureID)
	}
	if seizure.Status == domain.SeizureStatusCompleted {
		return customError.WrapNotEligible(seizure.LoanID.String(), "seizure is already completed")
	}
	if condition == "" {
		condition = seizure.VehicleCondition
	}

	err = s.store.WithLoanLock(ctx, seizure.LoanID, func(r *repository.Repositories, loan *domain.Loan) error {
		// a loan settled after initiation keeps its Closed status
		if loan.Status != domain.LoanStatusDefaulted {
			return customError.WrapNotEligible(loan.ID.String(), fmt.Sprintf("loan is %s, only Defaulted loans can be seized", loan.Status))
		}
		now := s.timestamp()
		if err := r.Seizures.Complete(ctx, seizureID, condition, now); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return customError.WrapNotEligible(loan.ID.String(), "seizure is already completed")
			}
			return err
		}
		if err := r.Loans.UpdateStatus(ctx, loan.ID, domain.LoanStatusSeized, now); err != nil {
			return err
		}
		return r.Vehicles.UpdateCondition(ctx, loan.VehicleID, condition)
	})
	if err != nil {
		return lookupError(err, "Loan", seizure.LoanID)
	}

	s.log.WithFields(logrus.Fields{
		"loan_id":    seizure.LoanID,
		"seizure_id": seizureID,
	}).Info("Seizure completed")

	s.afterCommit(ctx, seizure.LoanID, domain.EventSeizureCompleted, map[string]interface{}{
		"seizure_id":        seizureID,
		"vehicle_condition": condition,
	})

	return nil
}
