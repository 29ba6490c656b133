package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
	"github.com/segyhp/vehicle-loan-engine/internal/repository"
	"github.com/segyhp/vehicle-loan-engine/pkg/amortization"
	customError "github.com/segyhp/vehicle-loan-engine/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type OriginationService struct {
	base
	rules amortization.Rules
}

func NewOriginationService(store Store, rules amortization.Rules, opts ...Option) *OriginationService {
	return &OriginationService{
		base:  newBase(store, opts),
		rules: rules,
	}
}

// OriginateLoan validates the proposal and writes vehicle, loan, schedule and
// the disbursement entry as one unit. Nothing is written when validation fails.
func (s *OriginationService) OriginateLoan(ctx context.Context, req *domain.OriginateLoanRequest) (*domain.Loan, error) {
	if req.AgentID == uuid.Nil {
		return nil, customError.NewValidationError("agent is required")
	}

	insuranceExpiry, err := parseDate("insurance_expiry", req.Vehicle.InsuranceExpiry)
	if err != nil {
		return nil, err
	}

	// 1. Business rules, before any resource is held
	if violations := s.rules.Validate(req.LoanAmount, req.Vehicle.MarketValue, req.InterestRate, req.TenureMonths); len(violations) > 0 {
		return nil, customError.NewValidationError(violations...)
	}

	// 2. Schedule
	sanctionDate := s.today()
	emi, err := amortization.CalculateEMI(req.LoanAmount, req.InterestRate, req.TenureMonths)
	if err != nil {
		return nil, customError.NewValidationError(err.Error())
	}
	totalPayable, err := amortization.CalculateTotalPayable(emi, req.TenureMonths)
	if err != nil {
		return nil, customError.NewValidationError(err.Error())
	}
	plans, err := amortization.BuildSchedule(req.LoanAmount, req.InterestRate, req.TenureMonths, sanctionDate)
	if err != nil {
		return nil, customError.NewValidationError(err.Error())
	}

	now := s.timestamp()
	condition := req.Vehicle.Condition
	if condition == "" {
		condition = domain.VehicleConditionGood
	}

	vehicle := &domain.Vehicle{
		ID:              uuid.New(),
		CustomerID:      req.CustomerID,
		VehicleNo:       req.Vehicle.VehicleNo,
		Make:            req.Vehicle.Make,
		Model:           req.Vehicle.Model,
		Year:            req.Vehicle.Year,
		MarketValue:     req.Vehicle.MarketValue,
		InsuranceExpiry: insuranceExpiry,
		Condition:       condition,
		CreatedAt:       now,
	}

	loan := &domain.Loan{
		ID:            uuid.New(),
		CustomerID:    req.CustomerID,
		VehicleID:     vehicle.ID,
		AgentID:       req.AgentID,
		BranchID:      req.BranchID,
		LoanAmount:    req.LoanAmount,
		SanctionDate:  sanctionDate,
		TenureMonths:  req.TenureMonths,
		InterestRate:  req.InterestRate,
		EMIAmount:     emi,
		TotalPayable:  totalPayable,
		BalanceAmount: req.LoanAmount,
		Status:        domain.LoanStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	installments := make([]*domain.Installment, 0, len(plans))
	for _, plan := range plans {
		installments = append(installments, &domain.Installment{
			ID:              uuid.New(),
			LoanID:          loan.ID,
			InstallmentNo:   plan.Number,
			DueDate:         plan.DueDate,
			PrincipalAmount: plan.Principal,
			InterestAmount:  plan.Interest,
			TotalAmount:     plan.Total,
			LateFee:         decimal.Zero,
			Status:          domain.InstallmentStatusPending,
			CreatedAt:       now,
		})
	}

	// 3. One transaction for everything
	err = s.store.WithTx(ctx, func(r *repository.Repositories) error {
		if _, err := r.Customers.GetByID(ctx, req.CustomerID); err != nil {
			return lookupError(err, "Customer", req.CustomerID)
		}

		agent, err := r.Agents.GetByID(ctx, req.AgentID)
		if err != nil {
			return lookupError(err, "Agent", req.AgentID)
		}
		if loan.BranchID == uuid.Nil {
			loan.BranchID = agent.BranchID
		} else if _, err := r.Branches.GetByID(ctx, loan.BranchID); err != nil {
			return lookupError(err, "Branch", loan.BranchID)
		}

		if err := r.Vehicles.Create(ctx, vehicle); err != nil {
			return err
		}
		if err := r.Loans.Create(ctx, loan); err != nil {
			return err
		}
		if err := r.Installments.CreateBatch(ctx, installments); err != nil {
			return err
		}

		return r.Ledger.Append(ctx, &domain.LedgerEntry{
			ID:              uuid.New(),
			LoanID:          loan.ID,
			TransactionDate: now,
			DebitAmount:     decimal.Zero,
			CreditAmount:    loan.LoanAmount,
			BalanceAfter:    loan.BalanceAmount,
			Remarks:         fmt.Sprintf("Loan disbursed against vehicle %s", vehicle.VehicleNo),
			TransactionType: domain.TransactionTypeDisbursement,
		})
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, customError.NewValidationError(
				fmt.Sprintf("Vehicle %s is already pledged against a loan", vehicle.VehicleNo))
		}
		s.log.WithError(err).WithField("customer_id", req.CustomerID).Error("Loan origination failed")
		return nil, storeError(err)
	}

	s.log.WithFields(logrus.Fields{
		"loan_id":  loan.ID,
		"agent_id": loan.AgentID,
		"amount":   loan.LoanAmount.String(),
		"emi":      loan.EMIAmount.String(),
	}).Info("Loan originated")

	s.afterCommit(ctx, loan.ID, domain.EventLoanOriginated, loan)

	return loan, nil
}

// QuoteLoan computes EMI and schedule for a proposal without persisting anything.
// Tenure is bounded by the origination rules.
func (s *OriginationService) QuoteLoan(ctx context.Context, req *domain.QuoteRequest) (*domain.QuoteResponse, error) {
	if req.TenureMonths < s.rules.MinTenure || req.TenureMonths > s.rules.MaxTenure {
		return nil, customError.NewValidationError(fmt.Sprintf("Loan tenure must be between %d and %d months", s.rules.MinTenure, s.rules.MaxTenure))
	}
	emi, err := amortization.CalculateEMI(req.LoanAmount, req.InterestRate, req.TenureMonths)
	if err != nil {
		return nil, customError.NewValidationError(err.Error())
	}
	total, err := amortization.CalculateTotalPayable(emi, req.TenureMonths)
	if err != nil {
		return nil, customError.NewValidationError(err.Error())
	}
	schedule, err := amortization.BuildSchedule(req.LoanAmount, req.InterestRate, req.TenureMonths, s.today())
	if err != nil {
		return nil, customError.NewValidationError(err.Error())
	}

	interest := decimal.Zero
	for _, plan := range schedule {
		interest = interest.Add(plan.Interest)
	}

	return &domain.QuoteResponse{
		EMI:           emi,
		TotalPayable:  total,
		TotalInterest: interest,
		Schedule:      schedule,
	}, nil
}
