package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/vehicle-loan-engine/pkg/amortization"
	"github.com/shopspring/decimal"
)

// Loan states. Overdue-bearing is derived from installments and never stored.
const (
	LoanStatusActive    = "Active"
	LoanStatusDefaulted = "Defaulted"
	LoanStatusSeized    = "Seized"
	LoanStatusClosed    = "Closed"
)

// Loan represents a loan entity.
// 0 <= BalanceAmount <= TotalPayable holds at all times; the balance only
// moves down, on payment and foreclosure.
type Loan struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	CustomerID    uuid.UUID       `json:"customer_id" db:"customer_id"`
	VehicleID     uuid.UUID       `json:"vehicle_id" db:"vehicle_id"`
	AgentID       uuid.UUID       `json:"agent_id" db:"agent_id"`
	BranchID      uuid.UUID       `json:"branch_id" db:"branch_id"`
	LoanAmount    decimal.Decimal `json:"loan_amount" db:"loan_amount"`
	SanctionDate  time.Time       `json:"sanction_date" db:"sanction_date"`
	TenureMonths  int             `json:"tenure_months" db:"tenure_months"`
	InterestRate  decimal.Decimal `json:"interest_rate" db:"interest_rate"`
	EMIAmount     decimal.Decimal `json:"emi_amount" db:"emi_amount"`
	TotalPayable  decimal.Decimal `json:"total_payable" db:"total_payable"`
	BalanceAmount decimal.Decimal `json:"balance_amount" db:"balance_amount"`
	Status        string          `json:"status" db:"status"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// IsTerminal reports whether the loan no longer accepts money.
func (l *Loan) IsTerminal() bool {
	return l.Status == LoanStatusClosed || l.Status == LoanStatusSeized
}

// LoanDetail is the read view served to dashboards.
type LoanDetail struct {
	Loan              *Loan           `json:"loan"`
	Vehicle           *Vehicle        `json:"vehicle"`
	CustomerName      string          `json:"customer_name"`
	TotalInstallments int             `json:"total_installments"`
	PaidInstallments  int             `json:"paid_installments"`
	OverdueCount      int             `json:"overdue_installments"`
	AmountPaid        decimal.Decimal `json:"amount_paid"`
}

// LoanListItem is one row of a loan listing or search.
type LoanListItem struct {
	LoanID        uuid.UUID       `json:"loan_id" db:"loan_id"`
	CustomerName  string          `json:"customer_name" db:"customer_name"`
	VehicleNo     string          `json:"vehicle_no" db:"vehicle_no"`
	LoanAmount    decimal.Decimal `json:"loan_amount" db:"loan_amount"`
	BalanceAmount decimal.Decimal `json:"balance_amount" db:"balance_amount"`
	EMIAmount     decimal.Decimal `json:"emi_amount" db:"emi_amount"`
	Status        string          `json:"status" db:"status"`
	AgentName     string          `json:"agent_name" db:"agent_name"`
	BranchName    string          `json:"branch_name" db:"branch_name"`
}

// DTOs for requests and responses

type OriginateLoanRequest struct {
	CustomerID   uuid.UUID       `json:"customer_id" validate:"required"`
	AgentID      uuid.UUID       `json:"agent_id"`
	BranchID     uuid.UUID       `json:"branch_id"`
	Vehicle      VehicleDetails  `json:"vehicle" validate:"required"`
	LoanAmount   decimal.Decimal `json:"loan_amount"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	TenureMonths int             `json:"tenure_months" validate:"required,gt=0"`
}

type QuoteRequest struct {
	LoanAmount   decimal.Decimal `json:"loan_amount"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	TenureMonths int             `json:"tenure_months" validate:"required,gt=0,lte=600"`
}

type QuoteResponse struct {
	EMI           decimal.Decimal                `json:"emi"`
	TotalPayable  decimal.Decimal                `json:"total_payable"`
	TotalInterest decimal.Decimal                `json:"total_interest"`
	Schedule      []amortization.InstallmentPlan `json:"schedule"`
}

type OriginateLoanResponse struct {
	Loan         *Loan          `json:"loan"`
	Installments []*Installment `json:"installments"`
}

type ForeclosureResult struct {
	LoanID        uuid.UUID       `json:"loan_id"`
	SettledAmount decimal.Decimal `json:"settled_amount"`
	Installments  int             `json:"installments_settled"`
	AlreadyClosed bool            `json:"already_closed"`
}
