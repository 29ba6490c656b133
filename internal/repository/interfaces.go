package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	// Create inserts a new loan
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByID retrieves a loan by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// GetForUpdate reads the loan and holds its row lock until the transaction ends
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// UpdateBalance sets balance and status in one statement
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal, status string, at time.Time) error

	// UpdateStatus changes the status only
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, at time.Time) error

	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.LoanListItem, error)
	ListByAgent(ctx context.Context, agentID uuid.UUID) ([]*domain.LoanListItem, error)
	ListByBranch(ctx context.Context, branchID uuid.UUID) ([]*domain.LoanListItem, error)

	// Search matches customer name or vehicle number, or the exact loan ID
	Search(ctx context.Context, term string, limit int) ([]*domain.LoanListItem, error)

	// ListSeizureEligible returns Active loans with an unpaid installment due before cutoff.
	// A zero agentID lists loans of every agent.
	ListSeizureEligible(ctx context.Context, agentID uuid.UUID, cutoff time.Time) ([]*domain.LoanListItem, error)
}

// InstallmentRepository defines the interface for installment data operations
type InstallmentRepository interface {
	// CreateBatch inserts the full schedule of a loan
	CreateBatch(ctx context.Context, installments []*domain.Installment) error

	GetByID(ctx context.Context, id uuid.UUID) (*domain.Installment, error)

	// ListByLoan returns the schedule ordered by installment number
	ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Installment, error)

	// ListUnpaidByLoan returns installments that are not Paid
	ListUnpaidByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Installment, error)

	// MarkPaid flips one installment to Paid unless it already is, recording the late fee collected
	MarkPaid(ctx context.Context, id uuid.UUID, paidDate time.Time, mode string, lateFee decimal.Decimal) error

	// MarkAllPaid settles every unpaid installment of a loan and returns how many changed
	MarkAllPaid(ctx context.Context, loanID uuid.UUID, paidDate time.Time, mode string) (int64, error)

	// ListDueUnpaid returns every unpaid installment with due date before today
	ListDueUnpaid(ctx context.Context, today time.Time) ([]*domain.Installment, error)

	// MarkOverdue stores the late fee if the installment is still unpaid.
	// It reports false when the row was paid in the meantime.
	MarkOverdue(ctx context.Context, id uuid.UUID, lateFee decimal.Decimal) (bool, error)

	// CountUnpaidDueBefore counts unpaid installments of a loan due strictly before cutoff
	CountUnpaidDueBefore(ctx context.Context, loanID uuid.UUID, cutoff time.Time) (int, error)

	// PaymentHistory lists paid installments across all loans of a customer
	PaymentHistory(ctx context.Context, customerID uuid.UUID) ([]*domain.PaymentHistoryItem, error)
}

// LedgerRepository is the append-only transaction log
type LedgerRepository interface {
	Append(ctx context.Context, entry *domain.LedgerEntry) error
	ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.LedgerEntry, error)
	// ListByType returns entries of txType with from <= transaction_date < to
	ListByType(ctx context.Context, txType string, from, to time.Time) ([]*domain.LedgerEntry, error)
	Recent(ctx context.Context, limit int) ([]*domain.LedgerEntry, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	UpdateContact(ctx context.Context, customer *domain.Customer) error
	Search(ctx context.Context, term string, limit int) ([]*domain.Customer, error)
}

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error)
	UpdateCondition(ctx context.Context, id uuid.UUID, condition string) error
}

type SeizureRepository interface {
	Create(ctx context.Context, seizure *domain.Seizure) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Seizure, error)
	// Complete moves an Initiated seizure to Completed, ErrNotFound otherwise
	Complete(ctx context.Context, id uuid.UUID, condition string, at time.Time) error
	// List returns seizures newest first; a zero agentID lists all of them
	List(ctx context.Context, agentID uuid.UUID) ([]*domain.SeizureListItem, error)
}

type BranchRepository interface {
	Create(ctx context.Context, branch *domain.Branch) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Branch, error)
	List(ctx context.Context) ([]*domain.Branch, error)
}

type AgentRepository interface {
	Create(ctx context.Context, agent *domain.Agent) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Agent, error)
	ListByBranch(ctx context.Context, branchID uuid.UUID) ([]*domain.Agent, error)
}

// ReportRepository runs the read-only aggregate queries
type ReportRepository interface {
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
	AgentStats(ctx context.Context, agentID uuid.UUID, today time.Time) (*domain.AgentStats, error)
	AgentPerformance(ctx context.Context) ([]*domain.AgentPerformance, error)
	BranchPerformance(ctx context.Context) ([]*domain.BranchPerformance, error)
	LoanStatusSummary(ctx context.Context) ([]*domain.LoanStatusSummary, error)
}
