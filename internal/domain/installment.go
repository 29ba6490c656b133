package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Installment states. Paid is terminal; Overdue can still be paid.
const (
	InstallmentStatusPending = "Pending"
	InstallmentStatusPartial = "Partial"
	InstallmentStatusOverdue = "Overdue"
	InstallmentStatusPaid    = "Paid"
)

// Accepted payment modes
const (
	PaymentModeCash       = "Cash"
	PaymentModeCheque     = "Cheque"
	PaymentModeUPI        = "UPI"
	PaymentModeNetBanking = "NetBanking"
	PaymentModeCard       = "Card"

	// recorded on installments settled by foreclosure
	PaymentModeForeclosure = "Foreclosure"
)

// Installment represents one scheduled repayment of a loan
type Installment struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	LoanID          uuid.UUID       `json:"loan_id" db:"loan_id"`
	InstallmentNo   int             `json:"installment_no" db:"installment_no"`
	DueDate         time.Time       `json:"due_date" db:"due_date"`
	PrincipalAmount decimal.Decimal `json:"principal_amount" db:"principal_amount"`
	InterestAmount  decimal.Decimal `json:"interest_amount" db:"interest_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount" db:"total_amount"`
	LateFee         decimal.Decimal `json:"late_fee" db:"late_fee"`
	Status          string          `json:"status" db:"status"`
	PaidDate        *time.Time      `json:"paid_date,omitempty" db:"paid_date"`
	PaymentMode     *string         `json:"payment_mode,omitempty" db:"payment_mode"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// IsPaid reports whether the installment reached its terminal state.
func (i *Installment) IsPaid() bool {
	return i.Status == InstallmentStatusPaid
}

// PaymentReceipt is returned by a successful collection.
type PaymentReceipt struct {
	TransactionID    uuid.UUID       `json:"transaction_id"`
	InstallmentID    uuid.UUID       `json:"installment_id"`
	LoanID           uuid.UUID       `json:"loan_id"`
	AmountCollected  decimal.Decimal `json:"amount_collected"`
	LateFee          decimal.Decimal `json:"late_fee"`
	PrincipalApplied decimal.Decimal `json:"principal_applied"`
	BalanceAfter     decimal.Decimal `json:"balance_after"`
	LoanStatus       string          `json:"loan_status"`
	PaidDate         time.Time       `json:"paid_date"`
}

// SweepResult summarises one overdue sweep run.
type SweepResult struct {
	Today     time.Time `json:"today"`
	Scanned   int       `json:"scanned"`
	Updated   int       `json:"updated"`
	Unchanged int       `json:"unchanged"`
	Failed    int       `json:"failed"`
	Errors    []string  `json:"errors,omitempty"`
}
