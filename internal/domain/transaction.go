package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger transaction types
const (
	TransactionTypeDisbursement = "Loan Disbursement"
	TransactionTypeEMIPayment   = "EMI Payment"
	TransactionTypePrepayment   = "Prepayment"
)

// LedgerEntry is an append-only row of the transaction log.
// DebitAmount is money received from the customer, CreditAmount money disbursed.
type LedgerEntry struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	LoanID          uuid.UUID       `json:"loan_id" db:"loan_id"`
	InstallmentID   uuid.NullUUID   `json:"installment_id" db:"installment_id"`
	TransactionDate time.Time       `json:"transaction_date" db:"transaction_date"`
	DebitAmount     decimal.Decimal `json:"debit_amount" db:"debit_amount"`
	CreditAmount    decimal.Decimal `json:"credit_amount" db:"credit_amount"`
	BalanceAfter    decimal.Decimal `json:"balance_after" db:"balance_after"`
	PaymentMode     string          `json:"payment_mode,omitempty" db:"payment_mode"`
	Remarks         string          `json:"remarks" db:"remarks"`
	TransactionType string          `json:"transaction_type" db:"transaction_type"`
}
