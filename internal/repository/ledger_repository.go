package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
)

const ledgerColumns = `id, loan_id, installment_id, transaction_date, debit_amount, credit_amount,
	balance_after, payment_mode, remarks, transaction_type`

type ledgerRepository struct {
	db sqlx.ExtContext
}

func NewLedgerRepository(db sqlx.ExtContext) LedgerRepository {
	return &ledgerRepository{db: db}
}

// Append is the only write the ledger supports.
func (r *ledgerRepository) Append(ctx context.Context, entry *domain.LedgerEntry) error {
	query := `
		INSERT INTO transaction_log (` + ledgerColumns + `)
		VALUES (:id, :loan_id, :installment_id, :transaction_date, :debit_amount, :credit_amount,
			:balance_after, :payment_mode, :remarks, :transaction_type)
	`

	_, err := sqlx.NamedExecContext(ctx, r.db, query, entry)
	return classify(err)
}

func (r *ledgerRepository) ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM transaction_log WHERE loan_id = ? ORDER BY transaction_date, id`
	return r.list(ctx, query, loanID)
}

func (r *ledgerRepository) ListByType(ctx context.Context, txType string, from, to time.Time) ([]*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + `
		FROM transaction_log
		WHERE transaction_type = ? AND transaction_date >= ? AND transaction_date < ?
		ORDER BY transaction_date`
	return r.list(ctx, query, txType, from, to)
}

func (r *ledgerRepository) Recent(ctx context.Context, limit int) ([]*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM transaction_log ORDER BY transaction_date DESC LIMIT ?`
	return r.list(ctx, query, limit)
}

func (r *ledgerRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.LedgerEntry, error) {
	entries := []*domain.LedgerEntry{}
	if err := sqlx.SelectContext(ctx, r.db, &entries, r.db.Rebind(query), args...); err != nil {
		return nil, classify(err)
	}
	return entries, nil
}
