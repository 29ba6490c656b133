package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
	"github.com/shopspring/decimal"
)

const installmentColumns = `id, loan_id, installment_no, due_date, principal_amount, interest_amount,
	total_amount, late_fee, status, paid_date, payment_mode, created_at`

type installmentRepository struct {
	db sqlx.ExtContext
}

func NewInstallmentRepository(db sqlx.ExtContext) InstallmentRepository {
	return &installmentRepository{db: db}
}

func (r *installmentRepository) CreateBatch(ctx context.Context, installments []*domain.Installment) error {
	query := `
		INSERT INTO installments (` + installmentColumns + `)
		VALUES (:id, :loan_id, :installment_no, :due_date, :principal_amount, :interest_amount,
			:total_amount, :late_fee, :status, :paid_date, :payment_mode, :created_at)
	`

	for _, installment := range installments {
		if _, err := sqlx.NamedExecContext(ctx, r.db, query, installment); err != nil {
			return classify(err)
		}
	}

	return nil
}

func (r *installmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Installment, error) {
	query := r.db.Rebind(`SELECT ` + installmentColumns + ` FROM installments WHERE id = ?`)

	var installment domain.Installment
	if err := sqlx.GetContext(ctx, r.db, &installment, query, id); err != nil {
		return nil, classify(err)
	}

	return &installment, nil
}

func (r *installmentRepository) ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE loan_id = ? ORDER BY installment_no`
	return r.list(ctx, query, loanID)
}

func (r *installmentRepository) ListUnpaidByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Installment, error) {
	query := `SELECT ` + installmentColumns + `
		FROM installments
		WHERE loan_id = ? AND status <> ?
		ORDER BY installment_no`
	return r.list(ctx, query, loanID, domain.InstallmentStatusPaid)
}

func (r *installmentRepository) MarkPaid(ctx context.Context, id uuid.UUID, paidDate time.Time, mode string, lateFee decimal.Decimal) error {
	query := r.db.Rebind(`
		UPDATE installments
		SET status = ?, paid_date = ?, payment_mode = ?, late_fee = ?
		WHERE id = ? AND status <> ?
	`)

	return mustAffect(r.db.ExecContext(ctx, query,
		domain.InstallmentStatusPaid, paidDate, mode, lateFee, id, domain.InstallmentStatusPaid))
}

func (r *installmentRepository) MarkAllPaid(ctx context.Context, loanID uuid.UUID, paidDate time.Time, mode string) (int64, error) {
	query := r.db.Rebind(`
		UPDATE installments
		SET status = ?, paid_date = ?, payment_mode = ?
		WHERE loan_id = ? AND status <> ?
	`)

	res, err := r.db.ExecContext(ctx, query,
		domain.InstallmentStatusPaid, paidDate, mode, loanID, domain.InstallmentStatusPaid)
	if err != nil {
		return 0, classify(err)
	}

	return res.RowsAffected()
}

func (r *installmentRepository) ListDueUnpaid(ctx context.Context, today time.Time) ([]*domain.Installment, error) {
	query := `SELECT ` + installmentColumns + `
		FROM installments
		WHERE due_date < ? AND status IN (?, ?, ?)
		ORDER BY due_date, installment_no`

	return r.list(ctx, query, today,
		domain.InstallmentStatusPending, domain.InstallmentStatusPartial, domain.InstallmentStatusOverdue)
}

func (r *installmentRepository) MarkOverdue(ctx context.Context, id uuid.UUID, lateFee decimal.Decimal) (bool, error) {
	query := r.db.Rebind(`
		UPDATE installments
		SET status = ?, late_fee = ?
		WHERE id = ? AND status <> ?
	`)

	res, err := r.db.ExecContext(ctx, query,
		domain.InstallmentStatusOverdue, lateFee, id, domain.InstallmentStatusPaid)
	if err != nil {
		return false, classify(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, classify(err)
	}
	return n > 0, nil
}

func (r *installmentRepository) CountUnpaidDueBefore(ctx context.Context, loanID uuid.UUID, cutoff time.Time) (int, error) {
	query := r.db.Rebind(`
		SELECT COUNT(*) FROM installments
		WHERE loan_id = ? AND status <> ? AND due_date < ?
	`)

	var count int
	if err := sqlx.GetContext(ctx, r.db, &count, query, loanID, domain.InstallmentStatusPaid, cutoff); err != nil {
		return 0, classify(err)
	}
	return count, nil
}

func (r *installmentRepository) PaymentHistory(ctx context.Context, customerID uuid.UUID) ([]*domain.PaymentHistoryItem, error) {
	query := r.db.Rebind(`
		SELECT i.id AS installment_id, i.loan_id, i.installment_no, v.vehicle_no,
			i.total_amount, i.late_fee, i.payment_mode, i.paid_date
		FROM installments i
		JOIN loans l ON l.id = i.loan_id
		JOIN vehicles v ON v.id = l.vehicle_id
		WHERE l.customer_id = ? AND i.status = ?
		ORDER BY i.paid_date DESC, i.installment_no DESC
	`)

	items := []*domain.PaymentHistoryItem{}
	if err := sqlx.SelectContext(ctx, r.db, &items, query, customerID, domain.InstallmentStatusPaid); err != nil {
		return nil, classify(err)
	}
	return items, nil
}

func (r *installmentRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Installment, error) {
	installments := []*domain.Installment{}
	if err := sqlx.SelectContext(ctx, r.db, &installments, r.db.Rebind(query), args...); err != nil {
		return nil, classify(err)
	}
	return installments, nil
}
