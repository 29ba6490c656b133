package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
	"github.com/shopspring/decimal"
)

const loanColumns = `id, customer_id, vehicle_id, agent_id, branch_id, loan_amount, sanction_date,
	tenure_months, interest_rate, emi_amount, total_payable, balance_amount, status, created_at, updated_at`

const loanListSelect = `
	SELECT l.id AS loan_id, c.first_name || ' ' || c.last_name AS customer_name, v.vehicle_no,
		l.loan_amount, l.balance_amount, l.emi_amount, l.status, a.name AS agent_name, b.branch_name
	FROM loans l
	JOIN customers c ON c.id = l.customer_id
	JOIN vehicles v ON v.id = l.vehicle_id
	JOIN agents a ON a.id = l.agent_id
	JOIN branches b ON b.id = l.branch_id`

type loanRepository struct {
	db      sqlx.ExtContext
	dialect Dialect
}

func NewLoanRepository(db sqlx.ExtContext, dialect Dialect) LoanRepository {
	return &loanRepository{db: db, dialect: dialect}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES (:id, :customer_id, :vehicle_id, :agent_id, :branch_id, :loan_amount, :sanction_date,
			:tenure_months, :interest_rate, :emi_amount, :total_payable, :balance_amount, :status, :created_at, :updated_at)
	`

	_, err := sqlx.NamedExecContext(ctx, r.db, query, loan)
	return classify(err)
}

func (r *loanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	return r.get(ctx, id, "")
}

func (r *loanRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	return r.get(ctx, id, r.dialect.ForUpdate())
}

func (r *loanRepository) get(ctx context.Context, id uuid.UUID, suffix string) (*domain.Loan, error) {
	query := r.db.Rebind(`SELECT ` + loanColumns + ` FROM loans WHERE id = ?` + suffix)

	var loan domain.Loan
	if err := sqlx.GetContext(ctx, r.db, &loan, query, id); err != nil {
		return nil, classify(err)
	}

	return &loan, nil
}

func (r *loanRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal, status string, at time.Time) error {
	query := r.db.Rebind(`UPDATE loans SET balance_amount = ?, status = ?, updated_at = ? WHERE id = ?`)
	return mustAffect(r.db.ExecContext(ctx, query, balance, status, at, id))
}

func (r *loanRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, at time.Time) error {
	query := r.db.Rebind(`UPDATE loans SET status = ?, updated_at = ? WHERE id = ?`)
	return mustAffect(r.db.ExecContext(ctx, query, status, at, id))
}

func (r *loanRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.LoanListItem, error) {
	return r.list(ctx, loanListSelect+` WHERE l.customer_id = ? ORDER BY l.sanction_date DESC, l.created_at DESC`, customerID)
}

func (r *loanRepository) ListByAgent(ctx context.Context, agentID uuid.UUID) ([]*domain.LoanListItem, error) {
	return r.list(ctx, loanListSelect+` WHERE l.agent_id = ? ORDER BY l.sanction_date DESC, l.created_at DESC`, agentID)
}

func (r *loanRepository) ListByBranch(ctx context.Context, branchID uuid.UUID) ([]*domain.LoanListItem, error) {
	return r.list(ctx, loanListSelect+` WHERE l.branch_id = ? ORDER BY l.sanction_date DESC, l.created_at DESC`, branchID)
}

func (r *loanRepository) Search(ctx context.Context, term string, limit int) ([]*domain.LoanListItem, error) {
	// a term that is not a uuid matches no loan id
	id, err := uuid.Parse(strings.TrimSpace(term))
	if err != nil {
		id = uuid.Nil
	}

	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	query := loanListSelect + `
		WHERE l.id = ?
			OR LOWER(c.first_name || ' ' || c.last_name) LIKE ?
			OR LOWER(v.vehicle_no) LIKE ?
		ORDER BY l.created_at DESC
		LIMIT ?`

	return r.list(ctx, query, id, pattern, pattern, limit)
}

func (r *loanRepository) ListSeizureEligible(ctx context.Context, agentID uuid.UUID, cutoff time.Time) ([]*domain.LoanListItem, error) {
	query := loanListSelect + `
		WHERE l.status = ?
			AND EXISTS (
				SELECT 1 FROM installments i
				WHERE i.loan_id = l.id AND i.status <> ? AND i.due_date < ?
			)`
	args := []interface{}{domain.LoanStatusActive, domain.InstallmentStatusPaid, cutoff}

	if agentID != uuid.Nil {
		query += ` AND l.agent_id = ?`
		args = append(args, agentID)
	}
	query += ` ORDER BY l.sanction_date`

	return r.list(ctx, query, args...)
}

func (r *loanRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.LoanListItem, error) {
	items := []*domain.LoanListItem{}
	if err := sqlx.SelectContext(ctx, r.db, &items, r.db.Rebind(query), args...); err != nil {
		return nil, classify(err)
	}
	return items, nil
}
