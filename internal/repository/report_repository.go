package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
)

type reportRepository struct {
	db      sqlx.ExtContext
	dialect Dialect
}

func NewReportRepository(db sqlx.ExtContext, dialect Dialect) ReportRepository {
	return &reportRepository{db: db, dialect: dialect}
}

func (r *reportRepository) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	query := r.db.Rebind(`
		SELECT
			(SELECT COUNT(*) FROM loans) AS total_loans,
			(SELECT COUNT(*) FROM loans WHERE status = ?) AS active_loans,
			(SELECT COUNT(*) FROM loans WHERE status = ?) AS defaulted_loans,
			(SELECT COUNT(*) FROM customers) AS total_customers,
			(SELECT COUNT(*) FROM installments WHERE status = ?) AS overdue_installments,
			(SELECT COUNT(*) FROM seizures WHERE status = ?) AS seized_vehicles
	`)

	var stats domain.DashboardStats
	err := sqlx.GetContext(ctx, r.db, &stats, query,
		domain.LoanStatusActive,
		domain.LoanStatusDefaulted,
		domain.InstallmentStatusOverdue,
		domain.SeizureStatusCompleted,
	)
	if err != nil {
		return nil, classify(err)
	}

	return &stats, nil
}

// AgentStats counts a loan as overdue when any unpaid installment is past due,
// whether or not the sweep has labelled it yet.
func (r *reportRepository) AgentStats(ctx context.Context, agentID uuid.UUID, today time.Time) (*domain.AgentStats, error) {
	query := r.db.Rebind(fmt.Sprintf(`
		SELECT
			(SELECT COUNT(*) FROM loans WHERE agent_id = ?) AS my_loans,
			(SELECT COUNT(*) FROM loans WHERE agent_id = ? AND status = ?) AS active_loans,
			(SELECT COUNT(DISTINCT l.id)
				FROM loans l JOIN installments i ON i.loan_id = l.id
				WHERE l.agent_id = ? AND i.status <> ? AND i.due_date < ?) AS overdue_loans,
			(SELECT COALESCE(SUM(%s), 0)
				FROM transaction_log t JOIN loans l ON l.id = t.loan_id
				WHERE l.agent_id = ? AND t.transaction_type = ?) AS total_collection
	`, r.dialect.Numeric("t.debit_amount")))

	stats := domain.AgentStats{AgentID: agentID}
	err := sqlx.GetContext(ctx, r.db, &stats, query,
		agentID,
		agentID, domain.LoanStatusActive,
		agentID, domain.InstallmentStatusPaid, today,
		agentID, domain.TransactionTypeEMIPayment,
	)
	if err != nil {
		return nil, classify(err)
	}

	return &stats, nil
}

func (r *reportRepository) AgentPerformance(ctx context.Context) ([]*domain.AgentPerformance, error) {
	query := fmt.Sprintf(`
		SELECT a.id AS agent_id, a.name AS agent_name, b.branch_name,
			COUNT(l.id) AS total_loans,
			COALESCE(SUM(%s), 0) AS total_volume,
			COALESCE(ROUND(AVG(%s), 2), 0) AS avg_interest_rate
		FROM agents a
		JOIN branches b ON b.id = a.branch_id
		LEFT JOIN loans l ON l.agent_id = a.id
		GROUP BY a.id, a.name, b.branch_name
		ORDER BY total_volume DESC, agent_name
	`, r.dialect.Numeric("l.loan_amount"), r.dialect.Numeric("l.interest_rate"))

	rows := []*domain.AgentPerformance{}
	if err := sqlx.SelectContext(ctx, r.db, &rows, query); err != nil {
		return nil, classify(err)
	}
	return rows, nil
}

func (r *reportRepository) BranchPerformance(ctx context.Context) ([]*domain.BranchPerformance, error) {
	query := fmt.Sprintf(`
		SELECT b.id AS branch_id, b.branch_name, b.manager_name,
			COUNT(l.id) AS total_loans,
			COALESCE(SUM(%s), 0) AS total_sanctioned,
			COALESCE(SUM(%s), 0) AS outstanding
		FROM branches b
		LEFT JOIN loans l ON l.branch_id = b.id
		GROUP BY b.id, b.branch_name, b.manager_name
		ORDER BY total_sanctioned DESC, branch_name
	`, r.dialect.Numeric("l.loan_amount"), r.dialect.Numeric("l.balance_amount"))

	rows := []*domain.BranchPerformance{}
	if err := sqlx.SelectContext(ctx, r.db, &rows, query); err != nil {
		return nil, classify(err)
	}
	return rows, nil
}

func (r *reportRepository) LoanStatusSummary(ctx context.Context) ([]*domain.LoanStatusSummary, error) {
	query := fmt.Sprintf(`
		SELECT status, COUNT(*) AS loan_count,
			COALESCE(SUM(%s), 0) AS total_amount,
			COALESCE(ROUND(AVG(%s), 2), 0) AS avg_interest_rate
		FROM loans
		GROUP BY status
		ORDER BY status
	`, r.dialect.Numeric("loan_amount"), r.dialect.Numeric("interest_rate"))

	rows := []*domain.LoanStatusSummary{}
	if err := sqlx.SelectContext(ctx, r.db, &rows, query); err != nil {
		return nil, classify(err)
	}
	return rows, nil
}
