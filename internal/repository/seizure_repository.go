package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
)

const seizureColumns = `id, loan_id, agent_id, seizure_date, reason, vehicle_condition, status, created_at, updated_at`

type seizureRepository struct {
	db sqlx.ExtContext
}

func NewSeizureRepository(db sqlx.ExtContext) SeizureRepository {
	return &seizureRepository{db: db}
}

func (r *seizureRepository) Create(ctx context.Context, seizure *domain.Seizure) error {
	query := `
		INSERT INTO seizures (` + seizureColumns + `)
		VALUES (:id, :loan_id, :agent_id, :seizure_date, :reason, :vehicle_condition, :status, :created_at, :updated_at)
	`

	_, err := sqlx.NamedExecContext(ctx, r.db, query, seizure)
	return classify(err)
}

func (r *seizureRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Seizure, error) {
	query := r.db.Rebind(`SELECT ` + seizureColumns + ` FROM seizures WHERE id = ?`)

	var seizure domain.Seizure
	if err := sqlx.GetContext(ctx, r.db, &seizure, query, id); err != nil {
		return nil, classify(err)
	}

	return &seizure, nil
}

func (r *seizureRepository) Complete(ctx context.Context, id uuid.UUID, condition string, at time.Time) error {
	query := r.db.Rebind(`
		UPDATE seizures
		SET status = ?, vehicle_condition = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`)

	return mustAffect(r.db.ExecContext(ctx, query,
		domain.SeizureStatusCompleted, condition, at, id, domain.SeizureStatusInitiated))
}

func (r *seizureRepository) List(ctx context.Context, agentID uuid.UUID) ([]*domain.SeizureListItem, error) {
	query := `
		SELECT s.id AS seizure_id, s.loan_id, c.first_name || ' ' || c.last_name AS customer_name,
			v.vehicle_no, s.seizure_date, s.status, s.reason
		FROM seizures s
		JOIN loans l ON l.id = s.loan_id
		JOIN customers c ON c.id = l.customer_id
		JOIN vehicles v ON v.id = l.vehicle_id`
	var args []interface{}

	if agentID != uuid.Nil {
		query += ` WHERE s.agent_id = ?`
		args = append(args, agentID)
	}
	query += ` ORDER BY s.seizure_date DESC, s.created_at DESC`

	items := []*domain.SeizureListItem{}
	if err := sqlx.SelectContext(ctx, r.db, &items, r.db.Rebind(query), args...); err != nil {
		return nil, classify(err)
	}
	return items, nil
}
