package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
)

// Branches and agents are reference data; they are created and read, never changed here.

type branchRepository struct {
	db sqlx.ExtContext
}

func NewBranchRepository(db sqlx.ExtContext) BranchRepository {
	return &branchRepository{db: db}
}

func (r *branchRepository) Create(ctx context.Context, branch *domain.Branch) error {
	query := `
		INSERT INTO branches (id, branch_name, manager_name, city, phone, created_at)
		VALUES (:id, :branch_name, :manager_name, :city, :phone, :created_at)
	`

	_, err := sqlx.NamedExecContext(ctx, r.db, query, branch)
	return classify(err)
}

func (r *branchRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Branch, error) {
	query := r.db.Rebind(`SELECT id, branch_name, manager_name, city, phone, created_at FROM branches WHERE id = ?`)

	var branch domain.Branch
	if err := sqlx.GetContext(ctx, r.db, &branch, query, id); err != nil {
		return nil, classify(err)
	}

	return &branch, nil
}

func (r *branchRepository) List(ctx context.Context) ([]*domain.Branch, error) {
	query := `SELECT id, branch_name, manager_name, city, phone, created_at FROM branches ORDER BY branch_name`

	branches := []*domain.Branch{}
	if err := sqlx.SelectContext(ctx, r.db, &branches, query); err != nil {
		return nil, classify(err)
	}
	return branches, nil
}

const agentColumns = `id, branch_id, name, role, phone, email, hire_date, created_at`

type agentRepository struct {
	db sqlx.ExtContext
}

func NewAgentRepository(db sqlx.ExtContext) AgentRepository {
	return &agentRepository{db: db}
}

func (r *agentRepository) Create(ctx context.Context, agent *domain.Agent) error {
	query := `
		INSERT INTO agents (` + agentColumns + `)
		VALUES (:id, :branch_id, :name, :role, :phone, :email, :hire_date, :created_at)
	`

	_, err := sqlx.NamedExecContext(ctx, r.db, query, agent)
	return classify(err)
}

func (r *agentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Agent, error) {
	query := r.db.Rebind(`SELECT ` + agentColumns + ` FROM agents WHERE id = ?`)

	var agent domain.Agent
	if err := sqlx.GetContext(ctx, r.db, &agent, query, id); err != nil {
		return nil, classify(err)
	}

	return &agent, nil
}

func (r *agentRepository) ListByBranch(ctx context.Context, branchID uuid.UUID) ([]*domain.Agent, error) {
	query := r.db.Rebind(`SELECT ` + agentColumns + ` FROM agents WHERE branch_id = ? ORDER BY name`)

	agents := []*domain.Agent{}
	if err := sqlx.SelectContext(ctx, r.db, &agents, query, branchID); err != nil {
		return nil, classify(err)
	}
	return agents, nil
}
