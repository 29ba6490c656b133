package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
	customError "github.com/segyhp/vehicle-loan-engine/pkg/errors"
)

// ReferenceService manages branches and agents.
type ReferenceService struct {
	base
}

func NewReferenceService(store Store, opts ...Option) *ReferenceService {
	return &ReferenceService{base: newBase(store, opts)}
}

func (s *ReferenceService) CreateBranch(ctx context.Context, req *domain.CreateBranchRequest) (*domain.Branch, error) {
	branch := &domain.Branch{
		ID:          uuid.New(),
		BranchName:  req.BranchName,
		ManagerName: req.ManagerName,
		City:        req.City,
		Phone:       req.Phone,
		CreatedAt:   s.timestamp(),
	}

	if err := s.store.Repositories().Branches.Create(ctx, branch); err != nil {
		return nil, storeError(err)
	}
	return branch, nil
}

func (s *ReferenceService) CreateAgent(ctx context.Context, req *domain.CreateAgentRequest) (*domain.Agent, error) {
	if !domain.ValidAgentRole(req.Role) {
		return nil, customError.NewValidationError(fmt.Sprintf("Unknown agent role %q", req.Role))
	}
	hireDate, err := parseDate("hire_date", req.HireDate)
	if err != nil {
		return nil, err
	}

	repos := s.store.Repositories()
	if _, err := repos.Branches.GetByID(ctx, req.BranchID); err != nil {
		return nil, lookupError(err, "Branch", req.BranchID)
	}

	agent := &domain.Agent{
		ID:        uuid.New(),
		BranchID:  req.BranchID,
		Name:      req.Name,
		Role:      req.Role,
		Phone:     req.Phone,
		Email:     req.Email,
		HireDate:  hireDate,
		CreatedAt: s.timestamp(),
	}

	if err := repos.Agents.Create(ctx, agent); err != nil {
		return nil, storeError(err)
	}
	return agent, nil
}

func (s *ReferenceService) GetBranch(ctx context.Context, id uuid.UUID) (*domain.Branch, error) {
	branch, err := s.store.Repositories().Branches.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Branch", id)
	}
	return branch, nil
}

func (s *ReferenceService) GetAgent(ctx context.Context, id uuid.UUID) (*domain.Agent, error) {
	agent, err := s.store.Repositories().Agents.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Agent", id)
	}
	return agent, nil
}

func (s *ReferenceService) ListBranches(ctx context.Context) ([]*domain.Branch, error) {
	branches, err := s.store.Repositories().Branches.List(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return branches, nil
}

func (s *ReferenceService) ListAgents(ctx context.Context, branchID uuid.UUID) ([]*domain.Agent, error) {
	agents, err := s.store.Repositories().Agents.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, storeError(err)
	}
	return agents, nil
}
