package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockLoanCache struct {
	mock.Mock
}

func (m *MockLoanCache) GetLoanDetail(ctx context.Context, loanID uuid.UUID) (*domain.LoanDetail, bool, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.LoanDetail), args.Bool(1), args.Error(2)
}

func (m *MockLoanCache) SetLoanDetail(ctx context.Context, detail *domain.LoanDetail) error {
	args := m.Called(ctx, detail)
	return args.Error(0)
}

func (m *MockLoanCache) Invalidate(ctx context.Context, loanID uuid.UUID) error {
	args := m.Called(ctx, loanID)
	return args.Error(0)
}
