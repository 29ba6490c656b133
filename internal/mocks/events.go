package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, eventType string, loanID uuid.UUID, payload interface{}) error {
	args := m.Called(ctx, eventType, loanID, payload)
	return args.Error(0)
}
