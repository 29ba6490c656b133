package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockLoanOriginator struct {
	mock.Mock
}

func (m *MockLoanOriginator) OriginateLoan(ctx context.Context, req *domain.OriginateLoanRequest) (*domain.Loan, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanOriginator) QuoteLoan(ctx context.Context, req *domain.QuoteRequest) (*domain.QuoteResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuoteResponse), args.Error(1)
}

type MockPaymentCollector struct {
	mock.Mock
}

func (m *MockPaymentCollector) CollectPayment(ctx context.Context, installmentID uuid.UUID, mode string, paymentDate time.Time) (*domain.PaymentReceipt, error) {
	args := m.Called(ctx, installmentID, mode, paymentDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentReceipt), args.Error(1)
}

type MockForecloser struct {
	mock.Mock
}

func (m *MockForecloser) ForecloseLoan(ctx context.Context, loanID, agentID uuid.UUID) (*domain.ForeclosureResult, error) {
	args := m.Called(ctx, loanID, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ForeclosureResult), args.Error(1)
}

type MockSeizureManager struct {
	mock.Mock
}

func (m *MockSeizureManager) InitiateSeizure(ctx context.Context, loanID, agentID uuid.UUID, reason, vehicleCondition string) (uuid.UUID, error) {
	args := m.Called(ctx, loanID, agentID, reason, vehicleCondition)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockSeizureManager) CompleteSeizure(ctx context.Context, seizureID uuid.UUID, condition string) error {
	args := m.Called(ctx, seizureID, condition)
	return args.Error(0)
}

// MockLoanReader covers the read side used by loan and seizure handlers.
type MockLoanReader struct {
	mock.Mock
}

func (m *MockLoanReader) GetLoan(ctx context.Context, id uuid.UUID) (*domain.LoanDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanDetail), args.Error(1)
}

func (m *MockLoanReader) ListInstallments(ctx context.Context, loanID uuid.UUID) ([]*domain.Installment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Installment), args.Error(1)
}

func (m *MockLoanReader) ListTransactions(ctx context.Context, loanID uuid.UUID) ([]*domain.LedgerEntry, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LedgerEntry), args.Error(1)
}

func (m *MockLoanReader) listItems(method string, ctx context.Context, arg interface{}) ([]*domain.LoanListItem, error) {
	args := m.MethodCalled(method, ctx, arg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LoanListItem), args.Error(1)
}

func (m *MockLoanReader) ListLoansByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.LoanListItem, error) {
	return m.listItems("ListLoansByCustomer", ctx, customerID)
}

func (m *MockLoanReader) ListLoansByAgent(ctx context.Context, agentID uuid.UUID) ([]*domain.LoanListItem, error) {
	return m.listItems("ListLoansByAgent", ctx, agentID)
}

func (m *MockLoanReader) ListLoansByBranch(ctx context.Context, branchID uuid.UUID) ([]*domain.LoanListItem, error) {
	return m.listItems("ListLoansByBranch", ctx, branchID)
}

func (m *MockLoanReader) SearchLoans(ctx context.Context, term string) ([]*domain.LoanListItem, error) {
	return m.listItems("SearchLoans", ctx, term)
}

func (m *MockLoanReader) ListSeizureEligibleLoans(ctx context.Context, agentID uuid.UUID) ([]*domain.LoanListItem, error) {
	return m.listItems("ListSeizureEligibleLoans", ctx, agentID)
}

func (m *MockLoanReader) ListSeizures(ctx context.Context, agentID uuid.UUID) ([]*domain.SeizureListItem, error) {
	args := m.Called(ctx, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SeizureListItem), args.Error(1)
}

func (m *MockLoanReader) PaymentHistory(ctx context.Context, customerID uuid.UUID) ([]*domain.PaymentHistoryItem, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PaymentHistoryItem), args.Error(1)
}

type MockCustomerManager struct {
	mock.Mock
}

func (m *MockCustomerManager) CreateCustomer(ctx context.Context, req *domain.CreateCustomerRequest) (*domain.Customer, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerManager) UpdateContact(ctx context.Context, id uuid.UUID, req *domain.UpdateContactRequest) (*domain.Customer, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerManager) GetCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerManager) SearchCustomers(ctx context.Context, term string) ([]*domain.Customer, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Customer), args.Error(1)
}

type MockSweeper struct {
	mock.Mock
}

func (m *MockSweeper) Sweep(ctx context.Context, today time.Time) domain.SweepResult {
	args := m.Called(ctx, today)
	return args.Get(0).(domain.SweepResult)
}
