package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/vehicle-loan-engine/internal/config"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
	"github.com/segyhp/vehicle-loan-engine/internal/handler"
	"github.com/segyhp/vehicle-loan-engine/internal/logger"
	"github.com/segyhp/vehicle-loan-engine/internal/middleware"
	"github.com/segyhp/vehicle-loan-engine/internal/mocks"
	customError "github.com/segyhp/vehicle-loan-engine/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details []string        `json:"details"`
	Data    json.RawMessage `json:"data"`
}

type fixture struct {
	originator   *mocks.MockLoanOriginator
	payments     *mocks.MockPaymentCollector
	foreclosures *mocks.MockForecloser
	seizures     *mocks.MockSeizureManager
	loans        *mocks.MockLoanReader
	customers    *mocks.MockCustomerManager
	sweeper      *mocks.MockSweeper
	auth         *middleware.Authenticator
	router       http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.Discard()

	f := &fixture{
		originator:   new(mocks.MockLoanOriginator),
		payments:     new(mocks.MockPaymentCollector),
		foreclosures: new(mocks.MockForecloser),
		seizures:     new(mocks.MockSeizureManager),
		loans:        new(mocks.MockLoanReader),
		customers:    new(mocks.MockCustomerManager),
		sweeper:      new(mocks.MockSweeper),
		auth: middleware.NewAuthenticator(config.AuthConfig{
			Enabled:   true,
			JWTSecret: "handler-test-secret",
			TokenTTL:  time.Hour,
			Issuer:    "vehicle-loan-engine",
		}),
	}

	f.router = handler.NewRouter(handler.Handlers{
		Loans:     handler.NewLoanHandler(f.originator, f.payments, f.foreclosures, f.loans, log),
		Seizures:  handler.NewSeizureHandler(f.seizures, f.loans, log),
		Customers: handler.NewCustomerHandler(f.customers, log),
		Reference: handler.NewReferenceHandler(nil, log),
		Reports:   handler.NewReportHandler(nil, f.sweeper, log),
		Health:    handler.NewHealthHandler(time.Second, nil),
	}, f.auth, log)

	return f
}

func (f *fixture) token(t *testing.T, role domain.Role, id uuid.UUID) string {
	t.Helper()
	tok, err := f.auth.IssueToken(domain.Principal{Subject: string(role), Role: role, ID: id})
	require.NoError(t, err)
	return tok
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func originateBody(agentID uuid.UUID) map[string]interface{} {
	body := map[string]interface{}{
		"customer_id": uuid.New(),
		"vehicle": map[string]interface{}{
			"vehicle_no":       "MH12XY4321",
			"make":             "Hyundai",
			"model":            "Creta",
			"year":             2023,
			"market_value":     "600000",
			"insurance_expiry": "2025-01-14",
		},
		"loan_amount":   "400000",
		"interest_rate": "12",
		"tenure_months": 36,
	}
	if agentID != uuid.Nil {
		body["agent_id"] = agentID
	}
	return body
}

func TestOriginateLoan_AgentActsAsThemselves(t *testing.T) {
	f := newFixture(t)
	agentID := uuid.New()
	loan := &domain.Loan{ID: uuid.New(), AgentID: agentID, Status: domain.LoanStatusActive, EMIAmount: decimal.RequireFromString("13285.72")}

	f.originator.On("OriginateLoan", mock.Anything, mock.MatchedBy(func(req *domain.OriginateLoanRequest) bool {
		return req.AgentID == agentID && req.TenureMonths == 36 && req.LoanAmount.Equal(decimal.NewFromInt(400000))
	})).Return(loan, nil).Once()
	f.loans.On("ListInstallments", mock.Anything, loan.ID).Return([]*domain.Installment{{ID: uuid.New(), LoanID: loan.ID, InstallmentNo: 1}}, nil).Once()

	w, env := f.do(t, http.MethodPost, "/api/v1/loans", originateBody(uuid.Nil), f.token(t, domain.RoleAgent, agentID))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var got domain.OriginateLoanResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, loan.ID, got.Loan.ID)
	assert.Len(t, got.Installments, 1)
	f.originator.AssertExpectations(t)
	f.loans.AssertExpectations(t)
}

func TestOriginateLoan_Rejections(t *testing.T) {
	agentID := uuid.New()

	tests := []struct {
		name   string
		role   domain.Role
		id     uuid.UUID
		body   interface{}
		status int
		code   string
	}{
		{"agent naming another agent", domain.RoleAgent, agentID, originateBody(uuid.New()), http.StatusForbidden, ""},
		{"customer role", domain.RoleCustomer, uuid.New(), originateBody(uuid.Nil), http.StatusForbidden, ""},
		{"malformed json", domain.RoleAdmin, uuid.Nil, `{"customer_id":`, http.StatusBadRequest, ""},
		{"missing tenure", domain.RoleAdmin, uuid.Nil, map[string]interface{}{"customer_id": uuid.New(), "vehicle": map[string]interface{}{}}, http.StatusBadRequest, customError.ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			w, env := f.do(t, http.MethodPost, "/api/v1/loans", tt.body, f.token(t, tt.role, tt.id))

			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.False(t, env.Success)
			if tt.code != "" {
				assert.Equal(t, tt.code, env.Code)
				assert.NotEmpty(t, env.Details)
			}
			f.originator.AssertNotCalled(t, "OriginateLoan", mock.Anything, mock.Anything)
		})
	}
}

func TestOriginateLoan_MapsServiceErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"rule violations", customError.NewValidationError("LTV: 83.3%", "rate out of band"), http.StatusBadRequest, "request violates business rules"},
		{"unknown customer", customError.WrapNotFound("Customer", "x"), http.StatusNotFound, "Customer with ID x not found"},
		{"store failure", customError.WrapPersistenceError(errors.New("connection reset")), http.StatusInternalServerError, "Internal server error"},
		{"foreign error", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.originator.On("OriginateLoan", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			w, env := f.do(t, http.MethodPost, "/api/v1/loans", originateBody(uuid.New()), f.token(t, domain.RoleAdmin, uuid.Nil))

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, env.Message)
			assert.NotContains(t, w.Body.String(), "connection reset")
		})
	}
}

func TestCollectPayment(t *testing.T) {
	installmentID := uuid.New()
	path := "/api/v1/installments/" + installmentID.String() + "/payments"

	t.Run("passes mode and date through", func(t *testing.T) {
		f := newFixture(t)
		receipt := &domain.PaymentReceipt{InstallmentID: installmentID, AmountCollected: decimal.RequireFromString("13285.72")}
		f.payments.On("CollectPayment", mock.Anything, installmentID, "UPI", time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)).Return(receipt, nil).Once()

		w, env := f.do(t, http.MethodPost, path, map[string]string{"payment_mode": "UPI", "payment_date": "2024-02-10"}, f.token(t, domain.RoleAgent, uuid.New()))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var got domain.PaymentReceipt
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.True(t, got.AmountCollected.Equal(receipt.AmountCollected))
		f.payments.AssertExpectations(t)
	})

	t.Run("already paid is a conflict", func(t *testing.T) {
		f := newFixture(t)
		f.payments.On("CollectPayment", mock.Anything, installmentID, "Cash", time.Time{}).Return(nil, customError.WrapAlreadyPaid(installmentID.String())).Once()

		w, env := f.do(t, http.MethodPost, path, map[string]string{"payment_mode": "Cash"}, f.token(t, domain.RoleAdmin, uuid.Nil))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, customError.ErrCodeAlreadyPaid, env.Code)
	})

	t.Run("unknown mode never reaches the service", func(t *testing.T) {
		f := newFixture(t)

		w, env := f.do(t, http.MethodPost, path, map[string]string{"payment_mode": "Barter"}, f.token(t, domain.RoleAdmin, uuid.Nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, customError.ErrCodeValidation, env.Code)
		f.payments.AssertNotCalled(t, "CollectPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("customers cannot collect", func(t *testing.T) {
		f := newFixture(t)

		w, _ := f.do(t, http.MethodPost, path, map[string]string{"payment_mode": "Cash"}, f.token(t, domain.RoleCustomer, uuid.New()))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestGetLoan_CustomerOwnership(t *testing.T) {
	customerID := uuid.New()
	loanID := uuid.New()
	detail := &domain.LoanDetail{Loan: &domain.Loan{ID: loanID, CustomerID: customerID}, CustomerName: "Rahul Sharma"}

	f := newFixture(t)
	f.loans.On("GetLoan", mock.Anything, loanID).Return(detail, nil)

	w, env := f.do(t, http.MethodGet, "/api/v1/loans/"+loanID.String(), nil, f.token(t, domain.RoleCustomer, customerID))
	require.Equal(t, http.StatusOK, w.Code)
	var got domain.LoanDetail
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Rahul Sharma", got.CustomerName)

	w, _ = f.do(t, http.MethodGet, "/api/v1/loans/"+loanID.String(), nil, f.token(t, domain.RoleCustomer, uuid.New()))
	assert.Equal(t, http.StatusForbidden, w.Code)

	f.loans.On("GetLoan", mock.Anything, mock.Anything).Return(nil, customError.WrapNotFound("Loan", "x"))
	w, _ = f.do(t, http.MethodGet, "/api/v1/loans/"+uuid.NewString()+"/installments", nil, f.token(t, domain.RoleAdmin, uuid.Nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	f.loans.AssertNotCalled(t, "ListInstallments", mock.Anything, mock.Anything)
}

func TestForecloseLoan_WithoutBodyUsesCallingAgent(t *testing.T) {
	f := newFixture(t)
	agentID := uuid.New()
	loanID := uuid.New()
	result := &domain.ForeclosureResult{LoanID: loanID, SettledAmount: decimal.RequireFromString("390714.28"), Installments: 35}
	f.foreclosures.On("ForecloseLoan", mock.Anything, loanID, agentID).Return(result, nil).Once()

	w, env := f.do(t, http.MethodPost, "/api/v1/loans/"+loanID.String()+"/foreclose", nil, f.token(t, domain.RoleAgent, agentID))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got domain.ForeclosureResult
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, 35, got.Installments)
	f.foreclosures.AssertExpectations(t)
}

func TestSeizures_AgentsSeeTheirOwn(t *testing.T) {
	f := newFixture(t)
	agentID := uuid.New()
	f.loans.On("ListSeizures", mock.Anything, agentID).Return([]*domain.SeizureListItem{}, nil).Once()
	f.loans.On("ListSeizures", mock.Anything, uuid.Nil).Return([]*domain.SeizureListItem{}, nil).Once()

	w, _ := f.do(t, http.MethodGet, "/api/v1/seizures", nil, f.token(t, domain.RoleAgent, agentID))
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = f.do(t, http.MethodGet, "/api/v1/seizures", nil, f.token(t, domain.RoleAdmin, uuid.Nil))
	assert.Equal(t, http.StatusOK, w.Code)

	f.loans.AssertExpectations(t)
}

func TestInitiateSeizure(t *testing.T) {
	f := newFixture(t)
	agentID := uuid.New()
	loanID := uuid.New()
	seizureID := uuid.New()
	f.seizures.On("InitiateSeizure", mock.Anything, loanID, agentID, "no payments since March", "Fair").Return(seizureID, nil).Once()

	body := map[string]interface{}{"loan_id": loanID, "reason": "no payments since March", "vehicle_condition": "Fair"}
	w, env := f.do(t, http.MethodPost, "/api/v1/seizures", body, f.token(t, domain.RoleAgent, agentID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), seizureID.String())

	f.seizures.On("InitiateSeizure", mock.Anything, loanID, agentID, "again", "Fair").Return(uuid.Nil, customError.WrapNotEligible(loanID.String(), "nothing overdue")).Once()
	body["reason"] = "again"
	w, env = f.do(t, http.MethodPost, "/api/v1/seizures", body, f.token(t, domain.RoleAgent, agentID))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, customError.ErrCodeNotEligible, env.Code)
}

func TestUpdateContact_OnlyTheCustomerThemselves(t *testing.T) {
	f := newFixture(t)
	customerID := uuid.New()
	f.customers.On("UpdateContact", mock.Anything, customerID, mock.MatchedBy(func(req *domain.UpdateContactRequest) bool {
		return req.City == "Mumbai"
	})).Return(&domain.Customer{ID: customerID, City: "Mumbai"}, nil).Once()

	path := "/api/v1/customers/" + customerID.String() + "/contact"
	w, _ := f.do(t, http.MethodPatch, path, map[string]string{"city": "Mumbai"}, f.token(t, domain.RoleCustomer, customerID))
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = f.do(t, http.MethodPatch, path, map[string]string{"city": "Mumbai"}, f.token(t, domain.RoleCustomer, uuid.New()))
	assert.Equal(t, http.StatusForbidden, w.Code)

	f.customers.AssertExpectations(t)
}

func TestRunSweep(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2024, 3, 26, 0, 0, 0, 0, time.UTC)
	f.sweeper.On("Sweep", mock.Anything, day).Return(domain.SweepResult{Today: day, Scanned: 4, Updated: 4}).Once()

	w, env := f.do(t, http.MethodPost, "/api/v1/admin/overdue-sweep?date=2024-03-26", nil, f.token(t, domain.RoleAdmin, uuid.Nil))
	require.Equal(t, http.StatusOK, w.Code)
	var got domain.SweepResult
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, 4, got.Updated)

	w, _ = f.do(t, http.MethodPost, "/api/v1/admin/overdue-sweep?date=26-03-2024", nil, f.token(t, domain.RoleAdmin, uuid.Nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = f.do(t, http.MethodPost, "/api/v1/admin/overdue-sweep", nil, f.token(t, domain.RoleAgent, uuid.New()))
	assert.Equal(t, http.StatusForbidden, w.Code)

	f.sweeper.AssertExpectations(t)
}

func TestRouter_Authentication(t *testing.T) {
	f := newFixture(t)

	w, _ := f.do(t, http.MethodGet, "/api/v1/seizures", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = f.do(t, http.MethodGet, "/api/v1/seizures", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = f.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_NonUUIDPathIsNotRouted(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/loans/42", nil)
	req.Header.Set("Authorization", "Bearer "+f.token(t, domain.RoleAdmin, uuid.Nil))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
