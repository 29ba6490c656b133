package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
	"github.com/segyhp/vehicle-loan-engine/internal/middleware"
	customError "github.com/segyhp/vehicle-loan-engine/pkg/errors"
	"github.com/segyhp/vehicle-loan-engine/pkg/response"
	"github.com/sirupsen/logrus"
)

// Services the handlers drive. The concrete implementations live in internal/service.
type (
	LoanOriginator interface {
		OriginateLoan(ctx context.Context, req *domain.OriginateLoanRequest) (*domain.Loan, error)
		QuoteLoan(ctx context.Context, req *domain.QuoteRequest) (*domain.QuoteResponse, error)
	}

	PaymentCollector interface {
		CollectPayment(ctx context.Context, installmentID uuid.UUID, mode string, paymentDate time.Time) (*domain.PaymentReceipt, error)
	}

	Forecloser interface {
		ForecloseLoan(ctx context.Context, loanID, agentID uuid.UUID) (*domain.ForeclosureResult, error)
	}

	SeizureManager interface {
		InitiateSeizure(ctx context.Context, loanID, agentID uuid.UUID, reason, vehicleCondition string) (uuid.UUID, error)
		CompleteSeizure(ctx context.Context, seizureID uuid.UUID, condition string) error
	}

	LoanReader interface {
		GetLoan(ctx context.Context, id uuid.UUID) (*domain.LoanDetail, error)
		ListInstallments(ctx context.Context, loanID uuid.UUID) ([]*domain.Installment, error)
		ListTransactions(ctx context.Context, loanID uuid.UUID) ([]*domain.LedgerEntry, error)
		ListLoansByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.LoanListItem, error)
		ListLoansByAgent(ctx context.Context, agentID uuid.UUID) ([]*domain.LoanListItem, error)
		ListLoansByBranch(ctx context.Context, branchID uuid.UUID) ([]*domain.LoanListItem, error)
		SearchLoans(ctx context.Context, term string) ([]*domain.LoanListItem, error)
		ListSeizureEligibleLoans(ctx context.Context, agentID uuid.UUID) ([]*domain.LoanListItem, error)
		ListSeizures(ctx context.Context, agentID uuid.UUID) ([]*domain.SeizureListItem, error)
		PaymentHistory(ctx context.Context, customerID uuid.UUID) ([]*domain.PaymentHistoryItem, error)
	}

	CustomerManager interface {
		CreateCustomer(ctx context.Context, req *domain.CreateCustomerRequest) (*domain.Customer, error)
		UpdateContact(ctx context.Context, id uuid.UUID, req *domain.UpdateContactRequest) (*domain.Customer, error)
		GetCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
		SearchCustomers(ctx context.Context, term string) ([]*domain.Customer, error)
	}

	ReferenceManager interface {
		CreateBranch(ctx context.Context, req *domain.CreateBranchRequest) (*domain.Branch, error)
		CreateAgent(ctx context.Context, req *domain.CreateAgentRequest) (*domain.Agent, error)
		GetBranch(ctx context.Context, id uuid.UUID) (*domain.Branch, error)
		GetAgent(ctx context.Context, id uuid.UUID) (*domain.Agent, error)
		ListBranches(ctx context.Context) ([]*domain.Branch, error)
		ListAgents(ctx context.Context, branchID uuid.UUID) ([]*domain.Agent, error)
	}

	Reporter interface {
		DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
		AgentStats(ctx context.Context, agentID uuid.UUID) (*domain.AgentStats, error)
		MonthlyCollection(ctx context.Context, from, to time.Time) ([]*domain.MonthlyCollection, error)
		AgentPerformance(ctx context.Context) ([]*domain.AgentPerformance, error)
		BranchPerformance(ctx context.Context) ([]*domain.BranchPerformance, error)
		LoanStatusSummary(ctx context.Context) ([]*domain.LoanStatusSummary, error)
		RecentTransactions(ctx context.Context, limit int) ([]*domain.LedgerEntry, error)
	}

	Sweeper interface {
		Sweep(ctx context.Context, today time.Time) domain.SweepResult
	}
)

var errForbidden = errors.New("access denied")

// base carries what every handler needs to decode, validate and answer.
type base struct {
	validator *validator.Validate
	log       *logrus.Logger
}

func newBase(log *logrus.Logger) base {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return base{validator: validator.New(), log: log}
}

// decode reads a JSON body into dst and validates its struct tags.
func (b *base) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid JSON payload", err)
		return false
	}
	if err := b.validator.Struct(dst); err != nil {
		response.FromError(w, b.log, validationError(err))
		return false
	}
	return true
}

func (b *base) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, errForbidden) {
		response.Forbidden(w, "Access denied")
		return
	}
	response.FromError(w, b.log, err)
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return customError.NewValidationError(err.Error())
	}

	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			details = append(details, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			details = append(details, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return customError.NewValidationError(details...)
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return uuid.Nil, customError.NewValidationError(name + " must be a UUID")
	}
	return id, nil
}

func queryDate(r *http.Request, name string) (time.Time, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, customError.NewValidationError(name + " must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, customError.NewValidationError(name + " must be a non-negative integer")
	}
	return n, nil
}

func principal(r *http.Request) *domain.Principal {
	p, _ := middleware.PrincipalFromContext(r.Context())
	return p
}

// actingAgent resolves the agent an operation is recorded against. Agents act
// as themselves only; admins must name the agent.
func actingAgent(p *domain.Principal, requested uuid.UUID) (uuid.UUID, error) {
	if p == nil {
		return uuid.Nil, errForbidden
	}
	if p.Role == domain.RoleAgent {
		if requested != uuid.Nil && requested != p.ID {
			return uuid.Nil, errForbidden
		}
		return p.ID, nil
	}
	return requested, nil
}

// canSeeCustomer reports whether p may read data owned by customerID.
func canSeeCustomer(p *domain.Principal, customerID uuid.UUID) bool {
	if p == nil {
		return false
	}
	if p.Role == domain.RoleCustomer {
		return p.ID == customerID
	}
	return true
}
