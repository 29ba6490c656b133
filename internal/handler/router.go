package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
	"github.com/segyhp/vehicle-loan-engine/internal/middleware"
	"github.com/segyhp/vehicle-loan-engine/pkg/response"
	"github.com/sirupsen/logrus"
)

const uuidPattern = `{id:[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}}`

// Handlers bundles everything the router mounts.
type Handlers struct {
	Loans     *LoanHandler
	Seizures  *SeizureHandler
	Customers *CustomerHandler
	Reference *ReferenceHandler
	Reports   *ReportHandler
	Health    *HealthHandler
}

var (
	admin     = []domain.Role{domain.RoleAdmin}
	staff     = []domain.Role{domain.RoleAdmin, domain.RoleAgent}
	everybody = []domain.Role{domain.RoleAdmin, domain.RoleAgent, domain.RoleCustomer}
)

func guard(h http.HandlerFunc, roles []domain.Role) http.Handler {
	return middleware.RequireRole(roles...)(h)
}

// NewRouter wires every route. Everything under /api/v1 requires a principal.
// CORS wraps the router itself so preflight requests never reach route matching.
func NewRouter(h Handlers, auth *middleware.Authenticator, log *logrus.Logger) http.Handler {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware(log))

	// Health check
	router.HandleFunc("/health", h.Health.Health).Methods("GET")
	router.HandleFunc("/health/ready", h.Health.Ready).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(auth.Authenticate)

	// loans
	api.Handle("/loans", guard(h.Loans.OriginateLoan, staff)).Methods("POST")
	api.Handle("/loans", guard(h.Loans.SearchLoans, staff)).Methods("GET")
	api.Handle("/loans/quote", guard(h.Loans.QuoteLoan, everybody)).Methods("POST")
	api.Handle("/loans/seizure-eligible", guard(h.Loans.ListSeizureEligible, staff)).Methods("GET")
	api.Handle("/loans/"+uuidPattern, guard(h.Loans.GetLoan, everybody)).Methods("GET")
	api.Handle("/loans/"+uuidPattern+"/installments", guard(h.Loans.ListInstallments, everybody)).Methods("GET")
	api.Handle("/loans/"+uuidPattern+"/transactions", guard(h.Loans.ListTransactions, everybody)).Methods("GET")
	api.Handle("/loans/"+uuidPattern+"/foreclose", guard(h.Loans.ForecloseLoan, staff)).Methods("POST")
	api.Handle("/installments/"+uuidPattern+"/payments", guard(h.Loans.CollectPayment, staff)).Methods("POST")

	// seizures
	api.Handle("/seizures", guard(h.Seizures.Initiate, staff)).Methods("POST")
	api.Handle("/seizures", guard(h.Seizures.List, staff)).Methods("GET")
	api.Handle("/seizures/"+uuidPattern+"/complete", guard(h.Seizures.Complete, staff)).Methods("POST")

	// customers
	api.Handle("/customers", guard(h.Customers.Create, staff)).Methods("POST")
	api.Handle("/customers", guard(h.Customers.Search, staff)).Methods("GET")
	api.Handle("/customers/"+uuidPattern, guard(h.Customers.Get, everybody)).Methods("GET")
	api.Handle("/customers/"+uuidPattern+"/contact", guard(h.Customers.UpdateContact, everybody)).Methods("PATCH")
	api.Handle("/customers/"+uuidPattern+"/loans", guard(h.Loans.ListByCustomer, everybody)).Methods("GET")
	api.Handle("/customers/"+uuidPattern+"/payments", guard(h.Loans.PaymentHistory, everybody)).Methods("GET")

	// branches and agents
	api.Handle("/branches", guard(h.Reference.CreateBranch, admin)).Methods("POST")
	api.Handle("/branches", guard(h.Reference.ListBranches, staff)).Methods("GET")
	api.Handle("/branches/"+uuidPattern, guard(h.Reference.GetBranch, staff)).Methods("GET")
	api.Handle("/branches/"+uuidPattern+"/agents", guard(h.Reference.ListAgents, staff)).Methods("GET")
	api.Handle("/branches/"+uuidPattern+"/loans", guard(h.Loans.ListByBranch, admin)).Methods("GET")
	api.Handle("/agents", guard(h.Reference.CreateAgent, admin)).Methods("POST")
	api.Handle("/agents/"+uuidPattern, guard(h.Reference.GetAgent, staff)).Methods("GET")
	api.Handle("/agents/"+uuidPattern+"/loans", guard(h.Loans.ListByAgent, staff)).Methods("GET")
	api.Handle("/agents/"+uuidPattern+"/stats", guard(h.Reports.AgentStats, staff)).Methods("GET")

	// reports
	api.Handle("/reports/dashboard", guard(h.Reports.Dashboard, admin)).Methods("GET")
	api.Handle("/reports/monthly-collection", guard(h.Reports.MonthlyCollection, admin)).Methods("GET")
	api.Handle("/reports/agent-performance", guard(h.Reports.AgentPerformance, admin)).Methods("GET")
	api.Handle("/reports/branch-performance", guard(h.Reports.BranchPerformance, admin)).Methods("GET")
	api.Handle("/reports/loan-status", guard(h.Reports.LoanStatusSummary, admin)).Methods("GET")
	api.Handle("/reports/recent-transactions", guard(h.Reports.RecentTransactions, admin)).Methods("GET")

	api.Handle("/admin/overdue-sweep", guard(h.Reports.RunSweep, admin)).Methods("POST")

	return response.CORSMiddleware(router)
}
