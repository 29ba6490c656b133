package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
	customError "github.com/segyhp/vehicle-loan-engine/pkg/errors"
	"github.com/segyhp/vehicle-loan-engine/pkg/response"
	"github.com/sirupsen/logrus"
)

type LoanHandler struct {
	base
	originator   LoanOriginator
	payments     PaymentCollector
	foreclosures Forecloser
	loans        LoanReader
}

func NewLoanHandler(originator LoanOriginator, payments PaymentCollector, foreclosures Forecloser, loans LoanReader, log *logrus.Logger) *LoanHandler {
	return &LoanHandler{
		base:         newBase(log),
		originator:   originator,
		payments:     payments,
		foreclosures: foreclosures,
		loans:        loans,
	}
}

// CollectPaymentBody is the JSON body of a payment; the installment comes from the path.
type CollectPaymentBody struct {
	PaymentMode string `json:"payment_mode" validate:"required,oneof=Cash Cheque UPI NetBanking Card"`
	PaymentDate string `json:"payment_date" validate:"omitempty,datetime=2006-01-02"`
}

type ForecloseBody struct {
	AgentID uuid.UUID `json:"agent_id"`
}

// OriginateLoan handles POST /api/v1/loans
func (h *LoanHandler) OriginateLoan(w http.ResponseWriter, r *http.Request) {
	var req domain.OriginateLoanRequest
	if !h.decode(w, r, &req) {
		return
	}

	agentID, err := actingAgent(principal(r), req.AgentID)
	if err != nil {
		h.fail(w, err)
		return
	}
	req.AgentID = agentID

	loan, err := h.originator.OriginateLoan(r.Context(), &req)
	if err != nil {
		h.fail(w, err)
		return
	}

	installments, err := h.loans.ListInstallments(r.Context(), loan.ID)
	if err != nil {
		h.fail(w, err)
		return
	}

	response.Created(w, domain.OriginateLoanResponse{Loan: loan, Installments: installments})
}

// QuoteLoan handles POST /api/v1/loans/quote
func (h *LoanHandler) QuoteLoan(w http.ResponseWriter, r *http.Request) {
	var req domain.QuoteRequest
	if !h.decode(w, r, &req) {
		return
	}

	quote, err := h.originator.QuoteLoan(r.Context(), &req)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.Success(w, quote)
}

// GetLoan handles GET /api/v1/loans/{id}
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	detail, ok := h.visibleLoan(w, r)
	if !ok {
		return
	}
	response.Success(w, detail)
}

// ListInstallments handles GET /api/v1/loans/{id}/installments
func (h *LoanHandler) ListInstallments(w http.ResponseWriter, r *http.Request) {
	detail, ok := h.visibleLoan(w, r)
	if !ok {
		return
	}

	installments, err := h.loans.ListInstallments(r.Context(), detail.Loan.ID)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.Success(w, installments)
}

// ListTransactions handles GET /api/v1/loans/{id}/transactions
func (h *LoanHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	detail, ok := h.visibleLoan(w, r)
	if !ok {
		return
	}

	entries, err := h.loans.ListTransactions(r.Context(), detail.Loan.ID)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.Success(w, entries)
}

// SearchLoans handles GET /api/v1/loans?q=
func (h *LoanHandler) SearchLoans(w http.ResponseWriter, r *http.Request) {
	items, err := h.loans.SearchLoans(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.fail(w, err)
		return
	}
	response.Success(w, items)
}

// ListSeizureEligible handles GET /api/v1/loans/seizure-eligible. Agents see their own loans.
func (h *LoanHandler) ListSeizureEligible(w http.ResponseWriter, r *http.Request) {
	agentID := uuid.Nil
	if p := principal(r); p != nil && p.Role == domain.RoleAgent {
		agentID = p.ID
	}

	items, err := h.loans.ListSeizureEligibleLoans(r.Context(), agentID)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.Success(w, items)
}

// ListByCustomer handles GET /api/v1/customers/{id}/loans
func (h *LoanHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	if !canSeeCustomer(principal(r), customerID) {
		h.fail(w, errForbidden)
		return
	}

	items, err := h.loans.ListLoansByCustomer(r.Context(), customerID)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.Success(w, items)
}

// ListByAgent handles GET /api/v1/agents/{id}/loans. Agents only list their own book.
func (h *LoanHandler) ListByAgent(w http.ResponseWriter, r *http.Request) {
	agentID, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	if _, err := actingAgent(principal(r), agentID); err != nil {
		h.fail(w, err)
		return
	}

	items, err := h.loans.ListLoansByAgent(r.Context(), agentID)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.Success(w, items)
}

// ListByBranch handles GET /api/v1/branches/{id}/loans
func (h *LoanHandler) ListByBranch(w http.ResponseWriter, r *http.Request) {
	branchID, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}

	items, err := h.loans.ListLoansByBranch(r.Context(), branchID)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.Success(w, items)
}

// PaymentHistory handles GET /api/v1/customers/{id}/payments
func (h *LoanHandler) PaymentHistory(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	if !canSeeCustomer(principal(r), customerID) {
		h.fail(w, errForbidden)
		return
	}

	items, err := h.loans.PaymentHistory(r.Context(), customerID)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.Success(w, items)
}

// CollectPayment handles POST /api/v1/installments/{id}/payments
func (h *LoanHandler) CollectPayment(w http.ResponseWriter, r *http.Request) {
	installmentID, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}

	var body CollectPaymentBody
	if !h.decode(w, r, &body) {
		return
	}

	var paymentDate time.Time
	if body.PaymentDate != "" {
		if paymentDate, err = time.Parse("2006-01-02", body.PaymentDate); err != nil {
			h.fail(w, customError.NewValidationError("payment_date must be a date in YYYY-MM-DD format"))
			return
		}
	}

	receipt, err := h.payments.CollectPayment(r.Context(), installmentID, body.PaymentMode, paymentDate)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.Success(w, receipt)
}

// ForecloseLoan handles POST /api/v1/loans/{id}/foreclose. The body is optional.
func (h *LoanHandler) ForecloseLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}

	var body ForecloseBody
	if r.ContentLength > 0 && !h.decode(w, r, &body) {
		return
	}

	agentID, err := actingAgent(principal(r), body.AgentID)
	if err != nil {
		h.fail(w, err)
		return
	}

	result, err := h.foreclosures.ForecloseLoan(r.Context(), loanID, agentID)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.Success(w, result)
}

// visibleLoan loads the loan named in the path and enforces customer ownership.
func (h *LoanHandler) visibleLoan(w http.ResponseWriter, r *http.Request) (*domain.LoanDetail, bool) {
	loanID, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, err)
		return nil, false
	}

	detail, err := h.loans.GetLoan(r.Context(), loanID)
	if err != nil {
		h.fail(w, err)
		return nil, false
	}
	if !canSeeCustomer(principal(r), detail.Loan.CustomerID) {
		h.fail(w, errForbidden)
		return nil, false
	}
	return detail, true
}
