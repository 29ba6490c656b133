package handler

import (
	"net/http"

	"github.com/segyhp/vehicle-loan-engine/internal/domain"
	"github.com/segyhp/vehicle-loan-engine/pkg/response"
	"github.com/sirupsen/logrus"
)

type CustomerHandler struct {
	base
	customers CustomerManager
}

func NewCustomerHandler(customers CustomerManager, log *logrus.Logger) *CustomerHandler {
	return &CustomerHandler{base: newBase(log), customers: customers}
}

// Create handles POST /api/v1/customers
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCustomerRequest
	if !h.decode(w, r, &req) {
		return
	}

	customer, err := h.customers.CreateCustomer(r.Context(), &req)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.Created(w, customer)
}

// Get handles GET /api/v1/customers/{id}
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	if !canSeeCustomer(principal(r), id) {
		h.fail(w, errForbidden)
		return
	}

	customer, err := h.customers.GetCustomer(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.Success(w, customer)
}

// UpdateContact handles PATCH /api/v1/customers/{id}/contact
func (h *CustomerHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	if !canSeeCustomer(principal(r), id) {
		h.fail(w, errForbidden)
		return
	}

	var req domain.UpdateContactRequest
	if !h.decode(w, r, &req) {
		return
	}

	customer, err := h.customers.UpdateContact(r.Context(), id, &req)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.Success(w, customer)
}

// Search handles GET /api/v1/customers?q=
func (h *CustomerHandler) Search(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.SearchCustomers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.fail(w, err)
		return
	}
	response.Success(w, customers)
}
