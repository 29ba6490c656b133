package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
	"github.com/segyhp/vehicle-loan-engine/pkg/response"
	"github.com/sirupsen/logrus"
)

type SeizureHandler struct {
	base
	seizures SeizureManager
	loans    LoanReader
}

func NewSeizureHandler(seizures SeizureManager, loans LoanReader, log *logrus.Logger) *SeizureHandler {
	return &SeizureHandler{base: newBase(log), seizures: seizures, loans: loans}
}

// Initiate handles POST /api/v1/seizures
func (h *SeizureHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	var req domain.InitiateSeizureRequest
	if !h.decode(w, r, &req) {
		return
	}

	agentID, err := actingAgent(principal(r), req.AgentID)
	if err != nil {
		h.fail(w, err)
		return
	}

	seizureID, err := h.seizures.InitiateSeizure(r.Context(), req.LoanID, agentID, req.Reason, req.VehicleCondition)
	if err != nil {
		h.fail(w, err)
		return
	}

	response.Created(w, map[string]interface{}{
		"seizure_id": seizureID,
		"loan_id":    req.LoanID,
		"status":     domain.SeizureStatusInitiated,
	})
}

// Complete handles POST /api/v1/seizures/{id}/complete
func (h *SeizureHandler) Complete(w http.ResponseWriter, r *http.Request) {
	seizureID, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}

	var req domain.CompleteSeizureRequest
	if r.ContentLength > 0 && !h.decode(w, r, &req) {
		return
	}

	if err := h.seizures.CompleteSeizure(r.Context(), seizureID, req.VehicleCondition); err != nil {
		h.fail(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"seizure_id": seizureID,
		"status":     domain.SeizureStatusCompleted,
	})
}

// List handles GET /api/v1/seizures. Agents see the seizures they recorded.
func (h *SeizureHandler) List(w http.ResponseWriter, r *http.Request) {
	agentID := uuid.Nil
	if p := principal(r); p != nil && p.Role == domain.RoleAgent {
		agentID = p.ID
	}

	items, err := h.loans.ListSeizures(r.Context(), agentID)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.Success(w, items)
}
