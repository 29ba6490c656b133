package handler

import (
	"net/http"

	"github.com/segyhp/vehicle-loan-engine/internal/domain"
	"github.com/segyhp/vehicle-loan-engine/pkg/response"
	"github.com/sirupsen/logrus"
)

// ReferenceHandler serves branches and agents.
type ReferenceHandler struct {
	base
	reference ReferenceManager
}

func NewReferenceHandler(reference ReferenceManager, log *logrus.Logger) *ReferenceHandler {
	return &ReferenceHandler{base: newBase(log), reference: reference}
}

func (h *ReferenceHandler) CreateBranch(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateBranchRequest
	if !h.decode(w, r, &req) {
		return
	}

	branch, err := h.reference.CreateBranch(r.Context(), &req)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.Created(w, branch)
}

func (h *ReferenceHandler) ListBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := h.reference.ListBranches(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	response.Success(w, branches)
}

func (h *ReferenceHandler) GetBranch(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}

	branch, err := h.reference.GetBranch(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.Success(w, branch)
}

func (h *ReferenceHandler) ListAgents(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}

	agents, err := h.reference.ListAgents(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.Success(w, agents)
}

func (h *ReferenceHandler) CreateAgent(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateAgentRequest
	if !h.decode(w, r, &req) {
		return
	}

	agent, err := h.reference.CreateAgent(r.Context(), &req)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.Created(w, agent)
}

func (h *ReferenceHandler) GetAgent(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}

	agent, err := h.reference.GetAgent(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.Success(w, agent)
}
