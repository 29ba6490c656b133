package handler

import (
	"net/http"

	"github.com/segyhp/vehicle-loan-engine/internal/domain"
	"github.com/segyhp/vehicle-loan-engine/pkg/response"
	"github.com/segyhp/vehicle-loan-engine/pkg/utils"
	"github.com/sirupsen/logrus"
)

type ReportHandler struct {
	base
	reports Reporter
	sweeper Sweeper
}

func NewReportHandler(reports Reporter, sweeper Sweeper, log *logrus.Logger) *ReportHandler {
	return &ReportHandler{base: newBase(log), reports: reports, sweeper: sweeper}
}

func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reports.DashboardStats(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	response.Success(w, stats)
}

// AgentStats handles GET /api/v1/agents/{id}/stats. Agents may only read their own.
func (h *ReportHandler) AgentStats(w http.ResponseWriter, r *http.Request) {
	agentID, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	if p := principal(r); p == nil || (p.Role == domain.RoleAgent && p.ID != agentID) {
		h.fail(w, errForbidden)
		return
	}

	stats, err := h.reports.AgentStats(r.Context(), agentID)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.Success(w, stats)
}

// MonthlyCollection handles GET /api/v1/reports/monthly-collection?from=&to=.
// Without a range it covers the last twelve months.
func (h *ReportHandler) MonthlyCollection(w http.ResponseWriter, r *http.Request) {
	from, err := queryDate(r, "from")
	if err != nil {
		h.fail(w, err)
		return
	}
	to, err := queryDate(r, "to")
	if err != nil {
		h.fail(w, err)
		return
	}
	if to.IsZero() {
		to = utils.Today().AddDate(0, 0, 1)
	}
	if from.IsZero() {
		from = to.AddDate(-1, 0, 0)
	}

	rows, err := h.reports.MonthlyCollection(r.Context(), from, to)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.Success(w, rows)
}

func (h *ReportHandler) AgentPerformance(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reports.AgentPerformance(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	response.Success(w, rows)
}

func (h *ReportHandler) BranchPerformance(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reports.BranchPerformance(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	response.Success(w, rows)
}

func (h *ReportHandler) LoanStatusSummary(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reports.LoanStatusSummary(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	response.Success(w, rows)
}

func (h *ReportHandler) RecentTransactions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		h.fail(w, err)
		return
	}

	entries, err := h.reports.RecentTransactions(r.Context(), limit)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.Success(w, entries)
}

// RunSweep handles POST /api/v1/admin/overdue-sweep?date=. It runs the sweep once, synchronously.
func (h *ReportHandler) RunSweep(w http.ResponseWriter, r *http.Request) {
	day, err := queryDate(r, "date")
	if err != nil {
		h.fail(w, err)
		return
	}
	if day.IsZero() {
		day = utils.Today()
	}

	response.Success(w, h.sweeper.Sweep(r.Context(), day))
}
