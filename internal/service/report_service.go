package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
	customError "github.com/segyhp/vehicle-loan-engine/pkg/errors"
	"github.com/shopspring/decimal"
)

const defaultRecentLimit = 20

// ReportService runs read-only aggregates over the ledger.
type ReportService struct {
	base
}

func NewReportService(store Store, opts ...Option) *ReportService {
	return &ReportService{base: newBase(store, opts)}
}

func (s *ReportService) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	stats, err := s.store.Repositories().Reports.DashboardStats(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return stats, nil
}

func (s *ReportService) AgentStats(ctx context.Context, agentID uuid.UUID) (*domain.AgentStats, error) {
	repos := s.store.Repositories()
	if _, err := repos.Agents.GetByID(ctx, agentID); err != nil {
		return nil, lookupError(err, "Agent", agentID)
	}

	stats, err := repos.Reports.AgentStats(ctx, agentID, s.today())
	if err != nil {
		return nil, storeError(err)
	}
	return stats, nil
}

// MonthlyCollection totals EMI receipts per calendar month for from <= date < to,
// newest month first. Months without receipts are omitted.
func (s *ReportService) MonthlyCollection(ctx context.Context, from, to time.Time) ([]*domain.MonthlyCollection, error) {
	if !from.Before(to) {
		return nil, customError.NewValidationError("from must be before to")
	}

	entries, err := s.store.Repositories().Ledger.ListByType(ctx, domain.TransactionTypeEMIPayment, from, to)
	if err != nil {
		return nil, storeError(err)
	}

	byMonth := make(map[string]*domain.MonthlyCollection)
	for _, e := range entries {
		month := e.TransactionDate.UTC().Format("2006-01")
		row, ok := byMonth[month]
		if !ok {
			row = &domain.MonthlyCollection{Month: month, TotalCollection: decimal.Zero}
			byMonth[month] = row
		}
		row.TotalCollection = row.TotalCollection.Add(e.DebitAmount)
		row.Transactions++
	}

	rows := make([]*domain.MonthlyCollection, 0, len(byMonth))
	for _, row := range byMonth {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Month > rows[j].Month })

	return rows, nil
}

func (s *ReportService) AgentPerformance(ctx context.Context) ([]*domain.AgentPerformance, error) {
	rows, err := s.store.Repositories().Reports.AgentPerformance(ctx)
	return rows, storeError(err)
}

func (s *ReportService) BranchPerformance(ctx context.Context) ([]*domain.BranchPerformance, error) {
	rows, err := s.store.Repositories().Reports.BranchPerformance(ctx)
	return rows, storeError(err)
}

func (s *ReportService) LoanStatusSummary(ctx context.Context) ([]*domain.LoanStatusSummary, error) {
	rows, err := s.store.Repositories().Reports.LoanStatusSummary(ctx)
	return rows, storeError(err)
}

// RecentTransactions returns the newest ledger entries; limit <= 0 means the default of 20.
func (s *ReportService) RecentTransactions(ctx context.Context, limit int) ([]*domain.LedgerEntry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	entries, err := s.store.Repositories().Ledger.Recent(ctx, limit)
	return entries, storeError(err)
}
