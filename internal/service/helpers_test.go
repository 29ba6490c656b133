package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/vehicle-loan-engine/internal/logger"
	"github.com/segyhp/vehicle-loan-engine/internal/repository"
	"github.com/segyhp/vehicle-loan-engine/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var sanction = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// at pins the service clock to midday of day and silences logging.
func at(day time.Time, extra ...service.Option) []service.Option {
	opts := []service.Option{
		service.WithClock(func() time.Time { return day.Add(12 * time.Hour) }),
		service.WithLogger(logger.Discard()),
	}
	return append(opts, extra...)
}

func countRows(t *testing.T, store *repository.Store, table string) int {
	t.Helper()
	var n int
	require.NoError(t, store.DB().Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

func balanceOf(t *testing.T, store *repository.Store, loanID uuid.UUID) decimal.Decimal {
	t.Helper()
	loan, err := store.Repositories().Loans.GetByID(context.Background(), loanID)
	require.NoError(t, err)
	return loan.BalanceAmount
}

func parseDay(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
