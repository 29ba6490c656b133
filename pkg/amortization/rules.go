package amortization

import (
	"fmt"
	"time"

	"github.com/segyhp/vehicle-loan-engine/pkg/utils"
	"github.com/shopspring/decimal"
)

// Rules are the origination limits a proposed loan must satisfy.
type Rules struct {
	MaxLTV    decimal.Decimal // loan / market value
	MinRate   decimal.Decimal // annual percent
	MaxRate   decimal.Decimal
	MinTenure int // months
	MaxTenure int
}

// DefaultRules: LTV at most 80%, rate within [5, 25], tenure within [6, 84].
func DefaultRules() Rules {
	return Rules{
		MaxLTV:    decimal.RequireFromString("0.80"),
		MinRate:   decimal.NewFromInt(5),
		MaxRate:   decimal.NewFromInt(25),
		MinTenure: 6,
		MaxTenure: 84,
	}
}

// Validate returns every violated rule as a readable message. An empty slice means valid.
func (r Rules) Validate(loanAmount, marketValue, ratePercent decimal.Decimal, tenureMonths int) []string {
	var violations []string

	if loanAmount.Sign() <= 0 {
		violations = append(violations, "Loan amount must be positive")
	}

	if marketValue.Sign() <= 0 {
		violations = append(violations, "Vehicle market value must be positive")
	} else if loanAmount.Sign() > 0 {
		ltv := loanAmount.DivRound(marketValue, 6)
		if ltv.GreaterThan(r.MaxLTV) {
			violations = append(violations, fmt.Sprintf(
				"Loan amount exceeds %s%% of vehicle value (LTV: %s%%)",
				r.MaxLTV.Mul(hundred).StringFixed(0), ltv.Mul(hundred).StringFixed(1),
			))
		}
	}

	if ratePercent.LessThan(r.MinRate) || ratePercent.GreaterThan(r.MaxRate) {
		violations = append(violations, fmt.Sprintf(
			"Interest rate must be between %s%% and %s%%", r.MinRate, r.MaxRate,
		))
	}

	if tenureMonths < r.MinTenure || tenureMonths > r.MaxTenure {
		violations = append(violations, fmt.Sprintf(
			"Loan tenure must be between %d and %d months", r.MinTenure, r.MaxTenure,
		))
	}

	return violations
}

// ValidateLoanParameters checks the proposal against DefaultRules.
func ValidateLoanParameters(loanAmount, marketValue, ratePercent decimal.Decimal, tenureMonths int) []string {
	return DefaultRules().Validate(loanAmount, marketValue, ratePercent, tenureMonths)
}

// LateFeePolicy prices an unpaid installment past its due date:
// monthsOverdue = max(1, ceil((days - GraceDays) / 30)) and
// fee = TotalAmount * min(MonthlyRate * monthsOverdue, Cap).
type LateFeePolicy struct {
	GraceDays   int
	MonthlyRate decimal.Decimal
	Cap         decimal.Decimal
}

// DefaultLateFeePolicy charges 2% per month overdue after a 14 day grace, capped at 20%.
func DefaultLateFeePolicy() LateFeePolicy {
	return LateFeePolicy{
		GraceDays:   14,
		MonthlyRate: decimal.RequireFromString("0.02"),
		Cap:         decimal.RequireFromString("0.20"),
	}
}

// MonthsOverdue returns the number of chargeable months for daysOverdue.
func (p LateFeePolicy) MonthsOverdue(daysOverdue int) int {
	months := 0
	if excess := daysOverdue - p.GraceDays; excess > 0 {
		months = (excess + 29) / 30
	}
	if months < 1 {
		months = 1
	}
	return months
}

// Rate returns the fee fraction for daysOverdue, capped.
func (p LateFeePolicy) Rate(daysOverdue int) decimal.Decimal {
	rate := p.MonthlyRate.Mul(decimal.NewFromInt(int64(p.MonthsOverdue(daysOverdue))))
	if rate.GreaterThan(p.Cap) {
		return p.Cap
	}
	return rate
}

// Fee returns the late fee on totalAmount as of today. It is zero unless dueDate is before today.
func (p LateFeePolicy) Fee(totalAmount decimal.Decimal, dueDate, today time.Time) decimal.Decimal {
	days := utils.DaysBetween(dueDate, today)
	if days <= 0 {
		return decimal.Zero
	}
	return totalAmount.Mul(p.Rate(days)).Round(moneyPlaces)
}
