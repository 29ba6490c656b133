// Package amortization holds the pure loan arithmetic: EMI, the reducing-balance
// repayment schedule, origination limits and the late-fee formula.
// Nothing here touches storage; the same inputs always give the same output.
package amortization

import (
	"errors"
	"fmt"
	"time"

	"github.com/segyhp/vehicle-loan-engine/pkg/utils"
	"github.com/shopspring/decimal"
)

// ErrInvalidArgument is returned for non-positive principal, tenure or EMI and negative rates.
var ErrInvalidArgument = errors.New("invalid argument")

// Monetary results are rounded to minor units. The compounding factor keeps
// extra digits so that rounding happens once, at the end.
const (
	moneyPlaces     int32 = 2
	factorPrecision int32 = 20
)

var (
	one         = decimal.NewFromInt(1)
	hundred     = decimal.NewFromInt(100)
	rateDivisor = decimal.NewFromInt(1200)
)

// InstallmentPlan is one row of a computed repayment schedule.
type InstallmentPlan struct {
	Number    int             `json:"number"`
	DueDate   time.Time       `json:"due_date"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Total     decimal.Decimal `json:"total"`
	Remaining decimal.Decimal `json:"remaining"`
}

// MonthlyRate converts an annual percentage (12 for 12%) into a monthly fraction.
func MonthlyRate(annualRatePercent decimal.Decimal) decimal.Decimal {
	return annualRatePercent.DivRound(rateDivisor, factorPrecision)
}

// CalculateEMI computes the equal monthly installment
//
//	EMI = P * r * (1+r)^n / ((1+r)^n - 1),  r = annualRatePercent / 1200
//
// A zero rate degrades to straight-line P / n. The result is rounded half-up to 2 places.
func CalculateEMI(principal, annualRatePercent decimal.Decimal, tenureMonths int) (decimal.Decimal, error) {
	if principal.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("%w: principal must be positive, got %s", ErrInvalidArgument, principal)
	}
	if annualRatePercent.Sign() < 0 {
		return decimal.Zero, fmt.Errorf("%w: interest rate must not be negative, got %s", ErrInvalidArgument, annualRatePercent)
	}
	if tenureMonths <= 0 {
		return decimal.Zero, fmt.Errorf("%w: tenure must be positive, got %d", ErrInvalidArgument, tenureMonths)
	}

	n := decimal.NewFromInt(int64(tenureMonths))
	r := MonthlyRate(annualRatePercent)
	if r.IsZero() {
		return principal.DivRound(n, moneyPlaces), nil
	}

	factor := compound(r, tenureMonths)
	emi := principal.Mul(r).Mul(factor).Div(factor.Sub(one))

	return emi.Round(moneyPlaces), nil
}

// CalculateTotalPayable returns emi * tenureMonths rounded to 2 places.
func CalculateTotalPayable(emi decimal.Decimal, tenureMonths int) (decimal.Decimal, error) {
	if emi.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("%w: emi must be positive, got %s", ErrInvalidArgument, emi)
	}
	if tenureMonths <= 0 {
		return decimal.Zero, fmt.Errorf("%w: tenure must be positive, got %d", ErrInvalidArgument, tenureMonths)
	}

	return emi.Mul(decimal.NewFromInt(int64(tenureMonths))).Round(moneyPlaces), nil
}

// BuildSchedule returns the reducing-balance schedule for the loan.
// Installment m is due m calendar months after startDate. The last
// installment takes whatever principal is left so the principal column
// sums exactly to principal.
func BuildSchedule(principal, annualRatePercent decimal.Decimal, tenureMonths int, startDate time.Time) ([]InstallmentPlan, error) {
	emi, err := CalculateEMI(principal, annualRatePercent, tenureMonths)
	if err != nil {
		return nil, err
	}

	r := MonthlyRate(annualRatePercent)
	remaining := principal
	plans := make([]InstallmentPlan, 0, tenureMonths)

	for m := 1; m <= tenureMonths; m++ {
		interest := remaining.Mul(r).Round(moneyPlaces)
		principalPart := emi.Sub(interest).Round(moneyPlaces)
		if m == tenureMonths || principalPart.GreaterThan(remaining) {
			principalPart = remaining
		}
		remaining = remaining.Sub(principalPart)

		plans = append(plans, InstallmentPlan{
			Number:    m,
			DueDate:   utils.CalculateDueDate(startDate, m),
			Principal: principalPart,
			Interest:  interest,
			Total:     principalPart.Add(interest),
			Remaining: remaining,
		})
	}

	return plans, nil
}

func compound(r decimal.Decimal, periods int) decimal.Decimal {
	base := one.Add(r)
	factor := one
	for i := 0; i < periods; i++ {
		factor = factor.Mul(base).Round(factorPrecision)
	}
	return factor
}
