package amortization

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateLoanParameters(t *testing.T) {
	tests := []struct {
		name        string
		loanAmount  string
		marketValue string
		rate        string
		tenure      int
		violations  int
		contains    string
	}{
		{
			name:        "valid proposal",
			loanAmount:  "400000",
			marketValue: "600000",
			rate:        "12",
			tenure:      36,
		},
		{
			name:        "exactly 80 percent is allowed",
			loanAmount:  "480000",
			marketValue: "600000",
			rate:        "12",
			tenure:      36,
		},
		{
			name:        "loan to value above cap",
			loanAmount:  "500000",
			marketValue: "600000",
			rate:        "12",
			tenure:      36,
			violations:  1,
			contains:    "LTV: 83.3%",
		},
		{
			name:        "rate below band",
			loanAmount:  "400000",
			marketValue: "600000",
			rate:        "3",
			tenure:      36,
			violations:  1,
			contains:    "Interest rate must be between 5% and 25%",
		},
		{
			name:        "rate above band",
			loanAmount:  "400000",
			marketValue: "600000",
			rate:        "30",
			tenure:      36,
			violations:  1,
		},
		{
			name:        "tenure too short",
			loanAmount:  "400000",
			marketValue: "600000",
			rate:        "12",
			tenure:      3,
			violations:  1,
			contains:    "Loan tenure must be between 6 and 84 months",
		},
		{
			name:        "tenure too long",
			loanAmount:  "400000",
			marketValue: "600000",
			rate:        "12",
			tenure:      90,
			violations:  1,
		},
		{
			name:        "all rules broken at once",
			loanAmount:  "900000",
			marketValue: "600000",
			rate:        "30",
			tenure:      90,
			violations:  3,
		},
		{
			name:        "missing market value",
			loanAmount:  "400000",
			marketValue: "0",
			rate:        "12",
			tenure:      36,
			violations:  1,
			contains:    "market value must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateLoanParameters(dec(tt.loanAmount), dec(tt.marketValue), dec(tt.rate), tt.tenure)
			assert.Len(t, got, tt.violations)
			if tt.contains != "" {
				assert.Contains(t, got[0], tt.contains)
			}
		})
	}
}

func TestRules_Custom(t *testing.T) {
	rules := DefaultRules()
	rules.MaxLTV = dec("0.90")

	assert.Empty(t, rules.Validate(dec("500000"), dec("600000"), dec("12"), 36))
}

func TestLateFeePolicy_MonthsOverdue(t *testing.T) {
	p := DefaultLateFeePolicy()

	tests := []struct {
		days     int
		expected int
	}{
		{1, 1},
		{14, 1},
		{40, 1},
		{44, 1},
		{45, 2},
		{95, 3},
		{400, 13},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, p.MonthsOverdue(tt.days), "days=%d", tt.days)
	}
}

func TestLateFeePolicy_Fee(t *testing.T) {
	p := DefaultLateFeePolicy()
	today := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		dueDate  time.Time
		total    decimal.Decimal
		expected decimal.Decimal
	}{
		{"forty days late", today.AddDate(0, 0, -40), dec("10000"), dec("200")},
		{"inside grace still charges one month", today.AddDate(0, 0, -5), dec("10000"), dec("200")},
		{"fifty days late", today.AddDate(0, 0, -50), dec("10000"), dec("400")},
		{"capped at twenty percent", today.AddDate(0, 0, -400), dec("10000"), dec("2000")},
		{"due today", today, dec("10000"), decimal.Zero},
		{"not yet due", today.AddDate(0, 0, 3), dec("10000"), decimal.Zero},
		{"rounds to minor units", today.AddDate(0, 0, -40), dec("13285.72"), dec("265.71")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee := p.Fee(tt.total, tt.dueDate, today)
			assert.True(t, fee.Equal(tt.expected), "expected %s, got %s", tt.expected, fee)
		})
	}
}
