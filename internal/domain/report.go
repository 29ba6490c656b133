package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Read models for dashboards and reports. All of them are computed on demand.

type DashboardStats struct {
	TotalLoans          int `json:"total_loans" db:"total_loans"`
	ActiveLoans         int `json:"active_loans" db:"active_loans"`
	DefaultedLoans      int `json:"defaulted_loans" db:"defaulted_loans"`
	TotalCustomers      int `json:"total_customers" db:"total_customers"`
	OverdueInstallments int `json:"overdue_installments" db:"overdue_installments"`
	SeizedVehicles      int `json:"seized_vehicles" db:"seized_vehicles"`
}

type AgentStats struct {
	AgentID         uuid.UUID       `json:"agent_id"`
	MyLoans         int             `json:"my_loans" db:"my_loans"`
	ActiveLoans     int             `json:"active_loans" db:"active_loans"`
	OverdueLoans    int             `json:"overdue_loans" db:"overdue_loans"`
	TotalCollection decimal.Decimal `json:"total_collection" db:"total_collection"`
}

// MonthlyCollection aggregates EMI receipts per calendar month, Month formatted as 2006-01.
type MonthlyCollection struct {
	Month           string          `json:"month"`
	TotalCollection decimal.Decimal `json:"total_collection"`
	Transactions    int             `json:"transactions"`
}

type AgentPerformance struct {
	AgentID         uuid.UUID       `json:"agent_id" db:"agent_id"`
	AgentName       string          `json:"agent_name" db:"agent_name"`
	BranchName      string          `json:"branch_name" db:"branch_name"`
	TotalLoans      int             `json:"total_loans" db:"total_loans"`
	TotalVolume     decimal.Decimal `json:"total_volume" db:"total_volume"`
	AvgInterestRate decimal.Decimal `json:"avg_interest_rate" db:"avg_interest_rate"`
}

type BranchPerformance struct {
	BranchID        uuid.UUID       `json:"branch_id" db:"branch_id"`
	BranchName      string          `json:"branch_name" db:"branch_name"`
	ManagerName     string          `json:"manager_name" db:"manager_name"`
	TotalLoans      int             `json:"total_loans" db:"total_loans"`
	TotalSanctioned decimal.Decimal `json:"total_sanctioned" db:"total_sanctioned"`
	Outstanding     decimal.Decimal `json:"outstanding" db:"outstanding"`
}

type LoanStatusSummary struct {
	Status          string          `json:"status" db:"status"`
	Count           int             `json:"count" db:"loan_count"`
	TotalAmount     decimal.Decimal `json:"total_amount" db:"total_amount"`
	AvgInterestRate decimal.Decimal `json:"avg_interest_rate" db:"avg_interest_rate"`
}

// PaymentHistoryItem is one paid installment with the loan it belongs to.
type PaymentHistoryItem struct {
	InstallmentID uuid.UUID       `json:"installment_id" db:"installment_id"`
	LoanID        uuid.UUID       `json:"loan_id" db:"loan_id"`
	InstallmentNo int             `json:"installment_no" db:"installment_no"`
	VehicleNo     string          `json:"vehicle_no" db:"vehicle_no"`
	TotalAmount   decimal.Decimal `json:"total_amount" db:"total_amount"`
	LateFee       decimal.Decimal `json:"late_fee" db:"late_fee"`
	PaymentMode   *string         `json:"payment_mode" db:"payment_mode"`
	PaidDate      *time.Time      `json:"paid_date" db:"paid_date"`
}
