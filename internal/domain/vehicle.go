package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Vehicle conditions recorded at origination and seizure
const (
	VehicleConditionExcellent = "Excellent"
	VehicleConditionGood      = "Good"
	VehicleConditionFair      = "Fair"
	VehicleConditionPoor      = "Poor"
	VehicleConditionDamaged   = "Damaged"
)

// Vehicle is the collateral pledged against exactly one loan.
type Vehicle struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	CustomerID      uuid.UUID       `json:"customer_id" db:"customer_id"`
	VehicleNo       string          `json:"vehicle_no" db:"vehicle_no"`
	Make            string          `json:"make" db:"make"`
	Model           string          `json:"model" db:"model"`
	Year            int             `json:"year" db:"year"`
	MarketValue     decimal.Decimal `json:"market_value" db:"market_value"`
	InsuranceExpiry time.Time       `json:"insurance_expiry" db:"insurance_expiry"`
	Condition       string          `json:"condition" db:"vehicle_condition"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// VehicleDetails is the collateral part of an origination request.
type VehicleDetails struct {
	VehicleNo       string          `json:"vehicle_no" validate:"required,max=20"`
	Make            string          `json:"make" validate:"required,max=50"`
	Model           string          `json:"model" validate:"required,max=50"`
	Year            int             `json:"year" validate:"required,gte=1980,lte=2100"`
	MarketValue     decimal.Decimal `json:"market_value"`
	InsuranceExpiry string          `json:"insurance_expiry" validate:"required,datetime=2006-01-02"`
	Condition       string          `json:"condition" validate:"omitempty,oneof=Excellent Good Fair Poor Damaged"`
}
