package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	SeizureStatusInitiated = "Initiated"
	SeizureStatusCompleted = "Completed"
)

// Seizure records repossession of the collateral of a defaulted loan
type Seizure struct {
	ID               uuid.UUID `json:"id" db:"id"`
	LoanID           uuid.UUID `json:"loan_id" db:"loan_id"`
	AgentID          uuid.UUID `json:"agent_id" db:"agent_id"`
	SeizureDate      time.Time `json:"seizure_date" db:"seizure_date"`
	Reason           string    `json:"reason" db:"reason"`
	VehicleCondition string    `json:"vehicle_condition" db:"vehicle_condition"`
	Status           string    `json:"status" db:"status"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

type SeizureListItem struct {
	SeizureID    uuid.UUID `json:"seizure_id" db:"seizure_id"`
	LoanID       uuid.UUID `json:"loan_id" db:"loan_id"`
	CustomerName string    `json:"customer_name" db:"customer_name"`
	VehicleNo    string    `json:"vehicle_no" db:"vehicle_no"`
	SeizureDate  time.Time `json:"seizure_date" db:"seizure_date"`
	Status       string    `json:"status" db:"status"`
	Reason       string    `json:"reason" db:"reason"`
}

type InitiateSeizureRequest struct {
	LoanID           uuid.UUID `json:"loan_id" validate:"required"`
	AgentID          uuid.UUID `json:"agent_id"`
	Reason           string    `json:"reason" validate:"required,max=500"`
	VehicleCondition string    `json:"vehicle_condition" validate:"required,oneof=Excellent Good Fair Poor Damaged"`
}

type CompleteSeizureRequest struct {
	VehicleCondition string `json:"vehicle_condition" validate:"omitempty,oneof=Excellent Good Fair Poor Damaged"`
}
