package domain

import (
	"time"

	"github.com/google/uuid"
)

// Branch and Agent are reference data consumed by loans.

// Agent roles
const (
	AgentRoleLoanOfficer = "Loan Officer"
	AgentRoleSenior      = "Senior Agent"
	AgentRoleField       = "Field Agent"
)

// ValidAgentRole reports whether role is one of the agent roles.
func ValidAgentRole(role string) bool {
	switch role {
	case AgentRoleLoanOfficer, AgentRoleSenior, AgentRoleField:
		return true
	}
	return false
}

type Branch struct {
	ID          uuid.UUID `json:"id" db:"id"`
	BranchName  string    `json:"branch_name" db:"branch_name"`
	ManagerName string    `json:"manager_name" db:"manager_name"`
	City        string    `json:"city" db:"city"`
	Phone       string    `json:"phone" db:"phone"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type Agent struct {
	ID        uuid.UUID `json:"id" db:"id"`
	BranchID  uuid.UUID `json:"branch_id" db:"branch_id"`
	Name      string    `json:"name" db:"name"`
	Role      string    `json:"role" db:"role"`
	Phone     string    `json:"phone" db:"phone"`
	Email     string    `json:"email" db:"email"`
	HireDate  time.Time `json:"hire_date" db:"hire_date"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CreateBranchRequest struct {
	BranchName  string `json:"branch_name" validate:"required,max=100"`
	ManagerName string `json:"manager_name" validate:"max=100"`
	City        string `json:"city" validate:"required,max=100"`
	Phone       string `json:"phone" validate:"omitempty,numeric,min=10,max=15"`
}

type CreateAgentRequest struct {
	BranchID uuid.UUID `json:"branch_id" validate:"required"`
	Name     string    `json:"name" validate:"required,max=100"`
	Role     string    `json:"role" validate:"required,oneof='Loan Officer' 'Senior Agent' 'Field Agent'"`
	Phone    string    `json:"phone" validate:"omitempty,numeric,min=10,max=15"`
	Email    string    `json:"email" validate:"omitempty,email"`
	HireDate string    `json:"hire_date" validate:"required,datetime=2006-01-02"`
}
