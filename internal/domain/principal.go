package domain

import "github.com/google/uuid"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleAgent    Role = "agent"
	RoleCustomer Role = "customer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAgent, RoleCustomer:
		return true
	}
	return false
}

// Principal is the authenticated caller. ID is the agent id for agents and
// the customer id for customers; admins carry a zero ID.
type Principal struct {
	Subject string    `json:"sub"`
	Role    Role      `json:"role"`
	ID      uuid.UUID `json:"id"`
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
