package domain

import (
	"time"

	"github.com/google/uuid"
)

// Customer holds identity, contact and KYC data. Customers are never deleted.
type Customer struct {
	ID           uuid.UUID `json:"id" db:"id"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Phone        string    `json:"phone" db:"phone"`
	Email        string    `json:"email" db:"email"`
	Address      string    `json:"address" db:"address"`
	City         string    `json:"city" db:"city"`
	Pincode      string    `json:"pincode" db:"pincode"`
	DateOfBirth  time.Time `json:"date_of_birth" db:"date_of_birth"`
	AadharNumber string    `json:"aadhar_number" db:"aadhar_number"`
	PANNumber    string    `json:"pan_number" db:"pan_number"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

type CreateCustomerRequest struct {
	FirstName    string `json:"first_name" validate:"required,max=100"`
	LastName     string `json:"last_name" validate:"required,max=100"`
	Phone        string `json:"phone" validate:"required,numeric,min=10,max=15"`
	Email        string `json:"email" validate:"required,email"`
	Address      string `json:"address" validate:"required,max=255"`
	City         string `json:"city" validate:"required,max=100"`
	Pincode      string `json:"pincode" validate:"required,numeric,len=6"`
	DateOfBirth  string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	AadharNumber string `json:"aadhar_number" validate:"required,numeric,len=12"`
	PANNumber    string `json:"pan_number" validate:"required,alphanum,len=10"`
}

// UpdateContactRequest changes contact fields only; empty fields are left as they are.
type UpdateContactRequest struct {
	Phone   string `json:"phone" validate:"omitempty,numeric,min=10,max=15"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address" validate:"omitempty,max=255"`
	City    string `json:"city" validate:"omitempty,max=100"`
	Pincode string `json:"pincode" validate:"omitempty,numeric,len=6"`
}
