package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
	"github.com/segyhp/vehicle-loan-engine/internal/repository"
	customError "github.com/segyhp/vehicle-loan-engine/pkg/errors"
)

const searchLimit = 50

// CustomerService onboards customers and maintains their contact data.
type CustomerService struct {
	base
}

func NewCustomerService(store Store, opts ...Option) *CustomerService {
	return &CustomerService{base: newBase(store, opts)}
}

func (s *CustomerService) CreateCustomer(ctx context.Context, req *domain.CreateCustomerRequest) (*domain.Customer, error) {
	dob, err := parseDate("date_of_birth", req.DateOfBirth)
	if err != nil {
		return nil, err
	}
	if !dob.Before(s.today()) {
		return nil, customError.NewValidationError("date_of_birth must be in the past")
	}

	now := s.timestamp()
	customer := &domain.Customer{
		ID:           uuid.New(),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        req.Phone,
		Email:        req.Email,
		Address:      req.Address,
		City:         req.City,
		Pincode:      req.Pincode,
		DateOfBirth:  dob,
		AadharNumber: req.AadharNumber,
		PANNumber:    strings.ToUpper(req.PANNumber),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Repositories().Customers.Create(ctx, customer); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, customError.NewValidationError("Aadhar or PAN number is already registered")
		}
		return nil, storeError(err)
	}

	s.log.WithField("customer_id", customer.ID).Info("Customer onboarded")
	return customer, nil
}

// UpdateContact changes the non-empty contact fields of req.
func (s *CustomerService) UpdateContact(ctx context.Context, id uuid.UUID, req *domain.UpdateContactRequest) (*domain.Customer, error) {
	customers := s.store.Repositories().Customers

	customer, err := customers.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Customer", id)
	}

	if req.Phone != "" {
		customer.Phone = req.Phone
	}
	if req.Email != "" {
		customer.Email = req.Email
	}
	if req.Address != "" {
		customer.Address = req.Address
	}
	if req.City != "" {
		customer.City = req.City
	}
	if req.Pincode != "" {
		customer.Pincode = req.Pincode
	}
	customer.UpdatedAt = s.timestamp()

	if err := customers.UpdateContact(ctx, customer); err != nil {
		return nil, lookupError(err, "Customer", id)
	}
	return customer, nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	customer, err := s.store.Repositories().Customers.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Customer", id)
	}
	return customer, nil
}

func (s *CustomerService) SearchCustomers(ctx context.Context, term string) ([]*domain.Customer, error) {
	if strings.TrimSpace(term) == "" {
		return nil, customError.NewValidationError("search term is required")
	}

	customers, err := s.store.Repositories().Customers.Search(ctx, term, searchLimit)
	if err != nil {
		return nil, storeError(err)
	}
	return customers, nil
}
