package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
	"github.com/segyhp/vehicle-loan-engine/internal/repository/repotest"
	"github.com/segyhp/vehicle-loan-engine/internal/service"
	customError "github.com/segyhp/vehicle-loan-engine/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func customerRequest() *domain.CreateCustomerRequest {
	return &domain.CreateCustomerRequest{
		FirstName:    "Priya",
		LastName:     "Nair",
		Phone:        "9812345678",
		Email:        "priya@example.com",
		Address:      "7 FC Road",
		City:         "Pune",
		Pincode:      "411004",
		DateOfBirth:  "1988-11-02",
		AadharNumber: "123412341234",
		PANNumber:    "abcde1234f",
	}
}

func TestCustomerService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := repotest.NewStore(t)
	svc := service.NewCustomerService(store, at(sanction)...)

	created, err := svc.CreateCustomer(ctx, customerRequest())
	require.NoError(t, err)
	assert.Equal(t, "ABCDE1234F", created.PANNumber)
	assert.True(t, created.DateOfBirth.Equal(date(1988, 11, 2)))

	updated, err := svc.UpdateContact(ctx, created.ID, &domain.UpdateContactRequest{City: "Mumbai"})
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", updated.City)
	assert.Equal(t, "9812345678", updated.Phone, "empty fields are kept")

	got, err := svc.GetCustomer(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", got.City)
	assert.Equal(t, "123412341234", got.AadharNumber)

	found, err := svc.SearchCustomers(ctx, "Nair")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, created.ID, found[0].ID)
}

func TestCustomerService_Rejections(t *testing.T) {
	ctx := context.Background()
	store := repotest.NewStore(t)
	svc := service.NewCustomerService(store, at(sanction)...)

	_, err := svc.CreateCustomer(ctx, customerRequest())
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*domain.CreateCustomerRequest)
	}{
		{"duplicate kyc", func(r *domain.CreateCustomerRequest) {}},
		{"bad date", func(r *domain.CreateCustomerRequest) { r.DateOfBirth = "02-11-1988" }},
		{"born in the future", func(r *domain.CreateCustomerRequest) { r.DateOfBirth = "2030-01-01" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := customerRequest()
			tt.mutate(req)
			_, err := svc.CreateCustomer(ctx, req)
			assert.ErrorIs(t, err, customError.ErrValidation)
		})
	}

	_, err = svc.GetCustomer(ctx, uuid.New())
	assert.ErrorIs(t, err, customError.ErrNotFound)

	_, err = svc.UpdateContact(ctx, uuid.New(), &domain.UpdateContactRequest{City: "Nagpur"})
	assert.ErrorIs(t, err, customError.ErrNotFound)

	_, err = svc.SearchCustomers(ctx, "")
	assert.ErrorIs(t, err, customError.ErrValidation)
}
