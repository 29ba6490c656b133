package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
)

const customerColumns = `id, first_name, last_name, phone, email, address, city, pincode,
	date_of_birth, aadhar_number, pan_number, created_at, updated_at`

type customerRepository struct {
	db sqlx.ExtContext
}

func NewCustomerRepository(db sqlx.ExtContext) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES (:id, :first_name, :last_name, :phone, :email, :address, :city, :pincode,
			:date_of_birth, :aadhar_number, :pan_number, :created_at, :updated_at)
	`

	_, err := sqlx.NamedExecContext(ctx, r.db, query, customer)
	return classify(err)
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	query := r.db.Rebind(`SELECT ` + customerColumns + ` FROM customers WHERE id = ?`)

	var customer domain.Customer
	if err := sqlx.GetContext(ctx, r.db, &customer, query, id); err != nil {
		return nil, classify(err)
	}

	return &customer, nil
}

// UpdateContact writes the contact fields only; identity and KYC data stay as created.
func (r *customerRepository) UpdateContact(ctx context.Context, customer *domain.Customer) error {
	query := r.db.Rebind(`
		UPDATE customers
		SET phone = ?, email = ?, address = ?, city = ?, pincode = ?, updated_at = ?
		WHERE id = ?
	`)

	return mustAffect(r.db.ExecContext(ctx, query,
		customer.Phone,
		customer.Email,
		customer.Address,
		customer.City,
		customer.Pincode,
		customer.UpdatedAt,
		customer.ID,
	))
}

func (r *customerRepository) Search(ctx context.Context, term string, limit int) ([]*domain.Customer, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	query := r.db.Rebind(`SELECT ` + customerColumns + `
		FROM customers
		WHERE LOWER(first_name || ' ' || last_name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?
		ORDER BY first_name, last_name
		LIMIT ?`)

	customers := []*domain.Customer{}
	if err := sqlx.SelectContext(ctx, r.db, &customers, query, pattern, pattern, pattern, limit); err != nil {
		return nil, classify(err)
	}
	return customers, nil
}
