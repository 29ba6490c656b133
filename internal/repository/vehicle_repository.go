package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
)

const vehicleColumns = `id, customer_id, vehicle_no, make, model, year, market_value,
	insurance_expiry, vehicle_condition, created_at`

type vehicleRepository struct {
	db sqlx.ExtContext
}

func NewVehicleRepository(db sqlx.ExtContext) VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `
		INSERT INTO vehicles (` + vehicleColumns + `)
		VALUES (:id, :customer_id, :vehicle_no, :make, :model, :year, :market_value,
			:insurance_expiry, :vehicle_condition, :created_at)
	`

	_, err := sqlx.NamedExecContext(ctx, r.db, query, vehicle)
	return classify(err)
}

func (r *vehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	query := r.db.Rebind(`SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = ?`)

	var vehicle domain.Vehicle
	if err := sqlx.GetContext(ctx, r.db, &vehicle, query, id); err != nil {
		return nil, classify(err)
	}

	return &vehicle, nil
}

func (r *vehicleRepository) UpdateCondition(ctx context.Context, id uuid.UUID, condition string) error {
	query := r.db.Rebind(`UPDATE vehicles SET vehicle_condition = ? WHERE id = ?`)
	return mustAffect(r.db.ExecContext(ctx, query, condition, id))
}
