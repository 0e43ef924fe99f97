package repository

import (
	"context"
	"database/sql"
	"errors"

	"wallet-service/src/internal/entity"
	"wallet-service/src/pkg/databases/mysql"
)

// VehicleRepository reads the fleet service's tables. The permit workflow only
// needs the documentation-completeness flag; nothing here writes.
type VehicleRepository struct {
	DB mysql.DBInterface
}

func NewVehicleRepository(db mysql.DBInterface) *VehicleRepository {
	return &VehicleRepository{
		DB: db,
	}
}

func (r *VehicleRepository) FindByID(ctx context.Context, id string) (*entity.Vehicle, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var vehicle entity.Vehicle
	query := `
		SELECT
			v.id,
			v.owner_id,
			v.plate_number,
			v.vehicle_type,
			COALESCE(d.documents_complete, 0) AS documents_complete
		FROM vehicles v
		LEFT JOIN vehicle_documents d ON d.vehicle_id = v.id
		WHERE v.id = ?
	`

	err = db.GetContext(ctx, &vehicle, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &vehicle, nil
}
