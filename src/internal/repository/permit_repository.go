package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/model"
	"wallet-service/src/pkg/databases/mysql"
)

type PermitRepository struct {
	DB mysql.DBInterface
}

func NewPermitRepository(db mysql.DBInterface) *PermitRepository {
	return &PermitRepository{
		DB: db,
	}
}

const permitColumns = `
	id, vehicle_id, transaction_id, certificate_number, price, start_date,
	end_date, is_active, issued_by, notes, revoked_at, revoked_by,
	created_at, updated_at
`

func (r *PermitRepository) Create(ctx context.Context, permit *entity.VehicleEvp) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO vehicle_evps (` + permitColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = db.ExecContext(ctx, query,
		permit.ID, permit.VehicleID, permit.TransactionID, permit.CertificateNumber,
		permit.Price, permit.StartDate, permit.EndDate, permit.IsActive,
		permit.IssuedBy, permit.Notes, permit.RevokedAt, permit.RevokedBy,
		permit.CreatedAt, permit.UpdatedAt,
	)
	return err
}

func (r *PermitRepository) FindByID(ctx context.Context, id string) (*entity.VehicleEvp, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var permit entity.VehicleEvp
	query := `SELECT ` + permitColumns + ` FROM vehicle_evps WHERE id = ?`

	err = db.GetContext(ctx, &permit, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &permit, nil
}

func (r *PermitRepository) FindCurrentByVehicle(ctx context.Context, vehicleID string, now time.Time) (*entity.VehicleEvp, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var permit entity.VehicleEvp
	query := `
		SELECT ` + permitColumns + `
		FROM vehicle_evps
		WHERE vehicle_id = ?
		AND is_active = 1
		AND revoked_at IS NULL
		AND end_date > ?
		ORDER BY end_date DESC
		LIMIT 1
	`

	err = db.GetContext(ctx, &permit, query, vehicleID, now)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &permit, nil
}

func (r *PermitRepository) Revoke(ctx context.Context, id, adminID, reason string, revokedAt time.Time) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}

	query := `
		UPDATE vehicle_evps
		SET is_active = 0,
			revoked_at = ?,
			revoked_by = ?,
			notes = CONCAT(notes, ?),
			updated_at = NOW()
		WHERE id = ? AND revoked_at IS NULL
	`

	res, err := db.ExecContext(ctx, query, revokedAt, adminID, "\nrevoked: "+reason, id)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (r *PermitRepository) List(ctx context.Context, filter *model.ListPermits) ([]entity.VehicleEvp, int64, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, 0, err
	}

	where := "WHERE 1=1"
	args := []interface{}{}
	if filter.VehicleID != "" {
		where += " AND vehicle_id = ?"
		args = append(args, filter.VehicleID)
	}
	if filter.ActiveOnly {
		where += " AND is_active = 1 AND revoked_at IS NULL AND end_date > NOW()"
	}

	var total int64
	err = db.GetContext(ctx, &total, `SELECT COUNT(*) FROM vehicle_evps `+where, args...)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + permitColumns + `
		FROM vehicle_evps ` + where + `
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	var permits []entity.VehicleEvp
	err = db.SelectContext(ctx, &permits, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return permits, total, nil
}
