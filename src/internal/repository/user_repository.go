package repository

import (
	"context"
	"database/sql"
	"errors"

	"wallet-service/src/internal/entity"
	"wallet-service/src/pkg/databases/mysql"
)

type UserRepository struct {
	DB mysql.DBInterface
}

func NewUserRepository(db mysql.DBInterface) *UserRepository {
	return &UserRepository{
		DB: db,
	}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var user entity.User
	query := `
		SELECT user_id, full_name, email, isMitra, mobile_number, created_at, updated_at
		FROM users
		WHERE user_id = ?
	`

	err = db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}
