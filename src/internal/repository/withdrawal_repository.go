package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"wallet-service/src/internal/entity"
	"wallet-service/src/pkg/databases/mysql"
)

type WithdrawalRepository struct {
	DB mysql.DBInterface
}

func NewWithdrawalRepository(db mysql.DBInterface) *WithdrawalRepository {
	return &WithdrawalRepository{
		DB: db,
	}
}

const withdrawalColumns = `
	id, user_id, wallet_id, transaction_id, bank_name, account_number,
	account_holder, amount, status, processed_by, processed_at,
	rejection_reason, created_at, updated_at
`

func (r *WithdrawalRepository) Create(ctx context.Context, request *entity.WithdrawalRequest) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO withdrawal_requests (` + withdrawalColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = db.ExecContext(ctx, query,
		request.ID, request.UserID, request.WalletID, request.TransactionID,
		request.BankName, request.AccountNumber, request.AccountHolder,
		request.Amount, request.Status,
		request.ProcessedBy, request.ProcessedAt, request.RejectionReason,
		request.CreatedAt, request.UpdatedAt,
	)
	return err
}

func (r *WithdrawalRepository) FindByID(ctx context.Context, id string) (*entity.WithdrawalRequest, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var request entity.WithdrawalRequest
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE id = ?`

	err = db.GetContext(ctx, &request, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &request, nil
}

func (r *WithdrawalRepository) MarkProcessed(ctx context.Context, id string, status entity.WithdrawalStatus, adminID string, reason *string, processedAt time.Time) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}

	query := `
		UPDATE withdrawal_requests
		SET status = ?, processed_by = ?, processed_at = ?, rejection_reason = ?, updated_at = NOW()
		WHERE id = ? AND status = ?
	`

	res, err := db.ExecContext(ctx, query,
		status, adminID, processedAt, reason,
		id, entity.WithdrawalStatusPending,
	)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (r *WithdrawalRepository) List(ctx context.Context, status string, page, limit int) ([]entity.WithdrawalRequest, int64, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, 0, err
	}

	where := ""
	args := []interface{}{}
	if status != "" {
		where = "WHERE status = ?"
		args = append(args, status)
	}

	var total int64
	err = db.GetContext(ctx, &total, `SELECT COUNT(*) FROM withdrawal_requests `+where, args...)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + withdrawalColumns + `
		FROM withdrawal_requests ` + where + `
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`
	args = append(args, limit, (page-1)*limit)

	var requests []entity.WithdrawalRequest
	err = db.SelectContext(ctx, &requests, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}
