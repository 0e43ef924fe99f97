package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/model"
	"wallet-service/src/pkg/databases/mysql"
)

type TransactionRepository struct {
	DB mysql.DBInterface
}

func NewTransactionRepository(db mysql.DBInterface) *TransactionRepository {
	return &TransactionRepository{
		DB: db,
	}
}

const transactionColumns = `
	id, reference, user_id, wallet_id, type, category, balance_type, status,
	amount, deposit_before, deposit_after, withdrawable_before,
	withdrawable_after, total_before, total_after, metadata, reversal_of,
	failure_reason, completed_at, created_at
`

func (r *TransactionRepository) Create(ctx context.Context, tx *entity.WalletTransaction) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO wallet_transactions (` + transactionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = db.ExecContext(ctx, query,
		tx.ID, tx.Reference, tx.UserID, tx.WalletID, tx.Type, tx.Category,
		tx.BalanceType, tx.Status, tx.Amount,
		tx.DepositBefore, tx.DepositAfter,
		tx.WithdrawableBefore, tx.WithdrawableAfter,
		tx.TotalBefore, tx.TotalAfter,
		tx.Metadata, tx.ReversalOf, tx.FailureReason, tx.CompletedAt, tx.CreatedAt,
	)
	return err
}

func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*entity.WalletTransaction, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var tx entity.WalletTransaction
	query := `SELECT ` + transactionColumns + ` FROM wallet_transactions WHERE id = ?`

	err = db.GetContext(ctx, &tx, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &tx, nil
}

func (r *TransactionRepository) AggregateBalances(ctx context.Context, walletID string, statuses ...entity.TransactionStatus) ([]entity.BalanceAggregate, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(statuses)), ",")
	query := `
		SELECT type, balance_type, COALESCE(SUM(amount), 0) AS total
		FROM wallet_transactions
		WHERE wallet_id = ?
		AND status IN (` + placeholders + `)
		GROUP BY type, balance_type
	`

	args := make([]interface{}, 0, len(statuses)+1)
	args = append(args, walletID)
	for _, status := range statuses {
		args = append(args, status)
	}

	var rows []entity.BalanceAggregate
	err = db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *TransactionRepository) Complete(ctx context.Context, id string, before, after model.BalanceSnapshot, completedAt time.Time) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}

	// conditional on status so exactly one concurrent settle wins
	query := `
		UPDATE wallet_transactions
		SET status = ?,
			deposit_before = ?, deposit_after = ?,
			withdrawable_before = ?, withdrawable_after = ?,
			total_before = ?, total_after = ?,
			completed_at = ?
		WHERE id = ? AND status = ?
	`

	res, err := db.ExecContext(ctx, query,
		entity.TransactionStatusCompleted,
		before.DepositBalance, after.DepositBalance,
		before.WithdrawableBalance, after.WithdrawableBalance,
		before.TotalBalance, after.TotalBalance,
		completedAt,
		id, entity.TransactionStatusPending,
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

func (r *TransactionRepository) Fail(ctx context.Context, id, reason string) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}

	query := `
		UPDATE wallet_transactions
		SET status = ?, failure_reason = ?
		WHERE id = ? AND status = ?
	`

	res, err := db.ExecContext(ctx, query,
		entity.TransactionStatusFailed, reason,
		id, entity.TransactionStatusPending,
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

func (r *TransactionRepository) MarkConsumed(ctx context.Context, id, permitID string) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}

	// conditional on the marker being absent so exactly one permit can ever
	// consume this payment
	query := `
		UPDATE wallet_transactions
		SET metadata = JSON_SET(COALESCE(metadata, '{}'), '$.evpId', ?)
		WHERE id = ?
		AND status = ?
		AND JSON_EXTRACT(COALESCE(metadata, '{}'), '$.evpId') IS NULL
	`

	res, err := db.ExecContext(ctx, query, permitID, id, entity.TransactionStatusCompleted)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (r *TransactionRepository) ListByWallet(ctx context.Context, walletID string, page, limit int) ([]entity.WalletTransaction, int64, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, 0, err
	}

	var total int64
	err = db.GetContext(ctx, &total, `SELECT COUNT(*) FROM wallet_transactions WHERE wallet_id = ?`, walletID)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM wallet_transactions
		WHERE wallet_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	var txs []entity.WalletTransaction
	err = db.SelectContext(ctx, &txs, query, walletID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	return txs, total, nil
}
