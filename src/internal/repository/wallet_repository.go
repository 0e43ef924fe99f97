package repository

import (
	"context"
	"database/sql"
	"errors"

	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/model"
	"wallet-service/src/pkg/databases/mysql"

	"github.com/shopspring/decimal"
)

type WalletRepository struct {
	DB mysql.DBInterface
}

func NewWalletRepository(db mysql.DBInterface) *WalletRepository {
	return &WalletRepository{
		DB: db,
	}
}

func (r *WalletRepository) FindByID(ctx context.Context, id string) (*entity.Wallet, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var wallet entity.Wallet
	query := `
		SELECT
			id,
			user_id,
			currency_code,
			currency_symbol,
			deposit_balance,
			withdrawable_balance,
			total_balance,
			total_deposited,
			total_withdrawn,
			is_locked,
			created_at,
			updated_at
		FROM wallets
		WHERE id = ?
	`

	err = db.GetContext(ctx, &wallet, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &wallet, nil
}

func (r *WalletRepository) FindByUserID(ctx context.Context, userID string) (*entity.Wallet, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var wallet entity.Wallet
	query := `
		SELECT
			id,
			user_id,
			currency_code,
			currency_symbol,
			deposit_balance,
			withdrawable_balance,
			total_balance,
			total_deposited,
			total_withdrawn,
			is_locked,
			created_at,
			updated_at
		FROM wallets
		WHERE user_id = ?
	`

	err = db.GetContext(ctx, &wallet, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &wallet, nil
}

func (r *WalletRepository) Create(ctx context.Context, wallet *entity.Wallet) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO wallets (
			id, user_id, currency_code, currency_symbol,
			deposit_balance, withdrawable_balance, total_balance,
			total_deposited, total_withdrawn, is_locked,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = db.ExecContext(ctx, query,
		wallet.ID, wallet.UserID, wallet.CurrencyCode, wallet.CurrencySymbol,
		wallet.DepositBalance, wallet.WithdrawableBalance, wallet.TotalBalance,
		wallet.TotalDeposited, wallet.TotalWithdrawn, wallet.IsLocked,
		wallet.CreatedAt, wallet.UpdatedAt,
	)
	return err
}

func (r *WalletRepository) ApplySettlement(ctx context.Context, walletID string, snapshot model.BalanceSnapshot, depositedDelta, withdrawnDelta decimal.Decimal) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `
		UPDATE wallets
		SET deposit_balance = ?,
			withdrawable_balance = ?,
			total_balance = ?,
			total_deposited = total_deposited + ?,
			total_withdrawn = total_withdrawn + ?,
			updated_at = NOW()
		WHERE id = ?
	`

	_, err = db.ExecContext(ctx, query,
		snapshot.DepositBalance,
		snapshot.WithdrawableBalance,
		snapshot.TotalBalance,
		depositedDelta,
		withdrawnDelta,
		walletID,
	)
	return err
}

func (r *WalletRepository) SetLocked(ctx context.Context, walletID string, locked bool) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `UPDATE wallets SET is_locked = ?, updated_at = NOW() WHERE id = ?`
	_, err = db.ExecContext(ctx, query, locked, walletID)
	return err
}
