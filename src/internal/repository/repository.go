package repository

import (
	"context"
	"time"

	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/model"

	"github.com/shopspring/decimal"
)

// Store contracts consumed by the use cases. Find methods return (nil, nil)
// when the row does not exist; callers decide whether that is an error.
//
// Every status/marker mutation is a conditional write keyed on the current
// state and reports via its bool result whether this caller won the
// transition. That single conditional write is what makes double settlement
// and double consumption impossible under concurrent operators.

type WalletStore interface {
	FindByID(ctx context.Context, id string) (*entity.Wallet, error)
	FindByUserID(ctx context.Context, userID string) (*entity.Wallet, error)
	Create(ctx context.Context, wallet *entity.Wallet) error
	// ApplySettlement writes the derived balances and lifetime counters. Only
	// the ledger settlement path may call it.
	ApplySettlement(ctx context.Context, walletID string, snapshot model.BalanceSnapshot, depositedDelta, withdrawnDelta decimal.Decimal) error
	SetLocked(ctx context.Context, walletID string, locked bool) error
}

type TransactionStore interface {
	Create(ctx context.Context, tx *entity.WalletTransaction) error
	FindByID(ctx context.Context, id string) (*entity.WalletTransaction, error)
	// AggregateBalances sums amounts per (type, balance_type) over entries in
	// the given statuses. Feeds the balance calculator.
	AggregateBalances(ctx context.Context, walletID string, statuses ...entity.TransactionStatus) ([]entity.BalanceAggregate, error)
	// Complete transitions PENDING to COMPLETED and writes the snapshots.
	Complete(ctx context.Context, id string, before, after model.BalanceSnapshot, completedAt time.Time) (bool, error)
	// Fail transitions PENDING to FAILED and records the reason.
	Fail(ctx context.Context, id, reason string) (bool, error)
	// MarkConsumed stamps the consumption marker onto a COMPLETED payment
	// entry, conditional on no marker being present yet.
	MarkConsumed(ctx context.Context, id, permitID string) (bool, error)
	ListByWallet(ctx context.Context, walletID string, page, limit int) ([]entity.WalletTransaction, int64, error)
}

type WithdrawalStore interface {
	Create(ctx context.Context, request *entity.WithdrawalRequest) error
	FindByID(ctx context.Context, id string) (*entity.WithdrawalRequest, error)
	// MarkProcessed transitions PENDING to APPROVED or REJECTED.
	MarkProcessed(ctx context.Context, id string, status entity.WithdrawalStatus, adminID string, reason *string, processedAt time.Time) (bool, error)
	List(ctx context.Context, status string, page, limit int) ([]entity.WithdrawalRequest, int64, error)
}

type PermitStore interface {
	Create(ctx context.Context, permit *entity.VehicleEvp) error
	FindByID(ctx context.Context, id string) (*entity.VehicleEvp, error)
	// FindCurrentByVehicle returns the active, unrevoked, unexpired permit for
	// a vehicle, if any.
	FindCurrentByVehicle(ctx context.Context, vehicleID string, now time.Time) (*entity.VehicleEvp, error)
	Revoke(ctx context.Context, id, adminID, reason string, revokedAt time.Time) (bool, error)
	List(ctx context.Context, filter *model.ListPermits) ([]entity.VehicleEvp, int64, error)
}

// VehicleStore and UserStore are read-only views onto collaborator-owned
// tables; the ledger never writes them.

type VehicleStore interface {
	FindByID(ctx context.Context, id string) (*entity.Vehicle, error)
}

type UserStore interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
}
