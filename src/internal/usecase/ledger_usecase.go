package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/model"
	"wallet-service/src/internal/repository"
	"wallet-service/src/pkg/log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// LedgerUseCase owns the entry state machine. It is the only component that
// transitions entries and the only caller of WalletStore.ApplySettlement.
//
// PENDING -> COMPLETED via Settle, PENDING -> FAILED via Void; terminal states
// are final. A reversal is a new entry referencing the original.
type LedgerUseCase struct {
	Log              log.Log
	TransactionStore repository.TransactionStore
	WalletStore      repository.WalletStore
	Redis            redis.UniversalClient
}

func NewLedgerUseCase(
	logger log.Log,
	transactionStore repository.TransactionStore,
	walletStore repository.WalletStore,
	redisClient redis.UniversalClient,
) *LedgerUseCase {
	return &LedgerUseCase{
		Log:              logger,
		TransactionStore: transactionStore,
		WalletStore:      walletStore,
		Redis:            redisClient,
	}
}

type ReserveInput struct {
	UserID      string
	WalletID    string
	Type        entity.TransactionType
	Category    entity.TransactionCategory
	BalanceType entity.BalanceType
	Amount      decimal.Decimal
	Metadata    entity.Metadata
	ReversalOf  *string
}

// Reserve creates a PENDING entry. The before-snapshot records the settled
// balance at reservation time, but nothing is applied to the wallet yet:
// pending entries only tie up funds through the pending-aware sufficiency
// check below.
func (c *LedgerUseCase) Reserve(ctx context.Context, input ReserveInput) (*entity.WalletTransaction, error) {
	if !input.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	wallet, err := c.WalletStore.FindByID(ctx, input.WalletID)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, ErrWalletNotFound
	}

	if input.Type == entity.TransactionTypeDebit && wallet.IsLocked {
		return nil, ErrWalletLocked
	}

	settled, err := c.SettledBalance(ctx, input.WalletID)
	if err != nil {
		return nil, err
	}

	if input.Type == entity.TransactionTypeDebit {
		pending, err := c.TransactionStore.AggregateBalances(ctx, input.WalletID, entity.TransactionStatusPending)
		if err != nil {
			return nil, err
		}
		available := AvailableSnapshot(settled, pending)
		if Bucket(available, input.BalanceType).LessThan(input.Amount) {
			c.Log.Info("ledger-usecase",
				fmt.Sprintf("reserve rejected, available %s < %s", Bucket(available, input.BalanceType), input.Amount),
				"Reserve", input.WalletID)
			return nil, ErrInsufficientFunds
		}
	}

	now := time.Now()
	metadata := input.Metadata
	if metadata == nil {
		metadata = entity.Metadata{}
	}

	tx := &entity.WalletTransaction{
		ID:                 uuid.NewString(),
		Reference:          newReference(now),
		UserID:             input.UserID,
		WalletID:           input.WalletID,
		Type:               input.Type,
		Category:           input.Category,
		BalanceType:        input.BalanceType,
		Status:             entity.TransactionStatusPending,
		Amount:             input.Amount,
		DepositBefore:      settled.DepositBalance,
		WithdrawableBefore: settled.WithdrawableBalance,
		TotalBefore:        settled.TotalBalance,
		Metadata:           metadata,
		ReversalOf:         input.ReversalOf,
		CreatedAt:          now,
	}

	if err := c.TransactionStore.Create(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// Settle transitions PENDING -> COMPLETED. Sufficiency is re-validated against
// the live settled balance, not the reservation-time snapshot, so debits that
// completed in between cannot drive a bucket negative. The status update is a
// single conditional write: of two concurrent settles exactly one wins.
func (c *LedgerUseCase) Settle(ctx context.Context, entryID string) (*entity.WalletTransaction, error) {
	tx, err := c.TransactionStore.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, ErrTransactionNotFound
	}
	if tx.Status != entity.TransactionStatusPending {
		return nil, ErrInvalidStateTransition
	}

	settled, err := c.SettledBalance(ctx, tx.WalletID)
	if err != nil {
		return nil, err
	}

	if tx.Type == entity.TransactionTypeDebit && Bucket(settled, tx.BalanceType).LessThan(tx.Amount) {
		// entry stays PENDING, caller retries or voids
		return nil, ErrInsufficientFunds
	}

	after := ApplyEntry(settled, tx)
	now := time.Now()

	won, err := c.TransactionStore.Complete(ctx, tx.ID, settled, after, now)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, ErrInvalidStateTransition
	}

	tx.Status = entity.TransactionStatusCompleted
	tx.DepositBefore = settled.DepositBalance
	tx.WithdrawableBefore = settled.WithdrawableBalance
	tx.TotalBefore = settled.TotalBalance
	tx.DepositAfter = after.DepositBalance
	tx.WithdrawableAfter = after.WithdrawableBalance
	tx.TotalAfter = after.TotalBalance
	tx.CompletedAt = &now

	c.applyToWallet(ctx, tx, after)
	c.dropBalanceCache(ctx, tx.WalletID)

	return tx, nil
}

// Void transitions PENDING -> FAILED. No wallet mutation: the reserved funds
// are released simply because pending entries stop counting.
func (c *LedgerUseCase) Void(ctx context.Context, entryID, reason string) error {
	tx, err := c.TransactionStore.FindByID(ctx, entryID)
	if err != nil {
		return err
	}
	if tx == nil {
		return ErrTransactionNotFound
	}
	if tx.Status != entity.TransactionStatusPending {
		return ErrInvalidStateTransition
	}

	won, err := c.TransactionStore.Fail(ctx, entryID, reason)
	if err != nil {
		return err
	}
	if !won {
		return ErrInvalidStateTransition
	}

	return nil
}

// Reverse creates and settles an opposite-type entry referencing a COMPLETED
// original. If settling the reversal fails it is left PENDING for the operator.
func (c *LedgerUseCase) Reverse(ctx context.Context, entryID string) (*entity.WalletTransaction, error) {
	original, err := c.TransactionStore.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, ErrTransactionNotFound
	}
	if original.Status != entity.TransactionStatusCompleted {
		return nil, ErrInvalidStateTransition
	}

	reversal, err := c.Reserve(ctx, ReserveInput{
		UserID:      original.UserID,
		WalletID:    original.WalletID,
		Type:        original.Type.Opposite(),
		Category:    entity.CategoryRefund,
		BalanceType: original.BalanceType,
		Amount:      original.Amount,
		Metadata:    entity.Metadata{"reversedReference": original.Reference},
		ReversalOf:  &original.ID,
	})
	if err != nil {
		return nil, err
	}

	settled, err := c.Settle(ctx, reversal.ID)
	if err != nil {
		c.Log.Error("ledger-usecase",
			fmt.Sprintf("reversal %s left pending: %v", reversal.ID, err), "Reverse", reversal.Reference)
		return reversal, err
	}
	return settled, nil
}

// SettledBalance is the authoritative spendable balance: COMPLETED entries only.
func (c *LedgerUseCase) SettledBalance(ctx context.Context, walletID string) (model.BalanceSnapshot, error) {
	rows, err := c.TransactionStore.AggregateBalances(ctx, walletID, entity.TransactionStatusCompleted)
	if err != nil {
		return model.BalanceSnapshot{}, err
	}
	return SettledSnapshot(rows), nil
}

// AvailableBalance is the pending-aware balance used to stop a second
// concurrent withdrawal from over-committing funds.
func (c *LedgerUseCase) AvailableBalance(ctx context.Context, walletID string) (model.BalanceSnapshot, error) {
	settled, err := c.SettledBalance(ctx, walletID)
	if err != nil {
		return model.BalanceSnapshot{}, err
	}
	pending, err := c.TransactionStore.AggregateBalances(ctx, walletID, entity.TransactionStatusPending)
	if err != nil {
		return model.BalanceSnapshot{}, err
	}
	return AvailableSnapshot(settled, pending), nil
}

// applyToWallet writes the derived balances back onto the wallet row. The
// ledger entry is already durable at this point; a failure here only leaves
// the display columns stale, so it is logged loudly instead of failing the
// settlement.
func (c *LedgerUseCase) applyToWallet(ctx context.Context, tx *entity.WalletTransaction, after model.BalanceSnapshot) {
	depositedDelta := decimal.Zero
	withdrawnDelta := decimal.Zero
	if tx.Type == entity.TransactionTypeCredit {
		depositedDelta = tx.Amount
	}
	if tx.Type == entity.TransactionTypeDebit && tx.Category == entity.CategoryWithdrawal {
		withdrawnDelta = tx.Amount
	}

	if err := c.WalletStore.ApplySettlement(ctx, tx.WalletID, after, depositedDelta, withdrawnDelta); err != nil {
		c.Log.Fatal("ledger-usecase",
			fmt.Sprintf("entry %s settled but wallet %s balances not refreshed: %v", tx.ID, tx.WalletID, err),
			"Settle", tx.Reference)
	}
}

func (c *LedgerUseCase) dropBalanceCache(ctx context.Context, walletID string) {
	if c.Redis == nil {
		return
	}
	if err := c.Redis.Del(ctx, walletBalanceCacheKey(walletID)).Err(); err != nil {
		c.Log.Error("ledger-usecase", fmt.Sprintf("failed to drop balance cache: %v", err), "Settle", walletID)
	}
}

func walletBalanceCacheKey(walletID string) string {
	return fmt.Sprintf("WALLET:BALANCE:%s", walletID)
}

func newReference(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("TXN-%s-%s", now.Format("20060102"), suffix[:8])
}
