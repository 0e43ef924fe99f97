package usecase

import (
	"context"
	"testing"

	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type walletFixture struct {
	usecase      *WalletUseCase
	transactions *fakeTransactionStore
	wallets      *fakeWalletStore
}

func newWalletFixture(t *testing.T) *walletFixture {
	t.Helper()
	logger := testLogger()
	transactions := newFakeTransactionStore()
	wallets := newFakeWalletStore()
	users := &fakeUserStore{users: map[string]*entity.User{
		"user-1": {UserID: "user-1", FullName: "Test Mitra", IsMitra: true},
	}}

	ledger := NewLedgerUseCase(logger, transactions, wallets, nil)
	uc := NewWalletUseCase(logger, validator.New(), ledger, wallets, transactions, users, nil)

	return &walletFixture{usecase: uc, transactions: transactions, wallets: wallets}
}

func TestGetBalance_CreatesWalletLazily(t *testing.T) {
	f := newWalletFixture(t)

	result := f.usecase.GetBalance(context.Background(), &model.GetBalanceRequest{UserID: "user-1"})
	require.NoError(t, result.Error)

	response := result.Data.(*model.BalanceResponse)
	assert.Equal(t, "user-1", response.UserID)
	assert.Equal(t, "MYR", response.CurrencyCode)
	assert.True(t, response.Balance.TotalBalance.IsZero())

	wallet, err := f.wallets.FindByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, wallet)
}

func TestGetBalance_DerivedFromSettledEntries(t *testing.T) {
	f := newWalletFixture(t)
	seedWallet(t, f.wallets, "wallet-1", "user-1")
	seedSettled(t, f.transactions, "wallet-1", entity.TransactionTypeCredit, entity.BalanceTypeDeposit, entity.CategoryDeposit, "200")
	seedSettled(t, f.transactions, "wallet-1", entity.TransactionTypeDebit, entity.BalanceTypeDeposit, entity.CategoryRide, "75")
	seedSettled(t, f.transactions, "wallet-1", entity.TransactionTypeCredit, entity.BalanceTypeWithdrawable, entity.CategoryRide, "50")

	// a dangling pending entry must not change the settled view
	_, err := f.usecase.Ledger.Reserve(context.Background(), ReserveInput{
		UserID:      "user-1",
		WalletID:    "wallet-1",
		Type:        entity.TransactionTypeDebit,
		Category:    entity.CategoryWithdrawal,
		BalanceType: entity.BalanceTypeWithdrawable,
		Amount:      dec("25"),
	})
	require.NoError(t, err)

	result := f.usecase.GetBalance(context.Background(), &model.GetBalanceRequest{UserID: "user-1"})
	require.NoError(t, result.Error)

	response := result.Data.(*model.BalanceResponse)
	assert.True(t, response.Balance.DepositBalance.Equal(dec("125")))
	assert.True(t, response.Balance.WithdrawableBalance.Equal(dec("50")))
	assert.True(t, response.Balance.TotalBalance.Equal(dec("175")))
}

func TestGetBalance_UnknownUser(t *testing.T) {
	f := newWalletFixture(t)

	result := f.usecase.GetBalance(context.Background(), &model.GetBalanceRequest{UserID: "ghost"})
	require.Error(t, result.Error)
	assert.Equal(t, fiber.StatusNotFound, httpCode(t, result.Error))
}

func TestGetTransactions_Paginates(t *testing.T) {
	f := newWalletFixture(t)
	seedWallet(t, f.wallets, "wallet-1", "user-1")
	for i := 0; i < 3; i++ {
		seedSettled(t, f.transactions, "wallet-1", entity.TransactionTypeCredit, entity.BalanceTypeDeposit, entity.CategoryDeposit, "10")
	}

	result := f.usecase.GetTransactions(context.Background(), &model.ListTransactionsRequest{
		UserID: "user-1",
		Page:   1,
		Limit:  2,
	})
	require.NoError(t, result.Error)

	transactions := result.Data.([]entity.WalletTransaction)
	assert.Len(t, transactions, 2)
	assert.Equal(t, model.PageMeta{Page: 1, Limit: 2, Total: 3}, result.MetaData)
}

func TestGetTransactions_NoWalletYet(t *testing.T) {
	f := newWalletFixture(t)

	result := f.usecase.GetTransactions(context.Background(), &model.ListTransactionsRequest{UserID: "user-1"})
	require.NoError(t, result.Error)
	assert.Empty(t, result.Data)
}

func TestSetLock_BlocksAndReleasesDebits(t *testing.T) {
	f := newWalletFixture(t)
	seedWallet(t, f.wallets, "wallet-1", "user-1")
	seedSettled(t, f.transactions, "wallet-1", entity.TransactionTypeCredit, entity.BalanceTypeWithdrawable, entity.CategoryDeposit, "100")

	result := f.usecase.SetLock(context.Background(), &model.SetWalletLockRequest{
		UserID:  "user-1",
		AdminID: "admin-1",
		Locked:  true,
	})
	require.NoError(t, result.Error)

	_, err := f.usecase.Ledger.Reserve(context.Background(), ReserveInput{
		UserID:      "user-1",
		WalletID:    "wallet-1",
		Type:        entity.TransactionTypeDebit,
		Category:    entity.CategoryWithdrawal,
		BalanceType: entity.BalanceTypeWithdrawable,
		Amount:      dec("10"),
	})
	assert.ErrorIs(t, err, ErrWalletLocked)

	result = f.usecase.SetLock(context.Background(), &model.SetWalletLockRequest{
		UserID:  "user-1",
		AdminID: "admin-1",
		Locked:  false,
	})
	require.NoError(t, result.Error)

	_, err = f.usecase.Ledger.Reserve(context.Background(), ReserveInput{
		UserID:      "user-1",
		WalletID:    "wallet-1",
		Type:        entity.TransactionTypeDebit,
		Category:    entity.CategoryWithdrawal,
		BalanceType: entity.BalanceTypeWithdrawable,
		Amount:      dec("10"),
	})
	assert.NoError(t, err)
}

func TestSetLock_WalletNotFound(t *testing.T) {
	f := newWalletFixture(t)

	result := f.usecase.SetLock(context.Background(), &model.SetWalletLockRequest{
		UserID:  "user-1",
		AdminID: "admin-1",
		Locked:  true,
	})
	require.Error(t, result.Error)
	assert.Equal(t, fiber.StatusNotFound, httpCode(t, result.Error))
}
