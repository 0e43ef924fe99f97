package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/model"
	"wallet-service/src/internal/model/converter"
	"wallet-service/src/internal/repository"
	httpError "wallet-service/src/pkg/http-error"
	"wallet-service/src/pkg/log"
	"wallet-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultCurrencyCode   = "MYR"
	defaultCurrencySymbol = "RM"

	balanceCacheTTL = 30 * time.Second
)

type WalletUseCase struct {
	Log              log.Log
	Validate         *validator.Validate
	Ledger           *LedgerUseCase
	WalletStore      repository.WalletStore
	TransactionStore repository.TransactionStore
	UserStore        repository.UserStore
	Redis            redis.UniversalClient
}

func NewWalletUseCase(
	logger log.Log,
	validate *validator.Validate,
	ledger *LedgerUseCase,
	walletStore repository.WalletStore,
	transactionStore repository.TransactionStore,
	userStore repository.UserStore,
	redisClient redis.UniversalClient,
) *WalletUseCase {
	return &WalletUseCase{
		Log:              logger,
		Validate:         validate,
		Ledger:           ledger,
		WalletStore:      walletStore,
		TransactionStore: transactionStore,
		UserStore:        userStore,
		Redis:            redisClient,
	}
}

// GetBalance serves the settled-only snapshot. The redis entry is a display
// cache: it is dropped on every settlement and decisions never read it.
func (c *WalletUseCase) GetBalance(ctx context.Context, request *model.GetBalanceRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	user, err := c.UserStore.FindByID(ctx, request.UserID)
	if err != nil || user == nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("user with id %s not found", request.UserID)
		result.Error = errObj
		c.Log.Error("wallet-usecase", errObj.Message, "GetBalance", utils.ConvertString(err))
		return result
	}

	wallet, err := ensureWallet(ctx, c.WalletStore, request.UserID)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to load wallet"
		result.Error = errObj
		c.Log.Error("wallet-usecase", fmt.Sprintf("ensure wallet: %v", err), "GetBalance", request.UserID)
		return result
	}

	if cached := c.cachedBalance(ctx, wallet.ID); cached != nil {
		result.Data = cached
		return result
	}

	snapshot, err := c.Ledger.SettledBalance(ctx, wallet.ID)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to compute balance"
		result.Error = errObj
		c.Log.Error("wallet-usecase", fmt.Sprintf("settled balance: %v", err), "GetBalance", wallet.ID)
		return result
	}

	response := converter.WalletToBalanceResponse(wallet, snapshot)
	c.cacheBalance(ctx, wallet.ID, response)

	result.Data = response
	return result
}

func (c *WalletUseCase) GetTransactions(ctx context.Context, request *model.ListTransactionsRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}
	if request.Page < 1 {
		request.Page = 1
	}
	if request.Limit < 1 {
		request.Limit = 20
	}

	wallet, err := c.WalletStore.FindByUserID(ctx, request.UserID)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to load wallet"
		result.Error = errObj
		c.Log.Error("wallet-usecase", fmt.Sprintf("find wallet: %v", err), "GetTransactions", request.UserID)
		return result
	}
	if wallet == nil {
		result.Data = []entity.WalletTransaction{}
		result.MetaData = model.PageMeta{Page: request.Page, Limit: request.Limit}
		return result
	}

	transactions, total, err := c.TransactionStore.ListByWallet(ctx, wallet.ID, request.Page, request.Limit)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to list transactions"
		result.Error = errObj
		c.Log.Error("wallet-usecase", fmt.Sprintf("list transactions: %v", err), "GetTransactions", wallet.ID)
		return result
	}

	result.Data = transactions
	result.MetaData = model.PageMeta{Page: request.Page, Limit: request.Limit, Total: total}
	return result
}

// SetLock freezes or unfreezes debits. Wallets are never deleted, only locked.
func (c *WalletUseCase) SetLock(ctx context.Context, request *model.SetWalletLockRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	wallet, err := c.WalletStore.FindByUserID(ctx, request.UserID)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to load wallet"
		result.Error = errObj
		c.Log.Error("wallet-usecase", fmt.Sprintf("find wallet: %v", err), "SetLock", request.UserID)
		return result
	}
	if wallet == nil {
		errObj := httpError.NewNotFound()
		errObj.Message = ErrWalletNotFound.Error()
		result.Error = errObj
		return result
	}

	if err := c.WalletStore.SetLocked(ctx, wallet.ID, request.Locked); err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to update wallet lock"
		result.Error = errObj
		c.Log.Error("wallet-usecase", fmt.Sprintf("set locked: %v", err), "SetLock", wallet.ID)
		return result
	}

	c.Log.Info("wallet-usecase",
		fmt.Sprintf("wallet %s lock set to %v by %s", wallet.ID, request.Locked, request.AdminID),
		"SetLock", wallet.UserID)

	wallet.IsLocked = request.Locked
	result.Data = wallet
	return result
}

func (c *WalletUseCase) cachedBalance(ctx context.Context, walletID string) *model.BalanceResponse {
	if c.Redis == nil {
		return nil
	}
	raw, err := c.Redis.Get(ctx, walletBalanceCacheKey(walletID)).Result()
	if err != nil {
		return nil
	}
	var response model.BalanceResponse
	if err := json.Unmarshal([]byte(raw), &response); err != nil {
		return nil
	}
	return &response
}

func (c *WalletUseCase) cacheBalance(ctx context.Context, walletID string, response *model.BalanceResponse) {
	if c.Redis == nil {
		return
	}
	marshaled, err := json.Marshal(response)
	if err != nil {
		return
	}
	if err := c.Redis.Set(ctx, walletBalanceCacheKey(walletID), marshaled, balanceCacheTTL).Err(); err != nil {
		c.Log.Error("wallet-usecase", fmt.Sprintf("failed to cache balance: %v", err), "GetBalance", walletID)
	}
}

// ensureWallet creates the wallet lazily on first need. Never deleted
// afterwards, only locked.
func ensureWallet(ctx context.Context, store repository.WalletStore, userID string) (*entity.Wallet, error) {
	wallet, err := store.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wallet != nil {
		return wallet, nil
	}

	now := time.Now()
	wallet = &entity.Wallet{
		ID:             uuid.NewString(),
		UserID:         userID,
		CurrencyCode:   defaultCurrencyCode,
		CurrencySymbol: defaultCurrencySymbol,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := store.Create(ctx, wallet); err != nil {
		// a concurrent first request may have created it already
		existing, findErr := store.FindByUserID(ctx, userID)
		if findErr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}

	return wallet, nil
}
