package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/gateway/messaging"
	"wallet-service/src/internal/model"
	"wallet-service/src/internal/model/converter"
	"wallet-service/src/internal/repository"
	httpError "wallet-service/src/pkg/http-error"
	"wallet-service/src/pkg/log"
	"wallet-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type WithdrawalUseCase struct {
	Log                log.Log
	Validate           *validator.Validate
	Ledger             *LedgerUseCase
	WithdrawalStore    repository.WithdrawalStore
	TransactionStore   repository.TransactionStore
	WalletStore        repository.WalletStore
	UserStore          repository.UserStore
	WithdrawalProducer *messaging.WithdrawalProducer
	AsynqClient        *asynq.Client
}

func NewWithdrawalUseCase(
	logger log.Log,
	validate *validator.Validate,
	ledger *LedgerUseCase,
	withdrawalStore repository.WithdrawalStore,
	transactionStore repository.TransactionStore,
	walletStore repository.WalletStore,
	userStore repository.UserStore,
	withdrawalProducer *messaging.WithdrawalProducer,
	asynqClient *asynq.Client,
) *WithdrawalUseCase {
	return &WithdrawalUseCase{
		Log:                logger,
		Validate:           validate,
		Ledger:             ledger,
		WithdrawalStore:    withdrawalStore,
		TransactionStore:   transactionStore,
		WalletStore:        walletStore,
		UserStore:          userStore,
		WithdrawalProducer: withdrawalProducer,
		AsynqClient:        asynqClient,
	}
}

// Request reserves funds and creates the paired PENDING withdrawal request.
// The reservation's pending-aware sufficiency check is what stops two
// simultaneous requests from over-committing a balance that only covers one.
func (c *WithdrawalUseCase) Request(ctx context.Context, request *model.RequestWithdrawal) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("withdrawal-usecase", errObj.Message, "Request", utils.ConvertString(err))
		return result
	}
	if !request.Amount.IsPositive() {
		errObj := httpError.NewBadRequest()
		errObj.Message = ErrInvalidAmount.Error()
		result.Error = errObj
		return result
	}

	user, err := c.UserStore.FindByID(ctx, request.UserID)
	if err != nil || user == nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("user with id %s not found", request.UserID)
		result.Error = errObj
		c.Log.Error("withdrawal-usecase", errObj.Message, "Request", utils.ConvertString(err))
		return result
	}

	wallet, err := ensureWallet(ctx, c.WalletStore, request.UserID)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to load wallet"
		result.Error = errObj
		c.Log.Error("withdrawal-usecase", fmt.Sprintf("ensure wallet: %v", err), "Request", request.UserID)
		return result
	}

	requestID := uuid.NewString()
	entry, err := c.Ledger.Reserve(ctx, ReserveInput{
		UserID:      request.UserID,
		WalletID:    wallet.ID,
		Type:        entity.TransactionTypeDebit,
		Category:    entity.CategoryWithdrawal,
		BalanceType: entity.BalanceTypeWithdrawable,
		Amount:      request.Amount,
		Metadata:    entity.Metadata{"withdrawalRequestId": requestID},
	})
	if err != nil {
		result.Error = c.translateLedgerError(err, "Request")
		return result
	}

	now := time.Now()
	withdrawal := &entity.WithdrawalRequest{
		ID:            requestID,
		UserID:        request.UserID,
		WalletID:      wallet.ID,
		TransactionID: entry.ID,
		BankName:      request.BankName,
		AccountNumber: request.AccountNumber,
		AccountHolder: request.AccountHolder,
		Amount:        request.Amount,
		Status:        entity.WithdrawalStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := c.WithdrawalStore.Create(ctx, withdrawal); err != nil {
		// entry is still PENDING, voiding releases the reservation
		if voidErr := c.Ledger.Void(ctx, entry.ID, "withdrawal request creation failed"); voidErr != nil {
			c.Log.Error("withdrawal-usecase",
				fmt.Sprintf("failed to void entry %s after request insert failure: %v", entry.ID, voidErr),
				"Request", entry.Reference)
		}
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to create withdrawal request"
		result.Error = errObj
		c.Log.Error("withdrawal-usecase", fmt.Sprintf("create request: %v", err), "Request", requestID)
		return result
	}

	result.Data = converter.WithdrawalToResponse(withdrawal)
	return result
}

// Approve settles the reserved entry, then flips the request. Settlement goes
// first so an insufficient live balance surfaces without touching the request,
// and a concurrent duplicate that loses the entry's conditional write reads as
// already processed.
func (c *WithdrawalUseCase) Approve(ctx context.Context, request *model.ProcessWithdrawal) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	withdrawal, err := c.WithdrawalStore.FindByID(ctx, request.RequestID)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to load withdrawal request"
		result.Error = errObj
		c.Log.Error("withdrawal-usecase", fmt.Sprintf("find request: %v", err), "Approve", request.RequestID)
		return result
	}
	if withdrawal == nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("withdrawal request %s not found", request.RequestID)
		result.Error = errObj
		return result
	}
	if withdrawal.Status != entity.WithdrawalStatusPending {
		errObj := httpError.NewConflict()
		errObj.Message = ErrAlreadyProcessed.Error()
		result.Error = errObj
		return result
	}

	entry, err := c.Ledger.Settle(ctx, withdrawal.TransactionID)
	if err != nil {
		if errors.Is(err, ErrInvalidStateTransition) {
			errObj := httpError.NewConflict()
			errObj.Message = ErrAlreadyProcessed.Error()
			result.Error = errObj
			return result
		}
		result.Error = c.translateLedgerError(err, "Approve")
		return result
	}

	now := time.Now()
	flipped, err := c.WithdrawalStore.MarkProcessed(ctx, withdrawal.ID, entity.WithdrawalStatusApproved, request.AdminID, nil, now)
	if err != nil || !flipped {
		c.Log.Fatal("withdrawal-usecase",
			fmt.Sprintf("entry %s settled but request %s not marked approved: %v", entry.ID, withdrawal.ID, err),
			"Approve", entry.Reference)
		enqueueReconcile(c.AsynqClient, c.Log, ReconcilePayload{
			Kind:      "withdrawal-approve",
			EntityID:  withdrawal.ID,
			RelatedID: entry.ID,
			Detail:    "ledger entry settled, withdrawal request still pending",
		})
		errObj := httpError.NewInternalServerError()
		errObj.Message = "withdrawal settled but request state diverged; manual reconciliation required"
		result.Error = errObj
		return result
	}

	withdrawal.Status = entity.WithdrawalStatusApproved
	withdrawal.ProcessedBy = &request.AdminID
	withdrawal.ProcessedAt = &now

	event := converter.WithdrawalToEvent(withdrawal, entry, request.AdminID, "")
	if err := c.WithdrawalProducer.SendApproved(event); err != nil {
		c.Log.Error("withdrawal-usecase", fmt.Sprintf("failed to publish approved event: %v", err), "Approve", withdrawal.ID)
	}

	result.Data = converter.WithdrawalToResponse(withdrawal)
	return result
}

// Reject voids the reserved entry and flips the request with the reason.
func (c *WithdrawalUseCase) Reject(ctx context.Context, request *model.ProcessWithdrawal) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}
	if request.Reason == "" {
		errObj := httpError.NewBadRequest()
		errObj.Message = "rejection reason is required"
		result.Error = errObj
		return result
	}

	withdrawal, err := c.WithdrawalStore.FindByID(ctx, request.RequestID)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to load withdrawal request"
		result.Error = errObj
		c.Log.Error("withdrawal-usecase", fmt.Sprintf("find request: %v", err), "Reject", request.RequestID)
		return result
	}
	if withdrawal == nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("withdrawal request %s not found", request.RequestID)
		result.Error = errObj
		return result
	}
	if withdrawal.Status != entity.WithdrawalStatusPending {
		errObj := httpError.NewConflict()
		errObj.Message = ErrAlreadyProcessed.Error()
		result.Error = errObj
		return result
	}

	if err := c.Ledger.Void(ctx, withdrawal.TransactionID, request.Reason); err != nil {
		if errors.Is(err, ErrInvalidStateTransition) {
			errObj := httpError.NewConflict()
			errObj.Message = ErrAlreadyProcessed.Error()
			result.Error = errObj
			return result
		}
		result.Error = c.translateLedgerError(err, "Reject")
		return result
	}

	now := time.Now()
	flipped, err := c.WithdrawalStore.MarkProcessed(ctx, withdrawal.ID, entity.WithdrawalStatusRejected, request.AdminID, &request.Reason, now)
	if err != nil || !flipped {
		c.Log.Fatal("withdrawal-usecase",
			fmt.Sprintf("entry %s voided but request %s not marked rejected: %v", withdrawal.TransactionID, withdrawal.ID, err),
			"Reject", withdrawal.ID)
		enqueueReconcile(c.AsynqClient, c.Log, ReconcilePayload{
			Kind:      "withdrawal-reject",
			EntityID:  withdrawal.ID,
			RelatedID: withdrawal.TransactionID,
			Detail:    "ledger entry voided, withdrawal request still pending",
		})
		errObj := httpError.NewInternalServerError()
		errObj.Message = "withdrawal voided but request state diverged; manual reconciliation required"
		result.Error = errObj
		return result
	}

	withdrawal.Status = entity.WithdrawalStatusRejected
	withdrawal.ProcessedBy = &request.AdminID
	withdrawal.ProcessedAt = &now
	withdrawal.RejectionReason = &request.Reason

	entry, err := c.TransactionStore.FindByID(ctx, withdrawal.TransactionID)
	if err != nil || entry == nil {
		entry = &entity.WalletTransaction{ID: withdrawal.TransactionID}
	}
	event := converter.WithdrawalToEvent(withdrawal, entry, request.AdminID, request.Reason)
	if err := c.WithdrawalProducer.SendRejected(event); err != nil {
		c.Log.Error("withdrawal-usecase", fmt.Sprintf("failed to publish rejected event: %v", err), "Reject", withdrawal.ID)
	}

	result.Data = converter.WithdrawalToResponse(withdrawal)
	return result
}

func (c *WithdrawalUseCase) List(ctx context.Context, request *model.ListWithdrawals) utils.Result {
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

	withdrawals, total, err := c.WithdrawalStore.List(ctx, request.Status, request.Page, request.Limit)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to list withdrawal requests"
		result.Error = errObj
		c.Log.Error("withdrawal-usecase", fmt.Sprintf("list: %v", err), "List", "")
		return result
	}

	responses := make([]*model.WithdrawalResponse, 0, len(withdrawals))
	for i := range withdrawals {
		responses = append(responses, converter.WithdrawalToResponse(&withdrawals[i]))
	}

	result.Data = responses
	result.MetaData = model.PageMeta{Page: request.Page, Limit: request.Limit, Total: total}
	return result
}

func (c *WithdrawalUseCase) Detail(ctx context.Context, requestID string) utils.Result {
	var result utils.Result

	withdrawal, err := c.WithdrawalStore.FindByID(ctx, requestID)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to load withdrawal request"
		result.Error = errObj
		c.Log.Error("withdrawal-usecase", fmt.Sprintf("find request: %v", err), "Detail", requestID)
		return result
	}
	if withdrawal == nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("withdrawal request %s not found", requestID)
		result.Error = errObj
		return result
	}

	result.Data = converter.WithdrawalToResponse(withdrawal)
	return result
}

func (c *WithdrawalUseCase) translateLedgerError(err error, scope string) error {
	switch {
	case errors.Is(err, ErrInsufficientFunds):
		errObj := httpError.NewUnprocessableEntity()
		errObj.Message = "insufficient withdrawable balance"
		return errObj
	case errors.Is(err, ErrWalletLocked):
		errObj := httpError.NewUnprocessableEntity()
		errObj.Message = ErrWalletLocked.Error()
		return errObj
	case errors.Is(err, ErrInvalidAmount):
		errObj := httpError.NewBadRequest()
		errObj.Message = ErrInvalidAmount.Error()
		return errObj
	case errors.Is(err, ErrWalletNotFound), errors.Is(err, ErrTransactionNotFound):
		errObj := httpError.NewNotFound()
		errObj.Message = err.Error()
		return errObj
	default:
		c.Log.Error("withdrawal-usecase", fmt.Sprintf("ledger error: %v", err), scope, "")
		errObj := httpError.NewInternalServerError()
		errObj.Message = "ledger operation failed"
		return errObj
	}
}
