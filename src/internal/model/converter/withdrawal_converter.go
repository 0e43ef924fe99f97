package converter

import (
	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/model"
)

func WithdrawalToResponse(req *entity.WithdrawalRequest) *model.WithdrawalResponse {
	return &model.WithdrawalResponse{
		ID:              req.ID,
		UserID:          req.UserID,
		TransactionID:   req.TransactionID,
		Amount:          req.Amount,
		BankName:        req.BankName,
		AccountNumber:   req.AccountNumber,
		AccountHolder:   req.AccountHolder,
		Status:          string(req.Status),
		ProcessedBy:     req.ProcessedBy,
		ProcessedAt:     req.ProcessedAt,
		RejectionReason: req.RejectionReason,
		CreatedAt:       req.CreatedAt,
	}
}

func WithdrawalToEvent(req *entity.WithdrawalRequest, tx *entity.WalletTransaction, adminID, reason string) *model.WithdrawalEvent {
	return &model.WithdrawalEvent{
		ID: req.ID,
		Message: model.WithdrawalNotification{
			RequestID:     req.ID,
			UserID:        req.UserID,
			TransactionID: req.TransactionID,
			Reference:     tx.Reference,
			Amount:        req.Amount,
			Status:        string(req.Status),
			Reason:        reason,
			ProcessedBy:   adminID,
		},
	}
}
