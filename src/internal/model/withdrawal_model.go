package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type RequestWithdrawal struct {
	UserID        string          `json:"userId" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	BankName      string          `json:"bankName" validate:"required"`
	AccountNumber string          `json:"accountNumber" validate:"required"`
	AccountHolder string          `json:"accountHolder" validate:"required"`
}

type ProcessWithdrawal struct {
	RequestID string `json:"requestId" validate:"required"`
	AdminID   string `json:"adminId" validate:"required"`
	Reason    string `json:"reason"`
}

type ListWithdrawals struct {
	Status string `json:"status" validate:"omitempty,oneof=PENDING APPROVED REJECTED"`
	Page   int    `json:"page" validate:"omitempty,min=1"`
	Limit  int    `json:"limit" validate:"omitempty,min=1,max=100"`
}

type WithdrawalResponse struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	TransactionID   string          `json:"transactionId"`
	Reference       string          `json:"reference,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	BankName        string          `json:"bankName"`
	AccountNumber   string          `json:"accountNumber"`
	AccountHolder   string          `json:"accountHolder"`
	Status          string          `json:"status"`
	ProcessedBy     *string         `json:"processedBy,omitempty"`
	ProcessedAt     *time.Time      `json:"processedAt,omitempty"`
	RejectionReason *string         `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}
