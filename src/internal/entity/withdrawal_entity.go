package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "PENDING"
	WithdrawalStatusApproved WithdrawalStatus = "APPROVED"
	WithdrawalStatusRejected WithdrawalStatus = "REJECTED"
)

// WithdrawalRequest pairs one-to-one with a PENDING ledger entry created in
// the same reservation step. Request and entry always terminate together.
type WithdrawalRequest struct {
	ID              string           `json:"id" db:"id"`
	UserID          string           `json:"userId" db:"user_id"`
	WalletID        string           `json:"walletId" db:"wallet_id"`
	TransactionID   string           `json:"transactionId" db:"transaction_id"`
	BankName        string           `json:"bankName" db:"bank_name"`
	AccountNumber   string           `json:"accountNumber" db:"account_number"`
	AccountHolder   string           `json:"accountHolder" db:"account_holder"`
	Amount          decimal.Decimal  `json:"amount" db:"amount"`
	Status          WithdrawalStatus `json:"status" db:"status"`
	ProcessedBy     *string          `json:"processedBy,omitempty" db:"processed_by"`
	ProcessedAt     *time.Time       `json:"processedAt,omitempty" db:"processed_at"`
	RejectionReason *string          `json:"rejectionReason,omitempty" db:"rejection_reason"`
	CreatedAt       time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time        `json:"updatedAt" db:"updated_at"`
}
