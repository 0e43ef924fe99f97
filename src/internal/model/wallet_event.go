package model

import "github.com/shopspring/decimal"

// WithdrawalNotification is the payload pushed to the notifier when an
// operator settles or rejects a withdrawal.
type WithdrawalNotification struct {
	RequestID     string          `json:"requestId"`
	UserID        string          `json:"userId"`
	TransactionID string          `json:"transactionId"`
	Reference     string          `json:"reference"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	Reason        string          `json:"reason,omitempty"`
	ProcessedBy   string          `json:"processedBy"`
}

type WithdrawalEvent struct {
	ID      string                 `json:"id,omitempty"`
	Message WithdrawalNotification `json:"message,omitempty"`
}

func (e *WithdrawalEvent) GetId() string {
	return e.ID
}
