package model

import "github.com/shopspring/decimal"

// BalanceSnapshot is the calculator output and the wallet-balance response
// body. Total is always Deposit + Withdrawable, recomputed, never stored
// independently.
type BalanceSnapshot struct {
	DepositBalance      decimal.Decimal `json:"depositBalance"`
	WithdrawableBalance decimal.Decimal `json:"withdrawableBalance"`
	TotalBalance        decimal.Decimal `json:"totalBalance"`
}

type GetBalanceRequest struct {
	UserID string `json:"userId" validate:"required"`
}

type BalanceResponse struct {
	WalletID       string          `json:"walletId"`
	UserID         string          `json:"userId"`
	CurrencyCode   string          `json:"currencyCode"`
	CurrencySymbol string          `json:"currencySymbol"`
	Balance        BalanceSnapshot `json:"balance"`
	IsLocked       bool            `json:"isLocked"`
}

type ListTransactionsRequest struct {
	UserID string `json:"userId" validate:"required"`
	Page   int    `json:"page" validate:"omitempty,min=1"`
	Limit  int    `json:"limit" validate:"omitempty,min=1,max=100"`
}

type SetWalletLockRequest struct {
	UserID  string `json:"userId" validate:"required"`
	AdminID string `json:"adminId" validate:"required"`
	Locked  bool   `json:"locked"`
}

type PageMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}
