package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet holds the cached balance buckets for one user (1:1). The balance
// fields are written only by the settlement path; every decision read derives
// the numbers from ledger entries instead of trusting these columns.
type Wallet struct {
	ID                  string          `json:"id" db:"id"`
	UserID              string          `json:"userId" db:"user_id"`
	CurrencyCode        string          `json:"currencyCode" db:"currency_code"`
	CurrencySymbol      string          `json:"currencySymbol" db:"currency_symbol"`
	DepositBalance      decimal.Decimal `json:"depositBalance" db:"deposit_balance"`
	WithdrawableBalance decimal.Decimal `json:"withdrawableBalance" db:"withdrawable_balance"`
	TotalBalance        decimal.Decimal `json:"totalBalance" db:"total_balance"`
	TotalDeposited      decimal.Decimal `json:"totalDeposited" db:"total_deposited"`
	TotalWithdrawn      decimal.Decimal `json:"totalWithdrawn" db:"total_withdrawn"`
	IsLocked            bool            `json:"isLocked" db:"is_locked"`
	CreatedAt           time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time       `json:"updatedAt" db:"updated_at"`
}
