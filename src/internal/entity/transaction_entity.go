package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeCredit TransactionType = "CREDIT"
	TransactionTypeDebit  TransactionType = "DEBIT"
)

// Opposite returns the inverse type, used when building reversal entries.
func (t TransactionType) Opposite() TransactionType {
	if t == TransactionTypeCredit {
		return TransactionTypeDebit
	}
	return TransactionTypeCredit
}

type TransactionCategory string

const (
	CategoryDeposit       TransactionCategory = "DEPOSIT"
	CategoryWithdrawal    TransactionCategory = "WITHDRAWAL"
	CategoryRefund        TransactionCategory = "REFUND"
	CategoryRide          TransactionCategory = "RIDE"
	CategoryPermitPayment TransactionCategory = "PERMIT_PAYMENT"
	CategorySubscription  TransactionCategory = "SUBSCRIPTION"
)

type BalanceType string

const (
	BalanceTypeDeposit      BalanceType = "DEPOSIT"
	BalanceTypeWithdrawable BalanceType = "WITHDRAWABLE"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// MetadataKeyEvpID marks a PERMIT_PAYMENT entry as consumed by a permit.
const MetadataKeyEvpID = "evpId"

// Metadata correlates an entry with external resources (vehicle, ride, permit).
type Metadata map[string]string

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (m *Metadata) Scan(src interface{}) error {
	if src == nil {
		*m = Metadata{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return errors.New("unsupported metadata column type")
	}
}

// WalletTransaction is one ledger entry. Entries are immutable once terminal:
// the only legal transitions are PENDING to COMPLETED and PENDING to FAILED,
// and a reversal is a brand-new entry referencing the original.
type WalletTransaction struct {
	ID                 string              `json:"id" db:"id"`
	Reference          string              `json:"reference" db:"reference"`
	UserID             string              `json:"userId" db:"user_id"`
	WalletID           string              `json:"walletId" db:"wallet_id"`
	Type               TransactionType     `json:"type" db:"type"`
	Category           TransactionCategory `json:"category" db:"category"`
	BalanceType        BalanceType         `json:"balanceType" db:"balance_type"`
	Status             TransactionStatus   `json:"status" db:"status"`
	Amount             decimal.Decimal     `json:"amount" db:"amount"`
	DepositBefore      decimal.Decimal     `json:"depositBefore" db:"deposit_before"`
	DepositAfter       decimal.Decimal     `json:"depositAfter" db:"deposit_after"`
	WithdrawableBefore decimal.Decimal     `json:"withdrawableBefore" db:"withdrawable_before"`
	WithdrawableAfter  decimal.Decimal     `json:"withdrawableAfter" db:"withdrawable_after"`
	TotalBefore        decimal.Decimal     `json:"totalBefore" db:"total_before"`
	TotalAfter         decimal.Decimal     `json:"totalAfter" db:"total_after"`
	Metadata           Metadata            `json:"metadata" db:"metadata"`
	ReversalOf         *string             `json:"reversalOf,omitempty" db:"reversal_of"`
	FailureReason      *string             `json:"failureReason,omitempty" db:"failure_reason"`
	CompletedAt        *time.Time          `json:"completedAt,omitempty" db:"completed_at"`
	CreatedAt          time.Time           `json:"createdAt" db:"created_at"`
}

// ConsumedBy returns the permit id recorded on a spent payment entry.
func (t *WalletTransaction) ConsumedBy() (string, bool) {
	if t.Metadata == nil {
		return "", false
	}
	id, ok := t.Metadata[MetadataKeyEvpID]
	return id, ok && id != ""
}

// BalanceAggregate is one row of the per-bucket credit/debit totals the
// transaction store aggregates for the balance calculator.
type BalanceAggregate struct {
	Type        TransactionType `db:"type"`
	BalanceType BalanceType     `db:"balance_type"`
	Total       decimal.Decimal `db:"total"`
}
