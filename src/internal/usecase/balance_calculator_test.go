package usecase

import (
	"testing"

	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSettledSnapshot(t *testing.T) {
	tests := []struct {
		name             string
		rows             []entity.BalanceAggregate
		wantDeposit      string
		wantWithdrawable string
		wantTotal        string
	}{
		{
			name:             "no entries",
			rows:             nil,
			wantDeposit:      "0",
			wantWithdrawable: "0",
			wantTotal:        "0",
		},
		{
			name: "credits only",
			rows: []entity.BalanceAggregate{
				{Type: entity.TransactionTypeCredit, BalanceType: entity.BalanceTypeDeposit, Total: dec("100")},
				{Type: entity.TransactionTypeCredit, BalanceType: entity.BalanceTypeWithdrawable, Total: dec("40.50")},
			},
			wantDeposit:      "100",
			wantWithdrawable: "40.5",
			wantTotal:        "140.5",
		},
		{
			name: "debits subtract from their own bucket",
			rows: []entity.BalanceAggregate{
				{Type: entity.TransactionTypeCredit, BalanceType: entity.BalanceTypeDeposit, Total: dec("200")},
				{Type: entity.TransactionTypeDebit, BalanceType: entity.BalanceTypeDeposit, Total: dec("75")},
				{Type: entity.TransactionTypeCredit, BalanceType: entity.BalanceTypeWithdrawable, Total: dec("50")},
				{Type: entity.TransactionTypeDebit, BalanceType: entity.BalanceTypeWithdrawable, Total: dec("10")},
			},
			wantDeposit:      "125",
			wantWithdrawable: "40",
			wantTotal:        "165",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SettledSnapshot(tt.rows)
			assert.True(t, got.DepositBalance.Equal(dec(tt.wantDeposit)), "deposit: got %s", got.DepositBalance)
			assert.True(t, got.WithdrawableBalance.Equal(dec(tt.wantWithdrawable)), "withdrawable: got %s", got.WithdrawableBalance)
			assert.True(t, got.TotalBalance.Equal(dec(tt.wantTotal)), "total: got %s", got.TotalBalance)
		})
	}
}

func TestAvailableSnapshot_SubtractsPendingDebitsOnly(t *testing.T) {
	settled := model.BalanceSnapshot{
		DepositBalance:      dec("100"),
		WithdrawableBalance: dec("80"),
		TotalBalance:        dec("180"),
	}
	pending := []entity.BalanceAggregate{
		{Type: entity.TransactionTypeDebit, BalanceType: entity.BalanceTypeWithdrawable, Total: dec("30")},
		// pending credits never count as spendable
		{Type: entity.TransactionTypeCredit, BalanceType: entity.BalanceTypeDeposit, Total: dec("500")},
	}

	got := AvailableSnapshot(settled, pending)

	assert.True(t, got.DepositBalance.Equal(dec("100")))
	assert.True(t, got.WithdrawableBalance.Equal(dec("50")))
	assert.True(t, got.TotalBalance.Equal(dec("150")))
}

func TestApplyEntry(t *testing.T) {
	before := model.BalanceSnapshot{
		DepositBalance:      dec("100"),
		WithdrawableBalance: dec("50"),
		TotalBalance:        dec("150"),
	}

	t.Run("credit touches only its bucket", func(t *testing.T) {
		after := ApplyEntry(before, &entity.WalletTransaction{
			Type:        entity.TransactionTypeCredit,
			BalanceType: entity.BalanceTypeDeposit,
			Amount:      dec("25"),
		})
		assert.True(t, after.DepositBalance.Equal(dec("125")))
		assert.True(t, after.WithdrawableBalance.Equal(dec("50")))
		assert.True(t, after.TotalBalance.Equal(dec("175")))
	})

	t.Run("debit touches only its bucket", func(t *testing.T) {
		after := ApplyEntry(before, &entity.WalletTransaction{
			Type:        entity.TransactionTypeDebit,
			BalanceType: entity.BalanceTypeWithdrawable,
			Amount:      dec("20"),
		})
		assert.True(t, after.DepositBalance.Equal(dec("100")))
		assert.True(t, after.WithdrawableBalance.Equal(dec("30")))
		assert.True(t, after.TotalBalance.Equal(dec("130")))
	})
}
