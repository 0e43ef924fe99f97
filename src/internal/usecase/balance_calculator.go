package usecase

import (
	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/model"

	"github.com/shopspring/decimal"
)

// The balance calculator is the only arithmetic that may feed a ledger
// decision. Balances are always derived from entries; the columns cached on
// the wallet row exist for display and are never read here.

// SettledSnapshot folds COMPLETED aggregate rows into per-bucket balances:
// sum of credits minus sum of debits per balance type.
func SettledSnapshot(rows []entity.BalanceAggregate) model.BalanceSnapshot {
	var snapshot model.BalanceSnapshot
	for _, row := range rows {
		amount := row.Total
		if row.Type == entity.TransactionTypeDebit {
			amount = amount.Neg()
		}
		switch row.BalanceType {
		case entity.BalanceTypeDeposit:
			snapshot.DepositBalance = snapshot.DepositBalance.Add(amount)
		case entity.BalanceTypeWithdrawable:
			snapshot.WithdrawableBalance = snapshot.WithdrawableBalance.Add(amount)
		}
	}
	snapshot.TotalBalance = snapshot.DepositBalance.Add(snapshot.WithdrawableBalance)
	return snapshot
}

// AvailableSnapshot subtracts outstanding PENDING debits from the settled
// balance. Pending credits never count: funds are spendable only once settled,
// and reserved funds stay committed until the reservation is settled or voided.
func AvailableSnapshot(settled model.BalanceSnapshot, pending []entity.BalanceAggregate) model.BalanceSnapshot {
	snapshot := settled
	for _, row := range pending {
		if row.Type != entity.TransactionTypeDebit {
			continue
		}
		switch row.BalanceType {
		case entity.BalanceTypeDeposit:
			snapshot.DepositBalance = snapshot.DepositBalance.Sub(row.Total)
		case entity.BalanceTypeWithdrawable:
			snapshot.WithdrawableBalance = snapshot.WithdrawableBalance.Sub(row.Total)
		}
	}
	snapshot.TotalBalance = snapshot.DepositBalance.Add(snapshot.WithdrawableBalance)
	return snapshot
}

// ApplyEntry computes the after-snapshot for settling one entry: plus or minus
// the amount on exactly the bucket named by the entry's balance type, the
// other bucket untouched, total recomputed.
func ApplyEntry(before model.BalanceSnapshot, tx *entity.WalletTransaction) model.BalanceSnapshot {
	delta := tx.Amount
	if tx.Type == entity.TransactionTypeDebit {
		delta = delta.Neg()
	}

	after := before
	switch tx.BalanceType {
	case entity.BalanceTypeDeposit:
		after.DepositBalance = after.DepositBalance.Add(delta)
	case entity.BalanceTypeWithdrawable:
		after.WithdrawableBalance = after.WithdrawableBalance.Add(delta)
	}
	after.TotalBalance = after.DepositBalance.Add(after.WithdrawableBalance)
	return after
}

// Bucket returns the balance of the bucket an entry draws from.
func Bucket(snapshot model.BalanceSnapshot, balanceType entity.BalanceType) decimal.Decimal {
	if balanceType == entity.BalanceTypeDeposit {
		return snapshot.DepositBalance
	}
	return snapshot.WithdrawableBalance
}
