package converter

import (
	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/model"
)

func WalletToBalanceResponse(wallet *entity.Wallet, snapshot model.BalanceSnapshot) *model.BalanceResponse {
	return &model.BalanceResponse{
		WalletID:       wallet.ID,
		UserID:         wallet.UserID,
		CurrencyCode:   wallet.CurrencyCode,
		CurrencySymbol: wallet.CurrencySymbol,
		Balance:        snapshot,
		IsLocked:       wallet.IsLocked,
	}
}
