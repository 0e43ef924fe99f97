package http

import (
	"wallet-service/src/internal/delivery/http/middleware"
	"wallet-service/src/internal/model"
	"wallet-service/src/internal/usecase"
	"wallet-service/src/pkg/log"
	"wallet-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type WalletController struct {
	Log     log.Log
	UseCase *usecase.WalletUseCase
}

func NewWalletController(useCase *usecase.WalletUseCase, logger log.Log) *WalletController {
	return &WalletController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *WalletController) GetBalance(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.GetBalanceRequest{
		UserID: auth.UserID,
	}
	result := c.UseCase.GetBalance(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Wallet Balance", fiber.StatusOK, ctx)
}

func (c *WalletController) GetTransactions(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.ListTransactionsRequest{
		UserID: auth.UserID,
		Page:   ctx.QueryInt("page", 1),
		Limit:  ctx.QueryInt("limit", 20),
	}
	result := c.UseCase.GetTransactions(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.ResponseWithMeta(result.Data, result.MetaData, "Wallet Transactions", fiber.StatusOK, ctx)
}

func (c *WalletController) SetLock(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.SetWalletLockRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("WalletController.SetLock", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.UserID = ctx.Params("userId")
	request.AdminID = auth.UserID

	result := c.UseCase.SetLock(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Wallet Lock Updated", fiber.StatusOK, ctx)
}
