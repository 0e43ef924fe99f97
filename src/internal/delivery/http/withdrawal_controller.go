package http

import (
	"wallet-service/src/internal/delivery/http/middleware"
	"wallet-service/src/internal/model"
	"wallet-service/src/internal/usecase"
	"wallet-service/src/pkg/log"
	"wallet-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type WithdrawalController struct {
	Log     log.Log
	UseCase *usecase.WithdrawalUseCase
}

func NewWithdrawalController(useCase *usecase.WithdrawalUseCase, logger log.Log) *WithdrawalController {
	return &WithdrawalController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *WithdrawalController) Request(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.RequestWithdrawal)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("WithdrawalController.Request", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.UserID = auth.UserID

	result := c.UseCase.Request(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Withdrawal Requested", fiber.StatusCreated, ctx)
}

func (c *WithdrawalController) Approve(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.ProcessWithdrawal{
		RequestID: ctx.Params("id"),
		AdminID:   auth.UserID,
	}
	result := c.UseCase.Approve(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Withdrawal Approved", fiber.StatusOK, ctx)
}

func (c *WithdrawalController) Reject(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.ProcessWithdrawal)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("WithdrawalController.Reject", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.RequestID = ctx.Params("id")
	request.AdminID = auth.UserID

	result := c.UseCase.Reject(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Withdrawal Rejected", fiber.StatusOK, ctx)
}

func (c *WithdrawalController) List(ctx *fiber.Ctx) error {
	request := &model.ListWithdrawals{
		Status: ctx.Query("status"),
		Page:   ctx.QueryInt("page", 1),
		Limit:  ctx.QueryInt("limit", 20),
	}
	result := c.UseCase.List(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.ResponseWithMeta(result.Data, result.MetaData, "Withdrawal Requests", fiber.StatusOK, ctx)
}

func (c *WithdrawalController) Detail(ctx *fiber.Ctx) error {
	result := c.UseCase.Detail(ctx.Context(), ctx.Params("id"))
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Withdrawal Detail", fiber.StatusOK, ctx)
}
