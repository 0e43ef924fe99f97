package http

import (
	"wallet-service/src/internal/delivery/http/middleware"
	"wallet-service/src/internal/model"
	"wallet-service/src/internal/usecase"
	"wallet-service/src/pkg/log"
	"wallet-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type PermitController struct {
	Log     log.Log
	UseCase *usecase.PermitUseCase
}

func NewPermitController(useCase *usecase.PermitUseCase, logger log.Log) *PermitController {
	return &PermitController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *PermitController) Issue(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.IssuePermit)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("PermitController.Issue", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.AdminID = auth.UserID

	result := c.UseCase.Issue(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Permit Issued", fiber.StatusCreated, ctx)
}

func (c *PermitController) Revoke(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.RevokePermit)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("PermitController.Revoke", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.PermitID = ctx.Params("id")
	request.AdminID = auth.UserID

	result := c.UseCase.Revoke(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Permit Revoked", fiber.StatusOK, ctx)
}

func (c *PermitController) List(ctx *fiber.Ctx) error {
	request := &model.ListPermits{
		VehicleID:  ctx.Query("vehicleId"),
		ActiveOnly: ctx.QueryBool("activeOnly", false),
		Page:       ctx.QueryInt("page", 1),
		Limit:      ctx.QueryInt("limit", 20),
	}
	result := c.UseCase.List(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.ResponseWithMeta(result.Data, result.MetaData, "Permits", fiber.StatusOK, ctx)
}

func (c *PermitController) Detail(ctx *fiber.Ctx) error {
	result := c.UseCase.Detail(ctx.Context(), ctx.Params("id"))
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Permit Detail", fiber.StatusOK, ctx)
}
