package utils

import (
	httpError "wallet-service/src/pkg/http-error"

	"github.com/gofiber/fiber/v2"
)

type baseResponse struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// Response renders a success payload.
func Response(data interface{}, message string, code int, ctx *fiber.Ctx) error {
	return ctx.Status(code).JSON(baseResponse{
		Success: true,
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// ResponseWithMeta renders a success payload with pagination metadata.
func ResponseWithMeta(data interface{}, meta interface{}, message string, code int, ctx *fiber.Ctx) error {
	return ctx.Status(code).JSON(baseResponse{
		Success: true,
		Code:    code,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

// ResponseError renders a typed error, falling back to 500 for everything else.
func ResponseError(err error, ctx *fiber.Ctx) error {
	if commonErr, ok := err.(*httpError.CommonError); ok {
		return ctx.Status(commonErr.Code).JSON(baseResponse{
			Success: false,
			Code:    commonErr.Code,
			Message: commonErr.Message,
		})
	}

	return ctx.Status(fiber.StatusInternalServerError).JSON(baseResponse{
		Success: false,
		Code:    fiber.StatusInternalServerError,
		Message: err.Error(),
	})
}
