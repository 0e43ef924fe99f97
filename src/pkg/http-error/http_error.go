package httpError

import "github.com/gofiber/fiber/v2"

// CommonError is the error shape carried inside utils.Result and rendered by
// utils.ResponseError. Message is mutable so use cases can attach the business
// reason before returning.
type CommonError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *CommonError) Error() string {
	return e.Message
}

func NewBadRequest() *CommonError {
	return &CommonError{
		Code:    fiber.StatusBadRequest,
		Message: "Bad Request",
	}
}

func NewUnauthorized() *CommonError {
	return &CommonError{
		Code:    fiber.StatusUnauthorized,
		Message: "Unauthorized",
	}
}

func NewNotFound() *CommonError {
	return &CommonError{
		Code:    fiber.StatusNotFound,
		Message: "Not Found",
	}
}

func NewConflict() *CommonError {
	return &CommonError{
		Code:    fiber.StatusConflict,
		Message: "Conflict",
	}
}

func NewUnprocessableEntity() *CommonError {
	return &CommonError{
		Code:    fiber.StatusUnprocessableEntity,
		Message: "Unprocessable Entity",
	}
}

func NewInternalServerError() *CommonError {
	return &CommonError{
		Code:    fiber.StatusInternalServerError,
		Message: "Internal Server Error",
	}
}
