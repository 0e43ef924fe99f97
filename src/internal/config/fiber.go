package config

import (
	"wallet-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
)

func NewFiber(config *viper.Viper) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      config.GetString("app.name"),
		Prefork:      config.GetBool("web.prefork"),
		ErrorHandler: newErrorHandler(),
	})

	return app
}

func newErrorHandler() fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		return utils.ResponseError(err, ctx)
	}
}
