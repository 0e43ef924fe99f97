package route

import (
	"wallet-service/src/internal/delivery/http"
	"wallet-service/src/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v2"
)

type RouteConfig struct {
	App                  *fiber.App
	WalletController     *http.WalletController
	WithdrawalController *http.WithdrawalController
	PermitController     *http.PermitController
	AuthMiddleware       fiber.Handler
}

func (c *RouteConfig) Setup() {
	c.App.Use(middleware.NewLogger())
	c.App.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.SendString("OK")
	})
	c.SetupAuthRoute()
	c.SetupAdminRoute()
}

func (c *RouteConfig) SetupAuthRoute() {
	c.App.Use(c.AuthMiddleware)
	c.App.Get("/wallets/v1/balance", c.WalletController.GetBalance)
	c.App.Get("/wallets/v1/transactions", c.WalletController.GetTransactions)
	c.App.Post("/withdrawals/v1/request", c.WithdrawalController.Request)
}

func (c *RouteConfig) SetupAdminRoute() {
	admin := c.App.Group("/admin/v1", middleware.RequireAdmin())
	admin.Get("/withdrawals", c.WithdrawalController.List)
	admin.Get("/withdrawals/:id", c.WithdrawalController.Detail)
	admin.Post("/withdrawals/:id/approve", c.WithdrawalController.Approve)
	admin.Post("/withdrawals/:id/reject", c.WithdrawalController.Reject)
	admin.Get("/permits", c.PermitController.List)
	admin.Get("/permits/:id", c.PermitController.Detail)
	admin.Post("/permits", c.PermitController.Issue)
	admin.Post("/permits/:id/revoke", c.PermitController.Revoke)
	admin.Post("/wallets/:userId/lock", c.WalletController.SetLock)
}
