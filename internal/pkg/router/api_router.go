package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/adpilot-io/adpilot/app/controllers"
	"github.com/adpilot-io/adpilot/internal/pkg/middleware"
)

// SetupAPIRoutes mounts the authenticated JSON API under /api/v1.
func SetupAPIRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ping": "pong"})
	})

	protected := api.Group("", middleware.APIKeyAuthMiddleware())

	// Wallet
	protected.Get("/wallet", controllers.HandleGetWallet)
	protected.Post("/wallet/deposits", controllers.HandleDeposit)
	protected.Get("/wallet/transactions", controllers.HandleGetWalletTransactions)

	// Subscription & billing
	protected.Get("/subscription", controllers.HandleGetSubscription)
	protected.Post("/subscription/plan", controllers.HandleUpgradePlan)
	protected.Post("/actions", controllers.HandleRecordBillableAction)

	// AI suggestions
	protected.Post("/ai/audience-suggestions", controllers.HandleAudienceSuggestions)

	// Ad accounts / autopilot
	protected.Get("/ad-accounts/:id/autopilot", controllers.HandleGetAutopilotSettings)
	protected.Put("/ad-accounts/:id/autopilot", controllers.HandleUpdateAutopilotSettings)
	protected.Get("/ad-accounts/:id/autopilot/logs", controllers.HandleGetAutopilotLogs)
	protected.Post("/ad-accounts/:id/sync", controllers.HandleTriggerSync)
}
