package adminRoutes

import (
	adminController "cryptovest/controllers/admin"
	"cryptovest/middleware"
	adminValidator "cryptovest/validators/admin"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin")

	adminGroup.Get("/pending-transactions", middleware.JWTMiddleware, adminController.GetPendingTransactions)
	adminGroup.Post("/update-transaction-status", adminValidator.UpdateTransactionStatus(), middleware.JWTMiddleware, adminController.UpdateTransactionStatus)

	adminGroup.Get("/users", middleware.JWTMiddleware, adminController.GetAllUsers)
	adminGroup.Get("/users/:userId", middleware.JWTMiddleware, adminController.GetUserById)
	adminGroup.Get("/pending-tier-upgrades", middleware.JWTMiddleware, adminController.GetPendingTierUpgrades)
	adminGroup.Post("/approve-tier-upgrade", adminValidator.ResolveTierUpgrade(), middleware.JWTMiddleware, adminController.ResolveTierUpgrade)

	// Operational endpoints
	adminGroup.Post("/trigger-daily-profits", middleware.JWTMiddleware, adminController.TriggerDailyProfits)
	adminGroup.Post("/reconcile-ledger", middleware.JWTMiddleware, adminController.ReconcileLedger)
	adminGroup.Get("/transaction-stats", middleware.JWTMiddleware, adminController.GetTransactionStats)
}
