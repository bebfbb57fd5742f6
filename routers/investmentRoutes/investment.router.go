package investmentRoutes

import (
	investmentController "cryptovest/controllers/investment"
	"cryptovest/middleware"
	investmentValidator "cryptovest/validators/investment"

	"github.com/gofiber/fiber/v2"
)

func SetupInvestmentRoutes(app *fiber.App) {
	investmentGroup := app.Group("/investment")

	investmentGroup.Post("/create-plan", investmentValidator.CreatePlan(), middleware.JWTMiddleware, investmentController.CreateInvestmentPlan)
	investmentGroup.Post("/deposit", investmentValidator.Deposit(), middleware.JWTMiddleware, investmentController.DepositToPlan)
	investmentGroup.Get("/plans", middleware.JWTMiddleware, investmentController.GetUserPlans)
	investmentGroup.Get("/transactions", middleware.JWTMiddleware, investmentController.GetTransactionHistory)
	investmentGroup.Get("/summary", middleware.JWTMiddleware, investmentController.GetUserInvestmentSummary)
}
