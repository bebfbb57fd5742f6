package userRoutes

import (
	userController "cryptovest/controllers/user"
	"cryptovest/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user")

	userGroup.Get("/profile", middleware.JWTMiddleware, userController.GetUserProfile)
	userGroup.Post("/tier-upgrade", middleware.JWTMiddleware, userController.RequestTierUpgrade)
}
