package imageRoutes

import (
	imageController "cryptovest/controllers/image"
	"cryptovest/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupImageRoutes(app *fiber.App) {
	imageGroup := app.Group("/images")

	imageGroup.Get("/mine", middleware.JWTMiddleware, imageController.GetUserImages)
	imageGroup.Get("/admin/stats", middleware.JWTMiddleware, imageController.GetImageStats)
	imageGroup.Post("/admin/cleanup", middleware.JWTMiddleware, imageController.CleanupOldImages)
	imageGroup.Get("/:imageId", middleware.JWTMiddleware, imageController.GetImage)
	imageGroup.Get("/:imageId/file", middleware.JWTMiddleware, imageController.GetImageFile)
	imageGroup.Delete("/:imageId", middleware.JWTMiddleware, imageController.DeleteImage)
}
