package main

import (
	"cryptovest/config"
	"cryptovest/database"
	adminRoutes "cryptovest/routers/adminRoutes"
	authRoutes "cryptovest/routers/authRoutes"
	imageRoutes "cryptovest/routers/imageRoutes"
	investmentRoutes "cryptovest/routers/investmentRoutes"
	userRoutes "cryptovest/routers/userRoutes"
	"cryptovest/utils"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	userRoutes.SetupUserRoutes(app)
	investmentRoutes.SetupInvestmentRoutes(app)
	adminRoutes.SetupAdminRoutes(app)
	imageRoutes.SetupImageRoutes(app)

	// Recurring profit accrual
	utils.InitializeProfitScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
