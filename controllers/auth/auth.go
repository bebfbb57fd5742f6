package authController

import (
	"cryptovest/config"
	"cryptovest/database"
	"cryptovest/middleware"
	"cryptovest/models"
	"cryptovest/utils"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

func Signup(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	email := strings.ToLower(strings.TrimSpace(reqData.Email))
	phone := utils.FormatPhoneNumber(reqData.Phone)

	// Check if email already exists
	if err := db.Where("email = ?", email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User with this email already exists", nil)
	}

	// Check if phone already exists
	if err := db.Where("phone = ?", phone).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User with this phone number already exists", nil)
	}

	// Hash Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Internal server error", nil)
	}

	newUser := models.User{
		Name:     strings.TrimSpace(reqData.Name),
		Email:    email,
		Phone:    phone,
		Password: string(hashedPassword),
		Tier:     models.TierOne,
	}

	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create account!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Account created successfully! You can now login.", fiber.Map{
		"userId": newUser.ID,
		"name":   newUser.Name,
		"email":  newUser.Email,
		"tier":   newUser.Tier,
	})
}

func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Lookup and password failures share one message on purpose.
	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", strings.ToLower(strings.TrimSpace(reqData.Email)), false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password", nil)
	}

	// Update last login
	currentTime := time.Now()
	if err := db.Model(&user).Updates(map[string]interface{}{"last_login": currentTime, "updated_at": currentTime}).Error; err != nil {
		log.Printf("Error updating last login for user %d: %v", user.ID, err)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		log.Printf("Error generating JWT for user %d: %v", user.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Internal server error", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful!", fiber.Map{
		"token":     token,
		"userId":    user.ID,
		"name":      user.Name,
		"email":     user.Email,
		"tier":      user.Tier,
		"lastLogin": currentTime.Format(time.RFC3339),
	})
}
