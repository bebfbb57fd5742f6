package userController

import (
	"cryptovest/database"
	"cryptovest/middleware"
	"cryptovest/models"
	"cryptovest/utils"
	"io"
	"log"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"
)

// 5MB per identity document.
const maxIDCardSize = 5 * 1024 * 1024

// GetUserProfile returns the caller's own profile.
func GetUserProfile(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile retrieved successfully", fiber.Map{
		"userId":                 user.ID,
		"name":                   user.Name,
		"email":                  user.Email,
		"phone":                  user.Phone,
		"tier":                   user.Tier,
		"tierUpgradeStatus":      user.TierUpgradeStatus,
		"tierUpgradeRequestedAt": user.TierUpgradeRequestedAt,
		"currentBalance":         utils.Round2(user.CurrentBalance),
		"totalProfit":            utils.Round2(user.TotalProfit),
		"registeredAt":           user.CreatedAt.Format(time.RFC3339),
		"lastLogin":              user.LastLogin,
		"canUpgradeToTier2":      user.Tier == models.TierOne && user.TierUpgradeStatus != models.TierUpgradePending,
	})
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return io.ReadAll(src)
}

// RequestTierUpgrade submits identity documents and an SSN for tier2 review.
// Multipart fields: socialSecurityNumber, idCardFront, idCardBack.
func RequestTierUpgrade(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	db := database.Database.Db

	ssn := c.FormValue("socialSecurityNumber")
	if !utils.IsValidSSN(ssn) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Social Security Number. Please provide a valid 9-digit SSN.", nil)
	}

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found", nil)
	}

	// A rejected request may be re-submitted; pending and tier2 may not.
	if user.Tier == models.TierTwo {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User is already Tier 2", nil)
	}
	if user.TierUpgradeStatus == models.TierUpgradePending {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Tier upgrade request is already pending", nil)
	}

	frontFile, frontErr := c.FormFile("idCardFront")
	backFile, backErr := c.FormFile("idCardBack")
	if frontErr != nil || backErr != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Both ID card front and back images are required", nil)
	}
	if frontFile.Size > maxIDCardSize || backFile.Size > maxIDCardSize {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "ID card images must be 5MB or smaller", nil)
	}

	frontBytes, err := readUpload(frontFile)
	if err != nil {
		log.Printf("Error reading id card front for user %d: %v", userId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save identification documents", nil)
	}
	backBytes, err := readUpload(backFile)
	if err != nil {
		log.Printf("Error reading id card back for user %d: %v", userId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save identification documents", nil)
	}

	frontImage, err := utils.SaveImageToDatabase(db, frontBytes, frontFile.Filename, userId, models.ImageTypeIDCardFront)
	if err != nil {
		log.Printf("Error saving id card front for user %d: %v", userId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save identification documents", nil)
	}
	backImage, err := utils.SaveImageToDatabase(db, backBytes, backFile.Filename, userId, models.ImageTypeIDCardBack)
	if err != nil {
		log.Printf("Error saving id card back for user %d: %v", userId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save identification documents", nil)
	}

	currentTime := time.Now()
	if err := db.Model(&user).Updates(map[string]interface{}{
		"tier_upgrade_status":       models.TierUpgradePending,
		"tier_upgrade_requested_at": currentTime,
		"social_security_number":    utils.FormatSSN(ssn),
		"id_card_front_image_id":    frontImage.ID,
		"id_card_back_image_id":     backImage.ID,
		"updated_at":                currentTime,
	}).Error; err != nil {
		log.Printf("Error saving tier upgrade request for user %d: %v", userId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit tier upgrade request!", nil)
	}

	// A re-submission after rejection replaces the documents; reap the rows
	// the user's pointers no longer reference.
	if user.IDCardFrontImageID != 0 {
		db.Delete(&models.Image{}, user.IDCardFrontImageID)
	}
	if user.IDCardBackImageID != 0 {
		db.Delete(&models.Image{}, user.IDCardBackImageID)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Tier upgrade request submitted successfully! Your request is pending admin approval.", fiber.Map{
		"userId":            userId,
		"tierUpgradeStatus": models.TierUpgradePending,
		"submittedAt":       currentTime.Format(time.RFC3339),
		"documentsUploaded": fiber.Map{
			"idCardFront": fiber.Map{
				"imageId":      frontImage.ID,
				"originalName": frontImage.OriginalName,
				"fileSize":     frontImage.FileSize,
			},
			"idCardBack": fiber.Map{
				"imageId":      backImage.ID,
				"originalName": backImage.OriginalName,
				"fileSize":     backImage.FileSize,
			},
		},
	})
}
