package imageController

import (
	"cryptovest/database"
	"cryptovest/middleware"
	"cryptovest/models"
	"cryptovest/utils"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

// loadOwnedImage fetches an image the caller may see: the owner or an admin.
func loadOwnedImage(c *fiber.Ctx) (*models.Image, error) {
	imageId, err := c.ParamsInt("imageId")
	if err != nil || imageId <= 0 {
		return nil, fiber.ErrBadRequest
	}

	db := database.Database.Db

	var image models.Image
	if err := db.Where("id = ?", imageId).First(&image).Error; err != nil {
		return nil, fiber.ErrNotFound
	}

	userId := c.Locals("userId").(uint)
	if image.UserID != userId {
		var caller models.User
		if err := db.Where("id = ? AND role = ?", userId, models.RoleAdmin).First(&caller).Error; err != nil {
			return nil, fiber.ErrForbidden
		}
	}
	return &image, nil
}

// GetImage returns image metadata plus a data URL.
func GetImage(c *fiber.Ctx) error {
	image, err := loadOwnedImage(c)
	if err != nil {
		switch err {
		case fiber.ErrBadRequest:
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid image id!", nil)
		case fiber.ErrForbidden:
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access Denied!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Image not found", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Image retrieved successfully", fiber.Map{
		"imageId":      image.ID,
		"fileName":     image.FileName,
		"originalName": image.OriginalName,
		"fileType":     image.FileType,
		"mimeType":     image.MimeType,
		"fileSize":     image.FileSize,
		"uploadedAt":   image.UploadedAt.Format(time.RFC3339),
		"dataUrl":      utils.ImageDataURL(image),
	})
}

// GetImageFile serves the raw image bytes with the stored content type.
func GetImageFile(c *fiber.Ctx) error {
	image, err := loadOwnedImage(c)
	if err != nil {
		switch err {
		case fiber.ErrBadRequest:
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid image id!", nil)
		case fiber.ErrForbidden:
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access Denied!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Image not found", nil)
		}
	}

	data, err := utils.DecodeImageData(image)
	if err != nil {
		log.Printf("Error decoding image %d: %v", image.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to read image data!", nil)
	}

	c.Set("Content-Type", image.MimeType)
	return c.Send(data)
}

// GetUserImages lists the caller's images, metadata only.
func GetUserImages(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var images []models.Image
	if err := database.Database.Db.Where("user_id = ?", userId).Find(&images).Error; err != nil {
		log.Printf("Error fetching images for user %d: %v", userId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch images!", nil)
	}

	list := make([]fiber.Map, 0, len(images))
	for _, image := range images {
		list = append(list, fiber.Map{
			"imageId":      image.ID,
			"fileName":     image.FileName,
			"originalName": image.OriginalName,
			"fileType":     image.FileType,
			"mimeType":     image.MimeType,
			"fileSize":     image.FileSize,
			"uploadedAt":   image.UploadedAt.Format(time.RFC3339),
			"hasData":      image.Base64Data != "",
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Images retrieved successfully", list)
}

// DeleteImage removes one stored image (owner or admin).
func DeleteImage(c *fiber.Ctx) error {
	image, err := loadOwnedImage(c)
	if err != nil {
		switch err {
		case fiber.ErrBadRequest:
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid image id!", nil)
		case fiber.ErrForbidden:
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access Denied!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Image not found", nil)
		}
	}

	if err := database.Database.Db.Delete(&models.Image{}, image.ID).Error; err != nil {
		log.Printf("Error deleting image %d: %v", image.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete image!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Image deleted successfully", fiber.Map{
		"imageId": image.ID,
	})
}

// CleanupOldImages batch-deletes stored images uploaded more than the
// requested number of days ago (admins only). Defaults to a 30 day window.
// Reaps documents left behind by resolved tier upgrade requests.
func CleanupOldImages(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	db := database.Database.Db

	var admin models.User
	if err := db.Where("id = ? AND role = ?", userId, models.RoleAdmin).First(&admin).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied! Admin role required.", nil)
	}

	reqData := new(struct {
		OlderThanDays int `json:"olderThanDays"`
	})
	// An empty body falls back to the default window.
	_ = c.BodyParser(reqData)
	if reqData.OlderThanDays <= 0 {
		reqData.OlderThanDays = 30
	}

	cutoff := time.Now().AddDate(0, 0, -reqData.OlderThanDays)

	res := db.Where("uploaded_at < ?", cutoff).Delete(&models.Image{})
	if res.Error != nil {
		log.Printf("Error cleaning up images older than %d days: %v", reqData.OlderThanDays, res.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to clean up images!", nil)
	}

	log.Printf("Image cleanup removed %d images older than %d days", res.RowsAffected, reqData.OlderThanDays)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Image cleanup completed", fiber.Map{
		"deletedCount":  res.RowsAffected,
		"olderThanDays": reqData.OlderThanDays,
		"cutoff":        cutoff.Format(time.RFC3339),
	})
}

// GetImageStats reports storage totals for admins.
func GetImageStats(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	db := database.Database.Db

	var admin models.User
	if err := db.Where("id = ? AND role = ?", userId, models.RoleAdmin).First(&admin).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied! Admin role required.", nil)
	}

	row := struct {
		Count     int64
		TotalSize int64
	}{}
	db.Model(&models.Image{}).Select("COUNT(*) as count, COALESCE(SUM(file_size), 0) as total_size").Scan(&row)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Image stats retrieved successfully", fiber.Map{
		"totalImages":    row.Count,
		"totalSizeBytes": row.TotalSize,
	})
}
