package utils

import (
	"cryptovest/models"
	"encoding/base64"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// getContentType maps a file extension to its mime type for serving stored
// identity documents back.
func getContentType(ext string) string {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	case "pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// SaveImageToDatabase stores an uploaded document as a base64 row in the
// images table and returns the created record.
func SaveImageToDatabase(db *gorm.DB, fileBuffer []byte, originalName string, userID uint, fileType string) (*models.Image, error) {
	ext := filepath.Ext(originalName)

	image := models.Image{
		UserID:       userID,
		FileType:     fileType,
		OriginalName: originalName,
		FileName:     fileType + "_" + uuid.NewString() + ext,
		MimeType:     getContentType(ext),
		FileSize:     len(fileBuffer),
		Base64Data:   base64.StdEncoding.EncodeToString(fileBuffer),
		UploadedAt:   time.Now(),
	}

	if err := db.Create(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// ImageDataURL builds a data URL an admin client can render directly.
func ImageDataURL(image *models.Image) string {
	return "data:" + image.MimeType + ";base64," + image.Base64Data
}

// DecodeImageData returns the raw bytes of a stored image.
func DecodeImageData(image *models.Image) ([]byte, error) {
	return base64.StdEncoding.DecodeString(image.Base64Data)
}
