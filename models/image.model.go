package models

import (
	"time"

	"gorm.io/gorm"
)

// Identity document kinds accepted by the tier upgrade flow.
const (
	ImageTypeIDCardFront = "id-card-front"
	ImageTypeIDCardBack  = "id-card-back"
)

// Image stores an uploaded identity document directly in the database as
// base64, with enough metadata to serve it back without a file store.
type Image struct {
	gorm.Model
	UserID       uint      `gorm:"not null;index" json:"userId"`
	FileType     string    `gorm:"type:varchar(30);not null" json:"fileType"`
	OriginalName string    `gorm:"not null" json:"originalName"`
	FileName     string    `gorm:"not null" json:"fileName"`
	MimeType     string    `gorm:"type:varchar(50)" json:"mimeType"`
	FileSize     int       `gorm:"not null" json:"fileSize"`
	Base64Data   string    `gorm:"type:text" json:"-"`
	UploadedAt   time.Time `gorm:"not null" json:"uploadedAt"`
}
