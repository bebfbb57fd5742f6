package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

const (
	TierOne = "tier1"
	TierTwo = "tier2"
)

// Tier upgrade request states. An empty status means the user never applied.
const (
	TierUpgradeNone     = ""
	TierUpgradePending  = "pending"
	TierUpgradeApproved = "approved"
	TierUpgradeRejected = "rejected"
)

type User struct {
	gorm.Model
	Name     string `gorm:"default:''" json:"name"`
	Email    string `gorm:"unique;not null" json:"email"`
	Phone    string `gorm:"unique;not null" json:"phone"`
	Password string `gorm:"not null" json:"-"`
	Role     string `gorm:"default:'USER'" json:"role"`

	Tier                   string     `gorm:"default:'tier1'" json:"tier"`
	TierUpgradeStatus      string     `gorm:"default:''" json:"tierUpgradeStatus"`
	TierUpgradeRequestedAt *time.Time `json:"tierUpgradeRequestedAt"`
	TierUpgradeProcessedAt *time.Time `json:"tierUpgradeProcessedAt"`
	TierUpgradedAt         *time.Time `json:"tierUpgradedAt"`
	TierUpgradeAdminNote   string     `gorm:"type:text" json:"tierUpgradeAdminNote"`
	SocialSecurityNumber   string     `gorm:"default:''" json:"-"`
	IDCardFrontImageID     uint       `gorm:"default:0" json:"-"`
	IDCardBackImageID      uint       `gorm:"default:0" json:"-"`

	// Financial aggregates. Both only grow through profit postings made by
	// the accrual engine.
	CurrentBalance float64 `gorm:"default:0" json:"currentBalance"`
	TotalProfit    float64 `gorm:"default:0" json:"totalProfit"`

	IsEmailVerified bool       `gorm:"default:true" json:"isEmailVerified"`
	LastLogin       *time.Time `json:"lastLogin"`
	IsDeleted       bool       `gorm:"default:false" json:"-"`
}
