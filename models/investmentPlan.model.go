package models

import (
	"time"

	"gorm.io/gorm"
)

// InvestmentPlan is one funding line belonging to one user. PlanID is the
// user-scoped business key; the row id is what transactions point at.
type InvestmentPlan struct {
	gorm.Model
	UserID          uint    `gorm:"not null;uniqueIndex:idx_user_plan" json:"userId"`
	PlanName        string  `gorm:"not null" json:"investmentPlanName"`
	PlanID          string  `gorm:"not null;uniqueIndex:idx_user_plan" json:"investmentPlanId"`
	DailyPercentage float64 `gorm:"not null" json:"dailyPercentage"`
	WithdrawalDay   int     `gorm:"not null" json:"withdrawalDay"`
	// Fixed at creation from WithdrawalDay, never recomputed.
	WithdrawalDate time.Time `gorm:"not null" json:"withdrawalDate"`
	Currency       string    `gorm:"type:varchar(10)" json:"currency"`
	CryptoCoinName string    `gorm:"type:varchar(20)" json:"cryptoCoinName"`

	// Invested totals only move when an admin approves a deposit; gained only
	// moves when the accrual engine posts profit.
	TotalAmountInvested float64 `gorm:"default:0" json:"totalAmountInvested"`
	TotalAmountInCrypto float64 `gorm:"default:0" json:"totalAmountInCrypto"`
	TotalAmountGained   float64 `gorm:"default:0" json:"totalAmountGained"`

	IsActive             bool      `gorm:"default:true" json:"isActive"`
	LastProfitCalculated time.Time `gorm:"not null" json:"lastProfitCalculated"`

	// Saga bookkeeping for the last profit tick. The key ties the plan update
	// to its ledger entry so a crash between the two writes can be repaired.
	LastAccrualKey   string  `gorm:"type:varchar(64);default:''" json:"-"`
	LastProfitAmount float64 `gorm:"default:0" json:"-"`
}
