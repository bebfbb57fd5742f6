package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newPlan(userID uint, planID string) *InvestmentPlan {
	return &InvestmentPlan{
		UserID:               userID,
		PlanName:             "Starter Plan",
		PlanID:               planID,
		DailyPercentage:      1,
		WithdrawalDay:        90,
		WithdrawalDate:       time.Now().AddDate(0, 3, 0),
		IsActive:             true,
		LastProfitCalculated: time.Now(),
	}
}

// The plan business key is unique per user, enforced by the store so two
// concurrent creates cannot both land.
func TestInvestmentPlanIDUniquePerUser(t *testing.T) {
	dsn := fmt.Sprintf("file:plans-%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&InvestmentPlan{}))

	require.NoError(t, db.Create(newPlan(1, "growth-90")).Error)

	assert.Error(t, db.Create(newPlan(1, "growth-90")).Error)

	// The same business key under another user is fine.
	assert.NoError(t, db.Create(newPlan(2, "growth-90")).Error)
	assert.NoError(t, db.Create(newPlan(1, "growth-180")).Error)
}
