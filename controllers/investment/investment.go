package investmentController

import (
	"cryptovest/database"
	"cryptovest/middleware"
	"cryptovest/models"
	"cryptovest/utils"
	"encoding/json"
	"errors"
	"log"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreateInvestmentPlan opens a new funding line for the caller. The plan
// starts with zero invested amounts; the initial deposit is recorded pending
// and only counts once an admin approves it.
func CreateInvestmentPlan(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedPlan").(*struct {
		InvestmentPlanName string  `json:"investmentPlanName" validate:"required,min=3,max=100"`
		InvestmentPlanID   string  `json:"investmentPlanId" validate:"required,min=3,max=50"`
		DailyPercentage    float64 `json:"dailyPercentage" validate:"required,gt=0,lte=100"`
		WithdrawalDay      int     `json:"withdrawalDay" validate:"required,gt=0"`
		Amount             float64 `json:"amount" validate:"required,gt=0"`
		Currency           string  `json:"currency" validate:"required,len=3"`
		AmountInCrypto     float64 `json:"amountInCrypto"`
		CryptoCoinName     string  `json:"cryptoCoinName" validate:"required"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Check if user exists
	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found", nil)
	}

	// Check if investment plan ID already exists for this user
	var existing models.InvestmentPlan
	if err := db.Where("user_id = ? AND plan_id = ?", userId, reqData.InvestmentPlanID).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Investment plan ID already exists for this user", nil)
	}

	currentTime := time.Now()
	withdrawalDate := currentTime.Add(time.Duration(reqData.WithdrawalDay) * 24 * time.Hour)

	plan := models.InvestmentPlan{
		UserID:               userId,
		PlanName:             reqData.InvestmentPlanName,
		PlanID:               reqData.InvestmentPlanID,
		DailyPercentage:      reqData.DailyPercentage,
		WithdrawalDay:        reqData.WithdrawalDay,
		WithdrawalDate:       withdrawalDate,
		Currency:             reqData.Currency,
		CryptoCoinName:       reqData.CryptoCoinName,
		IsActive:             true,
		LastProfitCalculated: currentTime,
	}

	if err := db.Create(&plan).Error; err != nil {
		// Two concurrent creates can both pass the read above; the composite
		// unique index on (user_id, plan_id) settles the race.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Investment plan ID already exists for this user", nil)
		}
		log.Printf("Error creating investment plan: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create investment plan!", nil)
	}

	// Derive the crypto amount from the live rate when the caller omits it.
	amountInCrypto := reqData.AmountInCrypto
	if amountInCrypto <= 0 {
		if converted, err := utils.ConvertUSDToCoin(reqData.Amount, reqData.CryptoCoinName); err == nil {
			amountInCrypto = converted
		} else {
			log.Printf("Rate lookup for %s failed: %v", reqData.CryptoCoinName, err)
		}
	}

	tags, _ := json.Marshal([]string{"deposit"})
	txn := models.Transaction{
		UserID:           userId,
		InvestmentPlanID: plan.PlanID,
		PlanDocID:        plan.ID,
		TransactionType:  models.TransactionTypeDeposit,
		Amount:           reqData.Amount,
		Currency:         plan.Currency,
		AmountInCrypto:   amountInCrypto,
		CryptoCoinName:   plan.CryptoCoinName,
		Title:            "Initial Investment - " + plan.PlanName,
		Description:      "Initial deposit for investment plan: " + plan.PlanName,
		Status:           models.TransactionStatusPending,
		Tags:             datatypes.JSON(tags),
	}

	if err := db.Create(&txn).Error; err != nil {
		log.Printf("Error creating deposit transaction: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record deposit!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Investment plan created successfully! Your deposit is pending approval.", fiber.Map{
		"planId":             plan.ID,
		"investmentPlanId":   plan.PlanID,
		"investmentPlanName": plan.PlanName,
		"depositAmount":      reqData.Amount,
		"status":             txn.Status,
		"withdrawalDate":     withdrawalDate.Format(time.RFC3339),
	})
}

// DepositToPlan records an additional pending deposit on an active plan.
func DepositToPlan(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedDeposit").(*struct {
		InvestmentPlanID string  `json:"investmentPlanId" validate:"required"`
		Amount           float64 `json:"amount" validate:"required,gt=0"`
		AmountInCrypto   float64 `json:"amountInCrypto"`
		CryptoCoinName   string  `json:"cryptoCoinName" validate:"required"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var plan models.InvestmentPlan
	if err := db.Where("user_id = ? AND plan_id = ? AND is_active = ?", userId, reqData.InvestmentPlanID, true).First(&plan).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Investment plan not found or inactive", nil)
	}

	amountInCrypto := reqData.AmountInCrypto
	if amountInCrypto <= 0 {
		if converted, err := utils.ConvertUSDToCoin(reqData.Amount, reqData.CryptoCoinName); err == nil {
			amountInCrypto = converted
		} else {
			log.Printf("Rate lookup for %s failed: %v", reqData.CryptoCoinName, err)
		}
	}

	tags, _ := json.Marshal([]string{"deposit"})
	txn := models.Transaction{
		UserID:           userId,
		InvestmentPlanID: plan.PlanID,
		PlanDocID:        plan.ID,
		TransactionType:  models.TransactionTypeDeposit,
		Amount:           reqData.Amount,
		Currency:         plan.Currency,
		AmountInCrypto:   amountInCrypto,
		CryptoCoinName:   reqData.CryptoCoinName,
		Title:            "Additional Deposit - " + plan.PlanName,
		Description:      "Additional deposit to investment plan: " + plan.PlanName,
		Status:           models.TransactionStatusPending,
		Tags:             datatypes.JSON(tags),
	}

	if err := db.Create(&txn).Error; err != nil {
		log.Printf("Error creating deposit transaction: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record deposit!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Deposit submitted successfully! Awaiting approval.", fiber.Map{
		"investmentPlanId": plan.PlanID,
		"depositAmount":    reqData.Amount,
		"status":           txn.Status,
	})
}

// GetUserPlans lists the caller's active plans with derived projections.
func GetUserPlans(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	db := database.Database.Db

	var plans []models.InvestmentPlan
	if err := db.Where("user_id = ? AND is_active = ?", userId, true).Find(&plans).Error; err != nil {
		log.Printf("Error fetching plans for user %d: %v", userId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch investment plans!", nil)
	}

	if len(plans) == 0 {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "No investment plans found", []fiber.Map{})
	}

	currentTime := time.Now()
	result := make([]fiber.Map, 0, len(plans))

	for _, plan := range plans {
		daysLeft := int(math.Ceil(plan.WithdrawalDate.Sub(currentTime).Hours() / 24))
		if daysLeft < 0 {
			daysLeft = 0
		}

		// Projections from the current rate, not the ledger. These can
		// drift from TotalAmountGained, which stays the authoritative
		// ledger-backed figure.
		dailyAmountEarned := 0.0
		if plan.TotalAmountInvested > 0 {
			dailyAmountEarned = plan.TotalAmountInvested * plan.DailyPercentage / 100
		}
		daysSinceCreation := int(currentTime.Sub(plan.CreatedAt).Hours() / 24)
		totalProfitGained := float64(daysSinceCreation) * dailyAmountEarned

		result = append(result, fiber.Map{
			"planId":              plan.ID,
			"investmentPlanId":    plan.PlanID,
			"investmentPlanName":  plan.PlanName,
			"totalAmountInvested": plan.TotalAmountInvested,
			"totalAmountGained":   plan.TotalAmountGained,
			"dailyPercentage":     plan.DailyPercentage,
			"daysLeft":            daysLeft,
			"dailyAmountEarned":   utils.Round2(dailyAmountEarned),
			"totalProfitGained":   utils.Round2(totalProfitGained),
			"currency":            plan.Currency,
			"cryptoCoinName":      plan.CryptoCoinName,
			"createdAt":           plan.CreatedAt.Format(time.RFC3339),
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Investment plans retrieved successfully", result)
}

// GetTransactionHistory returns the caller's ledger, newest first.
func GetTransactionHistory(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 50)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	offset := (page - 1) * limit

	db := database.Database.Db
	query := db.Model(&models.Transaction{}).Where("user_id = ?", userId)

	var totalCount int64
	query.Count(&totalCount)

	var transactions []models.Transaction
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&transactions).Error; err != nil {
		log.Printf("Error fetching transactions for user %d: %v", userId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch transaction history!", nil)
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(limit)))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transaction history retrieved successfully", fiber.Map{
		"transactions": transactions,
		"pagination": fiber.Map{
			"currentPage": page,
			"totalPages":  totalPages,
			"totalCount":  totalCount,
			"hasNext":     offset+limit < int(totalCount),
			"hasPrev":     page > 1,
		},
	})
}

// GetUserInvestmentSummary aggregates the caller's active plans into the
// dashboard numbers.
func GetUserInvestmentSummary(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found", nil)
	}

	var plans []models.InvestmentPlan
	if err := db.Where("user_id = ? AND is_active = ?", userId, true).Find(&plans).Error; err != nil {
		log.Printf("Error fetching plans for user %d: %v", userId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch investment summary!", nil)
	}

	if len(plans) == 0 {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "No investment data found", fiber.Map{
			"totalInvestment":  0,
			"currentBalance":   utils.Round2(user.CurrentBalance),
			"totalProfit":      utils.Round2(user.TotalProfit),
			"activePlansCount": 0,
			"todaysProfit":     0,
			"daysInvested":     0,
			"investmentPeriod": "0 days",
		})
	}

	currentTime := time.Now()
	totalInvestment := 0.0
	todaysProfit := 0.0
	var earliest time.Time

	for _, plan := range plans {
		totalInvestment += plan.TotalAmountInvested
		if plan.TotalAmountInvested > 0 {
			todaysProfit += plan.TotalAmountInvested * plan.DailyPercentage / 100
		}
		if earliest.IsZero() || plan.CreatedAt.Before(earliest) {
			earliest = plan.CreatedAt
		}
	}

	daysInvested := int(currentTime.Sub(earliest).Hours() / 24)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Investment summary retrieved successfully", fiber.Map{
		"totalInvestment":  utils.Round2(totalInvestment),
		"currentBalance":   utils.Round2(user.CurrentBalance),
		"totalProfit":      utils.Round2(user.TotalProfit),
		"activePlansCount": len(plans),
		"todaysProfit":     utils.Round2(todaysProfit),
		"daysInvested":     daysInvested,
		"investmentPeriod": utils.FormatInvestmentPeriod(daysInvested),
	})
}
