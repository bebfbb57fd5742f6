package adminController

import (
	"cryptovest/database"
	"cryptovest/middleware"
	"cryptovest/models"
	"cryptovest/utils"
	"errors"
	"log"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// requireAdmin loads the caller and checks the admin role.
func requireAdmin(c *fiber.Ctx) (*models.User, error) {
	userId := c.Locals("userId").(uint)

	var admin models.User
	if err := database.Database.Db.
		Where("id = ? AND is_deleted = ? AND role = ?", userId, false, models.RoleAdmin).
		First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// GetPendingTransactions lists deposits awaiting resolution, newest first.
func GetPendingTransactions(c *fiber.Ctx) error {
	if _, err := requireAdmin(c); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied! Admin role required.", nil)
	}

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
	query := db.Model(&models.Transaction{}).Where("status = ?", models.TransactionStatusPending)

	var totalCount int64
	query.Count(&totalCount)

	var transactions []models.Transaction
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&transactions).Error; err != nil {
		log.Printf("Error fetching pending transactions: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch pending transactions!", nil)
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(limit)))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending transactions retrieved successfully", fiber.Map{
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

// UpdateTransactionStatus resolves one pending deposit to success or failed.
func UpdateTransactionStatus(c *fiber.Ctx) error {
	if _, err := requireAdmin(c); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied! Admin role required.", nil)
	}

	reqData, ok := c.Locals("validatedTransactionStatus").(*struct {
		TransactionID uint   `json:"transactionId"`
		Status        string `json:"status"`
		AdminNote     string `json:"adminNote"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	txn, err := utils.ResolveDepositTransaction(db, reqData.TransactionID, reqData.Status, reqData.AdminNote)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrTransactionNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Transaction not found", nil)
		case errors.Is(err, utils.ErrTransactionNotPending):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Only pending transactions can be updated", nil)
		default:
			log.Printf("Error resolving transaction %d: %v", reqData.TransactionID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update transaction!", nil)
		}
	}

	// Notify the depositor asynchronously.
	var user models.User
	if err := db.Where("id = ?", txn.UserID).First(&user).Error; err == nil {
		utils.SendDepositResolvedEmail(user.Email, user.Name, txn.InvestmentPlanID, txn.Amount, txn.Status == models.TransactionStatusSuccess)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transaction "+txn.Status+" successfully", fiber.Map{
		"transactionId": txn.ID,
		"status":        txn.Status,
		"adminNote":     txn.AdminNote,
	})
}

// GetAllUsers lists users with optional tier filter and name/email/phone search.
func GetAllUsers(c *fiber.Ctx) error {
	if _, err := requireAdmin(c); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied! Admin role required.", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 50)
	tier := c.Query("tier")
	search := c.Query("search")
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	offset := (page - 1) * limit

	db := database.Database.Db
	query := db.Model(&models.User{}).Where("is_deleted = ?", false)

	if tier == models.TierOne || tier == models.TierTwo {
		query = query.Where("tier = ?", tier)
	}
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ? OR phone LIKE ?", like, like, like)
	}

	var totalCount int64
	query.Count(&totalCount)

	var users []models.User
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error; err != nil {
		log.Printf("Error fetching users: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	list := make([]fiber.Map, 0, len(users))
	for _, u := range users {
		list = append(list, fiber.Map{
			"userId":            u.ID,
			"name":              u.Name,
			"email":             u.Email,
			"phone":             u.Phone,
			"tier":              u.Tier,
			"tierUpgradeStatus": u.TierUpgradeStatus,
			"registeredAt":      u.CreatedAt.Format(time.RFC3339),
			"lastLogin":         u.LastLogin,
			"hasIdDocuments":    u.IDCardFrontImageID != 0 && u.IDCardBackImageID != 0,
		})
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(limit)))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users retrieved successfully", fiber.Map{
		"users": list,
		"pagination": fiber.Map{
			"currentPage": page,
			"totalPages":  totalPages,
			"totalCount":  totalCount,
			"hasNext":     offset+limit < int(totalCount),
			"hasPrev":     page > 1,
		},
		"filters": fiber.Map{
			"tier":   tier,
			"search": search,
		},
	})
}

// GetUserById returns the admin detail view including identity documents.
func GetUserById(c *fiber.Ctx) error {
	if _, err := requireAdmin(c); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied! Admin role required.", nil)
	}

	targetId, err := c.ParamsInt("userId")
	if err != nil || targetId <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", targetId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found", nil)
	}

	imageInfo := func(imageID uint) fiber.Map {
		if imageID == 0 {
			return nil
		}
		var image models.Image
		if err := db.Where("id = ?", imageID).First(&image).Error; err != nil {
			return nil
		}
		return fiber.Map{
			"imageId":      image.ID,
			"originalName": image.OriginalName,
			"fileSize":     image.FileSize,
			"uploadedAt":   image.UploadedAt.Format(time.RFC3339),
			"dataUrl":      utils.ImageDataURL(&image),
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User details retrieved successfully", fiber.Map{
		"userId":                 user.ID,
		"name":                   user.Name,
		"email":                  user.Email,
		"phone":                  user.Phone,
		"tier":                   user.Tier,
		"tierUpgradeStatus":      user.TierUpgradeStatus,
		"tierUpgradeRequestedAt": user.TierUpgradeRequestedAt,
		"isEmailVerified":        user.IsEmailVerified,
		"registeredAt":           user.CreatedAt.Format(time.RFC3339),
		"lastLogin":              user.LastLogin,
		"socialSecurityNumber":   user.SocialSecurityNumber,
		"currentBalance":         utils.Round2(user.CurrentBalance),
		"totalProfit":            utils.Round2(user.TotalProfit),
		"idCardFrontImage":       imageInfo(user.IDCardFrontImageID),
		"idCardBackImage":        imageInfo(user.IDCardBackImageID),
	})
}

// GetPendingTierUpgrades lists users with an unresolved upgrade request.
func GetPendingTierUpgrades(c *fiber.Ctx) error {
	if _, err := requireAdmin(c); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied! Admin role required.", nil)
	}

	db := database.Database.Db

	var users []models.User
	if err := db.Where("is_deleted = ? AND tier_upgrade_status = ?", false, models.TierUpgradePending).
		Order("tier_upgrade_requested_at ASC").
		Find(&users).Error; err != nil {
		log.Printf("Error fetching pending tier upgrades: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch pending tier upgrades!", nil)
	}

	list := make([]fiber.Map, 0, len(users))
	for _, u := range users {
		list = append(list, fiber.Map{
			"userId":      u.ID,
			"name":        u.Name,
			"email":       u.Email,
			"tier":        u.Tier,
			"requestedAt": u.TierUpgradeRequestedAt,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending tier upgrades retrieved successfully", list)
}

// ResolveTierUpgrade approves or rejects a pending tier upgrade request. The
// status write is conditional on the request still being pending; rejection
// leaves the tier unchanged and the user free to re-apply.
func ResolveTierUpgrade(c *fiber.Ctx) error {
	if _, err := requireAdmin(c); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied! Admin role required.", nil)
	}

	reqData, ok := c.Locals("validatedTierUpgrade").(*struct {
		UserID    uint   `json:"userId"`
		Approved  *bool  `json:"approved"`
		AdminNote string `json:"adminNote"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", reqData.UserID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found", nil)
	}

	approved := *reqData.Approved
	currentTime := time.Now()

	updates := map[string]interface{}{
		"tier_upgrade_status":       models.TierUpgradeRejected,
		"tier_upgrade_processed_at": currentTime,
		"tier_upgrade_admin_note":   reqData.AdminNote,
		"updated_at":                currentTime,
	}
	if approved {
		updates["tier_upgrade_status"] = models.TierUpgradeApproved
		updates["tier"] = models.TierTwo
		updates["tier_upgraded_at"] = currentTime
	}

	res := db.Model(&models.User{}).
		Where("id = ? AND tier_upgrade_status = ?", reqData.UserID, models.TierUpgradePending).
		Updates(updates)
	if res.Error != nil {
		log.Printf("Error resolving tier upgrade for user %d: %v", reqData.UserID, res.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to resolve tier upgrade!", nil)
	}
	if res.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "No pending tier upgrade request found", nil)
	}

	utils.SendTierUpgradeResolvedEmail(user.Email, user.Name, approved)

	status := models.TierUpgradeRejected
	newTier := user.Tier
	if approved {
		status = models.TierUpgradeApproved
		newTier = models.TierTwo
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tier upgrade "+status+" successfully", fiber.Map{
		"userId":      reqData.UserID,
		"newTier":     newTier,
		"status":      status,
		"adminNote":   reqData.AdminNote,
		"processedAt": currentTime.Format(time.RFC3339),
	})
}

// TriggerDailyProfits runs one accrual tick on demand, for operational testing.
func TriggerDailyProfits(c *fiber.Ctx) error {
	if _, err := requireAdmin(c); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied! Admin role required.", nil)
	}

	summary, err := utils.TriggerAccrualTick()
	if errors.Is(err, utils.ErrTickInProgress) {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "An accrual tick is already running", nil)
	}
	if err != nil {
		log.Printf("Manual accrual tick failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Profit calculation failed!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Daily profits calculated successfully", summary)
}

// ReconcileLedger runs the accrual repair pass on demand.
func ReconcileLedger(c *fiber.Ctx) error {
	if _, err := requireAdmin(c); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied! Admin role required.", nil)
	}

	summary, err := utils.ReconcileAccruals(database.Database.Db)
	if err != nil {
		log.Printf("Ledger reconciliation failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Ledger reconciliation failed!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ledger reconciliation completed", summary)
}

// GetTransactionStats summarizes the ledger for the admin dashboard,
// including profit posted since the start of today.
func GetTransactionStats(c *fiber.Ctx) error {
	if _, err := requireAdmin(c); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied! Admin role required.", nil)
	}

	db := database.Database.Db

	type bucket struct {
		Count int64
		Total float64
	}

	sumWhere := func(query *gorm.DB) bucket {
		var b bucket
		row := struct {
			Count int64
			Total float64
		}{}
		query.Select("COUNT(*) as count, COALESCE(SUM(amount), 0) as total").Scan(&row)
		b.Count = row.Count
		b.Total = row.Total
		return b
	}

	pendingDeposits := sumWhere(db.Model(&models.Transaction{}).
		Where("transaction_type = ? AND status = ?", models.TransactionTypeDeposit, models.TransactionStatusPending))
	approvedDeposits := sumWhere(db.Model(&models.Transaction{}).
		Where("transaction_type = ? AND status = ?", models.TransactionTypeDeposit, models.TransactionStatusSuccess))
	profitAllTime := sumWhere(db.Model(&models.Transaction{}).
		Where("transaction_type = ?", models.TransactionTypeProfit))
	profitToday := sumWhere(db.Model(&models.Transaction{}).
		Where("transaction_type = ? AND created_at >= ?", models.TransactionTypeProfit, now.BeginningOfDay()))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transaction stats retrieved successfully", fiber.Map{
		"pendingDeposits":  fiber.Map{"count": pendingDeposits.Count, "totalAmount": utils.Round2(pendingDeposits.Total)},
		"approvedDeposits": fiber.Map{"count": approvedDeposits.Count, "totalAmount": utils.Round2(approvedDeposits.Total)},
		"profitAllTime":    fiber.Map{"count": profitAllTime.Count, "totalAmount": utils.Round2(profitAllTime.Total)},
		"profitToday":      fiber.Map{"count": profitToday.Count, "totalAmount": utils.Round2(profitToday.Total)},
	})
}
