package userController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"cryptovest/config"
	"cryptovest/database"
	"cryptovest/middleware"
	"cryptovest/models"
	"cryptovest/routers/adminRoutes"
	"cryptovest/routers/userRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const validSSN = "123455432"

type apiEnvelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func setupTierApp(t *testing.T) *fiber.App {
	t.Helper()

	config.LoadConfig()

	dsn := fmt.Sprintf("file:tier-test-%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Image{}))
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	userRoutes.SetupUserRoutes(app)
	adminRoutes.SetupAdminRoutes(app)
	return app
}

func seedAccount(t *testing.T, role, tier, upgradeStatus string) (*models.User, string) {
	t.Helper()

	user := &models.User{
		Name:              "Tier Tester",
		Email:             fmt.Sprintf("tier-%s@example.com", uuid.NewString()),
		Phone:             "+1" + uuid.NewString()[:10],
		Password:          "hashed",
		Role:              role,
		Tier:              tier,
		TierUpgradeStatus: upgradeStatus,
	}
	require.NoError(t, database.Database.Db.Create(user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return user, token
}

func postTierUpgrade(t *testing.T, app *fiber.App, token, ssn string) (*http.Response, apiEnvelope) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("socialSecurityNumber", ssn))

	front, err := w.CreateFormFile("idCardFront", "front.jpg")
	require.NoError(t, err)
	front.Write([]byte("front-bytes"))

	back, err := w.CreateFormFile("idCardBack", "back.jpg")
	require.NoError(t, err)
	back.Write([]byte("back-bytes"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/user/tier-upgrade", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var envelope apiEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func postResolveTierUpgrade(t *testing.T, app *fiber.App, token string, userID uint, approved bool, note string) (*http.Response, apiEnvelope) {
	t.Helper()

	payload, err := json.Marshal(map[string]interface{}{
		"userId":    userID,
		"approved":  approved,
		"adminNote": note,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/admin/approve-tier-upgrade", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var envelope apiEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func TestRequestTierUpgradeSubmitsPendingRequest(t *testing.T) {
	app := setupTierApp(t)
	user, token := seedAccount(t, models.RoleUser, models.TierOne, models.TierUpgradeNone)

	resp, envelope := postTierUpgrade(t, app, token, validSSN)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.True(t, envelope.Success)

	var stored models.User
	require.NoError(t, database.Database.Db.First(&stored, user.ID).Error)
	assert.Equal(t, models.TierUpgradePending, stored.TierUpgradeStatus)
	assert.Equal(t, models.TierOne, stored.Tier)
	assert.Equal(t, "123-45-5432", stored.SocialSecurityNumber)
	assert.NotZero(t, stored.IDCardFrontImageID)
	assert.NotZero(t, stored.IDCardBackImageID)

	var count int64
	require.NoError(t, database.Database.Db.Model(&models.Image{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestRequestTierUpgradeRejectsInvalidSSN(t *testing.T) {
	app := setupTierApp(t)
	_, token := seedAccount(t, models.RoleUser, models.TierOne, models.TierUpgradeNone)

	resp, envelope := postTierUpgrade(t, app, token, "000000000")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.False(t, envelope.Success)
}

func TestRequestTierUpgradeRejectsWhilePending(t *testing.T) {
	app := setupTierApp(t)
	user, token := seedAccount(t, models.RoleUser, models.TierOne, models.TierUpgradePending)

	resp, envelope := postTierUpgrade(t, app, token, validSSN)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.False(t, envelope.Success)

	// No documents were stored for the rejected submission.
	var count int64
	require.NoError(t, database.Database.Db.Model(&models.Image{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRequestTierUpgradeRejectsTierTwoUser(t *testing.T) {
	app := setupTierApp(t)
	_, token := seedAccount(t, models.RoleUser, models.TierTwo, models.TierUpgradeApproved)

	resp, envelope := postTierUpgrade(t, app, token, validSSN)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.False(t, envelope.Success)
}

func TestResolveTierUpgradeApprovalSetsTierTwo(t *testing.T) {
	app := setupTierApp(t)
	user, _ := seedAccount(t, models.RoleUser, models.TierOne, models.TierUpgradePending)
	_, adminToken := seedAccount(t, models.RoleAdmin, models.TierOne, models.TierUpgradeNone)

	resp, envelope := postResolveTierUpgrade(t, app, adminToken, user.ID, true, "documents verified")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, envelope.Success)
	assert.Equal(t, models.TierTwo, envelope.Data["newTier"])

	var stored models.User
	require.NoError(t, database.Database.Db.First(&stored, user.ID).Error)
	assert.Equal(t, models.TierTwo, stored.Tier)
	assert.Equal(t, models.TierUpgradeApproved, stored.TierUpgradeStatus)
	assert.NotNil(t, stored.TierUpgradedAt)
	assert.NotNil(t, stored.TierUpgradeProcessedAt)
}

func TestResolveTierUpgradeRejectsDoubleResolution(t *testing.T) {
	app := setupTierApp(t)
	user, _ := seedAccount(t, models.RoleUser, models.TierOne, models.TierUpgradePending)
	_, adminToken := seedAccount(t, models.RoleAdmin, models.TierOne, models.TierUpgradeNone)

	resp, _ := postResolveTierUpgrade(t, app, adminToken, user.ID, true, "first decision")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, envelope := postResolveTierUpgrade(t, app, adminToken, user.ID, false, "second admin")
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.False(t, envelope.Success)

	// The losing resolution performed no writes.
	var stored models.User
	require.NoError(t, database.Database.Db.First(&stored, user.ID).Error)
	assert.Equal(t, models.TierTwo, stored.Tier)
	assert.Equal(t, models.TierUpgradeApproved, stored.TierUpgradeStatus)
	assert.Equal(t, "first decision", stored.TierUpgradeAdminNote)
}

func TestResolveTierUpgradeRejectionLeavesTierUnchanged(t *testing.T) {
	app := setupTierApp(t)
	user, _ := seedAccount(t, models.RoleUser, models.TierOne, models.TierUpgradePending)
	_, adminToken := seedAccount(t, models.RoleAdmin, models.TierOne, models.TierUpgradeNone)

	resp, _ := postResolveTierUpgrade(t, app, adminToken, user.ID, false, "documents unreadable")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var stored models.User
	require.NoError(t, database.Database.Db.First(&stored, user.ID).Error)
	assert.Equal(t, models.TierOne, stored.Tier)
	assert.Equal(t, models.TierUpgradeRejected, stored.TierUpgradeStatus)
	assert.Nil(t, stored.TierUpgradedAt)
}

func TestRejectedUserMayReapply(t *testing.T) {
	app := setupTierApp(t)
	user, token := seedAccount(t, models.RoleUser, models.TierOne, models.TierUpgradeNone)
	_, adminToken := seedAccount(t, models.RoleAdmin, models.TierOne, models.TierUpgradeNone)

	resp, _ := postTierUpgrade(t, app, token, validSSN)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var afterFirst models.User
	require.NoError(t, database.Database.Db.First(&afterFirst, user.ID).Error)
	firstFrontID := afterFirst.IDCardFrontImageID

	resp, _ = postResolveTierUpgrade(t, app, adminToken, user.ID, false, "blurry scans")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, envelope := postTierUpgrade(t, app, token, validSSN)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.True(t, envelope.Success)

	var stored models.User
	require.NoError(t, database.Database.Db.First(&stored, user.ID).Error)
	assert.Equal(t, models.TierUpgradePending, stored.TierUpgradeStatus)
	assert.Equal(t, models.TierOne, stored.Tier)
	assert.NotEqual(t, firstFrontID, stored.IDCardFrontImageID)

	// The replaced documents are reaped; only the new pair remains.
	var count int64
	require.NoError(t, database.Database.Db.Model(&models.Image{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}
