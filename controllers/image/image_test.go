package imageController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cryptovest/config"
	"cryptovest/database"
	"cryptovest/middleware"
	"cryptovest/models"
	"cryptovest/routers/imageRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type apiEnvelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func setupImageApp(t *testing.T) *fiber.App {
	t.Helper()

	config.LoadConfig()

	dsn := fmt.Sprintf("file:image-test-%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Image{}))
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	imageRoutes.SetupImageRoutes(app)
	return app
}

func seedAccount(t *testing.T, role string) (*models.User, string) {
	t.Helper()

	user := &models.User{
		Name:     "Image Tester",
		Email:    fmt.Sprintf("images-%s@example.com", uuid.NewString()),
		Phone:    "+1" + uuid.NewString()[:10],
		Password: "hashed",
		Role:     role,
		Tier:     models.TierOne,
	}
	require.NoError(t, database.Database.Db.Create(user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return user, token
}

func seedImage(t *testing.T, userID uint, uploadedAt time.Time) *models.Image {
	t.Helper()

	image := &models.Image{
		UserID:       userID,
		FileType:     models.ImageTypeIDCardFront,
		OriginalName: "front.jpg",
		FileName:     "id-card-front_" + uuid.NewString() + ".jpg",
		MimeType:     "image/jpeg",
		FileSize:     11,
		Base64Data:   "ZnJvbnQtYnl0ZXM=",
		UploadedAt:   uploadedAt,
	}
	require.NoError(t, database.Database.Db.Create(image).Error)
	return image
}

func postCleanup(t *testing.T, app *fiber.App, token string, body map[string]interface{}) (*http.Response, apiEnvelope) {
	t.Helper()

	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(http.MethodPost, "/images/admin/cleanup", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(http.MethodPost, "/images/admin/cleanup", nil)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var envelope apiEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func TestCleanupOldImagesRemovesOnlyStaleRows(t *testing.T) {
	app := setupImageApp(t)
	user, _ := seedAccount(t, models.RoleUser)
	_, adminToken := seedAccount(t, models.RoleAdmin)

	seedImage(t, user.ID, time.Now().AddDate(0, 0, -40))
	seedImage(t, user.ID, time.Now().AddDate(0, 0, -35))
	fresh := seedImage(t, user.ID, time.Now().AddDate(0, 0, -5))

	resp, envelope := postCleanup(t, app, adminToken, map[string]interface{}{"olderThanDays": 30})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, envelope.Success)
	assert.EqualValues(t, 2, envelope.Data["deletedCount"])

	var remaining []models.Image
	require.NoError(t, database.Database.Db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, fresh.ID, remaining[0].ID)
}

func TestCleanupOldImagesDefaultsToThirtyDays(t *testing.T) {
	app := setupImageApp(t)
	user, _ := seedAccount(t, models.RoleUser)
	_, adminToken := seedAccount(t, models.RoleAdmin)

	seedImage(t, user.ID, time.Now().AddDate(0, 0, -31))
	seedImage(t, user.ID, time.Now().AddDate(0, 0, -29))

	resp, envelope := postCleanup(t, app, adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 30, envelope.Data["olderThanDays"])
	assert.EqualValues(t, 1, envelope.Data["deletedCount"])

	var count int64
	require.NoError(t, database.Database.Db.Model(&models.Image{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCleanupOldImagesRequiresAdmin(t *testing.T) {
	app := setupImageApp(t)
	user, userToken := seedAccount(t, models.RoleUser)

	seedImage(t, user.ID, time.Now().AddDate(0, 0, -40))

	resp, envelope := postCleanup(t, app, userToken, map[string]interface{}{"olderThanDays": 30})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.False(t, envelope.Success)

	var count int64
	require.NoError(t, database.Database.Db.Model(&models.Image{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
