package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"night_shift_app_go/config"
	"night_shift_app_go/db"
	"night_shift_app_go/middleware"
	"night_shift_app_go/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB points the package-level db.DB at a fresh in-memory database
func setupTestDB(t *testing.T) *gorm.DB {
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, database.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.LoginToken{},
		&models.Baby{},
		&models.UserBaby{},
		&models.Log{},
	))
	db.DB = database
	return database
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:   "development",
		EmailTestMode: true,
		AppURL:        "http://localhost:8080",
		AIProvider:    config.AIProviderOpenAI,
	}
}

// newJSONContext builds an echo context carrying a JSON body and the app config
func newJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("config", testConfig())
	return c, rec
}

// signIn stores a user in the request context the way RequireAuth does
func signIn(c echo.Context, user *models.User) {
	c.Set(middleware.ContextKeyUser, user)
}

func createTestUser(t *testing.T, database *gorm.DB, email string) *models.User {
	user := &models.User{Name: "Parent", Email: email, IsActive: true}
	assert.NoError(t, database.Create(user).Error)
	return user
}

func createTestBaby(t *testing.T, database *gorm.DB, userID string) *models.Baby {
	baby := &models.Baby{Name: "June", BirthDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)}
	assert.NoError(t, database.Create(baby).Error)
	assert.NoError(t, database.Create(&models.UserBaby{UserID: userID, BabyID: baby.ID}).Error)
	return baby
}
