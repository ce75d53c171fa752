package services

import (
	"testing"
	"time"

	"night_shift_app_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.User{}, &models.Session{}, &models.LoginToken{}))
	return db
}

func TestPasswordHashing(t *testing.T) {
	password := "SecretPass123!"

	hash, err := HashPassword(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	assert.True(t, VerifyPassword(hash, password))
	assert.False(t, VerifyPassword(hash, "WrongPass"))
}

func TestSessionLifecycle(t *testing.T) {
	db := setupAuthTestDB(t)
	user := &models.User{Name: "Test", Email: "test@example.com", IsActive: true}
	assert.NoError(t, db.Create(user).Error)

	// 1. Create Session
	session, err := CreateSession(db, user.ID, "127.0.0.1", "TestAgent")
	assert.NoError(t, err)
	assert.NotNil(t, session)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, user.ID, session.UserID)
	assert.WithinDuration(t, time.Now().Add(DefaultSessionDuration), session.ExpiresAt, 10*time.Second)

	// 2. Validate Session (Valid)
	validSession, err := ValidateSession(db, session.Token)
	assert.NoError(t, err)
	assert.NotNil(t, validSession)
	assert.Equal(t, session.ID, validSession.ID)
	assert.Equal(t, user.Email, validSession.User.Email)

	// 3. Validate Session (Invalid Token)
	invalidSession, err := ValidateSession(db, "invalid-token")
	assert.Error(t, err)
	assert.Nil(t, invalidSession)
	assert.Contains(t, err.Error(), "session not found")

	// 4. Delete Session
	err = DeleteSession(db, session.Token)
	assert.NoError(t, err)

	// 5. Validate Deleted Session
	deletedSession, err := ValidateSession(db, session.Token)
	assert.Error(t, err)
	assert.Nil(t, deletedSession)
}

func TestSessionExpiry(t *testing.T) {
	db := setupAuthTestDB(t)
	user := &models.User{Name: "Exp", Email: "exp@example.com", IsActive: true}
	assert.NoError(t, db.Create(user).Error)

	// Create a manually expired session
	token := "expired-token"
	expiredSession := models.Session{
		ID:        "sess-expired",
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(-1 * time.Hour),
	}
	assert.NoError(t, db.Create(&expiredSession).Error)

	// Should return error and delete the session
	sess, err := ValidateSession(db, token)
	assert.Error(t, err)
	assert.Equal(t, "session expired", err.Error())
	assert.Nil(t, sess)

	// Verify deletion
	var count int64
	db.Model(&models.Session{}).Where("token = ?", token).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCleanupExpiredSessions(t *testing.T) {
	db := setupAuthTestDB(t)

	db.Create(&models.Session{ID: "sess-valid", Token: "valid", ExpiresAt: time.Now().Add(1 * time.Hour)})
	db.Create(&models.Session{ID: "sess-expired-1", Token: "exp1", ExpiresAt: time.Now().Add(-1 * time.Hour)})
	db.Create(&models.Session{ID: "sess-expired-2", Token: "exp2", ExpiresAt: time.Now().Add(-2 * time.Hour)})

	assert.NoError(t, CleanupExpiredSessions(db))

	var remaining []models.Session
	db.Find(&remaining)
	assert.Len(t, remaining, 1)
	assert.Equal(t, "sess-valid", remaining[0].ID)
}

func TestDeleteAllUserSessions(t *testing.T) {
	db := setupAuthTestDB(t)

	db.Create(&models.Session{ID: "s1", UserID: "u1", Token: "t1", ExpiresAt: time.Now().Add(time.Hour)})
	db.Create(&models.Session{ID: "s2", UserID: "u1", Token: "t2", ExpiresAt: time.Now().Add(time.Hour)})
	db.Create(&models.Session{ID: "s3", UserID: "u2", Token: "t3", ExpiresAt: time.Now().Add(time.Hour)})

	assert.NoError(t, DeleteAllUserSessions(db, "u1"))

	var remaining []models.Session
	db.Find(&remaining)
	assert.Len(t, remaining, 1)
	assert.Equal(t, "u2", remaining[0].UserID)
}
