package services

import (
	"fmt"
	"strings"
	"time"

	"night_shift_app_go/models"

	"gorm.io/gorm"
)

const (
	// LoginTokenExpiration is how long a magic-link token is valid
	LoginTokenExpiration = 1 * time.Hour
)

// FindOrCreateUserByEmail returns the user for an email, creating a
// magic-link-only account (name derived from the address) when none exists
func FindOrCreateUserByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	name := email
	if at := strings.Index(email, "@"); at > 0 {
		name = email[:at]
	}

	user = models.User{
		Name:     name,
		Email:    email,
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// GenerateLoginToken creates a single-use magic-link token for an email,
// creating the account on first sign-in. Any previous tokens for the user
// are invalidated.
func GenerateLoginToken(db *gorm.DB, email string) (*models.LoginToken, *models.User, error) {
	user, err := FindOrCreateUserByEmail(db, email)
	if err != nil {
		return nil, nil, err
	}

	if !user.IsActive {
		return nil, nil, fmt.Errorf("account is deactivated")
	}

	// Delete any existing tokens for this user
	db.Where("user_id = ?", user.ID).Delete(&models.LoginToken{})

	token, err := GenerateSessionToken()
	if err != nil {
		return nil, nil, err
	}

	loginToken := &models.LoginToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(LoginTokenExpiration),
	}
	if err := db.Create(loginToken).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to create login token: %w", err)
	}

	return loginToken, user, nil
}

// ConsumeLoginToken validates a magic-link token and marks it used.
// A token can be consumed exactly once within its expiration window.
func ConsumeLoginToken(db *gorm.DB, token string) (*models.User, error) {
	var loginToken models.LoginToken

	err := db.Preload("User").Where("token = ?", token).First(&loginToken).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("login token not found")
		}
		return nil, fmt.Errorf("failed to validate login token: %w", err)
	}

	if loginToken.IsExpired() {
		db.Delete(&loginToken)
		return nil, fmt.Errorf("login token expired")
	}

	if loginToken.IsUsed() {
		return nil, fmt.Errorf("login token already used")
	}

	now := time.Now()
	if err := db.Model(&loginToken).Update("used_at", &now).Error; err != nil {
		return nil, fmt.Errorf("failed to consume login token: %w", err)
	}

	if loginToken.User == nil {
		return nil, fmt.Errorf("login token has no associated user")
	}
	if !loginToken.User.IsActive {
		return nil, fmt.Errorf("account is deactivated")
	}

	return loginToken.User, nil
}

// CleanupExpiredLoginTokens removes expired and consumed tokens from the database
func CleanupExpiredLoginTokens(db *gorm.DB) error {
	result := db.Where("expires_at < ? OR used_at IS NOT NULL", time.Now()).Delete(&models.LoginToken{})
	if result.Error != nil {
		return fmt.Errorf("failed to cleanup login tokens: %w", result.Error)
	}
	return nil
}
