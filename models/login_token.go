package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoginToken is a single-use magic-link sign-in token
type LoginToken struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID    string     `gorm:"type:uuid;not null;index" json:"user_id"`
	Token     string     `gorm:"uniqueIndex;not null" json:"-"` // Don't expose token in JSON
	ExpiresAt time.Time  `gorm:"not null;index" json:"expires_at"`
	UsedAt    *time.Time `json:"used_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// BeforeCreate hook to generate UUID
func (t *LoginToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for LoginToken model
func (LoginToken) TableName() string {
	return "login_tokens"
}

// IsExpired checks if the token has expired
func (t *LoginToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// IsUsed checks if the token has already been consumed
func (t *LoginToken) IsUsed() bool {
	return t.UsedAt != nil
}
