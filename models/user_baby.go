package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserBaby links a caregiver account to a baby. A baby is owned by one or
// more users; unlinking the last owner removes the baby and its logs.
type UserBaby struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID string `gorm:"type:uuid;not null;index;uniqueIndex:idx_user_baby" json:"user_id"`
	BabyID string `gorm:"type:uuid;not null;index;uniqueIndex:idx_user_baby" json:"baby_id"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"-"`
	Baby *Baby `gorm:"foreignKey:BabyID" json:"baby,omitempty"`
}

// BeforeCreate hook to generate UUID
func (ub *UserBaby) BeforeCreate(tx *gorm.DB) error {
	if ub.ID == "" {
		ub.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for UserBaby model
func (UserBaby) TableName() string {
	return "user_babies"
}
