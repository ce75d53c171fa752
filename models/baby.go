package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Baby struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name      string    `gorm:"not null" json:"name"`
	BirthDate time.Time `gorm:"not null" json:"birth_date"`
}

// BeforeCreate hook to generate UUID
func (b *Baby) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Baby model
func (Baby) TableName() string {
	return "babies"
}
