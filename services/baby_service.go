package services

import (
	"fmt"
	"time"

	"night_shift_app_go/models"

	"gorm.io/gorm"
)

// GetBabiesByUser fetches all babies linked to a user
func GetBabiesByUser(db *gorm.DB, userID string) ([]models.Baby, error) {
	var babies []models.Baby
	err := db.
		Joins("JOIN user_babies ON user_babies.baby_id = babies.id").
		Where("user_babies.user_id = ?", userID).
		Order("babies.created_at ASC").
		Find(&babies).Error
	return babies, err
}

// GetBabyByID fetches a baby the user is linked to. Returns nil without an
// error when the baby does not exist or the user has no access.
func GetBabyByID(db *gorm.DB, babyID, userID string) (*models.Baby, error) {
	var link models.UserBaby
	err := db.Preload("Baby").
		Where("user_id = ? AND baby_id = ?", userID, babyID).
		First(&link).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch baby: %w", err)
	}
	return link.Baby, nil
}

// CanAccessBaby checks whether a user is linked to a baby
func CanAccessBaby(db *gorm.DB, babyID, userID string) bool {
	var count int64
	db.Model(&models.UserBaby{}).
		Where("user_id = ? AND baby_id = ?", userID, babyID).
		Count(&count)
	return count > 0
}

// CreateBabyInput carries the fields for registering a baby
type CreateBabyInput struct {
	Name      string    `json:"name"`
	BirthDate time.Time `json:"birthDate"`
}

// CreateBaby registers a baby and links it to the creating user
func CreateBaby(db *gorm.DB, userID string, input CreateBabyInput) (*models.Baby, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if input.BirthDate.IsZero() {
		return nil, fmt.Errorf("birthDate is required")
	}

	baby := &models.Baby{
		Name:      input.Name,
		BirthDate: input.BirthDate,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(baby).Error; err != nil {
			return fmt.Errorf("failed to create baby: %w", err)
		}
		link := &models.UserBaby{
			UserID: userID,
			BabyID: baby.ID,
		}
		if err := tx.Create(link).Error; err != nil {
			return fmt.Errorf("failed to link baby to user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return baby, nil
}

// UpdateBabyInput carries the updatable fields of a baby; nil fields are unchanged
type UpdateBabyInput struct {
	Name      *string    `json:"name,omitempty"`
	BirthDate *time.Time `json:"birthDate,omitempty"`
}

// UpdateBaby updates a baby after verifying the user is linked to it.
// Returns nil without an error when the user has no access.
func UpdateBaby(db *gorm.DB, babyID, userID string, input UpdateBabyInput) (*models.Baby, error) {
	baby, err := GetBabyByID(db, babyID, userID)
	if err != nil {
		return nil, err
	}
	if baby == nil {
		return nil, nil
	}

	if input.Name != nil {
		baby.Name = *input.Name
	}
	if input.BirthDate != nil {
		baby.BirthDate = *input.BirthDate
	}

	if err := db.Save(baby).Error; err != nil {
		return nil, fmt.Errorf("failed to update baby: %w", err)
	}

	return baby, nil
}

// DeleteBaby unlinks a baby from a user. When the last owning link is
// removed, the baby and all its logs are deleted. Returns false when the
// user has no access to the baby.
func DeleteBaby(db *gorm.DB, babyID, userID string) (bool, error) {
	var link models.UserBaby
	err := db.Where("user_id = ? AND baby_id = ?", userID, babyID).First(&link).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to fetch baby link: %w", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&link).Error; err != nil {
			return fmt.Errorf("failed to unlink baby: %w", err)
		}

		var remaining int64
		if err := tx.Model(&models.UserBaby{}).Where("baby_id = ?", babyID).Count(&remaining).Error; err != nil {
			return fmt.Errorf("failed to count remaining links: %w", err)
		}

		if remaining == 0 {
			if err := tx.Where("baby_id = ?", babyID).Delete(&models.Log{}).Error; err != nil {
				return fmt.Errorf("failed to delete baby logs: %w", err)
			}
			if err := tx.Delete(&models.Baby{}, "id = ?", babyID).Error; err != nil {
				return fmt.Errorf("failed to delete baby: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	return true, nil
}
