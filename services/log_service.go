package services

import (
	"fmt"
	"time"

	"night_shift_app_go/models"

	"gorm.io/gorm"
)

// CreateLogInput carries the fields for a new log entry
type CreateLogInput struct {
	BabyID        string             `json:"babyId"`
	Type          string             `json:"type"`
	StartTime     time.Time          `json:"startTime"`
	EndTime       *time.Time         `json:"endTime,omitempty"`
	Amount        *float64           `json:"amount,omitempty"`
	Unit          *string            `json:"unit,omitempty"`
	RawTranscript string             `json:"rawTranscript"`
	Notes         *string            `json:"notes,omitempty"`
	Metadata      models.MetadataMap `json:"metadata,omitempty"`
}

// UpdateLogInput carries the updatable fields of a log entry. Nil fields are
// left unchanged; BabyID and RawTranscript are immutable.
type UpdateLogInput struct {
	Type      *string            `json:"type,omitempty"`
	StartTime *time.Time         `json:"startTime,omitempty"`
	EndTime   *time.Time         `json:"endTime,omitempty"`
	Amount    *float64           `json:"amount,omitempty"`
	Unit      *string            `json:"unit,omitempty"`
	Notes     *string            `json:"notes,omitempty"`
	Metadata  models.MetadataMap `json:"metadata,omitempty"`
}

// CreateLog validates and persists a new log entry
func CreateLog(db *gorm.DB, input CreateLogInput) (*models.Log, error) {
	if input.BabyID == "" {
		return nil, fmt.Errorf("babyId is required")
	}
	if input.Type == "" {
		return nil, fmt.Errorf("type is required")
	}
	if !models.IsValidLogType(input.Type) {
		return nil, fmt.Errorf("invalid log type: %s", input.Type)
	}
	if input.StartTime.IsZero() {
		return nil, fmt.Errorf("startTime is required")
	}
	if input.EndTime != nil && input.EndTime.Before(input.StartTime) {
		return nil, fmt.Errorf("endTime must not be before startTime")
	}
	if err := input.Metadata.Validate(); err != nil {
		return nil, err
	}

	log := &models.Log{
		BabyID:        input.BabyID,
		Type:          input.Type,
		StartTime:     input.StartTime,
		EndTime:       input.EndTime,
		Amount:        input.Amount,
		Unit:          input.Unit,
		RawTranscript: input.RawTranscript,
		Notes:         input.Notes,
		Metadata:      input.Metadata,
	}

	if err := db.Create(log).Error; err != nil {
		return nil, fmt.Errorf("failed to create log: %w", err)
	}

	return log, nil
}

// GetLog fetches a single log by id
func GetLog(db *gorm.DB, id string) (*models.Log, error) {
	var log models.Log
	if err := db.First(&log, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

// GetLogsByBaby fetches logs for a baby, optionally bounded by a start-time
// range, newest first
func GetLogsByBaby(db *gorm.DB, babyID string, startDate, endDate *time.Time) ([]models.Log, error) {
	query := db.Where("baby_id = ?", babyID)

	if startDate != nil {
		query = query.Where("start_time >= ?", *startDate)
	}
	if endDate != nil {
		query = query.Where("start_time <= ?", *endDate)
	}

	var logs []models.Log
	err := query.Order("start_time DESC").Find(&logs).Error
	return logs, err
}

// GetLogsByType fetches all logs of one type for a baby, newest first
func GetLogsByType(db *gorm.DB, babyID, logType string) ([]models.Log, error) {
	var logs []models.Log
	err := db.
		Where("baby_id = ?", babyID).
		Where("type = ?", logType).
		Order("start_time DESC").
		Find(&logs).Error
	return logs, err
}

// WeekRange computes the local week window (Sunday midnight to the next
// Sunday) shifted back by weekOffset weeks
func WeekRange(now time.Time, weekOffset int) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start = start.AddDate(0, 0, -int(now.Weekday())-weekOffset*7)
	end := start.AddDate(0, 0, 7)
	return start, end
}

// GetWeeklyLogs fetches a baby's logs for one week, oldest first
func GetWeeklyLogs(db *gorm.DB, babyID string, weekOffset int) ([]models.Log, error) {
	start, end := WeekRange(time.Now(), weekOffset)

	var logs []models.Log
	err := db.
		Where("baby_id = ?", babyID).
		Where("start_time >= ? AND start_time < ?", start, end).
		Order("start_time ASC").
		Find(&logs).Error
	return logs, err
}

// UpdateLog applies a partial update to a log entry
func UpdateLog(db *gorm.DB, id string, input UpdateLogInput) (*models.Log, error) {
	log, err := GetLog(db, id)
	if err != nil {
		return nil, err
	}

	if input.Type != nil {
		if !models.IsValidLogType(*input.Type) {
			return nil, fmt.Errorf("invalid log type: %s", *input.Type)
		}
		log.Type = *input.Type
	}
	if input.StartTime != nil {
		log.StartTime = *input.StartTime
	}
	if input.EndTime != nil {
		log.EndTime = input.EndTime
	}
	if input.Amount != nil {
		log.Amount = input.Amount
	}
	if input.Unit != nil {
		log.Unit = input.Unit
	}
	if input.Notes != nil {
		log.Notes = input.Notes
	}
	if input.Metadata != nil {
		if err := input.Metadata.Validate(); err != nil {
			return nil, err
		}
		log.Metadata = input.Metadata
	}

	if log.EndTime != nil && log.EndTime.Before(log.StartTime) {
		return nil, fmt.Errorf("endTime must not be before startTime")
	}

	if err := db.Save(log).Error; err != nil {
		return nil, fmt.Errorf("failed to update log: %w", err)
	}

	return log, nil
}

// DeleteLog removes a log entry
func DeleteLog(db *gorm.DB, id string) error {
	result := db.Delete(&models.Log{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete log: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
