package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Log entry types. REJECT is a classifier outcome only and must never be persisted.
const (
	LogTypeFeeding = "FEEDING"
	LogTypeSleep   = "SLEEP"
	LogTypeDiaper  = "DIAPER"
	LogTypeNote    = "NOTE"
)

// IsValidLogType reports whether t is one of the four persistable log types
func IsValidLogType(t string) bool {
	switch t {
	case LogTypeFeeding, LogTypeSleep, LogTypeDiaper, LogTypeNote:
		return true
	default:
		return false
	}
}

// MetadataMap is an open-ended bag of string keys to scalar values
// (string, number, or boolean), stored as JSON text
type MetadataMap map[string]interface{}

// Value implements driver.Valuer for storing metadata as a JSON text column
func (m MetadataMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	bytes, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return string(bytes), nil
}

// Scan implements sql.Scanner for reading metadata back from the database
func (m *MetadataMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported metadata column type %T", value)
	}

	return json.Unmarshal(bytes, m)
}

// Validate ensures every metadata value is a scalar (string, number, or boolean)
func (m MetadataMap) Validate() error {
	for key, value := range m {
		switch value.(type) {
		case string, bool, float64, float32, int, int32, int64:
			// ok
		default:
			return fmt.Errorf("metadata key %q has unsupported value type %T", key, value)
		}
	}
	return nil
}

type Log struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	BabyID        string      `gorm:"type:uuid;not null;index" json:"baby_id"`
	Type          string      `gorm:"not null;index" json:"type"` // FEEDING, SLEEP, DIAPER, NOTE
	StartTime     time.Time   `gorm:"not null;index" json:"start_time"`
	EndTime       *time.Time  `json:"end_time,omitempty"`
	Amount        *float64    `json:"amount,omitempty"`
	Unit          *string     `json:"unit,omitempty"` // oz, ml, minutes, hours
	RawTranscript string      `gorm:"type:text" json:"raw_transcript"`
	Notes         *string     `gorm:"type:text" json:"notes,omitempty"`
	Metadata      MetadataMap `gorm:"type:text" json:"metadata,omitempty"`

	// Relationships
	Baby *Baby `gorm:"foreignKey:BabyID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate hook to generate UUID
func (l *Log) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Log model
func (Log) TableName() string {
	return "logs"
}
