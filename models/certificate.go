package models

import (
	"time"

	"github.com/google/uuid"
)

// Certificate is a course or certification with an optional credential link
type Certificate struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Title     string    `json:"title" db:"title" gorm:"type:text;not null"`
	ImagePath *string   `json:"image_path,omitempty" db:"image_path" gorm:"type:text"`
	ShowURL   *string   `json:"show_url,omitempty" db:"show_url" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}

func (Certificate) TableName() string { return "certificates" }
