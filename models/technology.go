package models

import (
	"time"

	"github.com/google/uuid"
)

// Technology is a language, framework or tool shown with its logo
type Technology struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name      string    `json:"name" db:"name" gorm:"type:text;not null;unique"`
	ImagePath *string   `json:"image_path,omitempty" db:"image_path" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}

func (Technology) TableName() string { return "technologies" }
