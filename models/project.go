package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Category groups projects on the public site.
type Category string

const (
	CategoryFullstack Category = "fullstack"
	CategoryAIML      Category = "AI/ML"
	CategoryData      Category = "data"
)

var Categories = []Category{CategoryFullstack, CategoryAIML, CategoryData}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Project represents a portfolio project with its case-study details
type Project struct {
	ID           uuid.UUID                   `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Title        string                      `json:"title" db:"title" gorm:"type:text;not null"`
	Description  string                      `json:"description" db:"description" gorm:"type:text;not null"`
	Tagline      *string                     `json:"tagline,omitempty" db:"tagline" gorm:"type:text"`
	Features     datatypes.JSONSlice[string] `json:"features,omitempty" db:"features" gorm:"type:jsonb"`
	Duration     *string                     `json:"duration,omitempty" db:"duration" gorm:"type:text"`
	TeamSize     *int                        `json:"team_size,omitempty" db:"team_size" gorm:"type:integer"`
	Role         *string                     `json:"role,omitempty" db:"role" gorm:"type:text"`
	Challenges   *string                     `json:"challenges,omitempty" db:"challenges" gorm:"type:text"`
	Solutions    *string                     `json:"solutions,omitempty" db:"solutions" gorm:"type:text"`
	ImagePath    *string                     `json:"image_path,omitempty" db:"image_path" gorm:"type:text"`
	GalleryPaths datatypes.JSONSlice[string] `json:"gallery_paths,omitempty" db:"gallery_paths" gorm:"type:jsonb"`
	Category     Category                    `json:"category" db:"category" gorm:"type:text;not null;default:'fullstack'"`
	GithubURL    *string                     `json:"github_url,omitempty" db:"github_url" gorm:"type:text"`
	LiveURL      *string                     `json:"live_url,omitempty" db:"live_url" gorm:"type:text"`
	CreatedAt    time.Time                   `json:"created_at" db:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
	Technologies []Technology                `json:"technologies,omitempty" gorm:"many2many:projects_technologies;joinForeignKey:ProjectID;joinReferences:TechnologyID"`
}

func (Project) TableName() string { return "projects" }
