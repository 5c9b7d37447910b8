package models

import "github.com/google/uuid"

// ProjectTechnology links a project to a technology it was built with
type ProjectTechnology struct {
	ProjectID    uuid.UUID `json:"project_id" db:"project_id" gorm:"type:uuid;primaryKey;not null"`
	TechnologyID uuid.UUID `json:"technology_id" db:"technology_id" gorm:"type:uuid;primaryKey;not null;index:idx_projects_technologies_technology_id"`

	Project    Project    `json:"-" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Technology Technology `json:"-" gorm:"foreignKey:TechnologyID;references:ID;constraint:OnDelete:CASCADE"`
}

func (ProjectTechnology) TableName() string { return "projects_technologies" }
