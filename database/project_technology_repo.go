package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

const projectTechnologyEntity = "project technology"

type ProjectTechnologyRepo struct {
	db *gorm.DB
}

func NewProjectTechnologyRepo(db *gorm.DB) *ProjectTechnologyRepo {
	return &ProjectTechnologyRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *ProjectTechnologyRepo) GetDB() *gorm.DB {
	return r.db
}

// Link inserts one row per technology. An empty set is a no-op.
func (r *ProjectTechnologyRepo) Link(ctx context.Context, projectID uuid.UUID, technologyIDs []uuid.UUID) error {
	if len(technologyIDs) == 0 {
		return nil
	}
	links := make([]models.ProjectTechnology, 0, len(technologyIDs))
	for _, techID := range technologyIDs {
		links = append(links, models.ProjectTechnology{ProjectID: projectID, TechnologyID: techID})
	}
	if err := r.db.WithContext(ctx).Omit("Project", "Technology").Create(&links).Error; err != nil {
		return errs.NewDatabaseError("link", projectTechnologyEntity, err)
	}
	return nil
}

// UnlinkAll removes every technology link of a project.
func (r *ProjectTechnologyRepo) UnlinkAll(ctx context.Context, projectID uuid.UUID) error {
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&models.ProjectTechnology{}).Error
	if err != nil {
		return errs.NewDatabaseError("unlink", projectTechnologyEntity, err)
	}
	return nil
}

// FindByProject returns the technology IDs linked to a project.
func (r *ProjectTechnologyRepo) FindByProject(ctx context.Context, projectID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.ProjectTechnology{}).
		Where("project_id = ?", projectID).
		Pluck("technology_id", &ids).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", projectTechnologyEntity, err)
	}
	return ids, nil
}
