package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

const projectEntity = "project"

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *ProjectRepo) GetDB() *gorm.DB {
	return r.db
}

func (r *ProjectRepo) withTechnologies(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Technologies", func(db *gorm.DB) *gorm.DB {
		return db.Order("technologies.name ASC")
	})
}

// FindAll returns every project, newest first, with its technologies.
func (r *ProjectRepo) FindAll(ctx context.Context) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.withTechnologies(ctx).Order("created_at DESC").Find(&projects).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", projectEntity, err)
	}
	return projects, nil
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.withTechnologies(ctx).First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound(projectEntity)
	}
	if err != nil {
		return nil, errs.NewDatabaseError("get", projectEntity, err)
	}
	return &project, nil
}

// Add inserts the project row only; links are written by ProjectTechnologyRepo.
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(project).Error
	if err != nil {
		return errs.NewDatabaseError("create", projectEntity, err)
	}
	return nil
}

// Update overwrites every column but id and created_at.
func (r *ProjectRepo) Update(ctx context.Context, project *models.Project) error {
	result := r.db.WithContext(ctx).
		Model(&models.Project{ID: project.ID}).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(project)
	if result.Error != nil {
		return errs.NewDatabaseError("update", projectEntity, result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound(projectEntity)
	}
	return nil
}

// Delete removes a project from the database by id
func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Project{}, "id = ?", id)
	if result.Error != nil {
		return errs.NewDatabaseError("delete", projectEntity, result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound(projectEntity)
	}
	return nil
}

// ReferencedPaths returns every image and gallery path still held by a project.
func (r *ProjectRepo) ReferencedPaths(ctx context.Context) ([]string, error) {
	var projects []models.Project
	err := r.db.WithContext(ctx).Select("image_path", "gallery_paths").Find(&projects).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list paths", projectEntity, err)
	}

	var paths []string
	for _, p := range projects {
		if p.ImagePath != nil && *p.ImagePath != "" {
			paths = append(paths, *p.ImagePath)
		}
		paths = append(paths, p.GalleryPaths...)
	}
	return paths, nil
}
