package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

const technologyEntity = "technology"

type TechnologyRepo struct {
	db *gorm.DB
}

func NewTechnologyRepo(db *gorm.DB) *TechnologyRepo {
	return &TechnologyRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *TechnologyRepo) GetDB() *gorm.DB {
	return r.db
}

// FindAll returns every technology ordered by name
func (r *TechnologyRepo) FindAll(ctx context.Context) ([]*models.Technology, error) {
	var technologies []*models.Technology
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&technologies).Error; err != nil {
		return nil, errs.NewDatabaseError("list", technologyEntity, err)
	}
	return technologies, nil
}

func (r *TechnologyRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Technology, error) {
	var technology models.Technology
	err := r.db.WithContext(ctx).First(&technology, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound(technologyEntity)
	}
	if err != nil {
		return nil, errs.NewDatabaseError("get", technologyEntity, err)
	}
	return &technology, nil
}

func (r *TechnologyRepo) Add(ctx context.Context, technology *models.Technology) error {
	if technology.ID == uuid.Nil {
		technology.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(technology).Error; err != nil {
		return errs.NewDatabaseError("create", technologyEntity, err)
	}
	return nil
}

func (r *TechnologyRepo) Update(ctx context.Context, technology *models.Technology) error {
	result := r.db.WithContext(ctx).
		Model(&models.Technology{ID: technology.ID}).
		Select("*").
		Omit("id", "created_at").
		Updates(technology)
	if result.Error != nil {
		return errs.NewDatabaseError("update", technologyEntity, result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound(technologyEntity)
	}
	return nil
}

// Delete removes the technology; its project links go with it through the FK cascade.
func (r *TechnologyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Technology{}, "id = ?", id)
	if result.Error != nil {
		return errs.NewDatabaseError("delete", technologyEntity, result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound(technologyEntity)
	}
	return nil
}

func (r *TechnologyRepo) ReferencedPaths(ctx context.Context) ([]string, error) {
	var paths []string
	err := r.db.WithContext(ctx).Model(&models.Technology{}).
		Where("image_path IS NOT NULL AND image_path <> ''").
		Pluck("image_path", &paths).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list paths", technologyEntity, err)
	}
	return paths, nil
}
