package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

const certificateEntity = "certificate"

type CertificateRepo struct {
	db *gorm.DB
}

func NewCertificateRepo(db *gorm.DB) *CertificateRepo {
	return &CertificateRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *CertificateRepo) GetDB() *gorm.DB {
	return r.db
}

// FindAll returns every certificate, newest first
func (r *CertificateRepo) FindAll(ctx context.Context) ([]*models.Certificate, error) {
	var certificates []*models.Certificate
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&certificates).Error; err != nil {
		return nil, errs.NewDatabaseError("list", certificateEntity, err)
	}
	return certificates, nil
}

func (r *CertificateRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Certificate, error) {
	var certificate models.Certificate
	err := r.db.WithContext(ctx).First(&certificate, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound(certificateEntity)
	}
	if err != nil {
		return nil, errs.NewDatabaseError("get", certificateEntity, err)
	}
	return &certificate, nil
}

func (r *CertificateRepo) Add(ctx context.Context, certificate *models.Certificate) error {
	if certificate.ID == uuid.Nil {
		certificate.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(certificate).Error; err != nil {
		return errs.NewDatabaseError("create", certificateEntity, err)
	}
	return nil
}

func (r *CertificateRepo) Update(ctx context.Context, certificate *models.Certificate) error {
	result := r.db.WithContext(ctx).
		Model(&models.Certificate{ID: certificate.ID}).
		Select("*").
		Omit("id", "created_at").
		Updates(certificate)
	if result.Error != nil {
		return errs.NewDatabaseError("update", certificateEntity, result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound(certificateEntity)
	}
	return nil
}

func (r *CertificateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Certificate{}, "id = ?", id)
	if result.Error != nil {
		return errs.NewDatabaseError("delete", certificateEntity, result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound(certificateEntity)
	}
	return nil
}

func (r *CertificateRepo) ReferencedPaths(ctx context.Context) ([]string, error) {
	var paths []string
	err := r.db.WithContext(ctx).Model(&models.Certificate{}).
		Where("image_path IS NOT NULL AND image_path <> ''").
		Pluck("image_path", &paths).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list paths", certificateEntity, err)
	}
	return paths, nil
}
