package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/metrics"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/saga"
	"github.com/rpupo63/portfolio-backend/storage"
)

type CertificateStore interface {
	FindAll(ctx context.Context) ([]*models.Certificate, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Certificate, error)
	Add(ctx context.Context, certificate *models.Certificate) error
	Update(ctx context.Context, certificate *models.Certificate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CertificateService struct {
	certificates CertificateStore
	blobs        Blobs
	logger       zerolog.Logger
}

func NewCertificateService(certificates CertificateStore, blobs Blobs) *CertificateService {
	return &CertificateService{
		certificates: certificates,
		blobs:        blobs,
		logger:       log.With().Str("service", "certificate").Logger(),
	}
}

// List returns every certificate, newest first.
func (s *CertificateService) List(ctx context.Context) ([]CertificateView, error) {
	certificates, err := s.certificates.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]CertificateView, 0, len(certificates))
	for _, c := range certificates {
		views = append(views, certificateView(s.blobs, c))
	}
	return views, nil
}

func (s *CertificateService) Get(ctx context.Context, id uuid.UUID) (CertificateView, error) {
	certificate, err := s.certificates.FindByID(ctx, id)
	if err != nil {
		return CertificateView{}, err
	}
	return certificateView(s.blobs, certificate), nil
}

func (s *CertificateService) Create(ctx context.Context, input models.CertificateInput, image *storage.File) (view CertificateView, err error) {
	defer func() { metrics.RecordContentOperation("certificate", "create", err) }()

	input, err = input.Validate()
	if err != nil {
		return CertificateView{}, err
	}

	certificate := &models.Certificate{ID: uuid.New()}
	input.Apply(certificate)

	sg := saga.New("create certificate")
	if image != nil {
		certificate.ImagePath = new(string)
		addUpload(sg, s.blobs, "upload image", *image, storage.BucketCertificates, storage.FolderImages, certificate.ImagePath)
	}
	sg.Add("insert certificate",
		func(ctx context.Context) error {
			return s.certificates.Add(ctx, certificate)
		},
		nil,
	)

	if err = sg.Run(ctx); err != nil {
		return CertificateView{}, err
	}
	s.logger.Info().Str("certificateID", certificate.ID.String()).Msg("certificate created")
	return s.Get(ctx, certificate.ID)
}

func (s *CertificateService) Update(ctx context.Context, id uuid.UUID, input models.CertificateInput, image *storage.File, deleteOldImage bool) (view CertificateView, err error) {
	defer func() { metrics.RecordContentOperation("certificate", "update", err) }()

	current, err := s.certificates.FindByID(ctx, id)
	if err != nil {
		return CertificateView{}, err
	}
	input, err = input.Validate()
	if err != nil {
		return CertificateView{}, err
	}

	snapshot := *current
	updated := snapshot
	input.Apply(&updated)

	sg := saga.New("update certificate")
	var newImage string
	if image != nil {
		addUpload(sg, s.blobs, "upload image", *image, storage.BucketCertificates, storage.FolderImages, &newImage)
	}
	sg.Add("update certificate",
		func(ctx context.Context) error {
			if image != nil {
				updated.ImagePath = &newImage
			}
			return s.certificates.Update(ctx, &updated)
		},
		nil,
	)

	if err = sg.Run(ctx); err != nil {
		return CertificateView{}, err
	}
	if image != nil && deleteOldImage {
		deleteBestEffort(ctx, s.logger, s.blobs, storage.BucketCertificates, deref(snapshot.ImagePath))
	}
	s.logger.Info().Str("certificateID", id.String()).Msg("certificate updated")
	return s.Get(ctx, id)
}

func (s *CertificateService) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer func() { metrics.RecordContentOperation("certificate", "delete", err) }()

	current, err := s.certificates.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err = s.certificates.Delete(ctx, id); err != nil {
		return err
	}
	deleteBestEffort(ctx, s.logger, s.blobs, storage.BucketCertificates, deref(current.ImagePath))
	s.logger.Info().Str("certificateID", id.String()).Msg("certificate deleted")
	return nil
}
