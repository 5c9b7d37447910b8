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

type TechnologyStore interface {
	FindAll(ctx context.Context) ([]*models.Technology, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Technology, error)
	Add(ctx context.Context, technology *models.Technology) error
	Update(ctx context.Context, technology *models.Technology) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type TechnologyService struct {
	technologies TechnologyStore
	blobs        Blobs
	logger       zerolog.Logger
}

func NewTechnologyService(technologies TechnologyStore, blobs Blobs) *TechnologyService {
	return &TechnologyService{
		technologies: technologies,
		blobs:        blobs,
		logger:       log.With().Str("service", "technology").Logger(),
	}
}

// List returns every technology ordered by name.
func (s *TechnologyService) List(ctx context.Context) ([]TechnologyView, error) {
	technologies, err := s.technologies.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]TechnologyView, 0, len(technologies))
	for _, t := range technologies {
		views = append(views, technologyView(s.blobs, t))
	}
	return views, nil
}

func (s *TechnologyService) Get(ctx context.Context, id uuid.UUID) (TechnologyView, error) {
	technology, err := s.technologies.FindByID(ctx, id)
	if err != nil {
		return TechnologyView{}, err
	}
	return technologyView(s.blobs, technology), nil
}

func (s *TechnologyService) Create(ctx context.Context, input models.TechnologyInput, image *storage.File) (view TechnologyView, err error) {
	defer func() { metrics.RecordContentOperation("technology", "create", err) }()

	input, err = input.Validate()
	if err != nil {
		return TechnologyView{}, err
	}

	technology := &models.Technology{ID: uuid.New()}
	input.Apply(technology)

	sg := saga.New("create technology")
	if image != nil {
		technology.ImagePath = new(string)
		addUpload(sg, s.blobs, "upload image", *image, storage.BucketTechnologies, storage.FolderImages, technology.ImagePath)
	}
	sg.Add("insert technology",
		func(ctx context.Context) error {
			return s.technologies.Add(ctx, technology)
		},
		nil,
	)

	if err = sg.Run(ctx); err != nil {
		return TechnologyView{}, err
	}
	s.logger.Info().Str("technologyID", technology.ID.String()).Msg("technology created")
	return s.Get(ctx, technology.ID)
}

func (s *TechnologyService) Update(ctx context.Context, id uuid.UUID, input models.TechnologyInput, image *storage.File, deleteOldImage bool) (view TechnologyView, err error) {
	defer func() { metrics.RecordContentOperation("technology", "update", err) }()

	current, err := s.technologies.FindByID(ctx, id)
	if err != nil {
		return TechnologyView{}, err
	}
	input, err = input.Validate()
	if err != nil {
		return TechnologyView{}, err
	}

	snapshot := *current
	updated := snapshot
	input.Apply(&updated)

	sg := saga.New("update technology")
	var newImage string
	if image != nil {
		addUpload(sg, s.blobs, "upload image", *image, storage.BucketTechnologies, storage.FolderImages, &newImage)
	}
	sg.Add("update technology",
		func(ctx context.Context) error {
			if image != nil {
				updated.ImagePath = &newImage
			}
			return s.technologies.Update(ctx, &updated)
		},
		nil,
	)

	if err = sg.Run(ctx); err != nil {
		return TechnologyView{}, err
	}
	if image != nil && deleteOldImage {
		deleteBestEffort(ctx, s.logger, s.blobs, storage.BucketTechnologies, deref(snapshot.ImagePath))
	}
	s.logger.Info().Str("technologyID", id.String()).Msg("technology updated")
	return s.Get(ctx, id)
}

// Delete removes the technology and, through the cascade, its project links.
func (s *TechnologyService) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer func() { metrics.RecordContentOperation("technology", "delete", err) }()

	current, err := s.technologies.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err = s.technologies.Delete(ctx, id); err != nil {
		return err
	}
	deleteBestEffort(ctx, s.logger, s.blobs, storage.BucketTechnologies, deref(current.ImagePath))
	s.logger.Info().Str("technologyID", id.String()).Msg("technology deleted")
	return nil
}
