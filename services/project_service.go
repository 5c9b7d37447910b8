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

type ProjectStore interface {
	FindAll(ctx context.Context) ([]*models.Project, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Add(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProjectLinkStore interface {
	Link(ctx context.Context, projectID uuid.UUID, technologyIDs []uuid.UUID) error
	UnlinkAll(ctx context.Context, projectID uuid.UUID) error
}

type ProjectService struct {
	projects ProjectStore
	links    ProjectLinkStore
	blobs    Blobs
	logger   zerolog.Logger
}

func NewProjectService(projects ProjectStore, links ProjectLinkStore, blobs Blobs) *ProjectService {
	return &ProjectService{
		projects: projects,
		links:    links,
		blobs:    blobs,
		logger:   log.With().Str("service", "project").Logger(),
	}
}

// List returns every project, newest first, with URLs resolved.
func (s *ProjectService) List(ctx context.Context) ([]ProjectView, error) {
	projects, err := s.projects.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, projectView(s.blobs, p))
	}
	return views, nil
}

func (s *ProjectService) Get(ctx context.Context, id uuid.UUID) (ProjectView, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return ProjectView{}, err
	}
	return projectView(s.blobs, project), nil
}

// Create uploads the image and gallery, inserts the row and links its
// technologies. A failure at any step removes what the earlier steps wrote.
func (s *ProjectService) Create(ctx context.Context, input models.ProjectInput, image *storage.File, gallery []storage.File) (view ProjectView, err error) {
	defer func() { metrics.RecordContentOperation("project", "create", err) }()

	input, err = input.Validate()
	if err != nil {
		return ProjectView{}, err
	}

	project := &models.Project{ID: uuid.New()}
	input.Apply(project)

	sg := saga.New("create project")
	if image != nil {
		project.ImagePath = new(string)
		addUpload(sg, s.blobs, "upload image", *image, storage.BucketProjects, storage.FolderImages, project.ImagePath)
	}
	galleryPaths := make([]string, len(gallery))
	for i := range gallery {
		addUpload(sg, s.blobs, "upload gallery", gallery[i], storage.BucketProjects, storage.FolderGallery, &galleryPaths[i])
	}
	sg.Add("insert project",
		func(ctx context.Context) error {
			if len(galleryPaths) > 0 {
				project.GalleryPaths = galleryPaths
			}
			return s.projects.Add(ctx, project)
		},
		func(ctx context.Context) error {
			return s.projects.Delete(ctx, project.ID)
		},
	)
	sg.Add("link technologies",
		func(ctx context.Context) error {
			return s.links.Link(ctx, project.ID, input.TechnologyIDs)
		},
		nil,
	)

	if err = sg.Run(ctx); err != nil {
		return ProjectView{}, err
	}

	s.logger.Info().Str("projectID", project.ID.String()).Msg("project created")
	return s.Get(ctx, project.ID)
}

// Update rewrites the project. The old image is deleted only when a new one
// was uploaded and deleteOldImage is set; the old gallery is deleted when a
// new gallery replaces it.
func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, input models.ProjectInput, image *storage.File, deleteOldImage bool, gallery []storage.File) (view ProjectView, err error) {
	defer func() { metrics.RecordContentOperation("project", "update", err) }()

	current, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return ProjectView{}, err
	}
	input, err = input.Validate()
	if err != nil {
		return ProjectView{}, err
	}

	snapshot := *current
	snapshot.Technologies = nil
	oldTechnologyIDs := make([]uuid.UUID, 0, len(current.Technologies))
	for _, t := range current.Technologies {
		oldTechnologyIDs = append(oldTechnologyIDs, t.ID)
	}

	updated := snapshot
	input.Apply(&updated)

	sg := saga.New("update project")
	var newImage string
	if image != nil {
		addUpload(sg, s.blobs, "upload image", *image, storage.BucketProjects, storage.FolderImages, &newImage)
	}
	newGallery := make([]string, len(gallery))
	for i := range gallery {
		addUpload(sg, s.blobs, "upload gallery", gallery[i], storage.BucketProjects, storage.FolderGallery, &newGallery[i])
	}
	sg.Add("update project",
		func(ctx context.Context) error {
			if image != nil {
				updated.ImagePath = &newImage
			}
			if len(newGallery) > 0 {
				updated.GalleryPaths = newGallery
			}
			return s.projects.Update(ctx, &updated)
		},
		func(ctx context.Context) error {
			return s.projects.Update(ctx, &snapshot)
		},
	)
	sg.Add("unlink technologies",
		func(ctx context.Context) error {
			return s.links.UnlinkAll(ctx, id)
		},
		func(ctx context.Context) error {
			if err := s.links.UnlinkAll(ctx, id); err != nil {
				return err
			}
			return s.links.Link(ctx, id, oldTechnologyIDs)
		},
	)
	sg.Add("link technologies",
		func(ctx context.Context) error {
			return s.links.Link(ctx, id, input.TechnologyIDs)
		},
		nil,
	)

	if err = sg.Run(ctx); err != nil {
		return ProjectView{}, err
	}

	if image != nil && deleteOldImage {
		deleteBestEffort(ctx, s.logger, s.blobs, storage.BucketProjects, deref(snapshot.ImagePath))
	}
	if len(newGallery) > 0 {
		deleteBestEffort(ctx, s.logger, s.blobs, storage.BucketProjects, snapshot.GalleryPaths...)
	}

	s.logger.Info().Str("projectID", id.String()).Msg("project updated")
	return s.Get(ctx, id)
}

// Delete removes the row, then its blobs on a best-effort basis.
func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer func() { metrics.RecordContentOperation("project", "delete", err) }()

	current, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err = s.projects.Delete(ctx, id); err != nil {
		return err
	}

	deleteBestEffort(ctx, s.logger, s.blobs, storage.BucketProjects, deref(current.ImagePath))
	deleteBestEffort(ctx, s.logger, s.blobs, storage.BucketProjects, current.GalleryPaths...)
	s.logger.Info().Str("projectID", id.String()).Msg("project deleted")
	return nil
}
