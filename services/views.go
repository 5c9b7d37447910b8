package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/saga"
	"github.com/rpupo63/portfolio-backend/storage"
)

// Blobs is the part of storage.Gateway the content services use.
type Blobs interface {
	Upload(ctx context.Context, file storage.File, bucket, folder string) (string, error)
	Delete(ctx context.Context, bucket, path string) error
	PublicURL(bucket string, path *string) *string
	PublicURLs(bucket string, paths []string) []string
}

type TechnologyView struct {
	models.Technology
	ImageURL *string `json:"image_url"`
}

type ProjectView struct {
	models.Project
	ImageURL          *string          `json:"image_url"`
	GalleryURLs       []string         `json:"gallery_urls"`
	Technologies      []TechnologyView `json:"technologies"`
	TechnologiesNames []string         `json:"technologies_names"`
}

type CertificateView struct {
	models.Certificate
	ImageURL *string `json:"image_url"`
}

func technologyView(blobs Blobs, t *models.Technology) TechnologyView {
	return TechnologyView{
		Technology: *t,
		ImageURL:   blobs.PublicURL(storage.BucketTechnologies, t.ImagePath),
	}
}

func projectView(blobs Blobs, p *models.Project) ProjectView {
	view := ProjectView{
		Project:           *p,
		ImageURL:          blobs.PublicURL(storage.BucketProjects, p.ImagePath),
		GalleryURLs:       blobs.PublicURLs(storage.BucketProjects, p.GalleryPaths),
		Technologies:      make([]TechnologyView, 0, len(p.Technologies)),
		TechnologiesNames: make([]string, 0, len(p.Technologies)),
	}
	for i := range p.Technologies {
		view.Technologies = append(view.Technologies, technologyView(blobs, &p.Technologies[i]))
		view.TechnologiesNames = append(view.TechnologiesNames, p.Technologies[i].Name)
	}
	view.Project.Technologies = nil
	return view
}

func certificateView(blobs Blobs, c *models.Certificate) CertificateView {
	return CertificateView{
		Certificate: *c,
		ImageURL:    blobs.PublicURL(storage.BucketCertificates, c.ImagePath),
	}
}

// addUpload adds a step that uploads file and stores the new path in *dst.
// The compensation removes the uploaded blob.
func addUpload(sg *saga.Saga, blobs Blobs, name string, file storage.File, bucket, folder string, dst *string) {
	sg.Add(name,
		func(ctx context.Context) error {
			path, err := blobs.Upload(ctx, file, bucket, folder)
			if err != nil {
				return err
			}
			*dst = path
			return nil
		},
		func(ctx context.Context) error {
			return blobs.Delete(ctx, bucket, *dst)
		},
	)
}

// deleteBestEffort removes paths after a committed change. Failures are logged only.
func deleteBestEffort(ctx context.Context, logger zerolog.Logger, blobs Blobs, bucket string, paths ...string) {
	ctx = context.WithoutCancel(ctx)
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := blobs.Delete(ctx, bucket, path); err != nil {
			logger.Warn().Err(err).Str("bucket", bucket).Str("path", path).Msg("failed to delete blob")
		}
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
