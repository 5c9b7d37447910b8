package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/storage"
)

func seedTechnology(t *testing.T, f *fixture, name string) TechnologyView {
	t.Helper()
	view, err := f.technologies.Create(context.Background(), models.TechnologyInput{Name: name}, pngFile(t, name+".png"))
	require.NoError(t, err)
	return view
}

func projectInput(technologyIDs ...uuid.UUID) models.ProjectInput {
	return models.ProjectInput{
		Title:         "Portfolio",
		Description:   "Personal site with an admin dashboard",
		Features:      []string{"auth", "uploads"},
		Category:      models.CategoryFullstack,
		TechnologyIDs: technologyIDs,
	}
}

func TestProjectCreateResolvesView(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	goTech := seedTechnology(t, f, "Go")
	react := seedTechnology(t, f, "React")

	view, err := f.projects.Create(ctx, projectInput(react.ID, goTech.ID), pngFile(t, "cover.png"),
		[]storage.File{*pngFile(t, "one.png"), *pngFile(t, "two.png")})
	require.NoError(t, err)

	require.NotNil(t, view.ImagePath)
	require.NotNil(t, view.ImageURL)
	assert.Equal(t, publicBase+"/storage/v1/object/public/projects/"+*view.ImagePath, *view.ImageURL)
	assert.True(t, f.store.Has(storage.BucketProjects, *view.ImagePath))

	require.Len(t, view.GalleryPaths, 2)
	assert.Len(t, view.GalleryURLs, 2)
	for _, path := range view.GalleryPaths {
		assert.True(t, f.store.Has(storage.BucketProjects, path))
	}

	assert.Equal(t, []string{"Go", "React"}, view.TechnologiesNames)
	require.Len(t, view.Technologies, 2)
	assert.NotNil(t, view.Technologies[0].ImageURL)
}

func TestProjectGetURLIsDeterministic(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.projects.Create(ctx, projectInput(), pngFile(t, "cover.png"), nil)
	require.NoError(t, err)

	first, err := f.projects.Get(ctx, created.ID)
	require.NoError(t, err)
	second, err := f.projects.Get(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, *created.ImageURL, *first.ImageURL)
	assert.Equal(t, *first.ImageURL, *second.ImageURL)
	assert.Equal(t, f.gateway.PublicURL(storage.BucketProjects, first.ImagePath), first.ImageURL)
}

func TestProjectDeleteRemovesRowAndBlobs(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.projects.Create(ctx, projectInput(), pngFile(t, "cover.png"), []storage.File{*pngFile(t, "g.png")})
	require.NoError(t, err)

	require.NoError(t, f.projects.Delete(ctx, created.ID))

	_, err = f.projects.Get(ctx, created.ID)
	assert.True(t, errs.IsNotFound(err))
	assert.Equal(t, 0, f.store.Count(storage.BucketProjects))
}

func TestProjectDeleteMissing(t *testing.T) {
	f := newFixture()
	err := f.projects.Delete(context.Background(), uuid.New())
	assert.True(t, errs.IsNotFound(err))
}

func TestProjectDeleteSurvivesBlobFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.projects.Create(ctx, projectInput(), pngFile(t, "cover.png"), nil)
	require.NoError(t, err)

	f.store.RemoveHook = func(string, string) error { return errors.New("storage down") }
	require.NoError(t, f.projects.Delete(ctx, created.ID))

	_, err = f.projects.Get(ctx, created.ID)
	assert.True(t, errs.IsNotFound(err))
}

func TestProjectCreateInsertFailureLeavesNoBlob(t *testing.T) {
	f := newFixture()
	insertErr := errs.NewDatabaseError("create", "project", errors.New("connection refused"))
	f.db.addErr = insertErr

	_, err := f.projects.Create(context.Background(), projectInput(), pngFile(t, "cover.png"),
		[]storage.File{*pngFile(t, "a.png"), *pngFile(t, "b.png")})

	assert.Same(t, insertErr, err)
	assert.Equal(t, 0, f.store.Count(storage.BucketProjects))
	assert.Empty(t, f.db.projects)
}

func TestProjectCreateLinkFailureLeavesNoRowOrBlob(t *testing.T) {
	f := newFixture()

	_, err := f.projects.Create(context.Background(), projectInput(uuid.New()), pngFile(t, "cover.png"), nil)

	require.Error(t, err)
	assert.True(t, errs.IsForeignKeyConstraintError(err))
	assert.Empty(t, f.db.projects)
	assert.Empty(t, f.db.links)
	assert.Equal(t, 0, f.store.Count(storage.BucketProjects))
}

func TestProjectCreateGalleryFailureUnwindsEarlierUploads(t *testing.T) {
	f := newFixture()
	uploads := 0
	f.store.PutHook = func(string, string) error {
		uploads++
		if uploads == 3 {
			return errors.New("quota exceeded")
		}
		return nil
	}

	_, err := f.projects.Create(context.Background(), projectInput(), pngFile(t, "cover.png"),
		[]storage.File{*pngFile(t, "a.png"), *pngFile(t, "b.png")})

	assert.True(t, errs.IsStorageError(err))
	assert.Equal(t, 0, f.store.Count(storage.BucketProjects))
	assert.Empty(t, f.db.projects)
}

func TestProjectCreateCompensationFailureKeepsOriginalError(t *testing.T) {
	f := newFixture()
	insertErr := errors.New("insert failed")
	f.db.addErr = insertErr
	f.store.RemoveHook = func(string, string) error { return errors.New("delete failed") }

	_, err := f.projects.Create(context.Background(), projectInput(), pngFile(t, "cover.png"), nil)
	assert.Same(t, insertErr, err)
}

func TestProjectCreateValidationFailsBeforeUpload(t *testing.T) {
	f := newFixture()
	in := projectInput()
	in.Title = " "

	_, err := f.projects.Create(context.Background(), in, pngFile(t, "cover.png"), nil)
	assert.True(t, errs.IsMissingRequiredFieldError(err))
	assert.Equal(t, 0, f.store.Count(storage.BucketProjects))
}

func TestProjectUpdateKeepsOldImageByDefault(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.projects.Create(ctx, projectInput(), pngFile(t, "old.png"), nil)
	require.NoError(t, err)
	oldPath := *created.ImagePath

	in := projectInput()
	in.Title = "Portfolio v2"
	updated, err := f.projects.Update(ctx, created.ID, in, pngFile(t, "new.png"), false, nil)
	require.NoError(t, err)

	assert.Equal(t, "Portfolio v2", updated.Title)
	assert.NotEqual(t, oldPath, *updated.ImagePath)
	assert.True(t, f.store.Has(storage.BucketProjects, oldPath))
	assert.True(t, f.store.Has(storage.BucketProjects, *updated.ImagePath))
	assert.NotNil(t, f.gateway.PublicURL(storage.BucketProjects, &oldPath))
}

func TestProjectUpdateDeletesOldImageWhenAsked(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.projects.Create(ctx, projectInput(), pngFile(t, "old.png"), nil)
	require.NoError(t, err)
	oldPath := *created.ImagePath

	updated, err := f.projects.Update(ctx, created.ID, projectInput(), pngFile(t, "new.png"), true, nil)
	require.NoError(t, err)

	assert.False(t, f.store.Has(storage.BucketProjects, oldPath))
	assert.True(t, f.store.Has(storage.BucketProjects, *updated.ImagePath))
}

func TestProjectUpdateWithoutImageIgnoresDeleteFlag(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.projects.Create(ctx, projectInput(), pngFile(t, "old.png"), nil)
	require.NoError(t, err)

	updated, err := f.projects.Update(ctx, created.ID, projectInput(), nil, true, nil)
	require.NoError(t, err)

	assert.Equal(t, *created.ImagePath, *updated.ImagePath)
	assert.True(t, f.store.Has(storage.BucketProjects, *created.ImagePath))
}

func TestProjectUpdateReplacesGallery(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.projects.Create(ctx, projectInput(), nil, []storage.File{*pngFile(t, "a.png"), *pngFile(t, "b.png")})
	require.NoError(t, err)

	updated, err := f.projects.Update(ctx, created.ID, projectInput(), nil, false, []storage.File{*pngFile(t, "c.png")})
	require.NoError(t, err)

	require.Len(t, updated.GalleryPaths, 1)
	for _, old := range created.GalleryPaths {
		assert.False(t, f.store.Has(storage.BucketProjects, old))
	}
	assert.True(t, f.store.Has(storage.BucketProjects, updated.GalleryPaths[0]))

	kept, err := f.projects.Update(ctx, created.ID, projectInput(), nil, false, nil)
	require.NoError(t, err)
	assert.Equal(t, []string(updated.GalleryPaths), []string(kept.GalleryPaths))
}

func TestProjectUpdateReplacesTechnologies(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	goTech := seedTechnology(t, f, "Go")
	python := seedTechnology(t, f, "Python")

	created, err := f.projects.Create(ctx, projectInput(goTech.ID), nil, nil)
	require.NoError(t, err)

	updated, err := f.projects.Update(ctx, created.ID, projectInput(python.ID), nil, false, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Python"}, updated.TechnologiesNames)
}

func TestProjectUpdateFailureRestoresState(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	goTech := seedTechnology(t, f, "Go")

	created, err := f.projects.Create(ctx, projectInput(goTech.ID), pngFile(t, "old.png"), nil)
	require.NoError(t, err)
	blobsBefore := f.store.Count(storage.BucketProjects)

	in := projectInput(uuid.New())
	in.Title = "Should not stick"
	_, err = f.projects.Update(ctx, created.ID, in, pngFile(t, "new.png"), true, nil)
	require.Error(t, err)

	current, err := f.projects.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Portfolio", current.Title)
	assert.Equal(t, *created.ImagePath, *current.ImagePath)
	assert.Equal(t, []string{"Go"}, current.TechnologiesNames)
	assert.Equal(t, blobsBefore, f.store.Count(storage.BucketProjects))
}

func TestProjectUpdateMissing(t *testing.T) {
	f := newFixture()
	_, err := f.projects.Update(context.Background(), uuid.New(), projectInput(), pngFile(t, "x.png"), false, nil)
	assert.True(t, errs.IsNotFound(err))
	assert.Equal(t, 0, f.store.Count(storage.BucketProjects))
}

func TestProjectListNewestFirst(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first := projectInput()
	first.Title = "First"
	second := projectInput()
	second.Title = "Second"

	_, err := f.projects.Create(ctx, first, nil, nil)
	require.NoError(t, err)
	_, err = f.projects.Create(ctx, second, nil, nil)
	require.NoError(t, err)

	views, err := f.projects.List(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Second", views[0].Title)
	assert.Nil(t, views[0].ImageURL)
	assert.Empty(t, views[0].GalleryURLs)
}
