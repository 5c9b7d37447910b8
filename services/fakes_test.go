package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/storage"
)

const publicBase = "https://abc.supabase.co"

// fakeDB is an in-memory stand-in for the three content tables and the link table.
type fakeDB struct {
	mu           sync.Mutex
	clock        time.Time
	projects     map[uuid.UUID]models.Project
	technologies map[uuid.UUID]models.Technology
	certificates map[uuid.UUID]models.Certificate
	links        map[uuid.UUID][]uuid.UUID

	addErr    error
	updateErr error
	linkErr   error
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		clock:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		projects:     make(map[uuid.UUID]models.Project),
		technologies: make(map[uuid.UUID]models.Technology),
		certificates: make(map[uuid.UUID]models.Certificate),
		links:        make(map[uuid.UUID][]uuid.UUID),
	}
}

func (f *fakeDB) tick() time.Time {
	f.clock = f.clock.Add(time.Minute)
	return f.clock
}

type fakeProjects struct{ *fakeDB }

func (f fakeProjects) withTechnologies(p models.Project) *models.Project {
	p.Technologies = nil
	for _, id := range f.links[p.ID] {
		if t, ok := f.technologies[id]; ok {
			p.Technologies = append(p.Technologies, t)
		}
	}
	sort.Slice(p.Technologies, func(i, j int) bool { return p.Technologies[i].Name < p.Technologies[j].Name })
	return &p
}

func (f fakeProjects) FindAll(context.Context) ([]*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Project
	for _, p := range f.projects {
		out = append(out, f.withTechnologies(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f fakeProjects) FindByID(_ context.Context, id uuid.UUID) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	if !ok {
		return nil, errs.NewNotFound("project")
	}
	return f.withTechnologies(p), nil
}

func (f fakeProjects) Add(_ context.Context, p *models.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	p.CreatedAt = f.tick()
	row := *p
	row.Technologies = nil
	f.projects[p.ID] = row
	return nil
}

func (f fakeProjects) Update(_ context.Context, p *models.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.projects[p.ID]; !ok {
		return errs.NewNotFound("project")
	}
	row := *p
	row.Technologies = nil
	f.projects[p.ID] = row
	return nil
}

func (f fakeProjects) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.projects[id]; !ok {
		return errs.NewNotFound("project")
	}
	delete(f.projects, id)
	delete(f.links, id)
	return nil
}

type fakeLinks struct{ *fakeDB }

func (f fakeLinks) Link(_ context.Context, projectID uuid.UUID, technologyIDs []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.linkErr != nil {
		return f.linkErr
	}
	for _, id := range technologyIDs {
		if _, ok := f.technologies[id]; !ok {
			return errs.NewDatabaseError("link", "project technology", errFK)
		}
	}
	f.links[projectID] = append(f.links[projectID], technologyIDs...)
	return nil
}

func (f fakeLinks) UnlinkAll(_ context.Context, projectID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.links, projectID)
	return nil
}

type fakeTechnologies struct{ *fakeDB }

func (f fakeTechnologies) FindAll(context.Context) ([]*models.Technology, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Technology
	for _, t := range f.technologies {
		t := t
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f fakeTechnologies) FindByID(_ context.Context, id uuid.UUID) (*models.Technology, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.technologies[id]
	if !ok {
		return nil, errs.NewNotFound("technology")
	}
	return &t, nil
}

func (f fakeTechnologies) Add(_ context.Context, t *models.Technology) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	t.CreatedAt = f.tick()
	f.technologies[t.ID] = *t
	return nil
}

func (f fakeTechnologies) Update(_ context.Context, t *models.Technology) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.technologies[t.ID] = *t
	return nil
}

func (f fakeTechnologies) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.technologies[id]; !ok {
		return errs.NewNotFound("technology")
	}
	delete(f.technologies, id)
	for projectID, ids := range f.links {
		kept := ids[:0]
		for _, techID := range ids {
			if techID != id {
				kept = append(kept, techID)
			}
		}
		f.links[projectID] = kept
	}
	return nil
}

type fakeCertificates struct{ *fakeDB }

func (f fakeCertificates) FindAll(context.Context) ([]*models.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Certificate
	for _, c := range f.certificates {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f fakeCertificates) FindByID(_ context.Context, id uuid.UUID) (*models.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.certificates[id]
	if !ok {
		return nil, errs.NewNotFound("certificate")
	}
	return &c, nil
}

func (f fakeCertificates) Add(_ context.Context, c *models.Certificate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	c.CreatedAt = f.tick()
	f.certificates[c.ID] = *c
	return nil
}

func (f fakeCertificates) Update(_ context.Context, c *models.Certificate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.certificates[c.ID] = *c
	return nil
}

func (f fakeCertificates) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.certificates[id]; !ok {
		return errs.NewNotFound("certificate")
	}
	delete(f.certificates, id)
	return nil
}

type fixture struct {
	db           *fakeDB
	store        *storage.MemoryStore
	gateway      *storage.Gateway
	projects     *ProjectService
	technologies *TechnologyService
	certificates *CertificateService
}

func newFixture() *fixture {
	db := newFakeDB()
	store := storage.NewMemoryStore(storage.Buckets()...)
	gateway := storage.NewGateway(store, publicBase, 0)
	return &fixture{
		db:           db,
		store:        store,
		gateway:      gateway,
		projects:     NewProjectService(fakeProjects{db}, fakeLinks{db}, gateway),
		technologies: NewTechnologyService(fakeTechnologies{db}, gateway),
		certificates: NewCertificateService(fakeCertificates{db}, gateway),
	}
}

func pngFile(t *testing.T, name string) *storage.File {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &storage.File{Name: name, ContentType: "image/png", Content: &buf}
}

type fkError struct{}

func (fkError) Error() string {
	return "violates foreign key constraint \"projects_technologies_technology_id_fkey\""
}

var errFK = fkError{}
