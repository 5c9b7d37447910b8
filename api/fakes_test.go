package api

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rpupo63/portfolio-backend/storage"
)

const (
	testAdminEmail = "owner@example.com"
	testPassword   = "correct horse battery staple"
)

type uploaded struct {
	name        string
	contentType string
	body        string
}

func readFile(t *testing.T, f storage.File) uploaded {
	t.Helper()
	body, err := io.ReadAll(f.Content)
	require.NoError(t, err)
	return uploaded{name: f.Name, contentType: f.ContentType, body: string(body)}
}

type fakeProjects struct {
	t        *testing.T
	projects map[uuid.UUID]services.ProjectView

	lastInput      models.ProjectInput
	lastImage      *uploaded
	lastGallery    []uploaded
	deleteOldImage bool
}

func newFakeProjects(t *testing.T) *fakeProjects {
	return &fakeProjects{t: t, projects: map[uuid.UUID]services.ProjectView{}}
}

func (f *fakeProjects) List(context.Context) ([]services.ProjectView, error) {
	out := make([]services.ProjectView, 0, len(f.projects))
	for _, p := range f.projects {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProjects) Get(_ context.Context, id uuid.UUID) (services.ProjectView, error) {
	p, ok := f.projects[id]
	if !ok {
		return services.ProjectView{}, errs.NewNotFound("project")
	}
	return p, nil
}

func (f *fakeProjects) record(input models.ProjectInput, image *storage.File, gallery []storage.File) {
	f.lastInput = input
	f.lastImage = nil
	f.lastGallery = nil
	if image != nil {
		u := readFile(f.t, *image)
		f.lastImage = &u
	}
	for _, g := range gallery {
		f.lastGallery = append(f.lastGallery, readFile(f.t, g))
	}
}

func (f *fakeProjects) Create(_ context.Context, input models.ProjectInput, image *storage.File, gallery []storage.File) (services.ProjectView, error) {
	f.record(input, image, gallery)
	validated, err := input.Validate()
	if err != nil {
		return services.ProjectView{}, err
	}
	p := models.Project{ID: uuid.New()}
	validated.Apply(&p)
	view := services.ProjectView{Project: p}
	f.projects[p.ID] = view
	return view, nil
}

func (f *fakeProjects) Update(ctx context.Context, id uuid.UUID, input models.ProjectInput, image *storage.File, deleteOldImage bool, gallery []storage.File) (services.ProjectView, error) {
	f.record(input, image, gallery)
	f.deleteOldImage = deleteOldImage
	view, err := f.Get(ctx, id)
	if err != nil {
		return services.ProjectView{}, err
	}
	input.Apply(&view.Project)
	f.projects[id] = view
	return view, nil
}

func (f *fakeProjects) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := f.Get(ctx, id); err != nil {
		return err
	}
	delete(f.projects, id)
	return nil
}

type fakeTechnologies struct{}

func (fakeTechnologies) List(context.Context) ([]services.TechnologyView, error) {
	return []services.TechnologyView{}, nil
}

func (fakeTechnologies) Get(context.Context, uuid.UUID) (services.TechnologyView, error) {
	return services.TechnologyView{}, errs.NewNotFound("technology")
}

func (fakeTechnologies) Create(_ context.Context, input models.TechnologyInput, _ *storage.File) (services.TechnologyView, error) {
	t := models.Technology{ID: uuid.New()}
	input.Apply(&t)
	return services.TechnologyView{Technology: t}, nil
}

func (fakeTechnologies) Update(context.Context, uuid.UUID, models.TechnologyInput, *storage.File, bool) (services.TechnologyView, error) {
	return services.TechnologyView{}, errs.NewNotFound("technology")
}

func (fakeTechnologies) Delete(context.Context, uuid.UUID) error { return nil }

type fakeCertificates struct{}

func (fakeCertificates) List(context.Context) ([]services.CertificateView, error) {
	return []services.CertificateView{}, nil
}

func (fakeCertificates) Get(context.Context, uuid.UUID) (services.CertificateView, error) {
	return services.CertificateView{}, errs.NewNotFound("certificate")
}

func (fakeCertificates) Create(context.Context, models.CertificateInput, *storage.File) (services.CertificateView, error) {
	return services.CertificateView{}, nil
}

func (fakeCertificates) Update(context.Context, uuid.UUID, models.CertificateInput, *storage.File, bool) (services.CertificateView, error) {
	return services.CertificateView{}, nil
}

func (fakeCertificates) Delete(context.Context, uuid.UUID) error { return nil }

type fakeContact struct {
	err  error
	sent []services.ContactForm
}

func (f *fakeContact) Submit(_ context.Context, form services.ContactForm) error {
	if _, err := form.Validate(); err != nil {
		return err
	}
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, form)
	return nil
}

func newTestAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthenticator(AuthConfig{
		Secret:       "test-secret",
		AdminEmail:   testAdminEmail,
		PasswordHash: string(hash),
		TTL:          time.Hour,
	})
}

type testEnv struct {
	deps     Dependencies
	projects *fakeProjects
	contact  *fakeContact
}

func newTestEnv(t *testing.T, chat Chatter) testEnv {
	t.Helper()
	projects := newFakeProjects(t)
	contact := &fakeContact{}
	if chat == nil {
		chat = services.NewChatService(services.ChatConfig{}, "")
	}
	return testEnv{
		projects: projects,
		contact:  contact,
		deps: Dependencies{
			Projects:     projects,
			Technologies: fakeTechnologies{},
			Certificates: fakeCertificates{},
			Chat:         chat,
			Contact:      contact,
			Profile:      &config.Profile{Name: "Ada Lovelace", Headline: "Engineer"},
			Auth:         newTestAuthenticator(t),
		},
	}
}
