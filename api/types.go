package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rpupo63/portfolio-backend/storage"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler     projectHandler
	technologyHandler  technologyHandler
	certificateHandler certificateHandler
	profileHandler     profileHandler
	contactHandler     contactHandler
	chatHandler        chatHandler
	authHandler        authHandler
	healthHandler      healthHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// Projects is the project content service.
type Projects interface {
	List(ctx context.Context) ([]services.ProjectView, error)
	Get(ctx context.Context, id uuid.UUID) (services.ProjectView, error)
	Create(ctx context.Context, input models.ProjectInput, image *storage.File, gallery []storage.File) (services.ProjectView, error)
	Update(ctx context.Context, id uuid.UUID, input models.ProjectInput, image *storage.File, deleteOldImage bool, gallery []storage.File) (services.ProjectView, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Technologies is the technology content service.
type Technologies interface {
	List(ctx context.Context) ([]services.TechnologyView, error)
	Get(ctx context.Context, id uuid.UUID) (services.TechnologyView, error)
	Create(ctx context.Context, input models.TechnologyInput, image *storage.File) (services.TechnologyView, error)
	Update(ctx context.Context, id uuid.UUID, input models.TechnologyInput, image *storage.File, deleteOldImage bool) (services.TechnologyView, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Certificates is the certificate content service.
type Certificates interface {
	List(ctx context.Context) ([]services.CertificateView, error)
	Get(ctx context.Context, id uuid.UUID) (services.CertificateView, error)
	Create(ctx context.Context, input models.CertificateInput, image *storage.File) (services.CertificateView, error)
	Update(ctx context.Context, id uuid.UUID, input models.CertificateInput, image *storage.File, deleteOldImage bool) (services.CertificateView, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Chatter answers visitor chat messages.
type Chatter interface {
	CheckConfig() error
	Reply(ctx context.Context, req services.ChatRequest) (string, error)
}

// ContactRelay forwards contact form submissions.
type ContactRelay interface {
	Submit(ctx context.Context, form services.ContactForm) error
}

// HealthCheck is one dependency probed by /healthz.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Dependencies wires the services into the router.
type Dependencies struct {
	Projects       Projects
	Technologies   Technologies
	Certificates   Certificates
	Chat           Chatter
	Contact        ContactRelay
	Profile        *config.Profile
	Auth           *Authenticator
	HealthChecks   []HealthCheck
	MaxUploadBytes int64
}
