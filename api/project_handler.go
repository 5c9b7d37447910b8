package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

type projectHandler struct {
	responder      Responder
	logger         zerolog.Logger
	projects       Projects
	maxUploadBytes int64
}

func newProjectHandler(projects Projects, maxUploadBytes int64) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:      NewResponder(logger),
		logger:         logger,
		projects:       projects,
		maxUploadBytes: maxUploadBytes,
	}
}

// getAllProjects retrieves all projects, newest first
// @Summary Get all projects
// @Description Retrieves all projects with resolved image, gallery and technology URLs
// @Tags Projects
// @Produce json
// @Success 200 {array} services.ProjectView "List of projects"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching projects"
// @Router /projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projects.List(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, projects)
	}
}

// getProject retrieves a specific project by ID
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} services.ProjectView "Project details"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := idParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.Get(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, project)
	}
}

// createProject creates a project with its image, gallery and technology links
// @Summary Create project
// @Tags Projects
// @Accept multipart/form-data
// @Produce json
// @Param data formData string true "Project input as JSON"
// @Param image formData file false "Cover image"
// @Param gallery formData file false "Gallery images (repeatable)"
// @Success 201 {object} services.ProjectView "Created project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid input or file"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Storage or database failure"
// @Router /admin/project [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input models.ProjectInput
		form, err := parseContentForm(w, r, h.maxUploadBytes, &input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer form.close()

		project, err := h.projects.Create(r.Context(), input, form.image, form.gallery)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("admin", actor(r.Context())).Str("projectID", project.ID.String()).Msg("project created")
		h.responder.WriteJSONStatus(w, http.StatusCreated, project)
	}
}

// updateProject replaces a project's fields, and its image or gallery when new files are sent
// @Summary Update project
// @Tags Projects
// @Accept multipart/form-data
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param data formData string true "Project input as JSON"
// @Param image formData file false "New cover image"
// @Param gallery formData file false "New gallery images (repeatable)"
// @Param delete_old_image formData bool false "Delete the previous image after replacing it"
// @Success 200 {object} services.ProjectView "Updated project"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /admin/project/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := idParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input models.ProjectInput
		form, err := parseContentForm(w, r, h.maxUploadBytes, &input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer form.close()

		project, err := h.projects.Update(r.Context(), projectID, input, form.image, form.deleteOldImage, form.gallery)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("admin", actor(r.Context())).Str("projectID", projectID.String()).Msg("project updated")
		h.responder.WriteJSON(w, project)
	}
}

// deleteProject deletes a project and its blobs
// @Summary Delete project
// @Tags Projects
// @Param projectID path string true "Project ID" format(uuid)
// @Success 204 "Project deleted"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /admin/project/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := idParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projects.Delete(r.Context(), projectID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("admin", actor(r.Context())).Str("projectID", projectID.String()).Msg("project deleted")
		w.WriteHeader(http.StatusNoContent)
	}
}

// idParam parses a UUID path parameter.
func idParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, errs.NewMissingRequiredFieldError(name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewInvalidFieldError(name, "must be a UUID")
	}
	return id, nil
}
