package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/models"
)

type technologyHandler struct {
	responder      Responder
	logger         zerolog.Logger
	technologies   Technologies
	maxUploadBytes int64
}

func newTechnologyHandler(technologies Technologies, maxUploadBytes int64) technologyHandler {
	logger := log.With().Str("handlerName", "technologyHandler").Logger()

	return technologyHandler{
		responder:      NewResponder(logger),
		logger:         logger,
		technologies:   technologies,
		maxUploadBytes: maxUploadBytes,
	}
}

// getAllTechnologies retrieves all technologies ordered by name
// @Summary Get all technologies
// @Tags Technologies
// @Produce json
// @Success 200 {array} services.TechnologyView "List of technologies"
// @Router /technologies [get]
func (h technologyHandler) getAllTechnologies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		technologies, err := h.technologies.List(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, technologies)
	}
}

// getTechnology retrieves a technology by ID
// @Summary Get technology
// @Tags Technologies
// @Produce json
// @Param technologyID path string true "Technology ID" format(uuid)
// @Success 200 {object} services.TechnologyView "Technology details"
// @Failure 404 {object} ErrorResponse "Not Found - Technology not found"
// @Router /technology/{technologyID} [get]
func (h technologyHandler) getTechnology() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		technologyID, err := idParam(r, "technologyID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		technology, err := h.technologies.Get(r.Context(), technologyID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, technology)
	}
}

// createTechnology creates a technology with an optional logo
// @Summary Create technology
// @Tags Technologies
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} services.TechnologyView "Created technology"
// @Failure 409 {object} ErrorResponse "Conflict - Name already used"
// @Router /admin/technology [post]
func (h technologyHandler) createTechnology() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input models.TechnologyInput
		form, err := parseContentForm(w, r, h.maxUploadBytes, &input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer form.close()

		technology, err := h.technologies.Create(r.Context(), input, form.image)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("admin", actor(r.Context())).Str("technologyID", technology.ID.String()).Msg("technology created")
		h.responder.WriteJSONStatus(w, http.StatusCreated, technology)
	}
}

// updateTechnology updates a technology
// @Summary Update technology
// @Tags Technologies
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} services.TechnologyView "Updated technology"
// @Router /admin/technology/{technologyID} [put]
func (h technologyHandler) updateTechnology() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		technologyID, err := idParam(r, "technologyID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input models.TechnologyInput
		form, err := parseContentForm(w, r, h.maxUploadBytes, &input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer form.close()

		technology, err := h.technologies.Update(r.Context(), technologyID, input, form.image, form.deleteOldImage)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, technology)
	}
}

// deleteTechnology deletes a technology; its project links cascade
// @Summary Delete technology
// @Tags Technologies
// @Success 204 "Technology deleted"
// @Router /admin/technology/{technologyID} [delete]
func (h technologyHandler) deleteTechnology() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		technologyID, err := idParam(r, "technologyID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.technologies.Delete(r.Context(), technologyID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
