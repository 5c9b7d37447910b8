package api

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/errs"
)

type profileHandler struct {
	responder Responder
	profile   *config.Profile
}

func newProfileHandler(profile *config.Profile) profileHandler {
	logger := log.With().Str("handlerName", "profileHandler").Logger()
	return profileHandler{
		responder: NewResponder(logger),
		profile:   profile,
	}
}

// @Summary Get owner profile
// @Tags Profile
// @Produce json
// @Success 200 {object} config.Profile "Profile and résumé content"
// @Router /profile [get]
func (h profileHandler) getProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.profile == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("profile not configured"))
			return
		}
		h.responder.WriteJSON(w, h.profile)
	}
}
