package api

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/services"
)

const (
	contactSent    = "Message sent successfully!"
	contactInvalid = "Please fill in your name, a valid email and a message."
	contactFailed  = "Something went wrong. Please try again later."
)

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	contact   ContactRelay
}

func newContactHandler(contact ContactRelay) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()
	return contactHandler{
		responder: NewResponder(logger),
		logger:    logger,
		contact:   contact,
	}
}

// sendMessage relays a visitor message. The site shows the reply text as is.
// @Summary Send contact message
// @Tags Contact
// @Accept json
// @Produce plain
// @Success 200 {string} string "Message sent successfully!"
// @Failure 400 {string} string "Validation failure text"
// @Failure 502 {string} string "Relay failure text"
// @Router /contact [post]
func (h contactHandler) sendMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form services.ContactForm
		if err := decodeJSON(w, r, &form); err != nil {
			h.responder.WriteText(w, http.StatusBadRequest, contactInvalid)
			return
		}

		err := h.contact.Submit(r.Context(), form)
		switch {
		case err == nil:
			h.responder.WriteText(w, http.StatusOK, contactSent)
		case errs.IsMissingRequiredFieldError(err) || errs.IsInvalidFieldError(err):
			h.responder.WriteText(w, http.StatusBadRequest, contactInvalid)
		default:
			status := http.StatusBadGateway
			var apiErr *errs.ApiErr
			if errors.As(err, &apiErr) && apiErr.StatusCode >= http.StatusInternalServerError {
				status = apiErr.StatusCode
			}
			h.logger.Error().Err(err).Msg("contact relay failed")
			h.responder.WriteText(w, status, contactFailed)
		}
	}
}
