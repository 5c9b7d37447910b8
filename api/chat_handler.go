package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/services"
)

type chatHandler struct {
	responder Responder
	logger    zerolog.Logger
	chat      Chatter
}

func newChatHandler(chat Chatter) chatHandler {
	logger := log.With().Str("handlerName", "chatHandler").Logger()
	return chatHandler{
		responder: NewResponder(logger),
		logger:    logger,
		chat:      chat,
	}
}

type chatReply struct {
	Reply string `json:"reply"`
}

type chatError struct {
	Error   string `json:"error"`
	Status  int    `json:"status,omitempty"`
	Details string `json:"details,omitempty"`
}

// preflight answers CORS preflight for the chat endpoint.
// @Router /chat [options]
func (h chatHandler) preflight() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteText(w, http.StatusOK, "ok")
	}
}

// methodNotAllowed rejects anything but POST and OPTIONS on the chat endpoint.
func (h chatHandler) methodNotAllowed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", "POST, OPTIONS")
		h.responder.WriteJSONStatus(w, http.StatusMethodNotAllowed, chatError{Error: "method not allowed"})
	}
}

// sendMessage forwards one visitor message to the model.
// Every failure is a 500 with an {error} body; upstream failures add the
// provider status and raw body.
// @Summary Chat with the portfolio assistant
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body services.ChatRequest true "Message and history"
// @Success 200 {object} chatReply "Model reply"
// @Failure 500 {object} chatError "Configuration, upstream or parse failure"
// @Router /chat [post]
func (h chatHandler) sendMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.chat.CheckConfig(); err != nil {
			h.logger.Error().Err(err).Msg("chat is not configured")
			h.responder.WriteJSONStatus(w, http.StatusInternalServerError, chatError{Error: err.Error()})
			return
		}

		var req services.ChatRequest
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteJSONStatus(w, http.StatusInternalServerError, chatError{Error: err.Error()})
			return
		}

		reply, err := h.chat.Reply(r.Context(), req)
		if err != nil {
			var upstream *errs.UpstreamErr
			if errors.As(err, &upstream) {
				h.responder.WriteJSONStatus(w, http.StatusInternalServerError, chatError{
					Error:   "Gemini API error",
					Status:  upstream.UpstreamStatus,
					Details: upstream.Body,
				})
				return
			}
			h.logger.Error().Err(err).Msg("chat request failed")
			h.responder.WriteJSONStatus(w, http.StatusInternalServerError, chatError{Error: err.Error()})
			return
		}

		h.responder.WriteJSON(w, chatReply{Reply: reply})
	}
}
