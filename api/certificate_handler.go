package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/models"
)

type certificateHandler struct {
	responder      Responder
	logger         zerolog.Logger
	certificates   Certificates
	maxUploadBytes int64
}

func newCertificateHandler(certificates Certificates, maxUploadBytes int64) certificateHandler {
	logger := log.With().Str("handlerName", "certificateHandler").Logger()

	return certificateHandler{
		responder:      NewResponder(logger),
		logger:         logger,
		certificates:   certificates,
		maxUploadBytes: maxUploadBytes,
	}
}

// @Summary Get all certificates
// @Tags Certificates
// @Produce json
// @Success 200 {array} services.CertificateView "List of certificates"
// @Router /certificates [get]
func (h certificateHandler) getAllCertificates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		certificates, err := h.certificates.List(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, certificates)
	}
}

// @Summary Get certificate
// @Tags Certificates
// @Produce json
// @Param certificateID path string true "Certificate ID" format(uuid)
// @Success 200 {object} services.CertificateView "Certificate details"
// @Router /certificate/{certificateID} [get]
func (h certificateHandler) getCertificate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		certificateID, err := idParam(r, "certificateID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		certificate, err := h.certificates.Get(r.Context(), certificateID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, certificate)
	}
}

// @Summary Create certificate
// @Tags Certificates
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} services.CertificateView "Created certificate"
// @Router /admin/certificate [post]
func (h certificateHandler) createCertificate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input models.CertificateInput
		form, err := parseContentForm(w, r, h.maxUploadBytes, &input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer form.close()

		certificate, err := h.certificates.Create(r.Context(), input, form.image)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("admin", actor(r.Context())).Str("certificateID", certificate.ID.String()).Msg("certificate created")
		h.responder.WriteJSONStatus(w, http.StatusCreated, certificate)
	}
}

// @Summary Update certificate
// @Tags Certificates
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} services.CertificateView "Updated certificate"
// @Router /admin/certificate/{certificateID} [put]
func (h certificateHandler) updateCertificate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		certificateID, err := idParam(r, "certificateID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input models.CertificateInput
		form, err := parseContentForm(w, r, h.maxUploadBytes, &input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer form.close()

		certificate, err := h.certificates.Update(r.Context(), certificateID, input, form.image, form.deleteOldImage)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, certificate)
	}
}

// @Summary Delete certificate
// @Tags Certificates
// @Success 204 "Certificate deleted"
// @Router /admin/certificate/{certificateID} [delete]
func (h certificateHandler) deleteCertificate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		certificateID, err := idParam(r, "certificateID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.certificates.Delete(r.Context(), certificateID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
