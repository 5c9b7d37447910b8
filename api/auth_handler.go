package api

import (
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/errs"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	auth      *Authenticator
	limiter   *LoginLimiter
}

func newAuthHandler(auth *Authenticator, limiter *LoginLimiter) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		auth:      auth,
		limiter:   limiter,
	}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// signIn exchanges the admin credentials for a bearer token
// @Summary Sign in
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body signInRequest true "Admin credentials"
// @Success 200 {object} signInResponse "Bearer token"
// @Failure 401 {object} ErrorResponse "Unauthorized - Wrong email or password"
// @Failure 429 {object} ErrorResponse "Too Many Requests - Sign-in temporarily blocked"
// @Failure 503 {object} ErrorResponse "Service Unavailable - Admin sign-in not configured"
// @Router /auth/sign-in [post]
func (h authHandler) signIn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.auth == nil {
			h.responder.WriteError(w, errs.NewServiceUnavailableError("admin authentication"))
			return
		}

		var req signInRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		ip := clientIP(r)
		token, expiresAt, err := h.attempt(ip, req)
		if err != nil {
			switch {
			case errs.IsTooManyAttemptsError(err):
				h.logger.Warn().Str("ip", ip).Msg("sign-in rate limited")
			case errs.IsInvalidCredentialsError(err):
				h.logger.Warn().Str("ip", ip).Msg("failed sign-in")
			}
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, signInResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresAt:   expiresAt,
		})
	}
}

// attempt runs one rate-limited sign-in for ip. Only wrong credentials count
// towards the limit.
func (h authHandler) attempt(ip string, req signInRequest) (string, time.Time, error) {
	if !h.limiter.Check(ip) {
		return "", time.Time{}, errs.NewTooManyAttemptsError(h.limiter.window)
	}

	token, expiresAt, err := h.auth.SignIn(req.Email, req.Password)
	if err != nil {
		if errs.IsInvalidCredentialsError(err) {
			h.limiter.Record(ip)
		}
		return "", time.Time{}, err
	}
	h.limiter.Reset(ip)
	return token, expiresAt, nil
}

// signOut revokes the presented token. It answers 200 whatever the token state.
// @Summary Sign out
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]string "Signed out"
// @Router /auth/sign-out [post]
func (h authHandler) signOut() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.auth != nil {
			claims, err := h.auth.Verify(bearerToken(r))
			if err != nil {
				h.logger.Debug().Err(err).Msg("sign-out with unusable token")
			} else {
				h.auth.Revoke(claims)
			}
		}
		h.responder.WriteJSON(w, map[string]string{"status": "signed out"})
	}
}

// clientIP is the request's remote host; chi's RealIP middleware has already
// applied any forwarding headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
