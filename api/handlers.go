package api

import (
	"time"
)

const (
	signInAttempts = 5
	signInWindow   = 15 * time.Minute
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		projectHandler:     newProjectHandler(deps.Projects, deps.MaxUploadBytes),
		technologyHandler:  newTechnologyHandler(deps.Technologies, deps.MaxUploadBytes),
		certificateHandler: newCertificateHandler(deps.Certificates, deps.MaxUploadBytes),
		profileHandler:     newProfileHandler(deps.Profile),
		contactHandler:     newContactHandler(deps.Contact),
		chatHandler:        newChatHandler(deps.Chat),
		authHandler:        newAuthHandler(deps.Auth, NewLoginLimiter(signInAttempts, signInWindow)),
		healthHandler:      newHealthHandler(deps.HealthChecks, startupTime),
	}
}
