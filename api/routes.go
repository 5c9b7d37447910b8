package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const chatPath = "/chat"

// setupPublicRoutes registers what the public site reads anonymously.
func setupPublicRoutes(r chi.Router, handlers *routeHandlers) {
	r.Get("/projects", handlers.projectHandler.getAllProjects())
	r.Get("/project/{projectID}", handlers.projectHandler.getProject())
	r.Get("/technologies", handlers.technologyHandler.getAllTechnologies())
	r.Get("/technology/{technologyID}", handlers.technologyHandler.getTechnology())
	r.Get("/certificates", handlers.certificateHandler.getAllCertificates())
	r.Get("/certificate/{certificateID}", handlers.certificateHandler.getCertificate())
	r.Get("/profile", handlers.profileHandler.getProfile())
	r.Post("/contact", handlers.contactHandler.sendMessage())

	r.Post("/auth/sign-in", handlers.authHandler.signIn())
	r.Post("/auth/sign-out", handlers.authHandler.signOut())
}

// setupAdminRoutes registers the dashboard's write endpoints behind bearer auth.
func setupAdminRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authMiddleware.authenticate)

		r.Post("/project", handlers.projectHandler.createProject())
		r.Put("/project/{projectID}", handlers.projectHandler.updateProject())
		r.Delete("/project/{projectID}", handlers.projectHandler.deleteProject())

		r.Post("/technology", handlers.technologyHandler.createTechnology())
		r.Put("/technology/{technologyID}", handlers.technologyHandler.updateTechnology())
		r.Delete("/technology/{technologyID}", handlers.technologyHandler.deleteTechnology())

		r.Post("/certificate", handlers.certificateHandler.createCertificate())
		r.Put("/certificate/{certificateID}", handlers.certificateHandler.updateCertificate())
		r.Delete("/certificate/{certificateID}", handlers.certificateHandler.deleteCertificate())
	})
}

// setupChatRoutes registers the chat proxy; every response on it carries its
// own CORS headers.
func setupChatRoutes(r chi.Router, handlers *routeHandlers) {
	r.Route(chatPath, func(r chi.Router) {
		r.Use(chatCORS)
		r.MethodNotAllowed(handlers.chatHandler.methodNotAllowed())

		r.Options("/", handlers.chatHandler.preflight())
		r.Post("/", handlers.chatHandler.sendMessage())
	})
}

// setupOpsRoutes registers health and metrics.
func setupOpsRoutes(r chi.Router, handlers *routeHandlers) {
	r.Get("/healthz", handlers.healthHandler.health())
	r.Handle("/metrics", promhttp.Handler())
}
