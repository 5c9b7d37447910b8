package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/config"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

// NewServer builds the full portfolio API.
func NewServer(c map[string]string, deps Dependencies) (Server, error) {
	startupTime := time.Now()
	router := newRouter(deps,
		withAcceptedOrigins(config.GetList(c, "ACCEPTED_ORIGINS")),
		withStartupTime(startupTime),
		withConsoleLogging(config.GetString(c, "LOG_FORMAT", "console") == "console"),
	)
	return newHTTPServer(c, router, startupTime), nil
}

// NewChatServer builds a server exposing only the chat proxy and its probes.
func NewChatServer(c map[string]string, chat Chatter) (Server, error) {
	if chat == nil {
		return Server{}, fmt.Errorf("chat server needs a chat service")
	}
	startupTime := time.Now()
	handlers := &routeHandlers{
		chatHandler:   newChatHandler(chat),
		healthHandler: newHealthHandler(nil, startupTime),
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RealIP)
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(requestLogging(config.GetString(c, "LOG_FORMAT", "console") == "console"))
	setupChatRoutes(chiRouter, handlers)
	setupOpsRoutes(chiRouter, handlers)

	return newHTTPServer(c, chiRouter, startupTime), nil
}

func newHTTPServer(c map[string]string, handler http.Handler, startupTime time.Time) Server {
	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	server := &http.Server{
		Addr:         address,
		Handler:      handler,
		ReadTimeout:  config.GetSeconds(c, "READ_TIMEOUT_SECONDS", 180),
		WriteTimeout: config.GetSeconds(c, "WRITE_TIMEOUT_SECONDS", 180),
		IdleTimeout:  config.GetSeconds(c, "IDLE_TIMEOUT_SECONDS", 180),
	}
	return Server{server, startupTime}
}

type router struct {
	acceptedOrigins []string
	startupTime     time.Time
	consoleLogging  bool
}

func withAcceptedOrigins(origins []string) func(*router) {
	return func(r *router) {
		r.acceptedOrigins = origins
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func withConsoleLogging(enabled bool) func(*router) {
	return func(r *router) {
		r.consoleLogging = enabled
	}
}

func newRouter(deps Dependencies, opts ...func(*router)) *chi.Mux {
	router := router{startupTime: time.Now()}
	for _, opt := range opts {
		opt(&router)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RealIP)
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(requestLogging(router.consoleLogging))

	origins := router.acceptedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	chiRouter.Use(corsExcept(chatPath, cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	handlers := initializeHandlers(deps, router.startupTime)
	authMiddleware := newAuthMiddleware(deps.Auth)

	setupPublicRoutes(chiRouter, handlers)
	setupAdminRoutes(chiRouter, handlers, authMiddleware)
	setupChatRoutes(chiRouter, handlers)
	setupOpsRoutes(chiRouter, handlers)

	return chiRouter
}

// corsExcept applies the API's CORS policy to every path but skip, which
// answers its own preflight.
func corsExcept(skip string, opts cors.Options) func(http.Handler) http.Handler {
	withCORS := cors.Handler(opts)
	return func(next http.Handler) http.Handler {
		handler := withCORS(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == skip {
				next.ServeHTTP(w, r)
				return
			}
			handler.ServeHTTP(w, r)
		})
	}
}

func requestLogging(console bool) func(http.Handler) http.Handler {
	if console {
		return ColoredHTTPLoggingMiddleware
	}
	return JSONHTTPLoggingMiddleware
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
