package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const healthTimeout = 5 * time.Second

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	checks      []HealthCheck
	startupTime time.Time
}

func newHealthHandler(checks []HealthCheck, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()
	return healthHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		checks:      checks,
		startupTime: startupTime,
	}
}

type healthResponse struct {
	Status string            `json:"status"`
	Uptime string            `json:"uptime"`
	Checks map[string]string `json:"checks"`
}

// @Summary Health check
// @Description Pings the database and every storage bucket concurrently
// @Tags Health
// @Produce json
// @Success 200 {object} healthResponse "All dependencies reachable"
// @Failure 503 {object} healthResponse "At least one dependency failed"
// @Router /healthz [get]
func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		var mu sync.Mutex
		results := make(map[string]string, len(h.checks))

		// Checks run to completion so the response names every failure.
		var g errgroup.Group
		for _, check := range h.checks {
			g.Go(func() error {
				err := check.Check(ctx)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					results[check.Name] = err.Error()
					return err
				}
				results[check.Name] = "ok"
				return nil
			})
		}

		resp := healthResponse{
			Status: "ok",
			Uptime: time.Since(h.startupTime).Round(time.Second).String(),
			Checks: results,
		}
		if err := g.Wait(); err != nil {
			h.logger.Warn().Err(err).Msg("health check failed")
			resp.Status = "degraded"
			h.responder.WriteJSONStatus(w, http.StatusServiceUnavailable, resp)
			return
		}
		h.responder.WriteJSON(w, resp)
	}
}
