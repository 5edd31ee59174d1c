// Package api provides the HTTP demo surface for the AMAS engine: a
// thin JSON layer over Engine.ProcessEvent plus read-only user-state
// and strategy lookups.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vocabtutor/amas/internal/engine"
)

// Server is the AMAS HTTP API server.
type Server struct {
	engine         *engine.Engine
	configPath     string
	metricsEnabled bool
}

// NewServer constructs a Server bound to a running Engine. configPath is
// the TOML file reload-config re-reads on each admin request; empty
// disables the reload endpoint.
func NewServer(e *engine.Engine, configPath string) *Server {
	return &Server{engine: e, configPath: configPath}
}

// EnableMetrics turns on the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with every route mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/v1/users/{userID}", func(r chi.Router) {
		r.Post("/events", s.handleProcessEvent)
		r.Get("/state", s.handleGetState)
		r.Get("/strategy", s.handleGetStrategy)
		r.Delete("/cache", s.handleInvalidateCache)
	})

	r.Get("/v1/cache/stats", s.handleCacheStats)

	if s.configPath != "" {
		r.Post("/v1/admin/reload-config", s.handleReloadConfig)
	}

	return r
}
