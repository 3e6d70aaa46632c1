// Package api serves conversions over HTTP
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/v0rails/v0rails/internal/config"
	"github.com/v0rails/v0rails/internal/converter"
	"github.com/v0rails/v0rails/internal/emitter"
)

// Server represents the API server
type Server struct {
	cfg    *config.Config
	opts   converter.Options
	logger zerolog.Logger
	router *chi.Mux
}

// NewServer creates a new API server
func NewServer(logger zerolog.Logger, cfg *config.Config) (*Server, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:    cfg,
		opts:   converter.FromConfig(cfg),
		logger: logger,
		router: chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// Router returns the HTTP router
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(corsMiddleware)
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.healthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/convert", s.convert)
		r.Get("/emitters", s.listEmitters)
	})
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// EmitterInfo describes one artifact generator
type EmitterInfo struct {
	Name      string `json:"name"`
	Language  string `json:"language"`
	Extension string `json:"extension"`
}

func (s *Server) listEmitters(w http.ResponseWriter, r *http.Request) {
	registry := emitter.NewRegistry()
	out := make([]EmitterInfo, 0, len(registry.List()))
	for _, name := range registry.List() {
		e, err := registry.Get(name)
		if err != nil {
			continue
		}
		out = append(out, EmitterInfo{Name: e.Name(), Language: e.Language(), Extension: e.FileExtension()})
	}
	respondJSON(w, http.StatusOK, out)
}

// requestLogger logs each request through zerolog
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-Id")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
