package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/v0rails/v0rails/internal/config"
	"github.com/v0rails/v0rails/internal/converter"
	"github.com/v0rails/v0rails/internal/extractor"
	"github.com/v0rails/v0rails/pkg/model"
)

// ConvertOptions overrides the server's artifact settings for one request.
// Unset fields keep the server configuration.
type ConvertOptions struct {
	Namespace   string `json:"namespace,omitempty"`
	Stimulus    *bool  `json:"stimulus,omitempty"`
	Tests       *bool  `json:"tests,omitempty"`
	Helpers     *bool  `json:"helpers,omitempty"`
	Previews    *bool  `json:"previews,omitempty"`
	EnhancedERB *bool  `json:"enhancedErb,omitempty"`
	Slots       *bool  `json:"slots,omitempty"`
}

// ConvertRequest is the request body for a conversion
type ConvertRequest struct {
	Filename string         `json:"filename"`
	Source   string         `json:"source"`
	Options  ConvertOptions `json:"options"`
}

// ConvertResponse is the result of a conversion
type ConvertResponse struct {
	ID        uuid.UUID        `json:"id"`
	IR        *model.IR        `json:"ir"`
	Artifacts []model.Artifact `json:"artifacts"`
	Warnings  []string         `json:"warnings"`
}

func (s *Server) convert(w http.ResponseWriter, r *http.Request) {
	limit := s.cfg.Server.MaxSourceBytes
	r.Body = http.MaxBytesReader(w, r.Body, limit+64<<10)

	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Filename) == "" {
		respondError(w, http.StatusBadRequest, "filename is required")
		return
	}
	if strings.TrimSpace(req.Source) == "" {
		respondError(w, http.StatusBadRequest, "source is required")
		return
	}
	if int64(len(req.Source)) > limit {
		respondError(w, http.StatusRequestEntityTooLarge, "source too large")
		return
	}

	if req.Options.Namespace != "" {
		if err := config.ValidateNamespace(req.Options.Namespace); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	opts := s.opts
	applyOptions(&opts, req.Options)

	logger := s.logger.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
	res, err := converter.New(logger, opts).NewSession().ConvertSource(r.Context(), req.Filename, []byte(req.Source))
	if err != nil {
		var extractErr *extractor.ExtractionError
		switch {
		case errors.Is(err, converter.ErrUnsupportedLanguage):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.As(err, &extractErr):
			respondError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			logger.Error().Err(err).Str("file", req.Filename).Msg("conversion failed")
			respondError(w, http.StatusInternalServerError, "conversion failed")
		}
		return
	}

	logger.Debug().
		Str("file", req.Filename).
		Str("component", res.IR.Name).
		Int("artifacts", len(res.Artifacts)).
		Int("warnings", len(res.IR.Warnings)).
		Msg("converted")

	respondJSON(w, http.StatusOK, ConvertResponse{
		ID:        uuid.New(),
		IR:        res.IR,
		Artifacts: res.Artifacts,
		Warnings:  res.IR.Warnings,
	})
}

func applyOptions(opts *converter.Options, o ConvertOptions) {
	if ns := strings.TrimSpace(o.Namespace); ns != "" {
		opts.Emit.Namespace = ns
	}
	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&opts.Emit.Stimulus, o.Stimulus)
	set(&opts.Emit.Tests, o.Tests)
	set(&opts.Emit.Helpers, o.Helpers)
	set(&opts.Emit.Previews, o.Previews)
	set(&opts.Emit.EnhancedERB, o.EnhancedERB)
	set(&opts.Emit.Slots, o.Slots)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
