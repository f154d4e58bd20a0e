package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aalekhpatel07/text-cleaner/internal/core/domain"
	"github.com/aalekhpatel07/text-cleaner/internal/core/services/cleaner"
	"github.com/aalekhpatel07/text-cleaner/internal/core/services/cleaning"
	apperrors "github.com/aalekhpatel07/text-cleaner/internal/pkg/errors"
)

type transformationResponse struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
}

type presetResponse struct {
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	Aliases         []string `json:"aliases,omitempty"`
	Transformations []string `json:"transformations"`
	Builtin         bool     `json:"builtin"`
}

type cleanRequest struct {
	Text            string   `json:"text" validate:"-"`
	Transformations []string `json:"transformations" validate:"omitempty,max=64,dive,max=100"`
	Preset          string   `json:"preset" validate:"omitempty,max=100"`
}

type batchRequest struct {
	Texts           []string `json:"texts" validate:"required,min=1"`
	Transformations []string `json:"transformations" validate:"omitempty,max=64,dive,max=100"`
	Preset          string   `json:"preset" validate:"omitempty,max=100"`
}

type toggleRequest struct {
	Transformations []string `json:"transformations" validate:"max=64,dive,max=100"`
	Name            string   `json:"name" validate:"required,max=100"`
}

type presetRequest struct {
	Name            string   `json:"name" validate:"required,max=100,excludesall=/"`
	Description     string   `json:"description" validate:"max=500"`
	Aliases         []string `json:"aliases" validate:"max=16,dive,required,max=100"`
	Transformations []string `json:"transformations" validate:"required,min=1,max=64,dive,max=100"`
}

type jobResponse struct {
	Job *domain.CleaningJob `json:"job"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	components := make(map[string]any, len(s.checks))
	for name, check := range s.checks {
		h := check.Health(r.Context())
		if h["status"] != "up" {
			status = "degraded"
		}
		components[name] = h
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"status":     status,
		"components": components,
	})
}

func (s *Server) handleListTransformations(w http.ResponseWriter, r *http.Request) {
	catalog := cleaner.Catalog()
	out := make([]transformationResponse, len(catalog))
	for i, t := range catalog {
		out[i] = transformationResponse{
			Name:        t.String(),
			Label:       t.Label(),
			Description: t.Description(),
			Priority:    t.Priority(),
		}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"transformations": out})
}

func (s *Server) toPresetResponse(p cleaner.Preset) presetResponse {
	return presetResponse{
		Name:            p.Name,
		Description:     p.Description,
		Aliases:         p.Aliases,
		Transformations: p.Selection.Names(),
		Builtin:         s.cleaning.Presets().IsBuiltin(p.Name),
	}
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	presets := s.cleaning.Presets().List()
	out := make([]presetResponse, len(presets))
	for i, p := range presets {
		out[i] = s.toPresetResponse(p)
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"presets": out})
}

func (s *Server) handleSavePreset(w http.ResponseWriter, r *http.Request) {
	var req presetRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	p, err := s.cleaning.SavePreset(r.Context(), req.Name, req.Description, req.Aliases, req.Transformations)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, s.toPresetResponse(p))
}

func (s *Server) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.cleaning.DeletePreset(r.Context(), name); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClean(w http.ResponseWriter, r *http.Request) {
	var req cleanRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	res, err := s.cleaning.Clean(r.Context(), cleaning.Request{
		Text:            req.Text,
		Transformations: req.Transformations,
		Preset:          req.Preset,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleCleanBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	res, err := s.cleaning.CleanBatch(r.Context(), cleaning.BatchRequest{
		Texts:           req.Texts,
		Transformations: req.Transformations,
		Preset:          req.Preset,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"transformations": s.cleaning.Toggle(req.Transformations, req.Name),
	})
}

func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	if s.jobs == nil {
		s.respondError(w, r, apperrors.JobsDisabled())
		return
	}
	var req batchRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	job, err := s.jobs.Submit(r.Context(), cleaning.BatchRequest{
		Texts:           req.Texts,
		Transformations: req.Transformations,
		Preset:          req.Preset,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/jobs/"+job.ID.String())
	s.respondJSON(w, http.StatusAccepted, jobResponse{Job: job})
}

func (s *Server) jobID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	if s.jobs == nil {
		s.respondError(w, r, apperrors.JobsDisabled())
		return uuid.Nil, false
	}
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		s.respondError(w, r, apperrors.JobNotFound(raw))
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := s.jobID(w, r)
	if !ok {
		return
	}
	job, err := s.jobs.Get(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, jobResponse{Job: job})
}

func (s *Server) handleJobResults(w http.ResponseWriter, r *http.Request) {
	id, ok := s.jobID(w, r)
	if !ok {
		return
	}
	texts, err := s.jobs.Results(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"id":    id,
		"texts": texts,
	})
}
