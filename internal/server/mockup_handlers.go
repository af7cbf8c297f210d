// ABOUTME: Streaming mockup generation handler
// ABOUTME: Validates before the stream opens; after that, failures are emitted in-band

package server

import (
	"errors"
	"net/http"

	"github.com/casebloom/casebloom/internal/auth"
	"github.com/casebloom/casebloom/internal/progress"
	"github.com/casebloom/casebloom/internal/render"
)

// MockupRequest is the JSON request body for POST /api/admin/mockups/generate.
type MockupRequest struct {
	PhoneModelID int64    `json:"phone_model_id"`
	ArtworkURL   string   `json:"artwork_url"`
	Prompt       string   `json:"prompt"`
	Variants     []string `json:"variants"`
}

func (s *Server) handleGenerateMockups(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager, auth.RoleStaff); err != nil {
		s.writeError(w, err)
		return
	}
	if s.pipeline == nil {
		s.sendJSONError(w, http.StatusBadGateway, "no render provider configured")
		return
	}
	var req MockupRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.PhoneModelID <= 0 || req.ArtworkURL == "" {
		s.writeError(w, validationError("phone_model_id and artwork_url are required"))
		return
	}
	if len(req.Variants) == 0 {
		s.writeError(w, validationError("at least one variant is required"))
		return
	}
	model, err := s.store.GetPhoneModel(r.Context(), req.PhoneModelID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	// Everything past this point streams; the status line is already sent.
	emitter, err := progress.NewEmitter(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	job := &render.Job{
		Model:      model,
		ArtworkURL: req.ArtworkURL,
		Prompt:     req.Prompt,
		Variants:   req.Variants,
	}
	if _, err := s.pipeline.Run(r.Context(), job, emitter); err != nil {
		if errors.Is(err, progress.ErrStreamClosed) {
			s.logger.Info("mockup stream closed by client", "model_id", model.ID)
			return
		}
		s.logger.Error("mockup generation failed", "model_id", model.ID, "error", err)
		emitter.Error("mockup generation failed")
		return
	}
	if err := emitter.Done("all variants rendered"); err != nil {
		s.logger.Warn("failed to send final event", "error", err)
	}
}
