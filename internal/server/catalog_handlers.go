// ABOUTME: Category, brand, and phone model management handlers
// ABOUTME: Reads allow any back-office role; writes need admin or manager

package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/casebloom/casebloom/internal/auth"
	"github.com/casebloom/casebloom/internal/store"
)

// CategoryResponse is the JSON shape for catalog categories.
type CategoryResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Position int    `json:"position"`
}

// CategoryRequest is the JSON request body for category writes.
type CategoryRequest struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Position int    `json:"position"`
}

// BrandResponse is the JSON shape for phone brands.
type BrandResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// BrandRequest is the JSON request body for brand writes.
type BrandRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// PhoneModelResponse is the JSON shape for phone models.
type PhoneModelResponse struct {
	ID          int64  `json:"id"`
	BrandID     int64  `json:"brand_id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	TemplateURL string `json:"template_url"`
}

// PhoneModelRequest is the JSON request body for phone model writes.
type PhoneModelRequest struct {
	BrandID     int64  `json:"brand_id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	TemplateURL string `json:"template_url"`
}

func categoryResponse(c *store.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, Slug: c.Slug, Position: c.Position}
}

func brandResponse(b *store.Brand) BrandResponse {
	return BrandResponse{ID: b.ID, Name: b.Name, Slug: b.Slug}
}

func phoneModelResponse(m *store.PhoneModel) PhoneModelResponse {
	return PhoneModelResponse{
		ID:          m.ID,
		BrandID:     m.BrandID,
		Name:        m.Name,
		Slug:        m.Slug,
		TemplateURL: m.TemplateURL,
	}
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager, auth.RoleStaff); err != nil {
		s.writeError(w, err)
		return
	}
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryResponse(c))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager); err != nil {
		s.writeError(w, err)
		return
	}
	var req CategoryRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Name == "" || req.Slug == "" {
		s.writeError(w, validationError("name and slug are required"))
		return
	}
	now := time.Now().UTC()
	category := &store.Category{
		Name:      req.Name,
		Slug:      req.Slug,
		Position:  req.Position,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateCategory(r.Context(), category); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, categoryResponse(category))
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager); err != nil {
		s.writeError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req CategoryRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Name == "" || req.Slug == "" {
		s.writeError(w, validationError("name and slug are required"))
		return
	}
	category, err := s.store.GetCategory(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	category.Name = req.Name
	category.Slug = req.Slug
	category.Position = req.Position
	category.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateCategory(r.Context(), category); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, categoryResponse(category))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager); err != nil {
		s.writeError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.DeleteCategory(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListBrands(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager, auth.RoleStaff); err != nil {
		s.writeError(w, err)
		return
	}
	brands, err := s.store.ListBrands(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]BrandResponse, 0, len(brands))
	for _, b := range brands {
		out = append(out, brandResponse(b))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateBrand(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager); err != nil {
		s.writeError(w, err)
		return
	}
	var req BrandRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Name == "" || req.Slug == "" {
		s.writeError(w, validationError("name and slug are required"))
		return
	}
	brand := &store.Brand{Name: req.Name, Slug: req.Slug, CreatedAt: time.Now().UTC()}
	if err := s.store.CreateBrand(r.Context(), brand); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, brandResponse(brand))
}

func (s *Server) handleDeleteBrand(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager); err != nil {
		s.writeError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.DeleteBrand(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListPhoneModels(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager, auth.RoleStaff); err != nil {
		s.writeError(w, err)
		return
	}
	var brandID *int64
	if raw := r.URL.Query().Get("brand_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.writeError(w, validationError("invalid brand_id"))
			return
		}
		brandID = &id
	}
	models, err := s.store.ListPhoneModels(r.Context(), brandID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]PhoneModelResponse, 0, len(models))
	for _, m := range models {
		out = append(out, phoneModelResponse(m))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreatePhoneModel(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager); err != nil {
		s.writeError(w, err)
		return
	}
	var req PhoneModelRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.BrandID <= 0 || req.Name == "" || req.Slug == "" {
		s.writeError(w, validationError("brand_id, name, and slug are required"))
		return
	}
	// Reject unknown brands up front so the error is a 404, not a
	// foreign key failure surfacing as a 500.
	if _, err := s.store.GetBrand(r.Context(), req.BrandID); err != nil {
		s.writeError(w, err)
		return
	}
	model := &store.PhoneModel{
		BrandID:     req.BrandID,
		Name:        req.Name,
		Slug:        req.Slug,
		TemplateURL: req.TemplateURL,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.CreatePhoneModel(r.Context(), model); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, phoneModelResponse(model))
}

func (s *Server) handleDeletePhoneModel(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager); err != nil {
		s.writeError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.DeletePhoneModel(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
