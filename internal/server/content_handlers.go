// ABOUTME: Homepage content management and anonymous storefront reads
// ABOUTME: /api/home composes banners and sections the way the storefront renders them

package server

import (
	"net/http"

	"github.com/casebloom/casebloom/internal/auth"
	"github.com/casebloom/casebloom/internal/store"
)

// BannerResponse is the JSON shape for hero banners.
type BannerResponse struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
	LinkURL  string `json:"link_url,omitempty"`
	Position int    `json:"position"`
	Active   bool   `json:"active"`
}

// BannerRequest is the JSON request body for banner writes.
type BannerRequest struct {
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
	LinkURL  string `json:"link_url"`
	Position int    `json:"position"`
	Active   bool   `json:"active"`
}

// SectionResponse is the JSON shape for homepage sections.
type SectionResponse struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Kind       string `json:"kind"`
	CategoryID *int64 `json:"category_id,omitempty"`
	Position   int    `json:"position"`
	Active     bool   `json:"active"`
}

// SectionRequest is the JSON request body for section writes.
type SectionRequest struct {
	Title      string `json:"title"`
	Kind       string `json:"kind"`
	CategoryID *int64 `json:"category_id"`
	Position   int    `json:"position"`
	Active     bool   `json:"active"`
}

// HomeResponse is the composed storefront homepage.
type HomeResponse struct {
	Banners  []BannerResponse  `json:"banners"`
	Sections []SectionResponse `json:"sections"`
}

// CatalogResponse is the storefront's browsing data in one shot.
type CatalogResponse struct {
	Categories []CategoryResponse   `json:"categories"`
	Brands     []BrandResponse      `json:"brands"`
	Models     []PhoneModelResponse `json:"models"`
}

func bannerResponse(b *store.HeroBanner) BannerResponse {
	return BannerResponse{
		ID:       b.ID,
		Title:    b.Title,
		ImageURL: b.ImageURL,
		LinkURL:  b.LinkURL,
		Position: b.Position,
		Active:   b.Active,
	}
}

func sectionResponse(sec *store.HomepageSection) SectionResponse {
	return SectionResponse{
		ID:         sec.ID,
		Title:      sec.Title,
		Kind:       sec.Kind,
		CategoryID: sec.CategoryID,
		Position:   sec.Position,
		Active:     sec.Active,
	}
}

func validSectionKind(kind string) bool {
	switch kind {
	case "featured", "category", "new_arrivals":
		return true
	}
	return false
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	banners, err := s.store.ListHeroBanners(r.Context(), true)
	if err != nil {
		s.writeError(w, err)
		return
	}
	sections, err := s.store.ListHomepageSections(r.Context(), true)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := HomeResponse{
		Banners:  make([]BannerResponse, 0, len(banners)),
		Sections: make([]SectionResponse, 0, len(sections)),
	}
	for _, b := range banners {
		resp.Banners = append(resp.Banners, bannerResponse(b))
	}
	for _, sec := range sections {
		resp.Sections = append(resp.Sections, sectionResponse(sec))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	brands, err := s.store.ListBrands(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	models, err := s.store.ListPhoneModels(r.Context(), nil)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := CatalogResponse{
		Categories: make([]CategoryResponse, 0, len(categories)),
		Brands:     make([]BrandResponse, 0, len(brands)),
		Models:     make([]PhoneModelResponse, 0, len(models)),
	}
	for _, c := range categories {
		resp.Categories = append(resp.Categories, categoryResponse(c))
	}
	for _, b := range brands {
		resp.Brands = append(resp.Brands, brandResponse(b))
	}
	for _, m := range models {
		resp.Models = append(resp.Models, phoneModelResponse(m))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStorefrontProducts(w http.ResponseWriter, r *http.Request) {
	params, err := listProductsParams(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	params.ActiveOnly = true
	products, err := s.store.ListProducts(r.Context(), params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, productResponse(p, nil))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleStorefrontProduct(w http.ResponseWriter, r *http.Request) {
	product, err := s.store.GetProductBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !product.Active {
		s.writeError(w, store.ErrNotFound)
		return
	}
	images, err := s.store.ListProductImages(r.Context(), product.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, productResponse(product, images))
}

func (s *Server) handleListBanners(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager, auth.RoleStaff); err != nil {
		s.writeError(w, err)
		return
	}
	banners, err := s.store.ListHeroBanners(r.Context(), false)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]BannerResponse, 0, len(banners))
	for _, b := range banners {
		out = append(out, bannerResponse(b))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateBanner(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager); err != nil {
		s.writeError(w, err)
		return
	}
	var req BannerRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Title == "" || req.ImageURL == "" {
		s.writeError(w, validationError("title and image_url are required"))
		return
	}
	banner := &store.HeroBanner{
		Title:    req.Title,
		ImageURL: req.ImageURL,
		LinkURL:  req.LinkURL,
		Position: req.Position,
		Active:   req.Active,
	}
	if err := s.store.CreateHeroBanner(r.Context(), banner); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, bannerResponse(banner))
}

func (s *Server) handleUpdateBanner(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager); err != nil {
		s.writeError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req BannerRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Title == "" || req.ImageURL == "" {
		s.writeError(w, validationError("title and image_url are required"))
		return
	}
	banner := &store.HeroBanner{
		ID:       id,
		Title:    req.Title,
		ImageURL: req.ImageURL,
		LinkURL:  req.LinkURL,
		Position: req.Position,
		Active:   req.Active,
	}
	if err := s.store.UpdateHeroBanner(r.Context(), banner); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, bannerResponse(banner))
}

func (s *Server) handleDeleteBanner(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager); err != nil {
		s.writeError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.DeleteHeroBanner(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListSections(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager, auth.RoleStaff); err != nil {
		s.writeError(w, err)
		return
	}
	sections, err := s.store.ListHomepageSections(r.Context(), false)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]SectionResponse, 0, len(sections))
	for _, sec := range sections {
		out = append(out, sectionResponse(sec))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateSection(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager); err != nil {
		s.writeError(w, err)
		return
	}
	var req SectionRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Title == "" || !validSectionKind(req.Kind) {
		s.writeError(w, validationError("title and a valid kind are required"))
		return
	}
	if req.Kind == "category" && req.CategoryID == nil {
		s.writeError(w, validationError("category sections need a category_id"))
		return
	}
	if req.CategoryID != nil {
		if _, err := s.store.GetCategory(r.Context(), *req.CategoryID); err != nil {
			s.writeError(w, err)
			return
		}
	}
	section := &store.HomepageSection{
		Title:      req.Title,
		Kind:       req.Kind,
		CategoryID: req.CategoryID,
		Position:   req.Position,
		Active:     req.Active,
	}
	if err := s.store.CreateHomepageSection(r.Context(), section); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, sectionResponse(section))
}

func (s *Server) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager); err != nil {
		s.writeError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req SectionRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Title == "" || !validSectionKind(req.Kind) {
		s.writeError(w, validationError("title and a valid kind are required"))
		return
	}
	if req.Kind == "category" && req.CategoryID == nil {
		s.writeError(w, validationError("category sections need a category_id"))
		return
	}
	section := &store.HomepageSection{
		ID:         id,
		Title:      req.Title,
		Kind:       req.Kind,
		CategoryID: req.CategoryID,
		Position:   req.Position,
		Active:     req.Active,
	}
	if err := s.store.UpdateHomepageSection(r.Context(), section); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sectionResponse(section))
}

func (s *Server) handleDeleteSection(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager); err != nil {
		s.writeError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.DeleteHomepageSection(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
