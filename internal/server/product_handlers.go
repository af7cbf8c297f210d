// ABOUTME: Product and product image management handlers
// ABOUTME: Admin CRUD over case designs, prices in minor currency units

package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/casebloom/casebloom/internal/auth"
	"github.com/casebloom/casebloom/internal/store"
)

// ProductResponse is the JSON shape for products.
type ProductResponse struct {
	ID          int64                  `json:"id"`
	CategoryID  int64                  `json:"category_id"`
	Name        string                 `json:"name"`
	Slug        string                 `json:"slug"`
	Description string                 `json:"description,omitempty"`
	PriceCents  int64                  `json:"price_cents"`
	Active      bool                   `json:"active"`
	Images      []ProductImageResponse `json:"images,omitempty"`
}

// ProductImageResponse is the JSON shape for a product gallery image.
type ProductImageResponse struct {
	ID       int64  `json:"id"`
	URL      string `json:"url"`
	Position int    `json:"position"`
}

// ProductRequest is the JSON request body for product writes.
type ProductRequest struct {
	CategoryID  int64  `json:"category_id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Active      bool   `json:"active"`
}

// ProductImageRequest is the JSON request body for adding a gallery image.
type ProductImageRequest struct {
	URL      string `json:"url"`
	Position int    `json:"position"`
}

func productResponse(p *store.Product, images []*store.ProductImage) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		Active:      p.Active,
	}
	for _, img := range images {
		resp.Images = append(resp.Images, ProductImageResponse{ID: img.ID, URL: img.URL, Position: img.Position})
	}
	return resp
}

func (req *ProductRequest) validate() error {
	if req.CategoryID <= 0 {
		return validationError("category_id is required")
	}
	if req.Name == "" || req.Slug == "" {
		return validationError("name and slug are required")
	}
	if req.PriceCents < 0 {
		return validationError("price_cents must not be negative")
	}
	return nil
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager, auth.RoleStaff); err != nil {
		s.writeError(w, err)
		return
	}
	params, err := listProductsParams(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
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

func listProductsParams(r *http.Request) (store.ListProductsParams, error) {
	var params store.ListProductsParams
	q := r.URL.Query()
	if raw := q.Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return params, validationError("invalid category_id")
		}
		params.CategoryID = &id
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return params, validationError("invalid limit")
		}
		params.Limit = limit
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return params, validationError("invalid offset")
		}
		params.Offset = offset
	}
	return params, nil
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager); err != nil {
		s.writeError(w, err)
		return
	}
	var req ProductRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		s.writeError(w, err)
		return
	}
	if _, err := s.store.GetCategory(r.Context(), req.CategoryID); err != nil {
		s.writeError(w, err)
		return
	}
	now := time.Now().UTC()
	product := &store.Product{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Active:      req.Active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateProduct(r.Context(), product); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, productResponse(product, nil))
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager, auth.RoleStaff); err != nil {
		s.writeError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	product, err := s.store.GetProduct(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	images, err := s.store.ListProductImages(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, productResponse(product, images))
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager); err != nil {
		s.writeError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req ProductRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		s.writeError(w, err)
		return
	}
	product, err := s.store.GetProduct(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	product.CategoryID = req.CategoryID
	product.Name = req.Name
	product.Slug = req.Slug
	product.Description = req.Description
	product.PriceCents = req.PriceCents
	product.Active = req.Active
	product.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateProduct(r.Context(), product); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, productResponse(product, nil))
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager); err != nil {
		s.writeError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.DeleteProduct(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddProductImage(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager); err != nil {
		s.writeError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req ProductImageRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.URL == "" {
		s.writeError(w, validationError("url is required"))
		return
	}
	if _, err := s.store.GetProduct(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	img := &store.ProductImage{ProductID: id, URL: req.URL, Position: req.Position}
	if err := s.store.AddProductImage(r.Context(), img); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, ProductImageResponse{ID: img.ID, URL: img.URL, Position: img.Position})
}

func (s *Server) handleDeleteProductImage(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager); err != nil {
		s.writeError(w, err)
		return
	}
	imageID, err := pathID(r, "imageID")
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.DeleteProductImage(r.Context(), imageID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
