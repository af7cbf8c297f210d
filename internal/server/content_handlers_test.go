// ABOUTME: Tests for storefront reads and homepage content management
// ABOUTME: Anonymous endpoints must only expose active rows

package server

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casebloom/casebloom/internal/auth"
	"github.com/casebloom/casebloom/internal/store"
)

func TestHome_OnlyActiveContent(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, ts.store.CreateHeroBanner(ctx, &store.HeroBanner{
		Title: "Summer Sale", ImageURL: "https://cdn.example.com/b1.png", Position: 1, Active: true,
	}))
	require.NoError(t, ts.store.CreateHeroBanner(ctx, &store.HeroBanner{
		Title: "Draft", ImageURL: "https://cdn.example.com/b2.png", Position: 2,
	}))
	require.NoError(t, ts.store.CreateHomepageSection(ctx, &store.HomepageSection{
		Title: "New Arrivals", Kind: "new_arrivals", Position: 1, Active: true,
	}))
	require.NoError(t, ts.store.CreateHomepageSection(ctx, &store.HomepageSection{
		Title: "Hidden", Kind: "featured", Position: 2,
	}))

	rec := ts.do(t, http.MethodGet, "/api/home", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var home HomeResponse
	require.NoError(t, decodeBody(rec, &home))
	require.Len(t, home.Banners, 1)
	assert.Equal(t, "Summer Sale", home.Banners[0].Title)
	require.Len(t, home.Sections, 1)
	assert.Equal(t, "New Arrivals", home.Sections[0].Title)
}

func TestCatalog(t *testing.T) {
	ts := newTestServer(t)
	_, model := seedProduct(t, ts, 10000)

	rec := ts.do(t, http.MethodGet, "/api/catalog", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var catalog CatalogResponse
	require.NoError(t, decodeBody(rec, &catalog))
	assert.Len(t, catalog.Categories, 1)
	assert.Len(t, catalog.Brands, 1)
	require.Len(t, catalog.Models, 1)
	assert.Equal(t, model.Slug, catalog.Models[0].Slug)
}

func TestStorefrontProducts_ActiveOnly(t *testing.T) {
	ts := newTestServer(t)
	product, _ := seedProduct(t, ts, 10000)

	inactive := &store.Product{
		CategoryID: product.CategoryID,
		Name:       "Retired Case",
		Slug:       "retired-case",
		PriceCents: 5000,
	}
	require.NoError(t, ts.store.CreateProduct(context.Background(), inactive))

	rec := ts.do(t, http.MethodGet, "/api/products", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var products []ProductResponse
	require.NoError(t, decodeBody(rec, &products))
	require.Len(t, products, 1)
	assert.Equal(t, product.Slug, products[0].Slug)

	// The detail page hides inactive products too.
	rec = ts.do(t, http.MethodGet, "/api/products/retired-case", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/products/"+product.Slug, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStorefrontProduct_IncludesGallery(t *testing.T) {
	ts := newTestServer(t)
	product, _ := seedProduct(t, ts, 10000)
	require.NoError(t, ts.store.AddProductImage(context.Background(), &store.ProductImage{
		ProductID: product.ID,
		URL:       "https://cdn.example.com/p1.png",
		Position:  1,
	}))

	rec := ts.do(t, http.MethodGet, "/api/products/"+product.Slug, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ProductResponse
	require.NoError(t, decodeBody(rec, &resp))
	require.Len(t, resp.Images, 1)
	assert.Equal(t, "https://cdn.example.com/p1.png", resp.Images[0].URL)
}

func TestBanners_CRUD(t *testing.T) {
	ts := newTestServer(t)
	manager := ts.sessionCookie(t, auth.RoleManager)

	rec := ts.do(t, http.MethodPost, "/api/admin/banners",
		BannerRequest{Title: "Hero", ImageURL: "https://cdn.example.com/h.png", Active: true}, manager)
	require.Equal(t, http.StatusCreated, rec.Code)
	var banner BannerResponse
	require.NoError(t, decodeBody(rec, &banner))

	rec = ts.do(t, http.MethodPut, fmt.Sprintf("/api/admin/banners/%d", banner.ID),
		BannerRequest{Title: "Hero v2", ImageURL: "https://cdn.example.com/h.png"}, manager)
	require.Equal(t, http.StatusOK, rec.Code)

	// Admin listing shows inactive banners, the storefront does not.
	rec = ts.do(t, http.MethodGet, "/api/admin/banners", nil, manager)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []BannerResponse
	require.NoError(t, decodeBody(rec, &list))
	require.Len(t, list, 1)
	assert.False(t, list[0].Active)

	rec = ts.do(t, http.MethodGet, "/api/home", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var home HomeResponse
	require.NoError(t, decodeBody(rec, &home))
	assert.Empty(t, home.Banners)

	rec = ts.do(t, http.MethodDelete, fmt.Sprintf("/api/admin/banners/%d", banner.ID), nil, manager)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSections_Validation(t *testing.T) {
	ts := newTestServer(t)
	manager := ts.sessionCookie(t, auth.RoleManager)

	rec := ts.do(t, http.MethodPost, "/api/admin/sections",
		SectionRequest{Title: "Weird", Kind: "carousel"}, manager)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Category sections must reference a category.
	rec = ts.do(t, http.MethodPost, "/api/admin/sections",
		SectionRequest{Title: "By Category", Kind: "category"}, manager)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/admin/sections",
		SectionRequest{Title: "Featured", Kind: "featured", Active: true}, manager)
	assert.Equal(t, http.StatusCreated, rec.Code)
}
