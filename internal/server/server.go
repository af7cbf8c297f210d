// ABOUTME: HTTP server wiring for the storefront and admin API
// ABOUTME: Holds the store, session minting, courier client, and mockup pipeline

package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/casebloom/casebloom/internal/auth"
	"github.com/casebloom/casebloom/internal/render"
	"github.com/casebloom/casebloom/internal/shipping"
	"github.com/casebloom/casebloom/internal/store"
)

const shutdownTimeout = 10 * time.Second

// courierClient is the slice of the shipping provider the server needs.
type courierClient interface {
	Rates(ctx context.Context, req *shipping.RateRequest) ([]shipping.Rate, error)
	CreateShipment(ctx context.Context, req *shipping.CreateShipmentRequest) (*shipping.CreateShipmentResponse, error)
	Track(ctx context.Context, waybillID string) ([]shipping.TrackingEvent, error)
}

// Server handles HTTP API requests for the storefront and admin console.
type Server struct {
	store        store.Store
	sessions     *auth.Sessions
	courier      courierClient
	pipeline     *render.Pipeline
	logger       *slog.Logger
	cookieSecure bool

	httpServer *http.Server
}

// Config holds the server's collaborators. Courier may be nil when no
// shipping provider is configured; shipment endpoints then return 502.
type Config struct {
	Store        store.Store
	Sessions     *auth.Sessions
	Courier      courierClient
	Pipeline     *render.Pipeline
	Logger       *slog.Logger
	CookieSecure bool
}

// New creates a server from its collaborators.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default().With("component", "server")
	}
	return &Server{
		store:        cfg.Store,
		sessions:     cfg.Sessions,
		courier:      cfg.Courier,
		pipeline:     cfg.Pipeline,
		logger:       logger,
		cookieSecure: cfg.CookieSecure,
	}
}

// Routes builds the request mux.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// Storefront (anonymous)
	mux.HandleFunc("GET /api/home", s.handleHome)
	mux.HandleFunc("GET /api/catalog", s.handleCatalog)
	mux.HandleFunc("GET /api/products", s.handleStorefrontProducts)
	mux.HandleFunc("GET /api/products/{slug}", s.handleStorefrontProduct)
	mux.HandleFunc("POST /api/orders", s.handleCheckout)

	// Session
	mux.HandleFunc("POST /api/admin/login", s.handleLogin)
	mux.HandleFunc("POST /api/admin/logout", s.handleLogout)
	mux.HandleFunc("GET /api/admin/me", s.handleMe)

	// Catalog management
	mux.HandleFunc("GET /api/admin/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/admin/categories", s.handleCreateCategory)
	mux.HandleFunc("PUT /api/admin/categories/{id}", s.handleUpdateCategory)
	mux.HandleFunc("DELETE /api/admin/categories/{id}", s.handleDeleteCategory)
	mux.HandleFunc("GET /api/admin/brands", s.handleListBrands)
	mux.HandleFunc("POST /api/admin/brands", s.handleCreateBrand)
	mux.HandleFunc("DELETE /api/admin/brands/{id}", s.handleDeleteBrand)
	mux.HandleFunc("GET /api/admin/models", s.handleListPhoneModels)
	mux.HandleFunc("POST /api/admin/models", s.handleCreatePhoneModel)
	mux.HandleFunc("DELETE /api/admin/models/{id}", s.handleDeletePhoneModel)

	// Products
	mux.HandleFunc("GET /api/admin/products", s.handleListProducts)
	mux.HandleFunc("POST /api/admin/products", s.handleCreateProduct)
	mux.HandleFunc("GET /api/admin/products/{id}", s.handleGetProduct)
	mux.HandleFunc("PUT /api/admin/products/{id}", s.handleUpdateProduct)
	mux.HandleFunc("DELETE /api/admin/products/{id}", s.handleDeleteProduct)
	mux.HandleFunc("POST /api/admin/products/{id}/images", s.handleAddProductImage)
	mux.HandleFunc("DELETE /api/admin/products/{id}/images/{imageID}", s.handleDeleteProductImage)

	// Orders and shipments
	mux.HandleFunc("GET /api/admin/orders", s.handleListOrders)
	mux.HandleFunc("GET /api/admin/orders/{id}", s.handleGetOrder)
	mux.HandleFunc("PUT /api/admin/orders/{id}/status", s.handleUpdateOrderStatus)
	mux.HandleFunc("POST /api/admin/orders/{id}/rates", s.handleOrderRates)
	mux.HandleFunc("POST /api/admin/orders/{id}/shipment", s.handleCreateShipment)
	mux.HandleFunc("GET /api/admin/orders/{id}/shipment", s.handleGetShipment)
	mux.HandleFunc("GET /api/admin/orders/{id}/tracking", s.handleTrackShipment)

	// Homepage content
	mux.HandleFunc("GET /api/admin/banners", s.handleListBanners)
	mux.HandleFunc("POST /api/admin/banners", s.handleCreateBanner)
	mux.HandleFunc("PUT /api/admin/banners/{id}", s.handleUpdateBanner)
	mux.HandleFunc("DELETE /api/admin/banners/{id}", s.handleDeleteBanner)
	mux.HandleFunc("GET /api/admin/sections", s.handleListSections)
	mux.HandleFunc("POST /api/admin/sections", s.handleCreateSection)
	mux.HandleFunc("PUT /api/admin/sections/{id}", s.handleUpdateSection)
	mux.HandleFunc("DELETE /api/admin/sections/{id}", s.handleDeleteSection)

	// Admin users
	mux.HandleFunc("GET /api/admin/users", s.handleListAdminUsers)
	mux.HandleFunc("POST /api/admin/users", s.handleCreateAdminUser)

	// Mockup generation (streaming)
	mux.HandleFunc("POST /api/admin/mockups/generate", s.handleGenerateMockups)

	mux.HandleFunc("GET /health", s.handleHealth)

	return s.sessions.Middleware(mux)
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// readJSON decodes the request body, rejecting unknown fields.
func readJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return validationError("invalid request body: %v", err)
	}
	return nil
}

// pathID parses a numeric {id}-style path segment.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, validationError("invalid %s", name)
	}
	return id, nil
}
