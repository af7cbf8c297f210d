// Package server exposes the casebloom HTTP API.
//
// # Overview
//
// The server package ties the other components together: the persistence
// layer, session minting, the courier provider client, and the mockup
// render pipeline. It serves two audiences from one mux: the anonymous
// storefront and the cookie-authenticated back office.
//
// # Server Struct
//
// The Server struct is the main entry point:
//
//	type Server struct {
//	    store    store.Store
//	    sessions *auth.Sessions
//	    courier  courierClient
//	    pipeline *render.Pipeline
//	    logger   *slog.Logger
//	}
//
// Collaborators are injected through Config so tests can swap in the
// in-memory store and stub couriers.
//
// # Routes
//
// Storefront (no session required):
//
//   - GET /api/home - Active banners and homepage sections
//   - GET /api/catalog - Categories, brands, and phone models
//   - GET /api/products - Active products, filterable by category
//   - GET /api/products/{slug} - One product with its gallery
//   - POST /api/orders - Checkout
//
// Back office (session cookie required; writes need admin or manager):
//
//   - POST /api/admin/login, /api/admin/logout, GET /api/admin/me
//   - CRUD under /api/admin/categories, /brands, /models, /products,
//     /banners, /sections
//   - GET /api/admin/orders, PUT .../status, POST .../shipment
//   - POST /api/admin/mockups/generate - NDJSON progress stream
//   - /api/admin/users - Account management (admin only)
//
// # Error Responses
//
// All failures are JSON objects with a single "error" key. Authorization
// failures map to 401/403, missing rows to 404, malformed input to 400,
// courier or render provider failures to 502, and everything else to a
// generic 500 with the detail kept in the server log.
package server
