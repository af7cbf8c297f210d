// Package store provides persistent storage for casebloom using SQLite.
//
// # Architecture
//
// A single Store interface covers the catalog (categories, brands, phone
// models, products, images), orders with their items and shipments, homepage
// content (hero banners, sections), and admin accounts. SQLiteStore
// implements the full interface; MockStore is an in-memory implementation
// for handler tests.
//
// # Connection Pool
//
// SQLiteStore owns the database/sql connection pool. It is constructed once
// in main and injected into the HTTP server; connections are checked out per
// query and released by database/sql on every exit path.
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// The schema is created automatically on open. Timestamps are stored as
// RFC 3339 text.
//
// # Error Handling
//
// Common errors:
//
//   - ErrNotFound: requested entity does not exist
//   - ErrDuplicateSlug: unique slug conflict on create/update
//   - ErrDuplicateUsername: admin username already taken
//
// All methods accept context.Context for cancellation support.
package store
