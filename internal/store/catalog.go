// ABOUTME: Category, brand, and phone model persistence
// ABOUTME: Parameterized CRUD over the catalog reference tables

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateCategory inserts a new category and sets its generated ID.
func (s *SQLiteStore) CreateCategory(ctx context.Context, c *Category) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name, slug, position, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		c.Name, c.Slug, c.Position, formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err, "categories.slug") {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("inserting category: %w", err)
	}

	c.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading category id: %w", err)
	}
	return nil
}

// GetCategory retrieves a category by ID.
func (s *SQLiteStore) GetCategory(ctx context.Context, id int64) (*Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, slug, position, created_at, updated_at FROM categories WHERE id = ?`, id)
	return scanCategory(row)
}

// ListCategories returns all categories ordered by position.
func (s *SQLiteStore) ListCategories(ctx context.Context) ([]*Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, slug, position, created_at, updated_at FROM categories ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []*Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// UpdateCategory updates a category's name, slug, and position.
func (s *SQLiteStore) UpdateCategory(ctx context.Context, c *Category) error {
	c.UpdatedAt = time.Now()

	res, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, slug = ?, position = ?, updated_at = ? WHERE id = ?`,
		c.Name, c.Slug, c.Position, formatTime(c.UpdatedAt), c.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "categories.slug") {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("updating category: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCategory removes a category by ID.
func (s *SQLiteStore) DeleteCategory(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "categories", id)
}

// CreateBrand inserts a new brand and sets its generated ID.
func (s *SQLiteStore) CreateBrand(ctx context.Context, b *Brand) error {
	b.CreatedAt = time.Now()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO brands (name, slug, created_at) VALUES (?, ?, ?)`,
		b.Name, b.Slug, formatTime(b.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err, "brands.slug") {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("inserting brand: %w", err)
	}

	b.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading brand id: %w", err)
	}
	return nil
}

// GetBrand retrieves a brand by ID.
func (s *SQLiteStore) GetBrand(ctx context.Context, id int64) (*Brand, error) {
	var b Brand
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, slug, created_at FROM brands WHERE id = ?`, id,
	).Scan(&b.ID, &b.Name, &b.Slug, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting brand: %w", err)
	}
	b.CreatedAt = parseTime(createdAt)
	return &b, nil
}

// ListBrands returns all brands ordered by name.
func (s *SQLiteStore) ListBrands(ctx context.Context) ([]*Brand, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, slug, created_at FROM brands ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing brands: %w", err)
	}
	defer rows.Close()

	var brands []*Brand
	for rows.Next() {
		var b Brand
		var createdAt string
		if err := rows.Scan(&b.ID, &b.Name, &b.Slug, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning brand: %w", err)
		}
		b.CreatedAt = parseTime(createdAt)
		brands = append(brands, &b)
	}
	return brands, rows.Err()
}

// DeleteBrand removes a brand and, via cascade, its phone models.
func (s *SQLiteStore) DeleteBrand(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "brands", id)
}

// CreatePhoneModel inserts a new phone model and sets its generated ID.
func (s *SQLiteStore) CreatePhoneModel(ctx context.Context, m *PhoneModel) error {
	m.CreatedAt = time.Now()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO phone_models (brand_id, name, slug, template_url, created_at) VALUES (?, ?, ?, ?, ?)`,
		m.BrandID, m.Name, m.Slug, m.TemplateURL, formatTime(m.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err, "phone_models.slug") {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("inserting phone model: %w", err)
	}

	m.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading phone model id: %w", err)
	}
	return nil
}

// GetPhoneModel retrieves a phone model by ID.
func (s *SQLiteStore) GetPhoneModel(ctx context.Context, id int64) (*PhoneModel, error) {
	var m PhoneModel
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, brand_id, name, slug, template_url, created_at FROM phone_models WHERE id = ?`, id,
	).Scan(&m.ID, &m.BrandID, &m.Name, &m.Slug, &m.TemplateURL, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting phone model: %w", err)
	}
	m.CreatedAt = parseTime(createdAt)
	return &m, nil
}

// ListPhoneModels returns phone models, optionally filtered by brand.
func (s *SQLiteStore) ListPhoneModels(ctx context.Context, brandID *int64) ([]*PhoneModel, error) {
	query := `SELECT id, brand_id, name, slug, template_url, created_at FROM phone_models`
	var args []any
	if brandID != nil {
		query += ` WHERE brand_id = ?`
		args = append(args, *brandID)
	}
	query += ` ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing phone models: %w", err)
	}
	defer rows.Close()

	var models []*PhoneModel
	for rows.Next() {
		var m PhoneModel
		var createdAt string
		if err := rows.Scan(&m.ID, &m.BrandID, &m.Name, &m.Slug, &m.TemplateURL, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning phone model: %w", err)
		}
		m.CreatedAt = parseTime(createdAt)
		models = append(models, &m)
	}
	return models, rows.Err()
}

// DeletePhoneModel removes a phone model by ID.
func (s *SQLiteStore) DeletePhoneModel(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "phone_models", id)
}

// deleteByID deletes one row by primary key, returning ErrNotFound when no
// row matched. Table names are compile-time constants at every call site.
func (s *SQLiteStore) deleteByID(ctx context.Context, table string, id int64) error {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id)
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// rowScanner abstracts sql.Row and sql.Rows for shared scan helpers
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (*Category, error) {
	var c Category
	var createdAt, updatedAt string
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Position, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning category: %w", err)
	}
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return &c, nil
}
