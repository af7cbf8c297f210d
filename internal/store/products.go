// ABOUTME: Product and product image persistence
// ABOUTME: CRUD with slug lookup and category/active filtering for listings

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const productColumns = `id, category_id, name, slug, description, price_cents, active, created_at, updated_at`

// CreateProduct inserts a new product and sets its generated ID.
func (s *SQLiteStore) CreateProduct(ctx context.Context, p *Product) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO products (category_id, name, slug, description, price_cents, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.CategoryID, p.Name, p.Slug, p.Description, p.PriceCents, p.Active,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err, "products.slug") {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("inserting product: %w", err)
	}

	p.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading product id: %w", err)
	}
	return nil
}

// GetProduct retrieves a product by ID.
func (s *SQLiteStore) GetProduct(ctx context.Context, id int64) (*Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	return scanProduct(row)
}

// GetProductBySlug retrieves a product by its storefront slug.
func (s *SQLiteStore) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE slug = ?`, slug)
	return scanProduct(row)
}

// ListProducts returns products matching the given filters, newest first.
func (s *SQLiteStore) ListProducts(ctx context.Context, params ListProductsParams) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	var conds []string
	var args []any

	if params.CategoryID != nil {
		conds = append(conds, "category_id = ?")
		args = append(args, *params.CategoryID)
	}
	if params.ActiveOnly {
		conds = append(conds, "active = 1")
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, params.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// UpdateProduct updates a product's mutable fields.
func (s *SQLiteStore) UpdateProduct(ctx context.Context, p *Product) error {
	p.UpdatedAt = time.Now()

	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET category_id = ?, name = ?, slug = ?, description = ?,
		 price_cents = ?, active = ?, updated_at = ? WHERE id = ?`,
		p.CategoryID, p.Name, p.Slug, p.Description, p.PriceCents, p.Active,
		formatTime(p.UpdatedAt), p.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "products.slug") {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("updating product: %w", err)
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

// DeleteProduct removes a product and, via cascade, its images.
func (s *SQLiteStore) DeleteProduct(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "products", id)
}

// AddProductImage inserts a gallery image for a product.
func (s *SQLiteStore) AddProductImage(ctx context.Context, img *ProductImage) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO product_images (product_id, url, position) VALUES (?, ?, ?)`,
		img.ProductID, img.URL, img.Position,
	)
	if err != nil {
		return fmt.Errorf("inserting product image: %w", err)
	}

	img.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading product image id: %w", err)
	}
	return nil
}

// ListProductImages returns a product's images ordered by position.
func (s *SQLiteStore) ListProductImages(ctx context.Context, productID int64) ([]*ProductImage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, product_id, url, position FROM product_images WHERE product_id = ? ORDER BY position, id`,
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing product images: %w", err)
	}
	defer rows.Close()

	var images []*ProductImage
	for rows.Next() {
		var img ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.URL, &img.Position); err != nil {
			return nil, fmt.Errorf("scanning product image: %w", err)
		}
		images = append(images, &img)
	}
	return images, rows.Err()
}

// DeleteProductImage removes a single gallery image.
func (s *SQLiteStore) DeleteProductImage(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "product_images", id)
}

func scanProduct(row rowScanner) (*Product, error) {
	var p Product
	var createdAt, updatedAt string
	err := row.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Slug, &p.Description,
		&p.PriceCents, &p.Active, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning product: %w", err)
	}
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}
