// ABOUTME: Hero banner and homepage section persistence
// ABOUTME: Content blocks the storefront homepage is composed from

package store

import (
	"context"
	"fmt"
)

// CreateHeroBanner inserts a banner and sets its generated ID.
func (s *SQLiteStore) CreateHeroBanner(ctx context.Context, b *HeroBanner) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO hero_banners (title, image_url, link_url, position, active) VALUES (?, ?, ?, ?, ?)`,
		b.Title, b.ImageURL, b.LinkURL, b.Position, b.Active,
	)
	if err != nil {
		return fmt.Errorf("inserting hero banner: %w", err)
	}

	b.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading hero banner id: %w", err)
	}
	return nil
}

// ListHeroBanners returns banners ordered by position.
func (s *SQLiteStore) ListHeroBanners(ctx context.Context, activeOnly bool) ([]*HeroBanner, error) {
	query := `SELECT id, title, image_url, link_url, position, active FROM hero_banners`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY position, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing hero banners: %w", err)
	}
	defer rows.Close()

	var banners []*HeroBanner
	for rows.Next() {
		var b HeroBanner
		if err := rows.Scan(&b.ID, &b.Title, &b.ImageURL, &b.LinkURL, &b.Position, &b.Active); err != nil {
			return nil, fmt.Errorf("scanning hero banner: %w", err)
		}
		banners = append(banners, &b)
	}
	return banners, rows.Err()
}

// UpdateHeroBanner updates a banner's fields.
func (s *SQLiteStore) UpdateHeroBanner(ctx context.Context, b *HeroBanner) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE hero_banners SET title = ?, image_url = ?, link_url = ?, position = ?, active = ? WHERE id = ?`,
		b.Title, b.ImageURL, b.LinkURL, b.Position, b.Active, b.ID,
	)
	if err != nil {
		return fmt.Errorf("updating hero banner: %w", err)
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

// DeleteHeroBanner removes a banner by ID.
func (s *SQLiteStore) DeleteHeroBanner(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "hero_banners", id)
}

// CreateHomepageSection inserts a section and sets its generated ID.
func (s *SQLiteStore) CreateHomepageSection(ctx context.Context, sec *HomepageSection) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO homepage_sections (title, kind, category_id, position, active) VALUES (?, ?, ?, ?, ?)`,
		sec.Title, sec.Kind, sec.CategoryID, sec.Position, sec.Active,
	)
	if err != nil {
		return fmt.Errorf("inserting homepage section: %w", err)
	}

	sec.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading homepage section id: %w", err)
	}
	return nil
}

// ListHomepageSections returns sections ordered by position.
func (s *SQLiteStore) ListHomepageSections(ctx context.Context, activeOnly bool) ([]*HomepageSection, error) {
	query := `SELECT id, title, kind, category_id, position, active FROM homepage_sections`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY position, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing homepage sections: %w", err)
	}
	defer rows.Close()

	var sections []*HomepageSection
	for rows.Next() {
		var sec HomepageSection
		if err := rows.Scan(&sec.ID, &sec.Title, &sec.Kind, &sec.CategoryID, &sec.Position, &sec.Active); err != nil {
			return nil, fmt.Errorf("scanning homepage section: %w", err)
		}
		sections = append(sections, &sec)
	}
	return sections, rows.Err()
}

// UpdateHomepageSection updates a section's fields.
func (s *SQLiteStore) UpdateHomepageSection(ctx context.Context, sec *HomepageSection) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE homepage_sections SET title = ?, kind = ?, category_id = ?, position = ?, active = ? WHERE id = ?`,
		sec.Title, sec.Kind, sec.CategoryID, sec.Position, sec.Active, sec.ID,
	)
	if err != nil {
		return fmt.Errorf("updating homepage section: %w", err)
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

// DeleteHomepageSection removes a section by ID.
func (s *SQLiteStore) DeleteHomepageSection(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "homepage_sections", id)
}
