// ABOUTME: Admin user persistence for back-office accounts
// ABOUTME: Stores bcrypt password hashes and the role assigned to each account

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateAdminUser creates a new admin user.
func (s *SQLiteStore) CreateAdminUser(ctx context.Context, u *AdminUser) error {
	u.CreatedAt = time.Now()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO admin_users (username, email, full_name, password_hash, role, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.FullName, u.PasswordHash, u.Role, formatTime(u.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err, "admin_users.username") {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("inserting admin user: %w", err)
	}

	u.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading admin user id: %w", err)
	}
	return nil
}

// GetAdminUser retrieves an admin user by ID.
func (s *SQLiteStore) GetAdminUser(ctx context.Context, id int64) (*AdminUser, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, full_name, password_hash, role, created_at FROM admin_users WHERE id = ?`, id)
	return scanAdminUser(row)
}

// GetAdminUserByUsername retrieves an admin user by username.
func (s *SQLiteStore) GetAdminUserByUsername(ctx context.Context, username string) (*AdminUser, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, full_name, password_hash, role, created_at FROM admin_users WHERE username = ?`,
		username)
	return scanAdminUser(row)
}

// ListAdminUsers returns all admin users.
func (s *SQLiteStore) ListAdminUsers(ctx context.Context) ([]*AdminUser, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, email, full_name, password_hash, role, created_at FROM admin_users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("listing admin users: %w", err)
	}
	defer rows.Close()

	var users []*AdminUser
	for rows.Next() {
		u, err := scanAdminUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CountAdminUsers returns the number of admin users.
func (s *SQLiteStore) CountAdminUsers(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admin_users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting admin users: %w", err)
	}
	return count, nil
}

func scanAdminUser(row rowScanner) (*AdminUser, error) {
	var u AdminUser
	var createdAt string
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.PasswordHash, &u.Role, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning admin user: %w", err)
	}
	u.CreatedAt = parseTime(createdAt)
	return &u, nil
}
