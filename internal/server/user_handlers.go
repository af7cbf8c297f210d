// ABOUTME: Back-office account management handlers
// ABOUTME: Only admins may list or create accounts; password hashes never leave the server

package server

import (
	"errors"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/casebloom/casebloom/internal/auth"
	"github.com/casebloom/casebloom/internal/store"
)

// AdminUserResponse is the JSON shape for back-office accounts.
type AdminUserResponse struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name,omitempty"`
	Role     string  `json:"role"`
}

// AdminUserRequest is the JSON request body for creating an account.
type AdminUserRequest struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
}

const minPasswordLength = 8

func adminUserResponse(u *store.AdminUser) AdminUserResponse {
	return AdminUserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
	}
}

func (s *Server) handleListAdminUsers(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.RequireRole(r, auth.RoleAdmin); err != nil {
		s.writeError(w, err)
		return
	}
	users, err := s.store.ListAdminUsers(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]AdminUserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, adminUserResponse(u))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateAdminUser(w http.ResponseWriter, r *http.Request) {
	identity, err := s.sessions.RequireRole(r, auth.RoleAdmin)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req AdminUserRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Username == "" || req.Email == "" {
		s.writeError(w, validationError("username and email are required"))
		return
	}
	if len(req.Password) < minPasswordLength {
		s.writeError(w, validationError("password must be at least %d characters", minPasswordLength))
		return
	}
	if !auth.ValidRole(auth.Role(req.Role)) {
		s.writeError(w, validationError("invalid role %q", req.Role))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.writeError(w, err)
		return
	}
	user := &store.AdminUser{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		Role:         req.Role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateAdminUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			s.writeError(w, validationError("username already exists"))
			return
		}
		s.writeError(w, err)
		return
	}

	s.logger.Info("admin user created", "username", user.Username, "role", user.Role, "by", identity.Username)
	s.writeJSON(w, http.StatusCreated, adminUserResponse(user))
}
