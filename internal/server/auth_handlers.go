// ABOUTME: Login, logout, and current-identity handlers
// ABOUTME: Bad username and bad password produce the same response

package server

import (
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/casebloom/casebloom/internal/auth"
	"github.com/casebloom/casebloom/internal/store"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		s.writeError(w, validationError("username and password are required"))
		return
	}

	user, err := s.store.GetAdminUserByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		s.writeError(w, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		s.sendJSONError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	identity := &auth.Identity{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     auth.Role(user.Role),
	}
	token, err := s.sessions.CreateToken(identity)
	if err != nil {
		s.writeError(w, err)
		return
	}
	auth.SetSessionCookie(w, token, s.cookieSecure)

	s.logger.Info("admin login", "username", user.Username, "role", user.Role)
	s.writeJSON(w, http.StatusOK, identity)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, s.cookieSecure)
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, err := s.sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager, auth.RoleStaff)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, identity)
}
