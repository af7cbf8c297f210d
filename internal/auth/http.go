// ABOUTME: Session cookie handling and role guards for HTTP endpoints
// ABOUTME: Provides GetSession, RequireAdmin/RequireRole, and middleware

package auth

import (
	"errors"
	"net/http"
	"time"
)

// SessionCookieName is the name of the session cookie.
const SessionCookieName = "casebloom_session"

// Guard errors, mapped to HTTP statuses at the request boundary.
var (
	// ErrUnauthorized means no valid session is present
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the session's role does not allow the operation
	ErrForbidden = errors.New("forbidden")
)

// GetSession reads the session cookie from the request and returns the
// embedded identity, or nil when the cookie is absent or unverifiable.
// Anonymous requests are an absence, not an error.
func (s *Sessions) GetSession(r *http.Request) *Identity {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil
	}
	return s.VerifyToken(cookie.Value)
}

// RequireAdmin returns the authenticated identity from the request, or
// ErrUnauthorized when none is present. Callers invoke it at the top of a
// privileged handler and must short-circuit on error.
func (s *Sessions) RequireAdmin(r *http.Request) (*Identity, error) {
	identity := s.GetSession(r)
	if identity == nil {
		return nil, ErrUnauthorized
	}
	return identity, nil
}

// RequireRole returns the authenticated identity if its role is one of the
// allowed roles. Returns ErrUnauthorized when unauthenticated and
// ErrForbidden when authenticated with an insufficient role.
func (s *Sessions) RequireRole(r *http.Request, allowed ...Role) (*Identity, error) {
	identity, err := s.RequireAdmin(r)
	if err != nil {
		return nil, err
	}
	for _, role := range allowed {
		if identity.Role == role {
			return identity, nil
		}
	}
	return nil, ErrForbidden
}

// Middleware attaches the session identity to the request context when a
// valid cookie is present. Anonymous requests pass through unchanged.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identity := s.GetSession(r); identity != nil {
			r = r.WithContext(WithIdentity(r.Context(), identity))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRoleHTTP creates an HTTP middleware that rejects requests without a
// valid session (401) or with a role outside the allowed set (403).
// Must be used after Middleware.
func RequireRoleHTTP(allowed ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := FromContext(r.Context())
			if identity == nil {
				http.Error(w, `{"error":"authentication required"}`, http.StatusUnauthorized)
				return
			}

			for _, role := range allowed {
				if identity.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			http.Error(w, `{"error":"insufficient role"}`, http.StatusForbidden)
		})
	}
}

// SetSessionCookie writes the session cookie carrying the signed token.
// The cookie is HttpOnly; secure should be true in production.
func SetSessionCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(SessionTTL),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie immediately.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
