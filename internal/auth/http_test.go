// ABOUTME: Tests for session cookie extraction, role guards, and middleware
// ABOUTME: Covers the Unauthorized/Forbidden split and cookie lifecycle

package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func requestWithSession(t *testing.T, sessions *Sessions, identity *Identity) *http.Request {
	t.Helper()
	token, err := sessions.CreateToken(identity)
	if err != nil {
		t.Fatalf("CreateToken() error = %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	return req
}

func TestGetSession_NoCookie(t *testing.T) {
	sessions := newTestSessions(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := sessions.GetSession(req); got != nil {
		t.Errorf("GetSession() = %+v, want nil", got)
	}
}

func TestGetSession_BadCookie(t *testing.T) {
	sessions := newTestSessions(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "garbage"})
	if got := sessions.GetSession(req); got != nil {
		t.Errorf("GetSession() = %+v, want nil", got)
	}
}

func TestRequireAdmin_NoSession(t *testing.T) {
	sessions := newTestSessions(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := sessions.RequireAdmin(req)
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("RequireAdmin() error = %v, want ErrUnauthorized", err)
	}
}

func TestRequireRole(t *testing.T) {
	sessions := newTestSessions(t)

	tests := []struct {
		name     string
		identity *Identity
		allowed  []Role
		wantErr  error
	}{
		{
			name:     "admin allowed",
			identity: &Identity{ID: 1, Username: "ada", Email: "ada@x.com", Role: RoleAdmin},
			allowed:  []Role{RoleAdmin},
			wantErr:  nil,
		},
		{
			name:     "staff in multi-role set",
			identity: &Identity{ID: 2, Username: "sam", Email: "sam@x.com", Role: RoleStaff},
			allowed:  []Role{RoleAdmin, RoleManager, RoleStaff},
			wantErr:  nil,
		},
		{
			name:     "staff requesting admin-only",
			identity: &Identity{ID: 3, Username: "sam", Email: "sam@x.com", Role: RoleStaff},
			allowed:  []Role{RoleAdmin},
			wantErr:  ErrForbidden,
		},
		{
			name:     "manager requesting admin-only",
			identity: &Identity{ID: 4, Username: "mia", Email: "mia@x.com", Role: RoleManager},
			allowed:  []Role{RoleAdmin},
			wantErr:  ErrForbidden,
		},
		{
			name:    "unauthenticated",
			allowed: []Role{RoleAdmin},
			wantErr: ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.identity != nil {
				req = requestWithSession(t, sessions, tt.identity)
			} else {
				req = httptest.NewRequest(http.MethodGet, "/", nil)
			}

			identity, err := sessions.RequireRole(req, tt.allowed...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("RequireRole() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil {
				if identity == nil {
					t.Fatal("RequireRole() identity = nil, want identity")
				}
				if identity.ID != tt.identity.ID {
					t.Errorf("identity.ID = %d, want %d", identity.ID, tt.identity.ID)
				}
			}
		})
	}
}

func TestRequireRole_StaffScenario(t *testing.T) {
	sessions := newTestSessions(t)

	// Mint for a staff identity, verify immediately, then gate on admin
	identity := &Identity{ID: 1, Username: "a", Email: "a@x.com", Role: RoleStaff}
	req := requestWithSession(t, sessions, identity)

	got := sessions.GetSession(req)
	if got == nil || got.Role != RoleStaff {
		t.Fatalf("GetSession() = %+v, want staff identity", got)
	}

	_, err := sessions.RequireRole(req, RoleAdmin)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("RequireRole(admin) error = %v, want ErrForbidden", err)
	}
}

func TestMiddleware_AttachesIdentity(t *testing.T) {
	sessions := newTestSessions(t)

	var seen *Identity
	handler := sessions.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))

	req := requestWithSession(t, sessions, &Identity{ID: 9, Username: "ada", Email: "ada@x.com", Role: RoleAdmin})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen == nil || seen.ID != 9 {
		t.Errorf("identity in context = %+v, want ID 9", seen)
	}
}

func TestMiddleware_AnonymousPassesThrough(t *testing.T) {
	sessions := newTestSessions(t)

	var called bool
	handler := sessions.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if FromContext(r.Context()) != nil {
			t.Error("identity in context should be nil for anonymous request")
		}
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !called {
		t.Error("handler was not called")
	}
}

func TestRequireRoleHTTP(t *testing.T) {
	sessions := newTestSessions(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	chain := sessions.Middleware(RequireRoleHTTP(RoleAdmin, RoleManager)(next))

	tests := []struct {
		name     string
		identity *Identity
		want     int
	}{
		{name: "no session", want: http.StatusUnauthorized},
		{
			name:     "staff forbidden",
			identity: &Identity{ID: 1, Username: "sam", Email: "sam@x.com", Role: RoleStaff},
			want:     http.StatusForbidden,
		},
		{
			name:     "manager allowed",
			identity: &Identity{ID: 2, Username: "mia", Email: "mia@x.com", Role: RoleManager},
			want:     http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.identity != nil {
				req = requestWithSession(t, sessions, tt.identity)
			} else {
				req = httptest.NewRequest(http.MethodGet, "/", nil)
			}

			rec := httptest.NewRecorder()
			chain.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestSessionCookie_SetAndClear(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "token-value", true)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	c := cookies[0]
	if c.Name != SessionCookieName || c.Value != "token-value" {
		t.Errorf("cookie = %s=%s, want %s=token-value", c.Name, c.Value, SessionCookieName)
	}
	if !c.HttpOnly || !c.Secure {
		t.Error("cookie should be HttpOnly and Secure")
	}

	rec = httptest.NewRecorder()
	ClearSessionCookie(rec, true)
	cookies = rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 {
		t.Errorf("clear cookie = %+v, want MaxAge -1", cookies)
	}
}
