// ABOUTME: JWT session token minting and verification for admin identities
// ABOUTME: Uses HS256 signing with configurable secret and a 24h expiry

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is how long a session token stays valid after minting.
const SessionTTL = 24 * time.Hour

// ErrNoSecret is returned when constructing Sessions without a signing key.
// This is a fatal configuration error, not a runtime condition.
var ErrNoSecret = errors.New("session signing secret is empty")

// Role is a privilege level from the closed set gating admin operations.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// ValidRole reports whether r is a member of the closed role set.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

// Identity is the authenticated administrative identity embedded in a
// session token. It is created at login, verified per-request, and never
// mutated.
type Identity struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name,omitempty"`
	Role     Role    `json:"role"`
}

// sessionClaims is the JWT claim set carried by a session token.
type sessionClaims struct {
	UserID   int64   `json:"uid"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name,omitempty"`
	Role     string  `json:"role"`
	jwt.RegisteredClaims
}

// Sessions mints and verifies signed session tokens.
type Sessions struct {
	secret []byte
	ttl    time.Duration
}

// NewSessions creates a session issuer/verifier with the given HMAC secret.
// Returns ErrNoSecret if the secret is empty.
func NewSessions(secret []byte) (*Sessions, error) {
	if len(secret) == 0 {
		return nil, ErrNoSecret
	}
	return &Sessions{secret: secret, ttl: SessionTTL}, nil
}

// CreateToken produces a signed, time-bounded session token encoding the
// given identity.
func (s *Sessions) CreateToken(identity *Identity) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		UserID:   identity.ID,
		Username: identity.Username,
		Email:    identity.Email,
		FullName: identity.FullName,
		Role:     string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifyToken returns the identity embedded in the token if the signature is
// valid and the token has not expired, and nil otherwise. Malformed input,
// a bad signature, and expiry are indistinguishable to the caller: all yield
// nil, so failure reasons cannot be probed.
func (s *Sessions) VerifyToken(tokenString string) *Identity {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	role := Role(claims.Role)
	if !ValidRole(role) {
		return nil
	}

	return &Identity{
		ID:       claims.UserID,
		Username: claims.Username,
		Email:    claims.Email,
		FullName: claims.FullName,
		Role:     role,
	}
}
