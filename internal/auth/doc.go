// Package auth provides session authentication and role authorization for
// the casebloom admin API.
//
// # Session Model
//
// Admin identities are carried by a signed JWT session token in an HttpOnly
// cookie. Tokens are signed with HS256 using the configured jwt_secret and
// expire 24 hours after minting. A verified token always carries exactly one
// role from the closed set {admin, manager, staff}.
//
// Verification never returns an error: any failure (malformed token, bad
// signature, expiry, unknown role) yields a nil identity, so callers cannot
// distinguish failure reasons and the API cannot be probed for them.
//
// # Guards
//
// Privileged handlers call a guard first and short-circuit on error:
//
//	identity, err := sessions.RequireRole(r, auth.RoleAdmin, auth.RoleManager)
//	if err != nil {
//	    // map ErrUnauthorized->401, ErrForbidden->403 at the boundary
//	}
//
// The middleware variants (Middleware, RequireRoleHTTP) express the same
// checks as a handler chain: Middleware attaches the identity to the request
// context, RequireRoleHTTP rejects requests that lack an allowed role.
package auth
