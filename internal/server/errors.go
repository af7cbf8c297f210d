// ABOUTME: Error taxonomy mapping for the HTTP boundary
// ABOUTME: Guard, store, and upstream errors become statuses; internals stay server-side

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/casebloom/casebloom/internal/auth"
	"github.com/casebloom/casebloom/internal/shipping"
	"github.com/casebloom/casebloom/internal/store"
)

// errValidation marks malformed client input. Wrap it with context:
// fmt.Errorf("%w: name is required", errValidation)
var errValidation = errors.New("validation failed")

// validationError builds a client-facing validation failure.
func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errValidation, fmt.Sprintf(format, args...))
}

// sendJSONError writes a JSON error response.
func (s *Server) sendJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeError converts an error to its boundary status. Authorization
// failures and validation messages pass through; everything else is logged
// and returned as a generic payload so internals never leak to clients.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		s.sendJSONError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, auth.ErrForbidden):
		s.sendJSONError(w, http.StatusForbidden, "insufficient role")
	case errors.Is(err, store.ErrNotFound):
		s.sendJSONError(w, http.StatusNotFound, "not found")
	case errors.Is(err, errValidation):
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrDuplicateSlug):
		s.sendJSONError(w, http.StatusBadRequest, "slug already exists")
	case errors.Is(err, shipping.ErrUpstream):
		s.logger.Error("upstream failure", "error", err)
		s.sendJSONError(w, http.StatusBadGateway, "upstream service failed")
	default:
		s.logger.Error("internal error", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}
