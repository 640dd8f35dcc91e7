package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lvoinea/stuffkeeper/pkg/auth"
	"github.com/lvoinea/stuffkeeper/pkg/httpx"
)

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// requireUser extracts the authenticated user id from the request context.
// Writes 401 and returns ok=false when the request is unauthenticated.
func requireUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := auth.UserIDFromCtx(r.Context())
	if err != nil {
		httpx.JSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return 0, false
	}
	return userID, true
}

// urlID parses the named chi URL parameter as a positive int64.
// Writes 400 and returns ok=false on a malformed id.
func urlID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return id, true
}
