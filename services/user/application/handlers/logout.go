package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/lvoinea/stuffkeeper/pkg/auth"
	"github.com/lvoinea/stuffkeeper/pkg/httpx"
)

// LogoutHandler handles POST /logout requests.
// It deletes the server-side session and expires the cookie. Logging out an
// unauthenticated request is a no-op success.
type LogoutHandler struct {
	store sessions.Store
}

// NewLogoutHandler returns a LogoutHandler over the given session store.
func NewLogoutHandler(store sessions.Store) *LogoutHandler {
	return &LogoutHandler{store: store}
}

// Execute ends the session.
func (h *LogoutHandler) Execute(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.Get(r, auth.SessionName)
	if err == nil {
		session.Options.MaxAge = -1
		_ = session.Save(r, w)
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}
