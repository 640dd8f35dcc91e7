package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/lvoinea/stuffkeeper/pkg/auth"
	"github.com/lvoinea/stuffkeeper/pkg/errhttp"
	"github.com/lvoinea/stuffkeeper/pkg/httpx"
	"github.com/lvoinea/stuffkeeper/pkg/logger"
	pkgvalidator "github.com/lvoinea/stuffkeeper/pkg/validator"
	appsvcs "github.com/lvoinea/stuffkeeper/services/user/application/services"
)

// LoginRequest is the request body for POST /login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginHandler handles POST /login requests.
// A successful login issues a server-side session and sets the session cookie.
type LoginHandler struct {
	svc   *appsvcs.Services
	store sessions.Store
	log   logger.Logger
}

// NewLoginHandler returns a LoginHandler backed by the given services and
// session store.
func NewLoginHandler(svc *appsvcs.Services, store sessions.Store, log logger.Logger) *LoginHandler {
	return &LoginHandler{svc: svc, store: store, log: log}
}

// Execute verifies credentials and starts a session.
func (h *LoginHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[LoginRequest](w, r)
	if !ok {
		return
	}

	user, err := h.svc.User.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	session, err := h.store.Get(r, auth.SessionName)
	if err != nil {
		// A tampered cookie still yields a usable fresh session.
		h.log.WarnContext(r.Context(), "stale session cookie on login", "error", err)
	}
	session.Values[auth.SessionUserIDKey] = user.ID
	if err := session.Save(r, w); err != nil {
		h.log.ErrorContext(r.Context(), "failed to persist session", "error", err)
		httpx.JSONError(w, http.StatusInternalServerError, "failed to start session")
		return
	}

	httpx.JSON(w, http.StatusOK, user)
}
